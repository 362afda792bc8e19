package config

import (
	"context"
	"reflect"
	"testing"

	"github.com/rushteam/levelkit/core"
)

func TestParse(t *testing.T) {
	data := []byte(`
levels:
  - id: patient_id
    group: drug
    outcome: outcome
    n_levels: 20
    min_obs: 2
    positive_class: "Y"
    fill: dose
    agg: sum
    missing_fill: 0.0
    filter: 'row.dose > 0.0'
  - id: patient_id
    group: diagnosis
    outcome: outcome
    replay: [E11, I10]
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(cfg.Levels) != 2 {
		t.Fatalf("len(Levels) = %d, want 2", len(cfg.Levels))
	}

	first := cfg.Levels[0]
	if first.Group != "drug" || first.NLevels != 20 || first.MinObs != 2 {
		t.Errorf("first spec = %+v", first)
	}
	if first.Filter != "row.dose > 0.0" {
		t.Errorf("filter = %q", first.Filter)
	}
	if first.MissingFill != 0.0 {
		t.Errorf("missing_fill = %v (%T)", first.MissingFill, first.MissingFill)
	}
	if !reflect.DeepEqual(cfg.Levels[1].Replay, []string{"E11", "I10"}) {
		t.Errorf("replay = %v", cfg.Levels[1].Replay)
	}
}

func TestParseInvalidYAML(t *testing.T) {
	if _, err := Parse([]byte("levels: [")); err == nil {
		t.Error("expected parse error")
	}
}

func TestAddParamsUnknownAgg(t *testing.T) {
	spec := LevelSpec{ID: "id", Group: "drug", Outcome: "outcome", Agg: "p99"}
	if _, err := spec.AddParams(); err == nil {
		t.Error("expected error for unknown agg name")
	}
}

func TestAddParamsReplay(t *testing.T) {
	spec := LevelSpec{ID: "id", Group: "drug", Replay: []string{"insulin"}}
	p, err := spec.AddParams()
	if err != nil {
		t.Fatalf("AddParams() error = %v", err)
	}
	if p.Levels == nil {
		t.Error("replay list must bind the Levels argument")
	}
}

func TestApply(t *testing.T) {
	wide := core.NewFrame([]string{"id", "outcome"}, []core.Row{
		{"id": "a", "outcome": "Y"},
		{"id": "b", "outcome": "N"},
	})
	long := core.NewFrame([]string{"id", "drug"}, []core.Row{
		{"id": "a", "drug": "insulin"},
		{"id": "b", "drug": "aspirin"},
	})
	cfg, err := Parse([]byte(`
levels:
  - id: id
    group: drug
    outcome: outcome
    n_levels: 2
    missing_fill: 0.0
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	out, err := cfg.Apply(context.Background(), wide, long)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	got := out.LevelRegistry()
	if len(got["drug_levels"]) != 2 {
		t.Errorf("registry = %v", got)
	}
	if !out.HasColumn("insulin") || !out.HasColumn("aspirin") {
		t.Errorf("columns = %v", out.Columns())
	}
	// The input frame is never mutated.
	if wide.HasColumn("insulin") {
		t.Error("Apply must not mutate the input frame")
	}
}
