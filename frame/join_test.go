package frame

import (
	"reflect"
	"testing"

	"github.com/rushteam/levelkit/core"
)

func joinFixtures() (*core.Frame, *core.Frame) {
	left := core.NewFrame([]string{"id", "outcome"}, []core.Row{
		{"id": "a", "outcome": "Y"},
		{"id": "b", "outcome": "N"},
		{"id": "c", "outcome": "Y"},
	})
	right := core.NewFrame([]string{"id", "insulin"}, []core.Row{
		{"id": "a", "insulin": 1.0},
		{"id": "b", "insulin": 0.0},
	})
	return left, right
}

func TestLeftJoin(t *testing.T) {
	left, right := joinFixtures()

	joined, err := LeftJoin(left, right, "id")
	if err != nil {
		t.Fatalf("LeftJoin() error = %v", err)
	}
	if !reflect.DeepEqual(joined.Columns(), []string{"id", "outcome", "insulin"}) {
		t.Errorf("columns = %v", joined.Columns())
	}
	if joined.NumRows() != 3 {
		t.Fatalf("rows = %d, want 3", joined.NumRows())
	}
	// Unmatched left rows survive with the right columns absent.
	last := joined.Row(2)
	if last["id"] != "c" || last["outcome"] != "Y" {
		t.Errorf("row 2 = %v", last)
	}
	if v, ok := last["insulin"]; ok && v != nil {
		t.Errorf("unmatched row must not carry right values, got %v", v)
	}
}

func TestInnerJoin(t *testing.T) {
	left, right := joinFixtures()

	joined, err := InnerJoin(left, right, "id")
	if err != nil {
		t.Fatalf("InnerJoin() error = %v", err)
	}
	if joined.NumRows() != 2 {
		t.Fatalf("rows = %d, want 2", joined.NumRows())
	}
	for i, want := range []core.Row{
		{"id": "a", "outcome": "Y", "insulin": 1.0},
		{"id": "b", "outcome": "N", "insulin": 0.0},
	} {
		if !reflect.DeepEqual(joined.Row(i), want) {
			t.Errorf("row %d = %v, want %v", i, joined.Row(i), want)
		}
	}
}

func TestJoinLeftValuesWin(t *testing.T) {
	left := core.NewFrame([]string{"id", "score"}, []core.Row{
		{"id": "a", "score": 1.0},
	})
	right := core.NewFrame([]string{"id", "score"}, []core.Row{
		{"id": "a", "score": 99.0},
	})
	joined, err := LeftJoin(left, right, "id")
	if err != nil {
		t.Fatalf("LeftJoin() error = %v", err)
	}
	if got := joined.Row(0)["score"]; got != 1.0 {
		t.Errorf("score = %v, want left value 1.0", got)
	}
}

func TestJoinMissingColumn(t *testing.T) {
	left, right := joinFixtures()
	if _, err := LeftJoin(left, right, "patient"); err == nil {
		t.Error("expected error for missing join column")
	}
	if _, err := InnerJoin(left, right, "patient"); err == nil {
		t.Error("expected error for missing join column")
	}
}

func TestJoinSkipsMissingKeys(t *testing.T) {
	left := core.NewFrame([]string{"id", "v"}, []core.Row{
		{"id": nil, "v": 1.0},
		{"id": "", "v": 2.0},
		{"id": "a", "v": 3.0},
	})
	right := core.NewFrame([]string{"id", "w"}, []core.Row{
		{"id": "a", "w": 9.0},
		{"id": nil, "w": 8.0},
	})

	inner, err := InnerJoin(left, right, "id")
	if err != nil {
		t.Fatalf("InnerJoin() error = %v", err)
	}
	if inner.NumRows() != 1 || inner.Row(0)["id"] != "a" {
		t.Errorf("missing keys must not match, got %v", inner.Rows())
	}

	outer, err := LeftJoin(left, right, "id")
	if err != nil {
		t.Fatalf("LeftJoin() error = %v", err)
	}
	if outer.NumRows() != 3 {
		t.Errorf("left join must keep all left rows, got %d", outer.NumRows())
	}
	if _, ok := outer.Row(0)["w"]; ok {
		t.Error("nil key row must not pick up right values")
	}
}

func TestDistinct(t *testing.T) {
	f := core.NewFrame([]string{"id", "drug", "dose"}, []core.Row{
		{"id": "a", "drug": "insulin", "dose": 10.0},
		{"id": "a", "drug": "insulin", "dose": 20.0},
		{"id": "a", "drug": "aspirin", "dose": 81.0},
		{"id": "b", "drug": "insulin", "dose": 10.0},
	})

	got := Distinct(f, "id", "drug")
	if !reflect.DeepEqual(got.Columns(), []string{"id", "drug"}) {
		t.Errorf("columns = %v", got.Columns())
	}
	want := []core.Row{
		{"id": "a", "drug": "insulin"},
		{"id": "a", "drug": "aspirin"},
		{"id": "b", "drug": "insulin"},
	}
	if !reflect.DeepEqual(got.Rows(), want) {
		t.Errorf("rows = %v, want %v", got.Rows(), want)
	}
}
