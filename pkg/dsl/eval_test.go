package dsl

import (
	"testing"

	"github.com/rushteam/levelkit/core"
)

func TestNewFilterEmpty(t *testing.T) {
	f, err := NewFilter("")
	if err != nil {
		t.Fatalf("NewFilter(\"\") error = %v", err)
	}
	if f != nil {
		t.Error("empty expression must compile to nil filter")
	}
}

func TestNewFilterCompileError(t *testing.T) {
	if _, err := NewFilter("row.dose >"); err == nil {
		t.Error("expected compile error for malformed expression")
	}
}

func TestFilterMatch(t *testing.T) {
	tests := []struct {
		name string
		expr string
		row  core.Row
		want bool
	}{
		{
			name: "numeric comparison true",
			expr: `row.dose > 0.0`,
			row:  core.Row{"dose": 10.0},
			want: true,
		},
		{
			name: "numeric comparison false",
			expr: `row.dose > 0.0`,
			row:  core.Row{"dose": 0.0},
			want: false,
		},
		{
			name: "string equality",
			expr: `row.route == "oral"`,
			row:  core.Row{"route": "oral", "dose": 5.0},
			want: true,
		},
		{
			name: "conjunction",
			expr: `row.route == "oral" && row.dose > 1.0`,
			row:  core.Row{"route": "oral", "dose": 0.5},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewFilter(tt.expr)
			if err != nil {
				t.Fatalf("NewFilter(%q) error = %v", tt.expr, err)
			}
			got, err := f.Match(tt.row)
			if err != nil {
				t.Fatalf("Match() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterMatchNonBoolean(t *testing.T) {
	f, err := NewFilter(`row.dose + 1.0`)
	if err != nil {
		t.Fatalf("NewFilter() error = %v", err)
	}
	if _, err := f.Match(core.Row{"dose": 1.0}); err == nil {
		t.Error("expected error for non-boolean expression result")
	}
}

func TestFilterReuse(t *testing.T) {
	f, err := NewFilter(`row.dose >= 100.0`)
	if err != nil {
		t.Fatalf("NewFilter() error = %v", err)
	}
	for i, tc := range []struct {
		dose float64
		want bool
	}{{100, true}, {99, false}, {500, true}} {
		got, err := f.Match(core.Row{"dose": tc.dose})
		if err != nil {
			t.Fatalf("Match() #%d error = %v", i, err)
		}
		if got != tc.want {
			t.Errorf("Match(dose=%v) = %v, want %v", tc.dose, got, tc.want)
		}
	}
}
