package frame

import (
	"reflect"
	"testing"

	"github.com/rushteam/levelkit/core"
)

func TestPivot(t *testing.T) {
	long := core.NewFrame([]string{"id", "drug", "dose"}, []core.Row{
		{"id": "a", "drug": "insulin", "dose": 10.0},
		{"id": "a", "drug": "insulin", "dose": 5.0},
		{"id": "a", "drug": "aspirin", "dose": 81.0},
		{"id": "b", "drug": "aspirin", "dose": 162.0},
	})

	tests := []struct {
		name string
		opt  PivotOptions
		want map[string]core.Row
		cols []string
	}{
		{
			name: "sum of value column with fill",
			opt: PivotOptions{
				GrainCol: "id", SpreadCol: "drug", ValueCol: "dose", Agg: Sum, Fill: 0.0,
			},
			cols: []string{"id", "aspirin", "insulin"},
			want: map[string]core.Row{
				"a": {"id": "a", "insulin": 15.0, "aspirin": 81.0},
				"b": {"id": "b", "insulin": 0.0, "aspirin": 162.0},
			},
		},
		{
			name: "no value column counts presence",
			opt: PivotOptions{
				GrainCol: "id", SpreadCol: "drug", Agg: Sum, Fill: 0.0,
			},
			cols: []string{"id", "aspirin", "insulin"},
			want: map[string]core.Row{
				"a": {"id": "a", "insulin": 2.0, "aspirin": 1.0},
				"b": {"id": "b", "insulin": 0.0, "aspirin": 1.0},
			},
		},
		{
			name: "extra cols materialize as all-fill",
			opt: PivotOptions{
				GrainCol: "id", SpreadCol: "drug", ValueCol: "dose", Agg: Max, Fill: -1.0,
				ExtraCols: []string{"warfarin"},
			},
			cols: []string{"id", "aspirin", "insulin", "warfarin"},
			want: map[string]core.Row{
				"a": {"id": "a", "insulin": 10.0, "aspirin": 81.0, "warfarin": -1.0},
				"b": {"id": "b", "insulin": -1.0, "aspirin": 162.0, "warfarin": -1.0},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Pivot(long, tt.opt)
			if err != nil {
				t.Fatalf("Pivot() error = %v", err)
			}
			if !reflect.DeepEqual(got.Columns(), tt.cols) {
				t.Errorf("columns = %v, want %v", got.Columns(), tt.cols)
			}
			if got.NumRows() != len(tt.want) {
				t.Fatalf("rows = %d, want %d", got.NumRows(), len(tt.want))
			}
			for _, r := range got.Rows() {
				id := r["id"].(string)
				if !reflect.DeepEqual(r, tt.want[id]) {
					t.Errorf("row %s = %v, want %v", id, r, tt.want[id])
				}
			}
		})
	}
}

func TestPivotMissingColumns(t *testing.T) {
	long := core.NewFrame([]string{"id"}, nil)

	if _, err := Pivot(long, PivotOptions{GrainCol: "id", SpreadCol: "drug"}); err == nil {
		t.Error("expected error for missing spread column")
	}
	if _, err := Pivot(long, PivotOptions{GrainCol: "nope", SpreadCol: "id"}); err == nil {
		t.Error("expected error for missing grain column")
	}
}

func TestPivotNonNumericValue(t *testing.T) {
	long := core.NewFrame([]string{"id", "drug", "dose"}, []core.Row{
		{"id": "a", "drug": "insulin", "dose": "high"},
	})
	_, err := Pivot(long, PivotOptions{GrainCol: "id", SpreadCol: "drug", ValueCol: "dose"})
	if err == nil {
		t.Error("expected error for non-numeric value column")
	}
}

func TestAggByName(t *testing.T) {
	if _, ok := AggByName("sum"); !ok {
		t.Error("sum not registered")
	}
	if _, ok := AggByName(""); !ok {
		t.Error("empty name must default to sum")
	}
	if _, ok := AggByName("p99"); ok {
		t.Error("unknown agg accepted")
	}

	if got := Mean([]float64{1, 2, 3}); got != 2 {
		t.Errorf("Mean = %v", got)
	}
	if got := Median([]float64{1, 2, 3, 10}); got != 2.5 {
		t.Errorf("Median = %v", got)
	}
	if got := Count([]float64{4, 4}); got != 2 {
		t.Errorf("Count = %v", got)
	}
	if got := Min([]float64{4, -1, 3}); got != -1 {
		t.Errorf("Min = %v", got)
	}
}
