package frame

import (
	"fmt"
	"sort"

	"github.com/rushteam/levelkit/core"
	"github.com/rushteam/levelkit/pkg/conv"
)

// PivotOptions 是 Pivot 的参数。
type PivotOptions struct {
	// GrainCol 输出表的粒度列（实体 id），每个取值一行
	GrainCol string
	// SpreadCol 展开为列的分组属性列
	SpreadCol string
	// ValueCol 被聚合的取值列；为空时每次出现按常量 1 计（配合 Sum 即出现次数）
	ValueCol string
	// Agg 聚合函数，nil 时默认 Sum
	Agg AggFunc
	// Fill 某实体在某列上没有任何观测时的填充值
	Fill any
	// ExtraCols 长表中不存在、但仍要求物化为全填充列的 level
	// （部署期 replay 时训练期选中而当前数据缺席的 level）
	ExtraCols []string
}

// Pivot 把长表按 (grain, spread) 聚合并展开为宽表：每个 grain 一行，
// 每个 spread 取值一列，单元格为聚合后的值，无观测处为 Fill。
//
// 列顺序确定性：grain 列在前，随后是 spread 取值与 ExtraCols 的并集按字典序。
// 行顺序确定性：按 grain 在输入中的首次出现顺序。
func Pivot(f *core.Frame, opt PivotOptions) (*core.Frame, error) {
	if !f.HasColumn(opt.GrainCol) || !f.HasColumn(opt.SpreadCol) {
		return nil, core.NewDomainError(core.ModuleFrame, core.ErrorCodeInvalidInput,
			fmt.Sprintf("frame: pivot columns %q/%q missing", opt.GrainCol, opt.SpreadCol))
	}
	if opt.ValueCol != "" && !f.HasColumn(opt.ValueCol) {
		return nil, core.NewDomainError(core.ModuleFrame, core.ErrorCodeInvalidInput,
			fmt.Sprintf("frame: pivot value column %q missing", opt.ValueCol))
	}
	agg := opt.Agg
	if agg == nil {
		agg = Sum
	}

	// 收集每个 (grain, spread) 的取值
	type cell struct{ values []float64 }
	cells := make(map[string]map[string]*cell)
	grainOrder := make([]string, 0)
	grainValue := make(map[string]any)
	spreadSet := make(map[string]bool)

	for _, r := range f.Rows() {
		if missing(r[opt.GrainCol]) || missing(r[opt.SpreadCol]) {
			continue
		}
		gk := keyString(r[opt.GrainCol])
		sk := keyString(r[opt.SpreadCol])

		v := 1.0
		if opt.ValueCol != "" {
			fv, ok := conv.ToFloat64(r[opt.ValueCol])
			if !ok {
				return nil, core.NewDomainError(core.ModuleFrame, core.ErrorCodeInvalidInput,
					fmt.Sprintf("frame: non-numeric value in column %q for %s=%s", opt.ValueCol, opt.GrainCol, gk))
			}
			v = fv
		}

		if _, ok := cells[gk]; !ok {
			cells[gk] = make(map[string]*cell)
			grainOrder = append(grainOrder, gk)
			grainValue[gk] = r[opt.GrainCol]
		}
		c, ok := cells[gk][sk]
		if !ok {
			c = &cell{}
			cells[gk][sk] = c
		}
		c.values = append(c.values, v)
		spreadSet[sk] = true
	}

	for _, extra := range opt.ExtraCols {
		spreadSet[extra] = true
	}
	levelCols := make([]string, 0, len(spreadSet))
	for sk := range spreadSet {
		levelCols = append(levelCols, sk)
	}
	sort.Strings(levelCols)

	cols := append([]string{opt.GrainCol}, levelCols...)
	rows := make([]core.Row, 0, len(grainOrder))
	for _, gk := range grainOrder {
		r := make(core.Row, len(cols))
		r[opt.GrainCol] = grainValue[gk]
		for _, sk := range levelCols {
			if c, ok := cells[gk][sk]; ok {
				r[sk] = agg(c.values)
			} else {
				r[sk] = opt.Fill
			}
		}
		rows = append(rows, r)
	}
	return core.NewFrame(cols, rows), nil
}
