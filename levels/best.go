// Package levels 把高基数、多重隶属的分类属性（如患者的用药列表）压缩成
// 一小组特征列：给每个 level 按其与结局的关联打分，按极性交错选出有界且
// 均衡的子集，再通过 pivot 物化到宽表上。选中的集合写入 core.LevelRegistry，
// 部署时可以精确 replay 出训练期的列形状。
package levels

import (
	"context"
	"fmt"

	"github.com/rushteam/levelkit/core"
	"github.com/rushteam/levelkit/frame"
	"github.com/rushteam/levelkit/pkg/dsl"
)

var defaults core.SelectorConfig = &core.DefaultSelectorConfig{}

// Params 是 level 选择的参数。零值字段使用默认值：
// NLevels=100、MinObs=1、PositiveClass="Y"。
type Params struct {
	// IDCol 实体 id 列（宽表与长表共有）
	IDCol string
	// GroupCol 长表中待展开的分组属性列
	GroupCol string
	// OutcomeCol 宽表中的结局列；数值结局走回归统计量，否则走分类统计量
	OutcomeCol string
	// NLevels 选取的 level 上限；达标 level 不足时全部返回
	NLevels int
	// MinObs level 入选所需的最小去重实体数
	MinObs int
	// PositiveClass 分类结局的正类取值
	PositiveClass string
	// Filter 可选的 CEL 行过滤表达式，作用于长表（见 pkg/dsl）
	Filter string
	// MaxConcurrent 并行打分的最大并发数（0 表示不限制）
	MaxConcurrent int
}

// withDefaults 应用默认值并校验参数。
func (p Params) withDefaults() (Params, error) {
	if p.NLevels < 0 || p.MinObs < 0 {
		return p, core.NewDomainError(core.ModuleLevels, core.ErrorCodeInvalidParameter,
			fmt.Sprintf("levels: n_levels(%d)/min_obs(%d) must be non-negative", p.NLevels, p.MinObs))
	}
	if p.NLevels == 0 {
		p.NLevels = defaults.DefaultNLevels()
	}
	if p.MinObs == 0 {
		p.MinObs = defaults.DefaultMinObs()
	}
	if p.PositiveClass == "" {
		p.PositiveClass = defaults.DefaultPositiveClass()
	}
	return p, nil
}

// GetBestLevels 选出分组属性下最有信息量、极性均衡的 level 有序列表。
// 纯函数：不修改输入，不写登记表。
//
// 流程：长表 (id, group) 去重联结结局 → 按结局机制打分 → 极性交错 → 截断。
// 最小观测数过滤后无任何 level 达标时返回空列表（合法结果，不报错）。
func GetBestLevels(ctx context.Context, wide, long *core.Frame, p Params) ([]string, error) {
	p, err := p.withDefaults()
	if err != nil {
		return nil, err
	}

	filter, err := dsl.NewFilter(p.Filter)
	if err != nil {
		return nil, err
	}
	filtered, err := applyFilter(long, filter)
	if err != nil {
		return nil, err
	}

	a, err := buildAnalysis(wide, filtered, p.IDCol, p.GroupCol, p.OutcomeCol, p.MinObs)
	if err != nil {
		return nil, err
	}
	if a.empty() {
		// NO_QUALIFYING_LEVELS：没有有用的 level 是合法结果，降级为空选集
		return []string{}, nil
	}

	positive, negative, err := scoreLevels(ctx, a, detectOutcomeKind(a), p.PositiveClass, p.MaxConcurrent)
	if err != nil {
		return nil, err
	}
	return truncate(zip(positive, negative), p.NLevels), nil
}

// AddParams 是 AddBestLevels 的参数：选择参数加物化参数。
type AddParams struct {
	Params

	// Levels 显式指定 level 集合（replay）；为 nil 时调用选择器现选。
	// 见 LevelsFromFrame / LevelsFromCarrier / LevelsFromRegistry / LevelsFromList。
	Levels LevelsArg
	// FillCol 长表中被聚合的取值列（如剂量）；为空时按出现计 1
	FillCol string
	// Agg 聚合函数，nil 时默认 frame.Sum
	Agg frame.AggFunc
	// MissingFill 实体在某 level 上无观测时的填充值（默认 nil，即缺失）
	MissingFill any
}

// AddBestLevels 把选中（或显式给定）的 level 集合物化为宽表上的新列，
// 并把该集合并入输出表的登记表。
//
// replay 契约：Levels 给定时完全按给定集合物化——当前长表中缺席的 level
// 也会出现为全 MissingFill 列，保证部署期特征向量与训练期形状一致。
// 输入表从不原地修改；登记表按 key 合并，支持多个分组属性链式调用。
func AddBestLevels(ctx context.Context, wide, long *core.Frame, p AddParams) (*core.Frame, error) {
	params, err := p.Params.withDefaults()
	if err != nil {
		return nil, err
	}
	key := core.LevelSetKey(params.GroupCol)

	var selected []string
	if p.Levels != nil {
		selected, err = p.Levels.resolveLevels(key)
	} else {
		selected, err = GetBestLevels(ctx, wide, long, params)
	}
	if err != nil {
		return nil, err
	}

	out := wide.Clone()
	entry := make([]string, len(selected))
	copy(entry, selected)
	out.Registry = out.Registry.Merge(core.LevelRegistry{key: entry})
	if len(selected) == 0 {
		// 空选集：宽表原样返回，仅带空登记条目
		return out, nil
	}

	filter, err := dsl.NewFilter(params.Filter)
	if err != nil {
		return nil, err
	}
	filtered, err := applyFilter(long, filter)
	if err != nil {
		return nil, err
	}

	// 把选集对当前长表劈分为 present / absent。
	// id 缺失的行不算 present：pivot 会丢弃它们，若据此判为 present，
	// 该 level 既不会被 pivot 出列也不会走 ExtraCols，列形状就破了
	occurs := make(map[string]bool)
	pivotable := filtered.HasColumn(params.IDCol) && filtered.HasColumn(params.GroupCol)
	if pivotable {
		for _, r := range filtered.Rows() {
			if !isMissing(r[params.IDCol]) && !isMissing(r[params.GroupCol]) {
				occurs[keyOf(r[params.GroupCol])] = true
			}
		}
	}
	wanted := make(map[string]bool, len(selected))
	var absent []string
	for _, level := range selected {
		wanted[level] = true
		if !occurs[level] {
			absent = append(absent, level)
		}
	}

	// 当前长表连必需的列都没有（极端 replay 场景）：全部 level 物化为全填充列
	if !pivotable {
		out.AppendColumns(selected...)
		for _, r := range out.Rows() {
			for _, level := range selected {
				r[level] = p.MissingFill
			}
		}
		return out, nil
	}

	// 长表只保留选中的 level，再交给 pivot 物化
	keep := make([]core.Row, 0, filtered.NumRows())
	for _, r := range filtered.Rows() {
		if !isMissing(r[params.GroupCol]) && wanted[keyOf(r[params.GroupCol])] {
			keep = append(keep, r)
		}
	}
	pivoted, err := frame.Pivot(core.NewFrame(filtered.Columns(), keep), frame.PivotOptions{
		GrainCol:  params.IDCol,
		SpreadCol: params.GroupCol,
		ValueCol:  p.FillCol,
		Agg:       p.Agg,
		Fill:      p.MissingFill,
		ExtraCols: absent,
	})
	if err != nil {
		return nil, err
	}

	joined, err := frame.LeftJoin(out, pivoted, params.IDCol)
	if err != nil {
		return nil, err
	}

	// 一个选中 level 都没有的实体在 left join 后整行缺失，补上 MissingFill
	for _, r := range joined.Rows() {
		for _, level := range selected {
			if _, ok := r[level]; !ok {
				r[level] = p.MissingFill
			}
		}
	}
	joined.Registry = out.Registry
	return joined, nil
}
