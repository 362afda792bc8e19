package levels

import (
	"fmt"

	"github.com/rushteam/levelkit/core"
	"github.com/rushteam/levelkit/frame"
	"github.com/rushteam/levelkit/pkg/dsl"
)

// analysis 是打分用的联表结果：每个 level 对应其去重实体的结局观测。
// 每次调用现建现弃，不跨调用保留。
type analysis struct {
	// levelOrder 按首次出现顺序记录 level，保证遍历确定性
	levelOrder []string
	// outcomes 每个 level 下去重实体的结局值（一实体一观测）
	outcomes map[string][]any
	// total 分析表中去重实体总数
	total int
}

// applyFilter 对长表应用 CEL 行过滤器；filter 为 nil 时原样返回。
func applyFilter(long *core.Frame, filter *dsl.Filter) (*core.Frame, error) {
	if filter == nil {
		return long, nil
	}
	rows := make([]core.Row, 0, long.NumRows())
	for _, r := range long.Rows() {
		ok, err := filter.Match(r)
		if err != nil {
			return nil, err
		}
		if ok {
			rows = append(rows, r)
		}
	}
	return core.NewFrame(long.Columns(), rows), nil
}

// buildAnalysis 构建分析表（presence join）：
//  1. 长表按 (id, group) 去重，一实体对某 level 的多条记录只算一次
//  2. 丢弃 id/group 缺失的行
//  3. 按 id 内连接宽表的结局列
//  4. 只保留去重实体数 >= minObs 的 level
//
// 无任何 level 达标时返回空分析表（非致命，调用方降级为空选集）。
func buildAnalysis(wide, long *core.Frame, idCol, groupCol, outcomeCol string, minObs int) (*analysis, error) {
	if !wide.HasColumn(outcomeCol) {
		return nil, core.NewDomainError(core.ModuleLevels, core.ErrorCodeMissingOutcomeColumn,
			fmt.Sprintf("levels: outcome column %q not found in wide table", outcomeCol))
	}
	if !wide.HasColumn(idCol) {
		return nil, core.NewDomainError(core.ModuleLevels, core.ErrorCodeInvalidParameter,
			fmt.Sprintf("levels: id column %q not found in wide table", idCol))
	}
	if !long.HasColumn(idCol) || !long.HasColumn(groupCol) {
		return nil, core.NewDomainError(core.ModuleLevels, core.ErrorCodeInvalidParameter,
			fmt.Sprintf("levels: columns %q/%q not found in long table", idCol, groupCol))
	}

	// 宽表裁剪为 (id, outcome) 两列
	outcomes := frame.Distinct(wide, idCol, outcomeCol)
	hasOutcome := false
	for _, r := range outcomes.Rows() {
		if !isMissing(r[idCol]) && !isMissing(r[outcomeCol]) {
			hasOutcome = true
			break
		}
	}
	if !hasOutcome {
		return nil, core.NewDomainError(core.ModuleLevels, core.ErrorCodeMissingOutcomeColumn,
			fmt.Sprintf("levels: outcome column %q is entirely missing", outcomeCol))
	}

	// (id, group) 去重后按 id 内连接结局；id 缺失或无结局行的行被连接丢弃
	dedup := frame.Distinct(long, idCol, groupCol)
	joined, err := frame.InnerJoin(dedup, outcomes, idCol)
	if err != nil {
		return nil, err
	}
	a := &analysis{outcomes: make(map[string][]any)}
	idsByLevel := make(map[string][]string)
	for _, r := range joined.Rows() {
		if isMissing(r[groupCol]) || isMissing(r[outcomeCol]) {
			continue
		}
		id := keyOf(r[idCol])
		outcome := r[outcomeCol]
		level := keyOf(r[groupCol])
		if _, seen := a.outcomes[level]; !seen {
			a.levelOrder = append(a.levelOrder, level)
		}
		a.outcomes[level] = append(a.outcomes[level], outcome)
		idsByLevel[level] = append(idsByLevel[level], id)
	}

	// 最小观测数过滤：去重后每行即一实体，观测数就是去重实体数
	if minObs > 1 {
		kept := a.levelOrder[:0]
		for _, level := range a.levelOrder {
			if len(a.outcomes[level]) >= minObs {
				kept = append(kept, level)
			} else {
				delete(a.outcomes, level)
				delete(idsByLevel, level)
			}
		}
		a.levelOrder = kept
	}

	// total 以过滤后的分析表为准
	entities := make(map[string]bool)
	for _, ids := range idsByLevel {
		for _, id := range ids {
			entities[id] = true
		}
	}
	a.total = len(entities)
	return a, nil
}

// empty 判断分析表是否无任何达标 level。
func (a *analysis) empty() bool { return len(a.levelOrder) == 0 }

func isMissing(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok && s == "" {
		return true
	}
	return false
}

// keyOf 把 id/level 归一化为 string key；level 的身份即值相等。
func keyOf(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
