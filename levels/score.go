package levels

import (
	"context"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/levelkit/pkg/conv"
)

// OutcomeKind 标记结局列的打分机制：全数值走回归统计量，否则走分类统计量。
// 判别只在边界上做一次（detectOutcomeKind），之后显式传递。
type OutcomeKind int

const (
	// OutcomeNumeric 数值结局：one-sample t 型统计量
	OutcomeNumeric OutcomeKind = iota
	// OutcomeCategorical 分类结局：log-loss x 稀有度的 badness 统计量
	OutcomeCategorical
)

// detectOutcomeKind 检查分析表中全部结局观测：全为数值类型（不含 bool）
// 判为 OutcomeNumeric，其余判为 OutcomeCategorical。
func detectOutcomeKind(a *analysis) OutcomeKind {
	for _, level := range a.levelOrder {
		for _, v := range a.outcomes[level] {
			if !conv.IsNumeric(v) {
				return OutcomeCategorical
			}
		}
	}
	return OutcomeNumeric
}

// levelScore 是单个 level 的打分记录，仅在一次调用内存在。
type levelScore struct {
	level string

	// 回归：t 型统计量（符号即极性）
	stat float64

	// 分类：正类占比 / 稀有度 / badness（升序更优）/ 极性位
	frac      float64
	badness   float64
	predictor int
}

// parallelThreshold 低于此 level 数时串行打分，避免小数据的调度开销。
const parallelThreshold = 64

// scoreLevels 按结局机制给所有 level 打分，返回两个极性桶（各自最优在前）。
// 正极性桶在前：回归取统计量为正（含恰好为零）的 level，
// 分类取正类占比高于中位数的 level。
//
// 并发：level 数较多时用 errgroup 并行计算每组统计量，结果写入按索引
// 预分配的切片，随后统一做确定性排序，输出与执行顺序无关。
func scoreLevels(ctx context.Context, a *analysis, kind OutcomeKind, positiveClass string, maxConcurrent int) (positive, negative []string, err error) {
	if kind == OutcomeNumeric {
		return scoreRegression(ctx, a, maxConcurrent)
	}
	return scoreClassification(ctx, a, positiveClass, maxConcurrent)
}

// forEachLevel 对每个 level 执行 fn(i, level)，写入调用方按索引预分配的结果。
// level 数达到阈值时并行执行。
func forEachLevel(ctx context.Context, a *analysis, maxConcurrent int, fn func(i int, level string)) error {
	if len(a.levelOrder) < parallelThreshold {
		for i, level := range a.levelOrder {
			fn(i, level)
		}
		return nil
	}

	eg, _ := errgroup.WithContext(ctx)
	if maxConcurrent > 0 {
		eg.SetLimit(maxConcurrent)
	}
	for i, level := range a.levelOrder {
		i, level := i, level
		eg.Go(func() error {
			fn(i, level)
			return nil
		})
	}
	return eg.Wait()
}

// scoreRegression 回归统计量：
//
//	t(g) = centeredMean(g) / sqrt(sampleVar(g)/n)
//
// 其中结局先按全表均值中心化。组内方差为零（含 n=1）时该组结局完全一致，
// 视为信息量最大而不是非法：取带符号的无穷大，而不是让除零传播成 NaN。
func scoreRegression(ctx context.Context, a *analysis, maxConcurrent int) ([]string, []string, error) {
	// 全表均值（分析表的全部观测）
	sum, count := 0.0, 0
	for _, level := range a.levelOrder {
		for _, v := range a.outcomes[level] {
			f, _ := conv.ToFloat64(v)
			sum += f
			count++
		}
	}
	grand := sum / float64(count)

	scores := make([]levelScore, len(a.levelOrder))
	err := forEachLevel(ctx, a, maxConcurrent, func(i int, level string) {
		ys := a.outcomes[level]
		n := float64(len(ys))

		mean := 0.0
		for _, v := range ys {
			f, _ := conv.ToFloat64(v)
			mean += f - grand
		}
		mean /= n

		variance := 0.0
		if len(ys) > 1 {
			for _, v := range ys {
				f, _ := conv.ToFloat64(v)
				variance += (f - grand - mean) * (f - grand - mean)
			}
			variance /= n - 1
		}

		var stat float64
		switch {
		case variance > 0:
			stat = mean / math.Sqrt(variance/n)
		case mean > 0:
			stat = math.Inf(1)
		case mean < 0:
			stat = math.Inf(-1)
		default:
			stat = 0
		}
		scores[i] = levelScore{level: level, stat: stat}
	})
	if err != nil {
		return nil, nil, err
	}

	// 统一按 |t| 降序排序，同分按 level 名升序，保证可复现
	sort.Slice(scores, func(i, j int) bool {
		ai, aj := math.Abs(scores[i].stat), math.Abs(scores[j].stat)
		if ai != aj {
			return ai > aj
		}
		return scores[i].level < scores[j].level
	})

	var positive, negative []string
	for _, s := range scores {
		// 统计量恰为零归入正桶（固定选择，保证确定性）
		if s.stat >= 0 {
			positive = append(positive, s.level)
		} else {
			negative = append(negative, s.level)
		}
	}
	return positive, negative, nil
}

// scoreClassification 分类统计量。对每个 level：
//
//	frac    = 正类占比，连续性校正夹离 0/1 边界（0.5/total）
//	present = 含该 level 的去重实体数，覆盖全部实体时校正为 total-0.5
//	logDist = -log(present/total)，越稀有越大
//	predictor = frac 是否高于各组占比的中位数（极性按中位数劈分，
//	            不与 0.5 比较，结局先验偏斜时两桶仍然均衡）
//	logLoss = 预测本组典型类别对自身占比的对数损失
//	badness = logLoss * logDist，升序排序（越小越优）
//
// badness 两个因子的单调方向承自不同推导，是历史启发式；选择行为是对下游
// 的兼容性契约，刻意保持原样。
func scoreClassification(ctx context.Context, a *analysis, positiveClass string, maxConcurrent int) ([]string, []string, error) {
	total := float64(a.total)

	scores := make([]levelScore, len(a.levelOrder))
	err := forEachLevel(ctx, a, maxConcurrent, func(i int, level string) {
		ys := a.outcomes[level]
		n := float64(len(ys))

		positives := 0.0
		for _, v := range ys {
			if keyOf(v) == positiveClass {
				positives++
			}
		}

		frac := positives / n
		if frac >= 1 {
			frac = 1 - 0.5/total
		} else if frac <= 0 {
			frac = 0.5 / total
		}

		present := n
		if present >= total {
			present = total - 0.5
		}

		scores[i] = levelScore{
			level: level,
			frac:  frac,
			// badness 的 logDist 因子先存着，中位数算完再补 logLoss
			badness: -math.Log(present / total),
		}
	})
	if err != nil {
		return nil, nil, err
	}

	median := medianOf(scores)

	for i := range scores {
		s := &scores[i]
		if s.frac > median {
			s.predictor = 1
		}
		var logLoss float64
		if s.predictor == 1 {
			logLoss = -math.Log(s.frac)
		} else {
			logLoss = -math.Log(1 - s.frac)
		}
		s.badness *= logLoss
	}

	// 桶内按 badness 升序，同分按 level 名升序
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].badness != scores[j].badness {
			return scores[i].badness < scores[j].badness
		}
		return scores[i].level < scores[j].level
	})

	var positive, negative []string
	for _, s := range scores {
		if s.predictor == 1 {
			positive = append(positive, s.level)
		} else {
			negative = append(negative, s.level)
		}
	}
	return positive, negative, nil
}

// medianOf 取各组正类占比的中位数（偶数组取中间两数均值）。
func medianOf(scores []levelScore) float64 {
	fracs := make([]float64, len(scores))
	for i, s := range scores {
		fracs[i] = s.frac
	}
	sort.Float64s(fracs)
	n := len(fracs)
	if n%2 == 1 {
		return fracs[n/2]
	}
	return (fracs[n/2-1] + fracs[n/2]) / 2
}
