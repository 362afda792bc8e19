package frame

import "sort"

// AggFunc 把一个分组单元内收集到的数值聚合为单个值。
// 传入的切片保证非空。
type AggFunc func(values []float64) float64

// Sum 求和（默认聚合；value 列缺省为常量 1 时即为出现次数）。
func Sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

// Mean 求均值。
func Mean(values []float64) float64 {
	return Sum(values) / float64(len(values))
}

// Max 求最大值。
func Max(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// Min 求最小值。
func Min(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// Count 计数（忽略具体取值）。
func Count(values []float64) float64 {
	return float64(len(values))
}

// Median 求中位数（偶数个取中间两数均值）。
func Median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// AggByName 按名称查找内置聚合函数，供配置驱动使用。
func AggByName(name string) (AggFunc, bool) {
	switch name {
	case "", "sum":
		return Sum, true
	case "mean", "avg":
		return Mean, true
	case "max":
		return Max, true
	case "min":
		return Min, true
	case "count":
		return Count, true
	case "median":
		return Median, true
	default:
		return nil, false
	}
}
