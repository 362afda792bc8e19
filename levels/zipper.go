package levels

// zip 交替合并两个已各自排好序的极性桶（best 在前）：
// best[0], second[0], best[1], second[1], ...
// 短桶耗尽后，长桶余下的尾部按原顺序整体追加，不再交错。
// 只有一个桶非空时直接返回该桶的顺序。
func zip(best, second []string) []string {
	if len(best) == 0 {
		return second
	}
	if len(second) == 0 {
		return best
	}

	out := make([]string, 0, len(best)+len(second))
	n := len(best)
	if len(second) < n {
		n = len(second)
	}
	for i := 0; i < n; i++ {
		out = append(out, best[i], second[i])
	}
	out = append(out, best[n:]...)
	out = append(out, second[n:]...)
	return out
}

// truncate 截断到前 n 个；总数不足 n 时全部返回，从不报错。
func truncate(levels []string, n int) []string {
	if n >= len(levels) {
		return levels
	}
	return levels[:n]
}
