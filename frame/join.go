package frame

import (
	"fmt"

	"github.com/rushteam/levelkit/core"
)

// 注意：此包实现 Levelkit 所需的关系运算（join / distinct / pivot），
// 接口约定见 core 包的 Frame 类型。所有运算都返回新 Frame，不修改输入。

// missing 判断单元格是否视为缺失：nil 或空字符串。
func missing(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok && s == "" {
		return true
	}
	return false
}

// keyString 把 join/group key 归一化为 map key。
func keyString(v any) string {
	return fmt.Sprintf("%v", v)
}

// InnerJoin 按 on 列做内连接：保留左表中能在右表找到匹配的行，
// 并把右表匹配行的列并入（左表已有的列不被覆盖）。
// 右表按 on 去重后应当每个 key 一行（宽表语义）；出现多行时取第一行。
func InnerJoin(left, right *core.Frame, on string) (*core.Frame, error) {
	if !left.HasColumn(on) || !right.HasColumn(on) {
		return nil, core.NewDomainError(core.ModuleFrame, core.ErrorCodeInvalidInput,
			fmt.Sprintf("frame: join column %q missing", on))
	}

	index := indexByKey(right, on)

	cols := joinedColumns(left, right)
	rows := make([]core.Row, 0, left.NumRows())
	for _, lr := range left.Rows() {
		if missing(lr[on]) {
			continue
		}
		rr, ok := index[keyString(lr[on])]
		if !ok {
			continue
		}
		rows = append(rows, mergeRows(lr, rr))
	}
	return core.NewFrame(cols, rows), nil
}

// LeftJoin 按 on 列做左连接：保留左表所有行，右表无匹配时右表列缺失（nil）。
func LeftJoin(left, right *core.Frame, on string) (*core.Frame, error) {
	if !left.HasColumn(on) || !right.HasColumn(on) {
		return nil, core.NewDomainError(core.ModuleFrame, core.ErrorCodeInvalidInput,
			fmt.Sprintf("frame: join column %q missing", on))
	}

	index := indexByKey(right, on)

	cols := joinedColumns(left, right)
	rows := make([]core.Row, 0, left.NumRows())
	for _, lr := range left.Rows() {
		if rr, ok := index[keyString(lr[on])]; ok && !missing(lr[on]) {
			rows = append(rows, mergeRows(lr, rr))
			continue
		}
		nr := make(core.Row, len(lr))
		for k, v := range lr {
			nr[k] = v
		}
		rows = append(rows, nr)
	}
	return core.NewFrame(cols, rows), nil
}

// Distinct 按指定列组合去重，保留首次出现的行，输出只含这些列。
func Distinct(f *core.Frame, cols ...string) *core.Frame {
	seen := make(map[string]bool, f.NumRows())
	rows := make([]core.Row, 0, f.NumRows())
	for _, r := range f.Rows() {
		key := ""
		for _, c := range cols {
			key += keyString(r[c]) + "\x00"
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		nr := make(core.Row, len(cols))
		for _, c := range cols {
			nr[c] = r[c]
		}
		rows = append(rows, nr)
	}
	out := make([]string, len(cols))
	copy(out, cols)
	return core.NewFrame(out, rows)
}

// indexByKey 建立 key -> 首行 的索引，跳过缺失 key。
func indexByKey(f *core.Frame, on string) map[string]core.Row {
	index := make(map[string]core.Row, f.NumRows())
	for _, r := range f.Rows() {
		if missing(r[on]) {
			continue
		}
		k := keyString(r[on])
		if _, ok := index[k]; !ok {
			index[k] = r
		}
	}
	return index
}

func joinedColumns(left, right *core.Frame) []string {
	cols := left.Columns()
	have := make(map[string]bool, len(cols))
	for _, c := range cols {
		have[c] = true
	}
	for _, c := range right.Columns() {
		if !have[c] {
			cols = append(cols, c)
		}
	}
	return cols
}

func mergeRows(left, right core.Row) core.Row {
	nr := make(core.Row, len(left)+len(right))
	for k, v := range right {
		nr[k] = v
	}
	for k, v := range left {
		nr[k] = v
	}
	return nr
}
