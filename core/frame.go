package core

// Row 是表格中的一行，key 为列名。
// 缺失值的表示：key 不存在，或 value 为 nil。
type Row = map[string]any

// Frame 是贯穿 Levelkit 的表格抽象，承载宽表（每实体一行）与长表（每实体零到多行）。
//
// 设计要点：
//   - 列顺序是确定的（Cols），行内数据用 map 承载，便于快速原型与动态列
//   - Registry 是随表传递的显式旁路元数据（选中的 level 集合），
//     不依赖隐藏的属性槽位，跨调用链可直接读取
//   - 核心算法从不原地修改调用方的 Frame，只返回增强后的副本
type Frame struct {
	cols []string
	rows []Row

	// Registry 记录各分组属性选出的 level 集合，key 为 "<group_col>_levels"。
	// 多个分组属性在同一张表上链式调用时，条目会被合并而不是覆盖。
	Registry LevelRegistry
}

// NewFrame 创建一个 Frame。cols 定义列顺序，rows 按行承载数据。
func NewFrame(cols []string, rows []Row) *Frame {
	return &Frame{cols: cols, rows: rows}
}

// Columns 返回列名（只读副本）。
func (f *Frame) Columns() []string {
	out := make([]string, len(f.cols))
	copy(out, f.cols)
	return out
}

// HasColumn 检查列是否存在。
func (f *Frame) HasColumn(name string) bool {
	for _, c := range f.cols {
		if c == name {
			return true
		}
	}
	return false
}

// NumRows 返回行数。
func (f *Frame) NumRows() int { return len(f.rows) }

// Row 返回第 i 行（直接引用，调用方不应修改）。
func (f *Frame) Row(i int) Row { return f.rows[i] }

// Rows 返回所有行（直接引用，调用方不应修改）。
func (f *Frame) Rows() []Row { return f.rows }

// Column 按列取值，逐行返回；缺失的单元格返回 nil。
func (f *Frame) Column(name string) []any {
	out := make([]any, len(f.rows))
	for i, r := range f.rows {
		out[i] = r[name]
	}
	return out
}

// Clone 深拷贝行数据与 Registry，返回可安全修改的副本。
func (f *Frame) Clone() *Frame {
	rows := make([]Row, len(f.rows))
	for i, r := range f.rows {
		nr := make(Row, len(r))
		for k, v := range r {
			nr[k] = v
		}
		rows[i] = nr
	}
	out := &Frame{cols: f.Columns(), rows: rows}
	out.Registry = f.Registry.Clone()
	return out
}

// AppendColumns 在列定义末尾追加尚不存在的列名。
func (f *Frame) AppendColumns(names ...string) {
	for _, n := range names {
		if !f.HasColumn(n) {
			f.cols = append(f.cols, n)
		}
	}
}

// LevelRegistry 实现 RegistryCarrier，使 Frame 可以直接作为 levels 来源。
func (f *Frame) LevelRegistry() LevelRegistry { return f.Registry }
