package core

// LevelRegistry 是 level 集合的登记表：key 为 "<group_col>_levels"，
// value 为训练时选出的 level 有序列表。
//
// 使用场景：
//   - 训练时：AddBestLevels 把选中的 level 集合写入输出表的 Registry
//   - 部署时：从历史输出表 / 模型对象 / 原始映射中读回同一集合，
//     保证部署期特征列与训练期形状一致（replay）
type LevelRegistry map[string][]string

// RegistryCarrier 是携带 LevelRegistry 的对象接口。
// *Frame 实现此接口；训练好的模型对象也可以实现它，作为 levels 的来源。
type RegistryCarrier interface {
	LevelRegistry() LevelRegistry
}

// LevelSetKey 返回分组属性对应的登记 key，例如 "drug" -> "drug_levels"。
func LevelSetKey(groupCol string) string {
	return groupCol + "_levels"
}

// Clone 深拷贝登记表；nil 登记表返回空表。
func (r LevelRegistry) Clone() LevelRegistry {
	out := make(LevelRegistry, len(r))
	for k, v := range r {
		levels := make([]string, len(v))
		copy(levels, v)
		out[k] = levels
	}
	return out
}

// Merge 合并 other 的条目并返回新登记表，同名 key 以 other 为准，原表不变。
func (r LevelRegistry) Merge(other LevelRegistry) LevelRegistry {
	out := r.Clone()
	for k, v := range other {
		levels := make([]string, len(v))
		copy(levels, v)
		out[k] = levels
	}
	return out
}

// Levels 读取某个分组属性的 level 集合；key 不存在时返回 MissingLevelSetKey 错误。
func (r LevelRegistry) Levels(key string) ([]string, error) {
	v, ok := r[key]
	if !ok {
		return nil, NewDomainError(ModuleLevels, ErrorCodeMissingLevelSetKey,
			"registry: level set key "+key+" not found")
	}
	out := make([]string, len(v))
	copy(out, v)
	return out, nil
}
