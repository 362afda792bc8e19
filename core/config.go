package core

// SelectorConfig 是 level 选择相关的配置接口，用于提供默认值。
type SelectorConfig interface {
	// DefaultNLevels 返回默认选取的 level 数
	DefaultNLevels() int

	// DefaultMinObs 返回 level 入选所需的最小去重实体数
	DefaultMinObs() int

	// DefaultPositiveClass 返回分类结局的默认正类取值
	DefaultPositiveClass() string
}

// DefaultSelectorConfig 是默认的选择配置实现。
type DefaultSelectorConfig struct{}

func (c *DefaultSelectorConfig) DefaultNLevels() int {
	return 100
}

func (c *DefaultSelectorConfig) DefaultMinObs() int {
	return 1
}

func (c *DefaultSelectorConfig) DefaultPositiveClass() string {
	return "Y"
}
