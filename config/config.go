// Package config 提供配置驱动的 level 特征工程：用 YAML 描述一个或多个
// 分组属性的选择/物化参数，按顺序应用到同一张宽表上（登记条目逐次合并）。
package config

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/levelkit/core"
	"github.com/rushteam/levelkit/frame"
	"github.com/rushteam/levelkit/levels"
)

// Config 是 Levelkit 的配置结构（YAML）。
type Config struct {
	Levels []LevelSpec `yaml:"levels"`
}

// LevelSpec 是单个分组属性的配置。
type LevelSpec struct {
	// ID 实体 id 列
	ID string `yaml:"id"`
	// Group 分组属性列
	Group string `yaml:"group"`
	// Outcome 结局列（给定 Replay 时可省略）
	Outcome string `yaml:"outcome"`
	// NLevels 选取的 level 上限（0 用默认 100）
	NLevels int `yaml:"n_levels"`
	// MinObs 最小去重实体数（0 用默认 1）
	MinObs int `yaml:"min_obs"`
	// PositiveClass 分类结局正类取值（空用默认 "Y"）
	PositiveClass string `yaml:"positive_class"`
	// Fill 被聚合的取值列；空则按出现计 1
	Fill string `yaml:"fill"`
	// Agg 聚合函数名：sum/mean/max/min/count/median（空为 sum）
	Agg string `yaml:"agg"`
	// MissingFill 无观测处的填充值
	MissingFill any `yaml:"missing_fill"`
	// Filter 可选的 CEL 行过滤表达式
	Filter string `yaml:"filter"`
	// Replay 显式 level 列表；非空时跳过选择直接物化
	Replay []string `yaml:"replay"`
}

// LoadFromYAML 从 YAML 文件加载配置。
func LoadFromYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return Parse(data)
}

// Parse 解析 YAML 配置内容。
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return &cfg, nil
}

// AddParams 把配置项转换为 levels.AddParams。
func (s LevelSpec) AddParams() (levels.AddParams, error) {
	agg, ok := frame.AggByName(s.Agg)
	if !ok {
		return levels.AddParams{}, core.NewDomainError(core.ModuleLevels, core.ErrorCodeInvalidParameter,
			fmt.Sprintf("config: unknown agg function %q", s.Agg))
	}

	p := levels.AddParams{
		Params: levels.Params{
			IDCol:         s.ID,
			GroupCol:      s.Group,
			OutcomeCol:    s.Outcome,
			NLevels:       s.NLevels,
			MinObs:        s.MinObs,
			PositiveClass: s.PositiveClass,
			Filter:        s.Filter,
		},
		FillCol:     s.Fill,
		Agg:         agg,
		MissingFill: s.MissingFill,
	}
	if len(s.Replay) > 0 {
		p.Levels = levels.LevelsFromList(s.Replay)
	}
	return p, nil
}

// Apply 按配置顺序对宽表应用所有 LevelSpec，返回带合并登记表的增强副本。
func (c *Config) Apply(ctx context.Context, wide, long *core.Frame) (*core.Frame, error) {
	cur := wide
	for i, spec := range c.Levels {
		p, err := spec.AddParams()
		if err != nil {
			return nil, err
		}
		next, err := levels.AddBestLevels(ctx, cur, long, p)
		if err != nil {
			return nil, fmt.Errorf("apply level spec %d (%s): %w", i, spec.Group, err)
		}
		cur = next
	}
	return cur, nil
}
