package levels

import (
	"fmt"

	"github.com/rushteam/levelkit/core"
	"github.com/rushteam/levelkit/pkg/conv"
)

// LevelsArg 是显式 level 集合的带标签变体（replay 的四种来源）：
//   - LevelsFromFrame    历史增强宽表（读其登记表）
//   - LevelsFromCarrier  携带登记表的模型对象
//   - LevelsFromRegistry 原始登记映射
//   - LevelsFromList     直接给定的 level 列表
//
// 前三种按 "<group_col>_levels" 取条目，key 缺失时报 MISSING_LEVEL_SET_KEY；
// 列表则原样使用。
type LevelsArg interface {
	resolveLevels(key string) ([]string, error)
}

type levelsFromCarrier struct{ carrier core.RegistryCarrier }

func (v levelsFromCarrier) resolveLevels(key string) ([]string, error) {
	if v.carrier == nil {
		return nil, core.NewDomainError(core.ModuleLevels, core.ErrorCodeInvalidLevelsArg,
			"levels: nil levels source")
	}
	return v.carrier.LevelRegistry().Levels(key)
}

type levelsFromRegistry struct{ registry core.LevelRegistry }

func (v levelsFromRegistry) resolveLevels(key string) ([]string, error) {
	return v.registry.Levels(key)
}

type levelsFromList struct{ levels []string }

func (v levelsFromList) resolveLevels(string) ([]string, error) {
	out := make([]string, len(v.levels))
	copy(out, v.levels)
	return out, nil
}

// LevelsFromFrame 以历史增强宽表为 level 来源。
func LevelsFromFrame(f *core.Frame) LevelsArg {
	return levelsFromCarrier{carrier: f}
}

// LevelsFromCarrier 以携带登记表的模型对象为 level 来源。
func LevelsFromCarrier(c core.RegistryCarrier) LevelsArg {
	return levelsFromCarrier{carrier: c}
}

// LevelsFromRegistry 以原始登记映射为 level 来源。
func LevelsFromRegistry(r core.LevelRegistry) LevelsArg {
	return levelsFromRegistry{registry: r}
}

// LevelsFromList 直接给定 level 列表，原样使用。
func LevelsFromList(levels []string) LevelsArg {
	return levelsFromList{levels: levels}
}

// ResolveLevels 把动态来源（如 YAML/JSON 解析结果）归一化为 LevelsArg。
// 支持 *core.Frame、core.RegistryCarrier、core.LevelRegistry、
// map[string][]string、[]string、[]any；其余类型报 INVALID_LEVELS_ARGUMENT。
func ResolveLevels(v any) (LevelsArg, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case LevelsArg:
		return val, nil
	case *core.Frame:
		return LevelsFromFrame(val), nil
	case core.LevelRegistry:
		return LevelsFromRegistry(val), nil
	case map[string][]string:
		return LevelsFromRegistry(core.LevelRegistry(val)), nil
	case core.RegistryCarrier:
		return LevelsFromCarrier(val), nil
	case []string:
		return LevelsFromList(val), nil
	case []any:
		return LevelsFromList(conv.SliceAnyToString(val)), nil
	default:
		return nil, core.NewDomainError(core.ModuleLevels, core.ErrorCodeInvalidLevelsArg,
			fmt.Sprintf("levels: unsupported levels argument type %T (want frame, carrier, registry map, or list)", v))
	}
}
