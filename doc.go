// Package levelkit 是一个高基数分类特征工具包（Level Kit）。
//
// 设计要点：
// - Levels-first: 把多重隶属的分类属性压缩成有界、极性均衡的特征列
//   （打分 → 交错选择 → pivot 物化）
// - Replay-first: 选中的 level 集合随表登记（core.LevelRegistry），
//   部署期可精确还原训练期的列形状，缺席 level 补默认值
// - 存储可插拔：登记表可经 core.Store（内存/Redis）跨进程持久化，
//   特征列可经 Feast 在线取回
package levelkit

import (
	"github.com/rushteam/levelkit/core"
	"github.com/rushteam/levelkit/levels"
)

// 轻量 facade：便于用户直接 import "levelkit" 使用核心抽象。
type Frame = core.Frame
type Row = core.Row
type LevelRegistry = core.LevelRegistry
type Params = levels.Params
type AddParams = levels.AddParams

// GetBestLevels 与 AddBestLevels 的包级入口，语义见 levels 包。
var (
	GetBestLevels = levels.GetBestLevels
	AddBestLevels = levels.AddBestLevels
)
