package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rushteam/levelkit/core"
)

// 注意：此包只包含实现，接口定义在 core 包（core.Store）。
// 登记表以 JSON 存为单个 key，跨进程 replay 时整体读回。

// registryKeyPrefix 是登记表在 Store 中的 key 前缀。
const registryKeyPrefix = "levelkit:registry:"

// SaveRegistry 把登记表以 JSON 写入 Store，name 区分不同的训练产物。
func SaveRegistry(ctx context.Context, s core.Store, name string, reg core.LevelRegistry, ttl ...int) error {
	data, err := json.Marshal(reg)
	if err != nil {
		return fmt.Errorf("marshal registry: %w", err)
	}
	return s.Set(ctx, registryKeyPrefix+name, data, ttl...)
}

// LoadRegistry 从 Store 读回登记表；name 不存在时返回 core.ErrStoreNotFound。
func LoadRegistry(ctx context.Context, s core.Store, name string) (core.LevelRegistry, error) {
	data, err := s.Get(ctx, registryKeyPrefix+name)
	if err != nil {
		return nil, err
	}
	var reg core.LevelRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("unmarshal registry: %w", err)
	}
	return reg, nil
}
