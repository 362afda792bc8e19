// Package feature 提供物化后 level 特征列的在线取用。
package feature

import (
	"context"
	"fmt"

	"github.com/rushteam/levelkit/core"
	"github.com/rushteam/levelkit/feast"
)

// OnlineLevelLoader 在部署期从 Feast 在线存储还原 level 特征列。
//
// 训练期 AddBestLevels 产出的宽表（level 列 + 登记表）注册进 Feast 之后，
// 预测服务只需要实体 id 和登记表，即可取回与训练期同形状的特征向量——
// 登记表里有而在线存储缺失的 level 一律补 MissingFill，绝不丢列。
type OnlineLevelLoader struct {
	// Client Feast 客户端（见 feast.NewGrpcClient）
	Client feast.Client

	// FeatureView level 列所在的特征视图名，通常与登记 key 一致（如 "drug_levels"）
	FeatureView string

	// MissingFill 在线存储中取不到值时的填充值
	MissingFill any
}

// LoadWide 按登记的 level 列表为一批实体构建宽表：每实体一行，
// 每个 level 一列，列集合与 levels 严格一致。
func (l *OnlineLevelLoader) LoadWide(ctx context.Context, ids []string, idCol string, levels []string) (*core.Frame, error) {
	if l.Client == nil {
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeInvalidInput,
			"feature: feast client is required")
	}
	if len(ids) == 0 || len(levels) == 0 {
		return core.NewFrame(append([]string{idCol}, levels...), nil), nil
	}

	refs := make([]string, len(levels))
	for i, level := range levels {
		refs[i] = fmt.Sprintf("%s:%s", l.FeatureView, level)
	}
	entityRows := make([]map[string]interface{}, len(ids))
	for i, id := range ids {
		entityRows[i] = map[string]interface{}{idCol: id}
	}

	resp, err := l.Client.GetOnlineFeatures(ctx, &feast.GetOnlineFeaturesRequest{
		Features:   refs,
		EntityRows: entityRows,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.FeatureVectors) != len(ids) {
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeInternalError,
			fmt.Sprintf("feature: expected %d feature vectors, got %d", len(ids), len(resp.FeatureVectors)))
	}

	cols := append([]string{idCol}, levels...)
	rows := make([]core.Row, len(ids))
	for i, id := range ids {
		r := make(core.Row, len(cols))
		r[idCol] = id
		vec := resp.FeatureVectors[i]
		for j, level := range levels {
			if v, ok := vec.Values[refs[j]]; ok && v != nil {
				r[level] = v
			} else {
				r[level] = l.MissingFill
			}
		}
		rows[i] = r
	}
	return core.NewFrame(cols, rows), nil
}

// LoadWideFromRegistry 直接按登记表条目取列集合，key 缺失时报
// MISSING_LEVEL_SET_KEY（与 levels 包的 replay 语义一致）。
func (l *OnlineLevelLoader) LoadWideFromRegistry(ctx context.Context, ids []string, idCol, groupCol string, reg core.LevelRegistry) (*core.Frame, error) {
	levels, err := reg.Levels(core.LevelSetKey(groupCol))
	if err != nil {
		return nil, err
	}
	return l.LoadWide(ctx, ids, idCol, levels)
}
