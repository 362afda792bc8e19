package feast

import (
	"context"
	"time"
)

// Client 是 Feast Feature Store 的客户端接口（遵循 DDD 原则，高内聚低耦合）。
//
// Levelkit 的用法：训练期把物化好的 level 特征列（每实体每 level 一个值）
// 注册到 Feast；部署期按登记表中的 level 名在线取回特征向量，
// 由 feature.OnlineLevelLoader 还原成与训练期同形状的宽表。
//
// 参考：https://github.com/feast-dev/feast
type Client interface {
	// GetOnlineFeatures 获取在线特征（用于实时预测）
	//
	// 参数：
	//   - Features: 特征名称列表，例如 ["drug_levels:insulin", "drug_levels:metformin"]
	//   - EntityRows: 实体行，例如 [{"patient_id": "a"}]
	//
	// 返回：
	//   - FeatureVectors: 每个实体行对应一个特征向量
	GetOnlineFeatures(ctx context.Context, req *GetOnlineFeaturesRequest) (*GetOnlineFeaturesResponse, error)

	// Close 关闭客户端连接
	Close() error
}

// GetOnlineFeaturesRequest 获取在线特征请求
type GetOnlineFeaturesRequest struct {
	// Features 特征名称列表
	Features []string

	// EntityRows 实体行，例如 [{"patient_id": "a"}, {"patient_id": "b"}]
	EntityRows []map[string]interface{}

	// Project 项目名称（可选，缺省用客户端配置）
	Project string
}

// GetOnlineFeaturesResponse 获取在线特征响应
type GetOnlineFeaturesResponse struct {
	// FeatureVectors 特征向量列表，每个元素对应一个实体行
	FeatureVectors []FeatureVector

	// Metadata 元数据
	Metadata map[string]interface{}
}

// FeatureVector 特征向量
type FeatureVector struct {
	// Values 特征值，key 为特征名称
	Values map[string]interface{}

	// EntityRow 对应的实体行
	EntityRow map[string]interface{}
}

// ClientOption Feast 客户端配置选项
type ClientOption func(*ClientConfig)

// ClientConfig Feast 客户端配置
type ClientConfig struct {
	// Endpoint 服务端点
	Endpoint string

	// Project 项目名称
	Project string

	// Timeout 超时时间
	Timeout time.Duration

	// Auth 认证信息
	Auth *AuthConfig
}

// AuthConfig 认证配置
type AuthConfig struct {
	// Type 认证类型：static（gRPC 静态 Token）
	Type string

	// Token Token（static auth）
	Token string
}

// WithTimeout 配置选项：设置超时时间
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *ClientConfig) {
		c.Timeout = timeout
	}
}

// WithAuth 配置选项：设置认证信息
func WithAuth(auth *AuthConfig) ClientOption {
	return func(c *ClientConfig) {
		c.Auth = auth
	}
}
