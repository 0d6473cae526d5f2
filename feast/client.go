package feast

import (
	"context"
	"time"
)

// Client 是 Feast Feature Store 在线特征的客户端接口。
// 推荐链路只读在线存储中的书目评分统计，离线/物化接口不在此抽象内。
//
// 参考：https://github.com/feast-dev/feast
type Client interface {
	// GetOnlineFeatures 获取在线特征
	//
	// 参数：
	//   - features: 特征名称列表，例如 ["book_stats:avg_rating", "book_stats:ratings_count"]
	//   - entityRows: 实体行，例如 [{"work_id": 101}]
	GetOnlineFeatures(ctx context.Context, req *GetOnlineFeaturesRequest) (*GetOnlineFeaturesResponse, error)

	// Close 关闭客户端连接
	Close() error
}

// GetOnlineFeaturesRequest 获取在线特征请求
type GetOnlineFeaturesRequest struct {
	Features   []string
	EntityRows []map[string]interface{}

	// Project 项目名称（可选，默认使用客户端的 Project）
	Project string
}

// GetOnlineFeaturesResponse 获取在线特征响应
type GetOnlineFeaturesResponse struct {
	// FeatureVectors 与 EntityRows 一一对应
	FeatureVectors []FeatureVector
}

// FeatureVector 特征向量，缺失的特征不出现在 Values 中
type FeatureVector struct {
	Values    map[string]interface{}
	EntityRow map[string]interface{}
}

// ClientOption Feast 客户端配置选项
type ClientOption func(*ClientConfig)

// ClientConfig Feast 客户端配置
type ClientConfig struct {
	Endpoint string
	Project  string
	Timeout  time.Duration
	Auth     *AuthConfig
}

// AuthConfig 认证配置，目前仅支持 static（gRPC 静态 Token）
type AuthConfig struct {
	Type  string
	Token string
}
