package feast

import (
	"context"
	"strconv"
	"strings"
	"time"
)

// NewClient 根据端点创建 gRPC 客户端。
//
// 端点格式："localhost:6565" 或 "grpc://localhost:6565"，端口缺省为 6565。
//
// 示例：
//
//	client, err := feast.NewClient(ctx, "localhost:6565", "bookrec", feast.WithTimeout(time.Second))
func NewClient(ctx context.Context, endpoint, project string, opts ...ClientOption) (Client, error) {
	host, port := parseEndpoint(endpoint)
	return NewGrpcClient(ctx, host, port, project, opts...)
}

// WithTimeout 配置选项：设置单次请求超时时间
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

// parseEndpoint 解析端点地址，返回 host 和 port
func parseEndpoint(endpoint string) (string, int) {
	endpoint = strings.TrimPrefix(endpoint, "grpc://")
	endpoint = strings.TrimPrefix(endpoint, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")

	parts := strings.Split(endpoint, ":")
	if len(parts) == 2 {
		port, err := strconv.Atoi(parts[1])
		if err == nil {
			return parts[0], port
		}
	}
	return endpoint, 0
}
