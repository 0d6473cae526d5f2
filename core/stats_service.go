package core

import "context"

// BookStats 是一本书的评分信号。字段为 nil 表示该来源没有这个值。
type BookStats struct {
	AvgRating    *float64
	RatingsCount *int64
}

// BookStatsService 是评分统计服务的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（feast、catalog）实现
//   - 遵循依赖倒置原则：领域层定义接口，基础设施层实现接口
//
// 使用场景：
//   - 在线特征库（Feast）提供最新的平均评分与评分人数
//   - 评论数据集聚合，补齐书目中缺失的评分信号
//
// 实现：
//   - feast.StatsService 实现此接口
//   - catalog.ReviewStats 实现此接口
type BookStatsService interface {
	// Name 返回服务名称（用于日志/监控）
	Name() string

	// BatchGetBookStats 批量获取评分统计，缺失的 ID 不出现在结果中
	BatchGetBookStats(ctx context.Context, bookIDs []string) (map[string]BookStats, error)

	// Close 关闭服务，释放资源
	Close(ctx context.Context) error
}
