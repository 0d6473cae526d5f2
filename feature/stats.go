package feature

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/pipeline"
	"github.com/rushteam/bookrec/pkg/utils"
)

// StatsNode 用外部评分统计补充候选书的评分信号，需放在过滤节点之前。
//
//   - Override=false：只填补缺失的 avg_rating / ratings_count（评论聚合）
//   - Override=true：以服务返回值为准（在线特征库）
//
// 服务出错时不中断推荐，保留书目原值。
type StatsNode struct {
	Service core.BookStatsService

	// Override 为 true 时覆盖书目已有值
	Override bool

	// BatchSize 每批请求的 ID 数，默认 500
	BatchSize int

	// MaxConcurrent 最大并发批次，默认 4
	MaxConcurrent int
}

func (n *StatsNode) Name() string        { return "feature.stats" }
func (n *StatsNode) Kind() pipeline.Kind { return pipeline.KindPostProcess }

func (n *StatsNode) Process(
	ctx context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.Service == nil || len(items) == 0 {
		return items, nil
	}

	ids := make([]string, 0, len(items))
	for _, it := range items {
		if it == nil || it.Book == nil {
			continue
		}
		if !n.Override && it.Book.AvgRating != nil && it.Book.RatingsCount != nil {
			continue
		}
		ids = append(ids, it.ID)
	}
	if len(ids) == 0 {
		return items, nil
	}

	stats := n.fetch(ctx, ids)
	for _, it := range items {
		if it == nil || it.Book == nil {
			continue
		}
		s, ok := stats[it.ID]
		if !ok {
			continue
		}
		if s.AvgRating != nil && (n.Override || it.Book.AvgRating == nil) {
			v := *s.AvgRating
			it.Book.AvgRating = &v
		}
		if s.RatingsCount != nil && (n.Override || it.Book.RatingsCount == nil) {
			v := *s.RatingsCount
			it.Book.RatingsCount = &v
		}
		it.PutLabel("stats_source", utils.Label{Value: n.Service.Name(), Source: "feature"})
	}
	return items, nil
}

func (n *StatsNode) fetch(ctx context.Context, ids []string) map[string]core.BookStats {
	batchSize := n.BatchSize
	if batchSize <= 0 {
		batchSize = 500
	}
	limit := n.MaxConcurrent
	if limit <= 0 {
		limit = 4
	}

	var (
		mu  sync.Mutex
		out = make(map[string]core.BookStats, len(ids))
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)
	for start := 0; start < len(ids); start += batchSize {
		end := start + batchSize
		if end > len(ids) {
			end = len(ids)
		}
		batch := ids[start:end]
		eg.Go(func() error {
			res, err := n.Service.BatchGetBookStats(egCtx, batch)
			if err != nil {
				// 单批失败只丢弃该批结果
				return nil
			}
			mu.Lock()
			for k, v := range res {
				out[k] = v
			}
			mu.Unlock()
			return nil
		})
	}
	_ = eg.Wait()
	return out
}

var _ pipeline.Node = (*StatsNode)(nil)
