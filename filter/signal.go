package filter

import (
	"context"
	"math"

	"github.com/rushteam/bookrec/core"
)

// SignalFilter 过滤缺少平均评分或评分人数的书，非有限的评分视为缺失。
type SignalFilter struct{}

func (f *SignalFilter) Name() string { return "filter.signal" }

func (f *SignalFilter) ShouldFilter(_ context.Context, _ *core.RecommendContext, item *core.Item) (bool, error) {
	if item == nil || item.Book == nil {
		return true, nil
	}
	r := item.Book.AvgRating
	if r == nil || math.IsNaN(*r) || math.IsInf(*r, 0) {
		return true, nil
	}
	return item.Book.RatingsCount == nil, nil
}

// MinRatingCountFilter 过滤评分人数低于噪声下限的书。
// 这些书直接排除，而不是降权。
type MinRatingCountFilter struct {
	// Min 默认 50
	Min int64
}

func (f *MinRatingCountFilter) Name() string { return "filter.min_rating_count" }

func (f *MinRatingCountFilter) ShouldFilter(_ context.Context, _ *core.RecommendContext, item *core.Item) (bool, error) {
	if item == nil || item.Book == nil || item.Book.RatingsCount == nil {
		return true, nil
	}
	minCount := f.Min
	if minCount <= 0 {
		minCount = (&core.DefaultRecommendConfig{}).DefaultMinRatingCount()
	}
	return *item.Book.RatingsCount < minCount, nil
}
