package feast

import (
	"context"
	"errors"
	"strconv"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/pkg/conv"
)

// 默认的在线特征名称。
const (
	DefaultEntityKey          = "work_id"
	DefaultAvgRatingFeature   = "book_stats:avg_rating"
	DefaultRatingCountFeature = "book_stats:ratings_count"
)

// StatsService 从 Feast 在线存储读取书目评分统计，实现 core.BookStatsService。
//
// 特征视图示例（feature_store.yaml 侧）：
//
//	book_stats:
//	  entity: work_id
//	  features: avg_rating (DOUBLE), ratings_count (INT64)
type StatsService struct {
	Client  Client
	Project string

	EntityKey          string
	AvgRatingFeature   string
	RatingCountFeature string
}

// NewStatsService 创建统计服务，特征名使用默认值。
func NewStatsService(client Client, project string) *StatsService {
	return &StatsService{
		Client:             client,
		Project:            project,
		EntityKey:          DefaultEntityKey,
		AvgRatingFeature:   DefaultAvgRatingFeature,
		RatingCountFeature: DefaultRatingCountFeature,
	}
}

func (s *StatsService) Name() string { return "feast" }

func (s *StatsService) BatchGetBookStats(ctx context.Context, ids []string) (map[string]core.BookStats, error) {
	out := make(map[string]core.BookStats, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	if s.Client == nil {
		return nil, core.NewDomainError(core.ModuleStats, core.ErrorCodeUnavailable, "stats: feast client is nil")
	}

	entityKey := orDefault(s.EntityKey, DefaultEntityKey)
	ratingFeature := orDefault(s.AvgRatingFeature, DefaultAvgRatingFeature)
	countFeature := orDefault(s.RatingCountFeature, DefaultRatingCountFeature)

	rows := make([]map[string]interface{}, len(ids))
	for i, id := range ids {
		rows[i] = map[string]interface{}{entityKey: entityValue(id)}
	}
	resp, err := s.Client.GetOnlineFeatures(ctx, &GetOnlineFeaturesRequest{
		Features:   []string{ratingFeature, countFeature},
		EntityRows: rows,
		Project:    s.Project,
	})
	if err != nil {
		return nil, errors.Join(
			core.NewDomainError(core.ModuleStats, core.ErrorCodeUnavailable, "stats: feast lookup failed"),
			err,
		)
	}

	for i, fv := range resp.FeatureVectors {
		if i >= len(ids) {
			break
		}
		var st core.BookStats
		if v, ok := fv.Values[ratingFeature]; ok {
			if f, ok := conv.ToFloat64(v); ok {
				st.AvgRating = &f
			}
		}
		if v, ok := fv.Values[countFeature]; ok {
			if f, ok := conv.ToFloat64(v); ok {
				n := int64(f)
				st.RatingsCount = &n
			}
		}
		if st.AvgRating == nil && st.RatingsCount == nil {
			continue
		}
		out[ids[i]] = st
	}
	return out, nil
}

func (s *StatsService) Close(_ context.Context) error {
	if s.Client == nil {
		return nil
	}
	return s.Client.Close()
}

// entityValue 数字 ID 以 INT64 实体发送，其余按字符串。
func entityValue(id string) interface{} {
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return n
	}
	return id
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

var _ core.BookStatsService = (*StatsService)(nil)
