package catalog

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/rushteam/bookrec/core"
)

// RequiredReviewColumns 是评论 CSV 的必需列。
var RequiredReviewColumns = []string{"work_id", "rating"}

// Review 是一条用户评论。
type Review struct {
	WorkID    string
	UserID    string
	Rating    *float64
	DateAdded time.Time // 无法解析时为零值
	Text      string
}

// dateLayouts 是 date_added 支持的格式，依次尝试。
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"Mon Jan 02 15:04:05 -0700 2006",
	"01/02/2006",
}

// LoadReviews 解析评论 CSV。work_id 为空的行被剔除；date_added 无法解析时记为零值。
func LoadReviews(r io.Reader) ([]Review, LoadReport, error) {
	var report LoadReport
	reader := newReader(r)
	h, err := readHeader(reader, core.ModuleCatalog, RequiredReviewColumns...)
	if err != nil {
		return nil, report, err
	}

	var out []Review
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		report.Rows++
		if err != nil {
			report.Malformed++
			continue
		}
		id := strings.TrimSpace(h.get(row, "work_id"))
		if id == "" {
			report.Dropped++
			continue
		}
		out = append(out, Review{
			WorkID:    core.NormalizeID(id),
			UserID:    h.get(row, "user_id"),
			Rating:    parseFloat(h.get(row, "rating")),
			DateAdded: parseDate(h.get(row, "date_added")),
			Text:      h.get(row, "review_text"),
		})
	}
	report.Kept = len(out)
	return out, report, nil
}

func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ForWork 返回某本书的前 limit 条评论（文件顺序），再按评分降序排列，无评分的排最后。
func ForWork(reviews []Review, workID string, limit int) []Review {
	workID = core.NormalizeID(workID)
	var out []Review
	for _, rv := range reviews {
		if limit > 0 && len(out) >= limit {
			break
		}
		if rv.WorkID == workID {
			out = append(out, rv)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Rating, out[j].Rating
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return *a > *b
	})
	return out
}

// ReviewStats 把评论聚合成每本书的平均评分与评论数，实现 core.BookStatsService。
// 构建后只读，可并发使用。
type ReviewStats struct {
	stats map[string]core.BookStats
}

// NewReviewStats 聚合评论；没有评分的评论不参与均值但计入数量。
func NewReviewStats(reviews []Review) *ReviewStats {
	type agg struct {
		sum   float64
		rated int
		count int64
	}
	acc := make(map[string]*agg)
	for _, rv := range reviews {
		a, ok := acc[rv.WorkID]
		if !ok {
			a = &agg{}
			acc[rv.WorkID] = a
		}
		a.count++
		if rv.Rating != nil {
			a.sum += *rv.Rating
			a.rated++
		}
	}
	stats := make(map[string]core.BookStats, len(acc))
	for id, a := range acc {
		var st core.BookStats
		count := a.count
		st.RatingsCount = &count
		if a.rated > 0 {
			mean := a.sum / float64(a.rated)
			st.AvgRating = &mean
		}
		stats[id] = st
	}
	return &ReviewStats{stats: stats}
}

func (s *ReviewStats) Name() string { return "reviews" }

// Len 返回有评论的书数量。
func (s *ReviewStats) Len() int { return len(s.stats) }

func (s *ReviewStats) BatchGetBookStats(_ context.Context, ids []string) (map[string]core.BookStats, error) {
	out := make(map[string]core.BookStats, len(ids))
	for _, id := range ids {
		if st, ok := s.stats[core.NormalizeID(id)]; ok {
			out[id] = st
		}
	}
	return out, nil
}

func (s *ReviewStats) Close(_ context.Context) error { return nil }

// JoinCoverage 返回书目中有评论的书数量。
func JoinCoverage(c *core.Catalog, reviews []Review) int {
	seen := make(map[string]struct{}, len(reviews))
	for _, rv := range reviews {
		seen[rv.WorkID] = struct{}{}
	}
	n := 0
	for _, b := range c.Books() {
		if _, ok := seen[b.ID]; ok {
			n++
		}
	}
	return n
}

var _ core.BookStatsService = (*ReviewStats)(nil)
