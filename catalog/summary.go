package catalog

import (
	"gonum.org/v1/gonum/stat"

	"github.com/rushteam/bookrec/core"
)

// CatalogSummary 是书目的概要统计。
type CatalogSummary struct {
	Books           int `json:"books"`
	UniqueAuthors   int `json:"unique_authors"`
	WithDescription int `json:"with_description"` // 描述长度 > 10
	WithRatings     int `json:"with_ratings"`     // avg_rating 与 ratings_count 均存在
}

// Summarize 统计书目概要。
func Summarize(c *core.Catalog) CatalogSummary {
	authors := make(map[string]struct{})
	s := CatalogSummary{Books: c.Len()}
	for _, b := range c.Books() {
		authors[b.Author] = struct{}{}
		if len(b.Description) > 10 {
			s.WithDescription++
		}
		if b.AvgRating != nil && b.RatingsCount != nil {
			s.WithRatings++
		}
	}
	s.UniqueAuthors = len(authors)
	return s
}

// ReviewSummary 是评论集的概要统计。
type ReviewSummary struct {
	Reviews    int     `json:"reviews"`
	MeanRating float64 `json:"mean_rating"`
	Covered    int     `json:"covered_works"` // 书目中有评论的书
}

// SummarizeReviews 统计评论概要；c 为 nil 时 Covered 为 0。
func SummarizeReviews(reviews []Review, c *core.Catalog) ReviewSummary {
	s := ReviewSummary{Reviews: len(reviews)}
	ratings := make([]float64, 0, len(reviews))
	for _, rv := range reviews {
		if rv.Rating != nil {
			ratings = append(ratings, *rv.Rating)
		}
	}
	if len(ratings) > 0 {
		s.MeanRating = stat.Mean(ratings, nil)
	}
	if c != nil {
		s.Covered = JoinCoverage(c, reviews)
	}
	return s
}
