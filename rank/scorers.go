package rank

import (
	"math"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/pkg/textnorm"
)

// 各子分数的量纲。
const (
	SimilarityHit    = 3.0
	GenreScoreCap    = 3.0
	AuthorHit        = 1.5
	RatingWindow     = 2.0
	YearWindow       = 20.0
	PopularityBonus  = 0.5
	GenreBonusPerHit = 0.3
)

// GenreExpansion 是“相邻类型”表：喜欢 key 的读者可能也会喜欢 value 中的类型。
var GenreExpansion = map[string][]string{
	"fantasy":            {"science fiction", "mythology", "adventure"},
	"romance":            {"contemporary", "historical fiction", "drama"},
	"mystery":            {"thriller", "crime", "suspense"},
	"science fiction":    {"fantasy", "dystopian", "adventure"},
	"historical fiction": {"biography", "war", "drama"},
	"young adult":        {"coming of age", "contemporary", "fantasy"},
}

// SimilarityScore 候选书被任一收藏列为相似书时得 3 分。
func SimilarityScore(p *core.PreferenceProfile, id string) float64 {
	if p.IsSimilar(id) {
		return SimilarityHit
	}
	return 0
}

// GenreScore 对候选书的每个类型 token（重复也计入），
// 若属于 top 类型则加 1 + count/maxCount，总分封顶 3。
func GenreScore(p *core.PreferenceProfile, genres string) float64 {
	tokens := textnorm.SplitGenres(genres)
	if len(tokens) == 0 {
		return 0
	}
	maxCount := p.MaxGenreCount()
	var score float64
	for _, g := range tokens {
		if !p.HasTopGenre(g) {
			continue
		}
		weight := 0.0
		if maxCount > 0 {
			weight = float64(p.GenreCounts[g]) / float64(maxCount)
		}
		score += 1 + weight
	}
	return math.Min(score, GenreScoreCap)
}

// AuthorScore 作者属于 top 作者时得 1.5 分（大小写敏感）。
func AuthorScore(p *core.PreferenceProfile, author string) float64 {
	if p.HasTopAuthor(author) {
		return AuthorHit
	}
	return 0
}

// RatingScore = max(0, 2 - |rating - meanRating|)，缺失评分为 0。
func RatingScore(p *core.PreferenceProfile, rating *float64) float64 {
	if rating == nil {
		return 0
	}
	return math.Max(0, RatingWindow-math.Abs(*rating-p.MeanRating))
}

// YearScore = max(0, 1 - |year - meanYear| / 20)，缺失年份为 0。
func YearScore(p *core.PreferenceProfile, year *float64) float64 {
	if year == nil {
		return 0
	}
	return math.Max(0, 1-math.Abs(*year-p.MeanYear)/YearWindow)
}

// DiversityBonus = (1 - minmax(count)) * 0.5，越冷门加分越多。
// 候选池 ratings_count 全部相同时归一化结果为 0。
func DiversityBonus(count *int64, minCount, maxCount int64) float64 {
	if count == nil {
		return 0
	}
	norm := 0.0
	if maxCount > minCount {
		norm = float64(*count-minCount) / float64(maxCount-minCount)
	}
	return (1 - norm) * PopularityBonus
}

// GenreDiversityBonus 奖励“相邻但不重合”的类型：
// 0.3 * |候选类型集合 ∩ 扩展兴趣 - top 类型|。
func GenreDiversityBonus(p *core.PreferenceProfile, genres string) float64 {
	set := textnorm.GenreSet(genres)
	if len(set) == 0 || len(p.TopGenres) == 0 {
		return 0
	}
	top := make(map[string]struct{}, len(p.TopGenres))
	for _, g := range p.TopGenres {
		top[g] = struct{}{}
	}
	related := make(map[string]struct{})
	for _, g := range p.TopGenres {
		for _, r := range GenreExpansion[g] {
			if _, ok := top[r]; !ok {
				related[r] = struct{}{}
			}
		}
	}
	hits := 0
	for g := range set {
		if _, ok := related[g]; ok {
			hits++
		}
	}
	return float64(hits) * GenreBonusPerHit
}

// PopularityRange 返回候选池 ratings_count 的最小值与最大值。
func PopularityRange(items []*core.Item) (minCount, maxCount int64) {
	first := true
	for _, it := range items {
		if it == nil || it.Book == nil || it.Book.RatingsCount == nil {
			continue
		}
		c := *it.Book.RatingsCount
		if first {
			minCount, maxCount = c, c
			first = false
			continue
		}
		if c < minCount {
			minCount = c
		}
		if c > maxCount {
			maxCount = c
		}
	}
	return minCount, maxCount
}

// Features 计算一本候选书的全部子分数。
func Features(p *core.PreferenceProfile, b *core.Book, minCount, maxCount int64) map[string]float64 {
	return map[string]float64{
		core.FeatureSimilarity:     SimilarityScore(p, b.ID),
		core.FeatureGenre:          GenreScore(p, b.Genres),
		core.FeatureRating:         RatingScore(p, b.AvgRating),
		core.FeatureAuthor:         AuthorScore(p, b.Author),
		core.FeatureYear:           YearScore(p, b.Year),
		core.FeatureDiversity:      DiversityBonus(b.RatingsCount, minCount, maxCount),
		core.FeatureGenreDiversity: GenreDiversityBonus(p, b.Genres),
	}
}
