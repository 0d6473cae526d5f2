package feature

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/pkg/textnorm"
)

// PreferenceExtractor 从收藏书中提取偏好画像。
//
// 处理步骤：
//  1. 类型：逗号切分、trim、小写后累计频次（空 token 跳过）
//  2. 作者：按原样（大小写敏感）累计频次，空作者跳过
//  3. 年份 / 评分：收集非空的有限值求均值
//  4. 相似书：合并所有收藏声明的相似书 ID（非数字 token 跳过）
type PreferenceExtractor struct {
	TopGenres     int
	TopAuthors    int
	DefaultYear   float64
	DefaultRating float64
}

// NewPreferenceExtractor 基于 RecommendConfig 创建提取器；cfg 为 nil 时使用默认配置。
func NewPreferenceExtractor(cfg core.RecommendConfig) *PreferenceExtractor {
	if cfg == nil {
		cfg = &core.DefaultRecommendConfig{}
	}
	return &PreferenceExtractor{
		TopGenres:     cfg.DefaultTopGenres(),
		TopAuthors:    cfg.DefaultTopAuthors(),
		DefaultYear:   cfg.DefaultYear(),
		DefaultRating: cfg.DefaultRating(),
	}
}

// ExtractPreferences 使用默认配置提取偏好画像。
func ExtractPreferences(favorites []*core.Book) (*core.PreferenceProfile, bool) {
	return NewPreferenceExtractor(nil).Extract(favorites)
}

// Extract 提取偏好画像。favorites 应当按书目顺序排列（见 core.Catalog.Resolve）。
// 没有任何收藏时返回 ok=false，调用方应走回退分支。
func (e *PreferenceExtractor) Extract(favorites []*core.Book) (*core.PreferenceProfile, bool) {
	if len(favorites) == 0 {
		return nil, false
	}

	genres := newCounter()
	authors := newCounter()
	var years, ratings []float64
	similar := make(map[string]struct{})
	favIDs := make(map[string]struct{}, len(favorites))

	for _, b := range favorites {
		if b == nil {
			continue
		}
		favIDs[b.ID] = struct{}{}
		for _, g := range textnorm.SplitGenres(b.Genres) {
			genres.add(g)
		}
		if b.Author != "" {
			authors.add(b.Author)
		}
		if finite(b.Year) {
			years = append(years, *b.Year)
		}
		if finite(b.AvgRating) {
			ratings = append(ratings, *b.AvgRating)
		}
		for _, id := range core.ParseIDList(b.SimilarBooks) {
			similar[id] = struct{}{}
		}
	}
	if len(favIDs) == 0 {
		return nil, false
	}

	meanYear := e.DefaultYear
	if len(years) > 0 {
		meanYear = stat.Mean(years, nil)
	}
	meanRating := e.DefaultRating
	if len(ratings) > 0 {
		meanRating = stat.Mean(ratings, nil)
	}

	return &core.PreferenceProfile{
		TopGenres:   genres.mostCommon(e.TopGenres),
		TopAuthors:  authors.mostCommon(e.TopAuthors),
		MeanYear:    meanYear,
		MeanRating:  meanRating,
		GenreCounts: genres.counts,
		SimilarIDs:  similar,
		FavoriteIDs: favIDs,
	}, true
}

// finite 判断可空数值是否存在且为有限值；NaN / ±Inf 视为缺失。
func finite(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}

// counter 是保留首次出现顺序的频次计数器。
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(key string) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

// mostCommon 返回频次最高的 n 个 key，同频按首次出现顺序。
func (c *counter) mostCommon(n int) []string {
	keys := make([]string, len(c.order))
	copy(keys, c.order)
	sort.SliceStable(keys, func(i, j int) bool {
		return c.counts[keys[i]] > c.counts[keys[j]]
	})
	if n >= 0 && len(keys) > n {
		keys = keys[:n]
	}
	return keys
}
