package core

import "github.com/rushteam/bookrec/pkg/utils"

// 子分数在 Item.Features 中的固定 key。
const (
	FeatureSimilarity     = "similarity_score"
	FeatureGenre          = "genre_score"
	FeatureRating         = "rating_score"
	FeatureAuthor         = "author_score"
	FeatureYear           = "year_score"
	FeatureDiversity      = "diversity_bonus"
	FeatureGenreDiversity = "diversity_genre_bonus"
)

// FeatureKeys 是子分数的固定顺序：加权求和、解释输出都按此顺序遍历，
// 保证浮点结果逐位稳定。
var FeatureKeys = []string{
	FeatureSimilarity,
	FeatureGenre,
	FeatureRating,
	FeatureAuthor,
	FeatureYear,
	FeatureDiversity,
	FeatureGenreDiversity,
}

// Item 是推荐链路中的统一承载结构：书、特征（子分数）、分数、元信息、标签。
// Labels 用于解释与策略驱动；Score 用于排序决策。
type Item struct {
	ID       string
	Book     *Book
	Score    float64
	Features map[string]float64
	Meta     map[string]any
	Labels   map[string]utils.Label
}

func NewItem(id string) *Item {
	return &Item{
		ID:       id,
		Score:    0,
		Features: make(map[string]float64),
		Meta:     make(map[string]any),
		Labels:   make(map[string]utils.Label),
	}
}

// NewBookItem 基于书目行创建 Item，Book 为副本，下游节点可以安全修改。
func NewBookItem(b *Book) *Item {
	it := NewItem(b.ID)
	it.Book = b.Clone()
	return it
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}
