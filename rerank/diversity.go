package rerank

import (
	"context"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/pipeline"
	"github.com/rushteam/bookrec/pkg/textnorm"
	"github.com/rushteam/bookrec/pkg/utils"
)

// Diversity 是最终的多样性选择节点，按分数顺序贪心选取 N 本书：
//   - 同一作者已入选 AuthorCap 本（默认 2）时跳过
//   - 主类型（第一个非空类型，没有则为 "unknown"）已入选 max(MinGenreCap, N/3) 本时跳过
//
// 第一轮不足 N 本时，第二轮按分数顺序补齐未入选的书，不再检查上述上限。
// 补齐的书带 label rerank_pass=backfill，因此最终结果可能超出上限。
//
// 输出顺序即入选顺序。
type Diversity struct {
	AuthorCap   int // 默认 2
	MinGenreCap int // 默认 2

	// N 为 0 时使用 rctx.TopN
	N int
}

// NewDiversity 基于 RecommendConfig 创建多样性节点；cfg 为 nil 时使用默认配置。
func NewDiversity(cfg core.RecommendConfig) *Diversity {
	if cfg == nil {
		cfg = &core.DefaultRecommendConfig{}
	}
	return &Diversity{
		AuthorCap:   cfg.DefaultAuthorCap(),
		MinGenreCap: cfg.DefaultMinGenreCap(),
	}
}

func (n *Diversity) Name() string {
	return "rerank.diversity"
}

func (n *Diversity) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

// GenreCap 返回主类型上限 max(MinGenreCap, topN/3)。
func (n *Diversity) GenreCap(topN int) int {
	minCap := n.MinGenreCap
	if minCap <= 0 {
		minCap = (&core.DefaultRecommendConfig{}).DefaultMinGenreCap()
	}
	return max(minCap, topN/3)
}

func (n *Diversity) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}
	cfg := &core.DefaultRecommendConfig{}
	topN := n.N
	if topN <= 0 && rctx != nil {
		topN = rctx.TopN
	}
	if topN <= 0 {
		topN = cfg.DefaultTopN()
	}
	authorCap := n.AuthorCap
	if authorCap <= 0 {
		authorCap = cfg.DefaultAuthorCap()
	}
	genreCap := n.GenreCap(topN)

	authors := make(map[string]int, topN)
	genres := make(map[string]int, topN)
	picked := make(map[*core.Item]bool, topN)
	out := make([]*core.Item, 0, topN)

	for _, it := range items {
		if len(out) >= topN {
			break
		}
		if it == nil || it.Book == nil {
			continue
		}
		author := it.Book.Author
		if authors[author] >= authorCap {
			continue
		}
		mainGenre := textnorm.MainGenre(it.Book.Genres)
		if genres[mainGenre] >= genreCap {
			continue
		}
		authors[author]++
		genres[mainGenre]++
		picked[it] = true
		it.PutLabel("rerank_pass", utils.Label{Value: "diverse", Source: "rerank"})
		out = append(out, it)
	}

	if len(out) < topN {
		seen := make(map[string]bool, len(out))
		for _, it := range out {
			seen[it.ID] = true
		}
		for _, it := range items {
			if len(out) >= topN {
				break
			}
			if it == nil || it.Book == nil || picked[it] || seen[it.ID] {
				continue
			}
			seen[it.ID] = true
			it.PutLabel("rerank_pass", utils.Label{Value: "backfill", Source: "rerank"})
			out = append(out, it)
		}
	}

	return out, nil
}

var _ pipeline.Node = (*Diversity)(nil)
