package rank

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/model"
	"github.com/rushteam/bookrec/pipeline"
	"github.com/rushteam/bookrec/pkg/utils"
)

// ScoreNode 计算子分数并用 RankModel 合成最终分。
//   - 写入 Features：七个子分数
//   - 写入 labels：rank_model
//   - 更新 item.Score 并按分数稳定降序排序（同分保持书目顺序）
//
// 热度归一化区间在打分前基于整个候选池计算一次；
// 之后每本书的打分相互独立，可以并行。
type ScoreNode struct {
	Model model.RankModel

	// Workers 并行打分的 goroutine 数，<=1 时串行
	Workers int
}

func (n *ScoreNode) Name() string        { return "rank.weighted" }
func (n *ScoreNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *ScoreNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}
	if rctx == nil || rctx.Profile == nil {
		return nil, core.NewDomainError(core.ModuleRecommend, core.ErrorCodeInvalidInput, "rank: preference profile is missing")
	}
	m := n.Model
	if m == nil {
		m = model.NewWeightedModel(nil)
	}

	minCount, maxCount := PopularityRange(items)
	score := func(it *core.Item) error {
		if it == nil || it.Book == nil {
			return nil
		}
		it.Features = Features(rctx.Profile, it.Book, minCount, maxCount)
		s, err := m.Predict(it.Features)
		if err != nil {
			return err
		}
		it.Score = s
		it.PutLabel("rank_model", utils.Label{Value: m.Name(), Source: "rank"})
		return nil
	}

	if n.Workers <= 1 {
		for _, it := range items {
			if err := score(it); err != nil {
				return nil, err
			}
		}
	} else {
		eg, egCtx := errgroup.WithContext(ctx)
		eg.SetLimit(n.Workers)
		for _, it := range items {
			eg.Go(func() error {
				if err := egCtx.Err(); err != nil {
					return err
				}
				return score(it)
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i] == nil {
			return false
		}
		if items[j] == nil {
			return true
		}
		return items[i].Score > items[j].Score
	})
	return items, nil
}

var _ pipeline.Node = (*ScoreNode)(nil)
