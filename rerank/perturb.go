package rerank

import (
	"context"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/pipeline"
)

// pcgStream 是 PCG 的第二个种子分量，固定以保证相同 seed 得到相同序列。
const pcgStream = 0x9e3779b97f4a7c15

// PerturbNode 截取候选池并叠加少量高斯噪声，让相同偏好的推荐结果有适度变化，
// 同时保证同一组收藏得到完全相同的结果。
//
//   - 候选池大小：min(PoolFactor * N, PoolCap)，同分保留靠前的
//   - 噪声：N(0, StdDev)，由 rctx.Seed 驱动的 PCG 生成
//   - 叠加噪声后稳定降序重排
//
// 输入必须已按分数降序排列（见 rank.ScoreNode）。
type PerturbNode struct {
	StdDev     float64 // 默认 0.1
	PoolFactor int     // 默认 3
	PoolCap    int     // 默认 30

	// N 为 0 时使用 rctx.TopN
	N int
}

// NewPerturbNode 基于 RecommendConfig 创建噪声节点；cfg 为 nil 时使用默认配置。
func NewPerturbNode(cfg core.RecommendConfig) *PerturbNode {
	if cfg == nil {
		cfg = &core.DefaultRecommendConfig{}
	}
	return &PerturbNode{
		StdDev:     cfg.DefaultNoiseStdDev(),
		PoolFactor: cfg.DefaultPoolFactor(),
		PoolCap:    cfg.DefaultPoolCap(),
	}
}

func (n *PerturbNode) Name() string        { return "rerank.perturb" }
func (n *PerturbNode) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *PerturbNode) Process(
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
	factor := n.PoolFactor
	if factor <= 0 {
		factor = cfg.DefaultPoolFactor()
	}
	limit := n.PoolCap
	if limit <= 0 {
		limit = cfg.DefaultPoolCap()
	}
	std := n.StdDev
	if std <= 0 {
		std = cfg.DefaultNoiseStdDev()
	}

	pool := min(factor*topN, limit)
	if len(items) > pool {
		items = items[:pool]
	}

	var seed uint64
	if rctx != nil {
		seed = rctx.Seed
	}
	noise := distuv.Normal{Mu: 0, Sigma: std, Src: rand.NewPCG(seed, pcgStream)}
	for _, it := range items {
		if it == nil {
			continue
		}
		it.Score += noise.Rand()
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

var _ pipeline.Node = (*PerturbNode)(nil)
