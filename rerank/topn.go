package rerank

import (
	"context"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/pipeline"
)

// TopNNode 截取前 N 个候选。
// 多样性选择本身已经限制了数量，TopNNode 用于配置化流水线中
// 没有多样性节点、或需要再次截断的场景。
//
// 示例：
//
//	pipeline := &pipeline.Pipeline{
//	    Nodes: []pipeline.Node{
//	        &rank.ScoreNode{...},
//	        &rerank.TopNNode{},  // 按请求的 N 截断
//	    },
//	}
type TopNNode struct {
	// N 要保留的数量。N <= 0 时使用 rctx.TopN；两者都未设置时不截断
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	limit := n.N
	if limit <= 0 && rctx != nil {
		limit = rctx.TopN
	}
	if limit <= 0 || len(items) <= limit {
		return items, nil
	}
	return items[:limit], nil
}
