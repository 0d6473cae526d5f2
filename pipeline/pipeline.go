package pipeline

import (
	"context"
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/rushteam/bookrec/core"
)

// Pipeline 把推荐逻辑拆成可组合的 Node 链。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", node.Name(), err)
		}
		cur = next
	}
	return cur, nil
}

// Fingerprint 是节点 Kind/Name 序列的 xxhash，节点增删或换序时变化。
// 节点参数不参与计算，参数敏感的场景应使用 Config.Fingerprint。
func (p *Pipeline) Fingerprint() string {
	d := xxhash.New()
	for _, n := range p.Nodes {
		_, _ = d.WriteString(string(n.Kind()))
		_, _ = d.WriteString("/")
		_, _ = d.WriteString(n.Name())
		_, _ = d.WriteString(",")
	}
	return fmt.Sprintf("%016x", d.Sum64())
}
