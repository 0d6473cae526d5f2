package recall

import (
	"context"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/pipeline"
	"github.com/rushteam/bookrec/pkg/utils"
)

// CatalogRecall 把书目中的每一本书转换为候选 Item（按书目顺序）。
// 收藏、信号不足等剔除交给后续的 filter 节点。
// CatalogRecall 同时实现了 Source 和 Node 接口，可以直接在 Pipeline 中使用。
type CatalogRecall struct{}

func (r *CatalogRecall) Name() string        { return "recall.catalog" }
func (r *CatalogRecall) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (r *CatalogRecall) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口
func (r *CatalogRecall) Recall(
	_ context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if rctx == nil || rctx.Catalog == nil {
		return nil, core.ErrNilCatalog
	}
	books := rctx.Catalog.Books()
	out := make([]*core.Item, 0, len(books))
	for _, b := range books {
		it := core.NewBookItem(b)
		it.PutLabel("recall_source", utils.Label{Value: "catalog", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}

var (
	_ Source        = (*CatalogRecall)(nil)
	_ pipeline.Node = (*CatalogRecall)(nil)
)
