package filter

import (
	"context"

	"github.com/rushteam/bookrec/core"
	"github.com/rushteam/bookrec/pkg/dsl"
)

// ExprFilter 使用 CEL 表达式过滤，表达式为 true 的候选被移除。
//
// 示例：`item.year != null && item.year < 1900.0`
type ExprFilter struct {
	Expr string
}

// NewExprFilter 创建表达式过滤器，并提前编译以尽早暴露语法错误。
func NewExprFilter(expr string) (*ExprFilter, error) {
	if _, err := dsl.Compile(expr); err != nil {
		return nil, err
	}
	return &ExprFilter{Expr: expr}, nil
}

func (f *ExprFilter) Name() string { return "filter.expr" }

func (f *ExprFilter) ShouldFilter(_ context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error) {
	if f.Expr == "" || item == nil {
		return false, nil
	}
	return dsl.NewEval(item, rctx).Evaluate(f.Expr)
}
