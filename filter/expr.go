package filter

import (
	"context"

	"github.com/rushteam/tagrec/core"
	"github.com/rushteam/tagrec/pkg/dsl"
)

// ExprFilter 使用 CEL 表达式过滤物品：表达式为 true 的物品被移除。
// Keep 为 true 时语义反转，只保留表达式为 true 的物品。
//
// 示例：
//
//	&filter.ExprFilter{Expr: "item.score < 0.1"}
//	&filter.ExprFilter{Expr: `label.rank_model == "tfidf"`, Keep: true}
type ExprFilter struct {
	Expr string
	Keep bool
}

// NewExprFilter 编译表达式，语法错误在构建时返回。
func NewExprFilter(expr string, keep bool) (*ExprFilter, error) {
	if _, err := dsl.Compile(expr); err != nil {
		return nil, err
	}
	return &ExprFilter{Expr: expr, Keep: keep}, nil
}

func (f *ExprFilter) Name() string { return "filter.expr" }

func (f *ExprFilter) ShouldFilter(_ context.Context, rctx *core.RecommendContext, item *core.Item) (bool, error) {
	if f.Expr == "" {
		return false, nil
	}
	ok, err := dsl.NewEval(item, rctx).Evaluate(f.Expr)
	if err != nil {
		return false, err
	}
	return ok != f.Keep, nil
}
