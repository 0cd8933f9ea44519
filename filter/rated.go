package filter

import (
	"context"

	"github.com/rushteam/tagrec/core"
	"github.com/rushteam/tagrec/pipeline"
)

// RatedFilter 剔除用户已经评过分（包括取消评分）的物品。
// 每次 Process 只读取一次用户评分，所以实现为 Node 而不是逐物品的 Filter。
type RatedFilter struct {
	Rated core.RatedItemDAO
}

func (f *RatedFilter) Name() string        { return "filter.rated" }
func (f *RatedFilter) Kind() pipeline.Kind { return pipeline.KindFilter }

func (f *RatedFilter) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if f.Rated == nil || len(items) == 0 {
		return items, nil
	}

	rated := f.Rated.RatedItems(ctx, rctx.UserID)
	if len(rated) == 0 {
		return items, nil
	}

	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		if _, ok := rated[it.ID]; ok {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}
