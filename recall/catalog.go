package recall

import (
	"context"

	"github.com/rushteam/tagrec/core"
	"github.com/rushteam/tagrec/pipeline"
)

// Catalog 召回物品全集，与 filter.RatedFilter 组合即为“所有未评分物品”。
// Catalog 同时实现了 Source 和 Node 接口。
type Catalog struct {
	Items core.ItemDAO
}

func (r *Catalog) Name() string        { return "recall.catalog" }
func (r *Catalog) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，忽略输入 items。
func (r *Catalog) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

func (r *Catalog) Recall(ctx context.Context, _ *core.RecommendContext) ([]*core.Item, error) {
	ids, err := r.Items.ItemIDs(ctx)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleDataset, core.ErrorCodeUnavailable, "read item ids", err)
	}
	out := make([]*core.Item, 0, len(ids))
	for _, id := range ids {
		it := core.NewItem(id)
		it.PutLabel("recall_source", core.Label{Value: "catalog", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}
