package recall

import (
	"context"

	"github.com/goccy/go-json"

	"github.com/rushteam/tagrec/core"
	"github.com/rushteam/tagrec/pipeline"
)

// List 是固定列表召回源，常用于运营指定的物品。
//   - Store + Key：优先读取存储中的 JSON 数组，例如 [11, 12]
//   - IDs：Store 未配置、key 不存在或为空时使用
type List struct {
	Store core.Store
	Key   string
	IDs   []int64
}

func (r *List) Name() string        { return "recall.list" }
func (r *List) Kind() pipeline.Kind { return pipeline.KindRecall }

func (r *List) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

func (r *List) Recall(ctx context.Context, _ *core.RecommendContext) ([]*core.Item, error) {
	ids := r.IDs

	if r.Store != nil && r.Key != "" {
		data, err := r.Store.Get(ctx, r.Key)
		switch {
		case err == nil:
			var parsed []int64
			if err := json.Unmarshal(data, &parsed); err != nil {
				return nil, core.WrapDomainError(core.ModuleStore, core.ErrorCodeInvalidInput, "decode list "+r.Key, err)
			}
			if len(parsed) > 0 {
				ids = parsed
			}
		case !core.IsStoreNotFound(err):
			return nil, err
		}
	}

	out := make([]*core.Item, 0, len(ids))
	for _, id := range ids {
		it := core.NewItem(id)
		it.PutLabel("recall_source", core.Label{Value: "list", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}
