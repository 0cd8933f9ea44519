package rank

import (
	"cmp"
	"context"
	"slices"

	"github.com/rushteam/tagrec/core"
	"github.com/rushteam/tagrec/pipeline"
)

// TFIDFNode 是基于 TFIDFScorer 的排序 Node。
//   - 写入 labels：rank_model=tfidf
//   - 更新 item.Score，剔除无法打分的物品
//   - 按分数降序排序，分数相同时按物品 ID 升序
type TFIDFNode struct {
	Scorer *TFIDFScorer
}

func (n *TFIDFNode) Name() string        { return "rank.tfidf" }
func (n *TFIDFNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *TFIDFNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.Scorer == nil || len(items) == 0 {
		return items, nil
	}

	ids := make([]int64, 0, len(items))
	for _, it := range items {
		if it != nil {
			ids = append(ids, it.ID)
		}
	}

	scores, err := n.Scorer.Score(ctx, rctx.UserID, ids)
	if err != nil {
		return nil, err
	}

	out := make([]*core.Item, 0, len(scores))
	for _, it := range items {
		if it == nil {
			continue
		}
		score, ok := scores[it.ID]
		if !ok {
			continue
		}
		it.Score = score
		it.PutLabel("rank_model", core.Label{Value: "tfidf", Source: "rank"})
		out = append(out, it)
	}

	slices.SortStableFunc(out, func(a, b *core.Item) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}
