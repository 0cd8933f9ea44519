package recall

import (
	"context"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/tagrec/core"
	"github.com/rushteam/tagrec/pipeline"
	"github.com/rushteam/tagrec/pkg/logx"
)

// 合并策略
const (
	MergeFirst = "first" // 按 ID 去重，保留 Sources 中靠前的来源，合并 labels
	MergeUnion = "union" // 不去重
)

// Fanout 是一个 Recall Node：并发执行多个召回源，按 Sources 顺序合并结果。
// 单个召回源出错或超时时记录日志并跳过，不中断其他召回源。
type Fanout struct {
	Sources       []Source
	Timeout       time.Duration // 每个召回源的超时时间
	MaxConcurrent int           // 最大并发数（0 表示无限制）
	MergeStrategy string
}

func (n *Fanout) Name() string        { return "recall.fanout" }
func (n *Fanout) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *Fanout) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	if len(n.Sources) == 0 {
		return nil, nil
	}

	results := make([][]*core.Item, len(n.Sources))

	var eg errgroup.Group
	if n.MaxConcurrent > 0 {
		eg.SetLimit(n.MaxConcurrent)
	}
	for i, src := range n.Sources {
		eg.Go(func() error {
			recallCtx := ctx
			if n.Timeout > 0 {
				var cancel context.CancelFunc
				recallCtx, cancel = context.WithTimeout(ctx, n.Timeout)
				defer cancel()
			}

			items, err := src.Recall(recallCtx, rctx)
			if err != nil {
				logx.Debug().Err(err).Str("source", src.Name()).Msg("recall source skipped")
				return nil
			}

			for _, it := range items {
				it.PutLabel("recall_priority", core.Label{Value: strconv.Itoa(i), Source: "recall"})
			}
			results[i] = items
			return nil
		})
	}
	_ = eg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var all []*core.Item
	for _, items := range results {
		all = append(all, items...)
	}
	if n.MergeStrategy == MergeUnion {
		return all, nil
	}
	return mergeFirst(all), nil
}

func mergeFirst(all []*core.Item) []*core.Item {
	seen := make(map[int64]*core.Item, len(all))
	out := make([]*core.Item, 0, len(all))
	for _, it := range all {
		if it == nil {
			continue
		}
		if old, ok := seen[it.ID]; ok {
			for k, v := range it.Labels {
				old.PutLabel(k, v)
			}
			continue
		}
		seen[it.ID] = it
		out = append(out, it)
	}
	return out
}
