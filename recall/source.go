package recall

import (
	"context"

	"github.com/rushteam/tagrec/core"
)

// Source 表示一个可复用的召回源（物品全集、静态列表...）。
// 多个 Source 可以由 Fanout 并发执行并合并。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}
