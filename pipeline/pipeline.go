package pipeline

import (
	"context"
	"fmt"

	"github.com/rushteam/tagrec/core"
	"github.com/rushteam/tagrec/pkg/logx"
)

// Pipeline 把推荐逻辑拆成可组合的 Node 链，前一个 Node 的输出是后一个的输入。
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
		logx.Debug().
			Str("request_id", rctx.RequestID).
			Str("node", node.Name()).
			Str("kind", string(node.Kind())).
			Int("in", len(cur)).
			Int("out", len(next)).
			Msg("pipeline node done")
		cur = next
	}
	return cur, nil
}
