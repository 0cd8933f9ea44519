package rerank

import (
	"context"

	"github.com/rushteam/tagrec/core"
	"github.com/rushteam/tagrec/pipeline"
)

// TopNNode 是一个 Top-N 截断节点，用于在排序后截取前 N 个物品。
// 通常放在 rank.tfidf 之后，对应命令行的 --n 参数。
//
// 示例：
//
//	p := &pipeline.Pipeline{
//	    Nodes: []pipeline.Node{
//	        &recall.Catalog{...},
//	        &filter.RatedFilter{...},
//	        &rank.TFIDFNode{...},
//	        &rerank.TopNNode{N: 5},
//	    },
//	}
type TopNNode struct {
	// N 要保留的物品数量，N <= 0 时不截断
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.N <= 0 || len(items) <= n.N {
		return items, nil
	}
	for _, it := range items[:n.N] {
		it.PutLabel("rerank", core.Label{Value: "topn", Source: "rerank"})
	}
	return items[:n.N], nil
}
