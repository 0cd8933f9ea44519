package config

import (
	"fmt"
	"time"

	"github.com/rushteam/tagrec/core"
	"github.com/rushteam/tagrec/filter"
	"github.com/rushteam/tagrec/pipeline"
	"github.com/rushteam/tagrec/pkg/conv"
	"github.com/rushteam/tagrec/rank"
	"github.com/rushteam/tagrec/recall"
	"github.com/rushteam/tagrec/rerank"
)

func init() {
	Register("recall.catalog", BuildCatalogNode)
	Register("recall.list", BuildListNode)
	Register("recall.fanout", BuildFanoutNode)
	Register("filter.rated", BuildRatedFilterNode)
	Register("filter.expr", BuildExprFilterNode)
	Register("filter.blacklist", BuildBlacklistFilterNode)
	Register("rank.tfidf", BuildTFIDFNode)
	Register("rerank.topn", BuildTopNNode)
}

func missing(dep, nodeType string) error {
	return core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidInput,
		fmt.Sprintf("%s requires %s", nodeType, dep))
}

func BuildCatalogNode(env *Env, _ map[string]any) (pipeline.Node, error) {
	if env == nil || env.Items == nil {
		return nil, missing("item data", "recall.catalog")
	}
	return &recall.Catalog{Items: env.Items}, nil
}

func buildList(env *Env, cfg map[string]any) *recall.List {
	l := &recall.List{
		IDs: conv.SliceAnyToInt64(cfg["ids"]),
		Key: conv.ConfigGet(cfg, "key", ""),
	}
	if env != nil {
		l.Store = env.Store
	}
	return l
}

func BuildListNode(env *Env, cfg map[string]any) (pipeline.Node, error) {
	return buildList(env, cfg), nil
}

// BuildFanoutNode 配置示例：
//
//	type: recall.fanout
//	config:
//	  timeout_ms: 200
//	  max_concurrent: 2
//	  merge_strategy: first
//	  sources:
//	    - type: list
//	      key: featured
//	    - type: catalog
func BuildFanoutNode(env *Env, cfg map[string]any) (pipeline.Node, error) {
	sourcesConfig, ok := cfg["sources"].([]any)
	if !ok {
		return nil, fmt.Errorf("sources not found or invalid")
	}

	sources := make([]recall.Source, 0, len(sourcesConfig))
	for _, sc := range sourcesConfig {
		sourceMap, ok := sc.(map[string]any)
		if !ok {
			continue
		}
		switch sourceType := conv.ConfigGet(sourceMap, "type", ""); sourceType {
		case "catalog":
			if env == nil || env.Items == nil {
				return nil, missing("item data", "recall.fanout catalog source")
			}
			sources = append(sources, &recall.Catalog{Items: env.Items})
		case "list":
			sources = append(sources, buildList(env, sourceMap))
		default:
			return nil, fmt.Errorf("unknown source type: %s", sourceType)
		}
	}

	fanout := &recall.Fanout{
		Sources:       sources,
		MaxConcurrent: int(conv.ConfigGetInt64(cfg, "max_concurrent", 0)),
		MergeStrategy: conv.ConfigGet(cfg, "merge_strategy", recall.MergeFirst),
	}
	if ms := conv.ConfigGetInt64(cfg, "timeout_ms", 0); ms > 0 {
		fanout.Timeout = time.Duration(ms) * time.Millisecond
	}
	return fanout, nil
}

func BuildRatedFilterNode(env *Env, _ map[string]any) (pipeline.Node, error) {
	if env == nil || env.Ratings == nil {
		return nil, missing("rating data", "filter.rated")
	}
	return &filter.RatedFilter{Rated: env.Ratings}, nil
}

func BuildExprFilterNode(_ *Env, cfg map[string]any) (pipeline.Node, error) {
	expr := conv.ConfigGet(cfg, "expr", "")
	if expr == "" {
		return nil, fmt.Errorf("expr not found")
	}
	f, err := filter.NewExprFilter(expr, conv.ConfigGet(cfg, "keep", false))
	if err != nil {
		return nil, err
	}
	return &filter.FilterNode{Filters: []filter.Filter{f}}, nil
}

func BuildBlacklistFilterNode(env *Env, cfg map[string]any) (pipeline.Node, error) {
	var s core.Store
	if env != nil {
		s = env.Store
	}
	return filter.NewBlacklistFilter(conv.SliceAnyToInt64(cfg["item_ids"]), s, conv.ConfigGet(cfg, "key", "")), nil
}

func BuildTFIDFNode(env *Env, _ map[string]any) (pipeline.Node, error) {
	if env == nil || env.Model == nil {
		return nil, missing("a TF-IDF model", "rank.tfidf")
	}
	if env.Ratings == nil {
		return nil, missing("rating data", "rank.tfidf")
	}
	return &rank.TFIDFNode{Scorer: rank.NewTFIDFScorer(env.Model, env.Ratings)}, nil
}

func BuildTopNNode(_ *Env, cfg map[string]any) (pipeline.Node, error) {
	return &rerank.TopNNode{N: int(conv.ConfigGetInt64(cfg, "n", 0))}, nil
}
