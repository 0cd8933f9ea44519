package config

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rushteam/tagrec/core"
	"github.com/rushteam/tagrec/pipeline"
	"github.com/rushteam/tagrec/tfidf"
)

// RatingSource 同时提供评分历史（rank.tfidf）和已评分物品集合（filter.rated）。
type RatingSource interface {
	core.RatingDAO
	core.RatedItemDAO
}

// Env 是构建 Node 时可用的运行时依赖。
type Env struct {
	Model   *tfidf.Model
	Items   core.ItemDAO
	Ratings RatingSource

	// Store 供 recall.list / filter.blacklist 读取运营数据（可选）
	Store core.Store
}

// NodeBuilder 根据运行时依赖和 config 构建 Node。
// 各组件在 init 中调用 Register(typeName, builder) 即可被配置驱动。
type NodeBuilder func(env *Env, config map[string]any) (pipeline.Node, error)

var (
	defaultBuilders   = make(map[string]NodeBuilder)
	defaultBuildersMu sync.RWMutex
)

// Register 注册一种 Node 的构建逻辑。
func Register(typeName string, builder NodeBuilder) {
	if typeName == "" || builder == nil {
		return
	}
	defaultBuildersMu.Lock()
	defer defaultBuildersMu.Unlock()
	defaultBuilders[typeName] = builder
}

// SupportedTypes 返回当前已注册的 Node 类型列表（排序），用于错误提示与校验。
func SupportedTypes() []string {
	defaultBuildersMu.RLock()
	defer defaultBuildersMu.RUnlock()
	types := make([]string, 0, len(defaultBuilders))
	for t := range defaultBuilders {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// NodeFactory 返回绑定了 env 的 NodeFactory，包含所有已注册的 Node 类型。
func NodeFactory(env *Env) *pipeline.NodeFactory {
	defaultBuildersMu.RLock()
	defer defaultBuildersMu.RUnlock()
	f := pipeline.NewNodeFactory()
	for typeName, builder := range defaultBuilders {
		f.Register(typeName, func(cfg map[string]any) (pipeline.Node, error) {
			return builder(env, cfg)
		})
	}
	return f
}

// ValidatePipelineConfig 校验 pipeline 配置中所有 node 类型均已注册；若有未支持类型则返回包含已支持列表的错误。
func ValidatePipelineConfig(cfg *pipeline.Config) error {
	if cfg == nil || len(cfg.Pipeline.Nodes) == 0 {
		return core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidInput, "pipeline has no nodes")
	}
	defaultBuildersMu.RLock()
	defer defaultBuildersMu.RUnlock()
	for _, nc := range cfg.Pipeline.Nodes {
		if _, ok := defaultBuilders[nc.Type]; !ok {
			supported := make([]string, 0, len(defaultBuilders))
			for t := range defaultBuilders {
				supported = append(supported, t)
			}
			sort.Strings(supported)
			return core.NewDomainError(core.ModuleConfig, core.ErrorCodeNotSupported,
				fmt.Sprintf("unsupported node type %q (supported: %v)", nc.Type, supported))
		}
	}
	return nil
}

// DefaultPipelineConfig 返回内置 pipeline：物品全集 -> 剔除已评分 -> TF-IDF 排序 -> Top-N。
func DefaultPipelineConfig(topN int) *pipeline.Config {
	cfg := &pipeline.Config{}
	cfg.Pipeline.Name = "tagrec"
	cfg.Pipeline.Nodes = []pipeline.NodeConfig{
		{Type: "recall.catalog"},
		{Type: "filter.rated"},
		{Type: "rank.tfidf"},
		{Type: "rerank.topn", Config: map[string]any{"n": topN}},
	}
	return cfg
}
