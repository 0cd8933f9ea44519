package filter

import (
	"context"

	"github.com/goccy/go-json"

	"github.com/rushteam/tagrec/core"
	"github.com/rushteam/tagrec/pipeline"
	"github.com/rushteam/tagrec/pkg/logx"
)

// BlacklistFilter 是黑名单过滤 Node，过滤掉黑名单中的物品。
//
// 黑名单来自两处，取并集：
//   - ItemIDs：配置中的静态列表
//   - Store + Key：存储中的 JSON 数组，例如 [11, 12]；key 不存在视为空
//
// 存储中的列表每次 Process 只读取一次。读取或解析失败时记录日志，只按静态列表过滤。
type BlacklistFilter struct {
	ItemIDs []int64
	Store   core.Store
	Key     string

	static map[int64]struct{}
}

// NewBlacklistFilter 创建一个黑名单过滤器。
func NewBlacklistFilter(itemIDs []int64, store core.Store, key string) *BlacklistFilter {
	static := make(map[int64]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		static[id] = struct{}{}
	}
	return &BlacklistFilter{
		ItemIDs: itemIDs,
		Store:   store,
		Key:     key,
		static:  static,
	}
}

func (f *BlacklistFilter) Name() string        { return "filter.blacklist" }
func (f *BlacklistFilter) Kind() pipeline.Kind { return pipeline.KindFilter }

func (f *BlacklistFilter) Process(
	ctx context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	stored, err := f.load(ctx)
	if err != nil {
		logx.Debug().Err(err).Str("key", f.Key).Msg("blacklist unavailable, using static list")
	}

	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		if _, ok := f.static[it.ID]; ok {
			continue
		}
		if _, ok := stored[it.ID]; ok {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

// load 读取存储中的黑名单；未配置或 key 不存在时返回 nil。
func (f *BlacklistFilter) load(ctx context.Context) (map[int64]struct{}, error) {
	if f.Store == nil || f.Key == "" {
		return nil, nil
	}
	data, err := f.Store.Get(ctx, f.Key)
	if core.IsStoreNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var ids []int64
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, core.WrapDomainError(core.ModuleStore, core.ErrorCodeInvalidInput, "decode blacklist "+f.Key, err)
	}
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}
