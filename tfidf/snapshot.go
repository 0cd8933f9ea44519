package tfidf

import (
	"context"
	"fmt"
	"math"

	"github.com/goccy/go-json"

	"github.com/rushteam/tagrec/core"
	"github.com/rushteam/tagrec/metrics"
	"github.com/rushteam/tagrec/pkg/logx"
	"github.com/rushteam/tagrec/vector"
)

// SnapshotVersion 是快照格式版本，格式不兼容时递增。
const SnapshotVersion = 2

// DefaultSnapshotKey 是模型快照在 Store 中的默认 key。
const DefaultSnapshotKey = "tagrec:model:tfidf"

type snapshot struct {
	Version     int            `json:"version"`
	Fingerprint string         `json:"fingerprint"`
	Tags        []string       `json:"tags"`
	IDF         []float64      `json:"idf"`
	Items       []snapshotItem `json:"items"`
}

type snapshotItem struct {
	ID      int64     `json:"id"`
	Tags    []int64   `json:"tags"`
	Weights []float64 `json:"weights"`
}

// Encode 将模型序列化为 JSON 快照。
func Encode(m *Model) ([]byte, error) {
	s := snapshot{
		Version:     SnapshotVersion,
		Fingerprint: m.fingerprint,
		Tags:        m.vocab.Tags(),
		IDF:         make([]float64, m.vocab.Len()),
		Items:       make([]snapshotItem, 0, len(m.items)),
	}
	m.idf.Each(func(tagID int64, w float64) {
		s.IDF[tagID-1] = w
	})
	for _, id := range m.Items() {
		v := m.items[id]
		it := snapshotItem{
			ID:      id,
			Tags:    v.Domain(),
			Weights: make([]float64, 0, v.Size()),
		}
		for _, tagID := range it.Tags {
			it.Weights = append(it.Weights, v.GetOr(tagID, 0))
		}
		s.Items = append(s.Items, it)
	}
	return json.Marshal(s)
}

// Decode 从 JSON 快照恢复模型，快照不一致时返回 INVALID_INPUT 错误。
func Decode(data []byte) (*Model, error) {
	var s snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, invalidSnapshot("decode json", err)
	}
	if s.Version != SnapshotVersion {
		return nil, invalidSnapshot(fmt.Sprintf("unsupported version %d", s.Version), nil)
	}

	vocab := NewVocabulary(s.Tags)
	if vocab.Len() != len(s.Tags) {
		return nil, invalidSnapshot("duplicate tags in vocabulary", nil)
	}
	if len(s.IDF) != vocab.Len() {
		return nil, invalidSnapshot(fmt.Sprintf("idf has %d entries for %d tags", len(s.IDF), vocab.Len()), nil)
	}

	idf := vector.NewBuilder(vocab.IDs())
	for k, w := range s.IDF {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, invalidSnapshot(fmt.Sprintf("idf of tag %d is not finite", k+1), nil)
		}
		_ = idf.Set(int64(k+1), w)
	}

	items := make(map[int64]*vector.SparseVector, len(s.Items))
	for _, it := range s.Items {
		if _, dup := items[it.ID]; dup {
			return nil, invalidSnapshot(fmt.Sprintf("duplicate item %d", it.ID), nil)
		}
		if len(it.Tags) != len(it.Weights) {
			return nil, invalidSnapshot(fmt.Sprintf("item %d: %d tags but %d weights", it.ID, len(it.Tags), len(it.Weights)), nil)
		}
		b := vector.NewBuilder(it.Tags)
		if b.Size() != len(it.Tags) {
			return nil, invalidSnapshot(fmt.Sprintf("item %d: duplicate tag ids", it.ID), nil)
		}
		for j, tagID := range it.Tags {
			if _, ok := vocab.Tag(tagID); !ok {
				return nil, invalidSnapshot(fmt.Sprintf("item %d: unknown tag id %d", it.ID, tagID), nil)
			}
			w := it.Weights[j]
			if math.IsNaN(w) || math.IsInf(w, 0) {
				return nil, invalidSnapshot(fmt.Sprintf("item %d: weight of tag %d is not finite", it.ID, tagID), nil)
			}
			_ = b.Set(tagID, w)
		}
		items[it.ID] = b.Freeze()
	}

	return &Model{vocab: vocab, items: items, idf: idf.Freeze(), fingerprint: s.Fingerprint}, nil
}

func invalidSnapshot(msg string, err error) error {
	return core.WrapDomainError(core.ModuleModel, core.ErrorCodeInvalidInput, "invalid snapshot: "+msg, err)
}

// SaveModel 将模型快照写入 store，ttl 单位为秒。
func SaveModel(ctx context.Context, store core.Store, key string, m *Model, ttl ...int) error {
	data, err := Encode(m)
	if err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	if err := store.Set(ctx, key, data, ttl...); err != nil {
		return fmt.Errorf("save model to %s: %w", store.Name(), err)
	}
	return nil
}

// LoadModel 从 store 读取模型快照；key 不存在时返回 core.ErrStoreNotFound。
func LoadModel(ctx context.Context, store core.Store, key string) (*Model, error) {
	data, err := store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// LoadOrBuild 优先使用 store 中的快照，否则调用 builder 构建并回写快照。
//
// rebuild 为 true 时忽略已有快照。快照的语料指纹与 builder 当前语料不一致时视为未命中；
// 快照损坏或读取失败都会退回到重新构建；
// 回写失败只记录日志，不影响返回的模型。loaded 表示模型是否来自快照。
func LoadOrBuild(ctx context.Context, store core.Store, key string, builder *ModelBuilder, rebuild bool, ttl ...int) (m *Model, loaded bool, err error) {
	if key == "" {
		key = DefaultSnapshotKey
	}

	if !rebuild {
		want, err := builder.Fingerprint(ctx)
		if err != nil {
			return nil, false, err
		}
		m, err := LoadModel(ctx, store, key)
		switch {
		case err == nil && m.fingerprint != want:
			metrics.ModelSnapshots.WithLabelValues(metrics.SnapshotMiss).Inc()
			logx.Debug().Str("store", store.Name()).Str("key", key).
				Str("snapshot", m.fingerprint).Str("corpus", want).
				Msg("model snapshot stale, rebuilding")
		case err == nil:
			metrics.ModelSnapshots.WithLabelValues(metrics.SnapshotHit).Inc()
			metrics.ModelItems.Set(float64(m.Len()))
			metrics.ModelTags.Set(float64(m.vocab.Len()))
			logx.Debug().Str("store", store.Name()).Str("key", key).Int("items", m.Len()).Msg("model snapshot loaded")
			return m, true, nil
		case core.IsStoreNotFound(err):
			metrics.ModelSnapshots.WithLabelValues(metrics.SnapshotMiss).Inc()
			logx.Debug().Str("store", store.Name()).Str("key", key).Msg("model snapshot missing")
		default:
			metrics.ModelSnapshots.WithLabelValues(metrics.SnapshotError).Inc()
			logx.Debug().Err(err).Str("store", store.Name()).Str("key", key).Msg("model snapshot unusable, rebuilding")
		}
	}

	m, err = builder.Build(ctx)
	if err != nil {
		return nil, false, err
	}

	if err := SaveModel(ctx, store, key, m, ttl...); err != nil {
		metrics.ModelSnapshots.WithLabelValues(metrics.SnapshotError).Inc()
		logx.Warn().Err(err).Str("key", key).Msg("model snapshot not saved")
		return m, false, nil
	}
	metrics.ModelSnapshots.WithLabelValues(metrics.SnapshotSaved).Inc()
	logx.Debug().Str("store", store.Name()).Str("key", key).Msg("model snapshot saved")
	return m, false, nil
}
