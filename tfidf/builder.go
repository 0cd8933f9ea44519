package tfidf

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/tagrec/core"
	"github.com/rushteam/tagrec/metrics"
	"github.com/rushteam/tagrec/pkg/logx"
	"github.com/rushteam/tagrec/vector"
)

// ModelBuilder 从物品标签语料构建 TF-IDF 模型。
//
// 构建流程：
//  1. 由 DAO.TagVocabulary 建立词表
//  2. 逐物品统计词频（同一标签重复出现重复计数），收缩为物品实际携带的标签
//  3. 统计文档频率：每个物品的每个不同标签计 1 次
//  4. idf = log10(DF)
//  5. weight = tf * idf，然后做 L2 归一化（范数为 0 时保持全 0）
//
// 物品按块并发处理：每个 worker 持有自己的词频工作向量和局部 DF，
// 完成后在锁内合并到全局 DF。
type ModelBuilder struct {
	DAO core.ItemTagDAO

	// Workers 并发 worker 数，<=0 时使用 GOMAXPROCS
	Workers int
}

// Build 扫描全量语料并返回不可变模型。
func (b *ModelBuilder) Build(ctx context.Context) (*Model, error) {
	if b.DAO == nil {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput, "model builder: DAO is nil")
	}
	start := time.Now()

	tags, err := b.DAO.TagVocabulary(ctx)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleDataset, core.ErrorCodeUnavailable, "read tag vocabulary", err)
	}
	vocab := NewVocabulary(tags)

	ids, err := b.DAO.ItemIDs(ctx)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleDataset, core.ErrorCodeUnavailable, "read item ids", err)
	}

	workers := b.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	tfs := make([]*vector.Builder, len(ids))
	digests := make([]itemDigest, len(ids))
	df := make([]float64, vocab.Len()) // df[tagID-1]
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, span := range chunks(len(ids), workers) {
		g.Go(func() error {
			work := vector.NewBuilder(vocab.IDs())
			partial := make([]float64, vocab.Len())
			for i := span[0]; i < span[1]; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				tv, sum, err := b.countTerms(gctx, vocab, ids[i], work)
				if err != nil {
					return err
				}
				digests[i] = itemDigest{id: ids[i], sum: sum}
				tv.Each(func(tagID int64, _ float64) {
					partial[tagID-1]++
				})
				tfs[i] = tv
			}

			mu.Lock()
			for k, n := range partial {
				df[k] += n
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	idf := vector.NewBuilder(vocab.IDs())
	for k, n := range df {
		w := 0.0
		if n > 0 {
			w = math.Log10(n)
		}
		_ = idf.Set(int64(k+1), w)
	}

	items := make(map[int64]*vector.SparseVector, len(ids))
	for i, tv := range tfs {
		tv.Apply(func(tagID int64, tf float64) float64 {
			return tf * idf.GetOr(tagID, 0)
		})
		if n := tv.Norm(); n > 0 {
			tv.Apply(func(_ int64, w float64) float64 {
				return w / n
			})
		}
		items[ids[i]] = tv.Freeze()
	}

	m := &Model{
		vocab:       vocab,
		items:       items,
		idf:         idf.Freeze(),
		fingerprint: combineDigest(vocab, digests),
	}

	elapsed := time.Since(start)
	metrics.ModelBuildDuration.Observe(elapsed.Seconds())
	metrics.ModelItems.Set(float64(m.Len()))
	metrics.ModelTags.Set(float64(vocab.Len()))
	logx.Debug().
		Int("items", m.Len()).
		Int("tags", vocab.Len()).
		Int("workers", workers).
		Dur("elapsed", elapsed).
		Msg("tfidf model built")

	return m, nil
}

// countTerms 统计单个物品的原始词频，返回收缩到该物品标签集合的向量和物品指纹。
// work 会被清空后复用。
func (b *ModelBuilder) countTerms(ctx context.Context, vocab *Vocabulary, itemID int64, work *vector.Builder) (*vector.Builder, uint64, error) {
	tags, err := b.DAO.ItemTags(ctx, itemID)
	if err != nil {
		return nil, 0, core.WrapDomainError(core.ModuleDataset, core.ErrorCodeUnavailable,
			fmt.Sprintf("read tags of item %d", itemID), err)
	}

	work.Clear()
	for _, tag := range tags {
		id, ok := vocab.ID(tag)
		if !ok {
			return nil, 0, core.NewDomainError(core.ModuleDataset, core.ErrorCodeInvalidInput,
				fmt.Sprintf("item %d has tag %q missing from vocabulary", itemID, tag))
		}
		_ = work.Add(id, 1)
	}
	return work.Shrink(), digestItem(itemID, tags), nil
}

// chunks 将 [0, n) 切成至多 parts 段连续区间。
func chunks(n, parts int) [][2]int {
	if n == 0 {
		return nil
	}
	if parts > n {
		parts = n
	}
	size := (n + parts - 1) / parts
	out := make([][2]int, 0, parts)
	for lo := 0; lo < n; lo += size {
		out = append(out, [2]int{lo, min(lo+size, n)})
	}
	return out
}
