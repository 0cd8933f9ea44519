package tfidf

import (
	"cmp"
	"context"
	"encoding/binary"
	"fmt"
	"slices"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/rushteam/tagrec/core"
)

// itemDigest 是单个物品 (id, 标签多重集合) 的哈希。
type itemDigest struct {
	id  int64
	sum uint64
}

// Fingerprint 计算语料指纹，覆盖词表顺序、物品集合和每个物品的标签多重集合。
// 会改变模型的语料变化都会改变指纹；物品内标签顺序和 ItemIDs 的返回顺序不影响结果。
func (b *ModelBuilder) Fingerprint(ctx context.Context) (string, error) {
	if b.DAO == nil {
		return "", core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput, "model builder: DAO is nil")
	}
	tags, err := b.DAO.TagVocabulary(ctx)
	if err != nil {
		return "", core.WrapDomainError(core.ModuleDataset, core.ErrorCodeUnavailable, "read tag vocabulary", err)
	}
	ids, err := b.DAO.ItemIDs(ctx)
	if err != nil {
		return "", core.WrapDomainError(core.ModuleDataset, core.ErrorCodeUnavailable, "read item ids", err)
	}

	items := make([]itemDigest, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		itemTags, err := b.DAO.ItemTags(ctx, id)
		if err != nil {
			return "", core.WrapDomainError(core.ModuleDataset, core.ErrorCodeUnavailable,
				fmt.Sprintf("read tags of item %d", id), err)
		}
		items = append(items, itemDigest{id: id, sum: digestItem(id, itemTags)})
	}
	return combineDigest(NewVocabulary(tags), items), nil
}

func digestItem(id int64, tags []string) uint64 {
	sorted := slices.Clone(tags)
	slices.Sort(sorted)

	d := xxhash.New()
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(id))
	_, _ = d.Write(buf[:])
	for _, t := range sorted {
		_, _ = d.WriteString(t)
		_, _ = d.Write([]byte{0})
	}
	return d.Sum64()
}

// combineDigest 按物品 ID 排序后合并，items 会被原地排序。
func combineDigest(vocab *Vocabulary, items []itemDigest) string {
	slices.SortFunc(items, func(a, b itemDigest) int {
		return cmp.Compare(a.id, b.id)
	})

	d := xxhash.New()
	for _, t := range vocab.Tags() {
		_, _ = d.WriteString(t)
		_, _ = d.Write([]byte{0})
	}
	_, _ = d.Write([]byte{1})

	var buf [8]byte
	for _, it := range items {
		binary.BigEndian.PutUint64(buf[:], it.sum)
		_, _ = d.Write(buf[:])
	}
	return strconv.FormatUint(d.Sum64(), 16)
}
