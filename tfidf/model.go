// Package tfidf 构建并持有物品的 TF-IDF 标签向量。
//
// 模型由 ModelBuilder 一次性扫描全量语料得到，之后只读，可以在任意多个
// goroutine 间无锁共享。
package tfidf

import (
	"slices"

	"github.com/rushteam/tagrec/vector"
)

// Model 保存标签词表和每个物品归一化后的 TF-IDF 向量。
//
// 每个物品向量的定义域恰好是该物品携带的不同标签；向量要么是单位向量，
// 要么全为 0（所有标签的 IDF 均为 0），没有标签的物品定义域为空。
type Model struct {
	vocab *Vocabulary
	items map[int64]*vector.SparseVector
	idf   *vector.SparseVector

	// fingerprint 是构建所用语料的指纹，见 ModelBuilder.Fingerprint
	fingerprint string
}

// Vocabulary 返回标签词表。
func (m *Model) Vocabulary() *Vocabulary {
	return m.vocab
}

// NewTagVector 返回覆盖全部标签 ID 的可变向量，所有条目已置 0。
func (m *Model) NewTagVector() *vector.Builder {
	b := vector.NewBuilder(m.vocab.IDs())
	b.Fill(0)
	return b
}

// ItemVector 返回物品的标签向量；未知物品返回空向量。
func (m *Model) ItemVector(itemID int64) *vector.SparseVector {
	if v, ok := m.items[itemID]; ok {
		return v
	}
	return vector.Empty()
}

// HasItem 判断物品是否在模型中。
func (m *Model) HasItem(itemID int64) bool {
	_, ok := m.items[itemID]
	return ok
}

// Items 返回模型中的物品 ID（升序）。
func (m *Model) Items() []int64 {
	ids := make([]int64, 0, len(m.items))
	for id := range m.items {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Len 返回物品数量。
func (m *Model) Len() int {
	return len(m.items)
}

// Fingerprint 返回构建模型所用语料的指纹。
func (m *Model) Fingerprint() string {
	return m.fingerprint
}

// IDF 返回覆盖全部标签的 IDF 向量（log10 文档频率）。
func (m *Model) IDF() *vector.SparseVector {
	return m.idf
}
