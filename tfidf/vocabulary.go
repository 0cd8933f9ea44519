package tfidf

// Vocabulary 是标签字符串与正整数 ID 之间的双射。
// ID 从 1 开始按标签首次出现的顺序连续分配，构建后不可变。
type Vocabulary struct {
	ids  map[string]int64
	tags []string // tags[id-1]
	keys []int64  // 1..N，作为向量定义域复用
}

// NewVocabulary 按首次出现顺序为 tags 分配 ID，重复标签只计一次。
func NewVocabulary(tags []string) *Vocabulary {
	v := &Vocabulary{
		ids:  make(map[string]int64, len(tags)),
		tags: make([]string, 0, len(tags)),
	}
	for _, tag := range tags {
		if _, ok := v.ids[tag]; ok {
			continue
		}
		v.tags = append(v.tags, tag)
		v.ids[tag] = int64(len(v.tags))
	}
	v.keys = make([]int64, len(v.tags))
	for i := range v.keys {
		v.keys[i] = int64(i + 1)
	}
	return v
}

// Len 返回标签数量。
func (v *Vocabulary) Len() int {
	return len(v.tags)
}

// ID 返回标签的 ID。
func (v *Vocabulary) ID(tag string) (int64, bool) {
	id, ok := v.ids[tag]
	return id, ok
}

// Tag 返回 ID 对应的标签。
func (v *Vocabulary) Tag(id int64) (string, bool) {
	if id < 1 || id > int64(len(v.tags)) {
		return "", false
	}
	return v.tags[id-1], true
}

// IDs 返回所有 ID（升序）。返回值为共享切片，调用方不得修改。
func (v *Vocabulary) IDs() []int64 {
	return v.keys
}

// Tags 返回按 ID 排列的标签（副本）。
func (v *Vocabulary) Tags() []string {
	out := make([]string, len(v.tags))
	copy(out, v.tags)
	return out
}
