package core

// Item 是推荐链路中的统一承载结构：候选物品、分数、标签。
// Labels 用于解释与观测；Score 用于排序决策。
type Item struct {
	ID     int64
	Score  float64
	Meta   map[string]any
	Labels map[string]Label
}

func NewItem(id int64) *Item {
	return &Item{
		ID:     id,
		Meta:   make(map[string]any),
		Labels: make(map[string]Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按 MergeLabel 规则累积。
func (it *Item) PutLabel(key string, lbl Label) {
	it.Labels = putLabel(it.Labels, key, lbl)
}

// GetLabel 获取物品 Label。
func (it *Item) GetLabel(key string) (Label, bool) {
	lbl, ok := it.Labels[key]
	return lbl, ok
}
