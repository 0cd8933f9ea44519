package vector

import "slices"

// Builder 是可变的稀疏向量，定义域在 NewBuilder 时固定。
//
// 典型用法：
//
//	b := vector.NewBuilder(domain)
//	b.Fill(0)
//	_ = b.Add(tagID, 1)
//	v := b.Shrink().Freeze()
//
// Builder 不是并发安全的。
type Builder struct {
	keys   []int64
	values []float64
	set    []bool
}

// NewBuilder 创建定义域为 domain 的向量，所有 key 初始为未设置。
// domain 中重复的 key 会被合并。
func NewBuilder(domain []int64) *Builder {
	keys := slices.Clone(domain)
	if !slices.IsSorted(keys) {
		slices.Sort(keys)
	}
	keys = slices.Compact(keys)
	return &Builder{
		keys:   keys,
		values: make([]float64, len(keys)),
		set:    make([]bool, len(keys)),
	}
}

// Size 返回定义域大小。
func (b *Builder) Size() int {
	return len(b.keys)
}

// Len 返回已设置的 key 数量。
func (b *Builder) Len() int {
	n := 0
	for _, ok := range b.set {
		if ok {
			n++
		}
	}
	return n
}

// Contains 判断 key 是否在定义域内。
func (b *Builder) Contains(key int64) bool {
	_, ok := locate(b.keys, key)
	return ok
}

// Get 返回 key 的值，错误语义同 SparseVector.Get。
func (b *Builder) Get(key int64) (float64, error) {
	i, ok := locate(b.keys, key)
	if !ok {
		return 0, ErrKeyNotInDomain
	}
	if !b.set[i] {
		return 0, ErrKeyUnset
	}
	return b.values[i], nil
}

// GetOr 返回 key 的值，未设置或不在定义域内时返回 def。
func (b *Builder) GetOr(key int64, def float64) float64 {
	i, ok := locate(b.keys, key)
	if !ok || !b.set[i] {
		return def
	}
	return b.values[i]
}

// Set 设置 key 的值。
func (b *Builder) Set(key int64, value float64) error {
	i, ok := locate(b.keys, key)
	if !ok {
		return ErrKeyNotInDomain
	}
	b.values[i] = value
	b.set[i] = true
	return nil
}

// Add 在 key 的当前值上累加 delta；key 未设置时视为 0。
func (b *Builder) Add(key int64, delta float64) error {
	i, ok := locate(b.keys, key)
	if !ok {
		return ErrKeyNotInDomain
	}
	if b.set[i] {
		b.values[i] += delta
	} else {
		b.values[i] = delta
		b.set[i] = true
	}
	return nil
}

// Unset 将 key 恢复为未设置状态。
func (b *Builder) Unset(key int64) error {
	i, ok := locate(b.keys, key)
	if !ok {
		return ErrKeyNotInDomain
	}
	b.values[i] = 0
	b.set[i] = false
	return nil
}

// Clear 将所有 key 恢复为未设置状态，定义域不变。
func (b *Builder) Clear() {
	clear(b.values)
	clear(b.set)
}

// Fill 将定义域内所有 key 设置为 value。
func (b *Builder) Fill(value float64) {
	for i := range b.keys {
		b.values[i] = value
		b.set[i] = true
	}
}

// Each 按 key 升序遍历已设置的条目。
func (b *Builder) Each(fn func(key int64, value float64)) {
	for i, k := range b.keys {
		if b.set[i] {
			fn(k, b.values[i])
		}
	}
}

// Apply 对每个已设置的条目原地应用 fn。
func (b *Builder) Apply(fn func(key int64, value float64) float64) {
	for i, k := range b.keys {
		if b.set[i] {
			b.values[i] = fn(k, b.values[i])
		}
	}
}

// AddScaled 将 scale * v 累加到当前向量；v 中不在本定义域内的 key 被忽略。
func (b *Builder) AddScaled(v *SparseVector, scale float64) {
	i, j := 0, 0
	for i < len(b.keys) && j < len(v.keys) {
		switch {
		case b.keys[i] == v.keys[j]:
			if v.set[j] {
				if b.set[i] {
					b.values[i] += scale * v.values[j]
				} else {
					b.values[i] = scale * v.values[j]
					b.set[i] = true
				}
			}
			i++
			j++
		case b.keys[i] < v.keys[j]:
			i++
		default:
			j++
		}
	}
}

// Norm 返回欧氏范数（L2）。
func (b *Builder) Norm() float64 {
	return norm(b.values, b.set)
}

// Shrink 返回一个新的 Builder，定义域只包含当前已设置的 key。
func (b *Builder) Shrink() *Builder {
	n := b.Len()
	out := &Builder{
		keys:   make([]int64, 0, n),
		values: make([]float64, 0, n),
		set:    make([]bool, 0, n),
	}
	for i, k := range b.keys {
		if b.set[i] {
			out.keys = append(out.keys, k)
			out.values = append(out.values, b.values[i])
			out.set = append(out.set, true)
		}
	}
	return out
}

// Freeze 返回当前内容的不可变副本，Builder 之后仍可继续使用。
func (b *Builder) Freeze() *SparseVector {
	if len(b.keys) == 0 {
		return Empty()
	}
	return &SparseVector{
		keys:   slices.Clone(b.keys),
		values: slices.Clone(b.values),
		set:    slices.Clone(b.set),
	}
}
