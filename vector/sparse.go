// Package vector 提供固定定义域的稀疏向量。
//
// 向量的 key 定义域在创建时确定，之后不可扩展。定义域内的 key 有两种状态：
// 已设置（set）与未设置（unset）。访问定义域外的 key 返回 ErrKeyNotInDomain，
// 访问未设置的 key 返回 ErrKeyUnset，两种错误互不混淆。
//
// Builder 是可变形态，只在构建阶段使用；Freeze 之后得到的 SparseVector
// 没有任何修改方法，可以在多个 goroutine 间无锁共享。
package vector

import (
	"errors"
	"math"
	"slices"
)

var (
	// ErrKeyNotInDomain 表示 key 不在向量定义域内
	ErrKeyNotInDomain = errors.New("vector: key not in domain")

	// ErrKeyUnset 表示 key 在定义域内但尚未设置值
	ErrKeyUnset = errors.New("vector: key is unset")
)

// SparseVector 是不可变的稀疏向量。
// 未设置的 key 在 Dot / Norm 中视为 0。
type SparseVector struct {
	keys   []int64 // 升序定义域
	values []float64
	set    []bool
}

var empty = &SparseVector{}

// Empty 返回定义域为空的向量。
func Empty() *SparseVector {
	return empty
}

// Size 返回定义域大小。
func (v *SparseVector) Size() int {
	return len(v.keys)
}

// Len 返回已设置的 key 数量。
func (v *SparseVector) Len() int {
	n := 0
	for _, ok := range v.set {
		if ok {
			n++
		}
	}
	return n
}

// Domain 返回定义域（升序，副本）。
func (v *SparseVector) Domain() []int64 {
	return slices.Clone(v.keys)
}

// Contains 判断 key 是否在定义域内。
func (v *SparseVector) Contains(key int64) bool {
	_, ok := locate(v.keys, key)
	return ok
}

// Get 返回 key 的值。
func (v *SparseVector) Get(key int64) (float64, error) {
	i, ok := locate(v.keys, key)
	if !ok {
		return 0, ErrKeyNotInDomain
	}
	if !v.set[i] {
		return 0, ErrKeyUnset
	}
	return v.values[i], nil
}

// GetOr 返回 key 的值，未设置或不在定义域内时返回 def。
func (v *SparseVector) GetOr(key int64, def float64) float64 {
	i, ok := locate(v.keys, key)
	if !ok || !v.set[i] {
		return def
	}
	return v.values[i]
}

// Each 按 key 升序遍历已设置的条目。
func (v *SparseVector) Each(fn func(key int64, value float64)) {
	for i, k := range v.keys {
		if v.set[i] {
			fn(k, v.values[i])
		}
	}
}

// Dot 计算与另一向量的点积（两个升序 key 列表做归并）。
func (v *SparseVector) Dot(o *SparseVector) float64 {
	var dot float64
	i, j := 0, 0
	for i < len(v.keys) && j < len(o.keys) {
		switch {
		case v.keys[i] == o.keys[j]:
			if v.set[i] && o.set[j] {
				dot += v.values[i] * o.values[j]
			}
			i++
			j++
		case v.keys[i] < o.keys[j]:
			i++
		default:
			j++
		}
	}
	return dot
}

// Norm 返回欧氏范数（L2）。
func (v *SparseVector) Norm() float64 {
	return norm(v.values, v.set)
}

func norm(values []float64, set []bool) float64 {
	var sum float64
	for i, x := range values {
		if set[i] {
			sum += x * x
		}
	}
	return math.Sqrt(sum)
}

// locate 在升序 key 列表中二分查找。
func locate(keys []int64, key int64) (int, bool) {
	return slices.BinarySearch(keys, key)
}
