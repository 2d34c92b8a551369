package xlru

import (
	"math"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// Ordered 是按访问顺序排列的键值存储。
// 必须通过 [New] 创建。非并发安全。
type Ordered[K comparable, V any] struct {
	lru *simplelru.LRU[K, V]
}

// New 创建空的 Ordered。
func New[K comparable, V any]() *Ordered[K, V] {
	// size 为正数时 NewLRU 不会返回错误
	lru, err := simplelru.NewLRU[K, V](math.MaxInt, nil)
	if err != nil {
		panic("xlru: " + err.Error())
	}
	return &Ordered[K, V]{lru: lru}
}

// Get 返回键对应的值，并把该键提升为最新。
func (o *Ordered[K, V]) Get(key K) (V, bool) {
	return o.lru.Get(key)
}

// Peek 返回键对应的值，不改变顺序。
func (o *Ordered[K, V]) Peek(key K) (V, bool) {
	return o.lru.Peek(key)
}

// Put 写入键值并提升为最新。
// 键已存在时返回被替换的旧值和 true。
func (o *Ordered[K, V]) Put(key K, value V) (old V, replaced bool) {
	old, replaced = o.lru.Peek(key)
	o.lru.Add(key, value)
	return old, replaced
}

// Pop 移除键并返回其值。
func (o *Ordered[K, V]) Pop(key K) (V, bool) {
	v, ok := o.lru.Peek(key)
	if !ok {
		return v, false
	}
	o.lru.Remove(key)
	return v, true
}

// Oldest 返回最久未访问的条目，不改变顺序。
func (o *Ordered[K, V]) Oldest() (K, V, bool) {
	return o.lru.GetOldest()
}

// PopOldest 移除并返回最久未访问的条目。
func (o *Ordered[K, V]) PopOldest() (K, V, bool) {
	return o.lru.RemoveOldest()
}

// Range 按从新到旧的顺序遍历条目，fn 返回 false 时停止。
// 遍历期间不得修改 Ordered。
func (o *Ordered[K, V]) Range(fn func(key K, value V) bool) {
	keys := o.lru.Keys() // 从旧到新
	for i := len(keys) - 1; i >= 0; i-- {
		v, ok := o.lru.Peek(keys[i])
		if !ok {
			continue
		}
		if !fn(keys[i], v) {
			return
		}
	}
}

// Newest 返回最新的至多 limit 个值，按从新到旧排列，不改变顺序。
// 只复制值，不逐键查找。
func (o *Ordered[K, V]) Newest(limit int) []V {
	values := o.lru.Values() // 从旧到新
	if limit < len(values) {
		values = values[len(values)-max(limit, 0):]
	}
	for i, j := 0, len(values)-1; i < j; i, j = i+1, j-1 {
		values[i], values[j] = values[j], values[i]
	}
	return values
}

// Keys 返回从新到旧排列的全部键。
func (o *Ordered[K, V]) Keys() []K {
	keys := o.lru.Keys()
	for i, j := 0, len(keys)-1; i < j; i, j = i+1, j-1 {
		keys[i], keys[j] = keys[j], keys[i]
	}
	return keys
}

// Len 返回条目数。
func (o *Ordered[K, V]) Len() int {
	return o.lru.Len()
}
