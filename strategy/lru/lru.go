package lru

import (
	"container/list"

	"pluggable-cache/strategy"
)

var _ strategy.EvictionPolicy[string] = (*LRU[string])(nil)

// LRU evicts the key that has gone longest without access. Front of ll is
// the most recently used key.
type LRU[K comparable] struct {
	ll        *list.List
	cache     map[K]*list.Element
	OnEvicted func(key K)
}

type Option[K comparable] func(*LRU[K])

func WithOnEvicted[K comparable](onEvicted func(K)) Option[K] {
	return func(l *LRU[K]) {
		l.OnEvicted = onEvicted
	}
}

func New[K comparable](option ...Option[K]) *LRU[K] {
	l := &LRU[K]{
		ll:    list.New(),
		cache: make(map[K]*list.Element),
	}
	for _, opt := range option {
		opt(l)
	}
	return l
}

// RecordAccess moves key to the front. An untracked key is inserted.
func (c *LRU[K]) RecordAccess(key K) {
	if ele, ok := c.cache[key]; ok {
		c.ll.MoveToFront(ele)
		return
	}
	c.cache[key] = c.ll.PushFront(key)
}

func (c *LRU[K]) Admit(key K) {
	c.RecordAccess(key)
}

func (c *LRU[K]) Evict() (K, error) {
	ele := c.ll.Back()
	if ele == nil {
		var zero K
		return zero, strategy.ErrEmptyPolicy
	}
	key := c.removeElement(ele)
	if c.OnEvicted != nil {
		c.OnEvicted(key)
	}
	return key, nil
}

func (c *LRU[K]) Remove(key K) {
	if ele, ok := c.cache[key]; ok {
		c.removeElement(ele)
	}
}

func (c *LRU[K]) Len() int {
	return c.ll.Len()
}

func (c *LRU[K]) Keys() []K {
	keys := make([]K, 0, c.ll.Len())
	for ele := c.ll.Front(); ele != nil; ele = ele.Next() {
		keys = append(keys, ele.Value.(K))
	}
	return keys
}

func (c *LRU[K]) removeElement(ele *list.Element) K {
	c.ll.Remove(ele)
	key := ele.Value.(K)
	delete(c.cache, key)
	return key
}
