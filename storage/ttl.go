package storage

import (
	"container/list"
	"time"
)

var (
	_ Storage[string, any] = (*TTL[string, any])(nil)
	_ Purger               = (*TTL[string, any])(nil)
)

// TTL is a map-backed storage whose entries expire a fixed duration after
// their last Add. Expired entries are purged lazily on access and before
// every Size or Keys.
//
// All entries share one ttl, so insertion order is expiry order: ll holds
// entries oldest first and a purge only ever looks at the front.
type TTL[K comparable, V any] struct {
	ttl     time.Duration
	now     func() time.Time
	ll      *list.List
	data    map[K]*list.Element
	remover EntryRemover[K]
}

type ttlEntry[K comparable, V any] struct {
	key    K
	value  V
	expire time.Time
}

type TTLOption[K comparable, V any] func(*TTL[K, V])

// WithClock replaces time.Now. Readings from time.Now carry the monotonic
// clock, so wall-clock jumps do not move expiries.
func WithClock[K comparable, V any](now func() time.Time) TTLOption[K, V] {
	return func(t *TTL[K, V]) {
		t.now = now
	}
}

func NewTTL[K comparable, V any](ttl time.Duration, opts ...TTLOption[K, V]) (*TTL[K, V], error) {
	if ttl <= 0 {
		return nil, ErrInvalidTTL
	}
	t := &TTL[K, V]{
		ttl:  ttl,
		now:  time.Now,
		ll:   list.New(),
		data: make(map[K]*list.Element),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

func (t *TTL[K, V]) TTL() time.Duration {
	return t.ttl
}

func (t *TTL[K, V]) Add(key K, value V) {
	expire := t.now().Add(t.ttl)
	if ele, ok := t.data[key]; ok {
		kv := ele.Value.(*ttlEntry[K, V])
		kv.value = value
		kv.expire = expire
		t.ll.MoveToBack(ele)
		return
	}
	t.data[key] = t.ll.PushBack(&ttlEntry[K, V]{key: key, value: value, expire: expire})
}

func (t *TTL[K, V]) Get(key K) (V, error) {
	ele, ok := t.lookup(key)
	if !ok {
		var zero V
		return zero, ErrKeyNotFound
	}
	return ele.Value.(*ttlEntry[K, V]).value, nil
}

func (t *TTL[K, V]) Remove(key K) {
	if ele, ok := t.data[key]; ok {
		t.ll.Remove(ele)
		delete(t.data, key)
	}
}

func (t *TTL[K, V]) Exists(key K) bool {
	_, ok := t.lookup(key)
	return ok
}

func (t *TTL[K, V]) Size() int {
	t.Purge()
	return len(t.data)
}

func (t *TTL[K, V]) Keys() []K {
	t.Purge()
	keys := make([]K, 0, len(t.data))
	for ele := t.ll.Front(); ele != nil; ele = ele.Next() {
		keys = append(keys, ele.Value.(*ttlEntry[K, V]).key)
	}
	return keys
}

func (t *TTL[K, V]) SetRemover(remover EntryRemover[K]) {
	t.remover = remover
}

func (t *TTL[K, V]) Purge() int {
	now := t.now()
	removed := 0
	for ele := t.ll.Front(); ele != nil; ele = t.ll.Front() {
		if !t.expired(ele, now) {
			break
		}
		t.expire(ele)
		removed++
	}
	return removed
}

// lookup returns the live element for key, purging it if it has expired.
func (t *TTL[K, V]) lookup(key K) (*list.Element, bool) {
	ele, ok := t.data[key]
	if !ok {
		return nil, false
	}
	if t.expired(ele, t.now()) {
		t.expire(ele)
		return nil, false
	}
	return ele, true
}

func (t *TTL[K, V]) expired(ele *list.Element, now time.Time) bool {
	return now.After(ele.Value.(*ttlEntry[K, V]).expire)
}

func (t *TTL[K, V]) expire(ele *list.Element) {
	kv := ele.Value.(*ttlEntry[K, V])
	t.ll.Remove(ele)
	delete(t.data, kv.key)
	if t.remover != nil {
		t.remover.OnEntryRemoved(kv.key)
	}
}
