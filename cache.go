package pluggable_cache

import (
	"fmt"

	"github.com/phuslu/log"

	"pluggable-cache/logging"
	"pluggable-cache/storage"
	"pluggable-cache/strategy"
)

var _ storage.EntryRemover[string] = (*Cache[string, any])(nil)

// Cache holds at most capacity live entries. Values live in storage, the
// eviction order lives in policy, and every operation keeps both holding the
// same key set.
//
// Cache is not safe for concurrent use; see Synchronized.
type Cache[K comparable, V any] struct {
	storage   storage.Storage[K, V]
	policy    strategy.EvictionPolicy[K]
	capacity  int
	logger    *log.Logger
	metrics   *Metrics
	onEvicted func(key K, value V)
}

type Option[K comparable, V any] func(*Cache[K, V])

func WithLogger[K comparable, V any](logger *log.Logger) Option[K, V] {
	return func(c *Cache[K, V]) {
		c.logger = logger
	}
}

func WithMetrics[K comparable, V any](metrics *Metrics) Option[K, V] {
	return func(c *Cache[K, V]) {
		c.metrics = metrics
	}
}

// WithOnEvicted registers a callback run after an entry is evicted for
// capacity. Expired and deleted entries do not trigger it.
func WithOnEvicted[K comparable, V any](onEvicted func(key K, value V)) Option[K, V] {
	return func(c *Cache[K, V]) {
		c.onEvicted = onEvicted
	}
}

// New takes ownership of store and policy; callers must not use them
// afterwards.
func New[K comparable, V any](store storage.Storage[K, V], policy strategy.EvictionPolicy[K], capacity int, opts ...Option[K, V]) (*Cache[K, V], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}
	if store == nil {
		return nil, ErrNilStorage
	}
	if policy == nil {
		return nil, ErrNilPolicy
	}
	c := &Cache[K, V]{
		storage:  store,
		policy:   policy,
		capacity: capacity,
		logger:   logging.CreateNopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	store.SetRemover(c)
	return c, nil
}

// Put inserts or overwrites key. Overwriting counts as an access and never
// evicts.
func (c *Cache[K, V]) Put(key K, value V) {
	if c.storage.Exists(key) {
		c.storage.Add(key, value)
		c.policy.RecordAccess(key)
		return
	}
	if c.storage.Size() >= c.capacity {
		c.evict()
	}
	c.storage.Add(key, value)
	c.policy.Admit(key)
	c.metrics.updateSize(c.storage.Size())
}

// Get returns ErrKeyNotFound when key has no live entry.
func (c *Cache[K, V]) Get(key K) (V, error) {
	value, err := c.storage.Get(key)
	if err != nil {
		c.metrics.recordGet(false)
		return value, err
	}
	c.policy.RecordAccess(key)
	c.metrics.recordGet(true)
	return value, nil
}

// Contains reports whether key is live without counting as an access.
func (c *Cache[K, V]) Contains(key K) bool {
	return c.storage.Exists(key)
}

// Delete removes key and reports whether it was live.
func (c *Cache[K, V]) Delete(key K) bool {
	ok := c.storage.Exists(key)
	c.storage.Remove(key)
	c.policy.Remove(key)
	if ok {
		c.metrics.updateSize(c.storage.Size())
	}
	return ok
}

func (c *Cache[K, V]) Len() int {
	return c.storage.Size()
}

func (c *Cache[K, V]) Capacity() int {
	return c.capacity
}

// Keys lists live keys in eviction order, the next victim last.
func (c *Cache[K, V]) Keys() []K {
	c.Purge()
	return c.policy.Keys()
}

// Purge drops expired entries if the storage supports expiry.
func (c *Cache[K, V]) Purge() int {
	p, ok := c.storage.(storage.Purger)
	if !ok {
		return 0
	}
	return p.Purge()
}

// OnEntryRemoved keeps the policy in step when storage expires an entry.
func (c *Cache[K, V]) OnEntryRemoved(key K) {
	c.policy.Remove(key)
	c.metrics.recordExpiration()
	c.logger.Debug().Str("key", fmt.Sprint(key)).Msg("cache entry expired")
}

func (c *Cache[K, V]) evict() {
	victim, err := c.policy.Evict()
	if err != nil {
		err = fmt.Errorf("cache: storage holds %d entries but policy tracks none: %w", c.storage.Size(), err)
		c.logger.Error().Err(err).Msg("eviction bookkeeping out of sync")
		panic(err)
	}
	var value V
	if c.onEvicted != nil {
		value, _ = c.storage.Get(victim)
	}
	c.storage.Remove(victim)
	c.metrics.recordEviction()
	c.logger.Debug().Str("key", fmt.Sprint(victim)).Msg("cache entry evicted")
	if c.onEvicted != nil {
		c.onEvicted(victim, value)
	}
}
