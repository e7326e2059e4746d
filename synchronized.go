package pluggable_cache

import (
	"context"
	"sync"
	"time"
)

// Synchronized guards a Cache with one mutex held across each whole
// operation, so storage and policy are never seen half-updated.
//
// With a positive cleanup interval it also owns a janitor goroutine that
// purges expired entries. Call Close to stop it.
type Synchronized[K comparable, V any] struct {
	mu     sync.Mutex
	cache  *Cache[K, V]
	closed bool

	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	cleanupEvery time.Duration
}

// NewSynchronized takes ownership of c. cleanupEvery <= 0 disables the
// janitor; lazy expiration still applies.
func NewSynchronized[K comparable, V any](c *Cache[K, V], cleanupEvery time.Duration) *Synchronized[K, V] {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Synchronized[K, V]{
		cache:        c,
		ctx:          ctx,
		cancel:       cancel,
		cleanupEvery: cleanupEvery,
	}
	if cleanupEvery > 0 {
		s.wg.Add(1)
		go s.janitor()
	}
	return s
}

func (s *Synchronized[K, V]) Put(key K, value V) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.cache.Put(key, value)
	return nil
}

// Get stays usable after Close so readers can drain.
func (s *Synchronized[K, V]) Get(key K) (V, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Get(key)
}

func (s *Synchronized[K, V]) Delete(key K) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, ErrClosed
	}
	return s.cache.Delete(key), nil
}

func (s *Synchronized[K, V]) Contains(key K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Contains(key)
}

func (s *Synchronized[K, V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Len()
}

func (s *Synchronized[K, V]) Keys() []K {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Keys()
}

func (s *Synchronized[K, V]) Capacity() int {
	return s.cache.Capacity()
}

// Close stops the janitor and rejects further mutation. It is safe to call
// more than once.
func (s *Synchronized[K, V]) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	// The janitor takes mu, so cancel and wait without holding it.
	s.cancel()
	s.wg.Wait()
	return nil
}

func (s *Synchronized[K, V]) janitor() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cleanupEvery)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			s.cache.Purge()
			s.mu.Unlock()
		}
	}
}
