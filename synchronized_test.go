package pluggable_cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pluggable-cache/storage"
	"pluggable-cache/strategy/lfu"
	"pluggable-cache/strategy/lru"
)

func TestSynchronized_Concurrent(t *testing.T) {
	c, err := New[string, int](storage.NewHashMap[string, int](), lfu.New[string](nil), 64)
	require.NoError(t, err)
	s := NewSynchronized(c, 0)
	defer s.Close()

	n := 100
	wg := sync.WaitGroup{}
	wg.Add(n)

	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%80)
			if err := s.Put(key, i); err != nil {
				t.Errorf("put %s: %v", key, err)
			}
			_, _ = s.Get(key)
			_, _ = s.Get(fmt.Sprintf("k%d", (i+1)%80))
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, s.Len(), s.Capacity())
	assert.ElementsMatch(t, c.storage.Keys(), s.Keys())
}

func TestSynchronized_JanitorPurgesWithoutReads(t *testing.T) {
	store, err := storage.NewTTL[string, string](20 * time.Millisecond)
	require.NoError(t, err)
	c, err := New[string, string](store, lru.New[string](), 10)
	require.NoError(t, err)
	s := NewSynchronized(c, 10*time.Millisecond)
	defer s.Close()

	require.NoError(t, s.Put("ttl", "v"))

	assert.Eventually(t, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return c.policy.Len() == 0
	}, 500*time.Millisecond, 5*time.Millisecond)
}

func TestSynchronized_CloseIdempotentAndPreventsMutation(t *testing.T) {
	c, err := New[string, string](storage.NewHashMap[string, string](), lru.New[string](), 1)
	require.NoError(t, err)
	s := NewSynchronized(c, 10*time.Millisecond)

	require.NoError(t, s.Put("k", "v"))
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	assert.ErrorIs(t, s.Put("k2", "v"), ErrClosed)
	_, err = s.Delete("k")
	assert.ErrorIs(t, err, ErrClosed)

	v, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
	assert.True(t, s.Contains("k"))
}

func TestSynchronized_Delete(t *testing.T) {
	c, err := New[string, string](storage.NewHashMap[string, string](), lru.New[string](), 2)
	require.NoError(t, err)
	s := NewSynchronized(c, 0)
	defer s.Close()

	require.NoError(t, s.Put("k", "v"))
	ok, err := s.Delete("k")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.Delete("k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, s.Keys())
}
