package pluggable_cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"pluggable-cache/codec"
	"pluggable-cache/storage"
	"pluggable-cache/strategy/lru"
)

// mock data source
var db = map[string]string{
	"Tom":  "630",
	"Jack": "589",
	"Sam":  "567",
}

func newGroupCache[V any](t *testing.T, capacity int) *Synchronized[string, V] {
	t.Helper()
	c, err := New[string, V](storage.NewHashMap[string, V](), lru.New[string](), capacity)
	require.NoError(t, err)
	s := NewSynchronized(c, 0)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestGet(t *testing.T) {
	loadCounts := make(map[string]int, len(db))

	g := NewGroup("scores", newGroupCache[ByteView](t, 16), GetterFunc[string, ByteView](
		func(_ context.Context, key string) (ByteView, error) {
			if v, ok := db[key]; ok {
				loadCounts[key]++
				return NewByteView([]byte(v)), nil
			}
			return ByteView{}, fmt.Errorf("%s not exist", key)
		}))

	t.Run("get existing key", func(t *testing.T) {
		view, err := g.Get(context.Background(), "Tom")
		require.NoError(t, err)
		assert.Equal(t, db["Tom"], view.String())

		// second read hits the cache
		_, err = g.Get(context.Background(), "Tom")
		require.NoError(t, err)
		assert.Equal(t, 1, loadCounts["Tom"])
	})

	t.Run("get nonexistent key", func(t *testing.T) {
		_, err := g.Get(context.Background(), "unknown")
		assert.ErrorContains(t, err, "unknown not exist")
	})
}

func TestGetGroup(t *testing.T) {
	groupName := "names"
	NewGroup(groupName, newGroupCache[string](t, 4), GetterFunc[string, string](
		func(_ context.Context, key string) (string, error) {
			return key, nil
		}))

	t.Run("group exists", func(t *testing.T) {
		g := GetGroup[string, string](groupName)
		require.NotNil(t, g)
		assert.Equal(t, groupName, g.Name())
	})

	t.Run("group not exists", func(t *testing.T) {
		assert.Nil(t, GetGroup[string, string]("unknown"))
	})

	t.Run("group with other types", func(t *testing.T) {
		assert.Nil(t, GetGroup[int, string](groupName))
	})
}

func TestGroup_ConcurrentMissesLoadOnce(t *testing.T) {
	var loads atomic.Int32
	release := make(chan struct{})
	g := NewGroup("slow", newGroupCache[string](t, 4), GetterFunc[string, string](
		func(_ context.Context, key string) (string, error) {
			loads.Add(1)
			<-release
			return "value-" + key, nil
		}))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := g.Get(context.Background(), "key")
			if err != nil {
				t.Error(err)
			}
			if v != "value-key" {
				t.Errorf("expected value-key, got %s", v)
			}
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), loads.Load())
}

func TestGroup_StoreFailsAfterClose(t *testing.T) {
	cache := newGroupCache[string](t, 4)
	g := NewGroup("closed", cache, GetterFunc[string, string](
		func(_ context.Context, key string) (string, error) {
			return key, nil
		}))
	require.NoError(t, cache.Close())

	_, err := g.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestGroup_DecodingGetter(t *testing.T) {
	remote := map[string][]byte{}
	b, err := proto.Marshal(wrapperspb.String("630"))
	require.NoError(t, err)
	remote["Tom"] = b
	remote["bad"] = []byte{0xff}
	errUnavailable := errors.New("unavailable")

	load := func(_ context.Context, key string) ([]byte, error) {
		if v, ok := remote[key]; ok {
			return v, nil
		}
		return nil, errUnavailable
	}
	g := NewGroup("proto", newGroupCache[*wrapperspb.StringValue](t, 4),
		DecodingGetter[string, *wrapperspb.StringValue](load, codec.NewProto(func() *wrapperspb.StringValue { return &wrapperspb.StringValue{} })))

	v, err := g.Get(context.Background(), "Tom")
	require.NoError(t, err)
	assert.Equal(t, "630", v.GetValue())

	_, err = g.Get(context.Background(), "bad")
	assert.Error(t, err)

	_, err = g.Get(context.Background(), "Sam")
	assert.ErrorIs(t, err, errUnavailable)
}

func TestNewGroup_NilGetterPanics(t *testing.T) {
	assert.Panics(t, func() {
		NewGroup[string, string]("nil", newGroupCache[string](t, 1), nil)
	})
}
