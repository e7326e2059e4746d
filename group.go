package pluggable_cache

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"pluggable-cache/codec"
)

// A Getter loads a value for a key on a cache miss.
type Getter[K comparable, V any] interface {
	Get(ctx context.Context, key K) (V, error)
}

// GetterFunc implements Getter with a function.
type GetterFunc[K comparable, V any] func(ctx context.Context, key K) (V, error)

func (f GetterFunc[K, V]) Get(ctx context.Context, key K) (V, error) {
	return f(ctx, key)
}

// DecodingGetter loads raw bytes with load and decodes them with c.
func DecodingGetter[K comparable, V any](load func(ctx context.Context, key K) ([]byte, error), c codec.Codec[V]) Getter[K, V] {
	return GetterFunc[K, V](func(ctx context.Context, key K) (V, error) {
		b, err := load(ctx, key)
		if err != nil {
			var zero V
			return zero, err
		}
		return c.Unmarshal(b)
	})
}

// Group is a fetch-through namespace over a cache: misses go to the getter,
// concurrent misses for one key share a single load, and loaded values are
// stored before being returned.
type Group[K comparable, V any] struct {
	name   string
	getter Getter[K, V]
	cache  *Synchronized[K, V]
	loader singleflight.Group
}

var (
	mu     sync.RWMutex
	groups = make(map[string]any)
)

// NewGroup creates a group and registers it under name, replacing any
// earlier group of that name.
func NewGroup[K comparable, V any](name string, cache *Synchronized[K, V], getter Getter[K, V]) *Group[K, V] {
	if getter == nil {
		panic("nil Getter")
	}
	if cache == nil {
		panic("nil cache")
	}
	g := &Group[K, V]{
		name:   name,
		getter: getter,
		cache:  cache,
	}
	mu.Lock()
	defer mu.Unlock()
	groups[name] = g
	return g
}

// GetGroup returns the group registered under name, or nil if there is none
// or it has different key/value types.
func GetGroup[K comparable, V any](name string) *Group[K, V] {
	mu.RLock()
	defer mu.RUnlock()
	g, _ := groups[name].(*Group[K, V])
	return g
}

func (g *Group[K, V]) Name() string {
	return g.name
}

func (g *Group[K, V]) Get(ctx context.Context, key K) (V, error) {
	v, err := g.cache.Get(key)
	if err == nil {
		return v, nil
	}
	if !errors.Is(err, ErrKeyNotFound) {
		return v, err
	}
	return g.load(ctx, key)
}

// load dedupes on the formatted key, so K should format uniquely.
func (g *Group[K, V]) load(ctx context.Context, key K) (V, error) {
	v, err, _ := g.loader.Do(fmt.Sprint(key), func() (any, error) {
		value, err := g.getter.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("group %s: load %v: %w", g.name, key, err)
		}
		if err := g.cache.Put(key, value); err != nil {
			return nil, fmt.Errorf("group %s: store %v: %w", g.name, key, err)
		}
		return value, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	value, _ := v.(V)
	return value, nil
}
