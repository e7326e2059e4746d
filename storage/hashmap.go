package storage

var _ Storage[string, any] = (*HashMap[string, any])(nil)

// HashMap is a plain map-backed storage. Entries never expire.
type HashMap[K comparable, V any] struct {
	data map[K]V
}

func NewHashMap[K comparable, V any]() *HashMap[K, V] {
	return &HashMap[K, V]{data: make(map[K]V)}
}

func (h *HashMap[K, V]) Add(key K, value V) {
	h.data[key] = value
}

func (h *HashMap[K, V]) Get(key K) (V, error) {
	v, ok := h.data[key]
	if !ok {
		return v, ErrKeyNotFound
	}
	return v, nil
}

func (h *HashMap[K, V]) Remove(key K) {
	delete(h.data, key)
}

func (h *HashMap[K, V]) Exists(key K) bool {
	_, ok := h.data[key]
	return ok
}

func (h *HashMap[K, V]) Size() int {
	return len(h.data)
}

func (h *HashMap[K, V]) Keys() []K {
	keys := make([]K, 0, len(h.data))
	for k := range h.data {
		keys = append(keys, k)
	}
	return keys
}

// SetRemover is a no-op: a HashMap never drops entries by itself.
func (h *HashMap[K, V]) SetRemover(EntryRemover[K]) {}
