package lfu

import (
	"container/list"
	"maps"
	"slices"

	"pluggable-cache/strategy"
)

var _ strategy.EvictionPolicy[string] = (*LFU[string])(nil)

// LFU evicts the key with the fewest accesses. Within one frequency the
// bucket is ordered newest first, so the back is the oldest at that count.
type LFU[K comparable] struct {
	cache     map[K]*list.Element
	frequency map[int]*list.List
	// minFreq is 0 when unknown; Evict recomputes it.
	minFreq   int
	OnEvicted func(key K)
}

type entry[K comparable] struct {
	freq int
	key  K
}

func New[K comparable](onEvicted func(K)) *LFU[K] {
	return &LFU[K]{
		cache:     make(map[K]*list.Element),
		frequency: make(map[int]*list.List),
		OnEvicted: onEvicted,
	}
}

// RecordAccess bumps the frequency of a tracked key. Untracked keys are
// ignored; use Admit to insert.
func (l *LFU[K]) RecordAccess(key K) {
	ele, ok := l.cache[key]
	if !ok {
		return
	}
	kv := ele.Value.(*entry[K])
	emptied := l.removeElement(ele)
	if emptied && kv.freq == l.minFreq {
		l.minFreq = kv.freq + 1
	}
	kv.freq++
	l.cache[key] = l.addElement(kv)
}

// Admit starts key at frequency 1, dropping any previous count.
func (l *LFU[K]) Admit(key K) {
	if ele, ok := l.cache[key]; ok {
		l.removeElement(ele)
	}
	l.cache[key] = l.addElement(&entry[K]{freq: 1, key: key})
	l.minFreq = 1
}

func (l *LFU[K]) Evict() (K, error) {
	if len(l.cache) == 0 {
		var zero K
		return zero, strategy.ErrEmptyPolicy
	}
	ll := l.frequency[l.minFreq]
	if ll == nil {
		l.minFreq = l.lowestFrequency()
		ll = l.frequency[l.minFreq]
	}
	kv := ll.Back().Value.(*entry[K])
	if l.removeElement(ll.Back()) {
		l.minFreq = 0
	}
	if l.OnEvicted != nil {
		l.OnEvicted(kv.key)
	}
	return kv.key, nil
}

func (l *LFU[K]) Remove(key K) {
	ele, ok := l.cache[key]
	if !ok {
		return
	}
	freq := ele.Value.(*entry[K]).freq
	if l.removeElement(ele) && freq == l.minFreq {
		l.minFreq = 0
	}
}

func (l *LFU[K]) Len() int {
	return len(l.cache)
}

// Keys lists keys from the highest frequency down to the next victim.
func (l *LFU[K]) Keys() []K {
	keys := make([]K, 0, len(l.cache))
	freqs := slices.Sorted(maps.Keys(l.frequency))
	for i := len(freqs) - 1; i >= 0; i-- {
		for ele := l.frequency[freqs[i]].Front(); ele != nil; ele = ele.Next() {
			keys = append(keys, ele.Value.(*entry[K]).key)
		}
	}
	return keys
}

// Frequency reports the access count of key.
func (l *LFU[K]) Frequency(key K) (int, bool) {
	ele, ok := l.cache[key]
	if !ok {
		return 0, false
	}
	return ele.Value.(*entry[K]).freq, true
}

// removeElement unlinks ele and reports whether its bucket became empty.
func (l *LFU[K]) removeElement(ele *list.Element) bool {
	kv := ele.Value.(*entry[K])
	delete(l.cache, kv.key)
	ll := l.frequency[kv.freq]
	ll.Remove(ele)
	if ll.Len() == 0 {
		delete(l.frequency, kv.freq)
		return true
	}
	return false
}

func (l *LFU[K]) addElement(kv *entry[K]) *list.Element {
	if l.frequency[kv.freq] == nil {
		l.frequency[kv.freq] = list.New()
	}
	return l.frequency[kv.freq].PushFront(kv)
}

func (l *LFU[K]) lowestFrequency() int {
	minFreq := 0
	for freq := range l.frequency {
		if minFreq == 0 || freq < minFreq {
			minFreq = freq
		}
	}
	return minFreq
}
