package strategy

import (
	"errors"
)

// ErrEmptyPolicy is returned by Evict when no key is tracked.
var ErrEmptyPolicy = errors.New("strategy: no key to evict")

// EvictionPolicy decides which key leaves the cache next. It only tracks
// keys; values live in storage.
type EvictionPolicy[K comparable] interface {
	// RecordAccess marks key as read or rewritten.
	RecordAccess(key K)
	// Admit registers key as a fresh insertion.
	Admit(key K)
	// Evict removes and returns the next victim.
	Evict() (K, error)
	// Remove drops key from the bookkeeping. Unknown keys are ignored.
	Remove(key K)
	Len() int
	// Keys lists tracked keys, the next victim last.
	Keys() []K
}
