// Package storage holds cache values behind the Storage contract. Storage
// knows nothing about eviction; the owning cache keeps its policy in step.
package storage

import (
	"errors"
)

var (
	ErrKeyNotFound = errors.New("storage: key not found")
	ErrInvalidTTL  = errors.New("storage: ttl must be positive")
)

// EntryRemover is told about entries the storage drops on its own, such as
// expired ones. Explicit Remove calls are not reported.
type EntryRemover[K comparable] interface {
	OnEntryRemoved(key K)
}

type Storage[K comparable, V any] interface {
	// Add inserts or overwrites key.
	Add(key K, value V)
	// Get returns ErrKeyNotFound when key is absent or expired.
	Get(key K) (V, error)
	// Remove is a no-op for unknown keys.
	Remove(key K)
	Exists(key K) bool
	// Size counts live entries only.
	Size() int
	Keys() []K
	SetRemover(remover EntryRemover[K])
}

// Purger is implemented by storages whose entries can expire.
type Purger interface {
	// Purge drops every expired entry and returns how many went.
	Purge() int
}
