package pluggable_cache

import (
	"errors"

	"pluggable-cache/storage"
)

var (
	// ErrKeyNotFound is returned by Get for absent or expired keys.
	ErrKeyNotFound = storage.ErrKeyNotFound

	ErrInvalidCapacity = errors.New("cache: capacity must be positive")
	ErrNilStorage      = errors.New("cache: storage is nil")
	ErrNilPolicy       = errors.New("cache: eviction policy is nil")
	ErrUnknownPolicy   = errors.New("cache: unknown eviction policy")
	ErrClosed          = errors.New("cache: closed")
)
