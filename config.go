package pluggable_cache

import (
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.yaml.in/yaml/v2"

	"pluggable-cache/storage"
	"pluggable-cache/strategy"
	"pluggable-cache/strategy/lfu"
	"pluggable-cache/strategy/lru"
)

// PolicyType names a built-in eviction policy.
type PolicyType string

const (
	LRU PolicyType = "lru"
	LFU PolicyType = "lfu"
)

// Config describes a cache built by Build.
//
//   - TTL <= 0 selects plain map storage, otherwise entries expire after TTL
//   - CleanupInterval <= 0 disables the janitor
//   - an empty Policy means LRU
type Config struct {
	Capacity         int           `yaml:"capacity"`
	Policy           PolicyType    `yaml:"policy"`
	TTL              time.Duration `yaml:"ttl"`
	CleanupInterval  time.Duration `yaml:"cleanup_interval"`
	MetricsNamespace string        `yaml:"metrics_namespace"`
}

// LoadConfig reads a YAML config file and validates it.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidCapacity, c.Capacity)
	}
	switch c.Policy {
	case "", LRU, LFU:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownPolicy, c.Policy)
	}
	return nil
}

// Build assembles a synchronized cache from cfg. When reg is non-nil and
// cfg names a metrics namespace, the cache reports to reg.
func Build[K comparable, V any](cfg Config, reg prometheus.Registerer, opts ...Option[K, V]) (*Synchronized[K, V], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var policy strategy.EvictionPolicy[K]
	switch cfg.Policy {
	case LFU:
		policy = lfu.New[K](nil)
	default:
		policy = lru.New[K]()
	}

	var store storage.Storage[K, V]
	if cfg.TTL > 0 {
		ttl, err := storage.NewTTL[K, V](cfg.TTL)
		if err != nil {
			return nil, err
		}
		store = ttl
	} else {
		store = storage.NewHashMap[K, V]()
	}

	if reg != nil && cfg.MetricsNamespace != "" {
		opts = append(opts, WithMetrics[K, V](NewMetrics(cfg.MetricsNamespace, reg)))
	}

	c, err := New(store, policy, cfg.Capacity, opts...)
	if err != nil {
		return nil, err
	}
	return NewSynchronized(c, cfg.CleanupInterval), nil
}
