package main

import (
	"errors"
	"flag"
	"os"
	"time"

	"github.com/phuslu/log"
	"github.com/prometheus/client_golang/prometheus"

	cache "pluggable-cache"
	"pluggable-cache/logging"
)

func main() {
	logger := logging.CreateDebugLogger()

	configPath := flag.String("config", "", "YAML config file; flags are ignored when set")
	capacity := flag.Int("capacity", 4, "maximum number of live entries")
	policy := flag.String("policy", "lru", "eviction policy: lru or lfu")
	ttl := flag.Duration("ttl", 0, "entry time-to-live, 0 disables expiry")
	flag.Parse()

	cfg := cache.Config{
		Capacity:         *capacity,
		Policy:           cache.PolicyType(*policy),
		TTL:              *ttl,
		MetricsNamespace: "cachedemo",
	}
	if *configPath != "" {
		var err error
		if cfg, err = cache.LoadConfig(*configPath); err != nil {
			logger.Error().Err(err).Msg("failed to load config")
			os.Exit(1)
		}
	}

	reg := prometheus.NewRegistry()
	c, err := cache.Build[int, string](cfg, reg, cache.WithLogger[int, string](logger))
	if err != nil {
		logger.Error().Err(err).Msg("failed to build cache")
		os.Exit(1)
	}
	defer c.Close()

	logger.Info().Int("capacity", c.Capacity()).Str("policy", string(cfg.Policy)).Dur("ttl", cfg.TTL).Msg("cache ready")

	for i, v := range []string{"one", "two", "three"} {
		_ = c.Put(i+1, v)
	}
	get(logger, c, 1)
	_ = c.Put(4, "four")
	_ = c.Put(5, "five")
	get(logger, c, 4)
	get(logger, c, 2)

	if cfg.TTL > 0 {
		time.Sleep(cfg.TTL + 10*time.Millisecond)
		get(logger, c, 4)
	}
	logger.Info().Int("size", c.Len()).Msgf("keys by eviction order: %v", c.Keys())

	families, err := reg.Gather()
	if err != nil {
		logger.Error().Err(err).Msg("failed to gather metrics")
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				logger.Info().Str("metric", mf.GetName()).Float64("value", m.GetCounter().GetValue()).Msg("metric")
			case m.GetGauge() != nil:
				logger.Info().Str("metric", mf.GetName()).Float64("value", m.GetGauge().GetValue()).Msg("metric")
			}
		}
	}
}

func get(logger *log.Logger, c *cache.Synchronized[int, string], key int) {
	v, err := c.Get(key)
	if errors.Is(err, cache.ErrKeyNotFound) {
		logger.Info().Int("key", key).Msg("miss")
		return
	}
	logger.Info().Int("key", key).Str("value", v).Msg("hit")
}
