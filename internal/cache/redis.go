// Package cache wraps a Redis-backed cache of detection results, keyed by
// a hash of the active configuration plus the input text. It sits strictly
// outside internal/detect: a cache hit or miss never changes what detect
// would have returned, only how fast the caller gets it (SPEC_FULL.md
// §4.9).
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// DetectionCache handles Redis-based caching of detection results.
type DetectionCache struct {
	client *redis.Client
	config *Config
	logger *zap.Logger
	stats  *cacheStats
}

type cacheStats struct {
	hits   int64
	misses int64
}

// NewDetectionCache creates a new Redis-backed detection cache.
func NewDetectionCache(config *Config, logger *zap.Logger) (*DetectionCache, error) {
	opts, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opts.PoolSize = config.MaxConnections
	opts.MinIdleConns = config.MinIdleConns

	client := redis.NewClient(opts)

	cache := &DetectionCache{
		client: client,
		config: config,
		logger: logger,
		stats:  &cacheStats{},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := cache.ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("detection cache initialized",
		zap.String("redis_url", maskRedisURL(config.RedisURL)),
		zap.Int("max_connections", config.MaxConnections),
		zap.Duration("default_ttl", config.DefaultTTL))

	return cache, nil
}

func (dc *DetectionCache) ping(ctx context.Context) error {
	_, err := dc.client.Ping(ctx).Result()
	return err
}

// Key derives the cache key for a config fingerprint and input text. The
// fingerprint should capture every knob that affects detection (algorithm,
// languages, masking, etc.) so a config change never serves a stale result.
func (dc *DetectionCache) Key(configFingerprint, text string) string {
	hasher := sha256.New()
	hasher.Write([]byte(configFingerprint))
	hasher.Write([]byte{0})
	hasher.Write([]byte(text))
	hash := hex.EncodeToString(hasher.Sum(nil))
	return fmt.Sprintf("%s:detect:%s", dc.config.KeyPrefix, hash)
}

// Get looks up a cached result by key. The second return value reports a
// cache hit; a miss or lookup failure both return (nil, false) so callers
// fall through to running the pipeline.
func (dc *DetectionCache) Get(ctx context.Context, key string) (*CachedResult, bool) {
	data, err := dc.client.Get(ctx, key).Result()
	if err == redis.Nil {
		dc.stats.misses++
		return nil, false
	}
	if err != nil {
		dc.logger.Error("cache lookup failed", zap.Error(err))
		return nil, false
	}

	var result CachedResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		dc.logger.Error("failed to unmarshal cached result", zap.Error(err))
		dc.client.Del(ctx, key)
		return nil, false
	}

	dc.stats.hits++
	return &result, true
}

// Set stores result under key with the configured default TTL.
func (dc *DetectionCache) Set(ctx context.Context, key string, result CachedResult) error {
	result.CachedAt = time.Now()
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result for caching: %w", err)
	}
	if err := dc.client.Set(ctx, key, data, dc.config.DefaultTTL).Err(); err != nil {
		dc.logger.Error("failed to cache result", zap.Error(err))
		return fmt.Errorf("failed to cache result: %w", err)
	}
	return nil
}

// GetStats returns cache performance statistics.
func (dc *DetectionCache) GetStats(ctx context.Context) (*CacheStats, error) {
	info, err := dc.client.Info(ctx, "memory", "stats").Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get Redis info: %w", err)
	}

	stats := &CacheStats{
		Hits:   dc.stats.hits,
		Misses: dc.stats.misses,
	}
	total := stats.Hits + stats.Misses
	if total > 0 {
		stats.HitRate = float64(stats.Hits) / float64(total) * 100
	}

	lines := strings.Split(info, "\r\n")
	for _, line := range lines {
		if strings.HasPrefix(line, "used_memory:") {
			if memStr := strings.TrimPrefix(line, "used_memory:"); memStr != "" {
				if mem, err := strconv.ParseInt(memStr, 10, 64); err == nil {
					stats.MemoryUsage = mem
				}
			}
		}
	}

	keys, err := dc.client.DBSize(ctx).Result()
	if err == nil {
		stats.TotalKeys = keys
	}

	return stats, nil
}

// Clear removes every cached entry under this cache's key prefix.
func (dc *DetectionCache) Clear(ctx context.Context) error {
	pattern := dc.config.KeyPrefix + ":detect:*"

	iter := dc.client.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}

	batchSize := 100
	for i := 0; i < len(keys); i += batchSize {
		end := i + batchSize
		if end > len(keys) {
			end = len(keys)
		}
		if err := dc.client.Del(ctx, keys[i:end]...).Err(); err != nil {
			dc.logger.Error("failed to delete cache keys", zap.Error(err))
			return fmt.Errorf("failed to delete cache keys: %w", err)
		}
	}

	dc.logger.Info("cache cleared", zap.Int("deleted_keys", len(keys)))
	return nil
}

// Close closes the Redis connection.
func (dc *DetectionCache) Close() error {
	if dc.client != nil {
		return dc.client.Close()
	}
	return nil
}

// maskRedisURL masks sensitive information in a Redis URL for logging.
func maskRedisURL(url string) string {
	if strings.Contains(url, "@") {
		parts := strings.Split(url, "@")
		if len(parts) >= 2 {
			userPart := parts[0]
			if strings.Contains(userPart, ":") {
				userParts := strings.Split(userPart, ":")
				if len(userParts) >= 3 {
					userParts[len(userParts)-1] = "***"
					parts[0] = strings.Join(userParts, ":")
				}
			}
			return strings.Join(parts, "@")
		}
	}
	return url
}
