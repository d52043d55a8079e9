package cache

import "time"

// CacheStats reports cache performance counters.
type CacheStats struct {
	Hits        int64   `json:"hits"`
	Misses      int64   `json:"misses"`
	HitRate     float64 `json:"hit_rate"`
	TotalKeys   int64   `json:"total_keys"`
	MemoryUsage int64   `json:"memory_usage_bytes"`
}

// Config contains detection-cache configuration.
type Config struct {
	RedisURL        string        `yaml:"redis_url" mapstructure:"redis_url"`
	MaxConnections  int           `yaml:"max_connections" mapstructure:"max_connections"`
	MinIdleConns    int           `yaml:"min_idle_conns" mapstructure:"min_idle_conns"`
	DefaultTTL      time.Duration `yaml:"default_ttl" mapstructure:"default_ttl"`
	KeyPrefix       string        `yaml:"key_prefix" mapstructure:"key_prefix"`
}

// CachedResult is the JSON-serializable form of a detect.Result stored in
// Redis, keyed by a hash of the normalized config fingerprint and text.
type CachedResult struct {
	HasProfanity bool             `json:"has_profanity"`
	Matches      []CachedSpan     `json:"matches"`
	CachedAt     time.Time        `json:"cached_at"`
}

// CachedSpan mirrors detect.Span in a serializable shape.
type CachedSpan struct {
	Word         string `json:"word"`
	Start        int    `json:"start"`
	Length       int    `json:"length"`
	LanguageCode string `json:"language_code"`
}
