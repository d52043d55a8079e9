package config

import "time"

// Config is the root configuration for the wordguard daemon. Sections map
// 1:1 onto the services in SPEC_FULL.md §4.9-§4.13.
type Config struct {
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Detection DetectionConfig `yaml:"detection" mapstructure:"detection"`
	Masking   MaskingConfig   `yaml:"masking" mapstructure:"masking"`
	Languages LanguagesConfig `yaml:"languages" mapstructure:"languages"`
	Wordstore WordstoreConfig `yaml:"wordstore" mapstructure:"wordstore"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Audit     AuditConfig     `yaml:"audit" mapstructure:"audit"`
	Logging   LoggingConfig   `yaml:"logging" mapstructure:"logging"`
	WebSocket WebSocketConfig `yaml:"websocket" mapstructure:"websocket"`
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port         int           `yaml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
}

// DetectionConfig mirrors detect.DetectionConfig in a serializable shape.
type DetectionConfig struct {
	MaxEditDistance    int      `yaml:"max_edit_distance" mapstructure:"max_edit_distance"`
	CaseSensitive      bool     `yaml:"case_sensitive" mapstructure:"case_sensitive"`
	WholeWordsOnly     bool     `yaml:"whole_words_only" mapstructure:"whole_words_only"`
	ConfusableMapping  bool     `yaml:"confusable_mapping" mapstructure:"confusable_mapping"`
	IgnoreSeparators   []string `yaml:"ignore_separators" mapstructure:"ignore_separators"`
	StripDiacritics    bool     `yaml:"strip_diacritics" mapstructure:"strip_diacritics"`
	UseCompatForm      bool     `yaml:"use_compat_form" mapstructure:"use_compat_form"`
	LengthPreserving   bool     `yaml:"length_preserving" mapstructure:"length_preserving"`
	StripInvisible     bool     `yaml:"strip_invisible" mapstructure:"strip_invisible"`
	EnableInflections  bool     `yaml:"enable_inflections" mapstructure:"enable_inflections"`
	InflectionSuffixes []string `yaml:"inflection_suffixes" mapstructure:"inflection_suffixes"`
	TokenBoundedFuzzy  bool     `yaml:"token_bounded_fuzzy" mapstructure:"token_bounded_fuzzy"`
	PhraseStopwords    []string `yaml:"phrase_stopwords" mapstructure:"phrase_stopwords"`
	PhraseMaxSkips     int      `yaml:"phrase_max_skips" mapstructure:"phrase_max_skips"`
	Algorithm          string   `yaml:"algorithm" mapstructure:"algorithm"` // "trie" or "aho"
}

// MaskingConfig mirrors detect.MaskingConfig.
type MaskingConfig struct {
	Enabled        bool   `yaml:"enabled" mapstructure:"enabled"`
	PatternChar    string `yaml:"pattern_char" mapstructure:"pattern_char"`
	PreserveLength bool   `yaml:"preserve_length" mapstructure:"preserve_length"`
	PreserveFirst  bool   `yaml:"preserve_first" mapstructure:"preserve_first"`
	PreserveLast   bool   `yaml:"preserve_last" mapstructure:"preserve_last"`
}

// LanguagesConfig mirrors detect.LanguagesConfig.
type LanguagesConfig struct {
	Enabled    []string `yaml:"enabled" mapstructure:"enabled"`
	AutoDetect bool     `yaml:"auto_detect" mapstructure:"auto_detect"`
	Fallback   string   `yaml:"fallback" mapstructure:"fallback"`
}

// WordstoreConfig selects and configures the packs.Table backend.
type WordstoreConfig struct {
	Backend    string `yaml:"backend" mapstructure:"backend"` // "memory" or "postgres"
	PostgresDSN string `yaml:"postgres_dsn" mapstructure:"postgres_dsn"`
}

// CacheConfig configures the Redis detection cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	Addr    string        `yaml:"addr" mapstructure:"addr"`
	DB      int           `yaml:"db" mapstructure:"db"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// AuditConfig configures the Parquet audit sink.
type AuditConfig struct {
	Enabled       bool   `yaml:"enabled" mapstructure:"enabled"`
	Path          string `yaml:"path" mapstructure:"path"`
	FlushInterval time.Duration `yaml:"flush_interval" mapstructure:"flush_interval"`
	BatchSize     int    `yaml:"batch_size" mapstructure:"batch_size"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // json or console
	File   struct {
		Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
		Path    string `yaml:"path" mapstructure:"path"`
	} `yaml:"file" mapstructure:"file"`
}

// WebSocketConfig contains the moderation feed's WebSocket configuration.
type WebSocketConfig struct {
	Enabled         bool          `yaml:"enabled" mapstructure:"enabled"`
	Path            string        `yaml:"path" mapstructure:"path"`
	MaxConnections  int           `yaml:"max_connections" mapstructure:"max_connections"`
	ReadBufferSize  int           `yaml:"read_buffer_size" mapstructure:"read_buffer_size"`
	WriteBufferSize int           `yaml:"write_buffer_size" mapstructure:"write_buffer_size"`
	PingInterval    time.Duration `yaml:"ping_interval" mapstructure:"ping_interval"`
	PongTimeout     time.Duration `yaml:"pong_timeout" mapstructure:"pong_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	MaxMessageSize  int64         `yaml:"max_message_size" mapstructure:"max_message_size"`
	AllowedOrigins  []string      `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// RateLimitConfig configures the per-client token bucket guarding
// /v1/detect and /v1/sanitize.
type RateLimitConfig struct {
	Enabled        bool `yaml:"enabled" mapstructure:"enabled"`
	RequestsPerMin int  `yaml:"requests_per_min" mapstructure:"requests_per_min"`
}

// GetDefaults returns a configuration with sensible defaults, consistent
// with detect.DefaultConfig() where the two overlap.
func GetDefaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Detection: DetectionConfig{
			MaxEditDistance:    1,
			CaseSensitive:      false,
			WholeWordsOnly:     false,
			ConfusableMapping:  true,
			IgnoreSeparators:   []string{" ", ".", "-", "_", "*"},
			StripDiacritics:    true,
			UseCompatForm:      false,
			LengthPreserving:   true,
			StripInvisible:     true,
			EnableInflections:  true,
			InflectionSuffixes: []string{"s", "es", "ed", "ing", "er", "ers"},
			TokenBoundedFuzzy:  true,
			PhraseStopwords:    []string{"of", "the", "a", "an", "and", "to"},
			PhraseMaxSkips:     2,
			Algorithm:          "trie",
		},
		Masking: MaskingConfig{
			Enabled:        true,
			PatternChar:    "*",
			PreserveLength: true,
			PreserveFirst:  true,
			PreserveLast:   false,
		},
		Languages: LanguagesConfig{
			Enabled:    []string{"en"},
			AutoDetect: false,
			Fallback:   "en",
		},
		Wordstore: WordstoreConfig{
			Backend: "memory",
		},
		Cache: CacheConfig{
			Enabled: false,
			Addr:    "localhost:6379",
			DB:      0,
			TTL:     10 * time.Minute,
		},
		Audit: AuditConfig{
			Enabled:       false,
			Path:          "wordguard-audit.parquet",
			FlushInterval: 30 * time.Second,
			BatchSize:     1000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		WebSocket: WebSocketConfig{
			Enabled:         true,
			Path:            "/ws",
			MaxConnections:  100,
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			PingInterval:    54 * time.Second,
			PongTimeout:     60 * time.Second,
			WriteTimeout:    10 * time.Second,
			MaxMessageSize:  512,
			AllowedOrigins:  []string{"*"},
		},
		RateLimit: RateLimitConfig{
			Enabled:        true,
			RequestsPerMin: 120,
		},
	}
}
