package audit

import "time"

// DetectionEvent is one row appended to the audit sink: a hash of the
// flagged text (never the raw text itself), not unlike the privacy
// posture the original corpus enforces for request bodies.
type DetectionEvent struct {
	TextHash     string    `parquet:"text_hash" json:"text_hash"`
	LanguageCode string    `parquet:"language_code" json:"language_code"`
	MatchCount   int32     `parquet:"match_count" json:"match_count"`
	Masked       bool      `parquet:"masked" json:"masked"`
	OccurredAt   time.Time `parquet:"occurred_at,timestamp" json:"occurred_at"`
}

// Config contains audit sink configuration.
type Config struct {
	Path          string        `yaml:"path" mapstructure:"path"`
	FlushInterval time.Duration `yaml:"flush_interval" mapstructure:"flush_interval"`
	BatchSize     int           `yaml:"batch_size" mapstructure:"batch_size"`
}
