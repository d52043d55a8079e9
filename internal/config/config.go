package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/yourusername/wordguard/internal/detect"
	"github.com/yourusername/wordguard/internal/matcher"
)

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	config := GetDefaults()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("/etc/wordguard/")
	viper.AddConfigPath("$HOME/.wordguard/")

	viper.SetEnvPrefix("WORDGUARD")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if configPath != "" {
		viper.SetConfigFile(configPath)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// validateConfig validates the loaded configuration.
func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}
	if config.Detection.MaxEditDistance < 0 {
		return fmt.Errorf("detection.max_edit_distance must be non-negative, got %d", config.Detection.MaxEditDistance)
	}
	if config.Detection.PhraseMaxSkips < 0 {
		return fmt.Errorf("detection.phrase_max_skips must be non-negative, got %d", config.Detection.PhraseMaxSkips)
	}
	if config.Detection.Algorithm != "trie" && config.Detection.Algorithm != "aho" {
		return fmt.Errorf("invalid detection algorithm: %s (must be trie or aho)", config.Detection.Algorithm)
	}
	if config.Wordstore.Backend != "memory" && config.Wordstore.Backend != "postgres" {
		return fmt.Errorf("invalid wordstore backend: %s (must be memory or postgres)", config.Wordstore.Backend)
	}
	if config.Logging.Level != "debug" && config.Logging.Level != "info" && config.Logging.Level != "warn" && config.Logging.Level != "error" {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", config.Logging.Level)
	}
	if config.Logging.Format != "json" && config.Logging.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", config.Logging.Format)
	}
	return nil
}

// Watch starts watching the configuration file for changes, invoking
// callback with the new, validated configuration whenever it changes.
func Watch(config *Config, callback func(*Config)) error {
	viper.WatchConfig()
	viper.OnConfigChange(func(e fsnotify.Event) {
		newConfig := GetDefaults()
		if err := viper.Unmarshal(newConfig); err != nil {
			return
		}
		if err := validateConfig(newConfig); err != nil {
			return
		}
		callback(newConfig)
	})

	return nil
}

// ToDetectConfig translates the serializable wire configuration into the
// core's detect.Config, the shape the detector actually consumes.
func (c *Config) ToDetectConfig() detect.Config {
	alg := matcher.AlgorithmTrie
	if c.Detection.Algorithm == "aho" {
		alg = matcher.AlgorithmAho
	}

	patternChar := '*'
	if r := []rune(c.Masking.PatternChar); len(r) > 0 {
		patternChar = r[0]
	}

	return detect.Config{
		Masking: detect.MaskingConfig{
			Enabled:        c.Masking.Enabled,
			PatternChar:    patternChar,
			PreserveLength: c.Masking.PreserveLength,
			PreserveFirst:  c.Masking.PreserveFirst,
			PreserveLast:   c.Masking.PreserveLast,
		},
		Detection: detect.DetectionConfig{
			MaxEditDistance:    c.Detection.MaxEditDistance,
			CaseSensitive:      c.Detection.CaseSensitive,
			WholeWordsOnly:     c.Detection.WholeWordsOnly,
			ConfusableMapping:  c.Detection.ConfusableMapping,
			IgnoreSeparators:   stringsToRuneSet(c.Detection.IgnoreSeparators),
			StripDiacritics:    c.Detection.StripDiacritics,
			UseCompatForm:      c.Detection.UseCompatForm,
			LengthPreserving:   c.Detection.LengthPreserving,
			StripInvisible:     c.Detection.StripInvisible,
			EnableInflections:  c.Detection.EnableInflections,
			InflectionSuffixes: append([]string{}, c.Detection.InflectionSuffixes...),
			TokenBoundedFuzzy:  c.Detection.TokenBoundedFuzzy,
			PhraseStopwords:    stringsToSet(c.Detection.PhraseStopwords),
			PhraseMaxSkips:     c.Detection.PhraseMaxSkips,
			Algorithm:          alg,
		},
		Languages: detect.LanguagesConfig{
			Enabled:    append([]string{}, c.Languages.Enabled...),
			AutoDetect: c.Languages.AutoDetect,
			Fallback:   c.Languages.Fallback,
		},
	}
}

func stringsToRuneSet(in []string) map[rune]bool {
	out := make(map[rune]bool, len(in))
	for _, s := range in {
		for _, r := range s {
			out[r] = true
		}
	}
	return out
}

func stringsToSet(in []string) map[string]bool {
	out := make(map[string]bool, len(in))
	for _, s := range in {
		out[s] = true
	}
	return out
}
