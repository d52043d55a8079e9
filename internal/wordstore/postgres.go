// Package wordstore is a Postgres-backed packs.Table, adapted from the
// teacher's internal/vector.Store: the same sqlx.Connect + connection-pool
// setup and masked-URL logging, pointed at a flat word list instead of
// pgvector embeddings (SPEC_FULL.md §4.6, §6).
package wordstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// Config contains Postgres connection configuration.
type Config struct {
	DatabaseURL     string        `yaml:"database_url" mapstructure:"database_url"`
	MaxOpenConns    int           `yaml:"max_open_conns" mapstructure:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns" mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" mapstructure:"conn_max_lifetime"`
}

// PostgresTable is a packs.Table backed by a `language_packs(code, word)`
// table. It loads the whole table into memory once at construction: the
// registry only ever calls Words/AllCodes at language-load time, so a
// live Postgres round-trip per lookup buys nothing (SPEC_FULL.md §4.6).
type PostgresTable struct {
	db     *sqlx.DB
	logger *zap.Logger
	words  map[string][]string
}

type wordRow struct {
	Code string `db:"code"`
	Word string `db:"word"`
}

// NewPostgresTable connects to Postgres, loads every row of
// language_packs, and returns a ready-to-use Table.
func NewPostgresTable(config *Config, logger *zap.Logger) (*PostgresTable, error) {
	db, err := sqlx.Connect("postgres", config.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)

	t := &PostgresTable{db: db, logger: logger}

	if err := t.reload(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load language packs: %w", err)
	}

	logger.Info("wordstore connected",
		zap.String("database_url", maskDatabaseURL(config.DatabaseURL)),
		zap.Int("max_open_conns", config.MaxOpenConns),
		zap.Int("languages_loaded", len(t.words)))

	return t, nil
}

// reload re-reads the full language_packs table into memory.
func (t *PostgresTable) reload() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var rows []wordRow
	if err := t.db.SelectContext(ctx, &rows, `SELECT code, word FROM language_packs`); err != nil {
		return err
	}

	words := make(map[string][]string)
	for _, r := range rows {
		words[r.Code] = append(words[r.Code], r.Word)
	}
	t.words = words
	return nil
}

// Reload re-reads the table from Postgres, replacing the in-memory
// snapshot. Callers wanting live updates (e.g. an admin tool just ran
// add-word against the database) call this explicitly; the table never
// polls on its own.
func (t *PostgresTable) Reload() error {
	return t.reload()
}

// InsertWord adds word under code, both in Postgres and in the in-memory
// snapshot, so a subsequent Words call reflects it without a Reload.
func (t *PostgresTable) InsertWord(ctx context.Context, code, word string) error {
	_, err := t.db.ExecContext(ctx,
		`INSERT INTO language_packs (code, word) VALUES ($1, $2) ON CONFLICT (code, word) DO NOTHING`,
		code, word)
	if err != nil {
		return fmt.Errorf("failed to insert word: %w", err)
	}
	t.words[code] = append(t.words[code], word)
	return nil
}

// DeleteWord removes word from code, both in Postgres and in memory.
func (t *PostgresTable) DeleteWord(ctx context.Context, code, word string) error {
	_, err := t.db.ExecContext(ctx,
		`DELETE FROM language_packs WHERE code = $1 AND word = $2`, code, word)
	if err != nil {
		return fmt.Errorf("failed to delete word: %w", err)
	}
	filtered := t.words[code][:0]
	for _, w := range t.words[code] {
		if w != word {
			filtered = append(filtered, w)
		}
	}
	t.words[code] = filtered
	return nil
}

// Words implements packs.Table.
func (t *PostgresTable) Words(code string) []string {
	return t.words[code]
}

// AllCodes implements packs.Table.
func (t *PostgresTable) AllCodes() []string {
	codes := make([]string, 0, len(t.words))
	for code := range t.words {
		codes = append(codes, code)
	}
	return codes
}

// Close closes the underlying database connection.
func (t *PostgresTable) Close() error {
	if t.db != nil {
		return t.db.Close()
	}
	return nil
}

// maskDatabaseURL masks the password component of a Postgres DSN for
// logging.
func maskDatabaseURL(url string) string {
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
