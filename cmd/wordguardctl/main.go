// Command wordguardctl administers a language pack store: it applies
// add-word/remove-word/add-phrase mutations and prints registry
// statistics as a table, adapted from the teacher's cmd/etl entrypoint
// (flag parsing, stats reporting) pointed at
// wordstore.PostgresTable or a JSON fixture instead of the vector
// pipeline (SPEC_FULL.md §4.14).
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"go.uber.org/zap"

	"github.com/yourusername/wordguard/internal/config"
	"github.com/yourusername/wordguard/internal/detect"
	"github.com/yourusername/wordguard/internal/logger"
	"github.com/yourusername/wordguard/internal/packs"
	"github.com/yourusername/wordguard/internal/wordstore"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to configuration file")
		fixture    = flag.String("fixture", "", "Load a JSON fixture ({\"en\":[\"word\",...]}) instead of Postgres")
		addWord    = flag.String("add-word", "", "Word to add")
		removeWord = flag.String("remove-word", "", "Word to remove")
		addPhrase  = flag.String("add-phrase", "", "Phrase to add")
		language   = flag.String("lang", "en", "Language code the mutation applies to")
		showStats  = flag.Bool("stats", false, "Print registry statistics and exit")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	table, closeTable, err := loadTable(*fixture, cfg, log)
	if err != nil {
		log.Fatal("failed to load word pack table", zap.Error(err))
	}
	if closeTable != nil {
		defer closeTable()
	}

	detector, err := detect.New(table, cfg.ToDetectConfig())
	if err != nil {
		log.Fatal("failed to build detector", zap.Error(err))
	}

	switch {
	case *addWord != "":
		if err := applyAddWord(table, detector, *addWord, *language); err != nil {
			log.Fatal("failed to add word", zap.Error(err))
		}
		fmt.Printf("added %q to language %q\n", *addWord, *language)
	case *removeWord != "":
		if err := applyRemoveWord(table, detector, *removeWord, *language); err != nil {
			log.Fatal("failed to remove word", zap.Error(err))
		}
		fmt.Printf("removed %q from language %q\n", *removeWord, *language)
	case *addPhrase != "":
		detector.AddPhrase(*addPhrase)
		fmt.Printf("added phrase %q\n", *addPhrase)
	case *showStats:
		printStats(cfg, table)
	default:
		printStats(cfg, table)
	}
}

// applyAddWord persists word to the Postgres-backed store when table is
// one, then applies the same mutation to the in-process detector. Each
// invocation runs a single action, and printStats reads the pack table
// rather than the detector. Against a fixture or the in-memory default
// table, the detector mutation alone is the whole effect.
func applyAddWord(table packs.Table, detector *detect.Detector, word, code string) error {
	if store, ok := table.(*wordstore.PostgresTable); ok {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := store.InsertWord(ctx, code, word); err != nil {
			return err
		}
	}
	detector.AddWord(word, code)
	return nil
}

// applyRemoveWord is applyAddWord's inverse.
func applyRemoveWord(table packs.Table, detector *detect.Detector, word, code string) error {
	if store, ok := table.(*wordstore.PostgresTable); ok {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := store.DeleteWord(ctx, code, word); err != nil {
			return err
		}
	}
	detector.RemoveWord(word, code)
	return nil
}

// loadTable selects a JSON fixture (when --fixture is set) or the
// configured Postgres wordstore.
func loadTable(fixture string, cfg *config.Config, log *logger.Logger) (packs.Table, func(), error) {
	if fixture != "" {
		data, err := os.ReadFile(fixture)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read fixture: %w", err)
		}
		var words map[string][]string
		if err := json.Unmarshal(data, &words); err != nil {
			return nil, nil, fmt.Errorf("failed to parse fixture: %w", err)
		}
		return packs.NewMemory(words), nil, nil
	}

	if cfg.Wordstore.Backend != "postgres" {
		return packs.Bootstrap(), nil, nil
	}

	store, err := wordstore.NewPostgresTable(&wordstore.Config{
		DatabaseURL:     cfg.Wordstore.PostgresDSN,
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: 30 * time.Minute,
	}, log.WithComponent("wordstore").Logger)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { store.Close() }, nil
}

// printStats renders word counts per language and the active algorithm
// as a table.
func printStats(cfg *config.Config, table packs.Table) {
	w := tablewriter.NewWriter(os.Stdout)
	w.SetHeader([]string{"Language", "Word Count"})

	for _, code := range table.AllCodes() {
		w.Append([]string{code, fmt.Sprintf("%d", len(table.Words(code)))})
	}

	w.Render()

	fmt.Printf("\nActive algorithm: %s\n", cfg.Detection.Algorithm)
	fmt.Printf("Active languages: %v\n", cfg.Languages.Enabled)
}
