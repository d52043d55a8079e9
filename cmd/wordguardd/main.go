// Command wordguardd runs the moderation daemon: it loads configuration,
// builds a detect.Detector over a packs.Table, and serves the HTTP +
// WebSocket moderation surface of SPEC_FULL.md §4.12, adapted from the
// teacher's cmd/sentinel entrypoint (flag parsing, graceful shutdown,
// health-check mode).
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/wordguard/internal/audit"
	"github.com/yourusername/wordguard/internal/cache"
	"github.com/yourusername/wordguard/internal/config"
	"github.com/yourusername/wordguard/internal/detect"
	"github.com/yourusername/wordguard/internal/logger"
	"github.com/yourusername/wordguard/internal/moderation"
	"github.com/yourusername/wordguard/internal/packs"
	"github.com/yourusername/wordguard/internal/wordstore"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
		healthCheck = flag.Bool("health-check", false, "Perform health check and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("wordguardd %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	if *healthCheck {
		performHealthCheck()
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	loggerConfig := logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format}
	if cfg.Logging.File.Enabled {
		loggerConfig.File = &logger.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		}
	}

	log, err := logger.New(loggerConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting wordguardd",
		zap.String("version", version),
		zap.String("commit", commit),
		zap.String("build_date", date),
		zap.Int("port", cfg.Server.Port))

	table, closeTable, err := buildPackTable(cfg, log)
	if err != nil {
		log.Fatal("failed to build word pack table", zap.Error(err))
	}
	if closeTable != nil {
		defer closeTable()
	}

	detector, err := detect.New(table, cfg.ToDetectConfig())
	if err != nil {
		log.Fatal("failed to build detector", zap.Error(err))
	}

	if err := config.Watch(cfg, func(newCfg *config.Config) {
		detector.SetLanguages(newCfg.Languages.Enabled, newCfg.Languages.Fallback)
		detector.SetAlgorithm(newCfg.ToDetectConfig().Detection.Algorithm)
		log.Info("configuration reloaded",
			zap.Strings("languages", newCfg.Languages.Enabled),
			zap.String("algorithm", newCfg.Detection.Algorithm))
	}); err != nil {
		log.Warn("failed to start configuration watch", zap.Error(err))
	}

	deps := moderation.Deps{Detector: detector}

	if cfg.Cache.Enabled {
		detectionCache, err := cache.NewDetectionCache(&cache.Config{
			RedisURL:       fmt.Sprintf("redis://%s/%d", cfg.Cache.Addr, cfg.Cache.DB),
			MaxConnections: 10,
			MinIdleConns:   2,
			DefaultTTL:     cfg.Cache.TTL,
			KeyPrefix:      "wordguard",
		}, log.WithComponent("cache").Logger)
		if err != nil {
			log.Fatal("failed to connect to detection cache", zap.Error(err))
		}
		defer detectionCache.Close()
		deps.Cache = detectionCache
	}

	if cfg.Audit.Enabled {
		sink, err := audit.NewParquetSink(&audit.Config{
			Path:          cfg.Audit.Path,
			FlushInterval: cfg.Audit.FlushInterval,
			BatchSize:     cfg.Audit.BatchSize,
		}, log.WithComponent("audit").Logger)
		if err != nil {
			log.Fatal("failed to open audit sink", zap.Error(err))
		}
		defer sink.Close()
		deps.AuditSink = sink
	}

	server := moderation.New(cfg, log, deps)

	stop := make(chan struct{})
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start(stop)
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		log.Error("server error", zap.Error(err))
	case sig := <-shutdown:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
		close(stop)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Stop(ctx); err != nil {
			log.Error("failed to shutdown server gracefully", zap.Error(err))
			os.Exit(1)
		}

		log.Info("server shutdown complete")
	}
}

// buildPackTable selects the configured wordstore backend. The returned
// close func is nil for the in-memory backend.
func buildPackTable(cfg *config.Config, log *logger.Logger) (packs.Table, func(), error) {
	switch cfg.Wordstore.Backend {
	case "postgres":
		table, err := wordstore.NewPostgresTable(&wordstore.Config{
			DatabaseURL:     cfg.Wordstore.PostgresDSN,
			MaxOpenConns:    10,
			MaxIdleConns:    2,
			ConnMaxLifetime: 30 * time.Minute,
		}, log.WithComponent("wordstore").Logger)
		if err != nil {
			return nil, nil, err
		}
		return table, func() { table.Close() }, nil
	default:
		return packs.Bootstrap(), nil, nil
	}
}

// performHealthCheck performs a health check against the running server.
func performHealthCheck() {
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get("http://localhost:8080/healthz")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Health check failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "Health check failed: HTTP %d\n", resp.StatusCode)
		os.Exit(1)
	}

	fmt.Println("Health check passed")
	os.Exit(0)
}
