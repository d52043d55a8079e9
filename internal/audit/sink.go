// Package audit appends DetectionEvent rows to a Parquet file via
// github.com/segmentio/parquet-go, batching in memory and flushing a row
// group on demand (SPEC_FULL.md §4.10). Mirrors the batching and
// zap-logged-progress idiom of the teacher's ETL pipeline, inverted from
// reading a training dataset to writing an audit trail.
package audit

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/segmentio/parquet-go"
	"go.uber.org/zap"
)

// ParquetSink buffers DetectionEvent rows and periodically flushes them as
// a new row group in an append-only Parquet file.
type ParquetSink struct {
	mu      sync.Mutex
	config  *Config
	logger  *zap.Logger
	file    *os.File
	writer  *parquet.GenericWriter[DetectionEvent]
	buffer  []DetectionEvent
	written int64
	stop    chan struct{}
	done    chan struct{}
}

// NewParquetSink opens (or creates) the Parquet file at config.Path and
// starts a background flush loop on config.FlushInterval.
func NewParquetSink(config *Config, logger *zap.Logger) (*ParquetSink, error) {
	file, err := os.OpenFile(config.Path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit file: %w", err)
	}

	writer := parquet.NewGenericWriter[DetectionEvent](file)

	sink := &ParquetSink{
		config: config,
		logger: logger,
		file:   file,
		writer: writer,
		buffer: make([]DetectionEvent, 0, config.BatchSize),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}

	go sink.flushLoop()

	logger.Info("audit sink opened",
		zap.String("path", config.Path),
		zap.Int("batch_size", config.BatchSize),
		zap.Duration("flush_interval", config.FlushInterval))

	return sink, nil
}

// Append buffers event, flushing immediately if the batch is full.
func (s *ParquetSink) Append(event DetectionEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.buffer = append(s.buffer, event)
	if len(s.buffer) >= s.config.BatchSize {
		return s.flushLocked()
	}
	return nil
}

// Flush writes any buffered events as a row group.
func (s *ParquetSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked()
}

func (s *ParquetSink) flushLocked() error {
	if len(s.buffer) == 0 {
		return nil
	}

	n, err := s.writer.Write(s.buffer)
	if err != nil {
		return fmt.Errorf("failed to write audit batch: %w", err)
	}
	if err := s.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush audit row group: %w", err)
	}

	s.written += int64(n)
	s.logger.Debug("audit batch flushed", zap.Int("rows", n), zap.Int64("total_written", s.written))
	s.buffer = s.buffer[:0]
	return nil
}

func (s *ParquetSink) flushLoop() {
	defer close(s.done)
	ticker := time.NewTicker(s.config.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.Flush(); err != nil {
				s.logger.Warn("periodic audit flush failed", zap.Error(err))
			}
		case <-s.stop:
			return
		}
	}
}

// Written returns the total number of rows written across this sink's
// lifetime (excluding anything still buffered).
func (s *ParquetSink) Written() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.written
}

// Close stops the background flush loop, flushes any remaining buffered
// events, closes the Parquet writer, and closes the underlying file.
func (s *ParquetSink) Close() error {
	close(s.stop)
	<-s.done

	if err := s.Flush(); err != nil {
		s.file.Close()
		return err
	}
	if err := s.writer.Close(); err != nil {
		s.file.Close()
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return s.file.Close()
}
