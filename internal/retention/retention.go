// Package retention removes stale exports and snapshots from a directory.
package retention

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"fjacquet/bill-analyzer/internal/fileutils"
	"fjacquet/bill-analyzer/internal/logging"
)

// Defaults used when the configuration leaves a value unset.
const (
	DefaultMaxAge   = 24 * time.Hour
	DefaultInterval = time.Hour
)

// Result summarizes one sweep.
type Result struct {
	Removed int   `json:"removed"`
	Bytes   int64 `json:"bytes"`
}

// Sweeper deletes regular files older than MaxAge in Dir.
type Sweeper struct {
	Dir      string
	MaxAge   time.Duration
	Interval time.Duration

	logger logging.Logger
	now    func() time.Time
}

// NewSweeper applies defaults to zero durations.
func NewSweeper(dir string, maxAge, interval time.Duration, logger logging.Logger) *Sweeper {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Sweeper{Dir: dir, MaxAge: maxAge, Interval: interval, logger: logger, now: time.Now}
}

// Sweep removes expired files once. Files that cannot be removed are
// logged and skipped.
func (s *Sweeper) Sweep() (Result, error) {
	entries, err := fileutils.ListFiles(s.Dir)
	if err != nil {
		return Result{}, err
	}

	var res Result
	now := s.now()
	for _, e := range entries {
		if e.Age(now) <= s.MaxAge {
			continue
		}
		if err := os.Remove(e.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.logger.WithError(err).Warn("Failed to remove expired file", logging.F(logging.FieldFile, e.Path))
			continue
		}
		res.Removed++
		res.Bytes += e.Size
	}
	if res.Removed > 0 {
		s.logger.Info("Removed expired files",
			logging.F(logging.FieldDirectory, s.Dir),
			logging.F(logging.FieldCount, res.Removed),
			logging.F("bytes", res.Bytes))
	}
	return res, nil
}

// Info lists the files currently kept, newest first.
func (s *Sweeper) Info() ([]fileutils.Entry, error) {
	entries, err := fileutils.ListFiles(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", s.Dir, err)
	}
	return entries, nil
}

// Run sweeps immediately and then on every tick until ctx ends. Sweep
// errors are logged and do not stop the loop.
func (s *Sweeper) Run(ctx context.Context) {
	s.logger.Info("Retention sweeper started",
		logging.F(logging.FieldDirectory, s.Dir),
		logging.F("max_age", s.MaxAge.String()),
		logging.F("interval", s.Interval.String()))

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	for {
		if _, err := s.Sweep(); err != nil {
			s.logger.WithError(err).Error("Retention sweep failed", logging.F(logging.FieldDirectory, s.Dir))
		}
		select {
		case <-ctx.Done():
			s.logger.Info("Retention sweeper stopped")
			return
		case <-ticker.C:
		}
	}
}
