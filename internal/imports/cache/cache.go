// Package cache keeps computed reports per import until the import changes.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"census/internal/imports/metrics"
	"census/internal/imports/models"
	"census/pkg/domain"
)

const (
	reportBirthdays = "birthdays"
	reportAges      = "ages"
)

// defaultLoadTimeout bounds a shared load, which outlives the caller that started it.
const defaultLoadTimeout = 30 * time.Second

// Backend stores encoded reports as fields grouped under one import so that a
// single delete drops every report of that import.
type Backend interface {
	Get(ctx context.Context, importID domain.ImportID, field string) ([]byte, bool, error)
	Set(ctx context.Context, importID domain.ImportID, field string, value []byte) error
	Delete(ctx context.Context, importID domain.ImportID) error
}

// ReportCache serves reports from a Backend and collapses concurrent misses
// for the same report into one load.
type ReportCache struct {
	backend Backend
	flight  singleflight.Group
	metrics     *metrics.Metrics
	logger      *slog.Logger
	loadTimeout time.Duration

	mu          sync.Mutex
	generations map[domain.ImportID]uint64
}

type Option func(*ReportCache)

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *ReportCache) {
		c.metrics = m
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *ReportCache) {
		c.logger = logger
	}
}

// WithLoadTimeout bounds how long a shared load may run.
func WithLoadTimeout(d time.Duration) Option {
	return func(c *ReportCache) {
		if d > 0 {
			c.loadTimeout = d
		}
	}
}

func New(backend Backend, opts ...Option) *ReportCache {
	c := &ReportCache{
		backend:     backend,
		logger:      slog.Default(),
		loadTimeout: defaultLoadTimeout,
		generations: make(map[domain.ImportID]uint64),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *ReportCache) Birthdays(ctx context.Context, importID domain.ImportID, load func(context.Context) (models.BirthdayReport, error)) (models.BirthdayReport, error) {
	return fetch(ctx, c, importID, reportBirthdays, reportBirthdays, load)
}

// TownAges caches per reference day since ages move with the calendar.
func (c *ReportCache) TownAges(ctx context.Context, importID domain.ImportID, day models.Date, load func(context.Context) ([]models.TownAgeStat, error)) ([]models.TownAgeStat, error) {
	return fetch(ctx, c, importID, reportAges+":"+day.String(), reportAges, load)
}

// Invalidate drops every cached report of the import. Loads already running
// when it is called either skip storing their results or delete them again.
func (c *ReportCache) Invalidate(ctx context.Context, importID domain.ImportID) error {
	c.mu.Lock()
	c.generations[importID]++
	c.mu.Unlock()

	if err := c.backend.Delete(ctx, importID); err != nil {
		return fmt.Errorf("invalidate reports of import %d: %w", importID, err)
	}
	return nil
}

func (c *ReportCache) generation(importID domain.ImportID) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[importID]
}

func fetch[T any](ctx context.Context, c *ReportCache, importID domain.ImportID, field, report string, load func(context.Context) (T, error)) (T, error) {
	var zero T

	raw, ok, err := c.backend.Get(ctx, importID, field)
	if err != nil {
		c.logger.WarnContext(ctx, "report cache read failed",
			"error", err,
			"import_id", importID,
			"report", report,
		)
	}
	if ok {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			c.recordHit(report)
			return cached, nil
		}
		c.logger.WarnContext(ctx, "discarding undecodable cached report",
			"import_id", importID,
			"report", report,
		)
	}
	c.recordMiss(report)

	key := importID.String() + "/" + field
	v, err, _ := c.flight.Do(key, func() (any, error) {
		// The load is shared by every waiter and outlives the first caller's cancellation.
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.loadTimeout)
		defer cancel()

		gen := c.generation(importID)
		value, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		if c.generation(importID) == gen {
			c.store(loadCtx, importID, field, value)
			// An Invalidate between the check and the write may have deleted
			// before our Set landed.
			if c.generation(importID) != gen {
				c.evict(loadCtx, importID)
			}
		}
		return value, nil
	})
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}

func (c *ReportCache) store(ctx context.Context, importID domain.ImportID, field string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.WarnContext(ctx, "failed to encode report", "error", err, "import_id", importID)
		return
	}
	if err := c.backend.Set(ctx, importID, field, raw); err != nil {
		c.logger.WarnContext(ctx, "report cache write failed", "error", err, "import_id", importID)
	}
}

func (c *ReportCache) evict(ctx context.Context, importID domain.ImportID) {
	if err := c.backend.Delete(ctx, importID); err != nil {
		c.logger.WarnContext(ctx, "failed to evict stale report", "error", err, "import_id", importID)
	}
}

func (c *ReportCache) recordHit(report string) {
	if c.metrics != nil {
		c.metrics.RecordCacheHit(report)
	}
}

func (c *ReportCache) recordMiss(report string) {
	if c.metrics != nil {
		c.metrics.RecordCacheMiss(report)
	}
}
