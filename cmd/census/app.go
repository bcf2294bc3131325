package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"census/internal/audit"
	auditkafka "census/internal/audit/kafka"
	"census/internal/imports/cache"
	importsmetrics "census/internal/imports/metrics"
	"census/internal/imports/service"
	"census/internal/imports/store"
	"census/internal/platform/config"
	"census/internal/platform/database"
	"census/internal/platform/health"
	"census/internal/platform/redis"
	"census/pkg/platform/circuit"
)

// app holds the wired dependencies of one process.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	db        *sqlx.DB
	redis     *redis.Client
	kafka     *auditkafka.Store
	publisher *audit.Publisher
	worker    *audit.Worker
	service   *service.Service
	health    *health.Checker
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (a *app, err error) {
	a = &app{cfg: cfg, logger: logger, health: health.NewChecker(0)}
	defer func() {
		if err != nil {
			a.close()
		}
	}()

	st, tx, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}

	m := importsmetrics.New()
	reports, err := a.openReportCache(ctx, m)
	if err != nil {
		return nil, err
	}

	auditStore, err := a.openAuditStore(ctx)
	if err != nil {
		return nil, err
	}
	a.publisher = audit.NewPublisher(cfg.Kafka.BufferSize, logger)
	a.worker = audit.NewWorker(auditStore, a.publisher.Inbox(), logger)

	a.service = service.New(st, tx,
		service.WithLogger(logger),
		service.WithMetrics(m),
		service.WithReportCache(reports),
		service.WithAuditPublisher(a.publisher),
	)
	return a, nil
}

func (a *app) openStore(ctx context.Context) (service.Store, service.StoreTx, error) {
	if a.cfg.Database.Driver == config.StorageMemory {
		a.logger.Warn("using in-memory storage; imports are lost on restart")
		st := store.NewInMemory()
		return st, service.NewShardedTx(st, a.cfg.Imports.TxTimeout), nil
	}

	db, err := database.Open(ctx, a.cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	a.db = db
	if a.cfg.Database.MigrateOnStart {
		if err := database.Migrate(db, a.logger); err != nil {
			return nil, nil, err
		}
	}
	st := store.NewPostgres(db)
	a.health.Critical("database", st.Ping)
	return st, newImportPostgresTx(db, a.cfg.Imports.TxTimeout), nil
}

func (a *app) openReportCache(ctx context.Context, m *importsmetrics.Metrics) (*cache.ReportCache, error) {
	client, err := redis.New(ctx, a.cfg.Redis)
	if err != nil {
		return nil, err
	}
	opts := []cache.Option{cache.WithMetrics(m), cache.WithLogger(a.logger)}
	if client == nil {
		return cache.New(cache.NewMemoryBackend(a.cfg.Imports.ReportTTL), opts...), nil
	}
	a.redis = client
	a.health.Optional("redis", client.Health)
	return cache.New(cache.NewRedisBackend(client, a.cfg.Imports.ReportTTL), opts...), nil
}

// openAuditStore delivers to Kafka when brokers are configured and falls back
// to memory while the broker is failing.
func (a *app) openAuditStore(ctx context.Context) (audit.Store, error) {
	memory := audit.NewInMemoryStore(a.cfg.Kafka.MemoryCapacity)
	if len(a.cfg.Kafka.Brokers) == 0 {
		return memory, nil
	}

	k, err := auditkafka.New(a.cfg.Kafka.Brokers, a.cfg.Kafka.AuditTopic)
	if err != nil {
		return nil, fmt.Errorf("open audit producer: %w", err)
	}
	a.kafka = k
	if err := k.EnsureTopic(ctx, a.cfg.Kafka.Partitions); err != nil {
		a.logger.WarnContext(ctx, "failed to ensure audit topic", "error", err, "topic", a.cfg.Kafka.AuditTopic)
	}
	a.health.Optional("kafka", k.Health)
	return audit.NewFallbackStore(k, memory, circuit.New("audit-kafka"), a.logger), nil
}

func (a *app) close() {
	if a.kafka != nil {
		a.kafka.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}
