package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"census/internal/audit"
	"census/internal/imports/metrics"
	"census/internal/imports/models"
	"census/internal/imports/relations"
	"census/pkg/domain"
	dErrors "census/pkg/domain-errors"
	"census/pkg/requestcontext"
)

// Store is the persistence contract of an import.
type Store interface {
	NextImportID(ctx context.Context) (domain.ImportID, error)
	InsertCitizens(ctx context.Context, importID domain.ImportID, citizens []models.Citizen) error
	CitizenIDs(ctx context.Context, importID domain.ImportID) ([]domain.CitizenID, error)
	FindCitizen(ctx context.Context, importID domain.ImportID, citizenID domain.CitizenID) (*models.Citizen, error)
	ListCitizens(ctx context.Context, importID domain.ImportID) ([]*models.Citizen, error)
	UpdateCitizen(ctx context.Context, citizen *models.Citizen) error
	SetRelation(ctx context.Context, importID domain.ImportID, citizenID, relative domain.CitizenID, active bool) error
	ImportIDs(ctx context.Context) ([]domain.ImportID, error)
	BirthdayPresents(ctx context.Context, importID domain.ImportID) (models.BirthdayReport, error)
	TownAgePercentiles(ctx context.Context, importID domain.ImportID, today models.Date) ([]models.TownAgeStat, error)
}

// StoreTx runs fn atomically and serialised against other transactions on the
// same import. NewImport takes no per-import lock.
type StoreTx interface {
	RunInTx(ctx context.Context, importID domain.ImportID, fn func(store Store) error) error
}

// NewImport is passed to RunInTx when the import id is not allocated yet.
// Allocated ids start at 1.
const NewImport domain.ImportID = 0

// ReportCache serves read-side reports, calling load on a miss.
type ReportCache interface {
	Birthdays(ctx context.Context, importID domain.ImportID, load func(context.Context) (models.BirthdayReport, error)) (models.BirthdayReport, error)
	TownAges(ctx context.Context, importID domain.ImportID, day models.Date, load func(context.Context) ([]models.TownAgeStat, error)) ([]models.TownAgeStat, error)
	Invalidate(ctx context.Context, importID domain.ImportID) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event)
}

// Service orchestrates import creation, patching and reports.
type Service struct {
	store          Store
	tx             StoreTx
	cache          ReportCache
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	tracer         trace.Tracer
	logger         *slog.Logger
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithReportCache(cache ReportCache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

// New constructs a Service. store serves reads outside transactions.
func New(store Store, tx StoreTx, opts ...Option) *Service {
	s := &Service{
		store:  store,
		tx:     tx,
		tracer: otel.Tracer("census/imports"),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateImport validates the relation graph of the batch and stores it under a
// fresh import id. Either the whole batch is stored or nothing is.
func (s *Service) CreateImport(ctx context.Context, citizens []models.Citizen) (domain.ImportID, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "imports.CreateImport",
		trace.WithAttributes(attribute.Int("citizens", len(citizens))))
	defer span.End()

	nodes := make([]relations.Node, 0, len(citizens))
	for _, c := range citizens {
		nodes = append(nodes, relations.Node{ID: c.CitizenID, Relatives: c.Relatives})
	}
	if err := relations.Validate(nodes); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return 0, dErrors.Wrap(err, dErrors.CodeRelations, err.Error())
	}

	var importID domain.ImportID
	err := s.tx.RunInTx(ctx, NewImport, func(store Store) error {
		id, err := store.NextImportID(ctx)
		if err != nil {
			return err
		}
		if err := store.InsertCitizens(ctx, id, citizens); err != nil {
			return err
		}
		importID = id
		return nil
	})
	if err != nil {
		span.RecordError(err)
		s.logger.ErrorContext(ctx, "failed to store import",
			"error", err,
			"citizens", len(citizens),
			"request_id", requestcontext.RequestID(ctx),
		)
		return 0, passOrWrap(err, dErrors.CodeInsert, "failed to store import")
	}

	span.SetAttributes(attribute.Int64("import_id", int64(importID)))
	s.logAudit(ctx, audit.Event{
		Action:   audit.ActionImportCreated,
		ImportID: importID,
		Citizens: len(citizens),
	})
	if s.metrics != nil {
		s.metrics.IncrementImportCreated(len(citizens))
		s.metrics.ObserveCreateImport(start)
	}
	return importID, nil
}

// ListCitizens returns every citizen of an import with its active relatives.
func (s *Service) ListCitizens(ctx context.Context, importID domain.ImportID) ([]*models.Citizen, error) {
	ctx, span := s.tracer.Start(ctx, "imports.ListCitizens",
		trace.WithAttributes(attribute.Int64("import_id", int64(importID))))
	defer span.End()

	citizens, err := s.store.ListCitizens(ctx, importID)
	if err != nil {
		span.RecordError(err)
		return nil, passOrWrap(err, dErrors.CodeSelect, "failed to load citizens")
	}
	if len(citizens) == 0 {
		return nil, importNotFound(importID)
	}
	return citizens, nil
}

// ImportIDs lists every stored import.
func (s *Service) ImportIDs(ctx context.Context) ([]domain.ImportID, error) {
	ids, err := s.store.ImportIDs(ctx)
	if err != nil {
		return nil, passOrWrap(err, dErrors.CodeSelect, "failed to load import ids")
	}
	if ids == nil {
		ids = []domain.ImportID{}
	}
	return ids, nil
}

// Birthdays reports, per month, how many presents each citizen buys for relatives born that month.
func (s *Service) Birthdays(ctx context.Context, importID domain.ImportID) (models.BirthdayReport, error) {
	ctx, span := s.tracer.Start(ctx, "imports.Birthdays",
		trace.WithAttributes(attribute.Int64("import_id", int64(importID))))
	defer span.End()

	if err := s.requireImport(ctx, importID); err != nil {
		return nil, err
	}
	load := func(ctx context.Context) (models.BirthdayReport, error) {
		return s.store.BirthdayPresents(ctx, importID)
	}
	var (
		report models.BirthdayReport
		err    error
	)
	if s.cache != nil {
		report, err = s.cache.Birthdays(ctx, importID, load)
	} else {
		report, err = load(ctx)
	}
	if err != nil {
		span.RecordError(err)
		return nil, passOrWrap(err, dErrors.CodeSelect, "failed to compute birthdays")
	}
	return report, nil
}

// AgePercentiles reports p50, p75 and p99 of citizen ages per town, as of the request date.
func (s *Service) AgePercentiles(ctx context.Context, importID domain.ImportID) ([]models.TownAgeStat, error) {
	ctx, span := s.tracer.Start(ctx, "imports.AgePercentiles",
		trace.WithAttributes(attribute.Int64("import_id", int64(importID))))
	defer span.End()

	if err := s.requireImport(ctx, importID); err != nil {
		return nil, err
	}
	today := models.DateOf(requestcontext.Now(ctx))
	load := func(ctx context.Context) ([]models.TownAgeStat, error) {
		return s.store.TownAgePercentiles(ctx, importID, today)
	}
	var (
		stats []models.TownAgeStat
		err   error
	)
	if s.cache != nil {
		stats, err = s.cache.TownAges(ctx, importID, today, load)
	} else {
		stats, err = load(ctx)
	}
	if err != nil {
		span.RecordError(err)
		return nil, passOrWrap(err, dErrors.CodeSelect, "failed to compute age percentiles")
	}
	return stats, nil
}

func (s *Service) requireImport(ctx context.Context, importID domain.ImportID) error {
	ids, err := s.store.CitizenIDs(ctx, importID)
	if err != nil {
		return passOrWrap(err, dErrors.CodeSelect, "failed to load citizen ids")
	}
	if len(ids) == 0 {
		return importNotFound(importID)
	}
	return nil
}

func (s *Service) logAudit(ctx context.Context, event audit.Event) {
	args := []any{
		"event", string(event.Action),
		"log_type", "audit",
		"import_id", event.ImportID,
	}
	if event.CitizenID != nil {
		args = append(args, "citizen_id", *event.CitizenID)
	}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		args = append(args, "request_id", requestID)
	}
	s.logger.InfoContext(ctx, string(event.Action), args...)
	if s.auditPublisher == nil {
		return
	}
	s.auditPublisher.Emit(ctx, event)
}

func importNotFound(importID domain.ImportID) error {
	return dErrors.Newf(dErrors.CodeImportNotFound, "import_id %d not found", importID)
}

// passOrWrap keeps errors that already carry a domain code and wraps the rest.
func passOrWrap(err error, code dErrors.Code, message string) error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	return dErrors.Wrap(err, code, message)
}
