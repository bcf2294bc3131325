package service_test

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store,StoreTx,ReportCache,AuditPublisher

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"census/internal/audit"
	"census/internal/imports/metrics"
	"census/internal/imports/models"
	"census/internal/imports/service"
	"census/internal/imports/service/mocks"
	"census/internal/imports/store"
	"census/pkg/domain"
	dErrors "census/pkg/domain-errors"
	"census/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite
	ctx       context.Context
	ctrl      *gomock.Controller
	store     *mocks.MockStore
	tx        *mocks.MockStoreTx
	cache     *mocks.MockReportCache
	publisher *mocks.MockAuditPublisher
	service   *service.Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = requestcontext.WithTime(context.Background(), time.Date(2019, time.August, 20, 12, 0, 0, 0, time.UTC))
	s.ctrl = gomock.NewController(s.T())
	s.store = mocks.NewMockStore(s.ctrl)
	s.tx = mocks.NewMockStoreTx(s.ctrl)
	s.cache = mocks.NewMockReportCache(s.ctrl)
	s.publisher = mocks.NewMockAuditPublisher(s.ctrl)
	s.service = service.New(s.store, s.tx,
		service.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		service.WithMetrics(metrics.NewWithRegisterer(prometheus.NewRegistry())),
		service.WithReportCache(s.cache),
		service.WithAuditPublisher(s.publisher),
	)
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

// expectTx runs the transaction body against the mock store.
func (s *ServiceSuite) expectTx(importID domain.ImportID) {
	s.tx.EXPECT().RunInTx(gomock.Any(), importID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ domain.ImportID, fn func(service.Store) error) error {
			return fn(s.store)
		})
}

func citizen(id domain.CitizenID, relatives ...domain.CitizenID) models.Citizen {
	if relatives == nil {
		relatives = []domain.CitizenID{}
	}
	return models.Citizen{
		CitizenID: id,
		Town:      "Moscow",
		Street:    "Lva Tolstogo",
		Building:  "16k7s5",
		Apartment: 7,
		Name:      "Ivanov Ivan",
		BirthDate: models.NewDate(1986, time.December, 26),
		Gender:    models.GenderMale,
		Relatives: relatives,
	}
}

func (s *ServiceSuite) TestCreateImport() {
	s.Run("stores the batch and emits an audit event", func() {
		batch := []models.Citizen{citizen(1, 2), citizen(2, 1)}
		s.expectTx(service.NewImport)
		s.store.EXPECT().NextImportID(gomock.Any()).Return(domain.ImportID(7), nil)
		s.store.EXPECT().InsertCitizens(gomock.Any(), domain.ImportID(7), batch).Return(nil)
		s.publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).Do(func(_ context.Context, event audit.Event) {
			s.Equal(audit.ActionImportCreated, event.Action)
			s.Equal(domain.ImportID(7), event.ImportID)
			s.Equal(2, event.Citizens)
		})

		id, err := s.service.CreateImport(s.ctx, batch)
		s.Require().NoError(err)
		s.Equal(domain.ImportID(7), id)
	})

	s.Run("one-sided relation is a relations error and touches no store", func() {
		_, err := s.service.CreateImport(s.ctx, []models.Citizen{citizen(1, 2), citizen(2)})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeRelations))
		s.Equal("some relations are not two-sided", dErrors.Message(err))
	})

	s.Run("unknown relative is a relations error", func() {
		_, err := s.service.CreateImport(s.ctx, []models.Citizen{citizen(1, 9)})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeRelations))
	})

	s.Run("store failure is an insert error", func() {
		s.expectTx(service.NewImport)
		s.store.EXPECT().NextImportID(gomock.Any()).Return(domain.ImportID(8), nil)
		s.store.EXPECT().InsertCitizens(gomock.Any(), domain.ImportID(8), gomock.Any()).Return(errors.New("connection reset"))

		_, err := s.service.CreateImport(s.ctx, []models.Citizen{citizen(1)})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInsert))
	})

	s.Run("transaction timeout keeps its code", func() {
		s.tx.EXPECT().RunInTx(gomock.Any(), service.NewImport, gomock.Any()).
			Return(dErrors.New(dErrors.CodeTimeout, "transaction aborted: context cancelled"))

		_, err := s.service.CreateImport(s.ctx, []models.Citizen{citizen(1)})
		s.True(dErrors.HasCode(err, dErrors.CodeTimeout))
	})
}

func (s *ServiceSuite) TestListCitizens() {
	s.Run("empty import is not found", func() {
		s.store.EXPECT().ListCitizens(gomock.Any(), domain.ImportID(3)).Return(nil, nil)

		_, err := s.service.ListCitizens(s.ctx, 3)
		s.True(dErrors.HasCode(err, dErrors.CodeImportNotFound))
		s.Equal("import_id 3 not found", dErrors.Message(err))
	})

	s.Run("store failure is a select error", func() {
		s.store.EXPECT().ListCitizens(gomock.Any(), domain.ImportID(3)).Return(nil, errors.New("boom"))

		_, err := s.service.ListCitizens(s.ctx, 3)
		s.True(dErrors.HasCode(err, dErrors.CodeSelect))
	})
}

func (s *ServiceSuite) TestImportIDs() {
	s.store.EXPECT().ImportIDs(gomock.Any()).Return(nil, nil)

	ids, err := s.service.ImportIDs(s.ctx)
	s.Require().NoError(err)
	s.NotNil(ids)
	s.Empty(ids)
}

func (s *ServiceSuite) TestPatchCitizen() {
	name := "Ivanova Maria"

	s.Run("empty patch is a validation error", func() {
		_, err := s.service.PatchCitizen(s.ctx, 1, 1, models.CitizenPatch{})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("unknown import", func() {
		s.expectTx(1)
		s.store.EXPECT().CitizenIDs(gomock.Any(), domain.ImportID(1)).Return(nil, nil)

		_, err := s.service.PatchCitizen(s.ctx, 1, 1, models.CitizenPatch{Name: &name})
		s.True(dErrors.HasCode(err, dErrors.CodeImportNotFound))
	})

	s.Run("unknown citizen", func() {
		s.expectTx(1)
		s.store.EXPECT().CitizenIDs(gomock.Any(), domain.ImportID(1)).Return([]domain.CitizenID{1, 2}, nil)

		_, err := s.service.PatchCitizen(s.ctx, 1, 5, models.CitizenPatch{Name: &name})
		s.True(dErrors.HasCode(err, dErrors.CodePatchCitizen))
		s.Equal("no such citizen_id", dErrors.Message(err))
	})

	s.Run("unknown relative", func() {
		s.expectTx(1)
		s.store.EXPECT().CitizenIDs(gomock.Any(), domain.ImportID(1)).Return([]domain.CitizenID{1, 2}, nil)
		relatives := []domain.CitizenID{2, 9}

		_, err := s.service.PatchCitizen(s.ctx, 1, 1, models.CitizenPatch{Relatives: &relatives})
		s.True(dErrors.HasCode(err, dErrors.CodePatchCitizen))
		s.Equal("some relative not found", dErrors.Message(err))
	})

	s.Run("citizen vanished between reads", func() {
		s.expectTx(1)
		s.store.EXPECT().CitizenIDs(gomock.Any(), domain.ImportID(1)).Return([]domain.CitizenID{1}, nil)
		s.store.EXPECT().FindCitizen(gomock.Any(), domain.ImportID(1), domain.CitizenID(1)).Return(nil, store.ErrNotFound)

		_, err := s.service.PatchCitizen(s.ctx, 1, 1, models.CitizenPatch{Name: &name})
		s.True(dErrors.HasCode(err, dErrors.CodePatchCitizen))
	})

	s.Run("read failure is a select error", func() {
		s.expectTx(1)
		s.store.EXPECT().CitizenIDs(gomock.Any(), domain.ImportID(1)).Return(nil, errors.New("boom"))

		_, err := s.service.PatchCitizen(s.ctx, 1, 1, models.CitizenPatch{Name: &name})
		s.True(dErrors.HasCode(err, dErrors.CodeSelect))
	})

	s.Run("relation write failure is a patch error", func() {
		current := citizen(1)
		relatives := []domain.CitizenID{2}
		s.expectTx(1)
		s.store.EXPECT().CitizenIDs(gomock.Any(), domain.ImportID(1)).Return([]domain.CitizenID{1, 2}, nil)
		s.store.EXPECT().FindCitizen(gomock.Any(), domain.ImportID(1), domain.CitizenID(1)).Return(&current, nil)
		s.store.EXPECT().UpdateCitizen(gomock.Any(), gomock.Any()).Return(nil)
		s.store.EXPECT().SetRelation(gomock.Any(), domain.ImportID(1), domain.CitizenID(1), domain.CitizenID(2), true).
			Return(errors.New("deadlock detected"))

		_, err := s.service.PatchCitizen(s.ctx, 1, 1, models.CitizenPatch{Relatives: &relatives})
		s.True(dErrors.HasCode(err, dErrors.CodePatchCitizen))
	})

	s.Run("success writes both directions, invalidates reports and audits the delta", func() {
		current := citizen(1, 3)
		patched := citizen(1, 2)
		patched.Name = name
		relatives := []domain.CitizenID{2}

		s.expectTx(1)
		s.store.EXPECT().CitizenIDs(gomock.Any(), domain.ImportID(1)).Return([]domain.CitizenID{1, 2, 3}, nil)
		gomock.InOrder(
			s.store.EXPECT().FindCitizen(gomock.Any(), domain.ImportID(1), domain.CitizenID(1)).Return(&current, nil),
			s.store.EXPECT().UpdateCitizen(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, c *models.Citizen) error {
				s.Equal(name, c.Name)
				return nil
			}),
			s.store.EXPECT().SetRelation(gomock.Any(), domain.ImportID(1), domain.CitizenID(1), domain.CitizenID(3), false).Return(nil),
			s.store.EXPECT().SetRelation(gomock.Any(), domain.ImportID(1), domain.CitizenID(3), domain.CitizenID(1), false).Return(nil),
			s.store.EXPECT().SetRelation(gomock.Any(), domain.ImportID(1), domain.CitizenID(1), domain.CitizenID(2), true).Return(nil),
			s.store.EXPECT().SetRelation(gomock.Any(), domain.ImportID(1), domain.CitizenID(2), domain.CitizenID(1), true).Return(nil),
			s.store.EXPECT().FindCitizen(gomock.Any(), domain.ImportID(1), domain.CitizenID(1)).Return(&patched, nil),
		)
		s.cache.EXPECT().Invalidate(gomock.Any(), domain.ImportID(1)).Return(nil)
		s.publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).Do(func(_ context.Context, event audit.Event) {
			s.Equal(audit.ActionCitizenPatched, event.Action)
			s.Require().NotNil(event.CitizenID)
			s.Equal(domain.CitizenID(1), *event.CitizenID)
			s.Equal([]domain.CitizenID{2}, event.Added)
			s.Equal([]domain.CitizenID{3}, event.Removed)
		})

		got, err := s.service.PatchCitizen(s.ctx, 1, 1, models.CitizenPatch{Name: &name, Relatives: &relatives})
		s.Require().NoError(err)
		s.Equal(&patched, got)
	})

	s.Run("cache invalidation failure does not fail the patch", func() {
		current := citizen(1)
		s.expectTx(1)
		s.store.EXPECT().CitizenIDs(gomock.Any(), domain.ImportID(1)).Return([]domain.CitizenID{1}, nil)
		s.store.EXPECT().FindCitizen(gomock.Any(), domain.ImportID(1), domain.CitizenID(1)).Return(&current, nil).Times(2)
		s.store.EXPECT().UpdateCitizen(gomock.Any(), gomock.Any()).Return(nil)
		s.cache.EXPECT().Invalidate(gomock.Any(), domain.ImportID(1)).Return(errors.New("redis down"))
		s.publisher.EXPECT().Emit(gomock.Any(), gomock.Any())

		_, err := s.service.PatchCitizen(s.ctx, 1, 1, models.CitizenPatch{Name: &name})
		s.Require().NoError(err)
	})
}

func (s *ServiceSuite) TestReports() {
	s.Run("birthdays of an unknown import", func() {
		s.store.EXPECT().CitizenIDs(gomock.Any(), domain.ImportID(4)).Return([]domain.CitizenID{}, nil)

		_, err := s.service.Birthdays(s.ctx, 4)
		s.True(dErrors.HasCode(err, dErrors.CodeImportNotFound))
	})

	s.Run("birthdays are served through the cache", func() {
		report := models.NewBirthdayReport()
		s.store.EXPECT().CitizenIDs(gomock.Any(), domain.ImportID(4)).Return([]domain.CitizenID{1}, nil)
		s.cache.EXPECT().Birthdays(gomock.Any(), domain.ImportID(4), gomock.Any()).Return(report, nil)

		got, err := s.service.Birthdays(s.ctx, 4)
		s.Require().NoError(err)
		s.Equal(report, got)
	})

	s.Run("cache miss loads from the store", func() {
		report := models.NewBirthdayReport()
		s.store.EXPECT().CitizenIDs(gomock.Any(), domain.ImportID(4)).Return([]domain.CitizenID{1}, nil)
		s.cache.EXPECT().Birthdays(gomock.Any(), domain.ImportID(4), gomock.Any()).
			DoAndReturn(func(ctx context.Context, _ domain.ImportID, load func(context.Context) (models.BirthdayReport, error)) (models.BirthdayReport, error) {
				return load(ctx)
			})
		s.store.EXPECT().BirthdayPresents(gomock.Any(), domain.ImportID(4)).Return(report, nil)

		got, err := s.service.Birthdays(s.ctx, 4)
		s.Require().NoError(err)
		s.Equal(report, got)
	})

	s.Run("percentiles use the request date", func() {
		stats := []models.TownAgeStat{{Town: "Moscow", P50: 32, P75: 32, P99: 32}}
		s.store.EXPECT().CitizenIDs(gomock.Any(), domain.ImportID(4)).Return([]domain.CitizenID{1}, nil)
		s.cache.EXPECT().TownAges(gomock.Any(), domain.ImportID(4), models.NewDate(2019, time.August, 20), gomock.Any()).Return(stats, nil)

		got, err := s.service.AgePercentiles(s.ctx, 4)
		s.Require().NoError(err)
		s.Equal(stats, got)
	})

	s.Run("percentile failure is a select error", func() {
		s.store.EXPECT().CitizenIDs(gomock.Any(), domain.ImportID(4)).Return([]domain.CitizenID{1}, nil)
		s.cache.EXPECT().TownAges(gomock.Any(), domain.ImportID(4), gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))

		_, err := s.service.AgePercentiles(s.ctx, 4)
		s.True(dErrors.HasCode(err, dErrors.CodeSelect))
	})
}
