package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"census/internal/imports/models"
	"census/pkg/domain"
	dErrors "census/pkg/domain-errors"
	"census/pkg/platform/httputil"
	"census/pkg/requestcontext"
)

// Service defines the import operations exposed over HTTP.
type Service interface {
	CreateImport(ctx context.Context, citizens []models.Citizen) (domain.ImportID, error)
	ImportIDs(ctx context.Context) ([]domain.ImportID, error)
	ListCitizens(ctx context.Context, importID domain.ImportID) ([]*models.Citizen, error)
	PatchCitizen(ctx context.Context, importID domain.ImportID, citizenID domain.CitizenID, patch models.CitizenPatch) (*models.Citizen, error)
	Birthdays(ctx context.Context, importID domain.ImportID) (models.BirthdayReport, error)
	AgePercentiles(ctx context.Context, importID domain.ImportID) ([]models.TownAgeStat, error)
}

// Handler serves the /imports routes.
type Handler struct {
	logger  *slog.Logger
	imports Service
}

// New creates a new imports Handler.
func New(imports Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:  logger,
		imports: imports,
	}
}

type importCreated struct {
	ImportID domain.ImportID `json:"import_id"`
}

// Register registers the import routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/imports", func(r chi.Router) {
		r.Post("/", h.handleCreateImport)
		r.Get("/", h.handleListImports)
		r.Route("/{import_id}", func(r chi.Router) {
			r.Get("/citizens", h.handleListCitizens)
			r.Get("/citizens/birthdays", h.handleBirthdays)
			r.Patch("/citizens/{citizen_id}", h.handlePatchCitizen)
			r.Get("/towns/stat/percentile/age", h.handleAgePercentiles)
		})
	})
}

func (h *Handler) handleCreateImport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateImportRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, "invalid import request", err)
		return
	}
	if err := req.Validate(today(ctx)); err != nil {
		h.fail(w, r, "invalid import request", err)
		return
	}

	importID, err := h.imports.CreateImport(ctx, req.ParsedCitizens())
	if err != nil {
		h.fail(w, r, "failed to create import", err)
		return
	}
	httputil.WriteData(w, http.StatusCreated, importCreated{ImportID: importID})
}

func (h *Handler) handleListImports(w http.ResponseWriter, r *http.Request) {
	ids, err := h.imports.ImportIDs(r.Context())
	if err != nil {
		h.fail(w, r, "failed to list imports", err)
		return
	}
	httputil.WriteData(w, http.StatusOK, ids)
}

func (h *Handler) handleListCitizens(w http.ResponseWriter, r *http.Request) {
	importID, ok := h.importID(w, r)
	if !ok {
		return
	}
	citizens, err := h.imports.ListCitizens(r.Context(), importID)
	if err != nil {
		h.fail(w, r, "failed to list citizens", err)
		return
	}
	httputil.WriteData(w, http.StatusOK, citizens)
}

func (h *Handler) handlePatchCitizen(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	importID, ok := h.importID(w, r)
	if !ok {
		return
	}
	citizenID, err := domain.ParseCitizenID(chi.URLParam(r, "citizen_id"))
	if err != nil {
		h.fail(w, r, "invalid citizen id", err)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.fail(w, r, "invalid patch request", dErrors.Newf(dErrors.CodeValidation, "request body exceeds %d bytes", maxBytesErr.Limit))
			return
		}
		h.fail(w, r, "failed to read patch request", dErrors.Wrap(err, dErrors.CodeValidation, "failed to read request body"))
		return
	}
	req, err := DecodePatchCitizenRequest(body)
	if err != nil {
		h.fail(w, r, "invalid patch request", err)
		return
	}
	if err := req.Validate(today(ctx)); err != nil {
		h.fail(w, r, "invalid patch request", err)
		return
	}

	citizen, err := h.imports.PatchCitizen(ctx, importID, citizenID, req.ParsedPatch())
	if err != nil {
		h.fail(w, r, "failed to patch citizen", err)
		return
	}
	httputil.WriteData(w, http.StatusOK, citizen)
}

func (h *Handler) handleBirthdays(w http.ResponseWriter, r *http.Request) {
	importID, ok := h.importID(w, r)
	if !ok {
		return
	}
	report, err := h.imports.Birthdays(r.Context(), importID)
	if err != nil {
		h.fail(w, r, "failed to compute birthdays", err)
		return
	}
	httputil.WriteData(w, http.StatusOK, report)
}

func (h *Handler) handleAgePercentiles(w http.ResponseWriter, r *http.Request) {
	importID, ok := h.importID(w, r)
	if !ok {
		return
	}
	stats, err := h.imports.AgePercentiles(r.Context(), importID)
	if err != nil {
		h.fail(w, r, "failed to compute age percentiles", err)
		return
	}
	httputil.WriteData(w, http.StatusOK, stats)
}

func (h *Handler) importID(w http.ResponseWriter, r *http.Request) (domain.ImportID, bool) {
	importID, err := domain.ParseImportID(chi.URLParam(r, "import_id"))
	if err != nil {
		h.fail(w, r, "invalid import id", err)
		return 0, false
	}
	return importID, true
}

// fail logs at warn level for client errors and at error level otherwise,
// then writes the error envelope.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	ctx := r.Context()
	attrs := []any{
		"error", err,
		"err_type", string(dErrors.CodeOf(err)),
		"request_id", requestcontext.RequestID(ctx),
	}
	if httputil.ToHTTPStatus(dErrors.CodeOf(err)) == http.StatusBadRequest {
		h.logger.WarnContext(ctx, msg, attrs...)
	} else {
		h.logger.ErrorContext(ctx, msg, attrs...)
	}
	httputil.WriteError(w, err)
}

func today(ctx context.Context) models.Date {
	return models.DateOf(requestcontext.Now(ctx))
}
