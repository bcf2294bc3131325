package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"census/internal/audit"
	"census/internal/imports/models"
	"census/internal/imports/relations"
	"census/internal/imports/store"
	"census/pkg/domain"
	dErrors "census/pkg/domain-errors"
)

// PatchCitizen applies attribute changes to one citizen and, when the patch
// carries relatives, reconciles relation edges so both directions of every
// relation agree. The whole sequence runs in one transaction on the import.
func (s *Service) PatchCitizen(ctx context.Context, importID domain.ImportID, citizenID domain.CitizenID, patch models.CitizenPatch) (*models.Citizen, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "imports.PatchCitizen", trace.WithAttributes(
		attribute.Int64("import_id", int64(importID)),
		attribute.Int64("citizen_id", int64(citizenID)),
		attribute.Bool("relatives", patch.HasRelatives()),
	))
	defer span.End()

	if patch.IsEmpty() {
		return nil, dErrors.New(dErrors.CodeValidation, "Empty payload")
	}

	var (
		updated *models.Citizen
		delta   relations.Delta
	)
	err := s.tx.RunInTx(ctx, importID, func(st Store) error {
		var err error
		updated, delta, err = reconcile(ctx, st, importID, citizenID, patch)
		return err
	})
	if err != nil {
		span.RecordError(err)
		if !dErrors.HasCode(err, dErrors.CodeImportNotFound) && !dErrors.HasCode(err, dErrors.CodePatchCitizen) {
			s.logger.ErrorContext(ctx, "failed to patch citizen",
				"error", err,
				"import_id", importID,
				"citizen_id", citizenID,
			)
		}
		return nil, passOrWrap(err, dErrors.CodePatchCitizen, "failed to patch citizen")
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, importID); err != nil {
			s.logger.WarnContext(ctx, "failed to invalidate report cache",
				"error", err,
				"import_id", importID,
			)
		}
	}
	event := audit.Event{
		Action:    audit.ActionCitizenPatched,
		ImportID:  importID,
		CitizenID: &citizenID,
		Added:     delta.Added,
		Removed:   delta.Removed,
	}
	s.logAudit(ctx, event)
	if s.metrics != nil {
		s.metrics.IncrementPatchApplied(edgeWrites(citizenID, delta.Removed), edgeWrites(citizenID, delta.Added))
		s.metrics.ObservePatchCitizen(start)
	}
	return updated, nil
}

// reconcile performs the patch against st. Reads that fail are SelectErrors;
// writes that fail are PatchCitizenErrors.
func reconcile(ctx context.Context, st Store, importID domain.ImportID, citizenID domain.CitizenID, patch models.CitizenPatch) (*models.Citizen, relations.Delta, error) {
	var delta relations.Delta

	ids, err := st.CitizenIDs(ctx, importID)
	if err != nil {
		return nil, delta, passOrWrap(err, dErrors.CodeSelect, "failed to load citizen ids")
	}
	if len(ids) == 0 {
		return nil, delta, importNotFound(importID)
	}
	members := make(map[domain.CitizenID]struct{}, len(ids))
	for _, id := range ids {
		members[id] = struct{}{}
	}
	if _, found := members[citizenID]; !found {
		return nil, delta, dErrors.New(dErrors.CodePatchCitizen, "no such citizen_id")
	}
	if patch.HasRelatives() {
		for _, r := range *patch.Relatives {
			if _, found := members[r]; !found {
				return nil, delta, dErrors.New(dErrors.CodePatchCitizen, "some relative not found")
			}
		}
	}

	current, err := st.FindCitizen(ctx, importID, citizenID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, delta, dErrors.New(dErrors.CodePatchCitizen, "no such citizen_id")
		}
		return nil, delta, passOrWrap(err, dErrors.CodeSelect, "failed to load citizen")
	}

	if patch.HasRelatives() {
		delta = relations.Diff(current.Relatives, *patch.Relatives)
	}

	next := current.Clone()
	patch.ApplyAttributes(next)
	if err := st.UpdateCitizen(ctx, next); err != nil {
		return nil, delta, dErrors.Wrap(err, dErrors.CodePatchCitizen, "failed to update citizen")
	}

	for _, relative := range delta.Removed {
		if err := setPair(ctx, st, importID, citizenID, relative, false); err != nil {
			return nil, delta, err
		}
	}
	for _, relative := range delta.Added {
		if err := setPair(ctx, st, importID, citizenID, relative, true); err != nil {
			return nil, delta, err
		}
	}

	updated, err := st.FindCitizen(ctx, importID, citizenID)
	if err != nil {
		return nil, delta, passOrWrap(err, dErrors.CodeSelect, "failed to reload citizen")
	}
	return updated, delta, nil
}

// setPair writes both directed edges of one relation.
func setPair(ctx context.Context, st Store, importID domain.ImportID, a, b domain.CitizenID, active bool) error {
	for _, e := range relations.Pair(a, b) {
		if err := st.SetRelation(ctx, importID, e.From, e.To, active); err != nil {
			return dErrors.Wrap(err, dErrors.CodePatchCitizen, "failed to update relation")
		}
	}
	return nil
}

func edgeWrites(citizenID domain.CitizenID, relatives []domain.CitizenID) int {
	n := 0
	for _, r := range relatives {
		n += len(relations.Pair(citizenID, r))
	}
	return n
}
