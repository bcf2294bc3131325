package store

import (
	"errors"

	"github.com/lib/pq"

	"census/pkg/platform/sentinel"
)

// Errors returned by both store implementations, optionally wrapped.
var (
	ErrNotFound = sentinel.ErrNotFound
	ErrConflict = sentinel.ErrConflict
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translatePQ maps constraint violations to sentinel facts and leaves other errors as they are.
func translatePQ(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch string(pqErr.Code) {
	case pgUniqueViolation:
		return errors.Join(ErrConflict, err)
	case pgForeignKeyViolation:
		return errors.Join(ErrNotFound, err)
	default:
		return err
	}
}
