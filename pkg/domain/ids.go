package domain

import (
	"strconv"
	"strings"

	dErrors "census/pkg/domain-errors"
)

// ImportID identifies one batch of citizens. Values come from the store sequence.
type ImportID int64

// CitizenID identifies a citizen within one import. Caller supplied, never negative.
type CitizenID int64

func (i ImportID) String() string {
	return strconv.FormatInt(int64(i), 10)
}

func (c CitizenID) String() string {
	return strconv.FormatInt(int64(c), 10)
}

// ParseImportID parses an import id taken from a path segment.
func ParseImportID(s string) (ImportID, error) {
	n, err := parseNonNegative(s, "import_id")
	if err != nil {
		return 0, err
	}
	return ImportID(n), nil
}

// ParseCitizenID parses a citizen id taken from a path segment.
func ParseCitizenID(s string) (CitizenID, error) {
	n, err := parseNonNegative(s, "citizen_id")
	if err != nil {
		return 0, err
	}
	return CitizenID(n), nil
}

func parseNonNegative(s, field string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, dErrors.Newf(dErrors.CodeInvalidInput, "%s is required", field)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, dErrors.Newf(dErrors.CodeInvalidInput, "%s must be an integer", field)
	}
	if n < 0 {
		return 0, dErrors.Newf(dErrors.CodeInvalidInput, "%s must not be negative", field)
	}
	return n, nil
}
