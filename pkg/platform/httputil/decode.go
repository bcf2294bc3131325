package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	dErrors "census/pkg/domain-errors"
)

// DecodeJSON reads exactly one JSON value from the request body into dst.
// Unknown object fields and trailing data are rejected. Failures are
// ValidationErrors carrying a client-facing message.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return decodeError(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return dErrors.New(dErrors.CodeValidation, "request body must contain a single JSON value")
	}
	return nil
}

func decodeError(err error) error {
	var (
		syntaxErr   *json.SyntaxError
		typeErr     *json.UnmarshalTypeError
		maxBytesErr *http.MaxBytesError
	)
	switch {
	case errors.Is(err, io.EOF):
		return dErrors.New(dErrors.CodeValidation, "Empty payload")
	case errors.As(err, &maxBytesErr):
		return dErrors.Newf(dErrors.CodeValidation, "request body exceeds %d bytes", maxBytesErr.Limit)
	case errors.As(err, &syntaxErr):
		return dErrors.Newf(dErrors.CodeValidation, "malformed JSON at offset %d", syntaxErr.Offset)
	case errors.Is(err, io.ErrUnexpectedEOF):
		return dErrors.New(dErrors.CodeValidation, "malformed JSON")
	case errors.As(err, &typeErr):
		if typeErr.Field != "" {
			return dErrors.Newf(dErrors.CodeValidation, "%s: expected %s", typeErr.Field, typeErr.Type)
		}
		return dErrors.Newf(dErrors.CodeValidation, "expected %s", typeErr.Type)
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
		return dErrors.Newf(dErrors.CodeValidation, "Unknown field name %s.", field)
	default:
		return dErrors.Wrap(err, dErrors.CodeValidation, fmt.Sprintf("invalid request body: %v", err))
	}
}
