// Package httputil writes the JSON envelopes used by every endpoint:
// {"data": ...} on success and {"err_type": ..., "message": ...} on failure.
package httputil

import (
	"encoding/json"
	"net/http"

	dErrors "census/pkg/domain-errors"
)

type dataEnvelope struct {
	Data any `json:"data"`
}

// ErrorResponse is the failure envelope.
type ErrorResponse struct {
	ErrType string `json:"err_type,omitempty"`
	Message string `json:"message"`
}

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteData wraps payload in the success envelope.
func WriteData(w http.ResponseWriter, status int, payload any) {
	WriteJSON(w, status, dataEnvelope{Data: payload})
}

// WriteError maps a domain error to its status and envelope. Internal errors
// keep their message out of the response.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status := ToHTTPStatus(code)
	if status == http.StatusInternalServerError {
		WriteJSON(w, status, ErrorResponse{Message: "internal error"})
		return
	}
	WriteJSON(w, status, ErrorResponse{ErrType: string(code), Message: dErrors.Message(err)})
}

// ToHTTPStatus returns the status for a domain error code. Every core-detected
// failure is a 400.
func ToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeValidation,
		dErrors.CodeInvalidInput,
		dErrors.CodeRelations,
		dErrors.CodeInsert,
		dErrors.CodeImportNotFound,
		dErrors.CodePatchCitizen,
		dErrors.CodeSelect,
		dErrors.CodeTimeout:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
