package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"census/internal/imports/models"
	"census/pkg/domain"
	dErrors "census/pkg/domain-errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// CitizenRequest is one citizen of a create request. Pointer fields let a
// missing field be told apart from a zero value.
type CitizenRequest struct {
	CitizenID *int64   `json:"citizen_id" validate:"required,min=0"`
	Town      *string  `json:"town" validate:"required,notblank"`
	Street    *string  `json:"street" validate:"required,notblank"`
	Building  *string  `json:"building" validate:"required,notblank"`
	Apartment *int64   `json:"apartment" validate:"required,min=1"`
	Name      *string  `json:"name" validate:"required,notblank"`
	BirthDate *string  `json:"birth_date" validate:"required"`
	Gender    *string  `json:"gender" validate:"required,oneof=male female"`
	Relatives *[]int64 `json:"relatives" validate:"required,unique,dive,min=0"`
}

// CreateImportRequest is the body of POST /imports.
type CreateImportRequest struct {
	Citizens []CitizenRequest `json:"citizens" validate:"required,min=1,dive"`

	parsed []models.Citizen
}

// Validate checks the batch structurally and parses it. today bounds birth
// dates. Relation consistency is left to the service.
func (r *CreateImportRequest) Validate(today models.Date) error {
	if r == nil {
		return dErrors.New(dErrors.CodeValidation, "Empty payload")
	}
	if err := validate.Struct(r); err != nil {
		return validationError(err)
	}

	seen := make(map[int64]struct{}, len(r.Citizens))
	parsed := make([]models.Citizen, 0, len(r.Citizens))
	for i, c := range r.Citizens {
		if _, dup := seen[*c.CitizenID]; dup {
			return dErrors.Newf(dErrors.CodeValidation, "citizens[%d].citizen_id: duplicate citizen_id %d", i, *c.CitizenID)
		}
		seen[*c.CitizenID] = struct{}{}

		birthDate, err := parseBirthDate(*c.BirthDate, today)
		if err != nil {
			return dErrors.Newf(dErrors.CodeValidation, "citizens[%d].birth_date: %s", i, dErrors.Message(err))
		}
		parsed = append(parsed, models.Citizen{
			CitizenID: domain.CitizenID(*c.CitizenID),
			Town:      *c.Town,
			Street:    *c.Street,
			Building:  *c.Building,
			Apartment: *c.Apartment,
			Name:      *c.Name,
			BirthDate: birthDate,
			Gender:    models.Gender(*c.Gender),
			Relatives: toCitizenIDs(*c.Relatives),
		})
	}
	r.parsed = parsed
	return nil
}

// ParsedCitizens returns the batch populated by Validate.
func (r *CreateImportRequest) ParsedCitizens() []models.Citizen {
	return r.parsed
}

// PatchCitizenRequest is the body of PATCH /imports/{import_id}/citizens/{citizen_id}.
// citizen_id is deliberately absent and rejected as an unknown field.
type PatchCitizenRequest struct {
	Town      *string  `json:"town" validate:"omitempty,notblank"`
	Street    *string  `json:"street" validate:"omitempty,notblank"`
	Building  *string  `json:"building" validate:"omitempty,notblank"`
	Apartment *int64   `json:"apartment" validate:"omitempty,min=1"`
	Name      *string  `json:"name" validate:"omitempty,notblank"`
	BirthDate *string  `json:"birth_date"`
	Gender    *string  `json:"gender" validate:"omitempty,oneof=male female"`
	Relatives *[]int64 `json:"relatives" validate:"omitnil,unique,dive,min=0"`

	parsed models.CitizenPatch
}

var patchFields = []string{"apartment", "birth_date", "building", "gender", "name", "relatives", "street", "town"}

// DecodePatchCitizenRequest decodes a patch body. Every supplied field must be
// a known, non-null field and at least one must be supplied.
func DecodePatchCitizenRequest(body []byte) (*PatchCitizenRequest, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		if len(bytes.TrimSpace(body)) == 0 {
			return nil, dErrors.New(dErrors.CodeValidation, "Empty payload")
		}
		return nil, dErrors.New(dErrors.CodeValidation, "request body must be a JSON object")
	}
	if len(fields) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "Empty payload")
	}
	for _, name := range slices.Sorted(maps.Keys(fields)) {
		if !slices.Contains(patchFields, name) {
			return nil, dErrors.Newf(dErrors.CodeValidation, "Unknown field name %s.", name)
		}
		if bytes.Equal(bytes.TrimSpace(fields[name]), []byte("null")) {
			return nil, dErrors.Newf(dErrors.CodeValidation, "%s: Field may not be null.", name)
		}
	}

	var req PatchCitizenRequest
	if err := json.Unmarshal(body, &req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, dErrors.Newf(dErrors.CodeValidation, "%s: expected %s", typeErr.Field, typeErr.Type)
		}
		return nil, dErrors.New(dErrors.CodeValidation, "malformed JSON")
	}
	return &req, nil
}

// Validate checks supplied fields and parses them into a patch.
func (r *PatchCitizenRequest) Validate(today models.Date) error {
	if err := validate.Struct(r); err != nil {
		return validationError(err)
	}

	patch := models.CitizenPatch{
		Town:      r.Town,
		Street:    r.Street,
		Building:  r.Building,
		Apartment: r.Apartment,
		Name:      r.Name,
	}
	if r.BirthDate != nil {
		birthDate, err := parseBirthDate(*r.BirthDate, today)
		if err != nil {
			return dErrors.Newf(dErrors.CodeValidation, "birth_date: %s", dErrors.Message(err))
		}
		patch.BirthDate = &birthDate
	}
	if r.Gender != nil {
		gender := models.Gender(*r.Gender)
		patch.Gender = &gender
	}
	if r.Relatives != nil {
		relatives := toCitizenIDs(*r.Relatives)
		patch.Relatives = &relatives
	}
	if patch.IsEmpty() {
		return dErrors.New(dErrors.CodeValidation, "Empty payload")
	}
	r.parsed = patch
	return nil
}

// ParsedPatch returns the patch populated by Validate.
func (r *PatchCitizenRequest) ParsedPatch() models.CitizenPatch {
	return r.parsed
}

func parseBirthDate(s string, today models.Date) (models.Date, error) {
	d, err := models.ParseDate(s)
	if err != nil {
		return models.Date{}, dErrors.Newf(dErrors.CodeValidation, "Bad date format %s", s)
	}
	if d.After(today) {
		return models.Date{}, dErrors.New(dErrors.CodeValidation, "Future date")
	}
	return d, nil
}

func toCitizenIDs(ids []int64) []domain.CitizenID {
	out := make([]domain.CitizenID, len(ids))
	for i, id := range ids {
		out[i] = domain.CitizenID(id)
	}
	return out
}

// validationError reports the first failed rule as a ValidationError.
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return dErrors.Wrap(err, dErrors.CodeValidation, "invalid request")
	}
	fe := fieldErrs[0]
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	return dErrors.Newf(dErrors.CodeValidation, "%s: %s", field, ruleMessage(fe))
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Missing data for required field."
	case "notblank":
		return "Field cannot be blank"
	case "min":
		if fe.Kind() == reflect.Slice {
			return "Field cannot be blank"
		}
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("Unexpected value %v", fe.Value())
	case "unique":
		return "Repeat relative"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
