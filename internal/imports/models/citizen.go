package models

import (
	"slices"

	"census/pkg/domain"
)

// Gender is one of the two values accepted by the registry.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func (g Gender) IsValid() bool {
	return g == GenderMale || g == GenderFemale
}

// Citizen is one person's record within an import. Relatives lists the ids of
// currently active relation edges.
type Citizen struct {
	ImportID  domain.ImportID    `json:"-" db:"import_id"`
	CitizenID domain.CitizenID   `json:"citizen_id" db:"citizen_id"`
	Town      string             `json:"town" db:"town"`
	Street    string             `json:"street" db:"street"`
	Building  string             `json:"building" db:"building"`
	Apartment int64              `json:"apartment" db:"apartment"`
	Name      string             `json:"name" db:"name"`
	BirthDate Date               `json:"birth_date" db:"birth_date"`
	Gender    Gender             `json:"gender" db:"gender"`
	Relatives []domain.CitizenID `json:"relatives" db:"-"`
}

// Clone returns a deep copy so stores never hand out shared slices.
func (c *Citizen) Clone() *Citizen {
	if c == nil {
		return nil
	}
	out := *c
	out.Relatives = slices.Clone(c.Relatives)
	if out.Relatives == nil {
		out.Relatives = []domain.CitizenID{}
	}
	return &out
}

// CitizenPatch carries the fields supplied by a patch request. A nil field was
// not supplied; Relatives set to a non-nil pointer to an empty slice clears all relations.
type CitizenPatch struct {
	Town      *string
	Street    *string
	Building  *string
	Apartment *int64
	Name      *string
	BirthDate *Date
	Gender    *Gender
	Relatives *[]domain.CitizenID
}

// HasRelatives reports whether the patch replaces the relative list.
func (p CitizenPatch) HasRelatives() bool {
	return p.Relatives != nil
}

// IsEmpty reports whether no field was supplied.
func (p CitizenPatch) IsEmpty() bool {
	return p.Town == nil && p.Street == nil && p.Building == nil && p.Apartment == nil &&
		p.Name == nil && p.BirthDate == nil && p.Gender == nil && p.Relatives == nil
}

// ApplyAttributes merges supplied attribute fields onto c. Relatives are left
// untouched; relation edges are reconciled separately.
func (p CitizenPatch) ApplyAttributes(c *Citizen) {
	if p.Town != nil {
		c.Town = *p.Town
	}
	if p.Street != nil {
		c.Street = *p.Street
	}
	if p.Building != nil {
		c.Building = *p.Building
	}
	if p.Apartment != nil {
		c.Apartment = *p.Apartment
	}
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.BirthDate != nil {
		c.BirthDate = *p.BirthDate
	}
	if p.Gender != nil {
		c.Gender = *p.Gender
	}
}
