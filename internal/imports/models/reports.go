package models

import (
	"strconv"

	"census/pkg/domain"
)

// BirthdayPresents counts the presents one citizen buys in a month.
type BirthdayPresents struct {
	CitizenID domain.CitizenID `json:"citizen_id" db:"citizen_id"`
	Presents  int              `json:"presents" db:"presents"`
}

// BirthdayReport maps month numbers "1".."12" to the buyers of that month.
type BirthdayReport map[string][]BirthdayPresents

// NewBirthdayReport returns a report with every month present and empty.
func NewBirthdayReport() BirthdayReport {
	report := make(BirthdayReport, 12)
	for month := 1; month <= 12; month++ {
		report[strconv.Itoa(month)] = []BirthdayPresents{}
	}
	return report
}

// Add appends an entry under month (1-12).
func (r BirthdayReport) Add(month int, entry BirthdayPresents) {
	key := strconv.Itoa(month)
	r[key] = append(r[key], entry)
}

// TownAgeStat holds age percentiles for one town.
type TownAgeStat struct {
	Town string  `json:"town" db:"town"`
	P50  float64 `json:"p50" db:"p50"`
	P75  float64 `json:"p75" db:"p75"`
	P99  float64 `json:"p99" db:"p99"`
}
