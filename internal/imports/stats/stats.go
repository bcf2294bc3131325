// Package stats computes the read-side reports of an import from citizen records.
// The Postgres store computes the same reports in SQL; the in-memory store and
// the tests use these functions.
package stats

import (
	"cmp"
	"math"
	"slices"

	"census/internal/imports/models"
	"census/pkg/domain"
)

// Percentiles reported per town.
var Percentiles = []float64{50, 75, 99}

// Birthdays counts, for every month, the presents each citizen buys for relatives
// born in that month. Every month key is present; entries are sorted by citizen id.
func Birthdays(citizens []*models.Citizen) models.BirthdayReport {
	months := make(map[domain.CitizenID]int, len(citizens))
	for _, c := range citizens {
		months[c.CitizenID] = int(c.BirthDate.Month())
	}

	type key struct {
		month   int
		citizen domain.CitizenID
	}
	counts := make(map[key]int)
	for _, c := range citizens {
		for _, r := range c.Relatives {
			month, ok := months[r]
			if !ok {
				continue
			}
			counts[key{month: month, citizen: c.CitizenID}]++
		}
	}

	report := models.NewBirthdayReport()
	for k, n := range counts {
		report.Add(k.month, models.BirthdayPresents{CitizenID: k.citizen, Presents: n})
	}
	for month := range report {
		slices.SortFunc(report[month], func(a, b models.BirthdayPresents) int {
			return cmp.Compare(a.CitizenID, b.CitizenID)
		})
	}
	return report
}

// TownAges computes p50, p75 and p99 of ages in full years on the given day,
// grouped by town and sorted by town name.
func TownAges(citizens []*models.Citizen, today models.Date) []models.TownAgeStat {
	byTown := make(map[string][]float64)
	for _, c := range citizens {
		byTown[c.Town] = append(byTown[c.Town], float64(c.BirthDate.AgeOn(today)))
	}

	towns := make([]string, 0, len(byTown))
	for town := range byTown {
		towns = append(towns, town)
	}
	slices.Sort(towns)

	out := make([]models.TownAgeStat, 0, len(towns))
	for _, town := range towns {
		ages := byTown[town]
		slices.Sort(ages)
		out = append(out, models.TownAgeStat{
			Town: town,
			P50:  Round2(Percentile(ages, Percentiles[0])),
			P75:  Round2(Percentile(ages, Percentiles[1])),
			P99:  Round2(Percentile(ages, Percentiles[2])),
		})
	}
	return out
}

// Percentile returns the p-th percentile (0-100) of sorted values using linear
// interpolation between closest ranks. It matches Postgres percentile_cont.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(rank-float64(lo))
}

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
