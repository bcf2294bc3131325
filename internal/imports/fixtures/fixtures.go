// Package fixtures generates reproducible citizen batches for tests, load
// runs and the gen command.
package fixtures

import (
	"math/rand/v2"
	"slices"
	"time"

	"census/internal/imports/models"
	"census/internal/imports/relations"
	"census/pkg/domain"
)

const symbols = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Batch is the body of a create import request.
type Batch struct {
	Citizens []models.Citizen `json:"citizens"`
}

// Generator produces batches from a fixed seed. The same seed and day always
// give the same batch.
type Generator struct {
	rng   *rand.Rand
	today models.Date
}

func New(seed uint64, today models.Date) *Generator {
	return &Generator{
		rng:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		today: today,
	}
}

// Citizens returns n citizens with distinct ids drawn from [0, 3n) and about
// n/3 symmetric relations, self-relations included.
func (g *Generator) Citizens(n int) []models.Citizen {
	if n <= 0 {
		return []models.Citizen{}
	}

	ids := g.rng.Perm(3 * n)[:n]
	citizens := make([]models.Citizen, n)
	for i, id := range ids {
		citizens[i] = models.Citizen{
			CitizenID: domain.CitizenID(id),
			Town:      g.word(),
			Street:    g.word(),
			Building:  g.word(),
			Apartment: int64(g.rng.IntN(3*n) + 1),
			Name:      g.word(),
			BirthDate: g.birthDate(),
			Gender:    g.gender(),
			Relatives: []domain.CitizenID{},
		}
	}
	g.relate(citizens, n/3)
	return citizens
}

// Batch wraps Citizens(n) in a request body.
func (g *Generator) Batch(n int) Batch {
	return Batch{Citizens: g.Citizens(n)}
}

func (g *Generator) relate(citizens []models.Citizen, pairs int) {
	index := make(map[domain.CitizenID]int, len(citizens))
	for i, c := range citizens {
		index[c.CitizenID] = i
	}
	seen := make(map[relations.Edge]struct{}, pairs)
	for range pairs {
		a := citizens[g.rng.IntN(len(citizens))].CitizenID
		b := citizens[g.rng.IntN(len(citizens))].CitizenID
		if b < a {
			a, b = b, a
		}
		pair := relations.Edge{From: a, To: b}
		if _, dup := seen[pair]; dup {
			continue
		}
		seen[pair] = struct{}{}
		for _, e := range relations.Pair(a, b) {
			i := index[e.From]
			citizens[i].Relatives = append(citizens[i].Relatives, e.To)
		}
	}
	for i := range citizens {
		slices.Sort(citizens[i].Relatives)
	}
}

func (g *Generator) word() string {
	b := make([]byte, g.rng.IntN(49)+1)
	for i := range b {
		b[i] = symbols[g.rng.IntN(len(symbols))]
	}
	return string(b)
}

// birthDate is uniform between the Unix epoch and today.
func (g *Generator) birthDate() models.Date {
	span := g.today.Unix()
	if span <= 0 {
		return g.today
	}
	return models.DateOf(time.Unix(g.rng.Int64N(span+1), 0))
}

func (g *Generator) gender() models.Gender {
	if g.rng.IntN(2) == 0 {
		return models.GenderMale
	}
	return models.GenderFemale
}

// DropReverse removes one direction of the first relation between distinct
// citizens, making the batch fail the two-sided check. It reports false when
// the batch has no such relation.
func DropReverse(citizens []models.Citizen) bool {
	index := make(map[domain.CitizenID]int, len(citizens))
	for i, c := range citizens {
		index[c.CitizenID] = i
	}
	for _, c := range citizens {
		for _, r := range c.Relatives {
			if r == c.CitizenID {
				continue
			}
			other := &citizens[index[r]]
			other.Relatives = slices.DeleteFunc(other.Relatives, func(id domain.CitizenID) bool {
				return id == c.CitizenID
			})
			return true
		}
	}
	return false
}
