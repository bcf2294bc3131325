package store

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"census/internal/imports/models"
	"census/internal/imports/relations"
	"census/internal/imports/stats"
	"census/pkg/domain"
)

// InMemoryStore keeps imports in maps guarded by a single RWMutex. Relation edges
// are stored per direction with an active flag, mirroring the relational schema.
type InMemoryStore struct {
	mu        sync.RWMutex
	lastID    domain.ImportID
	citizens  map[domain.ImportID]map[domain.CitizenID]*models.Citizen
	relations map[domain.ImportID]map[relations.Edge]bool
}

// NewInMemory returns an empty store whose first allocated import id is 1.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		citizens:  make(map[domain.ImportID]map[domain.CitizenID]*models.Citizen),
		relations: make(map[domain.ImportID]map[relations.Edge]bool),
	}
}

func (s *InMemoryStore) NextImportID(_ context.Context) (domain.ImportID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++
	return s.lastID, nil
}

// InsertCitizens writes the citizens and both directions of every declared
// relation as active edges. Nothing is written when any check fails.
func (s *InMemoryStore) InsertCitizens(_ context.Context, importID domain.ImportID, citizens []models.Citizen) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.citizens[importID]) > 0 {
		return fmt.Errorf("insert citizens for import %d: %w", importID, ErrConflict)
	}

	rows := make(map[domain.CitizenID]*models.Citizen, len(citizens))
	nodes := make([]relations.Node, 0, len(citizens))
	for i := range citizens {
		c := citizens[i].Clone()
		if _, dup := rows[c.CitizenID]; dup {
			return fmt.Errorf("insert citizen %d: %w", c.CitizenID, ErrConflict)
		}
		nodes = append(nodes, relations.Node{ID: c.CitizenID, Relatives: c.Relatives})
		c.ImportID = importID
		c.Relatives = nil
		rows[c.CitizenID] = c
	}

	edges := make(map[relations.Edge]bool)
	for _, e := range relations.Edges(nodes) {
		if _, ok := rows[e.To]; !ok {
			return fmt.Errorf("insert relation %d->%d: %w", e.From, e.To, ErrNotFound)
		}
		edges[e] = true
	}

	s.citizens[importID] = rows
	s.relations[importID] = edges
	return nil
}

func (s *InMemoryStore) CitizenIDs(_ context.Context, importID domain.ImportID) ([]domain.CitizenID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Sorted(maps.Keys(s.citizens[importID])), nil
}

func (s *InMemoryStore) FindCitizen(_ context.Context, importID domain.ImportID, citizenID domain.CitizenID) (*models.Citizen, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.citizens[importID][citizenID]
	if !ok {
		return nil, ErrNotFound
	}
	return s.withRelatives(importID, c), nil
}

func (s *InMemoryStore) ListCitizens(_ context.Context, importID domain.ImportID) ([]*models.Citizen, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.list(importID), nil
}

// UpdateCitizen overwrites the attribute fields of an existing citizen. Relatives are ignored.
func (s *InMemoryStore) UpdateCitizen(_ context.Context, citizen *models.Citizen) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.citizens[citizen.ImportID][citizen.CitizenID]; !ok {
		return fmt.Errorf("update citizen %d: %w", citizen.CitizenID, ErrNotFound)
	}
	row := citizen.Clone()
	row.Relatives = nil
	s.citizens[citizen.ImportID][citizen.CitizenID] = row
	return nil
}

// SetRelation upserts one directed edge.
func (s *InMemoryStore) SetRelation(_ context.Context, importID domain.ImportID, citizenID, relative domain.CitizenID, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.citizens[importID]
	if _, ok := rows[citizenID]; !ok {
		return fmt.Errorf("set relation %d->%d: %w", citizenID, relative, ErrNotFound)
	}
	if _, ok := rows[relative]; !ok {
		return fmt.Errorf("set relation %d->%d: %w", citizenID, relative, ErrNotFound)
	}
	s.relations[importID][relations.Edge{From: citizenID, To: relative}] = active
	return nil
}

func (s *InMemoryStore) ImportIDs(_ context.Context) ([]domain.ImportID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]domain.ImportID, 0, len(s.citizens))
	for id, rows := range s.citizens {
		if len(rows) > 0 {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

func (s *InMemoryStore) BirthdayPresents(_ context.Context, importID domain.ImportID) (models.BirthdayReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return stats.Birthdays(s.list(importID)), nil
}

func (s *InMemoryStore) TownAgePercentiles(_ context.Context, importID domain.ImportID, today models.Date) ([]models.TownAgeStat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return stats.TownAges(s.list(importID), today), nil
}

// list must be called with the lock held.
func (s *InMemoryStore) list(importID domain.ImportID) []*models.Citizen {
	rows := s.citizens[importID]
	adjacency := make(map[domain.CitizenID][]domain.CitizenID, len(rows))
	for e, active := range s.relations[importID] {
		if active {
			adjacency[e.From] = append(adjacency[e.From], e.To)
		}
	}

	out := make([]*models.Citizen, 0, len(rows))
	for _, id := range slices.Sorted(maps.Keys(rows)) {
		c := rows[id].Clone()
		c.Relatives = append(c.Relatives, adjacency[id]...)
		slices.Sort(c.Relatives)
		out = append(out, c)
	}
	return out
}

// withRelatives must be called with the lock held.
func (s *InMemoryStore) withRelatives(importID domain.ImportID, row *models.Citizen) *models.Citizen {
	c := row.Clone()
	for e, active := range s.relations[importID] {
		if active && e.From == c.CitizenID {
			c.Relatives = append(c.Relatives, e.To)
		}
	}
	slices.Sort(c.Relatives)
	return c
}
