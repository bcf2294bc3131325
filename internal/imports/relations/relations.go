// Package relations checks and transforms the undirected relation graph of an import.
//
// A batch is valid when every declared relative is a member of the batch and every
// declaration is mirrored: if A lists B then B lists A. A citizen may list itself.
// Storage keeps each logical relation as two directed edges, so the helpers here
// expand declarations into edges and compute edge deltas for patches.
package relations

import (
	"errors"
	"slices"

	"census/pkg/domain"
)

var (
	// ErrRelativeNotFound means a declared relative is not part of the batch.
	ErrRelativeNotFound = errors.New("relative not found in citizen list")
	// ErrNotTwoSided means some declaration is not mirrored by the relative.
	ErrNotTwoSided = errors.New("some relations are not two-sided")
)

// Node is the relation view of one citizen.
type Node struct {
	ID        domain.CitizenID
	Relatives []domain.CitizenID
}

// Edge is a directed relation row: From lists To as a relative.
type Edge struct {
	From domain.CitizenID
	To   domain.CitizenID
}

// Validate runs the referential check over the whole batch, then the symmetry check.
// Citizen ids are assumed unique within the batch.
func Validate(batch []Node) error {
	members := make(map[domain.CitizenID]struct{}, len(batch))
	for _, n := range batch {
		members[n.ID] = struct{}{}
	}
	for _, n := range batch {
		for _, r := range n.Relatives {
			if _, ok := members[r]; !ok {
				return ErrRelativeNotFound
			}
		}
	}

	declared := make(map[Edge]struct{})
	for _, n := range batch {
		for _, r := range n.Relatives {
			declared[Edge{From: n.ID, To: r}] = struct{}{}
		}
	}
	for e := range declared {
		if _, ok := declared[Edge{From: e.To, To: e.From}]; !ok {
			return ErrNotTwoSided
		}
	}
	return nil
}

// Edges expands every declaration into a directed edge. For a validated batch the
// result already holds both directions of each relation, and a self-relation
// appears once.
func Edges(batch []Node) []Edge {
	seen := make(map[Edge]struct{})
	var out []Edge
	for _, n := range batch {
		for _, r := range n.Relatives {
			e := Edge{From: n.ID, To: r}
			if _, ok := seen[e]; ok {
				continue
			}
			seen[e] = struct{}{}
			out = append(out, e)
		}
	}
	slices.SortFunc(out, compareEdges)
	return out
}

// Pair returns the directed edges storing the relation between a and b.
func Pair(a, b domain.CitizenID) []Edge {
	if a == b {
		return []Edge{{From: a, To: a}}
	}
	return []Edge{{From: a, To: b}, {From: b, To: a}}
}

// Delta is the change from one relative list to another.
type Delta struct {
	Removed []domain.CitizenID
	Added   []domain.CitizenID
}

// IsEmpty reports whether the lists were equal as sets.
func (d Delta) IsEmpty() bool {
	return len(d.Removed) == 0 && len(d.Added) == 0
}

// Diff computes current minus next and next minus current. Duplicates collapse
// and both results are sorted ascending.
func Diff(current, next []domain.CitizenID) Delta {
	cur := toSet(current)
	nxt := toSet(next)
	return Delta{
		Removed: minus(cur, nxt),
		Added:   minus(nxt, cur),
	}
}

func toSet(ids []domain.CitizenID) map[domain.CitizenID]struct{} {
	set := make(map[domain.CitizenID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func minus(a, b map[domain.CitizenID]struct{}) []domain.CitizenID {
	out := []domain.CitizenID{}
	for id := range a {
		if _, ok := b[id]; !ok {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}

func compareEdges(a, b Edge) int {
	if a.From != b.From {
		if a.From < b.From {
			return -1
		}
		return 1
	}
	switch {
	case a.To < b.To:
		return -1
	case a.To > b.To:
		return 1
	default:
		return 0
	}
}
