package relations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"census/pkg/domain"
)

func ids(v ...domain.CitizenID) []domain.CitizenID {
	if v == nil {
		return []domain.CitizenID{}
	}
	return v
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		batch   []Node
		wantErr error
	}{
		{
			name: "mirrored pair",
			batch: []Node{
				{ID: 1, Relatives: ids(2)},
				{ID: 2, Relatives: ids(1)},
			},
		},
		{
			name:  "empty batch",
			batch: []Node{},
		},
		{
			name: "no relations",
			batch: []Node{
				{ID: 1, Relatives: ids()},
				{ID: 2, Relatives: ids()},
			},
		},
		{
			name: "self relation accepted",
			batch: []Node{
				{ID: 1, Relatives: ids(1)},
			},
		},
		{
			name: "triangle",
			batch: []Node{
				{ID: 1, Relatives: ids(2, 3)},
				{ID: 2, Relatives: ids(1, 3)},
				{ID: 3, Relatives: ids(1, 2)},
			},
		},
		{
			name: "dangling relative",
			batch: []Node{
				{ID: 1, Relatives: ids(2)},
			},
			wantErr: ErrRelativeNotFound,
		},
		{
			name: "one-sided",
			batch: []Node{
				{ID: 1, Relatives: ids(2)},
				{ID: 2, Relatives: ids()},
			},
			wantErr: ErrNotTwoSided,
		},
		{
			name: "referential check runs before symmetry",
			batch: []Node{
				{ID: 1, Relatives: ids(2)},
				{ID: 2, Relatives: ids()},
				{ID: 3, Relatives: ids(4)},
			},
			wantErr: ErrRelativeNotFound,
		},
		{
			name: "zero id is a valid member",
			batch: []Node{
				{ID: 0, Relatives: ids(5)},
				{ID: 5, Relatives: ids(0)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.batch)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateMessages(t *testing.T) {
	assert.Equal(t, "relative not found in citizen list", ErrRelativeNotFound.Error())
	assert.Equal(t, "some relations are not two-sided", ErrNotTwoSided.Error())
}

func TestEdges(t *testing.T) {
	t.Run("both directions of each relation", func(t *testing.T) {
		edges := Edges([]Node{
			{ID: 2, Relatives: ids(1)},
			{ID: 1, Relatives: ids(2)},
			{ID: 3, Relatives: ids()},
		})
		assert.Equal(t, []Edge{{From: 1, To: 2}, {From: 2, To: 1}}, edges)
	})

	t.Run("self relation stored once", func(t *testing.T) {
		edges := Edges([]Node{{ID: 4, Relatives: ids(4)}})
		assert.Equal(t, []Edge{{From: 4, To: 4}}, edges)
	})

	t.Run("no relations", func(t *testing.T) {
		assert.Empty(t, Edges([]Node{{ID: 1}}))
	})
}

func TestPair(t *testing.T) {
	assert.Equal(t, []Edge{{From: 1, To: 2}, {From: 2, To: 1}}, Pair(1, 2))
	assert.Equal(t, []Edge{{From: 3, To: 3}}, Pair(3, 3))
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name    string
		current []domain.CitizenID
		next    []domain.CitizenID
		removed []domain.CitizenID
		added   []domain.CitizenID
	}{
		{name: "unchanged", current: ids(1, 2), next: ids(2, 1), removed: ids(), added: ids()},
		{name: "leave", current: ids(1, 2), next: ids(1), removed: ids(2), added: ids()},
		{name: "join", current: ids(1), next: ids(1, 3), removed: ids(), added: ids(3)},
		{name: "clear", current: ids(3, 1, 2), next: ids(), removed: ids(1, 2, 3), added: ids()},
		{name: "swap", current: ids(1), next: ids(2), removed: ids(1), added: ids(2)},
		{name: "duplicates collapse", current: ids(1, 1), next: ids(2, 2), removed: ids(1), added: ids(2)},
		{name: "nil inputs", current: nil, next: nil, removed: ids(), added: ids()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Diff(tt.current, tt.next)
			assert.Equal(t, tt.removed, d.Removed)
			assert.Equal(t, tt.added, d.Added)
			assert.Equal(t, len(tt.removed) == 0 && len(tt.added) == 0, d.IsEmpty())
		})
	}
}

// A validated batch always expands into a symmetric edge set.
func TestEdgesOfValidBatchAreSymmetric(t *testing.T) {
	batch := []Node{
		{ID: 1, Relatives: ids(2, 3, 1)},
		{ID: 2, Relatives: ids(1)},
		{ID: 3, Relatives: ids(1, 4)},
		{ID: 4, Relatives: ids(3)},
		{ID: 5, Relatives: ids()},
	}
	require.NoError(t, Validate(batch))

	edges := Edges(batch)
	set := make(map[Edge]struct{}, len(edges))
	for _, e := range edges {
		set[e] = struct{}{}
	}
	for _, e := range edges {
		_, ok := set[Edge{From: e.To, To: e.From}]
		assert.True(t, ok, "missing mirror of %v", e)
	}
}
