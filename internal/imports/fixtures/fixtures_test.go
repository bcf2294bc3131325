package fixtures

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"census/internal/imports/models"
	"census/internal/imports/relations"
	"census/pkg/domain"
)

var day = models.NewDate(2019, time.August, 20)

func nodes(citizens []models.Citizen) []relations.Node {
	out := make([]relations.Node, len(citizens))
	for i, c := range citizens {
		out[i] = relations.Node{ID: c.CitizenID, Relatives: c.Relatives}
	}
	return out
}

func TestCitizens(t *testing.T) {
	citizens := New(13, day).Citizens(300)
	require.Len(t, citizens, 300)

	ids := make(map[domain.CitizenID]struct{}, len(citizens))
	for _, c := range citizens {
		_, dup := ids[c.CitizenID]
		require.False(t, dup, "duplicate id %d", c.CitizenID)
		ids[c.CitizenID] = struct{}{}

		assert.Less(t, int64(c.CitizenID), int64(900))
		assert.GreaterOrEqual(t, c.Apartment, int64(1))
		assert.NotEmpty(t, c.Town)
		assert.True(t, c.Gender.IsValid())
		assert.False(t, c.BirthDate.After(day))
		assert.NotNil(t, c.Relatives)
	}

	assert.NoError(t, relations.Validate(nodes(citizens)))
	assert.NotEmpty(t, relations.Edges(nodes(citizens)))
}

func TestCitizensIsDeterministic(t *testing.T) {
	assert.Equal(t, New(7, day).Citizens(50), New(7, day).Citizens(50))
	assert.NotEqual(t, New(7, day).Citizens(50), New(8, day).Citizens(50))
}

func TestCitizensEmpty(t *testing.T) {
	assert.Empty(t, New(1, day).Citizens(0))
}

func TestDropReverse(t *testing.T) {
	citizens := []models.Citizen{
		{CitizenID: 1, Relatives: []domain.CitizenID{1, 2}},
		{CitizenID: 2, Relatives: []domain.CitizenID{1}},
	}
	require.True(t, DropReverse(citizens))
	assert.Empty(t, citizens[1].Relatives)
	assert.ErrorIs(t, relations.Validate(nodes(citizens)), relations.ErrNotTwoSided)

	assert.False(t, DropReverse([]models.Citizen{{CitizenID: 1, Relatives: []domain.CitizenID{1}}}))
}
