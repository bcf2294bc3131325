package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "census/pkg/domain-errors"
)

// TestParseIDs_Invariants validates the parsing invariant:
// "path identifiers must be non-negative base-10 integers"
func TestParseIDs_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseImportID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects non-numeric input", func(t *testing.T) {
		_, err := ParseCitizenID("abc")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects negative values", func(t *testing.T) {
		_, err := ParseCitizenID("-1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must not be negative")
	})

	t.Run("rejects fractional values", func(t *testing.T) {
		_, err := ParseImportID("1.5")
		require.Error(t, err)
	})

	t.Run("accepts zero and positive values", func(t *testing.T) {
		cid, err := ParseCitizenID("0")
		require.NoError(t, err)
		assert.Equal(t, CitizenID(0), cid)

		iid, err := ParseImportID(" 42 ")
		require.NoError(t, err)
		assert.Equal(t, ImportID(42), iid)
		assert.Equal(t, "42", iid.String())
	})
}
