package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"census/internal/platform/config"
)

func TestNewWithWriter(t *testing.T) {
	t.Run("json handler at info drops debug", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewWithWriter(&buf, config.Log{Level: "info", Format: "json"})

		log.Debug("hidden")
		log.Info("import created", "import_id", 1)

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "import created", entry["msg"])
		assert.Equal(t, "census", entry["service"])
		assert.EqualValues(t, 1, entry["import_id"])
	})

	t.Run("text handler", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewWithWriter(&buf, config.Log{Level: "debug", Format: "text"})

		log.Debug("visible")
		assert.Contains(t, buf.String(), "msg=visible")
	})
}
