package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	base := New("debug", &buf)

	t.Run("falls back to base logger", func(t *testing.T) {
		entry := FromContext(context.Background(), base)
		assert.Same(t, base, entry.Logger)
		assert.Empty(t, entry.Data)
	})

	t.Run("returns stored entry with its fields", func(t *testing.T) {
		buf.Reset()
		ctx := WithEntry(context.Background(), base.WithField("request_id", "abc"))

		FromContext(ctx, base).WithField("flow", "Appointment.Book").Info("booked")

		var line map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "abc", line["request_id"])
		assert.Equal(t, "Appointment.Book", line["flow"])
		assert.Equal(t, "booked", line["msg"])
	})
}

func TestNew_InvalidLevelDefaultsToInfo(t *testing.T) {
	log := New("loud", &bytes.Buffer{})
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}
