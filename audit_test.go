package email

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditLog_LogMail(t *testing.T) {
	tests := []struct {
		name          string
		dump          string
		success       bool
		expectedLevel string
	}{
		{"success", `{"subject":"Hi"}`, true, "info"},
		{"failure", `{"subject":"Hi"}`, false, "warn"},
		{"non json dump", "subject: Hi", true, "info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			audit := NewAuditLog(zerolog.New(&buf))

			audit.LogMail("Hi", tt.dump, tt.success)

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.expectedLevel, entry["level"])
			assert.Equal(t, "Hi", entry["subject"])
			assert.Equal(t, tt.success, entry["success"])
			assert.Equal(t, "mail", entry["component"])
			assert.NotNil(t, entry["request"])
		})
	}
}

type panickingLogger struct{}

func (panickingLogger) LogMail(string, string, bool) {
	panic("disk full")
}

type recordingLogger struct {
	calls int
}

func (r *recordingLogger) LogMail(string, string, bool) {
	r.calls++
}

func TestLogMailSafely(t *testing.T) {
	assert.NoError(t, LogMailSafely(nil, "s", "{}", true))

	rec := &recordingLogger{}
	assert.NoError(t, LogMailSafely(rec, "s", "{}", true))
	assert.Equal(t, 1, rec.calls)

	err := LogMailSafely(panickingLogger{}, "s", "{}", true)
	assert.ErrorContains(t, err, "disk full")
}
