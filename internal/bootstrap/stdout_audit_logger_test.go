package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestStdoutAuditLogger_Log(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	audit := NewStdoutAuditLogger(zap.New(core))
	audit.now = func() time.Time { return time.Date(2025, 3, 1, 8, 30, 0, 0, time.FixedZone("WIB", 7*3600)) }

	audit.Log(context.Background(), AuditLog{
		Action:  "SERVER_SHUTDOWN",
		Message: "Server is shutting down",
		Meta:    map[string]any{"signal": "terminated"},
	})

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		e := entries[0]
		assert.Equal(t, "audit", e.LoggerName)
		assert.Equal(t, "audit event", e.Message)

		fields := e.ContextMap()
		assert.Equal(t, "2025-03-01T01:30:00Z", fields["timestamp"])
		assert.Equal(t, "SERVER_SHUTDOWN", fields["action"])
		assert.Equal(t, map[string]any{"signal": "terminated"}, fields["meta"])
	}
}
