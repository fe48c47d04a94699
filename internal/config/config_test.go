package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	for _, key := range []string{"HTTP_ADDR", "PORT", "ID_POLICY", "MALFORMED_PAYLOAD_POLICY", "MYSQL_DSN", "SQLITE_PATH", "RABBITMQ_URL"} {
		t.Setenv(key, "")
	}

	cfg := New()
	require.Equal(t, ":3000", cfg.HTTPAddr)
	require.Equal(t, "3000", cfg.Port())
	require.Equal(t, "length", cfg.IDPolicy)
	require.Equal(t, "respond", cfg.MalformedPayloadPolicy)
	require.Zero(t, cfg.ReadTimeout)
	require.Zero(t, cfg.MaxBodyBytes)
	require.Empty(t, cfg.MySQLDSN)
	require.Equal(t, 15*time.Second, cfg.SSEHeartbeat)
}

func TestNewOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("PORT", "4000")
	t.Setenv("ID_POLICY", "sequence")
	t.Setenv("MALFORMED_PAYLOAD_POLICY", "fatal")
	t.Setenv("MAX_BODY_BYTES", "1024")
	t.Setenv("READ_TIMEOUT_SECONDS", "7")
	t.Setenv("SSE_HEARTBEAT_SECONDS", "-3")

	cfg := New()
	require.Equal(t, ":4000", cfg.HTTPAddr)
	require.Equal(t, "sequence", cfg.IDPolicy)
	require.Equal(t, "fatal", cfg.MalformedPayloadPolicy)
	require.Equal(t, int64(1024), cfg.MaxBodyBytes)
	require.Equal(t, 7*time.Second, cfg.ReadTimeout)
	require.Equal(t, 15*time.Second, cfg.SSEHeartbeat)
}

func TestNewIgnoresUnknownPolicies(t *testing.T) {
	t.Setenv("ID_POLICY", "uuid")
	t.Setenv("MALFORMED_PAYLOAD_POLICY", "ignore")

	cfg := New()
	require.Equal(t, "length", cfg.IDPolicy)
	require.Equal(t, "respond", cfg.MalformedPayloadPolicy)
}
