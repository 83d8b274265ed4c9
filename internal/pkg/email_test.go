package pkg

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogMailer_KeepsSecretsOutOfInfoLogs(t *testing.T) {
	var buf bytes.Buffer
	m := LogMailer{Logger: slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))}
	body := LoginLinkHTML("Maya", "https://hub.test/auth/callback?token_hash=abc123", "482913", 15*time.Minute)

	require.NoError(t, m.Send(context.Background(), "maya@example.com", "Your Clubhouse sign-in link", body))

	out := buf.String()
	assert.Contains(t, out, "maya@example.com")
	assert.NotContains(t, out, "abc123")
	assert.NotContains(t, out, "482913")
}

func TestLogMailer_DebugShowsBody(t *testing.T) {
	var buf bytes.Buffer
	m := LogMailer{Logger: slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))}

	require.NoError(t, m.Send(context.Background(), "a@b.com", "s", "<b>482913</b>"))
	assert.Contains(t, buf.String(), "482913")
}
