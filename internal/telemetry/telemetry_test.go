package telemetry

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLoggerWritesJSONToFile(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	dir := filepath.Join(t.TempDir(), "logs")
	logger, closeLog, err := InitLogger(dir, true)
	require.NoError(t, err)

	logger.Debug("debug line", "user_id", "u1")
	require.NoError(t, closeLog())

	data, err := os.ReadFile(filepath.Join(dir, "threadchat.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"debug line"`)
	assert.Contains(t, string(data), `"user_id":"u1"`)
	assert.Contains(t, string(data), `"service":"threadchat"`)
}

func TestInitLoggerInfoLevelDropsDebug(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	dir := t.TempDir()
	logger, closeLog, err := InitLogger(dir, false)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("shown")
	require.NoError(t, closeLog())

	data, err := os.ReadFile(filepath.Join(dir, "threadchat.log"))
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(data), "hidden"))
	assert.True(t, strings.Contains(string(data), "shown"))
}

func TestNoop(t *testing.T) {
	tracer, meter := Noop()

	_, span := tracer.Start(context.Background(), "noop")
	span.End()
	assert.False(t, span.SpanContext().IsValid())

	counter, err := meter.Int64Counter("noop")
	require.NoError(t, err)
	counter.Add(context.Background(), 1)
}
