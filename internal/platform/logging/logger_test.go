package logging

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_WritesKeyValueFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New(LevelInfo, &buf).Named("squad").With("manager_id", "m1")

	logger.Debug("hidden")
	logger.Warn("transfer rejected", "gameweek_id", "gw-1", "wallet", int64(970), "error", errors.New("boom"))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, sonic.Unmarshal(lines[0], &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "squad", entry["logger"])
	assert.Equal(t, "transfer rejected", entry["msg"])
	assert.Equal(t, "m1", entry["manager_id"])
	assert.Equal(t, "gw-1", entry["gameweek_id"])
	assert.EqualValues(t, 970, entry["wallet"])
	assert.Equal(t, "boom", entry["error"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelError, ParseLevel(" error "))
	assert.Equal(t, LevelInfo, ParseLevel("verbose"))
}

func TestNilLoggerFallsBackToDefault(t *testing.T) {
	var logger *Logger
	assert.NotPanics(t, func() {
		logger.Info("noop", "k", "v")
		logger.With("k", "v").Warn("noop")
	})
}

func TestSetMirror_ReceivesEnabledRecords(t *testing.T) {
	var got []string
	SetMirror(func(_ context.Context, level Level, msg string, args ...any) {
		got = append(got, level.String()+":"+msg)
	})
	t.Cleanup(func() { SetMirror(nil) })

	logger := New(LevelInfo, io.Discard)
	logger.Debug("filtered")
	logger.InfoContext(t.Context(), "squad saved", "manager_id", "m1")

	assert.Equal(t, []string{"info:squad saved"}, got)

	SetMirror(nil)
	logger.Info("after reset")
	assert.Len(t, got, 1)
}

func TestLogger_SetLevelAppliesToChildren(t *testing.T) {
	var buf bytes.Buffer
	root := New(LevelWarn, &buf)
	child := root.Named("leaderboard")

	child.Info("finalize started")
	assert.Empty(t, buf.String())
	assert.False(t, child.Enabled(LevelInfo))

	root.SetLevel(LevelDebug)
	child.Info("finalize started")
	assert.Contains(t, buf.String(), `"logger":"leaderboard"`)
}

func TestFields_BadAndDanglingKeys(t *testing.T) {
	var buf bytes.Buffer
	New(LevelInfo, &buf).Info("odd args", 42, "gameweek_id", "gw-2", "dangling")

	var entry map[string]any
	require.NoError(t, sonic.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.EqualValues(t, 42, entry[badKey])
	assert.Equal(t, "gw-2", entry["gameweek_id"])
	assert.Contains(t, entry, "dangling")
	assert.Nil(t, entry["dangling"])
}
