package render

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogBuffer_Wraps(t *testing.T) {
	lb := NewLogBuffer(3)
	for i, msg := range []string{"a", "b", "c", "d"} {
		lb.Add(LogEntry{Message: msg, Level: slog.Level(i)})
	}

	require.Equal(t, 3, lb.Len())
	recent := lb.GetRecent(0)
	require.Len(t, recent, 3)
	assert.Equal(t, "d", recent[0].Message)
	assert.Equal(t, "b", recent[2].Message)

	assert.Len(t, lb.GetRecent(2), 2)

	lb.Clear()
	assert.Nil(t, lb.GetRecent(0))
}

func TestLogBuffer_GetFiltered(t *testing.T) {
	lb := NewLogBuffer(10)
	lb.Add(LogEntry{Message: "dbg", Level: slog.LevelDebug})
	lb.Add(LogEntry{Message: "err", Level: slog.LevelError})
	lb.Add(LogEntry{Message: "inf", Level: slog.LevelInfo})

	got := lb.GetFiltered(10, slog.LevelInfo)
	require.Len(t, got, 2)
	assert.Equal(t, "inf", got[0].Message)
	assert.Equal(t, "err", got[1].Message)

	assert.Len(t, lb.GetFiltered(1, slog.LevelDebug), 1)
}

func TestLogBufferHandler(t *testing.T) {
	lb := NewLogBuffer(10)
	logger := slog.New(NewLogBufferHandler(lb, slog.LevelInfo))

	logger.Debug("hidden")
	logger.With("rom", "pong").WithGroup("cpu").Info("loaded", "pc", 0x200)

	entries := lb.GetRecent(0)
	require.Len(t, entries, 1)
	assert.Equal(t, "loaded rom=pong cpu.pc=512", entries[0].Message)
	assert.Equal(t, slog.LevelInfo, entries[0].Level)
}

func TestFormatLogEntry(t *testing.T) {
	ts := time.Date(2024, 1, 1, 12, 30, 45, 0, time.UTC)
	got := FormatLogEntry(LogEntry{Time: ts, Level: slog.LevelWarn, Message: "slow"})
	assert.Equal(t, "12:30:45 [WRN] slow", got)
	assert.True(t, strings.Contains(FormatLogEntry(LogEntry{Level: slog.Level(2)}), "???"))
}

func TestStepLevel(t *testing.T) {
	tests := []struct {
		level     slog.Level
		direction int
		want      slog.Level
	}{
		{slog.LevelInfo, 1, slog.LevelDebug},
		{slog.LevelDebug, 1, slog.LevelDebug},
		{slog.LevelInfo, -1, slog.LevelWarn},
		{slog.LevelWarn, -1, slog.LevelError},
		{slog.LevelError, -1, slog.LevelError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StepLevel(tt.level, tt.direction), "%v %+d", tt.level, tt.direction)
	}
	assert.Equal(t, "WARN", LevelName(slog.LevelWarn))
}
