package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-reasoner/pkg/entity"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []LogEntry {
	t.Helper()
	var entries []LogEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var e LogEntry
		require.NoError(t, json.Unmarshal([]byte(line), &e))
		entries = append(entries, e)
	}
	return entries
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"DEBUG", DebugLevel},
		{"debug", DebugLevel},
		{"info", InfoLevel},
		{"WARNING", WarnLevel},
		{"error", ErrorLevel},
		{"invalid", InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
	assert.Equal(t, "WARN", WarnLevel.String())
	assert.Equal(t, "UNKNOWN", Level(42).String())
}

func TestDomainFields(t *testing.T) {
	assert.Equal(t, Field{Key: "class_id", Value: uint32(7)}, ClassID(entity.ID(7)))
	assert.Equal(t, Field{Key: "role_id", Value: uint32(3)}, RoleID(entity.TopRole))
	assert.Equal(t, "saturation", Phase("saturation").Value)
	assert.Equal(t, "5s", Latency(5*time.Second).Value)
	assert.Equal(t, "boom", Error(errors.New("boom")).Value)
	assert.Nil(t, Error(nil).Value)
}

func TestJSONLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, WarnLevel)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "WARN", entries[0].Level)
	assert.Equal(t, "ERROR", entries[1].Level)
}

func TestJSONLogger_WithSharesLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)
	child := logger.With(Component("classifier"), RunID("r1"))

	child.Info("fixpoint reached", Count(12))
	logger.SetLevel(ErrorLevel)
	child.Info("suppressed")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "fixpoint reached", entries[0].Message)
	assert.Equal(t, "classifier", entries[0].Fields["component"])
	assert.Equal(t, "r1", entries[0].Fields["run_id"])
	assert.Equal(t, float64(12), entries[0].Fields["count"])
	assert.Equal(t, ErrorLevel, child.GetLevel())
}

func TestJSONLogger_NoFieldsOmitted(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)
	logger.Info("bare")
	assert.NotContains(t, buf.String(), "fields")
}

func TestTimedOperation(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, DebugLevel)

	op := StartTimer(logger, "phase finished", Phase("normalize"))
	d := op.End(Count(3))
	assert.GreaterOrEqual(t, d, time.Duration(0))

	op = StartTimer(logger, "phase failed", Phase("classify"))
	op.EndError(errors.New("interrupted"))

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "DEBUG", entries[0].Level)
	assert.Equal(t, "normalize", entries[0].Fields["phase"])
	assert.Contains(t, entries[0].Fields, "latency")
	assert.Equal(t, "ERROR", entries[1].Level)
	assert.Equal(t, "interrupted", entries[1].Fields["error"])
}

func TestDefaultLoggerReplaceable(t *testing.T) {
	var buf bytes.Buffer
	prev := DefaultLogger()
	t.Cleanup(func() { SetDefaultLogger(prev) })

	SetDefaultLogger(NewJSONLogger(&buf, InfoLevel))
	DefaultLogger().Info("hello")
	assert.Contains(t, buf.String(), "hello")
}

func TestOrNop(t *testing.T) {
	assert.Equal(t, NopLogger{}, OrNop(nil))
	l := NewJSONLogger(&bytes.Buffer{}, InfoLevel)
	assert.Same(t, l, OrNop(l))
}
