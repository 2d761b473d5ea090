package async

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogLevel_StringNamesKnownLevels(t *testing.T) {
	require.Equal(t, "DEBUG", LevelDebug.String())
	require.Equal(t, "INFO", LevelInfo.String())
	require.Equal(t, "WARN", LevelWarn.String())
	require.Equal(t, "ERROR", LevelError.String())
	require.Contains(t, LogLevel(99).String(), "UNKNOWN")
}

func TestNoOpLogger_DiscardsEntries(t *testing.T) {
	require.NotPanics(t, func() {
		NoOpLogger{}.Log(LogEntry{Level: LevelError, Message: "ignored"})
	})
}

func TestDefaultLogger_FiltersBelowMinLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewDefaultLogger(&buf, LevelWarn)

	logger.Log(LogEntry{Level: LevelInfo, Category: "test", Message: "skipped"})
	require.Empty(t, buf.String())

	logger.Log(LogEntry{Level: LevelWarn, Category: "test", Message: "kept"})
	require.Contains(t, buf.String(), "kept")
}

func TestDefaultLogger_IncludesErrorWhenPresent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewDefaultLogger(&buf, LevelDebug)

	logger.Log(LogEntry{Level: LevelError, Category: "cat", Message: "failed", Err: errors.New("boom")})
	require.Contains(t, buf.String(), "failed")
	require.Contains(t, buf.String(), "boom")
}

func TestSetStructuredLogger_NilRestoresNoOp(t *testing.T) {
	SetStructuredLogger(nil)
	require.IsType(t, NoOpLogger{}, getGlobalLogger())
}

func TestSetStructuredLogger_InstallsProvidedLogger(t *testing.T) {
	var got []LogEntry
	SetStructuredLogger(loggerFunc(func(e LogEntry) { got = append(got, e) }))
	defer SetStructuredLogger(nil)

	logDebug("cat", "hello")
	require.Len(t, got, 1)
	require.Equal(t, "hello", got[0].Message)
}
