package async

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultTerminateHook_RateLimited(t *testing.T) {
	configureTerminateLimiter(map[time.Duration]int{time.Minute: 1})
	defer configureTerminateLimiter(nil)

	var logged []error
	SetStructuredLogger(loggerFunc(func(entry LogEntry) {
		logged = append(logged, entry.Err)
	}))
	defer SetStructuredLogger(nil)

	err := errors.New("repeated failure")
	defaultTerminateHook("same-site", err)
	defaultTerminateHook("same-site", err)

	require.Len(t, logged, 1)
}

func TestSetTerminateHook_OverridesDefault(t *testing.T) {
	called := make(chan string, 1)
	SetTerminateHook(func(category string, err error) {
		called <- category
	})
	defer SetTerminateHook(nil)

	invokeTerminateHook("custom-category", errors.New("x"))
	require.Equal(t, "custom-category", <-called)
}

type loggerFunc func(LogEntry)

func (f loggerFunc) Log(entry LogEntry) { f(entry) }
