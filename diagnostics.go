package async

import (
	"sync"
	"time"

	"github.com/joeycumines/go-catrate"
)

// terminateHookFunc is invoked whenever a detached coroutine finishes with
// an error that nobody is positioned to observe (see [Detach]). The default
// implementation logs it, rate-limited per panic site so a hot detached
// loop that panics every iteration cannot flood the log.
type terminateHookFunc func(category string, err error)

var terminateState = struct {
	sync.RWMutex
	hook    terminateHookFunc
	limiter *catrate.Limiter
}{}

func init() {
	terminateState.hook = defaultTerminateHook
}

// SetTerminateHook overrides what happens when a [Detach]ed coroutine ends
// in error. The default hook logs via the package-level structured logger,
// subject to the rate limits configured through
// [WithRateLimitedDiagnostics].
func SetTerminateHook(hook terminateHookFunc) {
	terminateState.Lock()
	defer terminateState.Unlock()
	if hook == nil {
		hook = defaultTerminateHook
	}
	terminateState.hook = hook
}

// configureTerminateLimiter installs the sliding-window limiter used by
// defaultTerminateHook. Passing an empty map disables rate limiting
// (every termination is logged).
func configureTerminateLimiter(rates map[time.Duration]int) {
	terminateState.Lock()
	defer terminateState.Unlock()
	if len(rates) == 0 {
		terminateState.limiter = nil
		return
	}
	terminateState.limiter = catrate.NewLimiter(rates)
}

func defaultTerminateHook(category string, err error) {
	terminateState.RLock()
	limiter := terminateState.limiter
	terminateState.RUnlock()

	if limiter != nil {
		if _, ok := limiter.Allow(category); !ok {
			return
		}
	}
	logError("spawn", "detached coroutine terminated with error: "+category, err)
}

func invokeTerminateHook(category string, err error) {
	terminateState.RLock()
	hook := terminateState.hook
	terminateState.RUnlock()
	hook(category, err)
}
