package async

import (
	"github.com/joeycumines/logiface"
)

// logifaceEvent is a minimal logiface.Event implementation sufficient to
// carry a [LogEntry] through a logiface pipeline. It embeds
// UnimplementedEvent as logiface requires of every Event implementation,
// and implements only the fields this package's LogEntry actually
// populates.
type logifaceEvent struct {
	logiface.UnimplementedEvent
	level   logiface.Level
	message string
	err     error
}

func (e *logifaceEvent) Level() logiface.Level { return e.level }

// AddField is required by logiface.Event; this adapter only carries a
// message and an error, so structured fields are dropped.
func (e *logifaceEvent) AddField(key string, val any) {}

func (e *logifaceEvent) AddMessage(msg string) bool {
	e.message = msg
	return true
}

func (e *logifaceEvent) AddError(err error) bool {
	e.err = err
	return true
}

// logifaceEventFactory creates logifaceEvent instances for a given level.
type logifaceEventFactory struct{}

func (logifaceEventFactory) NewEvent(level logiface.Level) *logifaceEvent {
	return &logifaceEvent{level: level}
}

// logifaceWriter adapts a *logiface.Logger[Event] sink: it is supplied to
// logiface.New as the Writer, receiving each logifaceEvent this package's
// adapter produces, and forwards it on to a downstream logiface logger's
// Log method so that callers can plug in any of logiface's own backends
// (zerolog, logrus, stumpy) below the adapter.
type logifaceWriter struct {
	downstream *logiface.Logger[logiface.Event]
}

func (w *logifaceWriter) Write(event *logifaceEvent) error {
	if w.downstream == nil {
		return nil
	}
	b := w.downstream.Build(event.level)
	if event.err != nil {
		b.Err(event.err)
	}
	b.Log(event.message)
	return nil
}

// eventLogifaceLogger is this package's [Logger] built entirely from
// logiface primitives: it owns a *logiface.Logger[*logifaceEvent]
// configured with logifaceEventFactory and logifaceWriter, so every
// LogEntry flows through an actual logiface event/writer pipeline before
// reaching downstream.
type eventLogifaceLogger struct {
	logger *logiface.Logger[*logifaceEvent]
}

// NewLogifaceEventLogger builds a [Logger] whose entries are routed
// through a logiface pipeline terminating at downstream, exercising
// logiface's own Event/EventFactory/Writer seam rather than merely
// wrapping an already-built *logiface.Logger[logiface.Event]
// (see [NewLogifaceLogger] for that simpler case).
func NewLogifaceEventLogger(downstream *logiface.Logger[logiface.Event]) Logger {
	l := logiface.New[*logifaceEvent](
		logiface.WithEventFactory[*logifaceEvent](logifaceEventFactory{}),
		logiface.WithWriter[*logifaceEvent](&logifaceWriter{downstream: downstream}),
	)
	return &eventLogifaceLogger{logger: l}
}

func (l *eventLogifaceLogger) Log(entry LogEntry) {
	if l.logger == nil {
		return
	}
	b := l.logger.Build(logLevelToLogiface(entry.Level))
	if entry.Err != nil {
		b.Err(entry.Err)
	}
	b.Log(entry.Message)
}

func logLevelToLogiface(l LogLevel) logiface.Level {
	switch l {
	case LevelDebug:
		return logiface.LevelDebug
	case LevelInfo:
		return logiface.LevelInformational
	case LevelWarn:
		return logiface.LevelWarning
	case LevelError:
		return logiface.LevelError
	default:
		return logiface.LevelInformational
	}
}

// loggerFromLogiface adapts any *logiface.Logger[logiface.Event] into this
// package's [Logger] interface, so the runtime's structured logging can be
// backed by an arbitrary logiface pipeline (and, through it, zerolog,
// logrus, or any other logiface-compatible sink) instead of the built-in
// [defaultLogger].
type loggerFromLogiface struct {
	logger *logiface.Logger[logiface.Event]
}

// NewLogifaceLogger wraps target so it satisfies [Logger]. Use it with
// [WithLogger] to route this runtime's diagnostics through an existing
// logiface pipeline.
func NewLogifaceLogger(target *logiface.Logger[logiface.Event]) Logger {
	return &loggerFromLogiface{logger: target}
}

func (l *loggerFromLogiface) Log(entry LogEntry) {
	if l.logger == nil {
		return
	}
	b := l.logger.Build(logLevelToLogiface(entry.Level))
	if entry.Err != nil {
		msg := entry.Message + ": " + entry.Err.Error()
		b.Log(msg)
		return
	}
	b.Log(entry.Message)
}
