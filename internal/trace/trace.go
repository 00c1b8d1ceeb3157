// Package trace emits the supervisor's debug-only diagnostic events.
//
// The core never writes trace output directly; it builds an Event and
// hands it to an Emitter, the same way rs/seamless lets callers override
// LogMessage/LogError instead of calling log.Printf inline. The default
// Emitter is silent unless NewEmitter was called with enabled set to
// true, and then writes one line per
// event to stderr with the fixed "[dumb-init] " prefix the test suite
// asserts on.
package trace

import (
	"github.com/sirupsen/logrus"
)

// Event is a single diagnostic occurrence: a message plus optional
// key/value context kept for callers that want it (e.g. a future JSON
// emitter); the default emitter renders Message verbatim and ignores
// Fields so the wire format stays the fixed line the test suite checks.
type Event struct {
	Message string
	Fields  map[string]interface{}
}

// Emitter renders Events. Implementations must be safe to call from the
// single-threaded supervisor loop only; there is no concurrent access.
type Emitter interface {
	Emit(Event)
}

// bareFormatter renders a logrus entry as just its message plus a
// trailing newline, dropping level, timestamp and fields. The core's
// trace lines are exact strings, not key=value pairs.
type bareFormatter struct{}

func (bareFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	return append([]byte(entry.Message), '\n'), nil
}

// logrusEmitter renders events as bare "[dumb-init] <message>" lines
// and does nothing when disabled.
type logrusEmitter struct {
	enabled bool
	log     *logrus.Logger
}

// NewEmitter returns the default Emitter. When enabled is false, Emit is
// a no-op; this lets the supervisor call Emit unconditionally without
// branching on the debug flag at every call site.
func NewEmitter(enabled bool) Emitter {
	log := logrus.New()
	log.SetFormatter(bareFormatter{})
	return &logrusEmitter{enabled: enabled, log: log}
}

func (e *logrusEmitter) Emit(ev Event) {
	if !e.enabled {
		return
	}
	e.log.WithFields(ev.Fields).Info("[dumb-init] " + ev.Message)
}
