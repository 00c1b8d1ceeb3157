package trace

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmitterDisabledIsNoop(t *testing.T) {
	var buf bytes.Buffer
	e := NewEmitter(false).(*logrusEmitter)
	e.log.Out = &buf

	e.Emit(Event{Message: "Received signal 15"})

	assert.Empty(t, buf.String())
}

func TestEmitterEnabledWritesExactLine(t *testing.T) {
	var buf bytes.Buffer
	e := NewEmitter(true).(*logrusEmitter)
	e.log.Out = &buf

	e.Emit(Event{Message: "Received signal 15"})

	assert.Equal(t, "[dumb-init] Received signal 15\n", buf.String())
}

func TestEmitterIgnoresFieldsInOutput(t *testing.T) {
	var buf bytes.Buffer
	e := NewEmitter(true).(*logrusEmitter)
	e.log.Out = &buf

	e.Emit(Event{Message: "Forwarded signal 15 to children", Fields: map[string]interface{}{"signal": 15}})

	assert.Equal(t, "[dumb-init] Forwarded signal 15 to children\n", buf.String())
}
