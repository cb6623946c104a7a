package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerboseGating(t *testing.T) {
	verbose := false
	var buf bytes.Buffer
	l := NewWithCallback("render", func() bool { return verbose }).WithWriter(&buf)

	l.Debug("hidden %d", 1)
	l.Info("hidden")
	assert.Empty(t, buf.String())

	l.Warn("viewport adjusted to %g", 1.5)
	assert.Contains(t, buf.String(), "WARN [render] viewport adjusted to 1.5")

	verbose = true
	buf.Reset()
	l.Info("shown")
	assert.Contains(t, buf.String(), "INFO [render] shown")
}

func TestFields(t *testing.T) {
	var buf bytes.Buffer
	l := New("session", nil).WithWriter(&buf)

	l.WarnWithFields("render failed", []Field{F("surface", "julia"), Error(errors.New("boom"))})
	line := buf.String()
	assert.True(t, strings.HasSuffix(line, "[surface=julia error=boom]\n"), line)
}

func TestWithComponentSharesWriter(t *testing.T) {
	var buf bytes.Buffer
	root := New("", nil).WithWriter(&buf)
	root.Error("a")
	root.WithComponent("server").Error("b")

	out := buf.String()
	assert.Contains(t, out, "ERROR [main] a")
	assert.Contains(t, out, "ERROR [server] b")
}

func TestMessagesWithoutArgsAreNotFormatted(t *testing.T) {
	var buf bytes.Buffer
	New("x", nil).WithWriter(&buf).Warn("100% done")
	assert.Contains(t, buf.String(), "100% done")
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop().Error("nothing")
	})
}
