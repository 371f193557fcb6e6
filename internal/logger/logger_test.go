package logger

import (
	"bytes"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true

	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		color.NoColor = prev
		SetOutput(nil)
	})
	return &buf
}

func TestLevelsArePrefixed(t *testing.T) {
	buf := capture(t)

	Info("plain %d", 1)
	Success("done")
	Warning("careful")
	Error("failed: %s", "boom")

	out := buf.String()
	assert.Contains(t, out, "plain 1")
	assert.Contains(t, out, "✓ done")
	assert.Contains(t, out, "⚠ careful")
	assert.Contains(t, out, "✗ failed: boom")
}

func TestDebugIsGated(t *testing.T) {
	buf := capture(t)
	t.Cleanup(func() { SetDebug(false) })

	Debug("hidden")
	assert.Empty(t, buf.String())

	SetDebug(true)
	Debug("shown")
	assert.Contains(t, buf.String(), "DEBUG: shown")
}

func TestRequestLine(t *testing.T) {
	buf := capture(t)

	Request("POST", "/api/tap", 404, 1500*time.Microsecond, "req-1")

	out := buf.String()
	assert.Contains(t, out, "POST")
	assert.Contains(t, out, "/api/tap")
	assert.Contains(t, out, "[404]")
	assert.Contains(t, out, "(1ms)")
	assert.Contains(t, out, "req-1")
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "250µs", formatDuration(250*time.Microsecond))
	assert.Equal(t, "42ms", formatDuration(42*time.Millisecond))
	assert.Equal(t, "1.50s", formatDuration(1500*time.Millisecond))
}
