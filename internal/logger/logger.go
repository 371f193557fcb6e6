package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fatih/color"
)

var (
	timestampColor = color.New(color.FgHiBlack)
	infoColor      = color.New(color.FgBlue)
	successColor   = color.New(color.FgGreen)
	warningColor   = color.New(color.FgYellow)
	errorColor     = color.New(color.FgRed)
	methodColor    = color.New(color.FgMagenta)
	pathColor      = color.New(color.FgWhite)
	redirectColor  = color.New(color.FgCyan)

	debugEnabled atomic.Bool

	mu  sync.Mutex
	out io.Writer = os.Stdout
)

// SetDebug toggles Debug output. It is off by default.
func SetDebug(enabled bool) {
	debugEnabled.Store(enabled)
}

// SetOutput redirects every log line. A nil writer restores stdout.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stdout
	}
	out = w
}

func write(c *color.Color, prefix, message string, args ...interface{}) {
	timestamp := time.Now().Format("15:04:05")
	line := timestampColor.Sprintf("[%s]", timestamp) + " " + c.Sprint(prefix+fmt.Sprintf(message, args...))

	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintln(out, line)
}

// Info logs general information (blue).
func Info(message string, args ...interface{}) {
	write(infoColor, "", message, args...)
}

// Success logs a successful step (green).
func Success(message string, args ...interface{}) {
	write(successColor, "✓ ", message, args...)
}

// Warning logs a recoverable problem (yellow).
func Warning(message string, args ...interface{}) {
	write(warningColor, "⚠ ", message, args...)
}

// Error logs a failure (red).
func Error(message string, args ...interface{}) {
	write(errorColor, "✗ ", message, args...)
}

// Debug logs only when debug output is enabled.
func Debug(message string, args ...interface{}) {
	if !debugEnabled.Load() {
		return
	}
	write(timestampColor, "DEBUG: ", message, args...)
}

// Request logs a finished HTTP request, coloured by status class.
func Request(method, path string, statusCode int, duration time.Duration, requestID string) {
	var statusColor *color.Color
	switch {
	case statusCode >= 200 && statusCode < 300:
		statusColor = successColor
	case statusCode >= 300 && statusCode < 400:
		statusColor = redirectColor
	case statusCode >= 400 && statusCode < 500:
		statusColor = warningColor
	default:
		statusColor = errorColor
	}

	timestamp := time.Now().Format("15:04:05")
	line := fmt.Sprintf("%s %s %s %s %s %s",
		timestampColor.Sprintf("[%s]", timestamp),
		methodColor.Sprintf("%-6s", method),
		pathColor.Sprintf("%-40s", path),
		statusColor.Sprintf("[%d]", statusCode),
		timestampColor.Sprintf("(%s)", formatDuration(duration)),
		timestampColor.Sprint(requestID),
	)

	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintln(out, line)
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
}
