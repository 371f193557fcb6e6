package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klau55/clicker-mobile-app/internal/logger"
	"github.com/klau55/clicker-mobile-app/internal/ratelimit"
)

func quietLogs(t *testing.T) *strings.Builder {
	t.Helper()
	color.NoColor = true
	var buf strings.Builder
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(nil) })
	return &buf
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestWriteErrorStatusMapping(t *testing.T) {
	quietLogs(t)

	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", errors.NewNotValid(nil, "Username is required"), http.StatusBadRequest, "Username is required"},
		{"conflict", errors.NewAlreadyExists(nil, "User already exists"), http.StatusBadRequest, "User already exists"},
		{"auth", errors.NewUnauthorized(nil, "Invalid username or password"), http.StatusBadRequest, "Invalid username or password"},
		{"not found", errors.NewNotFound(nil, "User not found"), http.StatusNotFound, "User not found"},
		{"traced not found", errors.Trace(errors.NewNotFound(nil, "User not found")), http.StatusNotFound, "User not found"},
		{"annotated validation", errors.Annotate(errors.NewNotValid(nil, "Invalid JSON body"), "register"), http.StatusBadRequest, "Invalid JSON body"},
		{"internal", fmt.Errorf("connection refused"), http.StatusInternalServerError, MsgInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/tap", nil)

			WriteError(rec, req, tt.err, false)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			body := decodeError(t, rec)
			assert.Equal(t, tt.message, body.Message)
			assert.Empty(t, body.Error)
			assert.Nil(t, body.RetryAfter)
		})
	}
}

func TestWriteErrorExposesDetailOnlyWhenAsked(t *testing.T) {
	quietLogs(t)
	err := errors.Annotate(fmt.Errorf("pool exhausted"), "could not increment taps")

	rec := httptest.NewRecorder()
	WriteError(rec, httptest.NewRequest(http.MethodPost, "/api/tap", nil), err, true)
	body := decodeError(t, rec)
	assert.Equal(t, MsgInternal, body.Message)
	assert.Contains(t, body.Error, "pool exhausted")

	rec = httptest.NewRecorder()
	WriteError(rec, httptest.NewRequest(http.MethodPost, "/api/tap", nil), err, false)
	assert.NotContains(t, rec.Body.String(), "pool exhausted")
}

func TestWriteErrorRateLimited(t *testing.T) {
	quietLogs(t)

	rec := httptest.NewRecorder()
	err := &ratelimit.LimitedError{RetryAfter: 41500 * time.Millisecond}
	WriteError(rec, httptest.NewRequest(http.MethodPost, "/api/login", nil), err, false)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "42", rec.Header().Get("Retry-After"))
	body := decodeError(t, rec)
	assert.Equal(t, MsgTooManyRequests, body.Message)
	require.NotNil(t, body.RetryAfter)
	assert.Equal(t, int64(42), *body.RetryAfter)
}

func TestWriteErrorLogsRequestContext(t *testing.T) {
	buf := quietLogs(t)

	req := httptest.NewRequest(http.MethodGet, "/api/user-stats/9", nil)
	req.RemoteAddr = "192.0.2.7:5555"
	req.Header.Set(RequestIDHeader, "req-1")
	WriteError(httptest.NewRecorder(), req, errors.NewNotFound(nil, "User not found"), false)

	assert.Contains(t, buf.String(), "GET /api/user-stats/9 from 192.0.2.7 [req-1]")
	assert.Contains(t, buf.String(), "404")
}
