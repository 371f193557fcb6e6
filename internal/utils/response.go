package utils

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/juju/errors"

	"github.com/klau55/clicker-mobile-app/internal/logger"
	"github.com/klau55/clicker-mobile-app/internal/ratelimit"
)

const (
	MsgInternal        = "Internal server error"
	MsgTooManyRequests = "Too many requests, please try again later"
	MsgInvalidJSON     = "Invalid JSON body"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Message    string `json:"message"`
	RetryAfter *int64 `json:"retryAfter,omitempty"`
	Error      string `json:"error,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("could not encode response: %v", err)
	}
}

func Success(w http.ResponseWriter, payload interface{}) {
	JSON(w, http.StatusOK, payload)
}

func Created(w http.ResponseWriter, payload interface{}) {
	JSON(w, http.StatusCreated, payload)
}

// Message writes {message} with the given status.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, ErrorResponse{Message: msg})
}

// StatusFor maps an error to its HTTP status code.
func StatusFor(err error) int {
	var limited *ratelimit.LimitedError
	switch {
	case errors.As(err, &limited):
		return http.StatusTooManyRequests
	case errors.Is(err, errors.NotValid),
		errors.Is(err, errors.AlreadyExists),
		errors.Is(err, errors.Unauthorized):
		return http.StatusBadRequest
	case errors.Is(err, errors.NotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// WriteError logs err and writes the matching response. Client errors carry the
// error's own message; internal errors are masked unless exposeDetail is set.
func WriteError(w http.ResponseWriter, r *http.Request, err error, exposeDetail bool) {
	status := StatusFor(err)
	body := ErrorResponse{Message: clientMessage(err)}

	switch {
	case status == http.StatusTooManyRequests:
		var limited *ratelimit.LimitedError
		errors.As(err, &limited)
		secs := limited.RetryAfterSeconds()
		body = ErrorResponse{Message: MsgTooManyRequests, RetryAfter: &secs}
		w.Header().Set("Retry-After", strconv.FormatInt(secs, 10))
	case status >= http.StatusInternalServerError:
		body = ErrorResponse{Message: MsgInternal}
		if exposeDetail {
			body.Error = err.Error()
		}
	}

	if status >= http.StatusInternalServerError {
		logger.Error("%s %s from %s [%s]: %s", r.Method, r.URL.Path, ClientIP(r), RequestID(r), errors.Details(err))
	} else {
		logger.Warning("%s %s from %s [%s]: %d %v", r.Method, r.URL.Path, ClientIP(r), RequestID(r), status, err)
	}

	JSON(w, status, body)
}

// clientMessage is the message the error was created with, without the
// annotations added on the way up.
func clientMessage(err error) string {
	if msg := errors.Cause(err).Error(); msg != "" {
		return msg
	}
	return err.Error()
}
