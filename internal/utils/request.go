package utils

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"

	"github.com/juju/errors"

	"github.com/klau55/clicker-mobile-app/internal/logger"
)

const (
	RequestIDHeader = "X-Request-ID"

	MaxBodyBytes = 1 << 20

	DefaultPage  = 1
	DefaultLimit = 10
)

// DecodeJSON reads at most MaxBodyBytes into dest. Any failure is reported as
// an errors.NotValid error carrying MsgInvalidJSON.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		logger.Debug("%s %s: decode body: %v", r.Method, r.URL.Path, err)
		return errors.NewNotValid(nil, MsgInvalidJSON)
	}
	return nil
}

// ClientIP is the host part of RemoteAddr. Proxy headers are resolved by the
// RealIP middleware before this is called.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func RequestID(r *http.Request) string {
	return r.Header.Get(RequestIDHeader)
}

// ParsePagination never fails: missing, malformed or non-positive values fall
// back to the defaults, and limit is capped at maxLimit when maxLimit > 0.
func ParsePagination(pageStr, limitStr string, maxLimit int) (page, limit int) {
	page = positiveOr(pageStr, DefaultPage)
	limit = positiveOr(limitStr, DefaultLimit)
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

func positiveOr(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
