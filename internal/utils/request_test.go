package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func TestDecodeJSON(t *testing.T) {
	quietLogs(t)

	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"username":"alice","password":"secret1"}`))
	var c credentials
	require.NoError(t, DecodeJSON(httptest.NewRecorder(), req, &c))
	assert.Equal(t, credentials{"alice", "secret1"}, c)

	for _, body := range []string{``, `{"username":`, `[1,2]`, `{"username":"a","admin":true}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(body))
		err := DecodeJSON(httptest.NewRecorder(), req, &c)
		require.Error(t, err, body)
		assert.True(t, errors.Is(err, errors.NotValid), body)
		assert.Equal(t, MsgInvalidJSON, err.Error())
	}
}

func TestDecodeJSONRejectsOversizedBody(t *testing.T) {
	quietLogs(t)

	big := `{"username":"` + strings.Repeat("a", MaxBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader(big))
	var c credentials
	err := DecodeJSON(httptest.NewRecorder(), req, &c)
	assert.True(t, errors.Is(err, errors.NotValid))
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.9:41000"
	assert.Equal(t, "203.0.113.9", ClientIP(req))

	req.RemoteAddr = "[2001:db8::1]:443"
	assert.Equal(t, "2001:db8::1", ClientIP(req))

	req.RemoteAddr = "203.0.113.9"
	assert.Equal(t, "203.0.113.9", ClientIP(req))
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		page, limit         string
		wantPage, wantLimit int
	}{
		{"", "", 1, 10},
		{"3", "25", 3, 25},
		{"0", "-4", 1, 10},
		{"abc", "1.5", 1, 10},
		{"2", "1000", 2, 100},
	}
	for _, tt := range tests {
		page, limit := ParsePagination(tt.page, tt.limit, 100)
		assert.Equal(t, tt.wantPage, page, "page %q", tt.page)
		assert.Equal(t, tt.wantLimit, limit, "limit %q", tt.limit)
	}

	_, limit := ParsePagination("1", "1000", 0)
	assert.Equal(t, 1000, limit)
}
