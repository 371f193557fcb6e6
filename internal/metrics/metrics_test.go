package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrumentHandlerLabelsByTemplate(t *testing.T) {
	r := mux.NewRouter()
	r.Use(InstrumentHandler)
	r.HandleFunc("/api/user-stats/{userId}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	counter := httpRequests.WithLabelValues("GET", "/api/user-stats/{userId}", "404")
	before := testutil.ToFloat64(counter)

	for _, id := range []string{"1", "2", "3"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/user-stats/"+id, nil))
	}

	assert.Equal(t, before+3, testutil.ToFloat64(counter))
	assert.Equal(t, float64(0), testutil.ToFloat64(httpInFlight))
}

func TestDomainCounters(t *testing.T) {
	before := testutil.ToFloat64(taps)
	RecordTap()
	RecordTap()
	assert.Equal(t, before+2, testutil.ToFloat64(taps))

	loginDenied := logins.WithLabelValues(ResultDenied)
	before = testutil.ToFloat64(loginDenied)
	RecordLogin(ResultDenied)
	assert.Equal(t, before+1, testutil.ToFloat64(loginDenied))

	limited := rateLimited.WithLabelValues("register")
	before = testutil.ToFloat64(limited)
	RecordRateLimited("register")
	assert.Equal(t, before+1, testutil.ToFloat64(limited))
}

func TestHandlerExposesRegistry(t *testing.T) {
	RecordRegistration(ResultSuccess)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `clicker_accounts_registrations_total{result="success"}`)
}
