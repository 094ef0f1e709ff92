package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopDoesNotPanic(t *testing.T) {
	var r Recorder = Noop{}
	r.IncRequestsTotal("/", 200)
	r.ObserveRequestDuration("/", time.Millisecond)
	r.IncVisitsRecorded()
	r.IncVisitStepFailures("referrer")
	r.IncLinkClicks()
	r.IncReactions("🔥")
}

func TestPrometheusCounters(t *testing.T) {
	m := New()

	m.IncRequestsTotal("/go/{id}", 302)
	m.IncRequestsTotal("/go/{id}", 302)
	m.IncRequestsTotal("/", 500)
	m.IncVisitsRecorded()
	m.IncVisitStepFailures("browser")
	m.IncLinkClicks()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("/go/{id}", "3xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("/", "5xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.visitsRecorded))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.visitStepFailure.WithLabelValues("browser")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.linkClicks))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.IncVisitsRecorded()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "biolink_visits_recorded_total 1"))
}

func TestStatusBucket(t *testing.T) {
	cases := map[int]string{100: "1xx", 204: "2xx", 302: "3xx", 404: "4xx", 503: "5xx"}
	for code, want := range cases {
		assert.Equal(t, want, statusBucket(code), "code %d", code)
	}
}
