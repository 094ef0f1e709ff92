package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"biolink/internal/metrics"
)

func TestObserveRecordsRoutePattern(t *testing.T) {
	rec := metrics.New()

	r := chi.NewRouter()
	r.Use(Observe(rec))
	r.Get("/go/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusFound)
	})

	for _, path := range []string{"/go/1", "/go/2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	expected := `
# HELP biolink_requests_total Total number of HTTP requests
# TYPE biolink_requests_total counter
biolink_requests_total{route="/go/{id}",status="3xx"} 2
`
	if err := testutil.GatherAndCompare(rec.Gatherer(), strings.NewReader(expected), "biolink_requests_total"); err != nil {
		t.Error(err)
	}
}

func TestObserveNilRecorder(t *testing.T) {
	rr := httptest.NewRecorder()
	Observe(nil)(okHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("got %d", rr.Code)
	}
}

func TestResponseWriterCapturesFirstStatus(t *testing.T) {
	rw := &responseWriter{ResponseWriter: httptest.NewRecorder(), statusCode: http.StatusOK}
	rw.WriteHeader(http.StatusNotFound)
	rw.WriteHeader(http.StatusInternalServerError)
	if rw.statusCode != http.StatusNotFound {
		t.Errorf("got %d", rw.statusCode)
	}
}
