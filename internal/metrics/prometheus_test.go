package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorderCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.RecordSelection("1-month", OutcomeOK)
	r.RecordSelection("1-month", OutcomeOK)
	r.RecordSelection("all-time", OutcomeEmpty)
	r.RecordCache(true)
	r.RecordCache(false)
	r.RecordStore(3, 42)

	if got := testutil.ToFloat64(r.selections.WithLabelValues("1-month", OutcomeOK)); got != 2 {
		t.Fatalf("expected 2 selections, got %v", got)
	}
	if got := testutil.ToFloat64(r.cacheLookups.WithLabelValues("hit")); got != 1 {
		t.Fatalf("expected 1 cache hit, got %v", got)
	}
	if got := testutil.ToFloat64(r.observations); got != 42 {
		t.Fatalf("expected 42 observations, got %v", got)
	}
}

func TestRecorderHandler(t *testing.T) {
	r := New(nil)
	r.RecordHTTP("/api/view", "GET", 200, 10*time.Millisecond)
	r.RecordLatency("select", time.Millisecond)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)

	for _, name := range []string{"priceview_http_requests_total", "priceview_operation_duration_seconds"} {
		if !strings.Contains(string(body), name) {
			t.Fatalf("expected %s in output", name)
		}
	}
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	r.RecordSelection("all-time", OutcomeOK)
	r.RecordLatency("select", time.Second)
	r.RecordStore(1, 1)
	r.RecordCache(true)
	r.RecordHTTP("/", "GET", 200, time.Second)
	if r.Handler() == nil {
		t.Fatal("nil recorder should still return a handler")
	}
}
