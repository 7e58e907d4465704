package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_RecordRequest(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordRequest("osint-search", "200", 10*time.Millisecond)
	m.RecordRequest("osint-search", "200", 20*time.Millisecond)
	m.RecordRequest("osint-search", "400", time.Millisecond)

	if got := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("osint-search", "200")); got != 2 {
		t.Errorf("requests 200 = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("osint-search", "400")); got != 1 {
		t.Errorf("requests 400 = %v, want 1", got)
	}
}

func TestMetrics_RecordBotProbe(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordBotProbe("bot-1", "found", time.Second)
	m.RecordBotProbe("bot-2", "unavailable", time.Second)

	if got := testutil.ToFloat64(m.BotProbesTotal.WithLabelValues("bot-1", "found")); got != 1 {
		t.Errorf("found probes = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.BotProbesTotal); got != 2 {
		t.Errorf("probe series = %d, want 2", got)
	}
}

func TestMetrics_InFlight(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncRequestsInFlight()
	m.IncRequestsInFlight()
	m.DecRequestsInFlight()

	if got := testutil.ToFloat64(m.RequestsInFlight); got != 1 {
		t.Errorf("in flight = %v, want 1", got)
	}
}

func TestNew_SeparateRegistries(t *testing.T) {
	New(prometheus.NewRegistry())
	New(prometheus.NewRegistry())
}

func TestHandler_ServesOwnRegistry(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.RecordLinks("phone")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `osint_finder_links_generated_total{kind="phone"} 1`) {
		t.Errorf("metrics output has no links counter:\n%s", body)
	}
}
