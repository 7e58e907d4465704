package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge

	LinksGeneratedTotal *prometheus.CounterVec

	BotProbesTotal   *prometheus.CounterVec
	BotProbeDuration prometheus.Histogram

	gatherer prometheus.Gatherer
}

// New регистрирует метрики в reg. В тестах передавать prometheus.NewRegistry(),
// иначе повторная регистрация в глобальном реестре паникует.
// Handler отдаёт тот же reg, если он умеет Gather, иначе глобальный реестр.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	gatherer, ok := reg.(prometheus.Gatherer)
	if !ok {
		gatherer = prometheus.DefaultGatherer
	}

	m := &Metrics{
		gatherer: gatherer,

		RequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "osint_finder_requests_total",
				Help: "Total number of HTTP requests processed",
			},
			[]string{"handler", "status"},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "osint_finder_request_duration_seconds",
				Help:    "Request duration in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"handler"},
		),
		RequestsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "osint_finder_requests_in_flight",
				Help: "Number of requests currently being processed",
			},
		),

		LinksGeneratedTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "osint_finder_links_generated_total",
				Help: "Total number of link catalogs generated",
			},
			[]string{"kind"},
		),

		BotProbesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "osint_finder_bot_probes_total",
				Help: "Total number of Telegram bot probes",
			},
			[]string{"source", "status"},
		),
		BotProbeDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "osint_finder_bot_probe_duration_seconds",
				Help:    "Telegram bot probe duration in seconds",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20},
			},
		),
	}

	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) RecordRequest(handler, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(handler, status).Inc()
	m.RequestDuration.WithLabelValues(handler).Observe(duration.Seconds())
}

func (m *Metrics) RecordLinks(kind string) {
	m.LinksGeneratedTotal.WithLabelValues(kind).Inc()
}

func (m *Metrics) RecordBotProbe(source, status string, duration time.Duration) {
	m.BotProbesTotal.WithLabelValues(source, status).Inc()
	m.BotProbeDuration.Observe(duration.Seconds())
}

func (m *Metrics) IncRequestsInFlight() {
	m.RequestsInFlight.Inc()
}

func (m *Metrics) DecRequestsInFlight() {
	m.RequestsInFlight.Dec()
}
