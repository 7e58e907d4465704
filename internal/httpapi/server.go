package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kitbuilder587/osint-finder/internal/domain"
	"github.com/kitbuilder587/osint-finder/internal/metrics"
)

type LinkGenerator interface {
	Generate(q domain.SearchQuery) []domain.SourceCategory
}

type BotProber interface {
	ProbeAll(ctx context.Context, q domain.SearchQuery) ([]domain.BotProbeResult, error)
}

type Server struct {
	links   LinkGenerator
	prober  BotProber
	logger  *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewServer: m может быть nil, тогда метрики не пишутся и /metrics не монтируется
func NewServer(links LinkGenerator, prober BotProber, logger *zap.Logger, m *metrics.Metrics) *Server {
	return &Server{
		links:   links,
		prober:  prober,
		logger:  logger,
		metrics: m,
		now:     time.Now,
	}
}

func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestID)

	r.HandleFunc("/osint-search", s.envelope("osint-search", s.handleLinks))
	r.HandleFunc("/telegram-search", s.envelope("telegram-search", s.handleProbe))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}

	return r
}
