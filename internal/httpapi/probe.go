package httpapi

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kitbuilder587/osint-finder/internal/domain"
)

type queryEcho struct {
	PhoneNumber string `json:"phoneNumber"`
	Username    string `json:"username"`
}

type probeResponse struct {
	Success   bool                    `json:"success"`
	Results   []domain.BotProbeResult `json:"results"`
	Query     queryEcho               `json:"query"`
	Timestamp int64                   `json:"timestamp"`
}

// handleProbe: в отличие от ссылок, username приоритетнее телефона
func (s *Server) handleProbe(w http.ResponseWriter, r *http.Request, req searchRequest) {
	q := domain.NewPhoneQuery(req.PhoneNumber)
	if req.Username != "" {
		q = domain.NewUsernameQuery(req.Username)
	}

	results, err := s.prober.ProbeAll(r.Context(), q)
	if errors.Is(err, domain.ErrNoBotTokens) {
		s.logger.Error("no bot tokens configured")
		writeError(w, http.StatusInternalServerError, msgNoBotToken)
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	found := 0
	for _, res := range results {
		if res.Found {
			found++
		}
	}
	s.logger.Info("bots probed",
		zap.String("request_id", RequestIDFromContext(r.Context())),
		zap.Int("total", len(results)),
		zap.Int("found", found),
	)

	writeJSON(w, http.StatusOK, probeResponse{
		Success:   true,
		Results:   results,
		Query:     queryEcho{PhoneNumber: req.PhoneNumber, Username: req.Username},
		Timestamp: s.now().Unix(),
	})
}
