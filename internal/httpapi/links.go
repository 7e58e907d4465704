package httpapi

import (
	"net/http"

	"github.com/kitbuilder587/osint-finder/internal/domain"
)

type linksResponse struct {
	Success    bool                    `json:"success"`
	SearchType domain.QueryKind        `json:"searchType"`
	Query      string                  `json:"query"`
	Sources    []domain.SourceCategory `json:"sources"`
	Timestamp  int64                   `json:"timestamp"`
}

// handleLinks: если пришли оба поля, ищем по телефону
func (s *Server) handleLinks(w http.ResponseWriter, r *http.Request, req searchRequest) {
	q := domain.NewUsernameQuery(req.Username)
	if req.PhoneNumber != "" {
		q = domain.NewPhoneQuery(req.PhoneNumber)
	}

	sources := s.links.Generate(q)
	if sources == nil {
		sources = []domain.SourceCategory{}
	}
	if s.metrics != nil {
		s.metrics.RecordLinks(q.Kind.String())
	}

	writeJSON(w, http.StatusOK, linksResponse{
		Success:    true,
		SearchType: q.Kind,
		Query:      q.Raw,
		Sources:    sources,
		Timestamp:  s.now().Unix(),
	})
}
