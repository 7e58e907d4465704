package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	msgMethodNotAllowed = "Method not allowed"
	msgInvalidJSON      = "Invalid JSON"
	msgMissingQuery     = "Phone number or username required"
	msgInternal         = "Internal server error"
	msgNoBotToken       = "Bot token not configured"
)

const maxBodyBytes = 1 << 20

var errInvalidJSON = errors.New("invalid json")

type searchRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Username    string `json:"username"`
}

func (r *searchRequest) empty() bool {
	return r.PhoneNumber == "" && r.Username == ""
}

type errorResponse struct {
	Error string `json:"error"`
}

// searchHandler получает уже провалидированный запрос: POST, валидный JSON, есть phone или username
type searchHandler func(w http.ResponseWriter, r *http.Request, req searchRequest)

// envelope - общая обвязка для обоих хендлеров: CORS, метод, JSON, 500 без деталей.
func (s *Server) envelope(name string, next searchHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		if s.metrics != nil {
			s.metrics.IncRequestsInFlight()
			defer func() {
				s.metrics.DecRequestsInFlight()
				s.metrics.RecordRequest(name, strconv.Itoa(rec.status), time.Since(start))
			}()
		}

		defer func() {
			if p := recover(); p != nil {
				s.internalError(rec, r, fmt.Errorf("panic: %v", p))
			}
		}()

		rec.Header().Set("Access-Control-Allow-Origin", "*")

		switch r.Method {
		case http.MethodOptions:
			h := rec.Header()
			h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type")
			h.Set("Access-Control-Max-Age", "86400")
			rec.WriteHeader(http.StatusOK)
			return
		case http.MethodPost:
		default:
			writeError(rec, http.StatusMethodNotAllowed, msgMethodNotAllowed)
			return
		}

		req, err := decodeSearchRequest(r.Body)
		if err != nil {
			s.logger.Debug("bad request body", zap.String("handler", name), zap.Error(err))
			writeError(rec, http.StatusBadRequest, msgInvalidJSON)
			return
		}
		if req.empty() {
			writeError(rec, http.StatusBadRequest, msgMissingQuery)
			return
		}

		next(rec, r, req)

		s.logger.Info("request handled",
			zap.String("handler", name),
			zap.String("request_id", RequestIDFromContext(r.Context())),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

// decodeSearchRequest: пустое тело = {}. Не-объект и не-строковые поля - invalid json.
func decodeSearchRequest(body io.Reader) (searchRequest, error) {
	var req searchRequest

	data, err := io.ReadAll(io.LimitReader(body, maxBodyBytes))
	if err != nil {
		return req, fmt.Errorf("%w: read body: %v", errInvalidJSON, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return req, nil
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("%w: %v", errInvalidJSON, err)
	}

	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	req.Username = strings.TrimSpace(req.Username)
	return req, nil
}

// internalError логирует детали, клиенту отдаёт фиксированный текст
func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("request failed",
		zap.String("path", r.URL.Path),
		zap.String("request_id", RequestIDFromContext(r.Context())),
		zap.Error(err),
	)
	writeError(w, http.StatusInternalServerError, msgInternal)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.wroteHeader {
		return
	}
	r.status = code
	r.wroteHeader = true
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	return r.ResponseWriter.Write(b)
}
