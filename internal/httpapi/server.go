package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/pmorin/netwatch/internal/stats"
)

// customRangeMaxPoints caps how many buckets a custom date range produces
// per host; the dashboard renders 30 points regardless of range length.
const customRangeMaxPoints = 30

type Server struct {
	Logger *zap.Logger
	Stats  *stats.Aggregator
}

func NewServer(l *zap.Logger, agg *stats.Aggregator) *Server {
	return &Server{Logger: l, Stats: agg}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/api/summary", s.handleSummary)
	r.Get("/api/history/custom", s.handleHistoryCustom)
	r.Get("/api/history/{period}", s.handleHistory)
	r.Get("/api/outages", s.handleOutages)

	return r
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	hours, err := hoursParam(r, 24)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sums, err := s.Stats.Summarize(r.Context(), hours)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, sums)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	points, err := s.Stats.History(r.Context(), chi.URLParam(r, "period"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, points)
}

func (s *Server) handleHistoryCustom(w http.ResponseWriter, r *http.Request) {
	start, err := dateParam(r, "start")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	end, err := dateParam(r, "end")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// calendar dates expand to the full days they name
	end = end.Add(24*time.Hour - time.Second)

	points, err := s.Stats.HistoryRange(r.Context(), start, end, customRangeMaxPoints)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, points)
}

func (s *Server) handleOutages(w http.ResponseWriter, r *http.Request) {
	hours, err := hoursParam(r, 24)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	outages, err := s.Stats.Outages(r.Context(), hours)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, outages)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Warn("response_encode_error", zap.Error(err))
	}
}

// writeError maps request errors to 400 and everything else to 500. A store
// read failure surfaces as a query failure, never as a partial result.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, stats.ErrBadRequest) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.Logger.Error("query_error", zap.Error(err))
	http.Error(w, "query failed", http.StatusInternalServerError)
}

func hoursParam(r *http.Request, def int) (int, error) {
	raw := r.URL.Query().Get("hours")
	if raw == "" {
		return def, nil
	}
	hours, err := strconv.Atoi(raw)
	if err != nil || hours <= 0 {
		return 0, errors.New("hours must be a positive integer")
	}
	return hours, nil
}

func dateParam(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, errors.New(name + " must be a date in YYYY-MM-DD form")
	}
	return t.UTC(), nil
}
