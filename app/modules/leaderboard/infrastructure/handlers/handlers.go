package leaderboardhandlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	leaderboardservice "github.com/satrf/scorekeeper/app/modules/leaderboard/application"
)

// ShooterParam is the route parameter holding the shooter name.
const ShooterParam = "name"

// LeaderboardHandlers handles the public leaderboard HTTP endpoints.
type LeaderboardHandlers struct {
	service leaderboardservice.Service
	logger  *slog.Logger
	maxAge  time.Duration
	now     func() time.Time
}

// NewLeaderboardHandlers creates a new LeaderboardHandlers. Responses
// carry a public Cache-Control of maxAge when it is positive.
func NewLeaderboardHandlers(service leaderboardservice.Service, logger *slog.Logger, maxAge time.Duration) Handlers {
	return &LeaderboardHandlers{
		service: service,
		logger:  logger,
		maxAge:  maxAge,
		now:     time.Now,
	}
}

// HandleOverall serves the individual ranking.
func (h *LeaderboardHandlers) HandleOverall(w http.ResponseWriter, r *http.Request) {
	filters, err := leaderboardservice.ParseFilters(r.URL.Query(), h.now().UTC())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	board, err := h.service.OverallBoard(r.Context(), filters)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeCacheable(w, board)
}

// HandleClubs serves the club ranking.
func (h *LeaderboardHandlers) HandleClubs(w http.ResponseWriter, r *http.Request) {
	filters, err := leaderboardservice.ParseFilters(r.URL.Query(), h.now().UTC())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	board, err := h.service.ClubBoard(r.Context(), filters)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeCacheable(w, board)
}

// HandleMatch serves the placings of one match.
func (h *LeaderboardHandlers) HandleMatch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, limit, err := leaderboardservice.ParsePage(q)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	board, err := h.service.MatchBoard(r.Context(), leaderboardservice.MatchQuery{
		EventName:   strings.TrimSpace(q.Get("eventName")),
		MatchNumber: strings.TrimSpace(q.Get("matchNumber")),
		Class:       strings.TrimSpace(q.Get("class")),
		Page:        page,
		Limit:       limit,
	})
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeCacheable(w, board)
}

// HandleShooterStatistics serves one shooter's summary and ranks.
func (h *LeaderboardHandlers) HandleShooterStatistics(w http.ResponseWriter, r *http.Request) {
	name, ok := shooterName(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid shooter name")
		return
	}
	stats, err := h.service.ShooterStatistics(r.Context(), name)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeCacheable(w, stats)
}

// HandleShooterChart serves one shooter's score history as a PNG.
func (h *LeaderboardHandlers) HandleShooterChart(w http.ResponseWriter, r *http.Request) {
	name, ok := shooterName(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid shooter name")
		return
	}
	img, err := h.service.ShooterChart(r.Context(), name)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.cacheHeaders(w)
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img)
}

func shooterName(r *http.Request) (string, bool) {
	name, err := url.PathUnescape(chi.URLParam(r, ShooterParam))
	if err != nil || strings.TrimSpace(name) == "" {
		return "", false
	}
	return name, true
}

func (h *LeaderboardHandlers) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	var filterErr *leaderboardservice.FilterError
	switch {
	case errors.As(err, &filterErr):
		writeError(w, http.StatusBadRequest, filterErr.Error())
	case errors.Is(err, leaderboardservice.ErrShooterNotFound):
		writeError(w, http.StatusNotFound, "Shooter not found")
	default:
		h.logger.ErrorContext(r.Context(), "Leaderboard request failed",
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func (h *LeaderboardHandlers) cacheHeaders(w http.ResponseWriter) {
	if h.maxAge > 0 {
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(h.maxAge.Seconds())))
	}
}

func (h *LeaderboardHandlers) writeCacheable(w http.ResponseWriter, v any) {
	h.cacheHeaders(w)
	writeJSON(w, http.StatusOK, v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
