package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vivla-tech/vivla-middleware/internal/adapters/primary/validation"
	"github.com/vivla-tech/vivla-middleware/internal/core/ports"
)

// StatsHandler handles HTTP requests for the ticket aggregation endpoints
type StatsHandler struct {
	statsService     ports.HomeStatsService
	requesterService ports.RequesterService
	errorHandler     *ErrorHandler
	logger           *slog.Logger
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(
	statsService ports.HomeStatsService,
	requesterService ports.RequesterService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *StatsHandler {
	return &StatsHandler{
		statsService:     statsService,
		requesterService: requesterService,
		errorHandler:     errorHandler,
		logger:           logger.With("handler", "stats"),
	}
}

// Router sets up a new chi Router for all home-stats routes.
func (h *StatsHandler) Router() http.Handler {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes sets up the routing for the aggregation endpoints.
func (h *StatsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/stats", h.HandleHomeStats)
	r.Get("/{home}/requesters", h.HandleRequesters)
}

// HandleHomeStats runs the full per-home aggregation and returns one stats
// block per discovered home. This walks every home's ticket history upstream,
// so it is the slowest endpoint in the API.
func (h *StatsHandler) HandleHomeStats(w http.ResponseWriter, r *http.Request) {
	report, err := h.statsService.AggregateHomeStats(r.Context())
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteSuccess(w, report)
}

// HandleRequesters groups one home's tickets by requester, optionally bounded
// by a from date.
func (h *StatsHandler) HandleRequesters(w http.ResponseWriter, r *http.Request) {
	home := chi.URLParam(r, "home")
	fromDate := ""
	if from := validation.ParseStringQueryParam(r, "from"); from != nil {
		fromDate = *from
	}

	v := validation.NewValidator()
	v.Required("home", home).
		Date("from", fromDate)
	if v.HasErrors() {
		h.errorHandler.Handle(w, r, v.Errors())
		return
	}

	breakdown, err := h.requesterService.AggregateRequesters(r.Context(), ports.RequesterParams{
		Home:     home,
		FromDate: fromDate,
	})
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteSuccess(w, breakdown)
}
