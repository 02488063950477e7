package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vivla-tech/vivla-middleware/internal/core/services"
)

// CalendarHandler serves the static reference calendars
type CalendarHandler struct {
	calendarService *services.CalendarService
}

// NewCalendarHandler creates a new calendar handler
func NewCalendarHandler(calendarService *services.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarService: calendarService}
}

// Router sets up a new chi Router for all calendar routes.
func (h *CalendarHandler) Router() http.Handler {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes sets up the routing for the calendar endpoints.
func (h *CalendarHandler) RegisterRoutes(r chi.Router) {
	r.Get("/revisions", h.HandleAnnualRevisions)
	r.Get("/checkpoints", h.HandleCheckpoints)
	r.Get("/inspections", h.HandleInspections)
}

func (h *CalendarHandler) HandleAnnualRevisions(w http.ResponseWriter, r *http.Request) {
	WriteList(w, h.calendarService.AnnualRevisions())
}

func (h *CalendarHandler) HandleCheckpoints(w http.ResponseWriter, r *http.Request) {
	WriteList(w, h.calendarService.Checkpoints())
}

func (h *CalendarHandler) HandleInspections(w http.ResponseWriter, r *http.Request) {
	WriteList(w, h.calendarService.Inspections())
}
