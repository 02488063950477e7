package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vivla-tech/vivla-middleware/internal/adapters/primary/validation"
	"github.com/vivla-tech/vivla-middleware/internal/core/ports"
)

// TicketHandler handles HTTP requests for the formatted ticket listing
type TicketHandler struct {
	ticketService ports.TicketService
	errorHandler  *ErrorHandler
	logger        *slog.Logger
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(
	ticketService ports.TicketService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *TicketHandler {
	return &TicketHandler{
		ticketService: ticketService,
		errorHandler:  errorHandler,
		logger:        logger.With("handler", "ticket"),
	}
}

// Router sets up a new chi Router for all ticket routes.
func (h *TicketHandler) Router() http.Handler {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes sets up the routing for all ticket endpoints.
func (h *TicketHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleListTickets)
}

// HandleListTickets returns one page of fully formatted tickets.
func (h *TicketHandler) HandleListTickets(w http.ResponseWriter, r *http.Request) {
	page := validation.ParseIntQueryParam(r, "page", 1)
	if page < 1 {
		page = 1
	}

	tickets, hasMore, err := h.ticketService.ListTickets(r.Context(), page)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WritePage(w, tickets, page, hasMore)
}
