package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vivla-tech/vivla-middleware/internal/core/ports"
)

// HouseHandler handles HTTP requests for the house catalog
type HouseHandler struct {
	houseService ports.HouseService
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewHouseHandler creates a new house handler
func NewHouseHandler(
	houseService ports.HouseService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *HouseHandler {
	return &HouseHandler{
		houseService: houseService,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "house"),
	}
}

// Router sets up a new chi Router for all house routes.
func (h *HouseHandler) Router() http.Handler {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes sets up the routing for all house endpoints.
func (h *HouseHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleListHouses)
	r.Get("/{hid}", h.HandleGetHouse)
}

// HandleListHouses returns every house in the catalog with its reconciled
// helpdesk name.
func (h *HouseHandler) HandleListHouses(w http.ResponseWriter, r *http.Request) {
	houses, err := h.houseService.ListHouses(r.Context())
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteList(w, houses)
}

// HandleGetHouse returns a single house by its HID.
func (h *HouseHandler) HandleGetHouse(w http.ResponseWriter, r *http.Request) {
	hid := chi.URLParam(r, "hid")

	house, err := h.houseService.GetHouseByHID(r.Context(), hid)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteSuccess(w, house)
}
