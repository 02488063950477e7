package services

import (
	"context"
	"log/slog"

	"github.com/vivla-tech/vivla-middleware/internal/core/domain"
	"github.com/vivla-tech/vivla-middleware/internal/core/ports"
)

// TicketService serves plain paginated ticket listings in the normalized
// dashboard shape.
type TicketService struct {
	search    ports.TicketSearcher
	cache     ports.ReferenceCache
	formatter *TicketFormatter
	perPage   int
	logger    *slog.Logger
}

var _ ports.TicketService = (*TicketService)(nil)

// NewTicketService creates the listing service.
func NewTicketService(
	search ports.TicketSearcher,
	cache ports.ReferenceCache,
	formatter *TicketFormatter,
	perPage int,
	logger *slog.Logger,
) *TicketService {
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	return &TicketService{
		search:    search,
		cache:     cache,
		formatter: formatter,
		perPage:   perPage,
		logger:    logger.With("component", "tickets"),
	}
}

// ListTickets returns one formatted page and whether more pages exist.
func (s *TicketService) ListTickets(ctx context.Context, page int) ([]domain.FormattedTicket, bool, error) {
	if page < 1 {
		page = 1
	}

	res, err := s.search.ListTickets(ctx, page, s.perPage)
	if err != nil {
		return nil, false, err
	}

	preloadTicketNames(ctx, s.cache, s.logger, res.Tickets)
	formatted := make([]domain.FormattedTicket, 0, len(res.Tickets))
	for _, t := range res.Tickets {
		formatted = append(formatted, s.formatter.Format(ctx, t))
	}
	return formatted, res.HasMore, nil
}
