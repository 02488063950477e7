package services

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/vivla-tech/vivla-middleware/internal/core/domain"
	apperrors "github.com/vivla-tech/vivla-middleware/internal/core/errors"
	"github.com/vivla-tech/vivla-middleware/internal/core/ports"
)

// fromDatePattern checks shape and field ranges (month 01-12, day 01-31)
// without consulting a calendar: 2025-02-31 passes, 2025-13-01 does not.
var fromDatePattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])-(0[1-9]|[12]\d|3[01])$`)

// RequesterService collects every ticket for one home and groups them by
// requester.
type RequesterService struct {
	search    ports.TicketSearcher
	cache     ports.ReferenceCache
	formatter *TicketFormatter
	cfg       PaginationConfig
	logger    *slog.Logger
}

var _ ports.RequesterService = (*RequesterService)(nil)

// NewRequesterService creates the aggregator.
func NewRequesterService(
	search ports.TicketSearcher,
	cache ports.ReferenceCache,
	formatter *TicketFormatter,
	cfg PaginationConfig,
	logger *slog.Logger,
) *RequesterService {
	cfg.applyDefaults()
	return &RequesterService{
		search:    search,
		cache:     cache,
		formatter: formatter,
		cfg:       cfg,
		logger:    logger.With("component", "requesters"),
	}
}

// AggregateRequesters pages through all tickets for the home (optionally
// bounded by creation date), formats them, and counts tickets per requester.
// Requesters are ordered by descending count, ties keeping discovery order;
// tickets without a requester id are excluded from the grouping.
func (s *RequesterService) AggregateRequesters(ctx context.Context, params ports.RequesterParams) (*domain.RequesterBreakdown, error) {
	home := strings.TrimSpace(params.Home)
	if home == "" {
		return nil, apperrors.ErrHomeNameRequired
	}
	if params.FromDate != "" && !fromDatePattern.MatchString(params.FromDate) {
		return nil, apperrors.ErrInvalidDateFormat
	}

	tickets, err := s.collectTickets(ctx, home, params.FromDate)
	if err != nil {
		return nil, err
	}

	preloadTicketNames(ctx, s.cache, s.logger, tickets)

	formatted := make([]domain.FormattedTicket, 0, len(tickets))
	for _, t := range tickets {
		formatted = append(formatted, s.formatter.Format(ctx, t))
	}

	counts := make(map[int64]*domain.RequesterCount)
	var order []int64
	for _, t := range formatted {
		if t.RequesterID == nil {
			continue
		}
		id := *t.RequesterID
		if rc, ok := counts[id]; ok {
			rc.Count++
			continue
		}
		counts[id] = &domain.RequesterCount{ID: id, Name: t.RequesterName, Count: 1}
		order = append(order, id)
	}

	requesters := make([]domain.RequesterCount, 0, len(order))
	for _, id := range order {
		requesters = append(requesters, *counts[id])
	}
	sort.SliceStable(requesters, func(i, j int) bool {
		return requesters[i].Count > requesters[j].Count
	})

	return &domain.RequesterBreakdown{
		Requesters:      requesters,
		TotalRequesters: len(requesters),
		TotalTickets:    len(formatted),
	}, nil
}

func (s *RequesterService) collectTickets(ctx context.Context, home, fromDate string) ([]domain.Ticket, error) {
	query := fmt.Sprintf("type:ticket custom_field_%d:%q", s.cfg.HomeFieldID, home)
	if fromDate != "" {
		query += " created>=" + fromDate
	}

	var collected []domain.Ticket
	for page := 1; ; page++ {
		if page > s.cfg.MaxPages {
			s.logger.Warn("page ceiling reached, truncating results",
				"home", home, "max_pages", s.cfg.MaxPages)
			break
		}

		res, err := s.search.Search(ctx, ports.TicketSearchParams{
			Query:     query,
			Page:      page,
			PerPage:   s.cfg.PerPage,
			SortBy:    "created_at",
			SortOrder: "desc",
		})
		if err != nil {
			return nil, err
		}

		collected = append(collected, res.Results...)
		if !res.HasMore {
			break
		}
		if err := sleepContext(ctx, s.cfg.PageDelay); err != nil {
			return nil, err
		}
	}
	return collected, nil
}
