package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/vivla-tech/vivla-middleware/internal/core/domain"
	apperrors "github.com/vivla-tech/vivla-middleware/internal/core/errors"
	"github.com/vivla-tech/vivla-middleware/internal/core/ports"
)

// Pagination defaults shared by the aggregators.
const (
	defaultPerPage   = 100
	defaultMaxPages  = 1000
	defaultPageDelay = 200 * time.Millisecond
)

// PaginationConfig bounds the per-home page loops: a fixed page size, a hard
// page ceiling so a misbehaving upstream cannot loop us forever, and a small
// delay between page fetches to respect upstream rate limits.
type PaginationConfig struct {
	HomeFieldID int64
	PerPage     int
	MaxPages    int
	PageDelay   time.Duration
}

func (c *PaginationConfig) applyDefaults() {
	if c.PerPage <= 0 {
		c.PerPage = defaultPerPage
	}
	if c.MaxPages <= 0 {
		c.MaxPages = defaultMaxPages
	}
	if c.PageDelay <= 0 {
		c.PageDelay = defaultPageDelay
	}
}

// HomeStatsService drives the paginated collection of tickets per home and
// folds them into per-home counters and a bounded recent-tickets list.
type HomeStatsService struct {
	search    ports.TicketSearcher
	cache     ports.ReferenceCache
	formatter *TicketFormatter
	cfg       PaginationConfig
	logger    *slog.Logger
}

var _ ports.HomeStatsService = (*HomeStatsService)(nil)

// NewHomeStatsService creates the aggregator.
func NewHomeStatsService(
	search ports.TicketSearcher,
	cache ports.ReferenceCache,
	formatter *TicketFormatter,
	cfg PaginationConfig,
	logger *slog.Logger,
) *HomeStatsService {
	cfg.applyDefaults()
	return &HomeStatsService{
		search:    search,
		cache:     cache,
		formatter: formatter,
		cfg:       cfg,
		logger:    logger.With("component", "home_stats"),
	}
}

// AggregateHomeStats discovers every home referenced by recent tickets and
// aggregates each one's tickets. A discovery failure aborts the whole
// aggregation; a page-fetch failure drops only that home, which is recorded
// in the report's Failures list while the rest of the aggregate is kept.
func (s *HomeStatsService) AggregateHomeStats(ctx context.Context) (*domain.HomeStatsReport, error) {
	homes, err := s.discoverHomes(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrHomeDiscovery, err)
	}

	report := &domain.HomeStatsReport{
		Homes:    make(map[string]*domain.HomeStats, len(homes)),
		Failures: []domain.HomeFailure{},
	}

	for _, home := range homes {
		tickets, err := s.collectHomeTickets(ctx, home)
		if err != nil {
			// Already-collected pages for this home are dropped; a
			// half-counted home would be worse than a missing one.
			s.logger.Warn("skipping home after page fetch failure",
				"home", home, "error", err)
			report.Failures = append(report.Failures, domain.HomeFailure{
				Home:  home,
				Error: err.Error(),
			})
			continue
		}
		report.Homes[home] = s.fold(ctx, home, tickets)
	}

	return report, nil
}

// discoverHomes runs a single newest-first scan over tickets that carry the
// home field and returns the distinct home names in first-seen order.
func (s *HomeStatsService) discoverHomes(ctx context.Context) ([]string, error) {
	res, err := s.search.Search(ctx, ports.TicketSearchParams{
		Query:     fmt.Sprintf("type:ticket custom_field_%d:*", s.cfg.HomeFieldID),
		Page:      1,
		PerPage:   s.cfg.PerPage,
		SortBy:    "updated_at",
		SortOrder: "desc",
	})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var homes []string
	for _, t := range res.Results {
		name := s.formatter.HomeName(ctx, t)
		if name == "" || name == domain.UnknownHome {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		homes = append(homes, name)
	}
	return homes, nil
}

// collectHomeTickets pages through the search results for one home,
// sequentially, until the upstream reports no further page or the ceiling is
// reached.
func (s *HomeStatsService) collectHomeTickets(ctx context.Context, home string) ([]domain.Ticket, error) {
	var collected []domain.Ticket
	query := fmt.Sprintf("type:ticket custom_field_%d:%q", s.cfg.HomeFieldID, home)

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
			SortBy:    "updated_at",
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

// fold counts every ticket into the home's counters, then formats the ten
// most recently updated tickets and discards the rest of the buffer.
func (s *HomeStatsService) fold(ctx context.Context, home string, tickets []domain.Ticket) *domain.HomeStats {
	stats := domain.NewHomeStats(home)
	for _, t := range tickets {
		if !stats.Count(t.Status) {
			// Possible upstream schema drift: the ticket still
			// counts toward the total, but no status bucket sees it.
			s.logger.Warn("unrecognized ticket status, counted in total only",
				"ticket_id", t.ID, "status", string(t.Status))
		}
	}

	sort.SliceStable(tickets, func(i, j int) bool {
		return tickets[i].UpdatedAt.After(tickets[j].UpdatedAt)
	})
	recent := tickets
	if len(recent) > domain.MaxLastTickets {
		recent = recent[:domain.MaxLastTickets]
	}

	preloadTicketNames(ctx, s.cache, s.logger, recent)
	stats.LastTickets = make([]domain.FormattedTicket, 0, len(recent))
	for _, t := range recent {
		stats.LastTickets = append(stats.LastTickets, s.formatter.Format(ctx, t))
	}
	return stats
}

// sleepContext waits for d or until the context is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// preloadTicketNames batch-loads the user and group names the given tickets
// reference. Failures are logged; the formatter falls back to sentinels.
func preloadTicketNames(ctx context.Context, cache ports.ReferenceCache, logger *slog.Logger, tickets []domain.Ticket) {
	var userIDs, groupIDs []int64
	for _, t := range tickets {
		if t.RequesterID != nil {
			userIDs = append(userIDs, *t.RequesterID)
		}
		if t.AssigneeID != nil {
			userIDs = append(userIDs, *t.AssigneeID)
		}
		userIDs = append(userIDs, t.FollowerIDs...)
		if t.GroupID != nil {
			groupIDs = append(groupIDs, *t.GroupID)
		}
	}

	if len(userIDs) > 0 {
		if err := cache.EnsureUsers(ctx, userIDs); err != nil {
			logger.Warn("user name preload failed", "error", err)
		}
	}
	if len(groupIDs) > 0 {
		if err := cache.EnsureGroups(ctx, groupIDs); err != nil {
			logger.Warn("group name preload failed", "error", err)
		}
	}
}
