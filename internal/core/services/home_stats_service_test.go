package services_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vivla-tech/vivla-middleware/internal/core/domain"
	apperrors "github.com/vivla-tech/vivla-middleware/internal/core/errors"
	"github.com/vivla-tech/vivla-middleware/internal/core/mocks"
	"github.com/vivla-tech/vivla-middleware/internal/core/ports"
	"github.com/vivla-tech/vivla-middleware/internal/core/services"
)

func newStatsFixture(t *testing.T) (*services.HomeStatsService, *mocks.MockTicketSearcher, *mocks.MockUserLookup, *mocks.MockGroupLookup) {
	t.Helper()
	search := mocks.NewMockTicketSearcher()
	fields := mocks.NewMockFieldMetadataProvider()
	users := mocks.NewMockUserLookup()
	groups := mocks.NewMockGroupLookup()
	logger := slog.New(slog.DiscardHandler)

	fields.On("GetTicketField", mock.Anything, testHomeFieldID).Return(homeFieldDefinition(), nil)

	cache := services.NewReferenceCacheService(fields, users, groups, logger)
	formatter := services.NewTicketFormatter(cache, services.TrackedFields{Home: testHomeFieldID})

	svc := services.NewHomeStatsService(search, cache, formatter, services.PaginationConfig{
		HomeFieldID: testHomeFieldID,
		PerPage:     100,
		MaxPages:    5,
		PageDelay:   time.Millisecond,
	}, logger)
	return svc, search, users, groups
}

// queryFor matches search calls for one home's tickets on a given page.
func queryFor(home string, page int) interface{} {
	return mock.MatchedBy(func(p ports.TicketSearchParams) bool {
		return p.Query == fmt.Sprintf("type:ticket custom_field_%d:%q", testHomeFieldID, home) && p.Page == page
	})
}

// discoveryQuery matches the single home-discovery scan.
func discoveryQuery() interface{} {
	return mock.MatchedBy(func(p ports.TicketSearchParams) bool {
		return p.Query == fmt.Sprintf("type:ticket custom_field_%d:*", testHomeFieldID) && p.Page == 1
	})
}

func homeTicket(id int64, home string, status domain.TicketStatus, updated time.Time) domain.Ticket {
	return domain.Ticket{
		ID:        id,
		Status:    status,
		UpdatedAt: updated,
		CustomFields: []domain.CustomField{
			{ID: testHomeFieldID, Value: domain.FieldValue{Kind: domain.FieldString, Str: home}},
		},
	}
}

func TestHomeStatsService_AggregateHomeStats(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

	t.Run("aggregates counters per home", func(t *testing.T) {
		svc, search, users, _ := newStatsFixture(t)

		search.On("Search", ctx, discoveryQuery()).Return(&ports.TicketSearchResult{
			Results: []domain.Ticket{
				homeTicket(1, "casa_saona", domain.StatusOpen, base),
				homeTicket(2, "son_parc", domain.StatusSolved, base),
				homeTicket(3, "casa_saona", domain.StatusNew, base),
			},
		}, nil).Once()

		search.On("Search", ctx, queryFor("Casa Saona", 1)).Return(&ports.TicketSearchResult{
			Results: []domain.Ticket{
				homeTicket(1, "casa_saona", domain.StatusOpen, base.Add(2*time.Hour)),
				homeTicket(3, "casa_saona", domain.StatusNew, base.Add(time.Hour)),
				homeTicket(4, "casa_saona", domain.StatusSolved, base),
			},
		}, nil).Once()
		search.On("Search", ctx, queryFor("Son Parc", 1)).Return(&ports.TicketSearchResult{
			Results: []domain.Ticket{
				homeTicket(2, "son_parc", domain.StatusSolved, base),
			},
		}, nil).Once()

		users.On("GetUsersByIDs", mock.Anything, mock.Anything).Return(nil, nil).Maybe()

		report, err := svc.AggregateHomeStats(ctx)
		require.NoError(t, err)
		require.Len(t, report.Homes, 2)
		assert.Empty(t, report.Failures)

		saona := report.Homes["Casa Saona"]
		require.NotNil(t, saona)
		assert.Equal(t, 3, saona.TotalTickets)
		assert.Equal(t, 1, saona.TicketsOpen)
		assert.Equal(t, 1, saona.TicketsNew)
		assert.Equal(t, 1, saona.TicketsSolved)
		assert.Equal(t, saona.TotalTickets, saona.StatusSum())

		// Most recently updated first.
		require.Len(t, saona.LastTickets, 3)
		assert.Equal(t, int64(1), saona.LastTickets[0].ID)
		assert.Equal(t, int64(3), saona.LastTickets[1].ID)

		parc := report.Homes["Son Parc"]
		require.NotNil(t, parc)
		assert.Equal(t, 1, parc.TotalTickets)
		assert.Equal(t, 1, parc.TicketsSolved)

		search.AssertExpectations(t)
	})

	t.Run("unrecognized status counts toward total only", func(t *testing.T) {
		svc, search, _, _ := newStatsFixture(t)

		search.On("Search", ctx, discoveryQuery()).Return(&ports.TicketSearchResult{
			Results: []domain.Ticket{homeTicket(1, "casa_saona", "weird", base)},
		}, nil).Once()
		search.On("Search", ctx, queryFor("Casa Saona", 1)).Return(&ports.TicketSearchResult{
			Results: []domain.Ticket{
				homeTicket(1, "casa_saona", "weird", base),
				homeTicket(2, "casa_saona", domain.StatusOpen, base),
			},
		}, nil).Once()

		report, err := svc.AggregateHomeStats(ctx)
		require.NoError(t, err)

		saona := report.Homes["Casa Saona"]
		require.NotNil(t, saona)
		assert.Equal(t, 2, saona.TotalTickets)
		assert.Equal(t, 1, saona.StatusSum())
	})

	t.Run("caps last tickets at ten", func(t *testing.T) {
		svc, search, _, _ := newStatsFixture(t)

		var tickets []domain.Ticket
		for i := 0; i < 15; i++ {
			tickets = append(tickets, homeTicket(int64(i+1), "casa_saona", domain.StatusOpen, base.Add(time.Duration(i)*time.Minute)))
		}

		search.On("Search", ctx, discoveryQuery()).Return(&ports.TicketSearchResult{
			Results: tickets[:1],
		}, nil).Once()
		search.On("Search", ctx, queryFor("Casa Saona", 1)).Return(&ports.TicketSearchResult{
			Results: tickets,
		}, nil).Once()

		report, err := svc.AggregateHomeStats(ctx)
		require.NoError(t, err)

		saona := report.Homes["Casa Saona"]
		require.NotNil(t, saona)
		assert.Equal(t, 15, saona.TotalTickets)
		require.Len(t, saona.LastTickets, domain.MaxLastTickets)
		// Newest (highest offset) first.
		assert.Equal(t, int64(15), saona.LastTickets[0].ID)
	})

	t.Run("follows pagination until no more pages", func(t *testing.T) {
		svc, search, _, _ := newStatsFixture(t)

		search.On("Search", ctx, discoveryQuery()).Return(&ports.TicketSearchResult{
			Results: []domain.Ticket{homeTicket(1, "casa_saona", domain.StatusOpen, base)},
		}, nil).Once()
		search.On("Search", ctx, queryFor("Casa Saona", 1)).Return(&ports.TicketSearchResult{
			Results: []domain.Ticket{homeTicket(1, "casa_saona", domain.StatusOpen, base)},
			HasMore: true,
		}, nil).Once()
		search.On("Search", ctx, queryFor("Casa Saona", 2)).Return(&ports.TicketSearchResult{
			Results: []domain.Ticket{homeTicket(2, "casa_saona", domain.StatusOpen, base)},
		}, nil).Once()

		report, err := svc.AggregateHomeStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, report.Homes["Casa Saona"].TotalTickets)

		search.AssertExpectations(t)
	})

	t.Run("discovery failure aborts the aggregation", func(t *testing.T) {
		svc, search, _, _ := newStatsFixture(t)

		search.On("Search", ctx, discoveryQuery()).
			Return(nil, errors.New("search unavailable")).Once()

		report, err := svc.AggregateHomeStats(ctx)
		assert.Nil(t, report)
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrHomeDiscovery)
	})

	t.Run("page failure drops only that home", func(t *testing.T) {
		svc, search, _, _ := newStatsFixture(t)

		search.On("Search", ctx, discoveryQuery()).Return(&ports.TicketSearchResult{
			Results: []domain.Ticket{
				homeTicket(1, "casa_saona", domain.StatusOpen, base),
				homeTicket(2, "son_parc", domain.StatusOpen, base),
			},
		}, nil).Once()
		search.On("Search", ctx, queryFor("Casa Saona", 1)).
			Return(nil, errors.New("page fetch failed")).Once()
		search.On("Search", ctx, queryFor("Son Parc", 1)).Return(&ports.TicketSearchResult{
			Results: []domain.Ticket{homeTicket(2, "son_parc", domain.StatusOpen, base)},
		}, nil).Once()

		report, err := svc.AggregateHomeStats(ctx)
		require.NoError(t, err)

		assert.NotContains(t, report.Homes, "Casa Saona")
		assert.Contains(t, report.Homes, "Son Parc")
		require.Len(t, report.Failures, 1)
		assert.Equal(t, "Casa Saona", report.Failures[0].Home)
		assert.Contains(t, report.Failures[0].Error, "page fetch failed")
	})

	t.Run("home with no tickets keeps an empty aggregate", func(t *testing.T) {
		svc, search, _, _ := newStatsFixture(t)

		search.On("Search", ctx, discoveryQuery()).Return(&ports.TicketSearchResult{
			Results: []domain.Ticket{homeTicket(1, "casa_saona", domain.StatusOpen, base)},
		}, nil).Once()
		// All tickets were closed out between discovery and collection.
		search.On("Search", ctx, queryFor("Casa Saona", 1)).Return(&ports.TicketSearchResult{
			Results: []domain.Ticket{},
		}, nil).Once()

		report, err := svc.AggregateHomeStats(ctx)
		require.NoError(t, err)

		saona := report.Homes["Casa Saona"]
		require.NotNil(t, saona)
		assert.Equal(t, 0, saona.TotalTickets)
		assert.NotNil(t, saona.LastTickets)
		assert.Empty(t, saona.LastTickets)
	})
}
