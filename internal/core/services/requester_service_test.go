package services_test

import (
	"context"
	"errors"
	"log/slog"
	"strings"
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

func newRequesterFixture(t *testing.T, maxPages int) (*services.RequesterService, *mocks.MockTicketSearcher, *mocks.MockUserLookup) {
	t.Helper()
	search := mocks.NewMockTicketSearcher()
	fields := mocks.NewMockFieldMetadataProvider()
	users := mocks.NewMockUserLookup()
	groups := mocks.NewMockGroupLookup()
	logger := slog.New(slog.DiscardHandler)

	fields.On("GetTicketField", mock.Anything, testHomeFieldID).Return(homeFieldDefinition(), nil).Maybe()

	cache := services.NewReferenceCacheService(fields, users, groups, logger)
	formatter := services.NewTicketFormatter(cache, services.TrackedFields{Home: testHomeFieldID})

	svc := services.NewRequesterService(search, cache, formatter, services.PaginationConfig{
		HomeFieldID: testHomeFieldID,
		PerPage:     100,
		MaxPages:    maxPages,
		PageDelay:   time.Millisecond,
	}, logger)
	return svc, search, users
}

func requesterTicket(id, requesterID int64) domain.Ticket {
	t := domain.Ticket{ID: id}
	if requesterID != 0 {
		t.RequesterID = &requesterID
	}
	return t
}

func TestRequesterService_AggregateRequesters(t *testing.T) {
	ctx := context.Background()

	t.Run("empty home name is rejected", func(t *testing.T) {
		svc, search, _ := newRequesterFixture(t, 5)

		_, err := svc.AggregateRequesters(ctx, ports.RequesterParams{Home: "   "})
		assert.ErrorIs(t, err, apperrors.ErrHomeNameRequired)
		search.AssertNotCalled(t, "Search")
	})

	t.Run("malformed from date is rejected", func(t *testing.T) {
		svc, search, _ := newRequesterFixture(t, 5)

		for _, bad := range []string{"01-01-2025", "2025/01/01", "2025-1-1", "yesterday"} {
			_, err := svc.AggregateRequesters(ctx, ports.RequesterParams{Home: "Casa Saona", FromDate: bad})
			assert.ErrorIs(t, err, apperrors.ErrInvalidDateFormat, bad)
		}
		search.AssertNotCalled(t, "Search")
	})

	t.Run("out-of-range month or day is rejected", func(t *testing.T) {
		svc, search, _ := newRequesterFixture(t, 5)

		for _, bad := range []string{"2025-13-01", "2025-00-10", "2025-01-00", "2025-01-32"} {
			_, err := svc.AggregateRequesters(ctx, ports.RequesterParams{Home: "Casa Saona", FromDate: bad})
			assert.ErrorIs(t, err, apperrors.ErrInvalidDateFormat, bad)
		}
		search.AssertNotCalled(t, "Search")
	})

	t.Run("day range is not calendar-checked", func(t *testing.T) {
		// 2025-02-31 fits the field ranges; the upstream search owns
		// calendar validity.
		svc, search, _ := newRequesterFixture(t, 5)

		search.On("Search", ctx, mock.MatchedBy(func(p ports.TicketSearchParams) bool {
			return strings.Contains(p.Query, "created>=2025-02-31")
		})).Return(&ports.TicketSearchResult{}, nil).Once()

		_, err := svc.AggregateRequesters(ctx, ports.RequesterParams{Home: "Casa Saona", FromDate: "2025-02-31"})
		require.NoError(t, err)
		search.AssertExpectations(t)
	})

	t.Run("groups tickets by requester ordered by count", func(t *testing.T) {
		svc, search, users := newRequesterFixture(t, 5)

		search.On("Search", ctx, mock.Anything).Return(&ports.TicketSearchResult{
			Results: []domain.Ticket{
				requesterTicket(1, 10), // Alice
				requesterTicket(2, 20), // Bob
				requesterTicket(3, 20), // Bob
				requesterTicket(4, 0),  // no requester, excluded from grouping
			},
		}, nil).Once()

		users.On("GetUsersByIDs", mock.Anything, mock.Anything).Return([]domain.UserRecord{
			{ID: 10, Name: "Alice"},
			{ID: 20, Name: "Bob"},
		}, nil).Once()

		breakdown, err := svc.AggregateRequesters(ctx, ports.RequesterParams{Home: "Casa Saona"})
		require.NoError(t, err)

		require.Len(t, breakdown.Requesters, 2)
		assert.Equal(t, "Bob", breakdown.Requesters[0].Name)
		assert.Equal(t, 2, breakdown.Requesters[0].Count)
		assert.Equal(t, "Alice", breakdown.Requesters[1].Name)
		assert.Equal(t, 1, breakdown.Requesters[1].Count)

		assert.Equal(t, 2, breakdown.TotalRequesters)
		// The requester-less ticket still counts toward the ticket total.
		assert.Equal(t, 4, breakdown.TotalTickets)
	})

	t.Run("count ties keep discovery order", func(t *testing.T) {
		svc, search, users := newRequesterFixture(t, 5)

		search.On("Search", ctx, mock.Anything).Return(&ports.TicketSearchResult{
			Results: []domain.Ticket{
				requesterTicket(1, 20), // B first seen
				requesterTicket(2, 30), // C second
				requesterTicket(3, 30),
				requesterTicket(4, 20),
			},
		}, nil).Once()

		users.On("GetUsersByIDs", mock.Anything, mock.Anything).Return([]domain.UserRecord{
			{ID: 20, Name: "B"},
			{ID: 30, Name: "C"},
		}, nil).Once()

		breakdown, err := svc.AggregateRequesters(ctx, ports.RequesterParams{Home: "Casa Saona"})
		require.NoError(t, err)

		require.Len(t, breakdown.Requesters, 2)
		assert.Equal(t, "B", breakdown.Requesters[0].Name)
		assert.Equal(t, "C", breakdown.Requesters[1].Name)
	})

	t.Run("page failure fails the whole aggregation", func(t *testing.T) {
		svc, search, _ := newRequesterFixture(t, 5)

		search.On("Search", ctx, mock.MatchedBy(func(p ports.TicketSearchParams) bool {
			return p.Page == 1
		})).Return(&ports.TicketSearchResult{
			Results: []domain.Ticket{requesterTicket(1, 10)},
			HasMore: true,
		}, nil).Once()
		search.On("Search", ctx, mock.MatchedBy(func(p ports.TicketSearchParams) bool {
			return p.Page == 2
		})).Return(nil, errors.New("page fetch failed")).Once()

		_, err := svc.AggregateRequesters(ctx, ports.RequesterParams{Home: "Casa Saona"})
		assert.Error(t, err)
	})

	t.Run("page ceiling truncates instead of looping", func(t *testing.T) {
		svc, search, users := newRequesterFixture(t, 2)

		// Upstream always claims more pages.
		search.On("Search", ctx, mock.Anything).Return(&ports.TicketSearchResult{
			Results: []domain.Ticket{requesterTicket(1, 10)},
			HasMore: true,
		}, nil).Twice()

		users.On("GetUsersByIDs", mock.Anything, mock.Anything).Return([]domain.UserRecord{
			{ID: 10, Name: "Alice"},
		}, nil).Once()

		breakdown, err := svc.AggregateRequesters(ctx, ports.RequesterParams{Home: "Casa Saona"})
		require.NoError(t, err)
		assert.Equal(t, 2, breakdown.TotalTickets)

		search.AssertExpectations(t)
	})
}
