package services_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vivla-tech/vivla-middleware/internal/core/domain"
	apperrors "github.com/vivla-tech/vivla-middleware/internal/core/errors"
	"github.com/vivla-tech/vivla-middleware/internal/core/mocks"
	"github.com/vivla-tech/vivla-middleware/internal/core/services"
)

func newHouseFixture(t *testing.T) (*services.HouseService, *mocks.MockHouseRepository, *mocks.MockFieldMetadataProvider) {
	t.Helper()
	repo := mocks.NewMockHouseRepository()
	fields := mocks.NewMockFieldMetadataProvider()
	logger := slog.New(slog.DiscardHandler)

	cache := services.NewReferenceCacheService(fields, mocks.NewMockUserLookup(), mocks.NewMockGroupLookup(), logger)
	svc := services.NewHouseService(repo, cache, testHomeFieldID, logger)
	return svc, repo, fields
}

func TestHouseService_ListHouses(t *testing.T) {
	ctx := context.Background()

	t.Run("reconciles external names against the option set", func(t *testing.T) {
		svc, repo, fields := newHouseFixture(t)

		fields.On("GetTicketField", mock.Anything, testHomeFieldID).Return(homeFieldDefinition(), nil)
		repo.On("List", ctx).Return([]domain.House{
			{ID: uuid.New(), Name: "Saona", HID: "h-001"},
			{ID: uuid.New(), Name: "Villa Nowhere", HID: "h-002"},
		}, nil).Once()

		houses, err := svc.ListHouses(ctx)
		require.NoError(t, err)
		require.Len(t, houses, 2)

		assert.Equal(t, "Casa Saona", houses[0].ExternalName)
		// No scoring rule matched, so no external name is claimed.
		assert.Equal(t, "", houses[1].ExternalName)
	})

	t.Run("snapshot is loaded once", func(t *testing.T) {
		svc, repo, fields := newHouseFixture(t)

		fields.On("GetTicketField", mock.Anything, testHomeFieldID).Return(homeFieldDefinition(), nil)
		repo.On("List", ctx).Return([]domain.House{
			{ID: uuid.New(), Name: "Saona", HID: "h-001"},
		}, nil).Once()

		_, err := svc.ListHouses(ctx)
		require.NoError(t, err)
		_, err = svc.ListHouses(ctx)
		require.NoError(t, err)

		repo.AssertExpectations(t)
	})

	t.Run("failed load retries on the next call", func(t *testing.T) {
		svc, repo, fields := newHouseFixture(t)

		fields.On("GetTicketField", mock.Anything, testHomeFieldID).Return(homeFieldDefinition(), nil)
		repo.On("List", ctx).Return(nil, errors.New("store down")).Once()
		repo.On("List", ctx).Return([]domain.House{
			{ID: uuid.New(), Name: "Saona", HID: "h-001"},
		}, nil).Once()

		_, err := svc.ListHouses(ctx)
		require.Error(t, err)
		assert.True(t, apperrors.IsUpstream(err))

		houses, err := svc.ListHouses(ctx)
		require.NoError(t, err)
		assert.Len(t, houses, 1)

		repo.AssertExpectations(t)
	})

	t.Run("reconciliation failure is not cached", func(t *testing.T) {
		svc, repo, fields := newHouseFixture(t)

		// The option table is down for the first load and back for the second.
		fields.On("GetTicketField", mock.Anything, testHomeFieldID).
			Return(nil, errors.New("upstream down")).Once()
		fields.On("GetTicketField", mock.Anything, testHomeFieldID).
			Return(homeFieldDefinition(), nil).Once()
		repo.On("List", ctx).Return([]domain.House{
			{ID: uuid.New(), Name: "Saona", HID: "h-001"},
		}, nil).Twice()

		_, err := svc.ListHouses(ctx)
		require.Error(t, err)
		assert.True(t, apperrors.IsUpstream(err))

		houses, err := svc.ListHouses(ctx)
		require.NoError(t, err)
		require.Len(t, houses, 1)
		assert.Equal(t, "Casa Saona", houses[0].ExternalName)

		fields.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("invalidate forces a reload", func(t *testing.T) {
		svc, repo, fields := newHouseFixture(t)

		fields.On("GetTicketField", mock.Anything, testHomeFieldID).Return(homeFieldDefinition(), nil)
		repo.On("List", ctx).Return([]domain.House{
			{ID: uuid.New(), Name: "Saona", HID: "h-001"},
		}, nil).Twice()

		_, err := svc.ListHouses(ctx)
		require.NoError(t, err)

		svc.Invalidate()

		_, err = svc.ListHouses(ctx)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestHouseService_GetHouseByHID(t *testing.T) {
	ctx := context.Background()

	t.Run("serves from the cached snapshot", func(t *testing.T) {
		svc, repo, fields := newHouseFixture(t)

		fields.On("GetTicketField", mock.Anything, testHomeFieldID).Return(homeFieldDefinition(), nil)
		repo.On("List", ctx).Return([]domain.House{
			{ID: uuid.New(), Name: "Saona", HID: "h-001"},
		}, nil).Once()

		house, err := svc.GetHouseByHID(ctx, "h-001")
		require.NoError(t, err)
		assert.Equal(t, "Saona", house.Name)
		assert.Equal(t, "Casa Saona", house.ExternalName)

		repo.AssertNotCalled(t, "GetByHID")
	})

	t.Run("falls through to the store for ids missing from the snapshot", func(t *testing.T) {
		svc, repo, fields := newHouseFixture(t)

		fields.On("GetTicketField", mock.Anything, testHomeFieldID).Return(homeFieldDefinition(), nil)
		repo.On("List", ctx).Return([]domain.House{}, nil).Once()
		repo.On("GetByHID", ctx, "h-009").Return(&domain.House{
			ID: uuid.New(), Name: "Son Parc", HID: "h-009",
		}, nil).Once()

		house, err := svc.GetHouseByHID(ctx, "h-009")
		require.NoError(t, err)
		assert.Equal(t, "Son Parc", house.ExternalName)

		repo.AssertExpectations(t)
	})

	t.Run("unknown hid surfaces not found", func(t *testing.T) {
		svc, repo, fields := newHouseFixture(t)

		fields.On("GetTicketField", mock.Anything, testHomeFieldID).Return(homeFieldDefinition(), nil)
		repo.On("List", ctx).Return([]domain.House{}, nil).Once()
		repo.On("GetByHID", ctx, "h-404").Return(nil, apperrors.ErrHouseNotFound).Once()

		_, err := svc.GetHouseByHID(ctx, "h-404")
		assert.ErrorIs(t, err, apperrors.ErrHouseNotFound)
	})
}

func TestHouseService_FindExternalName(t *testing.T) {
	ctx := context.Background()

	t.Run("prefers the sibling property when the suffix matches", func(t *testing.T) {
		svc, _, fields := newHouseFixture(t)

		fields.On("GetTicketField", mock.Anything, testHomeFieldID).Return(&domain.FieldDefinition{
			ID: testHomeFieldID,
			Options: []domain.FieldOption{
				{Name: "Son Parc", Value: "son_parc"},
				{Name: "Son Parc II", Value: "son_parc_ii"},
			},
		}, nil)

		name, err := svc.FindExternalName(ctx, "Son Parc II")
		require.NoError(t, err)
		assert.Equal(t, "Son Parc II", name)
	})

	t.Run("surfaces option table load errors", func(t *testing.T) {
		svc, _, fields := newHouseFixture(t)

		fields.On("GetTicketField", mock.Anything, testHomeFieldID).
			Return(nil, errors.New("upstream down"))

		_, err := svc.FindExternalName(ctx, "Saona")
		assert.Error(t, err)
	})
}
