package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/vivla-tech/vivla-middleware/internal/core/errors"
)

func seedHouse(t *testing.T, ctx context.Context, name, hid string, isTest bool) {
	t.Helper()
	_, err := testPool.Exec(ctx,
		`INSERT INTO houses (name, hid, is_test_home) VALUES ($1, $2, $3)`,
		name, hid, isTest)
	require.NoError(t, err)
}

func cleanHouses(t *testing.T, ctx context.Context) {
	t.Helper()
	_, err := testPool.Exec(ctx, `DELETE FROM houses`)
	require.NoError(t, err)
}

func TestHouseRepository_List(t *testing.T) {
	ctx := context.Background()
	repo := NewHouseRepository(testPool)

	t.Run("empty table", func(t *testing.T) {
		cleanHouses(t, ctx)

		houses, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, houses)
	})

	t.Run("returns houses ordered by name", func(t *testing.T) {
		cleanHouses(t, ctx)
		seedHouse(t, ctx, "Son Parc", "h-002", false)
		seedHouse(t, ctx, "Saona", "h-001", false)
		seedHouse(t, ctx, "Valldemossa", "h-003", true)

		houses, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, houses, 3)

		assert.Equal(t, "Saona", houses[0].Name)
		assert.Equal(t, "Son Parc", houses[1].Name)
		assert.Equal(t, "Valldemossa", houses[2].Name)
		assert.True(t, houses[2].IsTestHome)
		assert.NotEmpty(t, houses[0].ID)
	})
}

func TestHouseRepository_GetByHID(t *testing.T) {
	ctx := context.Background()
	repo := NewHouseRepository(testPool)

	t.Run("finds a house by hid", func(t *testing.T) {
		cleanHouses(t, ctx)
		seedHouse(t, ctx, "Saona", "h-001", false)

		house, err := repo.GetByHID(ctx, "h-001")
		require.NoError(t, err)
		assert.Equal(t, "Saona", house.Name)
		assert.Equal(t, "h-001", house.HID)
		assert.False(t, house.IsTestHome)
	})

	t.Run("unknown hid returns typed not found", func(t *testing.T) {
		cleanHouses(t, ctx)

		house, err := repo.GetByHID(ctx, "h-404")
		assert.Nil(t, house)
		assert.ErrorIs(t, err, apperrors.ErrHouseNotFound)
	})
}
