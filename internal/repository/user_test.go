package repository

import (
	"context"
	"testing"

	"linknet/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_Integration(t *testing.T) {
	repo := NewUserRepository(testDB)
	ctx := context.Background()

	u1 := createTestUser(t, "user1")
	u2 := createTestUser(t, "user2")

	t.Run("GetByID", func(t *testing.T) {
		got, err := repo.GetByID(ctx, u1.ID)
		require.NoError(t, err)
		assert.Equal(t, u1.Username, got.Username)
	})

	t.Run("GetByID not found", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 999999)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeNotFound, appErr.Code)
	})

	t.Run("GetByUsername returns nil when absent", func(t *testing.T) {
		got, err := repo.GetByUsername(ctx, "no-such-user")
		require.NoError(t, err)
		assert.Nil(t, got)

		got, err = repo.GetByUsername(ctx, u2.Username)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, u2.ID, got.ID)
	})

	t.Run("Create duplicate username conflicts", func(t *testing.T) {
		dup := &models.User{Username: u1.Username, Email: "other@example.com"}
		err := repo.Create(ctx, dup)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeConflict, appErr.Code)
	})

	t.Run("SummariesByIDs", func(t *testing.T) {
		summaries, err := repo.SummariesByIDs(ctx, []uint{u1.ID, u2.ID, 999999})
		require.NoError(t, err)
		assert.Len(t, summaries, 2)
		assert.Equal(t, u1.Username, summaries[u1.ID].Username)

		empty, err := repo.SummariesByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("ListActiveExcluding", func(t *testing.T) {
		inactive := createTestUser(t, "inactive")
		require.NoError(t, testDB.Model(inactive).Update("is_active", false).Error)

		users, err := repo.ListActiveExcluding(ctx, []uint{u1.ID}, 100)
		require.NoError(t, err)

		ids := make(map[uint]bool, len(users))
		for i := range users {
			ids[users[i].ID] = true
		}
		assert.False(t, ids[u1.ID])
		assert.False(t, ids[inactive.ID])
		assert.True(t, ids[u2.ID])
	})
}
