package repository

import (
	"context"
	"testing"

	"linknet/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionRepository_Integration(t *testing.T) {
	repo := NewConnectionRepository(testDB)
	ctx := context.Background()

	u1 := createTestUser(t, "conn1")
	u2 := createTestUser(t, "conn2")
	u3 := createTestUser(t, "conn3")

	t.Run("Create and ListPendingReceived", func(t *testing.T) {
		conn := &models.Connection{
			RequesterID: u1.ID,
			ReceiverID:  u2.ID,
			Status:      models.ConnectionStatusPending,
		}

		err := repo.Create(ctx, conn)
		require.NoError(t, err)
		assert.NotZero(t, conn.ID)

		received, err := repo.ListPendingReceived(ctx, u2.ID)
		require.NoError(t, err)
		require.Len(t, received, 1)
		assert.Equal(t, u1.ID, received[0].RequesterID)

		sent, err := repo.ListPendingSent(ctx, u1.ID)
		require.NoError(t, err)
		require.Len(t, sent, 1)
		assert.Equal(t, u2.ID, sent[0].ReceiverID)
	})

	t.Run("Duplicate pair is a conflict in either direction", func(t *testing.T) {
		dup := &models.Connection{RequesterID: u1.ID, ReceiverID: u2.ID}
		err := repo.Create(ctx, dup)
		require.Error(t, err)

		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeConflict, appErr.Code)

		// Reverse direction hits the same canonical pair key.
		reversed := &models.Connection{RequesterID: u2.ID, ReceiverID: u1.ID}
		err = repo.Create(ctx, reversed)
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeConflict, appErr.Code)
	})

	t.Run("GetBetweenUsers is direction-agnostic", func(t *testing.T) {
		conn, err := repo.GetBetweenUsers(ctx, u2.ID, u1.ID)
		require.NoError(t, err)
		require.NotNil(t, conn)
		assert.Equal(t, u1.ID, conn.RequesterID)

		none, err := repo.GetBetweenUsers(ctx, u1.ID, u3.ID)
		require.NoError(t, err)
		assert.Nil(t, none)
	})

	t.Run("UpdateStatus and AcceptedPartnerIDs", func(t *testing.T) {
		conn, err := repo.GetBetweenUsers(ctx, u1.ID, u2.ID)
		require.NoError(t, err)

		require.NoError(t, repo.UpdateStatus(ctx, conn.ID, models.ConnectionStatusAccepted))

		partners, err := repo.AcceptedPartnerIDs(ctx, u1.ID)
		require.NoError(t, err)
		assert.Equal(t, []uint{u2.ID}, partners)

		partners, err = repo.AcceptedPartnerIDs(ctx, u2.ID)
		require.NoError(t, err)
		assert.Equal(t, []uint{u1.ID}, partners)
	})

	t.Run("ListForUser filters by status", func(t *testing.T) {
		pendingToU3 := &models.Connection{RequesterID: u1.ID, ReceiverID: u3.ID}
		require.NoError(t, repo.Create(ctx, pendingToU3))

		accepted, err := repo.ListForUser(ctx, u1.ID, models.ConnectionStatusAccepted, 20, 0)
		require.NoError(t, err)
		require.Len(t, accepted, 1)
		assert.Equal(t, models.ConnectionStatusAccepted, accepted[0].Status)

		all, err := repo.ListForUser(ctx, u1.ID, "", 20, 0)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("PartnerIDsAnyStatus includes pending", func(t *testing.T) {
		partners, err := repo.PartnerIDsAnyStatus(ctx, u1.ID)
		require.NoError(t, err)
		assert.ElementsMatch(t, []uint{u2.ID, u3.ID}, partners)
	})

	t.Run("Delete frees the pair for a new request", func(t *testing.T) {
		conn, err := repo.GetBetweenUsers(ctx, u1.ID, u2.ID)
		require.NoError(t, err)
		require.NoError(t, repo.Delete(ctx, conn.ID))

		none, err := repo.GetBetweenUsers(ctx, u1.ID, u2.ID)
		require.NoError(t, err)
		assert.Nil(t, none)

		again := &models.Connection{RequesterID: u2.ID, ReceiverID: u1.ID}
		assert.NoError(t, repo.Create(ctx, again))
	})

	t.Run("GetByID not found", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 999999)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeNotFound, appErr.Code)
	})
}
