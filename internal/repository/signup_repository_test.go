package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yakirz/sales-gateway/internal/model"
)

func TestPendingSignupRepository(t *testing.T) {
	invite := model.InviteRequest{
		GroupID:   1,
		Email:     "new.hire@example.com",
		FirstName: "noa",
		LastName:  "levi",
		Phone:     "0523334444",
	}

	t.Run("create and lookup by token", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewPendingSignupRepository(db.DB)
		ctx := context.Background()

		created, err := repo.Create(ctx, "tok-123", invite)
		require.NoError(t, err)
		assert.Equal(t, "tok-123", created.Token)

		got, err := repo.GetByToken(ctx, "tok-123")
		require.NoError(t, err)
		assert.Equal(t, invite.Email, got.Email)
		assert.Equal(t, invite.GroupID, got.GroupID)
		assert.Equal(t, invite.FirstName, got.FirstName)
	})

	t.Run("token is single use", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewPendingSignupRepository(db.DB)
		ctx := context.Background()

		_, err := repo.Create(ctx, "tok-once", invite)
		require.NoError(t, err)

		require.NoError(t, repo.DeleteByToken(ctx, "tok-once"))

		_, err = repo.GetByToken(ctx, "tok-once")
		assert.ErrorIs(t, err, ErrSignupNotFound)

		err = repo.DeleteByToken(ctx, "tok-once")
		assert.ErrorIs(t, err, ErrSignupNotFound)
	})

	t.Run("unknown token", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewPendingSignupRepository(db.DB)

		_, err := repo.GetByToken(context.Background(), "nope")
		assert.ErrorIs(t, err, ErrSignupNotFound)
	})

	t.Run("reinvite replaces earlier invites for the email", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewPendingSignupRepository(db.DB)
		ctx := context.Background()

		_, err := repo.Create(ctx, "tok-a", invite)
		require.NoError(t, err)

		require.NoError(t, repo.DeleteByEmail(ctx, invite.Email))
		_, err = repo.Create(ctx, "tok-b", invite)
		require.NoError(t, err)

		_, err = repo.GetByToken(ctx, "tok-a")
		assert.ErrorIs(t, err, ErrSignupNotFound)

		got, err := repo.GetByToken(ctx, "tok-b")
		require.NoError(t, err)
		assert.Equal(t, invite.Email, got.Email)
	})
}
