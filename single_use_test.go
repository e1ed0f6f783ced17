package authfile_test

import (
	"context"
	"testing"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/lockplane/authfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTokenStore_Mint(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("supersedes prior tokens before creating the new one", func(t *testing.T) {
		repo := NewMockRepoManager()
		store := authfile.NewTokenStore(repo)

		repo.tokens.On("SupersedeTx", mock.Anything, mock.Anything, userID, authfile.PurposePasswordReset).
			Return(nil)
		repo.tokens.On("CreateTx", mock.Anything, mock.Anything, mock.AnythingOfType("*authfile.SingleUseToken")).
			Return(&authfile.SingleUseToken{
				ID:     uuid.New(),
				Token:  "opaque-value",
				UserID: userID,
			}, nil)

		token, err := store.Mint(ctx, userID, authfile.PurposePasswordReset)
		require.NoError(t, err)
		assert.Equal(t, "opaque-value", token.Token)

		repo.tokens.AssertExpectations(t)
	})

	t.Run("propagates a supersede failure", func(t *testing.T) {
		repo := NewMockRepoManager()
		store := authfile.NewTokenStore(repo)

		repo.tokens.On("SupersedeTx", mock.Anything, mock.Anything, userID, authfile.PurposeEmailVerification).
			Return(assert.AnError)

		_, err := store.Mint(ctx, userID, authfile.PurposeEmailVerification)
		assert.Error(t, err)
	})
}

func TestTokenStore_Redeem(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("returns the owner on success", func(t *testing.T) {
		repo := NewMockRepoManager()
		store := authfile.NewTokenStore(repo)

		repo.tokens.On("Redeem", mock.Anything, "raw-token", authfile.PurposePasswordReset).
			Return(&authfile.SingleUseToken{UserID: userID, Used: true}, nil)

		got, err := store.Redeem(ctx, "raw-token", authfile.PurposePasswordReset)
		require.NoError(t, err)
		assert.Equal(t, userID, got)
	})

	t.Run("unknown token collapses to token invalid", func(t *testing.T) {
		repo := NewMockRepoManager()
		store := authfile.NewTokenStore(repo)

		repo.tokens.On("Redeem", mock.Anything, "missing", authfile.PurposePasswordReset).
			Return(nil, repository.NewRecordNotFound())
		repo.tokens.On("GetByIdentifier", mock.Anything, "missing").
			Return(nil, repository.NewRecordNotFound())

		_, err := store.Redeem(ctx, "missing", authfile.PurposePasswordReset)
		assert.True(t, authfile.IsTokenInvalid(err))
	})

	t.Run("replayed token reports consumed", func(t *testing.T) {
		repo := NewMockRepoManager()
		store := authfile.NewTokenStore(repo)

		repo.tokens.On("Redeem", mock.Anything, "spent", authfile.PurposePasswordReset).
			Return(nil, repository.NewRecordNotFound())
		repo.tokens.On("GetByIdentifier", mock.Anything, "spent").
			Return(&authfile.SingleUseToken{
				UserID:  userID,
				Purpose: authfile.PurposePasswordReset,
				Used:    true,
			}, nil)

		_, err := store.Redeem(ctx, "spent", authfile.PurposePasswordReset)
		assert.ErrorIs(t, err, authfile.ErrTokenConsumed)
		assert.True(t, authfile.IsTokenInvalid(err), "consumed still collapses outward")
	})

	t.Run("wrong purpose collapses to token invalid", func(t *testing.T) {
		repo := NewMockRepoManager()
		store := authfile.NewTokenStore(repo)

		repo.tokens.On("Redeem", mock.Anything, "verify-token", authfile.PurposePasswordReset).
			Return(nil, repository.NewRecordNotFound())
		repo.tokens.On("GetByIdentifier", mock.Anything, "verify-token").
			Return(&authfile.SingleUseToken{
				UserID:  userID,
				Purpose: authfile.PurposeEmailVerification,
				Used:    false,
			}, nil)

		_, err := store.Redeem(ctx, "verify-token", authfile.PurposePasswordReset)
		assert.True(t, authfile.IsTokenInvalid(err))
		assert.NotErrorIs(t, err, authfile.ErrTokenConsumed)
	})
}

func TestNewSingleUseToken(t *testing.T) {
	userID := uuid.New()

	reset := authfile.NewSingleUseToken(userID, authfile.PurposePasswordReset)
	verify := authfile.NewSingleUseToken(userID, authfile.PurposeEmailVerification)

	assert.NotEmpty(t, reset.Token)
	assert.NotEqual(t, reset.Token, verify.Token)
	assert.Equal(t, userID, reset.UserID)
	assert.False(t, reset.Used)

	// Reset links age out much faster than verification links.
	assert.WithinDuration(t, time.Now().Add(time.Hour), reset.ExpiresAt, 5*time.Second)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), verify.ExpiresAt, 5*time.Second)
}

func TestSingleUseTokenIsValid(t *testing.T) {
	token := authfile.NewSingleUseToken(uuid.New(), authfile.PurposePasswordReset)
	assert.True(t, token.IsValid())

	token.Used = true
	assert.False(t, token.IsValid())

	token.Used = false
	token.ExpiresAt = time.Now().Add(-time.Minute)
	assert.False(t, token.IsValid())
}
