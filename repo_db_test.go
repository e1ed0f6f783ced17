package authfile_test

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/lockplane/authfile"
)

func newMigratedDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	// A single connection keeps the in-memory database alive for the whole
	// test and serializes concurrent writers like a file-backed sqlite would.
	sqldb.SetMaxOpenConns(1)
	t.Cleanup(func() { sqldb.Close() })

	db := bun.NewDB(sqldb, sqlitedialect.New())
	require.NoError(t, authfile.RunMigrations(context.Background(), db))

	return db
}

func seedUser(t *testing.T, repo authfile.RepositoryManager) *authfile.User {
	t.Helper()

	user, err := repo.Users().Register(context.Background(), &authfile.User{
		Username:     "tester",
		Email:        "tester@example.com",
		PasswordHash: "placeholder-hash",
		Active:       true,
	})
	require.NoError(t, err)

	return user
}

func TestMigratedSchemaRoundTripsUser(t *testing.T) {
	repo := authfile.NewRepositoryManager(newMigratedDB(t))
	ctx := context.Background()

	user := seedUser(t, repo)
	assert.Equal(t, authfile.RoleMember, user.Role)

	got, err := repo.Users().GetByIdentifier(ctx, "tester@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, authfile.RoleMember, got.Role)
	assert.Nil(t, got.LoggedInAt)

	require.NoError(t, repo.Users().TrackAttemptedLogin(ctx, got))
	require.NoError(t, repo.Users().TrackSuccessfulLogin(ctx, got))

	got, err = repo.Users().GetByIdentifier(ctx, "tester")
	require.NoError(t, err)
	assert.NotNil(t, got.LoggedInAt)
	assert.Equal(t, 0, got.LoginAttempts)
	assert.Nil(t, got.LoginAttemptAt)

	require.NoError(t, repo.Users().MarkEmailVerified(ctx, user.ID))
	require.NoError(t, repo.Users().ResetPassword(ctx, user.ID, "rotated-hash"))

	got, err = repo.Users().GetByIdentifier(ctx, user.ID.String())
	require.NoError(t, err)
	assert.True(t, got.EmailValidated)
	assert.Equal(t, "rotated-hash", got.PasswordHash)
}

func TestRedeemConcurrentExactlyOnce(t *testing.T) {
	repo := authfile.NewRepositoryManager(newMigratedDB(t))
	store := authfile.NewTokenStore(repo)
	ctx := context.Background()

	user := seedUser(t, repo)

	token, err := store.Mint(ctx, user.ID, authfile.PurposeEmailVerification)
	require.NoError(t, err)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = store.Redeem(ctx, token.Token, authfile.PurposeEmailVerification)
		}(i)
	}
	wg.Wait()

	var won, lost int
	for _, err := range errs {
		if err == nil {
			won++
			continue
		}
		lost++
		replayed := errors.Is(err, authfile.ErrTokenConsumed) || errors.Is(err, authfile.ErrTokenInvalid)
		assert.True(t, replayed, "loser must fail as consumed or invalid, got %v", err)
	}
	assert.Equal(t, 1, won, "exactly one redemption must win")
	assert.Equal(t, 1, lost)
}

func TestMintSupersedesOlderLinks(t *testing.T) {
	repo := authfile.NewRepositoryManager(newMigratedDB(t))
	store := authfile.NewTokenStore(repo)
	ctx := context.Background()

	user := seedUser(t, repo)

	first, err := store.Mint(ctx, user.ID, authfile.PurposePasswordReset)
	require.NoError(t, err)

	second, err := store.Mint(ctx, user.ID, authfile.PurposePasswordReset)
	require.NoError(t, err)

	_, err = store.Redeem(ctx, first.Token, authfile.PurposePasswordReset)
	assert.ErrorIs(t, err, authfile.ErrTokenConsumed)

	got, err := store.Redeem(ctx, second.Token, authfile.PurposePasswordReset)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got)
}
