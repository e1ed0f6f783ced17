package authfile_test

import (
	"context"
	"testing"
	"time"

	"github.com/lockplane/authfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaimsContextRoundTrip(t *testing.T) {
	tokens := authfile.NewTokenService([]byte("ctx-test-key"), 30*time.Minute, time.Hour, "", nil, nil)

	raw, _, err := tokens.Issue("subject-1", "member", authfile.KindAccess)
	require.NoError(t, err)

	claims, err := tokens.Validate(raw, authfile.KindAccess)
	require.NoError(t, err)

	ctx := authfile.WithClaimsContext(context.Background(), claims)

	got, ok := authfile.GetClaims(ctx)
	require.True(t, ok)
	assert.Equal(t, "subject-1", got.Subject())
	assert.Equal(t, "subject-1", authfile.SubjectFromContext(ctx))
}

func TestClaimsContextEmpty(t *testing.T) {
	_, ok := authfile.GetClaims(context.Background())
	assert.False(t, ok)
	assert.Equal(t, "", authfile.SubjectFromContext(context.Background()))
}
