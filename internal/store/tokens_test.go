package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/assetdesk/internal/db"
)

func TestRevokeAndCheckToken(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	revoked, err := IsTokenRevoked(ctx, database, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, RevokeToken(ctx, database, "jti-1", time.Now().Add(time.Hour)))

	revoked, err = IsTokenRevoked(ctx, database, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = IsTokenRevoked(ctx, database, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked, "other tokens stay valid")
}

func TestRevokeTokenTwice(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	expires := time.Now().Add(time.Hour)
	require.NoError(t, RevokeToken(ctx, database, "jti-1", expires))
	assert.NoError(t, RevokeToken(ctx, database, "jti-1", expires))
}

func TestPruneRevokedTokens(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	require.NoError(t, RevokeToken(ctx, database, "live-jti", time.Now().Add(time.Hour)))
	_, err := database.Exec(`INSERT INTO revoked_tokens (jti, expires_at) VALUES (?, ?)`,
		"old-jti", time.Now().Add(-time.Hour).UTC())
	require.NoError(t, err)

	n, err := PruneRevokedTokens(ctx, database, time.Now())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	revoked, err := IsTokenRevoked(ctx, database, "live-jti")
	require.NoError(t, err)
	assert.True(t, revoked)
}
