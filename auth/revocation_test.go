package auth

import (
	"context"
	"testing"
	"time"

	"github.com/Kariqs/bookbuy-api/common"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLedger(t *testing.T) (*RevocationLedger, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRevocationLedger(client), mr
}

func TestRevocationLedger_RevokeWithTTL(t *testing.T) {
	ledger, mr := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, ledger.Revoke(ctx, "tok", 10*time.Minute))

	revoked, err := ledger.IsRevoked(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.Equal(t, 10*time.Minute, mr.TTL("bl_tok"))

	mr.FastForward(11 * time.Minute)

	revoked, err = ledger.IsRevoked(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevocationLedger_UnknownToken(t *testing.T) {
	ledger, _ := newTestLedger(t)

	revoked, err := ledger.IsRevoked(context.Background(), "never-seen")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevocationLedger_ExpiredTokenSkipsEntry(t *testing.T) {
	ledger, mr := newTestLedger(t)

	require.NoError(t, ledger.Revoke(context.Background(), "old", -time.Second))
	assert.False(t, mr.Exists("bl_old"))
}

func TestRevocationLedger_FailsClosed(t *testing.T) {
	ledger, mr := newTestLedger(t)
	mr.SetError("LOADING Redis is loading the dataset in memory")

	revoked, err := ledger.IsRevoked(context.Background(), "tok")
	assert.False(t, revoked)
	require.Error(t, err)
	assert.True(t, common.IsKind(err, common.KindUnavailable))

	err = ledger.Revoke(context.Background(), "tok", time.Minute)
	assert.True(t, common.IsKind(err, common.KindUnavailable))
}
