package auth

import (
	"context"
	"time"

	"github.com/Kariqs/bookbuy-api/common"
	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "bl_"

// RevocationLedger is a denylist of session tokens kept in Redis. Entries
// expire with the token they revoke, so nothing ever deletes them.
type RevocationLedger struct {
	client redis.Cmdable
}

func NewRevocationLedger(client redis.Cmdable) *RevocationLedger {
	return &RevocationLedger{client: client}
}

func revokedKey(token string) string {
	return revokedKeyPrefix + token
}

// Revoke denies token for ttl. A token with no remaining lifetime needs no entry.
func (l *RevocationLedger) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := l.client.Set(ctx, revokedKey(token), token, ttl).Err(); err != nil {
		return common.Unavailable("Service temporarily unavailable", err)
	}
	return nil
}

// IsRevoked fails closed: when Redis cannot answer the error is returned and
// the caller must reject the request.
func (l *RevocationLedger) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := l.client.Exists(ctx, revokedKey(token)).Result()
	if err != nil {
		return false, common.Unavailable("Service temporarily unavailable", err)
	}
	return n > 0, nil
}
