package authfile

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/redis/go-redis/v9"
)

const fingerprintLength = 8

// TokenFingerprint derives the short lookup key for a refresh token. The
// full token is never stored server-side; a digest prefix is enough to key
// the subject's namespace, and a collision costs nothing beyond an extra
// live entry.
func TokenFingerprint(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])[:fingerprintLength]
}

func revocationKey(subjectID, fingerprint string) string {
	return fmt.Sprintf("refresh_token:%s:%s", subjectID, fingerprint)
}

func revocationPrefix(subjectID string) string {
	return fmt.Sprintf("refresh_token:%s:*", subjectID)
}

// RedisRevocationRegistry stores revocation records in Redis, relying on
// native per-key TTLs so stale records never accumulate.
type RedisRevocationRegistry struct {
	client *redis.Client
	logger Logger
}

// NewRedisRevocationRegistry wraps an injected client; the registry never
// constructs its own connection.
func NewRedisRevocationRegistry(client *redis.Client) *RedisRevocationRegistry {
	return &RedisRevocationRegistry{
		client: client,
		logger: defLogger{},
	}
}

// WithLogger overrides the logger used by the registry.
func (r *RedisRevocationRegistry) WithLogger(logger Logger) *RedisRevocationRegistry {
	if logger != nil {
		r.logger = logger
	}
	return r
}

func (r *RedisRevocationRegistry) Record(ctx context.Context, subjectID, fingerprint string, ttl time.Duration) error {
	key := revocationKey(subjectID, fingerprint)
	if err := r.client.Set(ctx, key, fingerprint, ttl).Err(); err != nil {
		return goerrors.Wrap(err, ErrStorageUnavailable.Category, "failed to record refresh token").
			WithTextCode(ErrStorageUnavailable.TextCode)
	}
	return nil
}

func (r *RedisRevocationRegistry) Verify(ctx context.Context, subjectID, fingerprint string) (bool, error) {
	key := revocationKey(subjectID, fingerprint)
	_, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, goerrors.Wrap(err, ErrStorageUnavailable.Category, "failed to verify refresh token").
			WithTextCode(ErrStorageUnavailable.TextCode)
	}
	return true, nil
}

func (r *RedisRevocationRegistry) Delete(ctx context.Context, subjectID, fingerprint string) error {
	key := revocationKey(subjectID, fingerprint)
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return goerrors.Wrap(err, ErrStorageUnavailable.Category, "failed to delete revocation record").
			WithTextCode(ErrStorageUnavailable.TextCode)
	}
	return nil
}

// DeleteAll removes every record for the subject: logout-everywhere. It
// iterates with SCAN rather than KEYS so large keyspaces stay responsive.
func (r *RedisRevocationRegistry) DeleteAll(ctx context.Context, subjectID string) error {
	iter := r.client.Scan(ctx, 0, revocationPrefix(subjectID), 0).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return goerrors.Wrap(err, ErrStorageUnavailable.Category, "failed to scan revocation records").
			WithTextCode(ErrStorageUnavailable.TextCode)
	}

	if len(keys) == 0 {
		return nil
	}

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return goerrors.Wrap(err, ErrStorageUnavailable.Category, "failed to delete revocation records").
			WithTextCode(ErrStorageUnavailable.TextCode)
	}

	return nil
}

var _ RevocationRegistry = (*RedisRevocationRegistry)(nil)
