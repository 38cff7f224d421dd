package repositories

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedTokenPrefix = "revoked_token:"

// TokenRepository is the deny-list of logged-out access tokens, keyed by
// the token's jti.
type TokenRepository interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type tokenRepository struct {
	rdb *redis.Client
}

// NewTokenRepository returns a Redis-backed deny-list, or one that never
// revokes anything when rdb is nil.
func NewTokenRepository(rdb *redis.Client) TokenRepository {
	if rdb == nil {
		return noopTokenRepository{}
	}
	return &tokenRepository{rdb: rdb}
}

// NewRedisClient creates and pings a Redis client with optional password auth.
func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return rdb, nil
}

// Revoke keeps the entry only until the token would have expired anyway.
func (r *tokenRepository) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return r.rdb.Set(ctx, revokedTokenPrefix+tokenID, 1, ttl).Err()
}

func (r *tokenRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.rdb.Exists(ctx, revokedTokenPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type noopTokenRepository struct{}

func (noopTokenRepository) Revoke(context.Context, string, time.Time) error { return nil }

func (noopTokenRepository) IsRevoked(context.Context, string) (bool, error) { return false, nil }
