package services

import (
	"context"
	"time"
)

// CacheService is the part of pkg/cache.RedisCache the services depend on:
// the token blacklist and the auto-update lock.
type CacheService interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)

	AcquireLock(ctx context.Context, name, owner string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, name, owner string) error
}

// Broadcaster pushes realtime messages to websocket rooms.
type Broadcaster interface {
	Broadcast(room, msgType string, data interface{})
}

type nopBroadcaster struct{}

func (nopBroadcaster) Broadcast(string, string, interface{}) {}

const revokedTokenPrefix = "revoked:"

func revokedTokenKey(jti string) string {
	return revokedTokenPrefix + jti
}
