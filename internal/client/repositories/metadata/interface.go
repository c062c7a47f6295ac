// Package metadata is the local key/value cache of the client. It backs the
// persisted session mirror (the current user and the API cookies), each kept
// under a fixed key.
package metadata

import (
	"context"
)

// Repository stores opaque values under string keys.
//
// Get returns (nil, nil) for a missing key. Delete removes all given keys
// atomically and succeeds when some of them are absent.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}

// Fixed keys of the session mirror.
const (
	KeyUser    = "user"
	KeyCookies = "cookies"
)
