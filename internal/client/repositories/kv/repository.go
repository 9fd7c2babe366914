// Package kv stores opaque values under string keys in the local SQLite
// database. Each entity collection lives under one key as a JSON array.
package kv

import "context"

// Repository is a minimal key/value store. Get returns (nil, nil) for a
// missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
