// Package kvstore is the secure persistent key-value store collaborator used
// for the credential and the cached user profile. Values are opaque byte
// blobs addressed by fixed keys.
package kvstore

import "context"

// Repository is an opaque get/set/delete store.
//
// Get returns (nil, nil) for a missing key. SetMany and DeleteMany are
// atomic: either every key is written/removed or none is, so callers can
// keep paired values (credential + profile) consistent.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetMany(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, key string) error
	DeleteMany(ctx context.Context, keys ...string) error
	Clear(ctx context.Context) error
}
