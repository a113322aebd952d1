package ports

import "context"

// KeyValueStore is the per-client persistent store behind a session: the
// equivalent of a browser origin's local storage. Writes are whole-value
// overwrites, so concurrent writers can only produce last-write-wins.
type KeyValueStore interface {
	// Get returns domain.ErrNotFound when the key is absent.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// Delete is idempotent.
	Delete(ctx context.Context, key string) error
}

// StorageProvider hands out isolated key/value scopes, one per client
// (browser cookie, CLI profile).
type StorageProvider interface {
	Scope(namespace string) KeyValueStore
}

// Pinger is implemented by backends that can report their connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}
