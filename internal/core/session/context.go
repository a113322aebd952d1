package session

import "context"

type ctxKey struct{}

// WithStore returns a copy of ctx carrying store.
func WithStore(ctx context.Context, store *Store) context.Context {
	return context.WithValue(ctx, ctxKey{}, store)
}

// FromContext returns the store attached by WithStore.
func FromContext(ctx context.Context) (*Store, bool) {
	store, ok := ctx.Value(ctxKey{}).(*Store)
	return store, ok && store != nil
}
