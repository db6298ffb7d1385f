package session

import "context"

type ctxKey struct{}

// WithStore attaches a session's credential store to a request context so
// the API clients can pick the bearer token up per call.
func WithStore(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the store attached by WithStore, if any.
func FromContext(ctx context.Context) (*Store, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Store)
	return s, ok
}

// ContextToken is a token source over the request context: it resolves to
// the current session's stored credential, or "" for anonymous calls.
func ContextToken(ctx context.Context) string {
	if s, ok := FromContext(ctx); ok {
		return s.Token(ctx)
	}
	return ""
}
