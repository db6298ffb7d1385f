package remote

import "context"

// TokenSource supplies the bearer credential attached to authenticated
// calls. The console resolves it per request (the operator's stored
// session token); tests plug in a static value. Operations that accept an
// explicit token (single-use recovery tokens) bypass the source.
type TokenSource interface {
	Token(ctx context.Context) string
}

// TokenFunc adapts a plain function to a TokenSource.
type TokenFunc func(ctx context.Context) string

func (f TokenFunc) Token(ctx context.Context) string { return f(ctx) }

// StaticToken is a TokenSource that always returns the same credential.
type StaticToken string

func (s StaticToken) Token(context.Context) string { return string(s) }
