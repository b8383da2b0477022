package ports

import "context"

// TokenStore is the durable client-side key-value capability holding the
// access token and the theme preference. It is injected into the session
// manager so tests can substitute a double; nothing reads it ambiently.
type TokenStore interface {
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error

	Theme(ctx context.Context) (string, error)
	SetTheme(ctx context.Context, theme string) error
}
