package slogx

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

// WithCaller tags the request logger with the authenticated caller uid.
func WithCaller(ctx context.Context, uid string) context.Context {
	return WithContext(ctx, FromContext(ctx).With("caller_uid", uid))
}
