package infra

import "context"

type ctxKey int

const (
	requestIDKey ctxKey = iota
	localeKey
)

// WithRequestID attaches a request correlation id to the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFrom returns the request correlation id, or "" when absent.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithLocale attaches the resolved audience locale (a BCP 47 tag) to the
// context.
func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, localeKey, locale)
}

// LocaleFrom returns the resolved audience locale, or "" when absent.
func LocaleFrom(ctx context.Context) string {
	locale, _ := ctx.Value(localeKey).(string)
	return locale
}
