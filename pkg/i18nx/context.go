package i18nx

import (
	"context"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type ctxKey struct{}

type localizer struct {
	tag     language.Tag
	printer *message.Printer
}

// WithLocale returns a context whose messages are printed in tag.
func WithLocale(ctx context.Context, b *Bundle, tag language.Tag) context.Context {
	return context.WithValue(ctx, ctxKey{}, localizer{tag: tag, printer: b.Printer(tag)})
}

// Locale returns the locale attached to ctx, or the default bundle's fallback.
func Locale(ctx context.Context) language.Tag {
	if l, ok := ctx.Value(ctxKey{}).(localizer); ok {
		return l.tag
	}
	return std.fallback
}

// Printer returns the printer attached to ctx.
func Printer(ctx context.Context) *message.Printer {
	if l, ok := ctx.Value(ctxKey{}).(localizer); ok {
		return l.printer
	}
	return std.Printer(std.fallback)
}

// T formats the message stored under key in the locale of ctx. A key without
// a translation is printed as the key itself.
func T(ctx context.Context, key string, args ...any) string {
	return Printer(ctx).Sprintf(key, args...)
}
