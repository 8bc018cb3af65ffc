// Package requestctx carries request-scoped values through context.
package requestctx

import (
	"context"

	"golang.org/x/text/language"
)

type localeContextKey struct{}

// WithLocale stores the resolved request language in context.
func WithLocale(ctx context.Context, tag language.Tag) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, localeContextKey{}, tag)
}

// LocaleFromContext returns the request language and whether one was set.
func LocaleFromContext(ctx context.Context) (language.Tag, bool) {
	if ctx == nil {
		return language.Und, false
	}
	tag, ok := ctx.Value(localeContextKey{}).(language.Tag)
	return tag, ok
}
