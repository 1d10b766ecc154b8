package middleware

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const (
	// LanguageKey is the context key for the caller's language code.
	LanguageKey contextKey = "language"
	// RegionKey is the context key for the caller's region.
	RegionKey contextKey = "region"
)

// LocaleExtractor extracts the caller's language and region from the
// request. It checks the X-Language / X-Region headers, then the
// language / region query parameters. Language falls back to "hi",
// matching the primary user base; region stays empty when unknown so
// the dialect resolver can apply its own fallback order.
func LocaleExtractor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := strings.TrimSpace(r.Header.Get("X-Language"))
		if lang == "" {
			lang = strings.TrimSpace(r.URL.Query().Get("language"))
		}
		if lang == "" {
			lang = "hi"
		}

		region := strings.TrimSpace(r.Header.Get("X-Region"))
		if region == "" {
			region = strings.TrimSpace(r.URL.Query().Get("region"))
		}

		ctx := context.WithValue(r.Context(), LanguageKey, strings.ToLower(lang))
		ctx = context.WithValue(ctx, RegionKey, strings.ToLower(region))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetLanguage retrieves the language code from the request context.
func GetLanguage(ctx context.Context) string {
	if v, ok := ctx.Value(LanguageKey).(string); ok && v != "" {
		return v
	}
	return "hi"
}

// GetRegion retrieves the region from the request context. May be empty.
func GetRegion(ctx context.Context) string {
	if v, ok := ctx.Value(RegionKey).(string); ok {
		return v
	}
	return ""
}
