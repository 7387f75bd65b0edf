package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"golang.org/x/text/language"

	"server/internal/infra"
)

var supportedLocales = []language.Tag{
	language.AmericanEnglish,
	language.BritishEnglish,
	language.Spanish,
	language.German,
	language.French,
	language.BrazilianPortuguese,
	language.Indonesian,
	language.Japanese,
}

var localeMatcher = language.NewMatcher(supportedLocales)

// CountryLookup resolves ISO country codes for an IP address.
type CountryLookup func(ip string) (string, error)

// Locale resolves the audience locale for each request: an explicit X-Locale
// header wins, then Accept-Language, then a GeoIP country hint, then the
// configured default.
func Locale(defaultLocale string, lookup CountryLookup) func(http.Handler) http.Handler {
	def, err := language.Parse(defaultLocale)
	if err != nil {
		def = language.AmericanEnglish
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tag := resolveLocale(r, def, lookup)
			ctx := infra.WithLocale(r.Context(), tag.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveLocale(r *http.Request, def language.Tag, lookup CountryLookup) language.Tag {
	if v := strings.TrimSpace(r.Header.Get("X-Locale")); v != "" {
		if tags, _, err := language.ParseAcceptLanguage(v); err == nil && len(tags) > 0 {
			tag, _, conf := localeMatcher.Match(tags...)
			if conf > language.No {
				return tag
			}
		}
	}
	if v := r.Header.Get("Accept-Language"); v != "" {
		if tags, _, err := language.ParseAcceptLanguage(v); err == nil && len(tags) > 0 {
			tag, _, conf := localeMatcher.Match(tags...)
			if conf > language.No {
				return tag
			}
		}
	}
	if lookup != nil {
		if ip := ClientIP(r); ip != "" {
			if country, err := lookup(ip); err == nil && country != "" {
				if region, err := language.ParseRegion(country); err == nil {
					if tag, err := language.Compose(def, region); err == nil {
						return tag
					}
				}
			}
		}
	}
	return def
}

// LocaleFromContext returns the resolved locale tag, or "" when absent.
func LocaleFromContext(ctx context.Context) string {
	return infra.LocaleFrom(ctx)
}

// ClientIP returns the best-effort client IP address for the request.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		parts := strings.Split(xf, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
