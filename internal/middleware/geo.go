package middleware

import (
	"context"
	"net/http"

	"github.com/caspiansol/adspark/internal/infra/geoip"
)

type geoContextKey struct{}

// GeoKey carries the resolved request origin through the request context.
var GeoKey = geoContextKey{}

// Geo resolves the client's coarse location from its IP so the wizard can
// suggest a geo-targeting default. Lookup failures are silent; requests
// without a resolvable origin simply carry no location.
func Geo(resolver geoip.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if resolver != nil {
				if loc, err := resolver.Locate(ClientIP(r)); err == nil && loc.CountryCode != "" {
					ctx := context.WithValue(r.Context(), GeoKey, loc)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LocationFromContext returns the resolved request origin, if any.
func LocationFromContext(ctx context.Context) (geoip.Location, bool) {
	loc, ok := ctx.Value(GeoKey).(geoip.Location)
	return loc, ok
}
