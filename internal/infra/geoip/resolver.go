// Package geoip resolves request origins so the wizard can suggest a default
// geo-targeting value.
package geoip

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/oschwald/geoip2-golang"
)

// ErrUnavailable is returned when the resolver is not initialized.
var ErrUnavailable = errors.New("geoip resolver unavailable")

// Location is a coarse request origin: country code plus, when known, the
// most specific subdivision name (e.g. "US", "California").
type Location struct {
	CountryCode string
	Region      string
}

// Resolver looks up request origins. Implementations must be safe for
// concurrent use.
type Resolver interface {
	Locate(ip string) (Location, error)
}

// MaxMindResolver provides lookups backed by a MaxMind GeoIP2 database.
type MaxMindResolver struct {
	reader *geoip2.Reader
}

// NewResolver opens the GeoIP database at the given path. When the path is
// empty, nil is returned and geo suggestions are disabled.
func NewResolver(path string) (*MaxMindResolver, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("geoip: open database: %w", err)
	}
	return &MaxMindResolver{reader: reader}, nil
}

// Locate returns the country and region for the provided IP.
func (r *MaxMindResolver) Locate(ip string) (Location, error) {
	if r == nil || r.reader == nil {
		return Location{}, ErrUnavailable
	}
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return Location{}, fmt.Errorf("geoip: invalid ip %q", ip)
	}
	record, err := r.reader.City(parsed)
	if err != nil {
		return Location{}, fmt.Errorf("geoip: lookup: %w", err)
	}
	if record == nil {
		return Location{}, nil
	}
	loc := Location{CountryCode: record.Country.IsoCode}
	if n := len(record.Subdivisions); n > 0 {
		if name, ok := record.Subdivisions[n-1].Names["en"]; ok {
			loc.Region = name
		}
	}
	return loc, nil
}

// Close closes the underlying database reader.
func (r *MaxMindResolver) Close() error {
	if r == nil || r.reader == nil {
		return nil
	}
	return r.reader.Close()
}

// Suggestion formats a location as a geo-targeting prefill, preferring the
// region name over the bare country code.
func (l Location) Suggestion() string {
	if l.Region != "" {
		return l.Region
	}
	return l.CountryCode
}
