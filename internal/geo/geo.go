// Package geo resolves IP addresses to coordinates with a MaxMind GeoLite2 City database.
package geo

import (
	"errors"
	"fmt"
	"net"

	"github.com/oschwald/geoip2-golang"
)

// ErrNoLocation is returned for private, invalid or unknown addresses.
var ErrNoLocation = errors.New("no location for address")

type Location struct {
	City      string
	Country   string
	Latitude  float64
	Longitude float64
}

// Locator wraps an open GeoLite2 reader.
type Locator struct {
	reader *geoip2.Reader
}

func Open(path string) (*Locator, error) {
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening geoip database %q: %w", path, err)
	}
	return &Locator{reader: reader}, nil
}

func (l *Locator) Close() error {
	if l == nil || l.reader == nil {
		return nil
	}
	return l.reader.Close()
}

// Locate looks ip up. Private addresses are never located.
func (l *Locator) Locate(ip string) (Location, error) {
	if l == nil || l.reader == nil {
		return Location{}, ErrNoLocation
	}
	parsed := net.ParseIP(ip)
	if parsed == nil || IsPrivate(parsed) {
		return Location{}, ErrNoLocation
	}

	rec, err := l.reader.City(parsed)
	if err != nil {
		return Location{}, fmt.Errorf("looking up %s: %w", ip, err)
	}
	if rec.Location.Latitude == 0 && rec.Location.Longitude == 0 {
		return Location{}, ErrNoLocation
	}

	country := rec.Country.Names["en"]
	if country == "" {
		country = "Unknown"
	}
	return Location{
		City:      rec.City.Names["en"],
		Country:   country,
		Latitude:  rec.Location.Latitude,
		Longitude: rec.Location.Longitude,
	}, nil
}

// IsPrivate reports addresses that never leave the local network.
func IsPrivate(ip net.IP) bool {
	return ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() || ip.IsUnspecified()
}

// IsPrivateString is IsPrivate for a textual address. Unparseable input counts as private.
func IsPrivateString(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return true
	}
	return IsPrivate(parsed)
}
