package geo

import (
	"context"
	"fmt"
	"net"

	"github.com/dmitrijs2005/onboard/internal/common"
	"github.com/oschwald/geoip2-golang"
)

// Locator acquires the current device position. Implementations fail with
// common.ErrLocationUnsupported, common.ErrPermissionDenied or
// common.ErrLocationUnavailable.
type Locator interface {
	CurrentPosition(ctx context.Context) (Coordinate, error)
}

// FixedLocator reports a configured position.
type FixedLocator struct {
	position *Coordinate
}

// NewFixedLocator parses position ("lat,lng"). An empty position yields a locator
// that reports common.ErrLocationUnsupported.
func NewFixedLocator(position string) (*FixedLocator, error) {
	if position == "" {
		return &FixedLocator{}, nil
	}
	c, err := ParseCoordinate(position)
	if err != nil {
		return nil, err
	}
	return &FixedLocator{position: &c}, nil
}

func (l *FixedLocator) CurrentPosition(ctx context.Context) (Coordinate, error) {
	if l.position == nil {
		return Coordinate{}, common.ErrLocationUnsupported
	}
	return *l.position, nil
}

// cityReader is the part of *geoip2.Reader used here.
type cityReader interface {
	City(ip net.IP) (*geoip2.City, error)
	Close() error
}

// GeoIPLocator resolves the position of a network address with a MaxMind
// City database.
type GeoIPLocator struct {
	db cityReader
	ip string
}

func NewGeoIPLocator(dbPath, ip string) (*GeoIPLocator, error) {
	db, err := geoip2.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open geoip db: %w", err)
	}
	return &GeoIPLocator{db: db, ip: ip}, nil
}

func (l *GeoIPLocator) CurrentPosition(ctx context.Context) (Coordinate, error) {
	parsed := net.ParseIP(l.ip)
	if parsed == nil {
		return Coordinate{}, fmt.Errorf("%w: invalid address %q", common.ErrLocationUnavailable, l.ip)
	}

	record, err := l.db.City(parsed)
	if err != nil {
		return Coordinate{}, fmt.Errorf("%w: %w", common.ErrLocationUnavailable, err)
	}
	if record.Location.Latitude == 0 && record.Location.Longitude == 0 {
		return Coordinate{}, fmt.Errorf("%w: no coordinates for %s", common.ErrLocationUnavailable, l.ip)
	}

	return Coordinate{Latitude: record.Location.Latitude, Longitude: record.Location.Longitude}, nil
}

func (l *GeoIPLocator) Close() error {
	return l.db.Close()
}

// ChainLocator asks each locator in turn and returns the first position.
// When all fail the last error is returned.
type ChainLocator []Locator

func (c ChainLocator) CurrentPosition(ctx context.Context) (Coordinate, error) {
	err := common.ErrLocationUnsupported
	for _, l := range c {
		pos, lerr := l.CurrentPosition(ctx)
		if lerr == nil {
			return pos, nil
		}
		err = lerr
	}
	return Coordinate{}, err
}
