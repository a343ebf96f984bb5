// Package geo matches a device position to the nearest campus building.
package geo

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/onboard/internal/common"
)

// EarthRadiusMeters is the spherical Earth radius used by DistanceMeters.
const EarthRadiusMeters = 6371000.0

type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// Candidate is one place Nearest may pick.
type Candidate struct {
	ID int64
	Coordinate
}

// DistanceMeters is the haversine great-circle distance between a and b.
func DistanceMeters(a, b Coordinate) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	// rounding can push h slightly outside [0,1]
	h = math.Min(1, math.Max(0, h))

	return 2 * EarthRadiusMeters * math.Asin(math.Sqrt(h))
}

// Nearest returns the candidate closest to point. Ties go to the earliest
// candidate. An empty list fails with common.ErrNoCandidates.
func Nearest(point Coordinate, candidates []Candidate) (Candidate, error) {
	if len(candidates) == 0 {
		return Candidate{}, common.ErrNoCandidates
	}

	best := 0
	bestDist := DistanceMeters(point, candidates[0].Coordinate)
	for i := 1; i < len(candidates); i++ {
		if d := DistanceMeters(point, candidates[i].Coordinate); d < bestDist {
			best, bestDist = i, d
		}
	}
	return candidates[best], nil
}

// ParseCoordinate reads "lat,lng" in decimal degrees.
func ParseCoordinate(s string) (Coordinate, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Coordinate{}, fmt.Errorf("invalid coordinate %q: want lat,lng", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("invalid latitude in %q: %w", s, err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("invalid longitude in %q: %w", s, err)
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return Coordinate{}, fmt.Errorf("coordinate %q out of range", s)
	}
	return Coordinate{Latitude: lat, Longitude: lng}, nil
}
