package models

import (
	"fmt"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// EarthRadiusMeters is the mean Earth radius used for geodesic calculations.
const EarthRadiusMeters = 6371008.8

// GeoCoordinate represents a geographical point defined by its latitude and longitude.
type GeoCoordinate struct {
	Latitude  float64 `json:"latitude"`  // Latitude of the point, [-90, 90].
	Longitude float64 `json:"longitude"` // Longitude of the point, [-180, 180].
}

// Valid reports whether the coordinate lies inside the WGS84 latitude/longitude ranges.
func (c GeoCoordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// LatLng converts the coordinate into an s2.LatLng.
func (c GeoCoordinate) LatLng() s2.LatLng {
	return s2.LatLngFromDegrees(c.Latitude, c.Longitude)
}

// DistanceMeters returns the great-circle distance to other in meters.
func (c GeoCoordinate) DistanceMeters(other GeoCoordinate) float64 {
	return c.LatLng().Distance(other.LatLng()).Radians() * EarthRadiusMeters
}

func (c GeoCoordinate) String() string {
	return fmt.Sprintf("(%.6f,%.6f)", c.Latitude, c.Longitude)
}

// FromLatLng converts an s2.LatLng back to a GeoCoordinate.
func FromLatLng(ll s2.LatLng) GeoCoordinate {
	return GeoCoordinate{Latitude: ll.Lat.Degrees(), Longitude: ll.Lng.Degrees()}
}

// ViewportBounds is the geographic rectangle currently visible on the map.
type ViewportBounds struct {
	NorthEast GeoCoordinate `json:"northEast"`
	SouthWest GeoCoordinate `json:"southWest"`
}

// Valid reports whether both corners are valid coordinates and north is not below south.
// East may be smaller than west when the viewport crosses the antimeridian.
func (b ViewportBounds) Valid() bool {
	return b.NorthEast.Valid() && b.SouthWest.Valid() && b.NorthEast.Latitude >= b.SouthWest.Latitude
}

// Rect converts the bounds into an s2.Rect, handling antimeridian crossings.
func (b ViewportBounds) Rect() s2.Rect {
	sw, ne := b.SouthWest.LatLng(), b.NorthEast.LatLng()

	return s2.Rect{
		Lat: r1.Interval{Lo: sw.Lat.Radians(), Hi: ne.Lat.Radians()},
		Lng: s1.IntervalFromEndpoints(sw.Lng.Radians(), ne.Lng.Radians()),
	}
}

// Contains reports whether the coordinate falls within the bounds.
func (b ViewportBounds) Contains(c GeoCoordinate) bool {
	return b.Rect().ContainsLatLng(c.LatLng())
}

// Center returns the center point of the bounds.
func (b ViewportBounds) Center() GeoCoordinate {
	return FromLatLng(b.Rect().Center())
}
