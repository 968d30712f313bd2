package utils

import (
	"math"

	"github.com/mmcloughlin/geohash"
	"github.com/piresc/unitransport/internal/pkg/models"
)

// GeoPoint represents a geographical point with latitude and longitude
type GeoPoint struct {
	Latitude  float64
	Longitude float64
}

// EncodePoint converts a point to a geohash string
func EncodePoint(point models.Point, precision uint) string {
	return geohash.EncodeWithPrecision(point.Lat, point.Lng, precision)
}

// DecodeGeohash converts a geohash string to the center latitude and longitude of its cell
func DecodeGeohash(hash string) (latitude, longitude float64, err error) {
	if err := geohash.Validate(hash); err != nil {
		return 0, 0, err
	}
	latitude, longitude = geohash.DecodeCenter(hash)
	return latitude, longitude, nil
}

// CalculateDistance calculates the distance between two points in kilometers using the Haversine formula
func CalculateDistance(point1, point2 GeoPoint) float64 {
	const earthRadius = 6371.0

	lat1 := point1.Latitude * math.Pi / 180.0
	lon1 := point1.Longitude * math.Pi / 180.0
	lat2 := point2.Latitude * math.Pi / 180.0
	lon2 := point2.Longitude * math.Pi / 180.0

	dLat := lat2 - lat1
	dLon := lon2 - lon1
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}

// GeoPointFromPoint converts a model point to a GeoPoint
func GeoPointFromPoint(point models.Point) GeoPoint {
	return GeoPoint{
		Latitude:  point.Lat,
		Longitude: point.Lng,
	}
}

// PlanarDegrees is the straight-line distance between two points measured in
// raw degrees, ignoring the earth's curvature
func PlanarDegrees(a, b models.Point) float64 {
	dLat := a.Lat - b.Lat
	dLng := a.Lng - b.Lng
	return math.Sqrt(dLat*dLat + dLng*dLng)
}
