package models

import "fmt"

// Direction is the travel direction a driver selects for a session
type Direction string

const (
	// DirectionTownToUni travels from the town endpoint to the university endpoint
	DirectionTownToUni Direction = "town_to_uni"
	// DirectionUniToTown travels from the university endpoint back to town
	DirectionUniToTown Direction = "uni_to_town"
)

// Valid reports whether d is one of the known directions
func (d Direction) Valid() bool {
	return d == DirectionTownToUni || d == DirectionUniToTown
}

// Destination returns a human label for where the direction heads
func (d Direction) Destination() string {
	if d == DirectionTownToUni {
		return "University"
	}
	return "Town"
}

// ParseDirection converts a wire value into a Direction
func ParseDirection(s string) (Direction, error) {
	d := Direction(s)
	if !d.Valid() {
		return "", fmt.Errorf("unknown direction %q", s)
	}
	return d, nil
}

// PositionSample is one publisher's latest broadcast state.
// The JSON layout is the wire format shared by every publisher and subscriber.
type PositionSample struct {
	PublisherID string    `json:"id" validate:"required"`
	Route       int       `json:"route" validate:"min=1"`
	Direction   Direction `json:"direction" validate:"required,oneof=town_to_uni uni_to_town"`
	Lat         float64   `json:"lat" validate:"gte=-90,lte=90"`
	Lng         float64   `json:"lng" validate:"gte=-180,lte=180"`
	LastUpdate  int64     `json:"lastUpdate" validate:"gt=0"`
}

// Point returns the sample coordinates
func (s PositionSample) Point() Point {
	return Point{Lat: s.Lat, Lng: s.Lng}
}

// Point is a WGS84 coordinate in degrees
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Endpoints are the two fixed ends of every route. Town doubles as the
// reference point for nearest-vehicle distance.
type Endpoints struct {
	Town       Point `json:"town"`
	University Point `json:"university"`
}

// Segment returns the start and end points travelled in the given direction
func (e Endpoints) Segment(d Direction) (start, end Point) {
	if d == DirectionTownToUni {
		return e.Town, e.University
	}
	return e.University, e.Town
}

// Interpolate returns the point at fraction progress along the straight line from start to end
func Interpolate(start, end Point, progress float64) Point {
	return Point{
		Lat: start.Lat + (end.Lat-start.Lat)*progress,
		Lng: start.Lng + (end.Lng-start.Lng)*progress,
	}
}
