package models

// ViewFilter holds the subscriber's current selection. A nil field means no filter.
type ViewFilter struct {
	Direction *Direction `json:"direction"`
	Route     *int       `json:"route"`
}

// Matches reports whether a sample passes both filters
func (f ViewFilter) Matches(s PositionSample) bool {
	if f.Direction != nil && *f.Direction != s.Direction {
		return false
	}
	if f.Route != nil && *f.Route != s.Route {
		return false
	}
	return true
}

// DerivedView is the result of one reconciliation pass
type DerivedView struct {
	ActiveSamples          []PositionSample `json:"active"`
	Nearest                *PositionSample  `json:"nearest,omitempty"`
	NearestDistanceDegrees float64          `json:"nearest_distance_degrees"`
	ComputedAt             int64            `json:"computed_at"`
}

// RenderState distinguishes an empty fleet view from a populated one
type RenderState string

const (
	// RenderStateNoActive means no entity passed staleness and filter checks
	RenderStateNoActive RenderState = "no_active"
	// RenderStateActive means at least one entity is active and a nearest one exists
	RenderStateActive RenderState = "active"
)

// Marker is the add/update instruction for one active entity
type Marker struct {
	PublisherID string    `json:"id"`
	Route       int       `json:"route"`
	Direction   Direction `json:"direction"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	Geohash     string    `json:"geohash"`
	Label       string    `json:"label"`
	Heading     string    `json:"heading"`
	LastUpdate  int64     `json:"lastUpdate"`
}

// NearestOverlay carries the derived distance and ETA for the nearest entity
type NearestOverlay struct {
	PublisherID  string  `json:"id"`
	Route        int     `json:"route"`
	Label        string  `json:"label"`
	DistanceKm   float64 `json:"distance_km"`
	DistanceText string  `json:"distance_text"`
	EtaMinutes   int     `json:"eta_minutes"`
	EtaText      string  `json:"eta_text"`
}

// RenderInstruction is the pure-data output handed to presentation adapters.
// Markers are added or updated; Removed lists ids whose presentation objects must go.
type RenderInstruction struct {
	State      RenderState     `json:"state"`
	Markers    []Marker        `json:"markers"`
	Removed    []string        `json:"removed"`
	Overlay    *NearestOverlay `json:"overlay,omitempty"`
	Filter     ViewFilter      `json:"filter"`
	ComputedAt int64           `json:"computed_at"`
}

// FilterRequest is the body of a filter update. A null, empty or zero value clears that filter.
type FilterRequest struct {
	Direction *string `json:"direction"`
	Route     *int    `json:"route"`
}
