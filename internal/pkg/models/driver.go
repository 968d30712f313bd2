package models

// DriverState is the publisher session state
type DriverState string

const (
	DriverStateIdle        DriverState = "idle"
	DriverStateConfiguring DriverState = "configuring"
	DriverStateDriving     DriverState = "driving"
)

// GeneratorKind identifies which position generator is running
type GeneratorKind string

const (
	GeneratorNone  GeneratorKind = ""
	GeneratorTimer GeneratorKind = "timer"
	GeneratorWatch GeneratorKind = "watch"
)

// DriverStatus is a snapshot of the publisher for the control API
type DriverStatus struct {
	PublisherID string          `json:"id"`
	State       DriverState     `json:"state"`
	Route       int             `json:"route,omitempty"`
	Direction   Direction       `json:"direction,omitempty"`
	Generator   GeneratorKind   `json:"generator,omitempty"`
	Progress    float64         `json:"progress"`
	LastSample  *PositionSample `json:"last_sample,omitempty"`
	RemainingKm float64         `json:"remaining_km"`
}

// RouteRequest is the body of a route selection
type RouteRequest struct {
	Route int `json:"route"`
}

// DirectionRequest is the body of a direction selection
type DirectionRequest struct {
	Direction string `json:"direction"`
}

// TransportStats counts what a transport client has done since start
type TransportStats struct {
	Driver    string `json:"driver"`
	Connected bool   `json:"connected"`
	Published uint64 `json:"published"`
	Dropped   uint64 `json:"dropped"`
	Received  uint64 `json:"received"`
	Malformed uint64 `json:"malformed"`
}
