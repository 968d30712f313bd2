package constants

// WebSocket event types
const (
	// Common events
	EventError = "error"
	EventPing  = "ping"
	EventPong  = "pong"

	// Fleet events
	EventFleetSnapshot = "fleet_snapshot"
	EventFleetUpdate   = "fleet_update"
)

// WebSocket error codes
const (
	ErrorInvalidFormat = "invalid_format"
	ErrorInternalError = "internal_error"
)
