package constants

import "time"

// Redis key formats
const (
	// Fleet Service
	KeyFleetSamples = "fleet:samples:%s" // Format: fleet:samples:{subscriber_id}

	// FleetSamplesTTL lets an abandoned subscriber session's hash expire.
	// It is refreshed on every ingest and never removes individual entries.
	FleetSamplesTTL = 24 * time.Hour
)
