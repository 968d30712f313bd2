package constants

import "time"

// Broker topic shared by every publisher and subscriber. There are no
// per-route or per-direction sub-topics; subscribers filter client-side.
const (
	TopicUpdates = "unitransport/sreemangal/updates"

	// Transport drivers
	TransportNATS = "nats"
	TransportMQTT = "mqtt"
	TransportNSQ  = "nsq"

	// DefaultReconnectDelay is the fixed wait between reconnect attempts
	DefaultReconnectDelay = 5 * time.Second
)

// Fleet view policy
const (
	// StalenessThresholdMs is the age beyond which a sample leaves the active view
	StalenessThresholdMs int64 = 30000

	// KmPerDegree is the flat degrees-to-kilometers approximation used for display
	KmPerDegree = 111.0

	// MinutesPerKm assumes a constant 30 km/h
	MinutesPerKm = 2.0

	// MarkerGeohashPrecision is the geohash length attached to each marker
	MarkerGeohashPrecision uint = 7

	// Store drivers
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Publisher defaults
const (
	DefaultTickInterval       = time.Second
	DefaultSimulationStep     = 0.01
	DefaultMinPublishInterval = time.Second

	PublisherIDPrefix  = "driver_"
	ClientIDPrefix     = "client_"
	SubscriberIDPrefix = "student_"
)

// Fixed endpoints of the Sreemangal campus route
const (
	TownLat       = 24.3065
	TownLng       = 91.7296
	UniversityLat = 24.3120
	UniversityLng = 91.7350
)
