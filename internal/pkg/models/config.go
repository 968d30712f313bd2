package models

import "time"

// Config represents application configuration
type Config struct {
	App       AppConfig
	Server    ServerConfig
	Transport TransportConfig
	Redis     RedisConfig
	Fleet     FleetConfig
	Driver    DriverConfig
	Locations Endpoints
	NewRelic  NewRelicConfig
	Logger    LoggerConfig
}

// AppConfig contains application-specific configuration
type AppConfig struct {
	Name        string `validate:"required"`
	Environment string
	Debug       bool
	Version     string
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int `validate:"gte=0,lte=65535"`
	ShutdownTimeout time.Duration
}

// TransportConfig selects and configures the publish/subscribe broker client
type TransportConfig struct {
	Driver         string        `validate:"oneof=nats mqtt nsq"`
	URL            string        `validate:"required"`
	Topic          string        `validate:"required"`
	ReconnectDelay time.Duration `validate:"gt=0"`
	ConnectTimeout time.Duration
	// NSQ only: nsqlookupd HTTP addresses used by the consumer instead of the nsqd URL
	LookupdAddresses []string
}

// RedisConfig contains Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// FleetConfig holds subscriber-side reconciliation settings
type FleetConfig struct {
	StoreDriver     string `validate:"oneof=memory redis"`
	StalenessMs     int64  `validate:"gt=0"`
	RefreshInterval time.Duration
	FilterDirection string `validate:"omitempty,oneof=town_to_uni uni_to_town"`
	FilterRoute     int    `validate:"gte=0"`
}

// DriverConfig holds publisher-side settings
type DriverConfig struct {
	TickInterval       time.Duration `validate:"gt=0"`
	SimulationStep     float64       `validate:"gt=0,lte=1"`
	MinPublishInterval time.Duration
	FeedURL            string
	Route              int `validate:"gte=0"`
	Direction          string `validate:"omitempty,oneof=town_to_uni uni_to_town"`
	AutoStart          bool
}

// NewRelicConfig contains New Relic APM settings
type NewRelicConfig struct {
	LicenseKey  string
	AppName     string
	Enabled     bool
	ForwardLogs bool
}

// LoggerConfig contains logging settings
type LoggerConfig struct {
	Level    string
	FilePath string
}
