package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/piresc/unitransport/internal/pkg/constants"
	"github.com/piresc/unitransport/internal/pkg/models"
	"github.com/spf13/viper"
)

// InitConfig loads configuration for the named application. In the local
// environment the .env file at configPath is loaded first; every value can be
// overridden by a process environment variable of the same name.
func InitConfig(configPath, appName string) (*models.Config, error) {
	v := newViper(appName)

	if v.GetString("APP_ENV") == "local" && configPath != "" {
		if err := godotenv.Load(configPath); err != nil {
			log.Println("error loading config from file", err)
		}
	}

	configs := loadConfig(v)
	if err := Validate(configs); err != nil {
		return nil, err
	}
	return configs, nil
}

var validate = validator.New()

// Validate checks a loaded configuration against its struct tags
func Validate(configs *models.Config) error {
	if err := validate.Struct(configs); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func newViper(appName string) *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_NAME", appName)
	v.SetDefault("APP_ENV", "local")
	v.SetDefault("APP_DEBUG", false)
	v.SetDefault("APP_VERSION", "dev")

	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", "10s")

	v.SetDefault("TRANSPORT_DRIVER", constants.TransportNATS)
	v.SetDefault("TRANSPORT_URL", "nats://localhost:4222")
	v.SetDefault("TRANSPORT_TOPIC", constants.TopicUpdates)
	v.SetDefault("TRANSPORT_RECONNECT_DELAY", constants.DefaultReconnectDelay.String())
	v.SetDefault("TRANSPORT_CONNECT_TIMEOUT", "5s")
	v.SetDefault("TRANSPORT_LOOKUPD_ADDRESSES", "")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POOL_SIZE", 10)

	v.SetDefault("STORE_DRIVER", constants.StoreMemory)
	v.SetDefault("FLEET_STALENESS_MS", constants.StalenessThresholdMs)
	v.SetDefault("FLEET_REFRESH_INTERVAL", "5s")
	v.SetDefault("FLEET_FILTER_DIRECTION", "")
	v.SetDefault("FLEET_FILTER_ROUTE", 0)

	v.SetDefault("DRIVER_TICK_INTERVAL", constants.DefaultTickInterval.String())
	v.SetDefault("DRIVER_SIMULATION_STEP", constants.DefaultSimulationStep)
	v.SetDefault("DRIVER_MIN_PUBLISH_INTERVAL", constants.DefaultMinPublishInterval.String())
	v.SetDefault("DRIVER_FEED_URL", "")
	v.SetDefault("DRIVER_ROUTE", 0)
	v.SetDefault("DRIVER_DIRECTION", "")
	v.SetDefault("DRIVER_AUTO_START", false)

	v.SetDefault("TOWN_LAT", constants.TownLat)
	v.SetDefault("TOWN_LNG", constants.TownLng)
	v.SetDefault("UNIVERSITY_LAT", constants.UniversityLat)
	v.SetDefault("UNIVERSITY_LNG", constants.UniversityLng)

	v.SetDefault("NEW_RELIC_LICENSE_KEY", "")
	v.SetDefault("NEW_RELIC_APP_NAME", appName)
	v.SetDefault("NEW_RELIC_ENABLED", false)
	v.SetDefault("NEW_RELIC_FORWARD_LOGS", false)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE_PATH", "")

	return v
}

func loadConfig(v *viper.Viper) *models.Config {
	configs := &models.Config{}

	// App config
	configs.App.Name = v.GetString("APP_NAME")
	configs.App.Environment = v.GetString("APP_ENV")
	configs.App.Debug = v.GetBool("APP_DEBUG")
	configs.App.Version = v.GetString("APP_VERSION")

	// Server config
	configs.Server.Host = v.GetString("SERVER_HOST")
	configs.Server.Port = v.GetInt("SERVER_PORT")
	configs.Server.ShutdownTimeout = v.GetDuration("SERVER_SHUTDOWN_TIMEOUT")

	// Transport config
	configs.Transport.Driver = strings.ToLower(v.GetString("TRANSPORT_DRIVER"))
	configs.Transport.URL = v.GetString("TRANSPORT_URL")
	configs.Transport.Topic = v.GetString("TRANSPORT_TOPIC")
	configs.Transport.ReconnectDelay = v.GetDuration("TRANSPORT_RECONNECT_DELAY")
	configs.Transport.ConnectTimeout = v.GetDuration("TRANSPORT_CONNECT_TIMEOUT")
	configs.Transport.LookupdAddresses = splitList(v.GetString("TRANSPORT_LOOKUPD_ADDRESSES"))

	// Redis config
	configs.Redis.Host = v.GetString("REDIS_HOST")
	configs.Redis.Port = v.GetInt("REDIS_PORT")
	configs.Redis.Password = v.GetString("REDIS_PASSWORD")
	configs.Redis.DB = v.GetInt("REDIS_DB")
	configs.Redis.PoolSize = v.GetInt("REDIS_POOL_SIZE")

	// Fleet config
	configs.Fleet.StoreDriver = strings.ToLower(v.GetString("STORE_DRIVER"))
	configs.Fleet.StalenessMs = v.GetInt64("FLEET_STALENESS_MS")
	configs.Fleet.RefreshInterval = v.GetDuration("FLEET_REFRESH_INTERVAL")
	configs.Fleet.FilterDirection = v.GetString("FLEET_FILTER_DIRECTION")
	configs.Fleet.FilterRoute = v.GetInt("FLEET_FILTER_ROUTE")

	// Driver config
	configs.Driver.TickInterval = v.GetDuration("DRIVER_TICK_INTERVAL")
	configs.Driver.SimulationStep = v.GetFloat64("DRIVER_SIMULATION_STEP")
	configs.Driver.MinPublishInterval = v.GetDuration("DRIVER_MIN_PUBLISH_INTERVAL")
	configs.Driver.FeedURL = v.GetString("DRIVER_FEED_URL")
	configs.Driver.Route = v.GetInt("DRIVER_ROUTE")
	configs.Driver.Direction = v.GetString("DRIVER_DIRECTION")
	configs.Driver.AutoStart = v.GetBool("DRIVER_AUTO_START")

	// Route endpoints
	configs.Locations.Town = models.Point{Lat: v.GetFloat64("TOWN_LAT"), Lng: v.GetFloat64("TOWN_LNG")}
	configs.Locations.University = models.Point{Lat: v.GetFloat64("UNIVERSITY_LAT"), Lng: v.GetFloat64("UNIVERSITY_LNG")}

	// NewRelic config
	configs.NewRelic.LicenseKey = v.GetString("NEW_RELIC_LICENSE_KEY")
	configs.NewRelic.AppName = v.GetString("NEW_RELIC_APP_NAME")
	configs.NewRelic.Enabled = v.GetBool("NEW_RELIC_ENABLED")
	configs.NewRelic.ForwardLogs = v.GetBool("NEW_RELIC_FORWARD_LOGS")

	// Logger config
	configs.Logger.Level = v.GetString("LOG_LEVEL")
	configs.Logger.FilePath = v.GetString("LOG_FILE_PATH")

	return configs
}

// splitList parses a comma separated list, dropping blanks
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Address joins host and port for listeners and clients
func Address(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}

// DurationOr returns d when positive, otherwise fallback
func DurationOr(d, fallback time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return fallback
}
