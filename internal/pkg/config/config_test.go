package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/piresc/unitransport/internal/pkg/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfig_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	cfg, err := InitConfig("", "unitransport-student")
	require.NoError(t, err)

	assert.Equal(t, "unitransport-student", cfg.App.Name)
	assert.Equal(t, constants.TransportNATS, cfg.Transport.Driver)
	assert.Equal(t, constants.TopicUpdates, cfg.Transport.Topic)
	assert.Equal(t, 5*time.Second, cfg.Transport.ReconnectDelay)
	assert.Equal(t, constants.StoreMemory, cfg.Fleet.StoreDriver)
	assert.Equal(t, int64(30000), cfg.Fleet.StalenessMs)
	assert.Equal(t, 5*time.Second, cfg.Fleet.RefreshInterval)
	assert.Equal(t, time.Second, cfg.Driver.TickInterval)
	assert.Equal(t, 0.01, cfg.Driver.SimulationStep)
	assert.Equal(t, constants.TownLat, cfg.Locations.Town.Lat)
	assert.Equal(t, constants.UniversityLng, cfg.Locations.University.Lng)
	assert.Empty(t, cfg.Transport.LookupdAddresses)
}

func TestInitConfig_EnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("TRANSPORT_DRIVER", "MQTT")
	t.Setenv("TRANSPORT_URL", "tcp://broker:1883")
	t.Setenv("TRANSPORT_RECONNECT_DELAY", "2s")
	t.Setenv("TRANSPORT_LOOKUPD_ADDRESSES", "lookupd-1:4161, lookupd-2:4161,")
	t.Setenv("FLEET_FILTER_DIRECTION", "uni_to_town")
	t.Setenv("FLEET_FILTER_ROUTE", "3")

	cfg, err := InitConfig("", "unitransport-student")
	require.NoError(t, err)

	assert.Equal(t, constants.TransportMQTT, cfg.Transport.Driver)
	assert.Equal(t, "tcp://broker:1883", cfg.Transport.URL)
	assert.Equal(t, 2*time.Second, cfg.Transport.ReconnectDelay)
	assert.Equal(t, []string{"lookupd-1:4161", "lookupd-2:4161"}, cfg.Transport.LookupdAddresses)
	assert.Equal(t, "uni_to_town", cfg.Fleet.FilterDirection)
	assert.Equal(t, 3, cfg.Fleet.FilterRoute)
}

func TestInitConfig_LoadsDotEnvInLocal(t *testing.T) {
	t.Setenv("APP_ENV", "local")
	// godotenv never overrides variables that already exist, so start from unset
	os.Unsetenv("DRIVER_ROUTE")
	t.Cleanup(func() { os.Unsetenv("DRIVER_ROUTE") })

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DRIVER_ROUTE=4\n"), 0600))

	cfg, err := InitConfig(path, "unitransport-driver")
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Driver.Route)
}

func TestInitConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown transport", "TRANSPORT_DRIVER", "kafka"},
		{"unknown store", "STORE_DRIVER", "postgres"},
		{"bad direction filter", "FLEET_FILTER_DIRECTION", "sideways"},
		{"zero reconnect delay", "TRANSPORT_RECONNECT_DELAY", "0s"},
		{"step above one", "DRIVER_SIMULATION_STEP", "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("APP_ENV", "test")
			t.Setenv(tt.key, tt.val)

			_, err := InitConfig("", "unitransport")
			assert.Error(t, err)
		})
	}
}

func TestAddress(t *testing.T) {
	assert.Equal(t, "0.0.0.0:8080", Address("0.0.0.0", 8080))
}

func TestDurationOr(t *testing.T) {
	assert.Equal(t, time.Second, DurationOr(0, time.Second))
	assert.Equal(t, 2*time.Second, DurationOr(2*time.Second, time.Second))
}
