package newrelic

import (
	"testing"

	"github.com/piresc/unitransport/internal/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestInitNewRelic_Disabled(t *testing.T) {
	cfg := &models.Config{}
	cfg.NewRelic.Enabled = false
	cfg.NewRelic.LicenseKey = "0123456789012345678901234567890123456789"
	assert.Nil(t, InitNewRelic(cfg))

	cfg.NewRelic.Enabled = true
	cfg.NewRelic.LicenseKey = ""
	assert.Nil(t, InitNewRelic(cfg))
}

func TestInitNewRelic_InvalidLicense(t *testing.T) {
	cfg := &models.Config{}
	cfg.App.Name = "unitransport-test"
	cfg.NewRelic.Enabled = true
	cfg.NewRelic.LicenseKey = "too-short"

	assert.Nil(t, InitNewRelic(cfg))
}
