package observability

import (
	"testing"

	"github.com/smallbiznis/nasiya/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	cfg := LoadConfig(config.Config{AppName: "", Environment: "production", LogLevel: "info"})
	assert.Equal(t, "nasiya", cfg.ServiceName)
	assert.Equal(t, 0.1, cfg.OtelSamplingRatio)
	assert.False(t, cfg.Debug())

	dev := LoadConfig(config.Config{AppName: "nasiya-api", Environment: "development"})
	assert.Equal(t, "nasiya-api", dev.ServiceName)
	assert.Equal(t, 1.0, dev.OtelSamplingRatio)
	assert.True(t, dev.Debug())
}

func TestSplitCarriesSharedFields(t *testing.T) {
	cfg := LoadConfig(config.Config{
		AppName:      "nasiya",
		AppVersion:   "1.2.0",
		Environment:  "staging",
		LogLevel:     "debug",
		OtelEnabled:  true,
		OTLPEndpoint: "collector:4317",
	})
	out := split(cfg)

	assert.Equal(t, "1.2.0", out.Logger.Version)
	assert.True(t, out.Logger.IncludeStackOnError)
	assert.True(t, out.Tracing.Enabled)
	assert.Equal(t, "collector:4317", out.Metrics.ExporterEndpoint)
	assert.Equal(t, "staging", out.Tracing.Environment)
}
