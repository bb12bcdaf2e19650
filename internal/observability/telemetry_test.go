package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/fantasy-squad/internal/config"
	"github.com/riskibarqy/fantasy-squad/internal/platform/logging"
)

func TestStart_AllDisabled(t *testing.T) {
	telemetry, err := Start(config.Config{}, logging.NewNop())
	require.NoError(t, err)
	require.NotNil(t, telemetry)

	assert.False(t, telemetry.tracing)
	assert.Nil(t, telemetry.profiler)
	assert.NoError(t, telemetry.Shutdown(t.Context()))
}

func TestStart_UptraceWithoutDSNStaysOff(t *testing.T) {
	telemetry, err := Start(config.Config{UptraceEnabled: true, UptraceDSN: "  "}, nil)
	require.NoError(t, err)
	assert.False(t, telemetry.tracing)
}

func TestTelemetry_ShutdownNil(t *testing.T) {
	var telemetry *Telemetry
	assert.NoError(t, telemetry.Shutdown(t.Context()))
}

func TestProfilerConfig_Tags(t *testing.T) {
	cfg := config.Config{
		AppEnv:           config.EnvStage,
		ServiceName:      "fantasy-squad-api",
		ServiceVersion:   "1.4.0",
		StorageDriver:    config.StoragePostgres,
		PyroscopeAppName: "fantasy-squad",
	}

	got := profilerConfig(cfg)

	assert.Equal(t, "fantasy-squad", got.ApplicationName)
	assert.Equal(t, map[string]string{
		"env":     config.EnvStage,
		"service": "fantasy-squad-api",
		"version": "1.4.0",
		"storage": config.StoragePostgres,
	}, got.Tags)
	assert.NotEmpty(t, got.ProfileTypes)
}
