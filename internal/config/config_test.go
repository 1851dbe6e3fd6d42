package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_AppliesDefaultsWithNoConfigFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Corpus.Driver)
	assert.Equal(t, "memory", cfg.Cache.Driver)
	assert.Equal(t, 4, cfg.Worker.Count)
	assert.Equal(t, "info", cfg.Observability.LogLevel)
	assert.InDelta(t, 0.4, cfg.Scoring.BaselineConfidence, 0.001)
}

func TestLoad_EnvironmentOverridesDefault(t *testing.T) {
	require.NoError(t, os.Setenv("CITELINK_SERVER_PORT", "9090"))
	defer os.Unsetenv("CITELINK_SERVER_PORT")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoad_RejectsInvalidLogLevel(t *testing.T) {
	require.NoError(t, os.Setenv("CITELINK_OBSERVABILITY_LOG_LEVEL", "verbose"))
	defer os.Unsetenv("CITELINK_OBSERVABILITY_LOG_LEVEL")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_RejectsOutOfRangePort(t *testing.T) {
	require.NoError(t, os.Setenv("CITELINK_SERVER_PORT", "70000"))
	defer os.Unsetenv("CITELINK_SERVER_PORT")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_RejectsZeroWorkerCount(t *testing.T) {
	require.NoError(t, os.Setenv("CITELINK_WORKER_COUNT", "0"))
	defer os.Unsetenv("CITELINK_WORKER_COUNT")

	_, err := Load("")
	assert.Error(t, err)
}
