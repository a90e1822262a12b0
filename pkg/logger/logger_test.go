package logger

import (
	"os"
	"path/filepath"
	"testing"

	"powermon/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_WritesToRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "powermon.log")

	log := Init(&config.Config{
		Env:         "production",
		ServiceName: "powermon-test",
		Log:         config.LogConfig{File: path, MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1},
	})
	log.Info().Str("checkpoint", "kitchen").Msg("probe recorded")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"service":"powermon-test"`)
	assert.Contains(t, string(data), `"checkpoint":"kitchen"`)
}

func TestInit_NoFileSink(t *testing.T) {
	assert.Nil(t, fileWriter(config.LogConfig{}))
}
