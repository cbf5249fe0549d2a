package main

import (
	"testing"

	"restaurantapi/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyFlags_OnlyChangedFlagsOverride(t *testing.T) {
	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--batch-size", "25"}))

	cfg := config.Defaults()
	batch, err := cmd.Flags().GetInt("batch-size")
	require.NoError(t, err)
	applyFlags(cmd, &cfg, options{batchSize: batch})

	assert.Equal(t, 25, cfg.EnrichBatchSize)
	assert.Equal(t, config.Defaults().EnrichRPS, cfg.EnrichRPS)
	assert.Equal(t, config.Defaults().EnrichMaxRetries, cfg.EnrichMaxRetries)
}

func TestRun_RequiresAPIKey(t *testing.T) {
	cfg := config.Defaults()
	cfg.RapidAPIKey = ""

	err := run(t.Context(), &cfg, false)
	assert.ErrorContains(t, err, "RAPIDAPI_KEY")
}

func TestRun_RejectsInvalidConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.EnrichBatchSize = 0

	assert.Error(t, run(t.Context(), &cfg, true))
}
