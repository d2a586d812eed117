package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "game.hcl")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	t.Parallel()
	require.NoError(t, Default().Validate())
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, `
penalty {
  r1 = 2
  r2 = 2
  r3 = 3
  r4 = 3
}

house_rules {
  allow_multiple_matches_per_flip = true
}

casino {
  multipliers = [1.5, 2.0, 2.5, 5.0]
}
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Penalty.R1)
	assert.Equal(t, 3, cfg.Penalty.ForRound(4))
	assert.True(t, cfg.HouseRules.AllowMultipleMatchesPerFlip)
	assert.Equal(t, []float64{1.5, 2.0, 2.5, 5.0}, cfg.Casino.Multipliers)
	// Untouched blocks keep defaults.
	assert.Equal(t, 5, cfg.Reward.DistributeDrinks)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, cfg.Pyramid.RowValues)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, `
penalty {
  r1 = 1
  bogus = 9
}
`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative penalty", func(c *Config) { c.Penalty.R2 = -1 }},
		{"zero reward", func(c *Config) { c.Reward.DistributeDrinks = 0 }},
		{"short row values", func(c *Config) { c.Pyramid.RowValues = []int{1, 2, 3} }},
		{"zero row value", func(c *Config) { c.Pyramid.RowValues = []int{1, 2, 0, 4, 5} }},
		{"three multipliers", func(c *Config) { c.Casino.Multipliers = []float64{2, 2, 3} }},
		{"multiplier of one", func(c *Config) { c.Casino.Multipliers = []float64{2, 1, 3, 4} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestModeUnit(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "sip", Mode{Alcohol: true}.Unit())
	assert.Equal(t, "point", Mode{Alcohol: false}.Unit())
}
