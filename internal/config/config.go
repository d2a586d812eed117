// Package config loads game configuration from HCL files. Engines receive
// a Config as read-only input and never mutate it; unknown keys are a decode
// error rather than a silent default.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config is the complete game configuration consumed by both rule engines.
type Config struct {
	Penalty    Penalty
	Reward     Reward
	Pyramid    Pyramid
	Mode       Mode
	HouseRules HouseRules
	Casino     Casino
}

// Penalty holds per-round sip penalties for wrong deal-phase guesses.
type Penalty struct {
	R1 int `hcl:"r1,optional"`
	R2 int `hcl:"r2,optional"`
	R3 int `hcl:"r3,optional"`
	R4 int `hcl:"r4,optional"`
}

// ForRound returns the penalty for deal round n (1-4).
func (p Penalty) ForRound(n int) int {
	switch n {
	case 1:
		return p.R1
	case 2:
		return p.R2
	case 3:
		return p.R3
	case 4:
		return p.R4
	default:
		return 0
	}
}

// Reward holds reward amounts.
type Reward struct {
	// DistributeDrinks is how many drinks a correct R4 suit guess lets the
	// player hand out.
	DistributeDrinks int `hcl:"distribute_drinks,optional"`
}

// Pyramid configures the pyramid phase.
type Pyramid struct {
	// RowValues assigns a drink value to each row, bottom (index 0) to top.
	RowValues []int `hcl:"row_values,optional"`
}

// Mode selects wording for penalties: drinks in alcohol mode, points otherwise.
type Mode struct {
	Alcohol bool `hcl:"alcohol,optional"`
}

// Unit returns the display unit for the current mode.
func (m Mode) Unit() string {
	if m.Alcohol {
		return "sip"
	}
	return "point"
}

// HouseRules are configuration toggles that alter base rule strictness.
type HouseRules struct {
	// AllowMultipleMatchesPerFlip lets a single player commit more than one
	// matching hand card against the same pyramid flip.
	AllowMultipleMatchesPerFlip bool `hcl:"allow_multiple_matches_per_flip,optional"`
}

// Casino configures the multiplier ladder.
type Casino struct {
	// Multipliers are the per-round payout factors, round 1 through 4.
	// The accumulated multiplier is their running product.
	Multipliers []float64 `hcl:"multipliers,optional"`
}

// fileConfig is the HCL file shape: every block is optional and missing
// blocks fall back to defaults.
type fileConfig struct {
	Penalty    *Penalty    `hcl:"penalty,block"`
	Reward     *Reward     `hcl:"reward,block"`
	Pyramid    *Pyramid    `hcl:"pyramid,block"`
	Mode       *Mode       `hcl:"mode,block"`
	HouseRules *HouseRules `hcl:"house_rules,block"`
	Casino     *Casino     `hcl:"casino,block"`
}

// Default returns the documented default configuration: one sip per wrong
// deal guess, five drinks to distribute on a correct suit call, pyramid rows
// worth 1..5, alcohol wording, single match per flip, 2x/2x/3x/4x ladder.
func Default() *Config {
	return &Config{
		Penalty:    Penalty{R1: 1, R2: 1, R3: 1, R4: 1},
		Reward:     Reward{DistributeDrinks: 5},
		Pyramid:    Pyramid{RowValues: []int{1, 2, 3, 4, 5}},
		Mode:       Mode{Alcohol: true},
		HouseRules: HouseRules{AllowMultipleMatchesPerFlip: false},
		Casino:     Casino{Multipliers: []float64{2, 2, 3, 4}},
	}
}

// Load reads configuration from an HCL file, applying defaults for any
// missing blocks. A missing file yields the defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var fc fileConfig
	diags = gohcl.DecodeBody(file.Body, nil, &fc)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg := Default()
	if fc.Penalty != nil {
		cfg.Penalty = *fc.Penalty
	}
	if fc.Reward != nil {
		cfg.Reward = *fc.Reward
	}
	if fc.Pyramid != nil && len(fc.Pyramid.RowValues) > 0 {
		cfg.Pyramid = *fc.Pyramid
	}
	if fc.Mode != nil {
		cfg.Mode = *fc.Mode
	}
	if fc.HouseRules != nil {
		cfg.HouseRules = *fc.HouseRules
	}
	if fc.Casino != nil && len(fc.Casino.Multipliers) > 0 {
		cfg.Casino = *fc.Casino
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration invariants both engines rely on.
func (c *Config) Validate() error {
	for round := 1; round <= 4; round++ {
		if c.Penalty.ForRound(round) < 0 {
			return fmt.Errorf("penalty r%d must not be negative", round)
		}
	}
	if c.Reward.DistributeDrinks <= 0 {
		return fmt.Errorf("reward distribute_drinks must be positive, got %d", c.Reward.DistributeDrinks)
	}
	if len(c.Pyramid.RowValues) != 5 {
		return fmt.Errorf("pyramid row_values must list exactly 5 rows, got %d", len(c.Pyramid.RowValues))
	}
	for i, v := range c.Pyramid.RowValues {
		if v <= 0 {
			return fmt.Errorf("pyramid row_values[%d] must be positive, got %d", i, v)
		}
	}
	if len(c.Casino.Multipliers) != 4 {
		return fmt.Errorf("casino multipliers must list exactly 4 rounds, got %d", len(c.Casino.Multipliers))
	}
	for i, m := range c.Casino.Multipliers {
		if m <= 1 {
			return fmt.Errorf("casino multipliers[%d] must exceed 1, got %v", i, m)
		}
	}
	return nil
}
