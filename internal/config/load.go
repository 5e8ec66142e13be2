package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/blackjacksim/internal/strategy"
)

// File is the decoded form of a configuration file
type File struct {
	Table      *Table          `hcl:"table,block"`
	Simulation *Simulation     `hcl:"simulation,block"`
	Output     *Output         `hcl:"output,block"`
	Strategies []StrategyBlock `hcl:"strategy,block"`
}

// Output controls the report and logging
type Output struct {
	Format   string `hcl:"format,optional"`
	File     string `hcl:"file,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// StrategyBlock declares one strategy to simulate
type StrategyBlock struct {
	Name               string  `hcl:"name,label"`
	Counting           string  `hcl:"counting"`
	Decision           string  `hcl:"decision,optional"`
	Betting            string  `hcl:"betting,optional"`
	Margin             float64 `hcl:"margin,optional"`
	Units              int     `hcl:"units,optional"`
	InsuranceThreshold float64 `hcl:"insurance_threshold,optional"`
}

// Config is a fully defaulted configuration
type Config struct {
	Table      Table
	Simulation Simulation
	Output     Output
	Strategies []strategy.Spec
}

// Default returns the configuration used when no file is present: every
// counting system with the S17 deviations and margin betting.
func Default() *Config {
	return &Config{
		Table:      DefaultTable(),
		Simulation: DefaultSimulation(),
		Output:     DefaultOutput(),
		Strategies: strategy.DefaultSpecs(),
	}
}

// DefaultOutput writes a text report to stdout at info level
func DefaultOutput() Output {
	return Output{Format: "text", LogLevel: "info"}
}

// Load reads the HCL file at filename. A missing file yields Default.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var decoded File
	diags = gohcl.DecodeBody(file.Body, nil, &decoded)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	return decoded.Resolve()
}

// Resolve applies defaults to a decoded file and validates the result
func (f File) Resolve() (*Config, error) {
	cfg := Default()
	if f.Table != nil {
		cfg.Table = f.Table.WithDefaults()
	}
	if f.Simulation != nil {
		cfg.Simulation = f.Simulation.WithDefaults()
	}
	if f.Output != nil {
		if f.Output.Format != "" {
			cfg.Output.Format = f.Output.Format
		}
		if f.Output.LogLevel != "" {
			cfg.Output.LogLevel = f.Output.LogLevel
		}
		cfg.Output.File = f.Output.File
	}

	if len(f.Strategies) > 0 {
		cfg.Strategies = make([]strategy.Spec, 0, len(f.Strategies))
		seen := make(map[string]bool, len(f.Strategies))
		for _, s := range f.Strategies {
			if seen[s.Name] {
				return nil, fmt.Errorf("duplicate strategy %q", s.Name)
			}
			seen[s.Name] = true
			cfg.Strategies = append(cfg.Strategies, s.Spec())
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Spec converts the block to a strategy description
func (b StrategyBlock) Spec() strategy.Spec {
	return strategy.Spec{
		Label:              b.Name,
		Counting:           b.Counting,
		Decision:           b.Decision,
		Betting:            b.Betting,
		Margin:             b.Margin,
		Units:              b.Units,
		InsuranceThreshold: b.InsuranceThreshold,
	}
}

// Validate checks every section, including that each strategy can be built
// for the configured table
func (c *Config) Validate() error {
	if err := c.Table.Validate(); err != nil {
		return fmt.Errorf("table: %w", err)
	}
	if err := c.Simulation.Validate(); err != nil {
		return fmt.Errorf("simulation: %w", err)
	}
	if len(c.Strategies) == 0 {
		return errors.New("at least one strategy is required")
	}
	for _, spec := range c.Strategies {
		if _, err := strategy.Build(spec, c.Table.Decks, c.Table.MinBet); err != nil {
			name := spec.Label
			if name == "" {
				name = spec.Counting
			}
			return fmt.Errorf("strategy %q: %w", name, err)
		}
	}
	return nil
}
