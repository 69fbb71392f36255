// Package config defines the data structures related to configuration and
// includes functions for loading and validating it.
package config

import (
	"fmt"

	"github.com/iwvelando/montecarlo-backtest/pkg/constants"
	"github.com/iwvelando/montecarlo-backtest/pkg/validation"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for montecarlo-backtest.
type Configuration struct {
	Simulation SimulationConfig `mapstructure:"simulation" yaml:"simulation"`
	Logging    LoggingConfig    `mapstructure:"logging" yaml:"logging,omitempty"`
	Output     OutputConfig     `mapstructure:"output" yaml:"output,omitempty"`
}

// SimulationConfig holds the resampling parameters.
type SimulationConfig struct {
	Trials    int    `mapstructure:"trials" yaml:"trials" validate:"gte=0"`
	Field     string `mapstructure:"field" yaml:"field" validate:"required"`
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter" validate:"len=1"`
	Seed      *int64 `mapstructure:"seed" yaml:"seed,omitempty"` // nil leaves runs unseeded
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level,omitempty" validate:"omitempty,oneof=debug info warn warning error"`
	Format     string `mapstructure:"format" yaml:"format,omitempty" validate:"omitempty,oneof=json console"`
	OutputFile string `mapstructure:"outputFile" yaml:"outputFile,omitempty"` // optional file output
	MaxSizeMB  int    `mapstructure:"maxSizeMB" yaml:"maxSizeMB,omitempty" validate:"gte=0"`
	MaxBackups int    `mapstructure:"maxBackups" yaml:"maxBackups,omitempty" validate:"gte=0"`
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format,omitempty" validate:"omitempty,oneof=pretty csv json yaml"`
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"trials":        "simulation.trials",
	"field":         "simulation.field",
	"delimiter":     "simulation.delimiter",
	"log-level":     "logging.level",
	"output-format": "output.format",
}

// RegisterFlags adds the flags that can override configuration values.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "path to an optional YAML configuration file")
	flags.IntP("trials", "n", constants.DefaultTrials, "number of permutations")
	flags.String("field", constants.DefaultField, "column holding each trade's profit or loss")
	flags.String("delimiter", constants.DefaultDelimiter, "field delimiter for delimited trade files")
	flags.Int64("seed", 0, "seed the random source for a reproducible run")
	flags.String("output-format", "", "type of output override: pretty, csv, json, yaml")
	flags.String("log-level", "", "log level override (debug, info, warn, error)")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("simulation.trials", constants.DefaultTrials)
	v.SetDefault("simulation.field", constants.DefaultField)
	v.SetDefault("simulation.delimiter", constants.DefaultDelimiter)
	v.SetDefault("logging.level", constants.DefaultLogLevel)
	v.SetDefault("logging.format", constants.DefaultLogFormat)
	v.SetDefault("logging.maxSizeMB", constants.DefaultLogMaxSizeMB)
	v.SetDefault("logging.maxBackups", constants.DefaultLogMaxBackups)
	v.SetDefault("output.format", constants.OutputFormatPretty)
}

// LoadConfiguration builds the configuration from defaults, the YAML file at
// configPath (skipped when empty) and any flags the user set, in increasing
// order of precedence. flags may be nil.
func LoadConfiguration(configPath string, flags *pflag.FlagSet) (*Configuration, error) {
	v := viper.New()
	setDefaults(v)

	// No path means defaults plus flags only
	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file, %w", err)
		}
	}

	// Bind only flags the user set, so an unchanged flag default never
	// shadows a value from the file
	if flags != nil {
		for name, key := range flagKeys {
			flag := flags.Lookup(name)
			if flag == nil || !flag.Changed {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("unable to bind flag %s, %w", name, err)
			}
		}
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	// A seed of zero is valid, so presence rather than value marks a seeded run
	if flags != nil && flags.Changed("seed") {
		seed, err := flags.GetInt64("seed")
		if err != nil {
			return nil, err
		}
		configuration.Simulation.Seed = &seed
	}

	return &configuration, nil
}

// Validate checks every field against its allowed values.
func (c *Configuration) Validate() error {
	// Check the trial count first for a clearer message than the tag error
	if err := validation.ValidateTrials(c.Simulation.Trials); err != nil {
		return err
	}
	return validation.Struct(c)
}

// DelimiterRune returns the configured delimiter as a rune for the CSV reader.
func (c *Configuration) DelimiterRune() rune {
	for _, r := range c.Simulation.Delimiter {
		return r
	}
	return rune(constants.DefaultDelimiter[0])
}
