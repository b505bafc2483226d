// Package config layers evaluation settings from defaults, an optional
// config file and command-line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/nikosa/p2pflow/pkg/models"
)

// Config carries all run settings.
type Config struct {
	// ScratchDir is where raw statements are downloaded. Each platform gets
	// its own subdirectory, owned exclusively by its pipeline.
	ScratchDir string `mapstructure:"scratch_dir"`
	// OutputDir receives the daily/monthly/total result sheets.
	OutputDir string `mapstructure:"output_dir"`
	// Headless controls whether browser sessions run without a window.
	Headless bool `mapstructure:"headless"`
	// Platforms selects which platforms to evaluate; empty means all.
	Platforms []string `mapstructure:"platforms"`
	// StartMonth and EndMonth bound the evaluation range, format "2006-01".
	// Only whole calendar months are supported.
	StartMonth string `mapstructure:"start_month"`
	EndMonth   string `mapstructure:"end_month"`
	// EnvFile optionally points at an env file with platform credentials.
	EnvFile string `mapstructure:"env_file"`
	// DescriptorOverrides optionally points at a YAML file patching
	// platform descriptors.
	DescriptorOverrides string `mapstructure:"descriptor_overrides"`
}

// Build loads the configuration: defaults, then the config file (explicit
// path or p2pflow.yaml next to the working directory / under the home
// directory), then flag overrides.
func Build(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	v.SetDefault("scratch_dir", filepath.Join(home, ".p2pflow"))
	v.SetDefault("output_dir", ".")
	v.SetDefault("headless", true)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	} else {
		v.SetConfigName("p2pflow")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(home)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix("P2PFLOW")
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("binding flags: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return &cfg, nil
}

// DateRange parses the configured month bounds into a whole-month range.
func (c *Config) DateRange() (models.DateRange, error) {
	if c.StartMonth == "" || c.EndMonth == "" {
		return models.DateRange{}, fmt.Errorf("start_month and end_month must be set")
	}
	start, err := time.Parse("2006-01", c.StartMonth)
	if err != nil {
		return models.DateRange{}, fmt.Errorf("bad start_month %q: %w", c.StartMonth, err)
	}
	end, err := time.Parse("2006-01", c.EndMonth)
	if err != nil {
		return models.DateRange{}, fmt.Errorf("bad end_month %q: %w", c.EndMonth, err)
	}
	return models.NewDateRange(start, models.MonthOf(end).Last())
}
