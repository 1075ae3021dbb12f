// Package config loads the pts settings.
//
// Settings are read, by order of precedence, from PTS_ environment variables,
// a local .env file, a pts.yaml, pts.toml or pts.json config file (in the
// working directory or $HOME/.config/pts), and the defaults.
// The Gemini API key is also read from GEMINI_API_KEY or GOOGLE_API_KEY.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/etnz/points"
	"github.com/etnz/points/agent"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes all environment variables.
const EnvPrefix = "PTS"

// Config holds all the settings of pts.
type Config struct {
	DataDir       string `mapstructure:"DATA_DIR"`
	Store         string `mapstructure:"STORE"`
	Key           string `mapstructure:"KEY"`
	APIKey        string `mapstructure:"API_KEY"`
	Model         string `mapstructure:"MODEL"`
	HorizonMonths int    `mapstructure:"HORIZON_MONTHS"`
	Schedule      string `mapstructure:"SCHEDULE"`
	Verbose       bool   `mapstructure:"VERBOSE"`
	// TestingNow freezes the clock, as RFC 3339 or YYYY-MM-DD.
	TestingNow string `mapstructure:"TESTING_NOW"`
}

// DefaultDataDir returns $HOME/.local/share/pts, or .pts if there is no home.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pts"
	}
	return filepath.Join(home, ".local", "share", "pts")
}

// Load reads the configuration. configFile, if not empty, replaces the
// search of a pts config file.
func Load(configFile string) (*Config, error) {
	// .env file is optional.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("warning, cannot read .env: %v", err)
	}

	viper.SetDefault("DATA_DIR", DefaultDataDir())
	viper.SetDefault("STORE", "file")
	viper.SetDefault("KEY", points.DefaultKey)
	viper.SetDefault("MODEL", agent.DefaultModel)
	viper.SetDefault("HORIZON_MONTHS", points.DefaultHorizonMonths)
	viper.SetDefault("SCHEDULE", "@daily")
	viper.SetDefault("VERBOSE", false)
	viper.SetDefault("TESTING_NOW", "")

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("pts")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.config/pts")
	}
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("cannot read config file: %w", err)
		}
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// Bind environment variables explicitly to ensure they appear in Unmarshal
	for _, key := range []string{"DATA_DIR", "STORE", "KEY", "MODEL", "HORIZON_MONTHS", "SCHEDULE", "VERBOSE", "TESTING_NOW"} {
		_ = viper.BindEnv(key)
	}
	_ = viper.BindEnv("API_KEY", EnvPrefix+"_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if config.HorizonMonths <= 0 {
		return nil, fmt.Errorf("invalid configuration: HORIZON_MONTHS must be positive, got %d", config.HorizonMonths)
	}
	if _, err := config.Clock(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Clock returns the clock to use, time.Now unless TestingNow is set.
func (c *Config) Clock() (func() time.Time, error) {
	if c.TestingNow == "" {
		return time.Now, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateTime, time.DateOnly} {
		if t, err := time.Parse(layout, c.TestingNow); err == nil {
			return func() time.Time { return t }, nil
		}
	}
	return nil, fmt.Errorf("invalid configuration: TESTING_NOW %q is not a date", c.TestingNow)
}

// Environ returns the configuration as PTS_ environment variables, for
// external commands.
func (c *Config) Environ() []string {
	env := []string{
		EnvPrefix + "_DATA_DIR=" + c.DataDir,
		EnvPrefix + "_STORE=" + c.Store,
		EnvPrefix + "_KEY=" + c.Key,
		EnvPrefix + "_MODEL=" + c.Model,
		fmt.Sprintf("%s_HORIZON_MONTHS=%d", EnvPrefix, c.HorizonMonths),
		fmt.Sprintf("%s_VERBOSE=%t", EnvPrefix, c.Verbose),
	}
	if c.TestingNow != "" {
		env = append(env, EnvPrefix+"_TESTING_NOW="+c.TestingNow)
	}
	return env
}
