package config

import (
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"holdem-server/internal/util"
)

// Config provides configuration for the hold'em server
type Config struct {
	loaded bool

	Log struct {
		Level             string `yaml:"level" envconfig:"level"`
		Format            string `yaml:"format" envconfig:"format"`
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
	} `yaml:"log"`

	Table struct {
		SmallBlind           int `yaml:"smallBlind" envconfig:"small_blind"`
		BigBlind             int `yaml:"bigBlind" envconfig:"big_blind"`
		MinPlayers           int `yaml:"minPlayers" envconfig:"min_players"`
		MaxPlayers           int `yaml:"maxPlayers" envconfig:"max_players"`
		ActionTimeoutSeconds int `yaml:"actionTimeoutSeconds" envconfig:"action_timeout_seconds"`
		NewHandDelaySeconds  int `yaml:"newHandDelaySeconds" envconfig:"new_hand_delay_seconds"`
		DefaultBuyIn         int `yaml:"defaultBuyIn" envconfig:"default_buy_in"`
	} `yaml:"table"`
}

var config Config

// DefaultConfig returns the configuration with all defaults applied
func DefaultConfig() Config {
	c := Config{}
	c.Log.Level = "info"
	c.Table.SmallBlind = 25
	c.Table.BigBlind = 50
	c.Table.MinPlayers = 2
	c.Table.MaxPlayers = 9
	c.Table.ActionTimeoutSeconds = 120
	c.Table.NewHandDelaySeconds = 5
	c.Table.DefaultBuyIn = 1000

	return c
}

// ActionTimeout returns the per-action timeout as a duration
func (c Config) ActionTimeout() time.Duration {
	return time.Duration(c.Table.ActionTimeoutSeconds) * time.Second
}

// NewHandDelay returns the post-showdown delay as a duration
func (c Config) NewHandDelay() time.Duration {
	return time.Duration(c.Table.NewHandDelaySeconds) * time.Second
}

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration. A missing config file is fine; the
// defaults plus the environment apply.
func Load() error {
	config = DefaultConfig()

	configFile := util.Getenv("HOLDEM_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	if err == nil {
		defer file.Close()

		if err := yaml.NewDecoder(file).Decode(&config); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := envconfig.Process("holdem", &config); err != nil {
		return err
	}

	config.loaded = true
	return nil
}
