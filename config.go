package main

import (
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/kirsle/configdir"
)

// Config carries the user's default decoding parameters. Command-line
// flags take precedence over the values loaded from config.toml.
type Config struct {
	Volume     uint16 `toml:"volume"`
	Rate       uint32 `toml:"rate"`
	DurationMs uint32 `toml:"duration_ms"`
	Fade       bool   `toml:"fade"`
}

func defaultConfig() Config {
	return Config{
		Volume:     100,
		Rate:       44100,
		DurationMs: 90000,
		Fade:       true,
	}
}

var configDir = sync.OnceValue(func() string {
	return configdir.LocalConfig("chipdec")
})

const cfgFilename = "config.toml"

// loadConfigOrDefault loads the configuration from the chipdec config
// directory, or provides the built-in defaults.
func loadConfigOrDefault() Config {
	cfg := defaultConfig()
	_, err := toml.DecodeFile(filepath.Join(configDir(), cfgFilename), &cfg)
	if err != nil {
		return defaultConfig()
	}
	if cfg.Volume == 0 {
		cfg.Volume = 100
	}
	if cfg.Rate == 0 {
		cfg.Rate = 44100
	}
	return cfg
}
