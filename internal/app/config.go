package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/viper"

	"github.com/kairosolo/kprefs/internal/watch"
)

const (
	configFileName = "kprefs"
	configFileType = "yaml"

	cfgKeyDir      = "dir"
	cfgKeyVerbose  = "verbose"
	cfgKeyDebounce = "watch_debounce"
)

// Config holds runtime options for the CLI.
//
// Precedence, lowest first: built-in defaults, kprefs.yaml, environment,
// command-line flags (applied by the caller).
type Config struct {
	Dir      string        `env:"KPREFS_DIR"`            // data directory
	Verbose  bool          `env:"KPREFS_VERBOSE"`        // debug logging
	Debounce time.Duration `env:"KPREFS_WATCH_DEBOUNCE"` // quiet period for watch
}

// DefaultDir returns the per-user data directory, e.g. ~/.config/kprefs.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "kprefs"), nil
}

// LoadConfig resolves Config. configFile names an explicit YAML file; when
// empty, kprefs.yaml is looked up in the working directory and in the
// default data directory, and a missing file is not an error.
func LoadConfig(configFile string) (Config, error) {
	v := viper.New()
	v.SetDefault(cfgKeyDebounce, watch.DefaultDebounce)
	if dir, err := DefaultDir(); err == nil {
		v.SetDefault(cfgKeyDir, dir)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(".")
		if dir, err := DefaultDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		Dir:      v.GetString(cfgKeyDir),
		Verbose:  v.GetBool(cfgKeyVerbose),
		Debounce: v.GetDuration(cfgKeyDebounce),
	}
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv overlays environment variables onto target. Unset variables
// leave fields untouched.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
