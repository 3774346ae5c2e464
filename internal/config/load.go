package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/AnyUserName/imgbatch/internal/profile"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. IMGBATCH_QUALITY.
const EnvPrefix = "IMGBATCH"

// defaultConfigPath returns the per-user config directory.
func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "imgbatch")
}

// Load builds a Config from v. Precedence, highest first: flags bound to v,
// IMGBATCH_* environment, the config file, the selected preset, defaults.
// configFile may be empty, in which case imgbatch.yaml is looked up in the
// working directory and the user config directory and is optional.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("imgbatch")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir := defaultConfigPath(); dir != "" {
			v.AddConfigPath(dir)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	if name := v.GetString("preset"); name != "" {
		p, ok := profile.Get(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown preset %q", ErrConfig, name)
		}
		applyPreset(v, p)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("quality", d.Quality)
	v.SetDefault("resize", d.Resize)
	v.SetDefault("max_width", d.MaxWidth)
	v.SetDefault("output_format", d.OutputFormat)
	v.SetDefault("recursive", false)
	v.SetDefault("collapse", false)
	v.SetDefault("parallel", false)
	v.SetDefault("workers", 0)
	v.SetDefault("error_log", d.ErrorLog)
	v.SetDefault("timeout", "0s")
	v.SetDefault("preset", "")
	v.SetDefault("manifest", false)
	v.SetDefault("verbose", false)
	v.SetDefault("log_level", d.LogLevel)
}

// applyPreset replaces the defaults with preset values. Anything set
// explicitly still wins.
func applyPreset(v *viper.Viper, p profile.Profile) {
	v.SetDefault("quality", p.Quality)
	v.SetDefault("resize", p.Resize)
	v.SetDefault("max_width", p.MaxWidth)
	v.SetDefault("output_format", p.Format)
}
