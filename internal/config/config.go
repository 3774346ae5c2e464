// Package config defines run configuration for imgbatch, its defaults and
// validation.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/AnyUserName/imgbatch/internal/encoder"
	"github.com/AnyUserName/imgbatch/internal/profile"
	"github.com/go-playground/validator/v10"
)

// DefaultErrorLog is the failure log written when none is configured.
const DefaultErrorLog = "error_log.txt"

// ErrConfig marks configuration problems detected before any file is touched.
var ErrConfig = errors.New("invalid configuration")

// Config holds all settings for one batch run.
type Config struct {
	InputDir  string `mapstructure:"-"`
	OutputDir string `mapstructure:"-"`

	Quality      int           `mapstructure:"quality" validate:"gte=0,lte=100"`
	Resize       bool          `mapstructure:"resize"`
	MaxWidth     int           `mapstructure:"max_width" validate:"gt=0"`
	OutputFormat string        `mapstructure:"output_format" validate:"required"`
	Recursive    bool          `mapstructure:"recursive"`
	Collapse     bool          `mapstructure:"collapse"`
	Parallel     bool          `mapstructure:"parallel"`
	Workers      int           `mapstructure:"workers" validate:"gte=0"`
	ErrorLog     string        `mapstructure:"error_log" validate:"required"`
	Timeout      time.Duration `mapstructure:"timeout"`
	Preset       string        `mapstructure:"preset"`
	Manifest     bool          `mapstructure:"manifest"`
	Verbose      bool          `mapstructure:"verbose"`
	LogLevel     string        `mapstructure:"log_level" validate:"omitempty,oneof=debug info warn warning error"`

	// Format is OutputFormat parsed by Validate.
	Format encoder.Format `mapstructure:"-"`
}

// DefaultConfig returns the built-in defaults, which match the default preset.
func DefaultConfig() *Config {
	p := profile.Default()
	return &Config{
		Quality:      p.Quality,
		Resize:       p.Resize,
		MaxWidth:     p.MaxWidth,
		OutputFormat: p.Format,
		ErrorLog:     DefaultErrorLog,
		LogLevel:     "info",
		Format:       encoder.Format(p.Format),
	}
}

var validate = validator.New()

// Validate checks value ranges and enums and resolves Format. All problems
// are reported together, wrapped in ErrConfig.
func (c *Config) Validate() error {
	var problems []string

	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %v", ErrConfig, err)
		}
		for _, fe := range verrs {
			problems = append(problems, describe(fe))
		}
	}

	if c.OutputFormat != "" {
		f, err := encoder.ParseFormat(c.OutputFormat)
		if err != nil {
			problems = append(problems, err.Error())
		} else {
			c.Format = f
		}
	}
	if c.Timeout < 0 {
		problems = append(problems, fmt.Sprintf("timeout must not be negative, got %s", c.Timeout))
	}
	if c.Preset != "" {
		if _, ok := profile.Get(c.Preset); !ok {
			problems = append(problems, fmt.Sprintf("unknown preset %q (available: %s)",
				c.Preset, strings.Join(profile.Names(), ", ")))
		}
	}
	if c.InputDir == "" {
		problems = append(problems, "input folder is required")
	}
	if c.OutputDir == "" {
		problems = append(problems, "output folder is required")
	}
	if c.InputDir != "" && c.OutputDir != "" && samePath(c.InputDir, c.OutputDir) {
		problems = append(problems, "output folder must differ from input folder")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrConfig, strings.Join(problems, "; "))
	}
	return nil
}

// describe renders a field error using the flag name of the field.
func describe(fe validator.FieldError) string {
	name := flagName(fe.StructField())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", name)
	case "gte":
		return fmt.Sprintf("%s must be >= %s, got %v", name, fe.Param(), fe.Value())
	case "lte":
		return fmt.Sprintf("%s must be <= %s, got %v", name, fe.Param(), fe.Value())
	case "gt":
		return fmt.Sprintf("%s must be > %s, got %v", name, fe.Param(), fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s, got %q", name, strings.ReplaceAll(fe.Param(), " ", ", "), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s check", name, fe.Tag())
	}
}

func flagName(field string) string {
	switch field {
	case "MaxWidth":
		return "max_width"
	case "OutputFormat":
		return "output_format"
	case "ErrorLog":
		return "error_log"
	case "LogLevel":
		return "log_level"
	default:
		return strings.ToLower(field)
	}
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// ResolveWorkerCount returns the worker pool size for a run: one worker when
// parallel processing is off, otherwise one per detected core.
func ResolveWorkerCount(parallel bool, detectedCores int) int {
	if !parallel || detectedCores < 1 {
		return 1
	}
	return detectedCores
}

// WorkerCount applies the --workers override on top of ResolveWorkerCount.
// The override only counts when Parallel is set.
func (c *Config) WorkerCount(detectedCores int) int {
	if c.Parallel && c.Workers > 0 {
		return c.Workers
	}
	return ResolveWorkerCount(c.Parallel, detectedCores)
}
