// Package config loads server settings from the environment.
//
// Every setting has a default, so an empty environment yields a usable
// Config. Malformed values are errors.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/ironsheep/image-convolve-mcp/internal/convolution"
)

// Environment variable names.
const (
	EnvLogLevel      = "CONVOLVE_MCP_LOG_LEVEL"
	EnvDefaultBorder = "CONVOLVE_MCP_DEFAULT_BORDER"
	EnvDefaultKSize  = "CONVOLVE_MCP_DEFAULT_KSIZE"
	EnvMaxKSize      = "CONVOLVE_MCP_MAX_KSIZE"
	EnvProfile       = "CONVOLVE_MCP_PROFILE"
	EnvProfilePath   = "CONVOLVE_MCP_PROFILE_PATH"
)

// ProfileMode selects the runtime profile written by the command.
type ProfileMode string

const (
	ProfileOff ProfileMode = "off"
	ProfileCPU ProfileMode = "cpu"
	ProfileMem ProfileMode = "mem"
)

// Config holds server settings.
type Config struct {
	// LogLevel is the logrus level for stderr logging.
	LogLevel log.Level

	// DefaultBorder applies when a tool call omits "border".
	DefaultBorder convolution.Border

	// DefaultKernelSize applies when a blur call omits "kernel_size". Always
	// positive and odd.
	DefaultKernelSize int

	// MaxKernelSize bounds kernel width and height accepted by the tools.
	MaxKernelSize int

	// ProfileMode and ProfilePath control pkg/profile output.
	ProfileMode ProfileMode
	ProfilePath string
}

// Default returns the settings used when no variables are set.
func Default() Config {
	return Config{
		LogLevel:          log.InfoLevel,
		DefaultBorder:     convolution.Extend,
		DefaultKernelSize: 5,
		MaxKernelSize:     99,
		ProfileMode:       ProfileOff,
		ProfilePath:       ".",
	}
}

// FromEnv loads a Config from the process environment.
func FromEnv() (Config, error) {
	return Load(os.LookupEnv)
}

// Load builds a Config from lookup, which has the signature of os.LookupEnv.
func Load(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get(EnvLogLevel); ok {
		lvl, err := log.ParseLevel(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
		cfg.LogLevel = lvl
	}

	if v, ok := get(EnvDefaultBorder); ok {
		b, err := convolution.ParseBorder(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvDefaultBorder, err)
		}
		cfg.DefaultBorder = b
	}

	if v, ok := get(EnvMaxKSize); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return cfg, fmt.Errorf("%s: %q is not a positive integer", EnvMaxKSize, v)
		}
		cfg.MaxKernelSize = n
	}

	if v, ok := get(EnvDefaultKSize); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n%2 == 0 {
			return cfg, fmt.Errorf("%s: %q is not a positive odd integer", EnvDefaultKSize, v)
		}
		cfg.DefaultKernelSize = n
	}
	if cfg.DefaultKernelSize > cfg.MaxKernelSize {
		return cfg, fmt.Errorf("%s %d exceeds %s %d", EnvDefaultKSize, cfg.DefaultKernelSize, EnvMaxKSize, cfg.MaxKernelSize)
	}

	if v, ok := get(EnvProfile); ok {
		switch mode := ProfileMode(strings.ToLower(v)); mode {
		case ProfileOff, ProfileCPU, ProfileMem:
			cfg.ProfileMode = mode
		default:
			return cfg, fmt.Errorf("%s: unknown profile mode %q (want cpu, mem or off)", EnvProfile, v)
		}
	}

	if v, ok := get(EnvProfilePath); ok {
		cfg.ProfilePath = v
	}

	return cfg, nil
}
