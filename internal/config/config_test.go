package config

import (
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/image-convolve-mcp/internal/convolution"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(envMap(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, log.InfoLevel, cfg.LogLevel)
	assert.Equal(t, convolution.Extend, cfg.DefaultBorder)
	assert.Equal(t, 5, cfg.DefaultKernelSize)
	assert.Equal(t, ProfileOff, cfg.ProfileMode)
}

func TestLoad_AllSet(t *testing.T) {
	cfg, err := Load(envMap(map[string]string{
		EnvLogLevel:      "debug",
		EnvDefaultBorder: "Reflect",
		EnvDefaultKSize:  "7",
		EnvMaxKSize:      "31",
		EnvProfile:       "CPU",
		EnvProfilePath:   "/tmp/prof",
	}))
	require.NoError(t, err)

	assert.Equal(t, Config{
		LogLevel:          log.DebugLevel,
		DefaultBorder:     convolution.Mirror,
		DefaultKernelSize: 7,
		MaxKernelSize:     31,
		ProfileMode:       ProfileCPU,
		ProfilePath:       "/tmp/prof",
	}, cfg)
}

func TestLoad_BlankValuesUseDefaults(t *testing.T) {
	cfg, err := Load(envMap(map[string]string{
		EnvLogLevel:     "  ",
		EnvDefaultKSize: "",
	}))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"log level", map[string]string{EnvLogLevel: "chatty"}},
		{"border", map[string]string{EnvDefaultBorder: "sideways"}},
		{"even ksize", map[string]string{EnvDefaultKSize: "4"}},
		{"zero ksize", map[string]string{EnvDefaultKSize: "0"}},
		{"ksize not a number", map[string]string{EnvDefaultKSize: "five"}},
		{"max ksize", map[string]string{EnvMaxKSize: "-3"}},
		{"default above max", map[string]string{EnvDefaultKSize: "9", EnvMaxKSize: "7"}},
		{"profile", map[string]string{EnvProfile: "block"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(envMap(tt.env))
			assert.Error(t, err)
		})
	}
}

func TestLoad_BorderErrorWrapsSentinel(t *testing.T) {
	_, err := Load(envMap(map[string]string{EnvDefaultBorder: "sideways"}))
	assert.ErrorIs(t, err, convolution.ErrUnknownBorder)
	assert.Contains(t, err.Error(), EnvDefaultBorder)
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvDefaultBorder, "wrap")
	t.Setenv(EnvProfile, "mem")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, convolution.Wrap, cfg.DefaultBorder)
	assert.Equal(t, ProfileMem, cfg.ProfileMode)
}
