package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/soypat/penfix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "penfix.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, penfix.DefaultTargetLength, cfg.TargetLength)
	b := cfg.Batch(nil)
	assert.Equal(t, penfix.FailFast, b.Policy)
	assert.Equal(t, penfix.DefaultTargetLength, b.Normalizer.TargetLength)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
target_length = 0.12
policy = "best-effort"
output_dir = "out"
log_level = "debug"
frame = "world"
ascii = true
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.12, cfg.TargetLength)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, FrameWorld, cfg.Frame)
	assert.True(t, cfg.ASCII)
	assert.Equal(t, penfix.BestEffort, cfg.Batch(nil).Policy)
}

func TestLoadKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `policy = "best-effort"`))
	require.NoError(t, err)
	assert.Equal(t, penfix.DefaultTargetLength, cfg.TargetLength)
	assert.Equal(t, "fixed", cfg.OutputDir)
}

func TestLoadErrors(t *testing.T) {
	for name, body := range map[string]string{
		"unknown key":  `colour = "blue"`,
		"zero target":  `target_length = 0.0`,
		"neg target":   `target_length = -1.0`,
		"inf target":   `target_length = inf`,
		"nan target":   `target_length = nan`,
		"policy":       `policy = "retry"`,
		"level":        `log_level = "loud"`,
		"frame":        `frame = "camera"`,
		"syntax":       `target_length = `,
		"weld":         `weld_tolerance = -0.5`,
		"empty output": `output_dir = ""`,
	} {
		_, err := Load(writeConfig(t, body))
		assert.Error(t, err, name)
	}
	cfg := Default()
	cfg.TargetLength = math.Inf(1)
	assert.Error(t, cfg.Validate())
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
