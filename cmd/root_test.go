package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxcorpus/promptrec/internal/config"
)

func TestApplyFlagOverrides(t *testing.T) {
	cfg = &config.Config{}
	cfg.Prompts.Count = 100
	cfg.Output.Directory = "/from/config"

	flags := rootCmd.PersistentFlags()
	require.NoError(t, flags.Set("prompts-file", "/data/arctic.txt"))
	require.NoError(t, flags.Set("count", "10"))
	require.NoError(t, flags.Set("seed", "42"))
	require.NoError(t, flags.Set("ordered", "true"))
	t.Cleanup(func() {
		flags.Set("prompts-file", "")
		flags.Set("count", "0")
		flags.Set("seed", "0")
		flags.Set("ordered", "false")
	})

	applyFlagOverrides()

	assert.Equal(t, "/data/arctic.txt", cfg.Prompts.File)
	assert.Equal(t, 10, cfg.Prompts.Count)
	assert.Equal(t, int64(42), cfg.Prompts.Seed)
	assert.True(t, cfg.Prompts.Ordered)
	// Unchanged flags leave config values alone.
	assert.Equal(t, "/from/config", cfg.Output.Directory)
}

func TestNewDeviceAppliesAudioConfig(t *testing.T) {
	cfg = &config.Config{}
	cfg.Audio.SampleRate = 48000

	device := newDevice()
	require.NotNil(t, device)
	assert.Equal(t, 48000, device.SampleRate())
}

func TestRequirePromptsFile(t *testing.T) {
	cfg = &config.Config{}
	assert.Error(t, requirePromptsFile(), "empty prompts file must be rejected")

	cfg.Prompts.File = "/does/not/exist.txt"
	assert.Error(t, requirePromptsFile())

	cfg.Prompts.File = t.TempDir()
	assert.Error(t, requirePromptsFile(), "directory must be rejected")
}
