package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), configFileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	config, err := loadConfig(filepath.Join(home, "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(home), config)
	assert.True(t, config.StartMenu)
	assert.True(t, config.Confirmations)
	assert.Equal(t, "file", config.Storage)
	assert.Equal(t, 0.3, config.ZoomMin)
	assert.Equal(t, 2.0, config.ZoomMax)
	assert.Equal(t, 5.0, config.DragThreshold)
	assert.Equal(t, 5.0, config.MinShapeSize)
}

func TestLoadConfig_Overrides(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := writeConfig(t, `
save_directory: ~/boards
start_menu: false
confirmations: false
storage: BOLT
data_file: ~/data/boards.db
log_level: debug
zoom_min: 0.5
zoom_max: 3
drag_threshold: 2
frame_interval: 20ms
default_tool: Draw
`)

	config, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "boards"), config.SaveDirectory)
	assert.False(t, config.StartMenu)
	assert.False(t, config.Confirmations)
	assert.Equal(t, "bolt", config.Storage)
	assert.Equal(t, filepath.Join(home, "data", "boards.db"), config.DataFile)
	assert.Equal(t, "debug", config.LogLevel)
	assert.Equal(t, 0.5, config.ZoomMin)
	assert.Equal(t, 3.0, config.ZoomMax)
	assert.Equal(t, 2.0, config.DragThreshold)
	assert.Equal(t, 20*time.Millisecond, config.FrameInterval)
	assert.Equal(t, "draw", config.DefaultTool)
	// untouched keys keep their defaults
	assert.Equal(t, 5.0, config.MinShapeSize)

	assert.Equal(t, filepath.Join(home, "boards", "x.png"), config.GetSavePath("x.png"))
	assert.DirExists(t, filepath.Join(home, "boards"))
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown storage", "storage: s3\n", "Storage must be one of"},
		{"inverted zoom", "zoom_min: 3\nzoom_max: 2\n", "ZoomMin must not exceed"},
		{"unknown tool", "default_tool: laser\n", `DefaultTool must name a tool, got "laser"`},
		{"bad level", "log_level: loud\n", "LogLevel must be one of"},
		{"zero frame", "frame_interval: 0s\n", "FrameInterval"},
		{"not yaml", "storage: [\n", "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestConfigPath_Env(t *testing.T) {
	t.Setenv(configEnv, "/tmp/elsewhere.yaml")
	path, err := configPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/elsewhere.yaml", path)

	home := t.TempDir()
	t.Setenv(configEnv, "")
	t.Setenv("HOME", home)
	path, err = configPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, configFileName), path)
}

func TestNewLogger_WritesJSONToFile(t *testing.T) {
	config := defaultConfig(t.TempDir())
	config.LogLevel = "warn"
	logger, err := newLogger(config)
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("kept", zap.String("k", "v"))
	_ = logger.Sync()

	data, err := os.ReadFile(config.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"kept"`)
	assert.Contains(t, string(data), `"k":"v"`)
	assert.NotContains(t, string(data), "dropped")
}

func TestNewLogger_NoFileIsNop(t *testing.T) {
	config := defaultConfig(t.TempDir())
	config.LogFile = ""
	logger, err := newLogger(config)
	require.NoError(t, err)
	assert.NotNil(t, logger)
}
