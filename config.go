package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"drawboard/internal/editor"
	"drawboard/internal/storage"
	"drawboard/internal/viewport"
)

const (
	configFileName = ".drawboard.yaml"
	configEnv      = "DRAWBOARD_CONFIG"
	dataDirName    = ".drawboard"
)

type Config struct {
	SaveDirectory string        `yaml:"save_directory"`
	StartMenu     bool          `yaml:"start_menu"`
	Confirmations bool          `yaml:"confirmations"`
	Storage       string        `yaml:"storage" validate:"oneof=bolt file"`
	DataFile      string        `yaml:"data_file" validate:"required_if=Storage bolt"`
	LogFile       string        `yaml:"log_file"`
	LogLevel      string        `yaml:"log_level" validate:"oneof=debug info warn error"`
	ZoomMin       float64       `yaml:"zoom_min" validate:"gt=0,ltefield=ZoomMax"`
	ZoomMax       float64       `yaml:"zoom_max" validate:"gt=0"`
	DragThreshold float64       `yaml:"drag_threshold" validate:"gte=0"`
	MinShapeSize  float64       `yaml:"min_shape_size" validate:"gte=1"`
	FrameInterval time.Duration `yaml:"frame_interval" validate:"gt=0"`
	DefaultTool   string        `yaml:"default_tool" validate:"tool"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	err := v.RegisterValidation("tool", func(fl validator.FieldLevel) bool {
		_, ok := editor.ParseTool(fl.Field().String())
		return ok
	})
	if err != nil {
		panic(err)
	}
	return v
}

func defaultConfig(home string) *Config {
	dataDir := filepath.Join(home, dataDirName)
	return &Config{
		StartMenu:     true,
		Confirmations: true,
		Storage:       storage.KindFile,
		DataFile:      filepath.Join(dataDir, "boards.db"),
		LogFile:       filepath.Join(dataDir, "drawboard.log"),
		LogLevel:      "info",
		ZoomMin:       viewport.DefaultZoomMin,
		ZoomMax:       viewport.DefaultZoomMax,
		DragThreshold: editor.DefaultDragThreshold,
		MinShapeSize:  editor.DefaultMinShapeSize,
		FrameInterval: time.Second / 60,
		DefaultTool:   editor.ToolSelect.String(),
	}
}

// configPath is $DRAWBOARD_CONFIG, or ~/.drawboard.yaml.
func configPath() (string, error) {
	if p := os.Getenv(configEnv); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configFileName), nil
}

// loadConfig reads the YAML file at path over the defaults. A missing file
// is not an error.
func loadConfig(path string) (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	config := defaultConfig(home)

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return config, nil
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	config.SaveDirectory = expandPath(home, config.SaveDirectory)
	config.DataFile = expandPath(home, config.DataFile)
	config.LogFile = expandPath(home, config.LogFile)
	config.Storage = strings.ToLower(config.Storage)
	config.LogLevel = strings.ToLower(config.LogLevel)
	config.DefaultTool = strings.ToLower(config.DefaultTool)

	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("invalid config %s: %s", path, formatValidationError(err))
	}
	return config, nil
}

func expandPath(home, value string) string {
	if value == "" {
		return value
	}
	if value == "~" || strings.HasPrefix(value, "~/") {
		value = filepath.Join(home, strings.TrimPrefix(value, "~"))
	}
	if !filepath.IsAbs(value) {
		if absPath, err := filepath.Abs(value); err == nil {
			value = absPath
		}
	}
	return value
}

func formatValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		field := e.StructField()
		switch e.Tag() {
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", field, e.Param()))
		case "required_if":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "tool":
			msgs = append(msgs, fmt.Sprintf("%s must name a tool, got %q", field, e.Value()))
		case "ltefield":
			msgs = append(msgs, fmt.Sprintf("%s must not exceed %s", field, e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s must be %s %s", field, e.Tag(), e.Param()))
		}
	}
	return strings.Join(msgs, "; ")
}

func (c *Config) zoomLimits() viewport.Limits {
	return viewport.Limits{Min: c.ZoomMin, Max: c.ZoomMax}
}

func (c *Config) storageOptions() storage.Options {
	return storage.Options{
		Kind:      c.Storage,
		DataFile:  c.DataFile,
		Directory: c.SaveDirectory,
	}
}

// GetSavePath places an export file in the save directory.
func (c *Config) GetSavePath(filename string) string {
	if c.SaveDirectory == "" {
		return filename
	}
	os.MkdirAll(c.SaveDirectory, 0755)
	return filepath.Join(c.SaveDirectory, filename)
}
