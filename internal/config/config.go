package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"github.com/nconklindev/vizprep/internal/errors"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "VIZPREP"

// Config represents the complete application configuration
type Config struct {
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Output  OutputConfig  `yaml:"output" envconfig:"OUTPUT"`
	Picker  PickerConfig  `yaml:"picker" envconfig:"PICKER"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"file" validate:"oneof=stderr file both none"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"vizprep.log" validate:"required_if=Output file,required_if=Output both"`
}

// OutputConfig controls how output files are named and placed
type OutputConfig struct {
	Suffix string `yaml:"suffix" envconfig:"SUFFIX" default:"_formatted" validate:"excludesall=/\\"`
	// Dir holds relative output names. Empty means next to the input file.
	Dir string `yaml:"dir" envconfig:"DIR"`
}

// PickerConfig controls the interactive file picker
type PickerConfig struct {
	StartDir   string `yaml:"start_dir" envconfig:"START_DIR"`
	ShowHidden bool   `yaml:"show_hidden" envconfig:"SHOW_HIDDEN" default:"false"`
}

// Load reads configuration from .env, the environment and the optional YAML
// config file. Environment variables take precedence over the file.
func Load() (*Config, error) {
	// A missing .env is normal.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, errors.Wrap(errors.ConfigInvalid(err.Error()), "failed to load config from env")
	}

	configFile := getConfigFilePath()
	if _, err := os.Stat(configFile); err == nil {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, errors.Wrap(errors.ConfigInvalid(err.Error()), "failed to load config from file")
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the configuration produced by struct-tag defaults alone.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "file",
			FilePath: "vizprep.log",
		},
		Output: OutputConfig{
			Suffix: "_formatted",
		},
	}
}

// Validate checks field constraints
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ConfigInvalid(err.Error()), "config validation failed")
	}
	return nil
}

func getConfigFilePath() string {
	if path := os.Getenv(EnvPrefix + "_CONFIG"); path != "" {
		return path
	}
	return "vizprep.yaml"
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filePath, err)
	}

	return &cfg, nil
}

// mergeConfigs overlays explicitly set environment values on the file config.
// envconfig has already applied defaults, so a field only counts as set when
// its variable is present in the environment.
func mergeConfigs(fileConfig, envConfig Config) Config {
	merged := envConfig

	pick := func(dst *string, fileVal, key string) {
		if _, ok := os.LookupEnv(EnvPrefix + "_" + key); ok {
			return
		}
		if fileVal != "" {
			*dst = fileVal
		}
	}

	pick(&merged.Logging.Level, fileConfig.Logging.Level, "LOGGING_LEVEL")
	pick(&merged.Logging.Format, fileConfig.Logging.Format, "LOGGING_FORMAT")
	pick(&merged.Logging.Output, fileConfig.Logging.Output, "LOGGING_OUTPUT")
	pick(&merged.Logging.FilePath, fileConfig.Logging.FilePath, "LOGGING_FILE_PATH")
	pick(&merged.Output.Suffix, fileConfig.Output.Suffix, "OUTPUT_SUFFIX")
	pick(&merged.Output.Dir, fileConfig.Output.Dir, "OUTPUT_DIR")
	pick(&merged.Picker.StartDir, fileConfig.Picker.StartDir, "PICKER_START_DIR")

	if _, ok := os.LookupEnv(EnvPrefix + "_PICKER_SHOW_HIDDEN"); !ok {
		merged.Picker.ShowHidden = fileConfig.Picker.ShowHidden
	}

	return merged
}
