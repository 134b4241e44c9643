// Package config loads dev-doctor settings.
//
// Settings come from three places, applied in order:
//  1. an optional .env file, loaded into the process environment with
//     github.com/joho/godotenv (variables already set are not overridden);
//  2. an optional .dev-doctor.yaml file in the project directory;
//  3. DEV_DOCTOR_* environment variables, which win over the file.
//
// Layers 2 and 3 are merged by github.com/spf13/viper.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/shinji-kodama/dev-doctor/internal/model"
)

const (
	// DefaultEnvFile is the environment file loaded when none is given.
	DefaultEnvFile = ".env"

	// EnvPrefix prefixes every configuration environment variable.
	EnvPrefix = "DEV_DOCTOR"

	configName = ".dev-doctor"
)

// Config holds the resolved settings of one run.
type Config struct {
	// Provider preselects the analysis provider and skips the prompt.
	// Empty means ask the user.
	Provider string `mapstructure:"provider"`

	// Endpoints overrides provider URLs. Empty fields keep the defaults.
	Endpoints Endpoints `mapstructure:"endpoints"`

	// EnvFileLoaded reports whether the .env file existed and was loaded.
	EnvFileLoaded bool `mapstructure:"-"`

	// ConfigFileUsed is the path of the YAML file read, if any.
	ConfigFileUsed string `mapstructure:"-"`
}

// Endpoints holds per-provider URL overrides.
type Endpoints struct {
	Gemini string `mapstructure:"gemini"`
	OpenAI string `mapstructure:"openai"`
}

// For returns the override for p, or "" if none is set.
func (e Endpoints) For(p model.Provider) string {
	switch p {
	case model.ProviderGemini:
		return e.Gemini
	case model.ProviderOpenAI:
		return e.OpenAI
	default:
		return ""
	}
}

// SelectedProvider parses the preselected provider.
// ok is false when no provider is configured.
func (c *Config) SelectedProvider() (p model.Provider, ok bool, err error) {
	if strings.TrimSpace(c.Provider) == "" {
		return "", false, nil
	}
	p, err = model.ParseProvider(c.Provider)
	if err != nil {
		return "", false, model.WrapCLIError(model.ExitConfigError, "invalid provider setting",
			errors.Join(model.ErrInvalidConfig, err))
	}
	return p, true, nil
}

// Options controls where Load looks for files.
type Options struct {
	// Dir is searched for .dev-doctor.yaml. Defaults to the working directory.
	Dir string

	// EnvFile is the .env path. Defaults to DefaultEnvFile. A missing
	// file is not an error.
	EnvFile string

	// ConfigFile is an explicit YAML config path. Unlike the file found in
	// Dir, it must exist.
	ConfigFile string
}

// LoadEnvFile loads path into the process environment without overriding
// variables that are already set. It reports whether the file existed.
func LoadEnvFile(path string) (bool, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}

	if err := godotenv.Load(path); err != nil {
		return false, model.WrapCLIError(model.ExitConfigError,
			fmt.Sprintf("failed to load %s", path),
			errors.Join(model.ErrInvalidConfig, err))
	}
	return true, nil
}

// Load loads the .env file and then the YAML/environment configuration.
func Load(opts Options) (*Config, error) {
	if opts.EnvFile == "" {
		opts.EnvFile = DefaultEnvFile
	}
	if opts.Dir == "" {
		opts.Dir = "."
	}

	loaded, err := LoadEnvFile(opts.EnvFile)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only applies to keys viper knows about, so every key
	// needs a default for Unmarshal to see its environment variable.
	v.SetDefault("provider", "")
	v.SetDefault("endpoints.gemini", "")
	v.SetDefault("endpoints.openai", "")

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.AddConfigPath(opts.Dir)
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return nil, model.WrapCLIError(model.ExitConfigError, "failed to read config file",
				errors.Join(model.ErrInvalidConfig, err))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, model.WrapCLIError(model.ExitConfigError, "failed to decode config",
			errors.Join(model.ErrInvalidConfig, err))
	}
	cfg.EnvFileLoaded = loaded
	cfg.ConfigFileUsed = v.ConfigFileUsed()

	if _, _, err := cfg.SelectedProvider(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
