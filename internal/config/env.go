// Package config resolves the process environment and the archive configuration document.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/naka-gawa/github-archiver/internal/domain"
)

// Environment holds the process-level settings read from environment variables.
type Environment struct {
	Organization string        `mapstructure:"GITHUB_ORG"`
	AppClientID  string        `mapstructure:"GITHUB_APP_CLIENT_ID"`
	AWSRegion    string        `mapstructure:"AWS_DEFAULT_REGION"`
	SecretName   string        `mapstructure:"AWS_SECRET_NAME"`
	ConfigPath   string        `mapstructure:"CONFIG_PATH"`
	ConfigBucket string        `mapstructure:"CONFIG_BUCKET"`
	ConfigKey    string        `mapstructure:"CONFIG_KEY"`
	RunTimeout   time.Duration `mapstructure:"RUN_TIMEOUT"`
	LogLevel     string        `mapstructure:"LOG_LEVEL"`
	LogFormat    string        `mapstructure:"LOG_FORMAT"`
}

// DefaultConfigPath is where the local configuration document is looked up.
const DefaultConfigPath = "./config/config.json"

var requiredEnv = []string{"GITHUB_ORG", "GITHUB_APP_CLIENT_ID", "AWS_DEFAULT_REGION", "AWS_SECRET_NAME"}

// LoadEnvironment reads the environment. Required variables are checked in a fixed
// order and the first missing one is reported.
func LoadEnvironment() (*Environment, error) {
	v := viper.New()
	v.SetDefault("CONFIG_PATH", DefaultConfigPath)
	v.SetDefault("CONFIG_KEY", "config/config.json")
	v.SetDefault("RUN_TIMEOUT", "15m")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("CONFIG_BUCKET", "")

	for _, key := range requiredEnv {
		if err := v.BindEnv(key); err != nil {
			return nil, &domain.ConfigurationError{Source: "environment", Err: err}
		}
	}
	v.AutomaticEnv()

	for _, key := range requiredEnv {
		if v.GetString(key) == "" {
			return nil, &domain.ConfigurationError{
				Source: "environment",
				Err:    fmt.Errorf("%s environment variable not found. Please check your environment variables", key),
			}
		}
	}

	var env Environment
	if err := v.Unmarshal(&env); err != nil {
		return nil, &domain.ConfigurationError{Source: "environment", Err: err}
	}
	if env.RunTimeout <= 0 {
		return nil, &domain.ConfigurationError{Source: "environment", Err: errors.New("RUN_TIMEOUT must be a positive duration")}
	}
	return &env, nil
}
