// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package engine

import (
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
)

type EngineConfig struct {
	OpenTelemetryCollectorURL string
	LogLevel                  zerolog.Level
	LogFile                   string
	HealthPort                uint16
	APIPort                   uint16
	StorePath                 string
	Env                       string
	Id                        string
}

type RawEngineConfig struct {
	OpenTelemetryCollectorURL string `mapstructure:"OpenTelemetryCollectorURL" json:"opentelemetryCollectorURL"`
	LogLevel                  string `mapstructure:"LogLevel" json:"logLevel" default:"info"`
	LogFile                   string `mapstructure:"LogFile" json:"logFile" default:"out.log"`
	HealthPort                string `mapstructure:"HealthPort" json:"healthPort" default:"9001"`
	APIPort                   string `mapstructure:"APIPort" json:"apiPort" default:"8080"`
	StorePath                 string `mapstructure:"StorePath" json:"storePath" default:"./lvldbdata"`
	Env                       string `mapstructure:"Env" json:"env"`
	Id                        string `mapstructure:"Id" json:"id"`
}

func (c *RawEngineConfig) Validate() error {
	if c.StorePath == "" {
		return fmt.Errorf("required field engine.StorePath empty")
	}
	return nil
}

// NewEngineConfig parses RawEngineConfig into EngineConfig
func NewEngineConfig(rawConfig RawEngineConfig) (EngineConfig, error) {
	config := EngineConfig{}
	err := rawConfig.Validate()
	if err != nil {
		return config, err
	}

	logLevel, err := zerolog.ParseLevel(rawConfig.LogLevel)
	if err != nil {
		return config, fmt.Errorf("unknown log level: %s", rawConfig.LogLevel)
	}
	config.LogLevel = logLevel

	healthPort, err := strconv.ParseUint(rawConfig.HealthPort, 10, 16)
	if err != nil {
		return config, fmt.Errorf("unable to parse health port: %w", err)
	}
	config.HealthPort = uint16(healthPort)

	apiPort, err := strconv.ParseUint(rawConfig.APIPort, 10, 16)
	if err != nil {
		return config, fmt.Errorf("unable to parse api port: %w", err)
	}
	config.APIPort = uint16(apiPort)

	config.LogFile = rawConfig.LogFile
	config.OpenTelemetryCollectorURL = rawConfig.OpenTelemetryCollectorURL
	config.StorePath = rawConfig.StorePath
	config.Env = rawConfig.Env
	config.Id = rawConfig.Id
	return config, nil
}
