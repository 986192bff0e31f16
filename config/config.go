// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package config

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/creasty/defaults"
	"github.com/imdario/mergo"

	"github.com/ChainSafe/sygma-bridge/config/engine"
	"github.com/spf13/viper"
)

type Config struct {
	EngineConfig engine.EngineConfig
	DomainConfig map[string]interface{}
}

type RawConfig struct {
	EngineConfig engine.RawEngineConfig `mapstructure:"engine" json:"engine"`
	DomainConfig map[string]interface{} `mapstructure:"domain" json:"domain"`
}

// GetConfigFromENV reads config from Env variables, validates it and parses
// it into config suitable for application
//
// Properties of EngineConfig are expected to be defined as separate Env variables
// where Env variable name reflects properties position in structure. Each Env variable needs to be prefixed with SYG.
// The domain config is read as JSON from SYG_DOMAIN.
//
// For example, if you want to set Config.EngineConfig.HealthPort this would
// translate to Env variable named SYG_ENGINE_HEALTHPORT.
func GetConfigFromENV(config *Config) (*Config, error) {
	rawConfig, err := loadFromEnv()
	if err != nil {
		return config, err
	}

	return processRawConfig(rawConfig, config)
}

// GetConfigFromFile reads config from file, validates it and parses
// it into config suitable for application
func GetConfigFromFile(path string, config *Config) (*Config, error) {
	rawConfig := RawConfig{}

	viper.SetConfigFile(path)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return config, err
	}

	err = viper.Unmarshal(&rawConfig)
	if err != nil {
		return config, err
	}

	return processRawConfig(rawConfig, config)
}

// GetSharedConfigFromNetwork fetches shared domain configuration from URL and parses it.
func GetSharedConfigFromNetwork(url string, config *Config) (*Config, error) {
	rawConfig := RawConfig{}

	resp, err := http.Get(url)
	if err != nil {
		return &Config{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Config{}, err
	}

	err = json.Unmarshal(body, &rawConfig)
	if err != nil {
		return &Config{}, err
	}

	config.DomainConfig = rawConfig.DomainConfig
	return config, err
}

func processRawConfig(rawConfig RawConfig, config *Config) (*Config, error) {
	if err := defaults.Set(&rawConfig); err != nil {
		return config, err
	}

	engineConfig, err := engine.NewEngineConfig(rawConfig.EngineConfig)
	if err != nil {
		return config, err
	}

	domainConfig := rawConfig.DomainConfig
	if domainConfig == nil {
		domainConfig = make(map[string]interface{})
	}
	if config.DomainConfig != nil {
		err := mergo.Merge(&domainConfig, config.DomainConfig)
		if err != nil {
			return config, err
		}
	}
	if domainConfig["id"] == nil {
		return config, fmt.Errorf("domain 'id' must be provided")
	}

	config.DomainConfig = domainConfig
	config.EngineConfig = engineConfig
	return config, nil
}
