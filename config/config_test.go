// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package config_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/ChainSafe/sygma-bridge/config"
	"github.com/ChainSafe/sygma-bridge/config/engine"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"
)

const domainJSON = `{
   "id":2,
   "name":"domain2",
   "bridge":"0xd606A00c1A39dA53EA7Bb3Ab570BBE40b156EB66",
   "threshold":2,
   "relayers":["0xff93B45308FD417dF303D6515aB04D9e89a750Ca"]
}`

type GetConfigTestSuite struct {
	suite.Suite
}

func TestRunGetConfigTestSuite(t *testing.T) {
	suite.Run(t, new(GetConfigTestSuite))
}

func (s *GetConfigTestSuite) TearDownTest() {
	os.Clearenv()
}

func (s *GetConfigTestSuite) Test_GetConfigFromFile_InvalidPath() {
	_, err := config.GetConfigFromFile("invalid", &config.Config{})

	s.NotNil(err)
}

func (s *GetConfigTestSuite) Test_GetConfigFromFile() {
	path := filepath.Join(s.T().TempDir(), "config.json")
	err := os.WriteFile(path, []byte(`{
   "engine": {
      "logLevel": "debug",
      "storePath": "/data/lvldb",
      "apiPort": "8090"
   },
   "domain": `+domainJSON+`
}`), 0600)
	s.Nil(err)

	cnf, err := config.GetConfigFromFile(path, &config.Config{})

	s.Nil(err)
	s.Equal(engine.EngineConfig{
		LogLevel:   zerolog.DebugLevel,
		LogFile:    "out.log",
		HealthPort: 9001,
		APIPort:    8090,
		StorePath:  "/data/lvldb",
	}, cnf.EngineConfig)
	s.Equal("domain2", cnf.DomainConfig["name"])
}

func (s *GetConfigTestSuite) Test_GetConfigFromENV() {
	_ = os.Setenv("SYG_DOMAIN", domainJSON)
	_ = os.Setenv("SYG_ENGINE_ENV", "TEST")
	_ = os.Setenv("SYG_ENGINE_ID", "123")
	_ = os.Setenv("SYG_ENGINE_HEALTHPORT", "9002")

	cnf, err := config.GetConfigFromENV(&config.Config{DomainConfig: map[string]interface{}{
		"id":     3,
		"expiry": 50,
	}})

	s.Nil(err)
	s.Equal(config.Config{
		EngineConfig: engine.EngineConfig{
			LogLevel:   zerolog.InfoLevel,
			LogFile:    "out.log",
			Env:        "TEST",
			Id:         "123",
			HealthPort: 9002,
			APIPort:    8080,
			StorePath:  "./lvldbdata",
		},
		DomainConfig: map[string]interface{}{
			"id":        float64(2),
			"name":      "domain2",
			"bridge":    "0xd606A00c1A39dA53EA7Bb3Ab570BBE40b156EB66",
			"threshold": float64(2),
			"relayers":  []interface{}{"0xff93B45308FD417dF303D6515aB04D9e89a750Ca"},
			"expiry":    50,
		},
	}, *cnf)
}

func (s *GetConfigTestSuite) Test_GetConfigFromENV_MissingDomainID() {
	_ = os.Setenv("SYG_ENGINE_ENV", "TEST")

	_, err := config.GetConfigFromENV(&config.Config{})

	s.NotNil(err)
	s.Equal("domain 'id' must be provided", err.Error())
}

func (s *GetConfigTestSuite) Test_GetConfigFromENV_InvalidLogLevel() {
	_ = os.Setenv("SYG_DOMAIN", domainJSON)
	_ = os.Setenv("SYG_ENGINE_LOGLEVEL", "loud")

	_, err := config.GetConfigFromENV(&config.Config{})

	s.NotNil(err)
}

func (s *GetConfigTestSuite) Test_GetSharedConfigFromNetwork() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"domain": ` + domainJSON + `}`))
	}))
	defer server.Close()

	cnf, err := config.GetSharedConfigFromNetwork(server.URL, &config.Config{})

	s.Nil(err)
	s.Equal(float64(2), cnf.DomainConfig["id"])
}

func (s *GetConfigTestSuite) Test_GetSharedConfigFromNetwork_InvalidJSON() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`invalid`))
	}))
	defer server.Close()

	_, err := config.GetSharedConfigFromNetwork(server.URL, &config.Config{})

	s.NotNil(err)
}
