// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ChainSafe/sygma-bridge/api"
	"github.com/ChainSafe/sygma-bridge/authority"
	"github.com/ChainSafe/sygma-bridge/bridge"
	"github.com/ChainSafe/sygma-bridge/chains"
	"github.com/ChainSafe/sygma-bridge/config"
	"github.com/ChainSafe/sygma-bridge/events"
	"github.com/ChainSafe/sygma-bridge/fee"
	"github.com/ChainSafe/sygma-bridge/flags"
	"github.com/ChainSafe/sygma-bridge/forwarder"
	"github.com/ChainSafe/sygma-bridge/handlers"
	"github.com/ChainSafe/sygma-bridge/health"
	"github.com/ChainSafe/sygma-bridge/jobs"
	"github.com/ChainSafe/sygma-bridge/logger"
	"github.com/ChainSafe/sygma-bridge/lvldb"
	"github.com/ChainSafe/sygma-bridge/metrics"
	"github.com/ChainSafe/sygma-bridge/registry"
	"github.com/ChainSafe/sygma-bridge/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/viper"
)

func Run() error {
	var err error

	configFlag := viper.GetString(flags.ConfigFlagName)
	configURL := viper.GetString(flags.ConfigURLFlagName)

	configuration := &config.Config{}
	if configURL != "" {
		configuration, err = config.GetSharedConfigFromNetwork(configURL, configuration)
		panicOnError(err)
	}

	if strings.ToLower(configFlag) == "env" {
		configuration, err = config.GetConfigFromENV(configuration)
		panicOnError(err)
	} else {
		configuration, err = config.GetConfigFromFile(configFlag, configuration)
		panicOnError(err)
	}

	logFile, err := logger.FileWriter(configuration.EngineConfig.LogFile)
	panicOnError(err)
	defer logFile.Close()
	logger.ConfigureLogger(configuration.EngineConfig.LogLevel, logFile)

	log.Info().Msg("Successfully loaded configuration")

	domainConfig, err := bridge.NewDomainConfig(configuration.DomainConfig)
	panicOnError(err)

	// wait until the previous instance releases the store lock
	var db *lvldb.LVLDB
	for {
		db, err = lvldb.NewLvlDB(configuration.EngineConfig.StorePath)
		if err != nil {
			log.Error().Err(err).Msg("Unable to open store, retry in 10 seconds")
			time.Sleep(10 * time.Second)
		} else {
			log.Info().Msg("Successfully opened store")
			break
		}
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	meter, shutdownMeter, err := metrics.DefaultMeter(ctx, configuration.EngineConfig.OpenTelemetryCollectorURL)
	panicOnError(err)
	defer func() {
		_ = shutdownMeter(context.Background())
	}()

	clock, err := chains.NewBlockClock(db, domainConfig.Id, domainConfig.BlockInterval)
	panicOnError(err)

	bridgeMetrics, err := metrics.NewBridgeMetrics(meter, configuration.EngineConfig.Env, configuration.EngineConfig.Id, domainConfig.Id, clock)
	panicOnError(err)

	l := log.With().Uint8("domainID", domainConfig.Id).Logger()
	bus := events.NewBus(events.NewLogListener(l), bridgeMetrics)

	reg, err := newRegistry(domainConfig)
	panicOnError(err)

	relayers, err := bridge.NewRelayerSet(domainConfig.Relayers, domainConfig.Threshold, domainConfig.Expiry)
	panicOnError(err)

	opts := []bridge.Option{
		bridge.WithAdmin(domainConfig.Admin),
		bridge.WithAutoExecute(domainConfig.AutoExecute),
		bridge.WithFeeHandler(newFeeHandler(domainConfig)),
	}
	eip712Domain := authority.Domain{
		Name:              "Bridge",
		Version:           domainConfig.Version,
		ChainID:           domainConfig.ChainID,
		VerifyingContract: domainConfig.Bridge.Hex(),
	}
	if domainConfig.Authority != nil {
		opts = append(opts, bridge.WithAuthority(authority.NewVerifier(*domainConfig.Authority, eip712Domain)))
	}
	for _, f := range domainConfig.TrustedForwarders {
		opts = append(opts, bridge.WithTrustedForwarder(f))
	}
	if domainConfig.Forwarder != nil {
		opts = append(opts, bridge.WithTrustedForwarder(*domainConfig.Forwarder))
	} else {
		log.Warn().Msg("No forwarder configured, api only serves queries and authority signed executions")
	}
	b := bridge.NewBridge(domainConfig.Id, domainConfig.Bridge, db, reg, relayers, clock, bus, opts...)

	for _, r := range domainConfig.Resources {
		err := b.SetResource(ctx, r.ResourceID, r.Handler)
		panicOnError(err)
	}

	var fwd *forwarder.Forwarder
	if domainConfig.Forwarder != nil {
		fwd = forwarder.NewForwarder(*domainConfig.Forwarder, authority.Domain{
			Name:              domainConfig.ForwarderName,
			Version:           domainConfig.ForwarderVersion,
			ChainID:           domainConfig.ChainID,
			VerifyingContract: domainConfig.Forwarder.Hex(),
		}, db)
		fwd.RegisterTarget(domainConfig.Bridge, b)
	}

	go health.StartHealthEndpoint(configuration.EngineConfig.HealthPort)

	service := api.NewService(fmt.Sprintf(":%d", configuration.EngineConfig.APIPort), b, fwd)

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		clock.Start(ctx)
		return nil
	})
	p.Go(func(ctx context.Context) error {
		jobs.StartExpiryJob(ctx, b, domainConfig.ExpiryJobInterval)
		return nil
	})
	p.Go(func(ctx context.Context) error {
		return service.Start(ctx)
	})

	errChn := make(chan error, 1)
	go func() {
		errChn <- p.Wait()
	}()

	sysErr := make(chan os.Signal, 1)
	signal.Notify(sysErr,
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGHUP,
		syscall.SIGQUIT)

	engineName := viper.GetString(flags.NameFlagName)
	log.Info().Msgf("Started bridge engine: %s for domain %d", engineName, domainConfig.Id)

	select {
	case err := <-errChn:
		log.Error().Err(err).Msg("failed to listen and serve")
		return err
	case sig := <-sysErr:
		log.Info().Msgf("terminating got ` [%v] signal", sig)
		cancel()
		<-errChn
		return nil
	}
}

func newRegistry(domainConfig *bridge.DomainConfig) (*registry.Registry, error) {
	reg := registry.NewRegistry()
	for _, handler := range domainConfig.Handlers {
		address := common.HexToAddress(handler.Address)
		switch handler.Type {
		case bridge.FungibleHandlerType:
			{
				reg.RegisterHandler(address, handlers.NewFungibleHandler())
			}
		case bridge.GenericHandlerType:
			{
				genericHandler := handlers.NewGenericHandler()
				for _, r := range domainConfig.Resources {
					if r.Handler == address {
						genericHandler.RegisterCallTarget(r.ResourceID, handlers.CallTargetFunc(logCall))
					}
				}
				reg.RegisterHandler(address, genericHandler)
			}
		default:
			return nil, fmt.Errorf("handler type '%s' not recognized", handler.Type)
		}
	}
	return reg, nil
}

func newFeeHandler(domainConfig *bridge.DomainConfig) fee.FeeHandler {
	switch domainConfig.FeeType {
	case bridge.BasicFeeType:
		return fee.NewBasicFeeHandler(domainConfig.FeeAmount)
	default:
		return &fee.NoFee{}
	}
}

func logCall(ctx context.Context, resourceID types.ResourceID, metadata []byte) ([]byte, error) {
	log.Info().Str("resourceID", resourceID.Hex()).Msgf("Generic call with metadata %x", metadata)
	return nil, nil
}

func panicOnError(err error) {
	if err != nil {
		panic(err)
	}
}
