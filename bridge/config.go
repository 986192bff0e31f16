// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package bridge

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ChainSafe/sygma-bridge/types"
	"github.com/creasty/defaults"
	"github.com/ethereum/go-ethereum/common"
	"github.com/mitchellh/mapstructure"
)

const (
	FungibleHandlerType = "fungible"
	GenericHandlerType  = "generic"

	NoFeeType    = "none"
	BasicFeeType = "basic"
)

type HandlerConfig struct {
	Address string `mapstructure:"address"`
	Type    string `mapstructure:"type"`
}

type ResourceConfig struct {
	ResourceID string `mapstructure:"resourceID"`
	Handler    string `mapstructure:"handler"`
}

type RawFeeConfig struct {
	Type   string `mapstructure:"type" default:"none"`
	Amount int64  `mapstructure:"amount"`
}

type RawDomainConfig struct {
	Id                *uint8           `mapstructure:"id"`
	Name              string           `mapstructure:"name"`
	ChainID           int64            `mapstructure:"chainID" default:"1"`
	Bridge            string           `mapstructure:"bridge"`
	Version           string           `mapstructure:"version" default:"3.1.0"`
	Threshold         uint64           `mapstructure:"threshold"`
	Expiry            uint64           `mapstructure:"expiry" default:"100"`
	BlockInterval     uint64           `mapstructure:"blockInterval" default:"5"`
	Relayers          []string         `mapstructure:"relayers"`
	Authority         string           `mapstructure:"authority"`
	Admin             string           `mapstructure:"admin"`
	AutoExecute       *bool            `mapstructure:"autoExecute"`
	TrustedForwarders []string         `mapstructure:"trustedForwarders"`
	Handlers          []HandlerConfig  `mapstructure:"handlers"`
	Resources         []ResourceConfig `mapstructure:"resources"`
	Fee               RawFeeConfig     `mapstructure:"fee"`
	ExpiryJobInterval uint64           `mapstructure:"expiryJobInterval" default:"60"`
	ForwarderAddress  string           `mapstructure:"forwarder"`
	ForwarderName     string           `mapstructure:"forwarderName" default:"MinimalForwarder"`
	ForwarderVersion  string           `mapstructure:"forwarderVersion" default:"0.0.1"`
}

func (c *RawDomainConfig) Validate() error {
	if c.Id == nil {
		return fmt.Errorf("required field domain.Id empty")
	}
	if !common.IsHexAddress(c.Bridge) {
		return fmt.Errorf("invalid bridge address %s for domain %d", c.Bridge, *c.Id)
	}
	if len(c.Relayers) == 0 {
		return fmt.Errorf("no relayers configured for domain %d", *c.Id)
	}
	if c.Threshold == 0 {
		return fmt.Errorf("threshold has to be >= 1")
	}
	for _, addr := range append(append([]string{}, c.Relayers...), c.TrustedForwarders...) {
		if !common.IsHexAddress(addr) {
			return fmt.Errorf("invalid address %s", addr)
		}
	}
	if c.Authority != "" && !common.IsHexAddress(c.Authority) {
		return fmt.Errorf("invalid authority address %s", c.Authority)
	}
	if c.Admin != "" && !common.IsHexAddress(c.Admin) {
		return fmt.Errorf("invalid admin address %s", c.Admin)
	}
	if c.ForwarderAddress != "" && !common.IsHexAddress(c.ForwarderAddress) {
		return fmt.Errorf("invalid forwarder address %s", c.ForwarderAddress)
	}
	for _, h := range c.Handlers {
		if !common.IsHexAddress(h.Address) {
			return fmt.Errorf("invalid handler address %s", h.Address)
		}
		if h.Type != FungibleHandlerType && h.Type != GenericHandlerType {
			return fmt.Errorf("unknown handler type %s", h.Type)
		}
	}
	if c.Fee.Type != NoFeeType && c.Fee.Type != BasicFeeType {
		return fmt.Errorf("unknown fee type %s", c.Fee.Type)
	}
	if c.BlockInterval == 0 {
		return fmt.Errorf("blockInterval has to be >= 1")
	}
	return nil
}

type ResourceMapping struct {
	ResourceID types.ResourceID
	Handler    common.Address
}

type DomainConfig struct {
	Id                uint8
	Name              string
	ChainID           int64
	Bridge            common.Address
	Version           string
	Threshold         uint64
	Expiry            uint64
	BlockInterval     time.Duration
	Relayers          []common.Address
	Authority         *common.Address
	Admin             common.Address
	AutoExecute       bool
	TrustedForwarders []common.Address
	Handlers          []HandlerConfig
	Resources         []ResourceMapping
	FeeType           string
	FeeAmount         *big.Int
	ExpiryJobInterval time.Duration
	Forwarder         *common.Address
	ForwarderName     string
	ForwarderVersion  string
}

// NewDomainConfig decodes and validates an instance of a DomainConfig from
// raw domain config
func NewDomainConfig(domainConfig map[string]interface{}) (*DomainConfig, error) {
	var c RawDomainConfig
	err := mapstructure.Decode(domainConfig, &c)
	if err != nil {
		return nil, err
	}

	err = defaults.Set(&c)
	if err != nil {
		return nil, err
	}

	err = c.Validate()
	if err != nil {
		return nil, err
	}

	config := &DomainConfig{
		Id:                *c.Id,
		Name:              c.Name,
		ChainID:           c.ChainID,
		Bridge:            common.HexToAddress(c.Bridge),
		Version:           c.Version,
		Threshold:         c.Threshold,
		Expiry:            c.Expiry,
		BlockInterval:     time.Duration(c.BlockInterval) * time.Second,
		Admin:             common.HexToAddress(c.Admin),
		AutoExecute:       true,
		Handlers:          c.Handlers,
		FeeType:           c.Fee.Type,
		FeeAmount:         big.NewInt(c.Fee.Amount),
		ExpiryJobInterval: time.Duration(c.ExpiryJobInterval) * time.Second,
		ForwarderName:     c.ForwarderName,
		ForwarderVersion:  c.ForwarderVersion,
	}
	if c.AutoExecute != nil {
		config.AutoExecute = *c.AutoExecute
	}
	if c.Authority != "" {
		authority := common.HexToAddress(c.Authority)
		config.Authority = &authority
	}
	if c.ForwarderAddress != "" {
		forwarder := common.HexToAddress(c.ForwarderAddress)
		config.Forwarder = &forwarder
	}
	for _, r := range c.Relayers {
		config.Relayers = append(config.Relayers, common.HexToAddress(r))
	}
	for _, f := range c.TrustedForwarders {
		config.TrustedForwarders = append(config.TrustedForwarders, common.HexToAddress(f))
	}
	for _, r := range c.Resources {
		resourceID, err := types.ResourceIDFromHex(r.ResourceID)
		if err != nil {
			return nil, fmt.Errorf("invalid resource ID %s: %w", r.ResourceID, err)
		}
		if !common.IsHexAddress(r.Handler) {
			return nil, fmt.Errorf("invalid handler address %s for resource %s", r.Handler, r.ResourceID)
		}
		config.Resources = append(config.Resources, ResourceMapping{
			ResourceID: resourceID,
			Handler:    common.HexToAddress(r.Handler),
		})
	}

	return config, nil
}
