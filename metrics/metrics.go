// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package metrics

import (
	"context"

	"github.com/ChainSafe/sygma-bridge/events"
	"github.com/ChainSafe/sygma-bridge/types"
	"go.opentelemetry.io/otel/attribute"
	api "go.opentelemetry.io/otel/metric"
)

type BridgeMetrics struct {
	*EngineMetrics

	opts api.MeasurementOption

	DepositCounter         api.Int64Counter
	VoteCounter            api.Int64Counter
	ExecutionCounter       api.Int64Counter
	FailedExecutionCounter api.Int64Counter
	CancellationCounter    api.Int64Counter
	RetryCounter           api.Int64Counter
}

// NewBridgeMetrics creates the engine counters and gauges. BridgeMetrics is an
// event listener and counts committed engine events.
func NewBridgeMetrics(meter api.Meter, env, instanceID string, domainID uint8, blocks BlockSource) (*BridgeMetrics, error) {
	opts := api.WithAttributes(
		attribute.String("env", env),
		attribute.String("instance", instanceID),
		attribute.Int("domainID", int(domainID)),
	)

	engineMetrics, err := NewEngineMetrics(meter, opts, blocks)
	if err != nil {
		return nil, err
	}

	depositCounter, err := meter.Int64Counter(
		"bridge.Deposits",
		api.WithDescription("Number of accepted deposits"),
	)
	if err != nil {
		return nil, err
	}
	voteCounter, err := meter.Int64Counter(
		"bridge.Votes",
		api.WithDescription("Number of counted relayer votes"),
	)
	if err != nil {
		return nil, err
	}
	executionCounter, err := meter.Int64Counter(
		"bridge.Executions",
		api.WithDescription("Number of successfully executed proposals"),
	)
	if err != nil {
		return nil, err
	}
	failedExecutionCounter, err := meter.Int64Counter(
		"bridge.FailedExecutions",
		api.WithDescription("Number of failed handler executions"),
	)
	if err != nil {
		return nil, err
	}
	cancellationCounter, err := meter.Int64Counter(
		"bridge.Cancellations",
		api.WithDescription("Number of cancelled proposals"),
	)
	if err != nil {
		return nil, err
	}
	retryCounter, err := meter.Int64Counter(
		"bridge.Retries",
		api.WithDescription("Number of requested deposit retries"),
	)
	if err != nil {
		return nil, err
	}

	return &BridgeMetrics{
		EngineMetrics:          engineMetrics,
		opts:                   opts,
		DepositCounter:         depositCounter,
		VoteCounter:            voteCounter,
		ExecutionCounter:       executionCounter,
		FailedExecutionCounter: failedExecutionCounter,
		CancellationCounter:    cancellationCounter,
		RetryCounter:           retryCounter,
	}, nil
}

func (m *BridgeMetrics) HandleEvent(e events.Event) {
	ctx := context.Background()
	switch evt := e.(type) {
	case events.Deposit:
		m.DepositCounter.Add(ctx, 1, m.opts, api.WithAttributes(attribute.Int("destinationDomainID", int(evt.DestinationDomainID))))
	case events.ProposalVote:
		m.VoteCounter.Add(ctx, 1, m.opts, api.WithAttributes(attribute.Int("originDomainID", int(evt.OriginDomainID))))
	case events.ProposalExecution:
		m.ExecutionCounter.Add(ctx, 1, m.opts, api.WithAttributes(attribute.Int("originDomainID", int(evt.OriginDomainID))))
	case events.FailedHandlerExecution:
		m.FailedExecutionCounter.Add(ctx, 1, m.opts, api.WithAttributes(
			attribute.Int("originDomainID", int(evt.OriginDomainID)),
			attribute.Bool("nonceConsumed", evt.NonceConsumed),
		))
	case events.ProposalEvent:
		if evt.Status == types.Cancelled {
			m.CancellationCounter.Add(ctx, 1, m.opts, api.WithAttributes(attribute.Int("originDomainID", int(evt.OriginDomainID))))
		}
	case events.Retry:
		m.RetryCounter.Add(ctx, 1, m.opts)
	}
}
