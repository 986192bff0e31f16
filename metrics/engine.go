// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package metrics

import (
	"context"
	"time"

	api "go.opentelemetry.io/otel/metric"
)

// BlockSource reports the height proposal expiry is measured against
type BlockSource interface {
	LatestBlock() uint64
}

// EngineMetrics observes engine state each time metrics are collected
type EngineMetrics struct {
	opts      api.MeasurementOption
	startTime int64
	blocks    BlockSource

	startTimeGauge   api.Int64ObservableGauge
	latestBlockGauge api.Int64ObservableGauge
}

func NewEngineMetrics(meter api.Meter, opts api.MeasurementOption, blocks BlockSource) (*EngineMetrics, error) {
	m := &EngineMetrics{
		opts:      opts,
		startTime: time.Now().Unix(),
		blocks:    blocks,
	}

	var err error
	m.startTimeGauge, err = meter.Int64ObservableGauge(
		"bridge.StartTimeSeconds",
		api.WithDescription("Unix time the bridge engine was started at"),
		api.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}
	m.latestBlockGauge, err = meter.Int64ObservableGauge(
		"bridge.LatestBlock",
		api.WithDescription("Block height of the domain"),
	)
	if err != nil {
		return nil, err
	}

	_, err = meter.RegisterCallback(m.observe, m.startTimeGauge, m.latestBlockGauge)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (m *EngineMetrics) observe(ctx context.Context, o api.Observer) error {
	o.ObserveInt64(m.startTimeGauge, m.startTime, m.opts)
	if m.blocks != nil {
		o.ObserveInt64(m.latestBlockGauge, int64(m.blocks.LatestBlock()), m.opts)
	}
	return nil
}
