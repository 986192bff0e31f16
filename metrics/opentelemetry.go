// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package metrics

import (
	"context"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	api "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const exportInterval = 10 * time.Second

// DefaultMeter returns a meter exporting to the OpenTelemetry collector over
// http. Without a collector URL metrics are recorded into a no-op meter.
func DefaultMeter(ctx context.Context, collectorRawURL string) (api.Meter, func(context.Context) error, error) {
	if collectorRawURL == "" {
		return noop.NewMeterProvider().Meter("sygma-bridge"), func(context.Context) error { return nil }, nil
	}

	collectorURL, err := url.Parse(collectorRawURL)
	if err != nil {
		return nil, nil, err
	}

	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(collectorURL.Host),
	}
	if collectorURL.Path != "" {
		opts = append(opts, otlpmetrichttp.WithURLPath(collectorURL.Path))
	}
	if collectorURL.Scheme == "http" {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	metricOptions, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, nil, err
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricOptions, sdkmetric.WithInterval(exportInterval))),
	)
	return provider.Meter("sygma-bridge"), provider.Shutdown, nil
}
