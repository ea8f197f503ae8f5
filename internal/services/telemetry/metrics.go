package telemetry

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// MeterName scopes the pipeline instruments.
const MeterName = "github.com/phambaophuc/multiscale"

// NewMeterProvider builds an SDK meter provider whose instruments are exported
// through registerer, so they are served by the same /metrics endpoint as the
// HTTP metrics.
func NewMeterProvider(registerer prometheus.Registerer) (*sdkmetric.MeterProvider, error) {
	exporter, err := otelprom.New(otelprom.WithRegisterer(registerer))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	return sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter)), nil
}

// InstallMeterProvider builds a provider on the default Prometheus registry and
// makes it the global one.
func InstallMeterProvider() (*sdkmetric.MeterProvider, error) {
	provider, err := NewMeterProvider(prometheus.DefaultRegisterer)
	if err != nil {
		return nil, err
	}
	otel.SetMeterProvider(provider)
	return provider, nil
}
