package processor

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records pipeline throughput. A nil *Metrics records nothing.
type Metrics struct {
	batchDuration metric.Float64Histogram
	imagesTotal   metric.Int64Counter
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	batchDuration, err := meter.Float64Histogram(
		"multiscale_batch_duration_seconds",
		metric.WithDescription("Duration of batch processing in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	imagesTotal, err := meter.Int64Counter(
		"multiscale_images_total",
		metric.WithDescription("Total number of images rasterized"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		batchDuration: batchDuration,
		imagesTotal:   imagesTotal,
	}, nil
}

func (m *Metrics) RecordImage(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.imagesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (m *Metrics) RecordBatch(ctx context.Context, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.batchDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attribute.String("status", status)))
}
