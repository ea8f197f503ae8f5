package telemetry

import (
	"context"

	"github.com/phambaophuc/multiscale/internal/models"
	"go.uber.org/zap"
)

// NopSink discards every event.
type NopSink struct{}

func (NopSink) Emit(context.Context, models.Event) {}

// LogSink writes events to the local log.
type LogSink struct {
	logger *zap.Logger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Emit(_ context.Context, event models.Event) {
	s.logger.Info("Usage event",
		zap.String("action", event.Action),
		zap.String("batch_id", event.BatchID),
		zap.Any("details", event.Details),
		zap.Time("timestamp", event.Timestamp))
}

// Sink receives usage events.
type Sink interface {
	Emit(ctx context.Context, event models.Event)
}

// MultiSink fans an event out to several sinks. A panicking sink is logged
// and skipped so it cannot break the pipeline.
type MultiSink struct {
	sinks  []Sink
	logger *zap.Logger
}

func NewMultiSink(logger *zap.Logger, sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks, logger: logger}
}

func (m *MultiSink) Emit(ctx context.Context, event models.Event) {
	for _, s := range m.sinks {
		m.emitOne(ctx, s, event)
	}
}

func (m *MultiSink) emitOne(ctx context.Context, s Sink, event models.Event) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("Telemetry sink panicked",
				zap.Any("panic", r),
				zap.String("action", event.Action))
		}
	}()
	s.Emit(ctx, event)
}
