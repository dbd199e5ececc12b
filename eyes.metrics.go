package eyes

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// MetricsRecorder records match, conversion and line scanning metrics.
// Use NewMetricsRecorder for OpenTelemetry metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordMatch records one match attempt against a template.
	RecordMatch(ctx context.Context, template string, matched bool, duration time.Duration)

	// RecordConversionError records a capture that failed to convert.
	RecordConversionError(ctx context.Context, typeName string)

	// RecordLine records one line processed by a line scanner.
	RecordLine(ctx context.Context, template string, matched bool)
}

// NoopMetrics discards all measurements.
type NoopMetrics struct{}

// RecordMatch does nothing
func (NoopMetrics) RecordMatch(context.Context, string, bool, time.Duration) {}

// RecordConversionError does nothing
func (NoopMetrics) RecordConversionError(context.Context, string) {}

// RecordLine does nothing
func (NoopMetrics) RecordLine(context.Context, string, bool) {}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	matches       metric.Int64Counter
	matchLatency  metric.Float64Histogram
	convertErrors metric.Int64Counter
	lines         metric.Int64Counter
}

// newOtelMetrics creates the instruments on meter.
func newOtelMetrics(meter metric.Meter) (*otelMetrics, error) {
	matches, err := meter.Int64Counter(MetricMatchTotal,
		metric.WithDescription("Number of match attempts"),
	)
	if err != nil {
		return nil, err
	}

	matchLatency, err := meter.Float64Histogram(MetricMatchDuration,
		metric.WithDescription("Match latency in milliseconds"),
		metric.WithUnit(MetricUnitMillis),
	)
	if err != nil {
		return nil, err
	}

	convertErrors, err := meter.Int64Counter(MetricConversionErrors,
		metric.WithDescription("Number of captures that failed to convert"),
	)
	if err != nil {
		return nil, err
	}

	lines, err := meter.Int64Counter(MetricLinesTotal,
		metric.WithDescription("Number of lines processed by line scanners"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		matches:       matches,
		matchLatency:  matchLatency,
		convertErrors: convertErrors,
		lines:         lines,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder backed by the global OTel meter provider.
// If instrument creation fails, it logs a warning and returns NoopMetrics.
//
// Configure the provider first:
//
//	otel.SetMeterProvider(yourProvider)
//	engine := eyes.MustNew(eyes.WithMetrics(eyes.NewMetricsRecorder(logger)))
func NewMetricsRecorder(logger *zap.Logger) MetricsRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	m, err := newOtelMetrics(otel.Meter(MetricMeterName))
	if err != nil {
		logger.Warn(LogMsgMetricsInitFailed, zap.Error(err))
		return NoopMetrics{}
	}
	return m
}

// RecordMatch records a match attempt.
func (m *otelMetrics) RecordMatch(ctx context.Context, template string, matched bool, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String(MetricAttrTemplate, template),
		attribute.String(MetricAttrResult, resultLabel(matched)),
	)
	m.matches.Add(ctx, 1, attrs)
	m.matchLatency.Record(ctx, float64(duration)/float64(time.Millisecond), attrs)
}

// RecordConversionError records a conversion failure.
func (m *otelMetrics) RecordConversionError(ctx context.Context, typeName string) {
	m.convertErrors.Add(ctx, 1, metric.WithAttributes(attribute.String(MetricAttrType, typeName)))
}

// RecordLine records a scanned line.
func (m *otelMetrics) RecordLine(ctx context.Context, template string, matched bool) {
	m.lines.Add(ctx, 1, metric.WithAttributes(
		attribute.String(MetricAttrTemplate, template),
		attribute.String(MetricAttrResult, resultLabel(matched)),
	))
}

func resultLabel(matched bool) string {
	if matched {
		return MetricResultMatched
	}
	return MetricResultNoMatch
}
