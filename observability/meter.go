package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/streambridge/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) *MeterConfig {
	return &MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds OpenTelemetry metric instruments for LLM client observability.
type Metrics struct {
	requestTotal    metric.Int64Counter
	requestDuration metric.Float64Histogram
	streamTotal     metric.Int64Counter
	streamActive    metric.Int64UpDownCounter
	streamDuration  metric.Float64Histogram
	chunkTotal      metric.Int64Counter
	errorTotal      metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	requestTotal, err := meter.Int64Counter("llm.request.total",
		metric.WithDescription("Total number of completion requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating llm.request.total counter: %w", err)
	}

	requestDuration, err := meter.Float64Histogram("llm.request.duration",
		metric.WithDescription("Duration of completion requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating llm.request.duration histogram: %w", err)
	}

	streamTotal, err := meter.Int64Counter("stream.total",
		metric.WithDescription("Total number of streams by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stream.total counter: %w", err)
	}

	streamActive, err := meter.Int64UpDownCounter("stream.active",
		metric.WithDescription("Number of currently open streams"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stream.active gauge: %w", err)
	}

	streamDuration, err := meter.Float64Histogram("stream.duration",
		metric.WithDescription("Duration of streams in seconds, open to terminal"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stream.duration histogram: %w", err)
	}

	chunkTotal, err := meter.Int64Counter("stream.chunks.total",
		metric.WithDescription("Total chunks delivered across all streams"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stream.chunks.total counter: %w", err)
	}

	errorTotal, err := meter.Int64Counter("error.total",
		metric.WithDescription("Total errors by type and component"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating error.total counter: %w", err)
	}

	return &Metrics{
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
		streamTotal:     streamTotal,
		streamActive:    streamActive,
		streamDuration:  streamDuration,
		chunkTotal:      chunkTotal,
		errorTotal:      errorTotal,
	}, nil
}

// RecordRequest records a completed (non-streaming) completion request.
func (m *Metrics) RecordRequest(ctx context.Context, dialect, model, status string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("dialect", dialect),
		attribute.String("model", model),
		attribute.String("status", status),
	)
	m.requestTotal.Add(ctx, 1, attrs)
	m.requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("dialect", dialect),
		attribute.String("model", model),
	))
}

// RecordStreamStart increments the active stream count.
func (m *Metrics) RecordStreamStart(ctx context.Context) {
	m.streamActive.Add(ctx, 1)
}

// RecordStreamEnd decrements active streams and records the stream's outcome,
// chunk count, and duration.
func (m *Metrics) RecordStreamEnd(ctx context.Context, dialect, model, outcome string, chunks int64, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("dialect", dialect),
		attribute.String("model", model),
		attribute.String("outcome", outcome),
	)
	m.streamActive.Add(ctx, -1)
	m.streamTotal.Add(ctx, 1, attrs)
	m.chunkTotal.Add(ctx, chunks, metric.WithAttributes(
		attribute.String("dialect", dialect),
		attribute.String("model", model),
	))
	m.streamDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("dialect", dialect),
		attribute.String("model", model),
	))
}

// RecordError records an error by type and component.
func (m *Metrics) RecordError(ctx context.Context, errType, component string) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", errType),
		attribute.String("component", component),
	))
}
