package telemetry

import (
	"context"
	"log/slog"
	"time"

	"iliad-account/lib/configutil"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// OtlpConnConfig is the collector a signal is exported to, the grpc endpoint
// wins when both are set.
type OtlpConnConfig struct {
	GrpcEndpoint string            `json:"grpc_endpoint"`
	HttpEndpoint string            `json:"http_endpoint"`
	Headers      map[string]string `json:"headers"`
}

type transport string

const (
	transportNone transport = ""
	transportGrpc transport = "grpc"
	transportHttp transport = "http"
)

func (c OtlpConnConfig) transport() (transport, string) {
	switch {
	case c.GrpcEndpoint != "":
		return transportGrpc, c.GrpcEndpoint
	case c.HttpEndpoint != "":
		return transportHttp, c.HttpEndpoint
	}
	return transportNone, ""
}

func (c OtlpConnConfig) configured() bool {
	kind, _ := c.transport()
	return kind != transportNone
}

type OtlpConfig struct {
	Traces  OtlpConnConfig `json:"traces"`
	Metrics OtlpConnConfig `json:"metrics"`
	// MetricInterval is how often metrics are pushed, defaults to 15s.
	MetricInterval configutil.Duration `json:"metric_interval"`
}

func (c OtlpConfig) metricInterval() time.Duration {
	if c.MetricInterval.Std() <= 0 {
		return defaultMetricInterval
	}
	return c.MetricInterval.Std()
}

// Config is the contents of telemetry.json5.
type Config struct {
	Otlp OtlpConfig `json:"otlp"`
}

const (
	defaultMetricInterval = 15 * time.Second
	exporterDialTimeout   = 3 * time.Second
)

func newResource(serviceName string) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		),
	)
}

func logExporter(signal string, conn OtlpConnConfig) {
	kind, endpoint := conn.transport()
	slog.Info(
		"otlp exporter initialized",
		"signal", signal,
		"type", string(kind),
		"endpoint", endpoint,
		"headers", len(conn.Headers) > 0,
	)
}

func newSpanExporter(ctx context.Context, conn OtlpConnConfig) (trace.SpanExporter, error) {
	ctx, cancel := context.WithTimeout(ctx, exporterDialTimeout)
	defer cancel()

	logExporter("traces", conn)
	if kind, endpoint := conn.transport(); kind == transportGrpc {
		return otlptracegrpc.New(
			ctx,
			otlptracegrpc.WithEndpointURL(endpoint),
			otlptracegrpc.WithHeaders(conn.Headers),
		)
	}
	return otlptracehttp.New(
		ctx,
		otlptracehttp.WithEndpointURL(conn.HttpEndpoint),
		otlptracehttp.WithHeaders(conn.Headers),
	)
}

func newMetricExporter(ctx context.Context, conn OtlpConnConfig) (metric.Exporter, error) {
	ctx, cancel := context.WithTimeout(ctx, exporterDialTimeout)
	defer cancel()

	logExporter("metrics", conn)
	if kind, endpoint := conn.transport(); kind == transportGrpc {
		return otlpmetricgrpc.New(
			ctx,
			otlpmetricgrpc.WithEndpointURL(endpoint),
			otlpmetricgrpc.WithHeaders(conn.Headers),
		)
	}
	return otlpmetrichttp.New(
		ctx,
		otlpmetrichttp.WithEndpointURL(conn.HttpEndpoint),
		otlpmetrichttp.WithHeaders(conn.Headers),
	)
}

func newTraceProvider(ctx context.Context, r *resource.Resource, c OtlpConfig) (*trace.TracerProvider, error) {
	exporter, err := newSpanExporter(ctx, c.Traces)
	if err != nil {
		return nil, err
	}
	return trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(r),
	), nil
}

func newMetricProvider(ctx context.Context, r *resource.Resource, c OtlpConfig) (*metric.MeterProvider, error) {
	exporter, err := newMetricExporter(ctx, c.Metrics)
	if err != nil {
		return nil, err
	}
	reader := metric.NewPeriodicReader(exporter, metric.WithInterval(c.metricInterval()))
	return metric.NewMeterProvider(
		metric.WithReader(reader),
		metric.WithResource(r),
	), nil
}
