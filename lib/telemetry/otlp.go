package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

type Protocol string

const (
	ProtocolGrpc Protocol = "grpc"
	ProtocolHttp Protocol = "http"
)

// Exporter is the OTLP collector a single signal is sent to.
type Exporter struct {
	Endpoint string            `json:"endpoint"`
	Protocol Protocol          `json:"protocol"`
	Headers  map[string]string `json:"headers"`
}

func (e Exporter) enabled() bool {
	return e.Endpoint != ""
}

// protocol defaults to grpc.
func (e Exporter) protocol() (Protocol, error) {
	switch e.Protocol {
	case "", ProtocolGrpc:
		return ProtocolGrpc, nil
	case ProtocolHttp:
		return ProtocolHttp, nil
	}
	return "", fmt.Errorf("unknown otlp protocol '%s', expected grpc or http", e.Protocol)
}

const portalHostKey = attribute.Key("dualis.portal.host")

// PortalHost tags all exported telemetry with the portal being watched.
func PortalHost(host string) attribute.KeyValue {
	return portalHostKey.String(host)
}

// resourceAttributes lists the configured attributes in key order, extra
// attributes win over configured ones.
func resourceAttributes(serviceName string, config Config, extra []attribute.KeyValue) []attribute.KeyValue {
	attrs := []attribute.KeyValue{semconv.ServiceName(serviceName)}
	if config.ServiceVersion != "" {
		attrs = append(attrs, semconv.ServiceVersion(config.ServiceVersion))
	}
	for _, key := range slices.Sorted(maps.Keys(config.Attributes)) {
		attrs = append(attrs, attribute.String(key, config.Attributes[key]))
	}
	return append(attrs, extra...)
}

func newResource(ctx context.Context, serviceName string, config Config, extra []attribute.KeyValue) (*resource.Resource, error) {
	return resource.New(
		ctx,
		resource.WithSchemaURL(semconv.SchemaURL),
		resource.WithTelemetrySDK(),
		resource.WithHost(),
		resource.WithFromEnv(),
		resource.WithAttributes(resourceAttributes(serviceName, config, extra)...),
	)
}

func newSpanExporter(ctx context.Context, e Exporter) (trace.SpanExporter, error) {
	protocol, err := e.protocol()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, time.Second*3)
	defer cancel()

	slog.Info("span exporter initialized", "protocol", protocol, "endpoint", e.Endpoint, "headers", len(e.Headers) > 0)
	if protocol == ProtocolHttp {
		return otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(e.Endpoint), otlptracehttp.WithHeaders(e.Headers))
	}
	return otlptracegrpc.New(ctx, otlptracegrpc.WithEndpointURL(e.Endpoint), otlptracegrpc.WithHeaders(e.Headers))
}

func newMetricExporter(ctx context.Context, e Exporter) (metric.Exporter, error) {
	protocol, err := e.protocol()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, time.Second*3)
	defer cancel()

	slog.Info("metric exporter initialized", "protocol", protocol, "endpoint", e.Endpoint, "headers", len(e.Headers) > 0)
	if protocol == ProtocolHttp {
		return otlpmetrichttp.New(ctx, otlpmetrichttp.WithEndpointURL(e.Endpoint), otlpmetrichttp.WithHeaders(e.Headers))
	}
	return otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithEndpointURL(e.Endpoint), otlpmetricgrpc.WithHeaders(e.Headers))
}

// metricInterval is the export period, watch cycles run minutes apart so
// the default is a minute.
func (c Config) metricInterval() time.Duration {
	if c.MetricIntervalSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(c.MetricIntervalSeconds) * time.Second
}
