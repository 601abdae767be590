package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSetupWithoutEndpoints(t *testing.T) {
	tel, err := Setup(context.Background(), "test:telemetry", Config{})
	require.NoError(t, err)
	require.Nil(t, tel.TracerProvider)
	require.Nil(t, tel.MeterProvider)
	require.NoError(t, tel.Shutdown(context.Background()))
}

func TestSetupUnknownProtocol(t *testing.T) {
	cases := []Config{
		{Traces: Exporter{Endpoint: "http://localhost:4318", Protocol: "udp"}},
		{Metrics: Exporter{Endpoint: "http://localhost:4318", Protocol: "GRPC"}},
	}

	for _, config := range cases {
		tel, err := Setup(context.Background(), "test:telemetry", config)
		require.ErrorContains(t, err, "unknown otlp protocol")
		require.Nil(t, tel.TracerProvider)
		require.Nil(t, tel.MeterProvider)
	}
}

func TestExporterProtocol(t *testing.T) {
	cases := []struct {
		protocol Protocol
		expect   Protocol
	}{
		{protocol: "", expect: ProtocolGrpc},
		{protocol: "grpc", expect: ProtocolGrpc},
		{protocol: "http", expect: ProtocolHttp},
	}

	for _, test := range cases {
		protocol, err := Exporter{Endpoint: "x", Protocol: test.protocol}.protocol()
		require.NoError(t, err)
		require.Equal(t, test.expect, protocol)
	}
}

func TestResource(t *testing.T) {
	config := Config{
		ServiceVersion: "1.4.0",
		Attributes: map[string]string{
			"deployment.environment": "home",
			"dualis.portal.host":     "configured.example",
		},
	}

	r, err := newResource(context.Background(), "dualis-watch", config, []attribute.KeyValue{PortalHost("dualis.dhbw.de")})
	require.NoError(t, err)

	values := map[attribute.Key]string{}
	for _, attr := range r.Attributes() {
		values[attr.Key] = attr.Value.Emit()
	}
	require.Equal(t, "dualis-watch", values["service.name"])
	require.Equal(t, "1.4.0", values["service.version"])
	require.Equal(t, "home", values["deployment.environment"])
	require.Equal(t, "dualis.dhbw.de", values["dualis.portal.host"])
	require.NotEmpty(t, values["host.name"])
}

func TestMetricInterval(t *testing.T) {
	require.Equal(t, time.Minute, Config{}.metricInterval())
	require.Equal(t, 10*time.Second, Config{MetricIntervalSeconds: 10}.metricInterval())
}

func TestInstrumentResty(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	defer otel.SetTracerProvider(previous)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := resty.New().SetBaseURL(server.URL)
	InstrumentResty(client, "test:resty")

	_, err := client.R().Get("/ok?ARGUMENTS=-N123")
	require.NoError(t, err)
	_, err = client.R().Get("/missing")
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	require.Equal(t, "http GET", spans[0].Name())
	for _, attr := range spans[0].Attributes() {
		require.NotContains(t, attr.Value.Emit(), "-N123")
	}
	require.Equal(t, "Error", spans[1].Status().Code.String())
}
