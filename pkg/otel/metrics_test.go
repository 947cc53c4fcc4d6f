package otel

import (
	"context"
	"testing"
	"time"

	"github.com/bturcanu/voicehook/pkg/webhook"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumOf(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("%s: expected int64 sum, got %T", m.Name, m.Data)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestMetrics_RecordsInstruments(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	m.ObserveDispatch(webhook.DispatchObservation{Endpoint: "crm_system", Method: "GET", Outcome: "success", StatusCode: 200, DurationMS: 12})
	m.ObserveDispatch(webhook.DispatchObservation{Endpoint: "n8n_webhooks", Method: "POST", Outcome: "timeout", DurationMS: 10000})
	m.ObserveToolCall(context.Background(), "check_date", "ok", 15*time.Millisecond)
	m.ObserveProbe(context.Background(), webhook.HealthStatus{Endpoint: "crm_system", Healthy: true})

	got := collect(t, reader)
	if n := sumOf(t, got["voicehook.webhook.dispatches"]); n != 2 {
		t.Errorf("expected 2 dispatches, got %d", n)
	}
	if n := sumOf(t, got["voicehook.tool.calls"]); n != 1 {
		t.Errorf("expected 1 tool call, got %d", n)
	}
	if n := sumOf(t, got["voicehook.endpoint.probes"]); n != 1 {
		t.Errorf("expected 1 probe, got %d", n)
	}
	if _, ok := got["voicehook.webhook.latency"].Data.(metricdata.Histogram[float64]); !ok {
		t.Errorf("expected latency histogram, got %T", got["voicehook.webhook.latency"].Data)
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveDispatch(webhook.DispatchObservation{})
	m.ObserveToolCall(context.Background(), "x", "ok", 0)
	m.ObserveProbe(context.Background(), webhook.HealthStatus{})
}
