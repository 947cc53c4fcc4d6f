package otel

import (
	"context"
	"time"

	"github.com/bturcanu/voicehook/pkg/webhook"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/bturcanu/voicehook"

// Metrics records webhook dispatches, tool calls and endpoint probes.
// It satisfies webhook.Observer.
type Metrics struct {
	dispatches      metric.Int64Counter
	dispatchLatency metric.Float64Histogram
	toolCalls       metric.Int64Counter
	toolLatency     metric.Float64Histogram
	probes          metric.Int64Counter
}

// NewMetrics creates the instruments on the given meter provider.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	meter := mp.Meter(meterName)

	dispatches, err := meter.Int64Counter(
		"voicehook.webhook.dispatches",
		metric.WithDescription("Number of outbound webhook calls"),
	)
	if err != nil {
		return nil, err
	}
	dispatchLatency, err := meter.Float64Histogram(
		"voicehook.webhook.latency",
		metric.WithDescription("Outbound webhook latency in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}
	toolCalls, err := meter.Int64Counter(
		"voicehook.tool.calls",
		metric.WithDescription("Number of agent tool invocations"),
	)
	if err != nil {
		return nil, err
	}
	toolLatency, err := meter.Float64Histogram(
		"voicehook.tool.latency",
		metric.WithDescription("Agent tool latency in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}
	probes, err := meter.Int64Counter(
		"voicehook.endpoint.probes",
		metric.WithDescription("Number of endpoint health probes"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		dispatches:      dispatches,
		dispatchLatency: dispatchLatency,
		toolCalls:       toolCalls,
		toolLatency:     toolLatency,
		probes:          probes,
	}, nil
}

// ObserveDispatch records one webhook call.
func (m *Metrics) ObserveDispatch(o webhook.DispatchObservation) {
	if m == nil {
		return
	}
	opts := metric.WithAttributes(
		attribute.String("endpoint", o.Endpoint),
		attribute.String("method", o.Method),
		attribute.String("outcome", o.Outcome),
	)
	ctx := context.Background()
	m.dispatches.Add(ctx, 1, opts)
	m.dispatchLatency.Record(ctx, seconds(time.Duration(o.DurationMS)*time.Millisecond), opts)
}

// ObserveToolCall records one tool invocation. outcome is "ok", "validation_error"
// or "unknown_tool".
func (m *Metrics) ObserveToolCall(ctx context.Context, tool, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	opts := metric.WithAttributes(
		attribute.String("tool", tool),
		attribute.String("outcome", outcome),
	)
	m.toolCalls.Add(ctx, 1, opts)
	m.toolLatency.Record(ctx, seconds(elapsed), opts)
}

// ObserveProbe records one endpoint health check.
func (m *Metrics) ObserveProbe(ctx context.Context, st webhook.HealthStatus) {
	if m == nil {
		return
	}
	m.probes.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", st.Endpoint),
		attribute.Bool("healthy", st.Healthy),
	))
}

func seconds(d time.Duration) float64 {
	return float64(d) / float64(time.Second)
}
