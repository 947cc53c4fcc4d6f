package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	maxResponseBytes = 4 << 20
	maxDetailBytes   = 512
	tracerName       = "github.com/bturcanu/voicehook/pkg/webhook"
)

// Config carries optional collaborators for a Dispatcher.
type Config struct {
	Logger     *slog.Logger
	Observer   Observer
	HTTPClient *http.Client // must not set its own Timeout; per-endpoint budgets apply
}

// Dispatcher executes Requests against registered endpoints. It holds no
// per-call state and may be shared by any number of goroutines.
type Dispatcher struct {
	registry   *Registry
	httpClient *http.Client
	log        *slog.Logger
	observer   Observer
	tracer     trace.Tracer
}

// NewDispatcher creates a dispatcher bound to an endpoint registry.
func NewDispatcher(reg *Registry, cfg Config) *Dispatcher {
	d := &Dispatcher{
		registry:   reg,
		httpClient: cfg.HTTPClient,
		log:        cfg.Logger,
		observer:   cfg.Observer,
		tracer:     otel.Tracer(tracerName),
	}
	if d.httpClient == nil {
		d.httpClient = newHTTPClient()
	}
	if d.log == nil {
		d.log = slog.Default()
	}
	if d.observer == nil {
		d.observer = noopObserver{}
	}
	return d
}

// Registry returns the endpoint registry the dispatcher resolves names against.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Dispatch performs one request and classifies the outcome. It never retries.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) Result {
	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" {
		method = http.MethodPost
	}

	ep, ok := d.registry.Lookup(req.Endpoint)
	if !ok {
		f := &Failure{
			Kind:   FailureTransport,
			Detail: fmt.Sprintf("unknown endpoint %q", req.Endpoint),
			Err:    fmt.Errorf("%w: %s", ErrUnknownEndpoint, req.Endpoint),
		}
		d.log.ErrorContext(ctx, "webhook call",
			"endpoint", req.Endpoint,
			"method", method,
			"outcome", string(f.Kind),
			"detail", f.Detail,
		)
		d.observer.ObserveDispatch(DispatchObservation{Endpoint: req.Endpoint, Method: method, Outcome: string(f.Kind)})
		return failure(f)
	}

	target := ep.URL(req.Path)
	ctx, span := d.tracer.Start(ctx, "webhook.dispatch", trace.WithAttributes(
		attribute.String("webhook.endpoint", ep.Name),
		attribute.String("http.request.method", method),
		attribute.String("url.path", req.Path),
	))
	defer span.End()

	start := time.Now()
	res := d.do(ctx, ep, method, target, req)
	elapsed := time.Since(start)

	outcome := "success"
	if res.Failure != nil {
		outcome = string(res.Failure.Kind)
		span.SetStatus(codes.Error, outcome)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	if res.StatusCode != 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", res.StatusCode))
	}

	attrs := []any{
		"endpoint", ep.Name,
		"method", method,
		"url", target,
		"outcome", outcome,
		"status", res.StatusCode,
		"duration_ms", elapsed.Milliseconds(),
	}
	if res.Failure != nil {
		d.log.WarnContext(ctx, "webhook call", append(attrs, "detail", res.Failure.Detail)...)
	} else {
		d.log.InfoContext(ctx, "webhook call", attrs...)
	}

	d.observer.ObserveDispatch(DispatchObservation{
		Endpoint:   ep.Name,
		Method:     method,
		Outcome:    outcome,
		StatusCode: res.StatusCode,
		DurationMS: elapsed.Milliseconds(),
	})
	return res
}

func (d *Dispatcher) do(ctx context.Context, ep Endpoint, method, target string, req Request) Result {
	ctx, cancel := context.WithTimeout(ctx, ep.Timeout)
	defer cancel()

	var body io.Reader = http.NoBody
	if req.Body != nil {
		raw, err := json.Marshal(req.Body)
		if err != nil {
			return failure(&Failure{Kind: FailureTransport, Detail: "encode request body: " + err.Error(), Err: err})
		}
		body = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return failure(&Failure{Kind: FailureTransport, Detail: "build request: " + err.Error(), Err: err})
	}
	if len(req.Query) > 0 {
		httpReq.URL.RawQuery = req.Query.Encode()
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if ep.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+ep.APIKey)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(httpReq.Header))

	resp, err := d.httpClient.Do(httpReq)
	if err != nil {
		return failure(transportFailure(err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return failure(transportFailure(fmt.Errorf("read response: %w", err)))
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return failure(&Failure{
			Kind:   FailureHTTP,
			Status: resp.StatusCode,
			Detail: truncate(strings.TrimSpace(string(respBody)), http.StatusText(resp.StatusCode)),
			Body:   parseOrRaw(respBody),
		})
	}

	var parsed any
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return failure(&Failure{
			Kind:   FailureMalformed,
			Status: resp.StatusCode,
			Detail: "decode response: " + err.Error(),
			Err:    err,
		})
	}
	switch parsed.(type) {
	case map[string]any, []any:
		return success(resp.StatusCode, parsed)
	default:
		return failure(&Failure{
			Kind:   FailureMalformed,
			Status: resp.StatusCode,
			Detail: "response is not a JSON object or array",
		})
	}
}

func transportFailure(err error) *Failure {
	if isTimeout(err) {
		return &Failure{Kind: FailureTimeout, Detail: "request timed out", Err: err}
	}
	return &Failure{Kind: FailureTransport, Detail: err.Error(), Err: err}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func parseOrRaw(raw []byte) any {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err == nil {
		return parsed
	}
	return string(raw)
}

func truncate(s, fallback string) string {
	if s == "" {
		return fallback
	}
	if len(s) > maxDetailBytes {
		return s[:maxDetailBytes] + "…"
	}
	return s
}
