// Toolgateway exposes the voice agent's tools over HTTP. The agent bridge
// lists the tool definitions once per session and posts each function call
// here; every call is resolved against the configured webhook backends.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/bturcanu/voicehook/pkg/auth"
	"github.com/bturcanu/voicehook/pkg/config"
	vhOtel "github.com/bturcanu/voicehook/pkg/otel"
	"github.com/bturcanu/voicehook/pkg/tools"
	"github.com/bturcanu/voicehook/pkg/types"
	"github.com/bturcanu/voicehook/pkg/webhook"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
)

const (
	defaultTimezone = "America/Chicago"
	requestTimeout  = 30 * time.Second
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// ── OpenTelemetry ────────────────────────────────────────────────────
	otelEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	metricsEnabled := config.EnvOrBool("METRICS_ENABLED", true)
	otelShutdown, err := vhOtel.Setup(ctx, vhOtel.Config{
		ServiceName:    config.EnvOr("OTEL_SERVICE_NAME", "voicehook-toolgateway"),
		ServiceVersion: config.EnvOr("OTEL_SERVICE_VERSION", ""),
		OTLPEndpoint:   otelEndpoint,
		SampleRatio:    config.EnvOrFloat("OTEL_TRACES_SAMPLER_ARG", 1),
		MetricsEnabled: metricsEnabled,
		TracingEnabled: otelEndpoint != "",
	})
	if err != nil {
		log.Error("otel setup failed", "error", err)
	} else {
		defer otelShutdown(context.Background()) //nolint:errcheck // best-effort shutdown
	}
	metrics, err := vhOtel.NewMetrics(otel.GetMeterProvider())
	if err != nil {
		log.Error("metrics setup failed", "error", err)
	}

	// ── Dependencies ─────────────────────────────────────────────────────
	endpoints, err := config.LoadEndpoints()
	if err != nil {
		log.Error("endpoint config invalid", "error", err)
		os.Exit(1)
	}
	loc, err := time.LoadLocation(config.EnvOr("CLINIC_TIMEZONE", defaultTimezone))
	if err != nil {
		log.Error("clinic timezone invalid", "error", err)
		os.Exit(1)
	}

	dispatcher := webhook.NewDispatcher(endpoints, webhook.Config{Logger: log, Observer: metrics})
	registry, err := tools.NewDefault(dispatcher, endpoints, tools.Options{
		Logger:      log,
		Location:    loc,
		ClinicPhone: config.EnvOr("CLINIC_PHONE", tools.DefaultClinicPhone),
	})
	if err != nil {
		log.Error("tool registry setup failed", "error", err)
		os.Exit(1)
	}

	keyStore := auth.NewKeyStore(os.Getenv("API_KEYS"))
	if keyStore.Len() == 0 {
		log.Warn("API_KEYS is empty; every tool request will be rejected")
	}

	gw := &Gateway{
		log:     log,
		tools:   registry,
		probe:   dispatcher,
		metrics: metrics,
		limiter: newCallerLimiter(config.EnvOrInt("RATE_LIMIT_PER_CALLER", 20)),
	}

	log.Info("tool registry ready", "tools", registry.Names(), "endpoints", endpoints.Names(), "timezone", loc.String())

	// ── Metrics (internal) ───────────────────────────────────────────────
	metricsAddr := config.EnvOr("METRICS_ADDR", "127.0.0.1:9090")
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsSrv := &http.Server{
		Addr:              metricsAddr,
		Handler:           metricsMux,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}
	if metricsEnabled {
		go func() {
			log.Info("metrics server starting", "addr", metricsAddr)
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("metrics server error", "error", err)
			}
		}()
	}

	// ── Server ───────────────────────────────────────────────────────────
	addr := config.EnvOr("GATEWAY_ADDR", ":8080")
	srv := &http.Server{
		Addr:              addr,
		Handler:           gw.Routes(keyStore),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      requestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("tool gateway starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down tool gateway")
	shutCtx, shutCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutCancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		log.Error("server shutdown error", "error", err)
	}
	if err := metricsSrv.Shutdown(shutCtx); err != nil {
		log.Error("metrics server shutdown error", "error", err)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Gateway handler
// ──────────────────────────────────────────────────────────────────────────────

type Gateway struct {
	log     *slog.Logger
	tools   gatewayTools
	probe   gatewayProbe
	metrics gatewayMetrics
	limiter *callerLimiter
}

type gatewayTools interface {
	Definitions() []tools.Contract
	Invoke(context.Context, string, json.RawMessage) (any, error)
}

type gatewayProbe interface {
	Probe(context.Context) []webhook.HealthStatus
}

type gatewayMetrics interface {
	ObserveToolCall(ctx context.Context, tool, outcome string, elapsed time.Duration)
	ObserveProbe(ctx context.Context, st webhook.HealthStatus)
}

// Routes builds the public router.
func (gw *Gateway) Routes(keys *auth.KeyStore) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Logger)
	r.Use(auth.APIKeyAuth(keys))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		if gw.tools == nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("NOT READY"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Get("/v1/tools", gw.HandleListTools)
	r.Post("/v1/tools/{name}", gw.HandleInvokeTool)
	r.Get("/v1/endpoints/health", gw.HandleEndpointHealth)
	return r
}

// HandleListTools is GET /v1/tools
func (gw *Gateway) HandleListTools(w http.ResponseWriter, r *http.Request) {
	defs, err := json.Marshal(gw.tools.Definitions())
	if err != nil {
		gw.log.ErrorContext(r.Context(), "tool definitions encode failed", "error", err)
		types.ErrInternal("failed to list tools").WriteJSON(w)
		return
	}
	gw.writeJSON(r.Context(), w, types.ToolListResponse{Tools: defs})
}

// HandleInvokeTool is POST /v1/tools/{name}. The body is the tool's JSON
// argument object. Backend failures never surface here: adapters turn them
// into fallback or failure results, so only caller mistakes produce errors.
func (gw *Gateway) HandleInvokeTool(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := types.NormalizeToolName(chi.URLParam(r, "name"))
	if err := types.ValidateToolName(name); err != nil {
		types.ErrBadRequest(err.Error()).WriteJSON(w)
		return
	}

	caller := auth.CallerFromContext(ctx)
	if caller == "" {
		caller = r.RemoteAddr
	}
	if !gw.limiter.Allow(caller) {
		types.ErrRateLimited().WriteJSON(w)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, types.MaxArgsBytes)
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		types.ErrBadRequest("arguments too large").WriteJSON(w)
		return
	}
	if len(raw) > 0 && !json.Valid(raw) {
		types.ErrBadRequest("invalid JSON body").WriteJSON(w)
		return
	}

	callID := uuid.NewString()
	start := time.Now()
	result, err := gw.tools.Invoke(ctx, name, raw)
	elapsed := time.Since(start)

	logAttrs := []any{
		"call_id", callID,
		"request_id", middleware.GetReqID(ctx),
		"caller", caller,
		"tool", name,
		"duration_ms", elapsed.Milliseconds(),
	}

	var ve *types.ValidationError
	switch {
	case errors.Is(err, tools.ErrUnknownTool):
		gw.observe(ctx, name, "unknown_tool", elapsed)
		gw.log.WarnContext(ctx, "unknown tool", logAttrs...)
		types.ErrUnknownTool(name).WriteJSON(w)
		return
	case errors.As(err, &ve):
		gw.observe(ctx, name, "validation_error", elapsed)
		gw.log.InfoContext(ctx, "tool call rejected", append(logAttrs, "fields", ve.Fields)...)
		types.ErrValidation(ve).WriteJSON(w)
		return
	case err != nil:
		gw.observe(ctx, name, "error", elapsed)
		gw.log.ErrorContext(ctx, "tool call failed", append(logAttrs, "error", err)...)
		types.ErrInternal("tool call failed").WriteJSON(w)
		return
	}

	out, err := json.Marshal(result)
	if err != nil {
		gw.log.ErrorContext(ctx, "tool result encode failed", append(logAttrs, "error", err)...)
		types.ErrInternal("tool call failed").WriteJSON(w)
		return
	}
	gw.observe(ctx, name, "ok", elapsed)
	gw.log.InfoContext(ctx, "tool call", logAttrs...)

	gw.writeJSON(ctx, w, types.ToolCallResponse{
		CallID:     callID,
		Tool:       name,
		Result:     out,
		DurationMS: elapsed.Milliseconds(),
	})
}

// HandleEndpointHealth is GET /v1/endpoints/health
func (gw *Gateway) HandleEndpointHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	statuses := gw.probe.Probe(ctx)

	resp := types.EndpointHealthResponse{Healthy: true, Endpoints: make([]types.EndpointHealth, 0, len(statuses))}
	for _, st := range statuses {
		if gw.metrics != nil {
			gw.metrics.ObserveProbe(ctx, st)
		}
		row := types.EndpointHealth{
			Endpoint:   st.Endpoint,
			Status:     "connected",
			DurationMS: st.Duration.Milliseconds(),
		}
		if !st.Healthy {
			resp.Healthy = false
			row.Status = "error"
			row.Failure = string(st.Kind)
			row.Detail = st.Detail
		}
		resp.Endpoints = append(resp.Endpoints, row)
	}
	gw.writeJSON(ctx, w, resp)
}

func (gw *Gateway) observe(ctx context.Context, tool, outcome string, elapsed time.Duration) {
	if gw.metrics != nil {
		gw.metrics.ObserveToolCall(ctx, tool, outcome, elapsed)
	}
}

func (gw *Gateway) writeJSON(ctx context.Context, w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		gw.log.ErrorContext(ctx, "response encode failed", "error", err)
	}
}
