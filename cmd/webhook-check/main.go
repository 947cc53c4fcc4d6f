// Webhook-check probes every configured backend's /health endpoint and logs
// one line per endpoint. With WEBHOOK_CHECK_INTERVAL_SEC unset it runs once
// and exits non-zero when any endpoint is unhealthy.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bturcanu/voicehook/pkg/config"
	"github.com/bturcanu/voicehook/pkg/webhook"
)

type prober interface {
	Probe(context.Context) []webhook.HealthStatus
}

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	endpoints, err := config.LoadEndpoints()
	if err != nil {
		log.Error("endpoint config invalid", "error", err)
		os.Exit(1)
	}
	// Probe lines are logged here; the dispatcher's own call log would duplicate them.
	quiet := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	dispatcher := webhook.NewDispatcher(endpoints, webhook.Config{Logger: quiet})

	interval := time.Duration(config.EnvOrInt("WEBHOOK_CHECK_INTERVAL_SEC", 0)) * time.Second
	if interval <= 0 {
		if !checkOnce(ctx, dispatcher, log) {
			os.Exit(1)
		}
		return
	}

	checkOnce(ctx, dispatcher, log)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			checkOnce(ctx, dispatcher, log)
		}
	}
}

// checkOnce probes all endpoints and reports whether every one is healthy.
func checkOnce(ctx context.Context, p prober, log *slog.Logger) bool {
	healthy := true
	for _, st := range p.Probe(ctx) {
		if st.Healthy {
			log.InfoContext(ctx, "endpoint connected",
				"endpoint", st.Endpoint, "duration_ms", st.Duration.Milliseconds())
			continue
		}
		healthy = false
		log.ErrorContext(ctx, "endpoint unhealthy",
			"endpoint", st.Endpoint,
			"failure", string(st.Kind),
			"detail", st.Detail,
			"duration_ms", st.Duration.Milliseconds(),
		)
	}
	return healthy
}
