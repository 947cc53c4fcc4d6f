package webhook

import (
	"context"
	"net/http"
	"sync"
	"time"
)

const healthPath = "health"

// HealthStatus is the probe outcome for one endpoint.
type HealthStatus struct {
	Endpoint string
	Healthy  bool
	Kind     FailureKind
	Detail   string
	Duration time.Duration
}

// Probe issues GET <base>/health against every registered endpoint in parallel
// and returns one status per endpoint, ordered by endpoint name.
func (d *Dispatcher) Probe(ctx context.Context) []HealthStatus {
	names := d.registry.Names()
	out := make([]HealthStatus, len(names))

	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func() {
			defer wg.Done()
			start := time.Now()
			res := d.Dispatch(ctx, Request{Endpoint: name, Path: healthPath, Method: http.MethodGet})
			st := HealthStatus{Endpoint: name, Healthy: res.OK(), Duration: time.Since(start)}
			if res.Failure != nil {
				st.Kind = res.Failure.Kind
				st.Detail = res.Failure.Detail
			}
			out[i] = st
		}()
	}
	wg.Wait()
	return out
}
