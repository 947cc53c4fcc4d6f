package tools

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/bturcanu/voicehook/pkg/webhook"
)

// cst is a fixed zone so tests do not depend on the tz database.
var cst = time.FixedZone("CST", -6*60*60)

// Wednesday 2025-01-15 09:30 CST.
var fixedNow = time.Date(2025, time.January, 15, 9, 30, 0, 0, cst)

type fakeDispatcher struct {
	mu      sync.Mutex
	calls   []webhook.Request
	respond func(req webhook.Request) webhook.Result
}

func (f *fakeDispatcher) Dispatch(_ context.Context, req webhook.Request) webhook.Result {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()
	if f.respond == nil {
		return webhook.Result{StatusCode: 200, Body: map[string]any{}}
	}
	return f.respond(req)
}

func (f *fakeDispatcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeDispatcher) lastCall(t *testing.T) webhook.Request {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		t.Fatal("expected at least one dispatch")
	}
	return f.calls[len(f.calls)-1]
}

func respondWith(body any) func(webhook.Request) webhook.Result {
	return func(webhook.Request) webhook.Result {
		return webhook.Result{StatusCode: 200, Body: body}
	}
}

func failWith(kind webhook.FailureKind) func(webhook.Request) webhook.Result {
	return func(webhook.Request) webhook.Result {
		f := &webhook.Failure{Kind: kind, Detail: "backend exploded: stack trace here"}
		if kind == webhook.FailureHTTP {
			f.Status = 500
		}
		return webhook.Result{StatusCode: f.Status, Failure: f}
	}
}

var allFailureKinds = []webhook.FailureKind{
	webhook.FailureTimeout,
	webhook.FailureTransport,
	webhook.FailureHTTP,
	webhook.FailureMalformed,
}

func newTestService(d Dispatcher) *Service {
	return NewService(d, Options{
		Logger:   slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), nil)),
		Location: cst,
		Now:      func() time.Time { return fixedNow },
	})
}
