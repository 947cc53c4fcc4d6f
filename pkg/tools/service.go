// Package tools implements the agent-callable tools: date resolution,
// availability, booking, customer lookup, appointment listing and the two
// conversational control tools. Each adapter shapes a backend webhook response
// into a compact result the agent can speak from, and degrades to a fallback or
// a failure result when the backend is unreachable or misbehaves.
package tools

import (
	"context"
	"log/slog"
	"time"

	"github.com/bturcanu/voicehook/pkg/webhook"
)

// DefaultClinicPhone is read back to callers when a booking cannot be completed.
const DefaultClinicPhone = "(256) 935-1911"

// Dispatcher is the webhook call surface the adapters need.
type Dispatcher interface {
	Dispatch(ctx context.Context, req webhook.Request) webhook.Result
}

// Options configures a Service. Zero values fall back to sensible defaults.
type Options struct {
	Logger *slog.Logger
	// Location is the clinic's time zone; relative dates resolve against it.
	Location    *time.Location
	ClinicPhone string
	// Now overrides the clock in tests.
	Now func() time.Time
}

// Service holds the adapters' shared collaborators. It keeps no per-call state.
type Service struct {
	dispatcher  Dispatcher
	log         *slog.Logger
	loc         *time.Location
	now         func() time.Time
	clinicPhone string
}

// NewService creates the adapter set on top of a dispatcher.
func NewService(d Dispatcher, opts Options) *Service {
	s := &Service{
		dispatcher:  d,
		log:         opts.Logger,
		loc:         opts.Location,
		now:         opts.Now,
		clinicPhone: opts.ClinicPhone,
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.clinicPhone == "" {
		s.clinicPhone = DefaultClinicPhone
	}
	return s
}

func (s *Service) clock() time.Time {
	return s.now().In(s.loc)
}
