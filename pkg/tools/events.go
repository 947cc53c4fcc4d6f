package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/bturcanu/voicehook/pkg/config"
	"github.com/bturcanu/voicehook/pkg/types"
	"github.com/bturcanu/voicehook/pkg/webhook"
)

// EventInput is a booking request as collected by the agent.
type EventInput struct {
	Name      string
	Email     string
	Phone     string
	StartTime string // YYYY-MM-DDTHH:MM
}

// EventResult is the create_event result. Success and failure share the type;
// only the relevant fields are emitted.
type EventResult struct {
	Success            bool   `json:"success"`
	BookingID          string `json:"booking_id,omitempty"`
	ConfirmationNumber string `json:"confirmation_number,omitempty"`
	Name               string `json:"name,omitempty"`
	Email              string `json:"email,omitempty"`
	Phone              string `json:"phone,omitempty"`
	AppointmentTime    string `json:"appointment_time,omitempty"`
	Message            string `json:"message,omitempty"`
	Error              string `json:"error,omitempty"`
}

// validate names every absent field, argument key and spoken label alike.
func (in EventInput) validate() *types.ValidationError {
	var keys, labels []string
	check := func(value, key, label string) {
		if strings.TrimSpace(value) == "" {
			keys = append(keys, key)
			labels = append(labels, label)
		}
	}
	check(in.Name, "name", "name")
	check(in.Email, "email_lowercase", "email")
	check(in.Phone, "phone", "phone")
	check(in.StartTime, "start_time", "appointment time")
	if len(keys) == 0 {
		return nil
	}
	return types.MissingFields(keys, labels)
}

// CreateEvent books an appointment. Bookings are never fabricated: any backend
// failure yields Success=false with a message that is safe to read aloud.
func (s *Service) CreateEvent(ctx context.Context, in EventInput) (*EventResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.StartTime = strings.TrimSpace(in.StartTime)
	if err := in.validate(); err != nil {
		return nil, err
	}

	res := s.dispatcher.Dispatch(ctx, webhook.Request{
		Endpoint: config.EndpointN8N,
		Path:     "create",
		Body: map[string]any{
			"name":     in.Name,
			"number":   in.Phone,
			"email":    in.Email,
			"datetime": in.StartTime,
		},
	})
	if !res.OK() {
		s.log.ErrorContext(ctx, "create_event webhook failed",
			"failure", res.Failure.Kind, "status", res.Failure.Status,
			"detail", res.Failure.Detail, "start_time", in.StartTime)
		return &EventResult{
			Success: false,
			Error:   fmt.Sprintf("Unable to complete booking at this time. Please call us at %s.", s.clinicPhone),
		}, nil
	}

	body, _ := res.Object()
	bookingID := stringField(body, "booking_id")
	if bookingID == "" {
		bookingID = "BOOK" + s.clock().Format("20060102150405")
	}
	confirmation := firstNonEmpty(stringField(body, "confirmation_code"), bookingID)

	s.log.InfoContext(ctx, "appointment booked", "booking_id", bookingID, "start_time", in.StartTime)
	return &EventResult{
		Success:            true,
		BookingID:          bookingID,
		ConfirmationNumber: confirmation,
		Name:               in.Name,
		Email:              in.Email,
		Phone:              in.Phone,
		AppointmentTime:    in.StartTime,
		Message: fmt.Sprintf("Appointment confirmed for %s on %s. Confirmation sent to %s.",
			in.Name, in.StartTime, in.Email),
	}, nil
}
