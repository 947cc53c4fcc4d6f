package tools

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/bturcanu/voicehook/pkg/config"
	"github.com/bturcanu/voicehook/pkg/types"
	"github.com/bturcanu/voicehook/pkg/webhook"
)

// AppointmentQuery identifies whose appointments to list. The listing endpoint
// is keyed by customer id, so CustomerID takes precedence over Phone and Email
// (the reverse of FindCustomer's phone, email, id order). Without an id, phone
// or email is resolved through FindCustomer first.
type AppointmentQuery struct {
	CustomerID string
	Phone      string
	Email      string
}

// Appointment is one upcoming booking as spoken back to the caller.
type Appointment struct {
	Date         *string `json:"date"`
	Service      *string `json:"service"`
	Provider     *string `json:"provider"`
	Status       *string `json:"status"`
	Confirmation *string `json:"confirmation"`
}

// AppointmentsResult is the get_appointments result.
type AppointmentsResult struct {
	Appointments []Appointment `json:"appointments"`
	Count        int           `json:"count"`
	Message      string        `json:"message,omitempty"`
}

// ListAppointments returns a customer's upcoming appointments.
func (s *Service) ListAppointments(ctx context.Context, q AppointmentQuery) (*AppointmentsResult, error) {
	id := strings.TrimSpace(q.CustomerID)
	if id == "" {
		if strings.TrimSpace(q.Phone) == "" && strings.TrimSpace(q.Email) == "" {
			return nil, &types.ValidationError{
				Fields:  []string{"customer_id", "phone", "email"},
				Message: "one of customer_id, phone or email is required",
			}
		}
		cust, err := s.FindCustomer(ctx, CustomerQuery{Phone: q.Phone, Email: q.Email})
		if err != nil {
			return nil, err
		}
		if !cust.Found || cust.CustomerID == nil || *cust.CustomerID == "" {
			return &AppointmentsResult{Appointments: []Appointment{}, Message: firstNonEmpty(cust.Message, msgNoCustomer)}, nil
		}
		id = *cust.CustomerID
	}

	res := s.dispatcher.Dispatch(ctx, webhook.Request{
		Endpoint: config.EndpointBooking,
		Path:     "customers/" + url.PathEscape(id) + "/appointments",
		Method:   http.MethodGet,
		Query:    url.Values{"status": {"upcoming"}},
	})
	if !res.OK() {
		s.log.ErrorContext(ctx, "get_appointments webhook failed",
			"failure", res.Failure.Kind, "status", res.Failure.Status, "detail", res.Failure.Detail)
		return &AppointmentsResult{Appointments: []Appointment{}, Message: msgNoAppointments}, nil
	}

	body, _ := res.Object()
	items, _ := body["appointments"].([]any)
	out := make([]Appointment, 0, len(items))
	for _, item := range items {
		apt, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, Appointment{
			Date:         nullableField(apt, "datetime"),
			Service:      nullableField(apt, "service_name"),
			Provider:     nullableField(apt, "provider_name"),
			Status:       nullableField(apt, "status"),
			Confirmation: nullableField(apt, "confirmation_code"),
		})
	}
	return &AppointmentsResult{Appointments: out, Count: len(out)}, nil
}
