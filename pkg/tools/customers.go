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

const (
	msgNoCustomer     = "No customer found with that information"
	msgLookupFailed   = "Unable to find customer record"
	msgNoAppointments = "Unable to retrieve appointments"
)

// CustomerQuery identifies a customer. Phone wins over email, email over id.
type CustomerQuery struct {
	Phone      string
	Email      string
	CustomerID string
}

func (q CustomerQuery) params() (url.Values, bool) {
	switch {
	case strings.TrimSpace(q.Phone) != "":
		return url.Values{"phone": {strings.TrimSpace(q.Phone)}}, true
	case strings.TrimSpace(q.Email) != "":
		return url.Values{"email": {strings.TrimSpace(q.Email)}}, true
	case strings.TrimSpace(q.CustomerID) != "":
		return url.Values{"id": {strings.TrimSpace(q.CustomerID)}}, true
	}
	return nil, false
}

// CustomerResult is the find_customer result. Every key is always present so
// found and not-found answers share one shape.
type CustomerResult struct {
	Found       bool    `json:"found"`
	CustomerID  *string `json:"customer_id"`
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	LastVisit   *string `json:"last_visit"`
	TotalVisits int     `json:"total_visits"`
	Notes       *string `json:"notes"`
	Message     string  `json:"message,omitempty"`
}

// FindCustomer searches the CRM. Missing identifiers are rejected before any
// call is made.
func (s *Service) FindCustomer(ctx context.Context, q CustomerQuery) (*CustomerResult, error) {
	params, ok := q.params()
	if !ok {
		return nil, &types.ValidationError{
			Fields:  []string{"phone", "email", "customer_id"},
			Message: "one of phone, email or customer_id is required",
		}
	}

	res := s.dispatcher.Dispatch(ctx, webhook.Request{
		Endpoint: config.EndpointCRM,
		Path:     "customers/search",
		Method:   http.MethodGet,
		Query:    params,
	})
	if !res.OK() {
		s.log.ErrorContext(ctx, "find_customer webhook failed",
			"failure", res.Failure.Kind, "status", res.Failure.Status, "detail", res.Failure.Detail)
		return &CustomerResult{Message: msgLookupFailed}, nil
	}

	body, _ := res.Object()
	customer, ok := body["customer"].(map[string]any)
	if !ok || len(customer) == 0 {
		return &CustomerResult{Message: msgNoCustomer}, nil
	}
	return &CustomerResult{
		Found:       true,
		CustomerID:  nullableField(customer, "id"),
		Name:        nullableField(customer, "name"),
		Email:       nullableField(customer, "email"),
		Phone:       nullableField(customer, "phone"),
		LastVisit:   nullableField(customer, "last_appointment_date"),
		TotalVisits: intField(customer, "visit_count", 0),
		Notes:       nullableField(customer, "notes"),
	}, nil
}
