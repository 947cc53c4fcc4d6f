package tools

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"testing"

	"github.com/bturcanu/voicehook/pkg/types"
	"github.com/bturcanu/voicehook/pkg/webhook"
)

const appointmentsFixture = `{"appointments":[
	{"datetime":"2025-01-20T10:00","service_name":"Chiropractic Adjustment","provider_name":"Dr. Lee","status":"confirmed","confirmation_code":"C-1"},
	{"datetime":"2025-02-03T15:00","service_name":"Wellness Check","status":"pending"}
]}`

func TestListAppointments_ByCustomerID(t *testing.T) {
	d := &fakeDispatcher{respond: respondWith(decodeBody(t, appointmentsFixture))}
	res, err := newTestService(d).ListAppointments(context.Background(), AppointmentQuery{CustomerID: "CUST0042"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Count != 2 || len(res.Appointments) != 2 {
		t.Fatalf("unexpected result %+v", res)
	}
	first := res.Appointments[0]
	if *first.Date != "2025-01-20T10:00" || *first.Service != "Chiropractic Adjustment" ||
		*first.Provider != "Dr. Lee" || *first.Status != "confirmed" || *first.Confirmation != "C-1" {
		t.Errorf("unexpected mapping %+v", first)
	}
	if res.Appointments[1].Provider != nil {
		t.Error("absent provider should stay null")
	}

	req := d.lastCall(t)
	if req.Endpoint != "booking_system" || req.Path != "customers/CUST0042/appointments" {
		t.Errorf("unexpected target %s/%s", req.Endpoint, req.Path)
	}
	if req.Query.Get("status") != "upcoming" {
		t.Errorf("unexpected query %v", req.Query)
	}
}

func TestListAppointments_EscapesCustomerID(t *testing.T) {
	d := &fakeDispatcher{respond: respondWith(map[string]any{})}
	_, _ = newTestService(d).ListAppointments(context.Background(), AppointmentQuery{CustomerID: "a/b"})
	if got := d.lastCall(t).Path; got != "customers/"+url.PathEscape("a/b")+"/appointments" {
		t.Errorf("unexpected path %q", got)
	}
}

func TestListAppointments_CustomerIDWinsOverPhone(t *testing.T) {
	d := &fakeDispatcher{respond: respondWith(decodeBody(t, appointmentsFixture))}
	q := AppointmentQuery{CustomerID: "CUST0042", Phone: "256-555-0100", Email: "a@b.com"}
	if _, err := newTestService(d).ListAppointments(context.Background(), q); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := d.callCount(); n != 1 {
		t.Fatalf("expected a single listing call, got %d", n)
	}
	if req := d.lastCall(t); req.Endpoint != "booking_system" || req.Path != "customers/CUST0042/appointments" {
		t.Errorf("unexpected target %s/%s", req.Endpoint, req.Path)
	}
}

func TestListAppointments_ResolvesPhoneThroughLookup(t *testing.T) {
	d := &fakeDispatcher{respond: func(req webhook.Request) webhook.Result {
		if req.Endpoint == "crm_system" {
			return webhook.Result{StatusCode: 200, Body: map[string]any{"customer": map[string]any{"id": "CUST0007"}}}
		}
		return webhook.Result{StatusCode: 200, Body: map[string]any{"appointments": []any{}}}
	}}
	res, err := newTestService(d).ListAppointments(context.Background(), AppointmentQuery{Phone: "+15551234567"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.callCount() != 2 {
		t.Fatalf("expected lookup then listing, got %d calls", d.callCount())
	}
	if got := d.lastCall(t).Path; got != "customers/CUST0007/appointments" {
		t.Errorf("unexpected path %q", got)
	}
	if res.Count != 0 || res.Appointments == nil {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestListAppointments_UnknownCustomerSkipsListing(t *testing.T) {
	d := &fakeDispatcher{respond: respondWith(map[string]any{})}
	res, err := newTestService(d).ListAppointments(context.Background(), AppointmentQuery{Email: "nobody@example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.callCount() != 1 {
		t.Errorf("expected only the lookup call, got %d", d.callCount())
	}
	if res.Message != "No customer found with that information" || res.Count != 0 {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestListAppointments_NoIdentifier(t *testing.T) {
	d := &fakeDispatcher{}
	_, err := newTestService(d).ListAppointments(context.Background(), AppointmentQuery{})
	var ve *types.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if d.callCount() != 0 {
		t.Errorf("expected no dispatch, got %d", d.callCount())
	}
}

func TestListAppointments_Failure(t *testing.T) {
	for _, kind := range allFailureKinds {
		t.Run(string(kind), func(t *testing.T) {
			res, err := newTestService(&fakeDispatcher{respond: failWith(kind)}).ListAppointments(context.Background(), AppointmentQuery{CustomerID: "CUST0042"})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			raw, _ := json.Marshal(res)
			if string(raw) != `{"appointments":[],"count":0,"message":"Unable to retrieve appointments"}` {
				t.Errorf("unexpected result %s", raw)
			}
		})
	}
}
