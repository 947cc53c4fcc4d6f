package tools

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"reflect"
	"testing"

	"github.com/bturcanu/voicehook/pkg/types"
)

func TestFindCustomer_NoCriteriaMakesNoCall(t *testing.T) {
	d := &fakeDispatcher{}
	_, err := newTestService(d).FindCustomer(context.Background(), CustomerQuery{Phone: "  "})
	var ve *types.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if d.callCount() != 0 {
		t.Errorf("expected 0 dispatches, got %d", d.callCount())
	}
}

func TestFindCustomer_QueryPriority(t *testing.T) {
	tests := []struct {
		name  string
		query CustomerQuery
		want  url.Values
	}{
		{"phone wins", CustomerQuery{Phone: "+15551234567", Email: "a@b.com", CustomerID: "CUST0042"}, url.Values{"phone": {"+15551234567"}}},
		{"email over id", CustomerQuery{Email: "a@b.com", CustomerID: "CUST0042"}, url.Values{"email": {"a@b.com"}}},
		{"id alone", CustomerQuery{CustomerID: "CUST0042"}, url.Values{"id": {"CUST0042"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &fakeDispatcher{}
			if _, err := newTestService(d).FindCustomer(context.Background(), tt.query); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			req := d.lastCall(t)
			if req.Endpoint != "crm_system" || req.Path != "customers/search" || req.Method != http.MethodGet {
				t.Errorf("unexpected target %+v", req)
			}
			if !reflect.DeepEqual(req.Query, tt.want) {
				t.Errorf("got query %v, want %v", req.Query, tt.want)
			}
		})
	}
}

func TestFindCustomer_Found(t *testing.T) {
	d := &fakeDispatcher{respond: respondWith(decodeBody(t, `{"customer":{
		"id":"CUST0042","name":"Jane Doe","email":"jane@example.com","phone":"+15551234567",
		"last_appointment_date":"2024-12-02","visit_count":7}}`))}
	res, err := newTestService(d).FindCustomer(context.Background(), CustomerQuery{CustomerID: "CUST0042"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Found || *res.CustomerID != "CUST0042" || *res.LastVisit != "2024-12-02" || res.TotalVisits != 7 {
		t.Errorf("unexpected result %+v", res)
	}
	if res.Notes != nil {
		t.Errorf("absent notes should stay null, got %q", *res.Notes)
	}

	raw, _ := json.Marshal(res)
	var decoded map[string]any
	_ = json.Unmarshal(raw, &decoded)
	if v, ok := decoded["notes"]; !ok || v != nil {
		t.Errorf("expected notes: null in %s", raw)
	}
}

func TestFindCustomer_VisitCountDefaultsToZero(t *testing.T) {
	d := &fakeDispatcher{respond: respondWith(decodeBody(t, `{"customer":{"id":"CUST0001"}}`))}
	res, _ := newTestService(d).FindCustomer(context.Background(), CustomerQuery{CustomerID: "CUST0001"})
	if !res.Found || res.TotalVisits != 0 || res.Name != nil {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestFindCustomer_NotFound(t *testing.T) {
	for _, body := range []string{`{}`, `{"customer":null}`, `{"customer":{}}`, `[]`} {
		t.Run(body, func(t *testing.T) {
			d := &fakeDispatcher{respond: respondWith(decodeBody(t, body))}
			res, err := newTestService(d).FindCustomer(context.Background(), CustomerQuery{Email: "x@y.com"})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Found || res.Message != "No customer found with that information" {
				t.Errorf("unexpected result %+v", res)
			}
		})
	}
}

func TestFindCustomer_Failure(t *testing.T) {
	for _, kind := range allFailureKinds {
		t.Run(string(kind), func(t *testing.T) {
			res, err := newTestService(&fakeDispatcher{respond: failWith(kind)}).FindCustomer(context.Background(), CustomerQuery{Phone: "+1555"})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Found || res.Message != "Unable to find customer record" {
				t.Errorf("unexpected result %+v", res)
			}
		})
	}
}
