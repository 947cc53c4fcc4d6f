package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/bturcanu/voicehook/pkg/config"
	"github.com/bturcanu/voicehook/pkg/types"
	"github.com/bturcanu/voicehook/pkg/webhook"
)

// fallbackTimes are offered when the availability backend cannot be reached.
// They are placeholders, not confirmed openings.
var fallbackTimes = []string{"09:00", "10:00", "11:00", "14:00", "15:00", "16:00", "17:00"}

// AvailabilityResult is the bookings tool result.
type AvailabilityResult struct {
	Times []string `json:"times"`
}

// shapeMatcher recognises one availability response layout.
type shapeMatcher func(body any) ([]string, bool)

// availabilityShapes are tried in order; the first match wins.
var availabilityShapes = []shapeMatcher{
	matchTimesKey,
	matchAvailableSlots,
	matchBareList,
	matchSlotsKey,
}

// ListAvailableTimes returns open appointment times for a date.
func (s *Service) ListAvailableTimes(ctx context.Context, date string) (*AvailabilityResult, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return nil, &types.ValidationError{Fields: []string{"date"}, Message: "date is required"}
	}

	res := s.dispatcher.Dispatch(ctx, webhook.Request{
		Endpoint: config.EndpointN8N,
		Path:     "bookings",
		Body:     map[string]any{"chatinput": date},
	})
	if !res.OK() {
		s.log.WarnContext(ctx, "bookings webhook failed, offering placeholder times",
			"failure", res.Failure.Kind, "date", date)
		return &AvailabilityResult{Times: append([]string(nil), fallbackTimes...)}, nil
	}
	return &AvailabilityResult{Times: NormalizeAvailability(res.Body)}, nil
}

// NormalizeAvailability flattens any known availability layout into a list of
// times. It never returns nil.
func NormalizeAvailability(body any) []string {
	for _, match := range availabilityShapes {
		if times, ok := match(body); ok {
			return times
		}
	}
	return []string{}
}

func matchTimesKey(body any) ([]string, bool) {
	m, ok := body.(map[string]any)
	if !ok {
		return nil, false
	}
	v, ok := m["times"]
	if !ok {
		return nil, false
	}
	return toStrings(v, nil), true
}

func matchAvailableSlots(body any) ([]string, bool) {
	m, ok := body.(map[string]any)
	if !ok {
		return nil, false
	}
	v, ok := m["available_slots"]
	if !ok {
		return nil, false
	}
	return toStrings(v, clockTime), true
}

func matchBareList(body any) ([]string, bool) {
	if _, ok := body.([]any); !ok {
		return nil, false
	}
	return toStrings(body, nil), true
}

func matchSlotsKey(body any) ([]string, bool) {
	m, ok := body.(map[string]any)
	if !ok {
		return nil, false
	}
	if v, ok := m["slots"]; ok {
		return toStrings(v, nil), true
	}
	return toStrings(m["availability"], nil), true
}

// toStrings keeps element order. A lone string becomes a one-element list;
// anything else that is not a list is empty.
func toStrings(v any, transform func(string) string) []string {
	var items []any
	switch t := v.(type) {
	case []any:
		items = t
	case string:
		items = []any{t}
	default:
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		var s string
		switch it := item.(type) {
		case string:
			s = it
		case map[string]any:
			s = slotTime(it)
			if s == "" {
				continue
			}
		default:
			s = fmt.Sprint(it)
		}
		if transform != nil {
			s = transform(s)
		}
		out = append(out, s)
	}
	return out
}

// slotTimeKeys are checked in order on slot objects such as {"start": ...}.
var slotTimeKeys = []string{"time", "start", "start_time", "slot"}

func slotTime(m map[string]any) string {
	for _, k := range slotTimeKeys {
		if s, ok := m[k].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// clockTime reduces an ISO-8601 timestamp to its HH:MM part. The date and
// time may be separated by 'T' or a space. Bare times pass through.
func clockTime(s string) string {
	i := strings.IndexByte(s, 'T')
	if i < 0 && len(s) > 10 && s[4] == '-' && s[7] == '-' && s[10] == ' ' {
		i = 10
	}
	if i < 0 {
		return s
	}
	tod := s[i+1:]
	if len(tod) >= 5 && tod[2] == ':' {
		return tod[:5]
	}
	return tod
}
