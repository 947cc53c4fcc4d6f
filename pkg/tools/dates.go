package tools

import (
	"context"
	"strings"
	"time"

	"github.com/bturcanu/voicehook/pkg/config"
	"github.com/bturcanu/voicehook/pkg/types"
	"github.com/bturcanu/voicehook/pkg/webhook"
)

const dateLayout = "2006-01-02"

// DateResult is the fallback shape of check_date.
type DateResult struct {
	Date string `json:"date"`
}

var weekdays = []struct {
	name string
	day  time.Weekday
}{
	{"monday", time.Monday},
	{"tuesday", time.Tuesday},
	{"wednesday", time.Wednesday},
	{"thursday", time.Thursday},
	{"friday", time.Friday},
	{"saturday", time.Saturday},
	{"sunday", time.Sunday},
}

// ResolveDate turns a spoken date phrase into a calendar date. The
// date-parsing webhook's body is returned unchanged when it answers; otherwise
// FallbackDate resolves the phrase locally.
func (s *Service) ResolveDate(ctx context.Context, text string) (any, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &types.ValidationError{Fields: []string{"text"}, Message: "no date input provided"}
	}

	res := s.dispatcher.Dispatch(ctx, webhook.Request{
		Endpoint: config.EndpointN8N,
		Path:     "check_date",
		Body:     map[string]any{"input": text},
	})
	if res.OK() {
		return res.Body, nil
	}

	date := FallbackDate(text, s.clock())
	s.log.WarnContext(ctx, "check_date webhook failed, using local fallback",
		"failure", res.Failure.Kind, "date", date)
	return DateResult{Date: date}, nil
}

// FallbackDate resolves "today", "tomorrow" and weekday names relative to now.
// A weekday naming today means next week's. Anything else is tomorrow.
func FallbackDate(text string, now time.Time) string {
	t := strings.ToLower(text)
	switch {
	case strings.Contains(t, "today"):
		return now.Format(dateLayout)
	case strings.Contains(t, "tomorrow"):
		return now.AddDate(0, 0, 1).Format(dateLayout)
	}
	for _, wd := range weekdays {
		if strings.Contains(t, wd.name) {
			return now.AddDate(0, 0, daysUntil(now.Weekday(), wd.day)).Format(dateLayout)
		}
	}
	return now.AddDate(0, 0, 1).Format(dateLayout)
}

// daysUntil is in [1,7].
func daysUntil(from, to time.Weekday) int {
	d := (int(to) - int(from) + 7) % 7
	if d == 0 {
		d = 7
	}
	return d
}
