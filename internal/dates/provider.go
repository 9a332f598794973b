package dates

import "time"

// Provider is the single source of "what calendar day is it" for the whole
// service. The daily log guard and the streak walk must agree on the answer,
// so both get it from here. Policy: UTC, not client-supplied timezones.
type Provider struct {
	now func() time.Time
}

func NewProvider() *Provider {
	return &Provider{
		now: time.Now,
	}
}

// NewProviderWithNow is used in tests to pin the clock.
func NewProviderWithNow(now func() time.Time) *Provider {
	return &Provider{
		now: now,
	}
}

func (p *Provider) Now() time.Time {
	return p.now().UTC()
}

// Today returns the current calendar date: midnight UTC of the current day.
func (p *Provider) Today() time.Time {
	return DateOf(p.now())
}

// DateOf truncates a timestamp to its UTC calendar date.
func DateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDate reports whether two timestamps fall on the same UTC calendar date.
func SameDate(a, b time.Time) bool {
	return DateOf(a).Equal(DateOf(b))
}
