package domain

import "time"

const dateLayout = "2006-01-02"

// MetricsFilter is the typed, validated filter of a metrics request.
// After scoping, ClientID/UserID hold the narrowed values.
type MetricsFilter struct {
	ClientID string
	UserID   string
	DateFrom time.Time
	DateTo   time.Time
	// DateToWholeDay marks a date-only DateTo: the window runs to the end of that day.
	DateToWholeDay bool
	TrafficSource  TrafficSource
}

// WithScope returns a copy of f narrowed to s.
func (f MetricsFilter) WithScope(s Scope) MetricsFilter {
	f.ClientID = s.ClientID
	f.UserID = s.UserID
	return f
}

// UpperBound returns the exclusive end of the date window.
func (f MetricsFilter) UpperBound() time.Time {
	if f.DateTo.IsZero() {
		return time.Time{}
	}
	if f.DateToWholeDay {
		return f.DateTo.AddDate(0, 0, 1)
	}
	return f.DateTo
}

// SourceFilter returns the traffic source to filter on, or "" for all.
func (f MetricsFilter) SourceFilter() TrafficSource {
	if f.TrafficSource == TrafficAll {
		return ""
	}
	return f.TrafficSource
}

// CallListFilter adds list-only parameters to a MetricsFilter.
type CallListFilter struct {
	MetricsFilter
	Stage  Stage
	Limit  int
	Offset int
}

// IsDateOnly reports whether t sits exactly on a UTC midnight.
func IsDateOnly(t time.Time) bool {
	u := t.UTC()
	return u.Hour() == 0 && u.Minute() == 0 && u.Second() == 0 && u.Nanosecond() == 0
}

// FormatBoundary renders a filter boundary the way it was most likely given:
// YYYY-MM-DD for midnight values, RFC3339 otherwise.
func FormatBoundary(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	if IsDateOnly(t) {
		return t.UTC().Format(dateLayout)
	}
	return t.UTC().Format(time.RFC3339)
}

// ComparisonFilter holds two windows over the same scope.
type ComparisonFilter struct {
	Current  MetricsFilter
	Previous MetricsFilter
}

// TrendFilter asks for a zero-filled daily series over the trailing Days.
type TrendFilter struct {
	MetricsFilter
	Days int
}
