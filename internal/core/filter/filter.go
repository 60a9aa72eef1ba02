// Package filter turns raw query-string parameters into typed, validated
// filter values. Field errors are collected and reported together.
package filter

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/closerhq/agency-dashboard/internal/core/domain"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
	DefaultDays  = 30
	MaxDays      = 365
)

var validate = validator.New()

// NormalizeMetrics parses clientId, userId, dateFrom, dateTo and trafficSource.
func NormalizeMetrics(v url.Values) (domain.MetricsFilter, error) {
	var errs domain.ValidationErrors
	f := metricsFilter(v, "", &errs)
	return f, errs.Err()
}

// NormalizeCallList parses the metrics parameters plus stage, limit and offset.
func NormalizeCallList(v url.Values) (domain.CallListFilter, error) {
	var errs domain.ValidationErrors
	f := domain.CallListFilter{
		MetricsFilter: metricsFilter(v, "", &errs),
		Limit:         DefaultLimit,
	}

	if raw := strings.TrimSpace(v.Get("stage")); raw != "" {
		if s := domain.Stage(raw); s.Valid() {
			f.Stage = s
		} else {
			errs.Add("stage", "stage must be one of: scheduled in_progress completed no_show closed_won lost")
		}
	}

	if raw := strings.TrimSpace(v.Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		switch {
		case err != nil || n < 1:
			errs.Add("limit", "limit must be a positive integer")
		case n > MaxLimit:
			f.Limit = MaxLimit
		default:
			f.Limit = n
		}
	}

	if raw := strings.TrimSpace(v.Get("offset")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			errs.Add("offset", "offset must be a non-negative integer")
		} else {
			f.Offset = n
		}
	}

	return f, errs.Err()
}

// NormalizeComparison parses the current* and previous* window bounds, all
// four of which are required, plus the shared scope parameters.
func NormalizeComparison(v url.Values) (domain.ComparisonFilter, error) {
	var errs domain.ValidationErrors
	base := metricsFilter(v, "", &errs)

	cur := base
	cur.DateFrom, cur.DateTo, cur.DateToWholeDay = window(v, "current", &errs)
	prev := base
	prev.DateFrom, prev.DateTo, prev.DateToWholeDay = window(v, "previous", &errs)

	return domain.ComparisonFilter{Current: cur, Previous: prev}, errs.Err()
}

// NormalizeTrend parses days (default 30, 1..365) plus the scope parameters.
func NormalizeTrend(v url.Values) (domain.TrendFilter, error) {
	var errs domain.ValidationErrors
	f := domain.TrendFilter{MetricsFilter: metricsFilter(v, "", &errs), Days: DefaultDays}

	if raw := strings.TrimSpace(v.Get("days")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || validate.Var(n, fmt.Sprintf("min=1,max=%d", MaxDays)) != nil {
			errs.Add("days", fmt.Sprintf("days must be an integer between 1 and %d", MaxDays))
		} else {
			f.Days = n
		}
	}

	return f, errs.Err()
}

// metricsFilter reads the shared parameters; prefix is prepended to the date
// parameter names.
func metricsFilter(v url.Values, prefix string, errs *domain.ValidationErrors) domain.MetricsFilter {
	f := domain.MetricsFilter{
		ClientID:      strings.TrimSpace(v.Get("clientId")),
		UserID:        strings.TrimSpace(v.Get("userId")),
		TrafficSource: domain.TrafficAll,
	}

	fromKey, toKey := key(prefix, "dateFrom"), key(prefix, "dateTo")
	f.DateFrom, _ = parseDate(v.Get(fromKey), fromKey, errs)
	f.DateTo, f.DateToWholeDay = parseDate(v.Get(toKey), toKey, errs)
	checkOrder(f.DateFrom, f.DateTo, fromKey, toKey, errs)

	if raw := strings.ToLower(strings.TrimSpace(v.Get("trafficSource"))); raw != "" {
		if err := validate.Var(raw, "oneof=organic meta all"); err != nil {
			errs.Add("trafficSource", "trafficSource must be one of: organic meta all")
		} else {
			f.TrafficSource = domain.TrafficSource(raw)
		}
	}

	return f
}

func window(v url.Values, prefix string, errs *domain.ValidationErrors) (time.Time, time.Time, bool) {
	fromKey, toKey := key(prefix, "dateFrom"), key(prefix, "dateTo")
	for _, k := range []string{fromKey, toKey} {
		if strings.TrimSpace(v.Get(k)) == "" {
			errs.Add(k, k+" is required")
		}
	}
	from, _ := parseDate(v.Get(fromKey), fromKey, errs)
	to, wholeDay := parseDate(v.Get(toKey), toKey, errs)
	checkOrder(from, to, fromKey, toKey, errs)
	return from, to, wholeDay
}

func checkOrder(from, to time.Time, fromKey, toKey string, errs *domain.ValidationErrors) {
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		errs.Add(fromKey, fromKey+" must be before "+toKey)
	}
}

// parseDate accepts YYYY-MM-DD (UTC midnight) or RFC3339 and reports whether
// the input was date-only. Empty input yields the zero time.
func parseDate(raw, field string, errs *domain.ValidationErrors) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t.UTC(), true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), false
	}
	errs.Add(field, field+" must be a valid date (YYYY-MM-DD or RFC3339)")
	return time.Time{}, false
}

// key builds currentDateFrom from ("current", "dateFrom").
func key(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + strings.ToUpper(name[:1]) + name[1:]
}
