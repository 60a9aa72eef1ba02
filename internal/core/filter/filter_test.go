package filter

import (
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/closerhq/agency-dashboard/internal/core/domain"
)

func fieldErrors(t *testing.T, err error) []domain.FieldError {
	t.Helper()
	require.Error(t, err)
	require.True(t, errors.Is(err, domain.ErrValidation))
	var de *domain.Error
	require.True(t, errors.As(err, &de))
	fes, ok := de.Details.([]domain.FieldError)
	require.True(t, ok)
	return fes
}

func TestNormalizeMetrics_Defaults(t *testing.T) {
	f, err := NormalizeMetrics(url.Values{})
	require.NoError(t, err)
	assert.True(t, f.DateFrom.IsZero())
	assert.True(t, f.DateTo.IsZero())
	assert.Equal(t, domain.TrafficAll, f.TrafficSource)
}

func TestNormalizeMetrics_DateRoundTrip(t *testing.T) {
	f, err := NormalizeMetrics(url.Values{"dateFrom": {"2024-01-01"}, "dateTo": {"2024-01-31"}})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", domain.FormatBoundary(f.DateFrom))
	assert.Equal(t, "2024-01-31", domain.FormatBoundary(f.DateTo))
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), f.UpperBound())
}

func TestNormalizeMetrics_RFC3339(t *testing.T) {
	f, err := NormalizeMetrics(url.Values{"dateFrom": {"2024-01-01T10:30:00Z"}})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01T10:30:00Z", domain.FormatBoundary(f.DateFrom))
}

func TestNormalizeMetrics_ReversedDates(t *testing.T) {
	_, err := NormalizeMetrics(url.Values{"dateFrom": {"2024-02-01"}, "dateTo": {"2024-01-01"}})
	fes := fieldErrors(t, err)
	require.Len(t, fes, 1)
	assert.Equal(t, "dateFrom must be before dateTo", fes[0].Message)
	assert.Contains(t, err.Error(), "dateFrom must be before dateTo")
}

func TestNormalizeMetrics_CollectsAllErrors(t *testing.T) {
	_, err := NormalizeMetrics(url.Values{
		"dateFrom":      {"yesterday"},
		"dateTo":        {"2024-13-45"},
		"trafficSource": {"tiktok"},
	})
	fes := fieldErrors(t, err)
	fields := make([]string, 0, len(fes))
	for _, fe := range fes {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"dateFrom", "dateTo", "trafficSource"}, fields)
}

func TestNormalizeMetrics_TrafficSource(t *testing.T) {
	f, err := NormalizeMetrics(url.Values{"trafficSource": {"Meta"}})
	require.NoError(t, err)
	assert.Equal(t, domain.TrafficMeta, f.TrafficSource)
	assert.Equal(t, domain.TrafficMeta, f.SourceFilter())

	f, err = NormalizeMetrics(url.Values{"trafficSource": {"all"}})
	require.NoError(t, err)
	assert.Equal(t, domain.TrafficSource(""), f.SourceFilter())
}

func TestNormalizeCallList_Pagination(t *testing.T) {
	f, err := NormalizeCallList(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, DefaultLimit, f.Limit)
	assert.Equal(t, 0, f.Offset)

	f, err = NormalizeCallList(url.Values{"limit": {"500"}, "offset": {"40"}})
	require.NoError(t, err)
	assert.Equal(t, MaxLimit, f.Limit)
	assert.Equal(t, 40, f.Offset)

	_, err = NormalizeCallList(url.Values{"limit": {"0"}, "offset": {"-1"}, "stage": {"won"}})
	assert.Len(t, fieldErrors(t, err), 3)
}

func TestNormalizeComparison(t *testing.T) {
	f, err := NormalizeComparison(url.Values{
		"currentDateFrom":  {"2024-02-01"},
		"currentDateTo":    {"2024-02-29"},
		"previousDateFrom": {"2024-01-01"},
		"previousDateTo":   {"2024-01-31"},
		"clientId":         {"c1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "c1", f.Current.ClientID)
	assert.Equal(t, "c1", f.Previous.ClientID)
	assert.Equal(t, "2024-02-01", domain.FormatBoundary(f.Current.DateFrom))
	assert.Equal(t, "2024-01-31", domain.FormatBoundary(f.Previous.DateTo))

	_, err = NormalizeComparison(url.Values{"currentDateFrom": {"2024-02-01"}})
	assert.Len(t, fieldErrors(t, err), 3)
}

func TestNormalizeTrend(t *testing.T) {
	f, err := NormalizeTrend(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, DefaultDays, f.Days)

	f, err = NormalizeTrend(url.Values{"days": {"7"}})
	require.NoError(t, err)
	assert.Equal(t, 7, f.Days)

	for _, bad := range []string{"0", "366", "abc"} {
		_, err = NormalizeTrend(url.Values{"days": {bad}})
		assert.Len(t, fieldErrors(t, err), 1, "days=%s", bad)
	}
}
