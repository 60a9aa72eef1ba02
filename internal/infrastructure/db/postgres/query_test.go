package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/closerhq/agency-dashboard/internal/core/domain"
)

func TestCallPredicate_Empty(t *testing.T) {
	p := callPredicate(domain.MetricsFilter{TrafficSource: domain.TrafficAll}, "")
	assert.Equal(t, " WHERE deleted_at IS NULL", p.where())
	assert.Empty(t, p.args)
}

func TestCallPredicate_FullScope(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	f := domain.MetricsFilter{
		ClientID: "c1", UserID: "u1",
		DateFrom: from, DateTo: to, DateToWholeDay: true,
		TrafficSource: domain.TrafficMeta,
	}

	p := callPredicate(f, "c")

	assert.Equal(t,
		" WHERE c.deleted_at IS NULL AND c.client_id = $1 AND c.user_id = $2"+
			" AND c.scheduled_at >= $3 AND c.scheduled_at < $4 AND c.traffic_source = $5",
		p.where())
	assert.Equal(t, []any{"c1", "u1", from, to.AddDate(0, 0, 1), "meta"}, p.args)
}

func TestCallPredicate_ExactUpperBound(t *testing.T) {
	to := time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC)
	p := callPredicate(domain.MetricsFilter{DateTo: to}, "")
	assert.Equal(t, []any{to}, p.args)
}

func TestAdSpendPredicate_IgnoresUser(t *testing.T) {
	p := adSpendPredicate(domain.MetricsFilter{ClientID: "c1", UserID: "u1"})
	assert.Equal(t, " WHERE client_id = $1", p.where())
	assert.Equal(t, []any{"c1"}, p.args)
}

func TestAdSpendPredicate_MidDayUpperBoundKeepsThatDay(t *testing.T) {
	to := time.Date(2024, 5, 10, 14, 0, 0, 0, time.UTC)
	p := adSpendPredicate(domain.MetricsFilter{DateTo: to})
	assert.Equal(t, " WHERE day < $1::date", p.where())
	assert.Equal(t, []any{time.Date(2024, 5, 11, 0, 0, 0, 0, time.UTC)}, p.args)
}

func TestAdSpendPredicate_WholeDayUpperBound(t *testing.T) {
	to := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	p := adSpendPredicate(domain.MetricsFilter{DateTo: to, DateToWholeDay: true})
	assert.Equal(t, []any{time.Date(2024, 5, 11, 0, 0, 0, 0, time.UTC)}, p.args)
}

func TestPredicate_ArgContinuesNumbering(t *testing.T) {
	p := callPredicate(domain.MetricsFilter{ClientID: "c1"}, "")
	assert.Equal(t, "$2", p.arg(20))
	assert.Equal(t, "$3", p.arg(0))
}
