package postgres

import (
	"fmt"
	"strings"
	"time"

	"github.com/closerhq/agency-dashboard/internal/core/domain"
)

// predicate accumulates AND-ed conditions with positional arguments.
// A "?" in a condition is replaced with the next $n placeholder.
type predicate struct {
	conds []string
	args  []any
}

func (p *predicate) add(cond string, args ...any) {
	for _, a := range args {
		p.args = append(p.args, a)
		cond = strings.Replace(cond, "?", fmt.Sprintf("$%d", len(p.args)), 1)
	}
	p.conds = append(p.conds, cond)
}

// arg appends a bare argument and returns its placeholder.
func (p *predicate) arg(a any) string {
	p.args = append(p.args, a)
	return fmt.Sprintf("$%d", len(p.args))
}

func (p *predicate) where() string {
	if len(p.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(p.conds, " AND ")
}

// callPredicate translates a scoped filter into conditions on calls.
// The date window applies to scheduled_at and is half-open.
func callPredicate(f domain.MetricsFilter, alias string) *predicate {
	col := func(name string) string {
		if alias == "" {
			return name
		}
		return alias + "." + name
	}

	p := &predicate{}
	p.add(col("deleted_at") + " IS NULL")
	if f.ClientID != "" {
		p.add(col("client_id")+" = ?", f.ClientID)
	}
	if f.UserID != "" {
		p.add(col("user_id")+" = ?", f.UserID)
	}
	if !f.DateFrom.IsZero() {
		p.add(col("scheduled_at")+" >= ?", f.DateFrom.UTC())
	}
	if upper := f.UpperBound(); !upper.IsZero() {
		p.add(col("scheduled_at")+" < ?", upper.UTC())
	}
	if src := f.SourceFilter(); src != "" {
		p.add(col("traffic_source")+" = ?", string(src))
	}
	return p
}

// adSpendPredicate filters ad_spend by client, day and source. Ad spend is
// recorded per client, so a user filter does not narrow it.
func adSpendPredicate(f domain.MetricsFilter) *predicate {
	p := &predicate{}
	if f.ClientID != "" {
		p.add("client_id = ?", f.ClientID)
	}
	if !f.DateFrom.IsZero() {
		p.add("day >= ?::date", f.DateFrom.UTC())
	}
	if upper := f.UpperBound(); !upper.IsZero() {
		p.add("day < ?::date", dayCeil(upper))
	}
	if src := f.SourceFilter(); src != "" {
		p.add("traffic_source = ?", string(src))
	}
	return p
}

// dayCeil rounds an exclusive upper bound up to the next UTC midnight so the
// day it falls on keeps its ad spend.
func dayCeil(t time.Time) time.Time {
	u := t.UTC()
	if domain.IsDateOnly(u) {
		return u
	}
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
}
