package domain

import (
	"math"
	"time"
)

// CallCounts is the raw aggregate of call records (plus ad spend) for one
// filter window.
type CallCounts struct {
	Scheduled     int64
	Taken         int64
	Showed        int64
	ClosedWon     int64
	Lost          int64
	NoShows       int64
	CashCollected float64
	Revenue       float64
	AdSpend       float64
}

// Add accumulates o into c.
func (c *CallCounts) Add(o CallCounts) {
	c.Scheduled += o.Scheduled
	c.Taken += o.Taken
	c.Showed += o.Showed
	c.ClosedWon += o.ClosedWon
	c.Lost += o.Lost
	c.NoShows += o.NoShows
	c.CashCollected += o.CashCollected
	c.Revenue += o.Revenue
	c.AdSpend += o.AdSpend
}

// DerivedMetrics is computed, never stored. Rates are percentages.
type DerivedMetrics struct {
	TotalCalls    int64   `json:"total_calls"`
	CallsTaken    int64   `json:"calls_taken"`
	CallsShowed   int64   `json:"calls_showed"`
	Wins          int64   `json:"wins"`
	Losses        int64   `json:"losses"`
	NoShows       int64   `json:"no_shows"`
	CashCollected float64 `json:"cash_collected"`
	Revenue       float64 `json:"revenue"`
	AdSpend       float64 `json:"ad_spend"`

	ShowRate                    float64 `json:"show_rate"`
	CloseRate                   float64 `json:"close_rate"`
	NoShowRate                  float64 `json:"no_show_rate"`
	CashBasedAOV                float64 `json:"cash_based_aov"`
	RevenueAOV                  float64 `json:"revenue_aov"`
	GrossCollectedPerBookedCall float64 `json:"gross_collected_per_booked_call"`
	CashPerLiveCall             float64 `json:"cash_per_live_call"`
	ROAS                        float64 `json:"roas"`
	CashROAS                    float64 `json:"cash_roas"`
	CostPerBookedCall           float64 `json:"cost_per_booked_call"`
}

// Derive computes every ratio from c. Show rate is over booked calls, close
// rate over live calls; the two denominators are never interchanged.
func Derive(c CallCounts) DerivedMetrics {
	booked := float64(c.Scheduled)
	live := float64(c.Taken)
	wins := float64(c.ClosedWon)

	return DerivedMetrics{
		TotalCalls:    c.Scheduled,
		CallsTaken:    c.Taken,
		CallsShowed:   c.Showed,
		Wins:          c.ClosedWon,
		Losses:        c.Lost,
		NoShows:       c.NoShows,
		CashCollected: Round2(c.CashCollected),
		Revenue:       Round2(c.Revenue),
		AdSpend:       Round2(c.AdSpend),

		ShowRate:                    Percent(float64(c.Showed), booked),
		CloseRate:                   Percent(wins, live),
		NoShowRate:                  Percent(float64(c.NoShows), booked),
		CashBasedAOV:                Ratio(c.CashCollected, wins),
		RevenueAOV:                  Ratio(c.Revenue, wins),
		GrossCollectedPerBookedCall: Ratio(c.CashCollected, booked),
		CashPerLiveCall:             Ratio(c.CashCollected, live),
		ROAS:                        Ratio(c.Revenue, c.AdSpend),
		CashROAS:                    Ratio(c.CashCollected, c.AdSpend),
		CostPerBookedCall:           Ratio(c.AdSpend, booked),
	}
}

// Ratio returns num/den rounded to 2 decimals, or 0 when den is 0.
func Ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return Round2(num / den)
}

// Percent returns num/den*100 rounded to 2 decimals, or 0 when den is 0.
func Percent(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return Round2(num / den * 100)
}

// Change is the period-over-period change in percent. A zero previous value
// yields 0, never Inf or NaN.
func Change(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return Round2((current - previous) / previous * 100)
}

// Round2 rounds to 2 decimal places.
func Round2(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return math.Round(f*100) / 100
}

// ComparisonMetric is one metric across two windows.
type ComparisonMetric struct {
	Current  float64 `json:"current"`
	Previous float64 `json:"previous"`
	Change   float64 `json:"change"`
}

// Compare builds the per-metric comparison of two derived metric sets.
func Compare(current, previous DerivedMetrics) map[string]ComparisonMetric {
	pairs := []struct {
		name     string
		cur, prv float64
	}{
		{"total_calls", float64(current.TotalCalls), float64(previous.TotalCalls)},
		{"calls_taken", float64(current.CallsTaken), float64(previous.CallsTaken)},
		{"calls_showed", float64(current.CallsShowed), float64(previous.CallsShowed)},
		{"wins", float64(current.Wins), float64(previous.Wins)},
		{"no_shows", float64(current.NoShows), float64(previous.NoShows)},
		{"cash_collected", current.CashCollected, previous.CashCollected},
		{"revenue", current.Revenue, previous.Revenue},
		{"ad_spend", current.AdSpend, previous.AdSpend},
		{"show_rate", current.ShowRate, previous.ShowRate},
		{"close_rate", current.CloseRate, previous.CloseRate},
		{"cash_based_aov", current.CashBasedAOV, previous.CashBasedAOV},
		{"cash_per_live_call", current.CashPerLiveCall, previous.CashPerLiveCall},
		{"roas", current.ROAS, previous.ROAS},
	}

	out := make(map[string]ComparisonMetric, len(pairs))
	for _, p := range pairs {
		out[p.name] = ComparisonMetric{Current: p.cur, Previous: p.prv, Change: Change(p.cur, p.prv)}
	}
	return out
}

// DailyCounts is the aggregate of one UTC calendar day.
type DailyCounts struct {
	Day    time.Time
	Counts CallCounts
}

// TrendPoint is one zero-filled day of a time series.
type TrendPoint struct {
	Date string `json:"date"`
	DerivedMetrics
}

// UserCounts is the aggregate of one salesperson.
type UserCounts struct {
	UserID string
	Counts CallCounts
}

// LeaderboardEntry ranks one salesperson.
type LeaderboardEntry struct {
	Rank   int    `json:"rank"`
	UserID string `json:"user_id"`
	DerivedMetrics
}
