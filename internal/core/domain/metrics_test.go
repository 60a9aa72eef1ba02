package domain

import (
	"math"
	"testing"
)

func TestDerive_ReferenceScenario(t *testing.T) {
	m := Derive(CallCounts{
		Scheduled:     100,
		Taken:         80,
		Showed:        70,
		ClosedWon:     25,
		CashCollected: 50000,
	})

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"show_rate", m.ShowRate, 70.0},
		{"close_rate", m.CloseRate, 31.25},
		{"cash_based_aov", m.CashBasedAOV, 2000.0},
		{"gross_collected_per_booked_call", m.GrossCollectedPerBookedCall, 500.0},
		{"cash_per_live_call", m.CashPerLiveCall, 625.0},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: expected %v, got %v", c.name, c.want, c.got)
		}
	}
}

func TestDerive_ZeroCallsNeverNaN(t *testing.T) {
	m := Derive(CallCounts{CashCollected: 100})
	for name, v := range map[string]float64{
		"show_rate":          m.ShowRate,
		"close_rate":         m.CloseRate,
		"no_show_rate":       m.NoShowRate,
		"cash_based_aov":     m.CashBasedAOV,
		"cash_per_live_call": m.CashPerLiveCall,
		"roas":               m.ROAS,
		"cost_per_booked":    m.CostPerBookedCall,
	} {
		if v != 0 || math.IsNaN(v) {
			t.Errorf("%s: expected 0, got %v", name, v)
		}
	}
}

func TestDerive_ROAS(t *testing.T) {
	m := Derive(CallCounts{Scheduled: 10, Revenue: 9000, CashCollected: 4500, AdSpend: 3000})
	if m.ROAS != 3 {
		t.Errorf("roas: expected 3, got %v", m.ROAS)
	}
	if m.CashROAS != 1.5 {
		t.Errorf("cash_roas: expected 1.5, got %v", m.CashROAS)
	}
	if m.CostPerBookedCall != 300 {
		t.Errorf("cost_per_booked_call: expected 300, got %v", m.CostPerBookedCall)
	}
}

func TestChange(t *testing.T) {
	cases := []struct {
		current, previous, want float64
	}{
		{150, 100, 50},
		{50, 100, -50},
		{100, 100, 0},
		{42, 0, 0},
		{0, 0, 0},
		{-5, 0, 0},
	}
	for _, c := range cases {
		got := Change(c.current, c.previous)
		if got != c.want || math.IsInf(got, 0) || math.IsNaN(got) {
			t.Errorf("Change(%v, %v): expected %v, got %v", c.current, c.previous, c.want, got)
		}
	}
}

func TestCompare(t *testing.T) {
	cur := Derive(CallCounts{Scheduled: 20, Showed: 10})
	prev := Derive(CallCounts{Scheduled: 10, Showed: 10})

	cmp := Compare(cur, prev)
	if got := cmp["total_calls"]; got.Current != 20 || got.Previous != 10 || got.Change != 100 {
		t.Errorf("total_calls: unexpected %+v", got)
	}
	if got := cmp["show_rate"]; got.Current != 50 || got.Previous != 100 || got.Change != -50 {
		t.Errorf("show_rate: unexpected %+v", got)
	}
	if got := cmp["wins"]; got.Change != 0 {
		t.Errorf("wins: expected 0 change on zero previous, got %+v", got)
	}
}

func TestStageTransitions(t *testing.T) {
	if !StageScheduled.CanTransitionTo(StageNoShow) {
		t.Error("scheduled -> no_show must be allowed")
	}
	if !StageCompleted.CanTransitionTo(StageClosedWon) {
		t.Error("completed -> closed_won must be allowed")
	}
	if StageClosedWon.CanTransitionTo(StageScheduled) {
		t.Error("closed_won is terminal")
	}
	if StageScheduled.CanTransitionTo(StageClosedWon) {
		t.Error("scheduled -> closed_won must go through a live call")
	}
}
