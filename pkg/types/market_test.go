package types

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestMarketState(t *testing.T) {
	deadline := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		resolved bool
		outcome  Outcome
		now      time.Time
		want     MarketState
	}{
		{name: "open-before-deadline", now: deadline.Add(-time.Hour), want: MarketStateOpen},
		{name: "closed-at-deadline", now: deadline, want: MarketStateClosedUnresolved},
		{name: "closed-after-deadline", now: deadline.Add(time.Hour), want: MarketStateClosedUnresolved},
		{name: "resolved-yes", resolved: true, outcome: OutcomeYes, now: deadline.Add(time.Hour), want: MarketStateResolvedYes},
		{name: "resolved-no", resolved: true, outcome: OutcomeNo, now: deadline.Add(time.Hour), want: MarketStateResolvedNo},
		{name: "resolved-void", resolved: true, outcome: OutcomeVoid, now: deadline.Add(time.Hour), want: MarketStateResolvedVoid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Market{
				ID:             uuid.New(),
				Deadline:       deadline,
				Resolved:       tt.resolved,
				WinningOutcome: tt.outcome,
			}
			if got := m.State(tt.now); got != tt.want {
				t.Errorf("State() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMarketAcceptingBets(t *testing.T) {
	deadline := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m := &Market{Deadline: deadline}

	if !m.AcceptingBets(deadline.Add(-time.Second)) {
		t.Error("expected open before deadline")
	}
	if m.AcceptingBets(deadline) {
		t.Error("expected closed exactly at deadline")
	}

	m.Resolved = true
	if m.AcceptingBets(deadline.Add(-time.Second)) {
		t.Error("resolved market must not accept bets")
	}
}

func TestMarketCloneIsIndependent(t *testing.T) {
	m := &Market{ID: uuid.New(), PoolYes: 100, PoolNo: 50}
	c := m.Clone()
	c.PoolYes = 999

	if m.PoolYes != 100 {
		t.Errorf("mutating clone changed original: %d", m.PoolYes)
	}
}
