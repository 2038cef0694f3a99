package world

import (
	"testing"

	"github.com/dzautner/megacity-sub002/internal/protocol"
)

func occupy(w *World, h Handle, n int) {
	b := w.Buildings.Get(h)
	b.Occupants = n
}

func TestAccrualsDoNotTouchTreasuryMidMonth(t *testing.T) {
	w := newTestWorld(t, 51)
	flatten(w)
	h := activeBuilding(w, 50, 50, ZoneResLow)
	occupy(w, h, 3)
	mustApply(t, w, protocol.Command{Type: protocol.CmdPlaceRoadSegment, RoadKind: "LOCAL", X: 40, Y: 52, X2: 60, Y2: 52})

	before := w.Budget.Treasury
	w.Clock.Tick = uint64(3*TicksPerDay + 500) // day 3, not a boundary
	systemEconomy(w)

	if w.Budget.Treasury != before {
		t.Fatalf("treasury moved mid-month: %.2f -> %.2f", before, w.Budget.Treasury)
	}
	if w.Budget.PendingTaxes <= 0 {
		t.Fatal("taxes did not accrue")
	}
	if w.Budget.PendingMaint <= 0 {
		t.Fatal("road maintenance did not accrue")
	}
}

func TestTaxAccrualUsesLandValueLevelAndZoneRate(t *testing.T) {
	w := newTestWorld(t, 51)
	flatten(w)
	h := activeBuilding(w, 50, 50, ZoneComLow)
	b := w.Buildings.Get(h)
	b.Level = 2
	w.Grids.LandValue[Idx(50, 50)] = 120
	mustApply(t, w, protocol.Command{Type: protocol.CmdSetTaxRate, Zone: "COM_LOW", Rate: 0.10})

	w.Clock.Tick = uint64(3*TicksPerDay + 500)
	systemEconomy(w)

	frac := float64(w.SlowEvery()) / float64(30*TicksPerDay)
	want := 120.0 * 2 * 0.10 * frac
	if got := w.Budget.PendingTaxes; absF(got-want) > 1e-9 {
		t.Fatalf("PendingTaxes = %v, want %v", got, want)
	}
}

func TestDistrictPolicyCostAccrues(t *testing.T) {
	w := newTestWorld(t, 51)
	mustApply(t, w, protocol.Command{Type: protocol.CmdSetDistrictPolicy, District: "SE", PolicyID: "RECYCLING", Enabled: true})

	w.Clock.Tick = uint64(3*TicksPerDay + 500)
	systemEconomy(w)

	frac := float64(w.SlowEvery()) / float64(30*TicksPerDay)
	want := 1200.0 / 4 * frac
	if got := w.Budget.PendingPolicyCost; absF(got-want) > 1e-9 {
		t.Fatalf("PendingPolicyCost = %v, want %v", got, want)
	}

	// the district enactment is subsumed by the city-wide one
	mustApply(t, w, protocol.Command{Type: protocol.CmdSetPolicy, PolicyID: "RECYCLING", Enabled: true})
	w.Budget.PendingPolicyCost = 0
	systemEconomy(w)
	want = 1200.0 * frac
	if got := w.Budget.PendingPolicyCost; absF(got-want) > 1e-9 {
		t.Fatalf("PendingPolicyCost with both = %v, want %v", got, want)
	}
}

func TestCollectionDaySettlesPending(t *testing.T) {
	w := newTestWorld(t, 51)
	flatten(w)
	h := activeBuilding(w, 50, 50, ZoneResLow)
	occupy(w, h, 3)

	w.Budget.PendingTaxes = 900
	w.Budget.PendingMaint = 100
	w.Budget.PendingEnergyNet = 50
	before := w.Budget.Treasury

	w.Clock.Tick = uint64(30 * TicksPerDay) // first slow tick of day 30
	systemEconomy(w)

	if w.Budget.Treasury <= before {
		t.Fatalf("settlement did not credit the treasury: %.2f -> %.2f", before, w.Budget.Treasury)
	}
	if w.Budget.PendingTaxes != 0 || w.Budget.PendingMaint != 0 || w.Budget.PendingEnergyNet != 0 {
		t.Fatal("pending fields not cleared after settlement")
	}
	if w.Budget.LastMaint != 100 {
		t.Fatalf("LastMaint = %.2f, want 100", w.Budget.LastMaint)
	}

	var collected bool
	for _, ev := range w.DrainEvents() {
		if ev.Type == "COLLECTION" {
			collected = true
		}
	}
	if !collected {
		t.Fatal("no COLLECTION event")
	}
}

func TestCollectionSkipsDayZero(t *testing.T) {
	w := newTestWorld(t, 51)
	w.Clock.Tick = 0
	if w.collectionDue() {
		t.Fatal("collection due on day 0")
	}
	w.Clock.Tick = uint64(30 * TicksPerDay)
	if !w.collectionDue() {
		t.Fatal("collection not due on day 30")
	}
	w.Clock.Tick = uint64(30*TicksPerDay) + uint64(w.SlowEvery())
	if w.collectionDue() {
		t.Fatal("collection due twice on the same day")
	}
}

func TestLoanAmortizesOnCollection(t *testing.T) {
	w := newTestWorld(t, 51)
	mustApply(t, w, protocol.Command{Type: protocol.CmdTakeLoan, Amount: 12000, Term: 12})
	l := w.Budget.Loans[0]
	if l.Remaining != 12000 {
		t.Fatalf("remaining = %.2f, want 12000", l.Remaining)
	}

	w.Clock.Tick = uint64(30 * TicksPerDay)
	systemEconomy(w)

	if len(w.Budget.Loans) != 1 {
		t.Fatalf("loan disappeared after one payment")
	}
	after := w.Budget.Loans[0]
	if after.Remaining >= l.Remaining {
		t.Fatalf("principal did not shrink: %.2f -> %.2f", l.Remaining, after.Remaining)
	}
	if after.MonthsLeft != l.MonthsLeft-1 {
		t.Fatalf("months left %d, want %d", after.MonthsLeft, l.MonthsLeft-1)
	}
	if w.Budget.LastLoanPay <= 0 {
		t.Fatal("loan payment not recorded")
	}
}

func TestRepayLoanNeedsFunds(t *testing.T) {
	w := newTestWorld(t, 51)
	mustApply(t, w, protocol.Command{Type: protocol.CmdTakeLoan, Amount: 100000, Term: 120})
	id := w.Budget.Loans[0].ID

	w.Budget.Treasury = 50
	res := w.Apply(protocol.Command{Type: protocol.CmdRepayLoan, LoanID: id})
	if res.Accepted || res.Code != protocol.ErrInsufficientFunds {
		t.Fatalf("repay with empty treasury: %+v", res)
	}

	w.Budget.Treasury = 200000
	mustApply(t, w, protocol.Command{Type: protocol.CmdRepayLoan, LoanID: id})
	if len(w.Budget.Loans) != 0 {
		t.Fatal("loan not cleared after repayment")
	}
}
