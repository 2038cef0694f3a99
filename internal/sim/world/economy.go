package world

import "github.com/dzautner/megacity-sub002/internal/protocol"

// systemEconomy accrues recurring costs and settles the ledger on the
// monthly collection day. Between collections the treasury only moves on
// explicit player actions, so accruals build up in the budget's pending
// fields.
func systemEconomy(w *World) {
	b := w.Budget

	// per-slow-tick accrual fraction of a 30-day month
	frac := float64(w.slowEvery) / float64(30*TicksPerDay)

	// taxes: each active building pays land value times level at its zone's
	// rate
	var taxes float64
	w.Buildings.Each(func(_ Handle, bd *Building) {
		if bd.Status != StatusActive {
			return
		}
		lv := float64(w.Grids.LandValue[Idx(bd.X, bd.Y)])
		taxes += lv * float64(bd.Level) * b.ZoneRate(bd.Zone.String())
	})
	b.PendingTaxes += taxes * frac
	if b.PolicyOn("TOURISM_ADS") {
		b.PendingTaxes += float64(w.Stats.Population) * 0.2 * frac * 30
	}

	// road maintenance
	var maint float64
	for i := 0; i < GridArea; i++ {
		c := &w.Grid.Cells[i]
		if c.Type != CellRoad {
			continue
		}
		if def, ok := w.Cat.Roads.Get(c.Road.String()); ok {
			maint += def.MaintPerCell
		} else {
			maint += w.Tun.Economy.RoadMaintPerCell
		}
	}
	b.PendingMaint += maint * frac * 30

	// service and utility operating costs, scaled by funding level
	var ops float64
	w.Services.Each(func(_ Handle, s *ServiceBuilding) {
		if def, ok := w.Cat.Services.Get(s.Type); ok {
			ops += def.Maintenance * b.FundingMul(s.Category)
		}
	})
	w.Utilities.Each(func(_ Handle, u *UtilitySource) {
		if u.IsPower {
			if def, ok := w.Cat.Power.Get(u.Type); ok {
				ops += def.Maintenance
			}
		} else if def, ok := w.Cat.Water.Get(u.Type); ok {
			ops += def.Maintenance
		}
	})
	b.PendingServiceOps += ops * frac

	// policy costs; a district enactment costs a quarter of the city-wide
	// rate and is subsumed when the same policy is on city-wide
	var policyCost float64
	for _, id := range b.ActivePolicies() {
		if def := PolicyByID(id); def != nil {
			policyCost += def.MonthlyCost
		}
	}
	for _, dp := range b.ActiveDistrictPolicies() {
		if b.PolicyOn(dp[1]) {
			continue
		}
		if def := PolicyByID(dp[1]); def != nil {
			policyCost += def.MonthlyCost / 4
		}
	}
	b.PendingPolicyCost += policyCost * frac

	if !w.collectionDue() {
		return
	}

	// settle the month
	var loanPay float64
	keep := b.Loans[:0]
	for _, l := range b.Loans {
		pay := l.MonthlyPay
		if pay > l.Remaining {
			pay = l.Remaining
		}
		interest := l.Remaining * l.AnnualRate / 12
		principal := pay - interest
		if principal < 0 {
			principal = 0
		}
		l.Remaining -= principal
		l.MonthsLeft--
		loanPay += pay
		if l.Remaining > 0.01 && l.MonthsLeft > 0 {
			keep = append(keep, l)
		}
	}
	b.Loans = keep

	net := b.PendingTaxes - b.PendingMaint - b.PendingServiceOps - b.PendingPolicyCost +
		b.PendingEnergyNet + b.PendingWaterNet - loanPay
	b.Treasury += net

	b.LastTaxes = b.PendingTaxes
	b.LastMaint = b.PendingMaint
	b.LastServiceOps = b.PendingServiceOps
	b.LastPolicyCost = b.PendingPolicyCost
	b.LastEnergyNet = b.PendingEnergyNet
	b.LastWaterNet = b.PendingWaterNet
	b.LastLoanPay = loanPay

	b.PendingTaxes = 0
	b.PendingMaint = 0
	b.PendingServiceOps = 0
	b.PendingPolicyCost = 0
	b.PendingEnergyNet = 0
	b.PendingWaterNet = 0

	w.emitEventf(protocol.EvCollection, protocol.SevInfo, -1, -1,
		"monthly collection: net %+.0f, treasury %.0f", net, b.Treasury)
	if b.Treasury < 0 {
		w.emitEventf(protocol.EvBankruptcyRisk, protocol.SevCritical, -1, -1, "treasury is negative")
	}
}

// collectionDue fires on the first slow tick of each collection day.
func (w *World) collectionDue() bool {
	period := w.Tun.Economy.CollectionPeriodDays
	if period <= 0 {
		period = 30
	}
	if w.Clock.Day()%period != 0 || w.Clock.Day() == 0 {
		return false
	}
	return w.Clock.Tick%TicksPerDay < uint64(w.slowEvery)
}
