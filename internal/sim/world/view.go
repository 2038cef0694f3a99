package world

import "github.com/dzautner/megacity-sub002/internal/protocol"

var seasonNames = [...]string{"WINTER", "SPRING", "SUMMER", "AUTUMN"}

// BuildSnapshot assembles the published read-only view. Every slice is a
// fresh copy so consumers can hold the snapshot across ticks.
func (w *World) BuildSnapshot(events []protocol.Event) *protocol.ViewSnapshot {
	s := &protocol.ViewSnapshot{
		Tick:   w.Clock.Tick,
		Day:    w.Clock.Day(),
		Hour:   w.Clock.Hour(),
		Minute: w.Clock.Minute(),
		Speed:  w.Clock.Speed,
		Paused: w.Clock.Paused,
		Width:  GridW,
		Height: GridH,
		Events: events,
	}

	s.CellTypes = make([]uint8, GridArea)
	s.Zones = make([]uint8, GridArea)
	s.RoadTypes = make([]uint8, GridArea)
	s.HasPower = make([]bool, GridArea)
	s.HasWater = make([]bool, GridArea)
	for i := range w.Grid.Cells {
		c := &w.Grid.Cells[i]
		s.CellTypes[i] = uint8(c.Type)
		s.Zones[i] = uint8(c.Zone)
		s.RoadTypes[i] = uint8(c.Road)
		s.HasPower[i] = c.HasPower
		s.HasWater[i] = c.HasWater
	}
	s.Pollution = append([]uint8(nil), w.Grids.Pollution...)
	s.Noise = append([]uint8(nil), w.Grids.Noise...)
	s.LandValue = append([]uint8(nil), w.Grids.LandValue...)
	s.Crime = append([]uint8(nil), w.Grids.Crime...)
	s.Traffic = append([]uint8(nil), w.Grids.Traffic...)
	s.TrafficLOS = append([]uint8(nil), w.Grids.TrafficLOS...)

	w.Buildings.Each(func(h Handle, b *Building) {
		s.Buildings = append(s.Buildings, protocol.BuildingView{
			ID: h.Idx, X: b.X, Y: b.Y,
			Zone: b.Zone.String(), Level: b.Level,
			Capacity: b.Capacity, Occupants: b.Occupants,
			Status: b.Status.String(),
		})
	})
	w.Citizens.Each(func(h Handle, c *Citizen) {
		s.Citizens = append(s.Citizens, protocol.CitizenView{
			ID: h.Idx, X: c.X, Y: c.Y,
			State: c.State.String(), Mode: c.Mode.String(),
		})
	})
	w.Services.Each(func(h Handle, sv *ServiceBuilding) {
		s.Services = append(s.Services, protocol.ServiceView{
			ID: h.Idx, Type: sv.Type, Category: sv.Category,
			X: sv.X, Y: sv.Y, Radius: sv.Radius, Staffing: sv.Staffing(),
		})
	})
	w.Utilities.Each(func(h Handle, u *UtilitySource) {
		s.Utilities = append(s.Utilities, protocol.UtilityView{
			ID: h.Idx, Type: u.Type, X: u.X, Y: u.Y, Range: u.Range,
			IsPower: u.IsPower, IsWater: u.IsWater,
		})
	})
	w.Vehicles.Each(func(_ Handle, v *Vehicle) {
		s.Vehicles = append(s.Vehicles, protocol.VehicleView{
			Kind: v.Kind, X: v.X, Y: v.Y, Returning: v.Returning,
		})
	})

	b := w.Budget
	income := b.LastTaxes + b.LastEnergyNet + b.LastWaterNet
	expenses := b.LastMaint + b.LastServiceOps + b.LastPolicyCost + b.LastLoanPay
	zoneRates := make(map[string]float64, len(b.ZoneRates))
	for z, r := range b.ZoneRates {
		zoneRates[z] = r
	}
	s.Budget = protocol.BudgetView{
		Treasury:        b.Treasury,
		TaxRate:         b.TaxRate,
		MonthlyIncome:   income,
		MonthlyExpenses: expenses,
		ZoneTaxRates:    zoneRates,
		IncomeBreakdown: map[string]float64{
			"taxes":      b.LastTaxes,
			"energy_net": b.LastEnergyNet,
			"water_net":  b.LastWaterNet,
		},
		ExpenseBreakdown: map[string]float64{
			"road_maintenance": b.LastMaint,
			"service_ops":      b.LastServiceOps,
			"policies":         b.LastPolicyCost,
			"loan_payments":    b.LastLoanPay,
		},
	}
	for _, l := range b.Loans {
		s.Budget.Loans = append(s.Budget.Loans, protocol.LoanView{
			ID: l.ID, Principal: l.Principal, Remaining: l.Remaining,
			TermMonths: l.TermMonths, MonthlyPayment: l.MonthlyPay,
		})
	}

	s.Weather = protocol.WeatherView{
		Event:       w.Weather.Kind.String(),
		Season:      seasonNames[w.Clock.Season()],
		Temperature: w.Weather.TempC,
		WindX:       w.Grids.WindX,
		WindY:       w.Grids.WindY,
		Raining:     w.Weather.RainMM > 0,
	}

	st := w.Stats
	unemployment := 0.0
	if st.Population > 0 {
		unemployment = float64(st.Unemployed) / float64(st.Population)
	}
	s.Stats = protocol.StatsView{
		Population:    st.Population,
		Employed:      st.Employed,
		Unemployment:  unemployment,
		AvgHappiness:  st.AvgHappiness,
		AvgHealth:     st.AvgHealth,
		AvgLandValue:  st.AvgLandValue,
		BuildingCount: w.Buildings.Len(),
		RoadCells:     w.Roads.Len(),
		SegmentCount:  w.Segments.Len(),
	}

	reserve := 0.0
	if w.Energy.DemandMWh > 0 {
		reserve = (w.Energy.CapacityMWh - w.Energy.DemandMWh) / w.Energy.DemandMWh
	}
	s.Meters = protocol.MetersView{
		EnergyDemandMWh:  w.Energy.DemandMWh,
		EnergySupplyMWh:  w.Energy.SupplyMWh,
		ReserveMargin:    reserve,
		ElectricityPrice: w.Energy.PriceKWh,
		WaterDemandKL:    w.Water.DemandKL,
		WaterSupplyKL:    w.Water.SupplyKL,
		SewageOverflowKL: w.Water.OverflowKL,
		DemandRes:        w.Demand.Residential,
		DemandCom:        w.Demand.Commercial,
		DemandInd:        w.Demand.Industrial,
		DemandOffice:     w.Demand.Office,
	}

	c := w.Charts
	days := make([]int, len(c.Population))
	first := w.Clock.Day() - len(c.Population) + 1
	for i := range days {
		days[i] = first + i
	}
	s.Charts = protocol.ChartsView{
		Days:         days,
		Population:   append([]int(nil), c.Population...),
		Treasury:     append([]float64(nil), c.Treasury...),
		PollutionAvg: append([]float64(nil), c.Pollution...),
	}
	return s
}
