package world

import "github.com/dzautner/megacity-sub002/internal/protocol"

// EnergyState is the city-wide electric balance of the last slow tick.
type EnergyState struct {
	DemandMWh   float64
	SupplyMWh   float64
	CapacityMWh float64
	DeficitMWh  float64
	PriceKWh    float64
	GenCost     float64

	// ShedByTier counts buildings shed per priority tier in the last pass.
	ShedByTier [4]int

	// rotation offsets which normal-tier buildings shed first, advanced
	// every few slow ticks so outages rotate through the city.
	rotation     int
	rotationLeft int
}

func NewEnergyState() *EnergyState {
	return &EnergyState{PriceKWh: 0.12}
}

// weatherCapacity scales a plant's nameplate capacity by current weather.
func weatherCapacity(u *UtilitySource, w *World) float64 {
	switch u.WeatherDep {
	case "SOLAR":
		return u.CapacityMWh * w.Weather.SolarFactor(w.Clock)
	case "WIND":
		return u.CapacityMWh * w.Weather.WindFactor()
	}
	return u.CapacityMWh
}

// buildingDemand is one building's per-slow-tick draw in MWh.
func buildingDemand(w *World, b *Building) float64 {
	def, ok := w.Cat.Zones.Get(b.Zone.String())
	if !ok {
		return 0
	}
	d := def.EnergyMWhBase * float64(b.Level)
	if b.Occupants > 0 && b.Capacity > 0 {
		d *= 0.5 + 0.5*float64(b.Occupants)/float64(b.Capacity)
	}
	// cold snaps and heatwaves push electric heating and cooling
	switch w.Weather.Kind {
	case WeatherColdSnap:
		if x, y := b.X, b.Y; !w.Grids.HeatingOK[Idx(x, y)] {
			d *= 1.6
		}
	case WeatherHeatwave:
		d *= 1.35
	}
	return d
}

// systemEnergy recomputes demand, dispatches plants in merit order and
// accrues the billing balance. Shedding itself happens in the blackout
// pass that follows.
func systemEnergy(w *World) {
	es := w.Energy

	var demand float64
	w.Buildings.Each(func(_ Handle, b *Building) {
		if b.Status == StatusActive {
			demand += buildingDemand(w, b)
		}
	})
	w.Services.Each(func(_ Handle, s *ServiceBuilding) {
		demand += 0.001 * float64(s.Footprint)
	})

	// merit-order dispatch: plants sorted by catalog merit position
	type plant struct {
		merit int
		cap   float64
		cost  float64
	}
	var plants []plant
	var capacity float64
	w.Utilities.Each(func(_ Handle, u *UtilitySource) {
		if !u.IsPower {
			return
		}
		c := weatherCapacity(u, w)
		capacity += c
		plants = append(plants, plant{merit: w.Cat.Power.MeritIndex(u.Type), cap: c, cost: u.GenCostMWh})
	})
	for i := 1; i < len(plants); i++ {
		for j := i; j > 0 && plants[j].merit < plants[j-1].merit; j-- {
			plants[j], plants[j-1] = plants[j-1], plants[j]
		}
	}

	var supply, genCost float64
	remaining := demand
	for _, p := range plants {
		if remaining <= 0 {
			break
		}
		take := p.cap
		if take > remaining {
			take = remaining
		}
		supply += take
		genCost += take * p.cost
		remaining -= take
	}

	es.DemandMWh = demand
	es.SupplyMWh = supply
	es.CapacityMWh = capacity
	es.DeficitMWh = remaining
	es.GenCost = genCost

	// price: base rate times the time-of-use window times the scarcity tier
	price := w.Tun.Energy.BasePriceKWh *
		touMultiplier(w.Clock.Hour()) *
		scarcityMultiplier(reserveMargin(capacity, demand))
	es.PriceKWh = price

	// bill served demand; generation cost nets against revenue. Lands in
	// the treasury on collection day.
	revenue := supply * 1000 * price
	w.Budget.PendingEnergyNet += revenue - genCost
}

// touMultiplier is the time-of-use price window: off-peak 22:00-06:00,
// mid-peak 06:00-14:00, on-peak 14:00-22:00.
func touMultiplier(hour int) float64 {
	switch {
	case hour >= 22 || hour < 6:
		return 0.6
	case hour < 14:
		return 1.0
	}
	return 1.5
}

// reserveMargin is spare generating capacity relative to demand.
func reserveMargin(capacity, demand float64) float64 {
	if demand <= 0 {
		return 1
	}
	return (capacity - demand) / demand
}

// scarcityMultiplier steps the price up as the reserve margin thins. A
// margin of 20% or more prices normally; a deficit triples the rate.
func scarcityMultiplier(reserve float64) float64 {
	switch {
	case reserve < 0:
		return 3.0
	case reserve < 0.05:
		return 2.0
	case reserve < 0.10:
		return 1.5
	case reserve < 0.20:
		return 1.2
	}
	return 1.0
}

// shedCandidate pairs a building with its estimated load for the blackout
// pass.
type shedCandidate struct {
	h    Handle
	load float64
}

// systemBlackout marks unpowered cells. A building is powered when a plant
// reaches it and it was not shed to cover a supply deficit. Shedding walks
// tiers from low to critical and rotates within the normal tier.
func systemBlackout(w *World) {
	es := w.Energy
	for i := range w.Grids.Blackout {
		w.Grids.Blackout[i] = false
	}
	for i := range es.ShedByTier {
		es.ShedByTier[i] = 0
	}

	// power reach: cells within range of any plant
	reach := make([]bool, GridArea)
	w.Utilities.Each(func(_ Handle, u *UtilitySource) {
		if !u.IsPower {
			return
		}
		markRange(reach, u.X, u.Y, u.Range)
	})
	w.Services.Each(func(_ Handle, s *ServiceBuilding) {
		if s.Type == "POWER_SUBSTATION" {
			markRange(reach, s.X, s.Y, s.Radius)
		}
	})

	if es.rotationLeft <= 0 {
		es.rotation++
		es.rotationLeft = w.Tun.Energy.RotationTicks
	}
	es.rotationLeft--

	// collect shed candidates per tier, slot order
	var tiers [4][]shedCandidate
	w.Buildings.Each(func(h Handle, b *Building) {
		if b.Status != StatusActive {
			return
		}
		def, ok := w.Cat.Zones.Get(b.Zone.String())
		tier := PriorityNormal
		if ok {
			tier = PriorityFromID(def.PowerPriority)
		}
		tiers[tier] = append(tiers[tier], shedCandidate{h: h, load: buildingDemand(w, b)})
	})

	deficit := es.DeficitMWh
	shed := make(map[Handle]bool)
	for tier := 0; tier < 4 && deficit > 0; tier++ {
		cands := tiers[tier]
		n := len(cands)
		if n == 0 {
			continue
		}
		start := 0
		if PowerPriority(tier) == PriorityNormal {
			start = es.rotation % n
		}
		for k := 0; k < n && deficit > 0; k++ {
			c := cands[(start+k)%n]
			shed[c.h] = true
			deficit -= c.load
			es.ShedByTier[tier]++
		}
	}

	dayBoundary := w.Clock.Tick%TicksPerDay < uint64(w.slowEvery)
	w.Buildings.Each(func(h Handle, b *Building) {
		idx := Idx(b.X, b.Y)
		powered := reach[idx] && !shed[h]
		w.Grid.Cells[idx].HasPower = powered
		w.Grids.Blackout[idx] = !powered
		if powered {
			b.BlackoutDays = 0
		} else if dayBoundary {
			b.BlackoutDays++
			if b.BlackoutDays == w.Tun.Energy.ExtendedDays+1 {
				w.emitEventf(protocol.EvBlackout, protocol.SevWarn, b.X, b.Y, "extended outage at (%d,%d)", b.X, b.Y)
			}
		}
	})
}

// markRange sets cells within Chebyshev distance r of (x, y).
func markRange(field []bool, x, y, r int) {
	x0, x1 := clampInt(x-r, 0, GridW-1), clampInt(x+r, 0, GridW-1)
	y0, y1 := clampInt(y-r, 0, GridH-1), clampInt(y+r, 0, GridH-1)
	for cy := y0; cy <= y1; cy++ {
		base := cy * GridW
		for cx := x0; cx <= x1; cx++ {
			field[base+cx] = true
		}
	}
}
