package world

import "github.com/dzautner/megacity-sub002/internal/protocol"

// maxBuildingLevel caps level-ups.
const maxBuildingLevel = 5

// systemLifecycle grows buildings on zoned cells, advances construction,
// levels buildings up and down and abandons the hopeless ones. Garbage
// accrues here too.
func systemLifecycle(w *World) {
	w.growOnZones()

	var demolish []Handle
	w.Buildings.Each(func(h Handle, b *Building) {
		i := Idx(b.X, b.Y)
		switch b.Status {
		case StatusUnderConstruction:
			// construction needs power on site but tolerates missing water
			if w.Grid.Cells[i].HasPower || w.Energy.CapacityMWh == 0 {
				b.ConstructLeft--
			}
			if b.ConstructLeft <= 0 {
				b.Status = StatusActive
				b.Capacity = w.zoneCapacity(b.Zone, b.Level)
			}
			return

		case StatusAbandoned:
			b.AbandonScore += 1
			if b.AbandonScore > 40 {
				demolish = append(demolish, h)
			}
			return
		}

		// garbage: occupants generate waste; recycling trims it
		rate := 2.0
		if w.Budget.PolicyOn("RECYCLING") {
			rate = 1.4
		}
		b.GarbageKg += float64(b.Occupants) * rate
		if w.Grids.Coverage[i]&CoverSanitation == 0 && b.GarbageKg > 600 {
			// uncollected garbage starts polluting
			w.Grids.Pollution[i] = clampU8(int(w.Grids.Pollution[i]) + 6)
		}

		demand := w.Demand.ForZone(b.Zone)
		desirability := demand
		desirability += (float64(w.Grids.LandValue[i]) - 100) / 200
		if !w.Grid.Cells[i].HasPower {
			desirability -= 0.5
		}
		if !w.Grid.Cells[i].HasWater {
			desirability -= 0.4
		}
		if b.BlackoutDays > w.Tun.Energy.ExtendedDays {
			desirability -= 0.5
		}
		if w.Grids.Pollution[i] > 140 && b.Zone.IsResidential() {
			desirability -= 0.4
		}
		if w.Grids.Crime[i] > 120 {
			desirability -= 0.3
		}
		if b.GarbageKg > 900 {
			desirability -= 0.3
		}

		occupancy := 0.0
		if b.Capacity > 0 {
			occupancy = float64(b.Occupants) / float64(b.Capacity)
		}

		switch {
		case desirability > 0.5 && occupancy > 0.85 && b.Level < maxBuildingLevel:
			b.Level++
			b.Capacity = w.zoneCapacity(b.Zone, b.Level)
		case desirability < -0.3:
			b.AbandonScore += 0.5 - desirability
		default:
			if b.AbandonScore > 0 {
				b.AbandonScore -= 0.5
			}
		}

		if b.AbandonScore > 10 {
			b.Status = StatusAbandoned
			w.emitEventf(protocol.EvAbandonment, protocol.SevWarn, b.X, b.Y, "%s building abandoned at (%d,%d)", b.Zone, b.X, b.Y)
			w.evictBuilding(h, b)
		}
	})

	for _, h := range demolish {
		w.demolishBuilding(h)
	}
}

// growOnZones seeds construction on empty zoned cells near roads when the
// zone's demand channel is positive.
func (w *World) growOnZones() {
	budgeted := 0
	for i := 0; i < GridArea && budgeted < 12; i++ {
		c := &w.Grid.Cells[i]
		if c.Zone == ZoneNone || c.Type != CellGrass || c.Occupied() {
			continue
		}
		d := w.Demand.ForZone(c.Zone)
		if d <= 0.05 {
			continue
		}
		x, y := XY(int32(i))
		if w.nearestRoad(x, y, 3) < 0 {
			continue
		}
		if !w.Rng.Chance(clampF(d*0.3, 0, 0.3)) {
			continue
		}
		w.placeBuilding(x, y, c.Zone)
		budgeted++
	}
}

// zoneCapacity derives capacity from the zone catalog and level.
func (w *World) zoneCapacity(z ZoneType, level int) int {
	def, ok := w.Cat.Zones.Get(z.String())
	if !ok {
		return 0
	}
	return def.BaseCapacity * level
}

// placeBuilding starts construction on a cell. Caller checks the cell is
// free and zoned.
func (w *World) placeBuilding(x, y int, z ZoneType) Handle {
	def, _ := w.Cat.Zones.Get(z.String())
	ticks := 3
	if def != nil {
		ticks = def.ConstructTicks
	}
	h := w.Buildings.Add(Building{
		X: x, Y: y, Zone: z, Level: 1,
		Status:        StatusUnderConstruction,
		ConstructLeft: ticks,
	})
	w.Grid.Cells[Idx(x, y)].Building = h
	return h
}

// evictBuilding unlinks citizens housed or employed in a dying building.
func (w *World) evictBuilding(h Handle, b *Building) {
	w.Citizens.Each(func(_ Handle, c *Citizen) {
		if c.Home == h {
			c.Home = NoHandle
		}
		if c.Work == h {
			c.Work = NoHandle
		}
	})
	b.Occupants = 0
}

// demolishBuilding removes a building and clears its cell.
func (w *World) demolishBuilding(h Handle) {
	b := w.Buildings.Get(h)
	if b == nil {
		return
	}
	w.evictBuilding(h, b)
	w.Grid.Cells[Idx(b.X, b.Y)].Building = NoHandle
	w.Buildings.Remove(h)
}
