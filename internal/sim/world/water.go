package world

import "github.com/dzautner/megacity-sub002/internal/protocol"

// WaterState is the city-wide water balance of the last slow tick.
type WaterState struct {
	DemandKL   float64
	SupplyKL   float64
	CapacityKL float64
	SewageKL   float64
	TreatedKL  float64
	OverflowKL float64
}

func NewWaterState() *WaterState { return &WaterState{} }

// systemWater computes consumption, distributes coverage and routes sewage
// through treatment. Untreated overflow contaminates the nearest open water
// and bleeds into the aquifer around the outfall.
func systemWater(w *World) {
	ws := w.Water

	var demand float64
	w.Buildings.Each(func(_ Handle, b *Building) {
		if b.Status == StatusActive {
			demand += float64(b.Occupants) * w.Tun.Water.LitersPerOccupant / 1000
		}
	})
	if w.Budget.PolicyOn("WATER_RATIONING") {
		demand *= 0.8
	}

	var capacity, treatCap float64
	reach := make([]bool, GridArea)
	w.Utilities.Each(func(_ Handle, u *UtilitySource) {
		if !u.IsWater {
			return
		}
		if u.Treats {
			treatCap += u.CapacityKL
		} else {
			capacity += u.CapacityKL
		}
		markRangeManhattan(reach, u.X, u.Y, u.Range)
	})
	w.Services.Each(func(_ Handle, s *ServiceBuilding) {
		if s.Type == "WATER_PUMPHOUSE" {
			markRangeManhattan(reach, s.X, s.Y, s.Radius)
		}
	})

	supply := demand
	if supply > capacity {
		supply = capacity
	}

	// shortage fraction sheds coverage from the highest cell indices down,
	// a deterministic stand-in for pressure loss at the network edge
	served := 1.0
	if demand > 0 && capacity < demand {
		served = capacity / demand
	}
	var total, cut int
	for i := range reach {
		if reach[i] {
			total++
		}
	}
	if served < 1 {
		cut = total - int(float64(total)*served)
	}
	dropped := 0
	for i := GridArea - 1; i >= 0 && dropped < cut; i-- {
		if reach[i] {
			reach[i] = false
			dropped++
		}
	}
	for i := range reach {
		w.Grid.Cells[i].HasWater = reach[i]
	}

	sewage := supply * w.Tun.Water.SewageFactor
	treated := sewage
	if treated > treatCap {
		treated = treatCap
	}
	overflow := sewage - treated

	ws.DemandKL = demand
	ws.SupplyKL = supply
	ws.CapacityKL = capacity
	ws.SewageKL = sewage
	ws.TreatedKL = treated
	ws.OverflowKL = overflow

	if overflow > 0 {
		w.spillSewage(overflow)
	}

	// water service runs roughly at cost; surplus capacity costs upkeep
	// through maintenance, billing covers consumption
	w.Budget.PendingWaterNet += supply * 0.9

	if demand > 0 && capacity < demand*0.9 {
		w.emitEventf(protocol.EvWaterShortage, protocol.SevWarn, -1, -1, "water demand %.0f kL exceeds supply %.0f kL", demand, capacity)
	}
}

// markRangeManhattan sets cells within Manhattan distance r of (x, y); pipe
// networks spread along the street grid, not diagonally.
func markRangeManhattan(field []bool, x, y, r int) {
	x0, x1 := clampInt(x-r, 0, GridW-1), clampInt(x+r, 0, GridW-1)
	y0, y1 := clampInt(y-r, 0, GridH-1), clampInt(y+r, 0, GridH-1)
	for cy := y0; cy <= y1; cy++ {
		base := cy * GridW
		for cx := x0; cx <= x1; cx++ {
			if absInt(cx-x)+absInt(cy-y) <= r {
				field[base+cx] = true
			}
		}
	}
}

// spillSewage pollutes around each untreated outfall point. The spill lands
// on the water cell nearest the first treating facility, or the first water
// cell on the map when the city has none.
func (w *World) spillSewage(overflowKL float64) {
	var ox, oy = -1, -1
	w.Utilities.Each(func(_ Handle, u *UtilitySource) {
		if ox < 0 && u.IsWater && u.Treats {
			ox, oy = u.X, u.Y
		}
	})
	target := int32(-1)
	if ox >= 0 {
		best := 1 << 30
		for i := 0; i < GridArea; i++ {
			if w.Grid.Cells[i].Type != CellWater {
				continue
			}
			x, y := XY(int32(i))
			d := absInt(x-ox) + absInt(y-oy)
			if d < best {
				best = d
				target = int32(i)
			}
		}
	} else {
		for i := 0; i < GridArea; i++ {
			if w.Grid.Cells[i].Type == CellWater {
				target = int32(i)
				break
			}
		}
	}
	if target < 0 {
		return
	}

	tx, ty := XY(target)
	amt := int(overflowKL / 50)
	if amt < 4 {
		amt = 4
	}
	r := 4
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if !InBounds(tx+dx, ty+dy) {
				continue
			}
			i := Idx(tx+dx, ty+dy)
			w.Grids.Pollution[i] = clampU8(int(w.Grids.Pollution[i]) + amt/(1+absInt(dx)+absInt(dy)))
			if w.Grids.Groundwater[i] > 2 {
				w.Grids.Groundwater[i] -= 2
			}
		}
	}
}
