package world

import "github.com/dzautner/megacity-sub002/internal/protocol"

// vehiclesPerType caps live dispatched units per facility category.
const maxActiveVehicles = 64

// systemDispatch sends service vehicles to open incidents: fires, garbage
// pickups and medical calls. Assignment is greedy nearest-first in slot
// order, capped by each facility's vehicle count.
func systemDispatch(w *World) {
	if w.Vehicles.Len() >= maxActiveVehicles {
		return
	}

	// count vehicles already out per facility
	out := make(map[Handle]int)
	w.Vehicles.Each(func(_ Handle, v *Vehicle) {
		out[v.Facility]++
	})

	// fires first
	var fires []int32
	w.Buildings.Each(func(_ Handle, b *Building) {
		if b.Burning {
			fires = append(fires, Idx(b.X, b.Y))
		}
	})
	for _, f := range fires {
		w.dispatchNearest("FIRE", f, out)
	}

	// garbage: buildings past the pickup threshold, batched into routes
	var pickups []int32
	w.Buildings.Each(func(_ Handle, b *Building) {
		if b.Status == StatusActive && b.GarbageKg > 300 {
			pickups = append(pickups, Idx(b.X, b.Y))
		}
	})
	for len(pickups) > 0 {
		n := len(pickups)
		if n > 8 {
			n = 8
		}
		if !w.dispatchRoute("SANITATION", pickups[:n], out) {
			break
		}
		pickups = pickups[n:]
	}

	// medical calls for critically unhealthy citizens at home
	var calls []int32
	w.Citizens.Each(func(_ Handle, c *Citizen) {
		if c.Details.Health < 15 && c.State == StateAtHome {
			cx, cy := WorldToCell(c.X, c.Y)
			calls = append(calls, Idx(cx, cy))
		}
	})
	for _, f := range calls {
		w.dispatchNearest("HEALTH", f, out)
	}
}

// dispatchNearest sends one vehicle from the closest eligible facility and
// returns the new vehicle's handle.
func (w *World) dispatchNearest(category string, target int32, out map[Handle]int) (Handle, bool) {
	tx, ty := XY(target)
	var bestH Handle = NoHandle
	var bestS *ServiceBuilding
	bestD := 1 << 30
	w.Services.Each(func(h Handle, s *ServiceBuilding) {
		if s.Category != category {
			return
		}
		def, ok := w.Cat.Services.Get(s.Type)
		if !ok || def.Vehicles == 0 || out[h] >= def.Vehicles {
			return
		}
		d := absInt(s.X-tx) + absInt(s.Y-ty)
		if d < bestD {
			bestD = d
			bestH = h
			bestS = s
		}
	})
	if bestS == nil {
		return NoHandle, false
	}

	from := w.nearestRoad(bestS.X, bestS.Y, 4)
	to := w.nearestRoad(tx, ty, 4)
	if from < 0 || to < 0 {
		return NoHandle, false
	}
	path, err := w.FindRoadPath(from, to)
	if err != nil {
		return NoHandle, false
	}
	wx, wy := CellToWorld(bestS.X, bestS.Y)
	vh := w.Vehicles.Add(Vehicle{
		Kind:     category,
		Facility: bestH,
		X:        wx,
		Y:        wy,
		Path:     path,
		Route:    []int32{target},
	})
	out[bestH]++
	return vh, true
}

// dispatchRoute sends one vehicle through a multi-stop route.
func (w *World) dispatchRoute(category string, stops []int32, out map[Handle]int) bool {
	if len(stops) == 0 {
		return false
	}
	vh, ok := w.dispatchNearest(category, stops[0], out)
	if !ok {
		return false
	}
	if v := w.Vehicles.Get(vh); v != nil {
		v.Route = append([]int32{}, stops...)
	}
	return true
}

// vehicleSpeed in cells per fast tick.
const vehicleSpeed = 1

// systemVehicles advances dispatched vehicles along their paths every fast
// tick, services arrivals and returns units home.
func systemVehicles(w *World) {
	var done []Handle
	w.Vehicles.Each(func(h Handle, v *Vehicle) {
		for s := 0; s < vehicleSpeed; s++ {
			if v.PathPos < len(v.Path)-1 {
				v.PathPos++
				x, y := XY(v.Path[v.PathPos])
				v.X, v.Y = CellToWorld(x, y)
				w.bumpTraffic(v.Path[v.PathPos], 3)
				continue
			}
			// reached end of path
			if v.Returning {
				done = append(done, h)
				return
			}
			if len(v.Route) > 0 {
				target := v.Route[0]
				v.Route = v.Route[1:]
				w.serviceArrival(v, target)
				if len(v.Route) > 0 {
					if next := w.routeTo(v, v.Route[0]); next {
						continue
					}
				}
			}
			// head home
			fac := w.Services.Get(v.Facility)
			if fac == nil {
				done = append(done, h)
				return
			}
			home := w.nearestRoad(fac.X, fac.Y, 4)
			cx, cy := WorldToCell(v.X, v.Y)
			cur := w.nearestRoad(cx, cy, 4)
			if home < 0 || cur < 0 {
				done = append(done, h)
				return
			}
			path, err := w.FindRoadPath(cur, home)
			if err != nil {
				done = append(done, h)
				return
			}
			v.Path = path
			v.PathPos = 0
			v.Returning = true
		}
	})
	for _, h := range done {
		w.Vehicles.Remove(h)
	}
}

func (w *World) routeTo(v *Vehicle, target int32) bool {
	cx, cy := WorldToCell(v.X, v.Y)
	cur := w.nearestRoad(cx, cy, 4)
	tx, ty := XY(target)
	to := w.nearestRoad(tx, ty, 4)
	if cur < 0 || to < 0 {
		return false
	}
	path, err := w.FindRoadPath(cur, to)
	if err != nil {
		return false
	}
	v.Path = path
	v.PathPos = 0
	return true
}

// serviceArrival applies the vehicle's effect at a stop.
func (w *World) serviceArrival(v *Vehicle, target int32) {
	tx, ty := XY(target)
	switch v.Kind {
	case "FIRE":
		w.Buildings.Each(func(_ Handle, b *Building) {
			if b.Burning && absInt(b.X-tx) <= 1 && absInt(b.Y-ty) <= 1 {
				b.Burning = false
				b.BurnLeft = 0
				w.emitEventf(protocol.EvFireOut, protocol.SevInfo, b.X, b.Y, "fire extinguished at (%d,%d)", b.X, b.Y)
			}
		})
	case "SANITATION":
		w.Buildings.Each(func(_ Handle, b *Building) {
			if absInt(b.X-tx) <= 1 && absInt(b.Y-ty) <= 1 && b.GarbageKg > 0 {
				v.Load += int(b.GarbageKg)
				b.GarbageKg = 0
			}
		})
	case "HEALTH":
		w.spatial.Nearby(tx, ty, func(h Handle) bool {
			c := w.Citizens.Get(h)
			if c == nil {
				return true
			}
			cx, cy := WorldToCell(c.X, c.Y)
			if absInt(cx-tx) <= 1 && absInt(cy-ty) <= 1 && c.Details.Health < 40 {
				c.Details.Health = clampF(c.Details.Health+35, 0, 100)
			}
			return true
		})
	}
}

// fireIgnitionBase is the per-slow-tick ignition chance for a vulnerable
// building with no fire coverage.
const fireIgnitionBase = 0.0004

// systemFireSpread ignites, burns down and spreads fires.
func systemFireSpread(w *World) {
	var burned []Handle
	w.Buildings.Each(func(h Handle, b *Building) {
		i := Idx(b.X, b.Y)
		if !b.Burning {
			if b.Status != StatusActive {
				return
			}
			p := fireIgnitionBase
			if w.Grids.Coverage[i]&CoverFire == 0 {
				p *= 4
			}
			if w.Budget.DistrictPolicyOn("SMOKE_DETECTORS", b.X, b.Y) {
				p /= 2
			}
			if b.Zone == ZoneIndustrial {
				p *= 2
			}
			if w.Weather.Kind == WeatherHeatwave {
				p *= 3
			}
			if w.Rng.Chance(p) {
				b.Burning = true
				b.BurnLeft = 6
				w.emitEventf(protocol.EvFire, protocol.SevCritical, b.X, b.Y, "fire broke out at (%d,%d)", b.X, b.Y)
			}
			return
		}

		b.BurnLeft--
		if b.BurnLeft <= 0 {
			burned = append(burned, h)
			return
		}
		// spread to adjacent buildings
		var buf [8]int32
		n := Neighbors8(int32(i), &buf)
		for k := 0; k < n; k++ {
			nb := w.Buildings.Get(w.Grid.Cells[buf[k]].Building)
			if nb != nil && !nb.Burning && nb.Status == StatusActive && w.Rng.Chance(0.15) {
				nb.Burning = true
				nb.BurnLeft = 6
			}
		}
	})

	for _, h := range burned {
		b := w.Buildings.Get(h)
		if b == nil {
			continue
		}
		w.emitEventf(protocol.EvFireLoss, protocol.SevCritical, b.X, b.Y, "building burned down at (%d,%d)", b.X, b.Y)
		w.demolishBuilding(h)
	}
}

func (w *World) bumpTraffic(idx int32, amt int) {
	w.Grids.Traffic[idx] = clampU8(int(w.Grids.Traffic[idx]) + amt)
}
