package world

// workdayTicks is a standard shift in fast ticks (minutes).
const workdayTicks = 8 * TicksPerHour

// systemCitizenSpawn moves people in while housing, demand and happiness
// allow, and assigns jobs to the unemployed. Slow tick.
func systemCitizenSpawn(w *World) {
	// immigration
	spawned := 0
	if w.Demand.Residential > 0 {
		w.Buildings.Each(func(h Handle, b *Building) {
			if spawned >= 8 || b.Status != StatusActive || !b.Zone.IsResidential() {
				return
			}
			for b.Occupants < b.Capacity && spawned < 8 {
				if !w.Rng.Chance(w.Tun.Citizen.SpawnChance) {
					break
				}
				w.spawnCitizen(h, b)
				spawned++
			}
		})
	}

	// job matching: unemployed citizens take the first open position
	w.Citizens.Each(func(_ Handle, c *Citizen) {
		if !c.Work.IsNone() || c.Home.IsNone() {
			return
		}
		var jobH Handle = NoHandle
		w.Buildings.Each(func(bh Handle, b *Building) {
			if jobH.IsNone() && b.Status == StatusActive && b.Zone.HasJobs() && b.Occupants < b.Capacity {
				jobH = bh
			}
		})
		if !jobH.IsNone() {
			jb := w.Buildings.Get(jobH)
			jb.Occupants++
			c.Work = jobH
			c.Details.Salary = 900 + 350*float64(c.Details.Education) + 400*c.Personality.Ambition
		}
	})
}

// spawnCitizen creates a resident of building b.
func (w *World) spawnCitizen(home Handle, b *Building) Handle {
	wx, wy := CellToWorld(b.X, b.Y)
	c := Citizen{
		X: wx, Y: wy,
		Home:  home,
		State: StateAtHome,
		Details: CitizenDetails{
			Age:       18 + w.Rng.IntN(45),
			Gender:    uint8(w.Rng.IntN(2)),
			Education: uint8(w.Rng.IntN(3)),
			Happiness: 55 + 10*w.Rng.Float64(),
			Health:    70 + 25*w.Rng.Float64(),
			Savings:   500 + 1500*w.Rng.Float64(),
		},
		Personality: Personality{
			Ambition:    w.Rng.Float64(),
			Sociability: w.Rng.Float64(),
			Materialism: w.Rng.Float64(),
			Resilience:  w.Rng.Float64(),
		},
		Needs: Needs{Hunger: 80, Energy: 80, Social: 60},
	}
	b.Occupants++
	return w.Citizens.Add(c)
}

// modeWeights scores each transport mode for a trip of the given cell
// distance. A zero weight rules the mode out entirely: cars need savings,
// transit modes need transit coverage at the origin.
func (w *World) modeWeights(c *Citizen, dist int) [modeCount]float64 {
	var wt [modeCount]float64
	cx, cy := WorldToCell(c.X, c.Y)
	transit := w.Grids.Coverage[Idx(cx, cy)]&CoverTransit != 0
	d := float64(dist)

	wt[ModeWalk] = 10 / (1 + d/4)
	wt[ModeBike] = 6 / (1 + absF(d-12)/8)
	if c.Details.Savings > 500 {
		wt[ModeCar] = 2 + 3*c.Personality.Materialism + d/20
	}
	if transit {
		fare := 1.0
		if w.Budget.PolicyOn("FREE_TRANSIT") {
			fare = 2.0
		}
		wt[ModeBus] = (2 + d/15) * fare * (1.5 - c.Personality.Materialism/2)
		if d > 15 {
			wt[ModeMetro] = (1 + d/12) * fare
		}
		wt[ModeTram] = (1 + d/25) * fare
	}
	return wt
}

// chooseMode samples a transport mode from the trip's mode weights.
func (w *World) chooseMode(c *Citizen, dist int) TransportMode {
	wt := w.modeWeights(c, dist)
	var total float64
	for _, v := range wt {
		total += v
	}
	if total <= 0 {
		return ModeWalk
	}
	r := w.Rng.Float64() * total
	for m, v := range wt {
		if r < v {
			return TransportMode(m)
		}
		r -= v
	}
	return ModeWalk
}

// modeSpeed is the cell-per-tick multiplier over walking speed.
func modeSpeed(m TransportMode) float64 {
	switch m {
	case ModeBike:
		return 2.2
	case ModeCar:
		return 4.5
	case ModeBus:
		return 3.0
	case ModeMetro, ModeTram:
		return 4.0
	}
	return 1.0
}

// startTrip plans a trip to a destination cell. Road-bound modes route
// through the network; walking falls back to a straight line when no road
// path exists.
func (w *World) startTrip(c *Citizen, destX, destY int, next CitizenState) {
	cx, cy := WorldToCell(c.X, c.Y)
	dist := absInt(destX-cx) + absInt(destY-cy)
	c.Mode = w.chooseMode(c, dist)
	c.DestIdx = Idx(destX, destY)
	c.Path = nil
	c.PathPos = 0
	c.CommuteTicks = 0

	from := w.nearestRoad(cx, cy, 3)
	to := w.nearestRoad(destX, destY, 3)
	if from >= 0 && to >= 0 {
		if path, err := w.FindRoadPath(from, to); err == nil {
			c.Path = path
		}
	}
	if c.Path == nil {
		c.Mode = ModeWalk
	}
	c.State = next
}

// systemCitizenSchedule drives the daily state machine. Fast tick.
func systemCitizenSchedule(w *World) {
	hour := w.Clock.Hour()
	w.Citizens.Each(func(_ Handle, c *Citizen) {
		// needs drift
		c.Needs.Hunger = clampF(c.Needs.Hunger-0.02, 0, 100)
		c.Needs.Energy = clampF(c.Needs.Energy-0.015, 0, 100)
		c.Needs.Social = clampF(c.Needs.Social-0.01, 0, 100)

		switch c.State {
		case StateAtHome:
			c.Needs.Energy = clampF(c.Needs.Energy+0.08, 0, 100)
			if c.Needs.Hunger < 95 {
				c.Needs.Hunger = clampF(c.Needs.Hunger+0.05, 0, 100)
			}
			if c.Work.IsNone() {
				return
			}
			// staggered departures between 7 and 9
			depart := 7 + int(c.Personality.Ambition*-2+2)
			if hour == depart && w.Clock.Minute() == int(c.Personality.Sociability*59) {
				if wb := w.Buildings.Get(c.Work); wb != nil {
					w.startTrip(c, wb.X, wb.Y, StateCommuting)
				}
			}

		case StateWorking:
			c.ActivityTimer--
			if c.ActivityTimer > 0 {
				return
			}
			cx, cy := WorldToCell(c.X, c.Y)
			if c.Needs.Hunger < 40 || (c.Personality.Materialism > 0.6 && w.Rng.Chance(0.3)) {
				if sx, sy, ok := w.findShop(cx, cy); ok {
					w.startTrip(c, sx, sy, StateShopping)
					return
				}
			}
			if c.Needs.Social < 35 && w.Grids.Coverage[Idx(cx, cy)]&CoverParks != 0 {
				c.State = StateLeisure
				c.ActivityTimer = 60 + w.Rng.IntN(60)
				return
			}
			w.headHome(c)

		case StateShopping:
			c.ActivityTimer--
			c.Needs.Hunger = clampF(c.Needs.Hunger+0.5, 0, 100)
			if c.ActivityTimer <= 0 {
				c.Details.Savings -= 15
				w.headHome(c)
			}

		case StateLeisure:
			c.ActivityTimer--
			c.Needs.Social = clampF(c.Needs.Social+0.4, 0, 100)
			if c.ActivityTimer <= 0 {
				w.headHome(c)
			}
		}
	})
}

// findShop locates the nearest active commercial building.
func (w *World) findShop(cx, cy int) (int, int, bool) {
	bestD := 1 << 30
	bx, by, ok := 0, 0, false
	w.Buildings.Each(func(_ Handle, b *Building) {
		if b.Status != StatusActive {
			return
		}
		if b.Zone != ZoneComLow && b.Zone != ZoneComHigh && b.Zone != ZoneMixedUse {
			return
		}
		d := absInt(b.X-cx) + absInt(b.Y-cy)
		if d < bestD {
			bestD, bx, by, ok = d, b.X, b.Y, true
		}
	})
	return bx, by, ok
}

func (w *World) headHome(c *Citizen) {
	hb := w.Buildings.Get(c.Home)
	if hb == nil {
		c.State = StateAtHome
		return
	}
	w.startTrip(c, hb.X, hb.Y, StateReturning)
}

// systemCitizenMovement advances travelling citizens along their paths.
// Fast tick, after scheduling.
func systemCitizenMovement(w *World) {
	w.spatial.Clear()
	w.Citizens.Each(func(h Handle, c *Citizen) {
		w.spatial.Insert(h, c.X, c.Y)
		if c.State != StateCommuting && c.State != StateReturning {
			return
		}
		c.CommuteTicks++
		speed := w.Tun.Citizen.WalkSpeed * modeSpeed(c.Mode) * CellPx
		// congestion at the next path cell slows road-bound modes
		if (c.Mode == ModeCar || c.Mode == ModeBus) && c.Path != nil && c.PathPos < len(c.Path) {
			speed /= losFactor(w.Grids.TrafficLOS[c.Path[c.PathPos]])
		}

		dx, dy := XY(c.DestIdx)
		destX, destY := CellToWorld(dx, dy)

		// follow the road path first, then close on the destination
		for speed > 0 {
			var tx, ty float64
			if c.Path != nil && c.PathPos < len(c.Path) {
				px, py := XY(c.Path[c.PathPos])
				tx, ty = CellToWorld(px, py)
			} else {
				tx, ty = destX, destY
			}
			ddx, ddy := tx-c.X, ty-c.Y
			d := absF(ddx) + absF(ddy)
			if d <= speed {
				c.X, c.Y = tx, ty
				speed -= d
				if c.Path != nil && c.PathPos < len(c.Path) {
					if c.Mode == ModeCar || c.Mode == ModeBus {
						w.bumpTraffic(c.Path[c.PathPos], 1)
					}
					c.PathPos++
					continue
				}
				w.arrive(c)
				return
			}
			// move toward target
			c.X += ddx / d * speed
			c.Y += ddy / d * speed
			return
		}
	})
}

func (w *World) arrive(c *Citizen) {
	c.Path = nil
	c.PathPos = 0
	switch c.State {
	case StateCommuting:
		c.State = StateWorking
		c.ActivityTimer = workdayTicks
	case StateReturning:
		c.State = StateAtHome
	}
}
