package world

// pollutionAlertLevel is the cell value that counts toward the sustained
// pollution alert.
const pollutionAlertLevel = 180

// systemPollution rebuilds the air pollution field each slow tick from
// emitting buildings, traffic and plants, smeared downwind. The injection
// overlay is added once and cleared.
func systemPollution(w *World) {
	field := w.Grids.Pollution
	for i := range field {
		// carry 40% of the previous field so plumes linger
		field[i] = uint8(int(field[i]) * 2 / 5)
	}

	emit := func(x, y, strength, radius int) {
		if strength <= 0 {
			return
		}
		x0, x1 := clampInt(x-radius, 0, GridW-1), clampInt(x+radius, 0, GridW-1)
		y0, y1 := clampInt(y-radius, 0, GridH-1), clampInt(y+radius, 0, GridH-1)
		for cy := y0; cy <= y1; cy++ {
			for cx := x0; cx <= x1; cx++ {
				d := absInt(cx-x) + absInt(cy-y)
				if d > radius {
					continue
				}
				v := strength * (radius - d + 1) / (radius + 1)
				i := Idx(cx, cy)
				field[i] = clampU8(int(field[i]) + v)
			}
		}
	}

	w.Buildings.Each(func(_ Handle, b *Building) {
		if b.Status != StatusActive {
			return
		}
		def, ok := w.Cat.Zones.Get(b.Zone.String())
		if !ok {
			return
		}
		s := int(def.PollutionBase) * b.Level
		if b.Zone == ZoneIndustrial && w.Budget.DistrictPolicyOn("INDUSTRIAL_FILTERS", b.X, b.Y) {
			s = s * 6 / 10
		}
		if b.Burning {
			s += 60
		}
		emit(b.X, b.Y, s, 6)
	})

	// fossil plants emit in proportion to generation cost rank
	w.Utilities.Each(func(_ Handle, u *UtilitySource) {
		if !u.IsPower {
			return
		}
		switch u.Type {
		case "COAL_PLANT":
			emit(u.X, u.Y, 50, 10)
		case "OIL_PLANT":
			emit(u.X, u.Y, 40, 9)
		case "GAS_PLANT":
			emit(u.X, u.Y, 22, 8)
		case "WTE_PLANT", "BIOMASS_PLANT":
			emit(u.X, u.Y, 16, 7)
		}
	})

	// traffic exhaust along congested roads
	for i := 0; i < GridArea; i++ {
		if t := w.Grids.Traffic[i]; t > 40 {
			field[i] = clampU8(int(field[i]) + int(t)/12)
		}
	}

	// scripted injections, applied once
	inject := w.Grids.PollutionInject
	for i := range inject {
		if inject[i] != 0 {
			field[i] = clampU8(int(field[i]) + int(inject[i]))
			inject[i] = 0
		}
	}

	// downwind smear: shift a fraction of each cell one step along the wind
	wx, wy := 0, 0
	if w.Grids.WindX > 0.3 {
		wx = 1
	} else if w.Grids.WindX < -0.3 {
		wx = -1
	}
	if w.Grids.WindY > 0.3 {
		wy = 1
	} else if w.Grids.WindY < -0.3 {
		wy = -1
	}
	if wx != 0 || wy != 0 {
		for y := 0; y < GridH; y++ {
			for x := 0; x < GridW; x++ {
				i := Idx(x, y)
				if field[i] < 8 {
					continue
				}
				nx, ny := x+wx, y+wy
				if !InBounds(nx, ny) {
					continue
				}
				carry := field[i] / 4
				j := Idx(nx, ny)
				field[j] = clampU8(int(field[j]) + int(carry))
				field[i] -= carry
			}
		}
	}

	// rain washes the air
	if w.Weather.RainMM > 0 {
		wash := uint8(clampInt(int(w.Weather.RainMM), 1, 20))
		for i := range field {
			if field[i] > wash {
				field[i] -= wash
			} else {
				field[i] = 0
			}
		}
	}
}

// systemNoise rebuilds the noise field from roads, buildings and transit.
func systemNoise(w *World) {
	field := w.Grids.Noise
	for i := range field {
		field[i] = 0
	}

	for i := 0; i < GridArea; i++ {
		c := &w.Grid.Cells[i]
		if c.Type != CellRoad {
			continue
		}
		base := 0
		switch c.Road {
		case RoadHighway:
			base = 60
		case RoadBoulevard:
			base = 40
		case RoadAvenue:
			base = 30
		case RoadOneWay, RoadLocal:
			base = 18
		case RoadPath:
			base = 4
		}
		base += int(w.Grids.Traffic[i]) / 4
		x, y := XY(int32(i))
		for dy := -2; dy <= 2; dy++ {
			for dx := -2; dx <= 2; dx++ {
				if !InBounds(x+dx, y+dy) {
					continue
				}
				d := absInt(dx) + absInt(dy)
				j := Idx(x+dx, y+dy)
				field[j] = clampU8(int(field[j]) + base/(1+d))
			}
		}
	}

	w.Buildings.Each(func(_ Handle, b *Building) {
		if b.Status != StatusActive {
			return
		}
		def, ok := w.Cat.Zones.Get(b.Zone.String())
		if !ok {
			return
		}
		i := Idx(b.X, b.Y)
		field[i] = clampU8(int(field[i]) + int(def.NoiseBase)*b.Level/2)
	})

	w.Utilities.Each(func(_ Handle, u *UtilitySource) {
		if u.IsPower && u.Type == "WIND_TURBINE" {
			i := Idx(u.X, u.Y)
			field[i] = clampU8(int(field[i]) + 25)
		}
	})
}
