package world

// systemGroundwater recharges the aquifer from rain and drains it under
// well pumping. Low groundwater throttles well-type supply the next pass.
func systemGroundwater(w *World) {
	gw := w.Grids.Groundwater

	recharge := 0
	if w.Weather.RainMM > 0 {
		recharge = clampInt(int(w.Weather.RainMM/2), 1, 6)
	}

	// pumping pressure around well fields
	drain := make([]uint8, GridArea)
	w.Utilities.Each(func(_ Handle, u *UtilitySource) {
		if u.IsWater && u.Type == "WELL_FIELD" {
			x0, x1 := clampInt(u.X-10, 0, GridW-1), clampInt(u.X+10, 0, GridW-1)
			y0, y1 := clampInt(u.Y-10, 0, GridH-1), clampInt(u.Y+10, 0, GridH-1)
			for cy := y0; cy <= y1; cy++ {
				for cx := x0; cx <= x1; cx++ {
					drain[Idx(cx, cy)] += 3
				}
			}
		}
	})

	for i := range gw {
		v := int(gw[i]) + recharge - int(drain[i])
		// paved ground recharges poorly
		if w.Grid.Cells[i].Type == CellRoad && recharge > 0 {
			v -= recharge - recharge/3
		}
		gw[i] = clampU8(v)
	}
}

// systemStormwater accumulates rain runoff, drains it downhill and into
// open water, and floods cells when depth passes the threshold. Without
// rain 30% of standing water drains each pass.
func systemStormwater(w *World) {
	sw := w.Grids.SurfaceWater

	if w.Weather.RainMM > 0 {
		for i := range sw {
			runoff := w.Weather.RainMM
			switch w.Grid.Cells[i].Type {
			case CellRoad:
				runoff *= 1.5 // pavement sheds everything
			case CellWater:
				continue
			default:
				runoff *= 0.6
			}
			sw[i] = clampU8(int(sw[i]) + int(runoff))
		}
	}

	// downhill flow: each wet cell pushes half its depth to its lowest
	// 4-neighbor when that neighbor is lower
	var buf [4]int32
	for i := 0; i < GridArea; i++ {
		if sw[i] < 2 {
			continue
		}
		if w.Grid.Cells[i].Type == CellWater {
			sw[i] = 0
			continue
		}
		h := w.Grid.Cells[i].Height
		n := Neighbors4(int32(i), &buf)
		lowest := int32(-1)
		lowestH := h
		for k := 0; k < n; k++ {
			nh := w.Grid.Cells[buf[k]].Height
			if nh < lowestH {
				lowestH = nh
				lowest = buf[k]
			}
		}
		if lowest >= 0 {
			move := sw[i] / 2
			sw[i] -= move
			if w.Grid.Cells[lowest].Type != CellWater {
				sw[lowest] = clampU8(int(sw[lowest]) + int(move))
			}
		}
	}

	if w.Weather.RainMM == 0 {
		for i := range sw {
			sw[i] = uint8(int(sw[i]) * 7 / 10)
		}
	}
}

// systemHeatIsland tracks the urban heat excess: pavement and buildings
// heat up in summer, parks and water cool their surroundings.
func systemHeatIsland(w *World) {
	hi := w.Grids.HeatIsland
	hot := w.Weather.TempC > 24

	for i := range hi {
		v := int(hi[i])
		if hot {
			switch {
			case w.Grid.Cells[i].Type == CellRoad:
				v += 6
			case !w.Grid.Cells[i].Building.IsNone():
				v += 4
			}
		}
		if w.Grid.Cells[i].Type == CellWater {
			v = 0
		}
		if w.Grids.Coverage[i]&CoverParks != 0 {
			v -= 5
		}
		v -= 2 // nightly cooling
		hi[i] = clampU8(v)
	}
}

// systemSnow accumulates snowfall and melts it above freezing. Deep snow
// slows traffic through the congestion field.
func systemSnow(w *World) {
	sd := w.Grids.SnowDepth
	if w.Weather.Kind == WeatherSnow {
		for i := range sd {
			if w.Grid.Cells[i].Type != CellWater {
				sd[i] = clampU8(int(sd[i]) + 4)
			}
		}
	}
	if w.Weather.TempC > 0 {
		melt := clampInt(int(w.Weather.TempC), 1, 10)
		for i := range sd {
			if int(sd[i]) <= melt {
				sd[i] = 0
			} else {
				sd[i] -= uint8(melt)
			}
		}
	}
	// plowed roads shed snow faster under sanitation coverage
	for i := range sd {
		if sd[i] > 0 && w.Grid.Cells[i].Type == CellRoad && w.Grids.Coverage[i]&CoverSanitation != 0 {
			sd[i] /= 2
		}
	}
}

// systemSoil degrades soil under industry and heavy pollution, and slowly
// recovers clean ground.
func systemSoil(w *World) {
	sq := w.Grids.SoilQuality
	w.Buildings.Each(func(_ Handle, b *Building) {
		if b.Status == StatusActive && b.Zone == ZoneIndustrial {
			i := Idx(b.X, b.Y)
			if sq[i] > 3 {
				sq[i] -= 3
			}
		}
	})
	for i := range sq {
		if w.Grids.Pollution[i] > 150 && sq[i] > 1 {
			sq[i]--
		} else if w.Grids.Pollution[i] < 30 && sq[i] < 255 {
			sq[i]++
		}
	}
}
