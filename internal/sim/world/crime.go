package world

// systemCrime evolves the crime field: abandoned buildings and unemployment
// raise it, police coverage and parks pull it down.
func systemCrime(w *World) {
	field := w.Grids.Crime

	unemployment := 0.0
	if w.Stats.Population > 0 {
		unemployment = float64(w.Stats.Unemployed) / float64(w.Stats.Population)
	}

	w.Buildings.Each(func(_ Handle, b *Building) {
		i := Idx(b.X, b.Y)
		pressure := 0
		if b.Status == StatusAbandoned {
			pressure += 10
		}
		if b.Status == StatusActive && b.Zone.IsResidential() {
			pressure += int(unemployment * 14)
		}
		if w.Grids.Blackout[i] && w.Clock.IsNight() {
			pressure += 4
		}
		if pressure > 0 {
			field[i] = clampU8(int(field[i]) + pressure)
		}
	})

	for i := range field {
		v := int(field[i])
		if v == 0 {
			continue
		}
		cov := w.Grids.Coverage[i]
		if cov&CoverPolice != 0 {
			v -= 8
		}
		if cov&CoverParks != 0 {
			v -= 2
		}
		x, y := XY(int32(i))
		if w.Budget.DistrictPolicyOn("NEIGHBORHOOD_WATCH", x, y) {
			v -= 2
		}
		v -= 1 // ambient decay
		field[i] = clampU8(v)
	}
}

// systemLandValue recomputes the target land value per cell and smooths
// toward it, then diffuses with the 8-neighborhood so gradients stay soft.
func systemLandValue(w *World) {
	field := w.Grids.LandValue
	target := make([]int, GridArea)

	for i := 0; i < GridArea; i++ {
		c := &w.Grid.Cells[i]
		v := 100
		v -= int(w.Grids.Pollution[i]) / 2
		v -= int(w.Grids.Noise[i]) / 3
		v -= int(w.Grids.Crime[i]) / 2
		v -= int(w.Grids.SurfaceWater[i]) / 2

		cov := w.Grids.Coverage[i]
		if cov&CoverParks != 0 {
			v += 30
		}
		if cov&CoverEducation != 0 {
			v += 12
		}
		if cov&CoverHealth != 0 {
			v += 10
		}
		if cov&CoverTransit != 0 {
			v += 15
		}
		if c.HasPower {
			v += 8
		}
		if c.HasWater {
			v += 8
		}
		if w.Grids.TelecomOK[i] {
			v += 6
		}
		// waterfront premium
		var buf [8]int32
		n := Neighbors8(int32(i), &buf)
		for k := 0; k < n; k++ {
			if w.Grid.Cells[buf[k]].Type == CellWater {
				v += 20
				break
			}
		}
		target[i] = clampInt(v, 0, 255)
	}

	// exponential smoothing toward target
	for i := range field {
		cur := float64(field[i])
		cur += (float64(target[i]) - cur) * 0.1
		field[i] = clampU8(int(cur + 0.5))
	}

	// one diffusion pass
	next := make([]uint8, GridArea)
	var buf [8]int32
	for i := 0; i < GridArea; i++ {
		sum := int(field[i]) * 4
		n := Neighbors8(int32(i), &buf)
		for k := 0; k < n; k++ {
			sum += int(field[buf[k]])
		}
		next[i] = uint8(sum / (4 + n))
	}
	copy(field, next)
}
