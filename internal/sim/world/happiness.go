package world

// systemHappiness updates per-citizen happiness and health from the local
// environment. The number of penalty applications per pass is capped so a
// citywide incident degrades moods over several ticks instead of one cliff.
func systemHappiness(w *World) {
	penaltyBudget := w.Tun.Citizen.MaxPenaltiesPerTick
	hospitalBlackout := w.hospitalBlackedOut()

	w.Citizens.Each(func(_ Handle, c *Citizen) {
		cx, cy := WorldToCell(c.X, c.Y)
		i := Idx(cx, cy)

		delta := 0.0
		penalize := func(v float64) {
			if penaltyBudget > 0 {
				delta -= v
				penaltyBudget--
			}
		}

		// environment
		if w.Grids.Pollution[i] > 120 {
			penalize(0.8)
			c.Details.Health = clampF(c.Details.Health-0.4, 0, 100)
		}
		if w.Grids.Noise[i] > 140 {
			penalize(0.4)
		}
		if w.Grids.Crime[i] > 120 {
			penalize(0.6)
		}
		if w.Grids.SurfaceWater[i] > 120 {
			penalize(1.0)
		}
		if w.Grids.HeatIsland[i] > 150 && w.Weather.Kind == WeatherHeatwave {
			penalize(0.5)
			c.Details.Health = clampF(c.Details.Health-0.2, 0, 100)
		}

		// utilities at home
		if hb := w.Buildings.Get(c.Home); hb != nil {
			hi := Idx(hb.X, hb.Y)
			if !w.Grid.Cells[hi].HasPower {
				loss := w.Tun.Energy.BlackoutHPLoss
				if hb.BlackoutDays > w.Tun.Energy.ExtendedDays {
					loss *= 2
				}
				penalize(loss)
			}
			if !w.Grid.Cells[hi].HasWater {
				penalize(0.8)
			}
			if w.Weather.TempC < 0 && !w.Grids.HeatingOK[hi] && !w.Grid.Cells[hi].HasPower {
				penalize(1.2)
				c.Details.Health = clampF(c.Details.Health-0.5, 0, 100)
			}
		} else {
			penalize(1.5) // homeless
		}

		// positives
		cov := w.Grids.Coverage[i]
		if cov&CoverParks != 0 {
			delta += 0.3
		}
		if cov&CoverHealth != 0 {
			delta += 0.2
			c.Details.Health = clampF(c.Details.Health+0.3, 0, 100)
		}
		if cov&CoverEducation != 0 && c.Details.Age < 25 {
			delta += 0.2
		}
		if w.Grids.TelecomOK[i] {
			delta += 0.1
		}
		if !c.Work.IsNone() {
			delta += 0.2
		} else if c.Details.Age >= 18 && c.Details.Age < 65 {
			penalize(0.5)
		}

		// needs pressure
		if c.Needs.Hunger < 25 {
			penalize(0.5)
		}
		if c.Needs.Social < 20 {
			penalize(0.3)
		}
		if !c.Family.Partner.IsNone() {
			delta += 0.1
		}

		// commute fatigue
		if c.CommuteTicks > 90 {
			penalize(0.4)
		}

		// hospitals without power cannot keep patients healthy
		if hospitalBlackout && c.Details.Health < 50 {
			c.Details.Health = clampF(c.Details.Health-0.8, 0, 100)
		}

		// resilience damps the swing
		delta *= 1 - 0.4*c.Personality.Resilience
		c.Details.Happiness = clampF(c.Details.Happiness+delta, 0, 100)

		// health recovers slowly in clean air
		if w.Grids.Pollution[i] < 40 {
			c.Details.Health = clampF(c.Details.Health+0.1, 0, 100)
		}
	})
}

// hospitalBlackedOut reports whether any health facility sits in a shed
// cell this pass.
func (w *World) hospitalBlackedOut() bool {
	found := false
	w.Services.Each(func(_ Handle, s *ServiceBuilding) {
		if s.Category == "HEALTH" && w.Grids.Blackout[Idx(s.X, s.Y)] {
			found = true
		}
	})
	return found
}
