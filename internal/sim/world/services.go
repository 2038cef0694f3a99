package world

// systemCoverage rebuilds the per-cell service bitmask and assigns staff.
// A facility only projects coverage when at least half its staff positions
// are filled; radius shrinks with underfunding.
func systemCoverage(w *World) {
	cov := w.Grids.Coverage
	for i := range cov {
		cov[i] = 0
	}

	// staffing: employed citizens fill service jobs in slot order until
	// the labor pool runs out
	pool := w.Stats.Employed / 3 // a third of workers staff public services
	w.Services.Each(func(_ Handle, s *ServiceBuilding) {
		need := s.StaffRequired
		if need > pool {
			need = pool
		}
		s.StaffAssigned = need
		pool -= need
	})

	w.Services.Each(func(_ Handle, s *ServiceBuilding) {
		bit := CoverBit(s.Category)
		if bit == 0 {
			return
		}
		if s.StaffRequired > 0 && s.Staffing() < 0.5 {
			return
		}
		mul := w.Budget.FundingMul(s.Category)
		r := int(float64(s.Radius) * clampF(mul, 0.5, 1.25))
		if r < 1 {
			r = 1
		}
		x0, x1 := clampInt(s.X-r, 0, GridW-1), clampInt(s.X+r, 0, GridW-1)
		y0, y1 := clampInt(s.Y-r, 0, GridH-1), clampInt(s.Y+r, 0, GridH-1)
		for cy := y0; cy <= y1; cy++ {
			for cx := x0; cx <= x1; cx++ {
				if (cx-s.X)*(cx-s.X)+(cy-s.Y)*(cy-s.Y) <= r*r {
					cov[Idx(cx, cy)] |= bit
				}
			}
		}
	})
}
