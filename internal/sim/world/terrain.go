package world

import opensimplex "github.com/ojrac/opensimplex-go"

// generateTerrain fills heights and water from layered simplex noise. The
// coastline preset puts the sea along the western edge with a river cutting
// inland, leaving most of the map buildable.
func generateTerrain(w *World) {
	noise := opensimplex.NewNormalized(int64(w.Rng.NextU64()))
	detail := opensimplex.NewNormalized(int64(w.Rng.NextU64()))

	for y := 0; y < GridH; y++ {
		for x := 0; x < GridW; x++ {
			nx := float64(x) / GridW
			ny := float64(y) / GridH

			h := 0.65*noise.Eval2(nx*3, ny*3) + 0.35*detail.Eval2(nx*9, ny*9)

			// tilt toward the sea on the west
			coast := clampF(nx*2.2, 0, 1)
			h = h*0.75*coast + 0.12*coast

			c := &w.Grid.Cells[Idx(x, y)]
			c.Height = float32(clampF(h, 0, 1))
			if c.Height < 0.10 {
				c.Type = CellWater
			} else {
				c.Type = CellGrass
			}
		}
	}

	// river: a noisy north-south channel in the eastern half
	riverX := GridW * 3 / 4
	for y := 0; y < GridH; y++ {
		wobble := int((noise.Eval2(0.5, float64(y)/40) - 0.5) * 30)
		for dx := -2; dx <= 2; dx++ {
			x := riverX + wobble + dx
			if !InBounds(x, y) {
				continue
			}
			c := &w.Grid.Cells[Idx(x, y)]
			c.Type = CellWater
			if c.Height > 0.09 {
				c.Height = 0.09
			}
		}
	}
}
