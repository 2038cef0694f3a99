package world

import "testing"

func TestPollutionEmissionScalesWithLevel(t *testing.T) {
	w := newTestWorld(t, 23)
	flatten(w)
	w.Grids.WindX, w.Grids.WindY = 0, 0
	w.Weather.RainMM = 0

	h := activeBuilding(w, 50, 50, ZoneIndustrial)
	w.Buildings.Get(h).Level = 3

	systemPollution(w)

	// INDUSTRIAL base 22, level 3: full strength lands on the source cell
	if got := w.Grids.Pollution[Idx(50, 50)]; got != 66 {
		t.Fatalf("source cell pollution %d, want 66", got)
	}
	// the plume falls off with distance
	if a, b := w.Grids.Pollution[Idx(52, 50)], w.Grids.Pollution[Idx(50, 50)]; a == 0 || a >= b {
		t.Fatalf("plume does not fall off: %d at distance 2 vs %d at source", a, b)
	}
}

func TestIndustrialFiltersCutEmissionsPerDistrict(t *testing.T) {
	w := newTestWorld(t, 23)
	flatten(w)
	w.Grids.WindX, w.Grids.WindY = 0, 0
	w.Weather.RainMM = 0

	// one factory per quadrant, filters only in the southwest
	activeBuilding(w, 50, 200, ZoneIndustrial)
	activeBuilding(w, 200, 50, ZoneIndustrial)
	w.Budget.SetDistrictPolicy("SW", "INDUSTRIAL_FILTERS", true)

	systemPollution(w)

	filtered := w.Grids.Pollution[Idx(50, 200)]
	unfiltered := w.Grids.Pollution[Idx(200, 50)]
	if filtered >= unfiltered {
		t.Fatalf("filters had no effect: %d filtered vs %d unfiltered", filtered, unfiltered)
	}
}

func TestNoiseScalesWithBuildingLevel(t *testing.T) {
	w := newTestWorld(t, 23)
	flatten(w)
	h := activeBuilding(w, 50, 50, ZoneComHigh)
	w.Buildings.Get(h).Level = 4

	systemNoise(w)

	// COM_HIGH base 14, level 4, halved
	if got := w.Grids.Noise[Idx(50, 50)]; got != 28 {
		t.Fatalf("noise %d, want 28", got)
	}
}
