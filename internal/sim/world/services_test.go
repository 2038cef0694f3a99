package world

import "testing"

func TestCoverageRadiusIsEuclidean(t *testing.T) {
	w := newTestWorld(t, 17)
	flatten(w)
	w.Services.Add(ServiceBuilding{
		Type: "POLICE_STATION", Category: "POLICE", X: 100, Y: 100, Radius: 10, Footprint: 2,
	})

	systemCoverage(w)

	// (107,107) is ~9.9 cells away: inside the circle, though its Manhattan
	// distance of 14 would put it outside a diamond
	if w.Grids.Coverage[Idx(107, 107)]&CoverPolice == 0 {
		t.Fatal("diagonal cell inside the radius not covered")
	}
	if w.Grids.Coverage[Idx(100, 110)]&CoverPolice == 0 {
		t.Fatal("cell on the radius not covered")
	}
	if w.Grids.Coverage[Idx(100, 111)]&CoverPolice != 0 {
		t.Fatal("cell beyond the radius covered")
	}
	if w.Grids.Coverage[Idx(108, 108)]&CoverPolice != 0 {
		t.Fatal("diagonal cell beyond the radius covered")
	}
}

func TestUnderstaffedFacilityProjectsNothing(t *testing.T) {
	w := newTestWorld(t, 17)
	flatten(w)
	w.Services.Add(ServiceBuilding{
		Type: "POLICE_STATION", Category: "POLICE", X: 100, Y: 100, Radius: 10, Footprint: 2,
		StaffRequired: 18,
	})

	// no employed citizens anywhere, so the staffing pool is empty
	systemCoverage(w)
	if w.Grids.Coverage[Idx(100, 100)]&CoverPolice != 0 {
		t.Fatal("unstaffed station projected coverage")
	}
}

func TestWaterReachIsManhattan(t *testing.T) {
	w := newTestWorld(t, 17)
	flatten(w)
	w.Utilities.Add(UtilitySource{
		Type: "WATER_TOWER", X: 100, Y: 100, Range: 18, Footprint: 2,
		IsWater: true, CapacityKL: 400,
	})

	systemWater(w)

	if !w.Grid.Cells[Idx(109, 109)].HasWater {
		t.Fatal("cell at Manhattan distance 18 dry")
	}
	if w.Grid.Cells[Idx(110, 109)].HasWater {
		t.Fatal("cell at Manhattan distance 19 wet")
	}
	// the Chebyshev box corner is well within 18 on both axes but 36 by
	// Manhattan distance
	if w.Grid.Cells[Idx(118, 118)].HasWater {
		t.Fatal("box corner wet; reach must follow the pipe grid")
	}
}
