package world

import (
	"testing"

	"github.com/dzautner/megacity-sub002/internal/protocol"
)

func TestPlaceRoadUpdatesGridAndNetwork(t *testing.T) {
	w := newTestWorld(t, 11)
	flatten(w)
	before := w.Budget.Treasury

	mustApply(t, w, protocol.Command{Type: protocol.CmdPlaceRoadSegment, RoadKind: "LOCAL", X: 10, Y: 10, X2: 30, Y2: 10})

	seg := w.Segments.Get(1)
	if seg == nil {
		t.Fatal("segment 1 missing after placement")
	}
	if len(seg.Cells) != 21 {
		t.Fatalf("segment has %d cells, want 21", len(seg.Cells))
	}
	for _, idx := range seg.Cells {
		c := w.Grid.AtIdx(idx)
		if c.Type != CellRoad || c.Road != RoadLocal {
			t.Fatalf("cell %d not painted as LOCAL road", idx)
		}
		if !w.Roads.Has(idx) {
			t.Fatalf("cell %d missing from road network", idx)
		}
		if w.Segments.CoveredBy(idx) != 1 {
			t.Fatalf("cell %d coverage = %d, want 1", idx, w.Segments.CoveredBy(idx))
		}
	}
	if w.Budget.Treasury != before-210 {
		t.Fatalf("treasury %.0f, want %.0f (21 cells at 10)", w.Budget.Treasury, before-210)
	}
}

func TestPlaceRoadRejectsBuildingCollision(t *testing.T) {
	w := newTestWorld(t, 11)
	flatten(w)
	w.placeBuilding(15, 10, ZoneResLow)

	res := w.Apply(protocol.Command{Type: protocol.CmdPlaceRoadSegment, RoadKind: "LOCAL", X: 10, Y: 10, X2: 30, Y2: 10})
	if res.Accepted || res.Code != protocol.ErrInvalidPlacement {
		t.Fatalf("want E_INVALID_PLACEMENT, got %+v", res)
	}
	if w.Segments.Len() != 0 {
		t.Fatal("rejected placement still created a segment")
	}
}

func TestPlaceRoadChargesTripleOverWater(t *testing.T) {
	w := newTestWorld(t, 11)
	flatten(w)
	w.Grid.Cells[Idx(12, 10)].Type = CellWater
	before := w.Budget.Treasury

	mustApply(t, w, protocol.Command{Type: protocol.CmdPlaceRoadSegment, RoadKind: "LOCAL", X: 10, Y: 10, X2: 14, Y2: 10})
	want := before - (4*10 + 30)
	if w.Budget.Treasury != want {
		t.Fatalf("treasury %.0f, want %.0f", w.Budget.Treasury, want)
	}
}

func TestBulldozeRoadCell(t *testing.T) {
	w := newTestWorld(t, 11)
	flatten(w)
	mustApply(t, w, protocol.Command{Type: protocol.CmdPlaceRoadSegment, RoadKind: "LOCAL", X: 10, Y: 10, X2: 30, Y2: 10})
	mustApply(t, w, protocol.Command{Type: protocol.CmdBulldozeCell, X: 20, Y: 10})

	if w.Segments.Len() != 0 {
		t.Fatalf("segment survived bulldoze")
	}
	for x := 10; x <= 30; x++ {
		c := w.Grid.At(x, 10)
		if c.Type == CellRoad || c.Road != RoadNone {
			t.Fatalf("road residue at (%d,10)", x)
		}
		if w.Roads.Has(Idx(x, 10)) {
			t.Fatalf("network residue at (%d,10)", x)
		}
	}
}

func TestBulldozeCrossingKeepsOtherSegment(t *testing.T) {
	w := newTestWorld(t, 11)
	flatten(w)
	mustApply(t, w, protocol.Command{Type: protocol.CmdPlaceRoadSegment, RoadKind: "LOCAL", X: 40, Y: 50, X2: 60, Y2: 50})
	mustApply(t, w, protocol.Command{Type: protocol.CmdPlaceRoadSegment, RoadKind: "LOCAL", X: 50, Y: 40, X2: 50, Y2: 60})

	// bulldozing an exclusive cell of the horizontal segment removes only
	// that segment; the crossing cell stays road for the vertical one
	mustApply(t, w, protocol.Command{Type: protocol.CmdBulldozeCell, X: 42, Y: 50})
	if w.Segments.Len() != 1 {
		t.Fatalf("%d segments left, want 1", w.Segments.Len())
	}
	if c := w.Grid.At(50, 50); c.Type != CellRoad {
		t.Fatal("crossing cell lost its road")
	}
	if c := w.Grid.At(42, 50); c.Type != CellGrass {
		t.Fatal("exclusive cell not cleared")
	}
}

func TestZoneRectAndDezone(t *testing.T) {
	w := newTestWorld(t, 11)
	flatten(w)
	mustApply(t, w, protocol.Command{Type: protocol.CmdZoneRect, Zone: "RES_MED", X: 20, Y: 20, X2: 10, Y2: 25})

	if z := w.Grid.At(15, 22).Zone; z != ZoneResMed {
		t.Fatalf("zone = %s, want RES_MED (corners should normalize)", z)
	}

	mustApply(t, w, protocol.Command{Type: protocol.CmdZoneRect, Zone: "NONE", X: 10, Y: 20, X2: 20, Y2: 25})
	if z := w.Grid.At(15, 22).Zone; z != ZoneNone {
		t.Fatalf("dezone left %s", z)
	}

	res := w.Apply(protocol.Command{Type: protocol.CmdZoneRect, Zone: "CASTLE", X: 10, Y: 20, X2: 20, Y2: 25})
	if res.Accepted || res.Code != protocol.ErrBadRequest {
		t.Fatalf("unknown zone accepted: %+v", res)
	}
}

func TestZoneRectSkipsRoadsAndWater(t *testing.T) {
	w := newTestWorld(t, 11)
	flatten(w)
	mustApply(t, w, protocol.Command{Type: protocol.CmdPlaceRoadSegment, RoadKind: "LOCAL", X: 10, Y: 30, X2: 20, Y2: 30})
	w.Grid.Cells[Idx(15, 31)].Type = CellWater

	mustApply(t, w, protocol.Command{Type: protocol.CmdZoneRect, Zone: "COM_LOW", X: 10, Y: 30, X2: 20, Y2: 32})
	if w.Grid.At(15, 30).Zone != ZoneNone {
		t.Fatal("road cell got zoned")
	}
	if w.Grid.At(15, 31).Zone != ZoneNone {
		t.Fatal("water cell got zoned")
	}
	if w.Grid.At(15, 32).Zone != ZoneComLow {
		t.Fatal("grass cell not zoned")
	}
}

func TestPlaceServiceNeedsRoadAccess(t *testing.T) {
	w := newTestWorld(t, 11)
	flatten(w)

	res := w.Apply(protocol.Command{Type: protocol.CmdPlaceService, ServiceType: "CLINIC", X: 100, Y: 100})
	if res.Accepted || res.Code != protocol.ErrNoRoute {
		t.Fatalf("want E_NO_ROUTE without roads, got %+v", res)
	}

	mustApply(t, w, protocol.Command{Type: protocol.CmdPlaceRoadSegment, RoadKind: "LOCAL", X: 95, Y: 98, X2: 105, Y2: 98})
	mustApply(t, w, protocol.Command{Type: protocol.CmdPlaceService, ServiceType: "CLINIC", X: 100, Y: 100})
	if w.Services.Len() != 1 {
		t.Fatalf("services = %d, want 1", w.Services.Len())
	}
}

func TestPlaceUtilityInsufficientFunds(t *testing.T) {
	w := newTestWorld(t, 11)
	flatten(w)
	w.Budget.Treasury = 100

	res := w.Apply(protocol.Command{Type: protocol.CmdPlaceUtility, UtilityType: "NUCLEAR_PLANT", X: 50, Y: 50})
	if res.Accepted || res.Code != protocol.ErrInsufficientFunds {
		t.Fatalf("want E_INSUFFICIENT_FUNDS, got %+v", res)
	}
	if w.Budget.Treasury != 100 {
		t.Fatal("rejected command changed the treasury")
	}
}

func TestPlaceRoadTunnelCostsFivefold(t *testing.T) {
	w := newTestWorld(t, 11)
	flatten(w)
	w.Grid.Cells[Idx(12, 10)].Height = 0.9
	before := w.Budget.Treasury

	mustApply(t, w, protocol.Command{Type: protocol.CmdPlaceRoadSegment, RoadKind: "LOCAL", X: 10, Y: 10, X2: 14, Y2: 10})
	want := before - (4*10 + 50)
	if w.Budget.Treasury != want {
		t.Fatalf("treasury %.0f, want %.0f", w.Budget.Treasury, want)
	}
}

func TestServiceFootprintBlocksOverlap(t *testing.T) {
	w := newTestWorld(t, 11)
	flatten(w)
	mustApply(t, w, protocol.Command{Type: protocol.CmdPlaceRoadSegment, RoadKind: "LOCAL", X: 45, Y: 48, X2: 60, Y2: 48})
	mustApply(t, w, protocol.Command{Type: protocol.CmdPlaceService, ServiceType: "POLICE_STATION", X: 50, Y: 50})

	// the 2x2 footprint claims all four cells
	for dy := 0; dy < 2; dy++ {
		for dx := 0; dx < 2; dx++ {
			if w.Grid.At(50+dx, 50+dy).Service.IsNone() {
				t.Fatalf("footprint cell (%d,%d) not claimed", 50+dx, 50+dy)
			}
		}
	}

	res := w.Apply(protocol.Command{Type: protocol.CmdPlaceService, ServiceType: "POLICE_STATION", X: 50, Y: 50})
	if res.Accepted || res.Code != protocol.ErrInvalidPlacement {
		t.Fatalf("duplicate placement: %+v", res)
	}
	// overlapping only the far corner still collides
	res = w.Apply(protocol.Command{Type: protocol.CmdPlaceService, ServiceType: "POLICE_STATION", X: 49, Y: 49})
	if res.Accepted || res.Code != protocol.ErrInvalidPlacement {
		t.Fatalf("corner overlap: %+v", res)
	}
	if w.Services.Len() != 1 {
		t.Fatalf("services = %d, want 1", w.Services.Len())
	}

	// roads cannot be painted through the footprint
	res = w.Apply(protocol.Command{Type: protocol.CmdPlaceRoadSegment, RoadKind: "LOCAL", X: 45, Y: 51, X2: 60, Y2: 51})
	if res.Accepted || res.Code != protocol.ErrInvalidPlacement {
		t.Fatalf("road through footprint: %+v", res)
	}

	// zoning skips occupied cells
	mustApply(t, w, protocol.Command{Type: protocol.CmdZoneRect, Zone: "RES_LOW", X: 48, Y: 50, X2: 54, Y2: 51})
	if w.Grid.At(51, 51).Zone != ZoneNone {
		t.Fatal("footprint cell got zoned")
	}
	if w.Grid.At(48, 50).Zone != ZoneResLow {
		t.Fatal("free cell next to the footprint not zoned")
	}
}

func TestBulldozeClearsServiceAndUtility(t *testing.T) {
	w := newTestWorld(t, 11)
	flatten(w)
	mustApply(t, w, protocol.Command{Type: protocol.CmdPlaceRoadSegment, RoadKind: "LOCAL", X: 45, Y: 48, X2: 60, Y2: 48})
	mustApply(t, w, protocol.Command{Type: protocol.CmdPlaceService, ServiceType: "POLICE_STATION", X: 50, Y: 50})
	mustApply(t, w, protocol.Command{Type: protocol.CmdPlaceUtility, UtilityType: "WATER_TOWER", X: 55, Y: 50})

	afterBuild := w.Budget.Treasury
	// bulldozing any covered cell removes the whole facility
	mustApply(t, w, protocol.Command{Type: protocol.CmdBulldozeCell, X: 51, Y: 51})
	if w.Services.Len() != 0 {
		t.Fatal("service survived bulldoze")
	}
	for dy := 0; dy < 2; dy++ {
		for dx := 0; dx < 2; dx++ {
			if !w.Grid.At(50+dx, 50+dy).Service.IsNone() {
				t.Fatalf("footprint residue at (%d,%d)", 50+dx, 50+dy)
			}
		}
	}
	if w.Budget.Treasury <= afterBuild {
		t.Fatal("no refund credited for the service")
	}

	mustApply(t, w, protocol.Command{Type: protocol.CmdBulldozeCell, X: 56, Y: 51})
	if w.Utilities.Len() != 0 {
		t.Fatal("utility survived bulldoze")
	}
	if !w.Grid.At(55, 50).Utility.IsNone() {
		t.Fatal("utility footprint residue")
	}
}

func TestSetTaxRateBounds(t *testing.T) {
	w := newTestWorld(t, 11)
	mustApply(t, w, protocol.Command{Type: protocol.CmdSetTaxRate, Rate: 0.25})
	if res := w.Apply(protocol.Command{Type: protocol.CmdSetTaxRate, Rate: 0.26}); res.Accepted {
		t.Fatal("rate above 0.25 accepted")
	}
	if res := w.Apply(protocol.Command{Type: protocol.CmdSetTaxRate, Rate: -0.01}); res.Accepted {
		t.Fatal("negative rate accepted")
	}
	if w.Budget.TaxRate != 0.25 {
		t.Fatalf("tax rate = %v, want 0.25", w.Budget.TaxRate)
	}
}

func TestSetTaxRatePerZone(t *testing.T) {
	w := newTestWorld(t, 11)
	mustApply(t, w, protocol.Command{Type: protocol.CmdSetTaxRate, Rate: 0.08})
	mustApply(t, w, protocol.Command{Type: protocol.CmdSetTaxRate, Zone: "COM_LOW", Rate: 0.15})

	if got := w.Budget.ZoneRate("COM_LOW"); got != 0.15 {
		t.Fatalf("COM_LOW rate = %v, want 0.15", got)
	}
	// zones without an override fall back to the city-wide rate
	if got := w.Budget.ZoneRate("RES_LOW"); got != 0.08 {
		t.Fatalf("RES_LOW rate = %v, want 0.08", got)
	}
	if res := w.Apply(protocol.Command{Type: protocol.CmdSetTaxRate, Zone: "CASTLE", Rate: 0.10}); res.Accepted {
		t.Fatal("unknown zone accepted")
	}
	if res := w.Apply(protocol.Command{Type: protocol.CmdSetTaxRate, Zone: "COM_LOW", Rate: 0.30}); res.Accepted {
		t.Fatal("out-of-range zone rate accepted")
	}
}

func TestSetDistrictPolicyCommand(t *testing.T) {
	w := newTestWorld(t, 11)
	mustApply(t, w, protocol.Command{Type: protocol.CmdSetDistrictPolicy, District: "NE", PolicyID: "NEIGHBORHOOD_WATCH", Enabled: true})

	// (200,20) sits in the northeast quadrant, (20,200) in the southwest
	if !w.Budget.DistrictPolicyOn("NEIGHBORHOOD_WATCH", 200, 20) {
		t.Fatal("policy not active inside the district")
	}
	if w.Budget.DistrictPolicyOn("NEIGHBORHOOD_WATCH", 20, 200) {
		t.Fatal("policy leaked outside the district")
	}

	// a city-wide enactment covers every district
	mustApply(t, w, protocol.Command{Type: protocol.CmdSetPolicy, PolicyID: "NEIGHBORHOOD_WATCH", Enabled: true})
	if !w.Budget.DistrictPolicyOn("NEIGHBORHOOD_WATCH", 20, 200) {
		t.Fatal("city-wide policy not visible through the district check")
	}
	mustApply(t, w, protocol.Command{Type: protocol.CmdSetPolicy, PolicyID: "NEIGHBORHOOD_WATCH", Enabled: false})

	mustApply(t, w, protocol.Command{Type: protocol.CmdSetDistrictPolicy, District: "NE", PolicyID: "NEIGHBORHOOD_WATCH", Enabled: false})
	if w.Budget.DistrictPolicyOn("NEIGHBORHOOD_WATCH", 200, 20) {
		t.Fatal("disable left the policy on")
	}

	if res := w.Apply(protocol.Command{Type: protocol.CmdSetDistrictPolicy, District: "UPTOWN", PolicyID: "RECYCLING", Enabled: true}); res.Accepted {
		t.Fatal("unknown district accepted")
	}
	if res := w.Apply(protocol.Command{Type: protocol.CmdSetDistrictPolicy, District: "NE", PolicyID: "MARTIAN_LAW", Enabled: true}); res.Accepted {
		t.Fatal("unknown policy accepted")
	}
}

func TestSetSpeedAndPause(t *testing.T) {
	w := newTestWorld(t, 11)
	mustApply(t, w, protocol.Command{Type: protocol.CmdSetSpeed, Speed: 5})
	if w.Clock.Speed != 5 {
		t.Fatalf("speed = %d, want 5", w.Clock.Speed)
	}
	if res := w.Apply(protocol.Command{Type: protocol.CmdSetSpeed, Speed: 3}); res.Accepted {
		t.Fatal("speed 3 accepted")
	}
	mustApply(t, w, protocol.Command{Type: protocol.CmdPause})
	if !w.Clock.Paused {
		t.Fatal("pause had no effect")
	}
	mustApply(t, w, protocol.Command{Type: protocol.CmdResume})
	if w.Clock.Paused {
		t.Fatal("resume had no effect")
	}
}

func TestLoanLimits(t *testing.T) {
	w := newTestWorld(t, 11)
	before := w.Budget.Treasury
	for i := 0; i < 5; i++ {
		mustApply(t, w, protocol.Command{Type: protocol.CmdTakeLoan, Amount: 10000, Term: 60})
	}
	if w.Budget.Treasury != before+50000 {
		t.Fatalf("principal not credited: %.0f", w.Budget.Treasury)
	}
	res := w.Apply(protocol.Command{Type: protocol.CmdTakeLoan, Amount: 10000, Term: 60})
	if res.Accepted || res.Code != protocol.ErrCapacityExceeded {
		t.Fatalf("sixth loan: %+v", res)
	}
}

func TestSetPolicyToggle(t *testing.T) {
	w := newTestWorld(t, 11)
	mustApply(t, w, protocol.Command{Type: protocol.CmdSetPolicy, PolicyID: "FREE_TRANSIT", Enabled: true})
	if !w.Budget.PolicyOn("FREE_TRANSIT") {
		t.Fatal("policy not enabled")
	}
	mustApply(t, w, protocol.Command{Type: protocol.CmdSetPolicy, PolicyID: "FREE_TRANSIT", Enabled: false})
	if w.Budget.PolicyOn("FREE_TRANSIT") {
		t.Fatal("policy not disabled")
	}
	if res := w.Apply(protocol.Command{Type: protocol.CmdSetPolicy, PolicyID: "MARTIAN_LAW", Enabled: true}); res.Accepted {
		t.Fatal("unknown policy accepted")
	}
}

func TestUnknownCommandRejected(t *testing.T) {
	w := newTestWorld(t, 11)
	res := w.Apply(protocol.Command{Type: "FROBNICATE"})
	if res.Accepted || res.Code != protocol.ErrBadRequest {
		t.Fatalf("unknown command: %+v", res)
	}
}
