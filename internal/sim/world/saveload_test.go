package world

import (
	"bytes"
	"testing"

	"github.com/dzautner/megacity-sub002/internal/persistence/save"
	"github.com/dzautner/megacity-sub002/internal/protocol"
)

func buildCity(t *testing.T, seed uint64) *World {
	t.Helper()
	w := newTestWorld(t, seed)
	flatten(w)
	mustApply(t, w, protocol.Command{Type: protocol.CmdPlaceRoadSegment, RoadKind: "AVENUE", X: 40, Y: 60, X2: 100, Y2: 60})
	mustApply(t, w, protocol.Command{Type: protocol.CmdPlaceRoadSegment, RoadKind: "LOCAL", X: 70, Y: 40, X2: 70, Y2: 80})
	mustApply(t, w, protocol.Command{Type: protocol.CmdToggleOneWay, SegmentID: 2})
	mustApply(t, w, protocol.Command{Type: protocol.CmdZoneRect, Zone: "RES_LOW", X: 41, Y: 57, X2: 68, Y2: 59})
	mustApply(t, w, protocol.Command{Type: protocol.CmdZoneRect, Zone: "COM_LOW", X: 72, Y: 57, X2: 99, Y2: 59})
	mustApply(t, w, protocol.Command{Type: protocol.CmdPlaceUtility, UtilityType: "GAS_PLANT", X: 45, Y: 64})
	mustApply(t, w, protocol.Command{Type: protocol.CmdPlaceUtility, UtilityType: "WELL_FIELD", X: 52, Y: 64})
	mustApply(t, w, protocol.Command{Type: protocol.CmdPlaceService, ServiceType: "POLICE_STATION", X: 58, Y: 62})
	mustApply(t, w, protocol.Command{Type: protocol.CmdTakeLoan, Amount: 25000, Term: 60})
	mustApply(t, w, protocol.Command{Type: protocol.CmdSetPolicy, PolicyID: "RECYCLING", Enabled: true})
	mustApply(t, w, protocol.Command{Type: protocol.CmdSetTaxRate, Rate: 0.12})
	return w
}

func TestSaveRoundTripPreservesDigest(t *testing.T) {
	w := buildCity(t, 71)
	w.StepN(6 * w.SlowEvery())

	blob, err := save.Encode(w.ExportSave())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	m, err := save.Decode(blob)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	w2 := newTestWorld(t, 71)
	if err := w2.ImportSave(m); err != nil {
		t.Fatalf("import: %v", err)
	}

	if w.DigestHex() != w2.DigestHex() {
		t.Fatalf("digest changed across save/load: %s vs %s", w.DigestHex(), w2.DigestHex())
	}
	if w2.Clock.Tick != w.Clock.Tick {
		t.Fatalf("tick %d loaded as %d", w.Clock.Tick, w2.Clock.Tick)
	}
	if w2.Budget.Treasury != w.Budget.Treasury {
		t.Fatalf("treasury %.2f loaded as %.2f", w.Budget.Treasury, w2.Budget.Treasury)
	}
	if w2.Citizens.Len() != w.Citizens.Len() {
		t.Fatalf("citizens %d loaded as %d", w.Citizens.Len(), w2.Citizens.Len())
	}
	if w2.Segments.Len() != w.Segments.Len() {
		t.Fatalf("segments %d loaded as %d", w.Segments.Len(), w2.Segments.Len())
	}
}

func TestSaveExportIsStable(t *testing.T) {
	w := buildCity(t, 71)
	w.StepN(2 * w.SlowEvery())

	a := save.EncodeExtensionMap(w.ExportSave())
	b := save.EncodeExtensionMap(w.ExportSave())
	if !bytes.Equal(a, b) {
		t.Fatal("two exports of the same state differ")
	}
}

func TestLoadedWorldContinuesDeterministically(t *testing.T) {
	// no zones: no buildings or citizens spawn, so the saved trajectory
	// depends only on serialized state
	w := newTestWorld(t, 73)
	flatten(w)
	mustApply(t, w, protocol.Command{Type: protocol.CmdPlaceRoadSegment, RoadKind: "LOCAL", X: 40, Y: 60, X2: 100, Y2: 60})
	mustApply(t, w, protocol.Command{Type: protocol.CmdPlaceUtility, UtilityType: "WIND_TURBINE", X: 45, Y: 64})
	w.StepN(3 * w.SlowEvery())

	m := w.ExportSave()
	w2 := newTestWorld(t, 73)
	if err := w2.ImportSave(m); err != nil {
		t.Fatalf("import: %v", err)
	}

	w.StepN(3 * w.SlowEvery())
	w2.StepN(3 * w2.SlowEvery())
	if w.DigestHex() != w2.DigestHex() {
		t.Fatalf("trajectories diverged after load: %s vs %s", w.DigestHex(), w2.DigestHex())
	}
}

func TestExportOmitsDefaultSections(t *testing.T) {
	w := newTestWorld(t, 75)
	m := w.ExportSave()

	for _, key := range []string{
		"buildings", "service_buildings", "utility_sources",
		"citizens", "road_segments", "charts",
	} {
		if _, ok := m[key]; ok {
			t.Fatalf("fresh world exported default section %q", key)
		}
	}
	// core sections always travel
	for _, key := range []string{"grid", "clock", "rng", "budget"} {
		if _, ok := m[key]; !ok {
			t.Fatalf("core section %q missing", key)
		}
	}

	flatten(w)
	h := activeBuilding(w, 50, 50, ZoneResLow)
	if _, ok := w.ExportSave()["buildings"]; !ok {
		t.Fatal("buildings section missing once a building exists")
	}
	// slot history keeps the section in play even after removal
	w.Buildings.Remove(h)
	if _, ok := w.ExportSave()["buildings"]; !ok {
		t.Fatal("buildings section dropped despite slot history")
	}
}

func TestLoadRebuildsFootprints(t *testing.T) {
	w := buildCity(t, 75)

	w2 := newTestWorld(t, 75)
	if err := w2.ImportSave(w.ExportSave()); err != nil {
		t.Fatalf("import: %v", err)
	}

	// police station footprint from buildCity, 2x2 at (58,62)
	for dy := 0; dy < 2; dy++ {
		for dx := 0; dx < 2; dx++ {
			if w2.Grid.At(58+dx, 62+dy).Service.IsNone() {
				t.Fatalf("service footprint cell (%d,%d) not relinked", 58+dx, 62+dy)
			}
		}
	}
	if w2.Grid.At(45, 64).Utility.IsNone() || w2.Grid.At(46, 65).Utility.IsNone() {
		t.Fatal("utility footprint not relinked")
	}
	// the relinked cells block new construction
	res := w2.Apply(protocol.Command{Type: protocol.CmdPlaceService, ServiceType: "FIRE_POST", X: 59, Y: 63})
	if res.Accepted || res.Code != protocol.ErrInvalidPlacement {
		t.Fatalf("placement on a loaded footprint: %+v", res)
	}
}

func TestImportEmptyMapKeepsFreshDefaults(t *testing.T) {
	w := newTestWorld(t, 77)
	before := w.DigestHex()

	if err := w.ImportSave(save.ExtensionMap{}); err != nil {
		t.Fatalf("import empty: %v", err)
	}
	if w.DigestHex() != before {
		t.Fatal("empty save changed a fresh world")
	}
	if w.Clock.Tick != 0 || w.Budget.Treasury != w.Tun.StartTreasury {
		t.Fatal("defaults lost on empty import")
	}
}

func TestImportIgnoresExtensionAndUnknownKeys(t *testing.T) {
	w := buildCity(t, 79)
	m := w.ExportSave()
	m["ext.mod.vehicles"] = []byte{1, 2, 3}
	m["mystery_key"] = []byte{4, 5}

	w2 := newTestWorld(t, 79)
	if err := w2.ImportSave(m); err != nil {
		t.Fatalf("import with extra keys: %v", err)
	}
	if w.DigestHex() != w2.DigestHex() {
		t.Fatal("extra keys changed the decoded state")
	}
}

func TestImportRejectsCorruptSection(t *testing.T) {
	w := buildCity(t, 79)
	m := w.ExportSave()
	m["citizens"] = []byte{0xFF} // bogus section version

	w2 := newTestWorld(t, 79)
	if err := w2.ImportSave(m); err == nil {
		t.Fatal("corrupt citizens section imported without error")
	}
}

func TestRebuildAfterLoadRelinksDerivedState(t *testing.T) {
	w := buildCity(t, 83)
	w.StepN(6 * w.SlowEvery())

	m := w.ExportSave()
	w2 := newTestWorld(t, 83)
	if err := w2.ImportSave(m); err != nil {
		t.Fatalf("import: %v", err)
	}

	// road network matches the grid
	roadCells := 0
	for i := int32(0); i < GridArea; i++ {
		if w2.Grid.Cells[i].Type == CellRoad {
			roadCells++
			if !w2.Roads.Has(i) {
				t.Fatalf("road cell %d missing from rebuilt network", i)
			}
		}
	}
	if w2.Roads.Len() != roadCells {
		t.Fatalf("network has %d cells, grid has %d", w2.Roads.Len(), roadCells)
	}

	// buildings are linked back onto their cells
	w2.Buildings.Each(func(h Handle, b *Building) {
		if w2.Grid.Cells[Idx(b.X, b.Y)].Building != h {
			t.Fatalf("building at (%d,%d) not relinked", b.X, b.Y)
		}
	})

	// one-way exclusions are live again
	seg := w2.Segments.Get(2)
	if seg == nil || seg.OneWay == OneWayNone {
		t.Fatal("one-way overlay lost in the round trip")
	}
	first, last := seg.Cells[0], seg.Cells[len(seg.Cells)-1]
	if _, err := w2.FindRoadPath(last, first); err == nil {
		t.Fatal("reverse traversal of a one-way segment allowed after load")
	}

	// in-flight paths are dropped
	w2.Citizens.Each(func(_ Handle, c *Citizen) {
		if len(c.Path) != 0 {
			t.Fatal("citizen path survived the load")
		}
	})
}
