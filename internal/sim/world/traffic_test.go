package world

import (
	"testing"

	"github.com/dzautner/megacity-sub002/internal/protocol"
)

func TestLosIndexThresholds(t *testing.T) {
	cases := []struct {
		vc   float64
		want uint8
	}{
		{0.0, 0}, {0.34, 0}, {0.35, 1}, {0.54, 1},
		{0.55, 2}, {0.75, 3}, {0.89, 3}, {0.90, 4},
		{0.99, 4}, {1.0, 5}, {3.0, 5},
	}
	for _, tc := range cases {
		if got := losIndex(tc.vc); got != tc.want {
			t.Fatalf("losIndex(%.2f) = %d, want %d", tc.vc, got, tc.want)
		}
	}
	if losGrade(0.2) != "A" || losGrade(1.5) != "F" {
		t.Fatal("losGrade letters off")
	}
}

func TestTrafficLOSGradesPerRoadCell(t *testing.T) {
	w := newTestWorld(t, 21)
	flatten(w)
	mustApply(t, w, protocol.Command{Type: protocol.CmdPlaceRoadSegment, RoadKind: "LOCAL", X: 10, Y: 10, X2: 30, Y2: 10})

	hot := Idx(20, 10)
	w.Grids.Traffic[hot] = 250
	systemTrafficLOS(w)

	if got := w.Grids.TrafficLOS[hot]; got != 5 {
		t.Fatalf("congested cell grade %d, want 5", got)
	}
	if got := w.Grids.TrafficLOS[Idx(10, 10)]; got != 0 {
		t.Fatalf("free-flowing cell grade %d, want 0", got)
	}
	// non-road cells never carry a grade
	if got := w.Grids.TrafficLOS[Idx(20, 20)]; got != 0 {
		t.Fatalf("grass cell grade %d, want 0", got)
	}
}

func TestCongestionSlowsDrivers(t *testing.T) {
	w := newTestWorld(t, 21)
	flatten(w)
	mustApply(t, w, protocol.Command{Type: protocol.CmdPlaceRoadSegment, RoadKind: "LOCAL", X: 10, Y: 10, X2: 60, Y2: 10})
	mustApply(t, w, protocol.Command{Type: protocol.CmdPlaceRoadSegment, RoadKind: "LOCAL", X: 10, Y: 20, X2: 60, Y2: 20})

	path := func(y int) []int32 {
		var cells []int32
		for x := 10; x <= 60; x++ {
			cells = append(cells, Idx(x, y))
		}
		return cells
	}
	spawn := func(y int) Handle {
		wx, wy := CellToWorld(10, y)
		return w.Citizens.Add(Citizen{
			X: wx, Y: wy,
			State:   StateCommuting,
			Mode:    ModeCar,
			Path:    path(y),
			DestIdx: Idx(60, y),
		})
	}
	free := spawn(10)
	jammed := spawn(20)
	for _, idx := range path(20) {
		w.Grids.TrafficLOS[idx] = 5
	}

	systemCitizenMovement(w)

	fc := w.Citizens.Get(free)
	jc := w.Citizens.Get(jammed)
	if jc.X >= fc.X {
		t.Fatalf("jammed driver at x=%.1f kept pace with free driver at x=%.1f", jc.X, fc.X)
	}
}
