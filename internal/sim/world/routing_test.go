package world

import (
	"errors"
	"testing"

	"github.com/dzautner/megacity-sub002/internal/protocol"
)

func TestFindRoadPathBothWays(t *testing.T) {
	w := newTestWorld(t, 21)
	flatten(w)
	mustApply(t, w, protocol.Command{Type: protocol.CmdPlaceRoadSegment, RoadKind: "LOCAL", X: 10, Y: 10, X2: 30, Y2: 10})

	from, to := Idx(10, 10), Idx(30, 10)
	path, err := w.FindRoadPath(from, to)
	if err != nil {
		t.Fatalf("forward: %v", err)
	}
	if path[0] != from || path[len(path)-1] != to {
		t.Fatalf("path endpoints wrong: %d..%d", path[0], path[len(path)-1])
	}
	if len(path) != 21 {
		t.Fatalf("path length %d, want 21", len(path))
	}
	if _, err := w.FindRoadPath(to, from); err != nil {
		t.Fatalf("reverse: %v", err)
	}
}

func TestOneWayForbidsReverseTraversal(t *testing.T) {
	w := newTestWorld(t, 21)
	flatten(w)
	mustApply(t, w, protocol.Command{Type: protocol.CmdPlaceRoadSegment, RoadKind: "ONE_WAY", X: 10, Y: 10, X2: 30, Y2: 10})
	mustApply(t, w, protocol.Command{Type: protocol.CmdToggleOneWay, SegmentID: 1})

	seg := w.Segments.Get(1)
	if seg.OneWay != OneWayForward {
		t.Fatalf("toggle produced %v, want forward", seg.OneWay)
	}

	from, to := Idx(10, 10), Idx(30, 10)
	if _, err := w.FindRoadPath(from, to); err != nil {
		t.Fatalf("forward along one-way: %v", err)
	}
	if _, err := w.FindRoadPath(to, from); !errors.Is(err, ErrNoRoute) {
		t.Fatalf("reverse along one-way: got %v, want ErrNoRoute", err)
	}

	// second toggle flips the allowed direction
	mustApply(t, w, protocol.Command{Type: protocol.CmdToggleOneWay, SegmentID: 1})
	if _, err := w.FindRoadPath(to, from); err != nil {
		t.Fatalf("reverse after flip: %v", err)
	}
	if _, err := w.FindRoadPath(from, to); !errors.Is(err, ErrNoRoute) {
		t.Fatalf("forward after flip: got %v, want ErrNoRoute", err)
	}

	// third toggle returns to two-way
	mustApply(t, w, protocol.Command{Type: protocol.CmdToggleOneWay, SegmentID: 1})
	if _, err := w.FindRoadPath(from, to); err != nil {
		t.Fatalf("two-way forward: %v", err)
	}
	if _, err := w.FindRoadPath(to, from); err != nil {
		t.Fatalf("two-way reverse: %v", err)
	}
}

func TestOneWayDetourPreferredOverForbiddenEdge(t *testing.T) {
	w := newTestWorld(t, 21)
	flatten(w)
	// a rectangle: top edge one-way, the rest two-way
	mustApply(t, w, protocol.Command{Type: protocol.CmdPlaceRoadSegment, RoadKind: "LOCAL", X: 10, Y: 10, X2: 20, Y2: 10})
	mustApply(t, w, protocol.Command{Type: protocol.CmdPlaceRoadSegment, RoadKind: "LOCAL", X: 10, Y: 10, X2: 10, Y2: 15})
	mustApply(t, w, protocol.Command{Type: protocol.CmdPlaceRoadSegment, RoadKind: "LOCAL", X: 10, Y: 15, X2: 20, Y2: 15})
	mustApply(t, w, protocol.Command{Type: protocol.CmdPlaceRoadSegment, RoadKind: "LOCAL", X: 20, Y: 10, X2: 20, Y2: 15})
	mustApply(t, w, protocol.Command{Type: protocol.CmdToggleOneWay, SegmentID: 1})

	// reverse of the top edge must detour around the bottom
	path, err := w.FindRoadPath(Idx(20, 10), Idx(10, 10))
	if err != nil {
		t.Fatalf("detour: %v", err)
	}
	if len(path) <= 11 {
		t.Fatalf("path length %d suggests the forbidden edge was used", len(path))
	}
}

func TestFindRoadPathUnconnected(t *testing.T) {
	w := newTestWorld(t, 21)
	flatten(w)
	mustApply(t, w, protocol.Command{Type: protocol.CmdPlaceRoadSegment, RoadKind: "LOCAL", X: 10, Y: 10, X2: 20, Y2: 10})
	mustApply(t, w, protocol.Command{Type: protocol.CmdPlaceRoadSegment, RoadKind: "LOCAL", X: 10, Y: 100, X2: 20, Y2: 100})

	if _, err := w.FindRoadPath(Idx(10, 10), Idx(10, 100)); !errors.Is(err, ErrNoRoute) {
		t.Fatalf("disconnected components: got %v, want ErrNoRoute", err)
	}
	if _, err := w.FindRoadPath(Idx(50, 50), Idx(10, 10)); !errors.Is(err, ErrNoRoute) {
		t.Fatalf("non-road origin: got %v, want ErrNoRoute", err)
	}
}
