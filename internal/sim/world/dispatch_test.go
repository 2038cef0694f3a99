package world

import (
	"testing"

	"github.com/dzautner/megacity-sub002/internal/protocol"
)

func TestDispatchRouteTargetsDispatchedVehicle(t *testing.T) {
	w := newTestWorld(t, 91)
	flatten(w)
	mustApply(t, w, protocol.Command{Type: protocol.CmdPlaceRoadSegment, RoadKind: "LOCAL", X: 40, Y: 50, X2: 80, Y2: 50})
	w.Services.Add(ServiceBuilding{
		Type: "GARBAGE_DEPOT", Category: "SANITATION", X: 45, Y: 51, Radius: 20, Footprint: 2,
	})

	// churn the store so the next Add lands in a reused low slot, below a
	// vehicle that is already out
	scratch := w.Vehicles.Add(Vehicle{Kind: "FIRE"})
	keep := w.Vehicles.Add(Vehicle{Kind: "FIRE"})
	w.Vehicles.Remove(scratch)

	stops := []int32{Idx(60, 51), Idx(70, 51)}
	out := make(map[Handle]int)
	if !w.dispatchRoute("SANITATION", stops, out) {
		t.Fatal("dispatchRoute failed")
	}

	var truck *Vehicle
	w.Vehicles.Each(func(_ Handle, v *Vehicle) {
		if v.Kind == "SANITATION" {
			truck = v
		}
	})
	if truck == nil {
		t.Fatal("no sanitation vehicle dispatched")
	}
	if len(truck.Route) != 2 {
		t.Fatalf("route has %d stops, want 2", len(truck.Route))
	}
	if kv := w.Vehicles.Get(keep); len(kv.Route) != 0 {
		t.Fatalf("unrelated vehicle picked up the route: %v", kv.Route)
	}
}

func TestMedicalArrivalHealsNearbyCitizens(t *testing.T) {
	w := newTestWorld(t, 91)
	flatten(w)

	place := func(x, y int, health float64) Handle {
		wx, wy := CellToWorld(x, y)
		return w.Citizens.Add(Citizen{X: wx, Y: wy, State: StateAtHome,
			Details: CitizenDetails{Health: health}})
	}
	near := place(60, 60, 20)
	far := place(120, 120, 20)
	w.spatial.Clear()
	w.Citizens.Each(func(h Handle, c *Citizen) { w.spatial.Insert(h, c.X, c.Y) })

	v := &Vehicle{Kind: "HEALTH"}
	w.serviceArrival(v, Idx(60, 60))

	if got := w.Citizens.Get(near).Details.Health; got != 55 {
		t.Fatalf("nearby patient health %.0f, want 55", got)
	}
	if got := w.Citizens.Get(far).Details.Health; got != 20 {
		t.Fatalf("distant citizen health %.0f, want 20", got)
	}
}
