package world

import "testing"

func pollutionAlerts(w *World) int {
	n := 0
	for _, ev := range w.DrainEvents() {
		if ev.Type == "POLLUTION_ALERT" {
			n++
		}
	}
	return n
}

func TestPollutionAlertNeedsSustainedExceedance(t *testing.T) {
	w := newTestWorld(t, 41)
	hot := Idx(120, 120)

	w.Grids.Pollution[hot] = pollutionAlertLevel + 20

	systemAlerts(w)
	systemAlerts(w)
	if n := pollutionAlerts(w); n != 0 {
		t.Fatalf("alert fired after 2 slow ticks, want 3 (%d events)", n)
	}

	systemAlerts(w)
	if n := pollutionAlerts(w); n != 1 {
		t.Fatalf("want exactly 1 alert on the third tick, got %d", n)
	}
}

func TestPollutionAlertFiresOncePerEpisode(t *testing.T) {
	w := newTestWorld(t, 41)
	hot := Idx(120, 120)
	w.Grids.Pollution[hot] = 255

	for i := 0; i < 10; i++ {
		systemAlerts(w)
	}
	if n := pollutionAlerts(w); n != 1 {
		t.Fatalf("sustained exceedance fired %d alerts, want 1", n)
	}
}

func TestPollutionAlertRearmsAfterClearing(t *testing.T) {
	w := newTestWorld(t, 41)
	hot := Idx(120, 120)

	w.Grids.Pollution[hot] = 255
	for i := 0; i < 3; i++ {
		systemAlerts(w)
	}
	if n := pollutionAlerts(w); n != 1 {
		t.Fatalf("first episode: %d alerts, want 1", n)
	}

	// field drops below the level: streak resets and the alert re-arms
	w.Grids.Pollution[hot] = 0
	systemAlerts(w)

	w.Grids.Pollution[hot] = 255
	systemAlerts(w)
	systemAlerts(w)
	if n := pollutionAlerts(w); n != 0 {
		t.Fatalf("second episode fired early: %d alerts", n)
	}
	systemAlerts(w)
	if n := pollutionAlerts(w); n != 1 {
		t.Fatalf("second episode: %d alerts, want 1", n)
	}
}

func TestFloodAlertIsImmediate(t *testing.T) {
	w := newTestWorld(t, 41)
	w.Grids.SurfaceWater[Idx(30, 30)] = 220

	systemAlerts(w)
	var found bool
	for _, ev := range w.DrainEvents() {
		if ev.Type == "FLOOD" {
			found = true
		}
	}
	if !found {
		t.Fatal("no flood event for surface water above the threshold")
	}
}
