package world

import "testing"

func TestModeChoiceSamplesEveryMode(t *testing.T) {
	w := newTestWorld(t, 13)
	flatten(w)
	home := activeBuilding(w, 50, 50, ZoneResLow)
	h := w.spawnCitizen(home, w.Buildings.Get(home))
	c := w.Citizens.Get(h)
	c.Details.Savings = 2000
	c.Personality.Materialism = 0.5
	w.Grids.Coverage[Idx(50, 50)] |= CoverTransit

	seen := make(map[TransportMode]int)
	for i := 0; i < 2000; i++ {
		seen[w.chooseMode(c, 30)]++
	}
	for m := TransportMode(0); m < modeCount; m++ {
		if seen[m] == 0 {
			t.Fatalf("mode %s never sampled in 2000 draws: %v", m, seen)
		}
	}
}

func TestModeChoiceRespectsConstraints(t *testing.T) {
	w := newTestWorld(t, 13)
	flatten(w)
	home := activeBuilding(w, 50, 50, ZoneResLow)
	h := w.spawnCitizen(home, w.Buildings.Get(home))
	c := w.Citizens.Get(h)
	c.Details.Savings = 0 // no car without savings

	// no transit coverage at the origin
	for i := 0; i < 500; i++ {
		switch m := w.chooseMode(c, 30); m {
		case ModeBus, ModeMetro, ModeTram:
			t.Fatalf("transit mode %s chosen without coverage", m)
		case ModeCar:
			t.Fatal("car chosen without savings")
		}
	}
}
