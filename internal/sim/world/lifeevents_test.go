package world

import "testing"

func TestSpawnAndDespawnKeepOccupancyConsistent(t *testing.T) {
	w := newTestWorld(t, 61)
	flatten(w)
	home := activeBuilding(w, 50, 50, ZoneResMed)
	job := activeBuilding(w, 60, 50, ZoneOffice)

	ch := w.spawnCitizen(home, w.Buildings.Get(home))
	c := w.Citizens.Get(ch)
	c.Work = job
	w.Buildings.Get(job).Occupants++

	if w.Buildings.Get(home).Occupants != 1 {
		t.Fatalf("home occupants = %d, want 1", w.Buildings.Get(home).Occupants)
	}

	w.despawnCitizen(ch)

	if w.Citizens.Get(ch) != nil {
		t.Fatal("citizen still dereferences after despawn")
	}
	if got := w.Buildings.Get(home).Occupants; got != 0 {
		t.Fatalf("home occupants = %d after despawn, want 0", got)
	}
	if got := w.Buildings.Get(job).Occupants; got != 0 {
		t.Fatalf("job occupants = %d after despawn, want 0", got)
	}
}

func TestDespawnClearsFamilyLinksSymmetrically(t *testing.T) {
	w := newTestWorld(t, 61)
	flatten(w)
	home := activeBuilding(w, 50, 50, ZoneResHigh)
	b := w.Buildings.Get(home)

	mom := w.spawnCitizen(home, b)
	dad := w.spawnCitizen(home, b)
	kid := w.spawnCitizen(home, b)

	w.Citizens.Get(mom).Family.Partner = dad
	w.Citizens.Get(dad).Family.Partner = mom
	w.Citizens.Get(mom).Family.Children = []Handle{kid}
	w.Citizens.Get(kid).Family.Parent = mom

	w.despawnCitizen(mom)

	if p := w.Citizens.Get(dad).Family.Partner; !p.IsNone() {
		t.Fatalf("surviving partner still linked to %v", p)
	}
	if p := w.Citizens.Get(kid).Family.Parent; !p.IsNone() {
		t.Fatalf("child still linked to despawned parent %v", p)
	}
}

func TestDespawnChildRemovesFromParentList(t *testing.T) {
	w := newTestWorld(t, 61)
	flatten(w)
	home := activeBuilding(w, 50, 50, ZoneResHigh)
	b := w.Buildings.Get(home)

	mom := w.spawnCitizen(home, b)
	k1 := w.spawnCitizen(home, b)
	k2 := w.spawnCitizen(home, b)
	w.Citizens.Get(mom).Family.Children = []Handle{k1, k2}
	w.Citizens.Get(k1).Family.Parent = mom
	w.Citizens.Get(k2).Family.Parent = mom

	w.despawnCitizen(k1)

	kids := w.Citizens.Get(mom).Family.Children
	if len(kids) != 1 || kids[0] != k2 {
		t.Fatalf("parent's children = %v, want only the survivor", kids)
	}
}

func TestStaleHandleDoesNotAliasReusedSlot(t *testing.T) {
	w := newTestWorld(t, 61)
	flatten(w)
	home := activeBuilding(w, 50, 50, ZoneResMed)
	b := w.Buildings.Get(home)

	old := w.spawnCitizen(home, b)
	w.despawnCitizen(old)
	fresh := w.spawnCitizen(home, b)

	if fresh.Idx != old.Idx {
		t.Fatalf("free list did not reuse slot %d", old.Idx)
	}
	if w.Citizens.Get(old) != nil {
		t.Fatal("stale handle dereferences the new occupant")
	}
	if w.Citizens.Get(fresh) == nil {
		t.Fatal("fresh handle does not dereference")
	}
}
