package world

import "github.com/dzautner/megacity-sub002/internal/protocol"

// aging advances once per simulated year, checked against the day counter
// on slow ticks.
func agingDue(w *World) bool {
	return w.Clock.Tick%(360*TicksPerDay) < uint64(w.slowEvery)
}

// systemLifeEvents handles partnering, births, aging and death. Family
// links stay symmetric: despawning clears every inbound reference.
func systemLifeEvents(w *World) {
	if agingDue(w) {
		w.Citizens.Each(func(_ Handle, c *Citizen) {
			c.Details.Age++
		})
	}

	// partnering: single adults sharing a bucket pair up
	var singles []Handle
	w.Citizens.Each(func(h Handle, c *Citizen) {
		if c.Family.Partner.IsNone() && c.Details.Age >= 20 && c.Details.Age < 70 {
			singles = append(singles, h)
		}
	})
	for i := 0; i+1 < len(singles); i += 2 {
		a := w.Citizens.Get(singles[i])
		b := w.Citizens.Get(singles[i+1])
		if a == nil || b == nil {
			continue
		}
		if !w.Rng.Chance(0.02 * (a.Personality.Sociability + b.Personality.Sociability) / 2) {
			continue
		}
		a.Family.Partner = singles[i+1]
		b.Family.Partner = singles[i]
	}

	// births: partnered residents with housing headroom
	var births []Handle
	w.Citizens.Each(func(h Handle, c *Citizen) {
		if c.Family.Partner.IsNone() || c.Details.Age < 22 || c.Details.Age > 42 {
			return
		}
		hb := w.Buildings.Get(c.Home)
		if hb == nil || hb.Occupants >= hb.Capacity {
			return
		}
		if w.Rng.Chance(0.002 * c.Details.Happiness / 60) {
			births = append(births, h)
		}
	})
	for _, ph := range births {
		parent := w.Citizens.Get(ph)
		if parent == nil {
			continue
		}
		hb := w.Buildings.Get(parent.Home)
		if hb == nil {
			continue
		}
		ch := w.spawnCitizen(parent.Home, hb)
		child := w.Citizens.Get(ch)
		child.Details.Age = 0
		child.Details.Education = 0
		child.Family.Parent = ph
		parent.Family.Children = append(parent.Family.Children, ch)
		w.emitEventf(protocol.EvBirth, protocol.SevInfo, hb.X, hb.Y, "a child was born")
	}

	// death: age and health driven
	var deaths []Handle
	w.Citizens.Each(func(h Handle, c *Citizen) {
		p := 0.0
		if c.Details.Age > 70 {
			p += float64(c.Details.Age-70) * 0.0004
		}
		if c.Details.Health < 10 {
			p += 0.01
		}
		if p > 0 && w.Rng.Chance(p) {
			deaths = append(deaths, h)
		}
	})
	for _, h := range deaths {
		w.despawnCitizen(h)
	}

	// emigration: the deeply unhappy leave
	var leavers []Handle
	w.Citizens.Each(func(h Handle, c *Citizen) {
		if c.Details.Happiness < 15 && w.Rng.Chance(0.05*(1-c.Personality.Resilience)) {
			leavers = append(leavers, h)
		}
	})
	for _, h := range leavers {
		w.despawnCitizen(h)
	}
}

// despawnCitizen removes a citizen and fixes up every reference: home and
// job occupancy, partner, parent and child links.
func (w *World) despawnCitizen(h Handle) {
	c := w.Citizens.Get(h)
	if c == nil {
		return
	}
	if hb := w.Buildings.Get(c.Home); hb != nil && hb.Occupants > 0 {
		hb.Occupants--
	}
	if wb := w.Buildings.Get(c.Work); wb != nil && wb.Occupants > 0 {
		wb.Occupants--
	}
	if p := w.Citizens.Get(c.Family.Partner); p != nil {
		p.Family.Partner = NoHandle
	}
	if p := w.Citizens.Get(c.Family.Parent); p != nil {
		p.Family.Children = removeHandle(p.Family.Children, h)
	}
	for _, chh := range c.Family.Children {
		if ch := w.Citizens.Get(chh); ch != nil {
			ch.Family.Parent = NoHandle
		}
	}
	w.Citizens.Remove(h)
}

func removeHandle(s []Handle, h Handle) []Handle {
	for i, x := range s {
		if x == h {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}
