package world

import "github.com/dzautner/megacity-sub002/internal/protocol"

// systemTrafficDecay fades the congestion field every fast tick. Citizen
// and vehicle movement bump it back up as they pass through cells.
func systemTrafficDecay(w *World) {
	if w.Clock.Tick%4 != 0 {
		return
	}
	t := w.Grids.Traffic
	snow := w.Grids.SnowDepth
	for i := range t {
		if t[i] > 0 {
			t[i]--
		}
		// unplowed snow keeps congestion from clearing
		if snow[i] > 30 && t[i] < 200 {
			t[i] += 2
		}
	}
}

var losLetters = [...]string{"A", "B", "C", "D", "E", "F"}

// losIndex maps a volume/capacity ratio to a level of service grade, 0=A
// through 5=F.
func losIndex(vc float64) uint8 {
	switch {
	case vc < 0.35:
		return 0
	case vc < 0.55:
		return 1
	case vc < 0.75:
		return 2
	case vc < 0.90:
		return 3
	case vc < 1.0:
		return 4
	}
	return 5
}

func losGrade(vc float64) string { return losLetters[losIndex(vc)] }

// losFactor is the travel-time multiplier drivers see at a grade.
func losFactor(grade uint8) float64 {
	factors := [...]float64{1.0, 1.1, 1.25, 1.5, 1.8, 2.5}
	if int(grade) >= len(factors) {
		return factors[len(factors)-1]
	}
	return factors[grade]
}

// systemTrafficLOS grades each road cell and the network as a whole, and
// warns on gridlock.
func systemTrafficLOS(w *World) {
	var sumVC float64
	var cells int
	for i := 0; i < GridArea; i++ {
		c := &w.Grid.Cells[i]
		if c.Type != CellRoad {
			w.Grids.TrafficLOS[i] = 0
			continue
		}
		def, ok := w.Cat.Roads.Get(c.Road.String())
		if !ok || def.Capacity == 0 {
			w.Grids.TrafficLOS[i] = 0
			continue
		}
		vc := float64(w.Grids.Traffic[i]) / float64(def.Capacity)
		w.Grids.TrafficLOS[i] = losIndex(vc * 4) // scale: traffic units are coarse
		sumVC += vc
		cells++
	}
	if cells == 0 {
		w.Stats.TrafficLOS = "A"
		return
	}
	vc := sumVC / float64(cells)
	prev := w.Stats.TrafficLOS
	w.Stats.TrafficLOS = losGrade(vc * 4)
	if w.Stats.TrafficLOS == "F" && prev != "F" {
		w.emitEventf(protocol.EvGridlock, protocol.SevWarn, -1, -1, "citywide traffic at level of service F")
	}
}
