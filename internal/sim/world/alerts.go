package world

import "github.com/dzautner/megacity-sub002/internal/protocol"

// pollutionStreakTicks is how many consecutive slow ticks the pollution
// field must stay above the alert level before the alert fires.
const pollutionStreakTicks = 3

// systemAlerts watches the environmental fields and raises threshold
// events. The pollution alert needs a sustained exceedance and fires once
// per episode; it re-arms only after the field falls back under the level.
func systemAlerts(w *World) {
	exceeded := false
	worstIdx := int32(-1)
	var worst uint8
	for i := 0; i < GridArea; i++ {
		if v := w.Grids.Pollution[i]; v >= pollutionAlertLevel {
			exceeded = true
			if v > worst {
				worst = v
				worstIdx = int32(i)
			}
		}
	}

	if exceeded {
		w.pollutionStreak++
		if w.pollutionStreak >= pollutionStreakTicks && !w.pollutionFired {
			x, y := XY(worstIdx)
			w.emitEventf(protocol.EvPollutionAlert, protocol.SevWarn, x, y,
				"sustained pollution above %d near (%d,%d)", pollutionAlertLevel, x, y)
			w.pollutionFired = true
		}
	} else {
		w.pollutionStreak = 0
		w.pollutionFired = false
	}

	// flood alert, immediate
	for i := 0; i < GridArea; i++ {
		if w.Grids.SurfaceWater[i] > 200 {
			x, y := XY(int32(i))
			w.emitEventf(protocol.EvFlood, protocol.SevCritical, x, y, "flooding at (%d,%d)", x, y)
			break
		}
	}
}
