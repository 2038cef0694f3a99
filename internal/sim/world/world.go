package world

import (
	"fmt"
	"log"
	"os"

	"github.com/dzautner/megacity-sub002/internal/protocol"
	"github.com/dzautner/megacity-sub002/internal/sim/catalogs"
	"github.com/dzautner/megacity-sub002/internal/sim/tuning"
	"github.com/dzautner/megacity-sub002/internal/sim/worldrng"
)

// Config carries everything New needs. Zero-value fields get defaults.
type Config struct {
	Seed     uint64
	Tuning   *tuning.Tuning
	Catalogs *catalogs.Catalogs
	Logger   *log.Logger
}

// World owns the entire city state. It is not safe for concurrent use; the
// runtime loop is the single writer and readers get published copies.
type World struct {
	logg *log.Logger

	Rng   *worldrng.Rng
	Tun   *tuning.Tuning
	Cat   *catalogs.Catalogs
	Clock *Clock
	Grid  *WorldGrid
	Grids *Grids

	Roads    *RoadNetwork
	Segments *SegmentStore
	csr      *CSRGraph
	// directed road edges excluded by one-way overlays
	forbidden      map[int64]bool
	forbiddenDirty bool

	Buildings store[Building]
	Services  store[ServiceBuilding]
	Utilities store[UtilitySource]
	Citizens  store[Citizen]
	Vehicles  store[Vehicle]
	spatial   *SpatialIndex

	Budget  *Budget
	Demand  *Demand
	Weather *Weather
	Energy  *EnergyState
	Water   *WaterState
	Stats   *Stats
	Charts  *Charts

	sched     *scheduler
	slowEvery int
	SlowCount uint64

	events []protocol.Event

	// alert bookkeeping
	pollutionStreak int
	pollutionFired  bool

	// disaster state
	fireCooldown int
}

// New builds a fresh world: terrain from the seed, default fiscal state,
// empty entity stores.
func New(cfg Config) (*World, error) {
	tun := cfg.Tuning
	if tun == nil {
		def := tuning.Default()
		tun = &def
	}
	cat := cfg.Catalogs
	if cat == nil {
		cat = catalogs.Default()
	}
	logg := cfg.Logger
	if logg == nil {
		logg = log.New(os.Stderr, "[world] ", log.LstdFlags|log.Lmsgprefix)
	}

	w := &World{
		logg:      logg,
		Rng:       worldrng.New(cfg.Seed),
		Tun:       tun,
		Cat:       cat,
		Clock:     NewClock(),
		Grid:      NewWorldGrid(),
		Grids:     NewGrids(),
		Roads:     NewRoadNetwork(),
		Segments:  NewSegmentStore(),
		csr:       NewCSRGraph(),
		forbidden: make(map[int64]bool),
		spatial:   NewSpatialIndex(),
		Budget:    NewBudget(tun.StartTreasury, tun.DefaultTax),
		Demand:    NewDemand(),
		Weather:   NewWeather(),
		Energy:    NewEnergyState(),
		Water:     NewWaterState(),
		Stats:     NewStats(),
		Charts:    NewCharts(360),
		slowEvery: tun.SlowTickEvery,
	}
	if w.slowEvery <= 0 {
		w.slowEvery = 100
	}

	sched, err := newScheduler(w.systemDefs())
	if err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}
	w.sched = sched

	generateTerrain(w)
	logg.Printf("world ready seed=%d catalogs=%s", cfg.Seed, cat.Digest)
	return w, nil
}

// systemDefs declares every sub-system with its ordering constraints.
// Declaration order breaks ties, so this list is part of the determinism
// contract.
func (w *World) systemDefs() []systemDef {
	return []systemDef{
		// fast tick, every simulated minute
		{name: "traffic_decay", fn: systemTrafficDecay},
		{name: "citizen_schedule", fn: systemCitizenSchedule},
		{name: "citizen_movement", after: []string{"citizen_schedule"}, fn: systemCitizenMovement},
		{name: "vehicles", fn: systemVehicles},

		// slow tick, every slowEvery fast ticks
		{name: "weather", slow: true, fn: systemWeather},
		{name: "coverage", slow: true, fn: systemCoverage},
		{name: "energy", slow: true, after: []string{"weather"}, fn: systemEnergy},
		{name: "blackout", slow: true, after: []string{"energy"}, fn: systemBlackout},
		{name: "water", slow: true, after: []string{"weather"}, fn: systemWater},
		{name: "heating", slow: true, after: []string{"energy", "weather"}, fn: systemHeating},
		{name: "telecom", slow: true, after: []string{"coverage"}, fn: systemTelecom},
		{name: "pollution", slow: true, after: []string{"weather"}, fn: systemPollution},
		{name: "noise", slow: true, fn: systemNoise},
		{name: "crime", slow: true, after: []string{"coverage"}, fn: systemCrime},
		{name: "landvalue", slow: true, after: []string{"pollution", "noise", "crime", "coverage"}, fn: systemLandValue},
		{name: "groundwater", slow: true, after: []string{"weather", "water"}, fn: systemGroundwater},
		{name: "stormwater", slow: true, after: []string{"weather"}, fn: systemStormwater},
		{name: "heat_island", slow: true, after: []string{"weather"}, fn: systemHeatIsland},
		{name: "snow", slow: true, after: []string{"weather"}, fn: systemSnow},
		{name: "soil", slow: true, after: []string{"pollution"}, fn: systemSoil},
		{name: "demand", slow: true, fn: systemDemand},
		{name: "lifecycle", slow: true, after: []string{"demand", "blackout", "water", "landvalue"}, fn: systemLifecycle},
		{name: "citizen_spawn", slow: true, after: []string{"lifecycle"}, fn: systemCitizenSpawn},
		{name: "life_events", slow: true, after: []string{"citizen_spawn"}, fn: systemLifeEvents},
		{name: "happiness", slow: true, after: []string{"pollution", "crime", "coverage", "blackout"}, fn: systemHappiness},
		{name: "dispatch", slow: true, after: []string{"coverage"}, fn: systemDispatch},
		{name: "fire_spread", slow: true, after: []string{"dispatch"}, fn: systemFireSpread},
		{name: "traffic_los", slow: true, fn: systemTrafficLOS},
		{name: "economy", slow: true, after: []string{"energy", "water", "lifecycle"}, fn: systemEconomy},
		{name: "alerts", slow: true, after: []string{"pollution", "stormwater"}, fn: systemAlerts},
		{name: "stats", slow: true, after: []string{"happiness", "economy", "traffic_los", "alerts", "life_events"}, fn: systemStats},
	}
}

// Step advances the world one fast tick, including the slow-tick systems
// when the counter lands on the boundary. Paused state is the caller's
// concern; Step always advances.
func (w *World) Step() {
	w.sched.runFast(w)
	w.Clock.Tick++
	if w.Clock.Tick%uint64(w.slowEvery) == 0 {
		w.SlowCount++
		w.sched.runSlow(w)
	}
}

// StepN advances n fast ticks.
func (w *World) StepN(n int) {
	for i := 0; i < n; i++ {
		w.Step()
	}
}

// SlowEvery exposes the fast-ticks-per-slow-tick period.
func (w *World) SlowEvery() int { return w.slowEvery }

// graph returns the routing graph, rebuilding it when road edits or
// one-way changes invalidated it.
func (w *World) graph() *CSRGraph {
	if !w.csr.Fresh(w.Roads) || w.forbiddenDirty {
		w.csr.Build(w.Roads, w.Grid, w.forbidden, w.Grids.Traffic, w.roadSpeeds())
		w.forbiddenDirty = false
	}
	return w.csr
}

// roadSpeeds builds the per-kind speed table from the road catalog.
func (w *World) roadSpeeds() *[roadCount]float32 {
	var s [roadCount]float32
	for rt := RoadType(1); rt < roadCount; rt++ {
		if def, ok := w.Cat.Roads.Get(rt.String()); ok {
			s[rt] = float32(def.SpeedFactor)
		} else {
			s[rt] = 1
		}
	}
	return &s
}

// rebuildForbidden recomputes the one-way exclusion set from segments.
func (w *World) rebuildForbidden() {
	w.forbidden = make(map[int64]bool)
	for i := range w.Segments.Segments {
		seg := &w.Segments.Segments[i]
		if seg.OneWay == OneWayNone || len(seg.Cells) < 2 {
			continue
		}
		cells := seg.Cells
		for j := 0; j+1 < len(cells); j++ {
			a, b := cells[j], cells[j+1]
			if seg.OneWay == OneWayForward {
				w.forbidden[forbiddenKey(b, a)] = true
			} else {
				w.forbidden[forbiddenKey(a, b)] = true
			}
		}
	}
	w.forbiddenDirty = true
}

// FindRoadPath routes between two road cells, rebuilding the graph first
// if needed.
func (w *World) FindRoadPath(from, to int32) ([]int32, error) {
	return w.graph().FindPath(from, to)
}

func (w *World) emitEvent(ev protocol.Event) {
	ev.Tick = w.Clock.Tick
	w.events = append(w.events, ev)
}

func (w *World) emitEventf(typ, severity string, x, y int, format string, args ...any) {
	w.emitEvent(protocol.Event{
		Type:     typ,
		Severity: severity,
		X:        x,
		Y:        y,
		Message:  fmt.Sprintf(format, args...),
	})
}

// DrainEvents returns and clears the pending event queue.
func (w *World) DrainEvents() []protocol.Event {
	out := w.events
	w.events = nil
	return out
}

// nearestRoad finds the closest road cell within radius cells of (x, y),
// scanning in deterministic ring order. Returns -1 when none.
func (w *World) nearestRoad(x, y, radius int) int32 {
	if c := w.Grid.At(x, y); c != nil && c.Type == CellRoad {
		return Idx(x, y)
	}
	for r := 1; r <= radius; r++ {
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if absInt(dx) != r && absInt(dy) != r {
					continue
				}
				nx, ny := x+dx, y+dy
				if !InBounds(nx, ny) {
					continue
				}
				if w.Grid.Cells[Idx(nx, ny)].Type == CellRoad {
					return Idx(nx, ny)
				}
			}
		}
	}
	return -1
}
