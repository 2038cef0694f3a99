package world

// Grids bundles the per-cell scalar fields the sub-systems read and write.
// All slices have GridArea length. Fields marked (slow) are recomputed on
// the slow tick; the rest update every fast tick or on demand.
type Grids struct {
	Pollution  []uint8 // (slow) air pollution 0..255
	Noise      []uint8 // (slow)
	LandValue  []uint8 // (slow) smoothed land value
	Crime      []uint8 // (slow)
	Traffic    []uint8 // per-cell congestion, decays each fast tick
	TrafficLOS []uint8 // (slow) per-road-cell level of service, 0=A..5=F
	Coverage   []uint8 // service coverage bitmask, see Cover* bits

	Groundwater []uint8 // aquifer level, 255 = full
	SoilQuality []uint8 // (slow) industrial contamination lowers it
	SurfaceWater []uint8 // stormwater depth, flood when high
	SnowDepth   []uint8
	HeatIsland  []uint8 // (slow) urban heat excess

	// Blackout marks cells shed in the current energy balance pass.
	Blackout []bool
	// HeatingOK marks cells inside district-heating reach during cold snaps.
	HeatingOK []bool
	// TelecomOK marks cells with telecom coverage.
	TelecomOK []bool

	// PollutionInject is an additive overlay applied on the next pollution
	// sweep, then cleared. Used by scripted scenarios.
	PollutionInject []uint8

	// WindX/WindY is the current wind vector, unit-ish magnitude.
	WindX, WindY float64
}

func NewGrids() *Grids {
	g := &Grids{
		Pollution:       make([]uint8, GridArea),
		Noise:           make([]uint8, GridArea),
		LandValue:       make([]uint8, GridArea),
		Crime:           make([]uint8, GridArea),
		Traffic:         make([]uint8, GridArea),
		TrafficLOS:      make([]uint8, GridArea),
		Coverage:        make([]uint8, GridArea),
		Groundwater:     make([]uint8, GridArea),
		SoilQuality:     make([]uint8, GridArea),
		SurfaceWater:    make([]uint8, GridArea),
		SnowDepth:       make([]uint8, GridArea),
		HeatIsland:      make([]uint8, GridArea),
		Blackout:        make([]bool, GridArea),
		HeatingOK:       make([]bool, GridArea),
		TelecomOK:       make([]bool, GridArea),
		PollutionInject: make([]uint8, GridArea),
		WindX:           1,
	}
	for i := range g.Groundwater {
		g.Groundwater[i] = 200
		g.SoilQuality[i] = 220
		g.LandValue[i] = 100
	}
	return g
}
