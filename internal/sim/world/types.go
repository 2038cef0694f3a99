// Package world is the simulation core: a deterministic, tick-driven engine
// advancing a single owned city state. All mutation happens on the world
// loop goroutine; the outside talks to it through protocol commands and
// published view snapshots.
package world

// Grid dimensions are fixed for the whole game.
const (
	GridW    = 256
	GridH    = 256
	GridArea = GridW * GridH

	// CellPx is the world-unit size of one cell. world(x) = cell*16 + 8.
	CellPx = 16.0

	// TicksPerDay: one fast tick is one simulated minute.
	TicksPerHour = 60
	TicksPerDay  = 24 * TicksPerHour
)

type CellType uint8

const (
	CellGrass CellType = iota
	CellWater
	CellRoad
)

func (t CellType) String() string {
	switch t {
	case CellGrass:
		return "GRASS"
	case CellWater:
		return "WATER"
	case CellRoad:
		return "ROAD"
	}
	return "UNKNOWN"
}

type ZoneType uint8

const (
	ZoneNone ZoneType = iota
	ZoneResLow
	ZoneResMed
	ZoneResHigh
	ZoneComLow
	ZoneComHigh
	ZoneIndustrial
	ZoneOffice
	ZoneMixedUse

	zoneCount
)

var zoneIDs = [...]string{
	ZoneNone:       "NONE",
	ZoneResLow:     "RES_LOW",
	ZoneResMed:     "RES_MED",
	ZoneResHigh:    "RES_HIGH",
	ZoneComLow:     "COM_LOW",
	ZoneComHigh:    "COM_HIGH",
	ZoneIndustrial: "INDUSTRIAL",
	ZoneOffice:     "OFFICE",
	ZoneMixedUse:   "MIXED_USE",
}

func (z ZoneType) String() string {
	if int(z) < len(zoneIDs) {
		return zoneIDs[z]
	}
	return "UNKNOWN"
}

// ZoneFromID maps a catalog/protocol id to the enum; false for unknown ids.
func ZoneFromID(id string) (ZoneType, bool) {
	for i, s := range zoneIDs {
		if s == id && ZoneType(i) != ZoneNone {
			return ZoneType(i), true
		}
	}
	return ZoneNone, false
}

// IsResidential reports whether the zone houses citizens.
func (z ZoneType) IsResidential() bool {
	switch z {
	case ZoneResLow, ZoneResMed, ZoneResHigh, ZoneMixedUse:
		return true
	}
	return false
}

// HasJobs reports whether buildings of this zone employ citizens.
func (z ZoneType) HasJobs() bool {
	switch z {
	case ZoneComLow, ZoneComHigh, ZoneIndustrial, ZoneOffice, ZoneMixedUse:
		return true
	}
	return false
}

type RoadType uint8

const (
	RoadNone RoadType = iota
	RoadLocal
	RoadAvenue
	RoadBoulevard
	RoadHighway
	RoadOneWay
	RoadPath

	roadCount
)

var roadIDs = [...]string{
	RoadNone:      "NONE",
	RoadLocal:     "LOCAL",
	RoadAvenue:    "AVENUE",
	RoadBoulevard: "BOULEVARD",
	RoadHighway:   "HIGHWAY",
	RoadOneWay:    "ONE_WAY",
	RoadPath:      "PATH",
}

func (r RoadType) String() string {
	if int(r) < len(roadIDs) {
		return roadIDs[r]
	}
	return "UNKNOWN"
}

func RoadFromID(id string) (RoadType, bool) {
	for i, s := range roadIDs {
		if s == id && RoadType(i) != RoadNone {
			return RoadType(i), true
		}
	}
	return RoadNone, false
}

type BuildingStatus uint8

const (
	StatusUnderConstruction BuildingStatus = iota
	StatusActive
	StatusAbandoned
)

func (s BuildingStatus) String() string {
	switch s {
	case StatusUnderConstruction:
		return "UNDER_CONSTRUCTION"
	case StatusActive:
		return "ACTIVE"
	case StatusAbandoned:
		return "ABANDONED"
	}
	return "UNKNOWN"
}

type CitizenState uint8

const (
	StateAtHome CitizenState = iota
	StateCommuting
	StateWorking
	StateShopping
	StateLeisure
	StateReturning
)

func (s CitizenState) String() string {
	switch s {
	case StateAtHome:
		return "AT_HOME"
	case StateCommuting:
		return "COMMUTING"
	case StateWorking:
		return "WORKING"
	case StateShopping:
		return "SHOPPING"
	case StateLeisure:
		return "LEISURE"
	case StateReturning:
		return "RETURNING"
	}
	return "UNKNOWN"
}

type TransportMode uint8

const (
	ModeWalk TransportMode = iota
	ModeBike
	ModeCar
	ModeBus
	ModeMetro
	ModeTram

	modeCount
)

func (m TransportMode) String() string {
	switch m {
	case ModeWalk:
		return "WALK"
	case ModeBike:
		return "BIKE"
	case ModeCar:
		return "CAR"
	case ModeBus:
		return "BUS"
	case ModeMetro:
		return "METRO"
	case ModeTram:
		return "TRAM"
	}
	return "UNKNOWN"
}

// PowerPriority ranks cells for blackout shedding: lower sheds first.
type PowerPriority uint8

const (
	PriorityLow PowerPriority = iota
	PriorityNormal
	PriorityHigh
	PriorityCritical
)

func PriorityFromID(id string) PowerPriority {
	switch id {
	case "LOW":
		return PriorityLow
	case "HIGH":
		return PriorityHigh
	case "CRITICAL":
		return PriorityCritical
	}
	return PriorityNormal
}

// OneWayDir is the per-segment directionality overlay.
type OneWayDir uint8

const (
	OneWayNone OneWayDir = iota
	OneWayForward
	OneWayReverse
)

// Next cycles None → Forward → Reverse → None.
func (d OneWayDir) Next() OneWayDir {
	switch d {
	case OneWayNone:
		return OneWayForward
	case OneWayForward:
		return OneWayReverse
	}
	return OneWayNone
}

// Service coverage bitmask bits, one per dispatch-relevant category.
const (
	CoverPolice uint8 = 1 << iota
	CoverFire
	CoverHealth
	CoverEducation
	CoverParks
	CoverSanitation
	CoverTransit
	CoverSocial
)

// CoverBit maps a catalog category to its mask bit; 0 for categories that
// act through other channels (UTILITIES, CULTURAL).
func CoverBit(category string) uint8 {
	switch category {
	case "POLICE":
		return CoverPolice
	case "FIRE":
		return CoverFire
	case "HEALTH":
		return CoverHealth
	case "EDUCATION":
		return CoverEducation
	case "PARKS":
		return CoverParks
	case "SANITATION":
		return CoverSanitation
	case "TRANSIT":
		return CoverTransit
	case "SOCIAL":
		return CoverSocial
	}
	return 0
}
