package world

// NoIndex is the serialized sentinel for "no reference".
const NoIndex = ^uint32(0)

// Handle is a stable generational reference into an entity store. A handle
// whose slot was freed (or reused) dereferences to nil instead of aliasing
// the new occupant.
type Handle struct {
	Idx uint32
	Gen uint32
}

var NoHandle = Handle{Idx: NoIndex}

func (h Handle) IsNone() bool { return h.Idx == NoIndex }

type slot[T any] struct {
	val  T
	gen  uint32
	live bool
}

// store is a slab allocator with a free list. Iteration order is slot index
// order, which is deterministic across runs given the same command stream.
type store[T any] struct {
	slots []slot[T]
	free  []uint32
	count int
}

func (s *store[T]) Add(v T) Handle {
	if n := len(s.free); n > 0 {
		idx := s.free[n-1]
		s.free = s.free[:n-1]
		sl := &s.slots[idx]
		sl.val = v
		sl.live = true
		s.count++
		return Handle{Idx: idx, Gen: sl.gen}
	}
	s.slots = append(s.slots, slot[T]{val: v, gen: 1, live: true})
	s.count++
	return Handle{Idx: uint32(len(s.slots) - 1), Gen: 1}
}

// Get returns the value for a live handle, or nil for stale/none handles.
func (s *store[T]) Get(h Handle) *T {
	if h.IsNone() || int(h.Idx) >= len(s.slots) {
		return nil
	}
	sl := &s.slots[h.Idx]
	if !sl.live || sl.gen != h.Gen {
		return nil
	}
	return &sl.val
}

func (s *store[T]) Remove(h Handle) bool {
	if s.Get(h) == nil {
		return false
	}
	sl := &s.slots[h.Idx]
	sl.live = false
	sl.gen++
	var zero T
	sl.val = zero
	s.free = append(s.free, h.Idx)
	s.count--
	return true
}

func (s *store[T]) Len() int { return s.count }

// isFresh reports the store never held an entity. A store that did keeps
// its slot history and must keep serializing, even when empty again.
func (s *store[T]) isFresh() bool { return len(s.slots) == 0 }

// Each visits live entries in slot order. The callback may not add or
// remove entries.
func (s *store[T]) Each(fn func(Handle, *T)) {
	for i := range s.slots {
		sl := &s.slots[i]
		if sl.live {
			fn(Handle{Idx: uint32(i), Gen: sl.gen}, &sl.val)
		}
	}
}

// HandleAt returns the live handle at a slot index, or NoHandle.
func (s *store[T]) HandleAt(idx uint32) Handle {
	if int(idx) >= len(s.slots) || !s.slots[idx].live {
		return NoHandle
	}
	return Handle{Idx: idx, Gen: s.slots[idx].gen}
}

func (s *store[T]) Reset() {
	s.slots = s.slots[:0]
	s.free = s.free[:0]
	s.count = 0
}

// Building occupies exactly one zoned cell (service and utility buildings
// live in their own stores and may span larger footprints).
type Building struct {
	X, Y      int
	Zone      ZoneType
	Level     int // 1..5
	Capacity  int
	Occupants int
	Status    BuildingStatus

	ConstructLeft int // slow ticks until construction completes
	Burning       bool
	BurnLeft      int     // slow ticks of fire remaining
	AbandonScore  float64 // accumulated abandonment pressure
	GarbageKg     float64
	BlackoutDays  int // consecutive days without power
}

// ServiceBuilding provides coverage and, for some types, dispatch vehicles.
type ServiceBuilding struct {
	Type      string // catalog id
	Category  string
	X, Y      int
	Radius    int
	Footprint int

	StaffRequired int
	StaffAssigned int
}

// Staffing is the effective capacity multiplier in [0,1].
func (s *ServiceBuilding) Staffing() float64 {
	if s.StaffRequired <= 0 {
		return 1
	}
	r := float64(s.StaffAssigned) / float64(s.StaffRequired)
	if r > 1 {
		r = 1
	}
	return r
}

// UtilitySource is a power plant or water facility.
type UtilitySource struct {
	Type      string // catalog id
	X, Y      int
	Range     int
	Footprint int

	IsPower     bool
	CapacityMWh float64
	GenCostMWh  float64
	WeatherDep  string // SOLAR/WIND/STEADY

	IsWater    bool
	CapacityKL float64
	Treats     bool
}

// CitizenDetails are the slow-changing demographic fields.
type CitizenDetails struct {
	Age       int
	Gender    uint8
	Education uint8 // 0..4
	Happiness float64
	Health    float64
	Salary    float64
	Savings   float64
}

// Personality traits in [0,1].
type Personality struct {
	Ambition    float64
	Sociability float64
	Materialism float64
	Resilience  float64
}

// Needs in [0,100]; decay over time, topped up by activities.
type Needs struct {
	Hunger float64
	Energy float64
	Social float64
}

// Family holds weak back-references: despawning a citizen must clear every
// inbound link symmetrically.
type Family struct {
	Partner  Handle
	Parent   Handle
	Children []Handle
}

type Citizen struct {
	X, Y   float64 // world units
	VX, VY float64

	Home Handle
	Work Handle

	State CitizenState
	Mode  TransportMode

	Path     []int32
	PathPos  int
	DestIdx  int32 // cell the current trip targets
	ActivityTimer int // fast ticks remaining in timed states
	CommuteTicks  int // ticks spent on the last commute

	Details     CitizenDetails
	Personality Personality
	Needs       Needs
	Family      Family
}

// Vehicle is a dispatched service unit (garbage, fire, police, ambulance).
type Vehicle struct {
	Kind     string
	Facility Handle // service building
	X, Y     float64
	Load     int
	Path     []int32
	PathPos  int
	Route    []int32 // remaining target cells
	Returning bool
	Arrived   bool
}
