package world

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dzautner/megacity-sub002/internal/persistence/save"
	"github.com/dzautner/megacity-sub002/internal/protocol"
	"github.com/dzautner/megacity-sub002/internal/sim/encoding"
)

// saveSection is one entry of the save registry. Sections encode and decode
// independently; a key missing from a save leaves that part of the world at
// its fresh-world default, so sections still at that default may be omitted
// from the export.
type saveSection struct {
	key    string
	encode func(w *World) []byte
	decode func(w *World, b []byte) error
	// omit reports the section still holds its fresh-world default. Nil
	// means always write.
	omit func(w *World) bool
}

// extKeyPrefix marks keys reserved for forward-compatible extensions.
// Unknown ext.* keys load silently; other unknown keys are diagnosed.
const extKeyPrefix = "ext."

func saveSections() []saveSection {
	return []saveSection{
		{key: "grid", encode: encodeGrid, decode: decodeGrid},
		{key: "env_fields", encode: encodeEnvFields, decode: decodeEnvFields},
		{key: "road_segments", encode: encodeSegments, decode: decodeSegments,
			omit: func(w *World) bool { return len(w.Segments.Segments) == 0 && w.Segments.NextID == 1 }},
		{key: "clock", encode: encodeClock, decode: decodeClock},
		{key: "rng", encode: encodeRng, decode: decodeRng},
		{key: "weather", encode: encodeWeather, decode: decodeWeather},
		{key: "budget", encode: encodeBudget, decode: decodeBudget},
		{key: "demand", encode: encodeDemandSec, decode: decodeDemandSec},
		{key: "buildings", encode: encodeBuildings, decode: decodeBuildings,
			omit: func(w *World) bool { return w.Buildings.isFresh() }},
		{key: "service_buildings", encode: encodeServices, decode: decodeServices,
			omit: func(w *World) bool { return w.Services.isFresh() }},
		{key: "utility_sources", encode: encodeUtilities, decode: decodeUtilities,
			omit: func(w *World) bool { return w.Utilities.isFresh() }},
		{key: "citizens", encode: encodeCitizens, decode: decodeCitizens,
			omit: func(w *World) bool { return w.Citizens.isFresh() }},
		{key: "energy", encode: encodeEnergySec, decode: decodeEnergySec,
			omit: func(w *World) bool { return w.Energy.rotation == 0 && w.Energy.rotationLeft == 0 }},
		{key: "stats", encode: encodeStatsSec, decode: decodeStatsSec},
		{key: "charts", encode: encodeCharts, decode: decodeCharts,
			omit: func(w *World) bool { return len(w.Charts.Population) == 0 }},
	}
}

// ExportSave captures the world into an extension map. Sections still at
// their fresh-world default are left out; ImportSave restores them to that
// same default, so the round trip is unchanged.
func (w *World) ExportSave() save.ExtensionMap {
	m := save.ExtensionMap{}
	for _, s := range saveSections() {
		if s.omit != nil && s.omit(w) {
			continue
		}
		m[s.key] = s.encode(w)
	}
	return m
}

// ImportSave applies a decoded save onto a freshly constructed world.
// Missing sections keep their defaults; unknown non-extension keys are
// logged and ignored.
func (w *World) ImportSave(m save.ExtensionMap) error {
	known := make(map[string]bool)
	for _, s := range saveSections() {
		known[s.key] = true
		b, ok := m[s.key]
		if !ok {
			continue
		}
		if err := s.decode(w, b); err != nil {
			return fmt.Errorf("section %s: %w", s.key, err)
		}
	}
	for _, k := range m.Keys() {
		if !known[k] && !strings.HasPrefix(k, extKeyPrefix) {
			w.logg.Printf("save: ignoring unknown key %q", k)
			w.emitEvent(protocol.Event{
				Tick: w.Clock.Tick, Type: "SAVE_KEY_IGNORED", Severity: protocol.SevWarn,
				Code: protocol.ErrUnknownExtension, Message: k,
			})
		}
	}
	w.rebuildAfterLoad()
	return nil
}

// rebuildAfterLoad reconstructs everything derived rather than persisted:
// the road network, segment coverage counts, one-way exclusions and the
// grid's building links.
func (w *World) rebuildAfterLoad() {
	w.Roads.Reset()
	for i := int32(0); i < GridArea; i++ {
		if w.Grid.Cells[i].Type == CellRoad {
			w.Roads.AddCell(i)
		}
	}
	w.Segments.rebuildRefs()
	w.rebuildForbidden()

	for i := range w.Grid.Cells {
		w.Grid.Cells[i].Building = NoHandle
		w.Grid.Cells[i].Service = NoHandle
		w.Grid.Cells[i].Utility = NoHandle
	}
	w.Buildings.Each(func(h Handle, b *Building) {
		if InBounds(b.X, b.Y) {
			w.Grid.Cells[Idx(b.X, b.Y)].Building = h
		}
	})
	w.Services.Each(func(h Handle, s *ServiceBuilding) {
		w.setFootprint(s.X, s.Y, s.Footprint, func(c *Cell) { c.Service = h })
	})
	w.Utilities.Each(func(h Handle, u *UtilitySource) {
		w.setFootprint(u.X, u.Y, u.Footprint, func(c *Cell) { c.Utility = h })
	})

	// in-flight trips lose their road paths; travellers walk straight to
	// their destination and replan from there
	w.Citizens.Each(func(_ Handle, c *Citizen) {
		c.Path = nil
		c.PathPos = 0
	})
}

// --- generic store codec ---

// maxStoreSlots bounds decoded slot counts so corrupt saves cannot force
// huge allocations.
const maxStoreSlots = 1 << 21

func putHandle(wr *encoding.Writer, h Handle) {
	wr.PutU32(h.Idx)
	wr.PutU32(h.Gen)
}

func getHandle(r *encoding.Reader) Handle {
	return Handle{Idx: r.U32(), Gen: r.U32()}
}

func encodeStore[T any](wr *encoding.Writer, s *store[T], put func(*encoding.Writer, *T)) {
	wr.PutUvarint(uint64(len(s.slots)))
	for i := range s.slots {
		sl := &s.slots[i]
		wr.PutBool(sl.live)
		wr.PutU32(sl.gen)
		if sl.live {
			put(wr, &sl.val)
		}
	}
	wr.PutUvarint(uint64(len(s.free)))
	for _, f := range s.free {
		wr.PutU32(f)
	}
}

func decodeStore[T any](r *encoding.Reader, s *store[T], get func(*encoding.Reader) T) error {
	n := r.Uvarint()
	if r.Err() != nil {
		return r.Err()
	}
	if n > maxStoreSlots {
		return fmt.Errorf("store: %d slots exceeds limit", n)
	}
	s.slots = make([]slot[T], n)
	s.free = nil
	s.count = 0
	for i := uint64(0); i < n; i++ {
		live := r.Bool()
		gen := r.U32()
		sl := &s.slots[i]
		sl.live = live
		sl.gen = gen
		if live {
			sl.val = get(r)
			s.count++
		}
		if r.Err() != nil {
			return r.Err()
		}
	}
	m := r.Uvarint()
	if m > n {
		return fmt.Errorf("store: free list longer than slot array")
	}
	for i := uint64(0); i < m; i++ {
		f := r.U32()
		if uint64(f) >= n || s.slots[f].live {
			return fmt.Errorf("store: bad free slot %d", f)
		}
		s.free = append(s.free, f)
	}
	return r.Err()
}

// --- sections ---

func encodeGrid(w *World) []byte {
	wr := encoding.NewWriter()
	wr.PutU8(1)
	for i := range w.Grid.Cells {
		wr.PutF32(w.Grid.Cells[i].Height)
	}
	types := make([]uint8, GridArea)
	zones := make([]uint8, GridArea)
	roads := make([]uint8, GridArea)
	for i := range w.Grid.Cells {
		c := &w.Grid.Cells[i]
		types[i] = uint8(c.Type)
		zones[i] = uint8(c.Zone)
		roads[i] = uint8(c.Road)
	}
	wr.PutBytes(encoding.EncodeRLEU8(types))
	wr.PutBytes(encoding.EncodeRLEU8(zones))
	wr.PutBytes(encoding.EncodeRLEU8(roads))
	return wr.Bytes()
}

func decodeGrid(w *World, b []byte) error {
	r := encoding.NewReader(b)
	if v := r.U8(); v != 1 {
		if r.Err() != nil {
			return r.Err()
		}
		return fmt.Errorf("grid: unsupported version %d", v)
	}
	for i := 0; i < GridArea; i++ {
		w.Grid.Cells[i].Height = r.F32()
	}
	if r.Err() != nil {
		return r.Err()
	}
	types, err := encoding.DecodeRLEU8(r.Bytes(), GridArea)
	if err != nil {
		return err
	}
	zones, err := encoding.DecodeRLEU8(r.Bytes(), GridArea)
	if err != nil {
		return err
	}
	roads, err := encoding.DecodeRLEU8(r.Bytes(), GridArea)
	if err != nil {
		return err
	}
	if r.Err() != nil {
		return r.Err()
	}
	for i := 0; i < GridArea; i++ {
		c := &w.Grid.Cells[i]
		c.Type = CellType(types[i])
		c.Zone = ZoneType(zones[i])
		c.Road = RoadType(roads[i])
	}
	return nil
}

func encodeEnvFields(w *World) []byte {
	wr := encoding.NewWriter()
	wr.PutU8(1)
	g := w.Grids
	for _, f := range [][]uint8{
		g.Pollution, g.Noise, g.LandValue, g.Crime, g.Traffic,
		g.Groundwater, g.SoilQuality, g.SurfaceWater, g.SnowDepth,
		g.HeatIsland, g.PollutionInject,
	} {
		wr.PutBytes(encoding.EncodeRLEU8(f))
	}
	wr.PutF64(g.WindX)
	wr.PutF64(g.WindY)
	return wr.Bytes()
}

func decodeEnvFields(w *World, b []byte) error {
	r := encoding.NewReader(b)
	if v := r.U8(); v != 1 {
		if r.Err() != nil {
			return r.Err()
		}
		return fmt.Errorf("env_fields: unsupported version %d", v)
	}
	g := w.Grids
	for _, f := range []*[]uint8{
		&g.Pollution, &g.Noise, &g.LandValue, &g.Crime, &g.Traffic,
		&g.Groundwater, &g.SoilQuality, &g.SurfaceWater, &g.SnowDepth,
		&g.HeatIsland, &g.PollutionInject,
	} {
		vals, err := encoding.DecodeRLEU8(r.Bytes(), GridArea)
		if err != nil {
			return err
		}
		*f = vals
	}
	g.WindX = r.F64()
	g.WindY = r.F64()
	return r.Err()
}

func encodeSegments(w *World) []byte {
	wr := encoding.NewWriter()
	wr.PutU8(1)
	wr.PutU32(w.Segments.NextID)
	wr.PutUvarint(uint64(len(w.Segments.Segments)))
	for i := range w.Segments.Segments {
		s := &w.Segments.Segments[i]
		wr.PutU32(s.ID)
		wr.PutU8(uint8(s.Kind))
		wr.PutU8(s.Width)
		wr.PutU8(uint8(s.OneWay))
		wr.PutUvarint(uint64(len(s.Points)))
		for _, p := range s.Points {
			wr.PutF64(p[0])
			wr.PutF64(p[1])
		}
		wr.PutUvarint(uint64(len(s.Cells)))
		for _, c := range s.Cells {
			wr.PutI32(c)
		}
	}
	return wr.Bytes()
}

func decodeSegments(w *World, b []byte) error {
	r := encoding.NewReader(b)
	if v := r.U8(); v != 1 {
		if r.Err() != nil {
			return r.Err()
		}
		return fmt.Errorf("road_segments: unsupported version %d", v)
	}
	w.Segments.Reset()
	w.Segments.NextID = r.U32()
	n := r.Uvarint()
	if n > maxStoreSlots {
		return fmt.Errorf("road_segments: %d segments exceeds limit", n)
	}
	for i := uint64(0); i < n; i++ {
		var s RoadSegment
		s.ID = r.U32()
		s.Kind = RoadType(r.U8())
		s.Width = r.U8()
		s.OneWay = OneWayDir(r.U8())
		np := r.Uvarint()
		if np > 8 {
			return fmt.Errorf("road_segments: %d control points", np)
		}
		for j := uint64(0); j < np; j++ {
			s.Points = append(s.Points, [2]float64{r.F64(), r.F64()})
		}
		nc := r.Uvarint()
		if nc > GridArea {
			return fmt.Errorf("road_segments: %d cells exceeds grid", nc)
		}
		for j := uint64(0); j < nc; j++ {
			c := r.I32()
			if c < 0 || c >= GridArea {
				return fmt.Errorf("road_segments: cell %d out of range", c)
			}
			s.Cells = append(s.Cells, c)
		}
		if r.Err() != nil {
			return r.Err()
		}
		w.Segments.Segments = append(w.Segments.Segments, s)
	}
	return r.Err()
}

func encodeClock(w *World) []byte {
	wr := encoding.NewWriter()
	wr.PutU8(1)
	wr.PutU64(w.Clock.Tick)
	wr.PutBool(w.Clock.Paused)
	wr.PutU8(uint8(w.Clock.Speed))
	wr.PutU64(w.SlowCount)
	return wr.Bytes()
}

func decodeClock(w *World, b []byte) error {
	r := encoding.NewReader(b)
	if v := r.U8(); v != 1 {
		if r.Err() != nil {
			return r.Err()
		}
		return fmt.Errorf("clock: unsupported version %d", v)
	}
	w.Clock.Tick = r.U64()
	w.Clock.Paused = r.Bool()
	w.Clock.Speed = int(r.U8())
	if w.Clock.Speed == 0 {
		w.Clock.Speed = 1
	}
	w.SlowCount = r.U64()
	return r.Err()
}

func encodeRng(w *World) []byte {
	wr := encoding.NewWriter()
	wr.PutU8(1)
	wr.PutU64(w.Rng.State())
	return wr.Bytes()
}

func decodeRng(w *World, b []byte) error {
	r := encoding.NewReader(b)
	if v := r.U8(); v != 1 {
		if r.Err() != nil {
			return r.Err()
		}
		return fmt.Errorf("rng: unsupported version %d", v)
	}
	w.Rng.Restore(r.U64())
	return r.Err()
}

func encodeWeather(w *World) []byte {
	wr := encoding.NewWriter()
	wr.PutU8(1)
	wr.PutU8(uint8(w.Weather.Kind))
	wr.PutF64(w.Weather.TempC)
	wr.PutF64(w.Weather.RainMM)
	wr.PutF64(w.Weather.CloudPct)
	wr.PutUvarint(uint64(w.Weather.holdLeft))
	return wr.Bytes()
}

func decodeWeather(w *World, b []byte) error {
	r := encoding.NewReader(b)
	if v := r.U8(); v != 1 {
		if r.Err() != nil {
			return r.Err()
		}
		return fmt.Errorf("weather: unsupported version %d", v)
	}
	w.Weather.Kind = WeatherKind(r.U8())
	w.Weather.TempC = r.F64()
	w.Weather.RainMM = r.F64()
	w.Weather.CloudPct = r.F64()
	w.Weather.holdLeft = int(r.Uvarint())
	return r.Err()
}

func encodeBudget(w *World) []byte {
	b := w.Budget
	wr := encoding.NewWriter()
	wr.PutU8(1)
	wr.PutF64(b.Treasury)
	wr.PutF64(b.TaxRate)

	zones := make([]string, 0, len(b.ZoneRates))
	for z := range b.ZoneRates {
		zones = append(zones, z)
	}
	sort.Strings(zones)
	wr.PutUvarint(uint64(len(zones)))
	for _, z := range zones {
		wr.PutString(z)
		wr.PutF64(b.ZoneRates[z])
	}

	wr.PutUvarint(uint64(len(DeptCategories)))
	for _, c := range DeptCategories {
		wr.PutString(c)
		wr.PutU8(uint8(b.DeptLevel[c]))
	}

	active := b.ActivePolicies()
	wr.PutUvarint(uint64(len(active)))
	for _, id := range active {
		wr.PutString(id)
	}

	district := b.ActiveDistrictPolicies()
	wr.PutUvarint(uint64(len(district)))
	for _, dp := range district {
		wr.PutString(dp[0])
		wr.PutString(dp[1])
	}

	wr.PutU32(b.NextLoanID)
	wr.PutUvarint(uint64(len(b.Loans)))
	for _, l := range b.Loans {
		wr.PutU32(l.ID)
		wr.PutF64(l.Principal)
		wr.PutF64(l.Remaining)
		wr.PutF64(l.AnnualRate)
		wr.PutUvarint(uint64(l.TermMonths))
		wr.PutUvarint(uint64(l.MonthsLeft))
		wr.PutF64(l.MonthlyPay)
	}

	for _, v := range []float64{
		b.PendingTaxes, b.PendingMaint, b.PendingServiceOps,
		b.PendingEnergyNet, b.PendingWaterNet, b.PendingPolicyCost,
		b.LastTaxes, b.LastMaint, b.LastServiceOps,
		b.LastEnergyNet, b.LastWaterNet, b.LastPolicyCost, b.LastLoanPay,
	} {
		wr.PutF64(v)
	}
	return wr.Bytes()
}

func decodeBudget(w *World, buf []byte) error {
	b := w.Budget
	r := encoding.NewReader(buf)
	if v := r.U8(); v != 1 {
		if r.Err() != nil {
			return r.Err()
		}
		return fmt.Errorf("budget: unsupported version %d", v)
	}
	b.Treasury = r.F64()
	b.TaxRate = r.F64()

	nz := r.Uvarint()
	if nz > 32 {
		return fmt.Errorf("budget: %d zone rates", nz)
	}
	b.ZoneRates = make(map[string]float64, nz)
	for i := uint64(0); i < nz; i++ {
		zone := r.String()
		b.ZoneRates[zone] = r.F64()
	}

	nd := r.Uvarint()
	if nd > 64 {
		return fmt.Errorf("budget: %d departments", nd)
	}
	b.DeptLevel = make(map[string]int, nd)
	for i := uint64(0); i < nd; i++ {
		name := r.String()
		lvl := int(r.U8())
		b.DeptLevel[name] = clampInt(lvl, 0, 3)
	}

	np := r.Uvarint()
	if np > 64 {
		return fmt.Errorf("budget: %d policies", np)
	}
	b.Policies = make(map[string]bool, np)
	for i := uint64(0); i < np; i++ {
		b.Policies[r.String()] = true
	}

	ndp := r.Uvarint()
	if ndp > 256 {
		return fmt.Errorf("budget: %d district policies", ndp)
	}
	b.DistrictPolicies = make(map[string]map[string]bool)
	for i := uint64(0); i < ndp; i++ {
		district := r.String()
		policy := r.String()
		b.SetDistrictPolicy(district, policy, true)
	}

	b.NextLoanID = r.U32()
	nl := r.Uvarint()
	if nl > 64 {
		return fmt.Errorf("budget: %d loans", nl)
	}
	b.Loans = nil
	for i := uint64(0); i < nl; i++ {
		var l Loan
		l.ID = r.U32()
		l.Principal = r.F64()
		l.Remaining = r.F64()
		l.AnnualRate = r.F64()
		l.TermMonths = int(r.Uvarint())
		l.MonthsLeft = int(r.Uvarint())
		l.MonthlyPay = r.F64()
		b.Loans = append(b.Loans, l)
	}

	for _, p := range []*float64{
		&b.PendingTaxes, &b.PendingMaint, &b.PendingServiceOps,
		&b.PendingEnergyNet, &b.PendingWaterNet, &b.PendingPolicyCost,
		&b.LastTaxes, &b.LastMaint, &b.LastServiceOps,
		&b.LastEnergyNet, &b.LastWaterNet, &b.LastPolicyCost, &b.LastLoanPay,
	} {
		*p = r.F64()
	}
	return r.Err()
}

func encodeDemandSec(w *World) []byte {
	wr := encoding.NewWriter()
	wr.PutU8(1)
	wr.PutF64(w.Demand.Residential)
	wr.PutF64(w.Demand.Commercial)
	wr.PutF64(w.Demand.Industrial)
	wr.PutF64(w.Demand.Office)
	return wr.Bytes()
}

func decodeDemandSec(w *World, b []byte) error {
	r := encoding.NewReader(b)
	if v := r.U8(); v != 1 {
		if r.Err() != nil {
			return r.Err()
		}
		return fmt.Errorf("demand: unsupported version %d", v)
	}
	w.Demand.Residential = r.F64()
	w.Demand.Commercial = r.F64()
	w.Demand.Industrial = r.F64()
	w.Demand.Office = r.F64()
	return r.Err()
}

func encodeBuildings(w *World) []byte {
	wr := encoding.NewWriter()
	wr.PutU8(1)
	encodeStore(wr, &w.Buildings, func(wr *encoding.Writer, b *Building) {
		wr.PutUvarint(uint64(b.X))
		wr.PutUvarint(uint64(b.Y))
		wr.PutU8(uint8(b.Zone))
		wr.PutU8(uint8(b.Level))
		wr.PutUvarint(uint64(b.Capacity))
		wr.PutUvarint(uint64(b.Occupants))
		wr.PutU8(uint8(b.Status))
		wr.PutUvarint(uint64(clampInt(b.ConstructLeft, 0, 1<<20)))
		wr.PutBool(b.Burning)
		wr.PutUvarint(uint64(clampInt(b.BurnLeft, 0, 1<<20)))
		wr.PutF64(b.AbandonScore)
		wr.PutF64(b.GarbageKg)
		wr.PutUvarint(uint64(b.BlackoutDays))
	})
	return wr.Bytes()
}

func decodeBuildings(w *World, b []byte) error {
	r := encoding.NewReader(b)
	if v := r.U8(); v != 1 {
		if r.Err() != nil {
			return r.Err()
		}
		return fmt.Errorf("buildings: unsupported version %d", v)
	}
	return decodeStore(r, &w.Buildings, func(r *encoding.Reader) Building {
		var bd Building
		bd.X = int(r.Uvarint())
		bd.Y = int(r.Uvarint())
		bd.Zone = ZoneType(r.U8())
		bd.Level = int(r.U8())
		bd.Capacity = int(r.Uvarint())
		bd.Occupants = int(r.Uvarint())
		bd.Status = BuildingStatus(r.U8())
		bd.ConstructLeft = int(r.Uvarint())
		bd.Burning = r.Bool()
		bd.BurnLeft = int(r.Uvarint())
		bd.AbandonScore = r.F64()
		bd.GarbageKg = r.F64()
		bd.BlackoutDays = int(r.Uvarint())
		return bd
	})
}

func encodeServices(w *World) []byte {
	wr := encoding.NewWriter()
	wr.PutU8(1)
	encodeStore(wr, &w.Services, func(wr *encoding.Writer, s *ServiceBuilding) {
		wr.PutString(s.Type)
		wr.PutString(s.Category)
		wr.PutUvarint(uint64(s.X))
		wr.PutUvarint(uint64(s.Y))
		wr.PutUvarint(uint64(s.Radius))
		wr.PutUvarint(uint64(s.Footprint))
		wr.PutUvarint(uint64(s.StaffRequired))
		wr.PutUvarint(uint64(s.StaffAssigned))
	})
	return wr.Bytes()
}

func decodeServices(w *World, b []byte) error {
	r := encoding.NewReader(b)
	if v := r.U8(); v != 1 {
		if r.Err() != nil {
			return r.Err()
		}
		return fmt.Errorf("service_buildings: unsupported version %d", v)
	}
	return decodeStore(r, &w.Services, func(r *encoding.Reader) ServiceBuilding {
		var s ServiceBuilding
		s.Type = r.String()
		s.Category = r.String()
		s.X = int(r.Uvarint())
		s.Y = int(r.Uvarint())
		s.Radius = int(r.Uvarint())
		s.Footprint = int(r.Uvarint())
		s.StaffRequired = int(r.Uvarint())
		s.StaffAssigned = int(r.Uvarint())
		return s
	})
}

func encodeUtilities(w *World) []byte {
	wr := encoding.NewWriter()
	wr.PutU8(1)
	encodeStore(wr, &w.Utilities, func(wr *encoding.Writer, u *UtilitySource) {
		wr.PutString(u.Type)
		wr.PutUvarint(uint64(u.X))
		wr.PutUvarint(uint64(u.Y))
		wr.PutUvarint(uint64(u.Range))
		wr.PutUvarint(uint64(u.Footprint))
		wr.PutBool(u.IsPower)
		wr.PutF64(u.CapacityMWh)
		wr.PutF64(u.GenCostMWh)
		wr.PutString(u.WeatherDep)
		wr.PutBool(u.IsWater)
		wr.PutF64(u.CapacityKL)
		wr.PutBool(u.Treats)
	})
	return wr.Bytes()
}

func decodeUtilities(w *World, b []byte) error {
	r := encoding.NewReader(b)
	if v := r.U8(); v != 1 {
		if r.Err() != nil {
			return r.Err()
		}
		return fmt.Errorf("utility_sources: unsupported version %d", v)
	}
	return decodeStore(r, &w.Utilities, func(r *encoding.Reader) UtilitySource {
		var u UtilitySource
		u.Type = r.String()
		u.X = int(r.Uvarint())
		u.Y = int(r.Uvarint())
		u.Range = int(r.Uvarint())
		u.Footprint = int(r.Uvarint())
		u.IsPower = r.Bool()
		u.CapacityMWh = r.F64()
		u.GenCostMWh = r.F64()
		u.WeatherDep = r.String()
		u.IsWater = r.Bool()
		u.CapacityKL = r.F64()
		u.Treats = r.Bool()
		return u
	})
}

func encodeCitizens(w *World) []byte {
	wr := encoding.NewWriter()
	wr.PutU8(1)
	encodeStore(wr, &w.Citizens, func(wr *encoding.Writer, c *Citizen) {
		wr.PutF64(c.X)
		wr.PutF64(c.Y)
		putHandle(wr, c.Home)
		putHandle(wr, c.Work)
		wr.PutU8(uint8(c.State))
		wr.PutU8(uint8(c.Mode))
		wr.PutI32(c.DestIdx)
		wr.PutI64(int64(c.ActivityTimer))
		wr.PutI64(int64(c.CommuteTicks))

		d := &c.Details
		wr.PutUvarint(uint64(d.Age))
		wr.PutU8(d.Gender)
		wr.PutU8(d.Education)
		wr.PutF64(d.Happiness)
		wr.PutF64(d.Health)
		wr.PutF64(d.Salary)
		wr.PutF64(d.Savings)

		p := &c.Personality
		wr.PutF64(p.Ambition)
		wr.PutF64(p.Sociability)
		wr.PutF64(p.Materialism)
		wr.PutF64(p.Resilience)

		wr.PutF64(c.Needs.Hunger)
		wr.PutF64(c.Needs.Energy)
		wr.PutF64(c.Needs.Social)

		putHandle(wr, c.Family.Partner)
		putHandle(wr, c.Family.Parent)
		wr.PutUvarint(uint64(len(c.Family.Children)))
		for _, ch := range c.Family.Children {
			putHandle(wr, ch)
		}
	})
	return wr.Bytes()
}

func decodeCitizens(w *World, b []byte) error {
	r := encoding.NewReader(b)
	if v := r.U8(); v != 1 {
		if r.Err() != nil {
			return r.Err()
		}
		return fmt.Errorf("citizens: unsupported version %d", v)
	}
	return decodeStore(r, &w.Citizens, func(r *encoding.Reader) Citizen {
		var c Citizen
		c.X = r.F64()
		c.Y = r.F64()
		c.Home = getHandle(r)
		c.Work = getHandle(r)
		c.State = CitizenState(r.U8())
		c.Mode = TransportMode(r.U8())
		c.DestIdx = r.I32()
		c.ActivityTimer = int(r.I64())
		c.CommuteTicks = int(r.I64())

		c.Details.Age = int(r.Uvarint())
		c.Details.Gender = r.U8()
		c.Details.Education = r.U8()
		c.Details.Happiness = r.F64()
		c.Details.Health = r.F64()
		c.Details.Salary = r.F64()
		c.Details.Savings = r.F64()

		c.Personality.Ambition = r.F64()
		c.Personality.Sociability = r.F64()
		c.Personality.Materialism = r.F64()
		c.Personality.Resilience = r.F64()

		c.Needs.Hunger = r.F64()
		c.Needs.Energy = r.F64()
		c.Needs.Social = r.F64()

		c.Family.Partner = getHandle(r)
		c.Family.Parent = getHandle(r)
		nc := r.Uvarint()
		if nc <= 32 {
			for i := uint64(0); i < nc; i++ {
				c.Family.Children = append(c.Family.Children, getHandle(r))
			}
		}
		return c
	})
}

func encodeEnergySec(w *World) []byte {
	wr := encoding.NewWriter()
	wr.PutU8(1)
	wr.PutUvarint(uint64(w.Energy.rotation))
	wr.PutUvarint(uint64(clampInt(w.Energy.rotationLeft, 0, 1<<20)))
	return wr.Bytes()
}

func decodeEnergySec(w *World, b []byte) error {
	r := encoding.NewReader(b)
	if v := r.U8(); v != 1 {
		if r.Err() != nil {
			return r.Err()
		}
		return fmt.Errorf("energy: unsupported version %d", v)
	}
	w.Energy.rotation = int(r.Uvarint())
	w.Energy.rotationLeft = int(r.Uvarint())
	return r.Err()
}

func encodeStatsSec(w *World) []byte {
	wr := encoding.NewWriter()
	wr.PutU8(1)
	wr.PutUvarint(uint64(w.Stats.Milestone))
	wr.PutUvarint(uint64(w.pollutionStreak))
	wr.PutBool(w.pollutionFired)
	return wr.Bytes()
}

func decodeStatsSec(w *World, b []byte) error {
	r := encoding.NewReader(b)
	if v := r.U8(); v != 1 {
		if r.Err() != nil {
			return r.Err()
		}
		return fmt.Errorf("stats: unsupported version %d", v)
	}
	w.Stats.Milestone = int(r.Uvarint())
	w.pollutionStreak = int(r.Uvarint())
	w.pollutionFired = r.Bool()
	return r.Err()
}

func encodeCharts(w *World) []byte {
	wr := encoding.NewWriter()
	wr.PutU8(1)
	c := w.Charts
	wr.PutUvarint(uint64(len(c.Population)))
	for _, v := range c.Population {
		wr.PutI64(int64(v))
	}
	for _, series := range [][]float64{c.Treasury, c.Happiness, c.Pollution, c.Demand} {
		wr.PutUvarint(uint64(len(series)))
		for _, v := range series {
			wr.PutF64(v)
		}
	}
	return wr.Bytes()
}

func decodeCharts(w *World, b []byte) error {
	r := encoding.NewReader(b)
	if v := r.U8(); v != 1 {
		if r.Err() != nil {
			return r.Err()
		}
		return fmt.Errorf("charts: unsupported version %d", v)
	}
	c := w.Charts
	n := r.Uvarint()
	if n > 100000 {
		return fmt.Errorf("charts: series too long")
	}
	c.Population = nil
	for i := uint64(0); i < n; i++ {
		c.Population = append(c.Population, int(r.I64()))
	}
	for _, series := range []*[]float64{&c.Treasury, &c.Happiness, &c.Pollution, &c.Demand} {
		m := r.Uvarint()
		if m > 100000 {
			return fmt.Errorf("charts: series too long")
		}
		*series = nil
		for i := uint64(0); i < m; i++ {
			*series = append(*series, r.F64())
		}
	}
	return r.Err()
}
