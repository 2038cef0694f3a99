package world

import (
	"github.com/dzautner/megacity-sub002/internal/protocol"
	"github.com/dzautner/megacity-sub002/internal/sim/catalogs"
)

// Apply executes one command against the world. Rejected commands leave the
// state untouched. Save, load and new-game are handled by the runtime, not
// here; the world only validates what it owns.
func (w *World) Apply(cmd protocol.Command) protocol.Result {
	switch cmd.Type {
	case protocol.CmdPlaceRoadSegment:
		return w.cmdPlaceRoadSegment(cmd)
	case protocol.CmdBulldozeCell:
		return w.cmdBulldozeCell(cmd)
	case protocol.CmdBulldozeBuilding:
		return w.cmdBulldozeBuilding(cmd)
	case protocol.CmdZoneRect:
		return w.cmdZoneRect(cmd)
	case protocol.CmdPlaceService:
		return w.cmdPlaceService(cmd)
	case protocol.CmdPlaceUtility:
		return w.cmdPlaceUtility(cmd)
	case protocol.CmdSetTaxRate:
		return w.cmdSetTaxRate(cmd)
	case protocol.CmdSetServiceBudget:
		return w.cmdSetServiceBudget(cmd)
	case protocol.CmdSetSpeed:
		return w.cmdSetSpeed(cmd)
	case protocol.CmdPause:
		w.Clock.Paused = true
		return protocol.Accept()
	case protocol.CmdResume:
		w.Clock.Paused = false
		return protocol.Accept()
	case protocol.CmdToggleOneWay:
		return w.cmdToggleOneWay(cmd)
	case protocol.CmdTakeLoan:
		return w.cmdTakeLoan(cmd)
	case protocol.CmdRepayLoan:
		return w.cmdRepayLoan(cmd)
	case protocol.CmdSetPolicy:
		return w.cmdSetPolicy(cmd)
	case protocol.CmdSetDistrictPolicy:
		return w.cmdSetDistrictPolicy(cmd)
	}
	return protocol.Reject(protocol.ErrBadRequest, "unknown command type %q", cmd.Type)
}

func (w *World) cmdPlaceRoadSegment(cmd protocol.Command) protocol.Result {
	kind, ok := RoadFromID(cmd.RoadKind)
	if !ok {
		return protocol.Reject(protocol.ErrBadRequest, "unknown road kind %q", cmd.RoadKind)
	}
	if !InBounds(cmd.X, cmd.Y) || !InBounds(cmd.X2, cmd.Y2) {
		return protocol.Reject(protocol.ErrInvalidPlacement, "segment endpoint out of bounds")
	}

	var cells []int32
	var points [][2]float64
	if cmd.Curved {
		if !InBounds(cmd.CX1, cmd.CY1) || !InBounds(cmd.CX2, cmd.CY2) {
			return protocol.Reject(protocol.ErrInvalidPlacement, "control point out of bounds")
		}
		p := [4][2]float64{
			{float64(cmd.X), float64(cmd.Y)},
			{float64(cmd.CX1), float64(cmd.CY1)},
			{float64(cmd.CX2), float64(cmd.CY2)},
			{float64(cmd.X2), float64(cmd.Y2)},
		}
		cells = RasterizeBezier(p)
		points = p[:]
	} else {
		cells = RasterizeLine(cmd.X, cmd.Y, cmd.X2, cmd.Y2)
		points = [][2]float64{
			{float64(cmd.X), float64(cmd.Y)},
			{float64(cmd.X2), float64(cmd.Y2)},
		}
	}
	if len(cells) == 0 {
		return protocol.Reject(protocol.ErrInvalidPlacement, "segment rasterizes to nothing")
	}

	def, ok := w.Cat.Roads.Get(kind.String())
	if !ok {
		return protocol.Reject(protocol.ErrBadRequest, "road kind %q missing from catalog", cmd.RoadKind)
	}

	// placement check: no structures in the way; cost comes from the grade
	// overlay so bridges and tunnels price up
	for _, idx := range cells {
		if w.Grid.AtIdx(idx).Occupied() {
			x, y := XY(idx)
			return protocol.Reject(protocol.ErrInvalidPlacement, "structure in the way at (%d,%d)", x, y)
		}
	}
	cost := segmentCost(def, cells, w.Grid)
	if w.Budget.Treasury < cost {
		return protocol.Reject(protocol.ErrInsufficientFunds, "need %.0f, have %.0f", cost, w.Budget.Treasury)
	}
	w.Budget.Treasury -= cost

	seg := RoadSegment{
		ID:     w.Segments.NextID,
		Kind:   kind,
		Width:  1,
		Points: points,
		Cells:  cells,
	}
	w.Segments.NextID++
	w.Segments.add(seg)

	for _, idx := range cells {
		c := w.Grid.AtIdx(idx)
		c.Type = CellRoad
		c.Road = kind
		c.Zone = ZoneNone
		w.Roads.AddCell(idx)
	}
	return protocol.Accept()
}

// segmentCost prices a segment cell by cell from its grade overlay: water
// crossings cost triple (bridge), runs through high terrain five times the
// base (tunnel).
func segmentCost(def *catalogs.RoadDef, cells []int32, grid *WorldGrid) float64 {
	var cost float64
	for _, s := range GradeOverlay(&RoadSegment{Cells: cells}, grid) {
		switch {
		case s.Bridge:
			cost += def.CostPerCell * 3
		case s.Tunnel:
			cost += def.CostPerCell * 5
		default:
			cost += def.CostPerCell
		}
	}
	return cost
}

func (w *World) cmdBulldozeCell(cmd protocol.Command) protocol.Result {
	if !InBounds(cmd.X, cmd.Y) {
		return protocol.Reject(protocol.ErrBadRequest, "out of bounds")
	}
	idx := Idx(cmd.X, cmd.Y)
	c := w.Grid.AtIdx(idx)

	switch {
	case c.Type == CellRoad:
		// remove every segment covering the cell; shared cells survive
		// until the last covering segment goes
		ids := w.Segments.SegmentsAt(idx)
		if len(ids) == 0 {
			return protocol.Reject(protocol.ErrNotFound, "no segment at (%d,%d)", cmd.X, cmd.Y)
		}
		for _, id := range ids {
			w.removeSegment(id)
		}
		return protocol.Accept()

	case !c.Building.IsNone():
		return w.bulldozeBuildingAt(c.Building)

	case !c.Service.IsNone():
		return w.bulldozeServiceAt(c.Service)

	case !c.Utility.IsNone():
		return w.bulldozeUtilityAt(c.Utility)

	case c.Zone != ZoneNone:
		c.Zone = ZoneNone
		return protocol.Accept()
	}
	return protocol.Reject(protocol.ErrNotFound, "nothing to bulldoze at (%d,%d)", cmd.X, cmd.Y)
}

// removeSegment tears a segment out of the store, the grid and the network.
func (w *World) removeSegment(id uint32) {
	orphaned := w.Segments.remove(id)
	for _, idx := range orphaned {
		c := w.Grid.AtIdx(idx)
		c.Type = CellGrass
		c.Road = RoadNone
		w.Roads.RemoveCell(idx)
	}
	w.rebuildForbidden()
}

func (w *World) cmdBulldozeBuilding(cmd protocol.Command) protocol.Result {
	h := w.Buildings.HandleAt(cmd.BuildingID)
	if h.IsNone() {
		return protocol.Reject(protocol.ErrNotFound, "no building %d", cmd.BuildingID)
	}
	return w.bulldozeBuildingAt(h)
}

func (w *World) bulldozeBuildingAt(h Handle) protocol.Result {
	b := w.Buildings.Get(h)
	if b == nil {
		return protocol.Reject(protocol.ErrNotFound, "building is gone")
	}
	// partial refund of the construction value
	refund := float64(w.zoneCapacity(b.Zone, b.Level)) * 10 * w.Tun.Economy.BulldozeRefund
	w.demolishBuilding(h)
	w.Budget.Treasury += refund
	return protocol.Accept()
}

// bulldozeServiceAt removes a service building, clears its footprint cells
// and refunds part of the construction cost.
func (w *World) bulldozeServiceAt(h Handle) protocol.Result {
	s := w.Services.Get(h)
	if s == nil {
		return protocol.Reject(protocol.ErrNotFound, "facility is gone")
	}
	w.setFootprint(s.X, s.Y, s.Footprint, func(c *Cell) { c.Service = NoHandle })
	if def, ok := w.Cat.Services.Get(s.Type); ok {
		w.Budget.Treasury += def.Cost * w.Tun.Economy.BulldozeRefund
	}
	w.Services.Remove(h)
	return protocol.Accept()
}

func (w *World) bulldozeUtilityAt(h Handle) protocol.Result {
	u := w.Utilities.Get(h)
	if u == nil {
		return protocol.Reject(protocol.ErrNotFound, "facility is gone")
	}
	w.setFootprint(u.X, u.Y, u.Footprint, func(c *Cell) { c.Utility = NoHandle })
	var cost float64
	if u.IsPower {
		if def, ok := w.Cat.Power.Get(u.Type); ok {
			cost = def.Cost
		}
	} else if def, ok := w.Cat.Water.Get(u.Type); ok {
		cost = def.Cost
	}
	w.Budget.Treasury += cost * w.Tun.Economy.BulldozeRefund
	w.Utilities.Remove(h)
	return protocol.Accept()
}

func (w *World) cmdZoneRect(cmd protocol.Command) protocol.Result {
	x0, x1 := cmd.X, cmd.X2
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	y0, y1 := cmd.Y, cmd.Y2
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	if !InBounds(x0, y0) || !InBounds(x1, y1) {
		return protocol.Reject(protocol.ErrBadRequest, "rect out of bounds")
	}

	z := ZoneNone
	if cmd.Zone != "" && cmd.Zone != "NONE" {
		var ok bool
		z, ok = ZoneFromID(cmd.Zone)
		if !ok {
			return protocol.Reject(protocol.ErrBadRequest, "unknown zone %q", cmd.Zone)
		}
	}

	changed := 0
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			c := w.Grid.At(x, y)
			if c.Type != CellGrass || c.Occupied() {
				continue
			}
			c.Zone = z
			changed++
		}
	}
	if changed == 0 && z != ZoneNone {
		return protocol.Reject(protocol.ErrInvalidPlacement, "no zonable cells in rect")
	}
	return protocol.Accept()
}

func (w *World) cmdPlaceService(cmd protocol.Command) protocol.Result {
	def, ok := w.Cat.Services.Get(cmd.ServiceType)
	if !ok {
		return protocol.Reject(protocol.ErrBadRequest, "unknown service type %q", cmd.ServiceType)
	}
	if res := w.checkFootprint(cmd.X, cmd.Y, def.Footprint); !res.Accepted {
		return res
	}
	if w.Budget.Treasury < def.Cost {
		return protocol.Reject(protocol.ErrInsufficientFunds, "need %.0f, have %.0f", def.Cost, w.Budget.Treasury)
	}
	// services need road access
	if w.nearestRoad(cmd.X, cmd.Y, 3) < 0 {
		return protocol.Reject(protocol.ErrNoRoute, "no road within reach of (%d,%d)", cmd.X, cmd.Y)
	}
	w.Budget.Treasury -= def.Cost
	h := w.Services.Add(ServiceBuilding{
		Type:          def.ID,
		Category:      def.Category,
		X:             cmd.X,
		Y:             cmd.Y,
		Radius:        def.Radius,
		Footprint:     def.Footprint,
		StaffRequired: def.Staff,
	})
	w.setFootprint(cmd.X, cmd.Y, def.Footprint, func(c *Cell) { c.Service = h })
	return protocol.Accept()
}

func (w *World) cmdPlaceUtility(cmd protocol.Command) protocol.Result {
	if pd, ok := w.Cat.Power.Get(cmd.UtilityType); ok {
		if res := w.checkFootprint(cmd.X, cmd.Y, utilityFootprint); !res.Accepted {
			return res
		}
		if w.Budget.Treasury < pd.Cost {
			return protocol.Reject(protocol.ErrInsufficientFunds, "need %.0f, have %.0f", pd.Cost, w.Budget.Treasury)
		}
		w.Budget.Treasury -= pd.Cost
		h := w.Utilities.Add(UtilitySource{
			Type: pd.ID, X: cmd.X, Y: cmd.Y, Range: pd.Range, Footprint: utilityFootprint,
			IsPower: true, CapacityMWh: pd.CapacityMWh, GenCostMWh: pd.GenCostMWh,
			WeatherDep: pd.Weather,
		})
		w.setFootprint(cmd.X, cmd.Y, utilityFootprint, func(c *Cell) { c.Utility = h })
		return protocol.Accept()
	}
	if wd, ok := w.Cat.Water.Get(cmd.UtilityType); ok {
		if res := w.checkFootprint(cmd.X, cmd.Y, utilityFootprint); !res.Accepted {
			return res
		}
		if w.Budget.Treasury < wd.Cost {
			return protocol.Reject(protocol.ErrInsufficientFunds, "need %.0f, have %.0f", wd.Cost, w.Budget.Treasury)
		}
		w.Budget.Treasury -= wd.Cost
		h := w.Utilities.Add(UtilitySource{
			Type: wd.ID, X: cmd.X, Y: cmd.Y, Range: wd.Radius, Footprint: utilityFootprint,
			IsWater: true, CapacityKL: wd.CapacityKL, Treats: wd.Treats,
		})
		w.setFootprint(cmd.X, cmd.Y, utilityFootprint, func(c *Cell) { c.Utility = h })
		return protocol.Accept()
	}
	return protocol.Reject(protocol.ErrBadRequest, "unknown utility type %q", cmd.UtilityType)
}

// utilityFootprint is the fixed square footprint of power and water plants.
const utilityFootprint = 2

// checkFootprint verifies a square footprint of buildable, empty cells.
func (w *World) checkFootprint(x, y, size int) protocol.Result {
	if size < 1 {
		size = 1
	}
	for dy := 0; dy < size; dy++ {
		for dx := 0; dx < size; dx++ {
			c := w.Grid.At(x+dx, y+dy)
			if c == nil {
				return protocol.Reject(protocol.ErrInvalidPlacement, "footprint out of bounds")
			}
			if c.Type != CellGrass || c.Occupied() {
				return protocol.Reject(protocol.ErrInvalidPlacement, "cell (%d,%d) not buildable", x+dx, y+dy)
			}
		}
	}
	return protocol.Accept()
}

// setFootprint applies set to every in-bounds cell of a square footprint.
func (w *World) setFootprint(x, y, size int, set func(*Cell)) {
	if size < 1 {
		size = 1
	}
	for dy := 0; dy < size; dy++ {
		for dx := 0; dx < size; dx++ {
			if c := w.Grid.At(x+dx, y+dy); c != nil {
				set(c)
			}
		}
	}
}

func (w *World) cmdSetTaxRate(cmd protocol.Command) protocol.Result {
	if cmd.Rate < 0 || cmd.Rate > 0.25 {
		return protocol.Reject(protocol.ErrBadRequest, "tax rate %.3f outside [0, 0.25]", cmd.Rate)
	}
	if cmd.Zone == "" {
		w.Budget.TaxRate = cmd.Rate
		return protocol.Accept()
	}
	if _, ok := ZoneFromID(cmd.Zone); !ok {
		return protocol.Reject(protocol.ErrBadRequest, "unknown zone %q", cmd.Zone)
	}
	w.Budget.ZoneRates[cmd.Zone] = cmd.Rate
	return protocol.Accept()
}

func (w *World) cmdSetServiceBudget(cmd protocol.Command) protocol.Result {
	found := false
	for _, c := range DeptCategories {
		if c == cmd.Dept {
			found = true
			break
		}
	}
	if !found {
		return protocol.Reject(protocol.ErrBadRequest, "unknown department %q", cmd.Dept)
	}
	if cmd.Level < 0 || cmd.Level > 3 {
		return protocol.Reject(protocol.ErrBadRequest, "budget level %d outside [0,3]", cmd.Level)
	}
	w.Budget.DeptLevel[cmd.Dept] = cmd.Level
	return protocol.Accept()
}

func (w *World) cmdSetSpeed(cmd protocol.Command) protocol.Result {
	switch cmd.Speed {
	case 1, 2, 5, 10:
		w.Clock.Speed = cmd.Speed
		return protocol.Accept()
	}
	return protocol.Reject(protocol.ErrBadRequest, "speed %d not one of 1,2,5,10", cmd.Speed)
}

func (w *World) cmdToggleOneWay(cmd protocol.Command) protocol.Result {
	seg := w.Segments.Get(cmd.SegmentID)
	if seg == nil {
		return protocol.Reject(protocol.ErrNotFound, "no segment %d", cmd.SegmentID)
	}
	seg.OneWay = seg.OneWay.Next()
	w.rebuildForbidden()
	return protocol.Accept()
}

func (w *World) cmdTakeLoan(cmd protocol.Command) protocol.Result {
	if cmd.Amount <= 0 || cmd.Amount > 1_000_000 {
		return protocol.Reject(protocol.ErrBadRequest, "loan amount %.0f out of range", cmd.Amount)
	}
	if cmd.Term < 1 || cmd.Term > 360 {
		return protocol.Reject(protocol.ErrBadRequest, "loan term %d out of range", cmd.Term)
	}
	if len(w.Budget.Loans) >= 5 {
		return protocol.Reject(protocol.ErrCapacityExceeded, "at most 5 concurrent loans")
	}
	w.Budget.TakeLoan(cmd.Amount, w.Tun.Economy.LoanAnnualRate, cmd.Term)
	return protocol.Accept()
}

func (w *World) cmdRepayLoan(cmd protocol.Command) protocol.Result {
	exists := false
	for i := range w.Budget.Loans {
		if w.Budget.Loans[i].ID == cmd.LoanID {
			exists = true
		}
	}
	if !exists {
		return protocol.Reject(protocol.ErrNotFound, "no loan %d", cmd.LoanID)
	}
	if !w.Budget.RepayLoan(cmd.LoanID) {
		return protocol.Reject(protocol.ErrInsufficientFunds, "treasury cannot cover the balance")
	}
	return protocol.Accept()
}

func (w *World) cmdSetPolicy(cmd protocol.Command) protocol.Result {
	if PolicyByID(cmd.PolicyID) == nil {
		return protocol.Reject(protocol.ErrBadRequest, "unknown policy %q", cmd.PolicyID)
	}
	if cmd.Enabled {
		w.Budget.Policies[cmd.PolicyID] = true
	} else {
		delete(w.Budget.Policies, cmd.PolicyID)
	}
	return protocol.Accept()
}

func (w *World) cmdSetDistrictPolicy(cmd protocol.Command) protocol.Result {
	if PolicyByID(cmd.PolicyID) == nil {
		return protocol.Reject(protocol.ErrBadRequest, "unknown policy %q", cmd.PolicyID)
	}
	if !ValidDistrict(cmd.District) {
		return protocol.Reject(protocol.ErrBadRequest, "unknown district %q", cmd.District)
	}
	w.Budget.SetDistrictPolicy(cmd.District, cmd.PolicyID, cmd.Enabled)
	return protocol.Accept()
}
