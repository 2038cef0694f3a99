package world

// Cell is one entry of the 256×256 world grid.
type Cell struct {
	Height   float32 // terrain height in [0,1]
	Type     CellType
	Zone     ZoneType
	Road     RoadType
	HasPower bool
	HasWater bool
	Building Handle // building occupying this cell, NoHandle if empty
	Service  Handle // service building whose footprint covers this cell
	Utility  Handle // utility source whose footprint covers this cell
}

// Occupied reports whether any structure claims the cell.
func (c *Cell) Occupied() bool {
	return !c.Building.IsNone() || !c.Service.IsNone() || !c.Utility.IsNone()
}

// WorldGrid is the fixed-size cell array, row-major.
type WorldGrid struct {
	Cells []Cell
}

func NewWorldGrid() *WorldGrid {
	g := &WorldGrid{Cells: make([]Cell, GridArea)}
	for i := range g.Cells {
		g.Cells[i].Building = NoHandle
		g.Cells[i].Service = NoHandle
		g.Cells[i].Utility = NoHandle
	}
	return g
}

func Idx(x, y int) int32 { return int32(y*GridW + x) }

func XY(idx int32) (int, int) { return int(idx) % GridW, int(idx) / GridW }

func InBounds(x, y int) bool {
	return x >= 0 && x < GridW && y >= 0 && y < GridH
}

// At returns the cell at (x, y); nil when out of bounds.
func (g *WorldGrid) At(x, y int) *Cell {
	if !InBounds(x, y) {
		return nil
	}
	return &g.Cells[Idx(x, y)]
}

func (g *WorldGrid) AtIdx(idx int32) *Cell {
	if idx < 0 || idx >= GridArea {
		return nil
	}
	return &g.Cells[idx]
}

// Neighbors4 writes up to four orthogonal neighbor indices into buf and
// returns the count. Border cells get fewer neighbors.
func Neighbors4(idx int32, buf *[4]int32) int {
	x, y := XY(idx)
	n := 0
	if x > 0 {
		buf[n] = idx - 1
		n++
	}
	if x < GridW-1 {
		buf[n] = idx + 1
		n++
	}
	if y > 0 {
		buf[n] = idx - GridW
		n++
	}
	if y < GridH-1 {
		buf[n] = idx + GridW
		n++
	}
	return n
}

// Neighbors8 writes up to eight neighbor indices into buf.
func Neighbors8(idx int32, buf *[8]int32) int {
	x, y := XY(idx)
	n := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if InBounds(x+dx, y+dy) {
				buf[n] = Idx(x+dx, y+dy)
				n++
			}
		}
	}
	return n
}

// CellToWorld returns the world-space center of a cell.
func CellToWorld(x, y int) (float64, float64) {
	return float64(x)*CellPx + CellPx/2, float64(y)*CellPx + CellPx/2
}

// WorldToCell converts world coordinates to cell indices, clamping to the
// grid so callers never index out of range.
func WorldToCell(wx, wy float64) (int, int) {
	x := int(wx / CellPx)
	y := int(wy / CellPx)
	if x < 0 {
		x = 0
	}
	if x >= GridW {
		x = GridW - 1
	}
	if y < 0 {
		y = 0
	}
	if y >= GridH {
		y = GridH - 1
	}
	return x, y
}

// ManhattanIdx is the Manhattan distance between two cell indices.
func ManhattanIdx(a, b int32) int {
	ax, ay := XY(a)
	bx, by := XY(b)
	return absInt(ax-bx) + absInt(ay-by)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampU8(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
