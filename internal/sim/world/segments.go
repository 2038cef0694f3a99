package world

import "math"

// RoadSegment is the high-level authoring record. Rasterized cells are the
// cells the segment paints into the world grid when applied.
type RoadSegment struct {
	ID     uint32
	Kind   RoadType
	Width  uint8
	Points [][2]float64 // 2 endpoints, or 4 cubic-Bezier control points
	Cells  []int32      // rasterization, in traversal order
	OneWay OneWayDir
}

// SegmentStore owns all segments. IDs are monotonically increasing and never
// reused. refs counts how many segments cover a cell so crossings survive
// the removal of one of the segments.
type SegmentStore struct {
	Segments []RoadSegment
	NextID   uint32

	refs map[int32]int
}

func NewSegmentStore() *SegmentStore {
	return &SegmentStore{NextID: 1, refs: make(map[int32]int)}
}

func (s *SegmentStore) Len() int { return len(s.Segments) }

func (s *SegmentStore) Get(id uint32) *RoadSegment {
	for i := range s.Segments {
		if s.Segments[i].ID == id {
			return &s.Segments[i]
		}
	}
	return nil
}

func (s *SegmentStore) add(seg RoadSegment) *RoadSegment {
	s.Segments = append(s.Segments, seg)
	for _, c := range seg.Cells {
		s.refs[c]++
	}
	return &s.Segments[len(s.Segments)-1]
}

// remove deletes a segment and returns the cells no other segment covers.
func (s *SegmentStore) remove(id uint32) []int32 {
	for i := range s.Segments {
		if s.Segments[i].ID != id {
			continue
		}
		seg := s.Segments[i]
		s.Segments = append(s.Segments[:i], s.Segments[i+1:]...)
		var orphaned []int32
		for _, c := range seg.Cells {
			s.refs[c]--
			if s.refs[c] <= 0 {
				delete(s.refs, c)
				orphaned = append(orphaned, c)
			}
		}
		return orphaned
	}
	return nil
}

// CoveredBy returns how many segments cover a cell.
func (s *SegmentStore) CoveredBy(idx int32) int { return s.refs[idx] }

// SegmentsAt returns the ids of segments covering a cell.
func (s *SegmentStore) SegmentsAt(idx int32) []uint32 {
	var out []uint32
	for i := range s.Segments {
		for _, c := range s.Segments[i].Cells {
			if c == idx {
				out = append(out, s.Segments[i].ID)
				break
			}
		}
	}
	return out
}

func (s *SegmentStore) Reset() {
	s.Segments = s.Segments[:0]
	s.NextID = 1
	s.refs = make(map[int32]int)
}

// rebuildRefs recomputes the coverage counts (used after load).
func (s *SegmentStore) rebuildRefs() {
	s.refs = make(map[int32]int)
	for i := range s.Segments {
		for _, c := range s.Segments[i].Cells {
			s.refs[c]++
		}
	}
}

// RasterizeLine walks the grid from (x0,y0) to (x1,y1) with a DDA step,
// emitting each crossed cell exactly once, endpoints inclusive.
func RasterizeLine(x0, y0, x1, y1 int) []int32 {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	steps := dx
	if dy > steps {
		steps = dy
	}
	out := make([]int32, 0, steps+1)
	if steps == 0 {
		if InBounds(x0, y0) {
			out = append(out, Idx(x0, y0))
		}
		return out
	}
	fx, fy := float64(x0), float64(y0)
	sx := float64(x1-x0) / float64(steps)
	sy := float64(y1-y0) / float64(steps)
	var last int32 = -1
	for i := 0; i <= steps; i++ {
		cx := int(math.Round(fx))
		cy := int(math.Round(fy))
		if InBounds(cx, cy) {
			idx := Idx(cx, cy)
			if idx != last {
				out = append(out, idx)
				last = idx
			}
		}
		fx += sx
		fy += sy
	}
	return out
}

// bezierPoint evaluates a cubic Bezier at t.
func bezierPoint(p [4][2]float64, t float64) (float64, float64) {
	u := 1 - t
	a := u * u * u
	b := 3 * u * u * t
	c := 3 * u * t * t
	d := t * t * t
	x := a*p[0][0] + b*p[1][0] + c*p[2][0] + d*p[3][0]
	y := a*p[0][1] + b*p[1][1] + c*p[2][1] + d*p[3][1]
	return x, y
}

// RasterizeBezier samples a cubic curve with arc-length equalization: a
// first pass measures cumulative length at fine parameter steps, a second
// pass emits cells at roughly half-cell spacing along the arc so sharp
// curvature cannot skip cells.
func RasterizeBezier(p [4][2]float64) []int32 {
	const probes = 256
	lengths := make([]float64, probes+1)
	px, py := bezierPoint(p, 0)
	total := 0.0
	for i := 1; i <= probes; i++ {
		t := float64(i) / probes
		x, y := bezierPoint(p, t)
		total += math.Hypot(x-px, y-py)
		lengths[i] = total
		px, py = x, y
	}
	if total == 0 {
		cx, cy := int(math.Round(p[0][0])), int(math.Round(p[0][1]))
		if InBounds(cx, cy) {
			return []int32{Idx(cx, cy)}
		}
		return nil
	}

	steps := int(total*2) + 1
	out := make([]int32, 0, steps+1)
	var last int32 = -1
	seen := make(map[int32]bool)
	for i := 0; i <= steps; i++ {
		target := total * float64(i) / float64(steps)
		// Invert arc length to parameter by scanning the probe table.
		j := 0
		for j < probes && lengths[j+1] < target {
			j++
		}
		t := float64(j) / probes
		if j < probes {
			seg := lengths[j+1] - lengths[j]
			if seg > 0 {
				t += (target - lengths[j]) / seg / probes
			}
		}
		x, y := bezierPoint(p, t)
		cx, cy := int(math.Round(x)), int(math.Round(y))
		if !InBounds(cx, cy) {
			continue
		}
		idx := Idx(cx, cy)
		if idx != last && !seen[idx] {
			out = append(out, idx)
			seen[idx] = true
			last = idx
		}
	}
	return out
}

// GradeSample is one elevation probe along a segment for the grade overlay.
type GradeSample struct {
	X, Y   float64
	Tier   uint8 // 0: <3%, 1: 3-6%, 2: >6%
	Bridge bool
	Tunnel bool
}

// tunnelHeight marks samples running through terrain above this height.
const tunnelHeight = 0.8

// GradeOverlay probes terrain slope along the segment's cells.
func GradeOverlay(seg *RoadSegment, grid *WorldGrid) []GradeSample {
	out := make([]GradeSample, 0, len(seg.Cells))
	var prevH float32
	for i, idx := range seg.Cells {
		x, y := XY(idx)
		c := grid.AtIdx(idx)
		h := c.Height
		s := GradeSample{X: float64(x), Y: float64(y)}
		if i > 0 {
			// One cell of horizontal run per sample; height is normalized,
			// scale to a ~100m relief so percent grades are meaningful.
			rise := math.Abs(float64(h-prevH)) * 100
			gradePct := rise / CellPx * 100 / 6.25 // cell ≈ 16 m
			switch {
			case gradePct > 6:
				s.Tier = 2
			case gradePct >= 3:
				s.Tier = 1
			}
		}
		if c.Type == CellWater {
			s.Bridge = true
		}
		if h > tunnelHeight {
			s.Tunnel = true
		}
		out = append(out, s)
		prevH = h
	}
	return out
}
