package world

// spatialBuckets is a coarse index over citizen positions for proximity
// queries (8x8 cells per bucket). Rebuilt each fast tick before movement.
const bucketShift = 3 // 8 cells
const bucketsW = GridW >> bucketShift
const bucketsH = GridH >> bucketShift

type SpatialIndex struct {
	buckets [bucketsW * bucketsH][]Handle
}

func NewSpatialIndex() *SpatialIndex { return &SpatialIndex{} }

func bucketOf(cx, cy int) int {
	bx := clampInt(cx>>bucketShift, 0, bucketsW-1)
	by := clampInt(cy>>bucketShift, 0, bucketsH-1)
	return by*bucketsW + bx
}

func (s *SpatialIndex) Clear() {
	for i := range s.buckets {
		s.buckets[i] = s.buckets[i][:0]
	}
}

func (s *SpatialIndex) Insert(h Handle, wx, wy float64) {
	cx, cy := WorldToCell(wx, wy)
	b := bucketOf(cx, cy)
	s.buckets[b] = append(s.buckets[b], h)
}

// Nearby visits handles in the 3x3 bucket block around a cell, in bucket
// then insertion order.
func (s *SpatialIndex) Nearby(cx, cy int, fn func(Handle) bool) {
	bx := clampInt(cx>>bucketShift, 0, bucketsW-1)
	by := clampInt(cy>>bucketShift, 0, bucketsH-1)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			nx, ny := bx+dx, by+dy
			if nx < 0 || nx >= bucketsW || ny < 0 || ny >= bucketsH {
				continue
			}
			for _, h := range s.buckets[ny*bucketsW+nx] {
				if !fn(h) {
					return
				}
			}
		}
	}
}
