package world

import (
	"container/heap"
	"errors"
)

// ErrNoRoute is returned when no drivable path connects two road cells.
var ErrNoRoute = errors.New("no route")

// CSRGraph is the compressed-sparse-row view of the road network, rebuilt
// lazily whenever the network's generation counter moves. Node ids are dense
// positions into nodes; cellToNode inverts the mapping.
type CSRGraph struct {
	nodes      []int32 // node id -> cell index, ascending
	cellToNode map[int32]int32
	rowStart   []int32
	edges      []int32   // neighbor node ids
	weights    []float32 // per-edge traversal cost

	builtGen uint64
}

func NewCSRGraph() *CSRGraph {
	return &CSRGraph{cellToNode: make(map[int32]int32), builtGen: ^uint64(0)}
}

// edgeCost derives the traversal cost of entering a cell from its road
// kind's speed factor and current congestion (0..255 scaled to up to 3x
// slowdown).
func edgeCost(speed float32, congestion uint8) float32 {
	if speed <= 0 {
		speed = 1
	}
	base := 1 / speed
	return base * (1 + 2*float32(congestion)/255)
}

// forbiddenKey packs a directed cell pair.
func forbiddenKey(from, to int32) int64 {
	return int64(from)<<32 | int64(uint32(to))
}

// Build recomputes the CSR arrays from the sparse network. forbidden holds
// directed edges excluded by one-way overlays, traffic supplies congestion
// and speeds maps each road kind to its catalog speed factor.
func (g *CSRGraph) Build(net *RoadNetwork, grid *WorldGrid, forbidden map[int64]bool, traffic []uint8, speeds *[roadCount]float32) {
	cells := net.Cells()
	g.nodes = cells
	g.cellToNode = make(map[int32]int32, len(cells))
	for i, c := range cells {
		g.cellToNode[c] = int32(i)
	}

	g.rowStart = make([]int32, len(cells)+1)
	g.edges = g.edges[:0]
	g.weights = g.weights[:0]
	for i, c := range cells {
		g.rowStart[i] = int32(len(g.edges))
		nbs := net.Neighbors(c)
		// Adjacency lists grow in insertion order; sort for stable output.
		sorted := make([]int32, len(nbs))
		copy(sorted, nbs)
		for a := 1; a < len(sorted); a++ {
			for b := a; b > 0 && sorted[b] < sorted[b-1]; b-- {
				sorted[b], sorted[b-1] = sorted[b-1], sorted[b]
			}
		}
		for _, nb := range sorted {
			if forbidden[forbiddenKey(c, nb)] {
				continue
			}
			to, ok := g.cellToNode[nb]
			if !ok {
				continue
			}
			var cong uint8
			if traffic != nil {
				cong = traffic[nb]
			}
			g.edges = append(g.edges, to)
			g.weights = append(g.weights, edgeCost(speeds[grid.AtIdx(nb).Road], cong))
		}
	}
	g.rowStart[len(cells)] = int32(len(g.edges))
	g.builtGen = net.Generation()
}

// Fresh reports whether the graph matches the network generation.
func (g *CSRGraph) Fresh(net *RoadNetwork) bool { return g.builtGen == net.Generation() }

func (g *CSRGraph) NodeCount() int { return len(g.nodes) }

type pqItem struct {
	node int32
	prio float32
}

type pathPQ []pqItem

func (p pathPQ) Len() int { return len(p) }
func (p pathPQ) Less(i, j int) bool {
	if p[i].prio != p[j].prio {
		return p[i].prio < p[j].prio
	}
	return p[i].node < p[j].node
}
func (p pathPQ) Swap(i, j int)      { p[i], p[j] = p[j], p[i] }
func (p *pathPQ) Push(x any)        { *p = append(*p, x.(pqItem)) }
func (p *pathPQ) Pop() any {
	old := *p
	n := len(old)
	it := old[n-1]
	*p = old[:n-1]
	return it
}

// FindPath runs A* with a Manhattan heuristic from one road cell to another.
// The returned path is cell indices including both endpoints.
func (g *CSRGraph) FindPath(from, to int32) ([]int32, error) {
	src, ok := g.cellToNode[from]
	if !ok {
		return nil, ErrNoRoute
	}
	dst, ok := g.cellToNode[to]
	if !ok {
		return nil, ErrNoRoute
	}
	if src == dst {
		return []int32{from}, nil
	}

	n := len(g.nodes)
	gScore := make([]float32, n)
	cameFrom := make([]int32, n)
	closed := make([]bool, n)
	for i := range gScore {
		gScore[i] = float32(math32Inf)
		cameFrom[i] = -1
	}
	gScore[src] = 0

	h := func(node int32) float32 {
		return float32(ManhattanIdx(g.nodes[node], to)) * 0.4
	}

	pq := pathPQ{{node: src, prio: h(src)}}
	heap.Init(&pq)
	for pq.Len() > 0 {
		cur := heap.Pop(&pq).(pqItem).node
		if closed[cur] {
			continue
		}
		if cur == dst {
			return g.reconstruct(cameFrom, dst), nil
		}
		closed[cur] = true
		for e := g.rowStart[cur]; e < g.rowStart[cur+1]; e++ {
			nb := g.edges[e]
			if closed[nb] {
				continue
			}
			tent := gScore[cur] + g.weights[e]
			if tent < gScore[nb] {
				gScore[nb] = tent
				cameFrom[nb] = cur
				heap.Push(&pq, pqItem{node: nb, prio: tent + h(nb)})
			}
		}
	}
	return nil, ErrNoRoute
}

const math32Inf = float32(1e30)

func (g *CSRGraph) reconstruct(cameFrom []int32, dst int32) []int32 {
	var rev []int32
	for at := dst; at != -1; at = cameFrom[at] {
		rev = append(rev, g.nodes[at])
	}
	out := make([]int32, len(rev))
	for i := range rev {
		out[i] = rev[len(rev)-1-i]
	}
	return out
}
