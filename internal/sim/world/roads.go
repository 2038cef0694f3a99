package world

import "sort"

// RoadNetwork is the sparse 4-connected adjacency over road cells. It is
// updated incrementally on every edit; the CSR graph is rebuilt from it
// lazily when the generation counter moves.
type RoadNetwork struct {
	adj map[int32][]int32
	gen uint64
}

func NewRoadNetwork() *RoadNetwork {
	return &RoadNetwork{adj: make(map[int32][]int32)}
}

func (n *RoadNetwork) Generation() uint64 { return n.gen }

func (n *RoadNetwork) Has(idx int32) bool {
	_, ok := n.adj[idx]
	return ok
}

func (n *RoadNetwork) Len() int { return len(n.adj) }

// Neighbors returns the linked road neighbors of a road cell.
func (n *RoadNetwork) Neighbors(idx int32) []int32 {
	return n.adj[idx]
}

// Cells returns all road cells in ascending index order.
func (n *RoadNetwork) Cells() []int32 {
	out := make([]int32, 0, len(n.adj))
	for idx := range n.adj {
		out = append(out, idx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// AddCell registers a road cell and links it to adjacent road cells.
func (n *RoadNetwork) AddCell(idx int32) {
	if _, ok := n.adj[idx]; ok {
		return
	}
	n.adj[idx] = nil
	var buf [4]int32
	cnt := Neighbors4(idx, &buf)
	for i := 0; i < cnt; i++ {
		nb := buf[i]
		if _, ok := n.adj[nb]; ok {
			n.adj[idx] = append(n.adj[idx], nb)
			n.adj[nb] = append(n.adj[nb], idx)
		}
	}
	n.gen++
}

// RemoveCell unlinks and deletes a road cell.
func (n *RoadNetwork) RemoveCell(idx int32) {
	nbs, ok := n.adj[idx]
	if !ok {
		return
	}
	for _, nb := range nbs {
		n.adj[nb] = removeInt32(n.adj[nb], idx)
	}
	delete(n.adj, idx)
	n.gen++
}

func (n *RoadNetwork) Reset() {
	n.adj = make(map[int32][]int32)
	n.gen++
}

func removeInt32(s []int32, v int32) []int32 {
	for i, x := range s {
		if x == v {
			s[i] = s[len(s)-1]
			return s[:len(s)-1]
		}
	}
	return s
}
