package world

import "fmt"

// systemDef declares one simulation sub-system. Ordering constraints are
// expressed as "runs after" edges; the scheduler topologically sorts the
// set once at world construction with a stable Kahn pass so the final
// order is identical across runs and across hosts.
type systemDef struct {
	name  string
	after []string
	slow  bool // run only on slow ticks
	fn    func(w *World)
}

type scheduler struct {
	fast []systemDef
	slow []systemDef
}

func newScheduler(defs []systemDef) (*scheduler, error) {
	ordered, err := topoSort(defs)
	if err != nil {
		return nil, err
	}
	s := &scheduler{}
	for _, d := range ordered {
		if d.slow {
			s.slow = append(s.slow, d)
		} else {
			s.fast = append(s.fast, d)
		}
	}
	return s, nil
}

// topoSort is a stable Kahn sort: among ready systems the one declared
// first runs first, so declaration order breaks ties deterministically.
func topoSort(defs []systemDef) ([]systemDef, error) {
	pos := make(map[string]int, len(defs))
	for i, d := range defs {
		if _, dup := pos[d.name]; dup {
			return nil, fmt.Errorf("duplicate system %q", d.name)
		}
		pos[d.name] = i
	}

	indeg := make([]int, len(defs))
	dependents := make([][]int, len(defs))
	for i, d := range defs {
		for _, dep := range d.after {
			j, ok := pos[dep]
			if !ok {
				return nil, fmt.Errorf("system %q: unknown dependency %q", d.name, dep)
			}
			indeg[i]++
			dependents[j] = append(dependents[j], i)
		}
	}

	var ready []int
	for i := range defs {
		if indeg[i] == 0 {
			ready = append(ready, i)
		}
	}

	out := make([]systemDef, 0, len(defs))
	for len(ready) > 0 {
		// pick the lowest declaration index among ready
		best := 0
		for k := 1; k < len(ready); k++ {
			if ready[k] < ready[best] {
				best = k
			}
		}
		i := ready[best]
		ready = append(ready[:best], ready[best+1:]...)
		out = append(out, defs[i])
		for _, dep := range dependents[i] {
			indeg[dep]--
			if indeg[dep] == 0 {
				ready = append(ready, dep)
			}
		}
	}
	if len(out) != len(defs) {
		return nil, fmt.Errorf("cycle in system ordering")
	}
	return out, nil
}

func (s *scheduler) runFast(w *World) {
	for i := range s.fast {
		s.fast[i].fn(w)
	}
}

func (s *scheduler) runSlow(w *World) {
	for i := range s.slow {
		s.slow[i].fn(w)
	}
}
