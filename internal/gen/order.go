package gen

import (
	"errors"
	"fmt"
	"sort"
)

// stage groups thread functions by their place in the servo cycle.
type stage int

const (
	stageRead stage = iota
	stageMotion
	stageCompute
	stageWrite
	stageWatchdog
)

// function is one addf entry.
type function struct {
	Name  string
	Stage stage
	// After names functions of the same stage whose outputs this one reads.
	After []string
}

// orderFunctions returns the functions in execution order. Every function
// runs after all functions of earlier stages and after the ones it names.
// Ties keep input order.
func orderFunctions(fns []function) ([]function, error) {
	index := make(map[string]int, len(fns))
	for i, f := range fns {
		index[f.Name] = i
	}

	order, err := topoSort(len(fns), func(i int) []int {
		var deps []int

		for j, f := range fns {
			if f.Stage < fns[i].Stage {
				deps = append(deps, j)
			}
		}

		for _, name := range fns[i].After {
			if j, ok := index[name]; ok {
				deps = append(deps, j)
			}
		}

		return deps
	})
	if err != nil {
		return nil, err
	}

	out := make([]function, 0, len(order))
	for _, i := range order {
		out = append(out, fns[i])
	}

	return out, nil
}

// topoSort returns indices in execution order.
//
// Nodes are by index. depsFn(i) yields indices that must come before i.
// When several nodes are ready the smallest index is taken, so the result
// is deterministic. A cycle is an error.
func topoSort(n int, depsFn func(i int) []int) ([]int, error) {
	if n <= 0 {
		return nil, nil
	}

	indeg := make([]int, n)
	out := make([][]int, n)

	for i := range n {
		for _, d := range depsFn(i) {
			if d < 0 || d >= n {
				return nil, fmt.Errorf("dependency index out of range: %d depends on %d", i, d)
			}

			indeg[i]++
			out[d] = append(out[d], i)
		}
	}

	for i := range out {
		sort.Ints(out[i])
	}

	var ready []int

	for i := range n {
		if indeg[i] == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]int, 0, n)

	for len(ready) > 0 {
		i := ready[0]
		ready = ready[1:]

		order = append(order, i)
		for _, j := range out[i] {
			indeg[j]--
			if indeg[j] == 0 {
				// keep ready sorted
				k := sort.SearchInts(ready, j)
				ready = append(ready, 0)
				copy(ready[k+1:], ready[k:])
				ready[k] = j
			}
		}
	}

	if len(order) != n {
		return nil, errors.New("cycle detected")
	}

	return order, nil
}
