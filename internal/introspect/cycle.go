package introspect

import (
	"sort"
	"strings"

	"github.com/roach88/propsel/internal/model"
)

// baseGraph maps a type to its declared base (at most one edge per node).
type baseGraph map[model.TypeID][]model.TypeID

// baseCycles finds every cyclic base chain in defs.
//
// The algorithm:
//  1. Build type → base edges for bases that are declared
//  2. Use Tarjan's algorithm to find strongly connected components
//  3. Report each SCC with size > 1, or a self-loop, as a cycle path
//
// Paths start at the SCC member that sorts first so results are stable.
func baseCycles(defs []TypeDef) [][]model.TypeID {
	graph := make(baseGraph, len(defs))
	declared := make(map[model.TypeID]bool, len(defs))
	for _, td := range defs {
		declared[td.ID] = true
	}
	var nodes []model.TypeID
	for _, td := range defs {
		if _, ok := graph[td.ID]; ok {
			continue
		}
		nodes = append(nodes, td.ID)
		graph[td.ID] = nil
		if !td.Base.IsZero() && declared[td.Base] {
			graph[td.ID] = []model.TypeID{td.Base}
		}
	}

	var cycles [][]model.TypeID
	for _, scc := range tarjanSCC(graph, nodes) {
		if len(scc) > 1 || hasSelfLoop(scc[0], graph) {
			cycles = append(cycles, cyclePath(scc, graph))
		}
	}
	return cycles
}

func hasSelfLoop(node model.TypeID, graph baseGraph) bool {
	for _, next := range graph[node] {
		if next == node {
			return true
		}
	}
	return false
}

// tarjanSCC finds strongly connected components, visiting nodes in the
// given order for deterministic output.
func tarjanSCC(graph baseGraph, nodes []model.TypeID) [][]model.TypeID {
	var (
		index   = 0
		stack   []model.TypeID
		indices = make(map[model.TypeID]int)
		lowlink = make(map[model.TypeID]int)
		onStack = make(map[model.TypeID]bool)
		sccs    [][]model.TypeID
	)

	var strongConnect func(model.TypeID)
	strongConnect = func(v model.TypeID) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] == indices[v] {
			var scc []model.TypeID
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for _, node := range nodes {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}
	return sccs
}

// cyclePath walks base edges from the smallest SCC member back to itself.
func cyclePath(scc []model.TypeID, graph baseGraph) []model.TypeID {
	sort.Slice(scc, func(i, j int) bool { return scc[i].String() < scc[j].String() })
	start := scc[0]
	path := []model.TypeID{start}
	current := start
	for range scc {
		edges := graph[current]
		if len(edges) == 0 {
			break
		}
		current = edges[0]
		path = append(path, current)
		if current == start {
			break
		}
	}
	return path
}

func formatPath(path []model.TypeID) string {
	parts := make([]string, len(path))
	for i, id := range path {
		parts[i] = id.String()
	}
	return strings.Join(parts, " → ")
}
