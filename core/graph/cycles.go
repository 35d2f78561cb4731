package graph

import (
	"sort"
	"strings"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Cycles enumerates every elementary dependency cycle. Each cycle is
// rotated to start at its smallest id and closes on that id again. Unlike
// TopoSort, which stops at the first cycle, this is meant for validation
// reports.
func (g *Graph) Cycles() [][]string {
	dg := simple.NewDirectedGraph()
	nodeOf := make(map[string]int64, len(g.ids))
	for i, id := range g.ids {
		nodeOf[id] = int64(i)
		dg.AddNode(simple.Node(int64(i)))
	}

	var cycles [][]string
	for _, id := range g.ids {
		for _, dep := range g.preds[id] {
			if dep == id {
				// simple graphs reject self edges
				cycles = append(cycles, []string{id, id})
				continue
			}
			dg.SetEdge(dg.NewEdge(dg.Node(nodeOf[dep]), dg.Node(nodeOf[id])))
		}
	}

	for _, c := range topo.DirectedCyclesIn(dg) {
		ids := make([]string, 0, len(c))
		for _, n := range c[:len(c)-1] {
			ids = append(ids, g.ids[n.ID()])
		}
		cycles = append(cycles, rotate(ids))
	}

	sort.Slice(cycles, func(i, j int) bool {
		return strings.Join(cycles[i], "\x00") < strings.Join(cycles[j], "\x00")
	})
	return cycles
}

func rotate(ids []string) []string {
	lo := 0
	for i, id := range ids {
		if id < ids[lo] {
			lo = i
		}
	}
	out := make([]string, 0, len(ids)+1)
	out = append(out, ids[lo:]...)
	out = append(out, ids[:lo]...)
	return append(out, out[0])
}
