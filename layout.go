package main

import (
	"slices"

	"nodeflow/internal/geom"
	"nodeflow/internal/graph"
)

const (
	layerGap = 10 * cellWidth
	nodeGap  = 2 * cellHeight
)

// layers assigns every node a column by longest path from the sources.
// Nodes caught in a cycle are placed one column after their deepest
// already placed predecessor.
func layers(g *graph.Graph) map[*graph.Node]int {
	nodes := g.Nodes()
	preds := make(map[*graph.Node][]*graph.Node, len(nodes))
	succs := make(map[*graph.Node][]*graph.Node, len(nodes))
	for _, c := range g.Connections() {
		src, dst := c.Source().Node(), c.Target().Node()
		if !slices.Contains(preds[dst], src) {
			preds[dst] = append(preds[dst], src)
			succs[src] = append(succs[src], dst)
		}
	}

	indegree := make(map[*graph.Node]int, len(nodes))
	layer := make(map[*graph.Node]int, len(nodes))
	var queue []*graph.Node
	for _, n := range nodes {
		layer[n] = 0
		indegree[n] = len(preds[n])
		if indegree[n] == 0 {
			queue = append(queue, n)
		}
	}

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, s := range succs[n] {
			layer[s] = max(layer[s], layer[n]+1)
			indegree[s]--
			if indegree[s] == 0 {
				queue = append(queue, s)
			}
		}
	}

	// Whatever still has predecessors left sits on a cycle. Resolve those
	// in insertion order against the nodes placed so far.
	for _, n := range nodes {
		if indegree[n] == 0 {
			continue
		}
		for _, p := range preds[n] {
			if indegree[p] == 0 {
				layer[n] = max(layer[n], layer[p]+1)
			}
		}
		indegree[n] = 0
	}
	return layer
}

// autoLayout computes left-to-right layered positions. Columns keep their
// nodes' current top-to-bottom order and are centred on the tallest
// column. The layout starts at the top-left corner of the current graph.
func autoLayout(g *graph.Graph) map[*graph.Node]geom.Point {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return nil
	}
	layer := layers(g)

	var bounds geom.Rect
	columns := [][]*graph.Node{}
	for _, n := range nodes {
		bounds = bounds.Union(n.Bounds())
		l := layer[n]
		for len(columns) <= l {
			columns = append(columns, nil)
		}
		columns[l] = append(columns[l], n)
	}

	widths := make([]float64, len(columns))
	heights := make([]float64, len(columns))
	tallest := 0.0
	for i, col := range columns {
		slices.SortStableFunc(col, func(a, b *graph.Node) int {
			switch ay, by := a.Position().Y, b.Position().Y; {
			case ay < by:
				return -1
			case ay > by:
				return 1
			}
			return 0
		})
		for j, n := range col {
			w, h := n.Size()
			widths[i] = max(widths[i], w)
			heights[i] += h
			if j > 0 {
				heights[i] += nodeGap
			}
		}
		tallest = max(tallest, heights[i])
	}

	out := make(map[*graph.Node]geom.Point, len(nodes))
	x := bounds.X
	for i, col := range columns {
		y := bounds.Y + (tallest-heights[i])/2
		for _, n := range col {
			out[n] = geom.Pt(x, y)
			_, h := n.Size()
			y += h + nodeGap
		}
		x += widths[i] + layerGap
	}
	return out
}

// applyAutoLayout moves every node to its layered position. Port positions
// follow through the editor's move hooks.
func (m *model) applyAutoLayout() {
	if m.editor.Busy() {
		m.errorMessage = "Finish the connection drag first"
		return
	}
	positions := autoLayout(m.editor.Graph)
	for _, n := range m.editor.Graph.Nodes() {
		p, ok := positions[n]
		if !ok {
			continue
		}
		m.editor.MoveNode(n, p.X-n.Position().X, p.Y-n.Position().Y)
	}
	m.successMessage = "Layout applied"
}
