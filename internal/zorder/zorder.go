// Package zorder keeps the front-to-back stacking of nodes.
//
// Indices stay dense: BringToFront gives the node count-1 and shifts every
// other node down by one. A stack with gaps or ties, as left by a removed
// node or a loaded document, is renumbered 0..count-1 in its current order
// first. When the pass would leave an index below zero the stack is
// renumbered again, so indices never drift negative over a long session.
package zorder

import (
	"slices"

	"nodeflow/internal/geom"
	"nodeflow/internal/graph"
)

type Manager struct {
	g *graph.Graph
}

func New(g *graph.Graph) *Manager {
	return &Manager{g: g}
}

// BringToFront raises n above every other node. The full decrement pass runs
// even when n is already frontmost.
func (m *Manager) BringToFront(n *graph.Node) {
	if !m.g.Contains(n) {
		return
	}
	if !dense(m.g.Nodes()) {
		m.Normalize()
	}
	nodes := m.g.Nodes()
	underflow := false
	for _, other := range nodes {
		if other == n {
			continue
		}
		other.SetZ(other.Z() - 1)
		if other.Z() < 0 {
			underflow = true
		}
	}
	n.SetZ(len(nodes) - 1)
	if underflow {
		m.Normalize()
	}
}

// SendToBack lowers n below every other node.
func (m *Manager) SendToBack(n *graph.Node) {
	if !m.g.Contains(n) {
		return
	}
	order := m.Ordered()
	i := slices.Index(order, n)
	order = slices.Delete(order, i, i+1)
	order = slices.Insert(order, 0, n)
	renumber(order)
}

// Normalize renumbers the stack to 0..count-1 keeping the current order.
func (m *Manager) Normalize() {
	renumber(m.Ordered())
}

// dense reports whether the indices are exactly 0..len(nodes)-1.
func dense(nodes []*graph.Node) bool {
	seen := make([]bool, len(nodes))
	for _, n := range nodes {
		z := n.Z()
		if z < 0 || z >= len(nodes) || seen[z] {
			return false
		}
		seen[z] = true
	}
	return true
}

func renumber(order []*graph.Node) {
	for i, n := range order {
		n.SetZ(i)
	}
}

// Ordered returns the nodes back to front. Equal indices keep insertion order.
func (m *Manager) Ordered() []*graph.Node {
	nodes := m.g.Nodes()
	slices.SortStableFunc(nodes, func(a, b *graph.Node) int {
		return a.Z() - b.Z()
	})
	return nodes
}

// TopAt returns the frontmost node whose bounds contain p, or nil.
func (m *Manager) TopAt(p geom.Point) *graph.Node {
	order := m.Ordered()
	for i := len(order) - 1; i >= 0; i-- {
		if order[i].Bounds().Contains(p) {
			return order[i]
		}
	}
	return nil
}
