// Package graph is the node-graph data model: nodes with typed ports and
// properties, directed connections between ports, and the mutation
// operations that keep the three-way connection bookkeeping consistent.
//
// A live connection is always registered in exactly three places: the
// graph's connection list, its source port and its target port. Every
// mutation either updates all three or none of them.
package graph

import (
	"fmt"
	"slices"
)

// Graph is the aggregate root: insertion-ordered nodes and connections.
type Graph struct {
	nodes []*Node
	conns []*Connection
	bus   *Bus
}

func New() *Graph {
	return &Graph{bus: &Bus{}}
}

// Events returns the change-notification bus for this graph.
func (g *Graph) Events() *Bus { return g.bus }

func (g *Graph) Nodes() []*Node { return slices.Clone(g.nodes) }

func (g *Graph) Connections() []*Connection { return slices.Clone(g.conns) }

func (g *Graph) NodeCount() int { return len(g.nodes) }

func (g *Graph) ConnectionCount() int { return len(g.conns) }

// Contains reports whether n currently belongs to g.
func (g *Graph) Contains(n *Node) bool {
	return n != nil && n.g == g
}

// IndexOf returns n's insertion index, or -1.
func (g *Graph) IndexOf(n *Node) int {
	return slices.Index(g.nodes, n)
}

// Find returns the first node with the given title.
func (g *Graph) Find(title string) *Node {
	for _, n := range g.nodes {
		if n.Title == title {
			return n
		}
	}
	return nil
}

// AddNode appends n and places it frontmost: its z-index becomes the node
// count before the append.
func (g *Graph) AddNode(n *Node) error {
	if n.g != nil {
		return fmt.Errorf("add %q: %w", n.Title, ErrNodeAttached)
	}
	n.g = g
	n.z = len(g.nodes)
	g.nodes = append(g.nodes, n)
	g.bus.Publish(Event{Kind: NodeAdded, Node: n})
	return nil
}

// RemoveNode disconnects everything touching n's ports and then removes n.
// It reports false when n is not part of g.
func (g *Graph) RemoveNode(n *Node) bool {
	if !g.Contains(n) {
		return false
	}
	for _, p := range n.Ports() {
		for _, c := range p.Connections() {
			g.Disconnect(c)
		}
	}
	if i := g.IndexOf(n); i >= 0 {
		g.nodes = slices.Delete(g.nodes, i, i+1)
	}
	n.g = nil
	g.bus.Publish(Event{Kind: NodeRemoved, Node: n})
	return true
}

// Connect links an output port to an input port. All checks run before any
// bookkeeping changes, so a failed call leaves the graph untouched. An
// occupied target is reported, not replaced; callers disconnect first.
func (g *Graph) Connect(src, dst *Port) (*Connection, error) {
	if src == nil || dst == nil || !g.Contains(src.node) || !g.Contains(dst.node) {
		return nil, ErrPortNotInGraph
	}
	if src.dir != Output || dst.dir != Input {
		return nil, fmt.Errorf("connect %s -> %s: %w", src, dst, ErrInvalidDirection)
	}
	if src.node == dst.node {
		return nil, fmt.Errorf("connect %s -> %s: %w", src, dst, ErrSelfLoop)
	}
	if dst.Occupied() {
		return nil, fmt.Errorf("connect %s -> %s: %w", src, dst, ErrInputOccupied)
	}

	c := &Connection{source: src, target: dst}
	g.conns = append(g.conns, c)
	src.attach(c)
	dst.attach(c)
	g.bus.Publish(Event{Kind: ConnectionAdded, Connection: c})
	return c, nil
}

// Disconnect unregisters c from the graph and both endpoints. Unknown
// connections are ignored and reported as false.
func (g *Graph) Disconnect(c *Connection) bool {
	if c == nil {
		return false
	}
	i := slices.Index(g.conns, c)
	if i < 0 {
		return false
	}
	g.conns = slices.Delete(g.conns, i, i+1)
	c.source.detach(c)
	c.target.detach(c)
	g.bus.Publish(Event{Kind: ConnectionRemoved, Connection: c})
	return true
}

// Clear removes every node and connection and announces a reset.
func (g *Graph) Clear() {
	for _, c := range g.conns {
		c.source.detach(c)
		c.target.detach(c)
	}
	for _, n := range g.nodes {
		n.g = nil
	}
	g.conns = nil
	g.nodes = nil
	g.bus.Publish(Event{Kind: GraphReset})
}
