package graph

import (
	"slices"

	"nodeflow/internal/geom"
)

// Direction says which way data flows through a port.
type Direction int

const (
	Input Direction = iota
	Output
)

func (d Direction) String() string {
	if d == Output {
		return "output"
	}
	return "input"
}

// Port is a typed connection point owned by exactly one node. Input ports
// hold at most one connection; output ports fan out.
type Port struct {
	Name string
	Type TypeTag

	dir      Direction
	node     *Node
	position geom.Point
	conns    []*Connection
}

func newPort(name string, tag TypeTag, dir Direction) *Port {
	return &Port{Name: name, Type: tag, dir: dir}
}

func (p *Port) Direction() Direction { return p.dir }
func (p *Port) IsInput() bool        { return p.dir == Input }
func (p *Port) IsOutput() bool       { return p.dir == Output }

// Node returns the owning node.
func (p *Port) Node() *Node { return p.node }

// Position is the port's anchor in canvas space, as last published by the
// position provider.
func (p *Port) Position() geom.Point { return p.position }

// SetPosition stores a new anchor and notifies subscribers when it changed.
func (p *Port) SetPosition(pos geom.Point) {
	if p.position == pos {
		return
	}
	p.position = pos
	if p.node != nil {
		p.node.publish(Event{Kind: PortMoved, Node: p.node, Port: p})
	}
}

// Connections returns a copy of the attached connections.
func (p *Port) Connections() []*Connection {
	return slices.Clone(p.conns)
}

// Occupied reports whether any connection is attached.
func (p *Port) Occupied() bool { return len(p.conns) > 0 }

func (p *Port) String() string {
	if p.node == nil {
		return p.Name
	}
	return p.node.Title + "." + p.Name
}

func (p *Port) attach(c *Connection) {
	p.conns = append(p.conns, c)
}

func (p *Port) detach(c *Connection) bool {
	i := slices.Index(p.conns, c)
	if i < 0 {
		return false
	}
	p.conns = slices.Delete(p.conns, i, i+1)
	return true
}

func (p *Port) holds(c *Connection) bool {
	return slices.Contains(p.conns, c)
}

// Connection is a directed link from an output port to an input port.
type Connection struct {
	source *Port
	target *Port
}

func (c *Connection) Source() *Port { return c.source }
func (c *Connection) Target() *Port { return c.target }

func (c *Connection) String() string {
	if c.source == nil || c.target == nil {
		return "<detached>"
	}
	return c.source.String() + " -> " + c.target.String()
}
