package graph

import (
	"slices"

	"nodeflow/internal/geom"
)

const (
	DefaultNodeWidth  = 200
	DefaultNodeHeight = 120

	MinNodeWidth  = 40
	MinNodeHeight = 24
)

// Node is a box on the canvas with fixed input and output ports and an
// ordered list of properties.
type Node struct {
	Title       string
	Description string

	pos      geom.Point
	w, h     float64
	z        int
	selected bool

	inputs  []*Port
	outputs []*Port
	props   []*Property

	g *Graph
}

// NodeOption configures a node at construction time.
type NodeOption func(*Node)

func WithPosition(x, y float64) NodeOption {
	return func(n *Node) { n.pos = geom.Pt(x, y) }
}

func WithSize(w, h float64) NodeOption {
	return func(n *Node) { n.w, n.h = w, h }
}

func WithDescription(d string) NodeOption {
	return func(n *Node) { n.Description = d }
}

func WithInput(name string, tag TypeTag) NodeOption {
	return func(n *Node) {
		p := newPort(name, tag, Input)
		p.node = n
		n.inputs = append(n.inputs, p)
	}
}

func WithOutput(name string, tag TypeTag) NodeOption {
	return func(n *Node) {
		p := newPort(name, tag, Output)
		p.node = n
		n.outputs = append(n.outputs, p)
	}
}

func WithProperty(name string, v Value) NodeOption {
	return func(n *Node) {
		p := NewProperty(name, v)
		p.node = n
		n.props = append(n.props, p)
	}
}

// WithTypedProperty declares a property whose type differs from its value's
// tag, which only happens when loading a document with an unresolved tag.
func WithTypedProperty(name string, tag TypeTag, v Value) NodeOption {
	return func(n *Node) {
		p := &Property{Name: name, Type: tag, value: v, node: n}
		n.props = append(n.props, p)
	}
}

// NewNode builds a detached node. Its ports are fixed from here on.
func NewNode(title string, opts ...NodeOption) *Node {
	n := &Node{Title: title, w: DefaultNodeWidth, h: DefaultNodeHeight}
	for _, opt := range opts {
		opt(n)
	}
	n.w, n.h = clampSize(n.w, n.h)
	return n
}

func clampSize(w, h float64) (float64, float64) {
	if w < MinNodeWidth {
		w = MinNodeWidth
	}
	if h < MinNodeHeight {
		h = MinNodeHeight
	}
	return w, h
}

func (n *Node) publish(e Event) {
	if n.g != nil {
		n.g.bus.Publish(e)
	}
}

// Graph returns the graph the node belongs to, or nil when detached.
func (n *Node) Graph() *Graph { return n.g }

func (n *Node) Position() geom.Point { return n.pos }

func (n *Node) Size() (w, h float64) { return n.w, n.h }

func (n *Node) Bounds() geom.Rect {
	return geom.Rect{X: n.pos.X, Y: n.pos.Y, W: n.w, H: n.h}
}

func (n *Node) MoveTo(x, y float64) {
	p := geom.Pt(x, y)
	if p == n.pos {
		return
	}
	n.pos = p
	n.publish(Event{Kind: NodeMoved, Node: n})
}

func (n *Node) MoveBy(dx, dy float64) {
	n.MoveTo(n.pos.X+dx, n.pos.Y+dy)
}

// Resize sets the node size, clamped to the minimum box.
func (n *Node) Resize(w, h float64) {
	w, h = clampSize(w, h)
	if w == n.w && h == n.h {
		return
	}
	n.w, n.h = w, h
	n.publish(Event{Kind: NodeResized, Node: n})
}

// Z is the stacking index; larger is further front.
func (n *Node) Z() int { return n.z }

// SetZ stores a stacking index. Ordering policy lives in the zorder package.
func (n *Node) SetZ(z int) {
	if z == n.z {
		return
	}
	n.z = z
	n.publish(Event{Kind: ZOrderChanged, Node: n})
}

func (n *Node) Selected() bool { return n.selected }

func (n *Node) SetSelected(v bool) {
	if v == n.selected {
		return
	}
	n.selected = v
	n.publish(Event{Kind: SelectionChanged, Node: n})
}

func (n *Node) Inputs() []*Port  { return slices.Clone(n.inputs) }
func (n *Node) Outputs() []*Port { return slices.Clone(n.outputs) }

// Ports returns inputs followed by outputs.
func (n *Node) Ports() []*Port {
	out := make([]*Port, 0, len(n.inputs)+len(n.outputs))
	out = append(out, n.inputs...)
	return append(out, n.outputs...)
}

// Owns reports whether p is one of this node's ports.
func (n *Node) Owns(p *Port) bool {
	return p != nil && p.node == n
}

func (n *Node) Properties() []*Property { return slices.Clone(n.props) }

// Property looks a property up by name.
func (n *Node) Property(name string) *Property {
	for _, p := range n.props {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Input looks an input port up by name.
func (n *Node) Input(name string) *Port {
	return findPort(n.inputs, name)
}

// Output looks an output port up by name.
func (n *Node) Output(name string) *Port {
	return findPort(n.outputs, name)
}

func findPort(ports []*Port, name string) *Port {
	for _, p := range ports {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func (n *Node) String() string { return n.Title }
