// Package interact owns the drag-to-connect gesture.
//
// The machine is either Idle or Dragging. A drag pins an optional source
// output port, tracks the free end of a temporary line under the pointer,
// snaps that end onto the nearest eligible input, and on release commits
// a connection through the graph model. Every transition leaves the graph
// consistent; a drag that finds no target simply changes nothing.
package interact

import (
	"log/slog"

	"nodeflow/internal/geom"
	"nodeflow/internal/graph"
)

type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// Renderer is asked to redraw whenever the temporary line or the set of
// links changes.
type Renderer interface {
	RequestRedraw()
}

// RendererFunc adapts a plain function to Renderer.
type RendererFunc func()

func (f RendererFunc) RequestRedraw() { f() }

// TempLine is the rubber-band line drawn while dragging.
type TempLine struct {
	Start, End geom.Point
	Visible    bool
}

type Machine struct {
	g        *graph.Graph
	renderer Renderer
	log      *slog.Logger

	state  State
	source *graph.Port
	target *graph.Port
	line   TempLine

	unsubscribe func()
}

type Option func(*Machine)

func WithRenderer(r Renderer) Option {
	return func(m *Machine) { m.renderer = r }
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Machine) { m.log = l }
}

// New builds an idle machine over g. The machine watches g so that a drag
// whose source node disappears is cancelled; call Close to stop watching.
func New(g *graph.Graph, opts ...Option) *Machine {
	m := &Machine{g: g}
	for _, opt := range opts {
		opt(m)
	}
	if m.log == nil {
		m.log = slog.New(slog.DiscardHandler)
	}
	m.unsubscribe = g.Events().Subscribe(m.onGraphEvent)
	return m
}

func (m *Machine) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

func (m *Machine) State() State        { return m.state }
func (m *Machine) Source() *graph.Port { return m.source }
func (m *Machine) Target() *graph.Port { return m.target }
func (m *Machine) TempLine() TempLine  { return m.line }

func (m *Machine) redraw() {
	if m.renderer != nil {
		m.renderer.RequestRedraw()
	}
}

// StartConnect begins a drag at p. The closest output port within
// SnapRadius becomes the pinned source. With no output in range, an
// occupied input in range is picked up instead (see StartConnectFromInput);
// with neither, the drag proceeds without a source and will not connect.
func (m *Machine) StartConnect(p geom.Point) {
	src := NearestOutput(m.g, p)
	if src == nil {
		if in := NearestOccupiedInput(m.g, p); in != nil {
			m.pickUp(in, p)
			return
		}
	}

	start := p
	if src != nil {
		start = src.Position()
	}
	m.state = Dragging
	m.source = src
	m.target = nil
	m.line = TempLine{Start: start, End: p, Visible: true}
	m.log.Debug("connect start", "source", portName(src), "x", p.X, "y", p.Y)
	m.redraw()
}

// StartConnectFromInput picks up the link attached to the closest occupied
// input within SnapRadius: the link is removed, its former source is
// pinned again and the free end follows the pointer from p. With no
// occupied input in range it behaves like StartConnect.
func (m *Machine) StartConnectFromInput(p geom.Point) {
	in := NearestOccupiedInput(m.g, p)
	if in == nil {
		m.StartConnect(p)
		return
	}
	m.pickUp(in, p)
}

// CancelConnect is the historical name of StartConnectFromInput.
func (m *Machine) CancelConnect(p geom.Point) {
	m.StartConnectFromInput(p)
}

func (m *Machine) pickUp(in *graph.Port, p geom.Point) {
	c := in.Connections()[0]
	src := c.Source()
	m.g.Disconnect(c)

	m.state = Dragging
	m.source = src
	m.target = nil
	m.line = TempLine{Start: src.Position(), End: p, Visible: true}
	m.log.Debug("connect pick up", "source", portName(src), "from", portName(in))
	m.MoveConnect(p)
}

// MoveConnect moves the free end to p and snaps it onto the closest input
// within SnapRadius that is not on the source's node. Ignored while Idle.
func (m *Machine) MoveConnect(p geom.Point) {
	if m.state != Dragging {
		return
	}
	var exclude *graph.Node
	if m.source != nil {
		exclude = m.source.Node()
	}

	m.target = NearestInput(m.g, p, exclude)
	m.line.End = p
	if m.target != nil {
		m.line.End = m.target.Position()
	}
	m.redraw()
}

// EndConnect finishes the drag at release point p. The pending target is
// re-evaluated at p first; if both a source and a target are held, a link
// is committed, replacing whatever the target input held before. The
// machine always returns to Idle. Ignored while Idle.
func (m *Machine) EndConnect(p geom.Point) (*graph.Connection, error) {
	if m.state != Dragging {
		return nil, nil
	}
	m.MoveConnect(p)
	src, dst := m.source, m.target
	m.reset()

	if src == nil || dst == nil {
		m.log.Debug("connect abandoned", "source", portName(src))
		m.redraw()
		return nil, nil
	}

	for _, old := range dst.Connections() {
		m.g.Disconnect(old)
	}
	c, err := m.g.Connect(src, dst)
	if err != nil {
		m.log.Warn("connect rejected", "source", portName(src), "target", portName(dst), "error", err)
		m.redraw()
		return nil, err
	}
	m.log.Debug("connect commit", "connection", c.String())
	m.redraw()
	return c, nil
}

// Cancel abandons a drag without touching the graph. Safe while Idle.
func (m *Machine) Cancel() {
	if m.state == Idle {
		return
	}
	m.reset()
	m.log.Debug("connect cancelled")
	m.redraw()
}

func (m *Machine) reset() {
	m.state = Idle
	m.source = nil
	m.target = nil
	m.line = TempLine{}
}

func (m *Machine) onGraphEvent(e graph.Event) {
	if m.state != Dragging {
		return
	}
	switch e.Kind {
	case graph.GraphReset:
		m.Cancel()
	case graph.NodeRemoved:
		if m.source != nil && !m.g.Contains(m.source.Node()) {
			m.Cancel()
			return
		}
		if m.target != nil && !m.g.Contains(m.target.Node()) {
			m.target = nil
			m.redraw()
		}
	}
}

func portName(p *graph.Port) string {
	if p == nil {
		return "<none>"
	}
	return p.String()
}
