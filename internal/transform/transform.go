// Package transform projects port locations reported by the layout layer
// into canvas space and keeps Port.Position current as nodes move.
package transform

import (
	"nodeflow/internal/geom"
	"nodeflow/internal/graph"
)

// View is the active pan/zoom of the canvas viewport. Pan is the canvas
// point shown at the viewport origin.
type View struct {
	Pan  geom.Point
	Zoom float64
}

func (v View) zoom() float64 {
	if v.Zoom <= 0 {
		return 1
	}
	return v.Zoom
}

// ScreenToCanvas converts a viewport position to canvas space.
func (v View) ScreenToCanvas(p geom.Point) geom.Point {
	return p.Scale(1 / v.zoom()).Add(v.Pan)
}

// CanvasToScreen converts a canvas position to viewport space.
func (v View) CanvasToScreen(p geom.Point) geom.Point {
	return p.Sub(v.Pan).Scale(v.zoom())
}

// Layout is the visual layout layer. PortOffset reports where a port's
// anchor sits inside its node's box, in screen units at the current zoom.
// ok is false while the layout has not placed the port yet.
type Layout interface {
	PortOffset(p *graph.Port) (off geom.Point, ok bool)
}

// Provider publishes canvas-space port positions. Refreshing is
// synchronous and only ever writes Port positions.
type Provider struct {
	layout Layout
	view   View
}

func NewProvider(layout Layout) *Provider {
	return &Provider{layout: layout, view: View{Zoom: 1}}
}

func (pr *Provider) View() View { return pr.view }

// Zoomer is implemented by layouts that draw at the view's zoom.
type Zoomer interface {
	SetZoom(z float64)
}

// SetView records a new pan/zoom. Callers refresh afterwards.
func (pr *Provider) SetView(v View) {
	pr.view = v
	if z, ok := pr.layout.(Zoomer); ok {
		z.SetZoom(v.zoom())
	}
}

// PortPosition computes the canvas anchor of p without storing it.
func (pr *Provider) PortPosition(p *graph.Port) (geom.Point, bool) {
	off, ok := pr.layout.PortOffset(p)
	if !ok || p.Node() == nil {
		return geom.Point{}, false
	}
	return p.Node().Position().Add(off.Scale(1 / pr.view.zoom())), true
}

// RefreshPortPositions recomputes every port of n. Ports the layout has not
// placed keep their previous position.
func (pr *Provider) RefreshPortPositions(n *graph.Node) {
	for _, p := range n.Ports() {
		if pos, ok := pr.PortPosition(p); ok {
			p.SetPosition(pos)
		}
	}
}

// RefreshAll refreshes every node of g, in insertion order.
func (pr *Provider) RefreshAll(g *graph.Graph) {
	for _, n := range g.Nodes() {
		pr.RefreshPortPositions(n)
	}
}

// Watch keeps g's port positions current: node additions, moves and
// resizes are refreshed inside the publishing call, before control
// returns to whoever moved the node.
func (pr *Provider) Watch(g *graph.Graph) (cancel func()) {
	return g.Events().Subscribe(func(e graph.Event) {
		switch e.Kind {
		case graph.NodeAdded, graph.NodeMoved, graph.NodeResized:
			pr.RefreshPortPositions(e.Node)
		}
	})
}
