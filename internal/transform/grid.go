package transform

import (
	"nodeflow/internal/geom"
	"nodeflow/internal/graph"
)

// GridLayout places ports on a box drawn in fixed-size cells: the title
// takes the first row, then one row per port with inputs on the left edge
// and outputs on the right edge. It is what the terminal canvas and the PNG
// export draw.
//
// The box is drawn at the view's zoom, so offsets are scaled by Zoom. Pass
// a *GridLayout to NewProvider and SetView keeps Zoom in step.
type GridLayout struct {
	CellW, CellH float64
	Zoom         float64
}

func (l *GridLayout) SetZoom(z float64) { l.Zoom = z }

func (l GridLayout) scale() float64 {
	if l.Zoom <= 0 {
		return 1
	}
	return l.Zoom
}

// PortRow returns the zero-based row of p inside its node, or -1.
func PortRow(p *graph.Port) int {
	n := p.Node()
	if n == nil {
		return -1
	}
	ports := n.Outputs()
	if p.IsInput() {
		ports = n.Inputs()
	}
	for i, q := range ports {
		if q == p {
			return i + 1
		}
	}
	return -1
}

func (l GridLayout) PortOffset(p *graph.Port) (geom.Point, bool) {
	row := PortRow(p)
	if row < 0 {
		return geom.Point{}, false
	}
	y := float64(row)*l.CellH + l.CellH/2
	if p.IsInput() {
		return geom.Pt(0, y).Scale(l.scale()), true
	}
	w, _ := p.Node().Size()
	return geom.Pt(w, y).Scale(l.scale()), true
}

// Rows is the minimum number of cell rows a node needs to show its title
// and every port.
func Rows(n *graph.Node) int {
	return 1 + max(len(n.Inputs()), len(n.Outputs()))
}
