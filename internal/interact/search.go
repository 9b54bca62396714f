package interact

import (
	"math"

	"nodeflow/internal/geom"
	"nodeflow/internal/graph"
)

// SnapRadius is how close, in canvas units, the pointer must be to a port
// for the port to count as under the pointer.
const SnapRadius = 15.0

// nearest walks nodes and ports in insertion order and returns the closest
// accepted port within SnapRadius. Only a strictly smaller distance replaces
// the current best, so ties go to the port enumerated first.
func nearest(g *graph.Graph, p geom.Point, ports func(*graph.Node) []*graph.Port, accept func(*graph.Port) bool) *graph.Port {
	var best *graph.Port
	bestDist := math.MaxFloat64
	for _, n := range g.Nodes() {
		for _, port := range ports(n) {
			if accept != nil && !accept(port) {
				continue
			}
			d := geom.Distance(p, port.Position())
			if d <= SnapRadius && d < bestDist {
				best, bestDist = port, d
			}
		}
	}
	return best
}

func outputs(n *graph.Node) []*graph.Port { return n.Outputs() }
func inputs(n *graph.Node) []*graph.Port  { return n.Inputs() }

// NearestOutput returns the output port closest to p within SnapRadius.
func NearestOutput(g *graph.Graph, p geom.Point) *graph.Port {
	return nearest(g, p, outputs, nil)
}

// NearestInput returns the input port closest to p within SnapRadius,
// skipping every port of exclude.
func NearestInput(g *graph.Graph, p geom.Point, exclude *graph.Node) *graph.Port {
	return nearest(g, p, inputs, func(port *graph.Port) bool {
		return exclude == nil || port.Node() != exclude
	})
}

// NearestOccupiedInput returns the closest input within SnapRadius that
// currently holds a connection.
func NearestOccupiedInput(g *graph.Graph, p geom.Point) *graph.Port {
	return nearest(g, p, inputs, (*graph.Port).Occupied)
}
