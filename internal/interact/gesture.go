package interact

import (
	"nodeflow/internal/geom"
	"nodeflow/internal/graph"
)

// The four pointer events the canvas delivers while a port is captured.
// Points are in canvas space.

func (m *Machine) PressOutput(p geom.Point) {
	m.StartConnect(p)
}

// PressInput picks up an existing link when the pressed input holds one,
// otherwise starts a plain drag.
func (m *Machine) PressInput(p geom.Point) {
	if NearestOccupiedInput(m.g, p) != nil {
		m.StartConnectFromInput(p)
		return
	}
	m.StartConnect(p)
}

func (m *Machine) Move(p geom.Point) {
	m.MoveConnect(p)
}

func (m *Machine) Release(p geom.Point) (*graph.Connection, error) {
	return m.EndConnect(p)
}
