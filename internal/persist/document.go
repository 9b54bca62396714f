package persist

import "encoding/json"

// FormatVersion is the only document version this build reads and writes.
const FormatVersion = 1

// Document is the persisted form of a graph. Connections point at ports by
// id, never by copy, so a port reachable from its node and from a link is
// the same object again after loading.
type Document struct {
	Version     int             `json:"version"`
	Nodes       []NodeDoc       `json:"nodes"`
	Connections []ConnectionDoc `json:"connections"`
}

type NodeDoc struct {
	ID          string        `json:"id" validate:"required"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	X           float64       `json:"x"`
	Y           float64       `json:"y"`
	Width       float64       `json:"width" validate:"gte=0"`
	Height      float64       `json:"height" validate:"gte=0"`
	Z           int           `json:"z"`
	Properties  []PropertyDoc `json:"properties,omitempty" validate:"dive"`
	Inputs      []PortDoc     `json:"inputs,omitempty" validate:"dive"`
	Outputs     []PortDoc     `json:"outputs,omitempty" validate:"dive"`
}

type PortDoc struct {
	ID        string `json:"id" validate:"required"`
	Name      string `json:"name" validate:"required"`
	Type      string `json:"type"`
	Direction string `json:"direction,omitempty" validate:"omitempty,oneof=input output"`
}

type PropertyDoc struct {
	Name  string          `json:"name" validate:"required"`
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

type ConnectionDoc struct {
	Source string `json:"source" validate:"required"`
	Target string `json:"target" validate:"required"`
}

type colorDoc struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// unresolved carries a property whose tag could not be resolved, so saving
// the graph again writes back exactly what was read.
type unresolved struct {
	Tag string
	Raw json.RawMessage
}
