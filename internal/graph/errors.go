package graph

import "errors"

var (
	// ErrInvalidDirection is returned by Connect unless the source is an
	// output port and the target is an input port.
	ErrInvalidDirection = errors.New("connection must run from an output port to an input port")

	// ErrSelfLoop is returned when both endpoints belong to the same node.
	ErrSelfLoop = errors.New("connection endpoints belong to the same node")

	// ErrInputOccupied is returned when the target input already holds a
	// connection. Connect never replaces an existing link on its own.
	ErrInputOccupied = errors.New("input port already has a connection")

	// ErrPortNotInGraph is returned when an endpoint is nil or its node was
	// never added to (or was removed from) the graph.
	ErrPortNotInGraph = errors.New("port does not belong to a node in this graph")

	// ErrNodeAttached is returned by AddNode for a node that already lives in a graph.
	ErrNodeAttached = errors.New("node already belongs to a graph")

	// ErrTypeMismatch is returned when a property is assigned a value whose tag
	// differs from the property's declared type.
	ErrTypeMismatch = errors.New("value type does not match declared type")

	// ErrUnknownTypeTag is returned by ParseTypeTag for tags outside the closed domain.
	ErrUnknownTypeTag = errors.New("unknown type tag")
)
