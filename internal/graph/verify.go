package graph

import (
	"errors"
	"fmt"
)

// Verify scans the whole graph and returns every broken invariant joined
// into one error, or nil for a consistent graph.
func (g *Graph) Verify() error {
	var errs []error

	registered := make(map[*Connection]bool, len(g.conns))
	for _, c := range g.conns {
		if registered[c] {
			errs = append(errs, fmt.Errorf("connection %s registered twice", c))
		}
		registered[c] = true

		if c.source == nil || c.target == nil {
			errs = append(errs, errors.New("connection with a nil endpoint"))
			continue
		}
		if c.source.dir != Output || c.target.dir != Input {
			errs = append(errs, fmt.Errorf("connection %s: %w", c, ErrInvalidDirection))
		}
		if !c.source.holds(c) {
			errs = append(errs, fmt.Errorf("connection %s missing from its source port", c))
		}
		if !c.target.holds(c) {
			errs = append(errs, fmt.Errorf("connection %s missing from its target port", c))
		}
		if !g.Contains(c.source.node) || !g.Contains(c.target.node) {
			errs = append(errs, fmt.Errorf("connection %s references a node outside the graph", c))
		}
	}

	for _, n := range g.nodes {
		if n.g != g {
			errs = append(errs, fmt.Errorf("node %q does not point back at its graph", n.Title))
		}
		for _, p := range n.Ports() {
			if p.node != n {
				errs = append(errs, fmt.Errorf("port %s owned by another node", p))
			}
			if p.dir == Input && len(p.conns) > 1 {
				errs = append(errs, fmt.Errorf("input %s holds %d connections", p, len(p.conns)))
			}
			for _, c := range p.conns {
				if !registered[c] {
					errs = append(errs, fmt.Errorf("port %s holds unregistered connection %s", p, c))
				}
			}
		}
	}
	return errors.Join(errs...)
}
