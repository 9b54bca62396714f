// Package editor wires one graph to the services that edit it: port
// positions, z-order, the connection state machine and persistence.
//
// An Editor is built explicitly and passed around; there is no global
// editor state.
package editor

import (
	"log/slog"

	"nodeflow/internal/geom"
	"nodeflow/internal/graph"
	"nodeflow/internal/interact"
	"nodeflow/internal/persist"
	"nodeflow/internal/transform"
	"nodeflow/internal/zorder"
)

type Editor struct {
	Graph       *graph.Graph
	ZOrder      *zorder.Manager
	Positions   *transform.Provider
	Interaction *interact.Machine

	renderer interact.Renderer
	log      *slog.Logger
	codec    *persist.Codec
	unwatch  func()
}

type Option func(*Editor)

func WithLogger(l *slog.Logger) Option {
	return func(e *Editor) { e.log = l }
}

func WithRenderer(r interact.Renderer) Option {
	return func(e *Editor) { e.renderer = r }
}

// WithGraph starts the editor on g instead of an empty graph.
func WithGraph(g *graph.Graph) Option {
	return func(e *Editor) { e.Graph = g }
}

func New(layout transform.Layout, opts ...Option) *Editor {
	e := &Editor{
		Positions: transform.NewProvider(layout),
		codec:     persist.NewCodec(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = slog.New(slog.DiscardHandler)
	}
	if e.Graph == nil {
		e.Graph = graph.New()
	}
	e.attach(e.Graph)
	return e
}

func (e *Editor) attach(g *graph.Graph) {
	e.Graph = g
	e.ZOrder = zorder.New(g)
	e.unwatch = e.Positions.Watch(g)
	e.Positions.RefreshAll(g)

	opts := []interact.Option{interact.WithLogger(e.log)}
	if e.renderer != nil {
		opts = append(opts, interact.WithRenderer(e.renderer))
	}
	e.Interaction = interact.New(g, opts...)
}

func (e *Editor) detach() {
	e.Interaction.Cancel()
	e.Interaction.Close()
	if e.unwatch != nil {
		e.unwatch()
		e.unwatch = nil
	}
}

// Replace swaps in g. Any drag in progress is cancelled first, so no
// gesture ever spans two graphs.
func (e *Editor) Replace(g *graph.Graph) {
	e.detach()
	e.attach(g)
	e.log.Info("graph replaced", "nodes", g.NodeCount(), "connections", g.ConnectionCount())
	e.redraw()
}

// Close releases the editor's subscriptions on the current graph.
func (e *Editor) Close() {
	e.detach()
}

// Load reads path and replaces the current graph with it. On a fatal error
// the current graph is left untouched. Recoverable problems are returned in
// the Report and logged.
func (e *Editor) Load(path string) (*persist.Report, error) {
	codec := persist.NewCodec()
	g, report, err := codec.Load(path)
	if err != nil {
		e.log.Error("load failed", "path", path, "error", err)
		return nil, err
	}
	e.codec = codec
	e.Replace(g)
	for _, p := range report.Problems {
		e.log.Warn("load problem", "path", path, "error", p)
	}
	return report, nil
}

// Save writes the current graph to path. Ids read by Load are kept.
func (e *Editor) Save(path string) error {
	if err := e.codec.Save(path, e.Graph); err != nil {
		e.log.Error("save failed", "path", path, "error", err)
		return err
	}
	e.log.Info("saved", "path", path, "nodes", e.Graph.NodeCount())
	return nil
}

// Encode serializes the current graph with the editor's ids.
func (e *Editor) Encode() ([]byte, error) {
	return e.codec.Encode(e.Graph)
}

func (e *Editor) View() transform.View {
	return e.Positions.View()
}

// SetView applies a new pan/zoom and refreshes every port position.
func (e *Editor) SetView(v transform.View) {
	e.Positions.SetView(v)
	e.Positions.RefreshAll(e.Graph)
	e.redraw()
}

// MoveNode moves n by (dx, dy). Its ports are current when this returns.
func (e *Editor) MoveNode(n *graph.Node, dx, dy float64) {
	n.MoveBy(dx, dy)
}

func (e *Editor) AddNode(n *graph.Node) error {
	if err := e.Graph.AddNode(n); err != nil {
		return err
	}
	e.log.Debug("node added", "title", n.Title)
	return nil
}

// RemoveNode removes n and every connection touching it.
func (e *Editor) RemoveNode(n *graph.Node) bool {
	if !e.Graph.RemoveNode(n) {
		return false
	}
	e.log.Debug("node removed", "title", n.Title)
	e.redraw()
	return true
}

// Select makes n the only selected node and brings it to the front. A nil
// n clears the selection.
func (e *Editor) Select(n *graph.Node) {
	for _, other := range e.Graph.Nodes() {
		other.SetSelected(other == n)
	}
	if n != nil {
		e.ZOrder.BringToFront(n)
	}
}

// Selected returns the first selected node, if any.
func (e *Editor) Selected() *graph.Node {
	for _, n := range e.Graph.Nodes() {
		if n.Selected() {
			return n
		}
	}
	return nil
}

// NodeAt returns the frontmost node under the canvas point p.
func (e *Editor) NodeAt(p geom.Point) *graph.Node {
	return e.ZOrder.TopAt(p)
}

// Busy reports whether a connection drag is in progress.
func (e *Editor) Busy() bool {
	return e.Interaction.State() == interact.Dragging
}

func (e *Editor) redraw() {
	if e.renderer != nil {
		e.renderer.RequestRedraw()
	}
}
