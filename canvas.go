package main

import (
	"math"
	"strings"

	"nodeflow/internal/geom"
	"nodeflow/internal/graph"
	"nodeflow/internal/interact"
	"nodeflow/internal/transform"
)

// renderOptions carries the transient state drawn on top of the graph.
type renderOptions struct {
	tempLine   interact.TempLine
	target     *graph.Port
	showCursor bool
	cursorX    int
	cursorY    int
}

// cell is a terminal position.
type cell struct {
	X, Y int
}

// cellOf maps a canvas point to the terminal cell that displays it.
func cellOf(v transform.View, p geom.Point) cell {
	s := v.CanvasToScreen(p)
	return cell{X: int(math.Floor(s.X / cellWidth)), Y: int(math.Floor(s.Y / cellHeight))}
}

// canvasAt is the canvas point at the centre of a terminal cell.
func canvasAt(v transform.View, x, y int) geom.Point {
	return v.ScreenToCanvas(geom.Pt((float64(x)+0.5)*cellWidth, (float64(y)+0.5)*cellHeight))
}

// nodeCells returns the terminal rectangle of n: top-left and bottom-right
// border cells. The box always reaches below its lowest port.
func nodeCells(v transform.View, n *graph.Node) (cell, cell) {
	w, h := n.Size()
	tl := cellOf(v, n.Position())
	br := cellOf(v, n.Position().Add(geom.Pt(w, h)))
	br.X = max(br.X, tl.X+2)
	br.Y = max(br.Y, tl.Y+1)
	for _, p := range n.Ports() {
		br.Y = max(br.Y, cellOf(v, p.Position()).Y+1)
	}
	return tl, br
}

type grid [][]rune

func newGrid(width, height int) grid {
	g := make(grid, height)
	for y := range g {
		g[y] = []rune(strings.Repeat(" ", width))
	}
	return g
}

func (g grid) valid(x, y int) bool {
	return y >= 0 && y < len(g) && x >= 0 && x < len(g[y])
}

func (g grid) set(x, y int, r rune) {
	if g.valid(x, y) {
		g[y][x] = r
	}
}

func (g grid) text(x, y int, s string, limit int) {
	for i, r := range []rune(s) {
		if x+i >= limit {
			return
		}
		g.set(x+i, y, r)
	}
}

func (g grid) lines() []string {
	out := make([]string, len(g))
	for i, row := range g {
		out[i] = string(row)
	}
	return out
}

// render draws the graph as the terminal shows it: connections behind the
// nodes, nodes back to front, and the drag line on top.
func render(g *graph.Graph, ordered []*graph.Node, v transform.View, width, height int, opts renderOptions) []string {
	canvas := newGrid(max(width, 1), max(height, 1))

	for _, c := range g.Connections() {
		drawConnection(canvas, cellOf(v, c.Source().Position()), cellOf(v, c.Target().Position()))
	}
	for _, n := range ordered {
		drawNode(canvas, v, n, opts.target)
	}
	if opts.tempLine.Visible {
		drawTempLine(canvas, cellOf(v, opts.tempLine.Start), cellOf(v, opts.tempLine.End))
	}
	if opts.showCursor {
		canvas.set(opts.cursorX, opts.cursorY, '█')
	}
	return canvas.lines()
}

func drawNode(canvas grid, v transform.View, n *graph.Node, target *graph.Port) {
	tl, br := nodeCells(v, n)

	corner, horizontal, vertical := '+', '-', '|'
	if n.Selected() {
		corner, horizontal, vertical = '#', '#', '#'
	}

	for y := tl.Y; y <= br.Y; y++ {
		for x := tl.X; x <= br.X; x++ {
			switch {
			case (y == tl.Y || y == br.Y) && (x == tl.X || x == br.X):
				canvas.set(x, y, corner)
			case y == tl.Y || y == br.Y:
				canvas.set(x, y, horizontal)
			case x == tl.X || x == br.X:
				canvas.set(x, y, vertical)
			default:
				canvas.set(x, y, ' ')
			}
		}
	}

	if br.X-tl.X > 3 {
		canvas.text(tl.X+2, tl.Y, " "+n.Title+" ", br.X-1)
	}

	for _, p := range n.Inputs() {
		c := cellOf(v, p.Position())
		canvas.set(tl.X, c.Y, portRune(p, target))
		canvas.text(tl.X+2, c.Y, p.Name, br.X-1)
	}
	for _, p := range n.Outputs() {
		c := cellOf(v, p.Position())
		canvas.set(br.X, c.Y, portRune(p, target))
		name := []rune(p.Name)
		start := max(br.X-1-len(name), tl.X+2)
		canvas.text(start, c.Y, p.Name, br.X-1)
	}
}

func portRune(p, target *graph.Port) rune {
	switch {
	case p == target:
		return '◉'
	case p.Occupied():
		return '●'
	default:
		return '○'
	}
}

// drawConnection routes from an output on the right edge of one box to an
// input on the left edge of another: out, down or up, then in.
func drawConnection(canvas grid, from, to cell) {
	if from == to {
		return
	}
	midX := from.X + (to.X-from.X)/2
	if to.X <= from.X+1 {
		midX = from.X + 2
	}

	hline(canvas, from.X+1, midX, from.Y)
	vline(canvas, midX, from.Y, to.Y)
	hline(canvas, midX, to.X-1, to.Y)

	switch {
	case from.Y < to.Y:
		canvas.set(midX, from.Y, '┐')
		canvas.set(midX, to.Y, '└')
	case from.Y > to.Y:
		canvas.set(midX, from.Y, '┘')
		canvas.set(midX, to.Y, '┌')
	}
	if to.X-1 > midX {
		canvas.set(to.X-1, to.Y, '▶')
	}
}

func hline(canvas grid, x1, x2, y int) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	for x := x1; x <= x2; x++ {
		canvas.set(x, y, '─')
	}
}

func vline(canvas grid, x, y1, y2 int) {
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	for y := y1; y <= y2; y++ {
		canvas.set(x, y, '│')
	}
}

// drawTempLine draws a straight dotted line between two cells.
func drawTempLine(canvas grid, from, to cell) {
	dx, dy := abs(to.X-from.X), -abs(to.Y-from.Y)
	sx, sy := sign(to.X-from.X), sign(to.Y-from.Y)
	err := dx + dy
	x, y := from.X, from.Y
	for {
		canvas.set(x, y, '·')
		if x == to.X && y == to.Y {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
	canvas.set(to.X, to.Y, '*')
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x < 0:
		return -1
	case x > 0:
		return 1
	}
	return 0
}
