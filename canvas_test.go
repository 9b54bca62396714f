package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nodeflow/internal/editor"
	"nodeflow/internal/geom"
	"nodeflow/internal/interact"
	"nodeflow/internal/transform"
)

func demoEditor(t *testing.T) *editor.Editor {
	t.Helper()
	ed := editor.New(newLayout(), editor.WithGraph(editor.DemoGraph()))
	t.Cleanup(ed.Close)
	return ed
}

func runeAt(lines []string, x, y int) rune {
	return []rune(lines[y])[x]
}

func TestCellRoundTrip(t *testing.T) {
	views := []transform.View{
		{Zoom: 1},
		{Pan: geom.Pt(-37, 12), Zoom: 1.5},
		{Pan: geom.Pt(400, 90), Zoom: 3},
	}
	for _, v := range views {
		for _, c := range []cell{{0, 0}, {5, 3}, {79, 23}} {
			assert.Equal(t, c, cellOf(v, canvasAt(v, c.X, c.Y)), "view %+v", v)
		}
	}
}

func TestNodeCellsReachLowestPort(t *testing.T) {
	ed := demoEditor(t)
	mix := ed.Graph.Find("Mix Shader")

	tl, br := nodeCells(ed.View(), mix)
	assert.Equal(t, cell{62, 12}, tl)
	assert.Equal(t, cell{92, 20}, br)

	factor := cellOf(ed.View(), mix.Input("Factor").Position())
	assert.Greater(t, br.Y, factor.Y)
}

func TestRenderDemoGraph(t *testing.T) {
	ed := demoEditor(t)
	lines := render(ed.Graph, ed.ZOrder.Ordered(), ed.View(), 140, 30, renderOptions{})
	require.Len(t, lines, 30)

	assert.Contains(t, lines[6], " Color Input ")
	assert.Equal(t, '+', runeAt(lines, 12, 6))
	assert.Equal(t, '+', runeAt(lines, 40, 17))

	// Occupied ports are filled, free ones hollow.
	assert.Equal(t, '●', runeAt(lines, 40, 7))
	assert.Equal(t, '●', runeAt(lines, 62, 14))
	assert.Equal(t, '○', runeAt(lines, 62, 15))
	assert.Contains(t, lines[15], "Color B")

	// The link leaves Color, turns down at the midpoint and enters Color A.
	assert.Equal(t, '─', runeAt(lines, 45, 7))
	assert.Equal(t, '┐', runeAt(lines, 51, 7))
	assert.Equal(t, '│', runeAt(lines, 51, 10))
	assert.Equal(t, '└', runeAt(lines, 51, 14))
	assert.Equal(t, '▶', runeAt(lines, 61, 14))
}

func TestRenderSelectionAndDragState(t *testing.T) {
	ed := demoEditor(t)
	mix := ed.Graph.Find("Mix Shader")
	ed.Select(mix)

	opts := renderOptions{
		tempLine: interact.TempLine{Start: geom.Pt(320, 124), End: geom.Pt(404, 124), Visible: true},
		target:   mix.Input("Color B"),
	}
	lines := render(ed.Graph, ed.ZOrder.Ordered(), ed.View(), 140, 30, opts)

	assert.Equal(t, '#', runeAt(lines, 62, 12))
	assert.Equal(t, '#', runeAt(lines, 63, 12))
	assert.Equal(t, '◉', runeAt(lines, 62, 15))
	assert.Equal(t, '*', runeAt(lines, 50, 7))
	assert.Equal(t, '·', runeAt(lines, 48, 7))
}

func TestRenderClipsToScreen(t *testing.T) {
	ed := demoEditor(t)
	lines := render(ed.Graph, ed.ZOrder.Ordered(), ed.View(), 20, 5, renderOptions{showCursor: true, cursorX: 3, cursorY: 2})

	require.Len(t, lines, 5)
	for _, l := range lines {
		assert.Len(t, []rune(l), 20)
	}
	assert.Equal(t, '█', runeAt(lines, 3, 2))
	assert.Empty(t, strings.TrimSpace(strings.ReplaceAll(strings.Join(lines, ""), "█", "")))
}
