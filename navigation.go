package main

import (
	"nodeflow/internal/geom"
	"nodeflow/internal/transform"
)

// handlePan moves the viewport by whole cells. Shifted keys move four
// cells at a time.
func (m *model) handlePan(key string) {
	speed := m.getMoveSpeed(key)
	view := m.editor.View()
	zoom := currentZoom(view)
	dx, dy := 0.0, 0.0
	switch key {
	case "h", "left", "H", "shift+left":
		dx = -cellWidth
	case "l", "right", "shift+right":
		dx = cellWidth
	case "k", "up", "K", "shift+up":
		dy = -cellHeight
	case "j", "down", "J", "shift+down":
		dy = cellHeight
	}
	delta := geom.Pt(dx, dy).Scale(float64(speed) / zoom)
	view.Pan = view.Pan.Add(delta)
	m.editor.SetView(view)
}

func (m *model) getMoveSpeed(key string) int {
	switch key {
	case "H", "K", "J", "shift+left", "shift+right", "shift+up", "shift+down":
		return 4
	default:
		return 1
	}
}

// handleZoom steps through zoomLevels, keeping the canvas point at the
// centre of the screen fixed.
func (m *model) handleZoom(in bool) {
	view := m.editor.View()
	zoom := currentZoom(view)
	idx := 0
	for i, z := range zoomLevels {
		if z <= zoom {
			idx = i
		}
	}
	if in && idx < len(zoomLevels)-1 {
		idx++
	} else if !in && idx > 0 {
		idx--
	} else {
		return
	}

	centre := geom.Pt(float64(m.width)*cellWidth/2, float64(m.canvasRows())*cellHeight/2)
	anchor := view.ScreenToCanvas(centre)
	next := transform.View{Zoom: zoomLevels[idx]}
	next.Pan = anchor.Sub(centre.Scale(1 / next.Zoom))
	m.editor.SetView(next)
}

func currentZoom(v transform.View) float64 {
	if v.Zoom <= 0 {
		return 1
	}
	return v.Zoom
}

// centreOn pans so that the bounds of every node fit around the screen
// centre.
func (m *model) centreOn(r geom.Rect) {
	view := m.editor.View()
	zoom := currentZoom(view)
	screen := geom.Pt(float64(m.width)*cellWidth, float64(m.canvasRows())*cellHeight).Scale(1 / zoom)
	view.Pan = r.Center().Sub(screen.Scale(0.5))
	m.editor.SetView(view)
}
