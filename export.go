package main

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"nodeflow/internal/geom"
	"nodeflow/internal/graph"
	"nodeflow/internal/transform"
)

var errNothingToExport = errors.New("nothing to export")

const (
	pngPadding  = 32.0
	pngFontSize = 12.0
	portRadius  = 4.0
)

var (
	pngBackground = color.White
	pngInk        = color.Black
	pngSelected   = color.RGBA{R: 0x1f, G: 0x6f, B: 0xd0, A: 0xff}
	pngTitleFill  = color.RGBA{R: 0xe8, G: 0xe8, B: 0xe8, A: 0xff}
	pngWire       = color.RGBA{R: 0x55, G: 0x55, B: 0x55, A: 0xff}
)

// portColor gives each value type its own port fill.
func portColor(t graph.TypeTag) color.Color {
	switch t {
	case graph.TypeNumber:
		return color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
	case graph.TypeBool:
		return color.RGBA{R: 0xd0, G: 0x40, B: 0x40, A: 0xff}
	case graph.TypeString:
		return color.RGBA{R: 0x40, G: 0xa0, B: 0x40, A: 0xff}
	case graph.TypeColor:
		return color.RGBA{R: 0xe0, G: 0xa0, B: 0x20, A: 0xff}
	case graph.TypeUnknown:
		return color.RGBA{R: 0xa0, G: 0x40, B: 0xc0, A: 0xff}
	default:
		return color.White
	}
}

func loadFontFace() (font.Face, error) {
	ttfFont, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return truetype.NewFace(ttfFont, &truetype.Options{
		Size:    pngFontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

// drawGraphPNG renders g at one pixel per canvas unit. Port positions must
// be current.
func drawGraphPNG(g *graph.Graph, ordered []*graph.Node) (*gg.Context, error) {
	if g.NodeCount() == 0 {
		return nil, errNothingToExport
	}

	var bounds geom.Rect
	for _, n := range g.Nodes() {
		bounds = bounds.Union(n.Bounds())
	}
	bounds = bounds.Grow(pngPadding)
	origin := bounds.Min()

	dc := gg.NewContext(int(math.Ceil(bounds.W)), int(math.Ceil(bounds.H)))
	dc.SetColor(pngBackground)
	dc.Clear()

	face, err := loadFontFace()
	if err != nil {
		return nil, err
	}
	dc.SetFontFace(face)

	// Connections first so they appear behind the nodes.
	for _, c := range g.Connections() {
		drawConnectionPNG(dc, c.Source().Position().Sub(origin), c.Target().Position().Sub(origin))
	}
	for _, n := range ordered {
		drawNodePNG(dc, n, origin)
	}
	return dc, nil
}

// drawConnectionPNG draws the link as a cubic curve leaving the source
// and entering the target horizontally.
func drawConnectionPNG(dc *gg.Context, from, to geom.Point) {
	tangent := math.Max(math.Abs(to.X-from.X)*0.8, 50)
	dc.SetLineWidth(2)
	dc.SetColor(pngWire)
	dc.MoveTo(from.X, from.Y)
	dc.CubicTo(from.X+tangent, from.Y, to.X-tangent, to.Y, to.X, to.Y)
	dc.Stroke()
}

func drawNodePNG(dc *gg.Context, n *graph.Node, origin geom.Point) {
	b := n.Bounds()
	x, y := b.X-origin.X, b.Y-origin.Y

	dc.SetColor(pngBackground)
	dc.DrawRectangle(x, y, b.W, b.H)
	dc.Fill()
	dc.SetColor(pngTitleFill)
	dc.DrawRectangle(x, y, b.W, cellHeight)
	dc.Fill()

	dc.SetLineWidth(1)
	dc.SetColor(pngInk)
	if n.Selected() {
		dc.SetLineWidth(2)
		dc.SetColor(pngSelected)
	}
	dc.DrawRectangle(x, y, b.W, b.H)
	dc.Stroke()

	dc.SetColor(pngInk)
	dc.DrawStringAnchored(n.Title, x+cellWidth, y+cellHeight/2, 0, 0.35)

	for _, p := range n.Inputs() {
		pos := p.Position().Sub(origin)
		drawPortPNG(dc, p, pos)
		dc.SetColor(pngInk)
		dc.DrawStringAnchored(p.Name, pos.X+2*portRadius, pos.Y, 0, 0.35)
	}
	for _, p := range n.Outputs() {
		pos := p.Position().Sub(origin)
		drawPortPNG(dc, p, pos)
		dc.SetColor(pngInk)
		dc.DrawStringAnchored(p.Name, pos.X-2*portRadius, pos.Y, 1, 0.35)
	}

	// Properties fill the rows below the ports.
	rowY := y + float64(transform.Rows(n))*cellHeight + cellHeight/2
	for _, prop := range n.Properties() {
		if rowY > y+b.H-cellHeight/2 {
			break
		}
		dc.DrawStringAnchored(prop.Name+": "+prop.Value().Format(), x+cellWidth, rowY, 0, 0.35)
		rowY += cellHeight
	}
}

func drawPortPNG(dc *gg.Context, p *graph.Port, pos geom.Point) {
	dc.SetColor(portColor(p.Type))
	dc.DrawCircle(pos.X, pos.Y, portRadius)
	dc.Fill()
	dc.SetLineWidth(1)
	dc.SetColor(pngInk)
	dc.DrawCircle(pos.X, pos.Y, portRadius)
	dc.Stroke()
}

// exportPNG writes g to filename as a PNG image.
func exportPNG(g *graph.Graph, ordered []*graph.Node, filename string) error {
	dc, err := drawGraphPNG(g, ordered)
	if err != nil {
		return err
	}
	return dc.SavePNG(filename)
}

// exportVisualTXT writes the canvas exactly as the terminal shows it.
func exportVisualTXT(lines []string, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	for _, line := range lines {
		if _, err := fmt.Fprintln(file, line); err != nil {
			return err
		}
	}
	return nil
}
