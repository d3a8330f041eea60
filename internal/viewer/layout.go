package viewer

import (
	"math"

	"gallery/internal/zoompan"
)

const (
	thumbnailCell   = 128.0
	thumbnailGap    = 8.0
	thumbnailMargin = 20.0
)

// Rect is an axis-aligned rectangle in screen coordinates.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// FitRect returns where an iw x ih image sits when fitted and centered in
// vp. Images smaller than the viewport keep their size unless upscale is
// set, as in fullscreen.
func FitRect(iw, ih int, vp zoompan.Viewport, upscale bool) Rect {
	if iw <= 0 || ih <= 0 || vp.Width <= 0 || vp.Height <= 0 {
		return Rect{}
	}
	w, h := float64(iw), float64(ih)
	scale := math.Min(vp.Width/w, vp.Height/h)
	if !upscale && scale > 1 {
		scale = 1
	}
	sw, sh := w*scale, h*scale
	return Rect{X: vp.Width/2 - sw/2, Y: vp.Height/2 - sh/2, W: sw, H: sh}
}

// Grid is the thumbnail panel layout: a scrolled window of rows of fixed
// size cells.
type Grid struct {
	Count    int
	Cols     int
	Rows     int // Visible rows
	FirstRow int
}

// GridLayout lays out count cells in a width x height panel, scrolled so
// the row holding current is visible.
func GridLayout(count int, width, height float64, current int) Grid {
	pitch := thumbnailCell + thumbnailGap
	cols := int((width - 2*thumbnailMargin + thumbnailGap) / pitch)
	if cols < 1 {
		cols = 1
	}
	rows := int((height - 2*thumbnailMargin + thumbnailGap) / pitch)
	if rows < 1 {
		rows = 1
	}

	g := Grid{Count: count, Cols: cols, Rows: rows}
	if count <= 0 {
		return g
	}

	totalRows := (count + cols - 1) / cols
	currentRow := current / cols
	first := currentRow - rows/2
	if first > totalRows-rows {
		first = totalRows - rows
	}
	if first < 0 {
		first = 0
	}
	g.FirstRow = first
	return g
}

// Visible returns the range [start, end) of indices drawn.
func (g Grid) Visible() (int, int) {
	start := g.FirstRow * g.Cols
	end := start + g.Rows*g.Cols
	if end > g.Count {
		end = g.Count
	}
	if start > end {
		start = end
	}
	return start, end
}

// CellRect returns the rectangle of cell index. Only meaningful for
// visible indices.
func (g Grid) CellRect(index int) Rect {
	pitch := thumbnailCell + thumbnailGap
	row := index/g.Cols - g.FirstRow
	col := index % g.Cols
	return Rect{
		X: thumbnailMargin + float64(col)*pitch,
		Y: thumbnailMargin + float64(row)*pitch,
		W: thumbnailCell,
		H: thumbnailCell,
	}
}

// HitTest returns the visible cell under (x, y), or -1.
func (g Grid) HitTest(x, y float64) int {
	start, end := g.Visible()
	for i := start; i < end; i++ {
		if g.CellRect(i).Contains(x, y) {
			return i
		}
	}
	return -1
}

// controlButton is an on-screen control that runs a named action.
type controlButton struct {
	Action string
	Label  string
	Rect   Rect
}

const (
	controlSize = 40.0
	controlGap  = 10.0
)

// controlButtons lays out the slide controls for a width x height window:
// prev and next at the middle of each side, zoom controls at the bottom
// left.
func controlButtons(width, height float64) []controlButton {
	buttons := []controlButton{
		{"prev", "<", Rect{X: controlGap, Y: height/2 - controlSize*0.75, W: controlSize, H: controlSize * 1.5}},
		{"next", ">", Rect{X: width - controlGap - controlSize, Y: height/2 - controlSize*0.75, W: controlSize, H: controlSize * 1.5}},
	}
	for i, c := range []struct{ action, label string }{
		{"zoom_in", "+"},
		{"zoom_out", "-"},
		{"zoom_reset", "1x"},
	} {
		buttons = append(buttons, controlButton{c.action, c.label, Rect{
			X: controlGap + float64(i)*(controlSize+controlGap),
			Y: height - controlGap - controlSize,
			W: controlSize,
			H: controlSize,
		}})
	}
	return buttons
}

// controlAt returns the action of the control under (x, y), or "".
func controlAt(buttons []controlButton, x, y float64) string {
	for _, b := range buttons {
		if b.Rect.Contains(x, y) {
			return b.Action
		}
	}
	return ""
}
