package viewer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"gallery/internal/config"
	"gallery/internal/dispatch"
	"gallery/internal/zoompan"
)

const (
	hintText        = "Reset zoom to swipe between images"
	helpPadding     = 40.0
	maxWarningLines = 2
)

// helpRow is one line of the controls table.
type helpRow struct {
	Action      string
	Keys        string
	Mouse       string
	Description string
}

// helpRows lists every bound action in definition order, then the
// pointer-only gestures.
func helpRows(keybindings map[string][]string) []helpRow {
	var rows []helpRow
	for _, def := range dispatch.ActionDefinitions() {
		keys := keybindings[def.Name]
		if len(keys) == 0 && len(def.MouseActions) == 0 {
			continue
		}
		rows = append(rows, helpRow{
			Action:      def.Name,
			Keys:        strings.Join(keys, ", "),
			Mouse:       strings.Join(def.MouseActions, ", "),
			Description: def.Description,
		})
	}
	for _, def := range dispatch.GestureDefinitions() {
		rows = append(rows, helpRow{
			Action:      def.Name,
			Mouse:       strings.Join(def.MouseActions, ", "),
			Description: def.Description,
		})
	}
	return rows
}

// inputs joins the keyboard and mouse columns of r.
func (r helpRow) inputs() string {
	switch {
	case r.Keys != "" && r.Mouse != "":
		return r.Keys + " | " + r.Mouse
	case r.Keys != "":
		return r.Keys
	default:
		return r.Mouse
	}
}

// systemLines describes config status and cache activity.
func systemLines(status config.ConfigLoadResult, stats Stats, total int, screenReader bool) []string {
	sr := "off"
	if screenReader {
		sr = "on"
	}
	return []string{
		"Config Status: " + status.Status,
		fmt.Sprintf("Images: %d cached, %d textures, %d loading, %d failed",
			stats.CachedImages, stats.Textures, stats.Images.QueueSize, stats.Images.FailedCount),
		fmt.Sprintf("Thumbnails: %d / %d loaded, %d failed",
			stats.ThumbnailsLoaded, total, stats.Thumbnails.FailedCount),
		"Screen reader mode: " + sr,
	}
}

// counterText is the "n / total" position indicator.
func counterText(current, total int) string {
	if total == 0 {
		return "0 / 0"
	}
	return fmt.Sprintf("%d / %d", current+1, total)
}

// Renderer handles all drawing operations
type Renderer struct {
	state      RenderState
	fontSource *text.GoTextFaceSource
}

func NewRenderer(state RenderState) (*Renderer, error) {
	s, err := newFontSource()
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	return &Renderer{state: state, fontSource: s}, nil
}

func (r *Renderer) face(size float64) *text.GoTextFace {
	return &text.GoTextFace{Source: r.fontSource, Size: size}
}

// Draw renders the entire screen
func (r *Renderer) Draw(screen *ebiten.Image) {
	screen.Clear()

	if r.state.ThumbnailsOpen() {
		r.drawThumbnails(screen)
	} else {
		r.drawSlide(screen)
		r.drawControls(screen)
		r.drawCounter(screen)
		if r.state.HintVisible() {
			r.drawHint(screen)
		}
	}

	if r.state.IsShowingHelp() {
		r.drawHelpOverlay(screen)
	}

	if msg, at := r.state.OverlayMessage(); msg != "" && r.state.Now().Sub(at) < overlayMessageDuration {
		r.drawOverlayMessage(screen, msg)
	}
}

func (r *Renderer) drawSlide(screen *ebiten.Image) {
	w, h := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())
	vp := zoompan.Viewport{Width: w, Height: h}

	img, status := r.state.CurrentTexture()
	switch status {
	case StatusLoading:
		r.drawPlaceholder(screen, "Loading...")
		return
	case StatusFailed:
		r.drawPlaceholder(screen, "Failed to load "+r.state.CurrentLabel())
		return
	case StatusEmpty:
		r.drawPlaceholder(screen, "No images")
		return
	}

	iw, ih := img.Bounds().Dx(), img.Bounds().Dy()
	fit := FitRect(iw, ih, vp, r.state.IsFullscreen())
	t := r.state.Transform()

	op := &ebiten.DrawImageOptions{}
	op.Filter = ebiten.FilterLinear
	op.GeoM.Scale(fit.W/float64(iw), fit.H/float64(ih))
	op.GeoM.Translate(fit.X, fit.Y)
	op.GeoM.Scale(t.Scale, t.Scale)
	op.GeoM.Translate(t.X, t.Y)
	screen.DrawImage(img, op)
}

func (r *Renderer) drawPlaceholder(screen *ebiten.Image, msg string) {
	face := r.face(r.state.FontSize())
	w, h := text.Measure(msg, face, 0)
	x := (float64(screen.Bounds().Dx()) - w) / 2
	y := (float64(screen.Bounds().Dy()) - h) / 2
	DrawText(screen, msg, face, x, y, colorGray)
}

func (r *Renderer) drawControls(screen *ebiten.Image) {
	w, h := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())
	face := r.face(r.state.FontSize())
	for _, b := range controlButtons(w, h) {
		DrawFilledRect(screen, b.Rect.X, b.Rect.Y, b.Rect.W, b.Rect.H, bgColorLight)
		tw, th := text.Measure(b.Label, face, 0)
		DrawText(screen, b.Label, face, b.Rect.X+(b.Rect.W-tw)/2, b.Rect.Y+(b.Rect.H-th)/2, colorWhite)
	}
}

// drawCounter shows the position at the bottom right corner.
func (r *Renderer) drawCounter(screen *ebiten.Image) {
	face := r.face(r.state.FontSize() * 0.8)
	s := counterText(r.state.Position())

	textWidth, textHeight := text.Measure(s, face, 0)
	padding, bgPadding := 10.0, 5.0
	x := float64(screen.Bounds().Dx()) - textWidth - padding
	y := float64(screen.Bounds().Dy()) - textHeight - padding

	DrawFilledRect(screen, x-bgPadding, y-bgPadding, textWidth+bgPadding*2, textHeight+bgPadding*2, bgColorLight)
	DrawText(screen, s, face, x, y, colorWhite)
}

func (r *Renderer) drawHint(screen *ebiten.Image) {
	face := r.face(r.state.FontSize() * 0.8)
	textWidth, textHeight := text.Measure(hintText, face, 0)
	padding := 12.0
	boxW := textWidth + padding*2
	boxH := textHeight + padding*2
	x := (float64(screen.Bounds().Dx()) - boxW) / 2
	y := 20.0

	DrawFilledRect(screen, x, y, boxW, boxH, bgColorDark)
	DrawText(screen, hintText, face, x+padding, y+padding, colorYellow)
}

func (r *Renderer) drawThumbnails(screen *ebiten.Image) {
	w, h := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())
	DrawFilledRect(screen, 0, 0, w, h, bgColorDark)

	grid := r.state.ThumbnailGrid()
	current, _ := r.state.Position()
	face := r.face(14)

	start, end := grid.Visible()
	for i := start; i < end; i++ {
		cell := grid.CellRect(i)
		if img := r.state.ThumbnailTexture(i); img != nil {
			iw, ih := img.Bounds().Dx(), img.Bounds().Dy()
			fit := FitRect(iw, ih, zoompan.Viewport{Width: cell.W, Height: cell.H}, true)
			op := &ebiten.DrawImageOptions{}
			op.Filter = ebiten.FilterLinear
			op.GeoM.Scale(fit.W/float64(iw), fit.H/float64(ih))
			op.GeoM.Translate(cell.X+fit.X, cell.Y+fit.Y)
			screen.DrawImage(img, op)
		} else {
			DrawCenteredLabel(screen, cell, strconv.Itoa(i+1), face)
		}
		if i == current {
			DrawRectOutline(screen, cell, 3, colorCyan)
		}
	}
}

// requiredHelpSize returns the width and height the help table needs at
// fontSize.
func (r *Renderer) requiredHelpSize(rows []helpRow, system []string, fontSize float64) (float64, float64) {
	face := r.face(fontSize)
	lineHeight := fontSize * 1.5

	height := helpPadding*2 + fontSize*2 + lineHeight*1.5
	height += float64(len(rows)) * lineHeight
	height += lineHeight * float64(2+len(system))

	actionW, inputW, descW := r.columnWidths(rows, face)
	width := 40 + actionW + 20 + 30 + inputW + 20 + descW + helpPadding
	for _, line := range system {
		lw, _ := text.Measure(line, face, 0)
		if lw+helpPadding*2+40 > width {
			width = lw + helpPadding*2 + 40
		}
	}
	return width + helpPadding*2, height
}

func (r *Renderer) columnWidths(rows []helpRow, face *text.GoTextFace) (float64, float64, float64) {
	var actionW, inputW, descW float64
	for _, row := range rows {
		if w, _ := text.Measure(row.Action, face, 0); w > actionW {
			actionW = w
		}
		if w, _ := text.Measure(row.inputs(), face, 0); w > inputW {
			inputW = w
		}
		if w, _ := text.Measure(row.Description, face, 0); w > descW {
			descW = w
		}
	}
	return actionW, inputW, descW
}

// fitFontSize finds the largest font size, at most the configured one,
// at which the help table fits.
func (r *Renderer) fitFontSize(rows []helpRow, system []string, availW, availH float64) (float64, bool) {
	maxSize := r.state.FontSize()
	minSize := config.MinHelpFontSize

	if w, h := r.requiredHelpSize(rows, system, minSize); w > availW || h > availH {
		return minSize, false
	}
	if w, h := r.requiredHelpSize(rows, system, maxSize); w <= availW && h <= availH {
		return maxSize, true
	}

	low, high, best := minSize, maxSize, minSize
	for high-low > 0.5 {
		mid := (low + high) / 2
		if w, h := r.requiredHelpSize(rows, system, mid); w <= availW && h <= availH {
			best, low = mid, mid
		} else {
			high = mid
		}
	}
	return best, true
}

func (r *Renderer) drawHelpOverlay(screen *ebiten.Image) {
	w, h := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())

	rows := helpRows(r.state.Keybindings())
	status := r.state.ConfigStatus()
	_, total := r.state.Position()
	system := systemLines(status, r.state.Stats(), total, r.state.ScreenReaderEnabled())
	for i, warning := range status.Warnings {
		if i >= maxWarningLines {
			break
		}
		system = append(system, "• "+truncate(warning, 50))
	}

	fontSize, ok := r.fitFontSize(rows, system, w, h)
	DrawFilledRect(screen, 0, 0, w, h, bgColorLight)
	if !ok {
		r.drawOverlayMessage(screen, "Window too small for help")
		return
	}

	DrawFilledRect(screen, helpPadding, helpPadding, w-helpPadding*2, h-helpPadding*2, bgColorMedium)
	face := r.face(fontSize)
	lineHeight := fontSize * 1.5

	y := helpPadding + 30
	DrawText(screen, "HELP:", face, helpPadding+20, y, colorWhite)
	y += fontSize * 2
	DrawText(screen, "Controls (Keyboard | Mouse):", face, helpPadding+20, y, colorWhite)
	y += lineHeight * 1.5

	actionW, inputW, _ := r.columnWidths(rows, face)
	actionX := helpPadding + 40
	arrowX := actionX + actionW + 20
	inputX := arrowX + 30
	descX := inputX + inputW + 20

	for _, row := range rows {
		DrawText(screen, row.Action, face, actionX, y, colorLightBlue)
		DrawText(screen, "→", face, arrowX, y, colorWhite)

		x := inputX
		if row.Keys != "" {
			DrawText(screen, row.Keys, face, x, y, colorYellow)
			kw, _ := text.Measure(row.Keys, face, 0)
			x += kw
		}
		if row.Keys != "" && row.Mouse != "" {
			DrawText(screen, " | ", face, x, y, colorWhite)
			sw, _ := text.Measure(" | ", face, 0)
			x += sw
		}
		if row.Mouse != "" {
			DrawText(screen, row.Mouse, face, x, y, colorCyan)
		}

		DrawText(screen, row.Description, face, descX, y, colorGray)
		y += lineHeight
	}

	y += lineHeight
	DrawText(screen, "System:", face, helpPadding+20, y, colorWhite)
	y += lineHeight

	statusColor := colorGreen
	if status.Status == config.StatusWarning || status.Status == config.StatusError {
		statusColor = colorOrange
	}
	for i, line := range system {
		c := colorGray
		switch {
		case i == 0:
			c = statusColor
		case strings.HasPrefix(line, "• "):
			c = colorLightRed
		}
		DrawText(screen, line, face, helpPadding+40, y, c)
		y += lineHeight
	}
}

func (r *Renderer) drawOverlayMessage(screen *ebiten.Image, msg string) {
	face := r.face(r.state.FontSize())
	textWidth, textHeight := text.Measure(msg, face, 0)

	padding := 20.0
	boxW := textWidth + padding*2
	boxH := textHeight + padding*2
	boxX := (float64(screen.Bounds().Dx()) - boxW) / 2
	boxY := (float64(screen.Bounds().Dy()) - boxH) / 2

	DrawFilledRect(screen, boxX, boxY, boxW, boxH, bgColorDark)
	DrawText(screen, msg, face, boxX+padding, boxY+padding, colorWhite)
}
