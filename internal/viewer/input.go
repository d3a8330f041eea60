package viewer

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// pointerState tracks which device owns the current press so a mouse and
// a touch never feed the recognizer at the same time.
type pointerState struct {
	mouseDown bool
	touchDown bool
	touchID   ebiten.TouchID
	touchIDs  []ebiten.TouchID
}

// handlePointer feeds mouse, wheel and touch input to the thumbnail panel
// or the gesture recognizer.
func (g *Game) handlePointer() {
	if !ebiten.IsFocused() {
		g.cancelPointer()
		return
	}

	cx, cy := ebiten.CursorPosition()
	x, y := float64(cx), float64(cy)

	if g.thumbnailsOpen {
		g.cancelPointer()
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			g.clickThumbnail(x, y)
		}
		g.pointer.touchIDs = inpututil.AppendJustPressedTouchIDs(g.pointer.touchIDs[:0])
		for _, id := range g.pointer.touchIDs {
			tx, ty := ebiten.TouchPosition(id)
			g.clickThumbnail(float64(tx), float64(ty))
		}
		return
	}

	if _, dy := ebiten.Wheel(); dy != 0 {
		g.gestures.Wheel(x, y, dy)
	}

	g.handleMouse(x, y)
	if !g.pointer.mouseDown {
		g.handleTouch()
	}
}

func (g *Game) handleMouse(x, y float64) {
	p := &g.pointer
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && !p.touchDown:
		if g.clickControl(x, y) {
			return
		}
		p.mouseDown = true
		g.gestures.Press(x, y)
	case p.mouseDown && inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		p.mouseDown = false
		g.gestures.Release(x, y)
	case p.mouseDown:
		g.gestures.Move(x, y)
	}
}

func (g *Game) handleTouch() {
	p := &g.pointer
	if !p.touchDown {
		p.touchIDs = inpututil.AppendJustPressedTouchIDs(p.touchIDs[:0])
		if len(p.touchIDs) == 0 {
			return
		}
		id := p.touchIDs[0]
		tx, ty := ebiten.TouchPosition(id)
		if g.clickControl(float64(tx), float64(ty)) {
			return
		}
		p.touchDown = true
		p.touchID = id
		g.gestures.Press(float64(tx), float64(ty))
		return
	}

	if inpututil.IsTouchJustReleased(p.touchID) {
		p.touchDown = false
		tx, ty := inpututil.TouchPositionInPreviousTick(p.touchID)
		g.gestures.Release(float64(tx), float64(ty))
		return
	}
	tx, ty := ebiten.TouchPosition(p.touchID)
	g.gestures.Move(float64(tx), float64(ty))
}

// cancelPointer drops any press in progress.
func (g *Game) cancelPointer() {
	if g.pointer.mouseDown || g.pointer.touchDown {
		g.gestures.Cancel()
	}
	g.pointer.mouseDown = false
	g.pointer.touchDown = false
}

func (g *Game) clickThumbnail(x, y float64) {
	if i := g.ThumbnailGrid().HitTest(x, y); i >= 0 {
		g.selectThumbnail(i)
	}
}

// clickControl runs the on-screen control under (x, y). A press on a
// control never reaches the gesture recognizer.
func (g *Game) clickControl(x, y float64) bool {
	switch controlAt(controlButtons(g.viewport.Width, g.viewport.Height), x, y) {
	case "prev":
		g.Prev()
	case "next":
		g.Next()
	case "zoom_in":
		g.ZoomIn()
	case "zoom_out":
		g.ZoomOut()
	case "zoom_reset":
		g.ZoomReset()
	default:
		return false
	}
	return true
}
