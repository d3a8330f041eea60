package viewer

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"gallery/internal/dispatch"
)

// keyMapping maps binding key names to Ebiten keys
var keyMapping = map[string]ebiten.Key{
	// Letters
	"KeyA": ebiten.KeyA, "KeyB": ebiten.KeyB, "KeyC": ebiten.KeyC, "KeyD": ebiten.KeyD,
	"KeyE": ebiten.KeyE, "KeyF": ebiten.KeyF, "KeyG": ebiten.KeyG, "KeyH": ebiten.KeyH,
	"KeyI": ebiten.KeyI, "KeyJ": ebiten.KeyJ, "KeyK": ebiten.KeyK, "KeyL": ebiten.KeyL,
	"KeyM": ebiten.KeyM, "KeyN": ebiten.KeyN, "KeyO": ebiten.KeyO, "KeyP": ebiten.KeyP,
	"KeyQ": ebiten.KeyQ, "KeyR": ebiten.KeyR, "KeyS": ebiten.KeyS, "KeyT": ebiten.KeyT,
	"KeyU": ebiten.KeyU, "KeyV": ebiten.KeyV, "KeyW": ebiten.KeyW, "KeyX": ebiten.KeyX,
	"KeyY": ebiten.KeyY, "KeyZ": ebiten.KeyZ,

	// Numbers
	"Key0": ebiten.Key0, "Key1": ebiten.Key1, "Key2": ebiten.Key2, "Key3": ebiten.Key3,
	"Key4": ebiten.Key4, "Key5": ebiten.Key5, "Key6": ebiten.Key6, "Key7": ebiten.Key7,
	"Key8": ebiten.Key8, "Key9": ebiten.Key9,

	"Space":      ebiten.KeySpace,
	"Backspace":  ebiten.KeyBackspace,
	"Enter":      ebiten.KeyEnter,
	"Escape":     ebiten.KeyEscape,
	"Tab":        ebiten.KeyTab,
	"Home":       ebiten.KeyHome,
	"End":        ebiten.KeyEnd,
	"PageUp":     ebiten.KeyPageUp,
	"PageDown":   ebiten.KeyPageDown,
	"ArrowUp":    ebiten.KeyArrowUp,
	"ArrowDown":  ebiten.KeyArrowDown,
	"ArrowLeft":  ebiten.KeyArrowLeft,
	"ArrowRight": ebiten.KeyArrowRight,

	"Comma":     ebiten.KeyComma,
	"Period":    ebiten.KeyPeriod,
	"Slash":     ebiten.KeySlash,
	"Semicolon": ebiten.KeySemicolon,
	"Quote":     ebiten.KeyQuote,
	"Minus":     ebiten.KeyMinus,
	"Equal":     ebiten.KeyEqual,

	"Numpad0":        ebiten.KeyNumpad0,
	"Numpad1":        ebiten.KeyNumpad1,
	"Numpad2":        ebiten.KeyNumpad2,
	"Numpad3":        ebiten.KeyNumpad3,
	"Numpad4":        ebiten.KeyNumpad4,
	"Numpad5":        ebiten.KeyNumpad5,
	"Numpad6":        ebiten.KeyNumpad6,
	"Numpad7":        ebiten.KeyNumpad7,
	"Numpad8":        ebiten.KeyNumpad8,
	"Numpad9":        ebiten.KeyNumpad9,
	"NumpadEnter":    ebiten.KeyNumpadEnter,
	"NumpadAdd":      ebiten.KeyNumpadAdd,
	"NumpadSubtract": ebiten.KeyNumpadSubtract,
}

var keyNames = func() map[ebiten.Key]string {
	m := make(map[ebiten.Key]string, len(keyMapping))
	for name, key := range keyMapping {
		m[key] = name
	}
	return m
}()

// KeyName returns the binding name of key.
func KeyName(key ebiten.Key) (string, bool) {
	name, ok := keyNames[key]
	return name, ok
}

// currentMods reads the modifier keys held this frame.
func currentMods() dispatch.Mods {
	return dispatch.Mods{
		Shift: ebiten.IsKeyPressed(ebiten.KeyShift),
		Ctrl:  ebiten.IsKeyPressed(ebiten.KeyControl),
		Alt:   ebiten.IsKeyPressed(ebiten.KeyAlt),
		Meta:  ebiten.IsKeyPressed(ebiten.KeyMeta),
	}
}

// keyEvents converts the keys pressed this frame into dispatcher events.
// Keys without a binding name are skipped.
func keyEvents(buf []ebiten.Key) ([]ebiten.Key, []dispatch.KeyEvent) {
	buf = inpututil.AppendJustPressedKeys(buf[:0])
	if len(buf) == 0 {
		return buf, nil
	}
	mods := currentMods()
	events := make([]dispatch.KeyEvent, 0, len(buf))
	for _, key := range buf {
		name, ok := KeyName(key)
		if !ok {
			continue
		}
		events = append(events, dispatch.KeyEvent{Key: name, Mods: mods})
	}
	return buf, events
}
