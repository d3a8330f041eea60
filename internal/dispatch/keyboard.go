package dispatch

import (
	"log"

	"gallery/internal/debuglog"
	"gallery/internal/zoompan"
)

// KeyEvent is one key press delivered by the rendering surface.
type KeyEvent struct {
	Key         string // Key name, e.g. "ArrowLeft" or "KeyF"
	Mods        Mods
	InTextInput bool // Focus is inside a text field
}

// Actions are the operations the dispatcher may invoke. Zoom and nudge
// operations apply to the visible slide only.
type Actions interface {
	Prev()
	Next()
	First()
	Last()

	ZoomIn()
	ZoomOut()
	ZoomReset()
	Nudge(dir zoompan.Direction, mods zoompan.Modifiers) bool

	ToggleFullscreen()
	ToggleThumbnails()
	CloseThumbnails()
	ToggleHelp()
	ToggleScreenReader()
	Reload()
	Exit()
}

// State provides read-only access to the modal and zoom state.
type State interface {
	IsZoomed() bool
	ThumbnailsOpen() bool
	ScreenReaderEnabled() bool
}

// Options tune routing decisions.
type Options struct {
	// ArrowsNavigateWithThumbnails lets Left/Right change slides while the
	// thumbnail panel is open.
	ArrowsNavigateWithThumbnails bool
}

type binding struct {
	action      string
	combination KeyCombination
}

// Dispatcher is the single keyboard listener of a gallery.
type Dispatcher struct {
	actions  Actions
	state    State
	opts     Options
	bindings []binding
}

// NewDispatcher builds a dispatcher for keybindings. Invalid key strings
// are logged and skipped.
func NewDispatcher(keybindings map[string][]string, actions Actions, state State, opts Options) *Dispatcher {
	d := &Dispatcher{actions: actions, state: state, opts: opts}
	d.UpdateKeybindings(keybindings)
	return d
}

// UpdateKeybindings replaces the active bindings.
func (d *Dispatcher) UpdateKeybindings(keybindings map[string][]string) {
	d.bindings = d.bindings[:0]
	for _, def := range actionDefinitions {
		for _, keyStr := range keybindings[def.Name] {
			combination, err := ParseKeyString(keyStr)
			if err != nil {
				log.Printf("Warning: Ignoring key '%s' for action '%s': %v", keyStr, def.Name, err)
				continue
			}
			d.bindings = append(d.bindings, binding{action: def.Name, combination: combination})
		}
	}
}

// Lookup returns the action bound to key with mods, preferring an exact
// modifier match over a tolerant arrow match.
func (d *Dispatcher) Lookup(key string, mods Mods) (string, bool) {
	for _, b := range d.bindings {
		if b.combination.Key == key && b.combination.Mods == mods {
			return b.action, true
		}
	}
	for _, b := range d.bindings {
		if !arrowActions[b.action] || b.combination.Key != key {
			continue
		}
		if b.combination.Alt == mods.Alt {
			return b.action, true
		}
	}
	return "", false
}

// HandleKey routes ev and reports whether it was consumed.
func (d *Dispatcher) HandleKey(ev KeyEvent) bool {
	if ev.InTextInput {
		return false
	}

	if action, ok := d.Lookup(ev.Key, ev.Mods); ok && alwaysActive[action] {
		return d.execute(action, ev.Mods)
	}

	mods := ev.Mods
	if d.state.ScreenReaderEnabled() {
		if !mods.Ctrl || !mods.Alt {
			return false
		}
		mods.Ctrl, mods.Alt = false, false
	}

	action, ok := d.Lookup(ev.Key, mods)
	if !ok || alwaysActive[action] {
		return false
	}
	return d.execute(action, mods)
}

func (d *Dispatcher) execute(action string, mods Mods) bool {
	debuglog.Printf("Key action: %s", action)

	switch action {
	case "previous":
		return d.arrow(zoompan.DirectionRight, mods, d.actions.Prev)
	case "next":
		return d.arrow(zoompan.DirectionLeft, mods, d.actions.Next)
	case "pan_up":
		return d.arrow(zoompan.DirectionDown, mods, nil)
	case "pan_down":
		return d.arrow(zoompan.DirectionUp, mods, nil)
	case "jump_first":
		d.actions.First()
	case "jump_last":
		d.actions.Last()
	case "zoom_in":
		d.actions.ZoomIn()
	case "zoom_out":
		d.actions.ZoomOut()
	case "zoom_reset":
		d.actions.ZoomReset()
	case "fullscreen":
		d.actions.ToggleFullscreen()
	case "thumbnails":
		d.actions.ToggleThumbnails()
	case "close_thumbnails":
		if !d.state.ThumbnailsOpen() {
			return false
		}
		d.actions.CloseThumbnails()
	case "help":
		d.actions.ToggleHelp()
	case "toggle_screen_reader":
		d.actions.ToggleScreenReader()
	case "reload":
		d.actions.Reload()
	case "exit":
		d.actions.Exit()
	default:
		return false
	}
	return true
}

// arrow pans the zoomed slide by one step in dir, or navigates with nav
// when the slide is idle. An arrow key on a zoomed slide never changes
// slides.
func (d *Dispatcher) arrow(dir zoompan.Direction, mods Mods, nav func()) bool {
	if d.state.IsZoomed() {
		d.actions.Nudge(dir, zoompan.Modifiers{Fast: mods.Shift, Fine: mods.Ctrl || mods.Meta})
		return true
	}
	if nav == nil {
		return false
	}
	if d.state.ThumbnailsOpen() && !d.opts.ArrowsNavigateWithThumbnails {
		return false
	}
	nav()
	return true
}
