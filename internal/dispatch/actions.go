// Package dispatch routes keyboard and pointer input to slide navigation
// or to the zoom/pan engine of the visible slide.
package dispatch

import "sort"

// ActionDefinition defines an action with its default keybindings, mouse
// gestures and description
type ActionDefinition struct {
	Name         string
	Keys         []string
	MouseActions []string
	Description  string
}

// actionDefinitions contains all actions in help display order
var actionDefinitions = []ActionDefinition{
	{"previous", []string{"ArrowLeft"}, []string{"SwipeRight"}, "Previous image (pans left when zoomed)"},
	{"next", []string{"ArrowRight"}, []string{"SwipeLeft"}, "Next image (pans right when zoomed)"},
	{"pan_up", []string{"ArrowUp"}, []string{}, "Pan up when zoomed"},
	{"pan_down", []string{"ArrowDown"}, []string{}, "Pan down when zoomed"},
	{"jump_first", []string{"Home"}, []string{}, "Jump to first image"},
	{"jump_last", []string{"End"}, []string{}, "Jump to last image"},
	{"zoom_in", []string{"Equal", "Shift+Equal", "NumpadAdd"}, []string{"WheelUp"}, "Zoom in"},
	{"zoom_out", []string{"Minus", "NumpadSubtract"}, []string{"WheelDown"}, "Zoom out"},
	{"zoom_reset", []string{"Key0", "Numpad0"}, []string{}, "Reset zoom"},
	{"fullscreen", []string{"KeyF"}, []string{}, "Toggle fullscreen"},
	{"thumbnails", []string{"KeyT"}, []string{}, "Toggle thumbnail panel"},
	{"close_thumbnails", []string{"Escape"}, []string{}, "Close thumbnail panel"},
	{"help", []string{"Shift+Slash"}, []string{}, "Show/hide help"},
	{"toggle_screen_reader", []string{"Ctrl+Alt+KeyS"}, []string{}, "Toggle screen reader mode (shortcuts need Ctrl+Alt)"},
	{"reload", []string{"KeyR"}, []string{}, "Reload the catalog"},
	{"exit", []string{"KeyQ"}, []string{}, "Quit application"},
}

// gestureDefinitions are pointer-only behaviors listed in help after the
// bindable actions. They cannot be rebound.
var gestureDefinitions = []ActionDefinition{
	{"toggle_zoom", []string{}, []string{"DoubleLeftClick"}, "Zoom to 2x at the pointer, or reset when zoomed"},
	{"drag_pan", []string{}, []string{"LeftDrag"}, "Pan when zoomed"},
}

// arrowActions ignore Shift, Ctrl and Meta when matching; those modifiers
// set the pan step while zoomed.
var arrowActions = map[string]bool{
	"previous": true,
	"next":     true,
	"pan_up":   true,
	"pan_down": true,
}

// alwaysActive actions are matched before the screen reader modifier
// requirement is applied.
var alwaysActive = map[string]bool{
	"toggle_screen_reader": true,
}

// ActionDefinitions returns the action table in display order.
func ActionDefinitions() []ActionDefinition {
	out := make([]ActionDefinition, len(actionDefinitions))
	copy(out, actionDefinitions)
	return out
}

// GestureDefinitions returns the pointer-only help rows.
func GestureDefinitions() []ActionDefinition {
	out := make([]ActionDefinition, len(gestureDefinitions))
	copy(out, gestureDefinitions)
	return out
}

// GetActionDescriptions returns a map of action names to their descriptions
func GetActionDescriptions() map[string]string {
	descriptions := make(map[string]string)
	for _, action := range actionDefinitions {
		descriptions[action.Name] = action.Description
	}
	return descriptions
}

// GetDefaultKeybindings returns a map of action names to their default keybindings
func GetDefaultKeybindings() map[string][]string {
	keybindings := make(map[string][]string)
	for _, action := range actionDefinitions {
		keys := make([]string, len(action.Keys))
		copy(keys, action.Keys)
		keybindings[action.Name] = keys
	}
	return keybindings
}

// IsAction reports whether name is a known action.
func IsAction(name string) bool {
	for _, action := range actionDefinitions {
		if action.Name == name {
			return true
		}
	}
	return false
}

func sortedActions(keybindings map[string][]string) []string {
	names := make([]string, 0, len(keybindings))
	for name := range keybindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
