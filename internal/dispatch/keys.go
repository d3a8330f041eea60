package dispatch

import (
	"fmt"
	"strings"
)

// Mods is the modifier state of a key event. Meta is Cmd on macOS.
type Mods struct {
	Shift bool
	Ctrl  bool
	Alt   bool
	Meta  bool
}

// KeyCombination represents a key with optional modifiers
type KeyCombination struct {
	Key string
	Mods
}

// keyNames lists every key name accepted in a binding.
var keyNames = []string{
	"KeyA", "KeyB", "KeyC", "KeyD", "KeyE", "KeyF", "KeyG", "KeyH", "KeyI",
	"KeyJ", "KeyK", "KeyL", "KeyM", "KeyN", "KeyO", "KeyP", "KeyQ", "KeyR",
	"KeyS", "KeyT", "KeyU", "KeyV", "KeyW", "KeyX", "KeyY", "KeyZ",

	"Key0", "Key1", "Key2", "Key3", "Key4", "Key5", "Key6", "Key7", "Key8", "Key9",

	"Space", "Backspace", "Enter", "Escape", "Tab", "Home", "End",
	"PageUp", "PageDown", "ArrowUp", "ArrowDown", "ArrowLeft", "ArrowRight",

	"Comma", "Period", "Slash", "Semicolon", "Quote", "Minus", "Equal",

	"Numpad0", "Numpad1", "Numpad2", "Numpad3", "Numpad4",
	"Numpad5", "Numpad6", "Numpad7", "Numpad8", "Numpad9",
	"NumpadEnter", "NumpadAdd", "NumpadSubtract",
}

var validKeys = func() map[string]bool {
	m := make(map[string]bool, len(keyNames))
	for _, k := range keyNames {
		m[k] = true
	}
	return m
}()

// KeyNames returns the key names accepted in bindings.
func KeyNames() []string {
	out := make([]string, len(keyNames))
	copy(out, keyNames)
	return out
}

// ParseKeyString parses a key string like "Ctrl+Alt+KeyS".
func ParseKeyString(keyStr string) (KeyCombination, error) {
	if keyStr == "" {
		return KeyCombination{}, fmt.Errorf("empty key string")
	}
	parts := strings.Split(keyStr, "+")

	// Last part should be the actual key
	keyName := parts[len(parts)-1]
	if !validKeys[keyName] {
		return KeyCombination{}, fmt.Errorf("unknown key: %s", keyName)
	}
	combination := KeyCombination{Key: keyName}

	for _, mod := range parts[:len(parts)-1] {
		switch strings.ToLower(mod) {
		case "shift":
			combination.Shift = true
		case "ctrl":
			combination.Ctrl = true
		case "alt":
			combination.Alt = true
		case "meta", "cmd":
			combination.Meta = true
		default:
			return KeyCombination{}, fmt.Errorf("unknown modifier: %s", mod)
		}
	}
	return combination, nil
}

// String formats the combination the way ParseKeyString reads it.
func (c KeyCombination) String() string {
	var b strings.Builder
	if c.Ctrl {
		b.WriteString("Ctrl+")
	}
	if c.Alt {
		b.WriteString("Alt+")
	}
	if c.Shift {
		b.WriteString("Shift+")
	}
	if c.Meta {
		b.WriteString("Meta+")
	}
	b.WriteString(c.Key)
	return b.String()
}

// ValidateKeybindings checks every key string and rejects a combination
// bound to two actions.
func ValidateKeybindings(keybindings map[string][]string) error {
	keyToAction := make(map[string]string)

	for _, action := range sortedActions(keybindings) {
		for _, keyStr := range keybindings[action] {
			combination, err := ParseKeyString(keyStr)
			if err != nil {
				return fmt.Errorf("invalid key '%s' for action '%s': %v", keyStr, action, err)
			}

			// Normalized so "Alt+Ctrl+KeyS" and "Ctrl+Alt+KeyS" collide.
			canonical := combination.String()
			if existing, exists := keyToAction[canonical]; exists {
				return fmt.Errorf("key conflict: '%s' is bound to both '%s' and '%s'", keyStr, existing, action)
			}
			keyToAction[canonical] = action
		}
	}
	return nil
}
