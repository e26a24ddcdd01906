package input

import (
	"strings"
	"unicode/utf8"
)

// KeyBinding formats a key event as a shortcut name such as "Ctrl + S",
// "Shift + Space" or "ArrowLeft".
func KeyBinding(ev *Event) string {
	var mods []string
	if ev.Ctrl {
		mods = append(mods, "Ctrl")
	}
	if ev.Alt {
		mods = append(mods, "Alt")
	}
	if ev.Shift {
		mods = append(mods, "Shift")
	}
	prefix := ""
	if len(mods) > 0 {
		prefix = strings.Join(mods, " + ") + " + "
	}

	switch ev.Key {
	case " ":
		return prefix + "Space"
	case "Dead":
		return prefix + "`"
	}
	if utf8.RuneCountInString(ev.Key) == 1 {
		return prefix + strings.ToUpper(ev.Key)
	}
	return prefix + ev.Key
}

// IsModifier reports whether key is a bare modifier key.
func IsModifier(key string) bool {
	switch key {
	case "Control", "Alt", "Shift", "Meta":
		return true
	}
	return false
}
