package hotkeys

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Key is a raw key as reported by the OS hook. Printable keys carry Char,
// everything else carries the hook's name for the key.
type Key struct {
	Char rune
	Name string
}

// CharKey returns a Key for a printable character.
func CharKey(r rune) Key { return Key{Char: r} }

// NamedKey returns a Key for a non-printable key such as "Key.ctrl_l" or "f9".
func NamedKey(name string) Key { return Key{Name: name} }

// Modifier key names after normalization.
const (
	ModCtrl  = "ctrl"
	ModAlt   = "alt"
	ModShift = "shift"
)

var modifiers = []string{ModCtrl, ModAlt, ModShift}

// Dead keys produce no character on their own and are never part of a chord.
var deadKeys = map[string]bool{
	"ˇ": true, "´": true, "`": true, "^": true,
	"˚": true, "¨": true, "¸": true, "~": true,
}

var invalidChars = map[string]bool{
	"?": true, "_": true, "ˇ": true,
}

// Hook-specific spellings of the left/right modifier variants.
var modifierAliases = map[string]string{
	"ctrl_l": ModCtrl, "ctrl_r": ModCtrl, "lctrl": ModCtrl, "rctrl": ModCtrl,
	"control": ModCtrl, "lcontrol": ModCtrl, "rcontrol": ModCtrl,
	"alt_l": ModAlt, "alt_r": ModAlt, "lalt": ModAlt, "ralt": ModAlt,
	"alt_gr": ModAlt, "altgr": ModAlt, "option": ModAlt,
	"shift_l": ModShift, "shift_r": ModShift, "lshift": ModShift, "rshift": ModShift,
}

var namePrefixes = []string{"Key.", "key.", "VC_", "vc_"}

// Normalize maps a raw key to its canonical lowercase name. It reports false
// for keys that must be ignored entirely: dead keys, invalid characters and
// keys with no usable identity.
func Normalize(k Key) (string, bool) {
	if k.Char != 0 {
		if k.Char == utf8.RuneError || !utf8.ValidRune(k.Char) {
			return "", false
		}
		c := string(unicode.ToLower(k.Char))
		if isIgnored(c) {
			return "", false
		}
		return c, true
	}

	name := strings.TrimSpace(k.Name)
	for _, p := range namePrefixes {
		name = strings.TrimPrefix(name, p)
	}
	name = strings.ToLower(name)
	if name == "" || isIgnored(name) {
		return "", false
	}
	if mod, ok := modifierAliases[name]; ok {
		return mod, true
	}
	return name, true
}

func isIgnored(name string) bool {
	return deadKeys[name] || invalidChars[name]
}

// IsModifier reports whether a normalized key name is ctrl, alt or shift.
func IsModifier(name string) bool {
	return name == ModCtrl || name == ModAlt || name == ModShift
}

// IsFunctionKey reports whether a normalized key name is f1 through f24.
func IsFunctionKey(name string) bool {
	if len(name) < 2 || len(name) > 3 || name[0] != 'f' {
		return false
	}
	n := 0
	for _, c := range name[1:] {
		if c < '0' || c > '9' {
			return false
		}
		n = n*10 + int(c-'0')
	}
	return n >= 1 && n <= 24
}
