package hotkeys

import (
	"sort"
	"strconv"

	"github.com/vcaesar/keycode"
)

// libuiohook virtual key codes missing from keycode.Keycode, or misnamed
// there: 14 is backspace, and 69/70 are the lock keys, not f11/f12.
var extraKeycodes = map[uint16]string{
	14:   "backspace",
	58:   "caps_lock",
	69:   "num_lock",
	70:   "scroll_lock",
	87:   "f11",
	88:   "f12",
	91:   "f13",
	92:   "f14",
	93:   "f15",
	99:   "f16",
	100:  "f17",
	101:  "f18",
	102:  "f19",
	103:  "f20",
	104:  "f21",
	105:  "f22",
	106:  "f23",
	107:  "f24",
	3613: "rctrl",
	3655: "home",
	3657: "page_up",
	3663: "end",
	3665: "page_down",
	3666: "insert",
	3667: "delete",
}

// codeNames maps a hook key code to one stable name. Shifted spellings and
// long aliases share a code with their base key and are left out.
var codeNames = buildCodeNames()

func buildCodeNames() map[uint16]string {
	names := make([]string, 0, len(keycode.Keycode))
	for name := range keycode.Keycode {
		if _, shifted := keycode.Special[name]; shifted {
			continue
		}
		if name == "control" || name == "command" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	m := make(map[uint16]string, len(names)+len(extraKeycodes))
	for _, name := range names {
		code := keycode.Keycode[name]
		if _, ok := m[code]; !ok {
			m[code] = name
		}
	}
	for code, name := range extraKeycodes {
		m[code] = name
	}
	return m
}

// KeyFromCode names a key from its hook key code. The code identifies the
// physical key, so a press and its release get the same name whatever the
// keyboard layout or modifier state.
func KeyFromCode(code uint16) Key {
	if name, ok := codeNames[code]; ok {
		return NamedKey(name)
	}
	return NamedKey("key" + strconv.Itoa(int(code)))
}
