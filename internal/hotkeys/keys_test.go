package hotkeys

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		want string
		ok   bool
	}{
		{"lowercases chars", CharKey('A'), "a", true},
		{"plain char", CharKey('x'), "x", true},
		{"dead acute", CharKey('´'), "", false},
		{"dead caron", CharKey('ˇ'), "", false},
		{"dead tilde", CharKey('~'), "", false},
		{"dead grave", CharKey('`'), "", false},
		{"invalid question mark", CharKey('?'), "", false},
		{"invalid underscore", CharKey('_'), "", false},
		{"bad rune", CharKey(0xFFFD), "", false},
		{"prefixed named key", NamedKey("Key.f9"), "f9", true},
		{"left ctrl", NamedKey("Key.ctrl_l"), "ctrl", true},
		{"right ctrl", NamedKey("Key.ctrl_r"), "ctrl", true},
		{"hook left alt", NamedKey("lalt"), "alt", true},
		{"right shift", NamedKey("shift_r"), "shift", true},
		{"uppercase name", NamedKey("F10"), "f10", true},
		{"unknown passes through", NamedKey("media_play_pause"), "media_play_pause", true},
		{"empty key", Key{}, "", false},
		{"named dead key", NamedKey("^"), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(tt.key)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsFunctionKey(t *testing.T) {
	for _, k := range []string{"f1", "f9", "f12", "f24"} {
		assert.True(t, IsFunctionKey(k), k)
	}
	for _, k := range []string{"f", "f0", "f25", "fx", "ctrl", "a", "f100"} {
		assert.False(t, IsFunctionKey(k), k)
	}
}
