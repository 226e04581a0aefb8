package ui

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// ParseBackground turns a background spec into a color. Accepted forms are
// rgba(r,g,b,a) and rgb(r,g,b) with 0-255 components (alpha may also be a
// 0-1 fraction), #rgb, #rrggbb, #rrggbbaa, "transparent" and SVG color
// names.
func ParseBackground(spec string) (color.Color, error) {
	s := strings.ToLower(strings.TrimSpace(spec))
	switch {
	case s == "" || s == "transparent" || s == "none":
		return color.Transparent, nil
	case strings.HasPrefix(s, "rgba(") || strings.HasPrefix(s, "rgb("):
		return parseFunctional(s)
	case strings.HasPrefix(s, "#"):
		return parseHex(s)
	}
	if c, ok := colornames.Map[s]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("unknown background %q", spec)
}

// backgroundColor is ParseBackground falling back to transparent.
func backgroundColor(spec string) color.Color {
	c, err := ParseBackground(spec)
	if err != nil {
		return color.Transparent
	}
	return c
}

// FormatRGBA formats c as an rgba() background spec.
func FormatRGBA(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("rgba(%d,%d,%d,%d)", n.R, n.G, n.B, n.A)
}

func parseFunctional(s string) (color.Color, error) {
	open := strings.IndexByte(s, '(')
	if !strings.HasSuffix(s, ")") {
		return nil, fmt.Errorf("unterminated %q", s)
	}
	fn := s[:open]
	args := strings.Split(s[open+1:len(s)-1], ",")

	want := 4
	if fn == "rgb" {
		want = 3
	}
	if len(args) != want {
		return nil, fmt.Errorf("%s needs %d components, got %d", fn, want, len(args))
	}

	var comps [4]uint8
	comps[3] = 255
	for i, a := range args {
		a = strings.TrimSpace(a)
		if i == 3 && strings.Contains(a, ".") {
			f, err := strconv.ParseFloat(a, 64)
			if err != nil || f < 0 || f > 1 {
				return nil, fmt.Errorf("bad alpha %q", a)
			}
			comps[3] = uint8(f*255 + 0.5)
			continue
		}
		v, err := strconv.Atoi(a)
		if err != nil || v < 0 || v > 255 {
			return nil, fmt.Errorf("bad component %q", a)
		}
		comps[i] = uint8(v)
	}
	return color.NRGBA{R: comps[0], G: comps[1], B: comps[2], A: comps[3]}, nil
}

func parseHex(s string) (color.Color, error) {
	alpha := uint8(255)
	switch len(s) {
	case 9:
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("bad alpha in %q", s)
		}
		alpha = uint8(a)
		s = s[:7]
	case 4, 7:
	default:
		return nil, fmt.Errorf("bad hex color %q", s)
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return nil, err
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}
