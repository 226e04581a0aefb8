package ui

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBackground(t *testing.T) {
	cases := []struct {
		spec string
		want color.Color
	}{
		{"rgba(0,0,0,127)", color.NRGBA{A: 127}},
		{" rgba(10, 20, 30, 255) ", color.NRGBA{R: 10, G: 20, B: 30, A: 255}},
		{"rgba(255,0,0,0.5)", color.NRGBA{R: 255, A: 128}},
		{"rgb(1,2,3)", color.NRGBA{R: 1, G: 2, B: 3, A: 255}},
		{"#ff8000", color.NRGBA{R: 255, G: 128, A: 255}},
		{"#FFF", color.NRGBA{R: 255, G: 255, B: 255, A: 255}},
		{"#00000080", color.NRGBA{A: 128}},
		{"transparent", color.Transparent},
		{"", color.Transparent},
		{"Red", color.RGBA{R: 255, A: 255}},
	}
	for _, c := range cases {
		got, err := ParseBackground(c.spec)
		require.NoError(t, err, c.spec)
		assert.Equal(t, c.want, got, c.spec)
	}
}

func TestParseBackgroundErrors(t *testing.T) {
	for _, spec := range []string{
		"rgba(1,2,3)",
		"rgba(1,2,3,256)",
		"rgba(1,2,3,1.5)",
		"rgb(a,b,c)",
		"rgba(1,2,3,4",
		"#12345",
		"#gggggg",
		"not-a-color",
	} {
		_, err := ParseBackground(spec)
		assert.Error(t, err, spec)
	}
}

func TestFormatRGBA(t *testing.T) {
	assert.Equal(t, "rgba(0,0,0,127)", FormatRGBA(color.NRGBA{A: 127}))

	c, err := ParseBackground(FormatRGBA(color.NRGBA{R: 9, G: 8, B: 7, A: 6}))
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 9, G: 8, B: 7, A: 6}, c)
}

func TestBackgroundColorFallsBackToTransparent(t *testing.T) {
	assert.Equal(t, color.Transparent, backgroundColor("bogus"))
}
