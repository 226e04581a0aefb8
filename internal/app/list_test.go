package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dockhud/internal/config"
	"dockhud/internal/overlay"
)

func TestListOverlays(t *testing.T) {
	root := t.TempDir()
	overlays := filepath.Join(root, "weather", "overlays")
	require.NoError(t, os.MkdirAll(overlays, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(overlays, "temp.yaml"), []byte("widget: note\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(overlays, "wind.yaml"), []byte("widget: note\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(overlays, "readme.md"), []byte("-"), 0o644))

	store := overlay.NewStore(root)
	require.NoError(t, store.MergeFileOverlays("weather", map[string]overlay.Params{
		"temp.yaml": {X: 10, Y: 20, W: 300, H: 150, Background: overlay.DefaultBackground, UserVisible: false},
	}))
	require.NoError(t, store.PutCustomOverlay("weather", "stats", overlay.DefaultCustomParams("temp", "wind")))

	listings, err := ListOverlays(root)
	require.NoError(t, err)
	require.Len(t, listings, 3)

	assert.Equal(t, "weather:temp.yaml", listings[0].Name)
	assert.True(t, listings[0].Saved)
	assert.Equal(t, 300, listings[0].Params.W)
	assert.False(t, listings[0].Params.UserVisible)

	assert.Equal(t, "weather:wind.yaml", listings[1].Name)
	assert.False(t, listings[1].Saved)
	assert.Equal(t, overlay.DefaultParams().W, listings[1].Params.W)

	assert.Equal(t, "weather:stats", listings[2].Name)
	assert.True(t, listings[2].Custom)
	assert.Equal(t, []string{"temp", "wind"}, listings[2].Widgets)

	var buf bytes.Buffer
	require.NoError(t, WriteListing(&buf, listings))
	out := buf.String()
	assert.Contains(t, out, "OVERLAY")
	assert.Contains(t, out, "300x150+10+20")
	assert.Contains(t, out, "(default)")
	assert.Contains(t, out, "custom(temp,wind)")
}

func TestListOverlaysMissingRoot(t *testing.T) {
	_, err := ListOverlays(filepath.Join(t.TempDir(), "none"))
	assert.Error(t, err)
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	t.Cleanup(func() { config.SetPath("") })
	cfg, err := LoadConfig(Options{ConfigPath: path, ModulesDir: "/srv/modules"})
	require.NoError(t, err)
	assert.Equal(t, "/srv/modules", cfg.ModulesDir)
	assert.Equal(t, "f9", cfg.ToggleOverlaysChord)
}
