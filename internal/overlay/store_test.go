package overlay

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func readJSON(t *testing.T, path string) map[string]map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc
}

func TestLoadFileOverlayDefaults(t *testing.T) {
	s := NewStore(t.TempDir())
	defaults := DefaultParams()

	got := s.LoadFileOverlay("mod", "clock.yaml", defaults)
	assert.Equal(t, "mod", got.Module)
	got.Module = ""
	assert.Equal(t, defaults, got)
}

func TestLoadFileOverlayMalformed(t *testing.T) {
	s := NewStore(t.TempDir())
	writeJSON(t, s.FileOverlaysPath("mod"), "{not json")

	got := s.LoadFileOverlay("mod", "clock.yaml", DefaultParams())
	assert.Equal(t, DefaultParams().Rect(), got.Rect())
}

func TestLoadFileOverlayPartialEntry(t *testing.T) {
	s := NewStore(t.TempDir())
	writeJSON(t, s.FileOverlaysPath("mod"), `{"clock.yaml": {"x": 5, "y": 6}}`)

	got := s.LoadFileOverlay("mod", "clock.yaml", DefaultParams())
	assert.Equal(t, Rect{X: 5, Y: 6, W: 400, H: 200}, got.Rect())
	assert.Equal(t, DefaultBackground, got.Background)
	assert.True(t, got.UserVisible)
}

func TestMergeFileOverlaysPreservesOtherKeys(t *testing.T) {
	s := NewStore(t.TempDir())
	writeJSON(t, s.FileOverlaysPath("mod"), `{"other.yaml": {"x": 1, "y": 2, "w": 300, "h": 100, "bg": "red", "user_visible": false}}`)

	err := s.MergeFileOverlays("mod", map[string]Params{
		"clock.yaml": {X: 10, Y: 20, W: 300, H: 150, Background: "blue", UserVisible: true},
	})
	require.NoError(t, err)

	doc := readJSON(t, s.FileOverlaysPath("mod"))
	assert.Len(t, doc, 2)
	assert.Equal(t, "red", doc["other.yaml"]["bg"])
	assert.Equal(t, map[string]any{
		"x": 10.0, "y": 20.0, "w": 300.0, "h": 150.0, "bg": "blue", "user_visible": true,
	}, doc["clock.yaml"])
}

func TestMergeFileOverlaysReplacesMalformed(t *testing.T) {
	s := NewStore(t.TempDir())
	writeJSON(t, s.FileOverlaysPath("mod"), "[1, 2")

	require.NoError(t, s.MergeFileOverlays("mod", map[string]Params{"a.yaml": DefaultParams()}))
	assert.Len(t, readJSON(t, s.FileOverlaysPath("mod")), 1)
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	s := NewStore(t.TempDir())
	for i := 0; i < 3; i++ {
		require.NoError(t, s.MergeFileOverlays("mod", map[string]Params{"a.yaml": DefaultParams()}))
	}

	entries, err := os.ReadDir(filepath.Dir(s.FileOverlaysPath("mod")))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, FileOverlaysFile, entries[0].Name())
}

func TestMergeCustomGeometryKeepsWidgets(t *testing.T) {
	s := NewStore(t.TempDir())
	c := DefaultCustomParams("clock", "note")
	c.WidgetBackgrounds["clock"] = "rgba(0,0,255,255)"
	require.NoError(t, s.PutCustomOverlay("mod", "stats", c))

	err := s.MergeCustomGeometry("mod", map[string]Params{
		"stats": {X: 7, Y: 8, W: 500, H: 60, Background: "green", UserVisible: false},
		"gone":  {X: 1, Y: 1, W: 100, H: 50},
	})
	require.NoError(t, err)

	got := s.LoadCustomOverlays("mod")
	require.Len(t, got, 1, "geometry merge must not create entries")
	stats := got["stats"]
	assert.Equal(t, Rect{X: 7, Y: 8, W: 500, H: 60}, stats.Rect())
	assert.Equal(t, "green", stats.Background)
	assert.False(t, stats.UserVisible)
	assert.Equal(t, []string{"clock", "note"}, stats.Widgets)
	assert.Equal(t, "rgba(0,0,255,255)", stats.WidgetBackground("clock"))
	assert.Equal(t, DefaultBackground, stats.WidgetBackground("note"))
}

func TestMergeCustomGeometryKeepsUnknownFields(t *testing.T) {
	s := NewStore(t.TempDir())
	writeJSON(t, s.CustomOverlaysPath("mod"), `{"stats": {"x": 1, "widgets": ["clock"], "font": "mono"}}`)

	require.NoError(t, s.MergeCustomGeometry("mod", map[string]Params{"stats": DefaultParams()}))

	doc := readJSON(t, s.CustomOverlaysPath("mod"))
	assert.Equal(t, "mono", doc["stats"]["font"])
	assert.Equal(t, 100.0, doc["stats"]["x"])
}

func TestDeleteCustomOverlay(t *testing.T) {
	s := NewStore(t.TempDir())
	require.NoError(t, s.PutCustomOverlay("mod", "a", DefaultCustomParams()))
	require.NoError(t, s.PutCustomOverlay("mod", "b", DefaultCustomParams()))

	ok, err := s.DeleteCustomOverlay("mod", "a")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.DeleteCustomOverlay("mod", "a")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Len(t, s.LoadCustomOverlays("mod"), 1)
}

func TestLoadFileOverlays(t *testing.T) {
	s := NewStore(t.TempDir())
	writeJSON(t, s.FileOverlaysPath("mod"), `{"a.yaml": {"x": 3}, "b.yaml": "oops"}`)

	got := s.LoadFileOverlays("mod")
	require.Len(t, got, 1)
	assert.Equal(t, 3, got["a.yaml"].X)
	assert.Equal(t, "mod", got["a.yaml"].Module)
}
