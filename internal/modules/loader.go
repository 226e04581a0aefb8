package modules

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"fyne.io/fyne/v2"
	"gopkg.in/yaml.v3"

	"dockhud/internal/overlay"
)

// Definition is the on-disk form of an overlay or widget.
type Definition struct {
	Widget  string  `yaml:"widget"`
	Options Options `yaml:"options"`
}

// ReadDefinition parses a definition file.
func ReadDefinition(path string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, err
	}
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return Definition{}, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	if def.Widget == "" {
		return Definition{}, fmt.Errorf("%s: missing widget kind", filepath.Base(path))
	}
	return def, nil
}

// IsDefinitionFile reports whether name looks like a definition file.
func IsDefinitionFile(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Loader implements overlay.Loader on top of a registry and lists the
// widgets each module offers.
type Loader struct {
	root     string
	registry *Registry
}

// NewLoader creates a loader for the modules under root.
func NewLoader(root string, registry *Registry) *Loader {
	return &Loader{root: root, registry: registry}
}

// OverlayDefinitions lists the definitions of an overlays directory in file
// name order. Files that cannot be parsed are skipped.
func (l *Loader) OverlayDefinitions(overlaysDir string) ([]overlay.OverlayDefinition, error) {
	files, err := definitionFiles(overlaysDir)
	if err != nil {
		return nil, err
	}
	defs := make([]overlay.OverlayDefinition, 0, len(files))
	for _, file := range files {
		def, err := l.OverlayDefinition(filepath.Join(overlaysDir, file))
		if err != nil {
			slog.Warn("skipping overlay definition", "file", file, "error", err)
			continue
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// OverlayDefinition loads one overlay definition file. The factory passes
// the module name taken from the params to the widget builder.
func (l *Loader) OverlayDefinition(path string) (overlay.OverlayDefinition, error) {
	def, err := ReadDefinition(path)
	if err != nil {
		return overlay.OverlayDefinition{}, err
	}
	build, err := l.registry.Lookup(def.Widget)
	if err != nil {
		return overlay.OverlayDefinition{}, err
	}
	return overlay.OverlayDefinition{
		Name: filepath.Base(path),
		Factory: overlay.OverlayFactoryFunc(func(params overlay.Params) (fyne.CanvasObject, error) {
			return build(params.Module, def.Options)
		}),
	}, nil
}

// Widget returns the factory for widgetsDir/<name>.yaml (or .yml).
func (l *Loader) Widget(widgetsDir, name string) (overlay.WidgetFactory, error) {
	path, ok := findDefinition(widgetsDir, name)
	if !ok {
		return nil, fmt.Errorf("%w %q in %s", overlay.ErrUnknownWidget, name, widgetsDir)
	}
	def, err := ReadDefinition(path)
	if err != nil {
		return nil, err
	}
	build, err := l.registry.Lookup(def.Widget)
	if err != nil {
		return nil, err
	}
	return overlay.WidgetFactoryFunc(func(module string) (fyne.CanvasObject, error) {
		return build(module, def.Options)
	}), nil
}

// Modules lists the modules that offer widgets.
func (l *Loader) Modules() []string {
	entries, err := os.ReadDir(l.root)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if info, err := os.Stat(filepath.Join(l.root, e.Name(), "widgets")); err == nil && info.IsDir() {
			out = append(out, e.Name())
		}
	}
	return out
}

// Widgets lists the widget names of a module, without extensions.
func (l *Loader) Widgets(module string) []string {
	files, err := definitionFiles(filepath.Join(l.root, module, "widgets"))
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, strings.TrimSuffix(f, filepath.Ext(f)))
	}
	return slices.Compact(names)
}

func definitionFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && IsDefinitionFile(e.Name()) {
			files = append(files, e.Name())
		}
	}
	slices.Sort(files)
	return files, nil
}

func findDefinition(dir, name string) (string, bool) {
	for _, ext := range []string{".yaml", ".yml"} {
		path := filepath.Join(dir, name+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}
