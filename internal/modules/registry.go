// Package modules finds overlay and widget definitions inside module
// directories and builds their content from registered widget kinds.
//
// A module is a directory under the modules root:
//
//	modules/<module>/overlays/<name>.yaml   file-defined overlays
//	modules/<module>/widgets/<name>.yaml    widgets for custom overlays
//	modules/<module>/config/                persisted overlay state
//
// Both definition kinds share one format:
//
//	widget: clock
//	options:
//	  format: "15:04"
package modules

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"fyne.io/fyne/v2"
	"github.com/samber/lo"
)

// ErrNoFactory is returned for a definition naming an unregistered widget kind.
var ErrNoFactory = errors.New("no factory for widget kind")

// Options are the free-form settings of a definition.
type Options map[string]any

// String returns the option as a string, or def when unset.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok && v != nil {
		return fmt.Sprint(v)
	}
	return def
}

// Float returns a numeric option, or def when unset or not a number.
func (o Options) Float(key string, def float64) float64 {
	switch v := o[key].(type) {
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case float64:
		return v
	}
	return def
}

// Builder creates the content of a widget kind for a module.
type Builder func(module string, opts Options) (fyne.CanvasObject, error)

// Registry maps widget kinds to builders.
type Registry struct {
	mu       sync.RWMutex
	builders map[string]Builder
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{builders: make(map[string]Builder)}
}

// Register adds or replaces the builder of a kind.
func (r *Registry) Register(kind string, b Builder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builders[kind] = b
}

// Lookup returns the builder of a kind.
func (r *Registry) Lookup(kind string) (Builder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.builders[kind]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrNoFactory, kind)
	}
	return b, nil
}

// Kinds lists the registered kinds in sorted order.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := lo.Keys(r.builders)
	slices.Sort(kinds)
	return kinds
}
