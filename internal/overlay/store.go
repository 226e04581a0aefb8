package overlay

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// File names of the per-module persisted documents.
const (
	FileOverlaysFile   = "python_overlays.json"
	CustomOverlaysFile = "custom_overlays.json"
)

// Store reads and writes the per-module overlay documents under a modules
// root: <root>/<module>/config/{python_overlays,custom_overlays}.json.
//
// Every write is a read-merge-write that keeps unrelated top-level keys and
// replaces the file atomically. Missing or malformed documents read as empty.
type Store struct {
	root string
}

// NewStore returns a store rooted at the modules directory.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Root returns the modules directory.
func (s *Store) Root() string {
	return s.root
}

// FileOverlaysPath returns the path of a module's file-overlay document.
func (s *Store) FileOverlaysPath(module string) string {
	return filepath.Join(s.root, module, "config", FileOverlaysFile)
}

// CustomOverlaysPath returns the path of a module's custom-overlay document.
func (s *Store) CustomOverlaysPath(module string) string {
	return filepath.Join(s.root, module, "config", CustomOverlaysFile)
}

// LoadFileOverlay returns the saved params of one file overlay, or defaults
// if there are none. Fields absent from the saved entry keep their default.
func (s *Store) LoadFileOverlay(module, name string, defaults Params) Params {
	doc := readDocument(s.FileOverlaysPath(module))
	raw, ok := doc[name]
	if !ok {
		return withModule(defaults, module)
	}
	p := defaults
	if err := json.Unmarshal(raw, &p); err != nil {
		slog.Debug("bad overlay entry, using defaults", "module", module, "overlay", name, "error", err)
		return withModule(defaults, module)
	}
	return withModule(p, module)
}

// LoadFileOverlays returns every saved file overlay of a module.
func (s *Store) LoadFileOverlays(module string) map[string]Params {
	out := make(map[string]Params)
	for name, raw := range readDocument(s.FileOverlaysPath(module)) {
		p := DefaultParams()
		if err := json.Unmarshal(raw, &p); err != nil {
			continue
		}
		out[name] = withModule(p, module)
	}
	return out
}

// MergeFileOverlays writes entries into a module's file-overlay document.
func (s *Store) MergeFileOverlays(module string, entries map[string]Params) error {
	path := s.FileOverlaysPath(module)
	doc := readDocument(path)
	for name, p := range entries {
		raw, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encode %s: %w", name, err)
		}
		doc[name] = raw
	}
	return writeDocument(path, doc)
}

// LoadCustomOverlays returns every custom overlay definition of a module.
func (s *Store) LoadCustomOverlays(module string) map[string]CustomParams {
	out := make(map[string]CustomParams)
	for name, raw := range readDocument(s.CustomOverlaysPath(module)) {
		c := DefaultCustomParams()
		if err := json.Unmarshal(raw, &c); err != nil {
			slog.Debug("bad custom overlay entry", "module", module, "overlay", name, "error", err)
			continue
		}
		c.Params = withModule(c.Params, module)
		out[name] = c
	}
	return out
}

// PutCustomOverlay stores a complete custom overlay definition.
func (s *Store) PutCustomOverlay(module, name string, c CustomParams) error {
	path := s.CustomOverlaysPath(module)
	doc := readDocument(path)
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	doc[name] = raw
	return writeDocument(path, doc)
}

// MergeCustomGeometry updates geometry, background and visibility of custom
// overlays that still exist in the document. Other fields of each entry,
// such as the widget list, are kept.
func (s *Store) MergeCustomGeometry(module string, entries map[string]Params) error {
	path := s.CustomOverlaysPath(module)
	doc := readDocument(path)
	changed := false
	for name, p := range entries {
		raw, ok := doc[name]
		if !ok {
			continue
		}
		merged, err := mergeFields(raw, p)
		if err != nil {
			slog.Debug("bad custom overlay entry, replacing geometry only", "module", module, "overlay", name, "error", err)
			merged, err = json.Marshal(p)
			if err != nil {
				return fmt.Errorf("encode %s: %w", name, err)
			}
		}
		doc[name] = merged
		changed = true
	}
	if !changed {
		return nil
	}
	return writeDocument(path, doc)
}

// DeleteCustomOverlay removes a custom overlay definition. It reports
// whether the entry existed.
func (s *Store) DeleteCustomOverlay(module, name string) (bool, error) {
	path := s.CustomOverlaysPath(module)
	doc := readDocument(path)
	if _, ok := doc[name]; !ok {
		return false, nil
	}
	delete(doc, name)
	return true, writeDocument(path, doc)
}

func withModule(p Params, module string) Params {
	p.Module = module
	return p
}

// mergeFields overlays the fields of p onto an existing JSON object.
func mergeFields(existing json.RawMessage, p Params) (json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(existing, &obj); err != nil {
		return nil, err
	}
	if obj == nil {
		obj = make(map[string]json.RawMessage)
	}

	raw, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	for k, v := range fields {
		obj[k] = v
	}
	return json.Marshal(obj)
}

func readDocument(path string) map[string]json.RawMessage {
	doc := make(map[string]json.RawMessage)

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Debug("cannot read overlay document", "path", path, "error", err)
		}
		return doc
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		slog.Debug("malformed overlay document, treating as empty", "path", path, "error", err)
		return make(map[string]json.RawMessage)
	}
	if doc == nil {
		doc = make(map[string]json.RawMessage)
	}
	return doc
}

// writeDocument replaces path atomically: the document is written to a
// temporary file in the same directory and renamed over the original.
func writeDocument(path string, doc map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
