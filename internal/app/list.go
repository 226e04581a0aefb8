package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/samber/lo"

	"dockhud/internal/modules"
	"dockhud/internal/overlay"
)

// Listing is one overlay known on disk.
type Listing struct {
	Name    string
	Custom  bool
	Saved   bool
	Params  overlay.Params
	Widgets []string
}

// ListOverlays reports every overlay definition and custom overlay under
// root with its saved geometry, without opening any window.
func ListOverlays(root string) ([]Listing, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read modules dir: %w", err)
	}
	store := overlay.NewStore(root)

	var out []Listing
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		module := entry.Name()

		saved := store.LoadFileOverlays(module)
		files, _ := os.ReadDir(filepath.Join(root, module, "overlays"))
		for _, f := range files {
			if f.IsDir() || !modules.IsDefinitionFile(f.Name()) {
				continue
			}
			p, ok := saved[f.Name()]
			if !ok {
				p = overlay.DefaultParams()
			}
			out = append(out, Listing{Name: overlay.QualifiedName(module, f.Name()), Saved: ok, Params: p})
		}

		customs := store.LoadCustomOverlays(module)
		names := lo.Keys(customs)
		slices.Sort(names)
		for _, name := range names {
			c := customs[name]
			out = append(out, Listing{
				Name:    overlay.QualifiedName(module, name),
				Custom:  true,
				Saved:   true,
				Params:  c.Params,
				Widgets: c.Widgets,
			})
		}
	}
	return out, nil
}

// WriteListing prints listings as an aligned table.
func WriteListing(w io.Writer, listings []Listing) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "OVERLAY\tKIND\tGEOMETRY\tVISIBLE\tBACKGROUND")
	for _, l := range listings {
		kind := "file"
		if l.Custom {
			kind = "custom(" + strings.Join(l.Widgets, ",") + ")"
		}
		geometry := fmt.Sprintf("%dx%d+%d+%d", l.Params.W, l.Params.H, l.Params.X, l.Params.Y)
		if !l.Saved {
			geometry += " (default)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%s\n", l.Name, kind, geometry, l.Params.UserVisible, l.Params.Background)
	}
	return tw.Flush()
}
