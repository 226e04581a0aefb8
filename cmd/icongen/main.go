// Command icongen writes the dockhud icon to PNG files for packaging.
package main

import (
	"flag"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"dockhud/internal/assets"
)

func main() {
	dir := flag.String("out", filepath.Join("assets", "icons"), "output directory")
	flag.Parse()

	if err := os.MkdirAll(*dir, 0755); err != nil {
		slog.Error("create output dir", "error", err)
		os.Exit(1)
	}

	img := assets.RenderIcon()
	for _, name := range []string{"tray.png", "app.png"} {
		if err := savePNG(img, filepath.Join(*dir, name)); err != nil {
			slog.Error("write icon", "file", name, "error", err)
			os.Exit(1)
		}
	}
}

func savePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
