// Command catalogcheck loads a catalog, decodes every product image and
// prints its dimensions with the initial fit for a given viewport.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"gallery/internal/catalog"
	galleryimage "gallery/internal/image"
	"gallery/internal/viewer"
	"gallery/pkg/geometry"
)

func main() {
	source := flag.String("catalog", "", "Catalog file path or URL")
	width := flag.Float64("width", 1000, "Viewport width")
	height := flag.Float64("height", 800, "Viewport height")
	padding := flag.Float64("padding", viewer.DefaultPadding, "Viewport padding")
	locale := flag.String("locale", "de-DE", "Price locale")
	all := flag.Bool("all", false, "Include unavailable items")
	timeout := flag.Duration("timeout", 30*time.Second, "Overall timeout")
	flag.Parse()

	if *source == "" {
		fmt.Println("Usage: catalogcheck -catalog <path|url> [-width 1000] [-height 800] [-padding 16] [-all]")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	loader := catalog.NewLoader(*source, nil, nil)
	items, err := loader.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load catalog: %v\n", err)
		os.Exit(1)
	}
	total := len(items)
	if !*all {
		items = catalog.Available(items)
	}
	fmt.Printf("Loaded %d items (%d shown) from %s\n", total, len(items), loader.Source())

	viewport := geometry.NewSize(*width, *height)
	fmt.Printf("Viewport: %.0fx%.0f, padding %.0f\n\n", viewport.Width, viewport.Height, *padding)

	formatter := catalog.NewPriceFormatter(catalog.ParseLocale(*locale))
	fetcher := galleryimage.NewFetcher(nil, nil)

	fmt.Printf("%-36s %-24s %12s %11s %7s %7s %7s\n",
		"ID", "Name", "Price", "Size", "Fit", "Min", "Max")
	fmt.Println(strings.Repeat("-", 110))

	failures := 0
	for _, it := range items {
		ref := loader.ResolveImage(it.Image)
		asset, err := fetcher.Load(ctx, ref)
		if err != nil {
			failures++
			fmt.Printf("%-36s %-24s %12s  error: %v\n", it.ID, truncate(it.Name, 24), formatter.FormatItem(it), err)
			continue
		}
		fit, err := viewer.ComputeFit(viewport, asset.Size(), *padding)
		if err != nil {
			failures++
			fmt.Printf("%-36s %-24s %12s  error: %v\n", it.ID, truncate(it.Name, 24), formatter.FormatItem(it), err)
			continue
		}
		fmt.Printf("%-36s %-24s %12s %5dx%-5d %7.3f %7.3f %7.3f\n",
			it.ID, truncate(it.Name, 24), formatter.FormatItem(it),
			asset.Width(), asset.Height(), fit.Scale, fit.MinScale, fit.MaxScale)
	}

	fmt.Printf("\nTotal: %d images checked, %d failed\n", len(items), failures)
	if failures > 0 {
		os.Exit(2)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
