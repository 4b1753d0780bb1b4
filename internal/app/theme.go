package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// GalleryTheme tints the default theme for the product gallery.
type GalleryTheme struct{}

var _ fyne.Theme = (*GalleryTheme)(nil)

func (t *GalleryTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return color.NRGBA{R: 0x8C, G: 0x5A, B: 0x3C, A: 0xFF}
	case theme.ColorNameHyperlink:
		return color.NRGBA{R: 0xB0, G: 0x6A, B: 0x3A, A: 0xFF}
	case theme.ColorNameSelection:
		return color.NRGBA{R: 0x8C, G: 0x5A, B: 0x3C, A: 0x40}
	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func (t *GalleryTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *GalleryTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *GalleryTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 6
	case theme.SizeNameInnerPadding:
		return 10
	default:
		return theme.DefaultTheme().Size(name)
	}
}
