package gallery

import (
	"image"

	"gallery/internal/catalog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// Card shows one product: thumbnail, title and price. Skeleton cards carry
// no item and ignore taps.
type Card struct {
	widget.BaseWidget

	item     catalog.Item
	skeleton bool
	onTap    func(catalog.Item)

	thumb *canvas.Image
	title *widget.Label
	price *widget.Label
}

var _ fyne.Tappable = (*Card)(nil)

func newCard(it catalog.Item, price string, onTap func(catalog.Item)) *Card {
	c := &Card{
		item:  it,
		onTap: onTap,
		thumb: newThumb(),
		title: widget.NewLabelWithStyle(it.Name, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		price: widget.NewLabel(price),
	}
	c.title.Truncation = fyne.TextTruncateEllipsis
	c.ExtendBaseWidget(c)
	return c
}

func newSkeletonCard() *Card {
	c := &Card{
		skeleton: true,
		thumb:    newThumb(),
		title:    widget.NewLabel("…"),
		price:    widget.NewLabel(" "),
	}
	c.title.Importance = widget.LowImportance
	c.ExtendBaseWidget(c)
	return c
}

// Item returns the product shown by the card.
func (c *Card) Item() catalog.Item {
	return c.item
}

// Skeleton reports whether this is a loading placeholder.
func (c *Card) Skeleton() bool {
	return c.skeleton
}

// Title returns the displayed title text.
func (c *Card) Title() string {
	return c.title.Text
}

// Price returns the displayed price text.
func (c *Card) Price() string {
	return c.price.Text
}

// SetThumbnail replaces the placeholder image.
func (c *Card) SetThumbnail(img image.Image) {
	c.thumb.Image = img
	c.thumb.Refresh()
}

// Tapped opens the product.
func (c *Card) Tapped(*fyne.PointEvent) {
	if c.skeleton || c.onTap == nil {
		return
	}
	c.onTap(c.item)
}

func (c *Card) CreateRenderer() fyne.WidgetRenderer {
	text := container.NewVBox(c.title, c.price)
	return widget.NewSimpleRenderer(container.NewBorder(nil, text, nil, nil, c.thumb))
}
