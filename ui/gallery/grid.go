// Package gallery provides the product card grid.
package gallery

import (
	"context"
	"sync"

	"gallery/internal/catalog"
	galleryimage "gallery/internal/image"
	"gallery/internal/logging"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"
)

// DefaultSkeletons is the number of placeholder cards shown while loading.
const DefaultSkeletons = 8

var cardSize = fyne.NewSize(220, 290)

// Options configures thumbnail loading.
type Options struct {
	ThumbnailSize int
	Workers       int
}

// Grid is a responsive wrap grid of product cards.
type Grid struct {
	widget.BaseWidget

	resolve   func(ref string) string
	images    *galleryimage.Fetcher
	formatter *catalog.PriceFormatter
	opts      Options
	logger    *zap.Logger

	mu       sync.Mutex
	cards    []*Card
	cancel   context.CancelFunc
	onSelect func(catalog.Item)

	cells  *fyne.Container
	scroll *container.Scroll
}

// NewGrid creates an empty grid. Image references are passed through resolve
// (nil keeps them as is) and thumbnails are fetched through images.
func NewGrid(resolve func(ref string) string, images *galleryimage.Fetcher, formatter *catalog.PriceFormatter, opts Options, logger *zap.Logger) *Grid {
	logger = logging.OrNop(logger)
	g := &Grid{
		resolve:   resolve,
		images:    images,
		formatter: formatter,
		opts:      opts,
		logger:    logger,
		cells:     container.NewGridWrap(cardSize),
	}
	g.scroll = container.NewVScroll(g.cells)
	g.ExtendBaseWidget(g)
	return g
}

// OnSelect registers the callback invoked when a product card is tapped.
func (g *Grid) OnSelect(f func(catalog.Item)) {
	g.mu.Lock()
	g.onSelect = f
	g.mu.Unlock()
}

// ShowSkeletons replaces the grid contents with n placeholder cards.
func (g *Grid) ShowSkeletons(n int) {
	g.stopThumbnails()

	cards := make([]*Card, n)
	objs := make([]fyne.CanvasObject, n)
	for i := range cards {
		cards[i] = newSkeletonCard()
		objs[i] = cards[i]
	}
	g.replace(cards, objs)
}

// SetItems replaces the grid contents with one card per item and starts
// loading their thumbnails in the background.
func (g *Grid) SetItems(items []catalog.Item) {
	g.stopThumbnails()

	cards := make([]*Card, len(items))
	objs := make([]fyne.CanvasObject, len(items))
	for i, it := range items {
		cards[i] = newCard(it, g.formatter.FormatItem(it), g.selected)
		objs[i] = cards[i]
	}
	g.replace(cards, objs)

	if len(items) == 0 || g.images == nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	g.mu.Lock()
	g.cancel = cancel
	g.mu.Unlock()
	go g.loadThumbnails(ctx, cards)
}

// Clear removes all cards.
func (g *Grid) Clear() {
	g.stopThumbnails()
	g.replace(nil, nil)
}

// Cards returns the cards currently shown.
func (g *Grid) Cards() []*Card {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]*Card, len(g.cards))
	copy(out, g.cards)
	return out
}

func (g *Grid) replace(cards []*Card, objs []fyne.CanvasObject) {
	g.mu.Lock()
	g.cards = cards
	g.mu.Unlock()
	g.cells.Objects = objs
	g.cells.Refresh()
	g.scroll.ScrollToTop()
}

func (g *Grid) selected(it catalog.Item) {
	g.mu.Lock()
	f := g.onSelect
	g.mu.Unlock()
	if f != nil {
		f(it)
	}
}

func (g *Grid) stopThumbnails() {
	g.mu.Lock()
	cancel := g.cancel
	g.cancel = nil
	g.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (g *Grid) loadThumbnails(ctx context.Context, cards []*Card) {
	refs := make([]string, len(cards))
	for i, c := range cards {
		refs[i] = c.item.Image
		if g.resolve != nil {
			refs[i] = g.resolve(c.item.Image)
		}
	}
	if err := g.images.Prefetch(ctx, refs, g.opts.ThumbnailSize, g.opts.Workers); err != nil {
		g.logger.Debug("thumbnail loading stopped", zap.Error(err))
		return
	}
	for i, c := range cards {
		if ctx.Err() != nil {
			return
		}
		if !g.images.Cached(refs[i]) {
			continue
		}
		thumb, err := g.images.Thumbnail(ctx, refs[i], g.opts.ThumbnailSize)
		if err != nil {
			continue
		}
		c.SetThumbnail(thumb)
	}
}

func (g *Grid) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(g.scroll)
}

// placeholderThumb is shared by skeleton cards and cards whose image has
// not arrived yet.
var placeholderThumb = galleryimage.Placeholder(4, 3)

func newThumb() *canvas.Image {
	img := canvas.NewImageFromImage(placeholderThumb)
	img.FillMode = canvas.ImageFillContain
	img.SetMinSize(fyne.NewSize(200, 200))
	return img
}
