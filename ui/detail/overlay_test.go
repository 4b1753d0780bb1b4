package detail

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gallery/internal/app"
	"gallery/internal/catalog"
	galleryimage "gallery/internal/image"
	"gallery/internal/viewer"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

func newTestState(t *testing.T) *app.State {
	t.Helper()
	dir := t.TempDir()
	f, err := os.Create(filepath.Join(dir, "a.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 1200, 800))))
	require.NoError(t, f.Close())

	loader := catalog.NewLoader(filepath.Join(dir, "products.json"), nil, nil)
	return app.NewState(loader, galleryimage.NewFetcher(nil, nil), viewer.DefaultOptions(), nil)
}

func openTestOverlay(t *testing.T, item catalog.Item) (*Overlay, *app.State) {
	t.Helper()
	test.NewApp()
	w := test.NewWindow(nil)
	w.Resize(fyne.NewSize(900, 700))
	t.Cleanup(w.Close)

	state := newTestState(t)
	o, err := Open(state, item, catalog.NewPriceFormatter(language.German), w, nil)
	require.NoError(t, err)
	return o, state
}

var painting = catalog.Item{
	ID:         "a",
	Name:       "Harbour at Dusk",
	Price:      12.5,
	Currency:   currency.EUR,
	Image:      "a.png",
	ProductURL: "https://shop.example/p/a",
	Available:  true,
}

func waitForFrame(t *testing.T, o *Overlay) viewer.Frame {
	t.Helper()
	var f viewer.Frame
	require.Eventually(t, func() bool {
		var ok bool
		f, ok = o.canvas.Frame()
		return ok && o.readout.Text == f.Label && o.slider.Max == f.MaxScale
	}, 2*time.Second, 10*time.Millisecond)
	return f
}

func TestOverlayShowsItem(t *testing.T) {
	o, state := openTestOverlay(t, painting)

	assert.Equal(t, "Harbour at Dusk", o.title.Text)
	assert.Equal(t, "12,50 €", o.price.Text)
	assert.True(t, o.link.Visible())
	assert.Equal(t, "shop.example", o.link.URL.Host)
	assert.Same(t, o.Session(), state.Session())

	f := waitForFrame(t, o)
	assert.Equal(t, f.MinScale, o.slider.Min)
	assert.Equal(t, f.MaxScale, o.slider.Max)
	assert.InDelta(t, f.Scale, o.slider.Value, sliderStep)
	assert.Equal(t, f.Label, o.readout.Text)
	assert.False(t, o.message.Visible())
}

func TestOverlayHidesMissingLink(t *testing.T) {
	item := painting
	item.ProductURL = ""
	o, _ := openTestOverlay(t, item)
	assert.False(t, o.link.Visible())
}

func TestOverlaySliderZooms(t *testing.T) {
	o, _ := openTestOverlay(t, painting)
	f := waitForFrame(t, o)

	o.slider.OnChanged(f.MaxScale)
	st := o.session.State()
	assert.Equal(t, f.MaxScale, st.Scale)
	assert.Equal(t, viewer.ZoomLabel(f.MaxScale), o.readout.Text)
	assert.Equal(t, f.MaxScale, o.slider.Value)

	// Beyond the bounds is clamped rather than rejected.
	o.slider.OnChanged(f.MaxScale * 10)
	assert.Equal(t, f.MaxScale, o.session.State().Scale)
}

func TestOverlayReset(t *testing.T) {
	o, _ := openTestOverlay(t, painting)
	f := waitForFrame(t, o)

	o.slider.OnChanged(f.MaxScale)
	require.NotEqual(t, f.Scale, o.session.State().Scale)

	test.Tap(o.reset)
	assert.InDelta(t, f.Scale, o.session.State().Scale, 1e-9)
	assert.Equal(t, f.Label, o.readout.Text)
}

func TestOverlayCloseDisposesSession(t *testing.T) {
	o, state := openTestOverlay(t, painting)
	waitForFrame(t, o)

	test.Tap(o.close)
	assert.True(t, o.Closed())
	assert.True(t, o.session.Closed())
	assert.Nil(t, state.Session())

	// Input after close is ignored.
	before := o.session.State()
	o.slider.OnChanged(before.Scale * 2)
	assert.Equal(t, before, o.session.State())
}

func TestOverlayMissingImage(t *testing.T) {
	item := painting
	item.Image = "missing.png"
	o, _ := openTestOverlay(t, item)

	assert.Eventually(t, func() bool { return o.message.Visible() }, 2*time.Second, 10*time.Millisecond)
	assert.False(t, o.session.ImageSize().Positive())
}
