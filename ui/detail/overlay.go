// Package detail provides the product detail overlay with the inspection
// canvas and its zoom controls.
package detail

import (
	"context"
	"net/url"
	"sync"

	"gallery/internal/app"
	"gallery/internal/catalog"
	"gallery/internal/logging"
	"gallery/internal/viewer"
	gcanvas "gallery/ui/canvas"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"
)

const sliderStep = 0.01

// Overlay is an open product detail view. Closing it disposes of its
// inspection session.
type Overlay struct {
	state   *app.State
	item    catalog.Item
	session *viewer.Session
	logger  *zap.Logger

	canvas  *gcanvas.InspectCanvas
	title   *widget.Label
	price   *widget.Label
	link    *widget.Hyperlink
	slider  *widget.Slider
	readout *widget.Label
	message *widget.Label
	reset   *widget.Button
	close   *widget.Button
	dialog  *dialog.CustomDialog

	mu      sync.Mutex
	syncing bool
	cancel  context.CancelFunc
	closed  bool
}

// Open shows the detail overlay for item on parent and starts loading the
// full-size image.
func Open(state *app.State, item catalog.Item, formatter *catalog.PriceFormatter, parent fyne.Window, logger *zap.Logger) (*Overlay, error) {
	logger = logging.OrNop(logger)
	o := &Overlay{
		state:   state,
		item:    item,
		logger:  logger,
		canvas:  gcanvas.NewInspectCanvas(),
		title:   widget.NewLabelWithStyle(item.Name, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		price:   widget.NewLabel(formatter.FormatItem(item)),
		readout: widget.NewLabel(viewer.ZoomLabel(viewer.DefaultState().Scale)),
		message: widget.NewLabel(""),
	}
	o.title.Wrapping = fyne.TextWrapWord
	o.message.Hide()

	session, err := state.OpenItem(item, o.canvas)
	if err != nil {
		return nil, err
	}
	o.session = session
	o.canvas.OnFrame(o.syncControls)

	o.link = widget.NewHyperlink("Open product", nil)
	if u, err := url.Parse(item.ProductURL); err == nil && item.HasLink() {
		o.link.SetURL(u)
	} else {
		o.link.Hide()
	}

	st := viewer.DefaultState()
	o.slider = widget.NewSlider(st.MinScale, st.MaxScale)
	o.slider.Step = sliderStep
	o.slider.Value = st.Scale
	o.slider.OnChanged = o.sliderChanged

	o.reset = widget.NewButtonWithIcon("Reset", theme.ViewRestoreIcon(), func() {
		o.session.Reset()
	})
	o.close = widget.NewButtonWithIcon("Close", theme.CancelIcon(), o.Close)

	header := container.NewVBox(o.title, container.NewHBox(o.price, o.link))
	controls := container.NewBorder(nil, nil,
		widget.NewIcon(theme.ZoomFitIcon()),
		container.NewHBox(o.readout, o.reset, o.close),
		o.slider)
	body := container.NewStack(o.canvas, container.NewCenter(o.message))
	content := container.NewBorder(header, controls, nil, nil, body)

	o.dialog = dialog.NewCustomWithoutButtons(item.Name, content, parent)
	o.dialog.SetOnClosed(o.dispose)
	size := parent.Canvas().Size()
	if size.Width > 0 && size.Height > 0 {
		o.dialog.Resize(fyne.NewSize(size.Width*0.9, size.Height*0.9))
	}
	ctx, cancel := context.WithCancel(context.Background())
	o.cancel = cancel

	o.canvas.SetSession(session)
	o.dialog.Show()
	go o.loadImage(ctx)
	return o, nil
}

// Session returns the overlay's inspection session.
func (o *Overlay) Session() *viewer.Session {
	return o.session
}

// Close hides the overlay and disposes of the session.
func (o *Overlay) Close() {
	o.dialog.Hide()
	o.dispose()
}

// Closed reports whether the overlay has been closed.
func (o *Overlay) Closed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.closed
}

func (o *Overlay) dispose() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	cancel := o.cancel
	o.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if o.state.Session() == o.session {
		o.state.CloseSession()
	} else {
		o.session.Close()
	}
}

func (o *Overlay) loadImage(ctx context.Context) {
	asset, err := o.state.ItemImage(ctx, o.item)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		o.logger.Warn("image load failed", zap.String("item", o.item.ID), zap.Error(err))
		o.message.SetText("Image unavailable")
		o.message.Show()
		return
	}
	if err := o.canvas.SetImage(asset.Image); err != nil {
		o.logger.Warn("image has no dimensions", zap.String("item", o.item.ID), zap.Error(err))
	}
}

func (o *Overlay) sliderChanged(v float64) {
	o.mu.Lock()
	syncing := o.syncing
	o.mu.Unlock()
	if syncing {
		return
	}
	o.session.SetZoom(v)
}

// syncControls mirrors a frame into the slider bounds and zoom readout.
func (o *Overlay) syncControls(f viewer.Frame) {
	o.mu.Lock()
	o.syncing = true
	o.mu.Unlock()

	o.slider.Min = f.MinScale
	o.slider.Max = f.MaxScale
	o.slider.Value = f.Scale
	o.slider.Refresh()
	o.readout.SetText(f.Label)

	o.mu.Lock()
	o.syncing = false
	o.mu.Unlock()
}
