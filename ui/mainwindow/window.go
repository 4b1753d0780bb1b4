// Package mainwindow provides the main application window.
package mainwindow

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"gallery/internal/app"
	"gallery/internal/catalog"
	"gallery/internal/logging"
	"gallery/internal/version"
	"gallery/ui/detail"
	"gallery/ui/gallery"
	"gallery/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"
)

const (
	appTitle      = "Gallery"
	defaultWidth  = 1100
	defaultHeight = 780
)

// MainWindow is the primary application window: a toolbar, the product
// grid and a status bar.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	state     *app.State
	prefs     *prefs.Prefs
	formatter *catalog.PriceFormatter
	logger    *zap.Logger

	grid      *gallery.Grid
	statusBar *widget.Label
	overlay   *detail.Overlay
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, p *prefs.Prefs, formatter *catalog.PriceFormatter, gridOpts gallery.Options, logger *zap.Logger) *MainWindow {
	logger = logging.OrNop(logger)
	win := fyneApp.NewWindow(appTitle)

	mw := &MainWindow{
		Window:    win,
		app:       fyneApp,
		state:     state,
		prefs:     p,
		formatter: formatter,
		logger:    logger,
	}

	mw.setupUI(gridOpts)
	mw.setupMenus()
	mw.setupShortcuts()
	mw.setupEventHandlers()
	mw.restoreWindowSize()

	win.SetCloseIntercept(func() {
		mw.SavePreferences()
		win.Close()
	})
	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI(gridOpts gallery.Options) {
	mw.grid = gallery.NewGrid(mw.state.ResolveImage, mw.state.Images(), mw.formatter, gridOpts, mw.logger.Named("grid"))
	mw.grid.OnSelect(mw.openItem)

	mw.statusBar = widget.NewLabel("")

	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.ViewRefreshIcon(), mw.Reload),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.FolderOpenIcon(), mw.onOpenFile),
		widget.NewToolbarAction(theme.StorageIcon(), mw.onOpenURL),
		widget.NewToolbarSpacer(),
		widget.NewToolbarAction(theme.InfoIcon(), mw.onAbout),
	)

	content := container.NewBorder(
		toolbar,                           // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		mw.grid,                           // center
	)
	mw.SetContent(content)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Catalog File...", mw.onOpenFile),
		fyne.NewMenuItem("Open Catalog URL...", mw.onOpenURL),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Reload", mw.Reload),
	)
	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)
	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, helpMenu))
}

func (mw *MainWindow) setupShortcuts() {
	reload := &desktop.CustomShortcut{KeyName: fyne.KeyR, Modifier: fyne.KeyModifierShortcutDefault}
	mw.Canvas().AddShortcut(reload, func(fyne.Shortcut) { mw.Reload() })
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventCatalogLoading, func(data interface{}) {
		mw.grid.ShowSkeletons(gallery.DefaultSkeletons)
	})

	mw.state.On(app.EventCatalogLoaded, func(data interface{}) {
		mw.grid.SetItems(mw.state.Items())
	})

	mw.state.On(app.EventCatalogFailed, func(data interface{}) {
		mw.grid.Clear()
	})

	mw.state.On(app.EventStatusChanged, func(data interface{}) {
		if text, ok := data.(string); ok {
			mw.updateStatus(text)
		}
	})
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// Status returns the status bar text.
func (mw *MainWindow) Status() string {
	return mw.statusBar.Text
}

// Grid returns the product grid.
func (mw *MainWindow) Grid() *gallery.Grid {
	return mw.grid
}

// Reload fetches the catalog in the background. Each call is independent.
func (mw *MainWindow) Reload() {
	go func() {
		_ = mw.state.Reload(context.Background())
	}()
}

// LoadSource switches to another catalog and reloads.
func (mw *MainWindow) LoadSource(source string) {
	source = strings.TrimSpace(source)
	if source == "" {
		return
	}
	mw.state.SetSource(source)
	mw.prefs.SetString(prefs.KeyLastCatalog, source)
	mw.SetTitle(appTitle + " - " + displayName(source))
	mw.Reload()
}

func (mw *MainWindow) openItem(item catalog.Item) {
	o, err := detail.Open(mw.state, item, mw.formatter, mw.Window, mw.logger.Named("detail"))
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.overlay = o
}

// Overlay returns the most recently opened detail overlay.
func (mw *MainWindow) Overlay() *detail.Overlay {
	return mw.overlay
}

// getLastDir returns the directory of the last local catalog, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	last := mw.prefs.String(prefs.KeyLastCatalog)
	if last == "" || catalog.IsRemote(last) {
		return nil
	}
	uri := storage.NewFileURI(filepath.Dir(last))
	listable, err := storage.ListerForURI(uri)
	if err != nil {
		return nil
	}
	return listable
}

func (mw *MainWindow) onOpenFile() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		if reader == nil {
			return
		}
		reader.Close()
		mw.LoadSource(reader.URI().Path())
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onOpenURL() {
	entry := widget.NewEntry()
	entry.SetPlaceHolder("https://example.com/products.json")
	if last := mw.prefs.String(prefs.KeyLastCatalog); catalog.IsRemote(last) {
		entry.SetText(last)
	}
	dialog.ShowForm("Open Catalog URL", "Open", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("URL", entry)},
		func(ok bool) {
			if !ok {
				return
			}
			if !catalog.IsRemote(entry.Text) {
				dialog.ShowError(fmt.Errorf("not an http(s) URL: %q", entry.Text), mw.Window)
				return
			}
			mw.LoadSource(entry.Text)
		}, mw.Window)
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About "+appTitle,
		appTitle+" "+version.Details()+"\n\nBrowse a product catalog and inspect images up close.",
		mw.Window)
}

// restoreWindowSize applies the saved window size.
func (mw *MainWindow) restoreWindowSize() {
	w := mw.prefs.FloatWithFallback(prefs.KeyWindowWidth, defaultWidth)
	h := mw.prefs.FloatWithFallback(prefs.KeyWindowHeight, defaultHeight)
	mw.Resize(fyne.NewSize(float32(w), float32(h)))
}

// SavePreferences records the window size and writes preferences if they
// changed.
func (mw *MainWindow) SavePreferences() {
	size := mw.Canvas().Size()
	if size.Width > 0 && size.Height > 0 {
		mw.prefs.SetFloat(prefs.KeyWindowWidth, float64(size.Width))
		mw.prefs.SetFloat(prefs.KeyWindowHeight, float64(size.Height))
	}
	if err := mw.prefs.SaveIfChanged(); err != nil {
		mw.logger.Warn("failed to save preferences", zap.String("path", mw.prefs.Path()), zap.Error(err))
	}
}

func displayName(source string) string {
	if catalog.IsRemote(source) {
		return source
	}
	return filepath.Base(source)
}
