package app

import (
	"os"
	"sync"
	"time"
)

// CatalogWatcher polls a local catalog file and invokes a callback when its
// modification time moves forward. Remote catalogs are reloaded by the user.
type CatalogWatcher struct {
	path          string
	checkInterval time.Duration

	mu       sync.Mutex
	baseline time.Time
	stopCh   chan struct{}
	running  bool
	onChange func()
}

// NewCatalogWatcher creates a watcher for path. Returns nil if the file
// cannot be stat'ed.
func NewCatalogWatcher(path string, checkInterval time.Duration) *CatalogWatcher {
	info, err := os.Stat(path)
	if err != nil {
		return nil
	}
	return &CatalogWatcher{
		path:          path,
		checkInterval: checkInterval,
		baseline:      info.ModTime(),
	}
}

// OnChange sets the callback. It runs on the watcher goroutine.
func (w *CatalogWatcher) OnChange(callback func()) {
	w.mu.Lock()
	w.onChange = callback
	w.mu.Unlock()
}

// Path returns the watched file.
func (w *CatalogWatcher) Path() string {
	return w.path
}

// Start begins polling. Calling Start on a running watcher is a no-op.
func (w *CatalogWatcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}
	w.running = true
	w.stopCh = make(chan struct{})
	go w.watchLoop(w.stopCh)
}

// Stop stops polling.
func (w *CatalogWatcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	w.running = false
	close(w.stopCh)
}

func (w *CatalogWatcher) watchLoop(stopCh chan struct{}) {
	ticker := time.NewTicker(w.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if cb := w.checkForUpdate(); cb != nil {
				cb()
			}
		}
	}
}

// checkForUpdate advances the baseline and returns the callback when the
// file changed since the last check.
func (w *CatalogWatcher) checkForUpdate() func() {
	info, err := os.Stat(w.path)
	if err != nil {
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if !info.ModTime().After(w.baseline) {
		return nil
	}
	w.baseline = info.ModTime()
	return w.onChange
}
