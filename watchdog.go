package iconatlas

import (
	"fmt"
	"slices"
	"sync"
)

// Listener is notified once per watchdog tick.
type Listener interface {
	OnTick()
}

// Watchdog polls its listeners once per frame so they can detect surface
// loss and recover. It does not decide loss itself; each listener checks
// its own surface.
//
// A Watchdog is not safe for concurrent use. Tick it from the goroutine
// that drives frame submission, before any atlas draws of the frame.
type Watchdog struct {
	listeners []Listener
}

// NewWatchdog creates an empty watchdog. Atlases use it through
// WithWatchdog; the rest share DefaultWatchdog.
func NewWatchdog() *Watchdog {
	return &Watchdog{}
}

// Register adds l. Registering a listener twice has no effect.
func (w *Watchdog) Register(l Listener) {
	if l == nil || w.contains(l) {
		return
	}
	w.listeners = append(w.listeners, l)
}

// Unregister removes l. Unknown listeners are ignored.
func (w *Watchdog) Unregister(l Listener) {
	if i := slices.Index(w.listeners, l); i >= 0 {
		w.listeners = slices.Delete(w.listeners, i, i+1)
	}
}

// Len returns the number of registered listeners.
func (w *Watchdog) Len() int {
	return len(w.listeners)
}

// Tick notifies every registered listener once, in registration order.
// A panicking listener is logged and does not stop the others. Listeners
// may register or unregister during a tick; removed listeners are skipped,
// added ones run on the next tick.
func (w *Watchdog) Tick() {
	snapshot := slices.Clone(w.listeners)
	for _, l := range snapshot {
		if !w.contains(l) {
			continue
		}
		w.notify(l)
	}
}

func (w *Watchdog) notify(l Listener) {
	defer func() {
		if r := recover(); r != nil {
			Logger().Warn("iconatlas: tick listener panicked",
				"listener", fmt.Sprintf("%T", l), "panic", r)
		}
	}()
	l.OnTick()
}

func (w *Watchdog) contains(l Listener) bool {
	return slices.Contains(w.listeners, l)
}

var (
	defaultMu       sync.Mutex
	defaultWatchdog *Watchdog
)

// DefaultWatchdog returns the process-wide watchdog, creating it on first
// use. Atlases created without WithWatchdog register here.
func DefaultWatchdog() *Watchdog {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultWatchdog == nil {
		defaultWatchdog = NewWatchdog()
	}
	return defaultWatchdog
}

// ResetDefaultWatchdog drops the process-wide watchdog and all its
// registrations. Atlases registered with it are no longer ticked.
func ResetDefaultWatchdog() {
	defaultMu.Lock()
	defaultWatchdog = nil
	defaultMu.Unlock()
}

// Tick ticks the process-wide watchdog. Hosts call it once per frame.
func Tick() {
	DefaultWatchdog().Tick()
}
