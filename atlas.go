package iconatlas

import (
	"fmt"
	"image"

	"github.com/gogpu/iconatlas/surface"
)

// ResetFunc is called after the atlas surface was lost and recreated.
// The icon's pixels are transparent again; the owner should redraw it.
// A returned error is logged.
type ResetFunc func() error

// slot is one ever-allocated grid cell.
type slot struct {
	uv         Rect
	generation uint32
	live       bool
	onReset    ResetFunc
}

// Stats reports the allocation state of an Atlas.
type Stats struct {
	// Live is the number of allocated icons.
	Live int

	// Free is the number of released slots waiting for reuse.
	Free int

	// Allocated is the number of cells ever bump allocated.
	Allocated int

	// Capacity is the number of cells the grid holds.
	Capacity int

	// CacheHits and CacheMisses count handle lookups served by the
	// most-recently-used cache and by the handle map.
	CacheHits   uint64
	CacheMisses uint64
}

// Atlas packs fixed-size icons into one texture.
//
// Icons are allocated with AllocateIcon, drawn with Draw and returned with
// ReleaseIcon. Slots never move: the UV rect returned at allocation stays
// valid until the icon is released. When the platform loses the texture,
// the next watchdog tick recreates it transparent and calls every live
// icon's ResetFunc.
//
// Atlas is not safe for concurrent use.
//
// Example:
//
//	a, err := iconatlas.New(iconatlas.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	defer a.Dispose()
//
//	var h iconatlas.Handle
//	h, uv := a.AllocateIcon(func() error {
//	    a.DrawTexture(h, avatar)
//	    return nil
//	})
//	a.DrawTexture(h, avatar)
type Atlas struct {
	id       uint32
	cfg      Config
	surf     surface.Surface
	watchdog *Watchdog
	alloc    *gridAllocator

	slots []slot
	live  map[Handle]int
	free  []int

	// Most recently used handle and its slot index.
	mru     Handle
	mruSlot int

	revision uint64
	hits     uint64
	misses   uint64
	disposed bool
}

// New creates an atlas described by cfg.
//
// The surface comes from the best available registered backend unless
// WithBackend or WithSurfaceFactory says otherwise. It is created and
// cleared to transparent before New returns, and the atlas registers with
// its watchdog.
func New(cfg Config, opts ...Option) (*Atlas, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.watchdog == nil {
		o.watchdog = DefaultWatchdog()
	}

	surf, err := o.newSurface(cfg.descriptor())
	if err != nil {
		return nil, fmt.Errorf("iconatlas: create surface: %w", err)
	}
	if err := surf.Create(); err != nil {
		_ = surf.Release()
		return nil, fmt.Errorf("iconatlas: create surface: %w", err)
	}
	if err := surf.Blit(BlankTexture(), nil); err != nil {
		_ = surf.Release()
		return nil, fmt.Errorf("iconatlas: clear surface: %w", err)
	}

	a := &Atlas{
		id:       nextAtlasID(),
		cfg:      cfg,
		surf:     surf,
		watchdog: o.watchdog,
		alloc:    newGridAllocator(cfg),
		live:     make(map[Handle]int),
		mruSlot:  -1,
		revision: 1,
	}
	a.watchdog.Register(a)

	Logger().Debug("iconatlas: atlas created",
		"label", cfg.Label, "width", cfg.Width, "height", cfg.Height,
		"icon", fmt.Sprintf("%dx%d", cfg.IconWidth, cfg.IconHeight),
		"padding", cfg.Padding, "capacity", cfg.Capacity(),
		"surface", fmt.Sprintf("%T", surf))
	return a, nil
}

// AllocateIcon reserves a slot and returns its handle and UV rect.
//
// Released slots are reused first; otherwise a new cell is taken from the
// grid. When both are exhausted AllocateIcon returns the zero Handle and an
// empty Rect. The slot is cleared to transparent. onReset may be nil.
func (a *Atlas) AllocateIcon(onReset ResetFunc) (Handle, Rect) {
	if a.disposed {
		return Handle{}, Rect{}
	}

	var idx int
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		pt, ok := a.alloc.allocate()
		if !ok {
			Logger().Debug("iconatlas: atlas full", "label", a.cfg.Label, "live", len(a.live))
			return Handle{}, Rect{}
		}
		idx = len(a.slots)
		a.slots = append(a.slots, slot{uv: a.alloc.uv(pt), generation: 1})
	}

	s := &a.slots[idx]
	s.live = true
	s.onReset = onReset
	h := Handle{atlas: a.id, index: uint32(idx), generation: s.generation}
	a.live[h] = idx
	a.mru, a.mruSlot = h, idx

	a.clearSlot(s.uv)
	return h, s.uv
}

// ClearIcon clears the icon of h to transparent. Neighboring icons are not
// touched. Returns false if h is not allocated or the surface is lost.
func (a *Atlas) ClearIcon(h Handle) bool {
	idx, ok := a.lookup(h)
	if !ok {
		return false
	}
	return a.clearSlot(a.slots[idx].uv)
}

// DrawTexture draws the whole of src over the icon of h with default
// properties.
func (a *Atlas) DrawTexture(h Handle, src image.Image) bool {
	return a.Draw(h, src, surface.UnitRect(), DefaultDrawProperties())
}

// Draw composites the srcUV part of src into the icon of h.
//
// srcUV is normalized to the bounds of src; an empty srcUV selects all of
// it. Returns false if h is not allocated, src is nil or the surface is
// lost; in the last case wait for the icon's ResetFunc before drawing again.
// src is read during the call and never retained.
func (a *Atlas) Draw(h Handle, src image.Image, srcUV Rect, props DrawProperties) bool {
	if a.disposed || src == nil || !a.surf.IsCreated() {
		return false
	}
	idx, ok := a.lookup(h)
	if !ok {
		return false
	}
	if srcUV.IsEmpty() {
		srcUV = surface.UnitRect()
	}

	p := a.drawParams(a.slots[idx].uv, srcUV, props)
	p.MaskTexture = props.mask
	if err := a.surf.Blit(src, p); err != nil {
		Logger().Debug("iconatlas: draw failed", "handle", h, "err", err)
		return false
	}
	a.revision++
	return true
}

// drawParams computes the blit parameters of a draw into a slot with uv.
func (a *Atlas) drawParams(uv, srcUV Rect, props DrawProperties) *surface.BlitParams {
	region := props.drawRegion(a.cfg.IconWidth, a.cfg.IconHeight)
	ux, uy := props.sourceControlPoints(srcUV)
	return &surface.BlitParams{
		Material:    surface.MaterialSliced,
		TargetRect:  uv.Sub(region),
		BorderRect:  props.borderRect(a.cfg.IconWidth, a.cfg.IconHeight),
		UVx:         ux,
		UVy:         uy,
		ColorMatrix: props.ColorMatrix().Mat4(),
		MaskRect:    props.maskUV(region),
	}
}

// ReleaseIcon returns the slot of h for reuse. h and every copy of it
// become invalid; a later allocation may return the same UV rect under a
// new handle. Returns false if h is not allocated.
func (a *Atlas) ReleaseIcon(h Handle) bool {
	idx, ok := a.lookup(h)
	if !ok {
		return false
	}
	delete(a.live, h)
	if a.mru == h {
		a.mru, a.mruSlot = Handle{}, -1
	}

	s := &a.slots[idx]
	s.live = false
	s.onReset = nil
	s.generation = nextGeneration(s.generation)
	a.free = append(a.free, idx)
	return true
}

// Lookup returns the UV rect of an allocated icon.
func (a *Atlas) Lookup(h Handle) (Rect, bool) {
	idx, ok := a.lookup(h)
	if !ok {
		return Rect{}, false
	}
	return a.slots[idx].uv, true
}

// lookup resolves h to a slot index. Handles of other atlases never
// resolve. The cache is only trusted when the slot still carries the
// handle's generation.
func (a *Atlas) lookup(h Handle) (int, bool) {
	if a.disposed || !h.IsValid() || h.atlas != a.id {
		return -1, false
	}
	if h == a.mru && a.mruSlot >= 0 {
		if s := a.slots[a.mruSlot]; s.live && s.generation == h.generation {
			a.hits++
			return a.mruSlot, true
		}
	}
	a.misses++
	idx, ok := a.live[h]
	if !ok {
		return -1, false
	}
	a.mru, a.mruSlot = h, idx
	return idx, true
}

// clearSlot blits the blank texture over uv.
func (a *Atlas) clearSlot(uv Rect) bool {
	if !a.surf.IsCreated() {
		return false
	}
	if err := a.surf.Blit(BlankTexture(), surface.BlitParamsFor(uv)); err != nil {
		Logger().Debug("iconatlas: clear failed", "rect", uv, "err", err)
		return false
	}
	a.revision++
	return true
}

// OnTick recreates the surface if the platform lost it, then asks every
// live icon to redraw. It is called by the watchdog once per frame.
func (a *Atlas) OnTick() {
	if a.disposed || a.surf.IsCreated() {
		return
	}
	if err := a.surf.Create(); err != nil {
		Logger().Warn("iconatlas: recreate surface failed", "label", a.cfg.Label, "err", err)
		return
	}
	a.surf.DiscardContents()
	if err := a.surf.Blit(BlankTexture(), nil); err != nil {
		// Drop the half-initialized surface so the next tick retries.
		if inv, ok := a.surf.(surface.Invalidator); ok {
			Logger().Warn("iconatlas: clear recreated surface failed, retrying next tick",
				"label", a.cfg.Label, "err", err)
			inv.Invalidate()
			return
		}
		Logger().Warn("iconatlas: clear recreated surface failed", "label", a.cfg.Label, "err", err)
	}
	a.revision++
	Logger().Info("iconatlas: surface recreated", "label", a.cfg.Label, "icons", len(a.live))

	handles := make([]Handle, 0, len(a.live))
	for i := range a.slots {
		if s := a.slots[i]; s.live {
			handles = append(handles, Handle{atlas: a.id, index: uint32(i), generation: s.generation})
		}
	}
	for _, h := range handles {
		// A callback may have released this icon already.
		idx, ok := a.live[h]
		if !ok {
			continue
		}
		if fn := a.slots[idx].onReset; fn != nil {
			a.reset(h, fn)
		}
	}
}

// reset runs one reset callback, logging its error or panic.
func (a *Atlas) reset(h Handle, fn ResetFunc) {
	defer func() {
		if r := recover(); r != nil {
			Logger().Warn("iconatlas: reset callback panicked", "handle", h, "panic", r)
		}
	}()
	if err := fn(); err != nil {
		Logger().Warn("iconatlas: reset callback failed", "handle", h, "err", err)
	}
}

// Dispose releases the surface and every compositing resource, forgets all
// icons and unregisters from the watchdog. Every later call on the atlas
// fails. Dispose is idempotent.
func (a *Atlas) Dispose() {
	if a.disposed {
		return
	}
	a.disposed = true
	a.watchdog.Unregister(a)
	if err := a.surf.Release(); err != nil {
		Logger().Warn("iconatlas: release surface failed", "label", a.cfg.Label, "err", err)
	}
	a.live = nil
	a.free = nil
	a.slots = nil
	a.mru, a.mruSlot = Handle{}, -1
}

// Surface returns the atlas surface. Hosts sample its texture when drawing
// icons. Returns nil after Dispose.
func (a *Atlas) Surface() surface.Surface {
	if a.disposed {
		return nil
	}
	return a.surf
}

// Config returns the configuration the atlas was created with.
func (a *Atlas) Config() Config {
	return a.cfg
}

// Capacity returns the number of cells the grid holds.
func (a *Atlas) Capacity() int {
	return a.cfg.Capacity()
}

// Len returns the number of allocated icons.
func (a *Atlas) Len() int {
	return len(a.live)
}

// FreeCount returns the number of released slots waiting for reuse.
func (a *Atlas) FreeCount() int {
	return len(a.free)
}

// IsFull reports whether the grid is exhausted. Released slots can still
// be allocated when it is.
func (a *Atlas) IsFull() bool {
	return a.alloc.isFull()
}

// Ready returns nil when the atlas can be drawn into, ErrSurfaceReleased
// after Dispose and ErrSurfaceNotCreated while the surface is lost.
func (a *Atlas) Ready() error {
	switch {
	case a.disposed:
		return ErrSurfaceReleased
	case !a.surf.IsCreated():
		return ErrSurfaceNotCreated
	default:
		return nil
	}
}

// Revision returns a counter that changes whenever the atlas pixels do.
// Presenters compare it to skip redundant uploads.
func (a *Atlas) Revision() uint64 {
	return a.revision
}

// Stats returns allocation statistics.
func (a *Atlas) Stats() Stats {
	return Stats{
		Live:        len(a.live),
		Free:        len(a.free),
		Allocated:   a.alloc.allocated,
		Capacity:    a.cfg.Capacity(),
		CacheHits:   a.hits,
		CacheMisses: a.misses,
	}
}
