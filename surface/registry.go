// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Factory creates a new Surface for desc.
// Implementations should validate desc and return descriptive errors.
type Factory func(desc Descriptor) (Surface, error)

// backend is one registered surface backend.
type backend struct {
	name string

	// priority determines selection order (higher = preferred):
	// 100 for GPU backends, 10 for software.
	priority int

	factory   Factory
	available func() bool
}

// globalRegistry is the default registry.
var globalRegistry = &Registry{}

// Registry selects the surface backend an atlas draws into.
//
// Backends register themselves from init functions; importing a backend
// package is enough to make it selectable.
//
//	func init() {
//	    surface.Register("wgpu", 100, wgpuFactory, nil)
//	}
//
// Atlases then pick one by name or take the best that works:
//
//	s, err := surface.NewSurfaceByName("wgpu", desc)
//	s, err := surface.NewSurface(desc)
type Registry struct {
	mu       sync.RWMutex
	backends map[string]*backend
}

// NewRegistry creates a new empty registry.
// Most code should use the global registry via Register and NewSurface.
func NewRegistry() *Registry {
	return &Registry{backends: make(map[string]*backend)}
}

// Register adds a backend to the global registry. A nil available means
// always available. Registering a name again replaces the previous entry.
func Register(name string, priority int, factory Factory, available func() bool) {
	globalRegistry.Register(name, priority, factory, available)
}

// NewSurface creates a surface using the best available backend.
func NewSurface(desc Descriptor) (Surface, error) {
	return globalRegistry.NewSurface(desc)
}

// NewSurfaceByName creates a surface using a specific named backend.
func NewSurfaceByName(name string, desc Descriptor) (Surface, error) {
	return globalRegistry.NewSurfaceByName(name, desc)
}

// Register adds a backend to this registry.
func (r *Registry) Register(name string, priority int, factory Factory, available func() bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.backends == nil {
		r.backends = make(map[string]*backend)
	}
	if available == nil {
		available = func() bool { return true }
	}
	r.backends[name] = &backend{name: name, priority: priority, factory: factory, available: available}
}

// NewSurface creates a surface using the best available backend.
// Backends whose factory fails are skipped; the last error is returned
// when none succeeds.
func (r *Registry) NewSurface(desc Descriptor) (Surface, error) {
	r.mu.RLock()
	names := r.names(true)
	r.mu.RUnlock()

	if len(names) == 0 {
		return nil, ErrNoBackendAvailable
	}

	var lastErr error
	for _, name := range names {
		s, err := r.NewSurfaceByName(name, desc)
		if err == nil {
			return s, nil
		}
		slogger().Debug("surface: backend skipped", "backend", name, "err", err)
		lastErr = err
	}
	return nil, lastErr
}

// NewSurfaceByName creates a surface using a specific backend.
func (r *Registry) NewSurfaceByName(name string, desc Descriptor) (Surface, error) {
	r.mu.RLock()
	b, ok := r.backends[name]
	var known []string
	if !ok {
		known = r.names(false)
	}
	r.mu.RUnlock()

	if !ok {
		return nil, &BackendNotFoundError{Name: name, Known: known}
	}
	if !b.available() {
		return nil, &BackendUnavailableError{Name: name}
	}
	return b.factory(desc)
}

// names returns backend names by priority, highest first, then by name.
// Must be called with the lock held.
func (r *Registry) names(onlyAvailable bool) []string {
	list := make([]*backend, 0, len(r.backends))
	for _, b := range r.backends {
		if onlyAvailable && !b.available() {
			continue
		}
		list = append(list, b)
	}
	slices.SortFunc(list, func(a, b *backend) int {
		if c := cmp.Compare(b.priority, a.priority); c != 0 {
			return c
		}
		return strings.Compare(a.name, b.name)
	})

	names := make([]string, len(list))
	for i, b := range list {
		names[i] = b.name
	}
	return names
}

// ErrNoBackendAvailable is returned when no surface backends are registered
// or available on the current system.
var ErrNoBackendAvailable = errors.New("surface: no backend available")

// BackendNotFoundError indicates a named backend is not registered.
type BackendNotFoundError struct {
	Name string

	// Known lists the registered backends, best first.
	Known []string
}

func (e *BackendNotFoundError) Error() string {
	return fmt.Sprintf("surface: backend not found: %s (registered: %s)", e.Name, strings.Join(e.Known, ", "))
}

// BackendUnavailableError indicates a backend exists but is not available.
type BackendUnavailableError struct {
	Name string
}

func (e *BackendUnavailableError) Error() string {
	return "surface: backend unavailable: " + e.Name
}

// init registers the built-in ImageSurface backend.
func init() {
	Register("image", 10, func(desc Descriptor) (Surface, error) {
		return NewImageSurfaceWithDescriptor(desc), nil
	}, nil)
}
