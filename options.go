package iconatlas

import "github.com/gogpu/iconatlas/surface"

// Option configures an Atlas during creation.
//
// Example:
//
//	// Default: best available surface backend, process-wide watchdog
//	a, err := iconatlas.New(iconatlas.DefaultConfig())
//
//	// Isolated watchdog and a software surface
//	w := iconatlas.NewWatchdog()
//	a, err := iconatlas.New(cfg, iconatlas.WithWatchdog(w), iconatlas.WithBackend("image"))
type Option func(*atlasOptions)

// atlasOptions holds optional configuration for Atlas creation.
type atlasOptions struct {
	watchdog *Watchdog
	factory  surface.Factory
	backend  string
	provider any
}

// defaultOptions returns the default atlas options.
func defaultOptions() atlasOptions {
	return atlasOptions{
		watchdog: nil, // DefaultWatchdog() when nil
		factory:  nil, // surface.NewSurface or the named backend when nil
	}
}

// WithWatchdog registers the atlas with w instead of the process-wide
// default watchdog. Tests use this to tick atlases in isolation.
func WithWatchdog(w *Watchdog) Option {
	return func(o *atlasOptions) {
		o.watchdog = w
	}
}

// WithSurfaceFactory creates the atlas surface with f, bypassing the
// surface backend registry.
func WithSurfaceFactory(f surface.Factory) Option {
	return func(o *atlasOptions) {
		o.factory = f
	}
}

// WithBackend selects a registered surface backend by name
// (for example "image" or "wgpu").
func WithBackend(name string) Option {
	return func(o *atlasOptions) {
		o.backend = name
	}
}

// WithDeviceProvider passes a host device provider to GPU surface backends.
// The wgpu backend expects a value exposing HalDevice and HalQueue, such as
// a gpucontext.DeviceProvider from gogpu.
//
// Example:
//
//	import _ "github.com/gogpu/iconatlas/backend/native"
//
//	a, err := iconatlas.New(cfg, iconatlas.WithDeviceProvider(app.GPUContextProvider()))
func WithDeviceProvider(provider any) Option {
	return func(o *atlasOptions) {
		o.provider = provider
	}
}

// newSurface creates the atlas surface as configured by o.
func (o *atlasOptions) newSurface(desc surface.Descriptor) (surface.Surface, error) {
	desc.Provider = o.provider
	switch {
	case o.factory != nil:
		return o.factory(desc)
	case o.backend != "":
		return surface.NewSurfaceByName(o.backend, desc)
	default:
		return surface.NewSurface(desc)
	}
}
