package iconatlas

import "errors"

var (
	// ErrSurfaceNotCreated is reported when the atlas surface is lost and
	// has not been recreated by a watchdog tick yet.
	ErrSurfaceNotCreated = errors.New("iconatlas: surface not created")

	// ErrSurfaceReleased is returned by operations on a disposed atlas.
	ErrSurfaceReleased = errors.New("iconatlas: atlas disposed")
)

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "iconatlas: invalid config." + e.Field + ": " + e.Reason
}
