// Package loader provides the plugin-like feature loading system.
//
// Each feature implements the Feature interface, which reports whether it is
// enabled and registers its routes on a Fiber router.
//
// # Feature Interface
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// # Manager
//
// The Manager holds the registry of features. Register appends a feature and
// LoadAll mounts the enabled ones in registration order, so a catch-all feature
// such as static file serving must be registered last.
package loader
