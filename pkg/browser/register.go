package browser

// The concrete automation engine registers itself here at startup,
// typically from an underscore import in the main package that links it in.
// The core never depends on a specific engine.

var defaultFactory Factory

// RegisterFactory installs the process-wide session factory.
func RegisterFactory(f Factory) {
	defaultFactory = f
}

// DefaultFactory returns the registered session factory, or nil when no
// engine is linked into the build.
func DefaultFactory() Factory {
	return defaultFactory
}
