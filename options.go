package jsonschema

// Option configures a Registry.
type Option func(*Options)

// Options holds all configuration for a Registry.
type Options struct {
	// MetaschemaCheck validates every document submitted to Compile
	// against the bundled draft-06 metaschema before compiling it.
	MetaschemaCheck bool

	// RefDepthLimit bounds the number of $ref hops a single validation may
	// follow; crossing it fails with RefDepthExceeded. 0 means unlimited,
	// in which case a reference cycle with no terminating condition does
	// not terminate.
	RefDepthLimit int

	// RegexCacheSize is the capacity of the compiled-regex cache shared by
	// all compilations in the registry.
	RegexCacheSize int

	// CollectMetrics enables the compile/validate counters.
	CollectMetrics bool
}

// defaultOptions returns the default configuration.
func defaultOptions() Options {
	return Options{
		RegexCacheSize: 256,
		CollectMetrics: true,
	}
}

// WithMetaschemaCheck pre-seeds the registry with the draft-06 metaschema
// and enables validation of schema documents against it.
func WithMetaschemaCheck() Option {
	return func(o *Options) {
		o.MetaschemaCheck = true
	}
}

// WithRefDepthLimit bounds reference chains during validation. Use 0 for
// unlimited.
func WithRefDepthLimit(limit int) Option {
	return func(o *Options) {
		if limit >= 0 {
			o.RefDepthLimit = limit
		}
	}
}

// WithRegexCacheSize sets the compiled-regex cache capacity.
func WithRegexCacheSize(size int) Option {
	return func(o *Options) {
		if size > 0 {
			o.RegexCacheSize = size
		}
	}
}

// WithMetrics enables or disables metrics collection.
func WithMetrics(enable bool) Option {
	return func(o *Options) {
		o.CollectMetrics = enable
	}
}
