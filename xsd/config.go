package xsd

// Types implementing the Logger interface can receive diagnostic
// output from the Loader and Resolver. The Logger interface is
// implemented by *log.Logger.
type Logger interface {
	Printf(format string, v ...interface{})
}

// A Config holds user-defined overrides for the Loader and Resolver.
type Config struct {
	logger   Logger
	loglevel int

	// forceProcess lists type names that must be added to the Type
	// Graph even if nothing else in a loaded schema forest refers to
	// them.
	forceProcess []string
}

// An Option is used to customize a Config. Calling an Option returns
// an Option that will restore the previous value.
type Option func(*Config) Option

// Option applies opts to cfg, returning an Option that restores cfg's
// prior settings for the last option applied.
func (cfg *Config) Option(opts ...Option) (previous Option) {
	for _, opt := range opts {
		previous = opt(cfg)
	}
	return previous
}

func (cfg *Config) logf(format string, v ...interface{}) {
	if cfg.logger != nil && cfg.loglevel > 0 {
		cfg.logger.Printf(format, v...)
	}
}

func (cfg *Config) debugf(format string, v ...interface{}) {
	if cfg.logger != nil && cfg.loglevel > 3 {
		cfg.logger.Printf(format, v...)
	}
}

// LogOutput specifies an optional Logger for warnings and debug
// information produced while loading and resolving schema documents.
func LogOutput(l Logger) Option {
	return func(cfg *Config) Option {
		prev := cfg.logger
		cfg.logger = l
		return LogOutput(prev)
	}
}

// LogLevel sets the verbosity of messages sent to the Logger
// configured with LogOutput. Level should be between 1 and 5, with 5
// the most verbose.
func LogLevel(level int) Option {
	return func(cfg *Config) Option {
		prev := cfg.loglevel
		cfg.loglevel = level
		return LogLevel(prev)
	}
}

// ForceProcess adds type names to the set of types that must appear
// in the resolved Type Graph even if no other type or element in the
// loaded schema forest references them. Names are schema "name"
// attribute values; they are resolved against the target namespace of
// the first schema document passed to Load.
func ForceProcess(names ...string) Option {
	return func(cfg *Config) Option {
		prev := cfg.forceProcess
		cfg.forceProcess = names
		return ForceProcess(prev...)
	}
}
