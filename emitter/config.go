// Package emitter turns a resolved Type Graph into a self-contained
// Go source file: one record or alias per Type, plus the descriptor
// tables the runtime package walks to parse and validate documents
// of that shape.
package emitter

// Logger receives diagnostic output during emission, mirroring the
// xsd package's own logging hook.
type Logger interface {
	Printf(format string, v ...interface{})
}

// Config holds emitter options, set with functional Options.
type Config struct {
	logger Logger

	pkgName string

	// externalTypes maps a Qualified Name's local part, namespace
	// ignored, to a Go type expression already available in the
	// generated package's imports; used to let callers substitute
	// their own hand-written representation for specific XSD types.
	externalTypes map[string]string
}

// Option configures a Config. Calling an Option returns an Option
// that restores the previous value, the same pattern xsd.Option uses.
type Option func(*Config) Option

// Option applies opts to cfg in order, returning an Option that
// undoes the last one applied.
func (cfg *Config) Option(opts ...Option) (previous Option) {
	for _, opt := range opts {
		previous = opt(cfg)
	}
	return previous
}

func (cfg *Config) logf(format string, v ...interface{}) {
	if cfg.logger != nil {
		cfg.logger.Printf(format, v...)
	}
}

// PackageName sets the package clause of the generated file.
func PackageName(name string) Option {
	return func(cfg *Config) Option {
		previous := cfg.pkgName
		cfg.pkgName = name
		return PackageName(previous)
	}
}

// LogOutput directs emitter diagnostics to l.
func LogOutput(l Logger) Option {
	return func(cfg *Config) Option {
		previous := cfg.logger
		cfg.logger = l
		return LogOutput(previous)
	}
}

// ExternalType substitutes goType for every reference to the XSD
// type named localName, wherever it is used as a field, base, item,
// or member type.
func ExternalType(localName, goType string) Option {
	return func(cfg *Config) Option {
		if cfg.externalTypes == nil {
			cfg.externalTypes = make(map[string]string)
		}
		previous, had := cfg.externalTypes[localName]
		cfg.externalTypes[localName] = goType
		if !had {
			return func(cfg *Config) Option {
				delete(cfg.externalTypes, localName)
				return ExternalType(localName, goType)
			}
		}
		return ExternalType(localName, previous)
	}
}
