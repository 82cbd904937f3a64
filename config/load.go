package config

import (
	"os"
	"sort"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// Option configures Load.
type Option func(*loader)

type loader struct {
	files     []string
	dotenv    []string
	envPrefix string
	lookupEnv func(string) (string, bool)
	flags     *pflag.FlagSet
	log       *zap.Logger
}

// File adds a config file. The extension selects the format: .json (with //
// line comments), .yaml, .yml or .toml. Files are applied in the order given.
func File(name string) Option {
	return func(l *loader) { l.files = append(l.files, name) }
}

// DotEnv adds a file of KEY=VALUE lines. Its variables are read like the
// environment but the real environment takes precedence.
func DotEnv(name string) Option {
	return func(l *loader) { l.dotenv = append(l.dotenv, name) }
}

// EnvPrefix replaces DefaultEnvPrefix. An empty prefix reads HOST, PORT, ...
func EnvPrefix(prefix string) Option {
	return func(l *loader) { l.envPrefix = prefix }
}

// LookupEnv replaces os.LookupEnv.
func LookupEnv(fn func(string) (string, bool)) Option {
	return func(l *loader) {
		if fn != nil {
			l.lookupEnv = fn
		}
	}
}

// Flags applies the flags of fs given on the command line. fs must be parsed
// before Load is called; see RegisterFlags.
func Flags(fs *pflag.FlagSet) Option {
	return func(l *loader) { l.flags = fs }
}

// Logger logs each applied source at debug level.
func Logger(log *zap.Logger) Option {
	return func(l *loader) {
		if log != nil {
			l.log = log.Named("config")
		}
	}
}

// Load builds a Config from Default and the configured sources, then
// validates it.
func Load(opts ...Option) (Config, error) {
	l := &loader{
		envPrefix: DefaultEnvPrefix,
		lookupEnv: os.LookupEnv,
		log:       zap.NewNop(),
	}
	for _, o := range opts {
		o(l)
	}

	cfg := Default()

	for _, name := range l.files {
		values, err := readFile(name)
		if err != nil {
			return Config{}, err
		}
		if err := l.apply(&cfg, "file", name, values); err != nil {
			return Config{}, &ParseError{File: name, Err: err}
		}
	}

	for _, name := range l.dotenv {
		env, err := readDotEnv(name)
		if err != nil {
			return Config{}, err
		}
		values, err := envValues(l.envPrefix, func(k string) (string, bool) {
			v, ok := env[k]
			return v, ok
		})
		if err != nil {
			return Config{}, &ParseError{File: name, Err: err}
		}
		if err := l.apply(&cfg, "dotenv", name, values); err != nil {
			return Config{}, err
		}
	}

	values, err := envValues(l.envPrefix, l.lookupEnv)
	if err != nil {
		return Config{}, err
	}
	if err := l.apply(&cfg, "env", l.envPrefix, values); err != nil {
		return Config{}, err
	}

	if l.flags != nil {
		values, err := flagValues(l.flags)
		if err != nil {
			return Config{}, err
		}
		if err := l.apply(&cfg, "flags", "command line", values); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// apply decodes values over cfg. Keys missing from values leave cfg as it is.
func (l *loader) apply(cfg *Config, source, name string, values map[string]interface{}) error {
	if len(values) == 0 {
		return nil
	}
	if err := decode(values, cfg); err != nil {
		return err
	}
	if ce := l.log.Check(zap.DebugLevel, "source applied"); ce != nil {
		applied := make([]string, 0, len(values))
		for k := range values {
			applied = append(applied, k)
		}
		sort.Strings(applied)
		ce.Write(zap.String("source", source), zap.String("name", name), zap.Strings("keys", applied))
	}
	return nil
}

// decode is a weakly typed mapstructure decode which accepts durations as
// strings and rejects unknown keys.
func decode(input map[string]interface{}, cfg *Config) error {
	d, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	return d.Decode(input)
}
