package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cast"
	"github.com/subosito/gotenv"
)

// DefaultEnvPrefix prefixes the environment variable of every key:
// STATSD_HOST, STATSD_BATCH_SIZE and so on.
const DefaultEnvPrefix = "STATSD"

// keys lists every setting by its mapstructure tag.
var keys = []string{"host", "port", "conn", "prefix", "batch_size", "dial_timeout", "write_timeout"}

func envName(prefix, key string) string {
	if prefix == "" {
		return strings.ToUpper(key)
	}
	return strings.ToUpper(prefix + "_" + key)
}

// coerce converts a textual value from the environment or a flag to the type
// of key.
func coerce(key, s string) (interface{}, error) {
	switch key {
	case "port", "batch_size":
		return cast.ToIntE(strings.TrimSpace(s))
	case "dial_timeout", "write_timeout":
		return cast.ToDurationE(strings.TrimSpace(s))
	}
	return s, nil
}

// envValues collects the keys set in the environment. Variables set to the
// empty string count as unset.
func envValues(prefix string, lookup func(string) (string, bool)) (map[string]interface{}, error) {
	values := make(map[string]interface{})
	for _, key := range keys {
		name := envName(prefix, key)
		s, ok := lookup(name)
		if !ok || s == "" {
			continue
		}
		v, err := coerce(key, s)
		if err != nil {
			return nil, fmt.Errorf("config: %s: %w", name, err)
		}
		values[key] = v
	}
	return values, nil
}

// readDotEnv parses a KEY=VALUE file. Malformed lines are an error.
func readDotEnv(name string) (gotenv.Env, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, &ParseError{File: name, Err: err}
	}
	defer f.Close()

	env, err := gotenv.StrictParse(f)
	if err != nil {
		return nil, &ParseError{File: name, Err: err}
	}
	return env, nil
}
