package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// RegisterFlags defines one flag per setting on fs, named after the key with
// dashes: --host, --batch-size, --dial-timeout. The defaults shown in the
// usage are those of Default; only flags given on the command line override
// other sources.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("host", d.Host, "statsd daemon host")
	fs.Int("port", d.Port, "statsd daemon port")
	fs.String("conn", d.Conn, "connection kind, tcp or udp")
	fs.String("prefix", d.Prefix, "prefix for every metric name")
	fs.Int("batch-size", d.BatchSize, "samples buffered before a send")
	fs.Duration("dial-timeout", d.DialTimeout, "TCP connect timeout, 0 for none")
	fs.Duration("write-timeout", d.WriteTimeout, "socket write timeout, 0 for none")
}

func flagKey(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

// flagValues collects the flags explicitly given on the command line which
// name a known key.
func flagValues(fs *pflag.FlagSet) (values map[string]interface{}, err error) {
	known := make(map[string]bool, len(keys))
	for _, k := range keys {
		known[k] = true
	}

	values = make(map[string]interface{})
	fs.Visit(func(f *pflag.Flag) {
		key := flagKey(f.Name)
		if err != nil || !known[key] {
			return
		}
		v, cerr := coerce(key, f.Value.String())
		if cerr != nil {
			err = fmt.Errorf("config: flag --%s: %w", f.Name, cerr)
			return
		}
		values[key] = v
	})
	if err != nil {
		return nil, err
	}
	return values, nil
}
