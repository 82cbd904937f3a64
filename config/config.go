// Package config loads the settings of a statsd Reporter from defaults, a
// config file, a dotenv file, the environment and command line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/romcheg/metrology/metric/reporter/statsd"
)

// Config holds everything needed to reach a daemon.
type Config struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Conn         string        `mapstructure:"conn"`
	Prefix       string        `mapstructure:"prefix"`
	BatchSize    int           `mapstructure:"batch_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Default returns the settings used for everything no source overrides.
func Default() Config {
	return Config{
		Host:      "localhost",
		Port:      8125,
		Conn:      statsd.ConnUDP.String(),
		BatchSize: statsd.DefaultBatchSize,
	}
}

// Validate reports every invalid setting at once. A batch size below 1 is
// not an error, the reporter sends every sample on its own.
func (c Config) Validate() (err error) {
	if strings.TrimSpace(c.Host) == "" {
		err = multierr.Append(err, errors.New("config: empty host"))
	}
	if c.Port < 1 || c.Port > 65535 {
		err = multierr.Append(err, fmt.Errorf("config: port %d out of range 1-65535", c.Port))
	}
	if _, perr := statsd.ParseConn(c.Conn); perr != nil {
		err = multierr.Append(err, fmt.Errorf("config: conn: %w", perr))
	}
	if c.DialTimeout < 0 {
		err = multierr.Append(err, fmt.Errorf("config: negative dial_timeout %s", c.DialTimeout))
	}
	if c.WriteTimeout < 0 {
		err = multierr.Append(err, fmt.Errorf("config: negative write_timeout %s", c.WriteTimeout))
	}
	return
}

// Options turns a valid Config into reporter options.
func (c Config) Options() ([]statsd.Option, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	conn, _ := statsd.ParseConn(c.Conn)
	return []statsd.Option{
		statsd.Conn(conn),
		statsd.Prefix(c.Prefix),
		statsd.BatchSize(c.BatchSize),
		statsd.DialTimeout(c.DialTimeout),
		statsd.WriteTimeout(c.WriteTimeout),
	}, nil
}

// NewReporter creates a Reporter for registry. Options in extra are applied
// after the ones derived from c.
func (c Config) NewReporter(registry statsd.Registry, extra ...statsd.Option) (*statsd.Reporter, error) {
	opts, err := c.Options()
	if err != nil {
		return nil, err
	}
	return statsd.New(registry, c.Host, c.Port, append(opts, extra...)...)
}
