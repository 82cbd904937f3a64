//go:build windows
// +build windows

package statsd

const lineSeparator = "\r\n"
