package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v2"
)

// ParseError is returned for a config file that cannot be read or decoded.
// Line is 1-based and zero when the parser did not report a position.
type ParseError struct {
	File string
	Line int
	Err  error

	near string
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("config: ")
	b.WriteString(e.File)
	if e.Line > 0 {
		fmt.Fprintf(&b, ":%d", e.Line)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	if e.near != "" {
		fmt.Fprintf(&b, ": %s<---", e.near)
	}
	return b.String()
}

func (e *ParseError) Unwrap() error { return e.Err }

// readFile decodes a flat key/value file, choosing the format by extension.
func readFile(name string) (map[string]interface{}, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, &ParseError{File: name, Err: err}
	}
	defer f.Close()

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	values, err := decodeFile(format, f)
	if err != nil {
		if pe, ok := err.(*ParseError); ok {
			pe.File = name
			return nil, pe
		}
		return nil, &ParseError{File: name, Err: err}
	}
	return values, nil
}

func decodeFile(format string, in io.Reader) (map[string]interface{}, error) {
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, err
	}

	values := make(map[string]interface{})
	switch format {
	case "json":
		filterComments(data)
		if err := json.Unmarshal(data, &values); err != nil {
			if syntax, ok := err.(*json.SyntaxError); ok {
				return nil, syntaxError(data, syntax)
			}
			return nil, err
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &values); err != nil {
			return nil, err
		}
	case "toml":
		tree, err := toml.LoadBytes(data)
		if err != nil {
			return nil, err
		}
		values = tree.ToMap()
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
	return values, nil
}

// filterComments blanks out // line comments outside JSON strings in place,
// keeping offsets and line numbers intact.
func filterComments(data []byte) {
	inString := false
	inComment := false
	for i, c := range data {
		switch {
		case inComment:
			if c == '\n' {
				inComment = false
			} else {
				data[i] = ' '
			}
		case c == '"' && (i == 0 || data[i-1] != '\\'):
			inString = !inString
		case inString:
		case c == '/' && i+1 < len(data) && data[i+1] == '/':
			inComment = true
			data[i] = ' '
		}
	}
}

// syntaxError locates a JSON syntax error by line and keeps the text of that
// line up to the offending byte.
func syntaxError(data []byte, syntax *json.SyntaxError) *ParseError {
	off := int(syntax.Offset)
	if off > len(data) {
		off = len(data)
	}
	start := bytes.LastIndexByte(data[:off], '\n') + 1
	return &ParseError{
		Line: bytes.Count(data[:start], []byte{'\n'}) + 1,
		Err:  syntax,
		near: strings.TrimSpace(string(data[start:off])),
	}
}
