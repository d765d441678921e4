// Package format turns the Source Map Revision 3 envelope produced by the
// mapping engine into its final shape: plain JSON text, an inline data URI or
// a structured object, with source paths rewritten relative to the project
// root.
package format

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ErrUnknownFormat is returned by Stringify for an unsupported Options.Format.
var ErrUnknownFormat = errors.New("unknown source map format")

// Map is a Source Map Revision 3 document.
//
// A nil SourcesContent entry means the content of the corresponding source is
// not known, which is different from an empty source file.
type Map struct {
	Version        int       `json:"version"`
	File           string    `json:"file,omitempty"`
	SourceRoot     string    `json:"sourceRoot,omitempty"`
	Sources        []string  `json:"sources"`
	SourcesContent []*string `json:"sourcesContent,omitempty"`
	Names          []string  `json:"names"`
	Mappings       string    `json:"mappings"`
}

// ReadFrom decodes a JSON source map document.
func ReadFrom(r io.Reader) (*Map, error) {
	d := json.NewDecoder(r)
	var m Map
	if err := d.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode source map: %w", err)
	}
	return &m, nil
}

// WriteTo encodes the map as JSON into w.
func (m *Map) WriteTo(w io.Writer) (int64, error) {
	data, err := m.Marshal()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

// Marshal returns the JSON text of the map, defaulting the version to 3.
func (m *Map) Marshal() ([]byte, error) {
	c := *m
	if c.Version == 0 {
		c.Version = 3
	}
	if c.Sources == nil {
		c.Sources = []string{}
	}
	if c.Names == nil {
		c.Names = []string{}
	}
	data, err := json.Marshal(&c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode source map: %w", err)
	}
	return data, nil
}

// Kind of the Stringify output.
type Kind string

const (
	// Inline produces a base64 data URI suitable for a sourceMappingURL comment.
	Inline Kind = "inline"
	// String produces JSON text.
	String Kind = "string"
	// Object produces a *Map.
	Object Kind = "object"
)

// Options controls Stringify output.
type Options struct {
	File       string
	SourceRoot string
	// RootDir is the directory source paths are made relative to.
	RootDir string
	// Format defaults to String.
	Format Kind
	// Deprecated: use Format: Inline.
	InlineMap bool
}

func (o Options) kind() Kind {
	if o.InlineMap {
		return Inline
	}
	if o.Format == "" {
		return String
	}
	return o.Format
}

// Result of Stringify. Text is set for the Inline and String formats, Map is
// set for the Object format.
type Result struct {
	Text string
	Map  *Map
}

// Stringify formats the map according to the options. The passed map is not
// modified.
func Stringify(m *Map, opts Options) (Result, error) {
	kind := opts.kind()
	switch kind {
	case Inline, String, Object:
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownFormat, kind)
	}

	result := &Map{
		Version:    3,
		File:       opts.File,
		SourceRoot: opts.SourceRoot,
		Sources:    make([]string, len(m.Sources)),
		Names:      append([]string{}, m.Names...),
		Mappings:   m.Mappings,
	}
	for i, s := range m.Sources {
		result.Sources[i] = RelativePath(s, opts.RootDir)
	}
	result.SourcesContent = make([]*string, len(m.Sources))
	copy(result.SourcesContent, m.SourcesContent)

	if kind == Object {
		return Result{Map: result}, nil
	}
	data, err := result.Marshal()
	if err != nil {
		return Result{}, err
	}
	if kind == Inline {
		return Result{Text: InlineURL(data)}, nil
	}
	return Result{Text: string(data)}, nil
}

// InlineURL wraps a JSON source map into a data URI.
func InlineURL(data []byte) string {
	return "data:application/json;charset=utf-8;base64," + base64.StdEncoding.EncodeToString(data)
}

// MappingURLComment returns the trailer comment that links generated code to
// its source map.
func MappingURLComment(url string) string {
	return fmt.Sprintf("//# sourceMappingURL=%s\n", url)
}

// RelativePath converts a source path into the form used inside source maps:
// forward slashes, absolute paths made relative to rootDir (if set) and bare
// relative paths prefixed with "./".
func RelativePath(source, rootDir string) string {
	source = toSlash(source)
	if rootDir != "" && strings.HasPrefix(source, "/") {
		if rel, err := filepath.Rel(filepath.FromSlash(toSlash(rootDir)), filepath.FromSlash(source)); err == nil {
			source = toSlash(rel)
		}
	}
	if source != "" && !strings.HasPrefix(source, ".") && !strings.HasPrefix(source, "/") {
		source = "./" + source
	}
	return source
}

// toSlash converts both native and Windows separators to '/'.
func toSlash(p string) string {
	return strings.ReplaceAll(filepath.ToSlash(p), `\`, "/")
}
