// Package sourcemap builds, merges, queries and serializes source maps.
//
// A SourceMap keeps its mappings decoded in memory, sorted by generated
// position, which makes merging maps from several build passes cheap: maps
// can be concatenated with AddSourceMap, composed with Extends and shifted
// with OffsetLines and OffsetColumns without ever going through the VLQ text
// form. The text form is produced once at the end with ToVLQ or Stringify.
//
// Public positions use 1-based lines and 0-based columns.
//
// SourceMap is not safe for concurrent use. Operations that take another
// SourceMap as an argument only read it.
package sourcemap

import (
	"github.com/gopherjs/sourcemap/format"
	"github.com/gopherjs/sourcemap/internal/mappings"
	"github.com/gopherjs/sourcemap/internal/strtable"
	"github.com/gopherjs/sourcemap/internal/vlq"
)

// LibraryVersion identifies the buffer layout produced by ToBuffer. Buffers
// produced by a different version are rejected.
const LibraryVersion = "2.1.0"

// DefaultProjectRoot is used when New is called with an empty project root.
const DefaultProjectRoot = "/"

// VLQMap is the Source Map Revision 3 document, with mappings in the VLQ text
// form.
type VLQMap = format.Map

// SourceMap is an in-memory source map.
type SourceMap struct {
	projectRoot string
	mappings    mappings.Table
	sources     strtable.Table
	names       strtable.Table
	contents    map[int]string
}

// New returns an empty source map. Source paths are made relative to
// projectRoot when the map is stringified.
func New(projectRoot string) *SourceMap {
	if projectRoot == "" {
		projectRoot = DefaultProjectRoot
	}
	return &SourceMap{
		projectRoot: projectRoot,
		contents:    map[int]string{},
	}
}

// ProjectRoot returns the directory source paths are relative to.
func (sm *SourceMap) ProjectRoot() string { return sm.projectRoot }

// Clone returns a deep copy of the source map.
func (sm *SourceMap) Clone() *SourceMap {
	c := New(sm.projectRoot)
	c.mappings = sm.mappings.Clone()
	c.sources = sm.sources.Clone()
	c.names = sm.names.Clone()
	for i, content := range sm.contents {
		c.contents[i] = content
	}
	return c
}

// AddSource adds a source file path to the sources table and returns its
// index. Adding a known source returns the existing index.
func (sm *SourceMap) AddSource(source string) int { return sm.sources.Intern(source) }

// AddSources adds several sources, returning their indices in the same order.
func (sm *SourceMap) AddSources(sources []string) []int {
	result := make([]int, len(sources))
	for i, s := range sources {
		result[i] = sm.AddSource(s)
	}
	return result
}

// SourceIndex returns the index of a source, if the map contains it.
func (sm *SourceMap) SourceIndex(source string) (int, bool) { return sm.sources.Index(source) }

// Source returns the source at the given index.
func (sm *SourceMap) Source(index int) (string, error) { return sm.sources.Get(index) }

// Sources returns all sources in index order.
func (sm *SourceMap) Sources() []string { return sm.sources.All() }

// AddName adds a symbol name to the names table and returns its index.
// Adding a known name returns the existing index.
func (sm *SourceMap) AddName(name string) int { return sm.names.Intern(name) }

// AddNames adds several names, returning their indices in the same order.
func (sm *SourceMap) AddNames(names []string) []int {
	result := make([]int, len(names))
	for i, n := range names {
		result[i] = sm.AddName(n)
	}
	return result
}

// NameIndex returns the index of a name, if the map contains it.
func (sm *SourceMap) NameIndex(name string) (int, bool) { return sm.names.Index(name) }

// Name returns the name at the given index.
func (sm *SourceMap) Name(index int) (string, error) { return sm.names.Get(index) }

// Names returns all names in index order.
func (sm *SourceMap) Names() []string { return sm.names.All() }

// SetSourceContent stores the full text of a source file in the map. The
// source is added to the sources table if needed.
func (sm *SourceMap) SetSourceContent(source, content string) {
	sm.contents[sm.AddSource(source)] = content
}

// SourceContent returns the stored text of a source file. The second result
// is false if the source is unknown or has no content stored.
func (sm *SourceMap) SourceContent(source string) (string, bool) {
	i, ok := sm.sources.Index(source)
	if !ok {
		return "", false
	}
	content, ok := sm.contents[i]
	return content, ok
}

// SourcesContent returns stored source contents in source index order, with
// nil for sources without content.
func (sm *SourceMap) SourcesContent() []*string {
	result := make([]*string, sm.sources.Len())
	for i := range result {
		if content, ok := sm.contents[i]; ok {
			content := content
			result[i] = &content
		}
	}
	return result
}

// SourcesContentMap returns stored source contents keyed by source. Sources
// without content and sources with empty content both map to nil; use
// SourcesContent to tell them apart.
func (sm *SourceMap) SourcesContentMap() map[string]*string {
	result := map[string]*string{}
	for i, content := range sm.SourcesContent() {
		source, _ := sm.sources.Get(i)
		if content != nil && *content == "" {
			content = nil
		}
		result[source] = content
	}
	return result
}

// Mappings returns all mappings in generated order.
func (sm *SourceMap) Mappings() []IndexedMapping {
	all := sm.mappings.All()
	result := make([]IndexedMapping, len(all))
	for i, m := range all {
		result[i] = toIndexed(m)
	}
	return result
}

// Map returns a decoded view of the whole source map.
func (sm *SourceMap) Map() ParsedMap {
	return ParsedMap{
		Mappings:       sm.Mappings(),
		Sources:        sm.Sources(),
		SourcesContent: sm.SourcesContent(),
		Names:          sm.Names(),
	}
}

// resolve converts an internal mapping into the public string form.
func (sm *SourceMap) resolve(m mappings.Mapping) Mapping {
	indexed := toIndexed(m)
	result := Mapping{Generated: indexed.Generated, Original: indexed.Original}
	if indexed.Source != NoIndex {
		result.Source, _ = sm.sources.Get(indexed.Source)
	}
	if indexed.Name != NoIndex {
		result.Name, _ = sm.names.Get(indexed.Name)
	}
	return result
}

// FindClosestMapping returns the mapping with the greatest generated position
// that doesn't exceed line:column. The second result is false if no mapping
// starts at or before that position.
func (sm *SourceMap) FindClosestMapping(line, column int) (Mapping, bool) {
	m, ok := sm.mappings.Closest(line-1, column)
	if !ok {
		return Mapping{}, false
	}
	return sm.resolve(m), true
}

// MappingsForLine returns the mappings that start on a generated line.
func (sm *SourceMap) MappingsForLine(line int) []Mapping {
	ms := sm.mappings.Line(line - 1)
	result := make([]Mapping, len(ms))
	for i, m := range ms {
		result[i] = sm.resolve(m)
	}
	return result
}

// ToVLQ serializes the source map into the VLQ document form. Sources are
// returned as stored, without relativization.
func (sm *SourceMap) ToVLQ() *VLQMap {
	result := &VLQMap{
		Version:  3,
		Sources:  sm.Sources(),
		Names:    sm.Names(),
		Mappings: vlq.Encode(sm.mappings.All()),
	}
	if len(sm.contents) > 0 {
		result.SourcesContent = sm.SourcesContent()
	}
	return result
}

// Stringify serializes the source map through the format package. The map's
// project root takes precedence over opts.RootDir.
func (sm *SourceMap) Stringify(opts format.Options) (format.Result, error) {
	if sm.projectRoot != "" {
		opts.RootDir = sm.projectRoot
	}
	return format.Stringify(sm.ToVLQ(), opts)
}
