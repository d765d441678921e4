package sourcemap

import (
	"fmt"
	"strings"

	"github.com/gopherjs/sourcemap/internal/mappings"
	"github.com/gopherjs/sourcemap/internal/vlq"
)

// AddVLQMap decodes a VLQ document and appends its mappings, shifted by
// lineOffset lines and columnOffset columns. Sources and names of the
// document are added to the map's tables; sources without content in the
// document get an empty content unless the map already has one.
//
// The map is not modified if the document is malformed.
func (sm *SourceMap) AddVLQMap(m *VLQMap, lineOffset, columnOffset int) error {
	if m == nil {
		return nil
	}
	decoded, err := vlq.Decode(m.Mappings)
	if err != nil {
		return err
	}
	for _, d := range decoded {
		if !d.HasOriginal() {
			continue
		}
		if d.Source >= len(m.Sources) {
			return fmt.Errorf("%w: mapping %v refers to source #%d, but the map has %d sources", ErrIndexOutOfRange, d, d.Source, len(m.Sources))
		}
		if d.Name != mappings.None && d.Name >= len(m.Names) {
			return fmt.Errorf("%w: mapping %v refers to name #%d, but the map has %d names", ErrIndexOutOfRange, d, d.Name, len(m.Names))
		}
	}
	if err := mappings.CheckOffsets(decoded, lineOffset, columnOffset); err != nil {
		return err
	}

	sources := sm.AddSources(m.Sources)
	for i, index := range sources {
		if i < len(m.SourcesContent) && m.SourcesContent[i] != nil {
			sm.contents[index] = *m.SourcesContent[i]
		} else if _, ok := sm.contents[index]; !ok {
			sm.contents[index] = ""
		}
	}
	names := sm.AddNames(m.Names)

	for i, d := range decoded {
		if !d.HasOriginal() {
			continue
		}
		d.Source = sources[d.Source]
		if d.Name != mappings.None {
			d.Name = names[d.Name]
		}
		decoded[i] = d
	}
	return sm.mappings.AppendBatch(decoded, lineOffset, columnOffset)
}

// AddIndexedMapping appends a single mapping. See AddIndexedMappings.
func (sm *SourceMap) AddIndexedMapping(m Mapping, lineOffset, columnOffset int) error {
	return sm.AddIndexedMappings([]Mapping{m}, lineOffset, columnOffset)
}

// AddIndexedMappings appends decoded mappings, skipping the VLQ text form
// entirely. lineOffset and columnOffset are added to every generated
// position.
//
// Mappings are normalized: a mapping without a source is treated as a null
// mapping, and a name without an original position is dropped. A negative
// position in a mapping fails with ErrInvalidPosition, an offset that would
// make a generated position negative fails with ErrInvalidOffset. Either way,
// none of the mappings are added.
func (sm *SourceMap) AddIndexedMappings(ms []Mapping, lineOffset, columnOffset int) error {
	batch := make([]mappings.Mapping, len(ms))
	for i, m := range ms {
		converted, err := toInternal(m)
		if err != nil {
			return fmt.Errorf("mapping #%d: %w", i, err)
		}
		batch[i] = converted
	}
	if err := mappings.CheckOffsets(batch, lineOffset, columnOffset); err != nil {
		return err
	}

	for i, m := range ms {
		if m.Original == nil || m.Source == "" {
			continue
		}
		batch[i].Source = sm.AddSource(m.Source)
		if m.Name != "" {
			batch[i].Name = sm.AddName(m.Name)
		}
	}
	return sm.mappings.AppendBatch(batch, lineOffset, columnOffset)
}

// AddSourceMap appends all mappings of another source map, shifted by
// lineOffset lines and columnOffset columns. Sources, names and source
// contents of the other map are added to this map's tables. The other map is
// not modified.
func (sm *SourceMap) AddSourceMap(other *SourceMap, lineOffset, columnOffset int) error {
	if other == nil {
		return fmt.Errorf("%w: nil source map", ErrIncompatibleInstance)
	}
	if other == sm {
		other = sm.Clone()
	}
	batch := other.mappings.All()
	if err := mappings.CheckOffsets(batch, lineOffset, columnOffset); err != nil {
		return err
	}

	t := sm.newTranslation(other)
	for i := 0; i < other.sources.Len(); i++ {
		t.source(i)
	}
	for i := 0; i < other.names.Len(); i++ {
		t.name(i)
	}
	for i, m := range batch {
		if !m.HasOriginal() {
			continue
		}
		m.Source = t.source(m.Source)
		if m.Name != mappings.None {
			m.Name = t.name(m.Name)
		}
		batch[i] = m
	}
	return sm.mappings.AppendBatch(batch, lineOffset, columnOffset)
}

// AddBuffer appends a source map serialized with ToBuffer. See AddSourceMap.
func (sm *SourceMap) AddBuffer(buf []byte, lineOffset, columnOffset int) error {
	other, err := FromBuffer(buf)
	if err != nil {
		return err
	}
	return sm.AddSourceMap(other, lineOffset, columnOffset)
}

// AddEmptyMap maps every line of sourceContent onto itself, starting at
// generated line lineOffset+1, and stores sourceContent as the source's
// content. This is the map of a file that was copied into the output without
// changes.
func (sm *SourceMap) AddEmptyMap(sourceName, sourceContent string, lineOffset int) error {
	if lineOffset < 0 {
		return fmt.Errorf("%w: line offset %d is negative", ErrInvalidOffset, lineOffset)
	}
	lines := strings.Count(sourceContent, "\n")
	if sourceContent != "" && !strings.HasSuffix(sourceContent, "\n") {
		lines++
	}

	source := sm.AddSource(sourceName)
	sm.contents[source] = sourceContent
	batch := make([]mappings.Mapping, lines)
	for i := range batch {
		batch[i] = mappings.Mapping{
			GeneratedLine: i,
			OriginalLine:  i,
			Source:        source,
			Name:          mappings.None,
		}
	}
	return sm.mappings.AppendBatch(batch, lineOffset, 0)
}

// GenerateEmptyMap returns a new source map created with AddEmptyMap.
func GenerateEmptyMap(projectRoot, sourceName, sourceContent string, lineOffset int) (*SourceMap, error) {
	sm := New(projectRoot)
	if err := sm.AddEmptyMap(sourceName, sourceContent, lineOffset); err != nil {
		return nil, err
	}
	return sm, nil
}
