package sourcemap

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/gopherjs/sourcemap/internal/mappings"
	"github.com/gopherjs/sourcemap/internal/strtable"
)

const bufferMagic = "gopherjs/sourcemap"

// fieldsPerMapping is the number of integers per mapping in bufferBody.
const fieldsPerMapping = 6

type bufferHeader struct {
	Magic   string
	Version string
}

type bufferBody struct {
	ProjectRoot string
	Sources     []string
	Names       []string
	Contents    map[int]string
	// Flat list of (generated line, generated column, original line,
	// original column, source, name) tuples.
	Mappings []int
}

// Write encodes the source map using the provided encode function, typically
// gob.Encoder.Encode. Together with Read it implements cache.Cacheable.
func (sm *SourceMap) Write(encode func(any) error) error {
	if err := encode(bufferHeader{Magic: bufferMagic, Version: LibraryVersion}); err != nil {
		return fmt.Errorf("failed to encode source map header: %w", err)
	}
	all := sm.mappings.All()
	body := bufferBody{
		ProjectRoot: sm.projectRoot,
		Sources:     sm.sources.All(),
		Names:       sm.names.All(),
		Contents:    sm.contents,
		Mappings:    make([]int, 0, len(all)*fieldsPerMapping),
	}
	for _, m := range all {
		body.Mappings = append(body.Mappings,
			m.GeneratedLine, m.GeneratedColumn, m.OriginalLine, m.OriginalColumn, m.Source, m.Name)
	}
	if err := encode(body); err != nil {
		return fmt.Errorf("failed to encode source map: %w", err)
	}
	return nil
}

// Read replaces the contents of the source map with data previously encoded
// by Write. The source map is left unchanged if decoding fails; data that
// wasn't produced by the same library version is rejected with
// ErrIncompatibleInstance.
func (sm *SourceMap) Read(decode func(any) error) error {
	var header bufferHeader
	if err := decode(&header); err != nil {
		return fmt.Errorf("%w: failed to decode header: %v", ErrIncompatibleInstance, err)
	}
	if header.Magic != bufferMagic {
		return fmt.Errorf("%w: not a source map buffer", ErrIncompatibleInstance)
	}
	if header.Version != LibraryVersion {
		return fmt.Errorf("%w: buffer version %q, library version %q", ErrIncompatibleInstance, header.Version, LibraryVersion)
	}
	var body bufferBody
	if err := decode(&body); err != nil {
		return fmt.Errorf("%w: failed to decode body: %v", ErrIncompatibleInstance, err)
	}

	decoded, err := body.mappings()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIncompatibleInstance, err)
	}
	for i := range body.Contents {
		if i < 0 || i >= len(body.Sources) {
			return fmt.Errorf("%w: content for source #%d out of %d", ErrIncompatibleInstance, i, len(body.Sources))
		}
	}

	sm.projectRoot = body.ProjectRoot
	if sm.projectRoot == "" {
		sm.projectRoot = DefaultProjectRoot
	}
	sm.sources = strtable.Table{}
	for _, s := range body.Sources {
		sm.sources.Intern(s)
	}
	sm.names = strtable.Table{}
	for _, n := range body.Names {
		sm.names.Intern(n)
	}
	sm.contents = map[int]string{}
	for i, content := range body.Contents {
		sm.contents[i] = content
	}
	sm.mappings.Reset(decoded)
	return nil
}

// mappings validates and unpacks the flat mapping list.
func (b *bufferBody) mappings() ([]mappings.Mapping, error) {
	if len(b.Mappings)%fieldsPerMapping != 0 {
		return nil, fmt.Errorf("mapping data length %d is not a multiple of %d", len(b.Mappings), fieldsPerMapping)
	}
	result := make([]mappings.Mapping, 0, len(b.Mappings)/fieldsPerMapping)
	for i := 0; i < len(b.Mappings); i += fieldsPerMapping {
		f := b.Mappings[i : i+fieldsPerMapping]
		m := mappings.Mapping{
			GeneratedLine:   f[0],
			GeneratedColumn: f[1],
			OriginalLine:    f[2],
			OriginalColumn:  f[3],
			Source:          f[4],
			Name:            f[5],
		}
		switch {
		case m.GeneratedLine < 0 || m.GeneratedColumn < 0 || m.OriginalLine < 0 || m.OriginalColumn < 0:
			return nil, fmt.Errorf("mapping %v has a negative position", m)
		case m.Source < mappings.None || m.Source >= len(b.Sources):
			return nil, fmt.Errorf("mapping %v refers to source out of %d", m, len(b.Sources))
		case m.Name < mappings.None || m.Name >= len(b.Names):
			return nil, fmt.Errorf("mapping %v refers to name out of %d", m, len(b.Names))
		case !m.HasOriginal() && m.Name != mappings.None:
			return nil, fmt.Errorf("null mapping %v has a name", m)
		}
		if n := len(result); n > 0 && mappings.Less(m, result[n-1]) {
			return nil, fmt.Errorf("mapping %v is out of order", m)
		}
		result = append(result, m)
	}
	return result, nil
}

// ToBuffer serializes the source map into a compact binary form that can be
// loaded with FromBuffer, AddBuffer or ExtendsBuffer without going through
// the VLQ text form.
func (sm *SourceMap) ToBuffer() ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := sm.Write(gob.NewEncoder(buf).Encode); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FromBuffer loads a source map serialized with ToBuffer.
func FromBuffer(buf []byte) (*SourceMap, error) {
	sm := New("")
	if err := sm.Read(gob.NewDecoder(bytes.NewReader(buf)).Decode); err != nil {
		return nil, err
	}
	return sm, nil
}
