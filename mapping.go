package sourcemap

import (
	"fmt"

	"github.com/gopherjs/sourcemap/internal/mappings"
)

// NoIndex marks an absent source or name in an IndexedMapping.
const NoIndex = mappings.None

// Position in a text file. Line numbers start at 1, column numbers start at 0.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Column) }

// Mapping associates a generated position with an original position in a
// named source file.
//
// If Original is nil, the mapping is a null mapping: the generated position
// has no known original location, and Source and Name are ignored. An empty
// Source or Name is treated as absent.
type Mapping struct {
	Generated Position
	Original  *Position
	Source    string
	Name      string
}

// IndexedMapping is a Mapping that refers to sources and names by their index
// in the source map tables. Source and Name are NoIndex when absent.
type IndexedMapping struct {
	Generated Position
	Original  *Position
	Source    int
	Name      int
}

// ParsedMap is a decoded view of the whole source map, mostly useful for
// tests and debugging.
type ParsedMap struct {
	Mappings       []IndexedMapping
	Sources        []string
	SourcesContent []*string
	Names          []string
}

// toIndexed converts an internal mapping into the public 1-based convention.
func toIndexed(m mappings.Mapping) IndexedMapping {
	result := IndexedMapping{
		Generated: Position{Line: m.GeneratedLine + 1, Column: m.GeneratedColumn},
		Source:    NoIndex,
		Name:      NoIndex,
	}
	if m.HasOriginal() {
		result.Original = &Position{Line: m.OriginalLine + 1, Column: m.OriginalColumn}
		result.Source = m.Source
		result.Name = m.Name
	}
	return result
}

// toInternal validates a public mapping and converts it to the internal 0-based
// form. Source and name are left unset, offsets are not applied.
//
// A mapping with an original position but without a source is demoted to a
// null mapping.
func toInternal(m Mapping) (mappings.Mapping, error) {
	if m.Generated.Line < 1 || m.Generated.Column < 0 {
		return mappings.Mapping{}, fmt.Errorf("%w: generated position %v is out of bounds", ErrInvalidPosition, m.Generated)
	}
	result := mappings.Null(m.Generated.Line-1, m.Generated.Column)
	if m.Original == nil || m.Source == "" {
		return result, nil
	}
	if m.Original.Line < 1 || m.Original.Column < 0 {
		return mappings.Mapping{}, fmt.Errorf("%w: original position %v is out of bounds", ErrInvalidPosition, *m.Original)
	}
	result.OriginalLine = m.Original.Line - 1
	result.OriginalColumn = m.Original.Column
	return result, nil
}
