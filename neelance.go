package sourcemap

import (
	neelance "github.com/neelance/sourcemap"
)

// FromNeelance loads a map produced with github.com/neelance/sourcemap, the
// library the GopherJS compiler writes its maps with.
func FromNeelance(m *neelance.Map, projectRoot string) (*SourceMap, error) {
	sm := New(projectRoot)
	if m.Mappings == "" && len(m.DecodedMappings()) > 0 {
		// Mappings were added with AddMapping but never encoded.
		m.EncodeMappings()
	}
	err := sm.AddVLQMap(&VLQMap{
		Version:  m.Version,
		Sources:  m.Sources,
		Names:    m.Names,
		Mappings: m.Mappings,
	}, 0, 0)
	if err != nil {
		return nil, err
	}
	return sm, nil
}

// ToNeelance converts the map into a github.com/neelance/sourcemap map.
func (sm *SourceMap) ToNeelance(file string) *neelance.Map {
	v := sm.ToVLQ()
	return &neelance.Map{
		Version:  3,
		File:     file,
		Sources:  v.Sources,
		Names:    v.Names,
		Mappings: v.Mappings,
	}
}
