package sourcemap

import (
	"fmt"

	"github.com/gopherjs/sourcemap/internal/mappings"
)

// translation maps source and name indices of a foreign map into indices of
// the local map. Strings are interned into the local tables on first use.
type translation struct {
	local   *SourceMap
	foreign *SourceMap
	sources []int
	names   []int
}

func (sm *SourceMap) newTranslation(foreign *SourceMap) *translation {
	t := &translation{
		local:   sm,
		foreign: foreign,
		sources: make([]int, foreign.sources.Len()),
		names:   make([]int, foreign.names.Len()),
	}
	for i := range t.sources {
		t.sources[i] = mappings.None
	}
	for i := range t.names {
		t.names[i] = mappings.None
	}
	return t
}

// source returns the local index of the foreign source i, copying the source
// content over if the local map has none.
func (t *translation) source(i int) int {
	if t.sources[i] != mappings.None {
		return t.sources[i]
	}
	s, err := t.foreign.sources.Get(i)
	if err != nil {
		panic(fmt.Errorf("foreign mapping refers to a missing source: %w", err))
	}
	local := t.local.sources.Intern(s)
	if content, ok := t.foreign.contents[i]; ok {
		if existing, ok := t.local.contents[local]; !ok || existing == "" {
			t.local.contents[local] = content
		}
	}
	t.sources[i] = local
	return local
}

// name returns the local index of the foreign name i.
func (t *translation) name(i int) int {
	if t.names[i] != mappings.None {
		return t.names[i]
	}
	n, err := t.foreign.names.Get(i)
	if err != nil {
		panic(fmt.Errorf("foreign mapping refers to a missing name: %w", err))
	}
	t.names[i] = t.local.names.Intern(n)
	return t.names[i]
}

// Extends composes this map with a map of an earlier build pass.
//
// The original positions of this map must be generated positions of the
// previous map. Every mapping is rewritten to point to the original position
// the previous map has for the closest generated position at or before it.
// If the previous map has no such mapping, or it's a null mapping, the
// mapping becomes a null mapping.
//
// If the previous map provides a name, it replaces the name of this map's
// mapping; otherwise the existing name is kept.
//
// The previous map is not modified.
func (sm *SourceMap) Extends(previous *SourceMap) error {
	if previous == nil {
		return fmt.Errorf("%w: nil source map", ErrIncompatibleInstance)
	}
	if previous == sm {
		previous = sm.Clone()
	}

	t := sm.newTranslation(previous)
	sm.mappings.Rewrite(func(m mappings.Mapping) mappings.Mapping {
		if !m.HasOriginal() {
			return m
		}
		u, ok := previous.mappings.Closest(m.OriginalLine, m.OriginalColumn)
		if !ok || !u.HasOriginal() {
			return m.Demote()
		}
		m.OriginalLine = u.OriginalLine
		m.OriginalColumn = u.OriginalColumn
		m.Source = t.source(u.Source)
		if u.Name != mappings.None {
			m.Name = t.name(u.Name)
		}
		return m
	})
	return nil
}

// ExtendsBuffer is Extends for a map serialized with ToBuffer.
func (sm *SourceMap) ExtendsBuffer(buf []byte) error {
	previous, err := FromBuffer(buf)
	if err != nil {
		return err
	}
	return sm.Extends(previous)
}
