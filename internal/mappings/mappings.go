// Package mappings implements the sorted table of source map mapping records.
//
// All positions in this package are 0-based, both lines and columns. The
// table is always sorted by generated position (line first, then column).
// Records with equal generated positions are kept in the order they were
// introduced.
package mappings

import (
	"errors"
	"fmt"
	"sort"
)

// None marks an absent source or name index.
const None = -1

// ErrInvalidOffset is returned when an offset would move a generated position
// below zero, or when the pivot position itself is negative.
var ErrInvalidOffset = errors.New("invalid offset")

// Mapping is a single row of the mapping table.
//
// A mapping with Source == None is a null mapping: it marks a generated
// position without a known original location, and its original position and
// name are meaningless.
type Mapping struct {
	GeneratedLine   int
	GeneratedColumn int
	OriginalLine    int
	OriginalColumn  int
	Source          int
	Name            int
}

// Null returns a mapping for the generated position without original
// information.
func Null(line, column int) Mapping {
	return Mapping{GeneratedLine: line, GeneratedColumn: column, Source: None, Name: None}
}

// HasOriginal reports whether the mapping points to an original position.
func (m Mapping) HasOriginal() bool { return m.Source != None }

// HasName reports whether the mapping carries an original name.
func (m Mapping) HasName() bool { return m.HasOriginal() && m.Name != None }

// Demote drops original position, source and name, leaving only the generated
// position.
func (m Mapping) Demote() Mapping {
	return Null(m.GeneratedLine, m.GeneratedColumn)
}

func (m Mapping) String() string {
	if !m.HasOriginal() {
		return fmt.Sprintf("%d:%d", m.GeneratedLine, m.GeneratedColumn)
	}
	if m.Name == None {
		return fmt.Sprintf("%d:%d -> #%d %d:%d", m.GeneratedLine, m.GeneratedColumn, m.Source, m.OriginalLine, m.OriginalColumn)
	}
	return fmt.Sprintf("%d:%d -> #%d %d:%d name #%d", m.GeneratedLine, m.GeneratedColumn, m.Source, m.OriginalLine, m.OriginalColumn, m.Name)
}

// Less orders mappings by generated position.
func Less(a, b Mapping) bool {
	return a.GeneratedLine < b.GeneratedLine || (a.GeneratedLine == b.GeneratedLine && a.GeneratedColumn < b.GeneratedColumn)
}

// after reports whether m's generated position is strictly after line:column.
func (m Mapping) after(line, column int) bool {
	return m.GeneratedLine > line || (m.GeneratedLine == line && m.GeneratedColumn > column)
}

// Table is an ordered container of mappings.
//
// Zero value is an empty table ready to use. Table is not safe for
// concurrent mutation.
type Table struct {
	mappings []Mapping
}

// Len returns the number of mappings in the table.
func (t *Table) Len() int { return len(t.mappings) }

// All returns a copy of all mappings in generated order.
func (t *Table) All() []Mapping {
	result := make([]Mapping, len(t.mappings))
	copy(result, t.mappings)
	return result
}

// Clone returns an independent copy of the table.
func (t *Table) Clone() Table {
	return Table{mappings: t.All()}
}

// Reset replaces the table contents. The caller must pass mappings sorted by
// generated position; the slice is retained by the table.
func (t *Table) Reset(sorted []Mapping) {
	t.mappings = sorted
}

// Append inserts a single mapping, after any existing mappings with the same
// generated position.
func (t *Table) Append(m Mapping) {
	i := t.upperBound(m.GeneratedLine, m.GeneratedColumn)
	if i == len(t.mappings) {
		t.mappings = append(t.mappings, m)
		return
	}
	t.mappings = append(t.mappings, Mapping{})
	copy(t.mappings[i+1:], t.mappings[i:])
	t.mappings[i] = m
}

// CheckOffsets verifies that shifting every generated position in the batch
// by the given offsets keeps it non-negative.
func CheckOffsets(batch []Mapping, lineOffset, columnOffset int) error {
	for _, m := range batch {
		if m.GeneratedLine+lineOffset < 0 || m.GeneratedColumn+columnOffset < 0 {
			return fmt.Errorf("%w: generated position %d:%d shifted by %d:%d becomes negative",
				ErrInvalidOffset, m.GeneratedLine, m.GeneratedColumn, lineOffset, columnOffset)
		}
	}
	return nil
}

// AppendBatch shifts every mapping in the batch by lineOffset lines and
// columnOffset columns and merges the result into the table. The column
// offset applies to every line of the batch uniformly.
//
// The batch is validated before the table is modified, so on error the table
// is left unchanged. The passed slice is not modified.
func (t *Table) AppendBatch(batch []Mapping, lineOffset, columnOffset int) error {
	if len(batch) == 0 {
		return nil
	}
	if err := CheckOffsets(batch, lineOffset, columnOffset); err != nil {
		return err
	}

	shifted := make([]Mapping, len(batch))
	for i, m := range batch {
		m.GeneratedLine += lineOffset
		m.GeneratedColumn += columnOffset
		shifted[i] = m
	}
	if !sort.SliceIsSorted(shifted, func(i, j int) bool { return Less(shifted[i], shifted[j]) }) {
		sort.SliceStable(shifted, func(i, j int) bool { return Less(shifted[i], shifted[j]) })
	}

	// Fast path: the batch entirely follows the existing mappings, which is the
	// common case when concatenating generated files.
	if n := len(t.mappings); n == 0 || !Less(shifted[0], t.mappings[n-1]) {
		t.mappings = append(t.mappings, shifted...)
		return nil
	}

	merged := make([]Mapping, 0, len(t.mappings)+len(shifted))
	i, j := 0, 0
	for i < len(t.mappings) && j < len(shifted) {
		// Existing mappings go first on ties.
		if Less(shifted[j], t.mappings[i]) {
			merged = append(merged, shifted[j])
			j++
		} else {
			merged = append(merged, t.mappings[i])
			i++
		}
	}
	merged = append(merged, t.mappings[i:]...)
	merged = append(merged, shifted[j:]...)
	t.mappings = merged
	return nil
}

// upperBound returns the index of the first mapping positioned strictly after
// line:column.
func (t *Table) upperBound(line, column int) int {
	return sort.Search(len(t.mappings), func(i int) bool {
		return t.mappings[i].after(line, column)
	})
}

// lineBounds returns the half-open index range of mappings on the given line.
func (t *Table) lineBounds(line int) (start, end int) {
	start = sort.Search(len(t.mappings), func(i int) bool {
		return t.mappings[i].GeneratedLine >= line
	})
	end = sort.Search(len(t.mappings), func(i int) bool {
		return t.mappings[i].GeneratedLine > line
	})
	return start, end
}

// Closest returns the mapping with the greatest generated position that
// doesn't exceed line:column. If several mappings share that position, the
// last one is returned. Returns false if there is no such mapping.
func (t *Table) Closest(line, column int) (Mapping, bool) {
	i := t.upperBound(line, column)
	if i == 0 {
		return Mapping{}, false
	}
	return t.mappings[i-1], true
}

// Line returns a copy of the mappings on a single generated line.
func (t *Table) Line(line int) []Mapping {
	start, end := t.lineBounds(line)
	result := make([]Mapping, end-start)
	copy(result, t.mappings[start:end])
	return result
}

// Rewrite replaces every mapping with fn(mapping), in generated order.
// Generated positions returned by fn are ignored, so the table order is
// preserved.
func (t *Table) Rewrite(fn func(Mapping) Mapping) {
	for i, m := range t.mappings {
		r := fn(m)
		r.GeneratedLine, r.GeneratedColumn = m.GeneratedLine, m.GeneratedColumn
		t.mappings[i] = r
	}
}
