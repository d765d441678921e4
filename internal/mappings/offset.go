package mappings

import (
	"fmt"
	"sort"
)

// OffsetLines adds delta to the generated line of every mapping at or after
// fromLine.
//
// Nothing is modified if fromLine is negative or if any affected mapping would
// end up on a negative line.
func (t *Table) OffsetLines(fromLine, delta int) error {
	if fromLine < 0 {
		return fmt.Errorf("%w: line %d is negative", ErrInvalidOffset, fromLine)
	}
	start, _ := t.lineBounds(fromLine)
	if start == len(t.mappings) || delta == 0 {
		return nil
	}
	// The table is sorted, so the first affected mapping has the lowest line.
	if first := t.mappings[start].GeneratedLine; first+delta < 0 {
		return fmt.Errorf("%w: line %d shifted by %d becomes negative", ErrInvalidOffset, first, delta)
	}

	for i := start; i < len(t.mappings); i++ {
		t.mappings[i].GeneratedLine += delta
	}
	if delta < 0 && start > 0 {
		// Shifted mappings may now precede unaffected ones.
		sort.SliceStable(t.mappings, func(i, j int) bool { return Less(t.mappings[i], t.mappings[j]) })
	}
	return nil
}

// OffsetColumns adds delta to the generated column of every mapping on the
// given line at or after fromColumn.
//
// Nothing is modified if line or fromColumn is negative or if any affected
// mapping would end up on a negative column.
func (t *Table) OffsetColumns(line, fromColumn, delta int) error {
	if line < 0 || fromColumn < 0 {
		return fmt.Errorf("%w: position %d:%d is negative", ErrInvalidOffset, line, fromColumn)
	}
	lineStart, lineEnd := t.lineBounds(line)
	start := sort.Search(lineEnd-lineStart, func(i int) bool {
		return t.mappings[lineStart+i].GeneratedColumn >= fromColumn
	}) + lineStart
	if start == lineEnd || delta == 0 {
		return nil
	}
	if first := t.mappings[start].GeneratedColumn; first+delta < 0 {
		return fmt.Errorf("%w: column %d shifted by %d becomes negative", ErrInvalidOffset, first, delta)
	}

	for i := start; i < lineEnd; i++ {
		t.mappings[i].GeneratedColumn += delta
	}
	if delta < 0 && start > lineStart {
		l := t.mappings[lineStart:lineEnd]
		sort.SliceStable(l, func(i, j int) bool { return l[i].GeneratedColumn < l[j].GeneratedColumn })
	}
	return nil
}
