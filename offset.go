package sourcemap

import "fmt"

// OffsetLines moves every mapping on generated line `line` or below by
// `offset` lines. Used when lines are inserted into or removed from the
// generated code.
func (sm *SourceMap) OffsetLines(line, offset int) error {
	if line < 1 || line+offset < 1 {
		return fmt.Errorf("%w: line %d shifted by %d must stay positive", ErrInvalidOffset, line, offset)
	}
	if offset == 0 {
		return nil
	}
	return sm.mappings.OffsetLines(line-1, offset)
}

// OffsetColumns moves every mapping on generated line `line` at or after
// `column` by `offset` columns. Used when text is inserted into or removed
// from a line of the generated code.
func (sm *SourceMap) OffsetColumns(line, column, offset int) error {
	if line < 1 || column < 0 || column+offset < 0 {
		return fmt.Errorf("%w: position %d:%d shifted by %d must stay positive", ErrInvalidOffset, line, column, offset)
	}
	if offset == 0 {
		return nil
	}
	return sm.mappings.OffsetColumns(line-1, column, offset)
}
