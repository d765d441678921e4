// Package strtable implements the append-only string tables used for the
// "sources" and "names" arrays of a source map.
package strtable

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange is returned when a lookup refers to an index the table
// doesn't have.
var ErrIndexOutOfRange = errors.New("index out of range")

// Table maps strings to stable integer indices in first-insertion order.
//
// Zero value is an empty table ready to use.
type Table struct {
	index  map[string]int
	values []string
}

// Intern returns the index of s, appending it to the table if it hasn't been
// seen before. Indices are assigned monotonically starting from 0.
func (t *Table) Intern(s string) int {
	if i, ok := t.index[s]; ok {
		return i
	}
	if t.index == nil {
		t.index = map[string]int{}
	}
	i := len(t.values)
	t.index[s] = i
	t.values = append(t.values, s)
	return i
}

// Index returns the index of s if the table contains it.
func (t *Table) Index(s string) (int, bool) {
	i, ok := t.index[s]
	return i, ok
}

// Get returns the string stored at index i.
func (t *Table) Get(i int) (string, error) {
	if i < 0 || i >= len(t.values) {
		return "", fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, len(t.values))
	}
	return t.values[i], nil
}

// Len returns the number of strings in the table.
func (t *Table) Len() int { return len(t.values) }

// All returns a copy of the table contents in insertion order.
func (t *Table) All() []string {
	result := make([]string, len(t.values))
	copy(result, t.values)
	return result
}

// Clone returns an independent copy of the table.
func (t *Table) Clone() Table {
	c := Table{}
	for _, s := range t.values {
		c.Intern(s)
	}
	return c
}
