package sourcemap

import (
	"errors"

	"github.com/gopherjs/sourcemap/internal/mappings"
	"github.com/gopherjs/sourcemap/internal/strtable"
	"github.com/gopherjs/sourcemap/internal/vlq"
)

var (
	// ErrMalformedVLQ is returned when a mappings string can't be decoded.
	ErrMalformedVLQ = vlq.ErrMalformed
	// ErrIndexOutOfRange is returned when a source or name index doesn't refer
	// to an entry in the corresponding table.
	ErrIndexOutOfRange = strtable.ErrIndexOutOfRange
	// ErrInvalidOffset is returned when a line or column offset would produce
	// a negative generated position.
	ErrInvalidOffset = mappings.ErrInvalidOffset
	// ErrIncompatibleInstance is returned when a buffer or a source map passed
	// to a merge operation wasn't produced by this version of the library.
	ErrIncompatibleInstance = errors.New("incompatible source map instance")
	// ErrInvalidPosition is returned for indexed mappings with negative
	// positions.
	ErrInvalidPosition = errors.New("invalid position")
)
