package sourcemapx

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Filter implements io.Writer which extracts hints from the written stream
// and passes them to the callbacks, if set. Encoded hints are always filtered
// out of the output stream. Every Write call must contain whole hints. Code
// that may contain raw 0x08 bytes must go through WriteVerbatim.
//
// Generated positions reported to the callbacks use 1-based lines and 0-based
// columns, counted in bytes of the filtered output.
type Filter struct {
	Writer          io.Writer
	MappingCallback func(generatedLine, generatedColumn int, origin Origin)
	ChunkCallback   func(generatedLine, generatedColumn int, chunk Chunk)

	line   int
	column int
}

// Position returns the generated position the next written byte will have.
func (f *Filter) Position() (line, column int) {
	return f.line + 1, f.column
}

// Write strips hints from p and passes the rest through to the underlying
// writer. A truncated or undecodable hint is reported as an error.
func (f *Filter) Write(p []byte) (n int, err error) {
	var n2 int
	for {
		i := FindHint(p)
		w := p
		if i != -1 {
			w = p[:i]
		}

		n2, err = f.Writer.Write(w)
		n += n2
		f.advance(w[:n2])

		if err != nil || i == -1 {
			return
		}
		h, length, hintErr := readHint(p[i:])
		if hintErr != nil {
			return n, hintErr
		}
		value, unpackErr := h.Unpack()
		if unpackErr != nil {
			return n, fmt.Errorf("failed to unpack source map hint: %w", unpackErr)
		}
		switch value := value.(type) {
		case Origin:
			if f.MappingCallback != nil {
				f.MappingCallback(f.line+1, f.column, value)
			}
		case Chunk:
			if f.ChunkCallback != nil {
				f.ChunkCallback(f.line+1, f.column, value)
			}
		default:
			return n, fmt.Errorf("unexpected source map hint type: %T", value)
		}
		p = p[i+length:]
		n += length
	}
}

// WriteVerbatim passes p through to the underlying writer without looking
// for hints, so arbitrary code, including raw 0x08 bytes, can be written.
// The generated position is tracked as usual.
func (f *Filter) WriteVerbatim(p []byte) (n int, err error) {
	n, err = f.Writer.Write(p)
	f.advance(p[:n])
	return n, err
}

// advance moves the generated position past the written bytes.
func (f *Filter) advance(w []byte) {
	for {
		i := bytes.IndexByte(w, '\n')
		if i == -1 {
			f.column += len(w)
			return
		}
		f.line++
		f.column = 0
		w = w[i+1:]
	}
}

// readHint is ReadHint that reports a malformed header as an error instead of
// panicking.
func readHint(b []byte) (Hint, int, error) {
	if len(b) < 3 {
		return Hint{}, 0, fmt.Errorf("truncated source map hint header: %d bytes", len(b))
	}
	if size := int(binary.BigEndian.Uint16(b[1:3])); len(b) < size+3 {
		return Hint{}, 0, fmt.Errorf("truncated source map hint: got %d bytes, want %d", len(b), size+3)
	}
	h, length := ReadHint(b)
	return h, length, nil
}
