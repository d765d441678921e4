// Package vlq encodes and decodes the "mappings" field of a Source Map
// Revision 3 document.
//
// The mappings string consists of generated lines separated by ';', each
// holding zero or more segments separated by ','. A segment is a sequence of
// 1, 4 or 5 base64 VLQ signed integers:
//
//	[generatedColumn]
//	[generatedColumn, source, originalLine, originalColumn]
//	[generatedColumn, source, originalLine, originalColumn, name]
//
// Every field is a delta against the previous value of the same field. The
// generated column restarts from 0 on each new line, all other fields carry
// over for the whole string.
package vlq

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gopherjs/sourcemap/internal/mappings"
)

// ErrMalformed is returned when the mappings string can't be decoded.
var ErrMalformed = errors.New("malformed VLQ mappings")

const base64encode = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

var base64decode [256]byte

func init() {
	for i := 0; i < len(base64decode); i++ {
		base64decode[i] = 0xff
	}
	for i := 0; i < len(base64encode); i++ {
		base64decode[base64encode[i]] = byte(i)
	}
}

const (
	vlqBaseShift       = 5
	vlqContinuationBit = 1 << vlqBaseShift
	vlqValueMask       = vlqContinuationBit - 1
	// Values wider than 32 bits are not produced by any real-world encoder, we
	// treat them as corrupted input.
	vlqMaxShift = 30
)

// AppendValue appends a single base64 VLQ encoded value to buf.
func AppendValue(buf []byte, v int) []byte {
	u := uint64(v) << 1
	if v < 0 {
		u = uint64(-v)<<1 | 1
	}
	for u >= vlqContinuationBit {
		buf = append(buf, base64encode[vlqContinuationBit|(u&vlqValueMask)])
		u >>= vlqBaseShift
	}
	return append(buf, base64encode[u])
}

// ReadValue reads a single base64 VLQ encoded value from s starting at offset
// and returns the value and the offset past its last character.
func ReadValue(s string, offset int) (v int, next int, err error) {
	var u uint64
	shift := uint(0)
	for i := offset; ; i++ {
		if i >= len(s) {
			return 0, i, fmt.Errorf("%w: unterminated value at offset %d", ErrMalformed, offset)
		}
		digit := base64decode[s[i]]
		if digit == 0xff {
			return 0, i, fmt.Errorf("%w: invalid character %q at offset %d", ErrMalformed, s[i], i)
		}
		if shift > vlqMaxShift {
			return 0, i, fmt.Errorf("%w: value at offset %d overflows", ErrMalformed, offset)
		}
		u |= uint64(digit&vlqValueMask) << shift
		if digit&vlqContinuationBit == 0 {
			next = i + 1
			break
		}
		shift += vlqBaseShift
	}
	v = int(u >> 1)
	if u&1 != 0 {
		v = -v
	}
	return v, next, nil
}

// Decode parses the mappings string into a list of mappings with absolute
// positions, in the order they appear in the string. Source and name fields
// hold indices into the sources and names arrays of the enclosing document;
// it's up to the caller to validate them.
//
// No partial result is returned on error.
func Decode(s string) ([]mappings.Mapping, error) {
	var (
		result          = make([]mappings.Mapping, 0, strings.Count(s, ",")+strings.Count(s, ";")+1)
		generatedLine   = 0
		generatedColumn = 0
		source          = 0
		originalLine    = 0
		originalColumn  = 0
		name            = 0
		fields          [5]int
	)

	for i := 0; i < len(s); {
		switch s[i] {
		case ';':
			generatedLine++
			generatedColumn = 0
			i++
			continue
		case ',':
			i++
			continue
		}

		start := i
		count := 0
		for i < len(s) && s[i] != ',' && s[i] != ';' {
			if count == len(fields) {
				return nil, fmt.Errorf("%w: segment at offset %d has more than %d fields", ErrMalformed, start, len(fields))
			}
			v, next, err := ReadValue(s, i)
			if err != nil {
				return nil, err
			}
			fields[count] = v
			count++
			i = next
		}

		generatedColumn += fields[0]
		if generatedColumn < 0 {
			return nil, fmt.Errorf("%w: negative generated column at offset %d", ErrMalformed, start)
		}
		m := mappings.Null(generatedLine, generatedColumn)

		switch count {
		case 1:
		case 4, 5:
			source += fields[1]
			originalLine += fields[2]
			originalColumn += fields[3]
			if source < 0 || originalLine < 0 || originalColumn < 0 {
				return nil, fmt.Errorf("%w: negative original position at offset %d", ErrMalformed, start)
			}
			m.Source = source
			m.OriginalLine = originalLine
			m.OriginalColumn = originalColumn
			if count == 5 {
				name += fields[4]
				if name < 0 {
					return nil, fmt.Errorf("%w: negative name index at offset %d", ErrMalformed, start)
				}
				m.Name = name
			}
		default:
			return nil, fmt.Errorf("%w: segment at offset %d has %d fields, want 1, 4 or 5", ErrMalformed, start, count)
		}
		result = append(result, m)
	}
	return result, nil
}

// Encode produces the canonical mappings string for the given list, which
// must be sorted by generated position.
//
// Lines without mappings are represented by consecutive ';' separators.
func Encode(ms []mappings.Mapping) string {
	var (
		buf             = make([]byte, 0, len(ms)*6)
		generatedLine   = 0
		generatedColumn = 0
		source          = 0
		originalLine    = 0
		originalColumn  = 0
		name            = 0
		comma           = false
	)

	for _, m := range ms {
		for m.GeneratedLine > generatedLine {
			buf = append(buf, ';')
			generatedLine++
			generatedColumn = 0
			comma = false
		}
		if comma {
			buf = append(buf, ',')
		}
		comma = true

		buf = AppendValue(buf, m.GeneratedColumn-generatedColumn)
		generatedColumn = m.GeneratedColumn

		if !m.HasOriginal() {
			continue
		}
		buf = AppendValue(buf, m.Source-source)
		source = m.Source
		buf = AppendValue(buf, m.OriginalLine-originalLine)
		originalLine = m.OriginalLine
		buf = AppendValue(buf, m.OriginalColumn-originalColumn)
		originalColumn = m.OriginalColumn

		if m.Name != mappings.None {
			buf = AppendValue(buf, m.Name-name)
			name = m.Name
		}
	}
	return string(buf)
}
