// Package sourcemapx lets code that concatenates or generates JavaScript pass
// source map information inline, in the same stream as the code itself.
//
// Hints are marked by the `\b` (0x08) magic byte, followed by a 16-bit payload
// size and the payload. '\b' never occurs unescaped in JavaScript text, so the
// marker can't be confused with the code. See the Hint type for the details of
// the encoded format.
//
// Two payload types are supported:
//
//   - Origin marks the original position the following generated code
//     corresponds to.
//   - Chunk marks the start of a piece of code that already has its own source
//     map, which must be merged in at the current generated position.
//
// Filter extracts the hints from the written stream, reports them to its
// callbacks together with the generated position they were found at, and
// makes sure they don't make it into the final output.
package sourcemapx
