// Package png implements the PNG chunk container: chunk types with their
// case-encoded property bits, CRC-checked chunk records, and the ordered
// chunk sequence behind the 8-byte signature.
//
// Only the chunk envelope is interpreted. Chunk payloads, including the
// image data itself, are opaque bytes.
package png

import "fmt"

// ChunkTypeSize is the width of the type field of a chunk record.
const ChunkTypeSize = 4

// ChunkType is a 4-byte chunk tag. Each byte carries one property bit in
// the case of its letter (bit 5):
//
//	byte 0: ancillary bit    uppercase = critical
//	byte 1: private bit      uppercase = public
//	byte 2: reserved bit     uppercase = valid
//	byte 3: safe-to-copy bit lowercase = safe to copy
//
// The properties are derived from the bytes on every call.
type ChunkType [ChunkTypeSize]byte

// ChunkTypeFromBytes stores b verbatim. No validity check is made; use
// IsValid to inspect the result.
func ChunkTypeFromBytes(b [ChunkTypeSize]byte) ChunkType {
	return ChunkType(b)
}

// ParseChunkType builds a ChunkType from a four-letter ASCII string.
func ParseChunkType(s string) (ChunkType, error) {
	var t ChunkType
	if len(s) != ChunkTypeSize {
		return t, fmt.Errorf("chunk type %q: length %d, want %d: %w", s, len(s), ChunkTypeSize, ErrFormat)
	}
	for i := 0; i < ChunkTypeSize; i++ {
		if !isLetter(s[i]) {
			return t, fmt.Errorf("chunk type %q: byte %d is not an ASCII letter: %w", s, i, ErrFormat)
		}
		t[i] = s[i]
	}
	return t, nil
}

// Bytes returns the stored tag.
func (t ChunkType) Bytes() [ChunkTypeSize]byte {
	return t
}

// IsValid reports whether the reserved bit is valid and all four bytes are
// ASCII letters.
func (t ChunkType) IsValid() bool {
	if !t.IsReservedBitValid() {
		return false
	}
	for _, b := range t {
		if !isLetter(b) {
			return false
		}
	}
	return true
}

// IsCritical reports whether decoders must understand the chunk.
func (t ChunkType) IsCritical() bool { return isUpper(t[0]) }

// IsPublic reports whether the type is part of the public registry.
func (t ChunkType) IsPublic() bool { return isUpper(t[1]) }

// IsReservedBitValid reports whether the reserved bit is clear.
func (t ChunkType) IsReservedBitValid() bool { return isUpper(t[2]) }

// IsSafeToCopy reports whether editors may copy the chunk unchanged into a
// modified file.
func (t ChunkType) IsSafeToCopy() bool { return isLower(t[3]) }

// String renders the four bytes as raw characters.
func (t ChunkType) String() string {
	return string(t[:])
}

func isUpper(b byte) bool  { return b >= 'A' && b <= 'Z' }
func isLower(b byte) bool  { return b >= 'a' && b <= 'z' }
func isLetter(b byte) bool { return isUpper(b) || isLower(b) }
