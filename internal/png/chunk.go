package png

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"unicode/utf8"
)

// Sizes of the fixed fields around a chunk payload.
const (
	LengthSize = 4
	CRCSize    = 4

	// ChunkOverhead is the number of envelope bytes per chunk record:
	// Length(4) + Type(4) + CRC(4).
	ChunkOverhead = LengthSize + ChunkTypeSize + CRCSize
)

// MaxDataLength is the largest payload a chunk record can declare.
const MaxDataLength = 1<<32 - 1

// Chunk is a typed payload. Its length and CRC are derived from the type
// and data whenever they are asked for.
type Chunk struct {
	typ  ChunkType
	data []byte
}

// NewChunk returns a chunk owning a copy of data. Payloads longer than
// MaxDataLength cannot be represented on the wire; callers accepting
// arbitrary input must check the size first.
func NewChunk(t ChunkType, data []byte) Chunk {
	owned := make([]byte, len(data))
	copy(owned, data)
	return Chunk{typ: t, data: owned}
}

// Length returns the payload byte count.
func (c Chunk) Length() uint32 {
	return uint32(len(c.data))
}

// Type returns the chunk type.
func (c Chunk) Type() ChunkType {
	return c.typ
}

// Data returns the payload. The slice must not be modified.
func (c Chunk) Data() []byte {
	return c.data
}

// CRC returns the CRC-32 (ISO-HDLC, the PNG polynomial) of the type bytes
// followed by the payload.
func (c Chunk) CRC() uint32 {
	return checksum(c.typ, c.data)
}

// DataString returns the payload as text.
func (c Chunk) DataString() (string, error) {
	if !utf8.Valid(c.data) {
		return "", fmt.Errorf("chunk %s: %w", c.typ, ErrEncoding)
	}
	return string(c.data), nil
}

// Bytes serializes the chunk record:
// Length(4, BE) | Type(4) | Data(Length) | CRC(4, BE).
func (c Chunk) Bytes() []byte {
	buf := make([]byte, ChunkOverhead+len(c.data))
	binary.BigEndian.PutUint32(buf[0:4], c.Length())
	copy(buf[4:8], c.typ[:])
	copy(buf[8:], c.data)
	binary.BigEndian.PutUint32(buf[8+len(c.data):], c.CRC())
	return buf
}

// Describe renders "{length}, {type}, {data}, {crc}". It fails when the
// payload is not text.
func (c Chunk) Describe() (string, error) {
	text, err := c.DataString()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d, %s, %s, %d", c.Length(), c.typ, text, c.CRC()), nil
}

// String implements fmt.Stringer. Binary payloads are shown by size only.
func (c Chunk) String() string {
	if s, err := c.Describe(); err == nil {
		return s
	}
	return fmt.Sprintf("%d, %s, <%d bytes>, %d", c.Length(), c.typ, len(c.data), c.CRC())
}

// ParseChunk decodes the chunk record at the start of data. Bytes after
// the record's CRC field are ignored.
func ParseChunk(data []byte) (Chunk, error) {
	return readChunk(newReader(data))
}

// readChunk decodes one record and advances r past it.
func readChunk(r *reader) (Chunk, error) {
	length, err := r.uint32("chunk length")
	if err != nil {
		return Chunk{}, err
	}
	tag, err := r.next(ChunkTypeSize, "chunk type")
	if err != nil {
		return Chunk{}, err
	}
	var t ChunkType
	copy(t[:], tag)

	if uint64(length) > uint64(r.remaining()) {
		return Chunk{}, fmt.Errorf("chunk %s data at offset %d: declared %d bytes, have %d: %w",
			t, r.off, length, r.remaining(), ErrTruncated)
	}
	data, err := r.next(int(length), "chunk data")
	if err != nil {
		return Chunk{}, err
	}
	stored, err := r.uint32("chunk CRC")
	if err != nil {
		return Chunk{}, err
	}

	if computed := checksum(t, data); computed != stored {
		return Chunk{}, fmt.Errorf("chunk %s: stored %d, computed %d: %w", t, stored, computed, ErrChecksum)
	}

	return NewChunk(ChunkTypeFromBytes(t), data), nil
}

func checksum(t ChunkType, data []byte) uint32 {
	crc := crc32.Update(0, crc32.IEEETable, t[:])
	return crc32.Update(crc, crc32.IEEETable, data)
}
