package png

import (
	"bytes"
	"fmt"
	"os"
	"slices"
)

// SignatureSize is the width of the leading container magic.
const SignatureSize = 8

// Signature is the fixed prefix of every PNG stream.
var Signature = [SignatureSize]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}

// Png is an ordered sequence of chunks behind the signature. Chunk order
// is preserved by every operation. A Png is not safe for concurrent
// mutation.
type Png struct {
	chunks []Chunk
}

// New returns a container holding chunks in the given order.
func New(chunks ...Chunk) *Png {
	return &Png{chunks: slices.Clone(chunks)}
}

// Parse decodes a full stream: the signature, then chunk records until the
// input is exhausted. The first malformed record fails the whole parse.
func Parse(data []byte) (*Png, error) {
	if len(data) < SignatureSize {
		return nil, fmt.Errorf("signature: need %d bytes, have %d: %w", SignatureSize, len(data), ErrFormat)
	}
	if !bytes.Equal(data[:SignatureSize], Signature[:]) {
		return nil, fmt.Errorf("signature % x does not match PNG magic: %w", data[:SignatureSize], ErrFormat)
	}

	r := newReader(data)
	r.off = SignatureSize

	p := &Png{}
	for r.remaining() > 0 {
		start := r.off
		chunk, err := readChunk(r)
		if err != nil {
			return nil, fmt.Errorf("chunk %d at offset %d: %w", len(p.chunks), start, err)
		}
		p.chunks = append(p.chunks, chunk)
	}
	return p, nil
}

// FromPath reads the file at path and parses it. I/O errors are returned
// unchanged.
func FromPath(path string) (*Png, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// AppendChunk adds c after the last chunk. Duplicate types are allowed.
func (p *Png) AppendChunk(c Chunk) {
	p.chunks = append(p.chunks, c)
}

// ChunkByType returns the first chunk whose type string equals chunkType
// exactly.
func (p *Png) ChunkByType(chunkType string) (Chunk, bool) {
	i := p.index(chunkType)
	if i < 0 {
		return Chunk{}, false
	}
	return p.chunks[i], true
}

// RemoveChunk removes and returns the first chunk matching chunkType. The
// container is left unchanged when nothing matches.
func (p *Png) RemoveChunk(chunkType string) (Chunk, error) {
	i := p.index(chunkType)
	if i < 0 {
		return Chunk{}, fmt.Errorf("%s: %w", chunkType, ErrNotFound)
	}
	c := p.chunks[i]
	p.chunks = slices.Delete(p.chunks, i, i+1)
	return c, nil
}

// Chunks returns the chunk sequence. The returned slice is a copy; the
// chunks' payloads must not be modified.
func (p *Png) Chunks() []Chunk {
	return slices.Clone(p.chunks)
}

// Bytes serializes the signature followed by every chunk record in order.
func (p *Png) Bytes() []byte {
	size := SignatureSize
	for _, c := range p.chunks {
		size += ChunkOverhead + len(c.data)
	}
	buf := make([]byte, 0, size)
	buf = append(buf, Signature[:]...)
	for _, c := range p.chunks {
		buf = append(buf, c.Bytes()...)
	}
	return buf
}

func (p *Png) index(chunkType string) int {
	return slices.IndexFunc(p.chunks, func(c Chunk) bool {
		return c.typ.String() == chunkType
	})
}
