package png

import (
	"encoding/binary"
	"fmt"
)

// reader is a cursor over an immutable buffer. Every read either returns
// exactly the requested number of bytes or fails with ErrTruncated, leaving
// the cursor where it was.
type reader struct {
	buf []byte
	off int
}

func newReader(buf []byte) *reader {
	return &reader{buf: buf}
}

// remaining returns the number of unread bytes.
func (r *reader) remaining() int {
	return len(r.buf) - r.off
}

// next returns the next n bytes. The result aliases the underlying buffer.
func (r *reader) next(n int, field string) ([]byte, error) {
	if n < 0 || r.remaining() < n {
		return nil, fmt.Errorf("%s at offset %d: need %d bytes, have %d: %w",
			field, r.off, n, r.remaining(), ErrTruncated)
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

// uint32 reads a big-endian 32-bit field.
func (r *reader) uint32(field string) (uint32, error) {
	b, err := r.next(4, field)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}
