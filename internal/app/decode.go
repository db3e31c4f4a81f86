package app

import (
	"fmt"
	"unicode/utf8"

	"github.com/1ureka/pngme/internal/payload"
	"github.com/1ureka/pngme/internal/png"
)

// Decode returns the message stored in the first chunk of the given type.
// found is false when the file has no such chunk.
func Decode(path, chunkType, passphrase string) (message string, found bool, err error) {
	p, err := load(path)
	if err != nil {
		return "", false, err
	}

	chunk, ok := p.ChunkByType(chunkType)
	if !ok {
		return "", false, nil
	}
	message, err = Message(chunk, passphrase)
	if err != nil {
		return "", true, err
	}
	return message, true, nil
}

// Remove deletes the first chunk of the given type, writes the file back
// and returns the removed chunk. The file is not rewritten when no chunk
// matches.
func Remove(path, chunkType string) (png.Chunk, error) {
	p, err := load(path)
	if err != nil {
		return png.Chunk{}, err
	}

	removed, err := p.RemoveChunk(chunkType)
	if err != nil {
		return png.Chunk{}, err
	}
	if err := store(path, p); err != nil {
		return png.Chunk{}, err
	}
	return removed, nil
}

// Message returns a chunk's payload as text. Sealed payloads are opened
// with passphrase first.
func Message(chunk png.Chunk, passphrase string) (string, error) {
	data, err := payload.Open(chunk.Data(), passphrase)
	if err != nil {
		return "", fmt.Errorf("chunk %s: %w", chunk.Type(), err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("chunk %s: %w", chunk.Type(), png.ErrEncoding)
	}
	return string(data), nil
}
