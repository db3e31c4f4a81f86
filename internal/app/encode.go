package app

import (
	"fmt"

	"github.com/1ureka/pngme/internal/payload"
	"github.com/1ureka/pngme/internal/png"
	"github.com/1ureka/pngme/internal/util"
)

// EncodeRequest describes a message to hide in a file.
type EncodeRequest struct {
	Path      string
	ChunkType string
	Message   string

	// Output, when set, receives the result instead of Path. It must not
	// exist unless Force is set.
	Output string
	Force  bool

	Payload payload.Options
}

// Encode appends a chunk carrying req.Message and writes the container
// back. It returns the path written.
func Encode(req EncodeRequest) (string, error) {
	chunkType, err := png.ParseChunkType(req.ChunkType)
	if err != nil {
		return "", err
	}
	if !chunkType.IsValid() {
		util.LogWarning("chunk type %s has the reserved bit set; decoders may reject the file", chunkType)
	}
	if chunkType.IsCritical() {
		util.LogWarning("chunk type %s is critical; image viewers will refuse a chunk they do not know", chunkType)
	}

	p, err := load(req.Path)
	if err != nil {
		return "", err
	}

	data, err := payload.Seal([]byte(req.Message), req.Payload)
	if err != nil {
		return "", fmt.Errorf("sealing message: %w", err)
	}
	if uint64(len(data)) > png.MaxDataLength {
		return "", fmt.Errorf("message of %d bytes does not fit in a chunk: %w", len(data), png.ErrFormat)
	}

	chunk := png.NewChunk(chunkType, data)
	p.AppendChunk(chunk)
	util.LogDebug("appended chunk %s: %d bytes, CRC %08x", chunkType, chunk.Length(), chunk.CRC())

	if req.Output == "" {
		return req.Path, store(req.Path, p)
	}
	return req.Output, storeNew(req.Output, p, req.Force)
}
