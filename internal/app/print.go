package app

import (
	"github.com/1ureka/pngme/internal/config"
	"github.com/1ureka/pngme/internal/payload"
	"github.com/1ureka/pngme/internal/png"
)

// Secret is a chunk that looks like a hidden message.
type Secret struct {
	ChunkType string
	Message   string

	// Stages is the envelope of a sealed payload; Message is empty for
	// encrypted payloads.
	Stages payload.Stage
}

// Secrets lists the chunks of the file that carry a message: chunk types
// not ignored by cfg whose payload is either text or a payload envelope.
// Compressed payloads are expanded; encrypted ones are reported without
// their message.
func Secrets(path string, cfg *config.Config) ([]Secret, error) {
	p, err := load(path)
	if err != nil {
		return nil, err
	}

	var secrets []Secret
	for _, chunk := range p.Chunks() {
		name := chunk.Type().String()
		if cfg.Ignored(name) {
			continue
		}

		stages, sealed, err := payload.Stages(chunk.Data())
		if err != nil {
			continue
		}
		secret := Secret{ChunkType: name, Stages: stages}
		if sealed && stages&payload.StageAge != 0 {
			secrets = append(secrets, secret)
			continue
		}
		message, err := Message(chunk, "")
		if err != nil {
			continue
		}
		secret.Message = message
		secrets = append(secrets, secret)
	}
	return secrets, nil
}

// ChunkInfo summarises one chunk of a file.
type ChunkInfo struct {
	Index  int
	Offset int
	Type   png.ChunkType
	Length uint32
	CRC    uint32
	Digest string
}

// Inspect describes every chunk of the file in order.
func Inspect(path string) ([]ChunkInfo, error) {
	p, err := load(path)
	if err != nil {
		return nil, err
	}

	chunks := p.Chunks()
	infos := make([]ChunkInfo, 0, len(chunks))
	offset := png.SignatureSize
	for i, chunk := range chunks {
		infos = append(infos, ChunkInfo{
			Index:  i,
			Offset: offset,
			Type:   chunk.Type(),
			Length: chunk.Length(),
			CRC:    chunk.CRC(),
			Digest: payload.Digest(chunk.Data()),
		})
		offset += png.ChunkOverhead + len(chunk.Data())
	}
	return infos, nil
}

// Flags renders the four property bits of t as a compact column:
// critical/ancillary, public/private, reserved, safe-to-copy.
func Flags(t png.ChunkType) string {
	flags := []byte("apxu")
	if t.IsCritical() {
		flags[0] = 'C'
	}
	if t.IsPublic() {
		flags[1] = 'P'
	}
	if t.IsReservedBitValid() {
		flags[2] = '-'
	}
	if t.IsSafeToCopy() {
		flags[3] = 's'
	}
	return string(flags)
}
