// Package payload prepares hidden messages for storage in a chunk. A
// message is either stored raw, or wrapped in a small envelope recording
// which of the optional stages (zstd compression, age passphrase
// encryption) were applied.
//
// Envelope layout:
//
//	0-2: Magic (0x00 'p' 'm')
//	3:   Stage flags (StageZstd | StageAge)
//	4-:  Body, compressed first, then encrypted
//
// The leading NUL keeps the magic out of the way of text messages, which
// are stored raw and stay readable by any tool that understands the raw
// chunk payload.
package payload

import (
	"bytes"
	"errors"
	"fmt"
)

// HeaderSize is the envelope header width: Magic(3) + Stages(1).
const HeaderSize = 4

var magic = [3]byte{0x00, 'p', 'm'}

// Stage is a bit set of the transformations applied to an envelope body.
type Stage uint8

const (
	// StageZstd marks a zstd-compressed body.
	StageZstd Stage = 1 << iota
	// StageAge marks a body encrypted to an age scrypt (passphrase)
	// recipient.
	StageAge

	knownStages = StageZstd | StageAge
)

// String returns the stage names joined with "+", or "raw".
func (s Stage) String() string {
	switch s {
	case 0:
		return "raw"
	case StageZstd:
		return "zstd"
	case StageAge:
		return "age"
	case StageZstd | StageAge:
		return "zstd+age"
	default:
		return fmt.Sprintf("unknown(%#02x)", uint8(s))
	}
}

var (
	// ErrPassphrase reports an encrypted payload opened without the
	// passphrase it was sealed with.
	ErrPassphrase = errors.New("wrong or missing passphrase")

	// ErrEnvelope reports a malformed envelope header.
	ErrEnvelope = errors.New("malformed payload envelope")
)

// Options selects the stages Seal applies.
type Options struct {
	Compress   bool
	Passphrase string

	// WorkFactor is the scrypt work factor (log2 N) used when Passphrase
	// is set, at most MaxWorkFactor. Zero keeps age's default.
	WorkFactor int
}

// Seal applies the selected stages to message. With no stage selected the
// message is returned unchanged, without an envelope.
func Seal(message []byte, opts Options) ([]byte, error) {
	var stages Stage
	body := message

	if opts.Compress {
		body = compress(body)
		stages |= StageZstd
	}
	if opts.Passphrase != "" {
		encrypted, err := encrypt(body, opts.Passphrase, opts.WorkFactor)
		if err != nil {
			return nil, err
		}
		body = encrypted
		stages |= StageAge
	}

	if stages == 0 {
		return bytes.Clone(message), nil
	}

	out := make([]byte, 0, HeaderSize+len(body))
	out = append(out, magic[:]...)
	out = append(out, byte(stages))
	return append(out, body...), nil
}

// Open reverses Seal. Data without an envelope is returned unchanged.
func Open(data []byte, passphrase string) ([]byte, error) {
	stages, sealed, err := Stages(data)
	if err != nil {
		return nil, err
	}
	if !sealed {
		return bytes.Clone(data), nil
	}

	body := data[HeaderSize:]
	if stages&StageAge != 0 {
		if passphrase == "" {
			return nil, fmt.Errorf("payload is encrypted: %w", ErrPassphrase)
		}
		if body, err = decrypt(body, passphrase); err != nil {
			return nil, err
		}
	}
	if stages&StageZstd != 0 {
		if body, err = decompress(body); err != nil {
			return nil, err
		}
	}
	return body, nil
}

// Stages reports which stages were applied to data. sealed is false for a
// raw message.
func Stages(data []byte) (stages Stage, sealed bool, err error) {
	if len(data) < len(magic) || !bytes.Equal(data[:len(magic)], magic[:]) {
		return 0, false, nil
	}
	if len(data) < HeaderSize {
		return 0, false, fmt.Errorf("header: need %d bytes, have %d: %w", HeaderSize, len(data), ErrEnvelope)
	}
	stages = Stage(data[3])
	if stages == 0 || stages&^knownStages != 0 {
		return 0, false, fmt.Errorf("stage flags %s: %w", stages, ErrEnvelope)
	}
	return stages, true, nil
}
