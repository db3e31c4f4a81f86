package payload

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// DigestSize is the number of digest bytes Digest renders.
const DigestSize = 8

// Digest returns a short hex BLAKE3 fingerprint of data, used to tell
// payloads apart in listings without printing them.
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:DigestSize])
}
