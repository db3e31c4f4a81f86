package png

import "errors"

// Failure kinds reported by the codec. Callers match them with errors.Is;
// the returned errors wrap one of these with positional context.
var (
	// ErrFormat reports a malformed chunk type string or a missing or
	// mismatched container signature.
	ErrFormat = errors.New("invalid format")

	// ErrTruncated reports that the input ended before a declared field
	// was filled.
	ErrTruncated = errors.New("truncated input")

	// ErrChecksum reports a stored CRC that disagrees with the one
	// recomputed over the chunk type and data.
	ErrChecksum = errors.New("CRC not valid")

	// ErrEncoding reports a payload that is not valid UTF-8 text.
	ErrEncoding = errors.New("data is not valid UTF-8")

	// ErrNotFound reports that no chunk matches the requested type.
	ErrNotFound = errors.New("chunk not found")
)
