package psd

import (
	"errors"
	"fmt"
)

// Decode error kinds. Every error returned by the parser wraps one of
// these sentinels, so callers can classify failures with errors.Is while
// the wrapped message carries the byte offset and expected/found context.
var (
	// ErrUnexpectedEOF is returned when the byte source runs out before a
	// requested read completes. Always fatal for the whole document.
	ErrUnexpectedEOF = errors.New("unexpected end of stream")

	// ErrInvalidSignature is returned when a fixed 4-byte marker is missing
	// in a position where the format guarantees it (file header, layer
	// blend-mode signature). Marker mismatch at the head of the image
	// resource list is NOT an error: it is the designed end-of-list
	// condition and never produces this sentinel.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrInvalidEnum is returned for a numeric code outside its closed set
	// (color mode, compression tag).
	ErrInvalidEnum = errors.New("invalid enum value")

	// ErrInvalidInvariant is returned for a value outside its documented
	// domain (nonzero filler byte, mask default color not 0/255). Lenient
	// decoders downgrade it to a tracer warning.
	ErrInvalidInvariant = errors.New("invariant violation")

	// ErrLengthMismatch is returned when a declared sub-structure length
	// does not match the bytes actually consumed. Inside a layer record's
	// extra-data span it is recovered by the authoritative reseek; anywhere
	// else it is fatal.
	ErrLengthMismatch = errors.New("declared length mismatch")
)

func errEOF(offset int64, want int) error {
	return fmt.Errorf("%w: need %d bytes at offset %d", ErrUnexpectedEOF, want, offset)
}

func errSignature(offset int64, want, got string) error {
	return fmt.Errorf("%w: expected %q at offset %d, found %q", ErrInvalidSignature, want, offset, got)
}

func errEnum(offset int64, what string, code uint16) error {
	return fmt.Errorf("%w: unknown %s code %d at offset %d", ErrInvalidEnum, what, code, offset)
}

func errInvariant(offset int64, what string, got uint8) error {
	return fmt.Errorf("%w: %s = %d at offset %d", ErrInvalidInvariant, what, got, offset)
}

func errLength(offset int64, what string, declared, consumed int64) error {
	return fmt.Errorf("%w: %s declares %d bytes, consumed %d (offset %d)",
		ErrLengthMismatch, what, declared, consumed, offset)
}
