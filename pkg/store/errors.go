package store

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by the engine. Callers should compare
// against these with errors.Is rather than string-matching.
var (
	// ErrIO wraps a failed underlying file-system operation (open,
	// seek, write, flush, remove, directory scan) encountered while
	// opening, appending to, or compacting a generation log. A failed
	// or short read of a record is reported as ErrCorruptData instead.
	ErrIO = errors.New("barrow: I/O error")

	// ErrKeyNotFound is returned by Remove for an absent key. Get
	// never returns it directly; it reports absence by returning
	// found=false instead (see (*Store).Get).
	ErrKeyNotFound = errors.New("barrow: key not found")

	// ErrCorruptData wraps any checksum mismatch, malformed record
	// body, or other decoding failure encountered outside of the
	// normal end-of-log signal. It is returned both from Open (during
	// replay) and from Get (reading a single record).
	ErrCorruptData = errors.New("barrow: corrupt data")

	// ErrUnexpectedCommandType is returned when an index entry points
	// at a record that decodes cleanly and passes its checksum but is
	// a Remove where a Set was required by the index invariant.
	ErrUnexpectedCommandType = errors.New("barrow: record at indexed position is not a Set")

	// ErrStoreClosed is returned by any operation on a Store after
	// Close has been called.
	ErrStoreClosed = errors.New("barrow: store is closed")

	// ErrInvalidKey is returned by Set for the empty key.
	ErrInvalidKey = errors.New("barrow: key must not be empty")
)

// wrapCorrupt folds a low-level decode error into ErrCorruptData while
// keeping the original cause visible through errors.Unwrap / %w chains.
func wrapCorrupt(cause error) error {
	return fmt.Errorf("%w: %v", ErrCorruptData, cause)
}

// wrapIO folds a failed file-system call into ErrIO while keeping the
// original cause visible through errors.Unwrap / %w chains.
func wrapIO(cause error) error {
	return fmt.Errorf("%w: %v", ErrIO, cause)
}
