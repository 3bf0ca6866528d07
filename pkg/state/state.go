// Package state defines the on-ledger record kinds and their fixed,
// tag-discriminated wire format. Every record stores its kind as the
// first byte; decoding checks the tag before any other field is
// interpreted.
package state

import "errors"

// Tag discriminates record kinds on raw storage. The numbering is part
// of the wire format and must not be reordered.
type Tag uint8

const (
	TagUninitialized Tag = iota
	TagProfile
	TagThread
	TagMessage
	tagReserved // retired kind, slot kept so later tags keep their values
	TagGroupThread
	TagGroupThreadIndex
	TagSubscription
)

// Bounds for variable-length fields, enforced before serialization.
const (
	MaxNameLen      = 100
	MaxBioLen       = 100
	MaxGroupNameLen = 100
	MaxAdmins       = 10
	MaxHashLen      = 64
	MaxMsgLen       = 1024
)

var (
	// ErrDataTypeMismatch is returned when a record's stored tag does not
	// match the kind the caller asked to decode.
	ErrDataTypeMismatch = errors.New("data type mismatch")
	// ErrLengthExceeded is returned when a bounded field is over its maximum.
	ErrLengthExceeded = errors.New("length exceeded")
	// ErrShortBuffer is returned when stored bytes end before a record's
	// fields do.
	ErrShortBuffer = errors.New("record truncated")
)

// PeekTag returns the kind discriminator of raw record bytes without
// decoding the rest. Empty storage reads as TagUninitialized.
func PeekTag(data []byte) Tag {
	if len(data) == 0 {
		return TagUninitialized
	}
	return Tag(data[0])
}

// checkTag accepts the expected kind or the uninitialized sentinel and
// rejects everything else.
func checkTag(data []byte, want Tag) error {
	got := PeekTag(data)
	if got != want && got != TagUninitialized {
		return ErrDataTypeMismatch
	}
	return nil
}
