package keys

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// Pubkey is a 32-byte account identity. Its canonical textual form is
// base58, which is also the form used for ordered-pair canonicalization.
type Pubkey [32]byte

// Zero is the all-zero pubkey, used as a null reference (e.g. a message
// that replies to nothing).
var Zero Pubkey

const (
	// MaxSeeds bounds the number of seeds accepted by address derivation.
	MaxSeeds = 16
	// MaxSeedLen bounds the byte length of a single seed. Group names are
	// used verbatim as seeds, so this matches their maximum length.
	MaxSeedLen = 100

	derivedMarker = "ProgramDerivedAddress"
)

func (p Pubkey) String() string { return base58.Encode(p[:]) }

func (p Pubkey) Bytes() []byte { return p[:] }

func (p Pubkey) IsZero() bool { return p == Zero }

// Parse decodes a base58 textual pubkey.
func Parse(s string) (Pubkey, error) {
	var p Pubkey
	b, err := base58.Decode(s)
	if err != nil {
		return p, fmt.Errorf("invalid pubkey %q: %w", s, err)
	}
	if len(b) != len(p) {
		return p, fmt.Errorf("invalid pubkey %q: got %d bytes, want %d", s, len(b), len(p))
	}
	copy(p[:], b)
	return p, nil
}

// MustParse is Parse for compile-time constants; it panics on bad input.
func MustParse(s string) Pubkey {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// FromBytes copies a 32-byte slice into a Pubkey.
func FromBytes(b []byte) (Pubkey, error) {
	var p Pubkey
	if len(b) != len(p) {
		return p, fmt.Errorf("invalid pubkey length %d", len(b))
	}
	copy(p[:], b)
	return p, nil
}

// OrderKeys canonicalizes a pair of identities by comparing their base58
// textual form and placing the lexicographically smaller first. The same
// rule must be applied at creation and at every later lookup, otherwise
// derived addresses silently stop matching.
func OrderKeys(a, b Pubkey) (Pubkey, Pubkey) {
	if a.String() < b.String() {
		return a, b
	}
	return b, a
}

// offCurve reports whether b is not a valid ed25519 curve point, meaning
// no private key can exist for it.
func offCurve(b []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(b)
	return err != nil
}

// CreateProgramAddress reconstructs the derived address for the given
// seeds and deriving program. It fails if the seeds are out of bounds or
// if the resulting address lands on the curve (a signing key could exist
// for it).
func CreateProgramAddress(seeds [][]byte, program Pubkey) (Pubkey, error) {
	if len(seeds) > MaxSeeds {
		return Zero, fmt.Errorf("too many seeds: %d", len(seeds))
	}
	h := sha256.New()
	for _, s := range seeds {
		if len(s) > MaxSeedLen {
			return Zero, fmt.Errorf("seed too long: %d bytes", len(s))
		}
		h.Write(s)
	}
	h.Write(program[:])
	h.Write([]byte(derivedMarker))
	sum := h.Sum(nil)
	if !offCurve(sum) {
		return Zero, fmt.Errorf("invalid seeds: address on curve")
	}
	return FromBytes(sum)
}

// FindProgramAddress derives the unique program-controlled address for the
// seed tuple together with its disambiguation bump. The bump search starts
// at 255 and walks down; the first off-curve hit wins, which makes the
// result a pure function of (seeds, program).
func FindProgramAddress(seeds [][]byte, program Pubkey) (Pubkey, uint8, error) {
	for bump := 255; bump >= 0; bump-- {
		full := make([][]byte, 0, len(seeds)+1)
		full = append(full, seeds...)
		full = append(full, []byte{uint8(bump)})
		addr, err := CreateProgramAddress(full, program)
		if err == nil {
			return addr, uint8(bump), nil
		}
	}
	return Zero, 0, fmt.Errorf("no viable bump for seeds")
}

// Equal compares two pubkeys in constant structure (not constant time;
// these are public identities).
func Equal(a, b Pubkey) bool { return bytes.Equal(a[:], b[:]) }
