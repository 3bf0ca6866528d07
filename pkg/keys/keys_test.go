package keys

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"testing"
)

func randomKey(t *testing.T) Pubkey {
	t.Helper()
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	p, err := FromBytes(pub)
	if err != nil {
		t.Fatalf("from bytes: %v", err)
	}
	return p
}

func TestParseRoundTrip(t *testing.T) {
	k := randomKey(t)
	parsed, err := Parse(k.String())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed != k {
		t.Fatalf("round trip mismatch: %s vs %s", parsed, k)
	}

	if _, err := Parse("not-base58-0OIl"); err == nil {
		t.Fatalf("expected error for invalid base58")
	}
	if _, err := Parse("abc"); err == nil {
		t.Fatalf("expected error for short input")
	}
}

func TestFindProgramAddressDeterministic(t *testing.T) {
	program := Pubkey(sha256.Sum256([]byte("program")))
	seeds := [][]byte{[]byte("profile"), program.Bytes()}

	addr1, bump1, err := FindProgramAddress(seeds, program)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	addr2, bump2, err := FindProgramAddress(seeds, program)
	if err != nil {
		t.Fatalf("find again: %v", err)
	}
	if addr1 != addr2 || bump1 != bump2 {
		t.Fatalf("derivation not stable: %s/%d vs %s/%d", addr1, bump1, addr2, bump2)
	}

	// The stored bump must reconstruct the same address.
	full := append(append([][]byte{}, seeds...), []byte{bump1})
	rebuilt, err := CreateProgramAddress(full, program)
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if rebuilt != addr1 {
		t.Fatalf("bump reconstruction mismatch: %s vs %s", rebuilt, addr1)
	}
}

func TestDerivedAddressIsOffCurve(t *testing.T) {
	program := Pubkey(sha256.Sum256([]byte("program")))
	addr, _, err := FindProgramAddress([][]byte{[]byte("thread")}, program)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !offCurve(addr.Bytes()) {
		t.Fatalf("derived address %s lies on the curve", addr)
	}
}

func TestSeedBounds(t *testing.T) {
	program := Pubkey(sha256.Sum256([]byte("program")))

	long := make([]byte, MaxSeedLen+1)
	if _, err := CreateProgramAddress([][]byte{long}, program); err == nil {
		t.Fatalf("expected error for oversized seed")
	}

	many := make([][]byte, MaxSeeds+1)
	for i := range many {
		many[i] = []byte{byte(i)}
	}
	if _, err := CreateProgramAddress(many, program); err == nil {
		t.Fatalf("expected error for too many seeds")
	}
}

func TestOrderKeysSymmetry(t *testing.T) {
	a, b := randomKey(t), randomKey(t)
	x1, y1 := OrderKeys(a, b)
	x2, y2 := OrderKeys(b, a)
	if x1 != x2 || y1 != y2 {
		t.Fatalf("ordering depends on argument order")
	}
	if x1.String() > y1.String() {
		t.Fatalf("pair not ordered: %s > %s", x1, y1)
	}
}
