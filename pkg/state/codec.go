package state

import (
	"encoding/binary"

	"courier/pkg/keys"
)

// The wire format uses fixed-width little-endian integers, u32
// length-prefixed strings, byte payloads and pubkey lists, and a one-byte
// presence flag for optional strings and integers. There is no schema
// versioning; a format change needs a new tag. Instruction parameters use
// the same primitives, so Encoder and Decoder are shared with the
// dispatch layer.

// Encoder appends wire-format fields to a growing buffer.
type Encoder struct {
	buf []byte
}

// Data returns the encoded bytes.
func (e *Encoder) Data() []byte { return e.buf }

func (e *Encoder) U8(v uint8)   { e.buf = append(e.buf, v) }
func (e *Encoder) Bool(v bool)  { e.U8(boolByte(v)) }
func (e *Encoder) U16(v uint16) { e.buf = binary.LittleEndian.AppendUint16(e.buf, v) }
func (e *Encoder) U32(v uint32) { e.buf = binary.LittleEndian.AppendUint32(e.buf, v) }
func (e *Encoder) U64(v uint64) { e.buf = binary.LittleEndian.AppendUint64(e.buf, v) }
func (e *Encoder) I64(v int64)  { e.U64(uint64(v)) }

func (e *Encoder) Pubkey(p keys.Pubkey) { e.buf = append(e.buf, p[:]...) }

func (e *Encoder) Str(s string) {
	e.U32(uint32(len(s)))
	e.buf = append(e.buf, s...)
}

func (e *Encoder) Blob(b []byte) {
	e.U32(uint32(len(b)))
	e.buf = append(e.buf, b...)
}

func (e *Encoder) OptStr(s *string) {
	if s == nil {
		e.U8(0)
		return
	}
	e.U8(1)
	e.Str(*s)
}

func (e *Encoder) OptU64(v *uint64) {
	if v == nil {
		e.U8(0)
		return
	}
	e.U8(1)
	e.U64(*v)
}

func (e *Encoder) Pubkeys(ps []keys.Pubkey) {
	e.U32(uint32(len(ps)))
	for _, p := range ps {
		e.Pubkey(p)
	}
}

func boolByte(v bool) uint8 {
	if v {
		return 1
	}
	return 0
}

// Decoder walks a buffer sequentially. Trailing bytes are tolerated so
// fixed-capacity storage can be larger than the serialized record; callers
// that require an exact fit check Finish.
type Decoder struct {
	buf []byte
	off int
	err error
}

func NewDecoder(b []byte) *Decoder {
	return &Decoder{buf: b}
}

// Err reports the first decoding failure, if any.
func (d *Decoder) Err() error { return d.err }

// Finish errors when undecoded bytes remain. Instruction parameters are
// exact-length; records are not.
func (d *Decoder) Finish() error {
	if d.err != nil {
		return d.err
	}
	if d.off != len(d.buf) {
		return ErrLengthExceeded
	}
	return nil
}

func (d *Decoder) take(n int) []byte {
	if d.err != nil {
		return nil
	}
	if d.off+n > len(d.buf) {
		d.err = ErrShortBuffer
		return nil
	}
	b := d.buf[d.off : d.off+n]
	d.off += n
	return b
}

func (d *Decoder) U8() uint8 {
	b := d.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (d *Decoder) Bool() bool { return d.U8() != 0 }

func (d *Decoder) U16() uint16 {
	b := d.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (d *Decoder) U32() uint32 {
	b := d.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (d *Decoder) U64() uint64 {
	b := d.take(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (d *Decoder) I64() int64 { return int64(d.U64()) }

func (d *Decoder) Pubkey() keys.Pubkey {
	var p keys.Pubkey
	b := d.take(len(p))
	if b != nil {
		copy(p[:], b)
	}
	return p
}

func (d *Decoder) Str() string {
	n := int(d.U32())
	b := d.take(n)
	if b == nil {
		return ""
	}
	return string(b)
}

func (d *Decoder) Blob() []byte {
	n := int(d.U32())
	b := d.take(n)
	if b == nil {
		return nil
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}

func (d *Decoder) OptStr() *string {
	if d.U8() == 0 {
		return nil
	}
	s := d.Str()
	if d.err != nil {
		return nil
	}
	return &s
}

func (d *Decoder) OptU64() *uint64 {
	if d.U8() == 0 {
		return nil
	}
	v := d.U64()
	if d.err != nil {
		return nil
	}
	return &v
}

func (d *Decoder) Pubkeys() []keys.Pubkey {
	n := int(d.U32())
	if d.err != nil || n > MaxAdmins {
		if n > MaxAdmins {
			d.err = ErrLengthExceeded
		}
		return nil
	}
	out := make([]keys.Pubkey, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, d.Pubkey())
	}
	return out
}

// store copies an encoded record into fixed-capacity account storage,
// rejecting records that outgrow their declared maximum.
func store(dst, src []byte) error {
	if len(src) > len(dst) {
		return ErrLengthExceeded
	}
	copy(dst, src)
	return nil
}
