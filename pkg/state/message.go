package state

import (
	"strconv"

	"courier/pkg/keys"
)

// MessageSeed is the derivation namespace for message records.
const MessageSeed = "message"

// MessageKind tags the payload of a message. Payloads are opaque bytes;
// the encrypted kinds only signal a client-side convention.
type MessageKind uint8

const (
	KindEncryptedText MessageKind = iota
	KindUnencryptedText
	KindEncryptedMedia
	KindUnencryptedMedia
	KindDeleted
)

// IsMedia reports whether the kind carries media content.
func (k MessageKind) IsMedia() bool {
	return k == KindEncryptedMedia || k == KindUnencryptedMedia
}

func (k MessageKind) Valid() bool { return k <= KindDeleted }

// Message is one entry in a thread or group. Its address is derived from
// the owning thread's counter value at creation, which pins the message
// to a predictable slot. Once created the record is immutable except for
// the kind transitioning to KindDeleted.
type Message struct {
	Tag           Tag
	Kind          MessageKind
	Timestamp     int64
	Sender        keys.Pubkey
	RepliesTo     keys.Pubkey
	LikesCount    uint16
	DislikesCount uint16
	Payload       []byte
}

func NewMessage(kind MessageKind, now int64, payload []byte, sender, repliesTo keys.Pubkey) *Message {
	return &Message{
		Tag:       TagMessage,
		Kind:      kind,
		Timestamp: now,
		Sender:    sender,
		RepliesTo: repliesTo,
		Payload:   payload,
	}
}

// MessageKey derives the address of the message at the given index in the
// conversation between from and to (a group passes its own key twice).
func MessageKey(index uint32, from, to, program keys.Pubkey) (keys.Pubkey, uint8, error) {
	k1, k2 := keys.OrderKeys(from, to)
	seeds := [][]byte{
		[]byte(MessageSeed),
		[]byte(strconv.FormatUint(uint64(index), 10)),
		k1.Bytes(),
		k2.Bytes(),
	}
	return keys.FindProgramAddress(seeds, program)
}

// MessageKeyWithBump reconstructs a message address from a known bump.
func MessageKeyWithBump(index uint32, from, to, program keys.Pubkey, bump uint8) (keys.Pubkey, error) {
	k1, k2 := keys.OrderKeys(from, to)
	seeds := [][]byte{
		[]byte(MessageSeed),
		[]byte(strconv.FormatUint(uint64(index), 10)),
		k1.Bytes(),
		k2.Bytes(),
		{bump},
	}
	return keys.CreateProgramAddress(seeds, program)
}

func (m *Message) Marshal() []byte {
	var e Encoder
	e.U8(uint8(m.Tag))
	e.U8(uint8(m.Kind))
	e.I64(m.Timestamp)
	e.Pubkey(m.Sender)
	e.Pubkey(m.RepliesTo)
	e.U16(m.LikesCount)
	e.U16(m.DislikesCount)
	e.Blob(m.Payload)
	return e.Data()
}

// Len is the exact serialized size; message storage is allocated to it.
func (m *Message) Len() int { return 1 + 1 + 8 + 32 + 32 + 2 + 2 + 4 + len(m.Payload) }

func (m *Message) Save(dst []byte) error { return store(dst, m.Marshal()) }

func MessageFromBytes(data []byte) (*Message, error) {
	if err := checkTag(data, TagMessage); err != nil {
		return nil, err
	}
	d := NewDecoder(data)
	m := &Message{
		Tag:           Tag(d.U8()),
		Kind:          MessageKind(d.U8()),
		Timestamp:     d.I64(),
		Sender:        d.Pubkey(),
		RepliesTo:     d.Pubkey(),
		LikesCount:    d.U16(),
		DislikesCount: d.U16(),
		Payload:       d.Blob(),
	}
	if d.Err() != nil {
		return nil, d.Err()
	}
	return m, nil
}
