package state

import (
	"errors"
	"math"

	"courier/pkg/keys"
)

// ThreadSeed is the derivation namespace for DM thread records.
const ThreadSeed = "thread"

// MaxThreadLen is the fixed storage footprint of a thread record.
const MaxThreadLen = 1 + 4 + 32 + 32 + 8 + 1

// ErrCounterOverflow signals a message counter that would wrap. Counters
// are monotonic and never wrap; hitting the ceiling is unrecoverable.
var ErrCounterOverflow = errors.New("message counter overflow")

// Thread is a direct-message thread between two users. The participant
// pair is canonicalized (smaller base58 form first) so both directions
// resolve to the same address.
type Thread struct {
	Tag             Tag
	MsgCount        uint32
	User1           keys.Pubkey
	User2           keys.Pubkey
	LastMessageTime int64
	Bump            uint8
}

// NewThread builds a thread record; user1/user2 must already be ordered.
func NewThread(user1, user2 keys.Pubkey, bump uint8, now int64) *Thread {
	return &Thread{
		Tag:             TagThread,
		User1:           user1,
		User2:           user2,
		Bump:            bump,
		LastMessageTime: now,
	}
}

// ThreadKey derives the thread address and bump for a participant pair,
// in either order.
func ThreadKey(a, b, program keys.Pubkey) (keys.Pubkey, uint8, error) {
	k1, k2 := keys.OrderKeys(a, b)
	return keys.FindProgramAddress([][]byte{[]byte(ThreadSeed), k1.Bytes(), k2.Bytes()}, program)
}

// ThreadKeyWithBump reconstructs a thread address from a known bump.
func ThreadKeyWithBump(a, b, program keys.Pubkey, bump uint8) (keys.Pubkey, error) {
	k1, k2 := keys.OrderKeys(a, b)
	return keys.CreateProgramAddress([][]byte{[]byte(ThreadSeed), k1.Bytes(), k2.Bytes(), {bump}}, program)
}

// IncrementMsgCount advances the counter and stamps activity time.
func (t *Thread) IncrementMsgCount(now int64) error {
	if t.MsgCount == math.MaxUint32 {
		return ErrCounterOverflow
	}
	t.MsgCount++
	t.LastMessageTime = now
	return nil
}

func (t *Thread) Marshal() []byte {
	var e Encoder
	e.U8(uint8(t.Tag))
	e.U32(t.MsgCount)
	e.Pubkey(t.User1)
	e.Pubkey(t.User2)
	e.I64(t.LastMessageTime)
	e.U8(t.Bump)
	return e.Data()
}

func (t *Thread) Save(dst []byte) error { return store(dst, t.Marshal()) }

func ThreadFromBytes(data []byte) (*Thread, error) {
	if err := checkTag(data, TagThread); err != nil {
		return nil, err
	}
	d := NewDecoder(data)
	t := &Thread{
		Tag:             Tag(d.U8()),
		MsgCount:        d.U32(),
		User1:           d.Pubkey(),
		User2:           d.Pubkey(),
		LastMessageTime: d.I64(),
		Bump:            d.U8(),
	}
	if d.Err() != nil {
		return nil, d.Err()
	}
	return t, nil
}
