package state

import (
	"errors"
	"math"

	"courier/pkg/keys"
)

// GroupThreadSeed is the derivation namespace for group channel records.
const GroupThreadSeed = "group_thread"

// MaxGroupThreadLen is the fixed storage footprint of a group record.
const MaxGroupThreadLen = 1 + // tag
	1 + // visible
	32 + // owner
	8 + // last message time
	32 + // destination wallet
	4 + // msg count
	8 + // lamports per message
	1 + // bump
	1 + // media enabled
	1 + // admin only
	(1 + 4 + MaxHashLen) + // optional group pic hash
	(4 + MaxGroupNameLen) + // group name
	(4 + MaxAdmins*32) // admins

var (
	// ErrMaxAdminsReached is returned when the admin list is full.
	ErrMaxAdminsReached = errors.New("maximum number of admins reached")
	// ErrInvalidAdminIndex is returned when a supplied admin index does not
	// resolve to the expected admin entry.
	ErrInvalidAdminIndex = errors.New("invalid admin index")
)

// GroupThread is a group channel. The owner is implicitly privileged and
// is not stored in the admin list.
type GroupThread struct {
	Tag                Tag
	Visible            bool
	Owner              keys.Pubkey
	LastMessageTime    int64
	DestinationWallet  keys.Pubkey
	MsgCount           uint32
	LamportsPerMessage uint64
	Bump               uint8
	MediaEnabled       bool
	AdminOnly          bool
	GroupPicHash       *string
	GroupName          string
	Admins             []keys.Pubkey
}

func NewGroupThread(visible bool, name string, destinationWallet keys.Pubkey, lamportsPerMessage uint64,
	bump uint8, admins []keys.Pubkey, owner keys.Pubkey, mediaEnabled, adminOnly bool, now int64) *GroupThread {
	return &GroupThread{
		Tag:                TagGroupThread,
		Visible:            visible,
		GroupName:          name,
		DestinationWallet:  destinationWallet,
		LamportsPerMessage: lamportsPerMessage,
		Bump:               bump,
		Admins:             admins,
		Owner:              owner,
		MediaEnabled:       mediaEnabled,
		AdminOnly:          adminOnly,
		LastMessageTime:    now,
	}
}

// GroupThreadKey derives the group address and bump from its name and owner.
func GroupThreadKey(name string, owner, program keys.Pubkey) (keys.Pubkey, uint8, error) {
	return keys.FindProgramAddress([][]byte{[]byte(GroupThreadSeed), []byte(name), owner.Bytes()}, program)
}

// GroupThreadKeyWithBump reconstructs a group address from a known bump.
func GroupThreadKeyWithBump(name string, owner, program keys.Pubkey, bump uint8) (keys.Pubkey, error) {
	return keys.CreateProgramAddress([][]byte{[]byte(GroupThreadSeed), []byte(name), owner.Bytes(), {bump}}, program)
}

// IncrementMsgCount advances the counter and stamps activity time.
func (g *GroupThread) IncrementMsgCount(now int64) error {
	if g.MsgCount == math.MaxUint32 {
		return ErrCounterOverflow
	}
	g.MsgCount++
	g.LastMessageTime = now
	return nil
}

// IsFeeExempt reports whether sender pays no per-message fee: the
// destination wallet itself, or the admin at the supplied index.
func (g *GroupThread) IsFeeExempt(sender keys.Pubkey, adminIndex *uint64) bool {
	if g.DestinationWallet == sender {
		return true
	}
	if adminIndex != nil && *adminIndex < uint64(len(g.Admins)) {
		return g.Admins[*adminIndex] == sender
	}
	return false
}

// AddAdmin appends an admin, enforcing the list bound.
func (g *GroupThread) AddAdmin(admin keys.Pubkey) error {
	if len(g.Admins) >= MaxAdmins {
		return ErrMaxAdminsReached
	}
	g.Admins = append(g.Admins, admin)
	return nil
}

// RemoveAdmin removes the admin at index, verifying it matches the
// supplied address so a stale index cannot evict the wrong admin.
func (g *GroupThread) RemoveAdmin(admin keys.Pubkey, index uint64) error {
	if index >= uint64(len(g.Admins)) {
		return ErrInvalidAdminIndex
	}
	if g.Admins[index] != admin {
		return ErrInvalidAdminIndex
	}
	g.Admins = append(g.Admins[:index], g.Admins[index+1:]...)
	return nil
}

func (g *GroupThread) Marshal() []byte {
	var e Encoder
	e.U8(uint8(g.Tag))
	e.Bool(g.Visible)
	e.Pubkey(g.Owner)
	e.I64(g.LastMessageTime)
	e.Pubkey(g.DestinationWallet)
	e.U32(g.MsgCount)
	e.U64(g.LamportsPerMessage)
	e.U8(g.Bump)
	e.Bool(g.MediaEnabled)
	e.Bool(g.AdminOnly)
	e.OptStr(g.GroupPicHash)
	e.Str(g.GroupName)
	e.Pubkeys(g.Admins)
	return e.Data()
}

func (g *GroupThread) Save(dst []byte) error { return store(dst, g.Marshal()) }

func GroupThreadFromBytes(data []byte) (*GroupThread, error) {
	if err := checkTag(data, TagGroupThread); err != nil {
		return nil, err
	}
	d := NewDecoder(data)
	g := &GroupThread{
		Tag:                Tag(d.U8()),
		Visible:            d.Bool(),
		Owner:              d.Pubkey(),
		LastMessageTime:    d.I64(),
		DestinationWallet:  d.Pubkey(),
		MsgCount:           d.U32(),
		LamportsPerMessage: d.U64(),
		Bump:               d.U8(),
		MediaEnabled:       d.Bool(),
		AdminOnly:          d.Bool(),
		GroupPicHash:       d.OptStr(),
		GroupName:          d.Str(),
		Admins:             d.Pubkeys(),
	}
	if d.Err() != nil {
		return nil, d.Err()
	}
	return g, nil
}
