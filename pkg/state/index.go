package state

import "courier/pkg/keys"

// GroupThreadIndexSeed is the derivation namespace for discovery pointers
// that let a viewer enumerate the groups they care about.
const GroupThreadIndexSeed = "group_thread_index"

// MaxGroupThreadIndexLen is the fixed storage footprint of an index record.
const MaxGroupThreadIndexLen = 1 + 32 + 32 + (4 + MaxGroupNameLen)

// GroupThreadIndex points at a group thread. It is purely a discovery
// pointer and carries no authority.
type GroupThreadIndex struct {
	Tag            Tag
	GroupThreadKey keys.Pubkey
	Owner          keys.Pubkey
	GroupName      string
}

func NewGroupThreadIndex(name string, groupThreadKey, owner keys.Pubkey) *GroupThreadIndex {
	return &GroupThreadIndex{
		Tag:            TagGroupThreadIndex,
		GroupName:      name,
		GroupThreadKey: groupThreadKey,
		Owner:          owner,
	}
}

// GroupThreadIndexKey derives the index address and bump.
func GroupThreadIndexKey(name string, groupThreadKey, owner, program keys.Pubkey) (keys.Pubkey, uint8, error) {
	seeds := [][]byte{[]byte(GroupThreadIndexSeed), []byte(name), owner.Bytes(), groupThreadKey.Bytes()}
	return keys.FindProgramAddress(seeds, program)
}

// GroupThreadIndexKeyWithBump reconstructs an index address from a known bump.
func GroupThreadIndexKeyWithBump(name string, groupThreadKey, owner, program keys.Pubkey, bump uint8) (keys.Pubkey, error) {
	seeds := [][]byte{[]byte(GroupThreadIndexSeed), []byte(name), owner.Bytes(), groupThreadKey.Bytes(), {bump}}
	return keys.CreateProgramAddress(seeds, program)
}

func (x *GroupThreadIndex) Marshal() []byte {
	var e Encoder
	e.U8(uint8(x.Tag))
	e.Pubkey(x.GroupThreadKey)
	e.Pubkey(x.Owner)
	e.Str(x.GroupName)
	return e.Data()
}

func (x *GroupThreadIndex) Save(dst []byte) error { return store(dst, x.Marshal()) }

func GroupThreadIndexFromBytes(data []byte) (*GroupThreadIndex, error) {
	if err := checkTag(data, TagGroupThreadIndex); err != nil {
		return nil, err
	}
	d := NewDecoder(data)
	x := &GroupThreadIndex{
		Tag:            Tag(d.U8()),
		GroupThreadKey: d.Pubkey(),
		Owner:          d.Pubkey(),
		GroupName:      d.Str(),
	}
	if d.Err() != nil {
		return nil, d.Err()
	}
	return x, nil
}
