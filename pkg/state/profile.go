package state

import "courier/pkg/keys"

// ProfileSeed is the derivation namespace for profile records.
const ProfileSeed = "profile"

// MaxProfileLen is the fixed storage footprint of a profile record.
const MaxProfileLen = 1 + // tag
	(4 + MaxHashLen) + // picture hash
	(4 + MaxNameLen) + // display name
	(4 + MaxBioLen) + // bio
	8 + // lamports per message
	1 + // bump
	1 + // allow dm
	4 + // tips sent
	4 // tips received

// Profile is a user's messaging profile. Its address is derived from the
// owner identity alone, so one profile exists per user.
type Profile struct {
	Tag                Tag
	PictureHash        string
	DisplayName        string
	Bio                string
	LamportsPerMessage uint64
	Bump               uint8
	AllowDM            bool
	TipsSent           uint32
	TipsReceived       uint32
}

func NewProfile(pictureHash, displayName, bio string, lamportsPerMessage uint64, bump uint8) *Profile {
	return &Profile{
		Tag:                TagProfile,
		PictureHash:        pictureHash,
		DisplayName:        displayName,
		Bio:                bio,
		LamportsPerMessage: lamportsPerMessage,
		Bump:               bump,
		AllowDM:            true,
	}
}

// ProfileKey derives the profile address and bump for an owner.
func ProfileKey(owner, program keys.Pubkey) (keys.Pubkey, uint8, error) {
	return keys.FindProgramAddress([][]byte{[]byte(ProfileSeed), owner.Bytes()}, program)
}

// ProfileKeyWithBump reconstructs a profile address from a known bump.
func ProfileKeyWithBump(owner, program keys.Pubkey, bump uint8) (keys.Pubkey, error) {
	return keys.CreateProgramAddress([][]byte{[]byte(ProfileSeed), owner.Bytes(), {bump}}, program)
}

func (p *Profile) Marshal() []byte {
	var e Encoder
	e.U8(uint8(p.Tag))
	e.Str(p.PictureHash)
	e.Str(p.DisplayName)
	e.Str(p.Bio)
	e.U64(p.LamportsPerMessage)
	e.U8(p.Bump)
	e.Bool(p.AllowDM)
	e.U32(p.TipsSent)
	e.U32(p.TipsReceived)
	return e.Data()
}

// Save serializes the profile into fixed-capacity account storage.
func (p *Profile) Save(dst []byte) error { return store(dst, p.Marshal()) }

// ProfileFromBytes decodes a profile record, accepting the profile tag or
// uninitialized storage.
func ProfileFromBytes(data []byte) (*Profile, error) {
	if err := checkTag(data, TagProfile); err != nil {
		return nil, err
	}
	d := NewDecoder(data)
	p := &Profile{
		Tag:                Tag(d.U8()),
		PictureHash:        d.Str(),
		DisplayName:        d.Str(),
		Bio:                d.Str(),
		LamportsPerMessage: d.U64(),
		Bump:               d.U8(),
		AllowDM:            d.Bool(),
		TipsSent:           d.U32(),
		TipsReceived:       d.U32(),
	}
	if d.Err() != nil {
		return nil, d.Err()
	}
	return p, nil
}
