package instr

import (
	"courier/pkg/keys"
	"courier/pkg/state"
)

// Parameter structs mirror the record codec conventions. Encode emits the
// opcode byte followed by the fields; the matching Decode function takes
// the payload after the opcode and requires an exact-length fit.

// CreateProfileParams creates a profile with direct messages enabled.
type CreateProfileParams struct {
	PictureHash        string
	DisplayName        string
	Bio                string
	LamportsPerMessage uint64
}

func (p *CreateProfileParams) Encode() []byte {
	var e state.Encoder
	e.U8(uint8(OpCreateProfile))
	e.Str(p.PictureHash)
	e.Str(p.DisplayName)
	e.Str(p.Bio)
	e.U64(p.LamportsPerMessage)
	return e.Data()
}

func DecodeCreateProfileParams(data []byte) (*CreateProfileParams, error) {
	d := state.NewDecoder(data)
	p := &CreateProfileParams{
		PictureHash:        d.Str(),
		DisplayName:        d.Str(),
		Bio:                d.Str(),
		LamportsPerMessage: d.U64(),
	}
	if err := d.Finish(); err != nil {
		return nil, err
	}
	return p, nil
}

type CreateThreadParams struct {
	SenderKey   keys.Pubkey
	ReceiverKey keys.Pubkey
}

func (p *CreateThreadParams) Encode() []byte {
	var e state.Encoder
	e.U8(uint8(OpCreateThread))
	e.Pubkey(p.SenderKey)
	e.Pubkey(p.ReceiverKey)
	return e.Data()
}

func DecodeCreateThreadParams(data []byte) (*CreateThreadParams, error) {
	d := state.NewDecoder(data)
	p := &CreateThreadParams{
		SenderKey:   d.Pubkey(),
		ReceiverKey: d.Pubkey(),
	}
	if err := d.Finish(); err != nil {
		return nil, err
	}
	return p, nil
}

// SetUserProfileParams replaces every mutable profile field, including the
// direct-message switch.
type SetUserProfileParams struct {
	PictureHash        string
	DisplayName        string
	Bio                string
	LamportsPerMessage uint64
	AllowDM            bool
}

func (p *SetUserProfileParams) Encode() []byte {
	var e state.Encoder
	e.U8(uint8(OpSetUserProfile))
	e.Str(p.PictureHash)
	e.Str(p.DisplayName)
	e.Str(p.Bio)
	e.U64(p.LamportsPerMessage)
	e.Bool(p.AllowDM)
	return e.Data()
}

func DecodeSetUserProfileParams(data []byte) (*SetUserProfileParams, error) {
	d := state.NewDecoder(data)
	p := &SetUserProfileParams{
		PictureHash:        d.Str(),
		DisplayName:        d.Str(),
		Bio:                d.Str(),
		LamportsPerMessage: d.U64(),
		AllowDM:            d.Bool(),
	}
	if err := d.Finish(); err != nil {
		return nil, err
	}
	return p, nil
}

type SendMessageParams struct {
	Kind      state.MessageKind
	RepliesTo keys.Pubkey
	Message   []byte
}

func (p *SendMessageParams) Encode() []byte {
	var e state.Encoder
	e.U8(uint8(OpSendMessage))
	e.U8(uint8(p.Kind))
	e.Pubkey(p.RepliesTo)
	e.Blob(p.Message)
	return e.Data()
}

func DecodeSendMessageParams(data []byte) (*SendMessageParams, error) {
	d := state.NewDecoder(data)
	p := &SendMessageParams{
		Kind:      state.MessageKind(d.U8()),
		RepliesTo: d.Pubkey(),
		Message:   d.Blob(),
	}
	if err := d.Finish(); err != nil {
		return nil, err
	}
	return p, nil
}

type CreateGroupThreadParams struct {
	Visible            bool
	GroupName          string
	DestinationWallet  keys.Pubkey
	LamportsPerMessage uint64
	Admins             []keys.Pubkey
	Owner              keys.Pubkey
	MediaEnabled       bool
	AdminOnly          bool
}

func (p *CreateGroupThreadParams) Encode() []byte {
	var e state.Encoder
	e.U8(uint8(OpCreateGroupThread))
	e.Bool(p.Visible)
	e.Str(p.GroupName)
	e.Pubkey(p.DestinationWallet)
	e.U64(p.LamportsPerMessage)
	e.Pubkeys(p.Admins)
	e.Pubkey(p.Owner)
	e.Bool(p.MediaEnabled)
	e.Bool(p.AdminOnly)
	return e.Data()
}

func DecodeCreateGroupThreadParams(data []byte) (*CreateGroupThreadParams, error) {
	d := state.NewDecoder(data)
	p := &CreateGroupThreadParams{
		Visible:            d.Bool(),
		GroupName:          d.Str(),
		DestinationWallet:  d.Pubkey(),
		LamportsPerMessage: d.U64(),
		Admins:             d.Pubkeys(),
		Owner:              d.Pubkey(),
		MediaEnabled:       d.Bool(),
		AdminOnly:          d.Bool(),
	}
	if err := d.Finish(); err != nil {
		return nil, err
	}
	return p, nil
}

type EditGroupThreadParams struct {
	Visible            bool
	DestinationWallet  keys.Pubkey
	LamportsPerMessage uint64
	Owner              keys.Pubkey
	MediaEnabled       bool
	AdminOnly          bool
	GroupPicHash       string
}

func (p *EditGroupThreadParams) Encode() []byte {
	var e state.Encoder
	e.U8(uint8(OpEditGroupThread))
	e.Bool(p.Visible)
	e.Pubkey(p.DestinationWallet)
	e.U64(p.LamportsPerMessage)
	e.Pubkey(p.Owner)
	e.Bool(p.MediaEnabled)
	e.Bool(p.AdminOnly)
	e.Str(p.GroupPicHash)
	return e.Data()
}

func DecodeEditGroupThreadParams(data []byte) (*EditGroupThreadParams, error) {
	d := state.NewDecoder(data)
	p := &EditGroupThreadParams{
		Visible:            d.Bool(),
		DestinationWallet:  d.Pubkey(),
		LamportsPerMessage: d.U64(),
		Owner:              d.Pubkey(),
		MediaEnabled:       d.Bool(),
		AdminOnly:          d.Bool(),
		GroupPicHash:       d.Str(),
	}
	if err := d.Finish(); err != nil {
		return nil, err
	}
	return p, nil
}

type SendMessageGroupParams struct {
	Kind       state.MessageKind
	RepliesTo  keys.Pubkey
	AdminIndex *uint64
	GroupName  string
	Message    []byte
}

func (p *SendMessageGroupParams) Encode() []byte {
	var e state.Encoder
	e.U8(uint8(OpSendMessageGroup))
	e.U8(uint8(p.Kind))
	e.Pubkey(p.RepliesTo)
	e.OptU64(p.AdminIndex)
	e.Str(p.GroupName)
	e.Blob(p.Message)
	return e.Data()
}

func DecodeSendMessageGroupParams(data []byte) (*SendMessageGroupParams, error) {
	d := state.NewDecoder(data)
	p := &SendMessageGroupParams{
		Kind:       state.MessageKind(d.U8()),
		RepliesTo:  d.Pubkey(),
		AdminIndex: d.OptU64(),
		GroupName:  d.Str(),
		Message:    d.Blob(),
	}
	if err := d.Finish(); err != nil {
		return nil, err
	}
	return p, nil
}

type AddAdminToGroupParams struct {
	AdminAddress keys.Pubkey
}

func (p *AddAdminToGroupParams) Encode() []byte {
	var e state.Encoder
	e.U8(uint8(OpAddAdminToGroup))
	e.Pubkey(p.AdminAddress)
	return e.Data()
}

func DecodeAddAdminToGroupParams(data []byte) (*AddAdminToGroupParams, error) {
	d := state.NewDecoder(data)
	p := &AddAdminToGroupParams{AdminAddress: d.Pubkey()}
	if err := d.Finish(); err != nil {
		return nil, err
	}
	return p, nil
}

type RemoveAdminFromGroupParams struct {
	AdminAddress keys.Pubkey
	AdminIndex   uint64
}

func (p *RemoveAdminFromGroupParams) Encode() []byte {
	var e state.Encoder
	e.U8(uint8(OpRemoveAdminFromGroup))
	e.Pubkey(p.AdminAddress)
	e.U64(p.AdminIndex)
	return e.Data()
}

func DecodeRemoveAdminFromGroupParams(data []byte) (*RemoveAdminFromGroupParams, error) {
	d := state.NewDecoder(data)
	p := &RemoveAdminFromGroupParams{
		AdminAddress: d.Pubkey(),
		AdminIndex:   d.U64(),
	}
	if err := d.Finish(); err != nil {
		return nil, err
	}
	return p, nil
}

type CreateGroupIndexParams struct {
	GroupName      string
	GroupThreadKey keys.Pubkey
	Owner          keys.Pubkey
}

func (p *CreateGroupIndexParams) Encode() []byte {
	var e state.Encoder
	e.U8(uint8(OpCreateGroupIndex))
	e.Str(p.GroupName)
	e.Pubkey(p.GroupThreadKey)
	e.Pubkey(p.Owner)
	return e.Data()
}

func DecodeCreateGroupIndexParams(data []byte) (*CreateGroupIndexParams, error) {
	d := state.NewDecoder(data)
	p := &CreateGroupIndexParams{
		GroupName:      d.Str(),
		GroupThreadKey: d.Pubkey(),
		Owner:          d.Pubkey(),
	}
	if err := d.Finish(); err != nil {
		return nil, err
	}
	return p, nil
}

type DeleteMessageParams struct {
	MessageIndex uint32
}

func (p *DeleteMessageParams) Encode() []byte {
	var e state.Encoder
	e.U8(uint8(OpDeleteMessage))
	e.U32(p.MessageIndex)
	return e.Data()
}

func DecodeDeleteMessageParams(data []byte) (*DeleteMessageParams, error) {
	d := state.NewDecoder(data)
	p := &DeleteMessageParams{MessageIndex: d.U32()}
	if err := d.Finish(); err != nil {
		return nil, err
	}
	return p, nil
}

type DeleteGroupMessageParams struct {
	MessageIndex uint32
	Owner        keys.Pubkey
	AdminIndex   *uint64
	GroupName    string
}

func (p *DeleteGroupMessageParams) Encode() []byte {
	var e state.Encoder
	e.U8(uint8(OpDeleteGroupMessage))
	e.U32(p.MessageIndex)
	e.Pubkey(p.Owner)
	e.OptU64(p.AdminIndex)
	e.Str(p.GroupName)
	return e.Data()
}

func DecodeDeleteGroupMessageParams(data []byte) (*DeleteGroupMessageParams, error) {
	d := state.NewDecoder(data)
	p := &DeleteGroupMessageParams{
		MessageIndex: d.U32(),
		Owner:        d.Pubkey(),
		AdminIndex:   d.OptU64(),
		GroupName:    d.Str(),
	}
	if err := d.Finish(); err != nil {
		return nil, err
	}
	return p, nil
}

type SendTipParams struct {
	Amount uint64
}

func (p *SendTipParams) Encode() []byte {
	var e state.Encoder
	e.U8(uint8(OpSendTip))
	e.U64(p.Amount)
	return e.Data()
}

func DecodeSendTipParams(data []byte) (*SendTipParams, error) {
	d := state.NewDecoder(data)
	p := &SendTipParams{Amount: d.U64()}
	if err := d.Finish(); err != nil {
		return nil, err
	}
	return p, nil
}

type CreateSubscriptionParams struct {
	SubscribedTo keys.Pubkey
}

func (p *CreateSubscriptionParams) Encode() []byte {
	var e state.Encoder
	e.U8(uint8(OpCreateSubscription))
	e.Pubkey(p.SubscribedTo)
	return e.Data()
}

func DecodeCreateSubscriptionParams(data []byte) (*CreateSubscriptionParams, error) {
	d := state.NewDecoder(data)
	p := &CreateSubscriptionParams{SubscribedTo: d.Pubkey()}
	if err := d.Finish(); err != nil {
		return nil, err
	}
	return p, nil
}
