// Package program implements the on-ledger messaging protocol: profiles,
// DM threads, group channels, tipping and subscriptions, all stored in
// derived-address records owned by the program. Handlers follow one check
// discipline: signatures first, then storage ownership, then address
// determinism, then the operation's own business invariants.
package program

import (
	"fmt"

	"courier/pkg/instr"
	"courier/pkg/keys"
	"courier/pkg/ledger"
)

// Program is the protocol core. ID owns every record the program writes;
// Vault receives the protocol's cut of priced sends. Both are fixed at
// startup and never change mid-flight.
type Program struct {
	ID     keys.Pubkey
	Vault  keys.Pubkey
	FeePct uint64
}

func New(id, vault keys.Pubkey) *Program {
	return &Program{ID: id, Vault: vault, FeePct: DefaultFeePct}
}

// Process dispatches one raw call. It implements ledger.Processor.
func (p *Program) Process(host ledger.Host, accounts []*ledger.AccountInfo, data []byte) error {
	if len(data) == 0 {
		return ErrInvalidInstruction
	}
	op := instr.Opcode(data[0])
	payload := data[1:]

	switch op {
	case instr.OpCreateProfile:
		params, err := instr.DecodeCreateProfileParams(payload)
		if err != nil {
			return malformed(err)
		}
		return p.createProfile(host, accounts, params)
	case instr.OpCreateThread:
		params, err := instr.DecodeCreateThreadParams(payload)
		if err != nil {
			return malformed(err)
		}
		return p.createThread(host, accounts, params)
	case instr.OpSetUserProfile:
		params, err := instr.DecodeSetUserProfileParams(payload)
		if err != nil {
			return malformed(err)
		}
		return p.setUserProfile(host, accounts, params)
	case instr.OpSendMessage:
		params, err := instr.DecodeSendMessageParams(payload)
		if err != nil {
			return malformed(err)
		}
		return p.sendMessage(host, accounts, params)
	case instr.OpCreateGroupThread:
		params, err := instr.DecodeCreateGroupThreadParams(payload)
		if err != nil {
			return malformed(err)
		}
		return p.createGroupThread(host, accounts, params)
	case instr.OpEditGroupThread:
		params, err := instr.DecodeEditGroupThreadParams(payload)
		if err != nil {
			return malformed(err)
		}
		return p.editGroupThread(host, accounts, params)
	case instr.OpSendMessageGroup:
		params, err := instr.DecodeSendMessageGroupParams(payload)
		if err != nil {
			return malformed(err)
		}
		return p.sendMessageGroup(host, accounts, params)
	case instr.OpAddAdminToGroup:
		params, err := instr.DecodeAddAdminToGroupParams(payload)
		if err != nil {
			return malformed(err)
		}
		return p.addAdminToGroup(host, accounts, params)
	case instr.OpRemoveAdminFromGroup:
		params, err := instr.DecodeRemoveAdminFromGroupParams(payload)
		if err != nil {
			return malformed(err)
		}
		return p.removeAdminFromGroup(host, accounts, params)
	case instr.OpCreateGroupIndex:
		params, err := instr.DecodeCreateGroupIndexParams(payload)
		if err != nil {
			return malformed(err)
		}
		return p.createGroupIndex(host, accounts, params)
	case instr.OpDeleteMessage:
		params, err := instr.DecodeDeleteMessageParams(payload)
		if err != nil {
			return malformed(err)
		}
		return p.deleteMessage(host, accounts, params)
	case instr.OpDeleteGroupMessage:
		params, err := instr.DecodeDeleteGroupMessageParams(payload)
		if err != nil {
			return malformed(err)
		}
		return p.deleteGroupMessage(host, accounts, params)
	case instr.OpSendTip:
		params, err := instr.DecodeSendTipParams(payload)
		if err != nil {
			return malformed(err)
		}
		return p.sendTip(host, accounts, params)
	case instr.OpCreateSubscription:
		params, err := instr.DecodeCreateSubscriptionParams(payload)
		if err != nil {
			return malformed(err)
		}
		return p.createSubscription(host, accounts, params)
	default:
		return ErrInvalidInstruction
	}
}

func malformed(err error) error {
	return fmt.Errorf("%w: %v", ErrInvalidInstruction, err)
}
