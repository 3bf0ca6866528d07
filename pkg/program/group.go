package program

import (
	"courier/pkg/instr"
	"courier/pkg/ledger"
	"courier/pkg/state"
)

// createGroupThread allocates a channel record at the address derived
// from its name and owner.
//
// Accounts: system program, group thread (write), payer (signer).
func (p *Program) createGroupThread(host ledger.Host, accounts []*ledger.AccountInfo, params *instr.CreateGroupThreadParams) error {
	it := newAccountIter(accounts)
	system, err := it.next()
	if err != nil {
		return err
	}
	groupThread, err := it.next()
	if err != nil {
		return err
	}
	payer, err := it.next()
	if err != nil {
		return err
	}

	if err := checkAccountKey(system, ledger.SystemProgram, ErrWrongSystemProgram); err != nil {
		return err
	}
	if err := checkSigner(payer); err != nil {
		return err
	}
	if err := checkAccountOwner(groupThread, ledger.SystemProgram, ErrWrongOwner); err != nil {
		return err
	}
	if err := checkGroupThreadParams(params.GroupName, params.Admins); err != nil {
		return err
	}

	groupKey, bump, err := state.GroupThreadKey(params.GroupName, params.Owner, p.ID)
	if err != nil {
		return err
	}
	if err := checkAccountKey(groupThread, groupKey, ErrAccountNotDeterministic); err != nil {
		return err
	}

	lamports := host.MinimumBalance(state.MaxGroupThreadLen)
	if err := host.CreateAccount(payer, groupThread, lamports, state.MaxGroupThreadLen, p.ID); err != nil {
		return err
	}

	record := state.NewGroupThread(params.Visible, params.GroupName, params.DestinationWallet,
		params.LamportsPerMessage, bump, params.Admins, params.Owner, params.MediaEnabled,
		params.AdminOnly, host.Now())
	return record.Save(groupThread.Data)
}

// editGroupThread replaces the channel's mutable settings. Only the
// current owner may edit, and ownership itself can be handed over here.
//
// Accounts: owner (signer, write), group thread (write).
func (p *Program) editGroupThread(_ ledger.Host, accounts []*ledger.AccountInfo, params *instr.EditGroupThreadParams) error {
	it := newAccountIter(accounts)
	owner, err := it.next()
	if err != nil {
		return err
	}
	groupThread, err := it.next()
	if err != nil {
		return err
	}

	if err := checkSigner(owner); err != nil {
		return err
	}
	if err := checkAccountOwner(groupThread, p.ID, ErrWrongGroupThreadOwner); err != nil {
		return err
	}

	record, err := state.GroupThreadFromBytes(groupThread.Data)
	if err != nil {
		return err
	}
	expected, err := state.GroupThreadKeyWithBump(record.GroupName, owner.Key, p.ID, record.Bump)
	if err != nil {
		return err
	}
	if err := checkAccountKey(groupThread, expected, ErrAccountNotDeterministic); err != nil {
		return err
	}
	if err := checkAccountKey(owner, record.Owner, ErrWrongGroupOwner); err != nil {
		return err
	}
	if err := checkHashLen(params.GroupPicHash); err != nil {
		return err
	}

	record.Visible = params.Visible
	record.DestinationWallet = params.DestinationWallet
	record.LamportsPerMessage = params.LamportsPerMessage
	record.Owner = params.Owner
	record.MediaEnabled = params.MediaEnabled
	record.AdminOnly = params.AdminOnly
	pic := params.GroupPicHash
	record.GroupPicHash = &pic
	return record.Save(groupThread.Data)
}

// sendMessageGroup appends one message to a channel. Posting rights and
// media permissions are enforced before any allocation; fee routing pays
// the channel's destination wallet unless the sender is exempt.
//
// Accounts: system program, sender (signer), group thread (write),
// destination wallet (write), message (write), vault (write).
func (p *Program) sendMessageGroup(host ledger.Host, accounts []*ledger.AccountInfo, params *instr.SendMessageGroupParams) error {
	it := newAccountIter(accounts)
	system, err := it.next()
	if err != nil {
		return err
	}
	sender, err := it.next()
	if err != nil {
		return err
	}
	groupThread, err := it.next()
	if err != nil {
		return err
	}
	destinationWallet, err := it.next()
	if err != nil {
		return err
	}
	message, err := it.next()
	if err != nil {
		return err
	}
	vault, err := it.next()
	if err != nil {
		return err
	}

	if err := checkAccountKey(system, ledger.SystemProgram, ErrWrongSystemProgram); err != nil {
		return err
	}
	if err := checkSigner(sender); err != nil {
		return err
	}
	if err := checkAccountOwner(groupThread, p.ID, ErrWrongGroupThreadOwner); err != nil {
		return err
	}
	if err := checkRentExempt(groupThread); err != nil {
		return err
	}
	if err := checkAccountKey(vault, p.Vault, ErrWrongVault); err != nil {
		return err
	}
	if err := checkMessageKind(params.Kind); err != nil {
		return err
	}
	if len(params.Message) > state.MaxMsgLen {
		return state.ErrLengthExceeded
	}

	record, err := state.GroupThreadFromBytes(groupThread.Data)
	if err != nil {
		return err
	}
	if err := checkAdminOnly(record, sender.Key, params.AdminIndex); err != nil {
		return err
	}

	groupKey, err := state.GroupThreadKeyWithBump(params.GroupName, record.Owner, p.ID, record.Bump)
	if err != nil {
		return err
	}
	if err := checkAccountKey(groupThread, groupKey, ErrAccountNotDeterministic); err != nil {
		return err
	}
	if err := checkAccountKey(destinationWallet, record.DestinationWallet, ErrWrongDestinationWallet); err != nil {
		return err
	}
	if err := checkGroupMessageType(record, params.Kind); err != nil {
		return err
	}

	messageKey, _, err := state.MessageKey(record.MsgCount, groupKey, groupKey, p.ID)
	if err != nil {
		return err
	}
	if err := checkAccountKey(message, messageKey, ErrAccountNotDeterministic); err != nil {
		return err
	}

	now := host.Now()
	msg := state.NewMessage(params.Kind, now, params.Message, sender.Key, params.RepliesTo)
	lamports := host.MinimumBalance(msg.Len())
	if err := host.CreateAccount(sender, message, lamports, msg.Len(), p.ID); err != nil {
		return err
	}
	if err := msg.Save(message.Data); err != nil {
		return err
	}

	if err := record.IncrementMsgCount(now); err != nil {
		return err
	}
	if err := record.Save(groupThread.Data); err != nil {
		return err
	}

	if record.IsFeeExempt(sender.Key, params.AdminIndex) || record.LamportsPerMessage == 0 {
		return nil
	}
	payout, fee := splitFee(record.LamportsPerMessage, p.FeePct)
	if err := host.Transfer(sender, destinationWallet, payout); err != nil {
		return err
	}
	return host.Transfer(sender, vault, fee)
}

// addAdminToGroup appends an address to the channel's bounded admin list.
//
// Accounts: group thread (write), owner (signer, write).
func (p *Program) addAdminToGroup(_ ledger.Host, accounts []*ledger.AccountInfo, params *instr.AddAdminToGroupParams) error {
	record, groupThread, err := p.loadOwnedGroup(accounts)
	if err != nil {
		return err
	}
	if err := record.AddAdmin(params.AdminAddress); err != nil {
		return err
	}
	return record.Save(groupThread.Data)
}

// removeAdminFromGroup drops the admin-list entry at the supplied index,
// which must hold exactly the named address.
//
// Accounts: group thread (write), owner (signer, write).
func (p *Program) removeAdminFromGroup(_ ledger.Host, accounts []*ledger.AccountInfo, params *instr.RemoveAdminFromGroupParams) error {
	record, groupThread, err := p.loadOwnedGroup(accounts)
	if err != nil {
		return err
	}
	if err := record.RemoveAdmin(params.AdminAddress, params.AdminIndex); err != nil {
		return err
	}
	return record.Save(groupThread.Data)
}

// loadOwnedGroup resolves the [group thread, owner] account pair shared
// by the admin-list operations and verifies the signing owner.
func (p *Program) loadOwnedGroup(accounts []*ledger.AccountInfo) (*state.GroupThread, *ledger.AccountInfo, error) {
	it := newAccountIter(accounts)
	groupThread, err := it.next()
	if err != nil {
		return nil, nil, err
	}
	owner, err := it.next()
	if err != nil {
		return nil, nil, err
	}

	if err := checkSigner(owner); err != nil {
		return nil, nil, err
	}
	if err := checkAccountOwner(groupThread, p.ID, ErrWrongGroupThreadOwner); err != nil {
		return nil, nil, err
	}

	record, err := state.GroupThreadFromBytes(groupThread.Data)
	if err != nil {
		return nil, nil, err
	}
	expected, err := state.GroupThreadKeyWithBump(record.GroupName, owner.Key, p.ID, record.Bump)
	if err != nil {
		return nil, nil, err
	}
	if err := checkAccountKey(groupThread, expected, ErrAccountNotDeterministic); err != nil {
		return nil, nil, err
	}
	if err := checkAccountKey(owner, record.Owner, ErrWrongGroupOwner); err != nil {
		return nil, nil, err
	}
	return record, groupThread, nil
}

// createGroupIndex allocates a per-user lookup record pointing at a
// channel, the only secondary index the protocol keeps.
//
// Accounts: system program, group index (write), payer (signer).
func (p *Program) createGroupIndex(host ledger.Host, accounts []*ledger.AccountInfo, params *instr.CreateGroupIndexParams) error {
	it := newAccountIter(accounts)
	system, err := it.next()
	if err != nil {
		return err
	}
	groupIndex, err := it.next()
	if err != nil {
		return err
	}
	payer, err := it.next()
	if err != nil {
		return err
	}

	if err := checkAccountKey(system, ledger.SystemProgram, ErrWrongSystemProgram); err != nil {
		return err
	}
	if err := checkSigner(payer); err != nil {
		return err
	}
	if err := checkAccountOwner(groupIndex, ledger.SystemProgram, ErrWrongOwner); err != nil {
		return err
	}
	if len(params.GroupName) > state.MaxGroupNameLen {
		return state.ErrLengthExceeded
	}

	indexKey, _, err := state.GroupThreadIndexKey(params.GroupName, params.GroupThreadKey, params.Owner, p.ID)
	if err != nil {
		return err
	}
	if err := checkAccountKey(groupIndex, indexKey, ErrAccountNotDeterministic); err != nil {
		return err
	}

	lamports := host.MinimumBalance(state.MaxGroupThreadIndexLen)
	if err := host.CreateAccount(payer, groupIndex, lamports, state.MaxGroupThreadIndexLen, p.ID); err != nil {
		return err
	}

	record := state.NewGroupThreadIndex(params.GroupName, params.GroupThreadKey, params.Owner)
	return record.Save(groupIndex.Data)
}

// deleteGroupMessage tombstones a channel message and refunds its backing
// funds to the deleter. The original sender, the channel owner, or an
// admin named by index may delete.
//
// Accounts: group thread, message (write), deleter (signer, write).
func (p *Program) deleteGroupMessage(host ledger.Host, accounts []*ledger.AccountInfo, params *instr.DeleteGroupMessageParams) error {
	it := newAccountIter(accounts)
	groupThread, err := it.next()
	if err != nil {
		return err
	}
	message, err := it.next()
	if err != nil {
		return err
	}
	deleter, err := it.next()
	if err != nil {
		return err
	}

	if err := checkSigner(deleter); err != nil {
		return err
	}
	if err := checkAccountOwner(groupThread, p.ID, ErrWrongGroupThreadOwner); err != nil {
		return err
	}
	if err := checkAccountOwner(message, p.ID, ErrWrongMessageOwner); err != nil {
		return err
	}

	record, err := state.MessageFromBytes(message.Data)
	if err != nil {
		return err
	}
	group, err := state.GroupThreadFromBytes(groupThread.Data)
	if err != nil {
		return err
	}

	if params.Owner != group.Owner {
		return ErrInvalidArgument
	}
	if params.GroupName != group.GroupName {
		return ErrInvalidArgument
	}

	expectedGroup, err := state.GroupThreadKeyWithBump(params.GroupName, params.Owner, p.ID, group.Bump)
	if err != nil {
		return err
	}
	if err := checkAccountKey(groupThread, expectedGroup, ErrAccountNotDeterministic); err != nil {
		return err
	}
	expectedMessage, _, err := state.MessageKey(params.MessageIndex, groupThread.Key, groupThread.Key, p.ID)
	if err != nil {
		return err
	}
	if err := checkAccountKey(message, expectedMessage, ErrAccountNotDeterministic); err != nil {
		return err
	}

	isSender := deleter.Key == record.Sender
	isOwner := deleter.Key == group.Owner
	isAdmin := false
	if params.AdminIndex != nil {
		if *params.AdminIndex >= uint64(len(group.Admins)) {
			return state.ErrInvalidAdminIndex
		}
		isAdmin = group.Admins[*params.AdminIndex] == deleter.Key
	}
	if !(isSender || isOwner || isAdmin) {
		return ErrAccountNotAuthorized
	}

	record.Kind = state.KindDeleted
	if err := record.Save(message.Data); err != nil {
		return err
	}
	return host.Transfer(message, deleter, message.Lamports)
}
