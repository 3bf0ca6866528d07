package program

import (
	"courier/pkg/instr"
	"courier/pkg/keys"
	"courier/pkg/ledger"
	"courier/pkg/state"
)

// createThread allocates the DM thread record for a participant pair.
// The stored pair is canonically ordered, so either participant can open
// the thread and both resolve the same address.
//
// Accounts: system program, thread (write), payer (signer).
func (p *Program) createThread(host ledger.Host, accounts []*ledger.AccountInfo, params *instr.CreateThreadParams) error {
	it := newAccountIter(accounts)
	system, err := it.next()
	if err != nil {
		return err
	}
	thread, err := it.next()
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
	if err := checkAccountOwner(thread, ledger.SystemProgram, ErrWrongOwner); err != nil {
		return err
	}

	threadKey, bump, err := state.ThreadKey(params.ReceiverKey, params.SenderKey, p.ID)
	if err != nil {
		return err
	}
	if err := checkAccountKey(thread, threadKey, ErrAccountNotDeterministic); err != nil {
		return err
	}

	k1, k2 := keys.OrderKeys(params.ReceiverKey, params.SenderKey)
	record := state.NewThread(k1, k2, bump, host.Now())

	lamports := host.MinimumBalance(state.MaxThreadLen)
	if err := host.CreateAccount(payer, thread, lamports, state.MaxThreadLen, p.ID); err != nil {
		return err
	}
	return record.Save(thread.Data)
}

// sendMessage appends one DM to a thread: the message record lands at the
// address derived from the current counter, the counter advances, and fee
// routing runs against the receiver's profile when one exists.
//
// Accounts: system program, sender (signer), receiver (write),
// thread (write), receiver profile, message (write), vault (write).
func (p *Program) sendMessage(host ledger.Host, accounts []*ledger.AccountInfo, params *instr.SendMessageParams) error {
	it := newAccountIter(accounts)
	system, err := it.next()
	if err != nil {
		return err
	}
	sender, err := it.next()
	if err != nil {
		return err
	}
	receiver, err := it.next()
	if err != nil {
		return err
	}
	thread, err := it.next()
	if err != nil {
		return err
	}
	receiverProfile, err := it.next()
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
	if err := checkAccountOwner(thread, p.ID, ErrWrongThreadOwner); err != nil {
		return err
	}
	if err := checkAccountOwner(message, ledger.SystemProgram, ErrWrongOwner); err != nil {
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

	record, err := state.ThreadFromBytes(thread.Data)
	if err != nil {
		return err
	}
	threadKey, err := state.ThreadKeyWithBump(sender.Key, receiver.Key, p.ID, record.Bump)
	if err != nil {
		return err
	}
	if err := checkAccountKey(thread, threadKey, ErrAccountNotDeterministic); err != nil {
		return err
	}

	messageKey, _, err := state.MessageKey(record.MsgCount, sender.Key, receiver.Key, p.ID)
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
	if err := record.Save(thread.Data); err != nil {
		return err
	}

	// Fee routing only applies once the receiver has a profile.
	if receiverProfile.DataIsEmpty() {
		return nil
	}
	if err := checkAccountOwner(receiverProfile, p.ID, ErrWrongProfileOwner); err != nil {
		return err
	}
	expectedProfile, _, err := state.ProfileKey(receiver.Key, p.ID)
	if err != nil {
		return err
	}
	if err := checkAccountKey(receiverProfile, expectedProfile, ErrAccountNotDeterministic); err != nil {
		return err
	}
	profile, err := state.ProfileFromBytes(receiverProfile.Data)
	if err != nil {
		return err
	}
	if !profile.AllowDM {
		return ErrDMClosed
	}
	if profile.LamportsPerMessage == 0 {
		return nil
	}
	payout, fee := splitFee(profile.LamportsPerMessage, p.FeePct)
	if err := host.Transfer(sender, receiver, payout); err != nil {
		return err
	}
	return host.Transfer(sender, vault, fee)
}

// deleteMessage tombstones a DM and refunds the record's backing funds to
// the original sender. The record itself stays in place so the counter
// index space keeps its shape.
//
// Accounts: sender (signer, write), receiver, message (write).
func (p *Program) deleteMessage(host ledger.Host, accounts []*ledger.AccountInfo, params *instr.DeleteMessageParams) error {
	it := newAccountIter(accounts)
	sender, err := it.next()
	if err != nil {
		return err
	}
	receiver, err := it.next()
	if err != nil {
		return err
	}
	message, err := it.next()
	if err != nil {
		return err
	}

	if err := checkSigner(sender); err != nil {
		return err
	}
	if err := checkAccountOwner(message, p.ID, ErrWrongMessageOwner); err != nil {
		return err
	}

	record, err := state.MessageFromBytes(message.Data)
	if err != nil {
		return err
	}
	expected, _, err := state.MessageKey(params.MessageIndex, sender.Key, receiver.Key, p.ID)
	if err != nil {
		return err
	}
	if err := checkAccountKey(message, expected, ErrAccountNotDeterministic); err != nil {
		return err
	}
	if err := checkAccountKey(sender, record.Sender, ErrAccountNotAuthorized); err != nil {
		return err
	}

	record.Kind = state.KindDeleted
	if err := record.Save(message.Data); err != nil {
		return err
	}
	return host.Transfer(message, sender, message.Lamports)
}
