package program

import (
	"courier/pkg/instr"
	"courier/pkg/ledger"
	"courier/pkg/state"
)

// sendTip moves tokens from the sender's token account to one owned by
// the receiver and bumps both profiles' tip counters. The token layer
// enforces the sender's authority over the source account.
//
// Accounts: token program, sender profile (write), sender (signer),
// receiver profile (write), receiver, token source (write),
// token destination (write).
func (p *Program) sendTip(host ledger.Host, accounts []*ledger.AccountInfo, params *instr.SendTipParams) error {
	it := newAccountIter(accounts)
	tokenProgram, err := it.next()
	if err != nil {
		return err
	}
	senderProfile, err := it.next()
	if err != nil {
		return err
	}
	sender, err := it.next()
	if err != nil {
		return err
	}
	receiverProfile, err := it.next()
	if err != nil {
		return err
	}
	receiver, err := it.next()
	if err != nil {
		return err
	}
	tokenSource, err := it.next()
	if err != nil {
		return err
	}
	tokenDestination, err := it.next()
	if err != nil {
		return err
	}

	if err := checkAccountKey(tokenProgram, ledger.TokenProgram, ErrWrongTokenProgram); err != nil {
		return err
	}
	if err := checkSigner(sender); err != nil {
		return err
	}
	if err := checkAccountOwner(senderProfile, p.ID, ErrWrongProfileOwner); err != nil {
		return err
	}
	if err := checkAccountOwner(receiverProfile, p.ID, ErrWrongProfileOwner); err != nil {
		return err
	}
	if err := checkAccountOwner(tokenDestination, ledger.TokenProgram, ErrWrongOwner); err != nil {
		return err
	}

	destination, err := ledger.ParseTokenAccount(tokenDestination)
	if err != nil {
		return err
	}
	if err := checkAccountKey(receiver, destination.Owner, ErrWrongTipReceiver); err != nil {
		return err
	}

	senderProfileKey, _, err := state.ProfileKey(sender.Key, p.ID)
	if err != nil {
		return err
	}
	if err := checkAccountKey(senderProfile, senderProfileKey, ErrAccountNotDeterministic); err != nil {
		return err
	}
	receiverProfileKey, _, err := state.ProfileKey(receiver.Key, p.ID)
	if err != nil {
		return err
	}
	if err := checkAccountKey(receiverProfile, receiverProfileKey, ErrAccountNotDeterministic); err != nil {
		return err
	}

	from, err := state.ProfileFromBytes(senderProfile.Data)
	if err != nil {
		return err
	}
	to, err := state.ProfileFromBytes(receiverProfile.Data)
	if err != nil {
		return err
	}
	from.TipsSent++
	to.TipsReceived++
	if err := from.Save(senderProfile.Data); err != nil {
		return err
	}
	if err := to.Save(receiverProfile.Data); err != nil {
		return err
	}

	return host.TokenTransfer(tokenSource, tokenDestination, sender, params.Amount)
}
