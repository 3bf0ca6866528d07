package program

import (
	"courier/pkg/instr"
	"courier/pkg/ledger"
	"courier/pkg/state"
)

// createSubscription allocates the marker record for a (subscriber,
// subscribed-to) pair. Existence of the record is the whole signal.
//
// Accounts: subscription (write), subscriber (signer), system program.
func (p *Program) createSubscription(host ledger.Host, accounts []*ledger.AccountInfo, params *instr.CreateSubscriptionParams) error {
	it := newAccountIter(accounts)
	subscription, err := it.next()
	if err != nil {
		return err
	}
	subscriber, err := it.next()
	if err != nil {
		return err
	}
	system, err := it.next()
	if err != nil {
		return err
	}

	if err := checkAccountKey(system, ledger.SystemProgram, ErrWrongSystemProgram); err != nil {
		return err
	}
	if err := checkSigner(subscriber); err != nil {
		return err
	}
	if err := checkAccountOwner(subscription, ledger.SystemProgram, ErrWrongOwner); err != nil {
		return err
	}

	subscriptionKey, _, err := state.SubscriptionKey(subscriber.Key, params.SubscribedTo, p.ID)
	if err != nil {
		return err
	}
	if err := checkAccountKey(subscription, subscriptionKey, ErrAccountNotDeterministic); err != nil {
		return err
	}

	lamports := host.MinimumBalance(state.MaxSubscriptionLen)
	if err := host.CreateAccount(subscriber, subscription, lamports, state.MaxSubscriptionLen, p.ID); err != nil {
		return err
	}

	record := state.NewSubscription(subscriber.Key, params.SubscribedTo)
	return record.Save(subscription.Data)
}
