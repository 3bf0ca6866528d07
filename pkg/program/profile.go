package program

import (
	"courier/pkg/instr"
	"courier/pkg/ledger"
	"courier/pkg/state"
)

// createProfile allocates the owner's profile record at its derived
// address and writes the initial serialization. Direct messages start
// enabled; SetUserProfile can close them later.
//
// Accounts: system program, profile (write), owner (signer), payer (signer).
func (p *Program) createProfile(host ledger.Host, accounts []*ledger.AccountInfo, params *instr.CreateProfileParams) error {
	it := newAccountIter(accounts)
	system, err := it.next()
	if err != nil {
		return err
	}
	profile, err := it.next()
	if err != nil {
		return err
	}
	owner, err := it.next()
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
	if err := checkSigner(owner); err != nil {
		return err
	}
	if err := checkSigner(payer); err != nil {
		return err
	}
	if err := checkProfileParams(params.PictureHash, params.DisplayName, params.Bio); err != nil {
		return err
	}

	profileKey, bump, err := state.ProfileKey(owner.Key, p.ID)
	if err != nil {
		return err
	}
	if err := checkAccountKey(profile, profileKey, ErrAccountNotDeterministic); err != nil {
		return err
	}

	lamports := host.MinimumBalance(state.MaxProfileLen)
	if err := host.CreateAccount(payer, profile, lamports, state.MaxProfileLen, p.ID); err != nil {
		return err
	}

	record := state.NewProfile(params.PictureHash, params.DisplayName, params.Bio, params.LamportsPerMessage, bump)
	return record.Save(profile.Data)
}

// setUserProfile replaces every mutable profile field, including the
// direct-message switch.
//
// Accounts: owner (signer, write), profile (write).
func (p *Program) setUserProfile(_ ledger.Host, accounts []*ledger.AccountInfo, params *instr.SetUserProfileParams) error {
	it := newAccountIter(accounts)
	owner, err := it.next()
	if err != nil {
		return err
	}
	profile, err := it.next()
	if err != nil {
		return err
	}

	if err := checkSigner(owner); err != nil {
		return err
	}
	if err := checkAccountOwner(profile, p.ID, ErrWrongProfileOwner); err != nil {
		return err
	}

	expected, _, err := state.ProfileKey(owner.Key, p.ID)
	if err != nil {
		return err
	}
	if err := checkAccountKey(profile, expected, ErrAccountNotDeterministic); err != nil {
		return err
	}
	if err := checkProfileParams(params.PictureHash, params.DisplayName, params.Bio); err != nil {
		return err
	}

	record, err := state.ProfileFromBytes(profile.Data)
	if err != nil {
		return err
	}
	record.PictureHash = params.PictureHash
	record.DisplayName = params.DisplayName
	record.Bio = params.Bio
	record.LamportsPerMessage = params.LamportsPerMessage
	record.AllowDM = params.AllowDM
	return record.Save(profile.Data)
}
