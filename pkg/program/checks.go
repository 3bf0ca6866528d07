package program

import (
	"courier/pkg/keys"
	"courier/pkg/ledger"
	"courier/pkg/state"
)

// accountIter walks a call's ordered account list the way each handler's
// account table declares it.
type accountIter struct {
	accs []*ledger.AccountInfo
	pos  int
}

func newAccountIter(accs []*ledger.AccountInfo) *accountIter {
	return &accountIter{accs: accs}
}

func (it *accountIter) next() (*ledger.AccountInfo, error) {
	if it.pos >= len(it.accs) {
		return nil, ErrNotEnoughAccounts
	}
	a := it.accs[it.pos]
	it.pos++
	return a, nil
}

func checkSigner(a *ledger.AccountInfo) error {
	if !a.Signer {
		return ErrMissingSignature
	}
	return nil
}

func checkAccountKey(a *ledger.AccountInfo, want keys.Pubkey, mismatch error) error {
	if a.Key != want {
		return mismatch
	}
	return nil
}

func checkAccountOwner(a *ledger.AccountInfo, owner keys.Pubkey, mismatch error) error {
	if a.Owner != owner {
		return mismatch
	}
	return nil
}

func checkRentExempt(a *ledger.AccountInfo) error {
	if !ledger.IsRentExempt(a.Lamports, len(a.Data)) {
		return ErrAccountNotRentExempt
	}
	return nil
}

func checkProfileParams(pictureHash, displayName, bio string) error {
	if len(bio) > state.MaxBioLen {
		return state.ErrLengthExceeded
	}
	if len(pictureHash) > state.MaxNameLen {
		return state.ErrLengthExceeded
	}
	if len(displayName) > state.MaxNameLen {
		return state.ErrLengthExceeded
	}
	return nil
}

func checkGroupThreadParams(groupName string, admins []keys.Pubkey) error {
	if len(groupName) > state.MaxGroupNameLen {
		return state.ErrLengthExceeded
	}
	if len(admins) > state.MaxAdmins {
		return state.ErrLengthExceeded
	}
	return nil
}

func checkHashLen(hash string) error {
	if len(hash) > state.MaxHashLen {
		return ErrInvalidHashLength
	}
	return nil
}

func checkMessageKind(kind state.MessageKind) error {
	if !kind.Valid() {
		return ErrNonSupportedMessageType
	}
	return nil
}

func checkGroupMessageType(g *state.GroupThread, kind state.MessageKind) error {
	if !g.MediaEnabled && kind.IsMedia() {
		return ErrNonSupportedMessageType
	}
	return nil
}

// checkAdminOnly enforces posting rights on admin-only channels. The
// owner always passes; everyone else must supply an admin index that
// resolves to their own address.
func checkAdminOnly(g *state.GroupThread, sender keys.Pubkey, adminIndex *uint64) error {
	if !g.AdminOnly || g.Owner == sender {
		return nil
	}
	if adminIndex == nil {
		return ErrChatMuted
	}
	if *adminIndex >= uint64(len(g.Admins)) {
		return state.ErrInvalidAdminIndex
	}
	if g.Admins[*adminIndex] != sender {
		return ErrChatMuted
	}
	return nil
}
