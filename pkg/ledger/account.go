// Package ledger provides the minimal host environment the messaging
// program runs inside: an account model, a rent rule, value-transfer
// primitives and an execution engine that applies one call atomically.
package ledger

import (
	"errors"

	"courier/pkg/keys"
)

// SystemProgram owns accounts that have not been assigned to any program.
// Its key is all zeros, so unknown accounts decode to it naturally.
var SystemProgram keys.Pubkey

// Account is one storage slot: lamport balance plus fixed-capacity data
// bytes, exclusively mutable by its owning program.
type Account struct {
	Key      keys.Pubkey
	Owner    keys.Pubkey
	Lamports uint64
	Data     []byte
}

// AccountMeta is a caller-declared reference in a call's account list.
type AccountMeta struct {
	Key      keys.Pubkey
	Signer   bool
	Writable bool
}

// AccountInfo is the in-call view of an account handed to the program.
// Mutations become visible only if the whole call commits.
type AccountInfo struct {
	Key      keys.Pubkey
	Owner    keys.Pubkey
	Lamports uint64
	Data     []byte
	Signer   bool
	Writable bool
}

// DataIsEmpty reports whether the account has no allocated storage.
func (a *AccountInfo) DataIsEmpty() bool { return len(a.Data) == 0 }

var (
	// ErrInsufficientFunds is returned when a transfer or allocation would
	// overdraw the paying account.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrAccountInUse is returned when creating an account that already
	// has data or an assigned owner.
	ErrAccountInUse = errors.New("account already in use")
	// ErrNotWritable is returned when a host primitive is asked to mutate
	// an account the caller did not mark writable.
	ErrNotWritable = errors.New("account not writable")
)
