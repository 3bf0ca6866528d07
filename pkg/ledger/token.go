package ledger

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"

	"courier/pkg/keys"
)

// TokenProgram is the fixed identity of the external token program.
// Token accounts are owned by it and hold `owner(32) || amount(8 LE)`.
var TokenProgram = keys.Pubkey(sha256.Sum256([]byte("courier/token-program/v1")))

// TokenAccountLen is the serialized size of a token account.
const TokenAccountLen = 40

var (
	// ErrNotTokenAccount is returned when an account is not owned by the
	// token program or is malformed.
	ErrNotTokenAccount = errors.New("not a token account")
	// ErrTokenAuthority is returned when the transfer authority does not
	// match the source token account's owner.
	ErrTokenAuthority = errors.New("wrong token authority")
)

// TokenAccount is the decoded view of a token storage slot.
type TokenAccount struct {
	Owner  keys.Pubkey
	Amount uint64
}

// ParseTokenAccount decodes a token account after checking its program
// ownership.
func ParseTokenAccount(a *AccountInfo) (*TokenAccount, error) {
	if a.Owner != TokenProgram || len(a.Data) < TokenAccountLen {
		return nil, ErrNotTokenAccount
	}
	owner, _ := keys.FromBytes(a.Data[:32])
	return &TokenAccount{
		Owner:  owner,
		Amount: binary.LittleEndian.Uint64(a.Data[32:40]),
	}, nil
}

func (t *TokenAccount) store(a *AccountInfo) {
	copy(a.Data[:32], t.Owner.Bytes())
	binary.LittleEndian.PutUint64(a.Data[32:40], t.Amount)
}

// NewTokenAccountData builds the initial data bytes for a token account,
// used by tests and bootstrap tooling.
func NewTokenAccountData(owner keys.Pubkey, amount uint64) []byte {
	b := make([]byte, TokenAccountLen)
	copy(b[:32], owner.Bytes())
	binary.LittleEndian.PutUint64(b[32:40], amount)
	return b
}
