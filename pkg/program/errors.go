package program

import "errors"

// Every rejection maps to exactly one of these kinds. Checks fail fast
// and the engine discards all in-call mutations, so a caller never
// observes a partially applied operation.
var (
	ErrInvalidInstruction      = errors.New("invalid instruction data")
	ErrNotEnoughAccounts       = errors.New("not enough accounts")
	ErrMissingSignature        = errors.New("missing required signature")
	ErrInvalidArgument         = errors.New("invalid argument")
	ErrAccountNotDeterministic = errors.New("account not generated deterministically")
	ErrAccountNotAuthorized    = errors.New("account not authorized")
	ErrAccountNotRentExempt    = errors.New("account not rent exempt")
	ErrWrongOwner              = errors.New("account owned by the wrong authority")
	ErrWrongProfileOwner       = errors.New("profile must be owned by the program")
	ErrWrongThreadOwner        = errors.New("thread must be owned by the program")
	ErrWrongGroupThreadOwner   = errors.New("group thread must be owned by the program")
	ErrWrongMessageOwner       = errors.New("message must be owned by the program")
	ErrWrongGroupOwner         = errors.New("wrong group owner")
	ErrWrongSystemProgram      = errors.New("wrong system program account")
	ErrWrongTokenProgram       = errors.New("wrong token program account")
	ErrWrongVault              = errors.New("wrong protocol vault account")
	ErrWrongDestinationWallet  = errors.New("wrong destination wallet")
	ErrWrongTipReceiver        = errors.New("wrong tip receiver")
	ErrNonSupportedMessageType = errors.New("non supported message type")
	ErrChatMuted               = errors.New("chat is muted")
	ErrDMClosed                = errors.New("receiver does not allow direct messages")
	ErrInvalidHashLength       = errors.New("invalid hash length")
)
