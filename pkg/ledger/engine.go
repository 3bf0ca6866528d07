package ledger

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"courier/pkg/keys"
	"courier/pkg/logger"
	"courier/pkg/telemetry"
)

// Host is the narrow interface through which the program consumes the
// ledger runtime: clock, rent rule and value-transfer primitives.
type Host interface {
	Now() int64
	MinimumBalance(dataLen int) uint64
	CreateAccount(payer, target *AccountInfo, lamports uint64, space int, owner keys.Pubkey) error
	Transfer(from, to *AccountInfo, lamports uint64) error
	TokenTransfer(source, destination, authority *AccountInfo, amount uint64) error
}

// Processor is the program side of the boundary: it receives the in-call
// account views and the raw instruction data.
type Processor interface {
	Process(host Host, accounts []*AccountInfo, data []byte) error
}

// Store abstracts account persistence. GetAccount returns a zero-value
// account for keys that have never been written; CommitAccounts persists
// a batch atomically.
type Store interface {
	GetAccount(key keys.Pubkey) (*Account, error)
	CommitAccounts(accs []*Account) error
}

// Call is one unit of execution: raw instruction data plus the ordered
// account references it touches.
type Call struct {
	Accounts []AccountMeta
	Data     []byte
}

// Engine executes calls one at a time against the store. A call either
// fully commits or leaves no trace; the mutex provides the serialization
// guarantee the program's counters rely on.
type Engine struct {
	mu    sync.Mutex
	store Store
	clock Clock
	proc  Processor

	// OpName, when set, maps an opcode byte to a metric label.
	OpName func(op byte) string
}

func NewEngine(store Store, clock Clock, proc Processor) *Engine {
	return &Engine{store: store, clock: clock, proc: proc}
}

// Execute runs one call to completion. Account views are copies; they are
// written back in a single atomic batch only if the processor succeeds.
func (e *Engine) Execute(call Call) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	op := "empty"
	if len(call.Data) > 0 {
		if e.OpName != nil {
			op = e.OpName(call.Data[0])
		} else {
			op = strconv.Itoa(int(call.Data[0]))
		}
	}

	infos, uniq, err := e.loadAccounts(call.Accounts)
	if err != nil {
		telemetry.InstructionProcessed(op, "load_error", time.Since(start))
		return err
	}

	host := &callHost{clock: e.clock}
	if err := e.proc.Process(host, infos, call.Data); err != nil {
		telemetry.InstructionProcessed(op, "rejected", time.Since(start))
		logger.Info("call_rejected", "op", op, "error", err)
		return err
	}

	out := make([]*Account, 0, len(uniq))
	for _, info := range uniq {
		out = append(out, &Account{
			Key:      info.Key,
			Owner:    info.Owner,
			Lamports: info.Lamports,
			Data:     info.Data,
		})
	}
	if err := e.store.CommitAccounts(out); err != nil {
		telemetry.InstructionProcessed(op, "commit_error", time.Since(start))
		return fmt.Errorf("commit failed: %w", err)
	}
	telemetry.InstructionProcessed(op, "ok", time.Since(start))
	return nil
}

// loadAccounts materializes the call's account views. A key referenced
// more than once resolves to the same view with signer/writable flags
// merged, so aliased mutations stay consistent.
func (e *Engine) loadAccounts(metas []AccountMeta) ([]*AccountInfo, []*AccountInfo, error) {
	infos := make([]*AccountInfo, 0, len(metas))
	uniq := make([]*AccountInfo, 0, len(metas))
	byKey := make(map[keys.Pubkey]*AccountInfo, len(metas))
	for _, m := range metas {
		if info, ok := byKey[m.Key]; ok {
			info.Signer = info.Signer || m.Signer
			info.Writable = info.Writable || m.Writable
			infos = append(infos, info)
			continue
		}
		acc, err := e.store.GetAccount(m.Key)
		if err != nil {
			return nil, nil, err
		}
		data := make([]byte, len(acc.Data))
		copy(data, acc.Data)
		info := &AccountInfo{
			Key:      m.Key,
			Owner:    acc.Owner,
			Lamports: acc.Lamports,
			Data:     data,
			Signer:   m.Signer,
			Writable: m.Writable,
		}
		byKey[m.Key] = info
		infos = append(infos, info)
		uniq = append(uniq, info)
	}
	return infos, uniq, nil
}

// callHost implements Host over the in-call account views.
type callHost struct {
	clock Clock
}

func (h *callHost) Now() int64 { return h.clock.Now() }

func (h *callHost) MinimumBalance(dataLen int) uint64 { return RentExemptMinimum(dataLen) }

func (h *callHost) CreateAccount(payer, target *AccountInfo, lamports uint64, space int, owner keys.Pubkey) error {
	if !payer.Writable || !target.Writable {
		return ErrNotWritable
	}
	if len(target.Data) > 0 || target.Owner != SystemProgram {
		return ErrAccountInUse
	}
	if payer.Lamports < lamports {
		return ErrInsufficientFunds
	}
	payer.Lamports -= lamports
	target.Lamports += lamports
	target.Data = make([]byte, space)
	target.Owner = owner
	return nil
}

func (h *callHost) Transfer(from, to *AccountInfo, lamports uint64) error {
	if !from.Writable || !to.Writable {
		return ErrNotWritable
	}
	if from.Lamports < lamports {
		return ErrInsufficientFunds
	}
	from.Lamports -= lamports
	to.Lamports += lamports
	return nil
}

func (h *callHost) TokenTransfer(source, destination, authority *AccountInfo, amount uint64) error {
	if !source.Writable || !destination.Writable {
		return ErrNotWritable
	}
	src, err := ParseTokenAccount(source)
	if err != nil {
		return err
	}
	dst, err := ParseTokenAccount(destination)
	if err != nil {
		return err
	}
	if !authority.Signer || authority.Key != src.Owner {
		return ErrTokenAuthority
	}
	if src.Amount < amount {
		return ErrInsufficientFunds
	}
	src.Amount -= amount
	dst.Amount += amount
	src.store(source)
	dst.store(destination)
	return nil
}
