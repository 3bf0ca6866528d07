package ledger_test

import (
	"crypto/sha256"
	"errors"
	"testing"

	"courier/pkg/keys"
	"courier/pkg/ledger"
)

func testKey(label string) keys.Pubkey {
	return keys.Pubkey(sha256.Sum256([]byte(label)))
}

// procFunc adapts a closure into a ledger.Processor.
type procFunc func(host ledger.Host, accounts []*ledger.AccountInfo, data []byte) error

func (f procFunc) Process(host ledger.Host, accounts []*ledger.AccountInfo, data []byte) error {
	return f(host, accounts, data)
}

func TestRentExemptMinimum(t *testing.T) {
	if got, want := ledger.RentExemptMinimum(0), uint64(128*3480*2); got != want {
		t.Fatalf("minimum for empty account = %d, want %d", got, want)
	}
	if !ledger.IsRentExempt(ledger.RentExemptMinimum(100), 100) {
		t.Fatalf("exact minimum should be exempt")
	}
	if ledger.IsRentExempt(ledger.RentExemptMinimum(100)-1, 100) {
		t.Fatalf("one lamport short should not be exempt")
	}
}

func TestEngineRollsBackRejectedCall(t *testing.T) {
	store := ledger.NewMemStore()
	payer := testKey("payer")
	store.SetAccount(&ledger.Account{Key: payer, Owner: ledger.SystemProgram, Lamports: 500})

	boom := errors.New("boom")
	proc := procFunc(func(host ledger.Host, accounts []*ledger.AccountInfo, data []byte) error {
		// Mutate first, fail afterwards. Nothing may leak to the store.
		accounts[0].Lamports = 0
		accounts[0].Data = []byte{1, 2, 3}
		return boom
	})
	engine := ledger.NewEngine(store, &ledger.ManualClock{Unix: 1}, proc)

	err := engine.Execute(ledger.Call{Accounts: []ledger.AccountMeta{{Key: payer, Signer: true, Writable: true}}})
	if !errors.Is(err, boom) {
		t.Fatalf("execute = %v, want boom", err)
	}
	acc, _ := store.GetAccount(payer)
	if acc.Lamports != 500 || len(acc.Data) != 0 {
		t.Fatalf("rejected call leaked mutations: %+v", acc)
	}
}

func TestEngineCommitsSuccessfulCall(t *testing.T) {
	store := ledger.NewMemStore()
	payer, target, owner := testKey("payer"), testKey("target"), testKey("owner-program")
	store.SetAccount(&ledger.Account{Key: payer, Owner: ledger.SystemProgram, Lamports: 1_000_000_000})

	proc := procFunc(func(host ledger.Host, accounts []*ledger.AccountInfo, data []byte) error {
		lamports := host.MinimumBalance(16)
		return host.CreateAccount(accounts[0], accounts[1], lamports, 16, owner)
	})
	engine := ledger.NewEngine(store, &ledger.ManualClock{Unix: 1}, proc)

	err := engine.Execute(ledger.Call{Accounts: []ledger.AccountMeta{
		{Key: payer, Signer: true, Writable: true},
		{Key: target, Writable: true},
	}})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	acc, _ := store.GetAccount(target)
	if acc.Owner != owner || len(acc.Data) != 16 || acc.Lamports != ledger.RentExemptMinimum(16) {
		t.Fatalf("created account wrong: %+v", acc)
	}
}

func TestEngineMergesAliasedAccounts(t *testing.T) {
	store := ledger.NewMemStore()
	key := testKey("aliased")
	store.SetAccount(&ledger.Account{Key: key, Owner: ledger.SystemProgram, Lamports: 10})

	proc := procFunc(func(host ledger.Host, accounts []*ledger.AccountInfo, data []byte) error {
		if accounts[0] != accounts[1] {
			return errors.New("aliased references resolve to different views")
		}
		if !accounts[0].Signer || !accounts[0].Writable {
			return errors.New("flags not merged across references")
		}
		return nil
	})
	engine := ledger.NewEngine(store, &ledger.ManualClock{Unix: 1}, proc)

	err := engine.Execute(ledger.Call{Accounts: []ledger.AccountMeta{
		{Key: key, Signer: true},
		{Key: key, Writable: true},
	}})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
}

func TestHostTransferChecks(t *testing.T) {
	store := ledger.NewMemStore()
	from, to := testKey("from"), testKey("to")
	store.SetAccount(&ledger.Account{Key: from, Owner: ledger.SystemProgram, Lamports: 100})

	run := func(metas []ledger.AccountMeta, lamports uint64) error {
		proc := procFunc(func(host ledger.Host, accounts []*ledger.AccountInfo, data []byte) error {
			return host.Transfer(accounts[0], accounts[1], lamports)
		})
		engine := ledger.NewEngine(store, &ledger.ManualClock{Unix: 1}, proc)
		return engine.Execute(ledger.Call{Accounts: metas})
	}

	err := run([]ledger.AccountMeta{{Key: from, Writable: true}, {Key: to}}, 10)
	if !errors.Is(err, ledger.ErrNotWritable) {
		t.Fatalf("read-only destination = %v, want ErrNotWritable", err)
	}
	err = run([]ledger.AccountMeta{{Key: from, Writable: true}, {Key: to, Writable: true}}, 1000)
	if !errors.Is(err, ledger.ErrInsufficientFunds) {
		t.Fatalf("overdraw = %v, want ErrInsufficientFunds", err)
	}
	if err := run([]ledger.AccountMeta{{Key: from, Writable: true}, {Key: to, Writable: true}}, 60); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	acc, _ := store.GetAccount(to)
	if acc.Lamports != 60 {
		t.Fatalf("destination balance = %d, want 60", acc.Lamports)
	}
}

func TestHostCreateAccountInUse(t *testing.T) {
	store := ledger.NewMemStore()
	payer, target := testKey("payer"), testKey("occupied")
	store.SetAccount(&ledger.Account{Key: payer, Owner: ledger.SystemProgram, Lamports: 1_000_000_000})
	store.SetAccount(&ledger.Account{Key: target, Owner: testKey("other-program"), Lamports: 1, Data: []byte{9}})

	proc := procFunc(func(host ledger.Host, accounts []*ledger.AccountInfo, data []byte) error {
		return host.CreateAccount(accounts[0], accounts[1], 1000, 8, testKey("owner"))
	})
	engine := ledger.NewEngine(store, &ledger.ManualClock{Unix: 1}, proc)

	err := engine.Execute(ledger.Call{Accounts: []ledger.AccountMeta{
		{Key: payer, Signer: true, Writable: true},
		{Key: target, Writable: true},
	}})
	if !errors.Is(err, ledger.ErrAccountInUse) {
		t.Fatalf("create over occupied account = %v, want ErrAccountInUse", err)
	}
}

func TestHostTokenTransfer(t *testing.T) {
	store := ledger.NewMemStore()
	alice, bob := testKey("alice"), testKey("bob")
	src, dst := testKey("alice-tokens"), testKey("bob-tokens")
	store.SetAccount(&ledger.Account{Key: src, Owner: ledger.TokenProgram, Lamports: 1, Data: ledger.NewTokenAccountData(alice, 500)})
	store.SetAccount(&ledger.Account{Key: dst, Owner: ledger.TokenProgram, Lamports: 1, Data: ledger.NewTokenAccountData(bob, 0)})

	run := func(authority keys.Pubkey, signer bool, amount uint64) error {
		proc := procFunc(func(host ledger.Host, accounts []*ledger.AccountInfo, data []byte) error {
			return host.TokenTransfer(accounts[0], accounts[1], accounts[2], amount)
		})
		engine := ledger.NewEngine(store, &ledger.ManualClock{Unix: 1}, proc)
		return engine.Execute(ledger.Call{Accounts: []ledger.AccountMeta{
			{Key: src, Writable: true},
			{Key: dst, Writable: true},
			{Key: authority, Signer: signer},
		}})
	}

	if err := run(bob, true, 10); !errors.Is(err, ledger.ErrTokenAuthority) {
		t.Fatalf("foreign authority = %v, want ErrTokenAuthority", err)
	}
	if err := run(alice, false, 10); !errors.Is(err, ledger.ErrTokenAuthority) {
		t.Fatalf("unsigned authority = %v, want ErrTokenAuthority", err)
	}
	if err := run(alice, true, 600); !errors.Is(err, ledger.ErrInsufficientFunds) {
		t.Fatalf("token overdraw = %v, want ErrInsufficientFunds", err)
	}
	if err := run(alice, true, 150); err != nil {
		t.Fatalf("token transfer: %v", err)
	}
	acc, _ := store.GetAccount(dst)
	tok, err := ledger.ParseTokenAccount(&ledger.AccountInfo{Key: dst, Owner: acc.Owner, Data: acc.Data})
	if err != nil {
		t.Fatalf("parse destination: %v", err)
	}
	if tok.Amount != 150 {
		t.Fatalf("destination amount = %d, want 150", tok.Amount)
	}
}
