package program_test

import (
	"crypto/sha256"
	"errors"
	"testing"

	"courier/pkg/instr"
	"courier/pkg/keys"
	"courier/pkg/ledger"
	"courier/pkg/program"
	"courier/pkg/state"
)

func testKey(label string) keys.Pubkey {
	return keys.Pubkey(sha256.Sum256([]byte(label)))
}

type env struct {
	t      *testing.T
	store  *ledger.MemStore
	clock  *ledger.ManualClock
	engine *ledger.Engine
	prog   *program.Program
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := ledger.NewMemStore()
	clock := &ledger.ManualClock{Unix: 1700000000}
	prog := program.New(testKey("program-id"), testKey("protocol-vault"))
	engine := ledger.NewEngine(store, clock, prog)
	engine.OpName = instr.Name
	return &env{t: t, store: store, clock: clock, engine: engine, prog: prog}
}

func (e *env) fund(key keys.Pubkey, lamports uint64) {
	e.store.SetAccount(&ledger.Account{Key: key, Owner: ledger.SystemProgram, Lamports: lamports})
}

func (e *env) account(key keys.Pubkey) *ledger.Account {
	acc, err := e.store.GetAccount(key)
	if err != nil {
		e.t.Fatalf("get account: %v", err)
	}
	return acc
}

func (e *env) mustExecute(call ledger.Call) {
	e.t.Helper()
	if err := e.engine.Execute(call); err != nil {
		e.t.Fatalf("execute: %v", err)
	}
}

func (e *env) createProfile(owner keys.Pubkey, price uint64) keys.Pubkey {
	e.t.Helper()
	profileKey, _, err := state.ProfileKey(owner, e.prog.ID)
	if err != nil {
		e.t.Fatalf("profile key: %v", err)
	}
	e.mustExecute(instr.CreateProfile(profileKey, owner, owner, &instr.CreateProfileParams{
		PictureHash:        "bafy",
		DisplayName:        "user",
		Bio:                "bio",
		LamportsPerMessage: price,
	}))
	return profileKey
}

func (e *env) createThread(a, b keys.Pubkey) keys.Pubkey {
	e.t.Helper()
	threadKey, _, err := state.ThreadKey(a, b, e.prog.ID)
	if err != nil {
		e.t.Fatalf("thread key: %v", err)
	}
	e.mustExecute(instr.CreateThread(threadKey, a, &instr.CreateThreadParams{
		SenderKey:   a,
		ReceiverKey: b,
	}))
	return threadKey
}

func (e *env) sendMessage(sender, receiver keys.Pubkey, index uint32, text string) (keys.Pubkey, error) {
	e.t.Helper()
	threadKey, _, err := state.ThreadKey(sender, receiver, e.prog.ID)
	if err != nil {
		e.t.Fatalf("thread key: %v", err)
	}
	messageKey, _, err := state.MessageKey(index, sender, receiver, e.prog.ID)
	if err != nil {
		e.t.Fatalf("message key: %v", err)
	}
	receiverProfile, _, err := state.ProfileKey(receiver, e.prog.ID)
	if err != nil {
		e.t.Fatalf("profile key: %v", err)
	}
	call := instr.SendMessage(sender, receiver, threadKey, receiverProfile, messageKey, e.prog.Vault, &instr.SendMessageParams{
		Kind:    state.KindUnencryptedText,
		Message: []byte(text),
	})
	return messageKey, e.engine.Execute(call)
}

func TestCreateProfileAllowsDMByDefault(t *testing.T) {
	e := newEnv(t)
	owner := testKey("alice")
	e.fund(owner, 10_000_000_000)

	profileKey := e.createProfile(owner, 42)

	acc := e.account(profileKey)
	record, err := state.ProfileFromBytes(acc.Data)
	if err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if !record.AllowDM {
		t.Fatal("new profile should allow direct messages")
	}
	if record.LamportsPerMessage != 42 {
		t.Fatalf("price = %d, want 42", record.LamportsPerMessage)
	}
	if acc.Owner != e.prog.ID {
		t.Fatalf("profile owner = %s, want program", acc.Owner)
	}
	if len(acc.Data) != state.MaxProfileLen {
		t.Fatalf("profile storage = %d bytes, want %d", len(acc.Data), state.MaxProfileLen)
	}
}

func TestSetUserProfileRequiresSignature(t *testing.T) {
	e := newEnv(t)
	owner := testKey("alice")
	e.fund(owner, 10_000_000_000)
	profileKey := e.createProfile(owner, 0)

	call := instr.SetUserProfile(owner, profileKey, &instr.SetUserProfileParams{AllowDM: true})
	call.Accounts[0].Signer = false
	if err := e.engine.Execute(call); !errors.Is(err, program.ErrMissingSignature) {
		t.Fatalf("err = %v, want ErrMissingSignature", err)
	}
}

func TestSendMessageSequence(t *testing.T) {
	e := newEnv(t)
	alice, bob := testKey("alice"), testKey("bob")
	e.fund(alice, 10_000_000_000)
	e.fund(bob, 10_000_000_000)

	threadKey := e.createThread(alice, bob)

	for i := uint32(0); i < 5; i++ {
		msgKey, err := e.sendMessage(alice, bob, i, "hello")
		if err != nil {
			t.Fatalf("send %d: %v", i, err)
		}
		acc := e.account(msgKey)
		record, err := state.MessageFromBytes(acc.Data)
		if err != nil {
			t.Fatalf("decode message %d: %v", i, err)
		}
		if string(record.Payload) != "hello" {
			t.Fatalf("payload = %q", record.Payload)
		}
		if record.Sender != alice {
			t.Fatal("wrong message sender")
		}
	}

	acc := e.account(threadKey)
	record, err := state.ThreadFromBytes(acc.Data)
	if err != nil {
		t.Fatalf("decode thread: %v", err)
	}
	if record.MsgCount != 5 {
		t.Fatalf("msg count = %d, want 5", record.MsgCount)
	}

	// Replaying an occupied index hits a program-owned message account.
	if _, err := e.sendMessage(alice, bob, 3, "replay"); !errors.Is(err, program.ErrWrongOwner) {
		t.Fatalf("err = %v, want ErrWrongOwner", err)
	}

	// A future index derives an empty account whose key cannot match the
	// counter, so the derivation check rejects it.
	if _, err := e.sendMessage(alice, bob, 7, "skip ahead"); !errors.Is(err, program.ErrAccountNotDeterministic) {
		t.Fatalf("err = %v, want ErrAccountNotDeterministic", err)
	}
}

func TestSendMessageFeeRouting(t *testing.T) {
	e := newEnv(t)
	alice, bob := testKey("alice"), testKey("bob")
	e.fund(alice, 10_000_000_000)
	e.fund(bob, 1_000_000_000)

	const price = 1_000_000
	e.createProfile(bob, price)
	e.createThread(alice, bob)

	bobBefore := e.account(bob).Lamports
	vaultBefore := e.account(e.prog.Vault).Lamports

	if _, err := e.sendMessage(alice, bob, 0, "paid"); err != nil {
		t.Fatalf("send: %v", err)
	}

	gotPayout := e.account(bob).Lamports - bobBefore
	gotFee := e.account(e.prog.Vault).Lamports - vaultBefore
	if gotPayout != 990_000 {
		t.Fatalf("payout = %d, want 990000", gotPayout)
	}
	if gotFee != 10_000 {
		t.Fatalf("fee = %d, want 10000", gotFee)
	}
	if gotPayout+gotFee != price {
		t.Fatalf("payout+fee = %d, want %d", gotPayout+gotFee, price)
	}
}

func TestSendMessageDMClosed(t *testing.T) {
	e := newEnv(t)
	alice, bob := testKey("alice"), testKey("bob")
	e.fund(alice, 10_000_000_000)
	e.fund(bob, 1_000_000_000)

	profileKey := e.createProfile(bob, 2_000_000_000)
	e.mustExecute(instr.SetUserProfile(bob, profileKey, &instr.SetUserProfileParams{
		LamportsPerMessage: 2_000_000_000,
		AllowDM:            false,
	}))
	e.createThread(alice, bob)

	aliceBefore := e.account(alice).Lamports
	bobBefore := e.account(bob).Lamports

	msgKey, err := e.sendMessage(alice, bob, 0, "knock")
	if !errors.Is(err, program.ErrDMClosed) {
		t.Fatalf("err = %v, want ErrDMClosed", err)
	}

	// The rejection is atomic: no message record, no transfer.
	if len(e.account(msgKey).Data) != 0 {
		t.Fatal("message record created despite rejection")
	}
	if e.account(alice).Lamports != aliceBefore || e.account(bob).Lamports != bobBefore {
		t.Fatal("balances changed despite rejection")
	}
}

func TestSendMessageNoProfileNoTransfer(t *testing.T) {
	e := newEnv(t)
	alice, bob := testKey("alice"), testKey("bob")
	e.fund(alice, 10_000_000_000)
	e.fund(bob, 1_000_000_000)
	e.createThread(alice, bob)

	bobBefore := e.account(bob).Lamports
	if _, err := e.sendMessage(alice, bob, 0, "free"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if e.account(bob).Lamports != bobBefore {
		t.Fatal("transfer occurred without a receiver profile")
	}
}

func TestDeleteMessageRefund(t *testing.T) {
	e := newEnv(t)
	alice, bob := testKey("alice"), testKey("bob")
	e.fund(alice, 10_000_000_000)
	e.fund(bob, 1_000_000_000)
	e.createThread(alice, bob)

	msgKey, err := e.sendMessage(alice, bob, 0, "regret")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	backing := e.account(msgKey).Lamports
	if backing == 0 {
		t.Fatal("message has no backing funds")
	}

	aliceBefore := e.account(alice).Lamports
	e.mustExecute(instr.DeleteMessage(alice, bob, msgKey, &instr.DeleteMessageParams{MessageIndex: 0}))

	acc := e.account(msgKey)
	record, err := state.MessageFromBytes(acc.Data)
	if err != nil {
		t.Fatalf("decode tombstone: %v", err)
	}
	if record.Kind != state.KindDeleted {
		t.Fatalf("kind = %d, want deleted", record.Kind)
	}
	if acc.Lamports != 0 {
		t.Fatalf("message retains %d lamports", acc.Lamports)
	}
	if got := e.account(alice).Lamports - aliceBefore; got != backing {
		t.Fatalf("refund = %d, want %d", got, backing)
	}

	// Deleting again moves nothing.
	afterFirst := e.account(alice).Lamports
	e.mustExecute(instr.DeleteMessage(alice, bob, msgKey, &instr.DeleteMessageParams{MessageIndex: 0}))
	if e.account(alice).Lamports != afterFirst {
		t.Fatal("second delete refunded again")
	}
}

func TestDeleteMessageOnlySender(t *testing.T) {
	e := newEnv(t)
	alice, bob := testKey("alice"), testKey("bob")
	e.fund(alice, 10_000_000_000)
	e.fund(bob, 10_000_000_000)
	e.createThread(alice, bob)

	msgKey, err := e.sendMessage(alice, bob, 0, "mine")
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	// The pair seeds are symmetric, so bob resolves the same message
	// address; the stored sender field is what stops him.
	call := instr.DeleteMessage(bob, alice, msgKey, &instr.DeleteMessageParams{MessageIndex: 0})
	if err := e.engine.Execute(call); !errors.Is(err, program.ErrAccountNotAuthorized) {
		t.Fatalf("err = %v, want ErrAccountNotAuthorized", err)
	}
}

func (e *env) createGroup(owner keys.Pubkey, name string, params *instr.CreateGroupThreadParams) keys.Pubkey {
	e.t.Helper()
	groupKey, _, err := state.GroupThreadKey(name, owner, e.prog.ID)
	if err != nil {
		e.t.Fatalf("group key: %v", err)
	}
	params.GroupName = name
	params.Owner = owner
	e.mustExecute(instr.CreateGroupThread(groupKey, owner, params))
	return groupKey
}

func (e *env) sendGroupMessage(sender, groupKey, destination keys.Pubkey, index uint32, params *instr.SendMessageGroupParams) (keys.Pubkey, error) {
	e.t.Helper()
	messageKey, _, err := state.MessageKey(index, groupKey, groupKey, e.prog.ID)
	if err != nil {
		e.t.Fatalf("message key: %v", err)
	}
	call := instr.SendMessageGroup(sender, groupKey, destination, messageKey, e.prog.Vault, params)
	return messageKey, e.engine.Execute(call)
}

func TestGroupAdminOnlyPosting(t *testing.T) {
	e := newEnv(t)
	owner, admin, lurker := testKey("owner"), testKey("admin"), testKey("lurker")
	dest := testKey("group-dest")
	for _, k := range []keys.Pubkey{owner, admin, lurker} {
		e.fund(k, 10_000_000_000)
	}

	groupKey := e.createGroup(owner, "ops", &instr.CreateGroupThreadParams{
		Visible:           true,
		DestinationWallet: dest,
		Admins:            []keys.Pubkey{admin},
		AdminOnly:         true,
	})

	// Owner posts without an index.
	if _, err := e.sendGroupMessage(owner, groupKey, dest, 0, &instr.SendMessageGroupParams{
		Kind:      state.KindUnencryptedText,
		GroupName: "ops",
		Message:   []byte("hi"),
	}); err != nil {
		t.Fatalf("owner post: %v", err)
	}

	// Admin posts with the matching index.
	idx := uint64(0)
	if _, err := e.sendGroupMessage(admin, groupKey, dest, 1, &instr.SendMessageGroupParams{
		Kind:       state.KindUnencryptedText,
		AdminIndex: &idx,
		GroupName:  "ops",
		Message:    []byte("hi"),
	}); err != nil {
		t.Fatalf("admin post: %v", err)
	}

	// A non-admin with no index is muted.
	if _, err := e.sendGroupMessage(lurker, groupKey, dest, 2, &instr.SendMessageGroupParams{
		Kind:      state.KindUnencryptedText,
		GroupName: "ops",
		Message:   []byte("hi"),
	}); !errors.Is(err, program.ErrChatMuted) {
		t.Fatalf("err = %v, want ErrChatMuted", err)
	}

	// A non-admin pointing at someone else's admin slot is muted too.
	if _, err := e.sendGroupMessage(lurker, groupKey, dest, 2, &instr.SendMessageGroupParams{
		Kind:       state.KindUnencryptedText,
		AdminIndex: &idx,
		GroupName:  "ops",
		Message:    []byte("hi"),
	}); !errors.Is(err, program.ErrChatMuted) {
		t.Fatalf("err = %v, want ErrChatMuted", err)
	}

	// An out-of-range index is its own error, never a panic.
	bad := uint64(7)
	if _, err := e.sendGroupMessage(lurker, groupKey, dest, 2, &instr.SendMessageGroupParams{
		Kind:       state.KindUnencryptedText,
		AdminIndex: &bad,
		GroupName:  "ops",
		Message:    []byte("hi"),
	}); !errors.Is(err, state.ErrInvalidAdminIndex) {
		t.Fatalf("err = %v, want ErrInvalidAdminIndex", err)
	}
}

func TestGroupFeeExemptions(t *testing.T) {
	e := newEnv(t)
	owner, admin, member := testKey("owner"), testKey("admin"), testKey("member")
	dest := testKey("group-dest")
	for _, k := range []keys.Pubkey{owner, admin, member} {
		e.fund(k, 10_000_000_000)
	}
	e.fund(dest, 1_000_000)

	const price = 1_000_000
	groupKey := e.createGroup(owner, "fees", &instr.CreateGroupThreadParams{
		Visible:            true,
		DestinationWallet:  dest,
		LamportsPerMessage: price,
		Admins:             []keys.Pubkey{admin},
	})

	// A plain member pays the full price, split between wallet and vault.
	destBefore := e.account(dest).Lamports
	vaultBefore := e.account(e.prog.Vault).Lamports
	if _, err := e.sendGroupMessage(member, groupKey, dest, 0, &instr.SendMessageGroupParams{
		Kind:      state.KindUnencryptedText,
		GroupName: "fees",
		Message:   []byte("paid"),
	}); err != nil {
		t.Fatalf("member post: %v", err)
	}
	if got := e.account(dest).Lamports - destBefore; got != 990_000 {
		t.Fatalf("payout = %d, want 990000", got)
	}
	if got := e.account(e.prog.Vault).Lamports - vaultBefore; got != 10_000 {
		t.Fatalf("fee = %d, want 10000", got)
	}

	// An admin posting with their index is fee exempt.
	idx := uint64(0)
	destBefore = e.account(dest).Lamports
	adminBefore := e.account(admin).Lamports
	msgKey, err := e.sendGroupMessage(admin, groupKey, dest, 1, &instr.SendMessageGroupParams{
		Kind:       state.KindUnencryptedText,
		AdminIndex: &idx,
		GroupName:  "fees",
		Message:    []byte("free"),
	})
	if err != nil {
		t.Fatalf("admin post: %v", err)
	}
	if e.account(dest).Lamports != destBefore {
		t.Fatal("admin paid the per-message price")
	}
	backing := e.account(msgKey).Lamports
	if spent := adminBefore - e.account(admin).Lamports; spent != backing {
		t.Fatalf("admin spent %d, want only the %d storage backing", spent, backing)
	}
}

func TestGroupMediaDisabled(t *testing.T) {
	e := newEnv(t)
	owner := testKey("owner")
	dest := testKey("group-dest")
	e.fund(owner, 10_000_000_000)

	groupKey := e.createGroup(owner, "text-only", &instr.CreateGroupThreadParams{
		Visible:           true,
		DestinationWallet: dest,
	})

	if _, err := e.sendGroupMessage(owner, groupKey, dest, 0, &instr.SendMessageGroupParams{
		Kind:      state.KindUnencryptedMedia,
		GroupName: "text-only",
		Message:   []byte{0x1},
	}); !errors.Is(err, program.ErrNonSupportedMessageType) {
		t.Fatalf("err = %v, want ErrNonSupportedMessageType", err)
	}
}

func TestGroupAdminList(t *testing.T) {
	e := newEnv(t)
	owner, admin := testKey("owner"), testKey("admin")
	e.fund(owner, 10_000_000_000)

	groupKey := e.createGroup(owner, "staff", &instr.CreateGroupThreadParams{
		Visible:           true,
		DestinationWallet: testKey("group-dest"),
	})

	e.mustExecute(instr.AddAdminToGroup(groupKey, owner, &instr.AddAdminToGroupParams{AdminAddress: admin}))

	record, err := state.GroupThreadFromBytes(e.account(groupKey).Data)
	if err != nil {
		t.Fatalf("decode group: %v", err)
	}
	if len(record.Admins) != 1 || record.Admins[0] != admin {
		t.Fatalf("admins = %v", record.Admins)
	}

	// Removing with a mismatched entry at the index fails.
	call := instr.RemoveAdminFromGroup(groupKey, owner, &instr.RemoveAdminFromGroupParams{
		AdminAddress: testKey("somebody-else"),
		AdminIndex:   0,
	})
	if err := e.engine.Execute(call); !errors.Is(err, state.ErrInvalidAdminIndex) {
		t.Fatalf("err = %v, want ErrInvalidAdminIndex", err)
	}

	e.mustExecute(instr.RemoveAdminFromGroup(groupKey, owner, &instr.RemoveAdminFromGroupParams{
		AdminAddress: admin,
		AdminIndex:   0,
	}))
	record, err = state.GroupThreadFromBytes(e.account(groupKey).Data)
	if err != nil {
		t.Fatalf("decode group: %v", err)
	}
	if len(record.Admins) != 0 {
		t.Fatalf("admins = %v, want empty", record.Admins)
	}
}

func TestDeleteGroupMessageAuthorization(t *testing.T) {
	e := newEnv(t)
	owner, member, stranger := testKey("owner"), testKey("member"), testKey("stranger")
	dest := testKey("group-dest")
	for _, k := range []keys.Pubkey{owner, member, stranger} {
		e.fund(k, 10_000_000_000)
	}

	groupKey := e.createGroup(owner, "mods", &instr.CreateGroupThreadParams{
		Visible:           true,
		DestinationWallet: dest,
	})
	msgKey, err := e.sendGroupMessage(member, groupKey, dest, 0, &instr.SendMessageGroupParams{
		Kind:      state.KindUnencryptedText,
		GroupName: "mods",
		Message:   []byte("off topic"),
	})
	if err != nil {
		t.Fatalf("post: %v", err)
	}

	params := &instr.DeleteGroupMessageParams{MessageIndex: 0, Owner: owner, GroupName: "mods"}

	if err := e.engine.Execute(instr.DeleteGroupMessage(groupKey, msgKey, stranger, params)); !errors.Is(err, program.ErrAccountNotAuthorized) {
		t.Fatalf("err = %v, want ErrAccountNotAuthorized", err)
	}

	ownerBefore := e.account(owner).Lamports
	backing := e.account(msgKey).Lamports
	e.mustExecute(instr.DeleteGroupMessage(groupKey, msgKey, owner, params))

	record, err := state.MessageFromBytes(e.account(msgKey).Data)
	if err != nil {
		t.Fatalf("decode tombstone: %v", err)
	}
	if record.Kind != state.KindDeleted {
		t.Fatalf("kind = %d, want deleted", record.Kind)
	}
	if got := e.account(owner).Lamports - ownerBefore; got != backing {
		t.Fatalf("refund = %d, want %d", got, backing)
	}
}

func TestGroupIndex(t *testing.T) {
	e := newEnv(t)
	owner := testKey("owner")
	e.fund(owner, 10_000_000_000)

	groupKey := e.createGroup(owner, "indexed", &instr.CreateGroupThreadParams{
		Visible:           true,
		DestinationWallet: testKey("group-dest"),
	})

	indexKey, _, err := state.GroupThreadIndexKey("indexed", groupKey, owner, e.prog.ID)
	if err != nil {
		t.Fatalf("index key: %v", err)
	}
	e.mustExecute(instr.CreateGroupIndex(indexKey, owner, &instr.CreateGroupIndexParams{
		GroupName:      "indexed",
		GroupThreadKey: groupKey,
		Owner:          owner,
	}))

	record, err := state.GroupThreadIndexFromBytes(e.account(indexKey).Data)
	if err != nil {
		t.Fatalf("decode index: %v", err)
	}
	if record.GroupThreadKey != groupKey {
		t.Fatal("index points at the wrong group")
	}
}

func TestSendTip(t *testing.T) {
	e := newEnv(t)
	alice, bob := testKey("alice"), testKey("bob")
	e.fund(alice, 10_000_000_000)
	e.fund(bob, 10_000_000_000)

	aliceProfile := e.createProfile(alice, 0)
	bobProfile := e.createProfile(bob, 0)

	source := testKey("alice-tokens")
	destination := testKey("bob-tokens")
	e.store.SetAccount(&ledger.Account{Key: source, Owner: ledger.TokenProgram, Data: ledger.NewTokenAccountData(alice, 500)})
	e.store.SetAccount(&ledger.Account{Key: destination, Owner: ledger.TokenProgram, Data: ledger.NewTokenAccountData(bob, 0)})

	e.mustExecute(instr.SendTip(aliceProfile, alice, bobProfile, bob, source, destination, &instr.SendTipParams{Amount: 150}))

	srcAcc, err := e.store.GetAccount(source)
	if err != nil {
		t.Fatalf("get source: %v", err)
	}
	src, err := ledger.ParseTokenAccount(&ledger.AccountInfo{Key: source, Owner: srcAcc.Owner, Data: srcAcc.Data})
	if err != nil {
		t.Fatalf("parse source: %v", err)
	}
	if src.Amount != 350 {
		t.Fatalf("source amount = %d, want 350", src.Amount)
	}

	from, err := state.ProfileFromBytes(e.account(aliceProfile).Data)
	if err != nil {
		t.Fatalf("decode sender profile: %v", err)
	}
	to, err := state.ProfileFromBytes(e.account(bobProfile).Data)
	if err != nil {
		t.Fatalf("decode receiver profile: %v", err)
	}
	if from.TipsSent != 1 || to.TipsReceived != 1 {
		t.Fatalf("tip counters = %d/%d, want 1/1", from.TipsSent, to.TipsReceived)
	}
}

func TestSendTipWrongReceiver(t *testing.T) {
	e := newEnv(t)
	alice, bob, mallory := testKey("alice"), testKey("bob"), testKey("mallory")
	e.fund(alice, 10_000_000_000)
	e.fund(bob, 10_000_000_000)

	aliceProfile := e.createProfile(alice, 0)
	bobProfile := e.createProfile(bob, 0)

	source := testKey("alice-tokens")
	destination := testKey("mallory-tokens")
	e.store.SetAccount(&ledger.Account{Key: source, Owner: ledger.TokenProgram, Data: ledger.NewTokenAccountData(alice, 500)})
	e.store.SetAccount(&ledger.Account{Key: destination, Owner: ledger.TokenProgram, Data: ledger.NewTokenAccountData(mallory, 0)})

	call := instr.SendTip(aliceProfile, alice, bobProfile, bob, source, destination, &instr.SendTipParams{Amount: 1})
	if err := e.engine.Execute(call); !errors.Is(err, program.ErrWrongTipReceiver) {
		t.Fatalf("err = %v, want ErrWrongTipReceiver", err)
	}
}

func TestCreateSubscription(t *testing.T) {
	e := newEnv(t)
	alice, bob := testKey("alice"), testKey("bob")
	e.fund(alice, 10_000_000_000)

	subKey, _, err := state.SubscriptionKey(alice, bob, e.prog.ID)
	if err != nil {
		t.Fatalf("subscription key: %v", err)
	}
	e.mustExecute(instr.CreateSubscription(subKey, alice, &instr.CreateSubscriptionParams{SubscribedTo: bob}))

	record, err := state.SubscriptionFromBytes(e.account(subKey).Data)
	if err != nil {
		t.Fatalf("decode subscription: %v", err)
	}
	if record.Subscriber != alice || record.SubscribedTo != bob {
		t.Fatal("subscription stores the wrong pair")
	}

	// The same pair cannot subscribe twice.
	call := instr.CreateSubscription(subKey, alice, &instr.CreateSubscriptionParams{SubscribedTo: bob})
	if err := e.engine.Execute(call); !errors.Is(err, program.ErrWrongOwner) {
		t.Fatalf("err = %v, want ErrWrongOwner", err)
	}
}

func TestUnknownOpcodeRejected(t *testing.T) {
	e := newEnv(t)
	err := e.engine.Execute(ledger.Call{Data: []byte{0xEE}})
	if !errors.Is(err, program.ErrInvalidInstruction) {
		t.Fatalf("err = %v, want ErrInvalidInstruction", err)
	}
}
