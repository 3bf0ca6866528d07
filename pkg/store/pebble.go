// Package store persists ledger accounts in Pebble. One key per account,
// committed in atomic batches so a call either fully lands or not at all.
package store

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"path/filepath"

	"github.com/cockroachdb/pebble"

	"courier/pkg/keys"
	"courier/pkg/ledger"
	"courier/pkg/logger"
	"courier/pkg/telemetry"
)

const accountPrefix = "account:"

// DB wraps a Pebble database holding one record per ledger account.
type DB struct {
	pebble *pebble.DB
	path   string
}

// Open opens (or creates) the account store at the given path.
func Open(path string) (*DB, error) {
	logger.Info("opening_store", "path", path)
	p, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		logger.Error("store_open_failed", "path", path, "error", err)
		return nil, err
	}
	logger.Info("store_opened", "path", path)
	return &DB{pebble: p, path: path}, nil
}

// Close closes the underlying database.
func (d *DB) Close() error {
	if d.pebble == nil {
		return nil
	}
	err := d.pebble.Close()
	d.pebble = nil
	logger.Info("store_closed", "path", d.path)
	return err
}

func accountKey(k keys.Pubkey) []byte {
	return append([]byte(accountPrefix), []byte(k.String())...)
}

// Account values are owner(32) || lamports(8 LE) || data.
func encodeAccount(a *ledger.Account) []byte {
	out := make([]byte, 40+len(a.Data))
	copy(out[:32], a.Owner.Bytes())
	binary.LittleEndian.PutUint64(out[32:40], a.Lamports)
	copy(out[40:], a.Data)
	return out
}

func decodeAccount(key keys.Pubkey, v []byte) (*ledger.Account, error) {
	if len(v) < 40 {
		return nil, fmt.Errorf("corrupt account record for %s: %d bytes", key, len(v))
	}
	owner, _ := keys.FromBytes(v[:32])
	data := make([]byte, len(v)-40)
	copy(data, v[40:])
	return &ledger.Account{
		Key:      key,
		Owner:    owner,
		Lamports: binary.LittleEndian.Uint64(v[32:40]),
		Data:     data,
	}, nil
}

// GetAccount loads an account. Keys never written resolve to an empty
// system-owned account, matching the hosting ledger's semantics.
func (d *DB) GetAccount(key keys.Pubkey) (*ledger.Account, error) {
	if d.pebble == nil {
		return nil, fmt.Errorf("store not opened; call store.Open first")
	}
	v, closer, err := d.pebble.Get(accountKey(key))
	if err == pebble.ErrNotFound {
		return &ledger.Account{Key: key, Owner: ledger.SystemProgram}, nil
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	return decodeAccount(key, v)
}

// CommitAccounts writes a batch of accounts atomically and durably.
func (d *DB) CommitAccounts(accs []*ledger.Account) error {
	if d.pebble == nil {
		return fmt.Errorf("store not opened; call store.Open first")
	}
	b := d.pebble.NewBatch()
	defer b.Close()
	for _, a := range accs {
		if err := b.Set(accountKey(a.Key), encodeAccount(a), nil); err != nil {
			return err
		}
	}
	if err := b.Commit(pebble.Sync); err != nil {
		logger.Error("commit_failed", "accounts", len(accs), "error", err)
		return err
	}
	telemetry.CommitObserved(len(accs))
	return nil
}

// ListAccountKeys returns the base58 keys of all stored accounts, for
// operator tooling only; the protocol itself never enumerates.
func (d *DB) ListAccountKeys() ([]string, error) {
	if d.pebble == nil {
		return nil, fmt.Errorf("store not opened; call store.Open first")
	}
	prefix := []byte(accountPrefix)
	iter, err := d.pebble.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, err
	}
	defer iter.Close()
	var out []string
	for iter.SeekGE(prefix); iter.Valid(); iter.Next() {
		if !bytes.HasPrefix(iter.Key(), prefix) {
			break
		}
		out = append(out, string(iter.Key()[len(prefix):]))
	}
	return out, iter.Error()
}

// Checkpoint takes a consistent on-disk snapshot under the store's
// checkpoints directory, named by the caller (typically a timestamp).
func (d *DB) Checkpoint(name string) error {
	if d.pebble == nil {
		return fmt.Errorf("store not opened; call store.Open first")
	}
	dest := filepath.Join(d.path, "checkpoints", name)
	err := d.pebble.Checkpoint(dest)
	telemetry.CheckpointObserved(err)
	if err != nil {
		logger.Error("checkpoint_failed", "dest", dest, "error", err)
		return err
	}
	logger.Info("checkpoint_taken", "dest", dest)
	return nil
}
