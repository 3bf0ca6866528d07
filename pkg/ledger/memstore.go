package ledger

import (
	"sort"
	"sync"

	"courier/pkg/keys"
)

// MemStore is an in-memory account store used by tests and ephemeral
// nodes. Commits replace whole accounts, mirroring the durable store.
type MemStore struct {
	mu   sync.RWMutex
	accs map[keys.Pubkey]*Account
}

func NewMemStore() *MemStore {
	return &MemStore{accs: make(map[keys.Pubkey]*Account)}
}

func (m *MemStore) GetAccount(key keys.Pubkey) (*Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if a, ok := m.accs[key]; ok {
		data := make([]byte, len(a.Data))
		copy(data, a.Data)
		return &Account{Key: a.Key, Owner: a.Owner, Lamports: a.Lamports, Data: data}, nil
	}
	return &Account{Key: key, Owner: SystemProgram}, nil
}

func (m *MemStore) CommitAccounts(accs []*Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range accs {
		data := make([]byte, len(a.Data))
		copy(data, a.Data)
		m.accs[a.Key] = &Account{Key: a.Key, Owner: a.Owner, Lamports: a.Lamports, Data: data}
	}
	return nil
}

// ListAccountKeys returns the base58 keys of all stored accounts.
func (m *MemStore) ListAccountKeys() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.accs))
	for k := range m.accs {
		out = append(out, k.String())
	}
	sort.Strings(out)
	return out, nil
}

// SetAccount seeds an account directly, bypassing execution. Test helper.
func (m *MemStore) SetAccount(a *Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accs[a.Key] = a
}
