package api

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"courier/pkg/keys"
	"courier/pkg/ledger"
	"courier/pkg/state"

	"github.com/gorilla/mux"
)

// accountJSON is the raw view of a stored account. Tag names the record
// kind when the account belongs to the messaging program.
type accountJSON struct {
	Key      string `json:"key"`
	Owner    string `json:"owner"`
	Lamports uint64 `json:"lamports"`
	Data     string `json:"data"`
	Tag      string `json:"tag,omitempty"`
}

func accountView(a *ledger.Account, programID keys.Pubkey) accountJSON {
	out := accountJSON{
		Key:      a.Key.String(),
		Owner:    a.Owner.String(),
		Lamports: a.Lamports,
		Data:     base64.StdEncoding.EncodeToString(a.Data),
	}
	if a.Owner == programID && len(a.Data) > 0 {
		out.Tag = tagName(state.PeekTag(a.Data))
	}
	return out
}

func tagName(t state.Tag) string {
	switch t {
	case state.TagProfile:
		return "profile"
	case state.TagThread:
		return "thread"
	case state.TagMessage:
		return "message"
	case state.TagGroupThread:
		return "group_thread"
	case state.TagGroupThreadIndex:
		return "group_thread_index"
	case state.TagSubscription:
		return "subscription"
	default:
		return "uninitialized"
	}
}

// getAccount handles GET /v1/accounts/{key}.
func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	key, err := keys.Parse(mux.Vars(r)["key"])
	if err != nil {
		http.Error(w, `{"error":"invalid account key"}`, http.StatusBadRequest)
		return
	}
	acc, err := s.Reader.GetAccount(key)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}
	if acc.Lamports == 0 && len(acc.Data) == 0 {
		http.Error(w, `{"error":"account not found"}`, http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(accountView(acc, s.Program.ID))
}

// listAccounts handles GET /v1/accounts and returns all known keys.
func (s *Server) listAccounts(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	names, err := s.Reader.ListAccountKeys()
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(struct {
		Accounts []string `json:"accounts"`
	}{Accounts: names})
}
