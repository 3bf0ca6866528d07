package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"courier/pkg/keys"
	"courier/pkg/ledger"
	"courier/pkg/program"
)

// instructionRequest is the wire form of one call: the ordered account
// table plus the instruction payload, base64-encoded.
type instructionRequest struct {
	Accounts []accountMetaJSON `json:"accounts"`
	Data     string            `json:"data"`
}

type accountMetaJSON struct {
	Key      string `json:"key"`
	Signer   bool   `json:"signer"`
	Writable bool   `json:"writable"`
}

// submitInstruction handles POST /v1/instructions. The call either
// commits fully or changes nothing; rejections come back as 422 with
// the program's error string.
func (s *Server) submitInstruction(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req instructionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}
	if len(req.Accounts) == 0 {
		http.Error(w, `{"error":"accounts missing"}`, http.StatusBadRequest)
		return
	}
	data, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		http.Error(w, `{"error":"data is not valid base64"}`, http.StatusBadRequest)
		return
	}

	call := ledger.Call{Data: data, Accounts: make([]ledger.AccountMeta, 0, len(req.Accounts))}
	for _, m := range req.Accounts {
		key, err := keys.Parse(m.Key)
		if err != nil {
			http.Error(w, `{"error":"invalid account key `+m.Key+`"}`, http.StatusBadRequest)
			return
		}
		call.Accounts = append(call.Accounts, ledger.AccountMeta{Key: key, Signer: m.Signer, Writable: m.Writable})
	}

	if err := s.Engine.Execute(call); err != nil {
		status := http.StatusUnprocessableEntity
		switch {
		case errors.Is(err, program.ErrInvalidInstruction):
			status = http.StatusBadRequest
		case strings.Contains(err.Error(), "commit failed"):
			status = http.StatusInternalServerError
		}
		writeError(w, status, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"committed"}`))
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(struct {
		Error string `json:"error"`
	}{Error: err.Error()})
}
