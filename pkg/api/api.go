package api

import (
	"net/http"

	"courier/pkg/keys"
	"courier/pkg/ledger"
	"courier/pkg/program"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// AccountReader is the read side of the account store used by the
// query endpoints.
type AccountReader interface {
	GetAccount(key keys.Pubkey) (*ledger.Account, error)
	ListAccountKeys() ([]string, error)
}

// Server wires the execution engine and the account store behind the
// HTTP surface. Mutations go through the engine as whole instructions;
// reads derive record addresses and decode stored bytes.
type Server struct {
	Engine  *ledger.Engine
	Reader  AccountReader
	Program *program.Program
}

func New(engine *ledger.Engine, reader AccountReader, prog *program.Program) *Server {
	return &Server{Engine: engine, Reader: reader, Program: prog}
}

// Router returns the full route table, including health and metrics.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/instructions", s.submitInstruction).Methods(http.MethodPost)
	v1.HandleFunc("/accounts", s.listAccounts).Methods(http.MethodGet)
	v1.HandleFunc("/accounts/{key}", s.getAccount).Methods(http.MethodGet)
	v1.HandleFunc("/profiles/{owner}", s.getProfile).Methods(http.MethodGet)
	v1.HandleFunc("/threads/{a}/{b}", s.getThread).Methods(http.MethodGet)
	v1.HandleFunc("/threads/{a}/{b}/messages/{index}", s.getThreadMessage).Methods(http.MethodGet)
	v1.HandleFunc("/groups/{owner}/{name}", s.getGroup).Methods(http.MethodGet)
	v1.HandleFunc("/groups/{owner}/{name}/messages/{index}", s.getGroupMessage).Methods(http.MethodGet)
	v1.HandleFunc("/subscriptions/{subscriber}/{to}", s.getSubscription).Methods(http.MethodGet)

	return r
}
