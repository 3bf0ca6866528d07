// courier-inspect dumps accounts from a node's store for offline
// debugging. With no key it lists every stored address; with -key it
// decodes the record behind that address.
package main

import (
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"courier/pkg/keys"
	"courier/pkg/state"
	"courier/pkg/store"
)

func main() {
	dbPath := flag.String("db", "./.courierdb", "Pebble DB path")
	keyStr := flag.String("key", "", "base58 account address to dump")
	flag.Parse()

	db, err := store.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open store: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if *keyStr == "" {
		names, err := db.ListAccountKeys()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to list accounts: %v\n", err)
			os.Exit(1)
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return
	}

	key, err := keys.Parse(*keyStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid key: %v\n", err)
		os.Exit(2)
	}
	acc, err := db.GetAccount(key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read account: %v\n", err)
		os.Exit(1)
	}
	if acc.Lamports == 0 && len(acc.Data) == 0 {
		fmt.Fprintln(os.Stderr, "account not found")
		os.Exit(1)
	}

	out := map[string]any{
		"key":      acc.Key.String(),
		"owner":    acc.Owner.String(),
		"lamports": acc.Lamports,
		"data":     base64.StdEncoding.EncodeToString(acc.Data),
	}
	if rec := decodeRecord(acc.Data); rec != nil {
		out["record"] = rec
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
}

// decodeRecord tries each record layout by its leading tag byte. Foreign
// account data yields nil and the dump stays raw.
func decodeRecord(data []byte) any {
	switch state.PeekTag(data) {
	case state.TagProfile:
		if p, err := state.ProfileFromBytes(data); err == nil {
			return p
		}
	case state.TagThread:
		if t, err := state.ThreadFromBytes(data); err == nil {
			return t
		}
	case state.TagMessage:
		if m, err := state.MessageFromBytes(data); err == nil {
			return m
		}
	case state.TagGroupThread:
		if g, err := state.GroupThreadFromBytes(data); err == nil {
			return g
		}
	case state.TagGroupThreadIndex:
		if x, err := state.GroupThreadIndexFromBytes(data); err == nil {
			return x
		}
	case state.TagSubscription:
		if s, err := state.SubscriptionFromBytes(data); err == nil {
			return s
		}
	}
	return nil
}
