package api

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strconv"

	"courier/pkg/keys"
	"courier/pkg/ledger"
	"courier/pkg/state"

	"github.com/gorilla/mux"
)

// loadRecord fetches the account at a derived address and verifies it
// actually holds a program record. The zero-account case maps to 404.
func (s *Server) loadRecord(w http.ResponseWriter, address keys.Pubkey) (*ledger.Account, bool) {
	acc, err := s.Reader.GetAccount(address)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return nil, false
	}
	if len(acc.Data) == 0 || acc.Owner != s.Program.ID {
		http.Error(w, `{"error":"record not found"}`, http.StatusNotFound)
		return nil, false
	}
	return acc, true
}

func pathKey(w http.ResponseWriter, r *http.Request, name string) (keys.Pubkey, bool) {
	key, err := keys.Parse(mux.Vars(r)[name])
	if err != nil {
		http.Error(w, `{"error":"invalid `+name+` key"}`, http.StatusBadRequest)
		return keys.Zero, false
	}
	return key, true
}

func pathIndex(w http.ResponseWriter, r *http.Request) (uint32, bool) {
	idx, err := strconv.ParseUint(mux.Vars(r)["index"], 10, 32)
	if err != nil {
		http.Error(w, `{"error":"invalid message index"}`, http.StatusBadRequest)
		return 0, false
	}
	return uint32(idx), true
}

type profileJSON struct {
	Address            string `json:"address"`
	Owner              string `json:"owner"`
	PictureHash        string `json:"picture_hash"`
	DisplayName        string `json:"display_name"`
	Bio                string `json:"bio"`
	LamportsPerMessage uint64 `json:"lamports_per_message"`
	AllowDM            bool   `json:"allow_dm"`
	TipsSent           uint32 `json:"tips_sent"`
	TipsReceived       uint32 `json:"tips_received"`
}

// getProfile handles GET /v1/profiles/{owner}. The profile address is
// derived from the owner key, so callers never pass record addresses.
func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	owner, ok := pathKey(w, r, "owner")
	if !ok {
		return
	}
	address, _, err := state.ProfileKey(owner, s.Program.ID)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}
	acc, ok := s.loadRecord(w, address)
	if !ok {
		return
	}
	p, err := state.ProfileFromBytes(acc.Data)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(profileJSON{
		Address:            address.String(),
		Owner:              owner.String(),
		PictureHash:        p.PictureHash,
		DisplayName:        p.DisplayName,
		Bio:                p.Bio,
		LamportsPerMessage: p.LamportsPerMessage,
		AllowDM:            p.AllowDM,
		TipsSent:           p.TipsSent,
		TipsReceived:       p.TipsReceived,
	})
}

type threadJSON struct {
	Address         string `json:"address"`
	User1           string `json:"user1"`
	User2           string `json:"user2"`
	MsgCount        uint32 `json:"msg_count"`
	LastMessageTime int64  `json:"last_message_time"`
}

// getThread handles GET /v1/threads/{a}/{b}. Either participant order
// resolves to the same record.
func (s *Server) getThread(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	a, ok := pathKey(w, r, "a")
	if !ok {
		return
	}
	b, ok := pathKey(w, r, "b")
	if !ok {
		return
	}
	address, _, err := state.ThreadKey(a, b, s.Program.ID)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}
	acc, ok := s.loadRecord(w, address)
	if !ok {
		return
	}
	t, err := state.ThreadFromBytes(acc.Data)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(threadJSON{
		Address:         address.String(),
		User1:           t.User1.String(),
		User2:           t.User2.String(),
		MsgCount:        t.MsgCount,
		LastMessageTime: t.LastMessageTime,
	})
}

type messageJSON struct {
	Address       string `json:"address"`
	Index         uint32 `json:"index"`
	Kind          string `json:"kind"`
	Sender        string `json:"sender"`
	RepliesTo     string `json:"replies_to,omitempty"`
	Timestamp     int64  `json:"timestamp"`
	LikesCount    uint16 `json:"likes_count"`
	DislikesCount uint16 `json:"dislikes_count"`
	Payload       string `json:"payload"`
}

func kindName(k state.MessageKind) string {
	switch k {
	case state.KindEncryptedText:
		return "encrypted_text"
	case state.KindUnencryptedText:
		return "unencrypted_text"
	case state.KindEncryptedMedia:
		return "encrypted_media"
	case state.KindUnencryptedMedia:
		return "unencrypted_media"
	case state.KindDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

func (s *Server) writeMessage(w http.ResponseWriter, address keys.Pubkey, index uint32) {
	acc, ok := s.loadRecord(w, address)
	if !ok {
		return
	}
	m, err := state.MessageFromBytes(acc.Data)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}
	out := messageJSON{
		Address:       address.String(),
		Index:         index,
		Kind:          kindName(m.Kind),
		Sender:        m.Sender.String(),
		Timestamp:     m.Timestamp,
		LikesCount:    m.LikesCount,
		DislikesCount: m.DislikesCount,
		Payload:       base64.StdEncoding.EncodeToString(m.Payload),
	}
	if !m.RepliesTo.IsZero() {
		out.RepliesTo = m.RepliesTo.String()
	}
	_ = json.NewEncoder(w).Encode(out)
}

// getThreadMessage handles GET /v1/threads/{a}/{b}/messages/{index}.
func (s *Server) getThreadMessage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	a, ok := pathKey(w, r, "a")
	if !ok {
		return
	}
	b, ok := pathKey(w, r, "b")
	if !ok {
		return
	}
	index, ok := pathIndex(w, r)
	if !ok {
		return
	}
	address, _, err := state.MessageKey(index, a, b, s.Program.ID)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}
	s.writeMessage(w, address, index)
}

type groupJSON struct {
	Address            string   `json:"address"`
	Owner              string   `json:"owner"`
	GroupName          string   `json:"group_name"`
	Visible            bool     `json:"visible"`
	DestinationWallet  string   `json:"destination_wallet"`
	MsgCount           uint32   `json:"msg_count"`
	LamportsPerMessage uint64   `json:"lamports_per_message"`
	MediaEnabled       bool     `json:"media_enabled"`
	AdminOnly          bool     `json:"admin_only"`
	GroupPicHash       string   `json:"group_pic_hash,omitempty"`
	Admins             []string `json:"admins"`
	LastMessageTime    int64    `json:"last_message_time"`
}

func (s *Server) groupAddress(w http.ResponseWriter, r *http.Request) (keys.Pubkey, string, bool) {
	owner, ok := pathKey(w, r, "owner")
	if !ok {
		return keys.Zero, "", false
	}
	name := mux.Vars(r)["name"]
	if name == "" || len(name) > state.MaxGroupNameLen {
		http.Error(w, `{"error":"invalid group name"}`, http.StatusBadRequest)
		return keys.Zero, "", false
	}
	address, _, err := state.GroupThreadKey(name, owner, s.Program.ID)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return keys.Zero, "", false
	}
	return address, name, true
}

// getGroup handles GET /v1/groups/{owner}/{name}.
func (s *Server) getGroup(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	address, _, ok := s.groupAddress(w, r)
	if !ok {
		return
	}
	acc, ok := s.loadRecord(w, address)
	if !ok {
		return
	}
	g, err := state.GroupThreadFromBytes(acc.Data)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}
	admins := make([]string, 0, len(g.Admins))
	for _, a := range g.Admins {
		admins = append(admins, a.String())
	}
	out := groupJSON{
		Address:            address.String(),
		Owner:              g.Owner.String(),
		GroupName:          g.GroupName,
		Visible:            g.Visible,
		DestinationWallet:  g.DestinationWallet.String(),
		MsgCount:           g.MsgCount,
		LamportsPerMessage: g.LamportsPerMessage,
		MediaEnabled:       g.MediaEnabled,
		AdminOnly:          g.AdminOnly,
		Admins:             admins,
		LastMessageTime:    g.LastMessageTime,
	}
	if g.GroupPicHash != nil {
		out.GroupPicHash = *g.GroupPicHash
	}
	_ = json.NewEncoder(w).Encode(out)
}

// getGroupMessage handles GET /v1/groups/{owner}/{name}/messages/{index}.
// Group messages derive from the group address on both sides of the pair.
func (s *Server) getGroupMessage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	groupKey, _, ok := s.groupAddress(w, r)
	if !ok {
		return
	}
	index, ok := pathIndex(w, r)
	if !ok {
		return
	}
	address, _, err := state.MessageKey(index, groupKey, groupKey, s.Program.ID)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}
	s.writeMessage(w, address, index)
}

type subscriptionJSON struct {
	Address      string `json:"address"`
	Subscriber   string `json:"subscriber"`
	SubscribedTo string `json:"subscribed_to"`
}

// getSubscription handles GET /v1/subscriptions/{subscriber}/{to}.
func (s *Server) getSubscription(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	subscriber, ok := pathKey(w, r, "subscriber")
	if !ok {
		return
	}
	to, ok := pathKey(w, r, "to")
	if !ok {
		return
	}
	address, _, err := state.SubscriptionKey(subscriber, to, s.Program.ID)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}
	acc, ok := s.loadRecord(w, address)
	if !ok {
		return
	}
	sub, err := state.SubscriptionFromBytes(acc.Data)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(subscriptionJSON{
		Address:      address.String(),
		Subscriber:   sub.Subscriber.String(),
		SubscribedTo: sub.SubscribedTo.String(),
	})
}
