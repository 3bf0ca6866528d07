// Package instr defines the instruction set of the courier program: one
// opcode per operation, the wire encoding of each parameter struct, and
// builders that assemble complete calls with their ordered account lists.
package instr

// Opcode is the first byte of every instruction payload.
type Opcode uint8

const (
	OpCreateProfile Opcode = iota
	OpCreateThread
	OpSetUserProfile
	OpSendMessage
	OpCreateGroupThread
	OpEditGroupThread
	OpSendMessageGroup
	OpAddAdminToGroup
	OpRemoveAdminFromGroup
	OpCreateGroupIndex
	OpDeleteMessage
	OpDeleteGroupMessage
	OpSendTip
	OpCreateSubscription

	opCount
)

var opNames = [...]string{
	OpCreateProfile:        "create_profile",
	OpCreateThread:         "create_thread",
	OpSetUserProfile:       "set_user_profile",
	OpSendMessage:          "send_message",
	OpCreateGroupThread:    "create_group_thread",
	OpEditGroupThread:      "edit_group_thread",
	OpSendMessageGroup:     "send_message_group",
	OpAddAdminToGroup:      "add_admin_to_group",
	OpRemoveAdminFromGroup: "remove_admin_from_group",
	OpCreateGroupIndex:     "create_group_index",
	OpDeleteMessage:        "delete_message",
	OpDeleteGroupMessage:   "delete_group_message",
	OpSendTip:              "send_tip",
	OpCreateSubscription:   "create_subscription",
}

// Valid reports whether the opcode maps to a known operation.
func (o Opcode) Valid() bool { return o < opCount }

func (o Opcode) String() string {
	if !o.Valid() {
		return "unknown"
	}
	return opNames[o]
}

// Name resolves a raw opcode byte for logging and metrics labels.
func Name(b byte) string { return Opcode(b).String() }
