package instr

import (
	"courier/pkg/keys"
	"courier/pkg/ledger"
)

// Builders assemble complete calls with the account order the dispatcher
// expects. They are the client-side counterpart of the handler account
// tables; the API layer and the functional tests both go through them.

func meta(key keys.Pubkey, signer, writable bool) ledger.AccountMeta {
	return ledger.AccountMeta{Key: key, Signer: signer, Writable: writable}
}

func CreateProfile(profile, owner, payer keys.Pubkey, params *CreateProfileParams) ledger.Call {
	return ledger.Call{
		Accounts: []ledger.AccountMeta{
			meta(ledger.SystemProgram, false, false),
			meta(profile, false, true),
			meta(owner, true, true),
			meta(payer, true, true),
		},
		Data: params.Encode(),
	}
}

func CreateThread(thread, payer keys.Pubkey, params *CreateThreadParams) ledger.Call {
	return ledger.Call{
		Accounts: []ledger.AccountMeta{
			meta(ledger.SystemProgram, false, false),
			meta(thread, false, true),
			meta(payer, true, true),
		},
		Data: params.Encode(),
	}
}

func SetUserProfile(owner, profile keys.Pubkey, params *SetUserProfileParams) ledger.Call {
	return ledger.Call{
		Accounts: []ledger.AccountMeta{
			meta(owner, true, true),
			meta(profile, false, true),
		},
		Data: params.Encode(),
	}
}

func SendMessage(sender, receiver, thread, receiverProfile, message, vault keys.Pubkey, params *SendMessageParams) ledger.Call {
	return ledger.Call{
		Accounts: []ledger.AccountMeta{
			meta(ledger.SystemProgram, false, false),
			meta(sender, true, true),
			meta(receiver, false, true),
			meta(thread, false, true),
			meta(receiverProfile, false, false),
			meta(message, false, true),
			meta(vault, false, true),
		},
		Data: params.Encode(),
	}
}

func CreateGroupThread(groupThread, payer keys.Pubkey, params *CreateGroupThreadParams) ledger.Call {
	return ledger.Call{
		Accounts: []ledger.AccountMeta{
			meta(ledger.SystemProgram, false, false),
			meta(groupThread, false, true),
			meta(payer, true, true),
		},
		Data: params.Encode(),
	}
}

func EditGroupThread(owner, groupThread keys.Pubkey, params *EditGroupThreadParams) ledger.Call {
	return ledger.Call{
		Accounts: []ledger.AccountMeta{
			meta(owner, true, true),
			meta(groupThread, false, true),
		},
		Data: params.Encode(),
	}
}

func SendMessageGroup(sender, groupThread, destinationWallet, message, vault keys.Pubkey, params *SendMessageGroupParams) ledger.Call {
	return ledger.Call{
		Accounts: []ledger.AccountMeta{
			meta(ledger.SystemProgram, false, false),
			meta(sender, true, true),
			meta(groupThread, false, true),
			meta(destinationWallet, false, true),
			meta(message, false, true),
			meta(vault, false, true),
		},
		Data: params.Encode(),
	}
}

func AddAdminToGroup(groupThread, owner keys.Pubkey, params *AddAdminToGroupParams) ledger.Call {
	return ledger.Call{
		Accounts: []ledger.AccountMeta{
			meta(groupThread, false, true),
			meta(owner, true, true),
		},
		Data: params.Encode(),
	}
}

func RemoveAdminFromGroup(groupThread, owner keys.Pubkey, params *RemoveAdminFromGroupParams) ledger.Call {
	return ledger.Call{
		Accounts: []ledger.AccountMeta{
			meta(groupThread, false, true),
			meta(owner, true, true),
		},
		Data: params.Encode(),
	}
}

func CreateGroupIndex(groupIndex, payer keys.Pubkey, params *CreateGroupIndexParams) ledger.Call {
	return ledger.Call{
		Accounts: []ledger.AccountMeta{
			meta(ledger.SystemProgram, false, false),
			meta(groupIndex, false, true),
			meta(payer, true, true),
		},
		Data: params.Encode(),
	}
}

func DeleteMessage(sender, receiver, message keys.Pubkey, params *DeleteMessageParams) ledger.Call {
	return ledger.Call{
		Accounts: []ledger.AccountMeta{
			meta(sender, true, true),
			meta(receiver, false, false),
			meta(message, false, true),
		},
		Data: params.Encode(),
	}
}

func DeleteGroupMessage(groupThread, message, feePayer keys.Pubkey, params *DeleteGroupMessageParams) ledger.Call {
	return ledger.Call{
		Accounts: []ledger.AccountMeta{
			meta(groupThread, false, false),
			meta(message, false, true),
			meta(feePayer, true, true),
		},
		Data: params.Encode(),
	}
}

func SendTip(senderProfile, sender, receiverProfile, receiver, tokenSource, tokenDestination keys.Pubkey, params *SendTipParams) ledger.Call {
	return ledger.Call{
		Accounts: []ledger.AccountMeta{
			meta(ledger.TokenProgram, false, false),
			meta(senderProfile, false, true),
			meta(sender, true, true),
			meta(receiverProfile, false, true),
			meta(receiver, false, false),
			meta(tokenSource, false, true),
			meta(tokenDestination, false, true),
		},
		Data: params.Encode(),
	}
}

func CreateSubscription(subscription, subscriber keys.Pubkey, params *CreateSubscriptionParams) ledger.Call {
	return ledger.Call{
		Accounts: []ledger.AccountMeta{
			meta(subscription, false, true),
			meta(subscriber, true, true),
			meta(ledger.SystemProgram, false, false),
		},
		Data: params.Encode(),
	}
}
