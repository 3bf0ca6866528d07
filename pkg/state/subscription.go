package state

import "courier/pkg/keys"

// SubscriptionSeed is the derivation namespace for subscription records.
const SubscriptionSeed = "subscription"

// MaxSubscriptionLen is the fixed storage footprint of a subscription.
const MaxSubscriptionLen = 1 + 32 + 32

// Subscription records that subscriber follows subscribedTo. One record
// exists per ordered pair; existence alone is the signal.
type Subscription struct {
	Tag          Tag
	Subscriber   keys.Pubkey
	SubscribedTo keys.Pubkey
}

func NewSubscription(subscriber, subscribedTo keys.Pubkey) *Subscription {
	return &Subscription{
		Tag:          TagSubscription,
		Subscriber:   subscriber,
		SubscribedTo: subscribedTo,
	}
}

// SubscriptionKey derives the subscription address and bump.
func SubscriptionKey(subscriber, subscribedTo, program keys.Pubkey) (keys.Pubkey, uint8, error) {
	seeds := [][]byte{[]byte(SubscriptionSeed), subscriber.Bytes(), subscribedTo.Bytes()}
	return keys.FindProgramAddress(seeds, program)
}

// SubscriptionKeyWithBump reconstructs a subscription address from a known bump.
func SubscriptionKeyWithBump(subscriber, subscribedTo, program keys.Pubkey, bump uint8) (keys.Pubkey, error) {
	seeds := [][]byte{[]byte(SubscriptionSeed), subscriber.Bytes(), subscribedTo.Bytes(), {bump}}
	return keys.CreateProgramAddress(seeds, program)
}

func (s *Subscription) Marshal() []byte {
	var e Encoder
	e.U8(uint8(s.Tag))
	e.Pubkey(s.Subscriber)
	e.Pubkey(s.SubscribedTo)
	return e.Data()
}

func (s *Subscription) Save(dst []byte) error { return store(dst, s.Marshal()) }

func SubscriptionFromBytes(data []byte) (*Subscription, error) {
	if err := checkTag(data, TagSubscription); err != nil {
		return nil, err
	}
	d := NewDecoder(data)
	s := &Subscription{
		Tag:          Tag(d.U8()),
		Subscriber:   d.Pubkey(),
		SubscribedTo: d.Pubkey(),
	}
	if d.Err() != nil {
		return nil, d.Err()
	}
	return s, nil
}
