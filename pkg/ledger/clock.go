package ledger

import "time"

// Clock is the time oracle consumed by the program. The daemon injects
// the wall clock; tests inject a manual one for deterministic timestamps.
type Clock interface {
	Now() int64
}

// WallClock reads the host's wall clock in unix seconds.
type WallClock struct{}

func (WallClock) Now() int64 { return time.Now().UTC().Unix() }

// ManualClock is a settable clock for tests.
type ManualClock struct {
	Unix int64
}

func (c *ManualClock) Now() int64 { return c.Unix }

func (c *ManualClock) Advance(d time.Duration) { c.Unix += int64(d / time.Second) }
