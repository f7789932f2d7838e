// Package clock abstracts wall-clock reads so lockout windows, token
// expiries and TOTP validation stay deterministic under test.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func New() Clock { return realClock{} }
