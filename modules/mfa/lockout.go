package mfa

import "time"

const (
	// DefaultMaxAttempts is the number of consecutive failures that trigger
	// a lockout.
	DefaultMaxAttempts = 5
	// DefaultCooldown is how long verification stays locked after the
	// threshold is reached.
	DefaultCooldown = 15 * time.Minute
)

// LockoutPolicy is the shared failure-counting policy consulted by both
// setup-time and login-time verification. It is a pure function of
// (failedAttempts, lockedUntil, now); the store applies its decisions
// atomically.
type LockoutPolicy struct {
	MaxAttempts int
	Cooldown    time.Duration
}

// DefaultLockoutPolicy returns the production policy: 5 attempts, 15 minutes.
func DefaultLockoutPolicy() LockoutPolicy {
	return LockoutPolicy{MaxAttempts: DefaultMaxAttempts, Cooldown: DefaultCooldown}
}

// Locked reports whether the lockout window is still active at now.
func (p LockoutPolicy) Locked(lockedUntil *time.Time, now time.Time) bool {
	return lockedUntil != nil && now.Before(*lockedUntil)
}

// LockExpiry returns when a lockout applied at now would end.
func (p LockoutPolicy) LockExpiry(now time.Time) time.Time {
	return now.Add(p.Cooldown)
}
