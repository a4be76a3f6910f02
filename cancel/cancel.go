// Package cancel implements the process-wide, sticky cancellation
// flag: once set, every subsequent loop head that checks it observes
// the change and exits promptly.
package cancel

import "sync/atomic"

// Flag is a cheap, safe-for-concurrent-use cancellation flag.
type Flag struct {
	v atomic.Bool
}

// New constructs an unset Flag.
func New() *Flag { return &Flag{} }

// Set transitions the flag to cancelled. Idempotent.
func (f *Flag) Set() { f.v.Store(true) }

// IsSet reports whether the flag has been set.
func (f *Flag) IsSet() bool { return f.v.Load() }
