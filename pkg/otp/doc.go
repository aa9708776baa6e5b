// Package otp generates, persists, and consumes single-use expiring
// verification codes scoped by (identity, purpose).
//
// At most one unused code exists per scope at a time: issuing a new code
// supersedes any prior unused code in the same transaction. Consumption is
// a single atomic conditional update, so a code can never be accepted twice
// and expiry is enforced at read time rather than by a background reaper.
package otp
