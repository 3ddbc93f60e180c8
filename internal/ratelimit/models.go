// Package ratelimit throttles callers per endpoint class with a sliding
// window. Public account flows are keyed by client IP, authenticated routes
// by account id.
package ratelimit

import "time"

// Class groups endpoints that share a budget.
type Class string

const (
	// ClassAuth covers sign-in, sign-up, and code requests.
	ClassAuth Class = "auth"
	// ClassWrite covers authenticated mutations.
	ClassWrite Class = "write"
	// ClassRead covers authenticated reads.
	ClassRead Class = "read"
)

// Policy is the number of requests allowed per window.
type Policy struct {
	Limit  int
	Window time.Duration
}

// DefaultPolicies keeps code requests well under what the identity
// collaborator itself tolerates.
func DefaultPolicies() map[Class]Policy {
	return map[Class]Policy{
		ClassAuth:  {Limit: 10, Window: time.Minute},
		ClassWrite: {Limit: 50, Window: time.Minute},
		ClassRead:  {Limit: 100, Window: time.Minute},
	}
}

// Result is the outcome of one check.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter is the whole number of seconds until the window frees a slot,
// never less than one.
func (r *Result) RetryAfter(now time.Time) int {
	secs := int(r.ResetAt.Sub(now).Seconds() + 0.999)
	if secs < 1 {
		return 1
	}
	return secs
}
