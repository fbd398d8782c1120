package sig

import "errors"

// Caller-configuration errors. These are the only errors the library raises;
// every other problem is resolved heuristically or reported as a warning.
var (
	// ErrDiscouragedToken is returned by the parser when a discouraged
	// abbreviation is present and discouraged tokens have been disallowed.
	ErrDiscouragedToken = errors.New("discouraged token")

	// ErrMissingTimeZone is returned by the scheduler when no time zone
	// was supplied.
	ErrMissingTimeZone = errors.New("time zone is required")

	// ErrMissingFrom is returned by the scheduler when the evaluation
	// window start is missing.
	ErrMissingFrom = errors.New("from is required")

	// ErrBadClock is returned when a clock string is not HH:mm or HH:mm:ss.
	ErrBadClock = errors.New("invalid clock string")

	// ErrBadPriorCount is returned when a negative prior count is supplied.
	ErrBadPriorCount = errors.New("prior count must not be negative")

	// ErrNotFound is returned by code resolvers that have no answer for a
	// phrase, letting the chain continue to the next resolver.
	ErrNotFound = errors.New("code not found")
)
