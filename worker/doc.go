// Package worker provides a bounded goroutine pool for processing many sig
// strings concurrently.
//
// The pool is generic over the per-item result type, so callers plug in any
// processing function without adapter types. Results carry the submitted ID
// so callers can restore input order; Map does that collation for the common
// slice-in, slice-out case.
package worker
