// Package validator implements a small rule-based validation engine.
//
// Rules are plain values pairing a check with the error reported when the
// check fails. Apply runs every rule and accumulates all failures, so a
// caller can report every problem with a submission at once instead of
// stopping at the first one.
package validator
