// Package intake implements the task intake transform used by Mission Control.
//
// A free-form task request goes through four pure stages:
//
//	raw text -> Normalize -> Soften -> InferAssumptions -> Format
//
// Normalize canonicalizes whitespace and line endings. Soften rewrites
// urgency vocabulary (ASAP, URGENT, IMMEDIATELY, RIGHT NOW) into calmer
// phrasing. InferAssumptions derives at most three caveats from lexical
// signals in the text. Format assembles the final document.
//
// Every function in this package is total and stateless: it never returns an
// error, never panics on any string input and holds nothing between calls, so
// it is safe to call from any number of goroutines. Input validation (for
// example rejecting empty requests) belongs to the caller.
package intake
