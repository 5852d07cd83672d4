// Package assist asks a Gemini model to extract departures from pasted text.
//
// It is a convenience path: its output goes through the same normalization as
// the deterministic parser, and callers fall back to that parser when the
// model is disabled, fails or returns nothing usable.
package assist
