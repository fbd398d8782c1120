// Package parser turns tokenized sig input into a ParsedSig.
//
// The parser is a multi-pass, priority-ordered recognition engine. A Context
// owns the token sequence and the consumed-token set for one invocation; the
// main loop walks unconsumed tokens left to right through an explicit ordered
// rule chain with first-match-commit semantics, then a fixed sequence of
// post-passes backfills units and cadence defaults, reconciles meal codes,
// extracts the PRN reason and body site, and appends advisory warnings.
//
// Token ambiguity is resolved deterministically by rule precedence, never by
// raising errors: the same input and options always produce the same result.
// The hardest single piece is the ocular disambiguation in ocular.go, which
// decides whether "OD" means "right eye" or "once daily" from up to three
// tokens of surrounding context and the accumulator state.
package parser
