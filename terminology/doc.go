// Package terminology holds the immutable dictionaries the sig library is
// built on: route and unit synonyms, timing abbreviations, event-timing
// tokens, day-of-week tokens, discouraged abbreviations, dosage-form
// normalization tables, and the built-in SNOMED tables for body sites and
// PRN reasons.
//
// All tables are declarative data consumed as read-only maps. Lookups are
// layered: a caller-supplied override map is always consulted before the
// builtin table, key by key, so a collision resolves to the custom value
// rather than being merged away silently.
package terminology
