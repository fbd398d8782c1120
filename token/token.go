// Package token splits raw sig input into normalized lexical tokens.
//
// Tokens are owned by one parse invocation and immutable after splitting.
// Compound shorthands are pre-split where later rules expect separated
// forms ("2tab" -> "2","tab"; "q6-8h" -> "q","6-8","h") and kept compound
// where a single rule owns the whole form ("1x3", "q30min", "2x").
package token

import (
	"regexp"
	"strings"
)

// Token is one normalized lexical token. Index is the stable position in the
// full tokenized sequence.
type Token struct {
	Original string
	Lower    string
	Index    int
}

var (
	// q6-8h, q0.5-1h -> "q", "6-8", "h"
	qRangeRE = regexp.MustCompile(`^([qQ])(\d+(?:\.\d+)?-\d+(?:\.\d+)?)([a-zA-Z]+)$`)

	// 2tab, 5ml, 0.5mg -> "2", "tab". Forms like "1x3" and "2x" do not
	// match because the suffix must be purely alphabetic and not "x".
	numUnitRE = regexp.MustCompile(`^(\d+(?:[./]\d+)?)([a-zA-Z]+)$`)

	decimalTailRE = regexp.MustCompile(`\d\.\d`)
)

// Split tokenizes input. Newlines, semicolons, colons, commas and standalone
// dashes become their own tokens so later passes can treat them as phrase
// separators.
func Split(input string) []Token {
	replaced := strings.NewReplacer("\r\n", " \n ", "\n", " \n ", "\r", " \n ").Replace(input)

	var parts []string
	for _, field := range strings.Fields(replaced) {
		parts = append(parts, splitField(field)...)
	}

	tokens := make([]Token, len(parts))
	for i, p := range parts {
		tokens[i] = Token{Original: p, Lower: strings.ToLower(p), Index: i}
	}
	return tokens
}

// splitField breaks one whitespace-delimited field into tokens.
func splitField(field string) []string {
	if field == "" {
		return nil
	}
	if field == "\n" || field == ";" || field == ":" || field == "," || field == "-" {
		return []string{field}
	}

	// Peel trailing separator punctuation into its own token. A "." is
	// only a separator when it is not part of a decimal number.
	for _, sep := range []string{";", ":", ","} {
		if body, ok := strings.CutSuffix(field, sep); ok && body != "" {
			return append(splitField(body), sep)
		}
	}
	if body, ok := strings.CutSuffix(field, "."); ok && body != "" && !decimalTailRE.MatchString(field) {
		return append(splitField(body), ".")
	}

	if m := qRangeRE.FindStringSubmatch(field); m != nil {
		return []string{m[1], m[2], m[3]}
	}
	if m := numUnitRE.FindStringSubmatch(field); m != nil && !strings.EqualFold(m[2], "x") {
		return []string{m[1], m[2]}
	}
	return []string{field}
}

// IsSeparator reports whether a token is a phrase separator: a newline,
// semicolon, colon, period, or a standalone (whitespace-padded) dash.
func IsSeparator(t Token) bool {
	switch t.Original {
	case "\n", ";", ":", ".", "-":
		return true
	}
	return false
}
