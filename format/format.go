// Package format renders a ParsedSig as human-readable text.
//
// Rendering is grammar-driven: each supported language registers a Grammar
// keyed by its BCP 47 tag, and locale strings are matched against the
// registered set with language matching, falling back to English. English
// builds dose-first sentences ("Take 1 tablet by mouth twice daily"); Thai
// builds verb-first sentences in the convention of Thai medication labels.
package format

import (
	"golang.org/x/text/language"

	sig "github.com/gofhir/sig"
)

// Style selects how much the rendering spells out.
type Style int

const (
	// Short keeps clinical shorthand: "1 tab PO BID PRN pain".
	Short Style = iota

	// Long spells everything out for patients: "Take 1 tablet by mouth
	// twice daily as needed for pain."
	Long
)

// Grammar renders one language.
type Grammar interface {
	Render(s *sig.ParsedSig, style Style) string
}

var (
	registry = map[language.Tag]Grammar{}
	tags     []language.Tag
	matcher  language.Matcher
)

// Register adds or replaces the grammar for a language tag. The first
// registered tag is the fallback for unmatched locales.
func Register(tag language.Tag, g Grammar) {
	if _, exists := registry[tag]; !exists {
		tags = append(tags, tag)
	}
	registry[tag] = g
	matcher = language.NewMatcher(tags)
}

func init() {
	Register(language.English, EnglishGrammar{})
	Register(language.Thai, ThaiGrammar{})
}

// For returns the grammar for a locale string, falling back to the first
// registered grammar when the locale is unknown or malformed.
func For(locale string) Grammar {
	if matcher == nil || len(tags) == 0 {
		return EnglishGrammar{}
	}
	_, idx := language.MatchStrings(matcher, locale)
	return registry[tags[idx]]
}

// Text renders s in the given locale and style.
func Text(s *sig.ParsedSig, locale string, style Style) string {
	if s == nil {
		return ""
	}
	return For(locale).Render(s, style)
}
