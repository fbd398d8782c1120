// Package suggest generates autocomplete candidates for partially typed
// sigs.
//
// Candidates come from a deterministic template expansion (dose, unit, route,
// cadence, then event-timing sequences and PRN-reason forms, ordered by
// clinical commonness, with the medication context's defaults promoted to the
// front), then are matched against the typed prefix by a sequence of
// strategies from strictest to loosest. Output order is stable for a given
// input and options.
package suggest

import (
	"strings"

	sig "github.com/gofhir/sig"
	"github.com/gofhir/sig/terminology"
)

// DefaultLimit caps the suggestion list when the caller passes no limit.
const DefaultLimit = 15

var defaultDoses = []string{"1", "2", "0.5", "3"}

var defaultUnits = []string{"tab", "cap", "mL", "drop", "puff", "spray"}

var defaultRoutes = []string{"po", "sl", "pr", "top", "ophthalmic", "im", "iv", "sc"}

var defaultCadences = []string{
	"qd", "bid", "tid", "qid", "qhs", "q4h", "q6h", "q8h", "q12h",
	"prn", "qw", "qod",
}

var defaultWhenSeqs = []string{"ac", "pc", "hs", "qam", "qpm", "ac hs"}

var defaultPRNReasons = []string{"pain", "nausea"}

// Suggestions returns up to DefaultLimit completions for the typed input.
func Suggestions(input string, opts *sig.Options) []string {
	return SuggestionsN(input, opts, DefaultLimit)
}

// SuggestionsN returns up to limit completions, best matches first. An empty
// input returns the head of the candidate list unchanged, so the first entry
// is always the most conventional sig for the medication context.
func SuggestionsN(input string, opts *sig.Options, limit int) []string {
	if opts == nil {
		opts = sig.DefaultOptions()
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	candidates := buildCandidates(opts)
	normalized := strings.Join(strings.Fields(strings.ToLower(input)), " ")
	if normalized == "" {
		if len(candidates) > limit {
			return candidates[:limit]
		}
		return candidates
	}

	out := make([]string, 0, limit)
	seen := make(map[string]bool, limit)
	add := func(c string) bool {
		if seen[c] {
			return len(out) < limit
		}
		seen[c] = true
		out = append(out, c)
		return len(out) < limit
	}

	strategies := []func(cand, typed string) bool{
		matchPrefix,
		matchTokenPrefixes,
		matchLastTokenCompletion,
		matchContains,
	}
	for _, match := range strategies {
		for _, c := range candidates {
			if !match(c, normalized) {
				continue
			}
			if !add(c) {
				return out
			}
		}
	}
	return out
}

// buildCandidates expands the template. Context defaults lead their group so
// the first candidates fit the medication being prescribed.
func buildCandidates(opts *sig.Options) []string {
	units := defaultUnits
	routes := defaultRoutes

	if opts.InferFromContext && opts.Context != nil {
		mc := opts.Context
		if mc.DefaultUnit != "" {
			units = promote(units, shortUnit(mc.DefaultUnit))
		} else if info, ok := terminology.DoseForms[mc.DoseForm]; ok {
			units = promote(units, shortUnit(info.Unit))
			if info.RouteSyn != "" {
				routes = promote(routes, info.RouteSyn)
			}
		}
		if mc.DefaultRoute != "" {
			routes = promote(routes, mc.DefaultRoute)
		}
	}

	// Two units and the single best route per dose keeps the list
	// browsable; cadence varies fastest so the common frequencies of the
	// best-fit form all appear early.
	if len(units) > 2 {
		units = units[:2]
	}
	route := routes[0]

	reasons := opts.PRNReasons
	if len(reasons) == 0 {
		reasons = defaultPRNReasons
	}

	var out []string
	for _, dose := range defaultDoses {
		for _, unit := range units {
			for _, cad := range defaultCadences {
				out = append(out, dose+" "+unit+" "+route+" "+cad)
			}
		}
	}
	for _, dose := range defaultDoses {
		for _, unit := range units {
			for _, seq := range defaultWhenSeqs {
				out = append(out, dose+" "+unit+" "+route+" "+seq)
			}
		}
	}
	for _, dose := range defaultDoses {
		for _, unit := range units {
			for _, reason := range reasons {
				out = append(out, dose+" "+unit+" "+route+" prn "+reason)
				out = append(out, dose+" "+unit+" "+route+" q4h prn "+reason)
			}
		}
	}
	return out
}

// shortUnit maps a canonical unit back to the shorthand clinicians type.
var shortUnits = map[string]string{
	"tablet": "tab", "capsule": "cap", "drop": "drop",
	"application": "app", "suppository": "supp",
}

func shortUnit(u string) string {
	if s, ok := shortUnits[u]; ok {
		return s
	}
	return u
}

func promote(list []string, head string) []string {
	if head == "" {
		return list
	}
	out := make([]string, 0, len(list)+1)
	out = append(out, head)
	for _, s := range list {
		if s != head {
			out = append(out, s)
		}
	}
	return out
}

// matchPrefix: the candidate starts with everything typed so far.
func matchPrefix(cand, typed string) bool {
	return strings.HasPrefix(cand, typed)
}

// matchTokenPrefixes: each typed token is a prefix of the candidate token in
// the same position ("1 t q" matches "1 tab qd").
func matchTokenPrefixes(cand, typed string) bool {
	ct := strings.Fields(cand)
	tt := strings.Fields(typed)
	if len(tt) > len(ct) {
		return false
	}
	for i, t := range tt {
		if !strings.HasPrefix(ct[i], t) {
			return false
		}
	}
	return true
}

// matchLastTokenCompletion: all complete tokens match exactly somewhere in
// the candidate and the final partial token prefixes a later candidate token.
func matchLastTokenCompletion(cand, typed string) bool {
	ct := strings.Fields(cand)
	tt := strings.Fields(typed)
	if len(tt) == 0 {
		return false
	}
	last := tt[len(tt)-1]
	pos := 0
	for _, t := range tt[:len(tt)-1] {
		found := false
		for ; pos < len(ct); pos++ {
			if ct[pos] == t {
				found = true
				pos++
				break
			}
		}
		if !found {
			return false
		}
	}
	for ; pos < len(ct); pos++ {
		if strings.HasPrefix(ct[pos], last) {
			return true
		}
	}
	return false
}

// matchContains: loosest fallback, substring anywhere.
func matchContains(cand, typed string) bool {
	return strings.Contains(cand, typed)
}
