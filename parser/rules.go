package parser

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	sig "github.com/gofhir/sig"
	"github.com/gofhir/sig/terminology"
)

// rule is one token-matching rule in the main loop. Rules are attempted in
// slice order per token; the first rule that reports handled commits and the
// loop moves to the next token.
type rule struct {
	name  string
	apply func(c *Context, i int) (bool, error)
}

// mainRules is the full priority-ordered chain. The order is load-bearing:
// ocular disambiguation must precede the generic timing-abbreviation lookup
// because "od" collides with that table, two-token event combinations must
// precede single-token lookup, and dose capture must follow every cadence
// form so "3 times daily" is never read as a dose of 3.
var mainRules = []rule{
	{"discouraged-combo", ruleDiscouragedCombo},
	{"q-separated", ruleQSeparated},
	{"numeric-cadence", ruleNumericCadence},
	{"ocular-od", ruleOcularOD},
	{"timing-abbrev", ruleTimingAbbrev},
	{"q-compact", ruleQCompact},
	{"meal-context", ruleMealContext},
	{"when-pair", ruleWhenPair},
	{"when-token", ruleWhenToken},
	{"day-of-week", ruleDayOfWeek},
	{"route-phrase", ruleRoutePhrase},
	{"eye-site", eyeSiteRule},
	{"count-limit", ruleCountLimit},
	{"count-frequency", ruleCountFrequency},
	{"dose", ruleDose},
	{"dose-shorthand", ruleDoseShorthand},
	{"word-frequency", ruleWordFrequency},
	{"filler", ruleFiller},
}

// Parse tokenizes input and runs the full disambiguation pipeline.
// Malformed input never fails: unmatched tokens surface as leftover text.
// The only parse error is a discouraged token when opts disallow them, or
// an invalid clinic clock string in opts.EventClock.
func Parse(input string, opts *sig.Options) (*sig.ParsedSig, error) {
	if opts == nil {
		opts = sig.DefaultOptions()
	}
	if err := validateEventClock(opts.EventClock); err != nil {
		return nil, err
	}

	c := newContext(input, opts)

	if err := c.scanPRNFlag(); err != nil {
		return nil, err
	}
	c.scanMultiplicative()

	for i := range c.Tokens {
		if c.IsConsumed(i) {
			continue
		}
		for _, r := range mainRules {
			handled, err := r.apply(c, i)
			if err != nil {
				return nil, fmt.Errorf("rule %s: %w", r.name, err)
			}
			if handled {
				break
			}
		}
	}

	c.extractPRNReason()
	c.captureInstructions()
	c.extractSiteText()
	c.inferRouteFromSite()
	c.backfillRouteFromContext()
	c.backfillUnit()
	c.backfillCadenceFromCode()
	c.backfillCodeFromCadence()
	c.reconcileMealSpecificity()
	c.expandSmartMeals()
	c.sortWhen()
	c.warnIntravitrealWithoutEye()
	c.resolveCodes()
	c.collectLeftover()

	return c.Sig, nil
}

// ParseCtx is the context-aware twin of Parse. After the synchronous
// pipeline it awaits the registered ctx resolvers, sequentially and in
// registration order, for any site or reason phrase still uncoded.
func ParseCtx(ctx context.Context, input string, opts *sig.Options) (*sig.ParsedSig, error) {
	if opts == nil {
		opts = sig.DefaultOptions()
	}
	ps, err := Parse(input, opts)
	if err != nil {
		return nil, err
	}
	if err := resolveCodesCtx(ctx, ps, opts); err != nil {
		return nil, err
	}
	return ps, nil
}

// discouraged warns about (or rejects) a token on the do-not-use list.
func (c *Context) discouraged(tok string) error {
	preferred, ok := terminology.Discouraged[tok]
	if !ok {
		return nil
	}
	if !c.Opts.AllowDiscouraged {
		return fmt.Errorf("%w: %q", sig.ErrDiscouragedToken, tok)
	}
	c.Sig.Warn(fmt.Sprintf("Token %q is discouraged; write %q instead.", tok, preferred))
	return nil
}

// applyCadence merges a dictionary cadence entry into the accumulator
// without overwriting fields an earlier rule already assigned.
func (c *Context) applyCadence(entry sig.Cadence) {
	s := c.Sig
	if entry.Code != "" && s.TimingCode == "" {
		s.TimingCode = entry.Code
	}
	if entry.Frequency > 0 && s.Frequency == nil {
		s.Frequency = sig.Int(entry.Frequency)
		if entry.FrequencyMax > 0 {
			s.FrequencyMax = sig.Int(entry.FrequencyMax)
		}
	}
	if entry.Period > 0 && s.Period == nil {
		if entry.PeriodMax > 0 {
			lo, hi, unit := normalizePeriodRange(entry.Period, entry.PeriodMax, entry.PeriodUnit)
			s.Period, s.PeriodMax, s.PeriodUnit = sig.Float(lo), sig.Float(hi), unit
		} else {
			v, unit := normalizePeriod(entry.Period, entry.PeriodUnit)
			s.Period, s.PeriodUnit = sig.Float(v), unit
		}
	}
	for _, w := range entry.When {
		s.AddWhen(w)
	}
}

// --- pre-scans ---

// scanPRNFlag finds the first "prn" token or "as needed [for]" phrase.
// The flag tokens are consumed immediately and everything after becomes the
// tentative PRN-reason span, claimed here and re-collected by the
// PRN-trimming post-pass.
func (c *Context) scanPRNFlag() error {
	for i := range c.Tokens {
		if c.IsConsumed(i) {
			continue
		}
		start := -1
		switch {
		case c.lower(i) == "prn":
			c.Consume(i)
			start = i + 1
		case c.lower(i) == "as" && c.lower(i+1) == "needed" && !c.IsConsumed(i+1):
			c.Consume(i, i+1)
			start = i + 2
			if c.lower(start) == "for" {
				c.Consume(start)
				start++
			}
		}
		if start >= 0 {
			c.Sig.AsNeeded = true
			c.prnStart = start
			for j := start; j < len(c.Tokens); j++ {
				c.Consume(j)
			}
			return nil
		}
	}
	return nil
}

var multiplicativeRE = regexp.MustCompile(`^(\d+(?:\.\d+)?)[x*](\d+)$`)

// scanMultiplicative handles the dose-times-frequency shortcut ("1x3"):
// dose from the first number, frequency N per 1 day from the second,
// independent of where the token sits.
func (c *Context) scanMultiplicative() {
	for i := range c.Tokens {
		if c.IsConsumed(i) {
			continue
		}
		m := multiplicativeRE.FindStringSubmatch(c.lower(i))
		if m == nil {
			continue
		}
		dose, ok1 := parseNumber(m[1])
		freq, ok2 := parseInt(m[2])
		if !ok1 || !ok2 {
			continue
		}
		if !c.Sig.HasDose() {
			c.Sig.DoseValue = sig.Float(dose)
		}
		if c.Sig.Frequency == nil {
			c.Sig.Frequency = sig.Int(freq)
		}
		if c.Sig.Period == nil {
			c.Sig.Period = sig.Float(1)
			c.Sig.PeriodUnit = "d"
		}
		c.Consume(i)
		return
	}
}

// --- main-loop rules ---

// ruleDiscouragedCombo: "bld" / "b-l-d" means with meals, with a warning.
func ruleDiscouragedCombo(c *Context, i int) (bool, error) {
	low := c.lower(i)
	if low != "bld" && low != "b-l-d" {
		return false, nil
	}
	if err := c.discouraged(low); err != nil {
		return false, err
	}
	c.Sig.AddWhen(terminology.WhenC)
	c.Consume(i)
	return true, nil
}

var compactRangeUnitRE = regexp.MustCompile(`^(\d+(?:\.\d+)?-\d+(?:\.\d+)?)([a-z]+)$`)

// ruleQSeparated: separated interval forms "q 6-8 h", "q 2 wk", "q 6-8h".
func ruleQSeparated(c *Context, i int) (bool, error) {
	if c.lower(i) != "q" || c.Sig.Period != nil {
		return false, nil
	}
	next := c.lower(i + 1)
	if next == "" || c.IsConsumed(i+1) {
		return false, nil
	}

	// Two-token form: q + "6-8h"
	if m := compactRangeUnitRE.FindStringSubmatch(next); m != nil {
		if unit, ok := terminology.TimeUnits[m[2]]; ok {
			if lo, hi, ok := parseRange(m[1]); ok {
				c.setPeriodRange(lo, hi, unit)
				c.Consume(i, i+1)
				return true, nil
			}
		}
	}

	// Three-token form: q + value-or-range + unit
	unitTok := c.lower(i + 2)
	if unitTok == "" || c.IsConsumed(i+2) {
		return false, nil
	}
	unit, ok := terminology.TimeUnits[unitTok]
	if !ok {
		return false, nil
	}
	if lo, hi, okr := parseRange(next); okr {
		c.setPeriodRange(lo, hi, unit)
		c.Consume(i, i+1, i+2)
		return true, nil
	}
	if v, okn := parseNumber(next); okn {
		c.setPeriod(v, unit)
		c.Consume(i, i+1, i+2)
		return true, nil
	}
	return false, nil
}

func (c *Context) setPeriod(v float64, unit string) {
	v, unit = normalizePeriod(v, unit)
	c.Sig.Period = sig.Float(v)
	c.Sig.PeriodUnit = unit
}

func (c *Context) setPeriodRange(lo, hi float64, unit string) {
	lo, hi, unit = normalizePeriodRange(lo, hi, unit)
	c.Sig.Period = sig.Float(lo)
	c.Sig.PeriodMax = sig.Float(hi)
	c.Sig.PeriodUnit = unit
}

// ruleNumericCadence: "<N> per <unit>" frequency forms ("1 per day",
// "2 per week") and "every <N> <unit>" interval forms ("every 4 hours",
// "every 6-8 hours", "every week"). The connector word is required; bare
// "2 week" stays untouched.
func ruleNumericCadence(c *Context, i int) (bool, error) {
	low := c.lower(i)
	if low == "every" || low == "each" {
		if c.lower(i+1) == "other" {
			// "every other day" belongs to the word-frequency rule.
			return false, nil
		}
		if c.Sig.Period != nil || c.IsConsumed(i+1) {
			return false, nil
		}
		if unit, ok := terminology.TimeUnits[c.lower(i+1)]; ok {
			c.setPeriod(1, unit)
			if c.Sig.Frequency == nil {
				c.Sig.Frequency = sig.Int(1)
			}
			c.Consume(i, i+1)
			return true, nil
		}
		if c.IsConsumed(i + 2) {
			return false, nil
		}
		unit, ok := terminology.TimeUnits[c.lower(i+2)]
		if !ok {
			return false, nil
		}
		if lo, hi, okr := parseRange(c.lower(i + 1)); okr {
			c.setPeriodRange(lo, hi, unit)
			c.Consume(i, i+1, i+2)
			return true, nil
		}
		if v, okn := parseNumber(c.lower(i + 1)); okn {
			c.setPeriod(v, unit)
			c.Consume(i, i+1, i+2)
			return true, nil
		}
		return false, nil
	}

	if c.Sig.Frequency != nil {
		return false, nil
	}
	n, ok := parseInt(low)
	if !ok || n == 0 {
		return false, nil
	}
	if !terminology.FillerConnectors[c.lower(i+1)] || c.IsConsumed(i+1) {
		return false, nil
	}
	unit, ok := terminology.TimeUnits[c.lower(i+2)]
	if !ok || c.IsConsumed(i+2) {
		return false, nil
	}
	c.Sig.Frequency = sig.Int(n)
	if c.Sig.Period == nil {
		c.Sig.Period = sig.Float(1)
		c.Sig.PeriodUnit = unit
	}
	c.Consume(i, i+1, i+2)
	return true, nil
}

// ruleOcularOD owns every "od" token; see ocular.go.
func ruleOcularOD(c *Context, i int) (bool, error) {
	if c.lower(i) != "od" {
		return false, nil
	}
	err := resolveOD(c, i)
	// Handled even when left unconsumed: the decision belongs here, and
	// the generic timing lookup below must never see "od".
	return true, err
}

// ruleTimingAbbrev: exact-table cadence lookup (bid, tid, q6h, ...),
// custom FreqMap first.
func ruleTimingAbbrev(c *Context, i int) (bool, error) {
	low := c.lower(i)
	entry, ok := terminology.LookupCadence(c.Opts.FreqMap, low)
	if !ok {
		return false, nil
	}
	if err := c.discouraged(low); err != nil {
		return false, err
	}
	c.applyCadence(entry)
	c.Consume(i)
	return true, nil
}

var qCompactRE = regexp.MustCompile(`^q(\d+(?:\.\d+)?(?:/\d+(?:\.\d+)?)?)([a-z]+)$`)

// ruleQCompact: compact interval forms "q30min", "q0.5h", "q1/2hr", "q1w".
func ruleQCompact(c *Context, i int) (bool, error) {
	if c.Sig.Period != nil {
		return false, nil
	}
	m := qCompactRE.FindStringSubmatch(c.lower(i))
	if m == nil {
		return false, nil
	}
	unit, ok := terminology.TimeUnits[m[2]]
	if !ok {
		return false, nil
	}
	v, ok := parseNumber(m[1])
	if !ok {
		return false, nil
	}
	c.setPeriod(v, unit)
	c.Consume(i)
	return true, nil
}

// mealNameSuffix maps meal-name tokens to event-code suffixes.
var mealNameSuffix = map[string]string{
	"breakfast": "M",
	"morning":   "M",
	"lunch":     "D",
	"noon":      "D",
	"dinner":    "V",
	"supper":    "V",
	"evening":   "V",
}

// ruleMealContext: pc/ac/wm/cc with lookahead absorbing a connected chain
// of meal names ("pc breakfast and dinner" -> PCM, PCV).
func ruleMealContext(c *Context, i int) (bool, error) {
	var base string
	switch c.lower(i) {
	case "ac":
		base = terminology.WhenAC
	case "pc":
		base = terminology.WhenPC
	case "wm", "cc":
		base = terminology.WhenC
	default:
		return false, nil
	}

	prefix := base
	if base == terminology.WhenC {
		prefix = "C"
	}

	consumed := []int{i}
	found := false
	j := i + 1
	for j < len(c.Tokens) && !c.IsConsumed(j) {
		low := c.lower(j)
		if sfx, ok := mealNameSuffix[low]; ok {
			c.Sig.AddWhen(prefix + sfx)
			consumed = append(consumed, j)
			found = true
			j++
			continue
		}
		if found && (low == "and" || low == "&" || low == ",") {
			if sfx, ok := mealNameSuffix[c.lower(j+1)]; ok && !c.IsConsumed(j+1) {
				c.Sig.AddWhen(prefix + sfx)
				consumed = append(consumed, j, j+1)
				j += 2
				continue
			}
		}
		break
	}
	if !found {
		c.Sig.AddWhen(base)
	}
	c.Consume(consumed...)
	return true, nil
}

// ruleWhenPair: two-token event combinations, before single-token lookup.
func ruleWhenPair(c *Context, i int) (bool, error) {
	if i+1 >= len(c.Tokens) || c.IsConsumed(i+1) {
		return false, nil
	}
	code, ok := terminology.EventTokenPairs[[2]string{c.lower(i), c.lower(i + 1)}]
	if !ok {
		return false, nil
	}
	c.Sig.AddWhen(code)
	c.Consume(i, i+1)
	return true, nil
}

// ruleWhenToken: single event-timing tokens, custom WhenMap first.
func ruleWhenToken(c *Context, i int) (bool, error) {
	code, ok := terminology.LookupWhen(c.Opts.WhenMap, c.lower(i))
	if !ok {
		return false, nil
	}
	c.Sig.AddWhen(code)
	c.Consume(i)
	return true, nil
}

// ruleDayOfWeek: day tokens accumulate into the day-of-week set.
func ruleDayOfWeek(c *Context, i int) (bool, error) {
	day, ok := terminology.DaysOfWeek[c.lower(i)]
	if !ok {
		return false, nil
	}
	c.Sig.AddDay(day)
	c.Consume(i)
	return true, nil
}

// ruleRoutePhrase: longest-span-first route synonym matching, custom
// RouteMap taking priority at every span. A conflicting code never
// overwrites an assigned route.
func ruleRoutePhrase(c *Context, i int) (bool, error) {
	maxSpan := len(c.Tokens) - i
	if maxSpan > 24 {
		maxSpan = 24
	}
	for span := maxSpan; span >= 1; span-- {
		ok := true
		for j := i; j < i+span; j++ {
			if c.IsConsumed(j) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		parts := make([]string, 0, span)
		for j := i; j < i+span; j++ {
			parts = append(parts, c.lower(j))
		}
		phrase := strings.Join(parts, " ")
		route, found := terminology.LookupRoute(c.Opts.RouteMap, phrase)
		if !found {
			continue
		}
		if !c.setRoute(route) {
			return false, nil
		}
		idx := make([]int, 0, span)
		for j := i; j < i+span; j++ {
			idx = append(idx, j)
		}
		c.Consume(idx...)
		return true, nil
	}
	return false, nil
}

var countShortRE = regexp.MustCompile(`^[x*](\d+)$`)

// countUnitWords terminate a worded count-limit phrase.
var countUnitWords = map[string]bool{
	"time": true, "times": true, "dose": true, "doses": true, "x": true,
}

// ruleCountLimit: "x3", "*3", and worded forms wrapped in fillers
// ("for a total of 3 doses", "up to 3 times").
func ruleCountLimit(c *Context, i int) (bool, error) {
	if c.Sig.Count != nil {
		return false, nil
	}
	if m := countShortRE.FindStringSubmatch(c.lower(i)); m != nil {
		if n, ok := parseInt(m[1]); ok {
			c.Sig.Count = sig.Int(n)
			c.Consume(i)
			return true, nil
		}
	}

	if !terminology.CountFillers[c.lower(i)] {
		return false, nil
	}
	j := i
	for j < len(c.Tokens) && !c.IsConsumed(j) && terminology.CountFillers[c.lower(j)] {
		j++
	}
	n, ok := parseInt(c.lower(j))
	if !ok || c.IsConsumed(j) {
		return false, nil
	}
	if j+1 >= len(c.Tokens) || c.IsConsumed(j+1) || !countUnitWords[c.lower(j+1)] {
		return false, nil
	}
	c.Sig.Count = sig.Int(n)
	idx := make([]int, 0, j+2-i)
	for k := i; k <= j+1; k++ {
		idx = append(idx, k)
	}
	c.Consume(idx...)
	return true, nil
}

// periodAdverbs map frequency adverbs to a one-unit period.
var periodAdverbs = map[string]string{
	"daily":   "d",
	"nightly": "d",
	"weekly":  "wk",
	"monthly": "mo",
	"hourly":  "h",
}

// ruleCountFrequency: count-based frequency words: "once daily",
// "twice a day", "three times daily", "2 times per week".
func ruleCountFrequency(c *Context, i int) (bool, error) {
	if c.Sig.Frequency != nil {
		return false, nil
	}

	low := c.lower(i)
	n := 0
	j := i + 1
	switch low {
	case "once":
		n = 1
	case "twice":
		n = 2
	case "thrice":
		n = 3
	default:
		if v, ok := terminology.SpelledNumbers[low]; ok {
			n = v
		} else if v, ok := parseInt(low); ok {
			n = v
		} else {
			return false, nil
		}
		if c.IsConsumed(j) || !countUnitWords[c.lower(j)] {
			return false, nil
		}
		j++
	}

	// Optional period part: an adverb, or connector + interval unit.
	end := j
	var unit string
	if !c.IsConsumed(j) {
		if u, ok := periodAdverbs[c.lower(j)]; ok {
			unit = u
			end = j + 1
			if c.lower(j) == "nightly" {
				c.Sig.AddWhen(terminology.WhenHS)
			}
		} else if terminology.FillerConnectors[c.lower(j)] && !c.IsConsumed(j+1) {
			if u, ok := terminology.TimeUnits[c.lower(j+1)]; ok {
				unit = u
				end = j + 2
			}
		}
	}
	if n == 0 {
		return false, nil
	}
	if unit == "" && low != "once" && low != "twice" && low != "thrice" {
		// A bare "3 times" with no period is too ambiguous to commit.
		return false, nil
	}

	c.Sig.Frequency = sig.Int(n)
	if unit != "" && c.Sig.Period == nil {
		c.Sig.Period = sig.Float(1)
		c.Sig.PeriodUnit = unit
	}
	idx := make([]int, 0, end-i)
	for k := i; k < end; k++ {
		idx = append(idx, k)
	}
	c.Consume(idx...)
	return true, nil
}

// ruleDose: a numeric dose or dose-range, optionally followed immediately
// by a recognized unit token (which it also claims).
func ruleDose(c *Context, i int) (bool, error) {
	if c.Sig.HasDose() {
		return false, nil
	}
	low := c.lower(i)

	if lo, hi, ok := parseRange(low); ok {
		c.Sig.DoseLow = sig.Float(lo)
		c.Sig.DoseHigh = sig.Float(hi)
	} else if v, ok := parseNumber(low); ok {
		c.Sig.DoseValue = sig.Float(v)
	} else {
		return false, nil
	}
	c.Consume(i)

	if i+1 < len(c.Tokens) && !c.IsConsumed(i+1) {
		if unit, ok := terminology.LookupUnit(c.Opts.UnitMap, c.lower(i+1), c.Opts.AllowHouseholdVolumeUnits); ok {
			if c.Sig.Unit == "" {
				c.Sig.Unit = unit
			}
			c.Consume(i + 1)
		}
	}
	return true, nil
}

var doseShortRE = regexp.MustCompile(`^(\d+(?:\.\d+)?)[x*]$`)

// ruleDoseShorthand: bare "<N>x" / "<N>*" dose-only shorthand.
func ruleDoseShorthand(c *Context, i int) (bool, error) {
	if c.Sig.HasDose() {
		return false, nil
	}
	m := doseShortRE.FindStringSubmatch(c.lower(i))
	if m == nil {
		return false, nil
	}
	v, ok := parseNumber(m[1])
	if !ok {
		return false, nil
	}
	c.Sig.DoseValue = sig.Float(v)
	c.Consume(i)
	return true, nil
}

// ruleWordFrequency: spelled cadence words ("daily", "weekly") and the
// "every other day/week" form.
func ruleWordFrequency(c *Context, i int) (bool, error) {
	if c.lower(i) == "every" && c.lower(i+1) == "other" && !c.IsConsumed(i+1) && !c.IsConsumed(i+2) {
		if unit, ok := terminology.TimeUnits[c.lower(i+2)]; ok && (unit == "d" || unit == "wk") {
			if c.Sig.Period == nil {
				c.Sig.Period = sig.Float(2)
				c.Sig.PeriodUnit = unit
				if c.Sig.Frequency == nil {
					c.Sig.Frequency = sig.Int(1)
				}
				if unit == "d" && c.Sig.TimingCode == "" {
					c.Sig.TimingCode = "QOD"
				}
			}
			c.Consume(i, i+1, i+2)
			return true, nil
		}
	}

	entry, ok := terminology.WordFrequencies[c.lower(i)]
	if !ok {
		return false, nil
	}
	c.applyCadence(entry)
	c.Consume(i)
	return true, nil
}

// ruleFiller: generic connector words carry no meaning on their own.
func ruleFiller(c *Context, i int) (bool, error) {
	if !terminology.FillerConnectors[c.lower(i)] {
		return false, nil
	}
	c.Consume(i)
	return true, nil
}

// validateEventClock rejects malformed clinic clock strings up front.
func validateEventClock(clock map[string]string) error {
	for code, s := range clock {
		if _, err := parseClockSeconds(s); err != nil {
			return fmt.Errorf("event clock %s: %w", code, err)
		}
	}
	return nil
}
