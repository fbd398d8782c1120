package parser

import (
	"fmt"
	"regexp"
	"sort"

	sig "github.com/gofhir/sig"
	"github.com/gofhir/sig/terminology"
)

// backfillUnit infers a missing dose unit after the main loop, trying in
// order: an unconsumed token that is itself a unit, the medication context
// (dose form, container, explicit default), the resolved route, and finally
// the body site.
func (c *Context) backfillUnit() {
	s := c.Sig
	if !s.HasDose() || s.Unit != "" {
		return
	}

	for i := range c.Tokens {
		if c.IsConsumed(i) {
			continue
		}
		if unit, ok := terminology.LookupUnit(c.Opts.UnitMap, c.lower(i), c.Opts.AllowHouseholdVolumeUnits); ok {
			s.Unit = unit
			c.Consume(i)
			return
		}
	}

	if !c.Opts.InferFromContext {
		return
	}
	mc := c.Opts.Context
	if mc != nil {
		if mc.DefaultUnit != "" {
			s.Unit = mc.DefaultUnit
			return
		}
		if info, ok := terminology.DoseForms[mc.DoseForm]; ok {
			s.Unit = info.Unit
			return
		}
		if u, ok := terminology.ContainerUnits[mc.ContainerUnit]; ok {
			s.Unit = u
			return
		}
	}
	if u, ok := terminology.DefaultUnitByRoute[s.RouteCode]; ok {
		s.Unit = u
		return
	}
	if s.SiteText != "" {
		if u, ok := terminology.UnitForSiteText(s.SiteText); ok {
			s.Unit = u
		}
	}
}

// backfillRouteFromContext applies the medication context's route hints when
// no token named one: the dose form's implied route first, then the explicit
// default.
func (c *Context) backfillRouteFromContext() {
	s := c.Sig
	if s.RouteCode != "" || !c.Opts.InferFromContext || c.Opts.Context == nil {
		return
	}
	mc := c.Opts.Context
	if info, ok := terminology.DoseForms[mc.DoseForm]; ok && info.RouteSyn != "" {
		if r, ok := terminology.LookupRoute(c.Opts.RouteMap, info.RouteSyn); ok {
			c.setRoute(r)
			return
		}
	}
	if mc.DefaultRoute != "" {
		if r, ok := terminology.LookupRoute(c.Opts.RouteMap, mc.DefaultRoute); ok {
			c.setRoute(r)
		}
	}
}

// canonicalCadences maps a timing code back to its full cadence entry, for
// custom frequency maps that assign only a code.
var canonicalCadences = map[string]sig.Cadence{
	"QD":  {Code: "QD", Frequency: 1, Period: 1, PeriodUnit: "d"},
	"QOD": {Code: "QOD", Frequency: 1, Period: 2, PeriodUnit: "d"},
	"BID": {Code: "BID", Frequency: 2, Period: 1, PeriodUnit: "d"},
	"TID": {Code: "TID", Frequency: 3, Period: 1, PeriodUnit: "d"},
	"QID": {Code: "QID", Frequency: 4, Period: 1, PeriodUnit: "d"},
}

// backfillCadenceFromCode fills frequency and period from the timing code
// when a rule assigned only the code.
func (c *Context) backfillCadenceFromCode() {
	s := c.Sig
	if s.TimingCode == "" || s.Frequency != nil || s.Period != nil {
		return
	}
	if entry, ok := canonicalCadences[s.TimingCode]; ok {
		c.applyCadence(entry)
	}
}

// backfillCodeFromCadence assigns the conventional timing code when the
// numeric cadence pins one down exactly.
func (c *Context) backfillCodeFromCadence() {
	s := c.Sig
	if s.TimingCode != "" || s.Frequency == nil || s.FrequencyMax != nil || s.PeriodMax != nil {
		return
	}
	daily := s.Period == nil || (*s.Period == 1 && s.PeriodUnit == "d")
	if !daily {
		return
	}
	switch *s.Frequency {
	case 2:
		s.TimingCode = "BID"
	case 3:
		s.TimingCode = "TID"
	case 4:
		s.TimingCode = "QID"
	}
}

// mealFamilies maps each generic meal code to its specific expansions.
var mealFamilies = map[string][]string{
	terminology.WhenAC: {terminology.WhenACM, terminology.WhenACD, terminology.WhenACV},
	terminology.WhenPC: {terminology.WhenPCM, terminology.WhenPCD, terminology.WhenPCV},
	terminology.WhenC:  {terminology.WhenCM, terminology.WhenCD, terminology.WhenCV},
}

// reconcileMealSpecificity drops a generic meal code when a specific member
// of the same family is also present ("ac" beside "acm" adds nothing).
func (c *Context) reconcileMealSpecificity() {
	s := c.Sig
	if len(s.When) < 2 {
		return
	}
	drop := map[string]bool{}
	for generic, members := range mealFamilies {
		for _, m := range members {
			if contains(s.When, m) {
				drop[generic] = true
				break
			}
		}
	}
	if len(drop) == 0 {
		return
	}
	kept := s.When[:0]
	for _, w := range s.When {
		if !drop[w] {
			kept = append(kept, w)
		}
	}
	s.When = kept
}

// mealSuffixesFor picks which meals a daily frequency covers. Two-a-day
// coverage is a practice convention, so it is an option.
func (c *Context) mealSuffixesFor(freq int) []string {
	switch freq {
	case 1:
		return []string{"M"}
	case 2:
		if c.Opts.TwoPerDayPair == sig.PairBreakfastLunch {
			return []string{"M", "D"}
		}
		return []string{"M", "V"}
	case 3:
		return []string{"M", "D", "V"}
	default:
		return nil
	}
}

// expandSmartMeals rewrites a generic meal-relation code into per-meal codes
// when the daily frequency says which meals are meant: "tid pc" becomes
// PCM, PCD, PCV. A frequency of four covers three meals plus bedtime.
func (c *Context) expandSmartMeals() {
	if !c.Opts.SmartMealExpansion {
		return
	}
	s := c.Sig
	if s.Frequency == nil || s.FrequencyMax != nil {
		return
	}
	if s.Period != nil && (*s.Period != 1 || s.PeriodUnit != "d") {
		return
	}
	freq := *s.Frequency
	bedtime := false
	if freq == 4 {
		freq, bedtime = 3, true
	}
	suffixes := c.mealSuffixesFor(freq)
	if suffixes == nil {
		return
	}

	for generic := range mealFamilies {
		if !contains(s.When, generic) {
			continue
		}
		prefix := generic
		if generic == terminology.WhenC {
			prefix = "C"
		}
		expanded := make([]string, 0, len(s.When)+len(suffixes))
		for _, w := range s.When {
			if w != generic {
				expanded = append(expanded, w)
			}
		}
		for _, sfx := range suffixes {
			expanded = appendUnique(expanded, prefix+sfx)
		}
		if bedtime {
			expanded = appendUnique(expanded, terminology.WhenHS)
		}
		s.When = expanded
		return
	}
}

// sortWhen orders event codes chronologically by their clock weights so the
// rendered text reads in day order.
func (c *Context) sortWhen() {
	s := c.Sig
	if len(s.When) < 2 {
		return
	}
	sort.SliceStable(s.When, func(a, b int) bool {
		return c.clockWeight(s.When[a]) < c.clockWeight(s.When[b])
	})
}

// clockWeight returns the seconds-of-day weight for an event code, from the
// clinic clock override when present, the default clock otherwise. Unknown
// codes sort last.
func (c *Context) clockWeight(code string) int {
	if s, ok := c.Opts.EventClock[code]; ok {
		if sec, err := parseClockSeconds(s); err == nil {
			return sec
		}
	}
	if sec, ok := terminology.DefaultClock[code]; ok {
		return sec
	}
	return 1 << 30
}

var clockRE = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?$`)

// parseClockSeconds parses "HH:MM" or "HH:MM:SS" into seconds of day.
// "24:00" is accepted and means the very end of the day.
func parseClockSeconds(s string) (int, error) {
	m := clockRE.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", sig.ErrBadClock, s)
	}
	h := atoi2(m[1])
	min := atoi2(m[2])
	sec := 0
	if m[3] != "" {
		sec = atoi2(m[3])
	}
	if h > 24 || min > 59 || sec > 59 || (h == 24 && (min > 0 || sec > 0)) {
		return 0, fmt.Errorf("%w: %q", sig.ErrBadClock, s)
	}
	return h*3600 + min*60 + sec, nil
}

func atoi2(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}

func contains(ss []string, want string) bool {
	for _, s := range ss {
		if s == want {
			return true
		}
	}
	return false
}

func appendUnique(ss []string, s string) []string {
	if contains(ss, s) {
		return ss
	}
	return append(ss, s)
}
