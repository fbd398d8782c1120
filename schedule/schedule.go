// Package schedule projects a FHIR Dosage timing into concrete future
// administration instants.
//
// All arithmetic happens in the patient's IANA time zone via time.Date, so
// wall-clock anchors stay correct across DST transitions and month-length
// differences. Output instants are RFC 3339 strings with a numeric zone
// offset.
package schedule

import (
	"fmt"
	"regexp"
	"sort"
	"time"

	sig "github.com/gofhir/sig"
	"github.com/gofhir/sig/cache"
	"github.com/gofhir/sig/fhir"
	"github.com/gofhir/sig/terminology"
)

// Stamp is the output layout: RFC 3339 with an always-numeric offset, so
// UTC renders as "+00:00" rather than "Z".
const Stamp = "2006-01-02T15:04:05-07:00"

// DefaultLimit caps the projection when Options.Limit is zero.
const DefaultLimit = 10

// DefaultMealOffsetMin separates a before/after-meal event from the meal
// anchor when the clinic clock defines only the meal itself.
const DefaultMealOffsetMin = 30

// Options configures a projection.
type Options struct {
	// TimeZone is the patient's IANA zone name. Required.
	TimeZone string

	// From is the exclusive-lower-bound instant: only administrations at
	// or after From are emitted. Required.
	From time.Time

	// OrderedAt anchors interval cadences ("q6h" counts from here) and the
	// immediate event. Defaults to From when zero.
	OrderedAt time.Time

	// Limit caps the number of emitted instants. Defaults to DefaultLimit.
	Limit int

	// PriorCount is how many administrations already happened, counted
	// against the dosage's bounded count. Nil means zero.
	PriorCount *int

	// EventClock overrides the default clock anchors per event code
	// ("HH:mm" or "HH:mm:ss").
	EventClock map[string]string

	// MealOffsetMin adjusts AC*/PC* events relative to a clinic clock that
	// anchors only the meal itself. Defaults to DefaultMealOffsetMin.
	MealOffsetMin int

	// FreqClock overrides the administration times used by the frequency
	// fallback, keyed by timing code ("BID") or by "freq:<N>/d".
	FreqClock map[string][]string

	// Zones caches loaded time zone locations across calls.
	Zones *cache.Map[string, *time.Location]
}

// Next projects the next administration instants of a dosage, earliest
// first, formatted with Stamp.
func Next(d *fhir.Dosage, opts Options) ([]string, error) {
	if opts.TimeZone == "" {
		return nil, sig.ErrMissingTimeZone
	}
	if opts.From.IsZero() {
		return nil, sig.ErrMissingFrom
	}
	prior := 0
	if opts.PriorCount != nil {
		if *opts.PriorCount < 0 {
			return nil, fmt.Errorf("%w: %d", sig.ErrBadPriorCount, *opts.PriorCount)
		}
		prior = *opts.PriorCount
	}
	for code, s := range opts.EventClock {
		if _, err := parseClock(s); err != nil {
			return nil, fmt.Errorf("event clock %s: %w", code, err)
		}
	}

	loc, err := loadZone(opts.TimeZone, opts.Zones)
	if err != nil {
		return nil, err
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if opts.MealOffsetMin == 0 {
		opts.MealOffsetMin = DefaultMealOffsetMin
	}

	s := fhir.FromDosage(d)
	if s == nil {
		return nil, nil
	}
	remaining := limit
	if s.Count != nil {
		left := *s.Count - prior
		if left < 0 {
			left = 0
		}
		if left < remaining {
			remaining = left
		}
	}
	if remaining == 0 {
		return nil, nil
	}

	p := &projection{
		sig:  s,
		opts: opts,
		loc:  loc,
		from: opts.From.In(loc),
	}
	p.anchor = opts.OrderedAt
	if p.anchor.IsZero() {
		p.anchor = opts.From
	}
	p.anchor = p.anchor.In(loc)

	var times []time.Time
	switch {
	case contains(s.When, "IMD"):
		times = p.immediate()
	case len(s.When) > 0 || len(s.TimeOfDay) > 0:
		times = p.eventAnchored(remaining)
	case p.intervalStep() > 0 || s.PeriodUnit == "wk" || s.PeriodUnit == "mo" || s.PeriodUnit == "a":
		times = p.interval(remaining)
	case s.Frequency != nil:
		times = p.frequencyFallback(remaining)
	case len(s.DayOfWeek) > 0:
		times = p.frequencyFallback(remaining)
	default:
		return nil, nil
	}

	out := make([]string, 0, len(times))
	for _, t := range times {
		out = append(out, t.Format(Stamp))
	}
	return out, nil
}

type projection struct {
	sig    *sig.ParsedSig
	opts   Options
	loc    *time.Location
	from   time.Time
	anchor time.Time
}

// immediate emits the single stat administration: the order instant, or the
// projection start when the order predates it.
func (p *projection) immediate() []time.Time {
	t := p.anchor
	if t.Before(p.from) {
		t = p.from
	}
	return []time.Time{t}
}

// dayStride is the day step for daily-unit cadences: 2 for every-other-day,
// 1 otherwise.
func (p *projection) dayStride() int {
	s := p.sig
	if s.Period != nil && s.PeriodUnit == "d" && *s.Period > 1 && isWholeDay(*s.Period) {
		return int(*s.Period)
	}
	return 1
}

func isWholeDay(v float64) bool { return v == float64(int(v)) }

// eventAnchored walks calendar days from the projection start, emitting one
// instant per clock anchor. Anchors come from the event codes plus any
// explicit timeOfDay entries on the repeat.
func (p *projection) eventAnchored(remaining int) []time.Time {
	secs := make([]int, 0, len(p.sig.When)+len(p.sig.TimeOfDay))
	for _, code := range p.sig.When {
		secs = append(secs, p.anchorsFor(code)...)
	}
	for _, c := range p.sig.TimeOfDay {
		if sec, err := parseClock(c); err == nil {
			secs = append(secs, sec)
		}
	}
	return p.dailyAtSeconds(secs, remaining)
}

// anchorsFor expands one event code into seconds-of-day anchors. Generic
// before/after/with-meal codes fan out across the breakfast/lunch/dinner
// anchors with the meal offset; an explicit clinic clock for the generic code
// itself pins it to that single anchor instead.
func (p *projection) anchorsFor(code string) []int {
	if s, ok := p.opts.EventClock[code]; ok {
		if sec, err := parseClock(s); err == nil {
			return []int{sec}
		}
	}
	var rel int
	switch code {
	case terminology.WhenAC:
		rel = -1
	case terminology.WhenPC:
		rel = +1
	case terminology.WhenC:
		rel = 0
	default:
		return []int{p.clockFor(code)}
	}
	off := rel * p.opts.MealOffsetMin * 60
	meals := []string{terminology.WhenCM, terminology.WhenCD, terminology.WhenCV}
	out := make([]int, 0, len(meals))
	for _, meal := range meals {
		out = append(out, p.mealClock(meal)+off)
	}
	return out
}

// mealClock resolves a concrete meal anchor: the clinic clock when supplied,
// else the default clock.
func (p *projection) mealClock(meal string) int {
	if s, ok := p.opts.EventClock[meal]; ok {
		if sec, err := parseClock(s); err == nil {
			return sec
		}
	}
	return terminology.DefaultClock[meal]
}

// frequencyFallback emits instants at conventional clock times for a bare
// N-per-day cadence.
func (p *projection) frequencyFallback(remaining int) []time.Time {
	clocks := p.fallbackClocks()
	secs := make([]int, 0, len(clocks))
	for _, c := range clocks {
		if sec, err := parseClock(c); err == nil {
			secs = append(secs, sec)
		}
	}
	return p.dailyAtSeconds(secs, remaining)
}

// conventional administration times by daily frequency.
var defaultFreqClocks = map[int][]string{
	1: {"09:00"},
	2: {"08:00", "20:00"},
	3: {"08:00", "14:00", "20:00"},
	4: {"08:00", "12:00", "16:00", "20:00"},
}

func (p *projection) fallbackClocks() []string {
	s := p.sig
	if s.TimingCode != "" {
		if cs, ok := p.opts.FreqClock[s.TimingCode]; ok {
			return cs
		}
	}
	freq := 1
	if s.Frequency != nil {
		freq = *s.Frequency
	}
	if cs, ok := p.opts.FreqClock[fmt.Sprintf("freq:%d/d", freq)]; ok {
		return cs
	}
	if cs, ok := defaultFreqClocks[freq]; ok {
		return cs
	}
	// Uncommon frequencies spread evenly through the waking day from 08:00.
	cs := make([]string, 0, freq)
	for i := 0; i < freq; i++ {
		sec := 8*3600 + i*(16*3600)/freq
		cs = append(cs, fmt.Sprintf("%02d:%02d", sec/3600, sec%3600/60))
	}
	return cs
}

// dailyAtSeconds emits instants at the given seconds-of-day anchors on each
// eligible day. The day loop is capped so a dosage whose day filter never
// matches cannot spin forever.
func (p *projection) dailyAtSeconds(secs []int, remaining int) []time.Time {
	sort.Ints(secs)
	// Codes sharing a clock (NOON and CD both at 12:00) anchor one
	// administration, not two.
	uniq := secs[:0]
	prev := -1
	for _, sec := range secs {
		if sec != prev {
			uniq = append(uniq, sec)
			prev = sec
		}
	}
	secs = uniq
	limit := p.opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	maxDays := limit * 31
	stride := p.dayStride()

	var out []time.Time
	y, m, d := p.from.Date()
	for day := 0; day < maxDays && len(out) < remaining; day++ {
		if day%stride != 0 {
			continue
		}
		date := time.Date(y, m, d+day, 0, 0, 0, 0, p.loc)
		if !p.dayAllowed(date.Weekday()) {
			continue
		}
		for _, sec := range secs {
			// time.Date normalizes, so a 24:00 anchor lands on the
			// next day's midnight.
			t := time.Date(y, m, d+day, 0, 0, sec, 0, p.loc)
			if t.Before(p.from) || t.Before(p.anchor) {
				continue
			}
			out = append(out, t)
			if len(out) == remaining {
				break
			}
		}
	}
	return out
}

var weekdayCodes = map[string]time.Weekday{
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday,
	"wed": time.Wednesday, "thu": time.Thursday, "fri": time.Friday,
	"sat": time.Saturday,
}

func (p *projection) dayAllowed(wd time.Weekday) bool {
	if len(p.sig.DayOfWeek) == 0 {
		return true
	}
	for _, code := range p.sig.DayOfWeek {
		if weekdayCodes[code] == wd {
			return true
		}
	}
	return false
}

// intervalStep returns the fixed step for second/minute/hour/day interval
// cadences, zero when the cadence is not interval-shaped.
func (p *projection) intervalStep() time.Duration {
	s := p.sig
	if s.Period == nil {
		return 0
	}
	switch s.PeriodUnit {
	case "s":
		return time.Duration(*s.Period * float64(time.Second))
	case "min":
		return time.Duration(*s.Period * float64(time.Minute))
	case "h":
		return time.Duration(*s.Period * float64(time.Hour))
	case "d":
		// Day periods carrying a frequency are daily-clock cadences
		// (every other day at 09:00), not fixed intervals.
		if s.Frequency == nil {
			return time.Duration(*s.Period * 24 * float64(time.Hour))
		}
	}
	return 0
}

// interval emits anchor+k*step instants. The anchor itself is never emitted:
// the first candidate is one full interval after the order. Week, month and
// year units step through the calendar instead of fixed durations, with
// month-end clamping. A day-of-week filter, when present, drops
// non-qualifying candidates in every branch.
func (p *projection) interval(remaining int) []time.Time {
	s := p.sig
	var out []time.Time

	const maxIter = 10000

	switch s.PeriodUnit {
	case "wk":
		n := 1
		if s.Period != nil && *s.Period >= 1 {
			n = int(*s.Period)
		}
		t := p.anchor
		for iter := 0; iter < maxIter && len(out) < remaining; iter++ {
			t = t.AddDate(0, 0, 7*n)
			if t.Before(p.from) || !p.dayAllowed(t.Weekday()) {
				continue
			}
			out = append(out, t)
		}
	case "mo", "a":
		n := 1
		if s.Period != nil && *s.Period >= 1 {
			n = int(*s.Period)
		}
		if s.PeriodUnit == "a" {
			n *= 12
		}
		for k := 1; k < maxIter && len(out) < remaining; k++ {
			t := addMonthsClamped(p.anchor, k*n)
			if t.Before(p.from) || !p.dayAllowed(t.Weekday()) {
				continue
			}
			out = append(out, t)
		}
	default:
		step := p.intervalStep()
		if step <= 0 {
			return nil
		}
		k := int64(1)
		if p.from.After(p.anchor) {
			gap := p.from.Sub(p.anchor)
			k = int64(gap / step)
			if p.anchor.Add(time.Duration(k)*step).Before(p.from) {
				k++
			}
			if k < 1 {
				k = 1
			}
		}
		for iter := 0; iter < maxIter && len(out) < remaining; iter, k = iter+1, k+1 {
			t := p.anchor.Add(time.Duration(k) * step)
			if !p.dayAllowed(t.Weekday()) {
				continue
			}
			out = append(out, t)
		}
	}
	return out
}

// addMonthsClamped adds calendar months keeping the day-of-month, clamped to
// the target month's length (Jan 31 + 1 month = Feb 28/29, not Mar 2).
func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, hh, mm, ss, t.Nanosecond(), t.Location())
}

// clockFor resolves the seconds-of-day anchor for an event code: the clinic
// clock first, then a meal-relative offset from the clinic meal anchor, then
// the default clock.
func (p *projection) clockFor(code string) int {
	if s, ok := p.opts.EventClock[code]; ok {
		if sec, err := parseClock(s); err == nil {
			return sec
		}
	}
	if meal, rel, ok := mealRelation(code); ok {
		if s, okc := p.opts.EventClock[meal]; okc {
			if sec, err := parseClock(s); err == nil {
				return sec + rel*p.opts.MealOffsetMin*60
			}
		}
	}
	if sec, ok := terminology.DefaultClock[code]; ok {
		return sec
	}
	return 9 * 3600
}

// mealRelation maps an AC*/PC* code to its meal anchor and direction.
func mealRelation(code string) (meal string, rel int, ok bool) {
	if len(code) < 3 {
		return "", 0, false
	}
	switch code[:2] {
	case "AC":
		return "C" + code[2:], -1, true
	case "PC":
		return "C" + code[2:], +1, true
	}
	return "", 0, false
}

func contains(ss []string, want string) bool {
	for _, s := range ss {
		if s == want {
			return true
		}
	}
	return false
}

var clockRE = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?$`)

// parseClock parses "HH:MM" or "HH:MM:SS" into seconds of day. "24:00" is
// accepted and means the following midnight.
func parseClock(s string) (int, error) {
	m := clockRE.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", sig.ErrBadClock, s)
	}
	h, min, sec := digits(m[1]), digits(m[2]), 0
	if m[3] != "" {
		sec = digits(m[3])
	}
	if h > 24 || min > 59 || sec > 59 || (h == 24 && (min > 0 || sec > 0)) {
		return 0, fmt.Errorf("%w: %q", sig.ErrBadClock, s)
	}
	return h*3600 + min*60 + sec, nil
}

func digits(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}

func loadZone(name string, zones *cache.Map[string, *time.Location]) (*time.Location, error) {
	if zones == nil {
		return time.LoadLocation(name)
	}
	return zones.GetOrCompute(name, func() (*time.Location, error) {
		return time.LoadLocation(name)
	})
}
