package terminology

import sig "github.com/gofhir/sig"

// Event-timing codes (FHIR EventTiming / HL7 v3 TimingEvent).
const (
	WhenMorn      = "MORN"
	WhenMornEarly = "MORN.early"
	WhenMornLate  = "MORN.late"
	WhenNoon      = "NOON"
	WhenAft       = "AFT"
	WhenAftEarly  = "AFT.early"
	WhenAftLate   = "AFT.late"
	WhenEve       = "EVE"
	WhenEveEarly  = "EVE.early"
	WhenEveLate   = "EVE.late"
	WhenNight     = "NIGHT"
	WhenPHS       = "PHS"
	WhenHS        = "HS"
	WhenWake      = "WAKE"
	WhenC         = "C"
	WhenCM        = "CM"
	WhenCD        = "CD"
	WhenCV        = "CV"
	WhenAC        = "AC"
	WhenACM       = "ACM"
	WhenACD       = "ACD"
	WhenACV       = "ACV"
	WhenPC        = "PC"
	WhenPCM       = "PCM"
	WhenPCD       = "PCD"
	WhenPCV       = "PCV"
	WhenImmediate = "IMD"
)

// TimingAbbreviations maps cadence shorthands to their declared fields.
// Zero-valued fields are left unset when an entry is applied.
var TimingAbbreviations = map[string]sig.Cadence{
	"qd":  {Code: "QD", Frequency: 1, Period: 1, PeriodUnit: "d"},
	"od":  {Code: "QD", Frequency: 1, Period: 1, PeriodUnit: "d"},
	"q1d": {Code: "QD", Frequency: 1, Period: 1, PeriodUnit: "d"},

	"bid": {Code: "BID", Frequency: 2, Period: 1, PeriodUnit: "d"},
	"bd":  {Code: "BID", Frequency: 2, Period: 1, PeriodUnit: "d"},
	"tid": {Code: "TID", Frequency: 3, Period: 1, PeriodUnit: "d"},
	"tds": {Code: "TID", Frequency: 3, Period: 1, PeriodUnit: "d"},
	"qid": {Code: "QID", Frequency: 4, Period: 1, PeriodUnit: "d"},
	"qds": {Code: "QID", Frequency: 4, Period: 1, PeriodUnit: "d"},

	"qod": {Code: "QOD", Frequency: 1, Period: 2, PeriodUnit: "d"},

	"qam": {Code: "QAM", Frequency: 1, Period: 1, PeriodUnit: "d", When: []string{WhenMorn}},
	"qpm": {Code: "QPM", Frequency: 1, Period: 1, PeriodUnit: "d", When: []string{WhenEve}},
	"qhs": {Code: "QHS", Frequency: 1, Period: 1, PeriodUnit: "d", When: []string{WhenHS}},
	"qn":  {Code: "QN", Frequency: 1, Period: 1, PeriodUnit: "d", When: []string{WhenNight}},

	"hs": {When: []string{WhenHS}},

	"qh":   {Code: "QH", Period: 1, PeriodUnit: "h"},
	"q4h":  {Code: "Q4H", Period: 4, PeriodUnit: "h"},
	"q6h":  {Code: "Q6H", Period: 6, PeriodUnit: "h"},
	"q8h":  {Code: "Q8H", Period: 8, PeriodUnit: "h"},
	"q12h": {Code: "Q12H", Period: 12, PeriodUnit: "h"},

	"qw":  {Code: "QW", Frequency: 1, Period: 1, PeriodUnit: "wk"},
	"qwk": {Code: "QW", Frequency: 1, Period: 1, PeriodUnit: "wk"},
	"biw": {Code: "BIW", Frequency: 2, Period: 1, PeriodUnit: "wk"},
	"tiw": {Code: "TIW", Frequency: 3, Period: 1, PeriodUnit: "wk"},

	"qmo": {Code: "QMO", Frequency: 1, Period: 1, PeriodUnit: "mo"},

	"stat": {Code: "STAT", When: []string{WhenImmediate}},
}

// WordFrequencies maps spelled-out cadence words to their fields.
var WordFrequencies = map[string]sig.Cadence{
	"daily":   {Code: "QD", Frequency: 1, Period: 1, PeriodUnit: "d"},
	"nightly": {Code: "QHS", Frequency: 1, Period: 1, PeriodUnit: "d", When: []string{WhenHS}},
	"weekly":  {Code: "QW", Frequency: 1, Period: 1, PeriodUnit: "wk"},
	"monthly": {Code: "QMO", Frequency: 1, Period: 1, PeriodUnit: "mo"},
	"hourly":  {Code: "QH", Period: 1, PeriodUnit: "h"},
}

// LookupCadence resolves a cadence token through the custom map first.
func LookupCadence(custom map[string]sig.Cadence, tok string) (sig.Cadence, bool) {
	if c, ok := custom[tok]; ok {
		return c, true
	}
	c, ok := TimingAbbreviations[tok]
	return c, ok
}

// EventTokens maps single event-timing words to their codes.
var EventTokens = map[string]string{
	"morning":   WhenMorn,
	"noon":      WhenNoon,
	"midday":    WhenNoon,
	"afternoon": WhenAft,
	"evening":   WhenEve,
	"night":     WhenNight,
	"bedtime":   WhenHS,
	"breakfast": WhenCM,
	"lunch":     WhenCD,
	"dinner":    WhenCV,
	"supper":    WhenCV,
	"waking":    WhenWake,
}

// LookupWhen resolves an event-timing token through the custom map first.
func LookupWhen(custom map[string]string, tok string) (string, bool) {
	if w, ok := custom[tok]; ok {
		return w, true
	}
	w, ok := EventTokens[tok]
	return w, ok
}

// EventTokenPairs maps two-token combinations, checked before single-token
// lookup so "early morning" never resolves as bare "morning".
var EventTokenPairs = map[[2]string]string{
	{"early", "morning"}:   WhenMornEarly,
	{"late", "morning"}:    WhenMornLate,
	{"early", "afternoon"}: WhenAftEarly,
	{"late", "afternoon"}:  WhenAftLate,
	{"early", "evening"}:   WhenEveEarly,
	{"late", "evening"}:    WhenEveLate,
	{"upon", "waking"}:     WhenWake,
	{"on", "waking"}:       WhenWake,
	{"at", "bedtime"}:      WhenHS,
	{"before", "meals"}:    WhenAC,
	{"after", "meals"}:     WhenPC,
	{"with", "meals"}:      WhenC,
	{"with", "food"}:       WhenC,
}

// DefaultClock maps every event-timing code to an approximate second of day
// used to order When chronologically when the caller supplies no clinic
// clock.
var DefaultClock = map[string]int{
	WhenImmediate: 0,
	WhenWake:      6*3600 + 30*60,
	WhenMornEarly: 6 * 3600,
	WhenACM:       7*3600 + 30*60,
	WhenMorn:      8 * 3600,
	WhenCM:        8 * 3600,
	WhenPCM:       8*3600 + 30*60,
	WhenMornLate:  10 * 3600,
	WhenACD:       11*3600 + 30*60,
	WhenAC:        11*3600 + 30*60,
	WhenNoon:      12 * 3600,
	WhenCD:        12 * 3600,
	WhenC:         12 * 3600,
	WhenPCD:       12*3600 + 30*60,
	WhenPC:        12*3600 + 30*60,
	WhenAftEarly:  13 * 3600,
	WhenAft:       14 * 3600,
	WhenAftLate:   16 * 3600,
	WhenEveEarly:  17 * 3600,
	WhenACV:       17*3600 + 30*60,
	WhenEve:       18 * 3600,
	WhenCV:        18 * 3600,
	WhenPCV:       18*3600 + 30*60,
	WhenEveLate:   20 * 3600,
	WhenNight:     21 * 3600,
	WhenPHS:       21*3600 + 30*60,
	WhenHS:        22 * 3600,
}

// WhenDisplay maps event-timing codes to display text for formatting.
var WhenDisplay = map[string]string{
	WhenMorn:      "in the morning",
	WhenMornEarly: "in the early morning",
	WhenMornLate:  "in the late morning",
	WhenNoon:      "at noon",
	WhenAft:       "in the afternoon",
	WhenAftEarly:  "in the early afternoon",
	WhenAftLate:   "in the late afternoon",
	WhenEve:       "in the evening",
	WhenEveEarly:  "in the early evening",
	WhenEveLate:   "in the late evening",
	WhenNight:     "at night",
	WhenPHS:       "after bedtime",
	WhenHS:        "at bedtime",
	WhenWake:      "upon waking",
	WhenC:         "with meals",
	WhenCM:        "with breakfast",
	WhenCD:        "with lunch",
	WhenCV:        "with dinner",
	WhenAC:        "before meals",
	WhenACM:       "before breakfast",
	WhenACD:       "before lunch",
	WhenACV:       "before dinner",
	WhenPC:        "after meals",
	WhenPCM:       "after breakfast",
	WhenPCD:       "after lunch",
	WhenPCV:       "after dinner",
	WhenImmediate: "immediately",
}

// DaysOfWeek maps day tokens to lowercase three-letter codes.
var DaysOfWeek = map[string]string{
	"mon": "mon", "monday": "mon",
	"tue": "tue", "tues": "tue", "tuesday": "tue",
	"wed": "wed", "weds": "wed", "wednesday": "wed",
	"thu": "thu", "thur": "thu", "thurs": "thu", "thursday": "thu",
	"fri": "fri", "friday": "fri",
	"sat": "sat", "saturday": "sat",
	"sun": "sun", "sunday": "sun",
}

// Discouraged maps abbreviations on the do-not-use list to the wording to
// prefer. Presence here produces a warning (or an error when discouraged
// tokens are disallowed).
var Discouraged = map[string]string{
	"od":    "daily",
	"qd":    "daily",
	"qod":   "every other day",
	"biw":   "2 times weekly",
	"tiw":   "3 times weekly",
	"bld":   "with meals",
	"b-l-d": "with meals",
}

// FillerConnectors are generic connector words the parser may skip.
var FillerConnectors = map[string]bool{
	"per":   true,
	"a":     true,
	"an":    true,
	"every": true,
	"each":  true,
}

// CountFillers are words that may wrap a count-limit phrase
// ("for a total of 3 doses", "up to 3 times").
var CountFillers = map[string]bool{
	"for":   true,
	"a":     true,
	"total": true,
	"of":    true,
	"up":    true,
	"to":    true,
}

// SpelledNumbers maps number words used in count-based frequencies.
var SpelledNumbers = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6,
	"seven": 7, "eight": 8, "nine": 9, "ten": 10, "eleven": 11, "twelve": 12,
}
