package format

import (
	"fmt"
	"strconv"
	"strings"

	sig "github.com/gofhir/sig"
	"github.com/gofhir/sig/terminology"
)

// EnglishGrammar renders dose-first English sentences.
type EnglishGrammar struct{}

// verbs by route code; Use is the fallback.
var englishVerbs = map[string]string{
	terminology.RouteOral:         "Take",
	terminology.RouteSublingual:   "Place",
	terminology.RouteBuccal:       "Place",
	terminology.RouteRectal:       "Insert",
	terminology.RouteVaginal:      "Insert",
	terminology.RouteIM:           "Inject",
	terminology.RouteIV:           "Inject",
	terminology.RouteSubcut:       "Inject",
	terminology.RouteIntradermal:  "Inject",
	terminology.RouteTransdermal:  "Apply",
	terminology.RouteInhalation:   "Inhale",
	terminology.RouteNasal:        "Spray",
	terminology.RouteOphthalmic:   "Instill",
	terminology.RouteOtic:         "Instill",
	terminology.RouteTopical:      "Apply",
	terminology.RouteIntravitreal: "Inject",
	terminology.RouteGastrostomy:  "Give",
}

var englishRoutePhrases = map[string]string{
	terminology.RouteOral:         "by mouth",
	terminology.RouteSublingual:   "under the tongue",
	terminology.RouteBuccal:       "inside the cheek",
	terminology.RouteRectal:       "rectally",
	terminology.RouteVaginal:      "vaginally",
	terminology.RouteIM:           "intramuscularly",
	terminology.RouteIV:           "intravenously",
	terminology.RouteSubcut:       "under the skin",
	terminology.RouteIntradermal:  "intradermally",
	terminology.RouteTransdermal:  "to the skin",
	terminology.RouteInhalation:   "by inhalation",
	terminology.RouteNasal:        "into the nose",
	terminology.RouteOphthalmic:   "into the eye",
	terminology.RouteOtic:         "into the ear",
	terminology.RouteTopical:      "to the affected area",
	terminology.RouteIntrathecal:  "intrathecally",
	terminology.RouteIntravitreal: "into the eye",
	terminology.RouteGastrostomy:  "via gastrostomy tube",
}

var englishRouteAbbrev = map[string]string{
	terminology.RouteOral:         "PO",
	terminology.RouteSublingual:   "SL",
	terminology.RouteBuccal:       "BUCC",
	terminology.RouteRectal:       "PR",
	terminology.RouteVaginal:      "PV",
	terminology.RouteIM:           "IM",
	terminology.RouteIV:           "IV",
	terminology.RouteSubcut:       "SC",
	terminology.RouteIntradermal:  "ID",
	terminology.RouteTransdermal:  "TD",
	terminology.RouteInhalation:   "INH",
	terminology.RouteNasal:        "NAS",
	terminology.RouteOphthalmic:   "OPHT",
	terminology.RouteOtic:         "OTIC",
	terminology.RouteTopical:      "TOP",
	terminology.RouteIntrathecal:  "IT",
	terminology.RouteIntravitreal: "IVT",
	terminology.RouteGastrostomy:  "G-TUBE",
}

var englishTimingPhrases = map[string]string{
	"QD":  "once daily",
	"QOD": "every other day",
	"BID": "twice daily",
	"TID": "3 times daily",
	"QID": "4 times daily",
	"QHS": "nightly at bedtime",
	"QAM": "every morning",
	"QPM": "every evening",
}

var englishDayNames = map[string]string{
	"mon": "Monday", "tue": "Tuesday", "wed": "Wednesday", "thu": "Thursday",
	"fri": "Friday", "sat": "Saturday", "sun": "Sunday",
}

// metric units never pluralize and keep their casing.
var metricUnits = map[string]bool{
	"mg": true, "mcg": true, "g": true, "kg": true, "ng": true,
	"mL": true, "mcL": true, "dL": true, "L": true, "mEq": true,
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func pluralUnit(unit string, v float64) string {
	if unit == "" || metricUnits[unit] || v == 1 {
		return unit
	}
	if strings.HasSuffix(unit, "y") {
		return unit[:len(unit)-1] + "ies"
	}
	return unit + "s"
}

func joinAnd(parts []string) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	case 2:
		return parts[0] + " and " + parts[1]
	default:
		return strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1]
	}
}

// Render builds the sentence. Long produces a patient-facing sentence ending
// with a period; Short keeps clinical shorthand with no terminal punctuation.
func (EnglishGrammar) Render(s *sig.ParsedSig, style Style) string {
	if style == Short {
		return renderEnglishShort(s)
	}
	return renderEnglishLong(s)
}

func renderEnglishLong(s *sig.ParsedSig) string {
	var parts []string

	verb := "Use"
	if v, ok := englishVerbs[s.RouteCode]; ok {
		verb = v
	}
	parts = append(parts, verb)

	if d := englishDose(s, true); d != "" {
		parts = append(parts, d)
	}

	if s.SiteText != "" {
		parts = append(parts, "in the "+s.SiteText)
	} else if p, ok := englishRoutePhrases[s.RouteCode]; ok {
		parts = append(parts, p)
	}

	if cad := englishCadence(s); cad != "" {
		parts = append(parts, cad)
	}
	if whens := englishWhens(s.When); whens != "" {
		parts = append(parts, whens)
	}
	if days := englishDays(s.DayOfWeek); days != "" {
		parts = append(parts, days)
	}
	if s.AsNeeded {
		if s.Reason != "" {
			parts = append(parts, "as needed for "+s.Reason)
		} else {
			parts = append(parts, "as needed")
		}
	}
	if s.Count != nil {
		parts = append(parts, fmt.Sprintf("for %d %s", *s.Count, plural("dose", *s.Count)))
	}

	sentence := strings.Join(parts, " ") + "."
	for _, inst := range s.Instructions {
		sentence += " " + capitalize(inst.Text) + "."
	}
	return sentence
}

func renderEnglishShort(s *sig.ParsedSig) string {
	var parts []string

	if d := englishDose(s, false); d != "" {
		parts = append(parts, d)
	}
	if ab, ok := englishRouteAbbrev[s.RouteCode]; ok {
		parts = append(parts, ab)
	}
	if s.SiteText != "" {
		parts = append(parts, s.SiteText)
	}
	if s.TimingCode != "" {
		parts = append(parts, s.TimingCode)
	} else if cad := englishCadence(s); cad != "" {
		parts = append(parts, cad)
	}
	if len(s.When) > 0 && s.TimingCode == "" {
		parts = append(parts, strings.Join(s.When, " "))
	}
	if len(s.DayOfWeek) > 0 {
		parts = append(parts, strings.Join(s.DayOfWeek, " "))
	}
	if s.AsNeeded {
		prn := "PRN"
		if s.Reason != "" {
			prn += " " + s.Reason
		}
		parts = append(parts, prn)
	}
	if s.Count != nil {
		parts = append(parts, fmt.Sprintf("x%d", *s.Count))
	}
	return strings.Join(parts, " ")
}

func englishDose(s *sig.ParsedSig, long bool) string {
	switch {
	case s.DoseLow != nil && s.DoseHigh != nil:
		sep := "-"
		if long {
			sep = " to "
		}
		return num(*s.DoseLow) + sep + num(*s.DoseHigh) + " " + unitFor(s, *s.DoseHigh, long)
	case s.DoseValue != nil:
		return num(*s.DoseValue) + " " + unitFor(s, *s.DoseValue, long)
	}
	return ""
}

func unitFor(s *sig.ParsedSig, v float64, long bool) string {
	if !long {
		return s.Unit
	}
	return pluralUnit(s.Unit, v)
}

func englishCadence(s *sig.ParsedSig) string {
	if p, ok := englishTimingPhrases[s.TimingCode]; ok {
		return p
	}

	switch {
	case s.Period != nil && s.PeriodUnit != "d":
		unit := englishTimeUnit(s.PeriodUnit)
		if s.PeriodMax != nil {
			return "every " + num(*s.Period) + " to " + num(*s.PeriodMax) + " " + plural(unit, 2)
		}
		if *s.Period == 1 {
			return "every " + unit
		}
		return "every " + num(*s.Period) + " " + plural(unit, int(*s.Period)+1)
	case s.Frequency != nil:
		freq := *s.Frequency
		var f string
		switch freq {
		case 1:
			f = "once"
		case 2:
			f = "twice"
		default:
			f = fmt.Sprintf("%d times", freq)
		}
		if s.FrequencyMax != nil {
			f = fmt.Sprintf("%d to %d times", freq, *s.FrequencyMax)
		}
		switch {
		case s.Period == nil || (*s.Period == 1 && s.PeriodUnit == "d"):
			return f + " daily"
		case *s.Period == 2 && s.PeriodUnit == "d":
			return f + " every other day"
		default:
			return f + " every " + num(*s.Period) + " " + plural(englishTimeUnit(s.PeriodUnit), int(*s.Period)+1)
		}
	case s.Period != nil:
		if *s.Period == 2 {
			return "every other day"
		}
		if *s.Period > 1 {
			return "every " + num(*s.Period) + " days"
		}
		return "daily"
	}
	return ""
}

var englishTimeUnits = map[string]string{
	"s": "second", "min": "minute", "h": "hour", "d": "day",
	"wk": "week", "mo": "month", "a": "year",
}

func englishTimeUnit(code string) string {
	if u, ok := englishTimeUnits[code]; ok {
		return u
	}
	return code
}

func englishWhens(whens []string) string {
	if len(whens) == 0 {
		return ""
	}
	parts := make([]string, 0, len(whens))
	for _, w := range whens {
		if w == "IMD" {
			parts = append(parts, "immediately")
			continue
		}
		if d, ok := terminology.WhenDisplay[w]; ok {
			parts = append(parts, d)
		} else {
			parts = append(parts, w)
		}
	}
	return joinAnd(parts)
}

func englishDays(days []string) string {
	if len(days) == 0 {
		return ""
	}
	parts := make([]string, 0, len(days))
	for _, d := range days {
		if n, ok := englishDayNames[d]; ok {
			parts = append(parts, n)
		} else {
			parts = append(parts, d)
		}
	}
	return "on " + joinAnd(parts)
}

func plural(word string, n int) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
