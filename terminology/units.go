package terminology

import "regexp"

// baseUnits maps unit synonyms to their canonical form, before SI-prefix
// expansion. Keys are lowercase.
var baseUnits = map[string]string{
	"tab":     "tablet",
	"tabs":    "tablet",
	"tablet":  "tablet",
	"tablets": "tablet",

	"cap":      "capsule",
	"caps":     "capsule",
	"capsule":  "capsule",
	"capsules": "capsule",

	"gtt":   "drop",
	"gtts":  "drop",
	"drop":  "drop",
	"drops": "drop",

	"cc":          "mL",
	"milliliter":  "mL",
	"milliliters": "mL",

	"unit":  "unit",
	"units": "unit",
	"u":     "unit",
	"iu":    "unit",

	"meq": "mEq",

	"puff":  "puff",
	"puffs": "puff",

	"spray":  "spray",
	"sprays": "spray",

	"patch":   "patch",
	"patches": "patch",

	"supp":           "suppository",
	"suppository":    "suppository",
	"suppositories":  "suppository",
	"pessary":        "suppository",

	"app":          "application",
	"application":  "application",
	"applications": "application",

	"amp":      "ampule",
	"amps":     "ampule",
	"ampule":   "ampule",
	"ampules":  "ampule",
	"ampoule":  "ampule",
	"ampoules": "ampule",

	"sachet":  "sachet",
	"sachets": "sachet",

	"lozenge":  "lozenge",
	"lozenges": "lozenge",

	"scoop":  "scoop",
	"scoops": "scoop",

	"vial":  "vial",
	"vials": "vial",
}

// householdVolumeUnits are only recognized when the caller permits them.
var householdVolumeUnits = map[string]string{
	"tsp":         "teaspoon",
	"teaspoon":    "teaspoon",
	"teaspoons":   "teaspoon",
	"tbsp":        "tablespoon",
	"tablespoon":  "tablespoon",
	"tablespoons": "tablespoon",
}

// siUnits holds metric base units and the SI prefixes expanded for each.
// Expansion keeps the conventional clinical spellings: mcg as well as ug/µg.
var siUnits = []struct {
	base     string // canonical suffix ("g", "L")
	synonyms []string
	prefixes map[string][]string // canonical prefix -> written prefixes
}{
	{
		base:     "g",
		synonyms: []string{"g", "gm", "gram", "grams"},
		prefixes: map[string][]string{
			"m":  {"m", "milli"},
			"mc": {"mc", "u", "µ", "micro"},
			"k":  {"k", "kilo"},
			"n":  {"n", "nano"},
		},
	},
	{
		base:     "L",
		synonyms: []string{"l", "liter", "liters", "litre", "litres"},
		prefixes: map[string][]string{
			"m":  {"m", "milli"},
			"mc": {"mc", "u", "µ", "micro"},
			"d":  {"d", "deci"},
		},
	},
}

// UnitSynonyms is the full builtin unit table: base units plus SI-prefix
// expansion. Canonical forms: tablet, capsule, drop, mL, mg, mcg, g, ...
var UnitSynonyms = buildUnitSynonyms()

func buildUnitSynonyms() map[string]string {
	m := make(map[string]string, len(baseUnits)*2)
	for k, v := range baseUnits {
		m[k] = v
	}
	for _, u := range siUnits {
		canonBase := u.base
		for _, syn := range u.synonyms {
			m[syn] = canonBase
		}
		for canonPrefix, written := range u.prefixes {
			canon := canonPrefix + canonBase
			// mcg not mcG; mL keeps the capital L
			for _, wp := range written {
				for _, syn := range u.synonyms {
					m[wp+syn] = canon
				}
			}
		}
	}
	// Canonical spellings map to themselves.
	for _, c := range []string{"mL", "mcL", "dL", "mg", "mcg", "kg", "ng", "g", "L", "mEq"} {
		m[lower(c)] = c
	}
	return m
}

func lower(s string) string {
	b := []byte(s)
	for i := range b {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}

// LookupUnit resolves a token through the custom map, then the builtin
// table, then the household table when permitted.
func LookupUnit(custom map[string]string, tok string, allowHousehold bool) (string, bool) {
	if u, ok := custom[tok]; ok {
		return u, true
	}
	if u, ok := UnitSynonyms[tok]; ok {
		return u, true
	}
	if allowHousehold {
		if u, ok := householdVolumeUnits[tok]; ok {
			return u, true
		}
	}
	return "", false
}

// FormInfo is the unit and route a dosage form implies.
type FormInfo struct {
	Unit     string
	RouteSyn string // a RouteSynonyms key, empty when the form implies none
}

// DoseForms normalizes dosage-form names to an implied unit and route.
var DoseForms = map[string]FormInfo{
	"tablet":              {Unit: "tablet", RouteSyn: "po"},
	"capsule":             {Unit: "capsule", RouteSyn: "po"},
	"oral solution":       {Unit: "mL", RouteSyn: "po"},
	"oral suspension":     {Unit: "mL", RouteSyn: "po"},
	"solution":            {Unit: "mL"},
	"suspension":          {Unit: "mL"},
	"syrup":               {Unit: "mL", RouteSyn: "po"},
	"elixir":              {Unit: "mL", RouteSyn: "po"},
	"ophthalmic solution": {Unit: "drop", RouteSyn: "ophthalmic"},
	"eye drops":           {Unit: "drop", RouteSyn: "ophthalmic"},
	"otic solution":       {Unit: "drop", RouteSyn: "otic"},
	"ear drops":           {Unit: "drop", RouteSyn: "otic"},
	"nasal spray":         {Unit: "spray", RouteSyn: "nas"},
	"inhaler":             {Unit: "puff", RouteSyn: "inh"},
	"inhalation aerosol":  {Unit: "puff", RouteSyn: "inh"},
	"cream":               {Unit: "application", RouteSyn: "top"},
	"ointment":            {Unit: "application", RouteSyn: "top"},
	"gel":                 {Unit: "application", RouteSyn: "top"},
	"lotion":              {Unit: "application", RouteSyn: "top"},
	"patch":               {Unit: "patch", RouteSyn: "td"},
	"suppository":         {Unit: "suppository", RouteSyn: "pr"},
	"injection":           {Unit: "mL"},
	"solution for injection": {Unit: "mL"},
}

// ContainerUnits maps dispensing containers to an implied unit.
var ContainerUnits = map[string]string{
	"bottle":  "mL",
	"inhaler": "puff",
	"tube":    "application",
	"vial":    "mL",
}

// sitePatternUnits maps site-text patterns to the unit they hint at.
var sitePatternUnits = []struct {
	re   *regexp.Regexp
	unit string
}{
	{regexp.MustCompile(`\beyes?\b`), "drop"},
	{regexp.MustCompile(`\bears?\b`), "drop"},
	{regexp.MustCompile(`\b(nostrils?|nose)\b`), "spray"},
}

// UnitForSiteText infers a unit from free site text ("left eye" hints at
// drops). Returns false when no pattern matches.
func UnitForSiteText(siteText string) (string, bool) {
	for _, e := range sitePatternUnits {
		if e.re.MatchString(siteText) {
			return e.unit, true
		}
	}
	return "", false
}

// TimeUnits maps interval unit synonyms to FHIR UnitsOfTime codes.
var TimeUnits = map[string]string{
	"s":       "s",
	"sec":     "s",
	"secs":    "s",
	"second":  "s",
	"seconds": "s",

	"min":     "min",
	"mins":    "min",
	"minute":  "min",
	"minutes": "min",

	"h":     "h",
	"hr":    "h",
	"hrs":   "h",
	"hour":  "h",
	"hours": "h",

	"d":    "d",
	"day":  "d",
	"days": "d",

	"w":     "wk",
	"wk":    "wk",
	"wks":   "wk",
	"week":  "wk",
	"weeks": "wk",

	"mo":     "mo",
	"mon":    "mo",
	"month":  "mo",
	"months": "mo",

	"y":     "a",
	"yr":    "a",
	"yrs":   "a",
	"year":  "a",
	"years": "a",
}
