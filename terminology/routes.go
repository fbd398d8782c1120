package terminology

import (
	"regexp"

	sig "github.com/gofhir/sig"
)

// SNOMED route codes referenced by the parser's disambiguation logic.
const (
	RouteOral         = "26643006"
	RouteSublingual   = "37839007"
	RouteBuccal       = "54471007"
	RouteRectal       = "37161004"
	RouteVaginal      = "16857009"
	RouteIM           = "78421000"
	RouteIV           = "47625008"
	RouteSubcut       = "34206005"
	RouteIntradermal  = "372464004"
	RouteTransdermal  = "45890007"
	RouteInhalation   = "447694001"
	RouteNasal        = "46713006"
	RouteOphthalmic   = "54485002"
	RouteOtic         = "10547007"
	RouteTopical      = "6064005"
	RouteIntrathecal  = "72607000"
	RouteIntravitreal = "418401004"
	RouteGastrostomy  = "127490009"
)

var (
	routeOral         = sig.Route{Code: RouteOral, Display: "Oral route"}
	routeSublingual   = sig.Route{Code: RouteSublingual, Display: "Sublingual route"}
	routeBuccal       = sig.Route{Code: RouteBuccal, Display: "Buccal route"}
	routeRectal       = sig.Route{Code: RouteRectal, Display: "Rectal route"}
	routeVaginal      = sig.Route{Code: RouteVaginal, Display: "Vaginal route"}
	routeIM           = sig.Route{Code: RouteIM, Display: "Intramuscular route"}
	routeIV           = sig.Route{Code: RouteIV, Display: "Intravenous route"}
	routeSubcut       = sig.Route{Code: RouteSubcut, Display: "Subcutaneous route"}
	routeIntradermal  = sig.Route{Code: RouteIntradermal, Display: "Intradermal route"}
	routeTransdermal  = sig.Route{Code: RouteTransdermal, Display: "Transdermal route"}
	routeInhalation   = sig.Route{Code: RouteInhalation, Display: "Respiratory tract route"}
	routeNasal        = sig.Route{Code: RouteNasal, Display: "Nasal route"}
	routeOphthalmic   = sig.Route{Code: RouteOphthalmic, Display: "Ophthalmic route"}
	routeOtic         = sig.Route{Code: RouteOtic, Display: "Otic route"}
	routeTopical      = sig.Route{Code: RouteTopical, Display: "Topical route"}
	routeIntrathecal  = sig.Route{Code: RouteIntrathecal, Display: "Intrathecal route"}
	routeIntravitreal = sig.Route{Code: RouteIntravitreal, Display: "Intravitreal route"}
	routeGastrostomy  = sig.Route{Code: RouteGastrostomy, Display: "Gastrostomy route"}
)

// RouteSynonyms maps shorthand phrases (lowercase, single-space-joined) to
// coded routes. Multi-word keys are matched longest-span-first by the parser.
var RouteSynonyms = map[string]sig.Route{
	"po":       routeOral,
	"p.o":      routeOral,
	"oral":     routeOral,
	"orally":   routeOral,
	"by mouth": routeOral,
	"per os":   routeOral,

	"sl":               routeSublingual,
	"subling":          routeSublingual,
	"sublingual":       routeSublingual,
	"sublingually":     routeSublingual,
	"under the tongue": routeSublingual,

	"bucc":   routeBuccal,
	"buccal": routeBuccal,

	"pr":         routeRectal,
	"rectal":     routeRectal,
	"rectally":   routeRectal,
	"per rectum": routeRectal,

	"pv":         routeVaginal,
	"vaginal":    routeVaginal,
	"vaginally":  routeVaginal,
	"per vagina": routeVaginal,

	"im":              routeIM,
	"intramuscular":   routeIM,
	"intramuscularly": routeIM,

	"iv":            routeIV,
	"intravenous":   routeIV,
	"intravenously": routeIV,

	"sc":             routeSubcut,
	"sq":             routeSubcut,
	"subq":           routeSubcut,
	"subcut":         routeSubcut,
	"subcutaneous":   routeSubcut,
	"subcutaneously": routeSubcut,

	"intradermal": routeIntradermal,

	"td":            routeTransdermal,
	"transdermal":   routeTransdermal,
	"transdermally": routeTransdermal,

	"inh":           routeInhalation,
	"inhaled":       routeInhalation,
	"inhalation":    routeInhalation,
	"by inhalation": routeInhalation,
	"neb":           routeInhalation,
	"nebulized":     routeInhalation,

	"nas":          routeNasal,
	"intranasal":   routeNasal,
	"intranasally": routeNasal,

	"ophthalmic": routeOphthalmic,
	"ocular":     routeOphthalmic,

	"otic":  routeOtic,
	"aural": routeOtic,

	"top":       routeTopical,
	"topical":   routeTopical,
	"topically": routeTopical,

	"intrathecal": routeIntrathecal,

	"ivt":            routeIntravitreal,
	"intravitreal":   routeIntravitreal,
	"intravitreally": routeIntravitreal,

	"per g-tube": routeGastrostomy,
	"via g-tube": routeGastrostomy,
	"g-tube":     routeGastrostomy,
}

// LookupRoute resolves a phrase through the custom map first, then the
// builtin table.
func LookupRoute(custom map[string]sig.Route, phrase string) (sig.Route, bool) {
	if r, ok := custom[phrase]; ok {
		return r, true
	}
	r, ok := RouteSynonyms[phrase]
	return r, ok
}

// DefaultUnitByRoute maps a route code to the unit implied when the sig
// names none.
var DefaultUnitByRoute = map[string]string{
	RouteOral:         "tablet",
	RouteSublingual:   "tablet",
	RouteBuccal:       "tablet",
	RouteRectal:       "suppository",
	RouteVaginal:      "application",
	RouteIM:           "mL",
	RouteIV:           "mL",
	RouteSubcut:       "mL",
	RouteIntradermal:  "mL",
	RouteTransdermal:  "patch",
	RouteInhalation:   "puff",
	RouteNasal:        "spray",
	RouteOphthalmic:   "drop",
	RouteOtic:         "drop",
	RouteTopical:      "application",
	RouteIntrathecal:  "mL",
	RouteIntravitreal: "mL",
}

// routeFromSite maps site-text patterns to the route they imply.
var routeFromSite = []struct {
	re    *regexp.Regexp
	route sig.Route
}{
	{regexp.MustCompile(`\beyes?\b`), routeOphthalmic},
	{regexp.MustCompile(`\bears?\b`), routeOtic},
	{regexp.MustCompile(`\b(nostrils?|nose|nares)\b`), routeNasal},
	{regexp.MustCompile(`\bveins?\b`), routeIV},
	{regexp.MustCompile(`\bskin\b`), routeTopical},
	{regexp.MustCompile(`\brectum\b`), routeRectal},
	{regexp.MustCompile(`\bvagina\b`), routeVaginal},
}

// RouteForSiteText infers a route from free site text ("left eye" implies
// the ophthalmic route). Returns false when no pattern matches.
func RouteForSiteText(siteText string) (sig.Route, bool) {
	for _, e := range routeFromSite {
		if e.re.MatchString(siteText) {
			return e.route, true
		}
	}
	return sig.Route{}, false
}
