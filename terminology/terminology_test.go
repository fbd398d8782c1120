package terminology

import (
	"strings"
	"testing"

	sig "github.com/gofhir/sig"
)

// Every declared cadence entry must be internally consistent, and every
// event code it references must have a clock anchor and display text.
// Adding a new abbreviation without those breaks ordering and formatting.
func TestTimingAbbreviationsConsistency(t *testing.T) {
	validUnits := map[string]bool{"": true, "min": true, "h": true, "d": true, "wk": true, "mo": true}

	for tok, entry := range TimingAbbreviations {
		t.Run(tok, func(t *testing.T) {
			if tok != strings.ToLower(tok) {
				t.Errorf("key %q is not lowercase", tok)
			}
			if entry.Code != strings.ToUpper(entry.Code) {
				t.Errorf("code %q is not uppercase", entry.Code)
			}
			if !validUnits[entry.PeriodUnit] {
				t.Errorf("period unit %q is not a known UnitsOfTime code", entry.PeriodUnit)
			}
			if entry.Period > 0 && entry.PeriodUnit == "" {
				t.Error("period set without a unit")
			}
			if entry.PeriodMax > 0 && entry.PeriodMax < entry.Period {
				t.Errorf("period max %v below period %v", entry.PeriodMax, entry.Period)
			}
			for _, w := range entry.When {
				if _, ok := DefaultClock[w]; !ok {
					t.Errorf("when code %q has no default clock anchor", w)
				}
				if _, ok := WhenDisplay[w]; !ok {
					t.Errorf("when code %q has no display text", w)
				}
			}
		})
	}
}

func TestEventCodesHaveClockAndDisplay(t *testing.T) {
	check := func(t *testing.T, code string) {
		t.Helper()
		if _, ok := DefaultClock[code]; !ok {
			t.Errorf("code %q missing from DefaultClock", code)
		}
		if _, ok := WhenDisplay[code]; !ok {
			t.Errorf("code %q missing from WhenDisplay", code)
		}
	}
	for tok, code := range EventTokens {
		t.Run(tok, func(t *testing.T) { check(t, code) })
	}
	for pair, code := range EventTokenPairs {
		t.Run(pair[0]+" "+pair[1], func(t *testing.T) { check(t, code) })
	}
}

func TestLookupCadenceCustomWins(t *testing.T) {
	custom := map[string]sig.Cadence{
		"bid": {Code: "BID", Frequency: 2, Period: 12, PeriodUnit: "h"},
	}
	got, ok := LookupCadence(custom, "bid")
	if !ok || got.Period != 12 || got.PeriodUnit != "h" {
		t.Errorf("custom bid = %+v, want 12 h entry", got)
	}
	if _, ok := LookupCadence(custom, "tid"); !ok {
		t.Error("builtin tid not reachable through custom map")
	}
}

func TestLookupUnit(t *testing.T) {
	tests := []struct {
		tok  string
		want string
	}{
		{"tab", "tablet"}, {"tabs", "tablet"}, {"tablets", "tablet"},
		{"gtt", "drop"}, {"gtts", "drop"},
		{"ml", "mL"}, {"cc", "mL"}, {"milliliters", "mL"},
		{"mcg", "mcg"}, {"ug", "mcg"}, {"microgram", "mcg"},
		{"mg", "mg"}, {"milligram", "mg"},
		{"iu", "unit"},
	}
	for _, tt := range tests {
		got, ok := LookupUnit(nil, tt.tok, false)
		if !ok || got != tt.want {
			t.Errorf("LookupUnit(%q) = %q, %v, want %q", tt.tok, got, ok, tt.want)
		}
	}
}

func TestLookupUnitHousehold(t *testing.T) {
	if _, ok := LookupUnit(nil, "tsp", false); ok {
		t.Error("tsp resolved with household units disallowed")
	}
	got, ok := LookupUnit(nil, "tsp", true)
	if !ok || got != "teaspoon" {
		t.Errorf("tsp = %q, %v, want teaspoon", got, ok)
	}
}

func TestLookupRoute(t *testing.T) {
	r, ok := LookupRoute(nil, "po")
	if !ok || r.Code != RouteOral {
		t.Fatalf("po = %+v, want oral route", r)
	}
	r, ok = LookupRoute(nil, "by mouth")
	if !ok || r.Code != RouteOral {
		t.Fatalf("by mouth = %+v, want oral route", r)
	}
	custom := map[string]sig.Route{"po": {Code: "X", Display: "Custom"}}
	r, _ = LookupRoute(custom, "po")
	if r.Code != "X" {
		t.Errorf("custom po = %+v, want custom entry", r)
	}
}

func TestDefaultUnitByRouteCoversCommonRoutes(t *testing.T) {
	for _, code := range []string{RouteOral, RouteOphthalmic, RouteInhalation, RouteNasal, RouteTopical} {
		if _, ok := DefaultUnitByRoute[code]; !ok {
			t.Errorf("route %s has no default unit", code)
		}
	}
}

func TestRouteForSiteText(t *testing.T) {
	tests := []struct {
		site string
		want string
	}{
		{"left eye", RouteOphthalmic},
		{"both ears", RouteOtic},
		{"right nostril", RouteNasal},
		{"skin", RouteTopical},
	}
	for _, tt := range tests {
		r, ok := RouteForSiteText(tt.site)
		if !ok || r.Code != tt.want {
			t.Errorf("RouteForSiteText(%q) = %+v, %v, want code %s", tt.site, r, ok, tt.want)
		}
	}
	if _, ok := RouteForSiteText("left knee"); ok {
		t.Error("left knee implied a route")
	}
}

func TestBodySitesUseSNOMED(t *testing.T) {
	for phrase, concept := range BodySites {
		if concept.System != sig.SystemSNOMED {
			t.Errorf("site %q system = %q, want SNOMED", phrase, concept.System)
		}
		if concept.Code == "" || concept.Display == "" {
			t.Errorf("site %q has incomplete coding", phrase)
		}
	}
}

func TestSiteSynonymsResolveToKnownSites(t *testing.T) {
	for syn, canon := range SiteSynonyms {
		if _, ok := BodySites[canon]; !ok {
			t.Errorf("synonym %q points at %q, which has no coding", syn, canon)
		}
	}
}

func TestDiscouragedEntriesAreRecognizedTokens(t *testing.T) {
	for tok := range Discouraged {
		_, inTiming := TimingAbbreviations[tok]
		combo := tok == "bld" || tok == "b-l-d"
		if !inTiming && !combo {
			t.Errorf("discouraged token %q is not recognized by any rule table", tok)
		}
	}
}
