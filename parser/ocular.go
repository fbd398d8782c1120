package parser

import (
	"github.com/gofhir/sig/terminology"
)

// ocularRoute reports whether a route code is compatible with eye-site
// shorthand.
func ocularRoute(code string) bool {
	return code == terminology.RouteOphthalmic || code == terminology.RouteIntravitreal
}

// shouldEyeTokenBeSite decides whether an eye abbreviation at i (od/os/ou)
// names a body site. The decision consults the accumulator state and up to
// three neighboring tokens in each direction.
//
// Precedence, first match wins:
//  1. a site is already captured: the first eye token won, later ones are
//     not sites (they may still carry cadence for "od")
//  2. a non-ophthalmic route is already set: not a site
//  3. a unit incompatible with drops is set (and the route is not ocular):
//     not a site
//  4. an ophthalmic route or a drop unit is present: site
//  5. an unconsumed body-site hint word sits within a connector-bounded
//     window of +-3 tokens: site
//  6. every other token in the sig is itself an eye abbreviation: site
//  7. otherwise: not a site (the frequency sense wins by default)
func shouldEyeTokenBeSite(c *Context, i int) bool {
	s := c.Sig

	if s.SiteText != "" {
		return false
	}
	if s.RouteCode != "" && !ocularRoute(s.RouteCode) {
		return false
	}
	if s.Unit != "" && s.Unit != "drop" && !ocularRoute(s.RouteCode) {
		return false
	}
	if ocularRoute(s.RouteCode) || s.Unit == "drop" {
		return true
	}
	if c.siteHintNearby(i) {
		return true
	}
	if c.onlyEyeTokensBeside(i) {
		return true
	}
	return false
}

// siteHintNearby scans up to three tokens in each direction for an
// unconsumed body-site hint word, stopping at the first token that is
// neither a connector nor a filler.
func (c *Context) siteHintNearby(i int) bool {
	for _, dir := range []int{-1, 1} {
		for step := 1; step <= 3; step++ {
			j := i + dir*step
			if j < 0 || j >= len(c.Tokens) {
				break
			}
			low := c.lower(j)
			if !c.IsConsumed(j) && terminology.SiteHintWords[low] {
				return true
			}
			if !terminology.SiteConnectorWords[low] && !terminology.FillerConnectors[low] {
				break
			}
		}
	}
	return false
}

// onlyEyeTokensBeside reports whether at least one other token exists and
// every other token in the sig is itself an eye abbreviation. This is what
// makes a bare "OD OD" resolve to site + frequency rather than two cadences.
func (c *Context) onlyEyeTokensBeside(i int) bool {
	other := false
	for j := range c.Tokens {
		if j == i {
			continue
		}
		if _, ok := terminology.EyeAbbreviations[c.lower(j)]; !ok {
			return false
		}
		other = true
	}
	return other
}

// resolveOD owns every "od" token: the single most overloaded abbreviation
// in the grammar (right eye vs. once daily, with the daily sense on the
// discouraged list). It always claims the decision for the token, even when
// it decides to leave it unconsumed.
func resolveOD(c *Context, i int) error {
	if shouldEyeTokenBeSite(c, i) {
		c.setEyeSite(terminology.SiteRightEye)
		c.Consume(i)
		return nil
	}

	// Cadence fields already fully assigned: never reinterpret as a
	// second frequency. The token stays unconsumed and surfaces as
	// leftover text.
	if c.Sig.HasCadence() {
		return nil
	}

	if err := c.discouraged("od"); err != nil {
		return err
	}
	c.applyCadence(terminology.TimingAbbreviations["od"])
	c.Consume(i)
	return nil
}

// eyeSiteRule handles the remaining ocular abbreviations: os/ou, and the
// compound intravitreal forms (ivtod/ivtos/ivtou). Bare "od" never reaches
// this rule; resolveOD owns it earlier in the chain.
func eyeSiteRule(c *Context, i int) (bool, error) {
	low := c.lower(i)

	if side, ok := terminology.IntravitrealCombos[low]; ok {
		c.setRoute(terminology.RouteSynonyms["ivt"])
		c.setEyeSite(side)
		c.Consume(i)
		return true, nil
	}

	side, ok := terminology.EyeAbbreviations[low]
	if !ok || low == "od" {
		return false, nil
	}
	if !shouldEyeTokenBeSite(c, i) {
		return false, nil
	}
	c.setEyeSite(side)
	c.Consume(i)
	return true, nil
}
