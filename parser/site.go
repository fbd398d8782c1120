package parser

import (
	"strings"

	sig "github.com/gofhir/sig"
	"github.com/gofhir/sig/terminology"
	"github.com/gofhir/sig/token"
)

// captureInstructions collects trailing free-text segments as additional
// instructions. A segment qualifies only when it follows the last token any
// rule consumed and is introduced by a phrase separator; segments split on
// further separators, and each is matched against the coded
// additional-instruction table.
func (c *Context) captureInstructions() {
	last := -1
	for i := range c.Tokens {
		if c.consumed[i] && !token.IsSeparator(c.Tokens[i]) {
			last = i
		}
	}

	sep := -1
	for j := last + 1; j < len(c.Tokens); j++ {
		if token.IsSeparator(c.Tokens[j]) {
			sep = j
			break
		}
	}
	if sep < 0 {
		return
	}

	var segment []int
	flush := func() {
		if len(segment) == 0 {
			return
		}
		parts := make([]string, 0, len(segment))
		for _, j := range segment {
			parts = append(parts, c.Tokens[j].Original)
		}
		text := strings.Join(parts, " ")
		inst := sig.Instruction{Text: text}
		if concept, ok := terminology.AdditionalInstructions[strings.ToLower(text)]; ok {
			cc := concept
			inst.Concept = &cc
		}
		c.Sig.Instructions = append(c.Sig.Instructions, inst)
		c.Consume(segment...)
		segment = segment[:0]
	}

	for j := sep; j < len(c.Tokens); j++ {
		if token.IsSeparator(c.Tokens[j]) {
			flush()
			c.Consume(j)
			continue
		}
		if c.consumed[j] {
			flush()
			continue
		}
		segment = append(segment, j)
	}
	flush()
}

// extractSiteText finds a free-text body site among the remaining tokens:
// a site hint word expanded bidirectionally over connector words. The phrase
// is first offered to the route table, so "left nostril" can still become a
// nasal route phrase in a custom route map rather than a site.
func (c *Context) extractSiteText() {
	if c.Sig.SiteText != "" {
		return
	}

	hint := -1
	for i := range c.Tokens {
		if c.IsConsumed(i) || c.siteSuffix[i] {
			continue
		}
		if terminology.SiteHintWords[c.lower(i)] {
			hint = i
			break
		}
	}
	if hint < 0 {
		return
	}

	start, end := hint, hint+1
	for start-1 >= 0 && !c.IsConsumed(start-1) && !c.siteSuffix[start-1] && c.isSitePart(start-1) {
		start--
	}
	for end < len(c.Tokens) && !c.IsConsumed(end) && !c.siteSuffix[end] && c.isSitePart(end) {
		end++
	}
	for start < hint && sitePrepositions[c.lower(start)] {
		start++
	}

	parts := make([]string, 0, end-start)
	idx := make([]int, 0, end-start)
	for j := start; j < end; j++ {
		parts = append(parts, c.lower(j))
		idx = append(idx, j)
	}
	phrase, probe := stripBraces(strings.Join(parts, " "))
	if phrase == "" {
		return
	}
	if canon, ok := terminology.SiteSynonyms[phrase]; ok {
		phrase = canon
	}

	if route, ok := terminology.LookupRoute(c.Opts.RouteMap, phrase); ok {
		if c.setRoute(route) {
			c.Consume(idx...)
		}
		return
	}

	c.Sig.SiteText = phrase
	c.Sig.SiteSource = sig.SiteFromText
	c.Sig.SiteIsProbe = probe
	c.siteStart, c.siteEnd = start, end
	c.Consume(idx...)
}

func (c *Context) isSitePart(j int) bool {
	low := c.lower(j)
	return terminology.SiteHintWords[low] ||
		terminology.SiteConnectorWords[low] ||
		sitePrepositions[low]
}

// inferRouteFromSite fills a missing route from the captured site text
// ("left eye" implies the ophthalmic route).
func (c *Context) inferRouteFromSite() {
	s := c.Sig
	if s.RouteCode != "" || s.SiteText == "" {
		return
	}
	if route, ok := terminology.RouteForSiteText(s.SiteText); ok {
		c.setRoute(route)
	}
}

// eyeSiteTexts are the site values that satisfy an intravitreal route.
var eyeSiteTexts = map[string]bool{
	terminology.SiteRightEye: true,
	terminology.SiteLeftEye:  true,
	terminology.SiteBothEyes: true,
}

// warnIntravitrealWithoutEye appends the safety warning when an intravitreal
// route carries no eye site.
func (c *Context) warnIntravitrealWithoutEye() {
	s := c.Sig
	if s.RouteCode != terminology.RouteIntravitreal {
		return
	}
	if eyeSiteTexts[s.SiteText] {
		return
	}
	s.Warn("Intravitreal administrations require an eye site (e.g., OD/OS/OU).")
}

// collectLeftover gathers every surviving unconsumed token, in input order,
// as leftover text the caller can surface.
func (c *Context) collectLeftover() {
	for i := range c.Tokens {
		if c.IsConsumed(i) || token.IsSeparator(c.Tokens[i]) {
			continue
		}
		c.Sig.Leftover = append(c.Sig.Leftover, c.Tokens[i].Original)
	}
}
