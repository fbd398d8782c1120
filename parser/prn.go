package parser

import (
	"strings"

	sig "github.com/gofhir/sig"
	"github.com/gofhir/sig/terminology"
	"github.com/gofhir/sig/token"
)

// sitePrepositions introduce a trailing body-site suffix inside a PRN
// reason phrase ("pain in left knee").
var sitePrepositions = map[string]bool{
	"in": true, "into": true, "to": true, "on": true, "at": true, "per": true,
}

// extractPRNReason turns the tentative PRN span claimed by the pre-scan into
// the final reason text. The span is cut at the first phrase separator
// (everything past it is released for instruction capture), a trailing
// site suffix is peeled off into the body site, and probe braces are
// stripped.
func (c *Context) extractPRNReason() {
	s := c.Sig
	if !s.AsNeeded || c.prnStart < 0 || c.prnStart >= len(c.Tokens) {
		return
	}

	start := c.prnStart
	end := len(c.Tokens)
	for j := start; j < len(c.Tokens); j++ {
		if token.IsSeparator(c.Tokens[j]) {
			end = j
			break
		}
	}
	for j := end; j < len(c.Tokens); j++ {
		c.Unconsume(j)
	}
	if end <= start {
		return
	}

	end = c.peelSiteSuffix(start, end)
	if end <= start {
		return
	}

	parts := make([]string, 0, end-start)
	for j := start; j < end; j++ {
		if c.Tokens[j].Original == "," {
			continue
		}
		parts = append(parts, c.Tokens[j].Original)
	}
	text, probe := stripBraces(strings.Join(parts, " "))
	if text == "" {
		return
	}
	s.Reason = text
	s.ReasonIsProbe = probe
	c.reasonStart, c.reasonEnd = start, end
}

// peelSiteSuffix detaches a trailing "<preposition> <site phrase>" from the
// reason span [start,end). The suffix qualifies only when every token after
// the preposition is a site hint or connector, with at least one hint, and
// it claims the site slot only when nothing else has.
func (c *Context) peelSiteSuffix(start, end int) int {
	for k := start + 1; k < end-1; k++ {
		if !sitePrepositions[c.lower(k)] {
			continue
		}
		hint := false
		ok := true
		for j := k + 1; j < end; j++ {
			low := c.lower(j)
			switch {
			case terminology.SiteHintWords[low]:
				hint = true
			case terminology.SiteConnectorWords[low]:
			default:
				ok = false
			}
			if !ok {
				break
			}
		}
		if !ok || !hint {
			continue
		}

		for j := k; j < end; j++ {
			c.siteSuffix[j] = true
		}
		if c.Sig.SiteText == "" {
			parts := make([]string, 0, end-k-1)
			for j := k + 1; j < end; j++ {
				parts = append(parts, c.lower(j))
			}
			phrase, probe := stripBraces(strings.Join(parts, " "))
			if canon, okSyn := terminology.SiteSynonyms[phrase]; okSyn {
				phrase = canon
			}
			c.Sig.SiteText = phrase
			c.Sig.SiteSource = sig.SiteFromText
			c.Sig.SiteIsProbe = probe
			c.siteStart, c.siteEnd = k+1, end
		}
		return k
	}
	return end
}
