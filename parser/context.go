package parser

import (
	sig "github.com/gofhir/sig"
	"github.com/gofhir/sig/terminology"
	"github.com/gofhir/sig/token"
)

// Context carries the state of one parse invocation: the token sequence,
// the consumed-token set, and the accumulating ParsedSig. It is never shared
// across invocations.
type Context struct {
	Input  string
	Tokens []token.Token
	Opts   *sig.Options
	Sig    *sig.ParsedSig

	consumed []bool

	// prnStart is the index of the first tentative PRN-reason token,
	// -1 when no PRN flag was found.
	prnStart int

	// siteSuffix marks tokens peeled off the PRN reason as a trailing
	// body-site suffix; the site-detection pass must skip them.
	siteSuffix map[int]bool

	// reasonStart/reasonEnd and siteStart/siteEnd record the token spans of
	// the extracted PRN reason and free-text site, for code lookup requests.
	// Starts are -1 when the span does not exist.
	reasonStart, reasonEnd int
	siteStart, siteEnd     int
}

func newContext(input string, opts *sig.Options) *Context {
	toks := token.Split(input)
	return &Context{
		Input:        input,
		Tokens:       toks,
		Opts:         opts,
		Sig:          &sig.ParsedSig{},
		consumed:    make([]bool, len(toks)),
		prnStart:    -1,
		siteSuffix:  make(map[int]bool),
		reasonStart: -1,
		siteStart:   -1,
	}
}

// IsConsumed reports whether token i has been claimed by a rule.
func (c *Context) IsConsumed(i int) bool {
	return i < 0 || i >= len(c.consumed) || c.consumed[i]
}

// Consume claims the given tokens. Claiming an already-consumed token is a
// no-op; rules check membership before claiming so no token is ever owned
// by two conflicting rules.
func (c *Context) Consume(idx ...int) {
	for _, i := range idx {
		if i >= 0 && i < len(c.consumed) {
			c.consumed[i] = true
		}
	}
}

// Unconsume releases a claimed token. This is the one documented exception
// to claim-once consumption and is used only by the PRN-reason trimming
// pass, which tentatively claims the whole reason span and then re-collects
// it.
func (c *Context) Unconsume(i int) {
	if i >= 0 && i < len(c.consumed) {
		c.consumed[i] = false
	}
}

// lower returns the lowercase form of token i, or "" out of range.
func (c *Context) lower(i int) string {
	if i < 0 || i >= len(c.Tokens) {
		return ""
	}
	return c.Tokens[i].Lower
}

// setEyeSite assigns an eye-side site from an abbreviation token unless a
// site is already present.
func (c *Context) setEyeSite(side string) {
	if c.Sig.SiteText != "" {
		return
	}
	c.Sig.SiteText = side
	if concept, ok := terminology.BodySites[side]; ok {
		cc := concept
		c.Sig.SiteConcept = &cc
	}
	c.Sig.SiteSource = sig.SiteFromAbbreviation
}

// setRoute assigns a route; a previously-assigned route is never silently
// overwritten by a conflicting code.
func (c *Context) setRoute(r sig.Route) bool {
	if c.Sig.RouteCode != "" && c.Sig.RouteCode != r.Code {
		return false
	}
	c.Sig.RouteCode = r.Code
	c.Sig.RouteDisplay = r.Display
	return true
}
