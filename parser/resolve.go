package parser

import (
	"context"
	"strings"

	sig "github.com/gofhir/sig"
	"github.com/gofhir/sig/terminology"
)

func canonical(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// resolveCodes runs the synchronous coding layers for the site and reason
// phrases, and aggregates suggester candidates for probe phrases.
func (c *Context) resolveCodes() {
	s := c.Sig

	if s.SiteText != "" {
		req := sig.LookupRequest{
			Text:      s.SiteText,
			Canonical: canonical(s.SiteText),
			Start:     c.siteStart,
			End:       c.siteEnd,
			IsProbe:   s.SiteIsProbe,
		}
		if s.SiteConcept == nil {
			s.SiteConcept = sig.ResolveChain(req, c.Opts.SiteCodeMap, terminology.BodySites, c.Opts.SiteResolvers)
		}
		if s.SiteIsProbe {
			s.SiteSuggestions = sig.CollectSuggestions(req, c.Opts.SiteSuggesters)
		}
	}

	if s.Reason != "" {
		req := sig.LookupRequest{
			Text:      s.Reason,
			Canonical: canonical(s.Reason),
			Start:     c.reasonStart,
			End:       c.reasonEnd,
			IsProbe:   s.ReasonIsProbe,
		}
		if s.ReasonConcept == nil {
			s.ReasonConcept = sig.ResolveChain(req, c.Opts.ReasonCodeMap, terminology.PRNReasons, c.Opts.ReasonResolvers)
		}
		if s.ReasonIsProbe {
			s.ReasonSuggestions = sig.CollectSuggestions(req, c.Opts.ReasonSuggesters)
		}
	}
}

// resolveCodesCtx awaits the registered ctx resolvers for any phrase the
// synchronous layers left uncoded. The sync layers have already run inside
// Parse, so only the ctx tail of each chain does further work here.
func resolveCodesCtx(ctx context.Context, s *sig.ParsedSig, opts *sig.Options) error {
	if s.SiteText != "" && s.SiteConcept == nil && len(opts.SiteResolversCtx) > 0 {
		req := sig.LookupRequest{
			Text:      s.SiteText,
			Canonical: canonical(s.SiteText),
			IsProbe:   s.SiteIsProbe,
		}
		concept, err := sig.ResolveChainCtx(ctx, req, nil, nil, nil, opts.SiteResolversCtx)
		if err != nil {
			return err
		}
		s.SiteConcept = concept
	}

	if s.Reason != "" && s.ReasonConcept == nil && len(opts.ReasonResolversCtx) > 0 {
		req := sig.LookupRequest{
			Text:      s.Reason,
			Canonical: canonical(s.Reason),
			IsProbe:   s.ReasonIsProbe,
		}
		concept, err := sig.ResolveChainCtx(ctx, req, nil, nil, nil, opts.ReasonResolversCtx)
		if err != nil {
			return err
		}
		s.ReasonConcept = concept
	}
	return nil
}
