package sig

import "context"

// LookupRequest describes one free-text phrase (a body site or a PRN reason)
// that needs coded terminology. It is never mutated after creation.
type LookupRequest struct {
	// Text is the phrase as it appeared in the input, braces stripped.
	Text string

	// Canonical is the lowercased, whitespace-normalized form of Text.
	Canonical string

	// Start and End delimit the phrase as a half-open token range in the
	// tokenized input. Both are zero when the range is unknown.
	Start, End int

	// IsProbe is true when the clinician wrapped the phrase in {} to
	// request interactive code lookup rather than silent resolution.
	IsProbe bool
}

// CodeResolver maps a phrase to a coded concept synchronously.
// A resolver with no answer returns ErrNotFound (or nil, nil) so the chain
// can continue; any other error aborts resolution for that phrase.
type CodeResolver func(req LookupRequest) (*Concept, error)

// CodeResolverCtx is the blocking variant of CodeResolver for resolvers that
// perform remote lookups. Only the context-aware parse entry points invoke
// these; the synchronous path never does. Resolvers run sequentially in
// registration order and the first definitive answer wins. There is no
// timeout here: a caller that needs one wraps the context.
type CodeResolverCtx func(ctx context.Context, req LookupRequest) (*Concept, error)

// CodeSuggester returns candidate concepts for an ambiguous or probe phrase.
// Candidates from every suggester are aggregated in registration order.
type CodeSuggester func(req LookupRequest) ([]Concept, error)

// ResolveChain runs the layered synchronous lookup for one phrase:
// caller map first, then the builtin table, then each resolver in order.
func ResolveChain(req LookupRequest, custom map[string]Concept, builtin map[string]Concept, resolvers []CodeResolver) *Concept {
	if c, ok := custom[req.Canonical]; ok {
		cc := c
		return &cc
	}
	if c, ok := builtin[req.Canonical]; ok {
		cc := c
		return &cc
	}
	for _, r := range resolvers {
		c, err := r(req)
		if err == nil && c != nil {
			return c
		}
	}
	return nil
}

// ResolveChainCtx is the context-aware twin of ResolveChain. The synchronous
// layers run first; ctx resolvers are awaited sequentially and the chain
// stops at the first definitive result.
func ResolveChainCtx(ctx context.Context, req LookupRequest, custom map[string]Concept, builtin map[string]Concept, resolvers []CodeResolver, ctxResolvers []CodeResolverCtx) (*Concept, error) {
	if c := ResolveChain(req, custom, builtin, resolvers); c != nil {
		return c, nil
	}
	for _, r := range ctxResolvers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c, err := r(ctx, req)
		if err == nil && c != nil {
			return c, nil
		}
	}
	return nil, nil
}

// CollectSuggestions aggregates candidates from every suggester in order.
func CollectSuggestions(req LookupRequest, suggesters []CodeSuggester) []Concept {
	var out []Concept
	for _, s := range suggesters {
		cs, err := s(req)
		if err != nil {
			continue
		}
		out = append(out, cs...)
	}
	return out
}
