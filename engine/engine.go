// Package engine is the high-level entry point tying the pipeline together:
// parse, FHIR mapping, text rendering, suggestion and schedule projection
// behind one configured object.
package engine

import (
	"context"
	"time"

	sig "github.com/gofhir/sig"
	"github.com/gofhir/sig/fhir"
	"github.com/gofhir/sig/format"
	"github.com/gofhir/sig/parser"
	"github.com/gofhir/sig/schedule"
	"github.com/gofhir/sig/suggest"
	"github.com/gofhir/sig/worker"
)

// Result is one fully processed sig.
type Result struct {
	// Sig is the structured parse.
	Sig *sig.ParsedSig `json:"sig"`

	// Dosage is the FHIR R4 mapping of Sig.
	Dosage *fhir.Dosage `json:"dosage"`

	// ShortText keeps clinical shorthand; LongText is patient-facing.
	ShortText string `json:"shortText"`
	LongText  string `json:"longText"`

	// Warnings duplicates Sig.Warnings for callers that drop the parse.
	Warnings []string `json:"warnings,omitempty"`

	Meta Meta `json:"meta"`
}

// Meta carries parse diagnostics.
type Meta struct {
	// Leftover lists input tokens no rule recognized.
	Leftover []string `json:"leftover,omitempty"`
}

// Engine holds parse options and metrics shared across calls. Safe for
// concurrent use.
type Engine struct {
	opts    *sig.Options
	metrics *sig.Metrics
}

// New builds an Engine from functional options.
func New(opts ...sig.Option) *Engine {
	return &Engine{
		opts:    sig.Apply(opts...),
		metrics: sig.NewMetrics(),
	}
}

// Metrics exposes the engine's counters.
func (e *Engine) Metrics() *sig.Metrics { return e.metrics }

// Options exposes the resolved configuration.
func (e *Engine) Options() *sig.Options { return e.opts }

// ParseSig parses one sig and derives its FHIR mapping and renderings.
func (e *Engine) ParseSig(input string) (*Result, error) {
	start := time.Now()
	ps, err := parser.Parse(input, e.opts)
	if err != nil {
		return nil, err
	}
	e.metrics.RecordParse(time.Since(start), len(ps.Warnings))
	return e.resultFrom(ps), nil
}

// ParseSigContext is ParseSig plus the registered context-aware code
// resolvers for site and PRN-reason phrases.
func (e *Engine) ParseSigContext(ctx context.Context, input string) (*Result, error) {
	start := time.Now()
	ps, err := parser.ParseCtx(ctx, input, e.opts)
	if err != nil {
		return nil, err
	}
	e.metrics.RecordParse(time.Since(start), len(ps.Warnings))
	return e.resultFrom(ps), nil
}

// FromFHIRDosage derives renderings for a dosage produced elsewhere.
func (e *Engine) FromFHIRDosage(d *fhir.Dosage) *Result {
	ps := fhir.FromDosage(d)
	if ps == nil {
		return nil
	}
	r := e.resultFrom(ps)
	r.Dosage = d
	return r
}

func (e *Engine) resultFrom(ps *sig.ParsedSig) *Result {
	return &Result{
		Sig:       ps,
		Dosage:    fhir.ToDosage(ps),
		ShortText: format.Text(ps, e.opts.Locale, format.Short),
		LongText:  format.Text(ps, e.opts.Locale, format.Long),
		Warnings:  ps.Warnings,
		Meta:      Meta{Leftover: ps.Leftover},
	}
}

// Suggest returns autocomplete candidates for a partial sig.
func (e *Engine) Suggest(input string) []string {
	e.metrics.RecordSuggest()
	return suggest.Suggestions(input, e.opts)
}

// NextDoses projects upcoming administration instants for a dosage.
func (e *Engine) NextDoses(d *fhir.Dosage, opts schedule.Options) ([]string, error) {
	e.metrics.RecordSchedule()
	if opts.EventClock == nil {
		opts.EventClock = e.opts.EventClock
	}
	return schedule.Next(d, opts)
}

// BatchItem pairs one batch input with its outcome.
type BatchItem struct {
	Input  string  `json:"input"`
	Result *Result `json:"result,omitempty"`
	Err    error   `json:"-"`
}

// ParseBatch parses inputs concurrently on a bounded worker pool, preserving
// input order in the output. workers <= 0 uses one worker per CPU.
func (e *Engine) ParseBatch(inputs []string, workers int) []BatchItem {
	results := worker.Map(inputs, workers, e.ParseSig)
	out := make([]BatchItem, len(results))
	for i, r := range results {
		out[i] = BatchItem{Input: r.Input, Result: r.Value, Err: r.Err}
	}
	return out
}
