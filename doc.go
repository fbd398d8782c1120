// Package sig converts free-form clinician shorthand medication directions
// ("sigs", e.g. "1x3 po pc" or "0.05 mL IVT OS q1mo") into structured FHIR
// Dosage data, and back again.
//
// The package is a pure, synchronous, in-process transformation library.
// It has no I/O boundary beyond function calls: no persistence, no network,
// no shared mutable state across invocations.
//
// # Quick Start
//
//	import (
//	    "github.com/gofhir/sig"
//	    "github.com/gofhir/sig/engine"
//	)
//
//	result, err := engine.ParseSig("1 tab po tid prn pain")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.LongText)      // "1 tablet by mouth 3 times daily as needed for pain"
//	fmt.Println(result.Dosage.Route)  // coded SNOMED oral route
//
// # Architecture
//
// Raw input flows through a fixed pipeline:
//
//	string -> token.Split -> parser.Parse -> sig.ParsedSig
//	ParsedSig -> fhir.ToDosage  (interchange object)
//	ParsedSig -> format.Render  (short/long human text, per-locale grammar)
//
// Independent consumers share the same dictionaries:
//
//	fhir.Dosage + schedule.Options -> schedule.Next  (future dose instants)
//	partial string -> suggest.Suggest               (autocomplete candidates)
//
// The hard parts are the disambiguation parser (package parser), which
// resolves overloaded abbreviations such as "OD" (right eye vs. once daily)
// against a consumed-token context, and the schedule projector (package
// schedule), which performs DST- and month-length-safe local calendar
// arithmetic.
//
// # Functional Options
//
//	result, err := engine.ParseSig("1 drop ou bid",
//	    sig.WithSmartMealExpansion(true),
//	    sig.WithAllowDiscouraged(false),
//	)
//
// # Errors and Warnings
//
// Malformed input never fails a parse: unmatched tokens are reported as
// leftover text and ambiguity is resolved by fixed precedence rules. The only
// parse-time error is a discouraged token when discouraged tokens have been
// explicitly disallowed. Advisory conditions (discouraged abbreviations,
// intravitreal routes without an eye site) surface as warning strings.
package sig
