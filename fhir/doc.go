// Package fhir defines the FHIR R4 Dosage structure and the mapping between
// it and a ParsedSig.
//
// Only the resource fragment this library produces and consumes is modeled:
// Dosage with its Timing, plus the general-purpose datatypes they reference.
// All fields marshal to canonical FHIR JSON names and omit empty values, so
// a Dosage can be embedded directly into a MedicationRequest or
// MedicationStatement payload.
package fhir
