package fhir

import (
	"reflect"
	"testing"

	sig "github.com/gofhir/sig"
)

func TestToDosageQuantityDose(t *testing.T) {
	s := &sig.ParsedSig{
		DoseValue:    sig.Float(1),
		Unit:         "tablet",
		RouteCode:    "26643006",
		RouteDisplay: "Oral route",
		Frequency:    sig.Int(2),
		Period:       sig.Float(1),
		PeriodUnit:   "d",
		TimingCode:   "BID",
	}
	d := ToDosage(s)

	if len(d.DoseAndRate) != 1 || d.DoseAndRate[0].DoseQuantity == nil {
		t.Fatalf("doseAndRate = %+v, want one dose quantity", d.DoseAndRate)
	}
	q := d.DoseAndRate[0].DoseQuantity
	if *q.Value != 1 || q.Unit != "tablet" {
		t.Errorf("dose = %v %s, want 1 tablet", *q.Value, q.Unit)
	}

	rc := d.Route.FirstCoding()
	if rc.System != sig.SystemSNOMED || rc.Code != "26643006" {
		t.Errorf("route coding = %+v, want SNOMED 26643006", rc)
	}

	if d.Timing == nil || d.Timing.Repeat == nil {
		t.Fatal("timing repeat missing")
	}
	r := d.Timing.Repeat
	if *r.Frequency != 2 || *r.Period != 1 || r.PeriodUnit != "d" {
		t.Errorf("repeat = %+v, want 2 per 1 d", r)
	}
	tc := d.Timing.Code.FirstCoding()
	if tc.System != SystemGTSAbbreviation || tc.Code != "BID" {
		t.Errorf("timing code = %+v, want GTS BID", tc)
	}
}

func TestToDosageRangeDose(t *testing.T) {
	s := &sig.ParsedSig{
		DoseLow:  sig.Float(1),
		DoseHigh: sig.Float(2),
		Unit:     "tablet",
	}
	d := ToDosage(s)
	if len(d.DoseAndRate) != 1 || d.DoseAndRate[0].DoseRange == nil {
		t.Fatalf("doseAndRate = %+v, want one dose range", d.DoseAndRate)
	}
	r := d.DoseAndRate[0].DoseRange
	if *r.Low.Value != 1 || *r.High.Value != 2 || r.Low.Unit != "tablet" {
		t.Errorf("range = %+v, want 1-2 tablet", r)
	}
	if d.DoseAndRate[0].DoseQuantity != nil {
		t.Error("dose quantity set alongside range")
	}
}

// AsNeeded is a FHIR choice: boolean when there is no reason, codeable
// concept when there is. Never both.
func TestToDosageAsNeededChoice(t *testing.T) {
	t.Run("bare flag", func(t *testing.T) {
		d := ToDosage(&sig.ParsedSig{AsNeeded: true})
		if d.AsNeededBoolean == nil || !*d.AsNeededBoolean {
			t.Error("want asNeededBoolean true")
		}
		if d.AsNeededCodeableConcept != nil {
			t.Error("codeable form set alongside boolean")
		}
	})
	t.Run("with reason", func(t *testing.T) {
		d := ToDosage(&sig.ParsedSig{
			AsNeeded:      true,
			Reason:        "pain",
			ReasonConcept: &sig.Concept{System: sig.SystemSNOMED, Code: "22253000", Display: "Pain"},
		})
		if d.AsNeededBoolean != nil {
			t.Error("boolean form set alongside codeable")
		}
		cc := d.AsNeededCodeableConcept
		if cc == nil || cc.Text != "pain" {
			t.Fatalf("asNeededCodeableConcept = %+v, want text pain", cc)
		}
		if cc.FirstCoding().Code != "22253000" {
			t.Errorf("reason coding = %+v, want 22253000", cc.FirstCoding())
		}
	})
}

func TestToDosageNilAndEmpty(t *testing.T) {
	if ToDosage(nil) != nil {
		t.Error("ToDosage(nil) != nil")
	}
	d := ToDosage(&sig.ParsedSig{})
	if d.Timing != nil || d.DoseAndRate != nil || d.Route != nil {
		t.Errorf("empty sig produced content: %+v", d)
	}
}

func TestRoundTripPreservesCodedFields(t *testing.T) {
	orig := &sig.ParsedSig{
		DoseValue:     sig.Float(2),
		Unit:          "drop",
		RouteCode:     "54485002",
		RouteDisplay:  "Ophthalmic route",
		Frequency:     sig.Int(3),
		Period:        sig.Float(1),
		PeriodUnit:    "d",
		TimingCode:    "TID",
		Count:         sig.Int(10),
		DayOfWeek:     []string{"mon", "thu"},
		When:          []string{"PCM", "PCV"},
		AsNeeded:      true,
		Reason:        "itching",
		ReasonConcept: &sig.Concept{System: sig.SystemSNOMED, Code: "418290006", Display: "Itching"},
		SiteText:      "left eye",
		SiteConcept:   &sig.Concept{System: sig.SystemSNOMED, Code: "8966001", Display: "Left eye structure"},
		SiteSource:    sig.SiteFromText,
		Instructions: []sig.Instruction{
			{Text: "shake well", Concept: &sig.Concept{System: sig.SystemSNOMED, Code: "129019007", Display: "Shake well before use"}},
		},
	}

	got := FromDosage(ToDosage(orig))

	if *got.DoseValue != 2 || got.Unit != "drop" {
		t.Errorf("dose = %v %s, want 2 drop", *got.DoseValue, got.Unit)
	}
	if got.RouteCode != orig.RouteCode || got.RouteDisplay != orig.RouteDisplay {
		t.Errorf("route = %s/%s, want %s/%s", got.RouteCode, got.RouteDisplay, orig.RouteCode, orig.RouteDisplay)
	}
	if *got.Frequency != 3 || *got.Period != 1 || got.PeriodUnit != "d" {
		t.Errorf("cadence = %d per %v %s, want 3 per 1 d", *got.Frequency, *got.Period, got.PeriodUnit)
	}
	if got.TimingCode != "TID" {
		t.Errorf("timing code = %q, want TID", got.TimingCode)
	}
	if *got.Count != 10 {
		t.Errorf("count = %d, want 10", *got.Count)
	}
	if !reflect.DeepEqual(got.DayOfWeek, orig.DayOfWeek) {
		t.Errorf("dayOfWeek = %v, want %v", got.DayOfWeek, orig.DayOfWeek)
	}
	if !reflect.DeepEqual(got.When, orig.When) {
		t.Errorf("when = %v, want %v", got.When, orig.When)
	}
	if !got.AsNeeded || got.Reason != "itching" {
		t.Errorf("asNeeded/reason = %v %q, want true itching", got.AsNeeded, got.Reason)
	}
	if !reflect.DeepEqual(got.ReasonConcept, orig.ReasonConcept) {
		t.Errorf("reason concept = %+v, want %+v", got.ReasonConcept, orig.ReasonConcept)
	}
	if got.SiteText != "left eye" || !reflect.DeepEqual(got.SiteConcept, orig.SiteConcept) {
		t.Errorf("site = %q %+v, want left eye %+v", got.SiteText, got.SiteConcept, orig.SiteConcept)
	}
	if !reflect.DeepEqual(got.Instructions, orig.Instructions) {
		t.Errorf("instructions = %+v, want %+v", got.Instructions, orig.Instructions)
	}
}

func TestRoundTripDoseRange(t *testing.T) {
	orig := &sig.ParsedSig{DoseLow: sig.Float(1), DoseHigh: sig.Float(2), Unit: "tablet"}
	got := FromDosage(ToDosage(orig))
	if *got.DoseLow != 1 || *got.DoseHigh != 2 || got.Unit != "tablet" {
		t.Errorf("range = %v-%v %s, want 1-2 tablet", *got.DoseLow, *got.DoseHigh, got.Unit)
	}
	if got.DoseValue != nil {
		t.Error("dose value set on a range sig")
	}
}

// Explicit administration clocks survive the mapping both ways, and carry a
// Timing on their own.
func TestRoundTripTimeOfDay(t *testing.T) {
	orig := &sig.ParsedSig{TimeOfDay: []string{"08:00", "20:00"}}
	d := ToDosage(orig)
	if d.Timing == nil || d.Timing.Repeat == nil {
		t.Fatal("timeOfDay-only sig produced no timing repeat")
	}
	if !reflect.DeepEqual(d.Timing.Repeat.TimeOfDay, []string{"08:00", "20:00"}) {
		t.Errorf("repeat timeOfDay = %v", d.Timing.Repeat.TimeOfDay)
	}
	got := FromDosage(d)
	if !reflect.DeepEqual(got.TimeOfDay, orig.TimeOfDay) {
		t.Errorf("round trip timeOfDay = %v, want %v", got.TimeOfDay, orig.TimeOfDay)
	}
}

func TestFromDosageFallbacks(t *testing.T) {
	d := &Dosage{
		Site: &CodeableConcept{
			Coding: []Coding{{System: sig.SystemSNOMED, Code: "18944008", Display: "Right eye structure"}},
		},
		AsNeededCodeableConcept: &CodeableConcept{
			Coding: []Coding{{System: sig.SystemSNOMED, Code: "22253000", Display: "Pain"}},
		},
		Timing: &Timing{Code: &CodeableConcept{Text: "BID"}},
	}
	s := FromDosage(d)
	if s.SiteText != "Right eye structure" {
		t.Errorf("site text = %q, want the coding display", s.SiteText)
	}
	if s.Reason != "Pain" {
		t.Errorf("reason = %q, want the coding display", s.Reason)
	}
	if s.TimingCode != "BID" {
		t.Errorf("timing code = %q, want the text fallback", s.TimingCode)
	}
}

func TestFromDosageNil(t *testing.T) {
	if FromDosage(nil) != nil {
		t.Error("FromDosage(nil) != nil")
	}
}
