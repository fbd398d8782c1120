package fhir

import (
	sig "github.com/gofhir/sig"
)

// SystemGTSAbbreviation is the code system for timing abbreviations carried
// in Timing.code.
const SystemGTSAbbreviation = "http://terminology.hl7.org/CodeSystem/v3-GTSAbbreviation"

func conceptToCodeable(c *sig.Concept, text string) *CodeableConcept {
	if c == nil && text == "" {
		return nil
	}
	cc := &CodeableConcept{Text: text}
	if c != nil {
		cc.Coding = []Coding{{System: c.System, Code: c.Code, Display: c.Display}}
		if cc.Text == "" {
			cc.Text = c.Display
		}
	}
	return cc
}

func codeableToConcept(cc *CodeableConcept) *sig.Concept {
	if cc == nil || len(cc.Coding) == 0 {
		return nil
	}
	c := cc.Coding[0]
	return &sig.Concept{System: c.System, Code: c.Code, Display: c.Display}
}

// ToDosage maps a ParsedSig onto a FHIR Dosage. Every coded field present in
// the sig survives the mapping; FromDosage restores it exactly.
func ToDosage(s *sig.ParsedSig) *Dosage {
	if s == nil {
		return nil
	}
	d := &Dosage{}

	switch {
	case s.DoseLow != nil || s.DoseHigh != nil:
		r := &Range{}
		if s.DoseLow != nil {
			r.Low = &Quantity{Value: s.DoseLow, Unit: s.Unit}
		}
		if s.DoseHigh != nil {
			r.High = &Quantity{Value: s.DoseHigh, Unit: s.Unit}
		}
		d.DoseAndRate = []DoseAndRate{{DoseRange: r}}
	case s.DoseValue != nil:
		d.DoseAndRate = []DoseAndRate{{
			DoseQuantity: &Quantity{Value: s.DoseValue, Unit: s.Unit},
		}}
	}

	if s.RouteCode != "" || s.RouteDisplay != "" {
		d.Route = &CodeableConcept{Text: s.RouteDisplay}
		if s.RouteCode != "" {
			d.Route.Coding = []Coding{{
				System:  sig.SystemSNOMED,
				Code:    s.RouteCode,
				Display: s.RouteDisplay,
			}}
		}
	}

	if s.SiteText != "" || s.SiteConcept != nil {
		d.Site = conceptToCodeable(s.SiteConcept, s.SiteText)
	}

	if s.AsNeeded {
		if s.Reason != "" || s.ReasonConcept != nil {
			d.AsNeededCodeableConcept = conceptToCodeable(s.ReasonConcept, s.Reason)
		} else {
			t := true
			d.AsNeededBoolean = &t
		}
	}

	if t := timingFrom(s); t != nil {
		d.Timing = t
	}

	for _, inst := range s.Instructions {
		cc := conceptToCodeable(inst.Concept, inst.Text)
		if cc != nil {
			d.AdditionalInstruction = append(d.AdditionalInstruction, *cc)
		}
	}

	return d
}

func timingFrom(s *sig.ParsedSig) *Timing {
	repeat := &TimingRepeat{
		Count:        s.Count,
		Frequency:    s.Frequency,
		FrequencyMax: s.FrequencyMax,
		Period:       s.Period,
		PeriodMax:    s.PeriodMax,
		PeriodUnit:   s.PeriodUnit,
		DayOfWeek:    append([]string(nil), s.DayOfWeek...),
		When:         append([]string(nil), s.When...),
		TimeOfDay:    append([]string(nil), s.TimeOfDay...),
	}

	empty := repeat.Count == nil && repeat.Frequency == nil && repeat.Period == nil &&
		len(repeat.DayOfWeek) == 0 && len(repeat.When) == 0 && len(repeat.TimeOfDay) == 0
	if empty && s.TimingCode == "" {
		return nil
	}

	t := &Timing{}
	if !empty {
		t.Repeat = repeat
	}
	if s.TimingCode != "" {
		t.Code = &CodeableConcept{
			Coding: []Coding{{System: SystemGTSAbbreviation, Code: s.TimingCode}},
			Text:   s.TimingCode,
		}
	}
	return t
}

// FromDosage maps a FHIR Dosage back onto a ParsedSig, for formatting or
// schedule projection of dosages produced elsewhere.
func FromDosage(d *Dosage) *sig.ParsedSig {
	if d == nil {
		return nil
	}
	s := &sig.ParsedSig{}

	if len(d.DoseAndRate) > 0 {
		dr := d.DoseAndRate[0]
		switch {
		case dr.DoseRange != nil:
			if dr.DoseRange.Low != nil {
				s.DoseLow = dr.DoseRange.Low.Value
				s.Unit = dr.DoseRange.Low.Unit
			}
			if dr.DoseRange.High != nil {
				s.DoseHigh = dr.DoseRange.High.Value
				if s.Unit == "" {
					s.Unit = dr.DoseRange.High.Unit
				}
			}
		case dr.DoseQuantity != nil:
			s.DoseValue = dr.DoseQuantity.Value
			s.Unit = dr.DoseQuantity.Unit
		}
	}

	if d.Route != nil {
		c := d.Route.FirstCoding()
		s.RouteCode = c.Code
		s.RouteDisplay = c.Display
		if s.RouteDisplay == "" {
			s.RouteDisplay = d.Route.Text
		}
	}

	if d.Site != nil {
		s.SiteText = d.Site.Text
		s.SiteConcept = codeableToConcept(d.Site)
		if s.SiteText == "" && s.SiteConcept != nil {
			s.SiteText = s.SiteConcept.Display
		}
		s.SiteSource = sig.SiteFromText
	}

	switch {
	case d.AsNeededCodeableConcept != nil:
		s.AsNeeded = true
		s.Reason = d.AsNeededCodeableConcept.Text
		s.ReasonConcept = codeableToConcept(d.AsNeededCodeableConcept)
		if s.Reason == "" && s.ReasonConcept != nil {
			s.Reason = s.ReasonConcept.Display
		}
	case d.AsNeededBoolean != nil && *d.AsNeededBoolean:
		s.AsNeeded = true
	}

	if d.Timing != nil {
		if r := d.Timing.Repeat; r != nil {
			s.Count = r.Count
			s.Frequency = r.Frequency
			s.FrequencyMax = r.FrequencyMax
			s.Period = r.Period
			s.PeriodMax = r.PeriodMax
			s.PeriodUnit = r.PeriodUnit
			s.DayOfWeek = append([]string(nil), r.DayOfWeek...)
			s.When = append([]string(nil), r.When...)
			s.TimeOfDay = append([]string(nil), r.TimeOfDay...)
		}
		if d.Timing.Code != nil {
			s.TimingCode = d.Timing.Code.FirstCoding().Code
			if s.TimingCode == "" {
				s.TimingCode = d.Timing.Code.Text
			}
		}
	}

	for _, cc := range d.AdditionalInstruction {
		inst := sig.Instruction{Text: cc.Text, Concept: codeableToConcept(&cc)}
		if inst.Text == "" && inst.Concept != nil {
			inst.Text = inst.Concept.Display
		}
		s.Instructions = append(s.Instructions, inst)
	}

	return s
}
