package fhir

// Dosage is the FHIR R4 Dosage structure: how a medication is or should be
// taken.
type Dosage struct {
	Sequence              int               `json:"sequence,omitempty"`
	Text                  string            `json:"text,omitempty"`
	AdditionalInstruction []CodeableConcept `json:"additionalInstruction,omitempty"`
	PatientInstruction    string            `json:"patientInstruction,omitempty"`
	Timing                *Timing           `json:"timing,omitempty"`

	// AsNeeded is a choice: the boolean form, or the coded form carrying
	// the PRN reason. At most one is set.
	AsNeededBoolean         *bool            `json:"asNeededBoolean,omitempty"`
	AsNeededCodeableConcept *CodeableConcept `json:"asNeededCodeableConcept,omitempty"`

	Site   *CodeableConcept `json:"site,omitempty"`
	Route  *CodeableConcept `json:"route,omitempty"`
	Method *CodeableConcept `json:"method,omitempty"`

	DoseAndRate []DoseAndRate `json:"doseAndRate,omitempty"`

	MaxDosePerPeriod         *Ratio    `json:"maxDosePerPeriod,omitempty"`
	MaxDosePerAdministration *Quantity `json:"maxDosePerAdministration,omitempty"`
	MaxDosePerLifetime       *Quantity `json:"maxDosePerLifetime,omitempty"`
}

// DoseAndRate is one dose/rate element; dose is a quantity-or-range choice.
type DoseAndRate struct {
	Type         *CodeableConcept `json:"type,omitempty"`
	DoseRange    *Range           `json:"doseRange,omitempty"`
	DoseQuantity *Quantity        `json:"doseQuantity,omitempty"`
	RateRatio    *Ratio           `json:"rateRatio,omitempty"`
	RateRange    *Range           `json:"rateRange,omitempty"`
	RateQuantity *Quantity        `json:"rateQuantity,omitempty"`
}

// Timing describes an event schedule.
type Timing struct {
	Event  []string         `json:"event,omitempty"`
	Repeat *TimingRepeat    `json:"repeat,omitempty"`
	Code   *CodeableConcept `json:"code,omitempty"`
}

// TimingRepeat is the repeating pattern of a Timing.
type TimingRepeat struct {
	BoundsDuration *Duration `json:"boundsDuration,omitempty"`
	BoundsRange    *Range    `json:"boundsRange,omitempty"`
	BoundsPeriod   *Period   `json:"boundsPeriod,omitempty"`

	Count    *int `json:"count,omitempty"`
	CountMax *int `json:"countMax,omitempty"`

	Duration     *float64 `json:"duration,omitempty"`
	DurationMax  *float64 `json:"durationMax,omitempty"`
	DurationUnit string   `json:"durationUnit,omitempty"`

	Frequency    *int `json:"frequency,omitempty"`
	FrequencyMax *int `json:"frequencyMax,omitempty"`

	Period     *float64 `json:"period,omitempty"`
	PeriodMax  *float64 `json:"periodMax,omitempty"`
	PeriodUnit string   `json:"periodUnit,omitempty"`

	DayOfWeek []string `json:"dayOfWeek,omitempty"`
	TimeOfDay []string `json:"timeOfDay,omitempty"`
	When      []string `json:"when,omitempty"`
	Offset    *int     `json:"offset,omitempty"`
}

// HasRepeat reports whether the timing carries any repeat content.
func (t *Timing) HasRepeat() bool {
	return t != nil && t.Repeat != nil
}
