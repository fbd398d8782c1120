package sig

// SystemSNOMED is the terminology system URI for all built-in codes.
const SystemSNOMED = "http://snomed.info/sct"

// Concept is a single coded value from a terminology system.
type Concept struct {
	System  string `json:"system,omitempty"`
	Code    string `json:"code,omitempty"`
	Display string `json:"display,omitempty"`
}

// Instruction is one additional-instruction phrase, optionally coded.
type Instruction struct {
	Text    string   `json:"text"`
	Concept *Concept `json:"concept,omitempty"`
}

// SiteSource records how a body site entered the parse.
type SiteSource string

// Site provenance values.
const (
	// SiteFromAbbreviation means the site came from a coded shorthand token
	// such as OD/OS/OU.
	SiteFromAbbreviation SiteSource = "abbreviation"
	// SiteFromText means the site was extracted from free text.
	SiteFromText SiteSource = "text"
)

// ParsedSig is the internal parsed representation of one sig string.
//
// It is the mutable accumulator for a single parse invocation: created empty,
// filled token by token and by the post-passes, and immutable once returned.
// Every field is independently optional until some rule sets it.
type ParsedSig struct {
	// Dose: either a single value or a low-high range, plus a canonical unit.
	DoseValue *float64 `json:"doseValue,omitempty"`
	DoseLow   *float64 `json:"doseLow,omitempty"`
	DoseHigh  *float64 `json:"doseHigh,omitempty"`
	Unit      string   `json:"unit,omitempty"`

	// Route, coded against SNOMED.
	RouteCode    string `json:"routeCode,omitempty"`
	RouteDisplay string `json:"routeDisplay,omitempty"`

	// Count limits total administrations ("x10", "for 3 doses").
	Count *int `json:"count,omitempty"`

	// Cadence. PeriodUnit is a FHIR UnitsOfTime code: s, min, h, d, wk, mo, a.
	Frequency    *int     `json:"frequency,omitempty"`
	FrequencyMax *int     `json:"frequencyMax,omitempty"`
	Period       *float64 `json:"period,omitempty"`
	PeriodMax    *float64 `json:"periodMax,omitempty"`
	PeriodUnit   string   `json:"periodUnit,omitempty"`

	// DayOfWeek holds lowercase three-letter day codes (mon..sun).
	DayOfWeek []string `json:"dayOfWeek,omitempty"`

	// When holds event-timing codes (ACM, PC, HS, ...), deduplicated and,
	// after a full parse, sorted chronologically.
	When []string `json:"when,omitempty"`

	// TimeOfDay holds explicit "HH:mm" administration clocks. The parser
	// never fills it; it round-trips from externally built dosages and
	// anchors schedule projection like an event code.
	TimeOfDay []string `json:"timeOfDay,omitempty"`

	// TimingCode is the recognized cadence abbreviation (BID, TID, QD, ...).
	TimingCode string `json:"timingCode,omitempty"`

	// PRN ("as needed") state.
	AsNeeded      bool     `json:"asNeeded,omitempty"`
	Reason        string   `json:"reason,omitempty"`
	ReasonConcept *Concept `json:"reasonConcept,omitempty"`
	ReasonIsProbe bool     `json:"reasonIsProbe,omitempty"`

	// Body site.
	SiteText    string     `json:"siteText,omitempty"`
	SiteConcept *Concept   `json:"siteConcept,omitempty"`
	SiteSource  SiteSource `json:"siteSource,omitempty"`
	SiteIsProbe bool       `json:"siteIsProbe,omitempty"`

	// Aggregated candidates for probe phrases, in resolver order.
	SiteSuggestions   []Concept `json:"siteSuggestions,omitempty"`
	ReasonSuggestions []Concept `json:"reasonSuggestions,omitempty"`

	// Instructions holds trailing additional-instruction phrases.
	Instructions []Instruction `json:"instructions,omitempty"`

	// Warnings are advisory messages; they never abort a parse.
	Warnings []string `json:"warnings,omitempty"`

	// Leftover lists unconsumed token text, in input order.
	Leftover []string `json:"leftover,omitempty"`
}

// Warn appends a warning message once.
func (p *ParsedSig) Warn(msg string) {
	for _, w := range p.Warnings {
		if w == msg {
			return
		}
	}
	p.Warnings = append(p.Warnings, msg)
}

// AddWhen appends an event-timing code if not already present.
func (p *ParsedSig) AddWhen(code string) {
	for _, w := range p.When {
		if w == code {
			return
		}
	}
	p.When = append(p.When, code)
}

// AddDay appends a day-of-week code if not already present.
func (p *ParsedSig) AddDay(day string) {
	for _, d := range p.DayOfWeek {
		if d == day {
			return
		}
	}
	p.DayOfWeek = append(p.DayOfWeek, day)
}

// HasDose reports whether any dose value or range has been set.
func (p *ParsedSig) HasDose() bool {
	return p.DoseValue != nil || p.DoseLow != nil || p.DoseHigh != nil
}

// HasCadence reports whether frequency or period fields are assigned.
func (p *ParsedSig) HasCadence() bool {
	return p.Frequency != nil || p.Period != nil
}

// Float returns a pointer to v. Convenience for optional numeric fields.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v. Convenience for optional numeric fields.
func Int(v int) *int { return &v }
