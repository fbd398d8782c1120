package sig

// Route is a coded administration route.
type Route struct {
	Code    string `json:"code"`
	Display string `json:"display"`
}

// Cadence is one timing-abbreviation dictionary entry. Zero fields are
// treated as unset when the entry is applied.
type Cadence struct {
	// Code is the canonical timing abbreviation (BID, TID, QD, ...).
	Code string

	Frequency    int
	FrequencyMax int
	Period       float64
	PeriodMax    float64
	PeriodUnit   string

	// When lists event-timing codes implied by the abbreviation (HS for
	// "qhs", IMD for "stat").
	When []string
}

// MedContext carries medication metadata used for unit and route inference
// when the sig itself names neither.
type MedContext struct {
	// DoseForm is the dosage form, e.g. "tablet" or "ophthalmic solution".
	DoseForm string

	// ContainerUnit is the dispensing container, e.g. "bottle" or "inhaler".
	ContainerUnit string

	// DefaultUnit overrides form-derived unit inference when set.
	DefaultUnit string

	// DefaultRoute is a route synonym applied when the sig names no route.
	DefaultRoute string
}

// TwoPerDayPair selects which two meals a twice-daily sig expands to under
// smart meal expansion.
type TwoPerDayPair string

// Meal pairing choices.
const (
	PairBreakfastDinner TwoPerDayPair = "breakfast+dinner"
	PairBreakfastLunch  TwoPerDayPair = "breakfast+lunch"
)

// Options holds all configuration for parsing, formatting and suggestion.
type Options struct {
	// Context supplies medication metadata for unit/route inference.
	// Leave nil for no context. Set InferFromContext to false to disable
	// inference entirely even when Context is present.
	Context          *MedContext
	InferFromContext bool

	// Dictionary overrides. Each is consulted before the builtin table;
	// a key present in both resolves to the custom value.
	RouteMap map[string]Route
	UnitMap  map[string]string
	FreqMap  map[string]Cadence
	WhenMap  map[string]string

	// EventClock maps event-timing codes to clinic clock anchors
	// ("HH:mm" or "HH:mm:ss") used for chronological ordering of When.
	EventClock map[string]string

	// AllowDiscouraged controls whether discouraged abbreviations warn
	// (true, the default) or abort the parse with ErrDiscouragedToken.
	AllowDiscouraged bool

	// SmartMealExpansion replaces a generic meal code with concrete
	// breakfast/lunch/dinner codes based on the daily frequency.
	SmartMealExpansion bool

	// TwoPerDayPair picks the meal pair for frequency 2 under smart meal
	// expansion. Defaults to breakfast+dinner.
	TwoPerDayPair TwoPerDayPair

	// AllowHouseholdVolumeUnits permits teaspoon/tablespoon as units.
	AllowHouseholdVolumeUnits bool

	// Site coding layers.
	SiteCodeMap        map[string]Concept
	SiteResolvers      []CodeResolver
	SiteResolversCtx   []CodeResolverCtx
	SiteSuggesters     []CodeSuggester
	ReasonCodeMap      map[string]Concept
	ReasonResolvers    []CodeResolver
	ReasonResolversCtx []CodeResolverCtx
	ReasonSuggesters   []CodeSuggester

	// PRNReasons overrides the reason phrases the autocomplete candidate
	// templates offer for as-needed sigs.
	PRNReasons []string

	// Locale is a BCP 47 tag selecting the formatter grammar ("en", "th").
	Locale string
}

// Option configures Options.
type Option func(*Options)

// DefaultOptions returns the default configuration.
func DefaultOptions() *Options {
	return &Options{
		InferFromContext:          true,
		AllowDiscouraged:          true,
		TwoPerDayPair:             PairBreakfastDinner,
		AllowHouseholdVolumeUnits: true,
		Locale:                    "en",
	}
}

// Apply builds an Options from defaults plus the given options.
func Apply(opts ...Option) *Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithContext supplies medication metadata for inference.
func WithContext(mc *MedContext) Option {
	return func(o *Options) { o.Context = mc }
}

// WithoutInference disables unit/route inference from medication context.
func WithoutInference() Option {
	return func(o *Options) { o.InferFromContext = false }
}

// WithRouteMap overlays custom route synonyms on the builtin table.
func WithRouteMap(m map[string]Route) Option {
	return func(o *Options) { o.RouteMap = m }
}

// WithUnitMap overlays custom unit synonyms on the builtin table.
func WithUnitMap(m map[string]string) Option {
	return func(o *Options) { o.UnitMap = m }
}

// WithFreqMap overlays custom timing abbreviations on the builtin table.
func WithFreqMap(m map[string]Cadence) Option {
	return func(o *Options) { o.FreqMap = m }
}

// WithWhenMap overlays custom event-timing tokens on the builtin table.
func WithWhenMap(m map[string]string) Option {
	return func(o *Options) { o.WhenMap = m }
}

// WithEventClock supplies clinic clock anchors for event-timing codes.
func WithEventClock(m map[string]string) Option {
	return func(o *Options) { o.EventClock = m }
}

// WithAllowDiscouraged selects warn (true) or error (false) for discouraged
// abbreviations.
func WithAllowDiscouraged(allow bool) Option {
	return func(o *Options) { o.AllowDiscouraged = allow }
}

// WithSmartMealExpansion enables generic-meal-code expansion.
func WithSmartMealExpansion(enable bool) Option {
	return func(o *Options) { o.SmartMealExpansion = enable }
}

// WithTwoPerDayPair picks the meal pair for twice-daily expansion.
func WithTwoPerDayPair(p TwoPerDayPair) Option {
	return func(o *Options) { o.TwoPerDayPair = p }
}

// WithHouseholdVolumeUnits permits or forbids teaspoon/tablespoon units.
func WithHouseholdVolumeUnits(allow bool) Option {
	return func(o *Options) { o.AllowHouseholdVolumeUnits = allow }
}

// WithSiteCodeMap supplies caller site codings, consulted before builtins.
func WithSiteCodeMap(m map[string]Concept) Option {
	return func(o *Options) { o.SiteCodeMap = m }
}

// WithSiteResolvers appends synchronous site code resolvers.
func WithSiteResolvers(rs ...CodeResolver) Option {
	return func(o *Options) { o.SiteResolvers = append(o.SiteResolvers, rs...) }
}

// WithSiteResolversCtx appends context-aware site code resolvers. These run
// only from the context-aware parse entry points.
func WithSiteResolversCtx(rs ...CodeResolverCtx) Option {
	return func(o *Options) { o.SiteResolversCtx = append(o.SiteResolversCtx, rs...) }
}

// WithSiteSuggesters appends site code suggesters for probe phrases.
func WithSiteSuggesters(ss ...CodeSuggester) Option {
	return func(o *Options) { o.SiteSuggesters = append(o.SiteSuggesters, ss...) }
}

// WithReasonCodeMap supplies caller PRN-reason codings.
func WithReasonCodeMap(m map[string]Concept) Option {
	return func(o *Options) { o.ReasonCodeMap = m }
}

// WithReasonResolvers appends synchronous PRN-reason resolvers.
func WithReasonResolvers(rs ...CodeResolver) Option {
	return func(o *Options) { o.ReasonResolvers = append(o.ReasonResolvers, rs...) }
}

// WithReasonResolversCtx appends context-aware PRN-reason resolvers.
func WithReasonResolversCtx(rs ...CodeResolverCtx) Option {
	return func(o *Options) { o.ReasonResolversCtx = append(o.ReasonResolversCtx, rs...) }
}

// WithReasonSuggesters appends PRN-reason suggesters for probe phrases.
func WithReasonSuggesters(ss ...CodeSuggester) Option {
	return func(o *Options) { o.ReasonSuggesters = append(o.ReasonSuggesters, ss...) }
}

// WithPRNReasons overrides the as-needed reason phrases offered by the
// autocomplete templates.
func WithPRNReasons(reasons ...string) Option {
	return func(o *Options) { o.PRNReasons = reasons }
}

// WithLocale selects the formatter grammar by BCP 47 tag.
func WithLocale(tag string) Option {
	return func(o *Options) { o.Locale = tag }
}
