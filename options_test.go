package sig

import "testing"

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if opts.InferFromContext != true {
		t.Error("InferFromContext should be true by default")
	}
	if opts.AllowDiscouraged != true {
		t.Error("AllowDiscouraged should be true by default")
	}
	if opts.SmartMealExpansion != false {
		t.Error("SmartMealExpansion should be false by default")
	}
	if opts.TwoPerDayPair != PairBreakfastDinner {
		t.Errorf("TwoPerDayPair = %q; want %q", opts.TwoPerDayPair, PairBreakfastDinner)
	}
	if opts.AllowHouseholdVolumeUnits != true {
		t.Error("AllowHouseholdVolumeUnits should be true by default")
	}
	if opts.Locale != "en" {
		t.Errorf("Locale = %q; want en", opts.Locale)
	}
	if opts.Context != nil {
		t.Error("Context should be nil by default")
	}
}

func TestWithContext(t *testing.T) {
	mc := &MedContext{DoseForm: "tablet", DefaultRoute: "po"}
	opts := Apply(WithContext(mc))
	if opts.Context != mc {
		t.Error("WithContext should set the medication context")
	}
}

func TestWithoutInference(t *testing.T) {
	opts := Apply(WithoutInference())
	if opts.InferFromContext {
		t.Error("WithoutInference should disable context inference")
	}
}

func TestWithAllowDiscouraged(t *testing.T) {
	opts := Apply(WithAllowDiscouraged(false))
	if opts.AllowDiscouraged {
		t.Error("WithAllowDiscouraged(false) should make discouraged tokens fatal")
	}

	WithAllowDiscouraged(true)(opts)
	if !opts.AllowDiscouraged {
		t.Error("WithAllowDiscouraged(true) should make discouraged tokens warn")
	}
}

func TestWithSmartMealExpansion(t *testing.T) {
	opts := Apply(WithSmartMealExpansion(true))
	if !opts.SmartMealExpansion {
		t.Error("WithSmartMealExpansion(true) should enable expansion")
	}
}

func TestWithTwoPerDayPair(t *testing.T) {
	opts := Apply(WithTwoPerDayPair(PairBreakfastLunch))
	if opts.TwoPerDayPair != PairBreakfastLunch {
		t.Errorf("TwoPerDayPair = %q; want %q", opts.TwoPerDayPair, PairBreakfastLunch)
	}
}

func TestWithDictionaryOverlays(t *testing.T) {
	opts := Apply(
		WithRouteMap(map[string]Route{"po": {Code: "custom", Display: "Custom route"}}),
		WithUnitMap(map[string]string{"tab": "caplet"}),
		WithFreqMap(map[string]Cadence{"qid": {Code: "QID", Frequency: 4, Period: 1, PeriodUnit: "d"}}),
		WithWhenMap(map[string]string{"bedtime": "HS"}),
	)

	if opts.RouteMap["po"].Code != "custom" {
		t.Errorf("RouteMap[po].Code = %q; want custom", opts.RouteMap["po"].Code)
	}
	if opts.UnitMap["tab"] != "caplet" {
		t.Errorf("UnitMap[tab] = %q; want caplet", opts.UnitMap["tab"])
	}
	if opts.FreqMap["qid"].Frequency != 4 {
		t.Errorf("FreqMap[qid].Frequency = %d; want 4", opts.FreqMap["qid"].Frequency)
	}
	if opts.WhenMap["bedtime"] != "HS" {
		t.Errorf("WhenMap[bedtime] = %q; want HS", opts.WhenMap["bedtime"])
	}
}

func TestWithEventClock(t *testing.T) {
	opts := Apply(WithEventClock(map[string]string{"HS": "21:30"}))
	if opts.EventClock["HS"] != "21:30" {
		t.Errorf("EventClock[HS] = %q; want 21:30", opts.EventClock["HS"])
	}
}

func TestWithPRNReasons(t *testing.T) {
	opts := Apply(WithPRNReasons("wheezing", "itching"))
	if len(opts.PRNReasons) != 2 || opts.PRNReasons[0] != "wheezing" {
		t.Errorf("PRNReasons = %v; want [wheezing itching]", opts.PRNReasons)
	}
}

func TestWithLocale(t *testing.T) {
	opts := Apply(WithLocale("th"))
	if opts.Locale != "th" {
		t.Errorf("Locale = %q; want th", opts.Locale)
	}
}

func TestResolverOptionsAppend(t *testing.T) {
	r := func(LookupRequest) (*Concept, error) { return nil, ErrNotFound }
	opts := Apply(
		WithSiteResolvers(r),
		WithSiteResolvers(r, r),
		WithReasonResolvers(r),
	)
	if len(opts.SiteResolvers) != 3 {
		t.Errorf("len(SiteResolvers) = %d; want 3 (appended, not replaced)", len(opts.SiteResolvers))
	}
	if len(opts.ReasonResolvers) != 1 {
		t.Errorf("len(ReasonResolvers) = %d; want 1", len(opts.ReasonResolvers))
	}
}

func TestOptionsCombination(t *testing.T) {
	opts := Apply(
		WithContext(&MedContext{DoseForm: "eye drops"}),
		WithAllowDiscouraged(false),
		WithSmartMealExpansion(true),
		WithLocale("th"),
	)

	if opts.Context == nil || opts.Context.DoseForm != "eye drops" {
		t.Error("Context should carry the dose form")
	}
	if opts.AllowDiscouraged {
		t.Error("AllowDiscouraged should be false")
	}
	if !opts.SmartMealExpansion {
		t.Error("SmartMealExpansion should be true")
	}
	if opts.Locale != "th" {
		t.Errorf("Locale = %q; want th", opts.Locale)
	}
	// Untouched defaults survive.
	if !opts.AllowHouseholdVolumeUnits {
		t.Error("AllowHouseholdVolumeUnits default should survive other options")
	}
}

func BenchmarkApplyOptions(b *testing.B) {
	mc := &MedContext{DoseForm: "tablet", DefaultRoute: "po"}
	for i := 0; i < b.N; i++ {
		_ = Apply(
			WithContext(mc),
			WithSmartMealExpansion(true),
			WithTwoPerDayPair(PairBreakfastLunch),
			WithLocale("en"),
		)
	}
}
