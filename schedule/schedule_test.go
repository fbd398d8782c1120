package schedule

import (
	"errors"
	"reflect"
	"testing"
	"time"

	sig "github.com/gofhir/sig"
	"github.com/gofhir/sig/cache"
	"github.com/gofhir/sig/fhir"
)

func utc(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("bad test timestamp %q: %v", value, err)
	}
	return ts
}

func next(t *testing.T, s *sig.ParsedSig, opts Options) []string {
	t.Helper()
	out, err := Next(fhir.ToDosage(s), opts)
	if err != nil {
		t.Fatalf("Next error: %v", err)
	}
	return out
}

func TestIntervalFromOrder(t *testing.T) {
	s := &sig.ParsedSig{Period: sig.Float(6), PeriodUnit: "h"}
	got := next(t, s, Options{
		TimeZone:  "UTC",
		From:      utc(t, "2026-03-01T08:00:00Z"),
		OrderedAt: utc(t, "2026-03-01T08:00:00Z"),
		Limit:     4,
	})
	want := []string{
		"2026-03-01T14:00:00+00:00",
		"2026-03-01T20:00:00+00:00",
		"2026-03-02T02:00:00+00:00",
		"2026-03-02T08:00:00+00:00",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

// A late evaluation window skips past already-elapsed interval slots instead
// of replaying them.
func TestIntervalSkipsElapsedSlots(t *testing.T) {
	s := &sig.ParsedSig{Period: sig.Float(6), PeriodUnit: "h"}
	got := next(t, s, Options{
		TimeZone:  "UTC",
		From:      utc(t, "2026-03-01T21:00:00Z"),
		OrderedAt: utc(t, "2026-03-01T08:00:00Z"),
		Limit:     2,
	})
	want := []string{"2026-03-02T02:00:00+00:00", "2026-03-02T08:00:00+00:00"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestMinuteInterval(t *testing.T) {
	s := &sig.ParsedSig{Period: sig.Float(30), PeriodUnit: "min"}
	got := next(t, s, Options{
		TimeZone: "UTC",
		From:     utc(t, "2026-03-01T08:00:00Z"),
		Limit:    2,
	})
	want := []string{"2026-03-01T08:30:00+00:00", "2026-03-01T09:00:00+00:00"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCountCapsRemaining(t *testing.T) {
	s := &sig.ParsedSig{Period: sig.Float(6), PeriodUnit: "h", Count: sig.Int(4)}
	opts := Options{
		TimeZone:   "UTC",
		From:       utc(t, "2026-03-01T08:00:00Z"),
		PriorCount: sig.Int(2),
	}
	got := next(t, s, opts)
	if len(got) != 2 {
		t.Errorf("got %d instants, want the 2 left after prior administrations", len(got))
	}

	opts.PriorCount = sig.Int(4)
	if got := next(t, s, opts); len(got) != 0 {
		t.Errorf("exhausted count emitted %v", got)
	}

	opts.PriorCount = sig.Int(9)
	if got := next(t, s, opts); len(got) != 0 {
		t.Errorf("over-exhausted count emitted %v", got)
	}
}

func TestFrequencyFallbackClocks(t *testing.T) {
	s := &sig.ParsedSig{Frequency: sig.Int(2), Period: sig.Float(1), PeriodUnit: "d"}
	got := next(t, s, Options{
		TimeZone: "UTC",
		From:     utc(t, "2026-03-01T09:00:00Z"),
		Limit:    3,
	})
	want := []string{
		"2026-03-01T20:00:00+00:00",
		"2026-03-02T08:00:00+00:00",
		"2026-03-02T20:00:00+00:00",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFreqClockOverride(t *testing.T) {
	s := &sig.ParsedSig{Frequency: sig.Int(2), Period: sig.Float(1), PeriodUnit: "d", TimingCode: "BID"}
	got := next(t, s, Options{
		TimeZone:  "UTC",
		From:      utc(t, "2026-03-01T00:00:00Z"),
		Limit:     2,
		FreqClock: map[string][]string{"BID": {"07:00", "19:00"}},
	})
	want := []string{"2026-03-01T07:00:00+00:00", "2026-03-01T19:00:00+00:00"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestEventAnchored(t *testing.T) {
	s := &sig.ParsedSig{When: []string{"ACM", "HS"}}
	got := next(t, s, Options{
		TimeZone: "UTC",
		From:     utc(t, "2026-03-01T00:00:00Z"),
		Limit:    3,
	})
	want := []string{
		"2026-03-01T07:30:00+00:00",
		"2026-03-01T22:00:00+00:00",
		"2026-03-02T07:30:00+00:00",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

// A clinic clock that anchors only the meal still places before/after-meal
// events via the meal offset.
func TestMealRelativeClock(t *testing.T) {
	s := &sig.ParsedSig{When: []string{"PCM"}}
	opts := Options{
		TimeZone:   "UTC",
		From:       utc(t, "2026-03-01T00:00:00Z"),
		Limit:      1,
		EventClock: map[string]string{"CM": "07:00"},
	}
	got := next(t, s, opts)
	want := []string{"2026-03-01T07:30:00+00:00"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	opts.MealOffsetMin = 60
	s = &sig.ParsedSig{When: []string{"ACM"}}
	got = next(t, s, opts)
	want = []string{"2026-03-01T06:00:00+00:00"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

// A generic after-meals code anchors all three meals, offset past each.
func TestGenericMealExpansion(t *testing.T) {
	s := &sig.ParsedSig{When: []string{"PC"}}
	opts := Options{
		TimeZone: "UTC",
		From:     utc(t, "2026-03-01T00:00:00Z"),
		Limit:    4,
	}
	got := next(t, s, opts)
	want := []string{
		"2026-03-01T08:30:00+00:00",
		"2026-03-01T12:30:00+00:00",
		"2026-03-01T18:30:00+00:00",
		"2026-03-02T08:30:00+00:00",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	// A clinic clock for the generic code itself pins it to one anchor.
	opts.EventClock = map[string]string{"PC": "13:00"}
	opts.Limit = 2
	got = next(t, s, opts)
	want = []string{"2026-03-01T13:00:00+00:00", "2026-03-02T13:00:00+00:00"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("pinned: got %v, want %v", got, want)
	}
}

// A dosage carrying only explicit administration clocks still projects.
func TestTimeOfDayAnchors(t *testing.T) {
	s := &sig.ParsedSig{TimeOfDay: []string{"09:00", "21:00"}}
	got := next(t, s, Options{
		TimeZone: "UTC",
		From:     utc(t, "2026-03-01T10:00:00Z"),
		Limit:    2,
	})
	want := []string{"2026-03-01T21:00:00+00:00", "2026-03-02T09:00:00+00:00"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

// Two event codes sharing a clock anchor one administration, not two.
func TestSharedClockDeduplicated(t *testing.T) {
	s := &sig.ParsedSig{When: []string{"NOON", "CD"}}
	got := next(t, s, Options{
		TimeZone: "UTC",
		From:     utc(t, "2026-03-01T00:00:00Z"),
		Limit:    2,
	})
	want := []string{"2026-03-01T12:00:00+00:00", "2026-03-02T12:00:00+00:00"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

// Event anchors before the order instant are not administrations of this
// order, even when the evaluation window opens earlier.
func TestEventAnchorsHonorOrderedAt(t *testing.T) {
	s := &sig.ParsedSig{When: []string{"MORN", "HS"}}
	got := next(t, s, Options{
		TimeZone:  "UTC",
		From:      utc(t, "2026-03-01T00:00:00Z"),
		OrderedAt: utc(t, "2026-03-01T12:00:00Z"),
		Limit:     2,
	})
	want := []string{"2026-03-01T22:00:00+00:00", "2026-03-02T08:00:00+00:00"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDayOfWeekFilter(t *testing.T) {
	// 2026-03-01 is a Sunday.
	s := &sig.ParsedSig{Frequency: sig.Int(1), Period: sig.Float(1), PeriodUnit: "d", DayOfWeek: []string{"mon"}}
	got := next(t, s, Options{
		TimeZone: "UTC",
		From:     utc(t, "2026-03-01T00:00:00Z"),
		Limit:    2,
	})
	want := []string{"2026-03-02T09:00:00+00:00", "2026-03-09T09:00:00+00:00"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestEveryOtherDayStride(t *testing.T) {
	s := &sig.ParsedSig{Frequency: sig.Int(1), Period: sig.Float(2), PeriodUnit: "d"}
	got := next(t, s, Options{
		TimeZone: "UTC",
		From:     utc(t, "2026-03-01T00:00:00Z"),
		Limit:    3,
	})
	want := []string{
		"2026-03-01T09:00:00+00:00",
		"2026-03-03T09:00:00+00:00",
		"2026-03-05T09:00:00+00:00",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

// A day-unit period with no frequency is a fixed interval, not a daily-clock
// cadence: q3d steps 72 hours from the order.
func TestDailyInterval(t *testing.T) {
	s := &sig.ParsedSig{Period: sig.Float(3), PeriodUnit: "d"}
	got := next(t, s, Options{
		TimeZone:  "UTC",
		From:      utc(t, "2026-03-01T09:00:00Z"),
		OrderedAt: utc(t, "2026-03-01T09:00:00Z"),
		Limit:     3,
	})
	want := []string{
		"2026-03-04T09:00:00+00:00",
		"2026-03-07T09:00:00+00:00",
		"2026-03-10T09:00:00+00:00",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSecondsInterval(t *testing.T) {
	s := &sig.ParsedSig{Period: sig.Float(45), PeriodUnit: "s"}
	got := next(t, s, Options{
		TimeZone: "UTC",
		From:     utc(t, "2026-03-01T08:00:00Z"),
		Limit:    2,
	})
	want := []string{"2026-03-01T08:00:45+00:00", "2026-03-01T08:01:30+00:00"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

// Year steps use the same clamped month arithmetic as months: a leap-day
// anchor lands on Feb 28 in common years.
func TestYearlyClamping(t *testing.T) {
	s := &sig.ParsedSig{Period: sig.Float(1), PeriodUnit: "a"}
	got := next(t, s, Options{
		TimeZone:  "UTC",
		From:      utc(t, "2024-02-29T09:00:00Z"),
		OrderedAt: utc(t, "2024-02-29T09:00:00Z"),
		Limit:     2,
	})
	want := []string{"2025-02-28T09:00:00+00:00", "2026-02-28T09:00:00+00:00"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

// 2026-03-01 is a Sunday: a Monday-only filter drops the Sunday slots of a
// 6-hourly interval.
func TestIntervalDayOfWeekFilter(t *testing.T) {
	s := &sig.ParsedSig{Period: sig.Float(6), PeriodUnit: "h", DayOfWeek: []string{"mon"}}
	got := next(t, s, Options{
		TimeZone:  "UTC",
		From:      utc(t, "2026-03-01T08:00:00Z"),
		OrderedAt: utc(t, "2026-03-01T08:00:00Z"),
		Limit:     2,
	})
	want := []string{"2026-03-02T02:00:00+00:00", "2026-03-02T08:00:00+00:00"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestWeeklyInterval(t *testing.T) {
	s := &sig.ParsedSig{Frequency: sig.Int(1), Period: sig.Float(1), PeriodUnit: "wk"}
	got := next(t, s, Options{
		TimeZone:  "UTC",
		From:      utc(t, "2026-03-01T09:00:00Z"),
		OrderedAt: utc(t, "2026-03-01T09:00:00Z"),
		Limit:     2,
	})
	want := []string{"2026-03-08T09:00:00+00:00", "2026-03-15T09:00:00+00:00"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

// Month steps keep the day-of-month, clamped to the target month's length.
func TestMonthlyClamping(t *testing.T) {
	s := &sig.ParsedSig{Frequency: sig.Int(1), Period: sig.Float(1), PeriodUnit: "mo"}
	got := next(t, s, Options{
		TimeZone:  "UTC",
		From:      utc(t, "2026-01-31T09:00:00Z"),
		OrderedAt: utc(t, "2026-01-31T09:00:00Z"),
		Limit:     3,
	})
	want := []string{
		"2026-02-28T09:00:00+00:00",
		"2026-03-31T09:00:00+00:00",
		"2026-04-30T09:00:00+00:00",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestImmediate(t *testing.T) {
	s := &sig.ParsedSig{When: []string{"IMD"}}

	got := next(t, s, Options{
		TimeZone:  "UTC",
		From:      utc(t, "2026-03-01T10:00:00Z"),
		OrderedAt: utc(t, "2026-03-01T08:00:00Z"),
	})
	want := []string{"2026-03-01T10:00:00+00:00"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("elapsed order: got %v, want %v", got, want)
	}

	got = next(t, s, Options{
		TimeZone:  "UTC",
		From:      utc(t, "2026-03-01T10:00:00Z"),
		OrderedAt: utc(t, "2026-03-01T11:00:00Z"),
	})
	want = []string{"2026-03-01T11:00:00+00:00"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("future order: got %v, want %v", got, want)
	}
}

func TestZoneOffsetRendering(t *testing.T) {
	s := &sig.ParsedSig{Frequency: sig.Int(1), Period: sig.Float(1), PeriodUnit: "d"}
	got := next(t, s, Options{
		TimeZone: "Asia/Bangkok",
		From:     utc(t, "2026-03-01T00:00:00Z"),
		Limit:    1,
	})
	want := []string{"2026-03-01T09:00:00+07:00"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestZonesCache(t *testing.T) {
	zones := cache.New[string, *time.Location]()
	s := &sig.ParsedSig{Frequency: sig.Int(1), Period: sig.Float(1), PeriodUnit: "d"}
	opts := Options{
		TimeZone: "UTC",
		From:     utc(t, "2026-03-01T00:00:00Z"),
		Limit:    1,
		Zones:    zones,
	}
	next(t, s, opts)
	next(t, s, opts)
	if zones.Len() != 1 {
		t.Errorf("cache holds %d zones, want 1", zones.Len())
	}
	hits, misses := zones.Stats()
	if hits == 0 || misses != 1 {
		t.Errorf("stats = %d hits %d misses, want reuse after one load", hits, misses)
	}
}

func TestOptionErrors(t *testing.T) {
	s := &sig.ParsedSig{Frequency: sig.Int(1)}
	d := fhir.ToDosage(s)
	from := utc(t, "2026-03-01T00:00:00Z")

	if _, err := Next(d, Options{From: from}); !errors.Is(err, sig.ErrMissingTimeZone) {
		t.Errorf("missing zone: err = %v", err)
	}
	if _, err := Next(d, Options{TimeZone: "UTC"}); !errors.Is(err, sig.ErrMissingFrom) {
		t.Errorf("missing from: err = %v", err)
	}
	if _, err := Next(d, Options{TimeZone: "UTC", From: from, PriorCount: sig.Int(-1)}); !errors.Is(err, sig.ErrBadPriorCount) {
		t.Errorf("negative prior: err = %v", err)
	}
	if _, err := Next(d, Options{TimeZone: "UTC", From: from, EventClock: map[string]string{"HS": "25:99"}}); !errors.Is(err, sig.ErrBadClock) {
		t.Errorf("bad clock: err = %v", err)
	}
}

func TestNoTimingEmitsNothing(t *testing.T) {
	got := next(t, &sig.ParsedSig{DoseValue: sig.Float(1), Unit: "tablet"}, Options{
		TimeZone: "UTC",
		From:     utc(t, "2026-03-01T00:00:00Z"),
	})
	if got != nil {
		t.Errorf("got %v, want nothing", got)
	}
	out, err := Next(nil, Options{TimeZone: "UTC", From: utc(t, "2026-03-01T00:00:00Z")})
	if err != nil || out != nil {
		t.Errorf("nil dosage: got %v, %v", out, err)
	}
}
