package rental

import (
	"testing"
	"time"
)

func TestParseTime_Layouts(t *testing.T) {
	bkk := time.FixedZone("ICT", 7*3600)
	want := time.Date(2024, 1, 1, 10, 0, 0, 0, bkk)

	for _, in := range []string{
		"2024-01-01T10:00",
		"2024-01-01T10:00:00",
		"2024-01-01 10:00:00",
		"2024-01-01 10:00",
		"2024-01-01T03:00:00Z",
		"2024-01-01T10:00:00+07:00",
		"01/01/2024 10:00",
		"2567-01-01 10:00",
		"1704078000",
		"1704078000000",
	} {
		got, ok := ParseTime(in, bkk)
		if !ok {
			t.Fatalf("%q: expected parse", in)
		}
		if !got.Equal(want) {
			t.Fatalf("%q: expected %s, got %s", in, want, got)
		}
	}
}

func TestParseTime_BuddhistEraLeapDay(t *testing.T) {
	want := time.Date(2024, 2, 29, 10, 0, 0, 0, time.UTC)
	for _, in := range []string{
		"29/02/2567 10:00",
		"2567-02-29 10:00",
		"2567-02-29T10:00:00Z",
	} {
		got, ok := ParseTime(in, time.UTC)
		if !ok || !got.Equal(want) {
			t.Fatalf("%q: expected %s, got %s (ok=%v)", in, want, got, ok)
		}
	}
	// BE 2566 is 2023, which has no 29 February.
	if _, ok := ParseTime("29/02/2566", time.UTC); ok {
		t.Fatalf("expected 29/02/2566 to be rejected")
	}
}

func TestParseTime_DateOnlyIsMidnightLocal(t *testing.T) {
	bkk := time.FixedZone("ICT", 7*3600)
	got, ok := ParseTime("2024-03-05", bkk)
	if !ok {
		t.Fatalf("expected parse")
	}
	if !got.Equal(time.Date(2024, 3, 5, 0, 0, 0, 0, bkk)) {
		t.Fatalf("unexpected time %s", got)
	}
}

func TestParseTime_UnparsableIsAbsent(t *testing.T) {
	for _, in := range []string{"", "  ", "tomorrow", "2024-13-45", "12", "null"} {
		if got, ok := ParseTime(in, time.UTC); ok || !got.IsZero() {
			t.Fatalf("%q: expected absent, got %s", in, got)
		}
	}
}
