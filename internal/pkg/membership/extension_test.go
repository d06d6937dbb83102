package membership

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, businessZone)
}

func dayPtr(y int, m time.Month, d int) *time.Time {
	t := day(y, m, d)
	return &t
}

func TestComputeExtensionFreshStart(t *testing.T) {
	now := day(2025, time.November, 16)

	tests := []struct {
		name         string
		existingEnd  *time.Time
		startDate    string
		validityDays int
		want         string
	}{
		{name: "explicit start inclusive 30 days", startDate: "2025-11-16", validityDays: 30, want: "2025-12-15"},
		{name: "no start defaults to today", validityDays: 30, want: "2025-12-15"},
		{name: "single day pass ends same day", startDate: "2025-11-16", validityDays: 1, want: "2025-11-16"},
		{name: "zero validity is a no-op purchase", startDate: "2025-11-16", validityDays: 0, want: ""},
		{name: "negative validity is a no-op purchase", validityDays: -5, want: ""},
		{name: "expired end ignored, restart from today", existingEnd: dayPtr(2025, time.November, 10), validityDays: 7, want: "2025-11-22"},
		{name: "expired end ignored, explicit start wins", existingEnd: dayPtr(2025, time.November, 10), startDate: "2025-12-01", validityDays: 7, want: "2025-12-07"},
		{name: "garbage start falls back to today", startDate: "not-a-date", validityDays: 3, want: "2025-11-18"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeExtension(tt.existingEnd, tt.startDate, tt.validityDays, now)
			if got != tt.want {
				t.Fatalf("ComputeExtension() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestComputeExtensionStacksAfterActiveEnd(t *testing.T) {
	now := day(2025, time.November, 16)

	got := ComputeExtension(dayPtr(2025, time.November, 20), "", 30, now)
	if got != "2025-12-20" {
		t.Fatalf("ComputeExtension() = %q, want %q", got, "2025-12-20")
	}

	// An explicit start date never pre-empts a still-valid end.
	got = ComputeExtension(dayPtr(2025, time.November, 20), "2025-11-16", 30, now)
	if got != "2025-12-20" {
		t.Fatalf("ComputeExtension() with start date = %q, want %q", got, "2025-12-20")
	}

	// An end equal to today still counts as covered, so the new period
	// begins tomorrow.
	got = ComputeExtension(dayPtr(2025, time.November, 16), "", 7, now)
	if got != "2025-11-23" {
		t.Fatalf("ComputeExtension() from today-end = %q, want %q", got, "2025-11-23")
	}
}

// For any future existing end, the new end is exactly existing + validity
// days: one day of gap-free stacking plus validity-1 days of inclusive
// coverage.
func TestComputeExtensionStackingArithmetic(t *testing.T) {
	now := day(2025, time.November, 16)

	for _, validity := range []int{1, 7, 30, 90, 365} {
		for offset := 0; offset < 40; offset++ {
			end := day(2025, time.November, 16).AddDate(0, 0, offset)
			want := DayString(end.AddDate(0, 0, validity))
			got := ComputeExtension(&end, "", validity, now)
			if got != want {
				t.Fatalf("ComputeExtension(end=%s, validity=%d) = %q, want %q",
					DayString(end), validity, got, want)
			}
		}
	}
}

func TestComputeExtensionUsesBusinessDay(t *testing.T) {
	// 17:00 UTC is already past midnight in Manila; "today" must be the
	// Manila calendar day, not the UTC one.
	now := time.Date(2025, time.November, 15, 17, 0, 0, 0, time.UTC)
	if DayString(now) != "2025-11-16" {
		t.Fatalf("DayString(now) = %q, want 2025-11-16", DayString(now))
	}
	got := ComputeExtension(nil, "", 1, now)
	if got != "2025-11-16" {
		t.Fatalf("ComputeExtension() = %q, want %q", got, "2025-11-16")
	}
}
