package membership

import (
	"testing"
	"time"
)

func TestNormalizeRecordAliases(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
		want Record
	}{
		{
			name: "camelCase keys",
			raw: map[string]any{
				"memberId":    "M-001",
				"particulars": "Monthly Membership",
			},
			want: Record{MemberID: "M-001", Particulars: "Monthly Membership"},
		},
		{
			name: "snake_case keys",
			raw: map[string]any{
				"member_id":   "m-002",
				"particulars": "Daily Pass",
			},
			want: Record{MemberID: "m-002", Particulars: "Daily Pass"},
		},
		{
			name: "legacy item/member keys",
			raw: map[string]any{
				"Member": "m-003",
				"Item":   "Coach Session",
			},
			want: Record{MemberID: "m-003", Particulars: "Coach Session"},
		},
		{
			name: "earlier alias wins over later",
			raw: map[string]any{
				"memberId": "canonical",
				"member":   "legacy",
			},
			want: Record{MemberID: "canonical"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeRecord(tt.raw)
			if got.MemberID != tt.want.MemberID {
				t.Fatalf("MemberID = %q, want %q", got.MemberID, tt.want.MemberID)
			}
			if got.Particulars != tt.want.Particulars {
				t.Fatalf("Particulars = %q, want %q", got.Particulars, tt.want.Particulars)
			}
		})
	}
}

func TestNormalizeRecordDateShapes(t *testing.T) {
	native := time.Date(2025, time.November, 20, 8, 0, 0, 0, businessZone)

	tests := []struct {
		name    string
		value   any
		wantDay string
	}{
		{name: "plain day string", value: "2025-11-20", wantDay: "2025-11-20"},
		{name: "slash day string", value: "2025/11/20", wantDay: "2025-11-20"},
		{name: "rfc3339 string", value: "2025-11-20T10:30:00+08:00", wantDay: "2025-11-20"},
		{name: "datetime string", value: "2025-11-20 10:30:00", wantDay: "2025-11-20"},
		{name: "native time", value: native, wantDay: "2025-11-20"},
		{name: "unix seconds int", value: int64(native.Unix()), wantDay: "2025-11-20"},
		{name: "unix seconds float", value: float64(native.Unix()), wantDay: "2025-11-20"},
		{name: "seconds wrapper", value: map[string]any{"seconds": float64(native.Unix())}, wantDay: "2025-11-20"},
		{name: "underscored seconds wrapper", value: map[string]any{"_seconds": float64(native.Unix())}, wantDay: "2025-11-20"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := NormalizeRecord(map[string]any{"gymValidUntil": tt.value})
			if rec.GymValidUntil == nil {
				t.Fatalf("GymValidUntil = nil, want %s", tt.wantDay)
			}
			if got := DayString(*rec.GymValidUntil); got != tt.wantDay {
				t.Fatalf("GymValidUntil day = %q, want %q", got, tt.wantDay)
			}
		})
	}
}

func TestNormalizeRecordMalformedDatesOmitted(t *testing.T) {
	for _, value := range []any{"soon", "2025-13-45", "", map[string]any{"minutes": 5}, true, nil} {
		rec := NormalizeRecord(map[string]any{"gymValidUntil": value})
		if rec.GymValidUntil != nil {
			t.Fatalf("GymValidUntil for %v = %v, want nil", value, rec.GymValidUntil)
		}
	}
}

func TestNormalizeRecordCategoryDates(t *testing.T) {
	rec := NormalizeRecord(map[string]any{
		"member_id":        "m-001",
		"particulars":      "Bundle",
		"gym_valid_until":  "2025-12-01",
		"CoachValidUntil":  "2025-11-25",
		"valid_until":      "2025-11-30",
		"date":             "2025-11-16",
	})

	if rec.GymValidUntil == nil || DayString(*rec.GymValidUntil) != "2025-12-01" {
		t.Fatalf("GymValidUntil = %v", rec.GymValidUntil)
	}
	if rec.CoachValidUntil == nil || DayString(*rec.CoachValidUntil) != "2025-11-25" {
		t.Fatalf("CoachValidUntil = %v", rec.CoachValidUntil)
	}
	if rec.GenericEnd == nil || DayString(*rec.GenericEnd) != "2025-11-30" {
		t.Fatalf("GenericEnd = %v", rec.GenericEnd)
	}
	if rec.PaidAt == nil || DayString(*rec.PaidAt) != "2025-11-16" {
		t.Fatalf("PaidAt = %v", rec.PaidAt)
	}
}

func TestSnapshotFromRow(t *testing.T) {
	subject := SnapshotFromRow(map[string]any{
		"member_code":    "m-007",
		"status":         "active",
		"membership_end": "2025-12-31",
	})

	if subject.ID != "m-007" {
		t.Fatalf("ID = %q, want m-007", subject.ID)
	}
	if subject.Status != "active" {
		t.Fatalf("Status = %q, want active", subject.Status)
	}
	if subject.MembershipEnd == nil || DayString(*subject.MembershipEnd) != "2025-12-31" {
		t.Fatalf("MembershipEnd = %v", subject.MembershipEnd)
	}
}

func TestHeuristicCategory(t *testing.T) {
	tests := []struct {
		name  string
		gym   bool
		coach bool
	}{
		{name: "monthly membership", gym: true},
		{name: "gym day pass", gym: true},
		{name: "coach package", coach: true},
		{name: "personal trainer", coach: true},
		{name: "pt session", coach: true},
		{name: "protein shake"},
		{name: "gym + coach promo", gym: true, coach: true},
	}

	for _, tt := range tests {
		got := heuristicCategory(tt.name)
		if got.gym != tt.gym || got.coach != tt.coach {
			t.Fatalf("heuristicCategory(%q) = %+v, want gym=%v coach=%v", tt.name, got, tt.gym, tt.coach)
		}
	}
}
