package membership

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRules = []Rule{
	{Particulars: "Monthly Membership", IsGymMembership: true},
	{Particulars: "Coach Subscription", IsCoachSubscription: true},
	{Particulars: "Merchandise", IsGymMembership: false, IsCoachSubscription: false},
}

func TestResolveStatusKeepsLatestDate(t *testing.T) {
	now := day(2025, time.November, 16)
	payments := []Record{
		{MemberID: "m-001", GymValidUntil: dayPtr(2025, time.November, 20)},
		{MemberID: "m-001", GymValidUntil: dayPtr(2025, time.December, 20)},
		{MemberID: "m-001", GymValidUntil: dayPtr(2025, time.October, 1)},
	}

	status := ResolveStatus(payments, SubjectID("m-001"), testRules, now)
	require.NotNil(t, status.MembershipEnd)
	assert.Equal(t, "2025-12-20", DayString(*status.MembershipEnd))
	assert.Equal(t, StateActive, status.MembershipState)
}

func TestResolveStatusOrderIndependent(t *testing.T) {
	now := day(2025, time.November, 16)
	payments := []Record{
		{MemberID: "m-001", GymValidUntil: dayPtr(2025, time.December, 20)},
		{MemberID: "m-001", Particulars: "Monthly Membership", GenericEnd: dayPtr(2026, time.January, 5)},
		{MemberID: "m-001", Particulars: "Coach Subscription", GenericEnd: dayPtr(2025, time.November, 30)},
		{MemberID: "m-001", CoachValidUntil: dayPtr(2025, time.December, 1)},
		{MemberID: "m-001", Particulars: "Merchandise", GenericEnd: dayPtr(2027, time.January, 1)},
	}

	want := ResolveStatus(payments, SubjectID("m-001"), testRules, now)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 25; i++ {
		shuffled := make([]Record, len(payments))
		copy(shuffled, payments)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		got := ResolveStatus(shuffled, SubjectID("m-001"), testRules, now)
		assert.Equal(t, want, got, "shuffle %d changed the result", i)
	}

	require.NotNil(t, want.MembershipEnd)
	assert.Equal(t, "2026-01-05", DayString(*want.MembershipEnd))
	require.NotNil(t, want.CoachEnd)
	assert.Equal(t, "2025-12-01", DayString(*want.CoachEnd))
}

func TestResolveStatusGenericEndNeedsCategorySignal(t *testing.T) {
	now := day(2025, time.November, 16)

	// A generic end date on an uncategorized purchase must credit neither
	// leg; the coach side of this is load-bearing.
	status := ResolveStatus([]Record{
		{MemberID: "m-001", Particulars: "Protein Shake", GenericEnd: dayPtr(2025, time.December, 31)},
	}, SubjectID("m-001"), testRules, now)
	assert.Nil(t, status.MembershipEnd)
	assert.Nil(t, status.CoachEnd)
	assert.Equal(t, StateNone, status.MembershipState)
	assert.False(t, status.CoachActive)

	// A gym-classified name unlocks the generic date for the gym leg only.
	status = ResolveStatus([]Record{
		{MemberID: "m-001", Particulars: "Monthly Membership", GenericEnd: dayPtr(2025, time.December, 31)},
	}, SubjectID("m-001"), testRules, now)
	require.NotNil(t, status.MembershipEnd)
	assert.Equal(t, "2025-12-31", DayString(*status.MembershipEnd))
	assert.Nil(t, status.CoachEnd)

	// Symmetric for a coach-classified name.
	status = ResolveStatus([]Record{
		{MemberID: "m-001", Particulars: "Coach Subscription", GenericEnd: dayPtr(2025, time.December, 31)},
	}, SubjectID("m-001"), testRules, now)
	assert.Nil(t, status.MembershipEnd)
	require.NotNil(t, status.CoachEnd)
	assert.True(t, status.CoachActive)
}

func TestResolveStatusHeuristicWithoutRule(t *testing.T) {
	now := day(2025, time.November, 16)

	// No catalog rule matches; keyword heuristic takes over.
	status := ResolveStatus([]Record{
		{MemberID: "m-001", Particulars: "Annual Gym Pass", GenericEnd: dayPtr(2026, time.March, 1)},
		{MemberID: "m-001", Particulars: "Personal Trainer Package", GenericEnd: dayPtr(2025, time.December, 15)},
	}, SubjectID("m-001"), nil, now)

	require.NotNil(t, status.MembershipEnd)
	assert.Equal(t, "2026-03-01", DayString(*status.MembershipEnd))
	require.NotNil(t, status.CoachEnd)
	assert.Equal(t, "2025-12-15", DayString(*status.CoachEnd))
}

func TestResolveStatusExplicitDateBeatsInference(t *testing.T) {
	now := day(2025, time.November, 16)

	// The explicit gym date wins for its record even though the particulars
	// say nothing about gym.
	status := ResolveStatus([]Record{
		{MemberID: "m-001", Particulars: "Promo Bundle", GymValidUntil: dayPtr(2025, time.December, 10), GenericEnd: dayPtr(2026, time.June, 1)},
	}, SubjectID("m-001"), testRules, now)

	require.NotNil(t, status.MembershipEnd)
	assert.Equal(t, "2025-12-10", DayString(*status.MembershipEnd))
	assert.Nil(t, status.CoachEnd)
}

func TestResolveStatusFiltersByMember(t *testing.T) {
	now := day(2025, time.November, 16)
	payments := []Record{
		{MemberID: "m-001", GymValidUntil: dayPtr(2025, time.November, 20)},
		{MemberID: "M-001 ", GymValidUntil: dayPtr(2025, time.December, 5)},
		{MemberID: "m-002", GymValidUntil: dayPtr(2026, time.June, 1)},
	}

	status := ResolveStatus(payments, SubjectID("m-001"), testRules, now)
	require.NotNil(t, status.MembershipEnd)
	assert.Equal(t, "2025-12-05", DayString(*status.MembershipEnd), "id match is case and whitespace insensitive")

	// No resolvable id disables filtering entirely.
	status = ResolveStatus(payments, SubjectID(""), testRules, now)
	require.NotNil(t, status.MembershipEnd)
	assert.Equal(t, "2026-06-01", DayString(*status.MembershipEnd))
}

func TestResolveStatusStates(t *testing.T) {
	now := day(2025, time.November, 16)

	tests := []struct {
		name string
		end  *time.Time
		want State
	}{
		{name: "future end is active", end: dayPtr(2025, time.December, 1), want: StateActive},
		{name: "end today is still active", end: dayPtr(2025, time.November, 16), want: StateActive},
		{name: "past end is expired", end: dayPtr(2025, time.November, 15), want: StateExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := ResolveStatus([]Record{
				{MemberID: "m-001", GymValidUntil: tt.end},
			}, SubjectID("m-001"), testRules, now)
			assert.Equal(t, tt.want, status.MembershipState)
		})
	}

	// No date at all is none, not expired.
	status := ResolveStatus(nil, SubjectID("m-001"), testRules, now)
	assert.Equal(t, StateNone, status.MembershipState)
	assert.Nil(t, status.MembershipEnd)
}

func TestResolveStatusSubjectFallbacks(t *testing.T) {
	now := day(2025, time.November, 16)

	// An explicit active flag on the member row wins without a date.
	status := ResolveStatus(nil, Subject{ID: "m-001", Status: "Active"}, testRules, now)
	assert.Equal(t, StateActive, status.MembershipState)
	assert.Nil(t, status.MembershipEnd)

	// Else the member-level end date is the last resort.
	status = ResolveStatus(nil, Subject{ID: "m-001", MembershipEnd: dayPtr(2025, time.October, 1)}, testRules, now)
	require.NotNil(t, status.MembershipEnd)
	assert.Equal(t, StateExpired, status.MembershipState)

	// Payments beat both fallbacks.
	status = ResolveStatus([]Record{
		{MemberID: "m-001", GymValidUntil: dayPtr(2025, time.December, 1)},
	}, Subject{ID: "m-001", Status: "active", MembershipEnd: dayPtr(2020, time.January, 1)}, testRules, now)
	require.NotNil(t, status.MembershipEnd)
	assert.Equal(t, "2025-12-01", DayString(*status.MembershipEnd))
}

func TestResolveStatusCoachActiveBoundary(t *testing.T) {
	now := day(2025, time.November, 16)

	status := ResolveStatus([]Record{
		{MemberID: "m-001", CoachValidUntil: dayPtr(2025, time.November, 16)},
	}, SubjectID("m-001"), testRules, now)
	assert.True(t, status.CoachActive, "coach end today is still active")

	status = ResolveStatus([]Record{
		{MemberID: "m-001", CoachValidUntil: dayPtr(2025, time.November, 15)},
	}, SubjectID("m-001"), testRules, now)
	assert.False(t, status.CoachActive)
	require.NotNil(t, status.CoachEnd)
}

func TestResolveStatusMidnightBoundary(t *testing.T) {
	// 2025-11-16 23:30 in Manila is 15:30 UTC the same day; an end date of
	// the 16th must still read active even though the raw instants differ.
	now := time.Date(2025, time.November, 16, 15, 30, 0, 0, time.UTC)
	end := time.Date(2025, time.November, 16, 0, 0, 0, 0, businessZone)

	status := ResolveStatus([]Record{
		{MemberID: "m-001", GymValidUntil: &end},
	}, SubjectID("m-001"), testRules, now)
	assert.Equal(t, StateActive, status.MembershipState)
}

func TestResolveStatusIdempotent(t *testing.T) {
	now := day(2025, time.November, 16)
	payments := []Record{
		{MemberID: "m-001", GymValidUntil: dayPtr(2025, time.December, 20)},
		{MemberID: "m-001", CoachValidUntil: dayPtr(2025, time.November, 30)},
	}

	first := ResolveStatus(payments, SubjectID("m-001"), testRules, now)
	second := ResolveStatus(payments, SubjectID("m-001"), testRules, now)
	assert.Equal(t, first, second)
}
