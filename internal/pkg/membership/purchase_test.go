package membership

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, min int) time.Time {
	return time.Date(2025, time.November, 16, hour, min, 0, 0, businessZone)
}

func TestValidatePurchaseTimeWindows(t *testing.T) {
	offPeak := Product{SKU: "OFFPEAK", Particulars: "Off-Peak Daily", GymAccess: true, OffPeak: true}
	daily := Product{SKU: "DAILY", Particulars: "Daily Pass", GymAccess: true, Daily: true}

	tests := []struct {
		name    string
		product Product
		now     time.Time
		wantErr error
	}{
		{name: "off-peak at 10:00 accepted", product: offPeak, now: at(10, 0)},
		{name: "off-peak at 06:00 opens", product: offPeak, now: at(6, 0)},
		{name: "off-peak at 14:59 still open", product: offPeak, now: at(14, 59)},
		{name: "off-peak at 16:00 rejected", product: offPeak, now: at(16, 0), wantErr: ErrOffPeakWindow},
		{name: "off-peak at 05:59 rejected", product: offPeak, now: at(5, 59), wantErr: ErrOffPeakWindow},
		{name: "off-peak at 15:00 rejected", product: offPeak, now: at(15, 0), wantErr: ErrOffPeakWindow},
		{name: "daily at 16:00 accepted", product: daily, now: at(16, 0)},
		{name: "daily at 15:00 opens", product: daily, now: at(15, 0)},
		{name: "daily at 21:59 still open", product: daily, now: at(21, 59)},
		{name: "daily at 10:00 rejected", product: daily, now: at(10, 0), wantErr: ErrDailyWindow},
		{name: "daily at 22:00 rejected", product: daily, now: at(22, 0), wantErr: ErrDailyWindow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePurchase(Status{}, Buyer{}, tt.product, tt.now)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePurchaseMembershipConflictBeatsWindow(t *testing.T) {
	active := Status{MembershipState: StateActive}
	daily := Product{SKU: "DAILY", Particulars: "Daily Pass", GymAccess: true, Daily: true}

	// Rejected with the membership conflict regardless of the hour, inside
	// the window or not.
	for _, now := range []time.Time{at(10, 0), at(16, 0), at(23, 0)} {
		err := ValidatePurchase(active, Buyer{}, daily, now)
		assert.ErrorIs(t, err, ErrMembershipConflict, "at %s", now.Format("15:04"))
	}

	// An expired membership does not block a day pass.
	err := ValidatePurchase(Status{MembershipState: StateExpired}, Buyer{}, daily, at(16, 0))
	assert.NoError(t, err)
}

func TestValidatePurchaseMembershipRenewalAllowedWhileActive(t *testing.T) {
	renewal := Product{SKU: "MONTHLY", Particulars: "Monthly Membership", IsGymMembership: true, ValidityDays: 30}
	err := ValidatePurchase(Status{MembershipState: StateActive}, Buyer{}, renewal, at(16, 0))
	assert.NoError(t, err, "term renewals extend, they do not double-sell access")
}

func TestValidatePurchaseCoachConflict(t *testing.T) {
	session := Product{SKU: "COACH1", Particulars: "Coach Session", CoachAccess: true}

	err := ValidatePurchase(Status{CoachActive: true}, Buyer{}, session, at(16, 0))
	assert.ErrorIs(t, err, ErrCoachConflict)

	err = ValidatePurchase(Status{CoachActive: false}, Buyer{}, session, at(16, 0))
	assert.NoError(t, err)
}

func TestValidatePurchaseDiscountEligibility(t *testing.T) {
	discounted := Product{SKU: "DAILY-D", Particulars: "Discounted Daily", GymAccess: true, Daily: true, Discounted: true}
	now := at(16, 0)

	err := ValidatePurchase(Status{}, Buyer{}, discounted, now)
	assert.ErrorIs(t, err, ErrDiscountIneligible)

	err = ValidatePurchase(Status{}, Buyer{Student: true}, discounted, now)
	assert.NoError(t, err)

	// 60th birthday today qualifies; the day before does not.
	sixtyToday := day(1965, time.November, 16)
	err = ValidatePurchase(Status{}, Buyer{BirthDate: &sixtyToday}, discounted, now)
	assert.NoError(t, err)

	almostSixty := day(1965, time.November, 17)
	err = ValidatePurchase(Status{}, Buyer{BirthDate: &almostSixty}, discounted, now)
	assert.ErrorIs(t, err, ErrDiscountIneligible)
}

func TestValidatePurchaseConflictingWindowsUsesOffPeak(t *testing.T) {
	both := Product{SKU: "WEIRD", Particulars: "Misconfigured Pass", GymAccess: true, OffPeak: true, Daily: true}

	// Off-peak is the first matching window rule, so 10:00 passes and 16:00
	// fails even though the daily flag would say otherwise.
	assert.NoError(t, ValidatePurchase(Status{}, Buyer{}, both, at(10, 0)))
	assert.ErrorIs(t, ValidatePurchase(Status{}, Buyer{}, both, at(16, 0)), ErrOffPeakWindow)
}

func TestValidatePurchaseNoWindowProductAnyHour(t *testing.T) {
	merch := Product{SKU: "SHAKE", Particulars: "Protein Shake"}
	for _, now := range []time.Time{at(3, 0), at(10, 0), at(23, 30)} {
		assert.NoError(t, ValidatePurchase(Status{}, Buyer{}, merch, now))
	}
}

func TestLoyaltyFreeApplies(t *testing.T) {
	now := at(12, 0)
	paidAt := func(daysAgo int) *time.Time {
		t := now.AddDate(0, 0, -daysAgo)
		return &t
	}

	build := func(n int, particulars string, daysAgo int) []Record {
		records := make([]Record, 0, n)
		for i := 0; i < n; i++ {
			records = append(records, Record{MemberID: "m-001", Particulars: particulars, PaidAt: paidAt(daysAgo)})
		}
		return records
	}

	// Eleven recent purchases is one short.
	assert.False(t, LoyaltyFreeApplies(build(11, "Daily Pass", 5), "Daily Pass", now))

	// Twelve qualifies, case-insensitively.
	assert.True(t, LoyaltyFreeApplies(build(12, "daily pass", 5), "Daily Pass", now))

	// Repeat purchases on the same day all count; this is a raw occurrence
	// count, not a unique-day count.
	sameDay := build(12, "Daily Pass", 0)
	assert.True(t, LoyaltyFreeApplies(sameDay, "Daily Pass", now))

	// Purchases older than the trailing 30 days fall out of the window.
	stale := append(build(6, "Daily Pass", 31), build(6, "Daily Pass", 5)...)
	assert.False(t, LoyaltyFreeApplies(stale, "Daily Pass", now))

	// A different item never counts toward the total.
	mixed := append(build(11, "Daily Pass", 5), build(5, "Off-Peak Daily", 5)...)
	assert.False(t, LoyaltyFreeApplies(mixed, "Daily Pass", now))

	// Records without a payment instant are skipped.
	undated := build(12, "Daily Pass", 5)
	undated[0].PaidAt = nil
	assert.False(t, LoyaltyFreeApplies(undated, "Daily Pass", now))

	require.False(t, LoyaltyFreeApplies(nil, "", now))
}
