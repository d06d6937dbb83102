package controllers

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RamilOcampo/GymDesk/app/models"
	"github.com/RamilOcampo/GymDesk/internal/pkg/membership"
)

func TestFormatTimePtr(t *testing.T) {
	assert.Nil(t, formatTimePtr(nil))

	now := time.Date(2024, 5, 1, 12, 34, 56, 0, time.Local)
	formatted := formatTimePtr(&now)
	assert.IsType(t, "", formatted)

	expected := now.UTC().Format(time.RFC3339)
	assert.Equal(t, expected, formatted)
}

func TestFormatDayPtr(t *testing.T) {
	assert.Nil(t, formatDayPtr(nil))

	day := time.Date(2025, 11, 16, 0, 0, 0, 0, membership.BusinessZone())
	assert.Equal(t, "2025-11-16", formatDayPtr(&day))
}

func TestSameDay(t *testing.T) {
	a := time.Date(2025, 11, 16, 8, 0, 0, 0, membership.BusinessZone())
	b := time.Date(2025, 11, 16, 20, 0, 0, 0, membership.BusinessZone())
	c := time.Date(2025, 11, 17, 0, 0, 0, 0, membership.BusinessZone())

	assert.True(t, sameDay(&a, &b))
	assert.False(t, sameDay(&a, &c))
	assert.False(t, sameDay(&a, nil))
	assert.True(t, sameDay(nil, nil))
}

func TestParsePagination(t *testing.T) {
	app := fiber.New()
	var offset, limit int
	app.Get("/", func(c *fiber.Ctx) error {
		offset, limit = parsePagination(c)
		return c.SendStatus(fiber.StatusOK)
	})

	cases := []struct {
		url        string
		wantOffset int
		wantLimit  int
	}{
		{"/", 0, 25},
		{"/?page=3&page_size=10", 20, 10},
		{"/?page=0&page_size=-5", 0, 25},
		{"/?page_size=9999", 0, 200},
	}

	for _, tc := range cases {
		resp, err := app.Test(httptest.NewRequest("GET", tc.url, nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, tc.wantOffset, offset, tc.url)
		assert.Equal(t, tc.wantLimit, limit, tc.url)
	}
}

func TestGetClientIP(t *testing.T) {
	app := fiber.New()
	var got string
	app.Get("/", func(c *fiber.Ctx) error {
		got = GetClientIP(c)
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("CF-Connecting-IP", "203.0.113.10")
	req.Header.Set("X-Forwarded-For", "198.51.100.7, 10.0.0.1")
	_, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.10", got)

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Forwarded-For", "198.51.100.7, 10.0.0.1")
	_, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "198.51.100.7", got)
}

func TestMemberSubjectLeavesAccountStatusOut(t *testing.T) {
	now := time.Date(2025, 11, 16, 10, 0, 0, 0, membership.BusinessZone())

	// A freshly registered member: account active, zero payments.
	member := &models.Member{
		MemberCode: "m-new",
		FirstName:  "Ana",
		LastName:   "Reyes",
		Status:     models.MEMBER_STATUS_ACTIVE,
	}

	subject := memberSubject(member)
	assert.Empty(t, subject.Status)
	assert.Equal(t, "m-new", subject.ID)

	status := membership.ResolveStatus(nil, subject, nil, now)
	assert.Equal(t, membership.StateNone, status.MembershipState)
	assert.Nil(t, status.MembershipEnd)

	// With no membership to conflict, a day pass sale goes through.
	dayPass := membership.Product{
		SKU:          "DAY-1",
		Particulars:  "Daily Pass",
		GymAccess:    true,
		ValidityDays: 1,
	}
	err := membership.ValidatePurchase(status, membership.Buyer{}, dayPass, now)
	assert.NoError(t, err)
}

func TestMemberSubjectKeepsDenormalizedEndDate(t *testing.T) {
	end := time.Date(2025, 12, 31, 0, 0, 0, 0, membership.BusinessZone())
	member := &models.Member{
		MemberCode:    "m-legacy",
		Status:        models.MEMBER_STATUS_ACTIVE,
		MembershipEnd: &end,
	}

	subject := memberSubject(member)
	require.NotNil(t, subject.MembershipEnd)

	// No payments: the stored end date still resolves, the account flag
	// alone never does.
	now := time.Date(2025, 11, 16, 10, 0, 0, 0, membership.BusinessZone())
	status := membership.ResolveStatus(nil, subject, nil, now)
	assert.Equal(t, membership.StateActive, status.MembershipState)
}

func TestPaymentRecordsNormalization(t *testing.T) {
	end := time.Date(2025, 12, 15, 0, 0, 0, 0, membership.BusinessZone())
	payments := []models.Payment{
		{
			MemberCode:    "rey-001",
			Particulars:   "Gym Membership",
			GymValidUntil: &end,
			PaidAt:        time.Date(2025, 11, 16, 10, 0, 0, 0, membership.BusinessZone()),
		},
		{
			MemberCode: "rey-001",
			RawJSON:    `{"memberCode":"rey-001","particulars":"Coaching","coachValidUntil":"2025-12-01"}`,
		},
	}

	records := paymentRecords(payments)
	require.Len(t, records, 2)

	assert.Equal(t, "rey-001", records[0].MemberID)
	require.NotNil(t, records[0].GymValidUntil)
	assert.Equal(t, "2025-12-15", membership.DayString(*records[0].GymValidUntil))

	// Legacy row resolves through its stored raw payload.
	assert.Equal(t, "Coaching", records[1].Particulars)
	require.NotNil(t, records[1].CoachValidUntil)
	assert.Equal(t, "2025-12-01", membership.DayString(*records[1].CoachValidUntil))
}
