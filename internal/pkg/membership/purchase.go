package membership

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

// Product carries the catalog attributes the purchase rules evaluate.
// GymAccess/CoachAccess mark products that grant walk-in access for the day
// (day passes, single coach sessions); IsGymMembership/IsCoachSubscription
// mark term products that extend an entitlement. A membership renewal is not
// a GymAccess product, which is what lets renewals through while a member is
// still active.
type Product struct {
	SKU                 string
	Particulars         string
	IsGymMembership     bool
	IsCoachSubscription bool
	GymAccess           bool
	CoachAccess         bool
	OffPeak             bool
	Daily               bool
	Discounted          bool
	ValidityDays        int
}

// Buyer carries the member attributes the discount rules evaluate.
type Buyer struct {
	Student   bool
	BirthDate *time.Time
}

const (
	offPeakOpenHour  = 6  // 06:00
	offPeakCloseHour = 14 // through 14:59
	dailyOpenHour    = 15 // 15:00
	dailyCloseHour   = 21 // through 21:59

	seniorAge = 60

	loyaltyWindowDays = 30
	loyaltyThreshold  = 12
)

// Purchase rejection reasons, surfaced verbatim to the front desk.
var (
	ErrMembershipConflict = errors.New("member already has an active gym membership that covers daily access")
	ErrCoachConflict      = errors.New("member already has an active coach subscription")
	ErrOffPeakWindow      = errors.New("off-peak rate is only available between 6:00 AM and 2:59 PM")
	ErrDailyWindow        = errors.New("daily rate is only available between 3:00 PM and 9:59 PM")
	ErrDiscountIneligible = errors.New("discounted rate is only available to student or senior (60+) members")
)

// ValidatePurchase decides whether selling product to a member in the given
// status is permitted at now. nil means permitted; otherwise the returned
// error is the human-readable reason shown to the buyer.
//
// Entitlement conflicts are checked before time windows, so an active
// membership blocks a day pass no matter the hour.
func ValidatePurchase(status Status, buyer Buyer, product Product, now time.Time) error {
	if product.GymAccess && status.MembershipState == StateActive {
		return ErrMembershipConflict
	}
	if product.CoachAccess && status.CoachActive {
		return ErrCoachConflict
	}

	hour := now.In(businessZone).Hour()
	if product.OffPeak && product.Daily {
		// Contradictory catalog row; the off-peak rule wins as the first
		// matching window.
		log.Warnf("[Membership] product %s claims both off-peak and daily windows, applying off-peak", product.SKU)
	}
	if product.OffPeak {
		if hour < offPeakOpenHour || hour > offPeakCloseHour {
			return ErrOffPeakWindow
		}
	} else if product.Daily {
		if hour < dailyOpenHour || hour > dailyCloseHour {
			return ErrDailyWindow
		}
	}

	if product.Discounted && !discountEligible(buyer, now) {
		return ErrDiscountIneligible
	}
	return nil
}

func discountEligible(buyer Buyer, now time.Time) bool {
	if buyer.Student {
		return true
	}
	if buyer.BirthDate == nil {
		return false
	}
	return ageAt(*buyer.BirthDate, now) >= seniorAge
}

func ageAt(birth, now time.Time) int {
	b := birth.In(businessZone)
	n := now.In(businessZone)
	years := n.Year() - b.Year()
	if n.Month() < b.Month() || (n.Month() == b.Month() && n.Day() < b.Day()) {
		years--
	}
	return years
}

// LoyaltyFreeApplies reports whether the next purchase of particulars is on
// the house: twelve or more purchases of the identical item within the
// trailing thirty days by payment instant. Every occurrence counts, repeat
// purchases on the same day included; this is a raw count, not a unique-day
// count.
func LoyaltyFreeApplies(payments []Record, particulars string, now time.Time) bool {
	target := strings.ToLower(strings.TrimSpace(particulars))
	if target == "" {
		return false
	}
	cutoff := now.AddDate(0, 0, -loyaltyWindowDays)

	count := 0
	for i := range payments {
		p := &payments[i]
		if p.PaidAt == nil {
			continue
		}
		if strings.ToLower(strings.TrimSpace(p.Particulars)) != target {
			continue
		}
		if p.PaidAt.Before(cutoff) || p.PaidAt.After(now) {
			continue
		}
		count++
	}
	return count >= loyaltyThreshold
}
