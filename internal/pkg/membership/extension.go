package membership

import "time"

// ComputeExtension returns the inclusive end day produced by a purchase of
// validityDays coverage, as a YYYY-MM-DD string in the business zone.
//
// A still-valid existing end stacks the new period immediately after it
// (base = existing end + 1 day, no gap, no overlap). Otherwise coverage
// starts fresh on the explicit startDate, defaulting to today. The end day
// is inclusive of both the start day and the final day: a 30-day pass
// starting on the 1st ends on the 30th.
//
// Zero or negative validityDays means the purchase carries no coverage
// (merchandise and the like) and yields an empty string.
//
// Callers extending a bundle product run this once per entitlement leg, so
// gym and coach each extend from their own current end.
func ComputeExtension(existingEnd *time.Time, startDate string, validityDays int, now time.Time) string {
	if validityDays <= 0 {
		return ""
	}

	today := DayString(now)
	var base time.Time
	switch {
	case existingEnd != nil && DayString(*existingEnd) >= today:
		base = dayStart(*existingEnd).AddDate(0, 0, 1)
	default:
		if t, ok := ParseDay(startDate); ok {
			base = t
		} else {
			base, _ = ParseDay(today)
		}
	}

	return DayString(base.AddDate(0, 0, validityDays-1))
}

// dayStart returns midnight of t's calendar day in the business zone.
func dayStart(t time.Time) time.Time {
	in := t.In(businessZone)
	return time.Date(in.Year(), in.Month(), in.Day(), 0, 0, 0, 0, businessZone)
}
