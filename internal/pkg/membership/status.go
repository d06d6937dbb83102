package membership

import (
	"strings"
	"time"
)

// State is the derived membership state. StateNone means no membership date
// was ever found, which is distinct from a known-but-past date.
type State string

const (
	StateNone    State = ""
	StateActive  State = "active"
	StateExpired State = "expired"
)

// Status is the aggregate entitlement picture for one member.
type Status struct {
	MembershipEnd   *time.Time `json:"membership_end"`
	MembershipState State      `json:"membership_state"`
	CoachEnd        *time.Time `json:"coach_end"`
	CoachActive     bool       `json:"coach_active"`
}

// ResolveStatus folds a member's payment history into current membership and
// coach subscription validity as of now. The reduction keeps the latest end
// date seen per category (by business-zone day), so it is idempotent and
// independent of input order.
//
// Per record, an explicit gym end date always wins as the membership
// candidate. A generic end date only counts for a category when the
// particulars classify into that category; in particular a bare generic end
// date never feeds the coach date. That asymmetry is deliberate: unrelated
// purchases carrying an expiry must not credit coach access.
func ResolveStatus(payments []Record, subject Subject, rules []Rule, now time.Time) Status {
	idx := buildRuleIndex(rules)
	id := strings.ToLower(strings.TrimSpace(subject.ID))

	var gymEnd, coachEnd *time.Time
	for i := range payments {
		p := &payments[i]
		// No resolvable id disables filtering; defensive, callers should
		// always pass one.
		if id != "" && strings.ToLower(strings.TrimSpace(p.MemberID)) != id {
			continue
		}
		cat := classify(p.Particulars, idx)

		switch {
		case p.GymValidUntil != nil:
			gymEnd = laterDay(gymEnd, p.GymValidUntil)
		case cat.gym && p.GenericEnd != nil:
			gymEnd = laterDay(gymEnd, p.GenericEnd)
		}

		switch {
		case p.CoachValidUntil != nil:
			coachEnd = laterDay(coachEnd, p.CoachValidUntil)
		case cat.coach && p.GenericEnd != nil:
			coachEnd = laterDay(coachEnd, p.GenericEnd)
		}
	}

	today := DayString(now)
	status := Status{
		MembershipEnd: gymEnd,
		CoachEnd:      coachEnd,
		CoachActive:   coachEnd != nil && DayString(*coachEnd) >= today,
	}

	if gymEnd == nil {
		// Member-row fallbacks, in order: an explicit active flag stands on
		// its own without a concrete date, else a member-level end date.
		if strings.EqualFold(strings.TrimSpace(subject.Status), string(StateActive)) {
			status.MembershipState = StateActive
			return status
		}
		if subject.MembershipEnd != nil {
			gymEnd = subject.MembershipEnd
			status.MembershipEnd = gymEnd
		}
	}

	switch {
	case gymEnd == nil:
		status.MembershipState = StateNone
	case DayString(*gymEnd) >= today:
		// Equal to today is inclusive: the end date itself is a covered day.
		status.MembershipState = StateActive
	default:
		status.MembershipState = StateExpired
	}
	return status
}

// laterDay keeps whichever of the two dates falls on the later business-zone
// calendar day. Ties keep the incumbent.
func laterDay(current, candidate *time.Time) *time.Time {
	if candidate == nil {
		return current
	}
	if current == nil || DayString(*candidate) > DayString(*current) {
		t := *candidate
		return &t
	}
	return current
}
