package membership

import (
	"strings"
	"time"
)

// Rule maps a catalog particulars name to its product category flags.
type Rule struct {
	Particulars         string
	IsGymMembership     bool
	IsCoachSubscription bool
}

type category struct {
	gym   bool
	coach bool
}

func buildRuleIndex(rules []Rule) map[string]category {
	idx := make(map[string]category, len(rules))
	for _, r := range rules {
		name := strings.ToLower(strings.TrimSpace(r.Particulars))
		if name == "" {
			continue
		}
		idx[name] = category{gym: r.IsGymMembership, coach: r.IsCoachSubscription}
	}
	return idx
}

// classify resolves a particulars name to its category, preferring an exact
// catalog rule and falling back to the keyword heuristic for legacy rows
// that predate the catalog.
func classify(particulars string, idx map[string]category) category {
	name := strings.ToLower(strings.TrimSpace(particulars))
	if name == "" {
		return category{}
	}
	if c, ok := idx[name]; ok {
		return c
	}
	return heuristicCategory(name)
}

func heuristicCategory(name string) category {
	var c category
	for _, kw := range []string{"coach", "trainer", "pt"} {
		if strings.Contains(name, kw) {
			c.coach = true
			break
		}
	}
	for _, kw := range []string{"member", "gym"} {
		if strings.Contains(name, kw) {
			c.gym = true
			break
		}
	}
	return c
}

// Subject identifies whose history is being resolved. Status and
// MembershipEnd are last-resort fallbacks taken from the member row itself,
// consulted only when no payment yields a membership date.
type Subject struct {
	ID            string
	Status        string
	MembershipEnd *time.Time
}

// SubjectID wraps a bare member identifier.
func SubjectID(id string) Subject {
	return Subject{ID: id}
}

var (
	subjectIDAliases     = []string{"memberid", "membercode", "id", "code", "memberno", "username"}
	subjectStatusAliases = []string{"status", "membershipstatus", "membership"}
	subjectEndAliases    = []string{"membershipend", "membershipvaliduntil", "validuntil", "expiry", "enddate"}
)

// SnapshotFromRow resolves a raw member row into a Subject using the same
// alias discipline as payment records.
func SnapshotFromRow(raw map[string]any) Subject {
	return Subject{
		ID:            lookupString(raw, subjectIDAliases),
		Status:        lookupString(raw, subjectStatusAliases),
		MembershipEnd: lookupDate(raw, subjectEndAliases),
	}
}
