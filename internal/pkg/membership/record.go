// Package membership derives gym membership and coach subscription state
// from a member's payment history and the pricing catalog. Every function is
// a pure transformation over caller supplied records: no storage, no global
// clock, no mutation of inputs. All day comparisons happen on calendar days
// in the fixed business time zone (Asia/Manila), never on raw instants.
package membership

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// BusinessZoneName is the fixed zone used for all day-boundary comparisons.
const BusinessZoneName = "Asia/Manila"

const dayLayout = "2006-01-02"

var businessZone = loadBusinessZone()

func loadBusinessZone() *time.Location {
	loc, err := time.LoadLocation(BusinessZoneName)
	if err != nil {
		// Manila has no DST; a fixed offset is an exact stand-in when the
		// tzdata is unavailable on the host.
		return time.FixedZone("PHT", 8*60*60)
	}
	return loc
}

// BusinessZone returns the zone all engine day-math is evaluated in.
func BusinessZone() *time.Location {
	return businessZone
}

// DayString formats an instant as its calendar day in the business zone.
// Day strings compare correctly with plain lexicographic ordering.
func DayString(t time.Time) string {
	return t.In(businessZone).Format(dayLayout)
}

// ParseDay parses a YYYY-MM-DD string as midnight in the business zone.
func ParseDay(s string) (time.Time, bool) {
	t, err := time.ParseInLocation(dayLayout, strings.TrimSpace(s), businessZone)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Record is the canonical, strongly typed form of one payment event. Raw
// storage rows carry years of historical key-name variants; NormalizeRecord
// resolves them once at this boundary so nothing downstream touches raw maps.
type Record struct {
	MemberID        string
	Particulars     string
	GymValidUntil   *time.Time
	CoachValidUntil *time.Time
	GenericEnd      *time.Time
	PaidAt          *time.Time
}

// Ordered candidate key lists per logical field. Earlier names win. Keys are
// matched case and separator insensitively, so "GymValidUntil",
// "gym_valid_until" and "gym-valid-until" all resolve to the same field.
var (
	memberIDAliases    = []string{"memberid", "membercode", "memberno", "member", "memberref", "username"}
	particularsAliases = []string{"particulars", "item", "itemname", "product", "service", "description"}
	gymEndAliases      = []string{"gymvaliduntil", "membershipvaliduntil", "gymuntil", "gymexpiry", "membershipexpiry"}
	coachEndAliases    = []string{"coachvaliduntil", "coachuntil", "coachexpiry", "ptvaliduntil", "trainervaliduntil"}
	genericEndAliases  = []string{"validuntil", "enddate", "expirydate", "expiry", "until", "end"}
	paidAtAliases      = []string{"date", "paymentdate", "paidat", "timestamp", "createdat"}
)

func canonKey(k string) string {
	k = strings.ToLower(strings.TrimSpace(k))
	k = strings.ReplaceAll(k, "_", "")
	k = strings.ReplaceAll(k, "-", "")
	return strings.ReplaceAll(k, " ", "")
}

func lookupField(raw map[string]any, aliases []string) (any, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	canon := make(map[string]any, len(raw))
	for k, v := range raw {
		ck := canonKey(k)
		if _, exists := canon[ck]; !exists {
			canon[ck] = v
		}
	}
	for _, alias := range aliases {
		if v, ok := canon[alias]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func lookupString(raw map[string]any, aliases []string) string {
	v, ok := lookupField(raw, aliases)
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return ""
	}
}

func lookupDate(raw map[string]any, aliases []string) *time.Time {
	v, ok := lookupField(raw, aliases)
	if !ok {
		return nil
	}
	return parseDateLike(v)
}

// parseDateLike normalizes the historical date shapes found in payment rows:
// ISO strings, bare YYYY-MM-DD days, unix-seconds wrappers ({seconds: n}),
// raw unix numbers and native time values. Anything unparseable is absent.
func parseDateLike(v any) *time.Time {
	switch d := v.(type) {
	case time.Time:
		if d.IsZero() {
			return nil
		}
		t := d
		return &t
	case *time.Time:
		if d == nil || d.IsZero() {
			return nil
		}
		t := *d
		return &t
	case string:
		return parseDateString(d)
	case map[string]any:
		if secs, ok := lookupField(d, []string{"seconds"}); ok {
			return parseDateLike(secs)
		}
		return nil
	case json.Number:
		f, err := d.Float64()
		if err != nil {
			return nil
		}
		return unixSeconds(f)
	case float64:
		return unixSeconds(d)
	case int:
		return unixSeconds(float64(d))
	case int64:
		return unixSeconds(float64(d))
	default:
		return nil
	}
}

func parseDateString(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		dayLayout,
		"2006/01/02",
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, businessZone); err == nil {
			return &t
		}
	}
	return nil
}

func unixSeconds(f float64) *time.Time {
	if f <= 0 {
		return nil
	}
	t := time.Unix(int64(f), 0).In(businessZone)
	return &t
}

// NormalizeRecord resolves a raw payment row into a canonical Record.
// Missing or malformed fields come back as zero values, never as errors.
func NormalizeRecord(raw map[string]any) Record {
	return Record{
		MemberID:        lookupString(raw, memberIDAliases),
		Particulars:     lookupString(raw, particularsAliases),
		GymValidUntil:   lookupDate(raw, gymEndAliases),
		CoachValidUntil: lookupDate(raw, coachEndAliases),
		GenericEnd:      lookupDate(raw, genericEndAliases),
		PaidAt:          lookupDate(raw, paidAtAliases),
	}
}

// NormalizeRecords maps NormalizeRecord over a batch of raw rows.
func NormalizeRecords(raws []map[string]any) []Record {
	records := make([]Record, 0, len(raws))
	for _, raw := range raws {
		records = append(records, NormalizeRecord(raw))
	}
	return records
}
