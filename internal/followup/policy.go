package followup

import "strings"

// Policy holds the configured eligibility rules. The upper age bound
// (MAX_DAYS) is enforced by the search query window, not re-checked here.
type Policy struct {
	MinDays      int
	MaxFollowUps int
	IntentMarker string // lower-cased subject prefix scoping the campaign
}

// Eligible decides whether a thread is a follow-up candidate. All four
// conditions are necessary:
// - the last message is at least MinDays old
// - the origin subject carries the intent marker
// - nobody outside the account ever wrote on the thread
// - fewer than MaxFollowUps follow-ups were already sent
func (p Policy) Eligible(firstSubject string, daysSinceLast, followupCount int, hasReply bool) bool {
	if daysSinceLast < p.MinDays {
		return false
	}
	subject := strings.ToLower(strings.TrimSpace(firstSubject))
	if !strings.HasPrefix(subject, p.IntentMarker) {
		return false
	}
	if hasReply {
		return false
	}
	return followupCount < p.MaxFollowUps
}
