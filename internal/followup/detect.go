package followup

import (
	"strings"
	"time"

	"mailnudge/internal/model"
)

// Detector classifies thread history. Kept behind an interface because the
// subject-text rules are heuristics; a stricter classifier (say, Message-ID
// threading) can replace them without touching the scanner.
type Detector interface {
	// HasReply reports whether any message strictly later than sentAt came
	// from someone other than the account identity.
	HasReply(t model.Thread, sentAt time.Time, identity string) bool
	// CountFollowups counts the messages already judged to be follow-ups.
	CountFollowups(t model.Thread) int
}

// SubjectHeuristic is the production Detector: a reply is any later message
// not from the sender; a follow-up is any message whose subject starts with
// "re:" or contains "follow up". False positives and negatives are a known
// limitation.
type SubjectHeuristic struct{}

func (SubjectHeuristic) HasReply(t model.Thread, sentAt time.Time, identity string) bool {
	for i := range t.Messages {
		m := &t.Messages[i]
		if !m.SentAt().After(sentAt) {
			continue
		}
		// The sender's own later messages (re-sends, follow-ups) don't count.
		if !IsFromSender(m, identity) {
			return true
		}
	}
	return false
}

func (SubjectHeuristic) CountFollowups(t model.Thread) int {
	count := 0
	for i := range t.Messages {
		subject := strings.ToLower(strings.TrimSpace(GetHeader(&t.Messages[i], "Subject")))
		if strings.HasPrefix(subject, "re:") || strings.Contains(subject, "follow up") {
			count++
		}
	}
	return count
}
