package model

import "time"

// Header is one name/value pair from a message envelope. Lookups are
// case-insensitive; see followup.GetHeader.
type Header struct {
	Name  string
	Value string
}

// Message is a read-only snapshot of one provider message. The provider owns
// it; nothing here is mutated after conversion. Fields may be empty when the
// payload was only partially populated.
type Message struct {
	ID           string
	ThreadID     string
	Headers      []Header
	InternalDate int64 // send time in epoch milliseconds, as reported by the provider
	Snippet      string
	Body         string // decoded text/plain body, empty when absent
}

// SentAt converts the provider's epoch-millisecond timestamp to UTC.
func (m Message) SentAt() time.Time {
	return time.UnixMilli(m.InternalDate).UTC()
}

// Thread is a conversation as returned by the provider: messages ordered by
// send time ascending, first message being the origin. Never re-sorted
// locally.
type Thread struct {
	ID       string
	Messages []Message
}

// Candidate dispatch statuses.
const (
	StatusPending = "pending"
	StatusDryRun  = "dry_run"
	StatusSent    = "sent"
	StatusFailed  = "failed"
)

// Candidate is a thread judged worth a follow-up during one evaluation pass.
// It lives for a single run; the CSV report and the dispatch ledger are the
// only durable records.
type Candidate struct {
	ThreadID      string
	LastMessageID string
	To            string
	Subject       string
	LastSent      time.Time // UTC
	Snippet       string
	DaysSinceLast int
	FollowupCount int
	FollowupText  string // rendered outgoing text, set by the composer
	InReplyTo     string // Message-ID header of the last thread message, for reply threading
	Status        string
	Analysis      *Analysis // set only when the generation service was consulted
}

// Analysis is the structured verdict of the generation service's urgency
// classification. A failed or unparseable call degrades to
// NeedsFollowup=false with Urgency "unknown" and the failure in Reason.
type Analysis struct {
	NeedsFollowup bool   `json:"needs_followup"`
	Reason        string `json:"reason"`
	Urgency       string `json:"urgency"`
	Context       string `json:"context"`
	OriginalRole  string `json:"original_role"`
}

// DispatchRecord is one ledger row: a follow-up attempt recorded at the end
// of a run.
type DispatchRecord struct {
	ThreadID  string
	Recipient string
	Subject   string
	Attempt   int // 1-based ordinal
	Status    string
	RunAt     string // RFC3339
}
