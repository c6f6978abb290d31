package followup

import (
	"context"
	"fmt"
	"time"

	"mailnudge/internal/gmail"
	"mailnudge/internal/model"

	"go.uber.org/zap"
)

// Scanner drives the provider's paginated sent-mail search and evaluates
// each distinct thread at most once per run. Execution is deliberately
// sequential: one page, one thread, one candidate at a time.
type Scanner struct {
	Mailbox  gmail.Mailbox
	Detector Detector
	Policy   Policy
	MaxDays  int
	PageSize int64
	Log      *zap.Logger
	Now      func() time.Time // test hook; nil means time.Now
}

func (s *Scanner) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// query builds the provider search: sent mail inside the [MaxDays, MinDays]
// age window, pre-filtered by the intent marker so most foreign threads
// never reach the evaluator.
func (s *Scanner) query(now time.Time) string {
	after := now.AddDate(0, 0, -s.MaxDays).Unix()
	before := now.AddDate(0, 0, -s.Policy.MinDays).Unix()
	return fmt.Sprintf("label:SENT after:%d before:%d subject:%q", after, before, s.Policy.IntentMarker)
}

// Scan pages through the search window and returns one candidate per
// eligible thread. A failed transcript fetch skips that thread and the run
// continues; a failed page list aborts the run (a partial page set would be
// silently treated as complete otherwise).
func (s *Scanner) Scan(ctx context.Context) ([]model.Candidate, error) {
	now := s.now()
	identity, err := s.Mailbox.Profile(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve account identity: %w", err)
	}

	query := s.query(now)
	s.Log.Debug("scanning sent mail", zap.String("query", query))

	seen := make(map[string]bool)
	var candidates []model.Candidate
	pageToken := ""
	for {
		page, err := s.Mailbox.ListMessages(ctx, query, s.PageSize, pageToken)
		if err != nil {
			return nil, err
		}
		if len(page.Refs) == 0 {
			break
		}
		for _, ref := range page.Refs {
			// A thread with several sent messages matches the search more
			// than once; evaluate it a single time.
			if ref.ThreadID == "" || seen[ref.ThreadID] {
				continue
			}
			seen[ref.ThreadID] = true

			thread, err := s.Mailbox.GetThread(ctx, ref.ThreadID)
			if err != nil {
				s.Log.Warn("skipping thread, transcript fetch failed",
					zap.String("thread_id", ref.ThreadID),
					zap.Error(err))
				continue
			}
			if cand, ok := s.evaluate(thread, identity, now); ok {
				candidates = append(candidates, cand)
			}
		}
		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}
	return candidates, nil
}

// evaluate applies the reply detector, follow-up counter and eligibility
// policy to one thread.
func (s *Scanner) evaluate(t model.Thread, identity string, now time.Time) (model.Candidate, bool) {
	if len(t.Messages) == 0 {
		return model.Candidate{}, false
	}
	last := &t.Messages[len(t.Messages)-1]
	lastSent := last.SentAt()

	// Truncated whole days, not rounded.
	daysSince := int(now.Sub(lastSent).Hours() / 24)

	// Zero time scans the entire transcript: any foreign message at all
	// means the conversation is alive and needs no nudge.
	replied := s.Detector.HasReply(t, time.Time{}, identity)
	count := s.Detector.CountFollowups(t)
	firstSubject := GetHeader(&t.Messages[0], "Subject")

	if !s.Policy.Eligible(firstSubject, daysSince, count, replied) {
		return model.Candidate{}, false
	}

	return model.Candidate{
		ThreadID:      t.ID,
		LastMessageID: last.ID,
		To:            GetHeader(last, "To"),
		Subject:       GetHeader(last, "Subject"),
		LastSent:      lastSent,
		Snippet:       last.Snippet,
		DaysSinceLast: daysSince,
		FollowupCount: count,
		Status:        model.StatusPending,
	}, true
}
