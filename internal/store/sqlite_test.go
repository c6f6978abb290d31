package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"mailnudge/internal/model"
)

func testLedger(t *testing.T) *Ledger {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	l, err := NewLedger(dbPath)
	if err != nil {
		t.Fatalf("NewLedger: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

func TestRecordAndCount(t *testing.T) {
	l := testLedger(t)
	ctx := context.Background()
	runAt := time.Date(2025, 9, 15, 8, 0, 0, 0, time.UTC)

	cands := []model.Candidate{
		{ThreadID: "t1", To: "a@b.com", Subject: "Interest in X", FollowupCount: 0, Status: model.StatusSent},
		{ThreadID: "t2", To: "c@d.com", Subject: "Interest in Y", FollowupCount: 1, Status: model.StatusFailed},
	}
	if err := l.RecordDispatches(ctx, cands, runAt); err != nil {
		t.Fatalf("RecordDispatches: %v", err)
	}
	// Second run on the same thread appends, never overwrites.
	if err := l.RecordDispatches(ctx, cands[:1], runAt.Add(24*time.Hour)); err != nil {
		t.Fatalf("RecordDispatches second run: %v", err)
	}

	n, err := l.AttemptsForThread(ctx, "t1")
	if err != nil {
		t.Fatalf("AttemptsForThread: %v", err)
	}
	if n != 2 {
		t.Fatalf("attempts for t1 = %d; want 2", n)
	}
	if n, _ := l.AttemptsForThread(ctx, "t2"); n != 1 {
		t.Fatalf("attempts for t2 = %d; want 1", n)
	}
	if n, _ := l.AttemptsForThread(ctx, "unknown"); n != 0 {
		t.Fatalf("attempts for unknown = %d; want 0", n)
	}
}

func TestRecentDispatches(t *testing.T) {
	l := testLedger(t)
	ctx := context.Background()
	runAt := time.Date(2025, 9, 15, 8, 0, 0, 0, time.UTC)

	for i, id := range []string{"t1", "t2", "t3"} {
		cand := model.Candidate{ThreadID: id, To: "x@y.com", FollowupCount: i, Status: model.StatusDryRun}
		if err := l.RecordDispatches(ctx, []model.Candidate{cand}, runAt); err != nil {
			t.Fatalf("RecordDispatches: %v", err)
		}
	}

	recent, err := l.RecentDispatches(ctx, 2)
	if err != nil {
		t.Fatalf("RecentDispatches: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("recent = %d rows; want 2", len(recent))
	}
	if recent[0].ThreadID != "t3" || recent[1].ThreadID != "t2" {
		t.Fatalf("ordering wrong: %s, %s", recent[0].ThreadID, recent[1].ThreadID)
	}
	if recent[1].Attempt != 2 {
		t.Fatalf("attempt = %d; want 2", recent[1].Attempt)
	}
}

func TestLastRunAt(t *testing.T) {
	l := testLedger(t)
	ctx := context.Background()

	got, err := l.LastRunAt(ctx)
	if err != nil {
		t.Fatalf("LastRunAt: %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty, got %q", got)
	}

	at := time.Date(2025, 9, 15, 8, 0, 0, 0, time.UTC)
	if err := l.SetLastRunAt(ctx, at); err != nil {
		t.Fatalf("SetLastRunAt: %v", err)
	}
	got, _ = l.LastRunAt(ctx)
	if got != "2025-09-15T08:00:00Z" {
		t.Fatalf("LastRunAt = %q", got)
	}

	// Update
	l.SetLastRunAt(ctx, at.Add(24*time.Hour))
	got, _ = l.LastRunAt(ctx)
	if got != "2025-09-16T08:00:00Z" {
		t.Fatalf("LastRunAt after update = %q", got)
	}
}
