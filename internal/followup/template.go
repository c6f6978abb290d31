package followup

import (
	"context"

	"mailnudge/internal/model"

	"go.uber.org/zap"
)

// TemplateSet is the configured rotation of deterministic follow-up bodies.
// Fixed for the process lifetime, at least one entry.
type TemplateSet []string

// Select returns the body for the given prior follow-up count, wrapping
// around the set. Deterministic: the same count always yields the same entry.
func (ts TemplateSet) Select(followupCount int) string {
	if len(ts) == 0 {
		return ""
	}
	if followupCount < 0 {
		followupCount = 0
	}
	return ts[followupCount%len(ts)]
}

// Selector resolves the outgoing body for a candidate. Implementations must
// be total: whatever the generation service does, a body comes back.
type Selector interface {
	Body(ctx context.Context, cand model.Candidate, threadText string) (string, *model.Analysis)
}

// Generator is the slice of the generation service the AI selector consumes.
type Generator interface {
	AnalyzeThread(ctx context.Context, threadText string, daysSince int) model.Analysis
	GenerateBody(ctx context.Context, threadText, recipient string, daysSince int) (string, error)
}

// DeterministicSelector rotates through the template set by follow-up count.
type DeterministicSelector struct {
	Templates TemplateSet
}

func (s DeterministicSelector) Body(_ context.Context, cand model.Candidate, _ string) (string, *model.Analysis) {
	return s.Templates.Select(cand.FollowupCount), nil
}

// AISelector consults the generation service for an urgency classification
// and, when it recommends following up, a generated body. Every failure path
// lands on the deterministic rotation; nothing propagates to the caller.
type AISelector struct {
	Client   Generator
	Fallback TemplateSet
	Log      *zap.Logger
}

func (s AISelector) Body(ctx context.Context, cand model.Candidate, threadText string) (string, *model.Analysis) {
	analysis := s.Client.AnalyzeThread(ctx, threadText, cand.DaysSinceLast)
	if !analysis.NeedsFollowup {
		return s.Fallback.Select(cand.FollowupCount), &analysis
	}
	body, err := s.Client.GenerateBody(ctx, threadText, cand.To, cand.DaysSinceLast)
	if err != nil || body == "" {
		s.Log.Warn("generation failed, using template",
			zap.String("thread_id", cand.ThreadID),
			zap.Error(err))
		return s.Fallback.Select(cand.FollowupCount), &analysis
	}
	return body, &analysis
}
