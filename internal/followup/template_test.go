package followup

import (
	"context"
	"errors"
	"testing"

	"mailnudge/internal/model"

	"go.uber.org/zap"
)

func TestTemplateSetSelect(t *testing.T) {
	ts := TemplateSet{"first", "second", "third"}
	tests := []struct {
		count int
		want  string
	}{
		{0, "first"},
		{1, "second"},
		{2, "third"},
		{3, "first"}, // wraps
		{7, "second"},
		{-1, "first"},
	}
	for _, tc := range tests {
		if got := ts.Select(tc.count); got != tc.want {
			t.Errorf("Select(%d) = %q; want %q", tc.count, got, tc.want)
		}
		// Deterministic: same input, same output.
		if got := ts.Select(tc.count); got != tc.want {
			t.Errorf("Select(%d) second call = %q; want %q", tc.count, got, tc.want)
		}
	}
}

func TestTemplateSetSelect_Empty(t *testing.T) {
	if got := (TemplateSet{}).Select(2); got != "" {
		t.Fatalf("empty set Select = %q; want empty", got)
	}
}

type fakeGenerator struct {
	analysis model.Analysis
	body     string
	bodyErr  error
}

func (f fakeGenerator) AnalyzeThread(context.Context, string, int) model.Analysis {
	return f.analysis
}

func (f fakeGenerator) GenerateBody(context.Context, string, string, int) (string, error) {
	return f.body, f.bodyErr
}

func TestAISelector(t *testing.T) {
	fallback := TemplateSet{"t0", "t1"}
	cand := model.Candidate{ThreadID: "t1", FollowupCount: 1}

	tests := []struct {
		name     string
		gen      fakeGenerator
		wantBody string
	}{
		{
			"no follow-up recommended falls back to template",
			fakeGenerator{analysis: model.Analysis{NeedsFollowup: false, Urgency: "unknown"}},
			"t1",
		},
		{
			"generated body used when recommended",
			fakeGenerator{analysis: model.Analysis{NeedsFollowup: true, Urgency: "high"}, body: "generated text"},
			"generated text",
		},
		{
			"generation error falls back to template",
			fakeGenerator{analysis: model.Analysis{NeedsFollowup: true}, bodyErr: errors.New("boom")},
			"t1",
		},
		{
			"blank generation falls back to template",
			fakeGenerator{analysis: model.Analysis{NeedsFollowup: true}, body: ""},
			"t1",
		},
	}
	for _, tc := range tests {
		s := AISelector{Client: tc.gen, Fallback: fallback, Log: zap.NewNop()}
		body, analysis := s.Body(context.Background(), cand, "thread text")
		if body != tc.wantBody {
			t.Errorf("%s: body = %q; want %q", tc.name, body, tc.wantBody)
		}
		if analysis == nil {
			t.Errorf("%s: analysis not attached", tc.name)
		}
	}
}

func TestDeterministicSelector(t *testing.T) {
	s := DeterministicSelector{Templates: TemplateSet{"a", "b", "c"}}
	body, analysis := s.Body(context.Background(), model.Candidate{FollowupCount: 2}, "")
	if body != "c" {
		t.Fatalf("body = %q; want %q", body, "c")
	}
	if analysis != nil {
		t.Fatal("deterministic selector attached an analysis")
	}
}
