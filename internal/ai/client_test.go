package ai

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func chatServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"choices":[{"message":{"role":"assistant","content":%q}}]}`, content)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(url string) *Client {
	return NewClient(url, "test-key", "test-model", zap.NewNop())
}

func TestAnalyzeThread_ParsesStructuredVerdict(t *testing.T) {
	srv := chatServer(t, `{"needs_followup": true, "reason": "no response after a week", "urgency": "medium", "context": "job_application", "original_role": "Senior Developer"}`)
	c := newTestClient(srv.URL)

	a := c.AnalyzeThread(context.Background(), "thread text", 7)
	if !a.NeedsFollowup {
		t.Fatal("NeedsFollowup = false; want true")
	}
	if a.Urgency != "medium" || a.Context != "job_application" || a.OriginalRole != "Senior Developer" {
		t.Fatalf("unexpected analysis: %+v", a)
	}
}

func TestAnalyzeThread_TrimsSurroundingProse(t *testing.T) {
	srv := chatServer(t, "Here is the verdict:\n```json\n{\"needs_followup\": true, \"urgency\": \"low\", \"reason\": \"ok\"}\n```")
	a := newTestClient(srv.URL).AnalyzeThread(context.Background(), "thread", 3)
	if !a.NeedsFollowup || a.Urgency != "low" {
		t.Fatalf("fenced JSON not parsed: %+v", a)
	}
}

func TestAnalyzeThread_MalformedOutputDegrades(t *testing.T) {
	srv := chatServer(t, "I cannot help with that.")
	a := newTestClient(srv.URL).AnalyzeThread(context.Background(), "thread", 3)
	if a.NeedsFollowup {
		t.Fatal("malformed output must not recommend a follow-up")
	}
	if a.Urgency != "unknown" || a.Reason == "" {
		t.Fatalf("fallback analysis wrong: %+v", a)
	}
}

func TestAnalyzeThread_ServiceDownDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	a := newTestClient(srv.URL).AnalyzeThread(context.Background(), "thread", 3)
	if a.NeedsFollowup {
		t.Fatal("unreachable service must not recommend a follow-up")
	}
	if a.Urgency != "unknown" || a.Reason == "" {
		t.Fatalf("fallback analysis wrong: %+v", a)
	}
}

func TestGenerateBody(t *testing.T) {
	srv := chatServer(t, "  I wanted to follow up on the Senior Developer role.  \n")
	body, err := newTestClient(srv.URL).GenerateBody(context.Background(), "thread", "them@example.com", 5)
	if err != nil {
		t.Fatalf("GenerateBody: %v", err)
	}
	if body != "I wanted to follow up on the Senior Developer role." {
		t.Fatalf("body = %q", body)
	}
}

func TestGenerateBody_ErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	if _, err := newTestClient(srv.URL).GenerateBody(context.Background(), "thread", "x", 5); err == nil {
		t.Fatal("expected an error from a failing endpoint")
	}
}
