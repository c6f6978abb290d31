package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"mailnudge/internal/model"

	"go.uber.org/zap"
)

// Client talks to an OpenAI-compatible chat completions endpoint. It is
// optional plumbing: the engine treats analysis failures as "no follow-up
// needed" and body-generation failures fall back to templates, so no call
// here may abort a run.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	log        *zap.Logger
}

func NewClient(baseURL, apiKey, model string, log *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion endpoint returned %d", resp.StatusCode)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode completion: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", errors.New("completion returned no choices")
	}
	return out.Choices[0].Message.Content, nil
}

// AnalyzeThread classifies whether the thread warrants a follow-up. It never
// returns an error: an unreachable service or unparseable output degrades to
// a conservative no-follow-up verdict with the failure recorded in Reason.
func (c *Client) AnalyzeThread(ctx context.Context, threadText string, daysSince int) model.Analysis {
	out, err := c.complete(ctx, analysisPrompt(threadText, daysSince))
	if err != nil {
		c.log.Warn("thread analysis unavailable", zap.Error(err))
		return fallbackAnalysis("generation service unavailable: " + err.Error())
	}

	var a model.Analysis
	if err := json.Unmarshal([]byte(extractJSON(out)), &a); err != nil {
		c.log.Warn("thread analysis unparseable", zap.Error(err))
		return fallbackAnalysis("unparseable analysis response: " + err.Error())
	}
	if a.Urgency == "" {
		a.Urgency = "unknown"
	}
	return a
}

// GenerateBody asks for a short follow-up body. Errors propagate so the
// selector can fall back to its template rotation.
func (c *Client) GenerateBody(ctx context.Context, threadText, recipient string, daysSince int) (string, error) {
	out, err := c.complete(ctx, generatePrompt(threadText, recipient, daysSince))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func fallbackAnalysis(reason string) model.Analysis {
	return model.Analysis{
		NeedsFollowup: false,
		Urgency:       "unknown",
		Reason:        reason,
	}
}

// extractJSON trims prose or code fences around the first JSON object in a
// completion. Models are asked for bare JSON but don't always comply.
func extractJSON(s string) string {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return s
	}
	return s[start : end+1]
}

func analysisPrompt(threadText string, daysSince int) string {
	return fmt.Sprintf(`Analyze this email thread for job-seeking context and determine if it needs a follow-up.
Thread Content: %s
Days Since Sent: %d

Rules:
1. Only recommend follow-up for job applications, interview follow-ups, networking for job opportunities, or recruiter communications.
2. Consider timing: 3-5 days for interview follow-ups, 7-10 days for applications, 14+ days for general networking.

Return only a JSON object:
{"needs_followup": true/false, "reason": "why follow-up is or is not needed", "urgency": "low/medium/high", "context": "job_application/interview/networking/other", "original_role": "the job role discussed"}

Return needs_followup=false if the thread is not job-related, already received a definitive response, or the company asked not to follow up.`, threadText, daysSince)
}

func generatePrompt(threadText, recipient string, daysSince int) string {
	return fmt.Sprintf(`Generate a concise, professional follow-up email body for a job seeker.

Context:
- Original Thread: %s
- Recipient: %s
- Days Since Sent: %d

Requirements:
1. Two to three sentences maximum.
2. Reference the previous interaction and the job role specifically.
3. End with a clear next step.
4. Confident but not pushy.
5. Return only the body text, no salutation and no signature; those are added separately.`, threadText, recipient, daysSince)
}
