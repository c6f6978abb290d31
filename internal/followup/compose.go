package followup

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"mailnudge/internal/gmail"
	"mailnudge/internal/model"

	"go.uber.org/zap"
)

// Composer assembles outgoing follow-ups and submits them on the original
// thread. DisableSend turns every dispatch into a dry run: candidates are
// rendered and reported, never sent.
type Composer struct {
	Mailbox     gmail.Mailbox
	Selector    Selector
	SenderName  string
	DisableSend bool
	Log         *zap.Logger
}

// Render resolves the candidate's outgoing text: salutation from the origin
// message, body from the selector, signature from the sender name. The
// transcript is re-fetched for the salutation; if that fails the generic
// greeting is used, since the template itself needs no thread context.
func (c *Composer) Render(ctx context.Context, cand model.Candidate) model.Candidate {
	var name, threadText string
	thread, err := c.Mailbox.GetThread(ctx, cand.ThreadID)
	if err != nil {
		c.Log.Warn("rendering without transcript",
			zap.String("thread_id", cand.ThreadID),
			zap.Error(err))
	} else if len(thread.Messages) > 0 {
		name = ExtractSalutationName(thread.Messages[0].Body)
		threadText = transcriptText(thread)
		cand.InReplyTo = GetHeader(&thread.Messages[len(thread.Messages)-1], "Message-ID")
	}

	body, analysis := c.Selector.Body(ctx, cand, threadText)
	cand.Analysis = analysis

	salutation := "Hi,"
	if name != "" {
		salutation = "Hi " + name + ","
	}
	cand.FollowupText = salutation + "\n\n" + body + "\n\nThanks,\n" + c.SenderName
	return cand
}

// Send submits a rendered candidate and stamps its final status. Render must
// have run first.
func (c *Composer) Send(ctx context.Context, cand model.Candidate) model.Candidate {
	if c.DisableSend {
		cand.Status = model.StatusDryRun
		c.Log.Info("dry run, follow-up suppressed",
			zap.String("to", cand.To),
			zap.String("subject", cand.Subject))
		return cand
	}

	raw := rawMessage(cand.To, replySubject(cand.Subject), cand.FollowupText, cand.InReplyTo)
	if err := c.Mailbox.Send(ctx, raw, cand.ThreadID); err != nil {
		cand.Status = model.StatusFailed
		c.Log.Error("follow-up send failed",
			zap.String("to", cand.To),
			zap.String("subject", cand.Subject),
			zap.Error(err))
		return cand
	}
	cand.Status = model.StatusSent
	c.Log.Info("follow-up sent",
		zap.String("to", cand.To),
		zap.String("subject", cand.Subject),
		zap.Int("attempt", cand.FollowupCount+1))
	return cand
}

// Dispatch renders and sends every candidate in order, returning them with
// final text and status. One failure never stops the batch.
func (c *Composer) Dispatch(ctx context.Context, cands []model.Candidate) []model.Candidate {
	out := make([]model.Candidate, 0, len(cands))
	for _, cand := range cands {
		cand = c.Render(ctx, cand)
		out = append(out, c.Send(ctx, cand))
	}
	return out
}

// replySubject prefixes "Re: " unless the subject already carries it.
func replySubject(subject string) string {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(subject)), "re:") {
		return subject
	}
	return "Re: " + subject
}

// transcriptText flattens a thread into the free-text form the generation
// service consumes.
func transcriptText(t model.Thread) string {
	var b strings.Builder
	for i := range t.Messages {
		m := &t.Messages[i]
		fmt.Fprintf(&b, "From: %s\nSubject: %s\n", GetHeader(m, "From"), GetHeader(m, "Subject"))
		if m.Body != "" {
			b.WriteString(m.Body)
		} else {
			b.WriteString(m.Snippet)
		}
		b.WriteString("\n---\n")
	}
	return b.String()
}

// rawMessage builds the RFC 822 payload for the provider's raw-send call.
func rawMessage(to, subject, body, inReplyTo string) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	if inReplyTo != "" {
		fmt.Fprintf(&b, "In-Reply-To: %s\r\n", inReplyTo)
		fmt.Fprintf(&b, "References: %s\r\n", inReplyTo)
	}
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return b.Bytes()
}
