package gmail

import (
	"context"
	"encoding/base64"
	"fmt"

	"mailnudge/internal/model"

	gmailv1 "google.golang.org/api/gmail/v1"
)

const user = "me"

// MessageRef identifies one sent message found by a search page.
type MessageRef struct {
	ID       string
	ThreadID string
}

// ListPage is one page of search results plus the token for the next page
// (empty on the last page).
type ListPage struct {
	Refs          []MessageRef
	NextPageToken string
}

// Mailbox is the provider surface the follow-up engine consumes. The Gmail
// implementation below is the only one in production; tests substitute fakes.
type Mailbox interface {
	Profile(ctx context.Context) (string, error)
	ListMessages(ctx context.Context, query string, pageSize int64, pageToken string) (ListPage, error)
	GetThread(ctx context.Context, threadID string) (model.Thread, error)
	Send(ctx context.Context, raw []byte, threadID string) error
}

// Service adapts a Gmail API client to the Mailbox interface.
type Service struct {
	svc *gmailv1.Service
}

func NewMailbox(svc *gmailv1.Service) *Service {
	return &Service{svc: svc}
}

// Profile returns the authenticated account's email address.
func (s *Service) Profile(ctx context.Context) (string, error) {
	p, err := s.svc.Users.GetProfile(user).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("get profile: %w", err)
	}
	return p.EmailAddress, nil
}

// ListMessages runs one page of the search query. pageSize is the page size,
// not an overall cap; Gmail pages via NextPageToken.
func (s *Service) ListMessages(ctx context.Context, query string, pageSize int64, pageToken string) (ListPage, error) {
	call := s.svc.Users.Messages.List(user).Q(query).MaxResults(pageSize)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	resp, err := call.Context(ctx).Do()
	if err != nil {
		return ListPage{}, fmt.Errorf("list messages: %w", err)
	}
	page := ListPage{NextPageToken: resp.NextPageToken}
	for _, m := range resp.Messages {
		page.Refs = append(page.Refs, MessageRef{ID: m.Id, ThreadID: m.ThreadId})
	}
	return page, nil
}

// GetThread fetches the full transcript and converts it to the local model.
func (s *Service) GetThread(ctx context.Context, threadID string) (model.Thread, error) {
	t, err := s.svc.Users.Threads.Get(user, threadID).Format("full").Context(ctx).Do()
	if err != nil {
		return model.Thread{}, fmt.Errorf("get thread %s: %w", threadID, err)
	}
	out := model.Thread{ID: threadID}
	for _, m := range t.Messages {
		out.Messages = append(out.Messages, convertMessage(m))
	}
	return out, nil
}

// Send submits a raw RFC 822 message onto an existing thread.
func (s *Service) Send(ctx context.Context, raw []byte, threadID string) error {
	msg := &gmailv1.Message{
		Raw:      base64.RawURLEncoding.EncodeToString(raw),
		ThreadId: threadID,
	}
	if _, err := s.svc.Users.Messages.Send(user, msg).Context(ctx).Do(); err != nil {
		return fmt.Errorf("send message on thread %s: %w", threadID, err)
	}
	return nil
}

// convertMessage maps a provider payload into the immutable local record.
// Provider payloads are not schema-guaranteed, so every field defaults to
// its zero value when the structure is missing.
func convertMessage(m *gmailv1.Message) model.Message {
	if m == nil {
		return model.Message{}
	}
	out := model.Message{
		ID:           m.Id,
		ThreadID:     m.ThreadId,
		InternalDate: m.InternalDate,
		Snippet:      m.Snippet,
		Body:         messageBody(m),
	}
	if m.Payload != nil {
		for _, h := range m.Payload.Headers {
			if h == nil {
				continue
			}
			out.Headers = append(out.Headers, model.Header{Name: h.Name, Value: h.Value})
		}
	}
	return out
}
