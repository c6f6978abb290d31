package tui

import (
	"fmt"
	"strings"

	"mailnudge/internal/model"

	"github.com/charmbracelet/lipgloss"
)

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("39")).
	PaddingBottom(1)

func previewHeader(c model.Candidate) string {
	return headerStyle.Render(fmt.Sprintf("To: %s\nSubject: Re: %s\nLast sent: %s (%d days ago)",
		c.To, c.Subject, c.LastSent.Format("2006-01-02 15:04"), c.DaysSinceLast))
}

// previewBody shows the rendered follow-up plus the generation service's
// verdict when one was consulted.
func previewBody(c model.Candidate) string {
	var b strings.Builder
	b.WriteString(c.FollowupText)
	if c.Analysis != nil {
		b.WriteString("\n\n— analysis —\n")
		fmt.Fprintf(&b, "needs follow-up: %v\nurgency: %s\n", c.Analysis.NeedsFollowup, c.Analysis.Urgency)
		if c.Analysis.Reason != "" {
			fmt.Fprintf(&b, "reason: %s\n", c.Analysis.Reason)
		}
	}
	return b.String()
}

func previewFooter() string {
	return footerStyle.Render("s: send  esc: back  q: quit")
}
