package tui

import (
	"fmt"

	"mailnudge/internal/model"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
)

// candidateItem wraps a Candidate to customize list display. priorAttempts
// is how many dispatches the ledger already holds for the thread.
type candidateItem struct {
	model.Candidate
	priorAttempts int
}

func (c candidateItem) FilterValue() string { return c.To + " " + c.Subject }

func (c candidateItem) Title() string {
	marker := " "
	switch c.Status {
	case model.StatusSent:
		marker = "✓ "
	case model.StatusFailed:
		marker = "✗ "
	case model.StatusDryRun:
		marker = "~ "
	}
	return fmt.Sprintf("%s%s (attempt %d)", marker, c.To, c.FollowupCount+1)
}

func (c candidateItem) Description() string {
	desc := fmt.Sprintf("%s — %dd silent", c.Subject, c.DaysSinceLast)
	if c.priorAttempts > 0 {
		desc += fmt.Sprintf(" — %d in ledger", c.priorAttempts)
	}
	return desc
}

var footerStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("241")).
	PaddingTop(1)

func candidatesFooter(dryRun bool) string {
	hint := "enter: preview  s: send  r: rescan  l: history  q: quit"
	if dryRun {
		hint += "  (dry run: sends are suppressed)"
	}
	return footerStyle.Render(hint)
}

func candidatesToItems(cands []model.Candidate, attempts map[string]int) []list.Item {
	items := make([]list.Item, len(cands))
	for i, c := range cands {
		items[i] = candidateItem{Candidate: c, priorAttempts: attempts[c.ThreadID]}
	}
	return items
}
