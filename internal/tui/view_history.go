package tui

import (
	"fmt"
	"strings"

	"mailnudge/internal/model"
)

func historyHeader() string {
	return headerStyle.Render("Recent dispatches")
}

// historyBody renders the ledger's newest rows, one dispatch per line.
func historyBody(records []model.DispatchRecord) string {
	if len(records) == 0 {
		return "No dispatches recorded yet."
	}
	var b strings.Builder
	for _, r := range records {
		fmt.Fprintf(&b, "%s  %-8s attempt %d  %s  %s\n",
			r.RunAt, r.Status, r.Attempt, r.Recipient, r.Subject)
	}
	return b.String()
}

func historyFooter() string {
	return footerStyle.Render("esc: back  q: quit")
}
