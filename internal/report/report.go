package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"mailnudge/internal/model"
)

// Column order of the audit report.
var header = []string{"Day", "Sent To", "Subject", "Prev Message sent on", "Follow up text", "Number of follow up", "Status"}

// Writer appends day-grouped audit rows to one CSV file per run date. The
// report is the durable record of what was decided and attempted, whether or
// not sends succeeded.
type Writer struct {
	Dir string
}

// Path returns the report file for the given run date.
func (w Writer) Path(runDate time.Time) string {
	return filepath.Join(w.Dir, fmt.Sprintf("followup_report_%s.csv", runDate.Format("2006-01-02")))
}

// Append groups candidates by the calendar day of their last send and writes
// one row per candidate, days ascending. Re-running on the same date appends
// to the existing file; the header row is written only on creation.
func (w Writer) Append(cands []model.Candidate, runDate time.Time) error {
	if w.Dir != "" {
		if err := os.MkdirAll(w.Dir, 0o755); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}

	path := w.Path(runDate)
	_, statErr := os.Stat(path)
	isNew := errors.Is(statErr, os.ErrNotExist)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open report %s: %w", path, err)
	}

	cw := csv.NewWriter(f)
	if isNew {
		if err := cw.Write(header); err != nil {
			f.Close()
			return fmt.Errorf("write report header: %w", err)
		}
	}

	byDay := make(map[string][]model.Candidate)
	for _, c := range cands {
		day := c.LastSent.Format("2006-01-02")
		byDay[day] = append(byDay[day], c)
	}
	days := make([]string, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Strings(days)

	for _, day := range days {
		for _, c := range byDay[day] {
			row := []string{
				day,
				c.To,
				c.Subject,
				c.LastSent.Format("2006-01-02 15:04:05"),
				c.FollowupText,
				strconv.Itoa(c.FollowupCount + 1),
				c.Status,
			}
			if err := cw.Write(row); err != nil {
				f.Close()
				return fmt.Errorf("write report row: %w", err)
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush report: %w", err)
	}
	return f.Close()
}
