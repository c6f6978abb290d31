package tui

import "mailnudge/internal/model"

// Async message types for Bubble Tea commands.

type scanCompleteMsg struct {
	candidates []model.Candidate
	// prior ledger attempts per thread id, from earlier runs
	attempts map[string]int
	err      error
}

type historyMsg struct {
	records []model.DispatchRecord
}

type previewReadyMsg struct {
	candidate model.Candidate
	index     int
}

type sendResultMsg struct {
	candidate model.Candidate
	index     int
}

type statusMsg string
