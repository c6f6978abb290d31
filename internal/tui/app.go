package tui

import (
	"context"
	"fmt"
	"time"

	"mailnudge/internal/followup"
	"mailnudge/internal/model"
	"mailnudge/internal/store"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type viewState int

const (
	viewScanning   viewState = iota
	viewCandidates           // main candidate list
	viewPreview              // rendered follow-up for one candidate
	viewHistory              // recent dispatches from the ledger
)

// AppModel is the interactive front-end: scan the mailbox, preview each
// candidate's rendered follow-up, and trigger sends one at a time.
type AppModel struct {
	scanner  *followup.Scanner
	composer *followup.Composer
	ledger   *store.Ledger
	log      *zap.Logger
	dryRun   bool
	Err      error

	view       viewState
	status     string
	candidates []model.Candidate
	attempts   map[string]int // prior ledger attempts by thread id
	selected   int            // index into candidates while previewing

	candidatesList list.Model
	previewPort    viewport.Model
	spin           spinner.Model

	width, height int
}

func NewAppModel(scanner *followup.Scanner, composer *followup.Composer, ledger *store.Ledger, dryRun bool, log *zap.Logger) AppModel {
	cl := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	cl.Title = "Stalled threads"
	// Keep esc free for view navigation.
	cl.KeyMap.Quit.SetKeys("q")

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return AppModel{
		scanner:        scanner,
		composer:       composer,
		ledger:         ledger,
		log:            log,
		dryRun:         dryRun,
		view:           viewScanning,
		status:         "Scanning sent mail…",
		candidatesList: cl,
		previewPort:    viewport.New(0, 0),
		spin:           sp,
	}
}

func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(m.scanCmd(), m.spin.Tick)
}

func (m *AppModel) scanCmd() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		cands, err := m.scanner.Scan(ctx)
		if err != nil {
			return scanCompleteMsg{err: err}
		}
		// Prior attempts come from the ledger, not from rescanning threads.
		attempts := make(map[string]int, len(cands))
		for _, c := range cands {
			n, err := m.ledger.AttemptsForThread(ctx, c.ThreadID)
			if err != nil {
				m.log.Warn("ledger read failed", zap.String("thread_id", c.ThreadID), zap.Error(err))
				continue
			}
			attempts[c.ThreadID] = n
		}
		return scanCompleteMsg{candidates: cands, attempts: attempts}
	}
}

func (m *AppModel) historyCmd() tea.Cmd {
	return func() tea.Msg {
		recs, err := m.ledger.RecentDispatches(context.Background(), 50)
		if err != nil {
			return statusMsg("ledger unavailable: " + err.Error())
		}
		return historyMsg{records: recs}
	}
}

func (m *AppModel) previewCmd(index int) tea.Cmd {
	cand := m.candidates[index]
	return func() tea.Msg {
		rendered := m.composer.Render(context.Background(), cand)
		return previewReadyMsg{candidate: rendered, index: index}
	}
}

func (m *AppModel) sendCmd(index int) tea.Cmd {
	cand := m.candidates[index]
	return func() tea.Msg {
		ctx := context.Background()
		if cand.FollowupText == "" {
			cand = m.composer.Render(ctx, cand)
		}
		cand = m.composer.Send(ctx, cand)
		if err := m.ledger.RecordDispatches(ctx, []model.Candidate{cand}, time.Now().UTC()); err != nil {
			m.log.Warn("ledger write failed", zap.Error(err))
		}
		return sendResultMsg{candidate: cand, index: index}
	}
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.candidatesList.SetSize(msg.Width, msg.Height-4) // room for footer
		m.previewPort.Width = msg.Width
		m.previewPort.Height = msg.Height - 8 // room for header + footer
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case scanCompleteMsg:
		if msg.err != nil {
			m.Err = msg.err
			return m, tea.Quit
		}
		m.candidates = msg.candidates
		m.attempts = msg.attempts
		m.candidatesList.SetItems(candidatesToItems(m.candidates, m.attempts))
		m.view = viewCandidates
		m.status = fmt.Sprintf("%d candidate(s) found", len(m.candidates))
		return m, nil

	case previewReadyMsg:
		m.candidates[msg.index] = msg.candidate
		m.selected = msg.index
		m.previewPort.SetContent(previewBody(msg.candidate))
		m.previewPort.GotoTop()
		m.view = viewPreview
		return m, nil

	case sendResultMsg:
		m.candidates[msg.index] = msg.candidate
		m.candidatesList.SetItems(candidatesToItems(m.candidates, m.attempts))
		if m.view == viewPreview && m.selected == msg.index {
			m.previewPort.SetContent(previewBody(msg.candidate))
		}
		m.status = fmt.Sprintf("%s → %s", msg.candidate.To, msg.candidate.Status)
		return m, nil

	case historyMsg:
		m.previewPort.SetContent(historyBody(msg.records))
		m.previewPort.GotoTop()
		m.view = viewHistory
		return m, nil

	case statusMsg:
		m.status = string(msg)
		return m, nil

	case spinner.TickMsg:
		if m.view != viewScanning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, m.updateSubmodels(msg)
}

func (m *AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.view {
	case viewCandidates:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "enter":
			if i := m.candidatesList.Index(); i >= 0 && i < len(m.candidates) {
				m.status = "Rendering…"
				return m, m.previewCmd(i)
			}
		case "s":
			if i := m.candidatesList.Index(); i >= 0 && i < len(m.candidates) {
				m.status = "Sending…"
				return m, m.sendCmd(i)
			}
		case "r":
			m.view = viewScanning
			m.status = "Scanning sent mail…"
			return m, tea.Batch(m.scanCmd(), m.spin.Tick)
		case "l":
			return m, m.historyCmd()
		}
	case viewHistory:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.view = viewCandidates
			return m, nil
		}
	case viewPreview:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.view = viewCandidates
			return m, nil
		case "s":
			m.status = "Sending…"
			return m, m.sendCmd(m.selected)
		}
	default:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}
	return m, m.updateSubmodels(msg)
}

func (m *AppModel) updateSubmodels(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	switch m.view {
	case viewCandidates:
		m.candidatesList, cmd = m.candidatesList.Update(msg)
		cmds = append(cmds, cmd)
	case viewPreview, viewHistory:
		m.previewPort, cmd = m.previewPort.Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (m *AppModel) View() string {
	switch m.view {
	case viewScanning:
		return fmt.Sprintf("\n %s %s\n", m.spin.View(), m.status)
	case viewCandidates:
		return m.candidatesList.View() + "\n" + footerStyle.Render(m.status) + candidatesFooter(m.dryRun)
	case viewPreview:
		c := m.candidates[m.selected]
		return previewHeader(c) + "\n" + m.previewPort.View() + "\n" + previewFooter()
	case viewHistory:
		return historyHeader() + "\n" + m.previewPort.View() + "\n" + historyFooter()
	}
	return ""
}
