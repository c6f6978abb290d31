package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"mailnudge/internal/ai"
	"mailnudge/internal/config"
	"mailnudge/internal/followup"
	"mailnudge/internal/gmail"
	"mailnudge/internal/logging"
	"mailnudge/internal/model"
	"mailnudge/internal/report"
	"mailnudge/internal/store"
	"mailnudge/internal/tui"
	"mailnudge/internal/util"
)

func main() {
	batch := flag.Bool("batch", false, "run one evaluation pass and exit")
	debug := flag.Bool("debug", false, "verbose logging")
	flag.Parse()

	cfg, err := config.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(*debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot set up logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ledger, err := store.NewLedger(filepath.Join(cfg.ConfigDir, "mailnudge.db"))
	if err != nil {
		logger.Fatal("cannot open dispatch ledger", zap.Error(err))
	}
	defer ledger.Close()

	ctx := context.Background()
	if last, err := ledger.LastRunAt(ctx); err == nil && last != "" {
		logger.Info("previous run", zap.String("at", last))
	}

	svc, err := gmail.NewService(ctx, cfg.ConfigDir)
	if err != nil {
		logger.Fatal("gmail authentication failed", zap.Error(err))
	}
	box := gmail.NewMailbox(svc)

	senderName := cfg.SenderName
	if senderName == "" {
		addr, err := box.Profile(ctx)
		if err != nil {
			logger.Fatal("cannot resolve account profile", zap.Error(err))
		}
		if n := util.NormalizeAddress(addr); n != "" {
			addr = n
		}
		senderName = util.SenderNameFromAddress(addr)
	}

	templates := followup.TemplateSet(cfg.Templates)
	var selector followup.Selector = followup.DeterministicSelector{Templates: templates}
	if cfg.UseAI {
		client := ai.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIKey, cfg.OpenAIModel, logger)
		selector = followup.AISelector{Client: client, Fallback: templates, Log: logger}
	}

	scanner := &followup.Scanner{
		Mailbox:  box,
		Detector: followup.SubjectHeuristic{},
		Policy: followup.Policy{
			MinDays:      cfg.MinDays,
			MaxFollowUps: cfg.MaxFollowUps,
			IntentMarker: cfg.IntentMarker,
		},
		MaxDays:  cfg.MaxDays,
		PageSize: cfg.BatchSize,
		Log:      logger,
	}
	composer := &followup.Composer{
		Mailbox:     box,
		Selector:    selector,
		SenderName:  senderName,
		DisableSend: cfg.DisableSend,
		Log:         logger,
	}

	if *batch {
		if err := runBatch(ctx, logger, scanner, composer, report.Writer{Dir: cfg.ReportDir}, ledger); err != nil {
			logger.Fatal("run failed", zap.Error(err))
		}
		return
	}

	appModel := tui.NewAppModel(scanner, composer, ledger, cfg.DisableSend, logger)
	p := tea.NewProgram(&appModel, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if m, ok := finalModel.(*tui.AppModel); ok && m.Err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", m.Err)
		os.Exit(1)
	}
}

// runBatch is one unattended evaluation pass: scan, dispatch (or dry-run),
// then persist the audit trail.
func runBatch(ctx context.Context, logger *zap.Logger, scanner *followup.Scanner, composer *followup.Composer, rw report.Writer, ledger *store.Ledger) error {
	cands, err := scanner.Scan(ctx)
	if err != nil {
		return err
	}
	logger.Info("scan complete", zap.Int("candidates", len(cands)))

	cands = composer.Dispatch(ctx, cands)

	now := time.Now().UTC()
	if err := rw.Append(cands, now); err != nil {
		return err
	}
	if err := ledger.RecordDispatches(ctx, cands, now); err != nil {
		return err
	}
	if err := ledger.SetLastRunAt(ctx, now); err != nil {
		return err
	}

	counts := map[string]int{}
	for _, c := range cands {
		counts[c.Status]++
	}
	logger.Info("run finished",
		zap.Int("sent", counts[model.StatusSent]),
		zap.Int("failed", counts[model.StatusFailed]),
		zap.Int("dry_run", counts[model.StatusDryRun]),
		zap.String("report", rw.Path(now)))
	return nil
}
