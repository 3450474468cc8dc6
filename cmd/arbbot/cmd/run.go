package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/arbbot/bot"
	"github.com/rustyeddy/arbbot/config"
	"github.com/rustyeddy/arbbot/internal/id"
	"github.com/rustyeddy/arbbot/internal/logging"
	"github.com/rustyeddy/arbbot/journal"
	"github.com/rustyeddy/arbbot/session"
	"github.com/rustyeddy/arbbot/strategy"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Connect to the exchange and trade",
	Long: `Connect to the exchange selected by the configuration, complete the hello
handshake and trade until the exchange closes the round.

With --restart the session is re-established with exponential backoff after
any disconnect or round close. Positions always come from the exchange's
hello, never from the journal.

Examples:
  arbbot run -c arbbot.yaml
  ARBBOT_MODE=production arbbot run --restart`,
	RunE: runRun,
}

var (
	runRestart     bool
	runMaxRestarts int
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&runRestart, "restart", false, "reconnect after disconnects with exponential backoff")
	runCmd.Flags().IntVar(&runMaxRestarts, "max-restarts", 0, "give up after this many restarts (0 = never)")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile, envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(logging.Config{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	runID := id.NewRun()
	log := logger.Sugar().With("run_id", runID)

	j, err := openJournal(cfg.Journal, runID)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	defer j.Close()

	opts, err := sessionOptions(cfg.Exchange)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	once := func(ctx context.Context) error {
		return runSession(ctx, opts, cfg.Strategy, j, log)
	}

	if !runRestart {
		err = once(ctx)
	} else {
		policy := bot.DefaultRestartPolicy()
		policy.MaxRestarts = runMaxRestarts
		err = bot.Supervise(ctx, policy, once, log)
	}
	if errors.Is(err, context.Canceled) {
		log.Infow("shutdown")
		return nil
	}
	return err
}

func runSession(ctx context.Context, opts session.Options, params strategy.Params, j journal.Journal, log *zap.SugaredLogger) error {
	sess, err := session.Dial(ctx, opts, log.Named("session"))
	if err != nil {
		return err
	}
	defer sess.Close()

	eng := strategy.New(sess, j, params, log.Named("strategy"))
	st, err := bot.Run(ctx, sess, eng, log)
	log.Infow("session_ended",
		"events", st.Events,
		"ledger_errors", st.LedgerErrors,
		"rejects", st.Rejects,
		"sent", sess.Sent(),
		"rate_warnings", sess.RateWarnings(),
		"closed", st.Closed)
	return err
}

func sessionOptions(ex config.ExchangeConfig) (session.Options, error) {
	ep, err := ex.Endpoint()
	if err != nil {
		return session.Options{}, err
	}
	readTimeout, err := ex.ParseReadTimeout()
	if err != nil {
		return session.Options{}, fmt.Errorf("read timeout: %w", err)
	}
	dialTimeout, err := ex.ParseDialTimeout()
	if err != nil {
		return session.Options{}, fmt.Errorf("dial timeout: %w", err)
	}
	return session.Options{
		Addr:          ep.Addr(),
		Team:          ex.Team,
		SocketTimeout: ep.SocketTimeout,
		ReadTimeout:   readTimeout,
		DialTimeout:   dialTimeout,
	}, nil
}

func openJournal(cfg config.JournalConfig, runID string) (journal.Journal, error) {
	switch cfg.Type {
	case "csv":
		return journal.NewCSV(cfg.Dir, runID)
	case "sqlite":
		return journal.NewSQLite(cfg.DBPath, runID)
	default:
		return journal.Nop{}, nil
	}
}
