package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/arbbot/bot"
	"github.com/rustyeddy/arbbot/config"
	"github.com/rustyeddy/arbbot/internal/logging"
	"github.com/rustyeddy/arbbot/market"
	"github.com/rustyeddy/arbbot/protocol"
	"github.com/rustyeddy/arbbot/strategy"
)

var replayCmd = &cobra.Command{
	Use:   "replay <frames.jsonl>",
	Short: "Run the strategies over a recorded exchange transcript",
	Long: `Replay feeds a transcript of inbound exchange frames (one JSON object per
line, starting with the hello) through the strategies and prints every
instruction they would have sent. Nothing is sent anywhere and nothing is
journaled. Use it to reproduce a session from debug logs.

Example:
  arbbot replay session.jsonl`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
}

// printer is a strategy.Sender that writes each instruction as a wire frame.
type printer struct {
	w io.Writer
	n int
}

func (p *printer) Send(_ context.Context, ins protocol.Instruction) error {
	frame, err := protocol.Encode(ins)
	if err != nil {
		return err
	}
	p.n++
	_, err = p.w.Write(frame)
	return err
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile, envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(logging.Config{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	rp, err := bot.NewReplay(f)
	if err != nil {
		return fmt.Errorf("read transcript: %w", err)
	}

	out := &printer{w: cmd.OutOrStdout()}
	eng := strategy.New(out, nil, cfg.Strategy, logger.Sugar())

	st, err := bot.Run(cmd.Context(), rp, eng, logger.Sugar())
	if err != nil && err != io.EOF {
		return fmt.Errorf("replay: %w", err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "\n✓ Replayed %d events, %d instructions, %d ledger errors\n", st.Events, out.n, st.LedgerErrors)
	pos := eng.Ledger().Positions()
	for _, sym := range market.Symbols {
		fmt.Fprintf(cmd.ErrOrStderr(), "  %-6s %s\n", sym, pos[sym].String())
	}
	return nil
}
