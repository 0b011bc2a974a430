// Command worldcup plays a single-elimination "worldcup" in the terminal and
// reports the picks to the collector.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/Dosada05/worldcup/client"
	"github.com/Dosada05/worldcup/config"
	"github.com/Dosada05/worldcup/delivery"
	"github.com/Dosada05/worldcup/game"
	"github.com/Dosada05/worldcup/lifecycle"
	"github.com/Dosada05/worldcup/votes"
)

const statisticsShown = 10

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	cfg, err := config.LoadClient()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	var (
		worldcupID = flag.String("worldcup", "", "worldcup ID to play (required)")
		size       = flag.Int("size", 0, "bracket size, 0 picks the smallest that fits")
		verbose    = flag.Bool("v", false, "verbose logging")
	)
	flag.StringVar(&cfg.CollectorURL, "collector", cfg.CollectorURL, "collector base URL")
	flag.DurationVar(&cfg.PacingDelay, "pacing", cfg.PacingDelay, "delay before a pick is applied")
	flag.Parse()

	if *verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	if *worldcupID == "" {
		fmt.Fprintln(os.Stderr, "usage: worldcup -worldcup <id> [-size n] [-collector url] [-pacing d]")
		os.Exit(2)
	}

	if err := run(context.Background(), cfg, *worldcupID, *size, os.Stdin, os.Stdout, logger); err != nil {
		logger.Error("worldcup failed", slog.Any("error", err))
		os.Exit(1)
	}
}

type player struct {
	worldcupID string
	client     *client.Client
	session    *game.Session
	deliverer  *delivery.Deliverer
	token      string
	out        io.Writer
	logger     *slog.Logger
}

func run(ctx context.Context, cfg *config.ClientConfig, worldcupID string, size int, in io.Reader, out io.Writer, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c, err := client.New(cfg.CollectorURL, cfg.CollectorTimeout)
	if err != nil {
		return err
	}

	wc, err := c.GetWorldcup(ctx, worldcupID)
	if err != nil {
		return fmt.Errorf("load worldcup %s: %w", worldcupID, err)
	}

	p := &player{worldcupID: wc.ID, client: c, out: out, logger: logger}
	p.newToken(ctx)

	acc := votes.NewAccumulator(votes.DefaultCapacity)
	p.session, err = game.NewSession(ctx, game.Config{
		WorldcupID:  wc.ID,
		Title:       wc.Title,
		Items:       wc.Items,
		Size:        size,
		PacingDelay: cfg.PacingDelay,
		Strict:      cfg.Strict,
		Shuffle:     true,
	}, acc, logger)
	if err != nil {
		return err
	}

	beacon := client.NewHTTPBeacon(c, cfg.CollectorTimeout, logger)
	p.deliverer = delivery.NewDeliverer(acc, c, beacon, delivery.Config{
		WorldcupID: wc.ID,
		Timeout:    cfg.CollectorTimeout,
	}, logger)
	defer p.deliverer.Wait(cfg.FlushGracePeriod)

	go func() {
		if p.deliverer.Subscribe(ctx, lifecycle.NotifySource(ctx)) == lifecycle.SignalUnloading {
			cancel()
		}
	}()

	fmt.Fprintf(out, "%s: %d items, bracket of %d\n", wc.Title, len(wc.Items), p.session.Size())
	fmt.Fprint(out, helpText)
	return p.loop(ctx, readLines(in))
}

func readLines(in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()
	return lines
}

func (p *player) loop(ctx context.Context, lines <-chan string) error {
	p.begin(ctx)
	for {
		var line string
		var ok bool
		select {
		case <-ctx.Done():
			// голоса уже ушли через beacon
			return nil
		case line, ok = <-lines:
		}
		if !ok {
			p.flush(ctx)
			return nil
		}

		cmd, err := parseCommand(line)
		if errors.Is(err, errEmptyCommand) {
			continue
		}
		if err != nil {
			fmt.Fprintln(p.out, err)
			continue
		}

		switch cmd.kind {
		case cmdQuit:
			p.flush(ctx)
			return nil
		case cmdHelp:
			fmt.Fprint(p.out, helpText)
		case cmdStatus:
			pr := p.session.Progress()
			built, required := p.session.Counts()
			fmt.Fprintf(p.out, "round %d/%d, %.0f%% done, %d votes pending\n",
				pr.CurrentRound, pr.TotalRounds, pr.Percentage, p.session.Accumulator().Size())
			fmt.Fprintf(p.out, "%d matches drawn so far, %d decisions per play\n", built, required)
		case cmdUndo:
			if _, err := p.session.Undo(); err != nil {
				fmt.Fprintln(p.out, err)
				continue
			}
			p.prompt()
		case cmdRestart:
			if err := p.session.Restart(ctx, cmd.size); err != nil {
				fmt.Fprintln(p.out, err)
				continue
			}
			p.newToken(ctx)
			fmt.Fprintf(p.out, "restarted with a bracket of %d\n", p.session.Size())
			p.begin(ctx)
		case cmdPick:
			if err := p.pick(ctx, cmd.arg); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				fmt.Fprintln(p.out, err)
			}
		}
	}
}

// newToken asks for a fresh session token; each play is counted once.
func (p *player) newToken(ctx context.Context) {
	sess, err := p.client.CreateSession(ctx, p.worldcupID)
	if err != nil {
		// без токена играем, но итог в статистику не попадёт
		p.logger.Warn("session not issued, the result will not be recorded", slog.Any("error", err))
		p.token = ""
		return
	}
	p.token = sess.Token
}

func (p *player) prompt() {
	if p.session.Completed() {
		fmt.Fprintln(p.out, "tournament finished, restart to play again")
		return
	}
	if m := p.session.Current(); m != nil {
		printMatch(p.out, m, p.session.Progress())
	}
}

func (p *player) pick(ctx context.Context, input string) error {
	item, err := resolvePick(p.session.Current(), input)
	if err != nil {
		return err
	}
	d, err := p.session.Decide(ctx, item.ID)
	if err != nil {
		return err
	}
	if !d.Completed {
		p.prompt()
		return nil
	}

	p.finish(ctx)
	return nil
}

// begin shows the first match of a fresh bracket. A bracket decided by
// byes alone is finished right away.
func (p *player) begin(ctx context.Context) {
	if p.session.Completed() {
		p.finish(ctx)
	}
	p.prompt()
}

func (p *player) finish(ctx context.Context) {
	if w := p.session.Snapshot().Winner; w != nil {
		fmt.Fprintf(p.out, "\nWinner: %s\n", w.Title)
	}
	p.flush(ctx)
	p.recordResult(ctx)
}

func (p *player) flush(ctx context.Context) {
	report := p.deliverer.Flush(ctx)
	if report.Attempted == 0 {
		return
	}
	p.logger.Info("votes flushed",
		slog.Int("attempted", report.Attempted),
		slog.Bool("fallback", report.UsedFallback),
		slog.Int("successful", report.SuccessfulVotes),
		slog.Int("failed", report.FailedVotes))
}

func (p *player) recordResult(ctx context.Context) {
	if p.token == "" {
		return
	}
	update, err := p.session.StatisticsUpdate(p.token)
	if err != nil {
		p.logger.Warn("statistics update not built", slog.Any("error", err))
		return
	}
	if len(update.Matches) > 0 {
		if err := p.client.UpdateStatistics(ctx, p.worldcupID, update); err != nil {
			var se *client.StatusError
			if !errors.As(err, &se) || se.StatusCode != http.StatusConflict {
				p.logger.Warn("statistics update failed", slog.Any("error", err))
			}
		}
	}

	stats, err := p.client.GetStatistics(ctx, p.worldcupID)
	if err != nil {
		p.logger.Warn("statistics not available", slog.Any("error", err))
		return
	}
	printStatistics(p.out, stats, statisticsShown)
}
