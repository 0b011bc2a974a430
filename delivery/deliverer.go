// Package delivery ships buffered votes to the collector.
//
// A normal flush tries one bulk call and falls back to one call per vote.
// Lifecycle flushes never block the caller: they hand the votes to a beacon
// or, if none is available, to a background bulk call nobody waits for.
package delivery

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/worldcup/lifecycle"
	"github.com/Dosada05/worldcup/models"
	"github.com/Dosada05/worldcup/votes"
)

const (
	DefaultTimeout             = 5 * time.Second
	DefaultFallbackConcurrency = 4
)

// Submitter is the collector side of delivery.
type Submitter interface {
	SubmitBulk(ctx context.Context, worldcupID string, votes []models.VoteRecord) (models.BulkVoteResult, error)
	SubmitVote(ctx context.Context, worldcupID string, vote models.VoteRecord) error
}

// Beacon queues a payload for one-way transmission.
// Send returns false when the payload was not accepted.
type Beacon interface {
	Send(payload models.BeaconPayload) bool
}

type waiter interface {
	Wait(grace time.Duration) bool
}

type Config struct {
	WorldcupID          string
	Timeout             time.Duration
	FallbackConcurrency int
	Now                 func() time.Time
}

// Report is the outcome of one flush.
type Report struct {
	Attempted    int
	UsedFallback bool
	models.BulkVoteResult
}

type Deliverer struct {
	acc       *votes.Accumulator
	submitter Submitter
	beacon    Beacon
	cfg       Config
	logger    *slog.Logger

	mu     sync.Mutex
	closed bool
	bg     sync.WaitGroup
}

func NewDeliverer(acc *votes.Accumulator, submitter Submitter, beacon Beacon, cfg Config, logger *slog.Logger) *Deliverer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.FallbackConcurrency <= 0 {
		cfg.FallbackConcurrency = DefaultFallbackConcurrency
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Deliverer{
		acc:       acc,
		submitter: submitter,
		beacon:    beacon,
		cfg:       cfg,
		logger:    logger.With(slog.String("worldcup_id", cfg.WorldcupID)),
	}
}

// Flush drains the accumulator and delivers its contents. Delivery failures
// are counted and logged, never returned. Drained votes are not re-queued.
func (d *Deliverer) Flush(ctx context.Context) Report {
	records := d.acc.Drain()
	if len(records) == 0 {
		return Report{}
	}
	report := Report{Attempted: len(records)}

	bulkCtx, cancel := context.WithTimeout(ctx, d.cfg.Timeout)
	res, err := d.submitter.SubmitBulk(bulkCtx, d.cfg.WorldcupID, records)
	cancel()
	if err == nil {
		report.BulkVoteResult = res
		d.logger.Info("votes delivered",
			slog.Int("successful", res.SuccessfulVotes),
			slog.Int("failed", res.FailedVotes))
		return report
	}

	d.logger.Warn("bulk vote submission failed, falling back to individual votes",
		slog.Int("votes", len(records)), slog.Any("error", err))
	report.UsedFallback = true
	report.BulkVoteResult = d.submitEach(ctx, records)

	d.logger.Info("individual vote delivery finished",
		slog.Int("successful", report.SuccessfulVotes),
		slog.Int("failed", report.FailedVotes))
	return report
}

func (d *Deliverer) submitEach(ctx context.Context, records []models.VoteRecord) models.BulkVoteResult {
	var ok, failed atomic.Int64

	var g errgroup.Group
	g.SetLimit(d.cfg.FallbackConcurrency)
	for _, rec := range records {
		g.Go(func() error {
			voteCtx, cancel := context.WithTimeout(ctx, d.cfg.Timeout)
			defer cancel()
			if err := d.submitter.SubmitVote(voteCtx, d.cfg.WorldcupID, rec); err != nil {
				failed.Add(1)
				d.logger.Debug("vote submission failed",
					slog.String("winner_id", rec.WinnerID), slog.Any("error", err))
				return nil
			}
			ok.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	return models.BulkVoteResult{SuccessfulVotes: int(ok.Load()), FailedVotes: int(failed.Load())}
}

// FlushOnLifecycle hands buffered votes off without waiting for the outcome.
// It reports whether anything was handed off.
func (d *Deliverer) FlushOnLifecycle(sig lifecycle.Signal) bool {
	records := d.acc.Drain()
	if len(records) == 0 {
		return false
	}
	log := d.logger.With(slog.String("signal", sig.String()), slog.Int("votes", len(records)))

	payload := models.BeaconPayload{
		Votes:      records,
		WorldcupID: d.cfg.WorldcupID,
		Timestamp:  d.cfg.Now().UnixMilli(),
	}
	if d.beacon != nil && d.beacon.Send(payload) {
		log.Info("votes handed to beacon")
		return true
	}

	if !d.goBackground(func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.cfg.Timeout)
		defer cancel()
		if _, err := d.submitter.SubmitBulk(ctx, d.cfg.WorldcupID, records); err != nil {
			log.Warn("background bulk submission failed", slog.Any("error", err))
		}
	}) {
		log.Warn("deliverer closed, votes dropped")
		return false
	}
	log.Info("beacon unavailable, bulk submission started in background")
	return true
}

// Subscribe flushes on every signal from source. It returns after an
// unloading signal, when source is closed, or when ctx is done.
func (d *Deliverer) Subscribe(ctx context.Context, source <-chan lifecycle.Signal) lifecycle.Signal {
	for {
		select {
		case <-ctx.Done():
			return 0
		case sig, ok := <-source:
			if !ok {
				return 0
			}
			d.FlushOnLifecycle(sig)
			if sig == lifecycle.SignalUnloading {
				return sig
			}
		}
	}
}

// Wait stops background work from being started and waits at most grace
// for the in-flight sends, the beacon's included.
func (d *Deliverer) Wait(grace time.Duration) bool {
	deadline := time.Now().Add(grace)

	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.bg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(grace):
		return false
	}

	if w, ok := d.beacon.(waiter); ok {
		return w.Wait(time.Until(deadline))
	}
	return true
}

func (d *Deliverer) goBackground(fn func()) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return false
	}
	d.bg.Add(1)
	go func() {
		defer d.bg.Done()
		fn()
	}()
	return true
}
