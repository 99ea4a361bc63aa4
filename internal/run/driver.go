// Package run drives a relaxation: sweeps in batches, progress, cancellation
// and the artifacts written at the end.
package run

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"efield/internal/balance"
)

// Relaxer is the part of a balance.Balancer the driver needs.
type Relaxer interface {
	DoSteps(ctx context.Context, n int) int
	Statistics() (balance.Statistics, error)
	Sweeps() int
}

type Options struct {
	Sweeps    int           // -1 runs until ctx is done
	Batch     int           // sweeps between statistics
	Heartbeat time.Duration // rate log interval, 0 for none
}

// Progress is reported after the initial placement and after every batch.
type Progress struct {
	Sweeps   int
	Stats    balance.Statistics
	HasStats bool
	Elapsed  time.Duration
}

type Result struct {
	ID        uuid.UUID
	Sweeps    int
	Elapsed   time.Duration
	Initial   balance.Statistics
	Final     balance.Statistics
	HasStats  bool
	Cancelled bool
}

// Run relaxes r until opts.Sweeps is reached or ctx is done. Cancellation is
// not an error: the result says Cancelled and holds the last full sweep.
func Run(ctx context.Context, r Relaxer, opts Options, logger *zap.Logger, progress func(Progress)) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Batch <= 0 {
		opts.Batch = 10
	}
	res := &Result{ID: uuid.New()}
	logger = logger.With(zap.String("run_id", res.ID.String()))
	start := time.Now()

	report := func() error {
		p := Progress{Sweeps: r.Sweeps(), Elapsed: time.Since(start)}
		s, err := r.Statistics()
		switch {
		case err == nil:
			p.Stats, p.HasStats = s, true
			logger.Info("statistics",
				zap.Int("sweep", p.Sweeps),
				zap.Float64("pos_mean", s.PosMean),
				zap.Float64("pos_sdev", s.PosStdDev),
				zap.Float64("neg_mean", s.NegMean),
				zap.Float64("neg_sdev", s.NegStdDev))
		case errors.Is(err, balance.ErrTooFewParticles):
			logger.Debug("no statistics", zap.Int("sweep", p.Sweeps), zap.Error(err))
		default:
			return err
		}
		if progress != nil {
			progress(p)
		}
		res.Final, res.HasStats = p.Stats, p.HasStats
		return nil
	}

	if err := report(); err != nil {
		return nil, err
	}
	res.Initial = res.Final

	var done atomic.Int64
	stop := startHeartbeat(opts.Heartbeat, &done, start, logger)
	defer stop()

	for opts.Sweeps < 0 || res.Sweeps < opts.Sweeps {
		n := opts.Batch
		if opts.Sweeps >= 0 {
			n = min(n, opts.Sweeps-res.Sweeps)
		}
		ran := r.DoSteps(ctx, n)
		res.Sweeps += ran
		done.Store(int64(res.Sweeps))
		if ran > 0 {
			if err := report(); err != nil {
				return nil, err
			}
		}
		if ran < n || ctx.Err() != nil {
			res.Cancelled = ctx.Err() != nil
			break
		}
	}

	res.Elapsed = time.Since(start)
	if res.Cancelled {
		logger.Warn("interrupted, terminating early", zap.Int("sweeps", res.Sweeps))
	}
	logger.Info("relaxation finished",
		zap.Int("sweeps", res.Sweeps),
		zap.Duration("elapsed", res.Elapsed))
	return res, nil
}

// startHeartbeat logs the sweep rate every interval until the returned stop
// function is called. stop waits for the goroutine to exit.
func startHeartbeat(interval time.Duration, done *atomic.Int64, start time.Time, logger *zap.Logger) (stop func()) {
	if interval <= 0 {
		return func() {}
	}
	quit := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-quit:
				return
			case <-ticker.C:
				if n := done.Load(); n > 0 {
					rate := float64(n) / time.Since(start).Seconds()
					logger.Info("progress", zap.Int64("sweeps", n), zap.Float64("sweeps_per_sec", rate))
				}
			}
		}
	}()
	return func() {
		close(quit)
		<-exited
	}
}
