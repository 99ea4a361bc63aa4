package run

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"efield/internal/balance"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeRelaxer counts sweeps and reports the sweep count as its potentials.
type fakeRelaxer struct {
	sweeps   int
	calls    []int
	statsErr error
	onStep   func(sweeps int)
}

func (f *fakeRelaxer) DoSteps(ctx context.Context, n int) int {
	f.calls = append(f.calls, n)
	done := 0
	for n < 0 || done < n {
		if ctx.Err() != nil {
			break
		}
		f.sweeps++
		done++
		if f.onStep != nil {
			f.onStep(f.sweeps)
		}
	}
	return done
}

func (f *fakeRelaxer) Statistics() (balance.Statistics, error) {
	if f.statsErr != nil {
		return balance.Statistics{}, f.statsErr
	}
	return balance.Statistics{PosMean: float64(f.sweeps), NegMean: -float64(f.sweeps)}, nil
}

func (f *fakeRelaxer) Sweeps() int { return f.sweeps }

func TestRunBatches(t *testing.T) {
	f := &fakeRelaxer{}
	var seen []int
	res, err := Run(context.Background(), f, Options{Sweeps: 25, Batch: 10}, zaptest.NewLogger(t), func(p Progress) {
		assert.True(t, p.HasStats)
		seen = append(seen, p.Sweeps)
	})
	require.NoError(t, err)

	assert.Equal(t, []int{10, 10, 5}, f.calls)
	assert.Equal(t, []int{0, 10, 20, 25}, seen)
	assert.Equal(t, 25, res.Sweeps)
	assert.False(t, res.Cancelled)
	assert.True(t, res.HasStats)
	assert.Equal(t, 0.0, res.Initial.PosMean)
	assert.Equal(t, 25.0, res.Final.PosMean)
	assert.NotEqual(t, uuid.Nil, res.ID)
}

func TestRunDefaultBatch(t *testing.T) {
	f := &fakeRelaxer{}
	res, err := Run(context.Background(), f, Options{Sweeps: 15}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{10, 5}, f.calls)
	assert.Equal(t, 15, res.Sweeps)
}

func TestRunZeroSweeps(t *testing.T) {
	f := &fakeRelaxer{}
	res, err := Run(context.Background(), f, Options{Sweeps: 0, Batch: 10}, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, f.calls)
	assert.Equal(t, 0, res.Sweeps)
	assert.False(t, res.Cancelled)
	assert.True(t, res.HasStats)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f := &fakeRelaxer{onStep: func(n int) {
		if n == 13 {
			cancel()
		}
	}}

	res, err := Run(ctx, f, Options{Sweeps: 100, Batch: 10}, zaptest.NewLogger(t), nil)
	require.NoError(t, err)
	assert.True(t, res.Cancelled)
	assert.Equal(t, 13, res.Sweeps)
	assert.Equal(t, 13.0, res.Final.PosMean)
}

func TestRunUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f := &fakeRelaxer{onStep: func(n int) {
		if n == 12 {
			cancel()
		}
	}}

	res, err := Run(ctx, f, Options{Sweeps: -1, Batch: 5}, nil, nil)
	require.NoError(t, err)
	assert.True(t, res.Cancelled)
	assert.Equal(t, 12, res.Sweeps)
	assert.Equal(t, []int{5, 5, 5}, f.calls)
}

func TestRunAlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := &fakeRelaxer{}

	var reports int
	res, err := Run(ctx, f, Options{Sweeps: 50, Batch: 10}, nil, func(Progress) { reports++ })
	require.NoError(t, err)
	assert.True(t, res.Cancelled)
	assert.Equal(t, 0, res.Sweeps)
	assert.Equal(t, 1, reports)
}

func TestRunWithoutStatistics(t *testing.T) {
	f := &fakeRelaxer{statsErr: balance.ErrTooFewParticles}
	var reports int
	res, err := Run(context.Background(), f, Options{Sweeps: 20, Batch: 10}, nil, func(p Progress) {
		assert.False(t, p.HasStats)
		reports++
	})
	require.NoError(t, err)
	assert.False(t, res.HasStats)
	assert.Equal(t, 20, res.Sweeps)
	assert.Equal(t, 3, reports)
}

func TestRunStatisticsError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Run(context.Background(), &fakeRelaxer{statsErr: boom}, Options{Sweeps: 20}, nil, nil)
	assert.ErrorIs(t, err, boom)
}

func TestHeartbeat(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	var done atomic.Int64
	done.Store(5)

	stop := startHeartbeat(time.Millisecond, &done, time.Now().Add(-time.Second), zap.New(core))
	require.Eventually(t, func() bool {
		return logs.FilterMessage("progress").Len() > 0
	}, 2*time.Second, time.Millisecond)
	stop()

	entry := logs.FilterMessage("progress").All()[0]
	assert.Equal(t, int64(5), entry.ContextMap()["sweeps"])
}

func TestHeartbeatDisabled(t *testing.T) {
	var done atomic.Int64
	stop := startHeartbeat(0, &done, time.Now(), zap.NewNop())
	stop()
}
