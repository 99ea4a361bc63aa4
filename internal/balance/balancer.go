// Package balance relaxes two clouds of equal and opposite point charges on
// their conductors until each conductor is close to an equipotential.
//
// A Balancer is single threaded. Every random draw comes from the one Source
// handed to New, in a fixed order, so a seed reproduces a run bit for bit.
package balance

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"efield/internal/field"
	"efield/internal/mathutil"
	"efield/internal/surface"
)

var (
	ErrNoSurfaces         = errors.New("balance: empty surface list")
	ErrParticleCount      = errors.New("balance: particle count must be at least 1")
	ErrUnequalPopulations = errors.New("balance: unequal positive and negative populations")
	ErrTooFewParticles    = errors.New("balance: standard deviation needs at least 2 particles")
)

// Move describes one trial move.
type Move struct {
	Sweep    int
	Positive bool
	Index    int
	From, To mathutil.Vec3
	Before   float64
	After    float64
	Accepted bool
}

// Option configures a Balancer.
type Option func(*Balancer)

// WithField replaces the default physical field.
func WithField(f field.Field) Option {
	return func(b *Balancer) { b.field = f }
}

func WithLogger(logger *zap.Logger) Option {
	return func(b *Balancer) { b.logger = logger }
}

// WithObserver registers fn to be called after every trial move.
func WithObserver(fn func(Move)) Option {
	return func(b *Balancer) { b.observer = fn }
}

type Balancer struct {
	positives, negatives []surface.Surface
	src                  surface.Source
	field                field.Field
	logger               *zap.Logger
	observer             func(Move)

	pos, neg       []mathutil.Vec3
	posSrc, negSrc []int
	charge         float64

	sweeps                   int
	posAccepted, negAccepted int
}

func newBalancer(positives, negatives []surface.Surface, src surface.Source, opts []Option) (*Balancer, error) {
	if len(positives) == 0 {
		return nil, fmt.Errorf("%w: positive", ErrNoSurfaces)
	}
	if len(negatives) == 0 {
		return nil, fmt.Errorf("%w: negative", ErrNoSurfaces)
	}
	b := &Balancer{
		positives: positives,
		negatives: negatives,
		src:       src,
		field:     field.Physical(),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.logger.With(zap.String("component", "balancer"))
	return b, nil
}

// New places n particles per polarity, alternating positive and negative, on
// the given surfaces. Each particle carries charge 1/n.
func New(n int, positives, negatives []surface.Surface, src surface.Source, opts ...Option) (*Balancer, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrParticleCount, n)
	}
	b, err := newBalancer(positives, negatives, src, opts)
	if err != nil {
		return nil, err
	}
	b.pos = make([]mathutil.Vec3, n)
	b.neg = make([]mathutil.Vec3, n)
	b.posSrc = make([]int, n)
	b.negSrc = make([]int, n)
	for i := 0; i < n; i++ {
		p := surface.Place(positives, src)
		b.pos[i], b.posSrc[i] = p.Position, p.Source
		q := surface.Place(negatives, src)
		b.neg[i], b.negSrc[i] = q.Position, q.Source
	}
	b.charge = 1.0 / float64(n)
	b.logger.Debug("particles placed",
		zap.Int("n", n),
		zap.Int("positive_surfaces", len(positives)),
		zap.Int("negative_surfaces", len(negatives)))
	return b, nil
}

// FromParticles resumes from existing particle positions. Source indices must
// refer to the given surface lists.
func FromParticles(pos, neg []surface.Particle, positives, negatives []surface.Surface, src surface.Source, opts ...Option) (*Balancer, error) {
	if len(pos) != len(neg) {
		return nil, fmt.Errorf("%w: %d and %d", ErrUnequalPopulations, len(pos), len(neg))
	}
	if len(pos) == 0 {
		return nil, fmt.Errorf("%w: got 0", ErrParticleCount)
	}
	b, err := newBalancer(positives, negatives, src, opts)
	if err != nil {
		return nil, err
	}
	n := len(pos)
	b.pos = make([]mathutil.Vec3, n)
	b.neg = make([]mathutil.Vec3, n)
	b.posSrc = make([]int, n)
	b.negSrc = make([]int, n)
	for i := 0; i < n; i++ {
		if pos[i].Source < 0 || pos[i].Source >= len(positives) ||
			neg[i].Source < 0 || neg[i].Source >= len(negatives) {
			return nil, fmt.Errorf("balance: particle %d: surface index out of range", i)
		}
		b.pos[i], b.posSrc[i] = pos[i].Position, pos[i].Source
		b.neg[i], b.negSrc[i] = neg[i].Position, neg[i].Source
	}
	b.charge = 1.0 / float64(n)
	return b, nil
}

// Step runs one sweep: every positive particle in order, then every negative.
// Each trial sees the moves already made in this sweep.
func (b *Balancer) Step() {
	b.sweeps++
	n := len(b.pos)
	for i := 0; i < n; i++ {
		if b.trial(true, i) {
			b.posAccepted++
		}
	}
	for i := 0; i < n; i++ {
		if b.trial(false, i) {
			b.negAccepted++
		}
	}
}

func (b *Balancer) trial(positive bool, i int) bool {
	omitPos, omitNeg := i, -1
	arr, srcs, surfaces := b.pos, b.posSrc, b.positives
	if !positive {
		omitPos, omitNeg = -1, i
		arr, srcs, surfaces = b.neg, b.negSrc, b.negatives
	}

	old, oldSrc := arr[i], srcs[i]
	before := b.field.PotentialOmit(old, b.pos, omitPos, b.neg, omitNeg, b.charge)

	cand := surface.Place(surfaces, b.src)
	arr[i], srcs[i] = cand.Position, cand.Source
	after := b.field.PotentialOmit(cand.Position, b.pos, omitPos, b.neg, omitNeg, b.charge)

	// Positive charges go downhill, negative charges uphill.
	accept := after <= before
	if !positive {
		accept = after >= before
	}
	if !accept {
		arr[i], srcs[i] = old, oldSrc
	}

	if b.observer != nil {
		b.observer(Move{
			Sweep:    b.sweeps,
			Positive: positive,
			Index:    i,
			From:     old,
			To:       cand.Position,
			Before:   before,
			After:    after,
			Accepted: accept,
		})
	}
	return accept
}

// DoSteps runs up to n sweeps and returns how many completed. ctx is checked
// between sweeps only, so the particle arrays are always consistent. A
// negative n runs until ctx is done.
func (b *Balancer) DoSteps(ctx context.Context, n int) int {
	done := 0
	for n < 0 || done < n {
		if ctx.Err() != nil {
			b.logger.Debug("relaxation cancelled", zap.Int("sweeps", done))
			break
		}
		b.Step()
		done++
	}
	return done
}

// N is the number of particles per polarity.
func (b *Balancer) N() int { return len(b.pos) }

// Sweeps is the total number of sweeps run so far.
func (b *Balancer) Sweeps() int { return b.sweeps }

// Charge is the charge carried by one particle.
func (b *Balancer) Charge() float64 { return b.charge }

func (b *Balancer) Field() field.Field { return b.field }

// Accepted returns the accepted move counts per polarity.
func (b *Balancer) Accepted() (pos, neg int) { return b.posAccepted, b.negAccepted }

func (b *Balancer) PositivePositions() []mathutil.Vec3 {
	return append([]mathutil.Vec3(nil), b.pos...)
}

func (b *Balancer) NegativePositions() []mathutil.Vec3 {
	return append([]mathutil.Vec3(nil), b.neg...)
}

func (b *Balancer) Positives() []surface.Particle { return particles(b.pos, b.posSrc) }

func (b *Balancer) Negatives() []surface.Particle { return particles(b.neg, b.negSrc) }

func particles(pos []mathutil.Vec3, src []int) []surface.Particle {
	out := make([]surface.Particle, len(pos))
	for i := range pos {
		out[i] = surface.Particle{Position: pos[i], Source: src[i]}
	}
	return out
}
