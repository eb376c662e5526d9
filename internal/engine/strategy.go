package engine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/addcalc/internal/bignum"
	"github.com/agbru/addcalc/internal/carry"
	"github.com/agbru/addcalc/internal/comm"
	apperrors "github.com/agbru/addcalc/internal/errors"
	"github.com/agbru/addcalc/internal/logging"
)

// Participant is one rank's part of a run.
type Participant interface {
	// Participate performs every protocol step of the rank and returns
	// once the rank has nothing left to send or receive.
	Participate(ctx context.Context) error
}

// Coordinator is the rank 0 participant. It owns the operands and assembles
// the sum.
type Coordinator interface {
	Participant
	// Result returns the assembled sum. It is valid after Participate
	// returned nil.
	Result() bignum.BigNumber
}

// Strategy builds the roles of one way of distributing an addition.
type Strategy interface {
	// Name is the identifier used on the command line.
	Name() string
	// MinProcesses is the smallest world the strategy can run on.
	MinProcesses() int
	// Coordinator returns the role of rank 0.
	Coordinator(c comm.Communicator, a, b bignum.BigNumber, opts ...Option) Coordinator
	// Worker returns the role of any other rank.
	Worker(c comm.Communicator, opts ...Option) Participant
}

// Option configures a role.
type Option func(*options)

type options struct {
	logger    logging.Logger
	observers []carry.Observer
}

func newOptions(opts []Option) options {
	o := options{logger: logging.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger used by a role.
func WithLogger(l logging.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithCarryObserver attaches an observer to every carry propagator a role
// runs.
func WithCarryObserver(obs carry.Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observers = append(o.observers, obs)
		}
	}
}

func (o options) carryOptions(extra ...carry.Observer) []carry.Option {
	out := make([]carry.Option, 0, len(o.observers)+len(extra))
	for _, obs := range o.observers {
		out = append(out, carry.WithObserver(obs))
	}
	for _, obs := range extra {
		out = append(out, carry.WithObserver(obs))
	}
	return out
}

// CheckWorld returns a ConfigError when a world of size ranks is too small
// for s.
func CheckWorld(s Strategy, size int) error {
	if size < s.MinProcesses() {
		return apperrors.NewConfigError("strategy %q needs at least %d processes, got %d",
			s.Name(), s.MinProcesses(), size)
	}
	return nil
}

// Join returns the role of c's rank. Only rank 0 reads a and b.
func Join(s Strategy, c comm.Communicator, a, b bignum.BigNumber, opts ...Option) (Participant, error) {
	if err := CheckWorld(s, c.Size()); err != nil {
		return nil, err
	}
	if c.Rank() == 0 {
		return s.Coordinator(c, a, b, opts...), nil
	}
	return s.Worker(c, opts...), nil
}

// Participate runs the role of c's rank to completion. On rank 0 it returns
// the sum; on other ranks the returned number is zero.
func Participate(ctx context.Context, s Strategy, c comm.Communicator, a, b bignum.BigNumber, opts ...Option) (bignum.BigNumber, error) {
	p, err := Join(s, c, a, b, opts...)
	if err != nil {
		return bignum.Zero(), err
	}
	if err := p.Participate(ctx); err != nil {
		return bignum.Zero(), err
	}
	if coord, ok := p.(Coordinator); ok {
		return coord.Result(), nil
	}
	return bignum.Zero(), nil
}

// Run drives every rank of an in-process world and returns rank 0's sum.
// The first failing rank cancels the others.
func Run(ctx context.Context, s Strategy, comms []comm.Communicator, a, b bignum.BigNumber, opts ...Option) (bignum.BigNumber, error) {
	if err := CheckWorld(s, len(comms)); err != nil {
		return bignum.Zero(), err
	}
	g, ctx := errgroup.WithContext(ctx)

	roles := make([]Participant, len(comms))
	var coord Coordinator
	for i, c := range comms {
		p, err := Join(s, c, a, b, opts...)
		if err != nil {
			return bignum.Zero(), err
		}
		if cp, ok := p.(Coordinator); ok {
			coord = cp
		}
		roles[i] = p
	}

	for _, p := range roles {
		p := p
		g.Go(func() error { return p.Participate(ctx) })
	}
	if err := g.Wait(); err != nil {
		return bignum.Zero(), err
	}
	return coord.Result(), nil
}
