package carry

import (
	"context"
	"errors"
	"fmt"

	"github.com/agbru/addcalc/internal/adder"
	apperrors "github.com/agbru/addcalc/internal/errors"
)

// ErrOutOfOrder is returned when a protocol step is called in the wrong state.
var ErrOutOfOrder = errors.New("carry: step called out of order")

// Transition describes one state change of a Propagator.
type Transition struct {
	Rank  int
	From  State
	To    State
	Carry Token
}

// Observer is notified of every state change.
type Observer interface {
	OnTransition(t Transition)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(t Transition)

// OnTransition calls f.
func (f ObserverFunc) OnTransition(t Transition) { f(t) }

// Option configures a Propagator.
type Option func(*Propagator)

// WithObserver registers o on the propagator.
func WithObserver(o Observer) Option {
	return func(p *Propagator) {
		if o != nil {
			p.observers = append(p.observers, o)
		}
	}
}

// Propagator runs the protocol for one chunk. It is used by a single
// goroutine and walks each state exactly once.
type Propagator struct {
	rank      int
	link      Link
	mode      Mode
	ch        Channel
	observers []Observer

	state   State
	result  []byte
	carry   Token
	pending Pending
}

// NewPropagator returns a propagator for the chunk owned by rank.
func NewPropagator(rank int, link Link, mode Mode, ch Channel, opts ...Option) *Propagator {
	p := &Propagator{rank: rank, link: link, mode: mode, ch: ch, state: ComputingLocal}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// State returns the current protocol state.
func (p *Propagator) State() State { return p.state }

// Carry returns the outgoing carry computed so far. After Forward it is the
// value that was sent, or the final overflow when there is no successor.
func (p *Propagator) Carry() Token { return p.carry }

// Result returns the chunk's digits. They are final once the state is
// ForwardingCarry.
func (p *Propagator) Result() []byte { return p.result }

// Compute adds the chunk digits a and b into result. In overlapped mode the
// carry receive is posted first.
func (p *Propagator) Compute(a, b, result []byte) error {
	if err := p.expect(ComputingLocal, "compute"); err != nil {
		return err
	}
	if p.mode == Overlapped && p.link.HasPredecessor() {
		p.pending = p.ch.IssueReceive()
	}
	p.result = result
	p.carry = Token(adder.Add(result, a, b))
	if !p.link.HasPredecessor() {
		p.transition(ForwardingCarry)
		return nil
	}
	p.transition(AwaitingCarryIn)
	return nil
}

// Receive waits for the predecessor's carry and ripples it into the result.
func (p *Propagator) Receive(ctx context.Context) error {
	if err := p.expect(AwaitingCarryIn, "receive"); err != nil {
		return err
	}
	var (
		in  Token
		err error
	)
	if p.pending != nil {
		in, err = p.pending.Await(ctx)
		p.pending = nil
	} else {
		in, err = p.ch.BlockingReceive(ctx)
	}
	if err != nil {
		return apperrors.ProtocolError{Rank: p.rank, Op: "receive carry", Cause: err}
	}
	p.transition(ApplyingCarry)

	out := p.carry + Token(adder.Ripple(p.result, byte(in)))
	if out > MaxToken {
		return apperrors.ProtocolError{
			Rank:  p.rank,
			Op:    "apply carry",
			Cause: fmt.Errorf("outgoing carry %d after incoming %d", out, in),
		}
	}
	p.carry = out
	p.transition(ForwardingCarry)
	return nil
}

// Forward sends the outgoing carry to the successor, if any.
func (p *Propagator) Forward(ctx context.Context) error {
	if err := p.expect(ForwardingCarry, "forward"); err != nil {
		return err
	}
	if p.link.HasSuccessor() {
		if err := p.ch.Send(ctx, p.carry); err != nil {
			return apperrors.ProtocolError{Rank: p.rank, Op: "send carry", Cause: err}
		}
	}
	p.transition(Done)
	return nil
}

// Run performs every step in order.
func (p *Propagator) Run(ctx context.Context, a, b, result []byte) error {
	if err := p.Compute(a, b, result); err != nil {
		return err
	}
	if p.state == AwaitingCarryIn {
		if err := p.Receive(ctx); err != nil {
			return err
		}
	}
	return p.Forward(ctx)
}

func (p *Propagator) expect(want State, step string) error {
	if p.state != want {
		return fmt.Errorf("%w: %s in state %s", ErrOutOfOrder, step, p.state)
	}
	return nil
}

func (p *Propagator) transition(to State) {
	t := Transition{Rank: p.rank, From: p.state, To: to, Carry: p.carry}
	p.state = to
	for _, o := range p.observers {
		o.OnTransition(t)
	}
}
