package engine

import (
	"context"

	"github.com/agbru/addcalc/internal/bignum"
	"github.com/agbru/addcalc/internal/carry"
	"github.com/agbru/addcalc/internal/comm"
	apperrors "github.com/agbru/addcalc/internal/errors"
	"github.com/agbru/addcalc/internal/logging"
	"github.com/agbru/addcalc/internal/memory"
	"github.com/agbru/addcalc/internal/partition"
	"github.com/agbru/addcalc/internal/tracing"
)

type collective struct{}

// Collective returns the strategy that moves operands with a scatter and
// results with a gather over a layout padded to equal chunks. Rank 0 owns
// the most-significant chunk and is the last link of the carry chain.
func Collective() Strategy { return collective{} }

func (collective) Name() string { return "collective" }

func (collective) MinProcesses() int { return 2 }

func (collective) Coordinator(c comm.Communicator, a, b bignum.BigNumber, opts ...Option) Coordinator {
	return &collectiveCoordinator{c: c, a: a, b: b, opts: newOptions(opts)}
}

func (collective) Worker(c comm.Communicator, opts ...Option) Participant {
	return &collectiveWorker{c: c, opts: newOptions(opts)}
}

// collectiveLink places rank in the chain 1 -> 2 -> ... -> size-1 -> 0.
// Rank 0 keeps its outgoing carry as the final overflow.
func collectiveLink(rank, size int) carry.Link {
	if rank == 0 {
		return carry.Link{Predecessor: size - 1, ReceiveTag: TagCollectiveCarry, Successor: carry.None}
	}
	link := p2pLink(rank, size)
	if link.Successor == 0 {
		link.ForwardTag = TagCollectiveCarry
	}
	return link
}

// rankBlocks returns buf cut along layout, indexed by owning rank.
func rankBlocks(buf []byte, layout partition.Layout) [][]byte {
	blocks := make([][]byte, len(layout.Chunks))
	for _, ch := range layout.Chunks {
		blocks[ch.OwnerRank] = buf[ch.Start:ch.End()]
	}
	return blocks
}

// shareLayout broadcasts the operand lengths from rank 0 and derives the
// padded layout on every rank.
func shareLayout(ctx context.Context, c comm.Communicator, header []byte) (partition.Layout, error) {
	msg, err := comm.Bcast(ctx, c, 0, header)
	if err != nil {
		return partition.Layout{}, apperrors.ProtocolError{Rank: c.Rank(), Op: "broadcast lengths", Cause: err}
	}
	lengths, err := decodeInts(msg, 3)
	if err != nil {
		return partition.Layout{}, apperrors.ProtocolError{Rank: c.Rank(), Op: "broadcast lengths", Cause: err}
	}
	layout, err := partition.Collective(lengths[2], c.Size())
	if err != nil {
		return partition.Layout{}, apperrors.NewConfigError("%v", err)
	}
	return layout, nil
}

// scatterOperands distributes both padded operands and returns the calling
// rank's chunks. aPad and bPad are only read on rank 0.
func scatterOperands(ctx context.Context, c comm.Communicator, layout partition.Layout, aPad, bPad []byte) (a, b []byte, err error) {
	var blocksA, blocksB [][]byte
	if c.Rank() == 0 {
		blocksA, blocksB = rankBlocks(aPad, layout), rankBlocks(bPad, layout)
	}
	if a, err = comm.Scatter(ctx, c, 0, blocksA); err != nil {
		return nil, nil, apperrors.ProtocolError{Rank: c.Rank(), Op: "scatter digits a", Cause: err}
	}
	if b, err = comm.Scatter(ctx, c, 0, blocksB); err != nil {
		return nil, nil, apperrors.ProtocolError{Rank: c.Rank(), Op: "scatter digits b", Cause: err}
	}
	return a, b, nil
}

type collectiveCoordinator struct {
	c      comm.Communicator
	a, b   bignum.BigNumber
	opts   options
	result bignum.BigNumber
}

func (p *collectiveCoordinator) Participate(ctx context.Context) error {
	ctx, span := tracing.StartParticipant(ctx, "collective", "coordinator", p.c.Rank())
	defer span.End()
	return tracing.RecordError(span, p.run(ctx, tracing.CarryObserver(span)))
}

func (p *collectiveCoordinator) run(ctx context.Context, spanObs carry.Observer) error {
	rank, size := p.c.Rank(), p.c.Size()
	maxLen := max(p.a.Len(), p.b.Len())
	layout, err := shareLayout(ctx, p.c, encodeInts(p.a.Len(), p.b.Len(), maxLen))
	if err != nil {
		return err
	}

	arena := memory.NewDigitArena(3*layout.Padded + 1)
	aPad := arena.Alloc(layout.Padded)
	p.a.CopyDigits(aPad, 0)
	bPad := arena.Alloc(layout.Padded)
	p.b.CopyDigits(bPad, 0)
	sum := arena.Alloc(layout.Padded + 1)

	a, b, err := scatterOperands(ctx, p.c, layout, aPad, bPad)
	if err != nil {
		return err
	}

	// Rank 0 adds straight into its slot of the assembled buffer, so the
	// carry applied after the gather lands in place.
	own := layout.ChunkOf(rank)
	mine := sum[own.Start:own.End()]
	link := collectiveLink(rank, size)
	prop := carry.NewPropagator(rank, link, carry.Blocking, carry.NewCommChannel(p.c, link),
		p.opts.carryOptions(spanObs)...)
	if err := prop.Compute(a, b, mine); err != nil {
		return err
	}

	if err := comm.Gather(ctx, p.c, 0, mine, rankBlocks(sum, layout)); err != nil {
		return apperrors.ProtocolError{Rank: rank, Op: "gather results", Cause: err}
	}
	if err := prop.Receive(ctx); err != nil {
		return err
	}
	if err := prop.Forward(ctx); err != nil {
		return err
	}

	overflow := prop.Carry()
	p.result, err = assemble(sum, layout.Padded, overflow)
	if err != nil {
		return apperrors.ProtocolError{Rank: rank, Op: "assemble", Cause: err}
	}
	p.opts.logger.Debug("sum assembled", logging.Int("digits", p.result.Len()),
		logging.Int("padded", layout.Padded), logging.Int("overflow", int(overflow)))
	return nil
}

func (p *collectiveCoordinator) Result() bignum.BigNumber { return p.result }

type collectiveWorker struct {
	c    comm.Communicator
	opts options
}

func (w *collectiveWorker) Participate(ctx context.Context) error {
	ctx, span := tracing.StartParticipant(ctx, "collective", "worker", w.c.Rank())
	defer span.End()
	return tracing.RecordError(span, w.run(ctx, tracing.CarryObserver(span)))
}

func (w *collectiveWorker) run(ctx context.Context, spanObs carry.Observer) error {
	rank := w.c.Rank()
	layout, err := shareLayout(ctx, w.c, nil)
	if err != nil {
		return err
	}
	a, b, err := scatterOperands(ctx, w.c, layout, nil, nil)
	if err != nil {
		return err
	}

	arena := memory.NewDigitArena(layout.ChunkSize)
	result := arena.Alloc(layout.ChunkSize)
	link := collectiveLink(rank, w.c.Size())
	prop := carry.NewPropagator(rank, link, carry.Blocking, carry.NewCommChannel(w.c, link),
		w.opts.carryOptions(spanObs)...)
	if err := prop.Run(ctx, a, b, result); err != nil {
		return err
	}

	if err := comm.Gather(ctx, w.c, 0, result, nil); err != nil {
		return apperrors.ProtocolError{Rank: rank, Op: "gather results", Cause: err}
	}
	w.opts.logger.Debug("chunk done", logging.Int("rank", rank),
		logging.String("chunk", layout.ChunkOf(rank).String()), logging.Int("carry", int(prop.Carry())))
	return nil
}
