package engine

import (
	"context"
	"fmt"

	"github.com/agbru/addcalc/internal/bignum"
	"github.com/agbru/addcalc/internal/carry"
	"github.com/agbru/addcalc/internal/comm"
	apperrors "github.com/agbru/addcalc/internal/errors"
	"github.com/agbru/addcalc/internal/logging"
	"github.com/agbru/addcalc/internal/memory"
	"github.com/agbru/addcalc/internal/partition"
	"github.com/agbru/addcalc/internal/tracing"
)

// pointToPoint distributes chunks with one message per operand slice and
// collects one result message per worker. Rank 0 owns no chunk.
type pointToPoint struct {
	name string
	mode carry.Mode
}

// Synchronous returns the strategy whose workers receive their carry with a
// blocking receive after the local addition.
func Synchronous() Strategy { return pointToPoint{name: "synchronous", mode: carry.Blocking} }

// Overlapped returns the strategy whose workers post the carry receive
// before the local addition and wait for it afterwards.
func Overlapped() Strategy { return pointToPoint{name: "overlapped", mode: carry.Overlapped} }

func (s pointToPoint) Name() string { return s.name }

func (pointToPoint) MinProcesses() int { return 2 }

func (s pointToPoint) Coordinator(c comm.Communicator, a, b bignum.BigNumber, opts ...Option) Coordinator {
	return &p2pCoordinator{strategy: s.name, c: c, a: a, b: b, opts: newOptions(opts)}
}

func (s pointToPoint) Worker(c comm.Communicator, opts ...Option) Participant {
	return &p2pWorker{strategy: s.name, mode: s.mode, c: c, opts: newOptions(opts)}
}

// p2pLink places worker rank in the chain 1 -> 2 -> ... -> size-1 -> 0.
func p2pLink(rank, size int) carry.Link {
	link := carry.Link{Predecessor: carry.None, ReceiveTag: TagCarry, Successor: rank + 1, ForwardTag: TagCarry}
	if rank > 1 {
		link.Predecessor = rank - 1
	}
	if rank == size-1 {
		link.Successor, link.ForwardTag = 0, TagFinalCarry
	}
	return link
}

type p2pCoordinator struct {
	strategy string
	c        comm.Communicator
	a, b     bignum.BigNumber
	opts     options
	result   bignum.BigNumber
}

func (p *p2pCoordinator) Participate(ctx context.Context) error {
	ctx, span := tracing.StartParticipant(ctx, p.strategy, "coordinator", p.c.Rank())
	defer span.End()
	return tracing.RecordError(span, p.run(ctx))
}

func (p *p2pCoordinator) run(ctx context.Context) error {
	maxLen := max(p.a.Len(), p.b.Len())
	chunks, err := partition.Partition(maxLen, p.c.Size()-1)
	if err != nil {
		return apperrors.NewConfigError("%v", err)
	}

	arena := memory.NewDigitArena(p.a.Len() + p.b.Len() + maxLen + 1)
	aDigits := arena.Alloc(p.a.Len())
	p.a.CopyDigits(aDigits, 0)
	bDigits := arena.Alloc(p.b.Len())
	p.b.CopyDigits(bDigits, 0)

	lengths := encodeInts(p.a.Len(), p.b.Len(), maxLen)
	for _, ch := range chunks {
		msgs := []struct {
			tag     int
			payload []byte
		}{
			{TagLengths, lengths},
			{TagChunkInfo, encodeInts(ch.Start, ch.Size)},
			{TagDigitsA, ch.Slice(aDigits)},
			{TagDigitsB, ch.Slice(bDigits)},
		}
		for _, m := range msgs {
			if err := p.c.Send(ctx, ch.OwnerRank, m.tag, m.payload); err != nil {
				return apperrors.ProtocolError{Rank: p.c.Rank(), Op: "send " + TagName(m.tag), Cause: err}
			}
		}
		p.opts.logger.Debug("chunk sent", logging.Int("worker", ch.OwnerRank),
			logging.Int("start", ch.Start), logging.Int("size", ch.Size))
	}

	sum := arena.Alloc(maxLen + 1)
	for _, ch := range chunks {
		msg, err := p.c.Recv(ctx, ch.OwnerRank, TagResult)
		if err != nil {
			return apperrors.ProtocolError{Rank: p.c.Rank(), Op: "receive result", Cause: err}
		}
		if len(msg) != ch.Size {
			return apperrors.ProtocolError{
				Rank:  p.c.Rank(),
				Op:    "receive result",
				Cause: fmt.Errorf("rank %d sent %d digits for a chunk of %d", ch.OwnerRank, len(msg), ch.Size),
			}
		}
		copy(sum[ch.Start:], msg)
	}

	last := chunks[len(chunks)-1].OwnerRank
	msg, err := p.c.Recv(ctx, last, TagFinalCarry)
	if err != nil {
		return apperrors.ProtocolError{Rank: p.c.Rank(), Op: "receive final carry", Cause: err}
	}
	overflow, err := carry.Decode(msg)
	if err != nil {
		return apperrors.ProtocolError{Rank: p.c.Rank(), Op: "receive final carry", Cause: err}
	}

	p.result, err = assemble(sum, maxLen, overflow)
	if err != nil {
		return apperrors.ProtocolError{Rank: p.c.Rank(), Op: "assemble", Cause: err}
	}
	p.opts.logger.Debug("sum assembled", logging.Int("digits", p.result.Len()),
		logging.Int("overflow", int(overflow)),
		logging.Int("arena_used", arena.Used()), logging.Int("arena_capacity", arena.Capacity()))
	// The result owns its digits, so the scratch block can be released.
	arena.Reset()
	return nil
}

func (p *p2pCoordinator) Result() bignum.BigNumber { return p.result }

// assemble turns the concatenated chunk results into a number, adding the
// overflow digit when it is set. sum must have room for maxLen+1 digits.
func assemble(sum []byte, maxLen int, overflow carry.Token) (bignum.BigNumber, error) {
	n := maxLen
	if overflow != 0 {
		sum[maxLen] = byte(overflow)
		n++
	}
	return bignum.FromDigits(sum[:n])
}

type p2pWorker struct {
	strategy string
	mode     carry.Mode
	c        comm.Communicator
	opts     options
}

func (w *p2pWorker) Participate(ctx context.Context) error {
	ctx, span := tracing.StartParticipant(ctx, w.strategy, "worker", w.c.Rank())
	defer span.End()
	return tracing.RecordError(span, w.run(ctx, tracing.CarryObserver(span)))
}

func (w *p2pWorker) recv(ctx context.Context, tag int) ([]byte, error) {
	msg, err := w.c.Recv(ctx, 0, tag)
	if err != nil {
		return nil, apperrors.ProtocolError{Rank: w.c.Rank(), Op: "receive " + TagName(tag), Cause: err}
	}
	return msg, nil
}

func (w *p2pWorker) run(ctx context.Context, spanObs carry.Observer) error {
	rank := w.c.Rank()
	msg, err := w.recv(ctx, TagLengths)
	if err != nil {
		return err
	}
	lengths, err := decodeInts(msg, 3)
	if err != nil {
		return apperrors.ProtocolError{Rank: rank, Op: "receive lengths", Cause: err}
	}
	if msg, err = w.recv(ctx, TagChunkInfo); err != nil {
		return err
	}
	info, err := decodeInts(msg, 2)
	if err != nil {
		return apperrors.ProtocolError{Rank: rank, Op: "receive chunk info", Cause: err}
	}
	chunk := partition.Chunk{OwnerRank: rank, Start: info[0], Size: info[1]}
	if chunk.End() > lengths[2] {
		return apperrors.ProtocolError{Rank: rank, Op: "receive chunk info",
			Cause: fmt.Errorf("chunk %s exceeds %d digits", chunk, lengths[2])}
	}

	a, err := w.recv(ctx, TagDigitsA)
	if err != nil {
		return err
	}
	b, err := w.recv(ctx, TagDigitsB)
	if err != nil {
		return err
	}
	if len(a) > chunk.Size || len(b) > chunk.Size {
		return apperrors.ProtocolError{Rank: rank, Op: "receive digits",
			Cause: fmt.Errorf("got %d and %d digits for a chunk of %d", len(a), len(b), chunk.Size)}
	}

	arena := memory.NewDigitArena(chunk.Size)
	result := arena.Alloc(chunk.Size)

	link := p2pLink(rank, w.c.Size())
	prop := carry.NewPropagator(rank, link, w.mode, carry.NewCommChannel(w.c, link),
		w.opts.carryOptions(spanObs)...)
	if err := prop.Run(ctx, a, b, result); err != nil {
		return err
	}

	// The result leaves only once the incoming carry is applied.
	if err := w.c.Send(ctx, 0, TagResult, result); err != nil {
		return apperrors.ProtocolError{Rank: rank, Op: "send result", Cause: err}
	}
	w.opts.logger.Debug("chunk done", logging.Int("rank", rank), logging.String("chunk", chunk.String()),
		logging.Int("carry", int(prop.Carry())))
	return nil
}
