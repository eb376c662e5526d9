package carry

import (
	"context"
	"fmt"

	"github.com/agbru/addcalc/internal/comm"
)

//go:generate mockgen -destination=mocks/mock_channel.go -package=mocks . Channel,Pending

// Channel moves carry tokens between neighbouring chunk owners.
type Channel interface {
	// Send hands the carry to the successor.
	Send(ctx context.Context, t Token) error
	// BlockingReceive waits for the predecessor's carry.
	BlockingReceive(ctx context.Context) (Token, error)
	// IssueReceive posts a receive for the predecessor's carry without
	// waiting for it.
	IssueReceive() Pending
}

// Pending is a posted carry receive.
type Pending interface {
	// Await blocks until the carry has arrived.
	Await(ctx context.Context) (Token, error)
}

// PendingFunc adapts a function to the Pending interface.
type PendingFunc func(ctx context.Context) (Token, error)

// Await calls f.
func (f PendingFunc) Await(ctx context.Context) (Token, error) { return f(ctx) }

type commChannel struct {
	c    comm.Communicator
	link Link
}

// NewCommChannel returns a Channel that exchanges tokens over c, receiving
// from link.Predecessor and sending to link.Successor.
func NewCommChannel(c comm.Communicator, link Link) Channel {
	return &commChannel{c: c, link: link}
}

func (ch *commChannel) Send(ctx context.Context, t Token) error {
	if !ch.link.HasSuccessor() {
		return fmt.Errorf("carry: rank %d has no successor", ch.c.Rank())
	}
	return ch.c.Send(ctx, ch.link.Successor, ch.link.ForwardTag, Encode(t))
}

func (ch *commChannel) BlockingReceive(ctx context.Context) (Token, error) {
	if !ch.link.HasPredecessor() {
		return 0, fmt.Errorf("carry: rank %d has no predecessor", ch.c.Rank())
	}
	msg, err := ch.c.Recv(ctx, ch.link.Predecessor, ch.link.ReceiveTag)
	if err != nil {
		return 0, err
	}
	return Decode(msg)
}

func (ch *commChannel) IssueReceive() Pending {
	if !ch.link.HasPredecessor() {
		err := fmt.Errorf("carry: rank %d has no predecessor", ch.c.Rank())
		return PendingFunc(func(context.Context) (Token, error) { return 0, err })
	}
	req := ch.c.Irecv(ch.link.Predecessor, ch.link.ReceiveTag)
	return PendingFunc(func(ctx context.Context) (Token, error) {
		// A carry that already arrived is taken without blocking, even when
		// ctx is done.
		if msg, ok := req.Test(); ok {
			return Decode(msg)
		}
		msg, err := req.Wait(ctx)
		if err != nil {
			return 0, err
		}
		return Decode(msg)
	})
}

// Encode returns the wire form of t.
func Encode(t Token) []byte { return []byte{byte(t)} }

// Decode parses the wire form of a token.
func Decode(msg []byte) (Token, error) {
	if len(msg) != 1 {
		return 0, fmt.Errorf("carry: malformed token of %d bytes", len(msg))
	}
	t := Token(msg[0])
	if t > MaxToken {
		return 0, fmt.Errorf("carry: token %d out of range", t)
	}
	return t, nil
}
