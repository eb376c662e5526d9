package comm

import (
	"context"
	"fmt"
)

// localComm is a rank of an in-process world.
type localComm struct {
	rank  int
	boxes []*mailbox
}

// NewLocalWorld creates size endpoints connected through in-memory queues.
func NewLocalWorld(size int) ([]Communicator, error) {
	if size < 1 {
		return nil, fmt.Errorf("comm: world size must be positive, got %d", size)
	}
	boxes := make([]*mailbox, size)
	for i := range boxes {
		boxes[i] = newMailbox()
	}
	comms := make([]Communicator, size)
	for i := range comms {
		comms[i] = &localComm{rank: i, boxes: boxes}
	}
	return comms, nil
}

func (l *localComm) Rank() int { return l.rank }

func (l *localComm) Size() int { return len(l.boxes) }

func (l *localComm) Send(ctx context.Context, dst, tag int, payload []byte) error {
	if err := checkRank(dst, len(l.boxes)); err != nil {
		return err
	}
	return l.boxes[dst].deliver(ctx, l.rank, tag, payload)
}

func (l *localComm) Recv(ctx context.Context, src, tag int) ([]byte, error) {
	if err := checkRank(src, len(l.boxes)); err != nil {
		return nil, err
	}
	return l.boxes[l.rank].take(ctx, src, tag)
}

func (l *localComm) Irecv(src, tag int) *Request {
	if err := checkRank(src, len(l.boxes)); err != nil {
		return failedRequest(src, tag, err)
	}
	return newRequest(l.boxes[l.rank], src, tag)
}

func (l *localComm) Close() error {
	l.boxes[l.rank].close()
	return nil
}
