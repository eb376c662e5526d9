package comm

import (
	"context"
	"errors"
	"fmt"
)

// ErrClosed is returned by operations on a closed communicator.
var ErrClosed = errors.New("comm: communicator closed")

// Communicator is one rank's endpoint in a world.
type Communicator interface {
	// Rank returns this endpoint's rank.
	Rank() int
	// Size returns the number of ranks in the world.
	Size() int
	// Send delivers payload to rank dst under tag. It returns once the
	// message is queued at the receiver.
	Send(ctx context.Context, dst, tag int, payload []byte) error
	// Recv blocks until a message from src with tag is available.
	Recv(ctx context.Context, src, tag int) ([]byte, error)
	// Irecv posts a receive without blocking. The message is claimed when
	// the returned request is waited on or tested.
	Irecv(src, tag int) *Request
	// Close releases the endpoint. Pending receives fail with ErrClosed.
	Close() error
}

// Transport names a Communicator implementation.
type Transport string

// Supported transports.
const (
	TransportLocal Transport = "local"
	TransportGRPC  Transport = "grpc"
)

// Transports lists the supported transport names.
func Transports() []string {
	return []string{string(TransportLocal), string(TransportGRPC)}
}

// NewWorld creates size connected endpoints in this process.
func NewWorld(t Transport, size int) ([]Communicator, error) {
	switch t {
	case TransportLocal, "":
		return NewLocalWorld(size)
	case TransportGRPC:
		return NewGRPCWorld(size)
	}
	return nil, fmt.Errorf("comm: unknown transport %q", t)
}

// CloseAll closes every endpoint and returns the first error.
func CloseAll(comms []Communicator) error {
	var first error
	for _, c := range comms {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func checkRank(rank, size int) error {
	if rank < 0 || rank >= size {
		return fmt.Errorf("comm: rank %d out of range [0,%d)", rank, size)
	}
	return nil
}
