package comm

import (
	"context"
	"fmt"
)

// Tags at or above ReservedTagBase are used by the collectives and must not
// be used for point-to-point traffic.
const ReservedTagBase = 1 << 20

const (
	tagBcast = ReservedTagBase + iota
	tagScatter
	tagGather
)

// Bcast sends data from root to every rank and returns it on all ranks.
// Non-root ranks ignore their data argument.
func Bcast(ctx context.Context, c Communicator, root int, data []byte) ([]byte, error) {
	if err := checkRank(root, c.Size()); err != nil {
		return nil, err
	}
	if c.Rank() != root {
		return c.Recv(ctx, root, tagBcast)
	}
	for r := 0; r < c.Size(); r++ {
		if r == root {
			continue
		}
		if err := c.Send(ctx, r, tagBcast, data); err != nil {
			return nil, fmt.Errorf("bcast to rank %d: %w", r, err)
		}
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Scatter distributes blocks[r] from root to rank r and returns the block
// received by the calling rank. Only root reads blocks, which must hold one
// entry per rank.
func Scatter(ctx context.Context, c Communicator, root int, blocks [][]byte) ([]byte, error) {
	if err := checkRank(root, c.Size()); err != nil {
		return nil, err
	}
	if c.Rank() != root {
		return c.Recv(ctx, root, tagScatter)
	}
	if len(blocks) != c.Size() {
		return nil, fmt.Errorf("scatter: %d blocks for %d ranks", len(blocks), c.Size())
	}
	for r, block := range blocks {
		if r == root {
			continue
		}
		if err := c.Send(ctx, r, tagScatter, block); err != nil {
			return nil, fmt.Errorf("scatter to rank %d: %w", r, err)
		}
	}
	own := make([]byte, len(blocks[root]))
	copy(own, blocks[root])
	return own, nil
}

// Gather collects local from every rank at root, copying rank r's data into
// blocks[r]. Only root reads blocks, which must hold one entry per rank and
// be large enough for each contribution.
func Gather(ctx context.Context, c Communicator, root int, local []byte, blocks [][]byte) error {
	if err := checkRank(root, c.Size()); err != nil {
		return err
	}
	if c.Rank() != root {
		return c.Send(ctx, root, tagGather, local)
	}
	if len(blocks) != c.Size() {
		return fmt.Errorf("gather: %d blocks for %d ranks", len(blocks), c.Size())
	}
	for r := range blocks {
		if r == root {
			copy(blocks[r], local)
			continue
		}
		msg, err := c.Recv(ctx, r, tagGather)
		if err != nil {
			return fmt.Errorf("gather from rank %d: %w", r, err)
		}
		if len(msg) > len(blocks[r]) {
			return fmt.Errorf("gather: rank %d sent %d bytes into a %d byte block", r, len(msg), len(blocks[r]))
		}
		copy(blocks[r], msg)
	}
	return nil
}
