// Package partition splits the digit range of the operands into contiguous,
// disjoint chunks, one per participating rank.
package partition

import "fmt"

// Chunk is the half-open digit range [Start, Start+Size) assigned to one rank.
type Chunk struct {
	OwnerRank int
	Start     int
	Size      int
}

// End returns the first digit position past the chunk.
func (c Chunk) End() int { return c.Start + c.Size }

// Clip returns how many digits of an operand of length n fall inside the
// chunk: min(Size, max(0, n-Start)).
func (c Chunk) Clip(n int) int {
	present := n - c.Start
	if present < 0 {
		return 0
	}
	if present > c.Size {
		return c.Size
	}
	return present
}

// Slice returns the part of digits covered by the chunk, cut short where
// digits ends. The result aliases digits.
func (c Chunk) Slice(digits []byte) []byte {
	if c.Start >= len(digits) {
		return digits[len(digits):]
	}
	return digits[c.Start : c.Start+c.Clip(len(digits))]
}

func (c Chunk) String() string {
	return fmt.Sprintf("rank %d [%d,%d)", c.OwnerRank, c.Start, c.End())
}

// Partition divides [0, maxLength) among numWorkers workers owning ranks
// 1..numWorkers. Each worker gets maxLength/numWorkers digits and the first
// maxLength%numWorkers workers get one more.
func Partition(maxLength, numWorkers int) ([]Chunk, error) {
	if numWorkers < 1 {
		return nil, fmt.Errorf("partition: need at least one worker, got %d", numWorkers)
	}
	if maxLength < 0 {
		return nil, fmt.Errorf("partition: negative length %d", maxLength)
	}
	base := maxLength / numWorkers
	remainder := maxLength % numWorkers

	chunks := make([]Chunk, numWorkers)
	start := 0
	for i := 1; i <= numWorkers; i++ {
		size := base
		if i <= remainder {
			size++
		}
		chunks[i-1] = Chunk{OwnerRank: i, Start: start, Size: size}
		start += size
	}
	return chunks, nil
}

// Layout is the padded, equal-size division used by the collective strategy.
type Layout struct {
	// Padded is maxLength rounded up to a multiple of the process count.
	Padded int
	// ChunkSize is Padded divided by the process count.
	ChunkSize int
	// Chunks lists one chunk per process in ascending significance, which is
	// also carry order: ranks 1..procs-1, then rank 0 with the top chunk.
	Chunks []Chunk
}

// Collective builds the padded layout for procs processes. Padding digits
// are zero and sit above maxLength.
func Collective(maxLength, procs int) (Layout, error) {
	if procs < 1 {
		return Layout{}, fmt.Errorf("partition: need at least one process, got %d", procs)
	}
	if maxLength < 0 {
		return Layout{}, fmt.Errorf("partition: negative length %d", maxLength)
	}
	padded := PadLength(maxLength, procs)
	size := padded / procs

	chunks := make([]Chunk, procs)
	for k := 0; k < procs; k++ {
		chunks[k] = Chunk{OwnerRank: CollectiveOwner(k, procs), Start: k * size, Size: size}
	}
	return Layout{Padded: padded, ChunkSize: size, Chunks: chunks}, nil
}

// PadLength rounds maxLength up to a multiple of procs.
func PadLength(maxLength, procs int) int {
	return (maxLength + procs - 1) / procs * procs
}

// CollectiveOwner returns the rank owning chunk index k of a collective
// layout. Rank 0 owns the most-significant chunk.
func CollectiveOwner(k, procs int) int {
	if k == procs-1 {
		return 0
	}
	return k + 1
}

// CollectiveIndex is the inverse of CollectiveOwner.
func CollectiveIndex(rank, procs int) int {
	if rank == 0 {
		return procs - 1
	}
	return rank - 1
}

// ChunkOf returns the chunk owned by rank.
func (l Layout) ChunkOf(rank int) Chunk {
	return l.Chunks[CollectiveIndex(rank, len(l.Chunks))]
}
