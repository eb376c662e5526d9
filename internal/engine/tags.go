package engine

import (
	"encoding/binary"
	"fmt"
)

// Message tags of the point-to-point protocol.
const (
	TagLengths         = 0
	TagChunkInfo       = 1
	TagDigitsA         = 2
	TagDigitsB         = 3
	TagResult          = 4
	TagFinalCarry      = 5
	TagCarry           = 6
	TagCollectiveCarry = 7
)

// TagName returns a short label for tag, used in logs and metrics.
func TagName(tag int) string {
	switch tag {
	case TagLengths:
		return "lengths"
	case TagChunkInfo:
		return "chunk_info"
	case TagDigitsA:
		return "digits_a"
	case TagDigitsB:
		return "digits_b"
	case TagResult:
		return "result"
	case TagFinalCarry:
		return "final_carry"
	case TagCarry:
		return "carry"
	case TagCollectiveCarry:
		return "collective_carry"
	}
	return "collective"
}

func encodeInts(vals ...int) []byte {
	buf := make([]byte, 0, len(vals)*binary.MaxVarintLen64)
	for _, v := range vals {
		buf = binary.AppendUvarint(buf, uint64(v))
	}
	return buf
}

func decodeInts(msg []byte, n int) ([]int, error) {
	out := make([]int, n)
	for i := range out {
		v, size := binary.Uvarint(msg)
		if size <= 0 {
			return nil, fmt.Errorf("malformed header: field %d of %d", i+1, n)
		}
		out[i] = int(v)
		msg = msg[size:]
	}
	if len(msg) != 0 {
		return nil, fmt.Errorf("malformed header: %d trailing bytes", len(msg))
	}
	return out, nil
}
