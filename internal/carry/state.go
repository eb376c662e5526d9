package carry

import "fmt"

// Token is the carry crossing a chunk boundary. Correct addition only ever
// produces 0 or 1.
type Token byte

// MaxToken is the largest carry a chunk boundary can see.
const MaxToken Token = 1

// State is a step of the protocol as seen by one chunk owner.
type State int

const (
	ComputingLocal State = iota
	AwaitingCarryIn
	ApplyingCarry
	ForwardingCarry
	Done
)

var stateNames = [...]string{
	ComputingLocal:  "ComputingLocal",
	AwaitingCarryIn: "AwaitingCarryIn",
	ApplyingCarry:   "ApplyingCarry",
	ForwardingCarry: "ForwardingCarry",
	Done:            "Done",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// Mode selects when the carry receive is posted.
type Mode int

const (
	// Blocking receives the carry after the local addition.
	Blocking Mode = iota
	// Overlapped posts the receive before the local addition and waits for
	// it afterwards.
	Overlapped
)

func (m Mode) String() string {
	switch m {
	case Blocking:
		return "blocking"
	case Overlapped:
		return "overlapped"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// None marks a missing neighbour in a Link.
const None = -1

// Link places one chunk owner in the carry chain.
type Link struct {
	// Predecessor is the rank owning the chunk just below, or None.
	Predecessor int
	// ReceiveTag is the tag the predecessor's carry arrives with.
	ReceiveTag int
	// Successor is the rank that receives this owner's carry, or None when
	// the carry stays local as the final overflow.
	Successor int
	// ForwardTag is the tag used when sending to Successor.
	ForwardTag int
}

// HasPredecessor reports whether a carry must be received.
func (l Link) HasPredecessor() bool { return l.Predecessor != None }

// HasSuccessor reports whether the carry must be sent.
func (l Link) HasSuccessor() bool { return l.Successor != None }
