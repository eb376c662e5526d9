// Package carry implements the carry propagation protocol that chains the
// carries of consecutive chunks across ranks.
//
// Every chunk owner runs one Propagator. It adds its chunk locally, waits for
// the carry of the chunk just below its own, ripples that carry through its
// result and hands its own outgoing carry to the owner of the chunk just
// above. The owner of the lowest chunk has no predecessor and forwards its
// local carry immediately; the owner of the highest chunk forwards to the
// coordinator, or keeps it when it is the coordinator itself.
//
// The two receive modes differ only in when the receive is posted:
//
//	Blocking:   Compute -> BlockingReceive -> Ripple -> Send
//	Overlapped: IssueReceive -> Compute -> Await -> Ripple -> Send
//
// Messages travel through a Channel, which NewCommChannel binds to a
// comm.Communicator. Tests substitute the generated mock in carry/mocks.
package carry
