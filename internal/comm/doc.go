// Package comm provides the message-passing world the ranks of one run live
// in: a fixed set of ranks 0..Size()-1 exchanging tagged byte messages.
//
// Messages from one rank to another with the same tag arrive in the order
// they were sent. Payloads are copied on send, so ranks never share memory
// even when they run in the same process. Receives block until a matching
// message arrives or the context ends; there is no other timeout.
//
// Two transports are provided. The local transport runs every rank in the
// current process and uses channels as wires. The gRPC transport gives each
// rank its own listener, so ranks can be separate OS processes started with
// the same command line and different rank numbers.
package comm
