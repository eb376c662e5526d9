// Package engine runs a distributed addition over a comm world.
//
// A Strategy decides how operands reach the workers and how results come
// back. Every rank plays exactly one role, chosen once by Join: rank 0 is
// the Coordinator, every other rank a Worker. Both roles implement
// Participant, so a multi-process deployment calls Participate on the role
// of its own rank while Run drives every rank of an in-process world with
// one goroutine each.
//
// Strategies:
//
//	sequential   rank 0 adds alone, other ranks idle
//	synchronous  point-to-point distribution, blocking carry receive
//	overlapped   point-to-point distribution, carry receive posted before the local addition
//	collective   scatter/gather distribution over a padded layout, rank 0 owns the top chunk
package engine
