package comm

import (
	"context"
	"sync"
)

// mailboxDepth bounds how many undelivered messages one (source, tag) pair
// may queue before Send blocks.
const mailboxDepth = 64

type mailKey struct {
	src, tag int
}

// mailbox holds the messages addressed to one rank, one FIFO per
// (source, tag) pair.
type mailbox struct {
	mu       sync.Mutex
	queues   map[mailKey]chan []byte
	closed   chan struct{}
	closeOne sync.Once
}

func newMailbox() *mailbox {
	return &mailbox{
		queues: make(map[mailKey]chan []byte),
		closed: make(chan struct{}),
	}
}

func (m *mailbox) queue(src, tag int) chan []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := mailKey{src: src, tag: tag}
	q, ok := m.queues[k]
	if !ok {
		q = make(chan []byte, mailboxDepth)
		m.queues[k] = q
	}
	return q
}

// deliver copies payload into the (src, tag) queue.
func (m *mailbox) deliver(ctx context.Context, src, tag int, payload []byte) error {
	msg := make([]byte, len(payload))
	copy(msg, payload)
	select {
	case <-m.closed:
		return ErrClosed
	default:
	}
	select {
	case m.queue(src, tag) <- msg:
		return nil
	case <-m.closed:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *mailbox) take(ctx context.Context, src, tag int) ([]byte, error) {
	return wait(ctx, m.queue(src, tag), m.closed)
}

func (m *mailbox) close() {
	m.closeOne.Do(func() { close(m.closed) })
}

func wait(ctx context.Context, q <-chan []byte, closed <-chan struct{}) ([]byte, error) {
	select {
	case msg := <-q:
		return msg, nil
	case <-closed:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Request is a posted, not yet completed receive.
type Request struct {
	src, tag int
	queue    <-chan []byte
	closed   <-chan struct{}
	err      error
	msg      []byte
	done     bool
}

func newRequest(m *mailbox, src, tag int) *Request {
	return &Request{src: src, tag: tag, queue: m.queue(src, tag), closed: m.closed}
}

func failedRequest(src, tag int, err error) *Request {
	return &Request{src: src, tag: tag, err: err, done: true}
}

// Source returns the rank the request receives from.
func (r *Request) Source() int { return r.src }

// Wait blocks until the message has arrived and returns it. Calling Wait
// again returns the same message.
func (r *Request) Wait(ctx context.Context) ([]byte, error) {
	if r.done {
		return r.msg, r.err
	}
	msg, err := wait(ctx, r.queue, r.closed)
	if err != nil {
		return nil, err
	}
	r.msg, r.done = msg, true
	return msg, nil
}

// Test reports whether the message has arrived, claiming it if so.
func (r *Request) Test() ([]byte, bool) {
	if r.done {
		return r.msg, r.err == nil
	}
	select {
	case msg := <-r.queue:
		r.msg, r.done = msg, true
		return msg, true
	default:
		return nil, false
	}
}
